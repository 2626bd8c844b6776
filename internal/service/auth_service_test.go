package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MES4game/POLYHUB-WEB-BACK/config"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/dto"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/repository"
	"github.com/MES4game/POLYHUB-WEB-BACK/pkg/jwt"
)

// ── Mock TokenStore / Mailer ──

type mockTokenStore struct {
	consumed map[string]bool
	lastTTL  time.Duration
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{consumed: make(map[string]bool)}
}

func (m *mockTokenStore) ConsumeTokenID(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	m.lastTTL = ttl
	if m.consumed[jti] {
		return false, nil
	}
	m.consumed[jti] = true
	return true, nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type mockMailer struct {
	sent     []sentMail
	failNext bool
}

func (m *mockMailer) Send(to, subject, body string) error {
	if m.failNext {
		m.failNext = false
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// ── 测试辅助 ──

func setupTestAuthService() (AuthService, *repository.Repository, *mockTokenStore, *mockMailer) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:     "api.polyhub.test",
			FrontURL: "http://localhost:5173",
		},
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL: 15 * time.Minute,
			SingleUseTTL:   time.Hour,
			BcryptCost:     bcrypt.MinCost,
		},
	}

	repo, _ := newMockRepository()
	jwtMgr := jwt.NewManager(&cfg.Auth, cfg.Server.Host)
	tokens := newMockTokenStore()
	mail := &mockMailer{}

	svc := NewAuthService(cfg, repo, jwtMgr, tokens, mail, zap.NewNop())
	return svc, repo, tokens, mail
}

func validRegisterRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:     "jean.dupont@example.com",
		Pseudo:    "jean.dupont",
		Firstname: "Jean",
		Lastname:  "Dupont",
		Password:  "password12345",
	}
}

// extractMailToken 从邮件正文的链接中取出末段的令牌
func extractMailToken(t *testing.T, body string) string {
	t.Helper()
	for _, field := range strings.Fields(body) {
		if strings.HasPrefix(field, "http") {
			parts := strings.Split(field, "/")
			return parts[len(parts)-1]
		}
	}
	t.Fatal("邮件正文中找不到链接")
	return ""
}

// registerAndVerify 注册并完成邮箱验证，返回注册邮箱
func registerAndVerify(t *testing.T, svc AuthService, mail *mockMailer) string {
	t.Helper()
	req := validRegisterRequest()
	if err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	token := extractMailToken(t, mail.sent[len(mail.sent)-1].Body)
	if err := svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("VerifyEmail 应成功: %v", err)
	}
	return req.Email
}

// ── 注册测试 ──

func TestRegister_Success(t *testing.T) {
	svc, repo, _, mail := setupTestAuthService()

	if err := svc.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}

	user, err := repo.User.GetByEmail(context.Background(), "jean.dupont@example.com")
	if err != nil {
		t.Fatalf("注册后应能查到用户: %v", err)
	}
	if user.VerifiedEmail {
		t.Error("新注册用户邮箱不应已验证")
	}
	if len(mail.sent) != 1 {
		t.Fatalf("期望发送 1 封验证邮件，实际=%d", len(mail.sent))
	}
	if mail.sent[0].To != "jean.dupont@example.com" {
		t.Errorf("邮件收件人错误: %s", mail.sent[0].To)
	}
}

func TestRegister_InvalidFields(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	tests := []struct {
		name    string
		mutate  func(*dto.RegisterRequest)
		wantErr error
	}{
		{"邮箱无@", func(r *dto.RegisterRequest) { r.Email = "not-an-email" }, ErrEmailInvalid},
		{"邮箱域名非法", func(r *dto.RegisterRequest) { r.Email = "a.b@-bad-.com" }, ErrEmailInvalid},
		{"昵称过短", func(r *dto.RegisterRequest) { r.Pseudo = "ab" }, ErrPseudoInvalid},
		{"密码过短", func(r *dto.RegisterRequest) { r.Password = "short1" }, ErrPasswordInvalid},
		{"密码含非法字符", func(r *dto.RegisterRequest) { r.Password = "password 12345" }, ErrPasswordInvalid},
		{"姓名为空", func(r *dto.RegisterRequest) { r.Firstname = "   " }, ErrNameInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest()
			tt.mutate(req)
			if err := svc.Register(context.Background(), req); !errors.Is(err, tt.wantErr) {
				t.Errorf("期望 %v，实际: %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	if err := svc.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("首次注册应成功: %v", err)
	}

	dup := validRegisterRequest()
	dup.Pseudo = "autre.pseudo"
	if err := svc.Register(context.Background(), dup); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
}

func TestRegister_DuplicatePseudo(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	if err := svc.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("首次注册应成功: %v", err)
	}

	dup := validRegisterRequest()
	dup.Email = "autre.compte@example.com"
	if err := svc.Register(context.Background(), dup); !errors.Is(err, ErrPseudoTaken) {
		t.Errorf("期望 ErrPseudoTaken，实际: %v", err)
	}
}

func TestRegister_MailFailureRollsBack(t *testing.T) {
	svc, repo, _, mail := setupTestAuthService()
	mail.failNext = true

	err := svc.Register(context.Background(), validRegisterRequest())
	if !errors.Is(err, ErrMailSendFailed) {
		t.Fatalf("期望 ErrMailSendFailed，实际: %v", err)
	}

	// 补偿删除后应可用同一邮箱重试
	if _, err := repo.User.GetByEmail(context.Background(), "jean.dupont@example.com"); err == nil {
		t.Error("邮件发送失败后用户应被回收")
	}
	if err := svc.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Errorf("回收后重试注册应成功: %v", err)
	}
}

// ── 邮箱验证测试 ──

func TestVerifyEmail_Success(t *testing.T) {
	svc, repo, _, mail := setupTestAuthService()
	email := registerAndVerify(t, svc, mail)

	user, err := repo.User.GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("查询用户失败: %v", err)
	}
	if !user.VerifiedEmail {
		t.Error("验证后 VerifiedEmail 应为 true")
	}
}

func TestVerifyEmail_ReplayedToken(t *testing.T) {
	svc, _, _, mail := setupTestAuthService()

	if err := svc.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	token := extractMailToken(t, mail.sent[0].Body)

	if err := svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("首次验证应成功: %v", err)
	}
	if err := svc.VerifyEmail(context.Background(), token); !errors.Is(err, ErrAuthTokenInvalid) {
		t.Errorf("重放令牌期望 ErrAuthTokenInvalid，实际: %v", err)
	}
}

func TestVerifyEmail_ConsumeTTLMatchesRemainingLifetime(t *testing.T) {
	svc, _, tokens, mail := setupTestAuthService()

	if err := svc.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	token := extractMailToken(t, mail.sent[0].Body)

	if err := svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("验证应成功: %v", err)
	}
	// 占位 TTL 取令牌剩余有效期，必须为正且不超过签发时的一小时
	if tokens.lastTTL <= 0 || tokens.lastTTL > time.Hour {
		t.Errorf("占位 TTL 应在 (0, 1h] 区间，实际: %v", tokens.lastTTL)
	}
	if tokens.lastTTL < 59*time.Minute {
		t.Errorf("刚签发的令牌剩余有效期应接近一小时，实际: %v", tokens.lastTTL)
	}
}

func TestVerifyEmail_GarbageToken(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	if err := svc.VerifyEmail(context.Background(), "not.a.jwt"); !errors.Is(err, ErrAuthTokenInvalid) {
		t.Errorf("期望 ErrAuthTokenInvalid，实际: %v", err)
	}
}

// ── 登录测试 ──

func TestLogin_Success(t *testing.T) {
	svc, _, _, mail := setupTestAuthService()
	email := registerAndVerify(t, svc, mail)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: email,
		Password:   "password12345",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.Token == "" {
		t.Error("Token 不应为空")
	}
}

func TestLogin_ByPseudo(t *testing.T) {
	svc, _, _, mail := setupTestAuthService()
	registerAndVerify(t, svc, mail)

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "jean.dupont",
		Password:   "password12345",
	}); err != nil {
		t.Fatalf("昵称登录应成功: %v", err)
	}
}

func TestLogin_UnverifiedEmail(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	if err := svc.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "jean.dupont@example.com",
		Password:   "password12345",
	})
	if !errors.Is(err, ErrEmailNotVerified) {
		t.Errorf("期望 ErrEmailNotVerified，实际: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, mail := setupTestAuthService()
	email := registerAndVerify(t, svc, mail)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: email,
		Password:   "wrongpassword1",
	})
	if !errors.Is(err, ErrBadCredentials) {
		t.Errorf("期望 ErrBadCredentials，实际: %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "inconnu@example.com",
		Password:   "password12345",
	})
	if !errors.Is(err, ErrBadCredentials) {
		t.Errorf("期望 ErrBadCredentials，实际: %v", err)
	}
}

func TestLogin_BadFormat(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "a b",
		Password:   "password12345",
	})
	if !errors.Is(err, ErrLoginFormat) {
		t.Errorf("期望 ErrLoginFormat，实际: %v", err)
	}
}

// ── 密码重置测试 ──

func TestPasswordReset_FullFlow(t *testing.T) {
	svc, _, _, mail := setupTestAuthService()
	email := registerAndVerify(t, svc, mail)

	if err := svc.RequestPasswordReset(context.Background(), &dto.PasswordResetRequest{Email: email}); err != nil {
		t.Fatalf("RequestPasswordReset 应成功: %v", err)
	}
	token := extractMailToken(t, mail.sent[len(mail.sent)-1].Body)

	if err := svc.PatchPassword(context.Background(), &dto.PatchPasswordRequest{
		Token:    token,
		Password: "nouveaumotdepasse1",
	}); err != nil {
		t.Fatalf("PatchPassword 应成功: %v", err)
	}

	// 新密码可登录，旧密码失效
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: email,
		Password:   "nouveaumotdepasse1",
	}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: email,
		Password:   "password12345",
	}); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("旧密码应失效，实际: %v", err)
	}
}

func TestPasswordReset_UnknownEmail(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	err := svc.RequestPasswordReset(context.Background(), &dto.PasswordResetRequest{
		Email: "inconnu@example.com",
	})
	if !errors.Is(err, ErrEmailUnknown) {
		t.Errorf("期望 ErrEmailUnknown，实际: %v", err)
	}
}

func TestPatchPassword_ReplayedToken(t *testing.T) {
	svc, _, _, mail := setupTestAuthService()
	email := registerAndVerify(t, svc, mail)

	if err := svc.RequestPasswordReset(context.Background(), &dto.PasswordResetRequest{Email: email}); err != nil {
		t.Fatalf("RequestPasswordReset 应成功: %v", err)
	}
	token := extractMailToken(t, mail.sent[len(mail.sent)-1].Body)

	if err := svc.PatchPassword(context.Background(), &dto.PatchPasswordRequest{
		Token:    token,
		Password: "nouveaumotdepasse1",
	}); err != nil {
		t.Fatalf("首次重置应成功: %v", err)
	}
	if err := svc.PatchPassword(context.Background(), &dto.PatchPasswordRequest{
		Token:    token,
		Password: "encoreunautre12",
	}); !errors.Is(err, ErrAuthTokenInvalid) {
		t.Errorf("重放令牌期望 ErrAuthTokenInvalid，实际: %v", err)
	}
}

func TestPatchPassword_WrongPurposeToken(t *testing.T) {
	svc, repo, _, mail := setupTestAuthService()
	email := registerAndVerify(t, svc, mail)

	user, err := repo.User.GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("查询用户失败: %v", err)
	}

	// 用访问令牌冒充重置令牌
	cfg := &config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 15 * time.Minute,
		SingleUseTTL:   time.Hour,
	}
	access, err := jwt.NewManager(cfg, "api.polyhub.test").GenerateAccessToken(user.ID)
	if err != nil {
		t.Fatalf("生成访问令牌失败: %v", err)
	}

	if err := svc.PatchPassword(context.Background(), &dto.PatchPasswordRequest{
		Token:    access,
		Password: "nouveaumotdepasse1",
	}); !errors.Is(err, ErrAuthTokenInvalid) {
		t.Errorf("用途不符的令牌期望 ErrAuthTokenInvalid，实际: %v", err)
	}
}
