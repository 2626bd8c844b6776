package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MES4game/POLYHUB-WEB-BACK/config"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/dto"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/model"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/repository"
	"github.com/MES4game/POLYHUB-WEB-BACK/pkg/jwt"
	"github.com/MES4game/POLYHUB-WEB-BACK/pkg/validate"
)

// ── 认证模块业务错误 ──

var (
	ErrEmailInvalid      = errors.New("邮箱格式不合法")
	ErrPasswordInvalid   = errors.New("密码格式不合法")
	ErrLoginFormat       = errors.New("登录标识格式不合法")
	ErrEmailTaken        = errors.New("邮箱已被注册")
	ErrBadCredentials    = errors.New("账号或密码错误")
	ErrEmailNotVerified  = errors.New("邮箱尚未验证")
	ErrEmailUnknown      = errors.New("邮箱未注册")
	ErrAuthTokenInvalid  = errors.New("令牌无效或已使用")
	ErrCredentialMissing = errors.New("用户凭证缺失")
	ErrMailSendFailed    = errors.New("邮件发送失败")
)

// TokenStore 一次性令牌消费接口，同一 jti 只允许兑现一次
type TokenStore interface {
	ConsumeTokenID(ctx context.Context, jti string, ttl time.Duration) (bool, error)
}

// Mailer 邮件发送接口
type Mailer interface {
	Send(to, subject, body string) error
}

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) error
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	RequestPasswordReset(ctx context.Context, req *dto.PasswordResetRequest) error
	PatchPassword(ctx context.Context, req *dto.PatchPasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	tokens TokenStore
	mailer Mailer
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenStore,
	mailer Mailer,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		tokens: tokens,
		mailer: mailer,
		logger: logger,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	firstname := strings.TrimSpace(req.Firstname)
	lastname := strings.TrimSpace(req.Lastname)

	if !validate.Email(req.Email) {
		return ErrEmailInvalid
	}
	if !validate.Pseudo(req.Pseudo) {
		return ErrPseudoInvalid
	}
	if !validate.Password(req.Password) {
		return ErrPasswordInvalid
	}
	if len(firstname) < 1 || len(firstname) > 64 || len(lastname) < 1 || len(lastname) > 64 {
		return ErrNameInvalid
	}

	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.String("email", req.Email), zap.Error(err))
		return err
	}
	if _, err := s.repo.User.GetByPseudo(ctx, req.Pseudo); err == nil {
		return ErrPseudoTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.String("pseudo", req.Pseudo), zap.Error(err))
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.Auth.BcryptCost)
	if err != nil {
		s.logger.Error("密码散列失败", zap.Error(err))
		return err
	}

	user := &model.User{
		Email:     req.Email,
		Pseudo:    req.Pseudo,
		Firstname: firstname,
		Lastname:  lastname,
	}
	if err := s.repo.User.CreateWithPassword(ctx, user, string(hash)); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return err
	}

	// 令牌生成或邮件发送失败都回收刚注册的账号，否则邮箱和昵称会卡在一个永远无法验证的账号上
	token, err := s.jwtMgr.GenerateEmailVerifyToken(user.ID)
	if err != nil {
		s.logger.Error("生成验证令牌失败", zap.Int64("user_id", user.ID), zap.Error(err))
		s.compensateRegister(ctx, user.ID)
		return err
	}

	if err := s.sendVerifyMail(user, token); err != nil {
		s.compensateRegister(ctx, user.ID)
		return ErrMailSendFailed
	}

	return nil
}

// ────────────────────── VerifyEmail ──────────────────────

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.jwtMgr.ParseToken(token, jwt.PurposeEmailVerify)
	if err != nil {
		return ErrAuthTokenInvalid
	}

	// 占位只需覆盖令牌剩余有效期，过期后 Redis 自行清理
	fresh, err := s.tokens.ConsumeTokenID(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	if err != nil {
		s.logger.Error("兑现一次性令牌失败", zap.Error(err))
		return err
	}
	if !fresh {
		return ErrAuthTokenInvalid
	}

	if _, err := s.repo.User.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuthTokenInvalid
		}
		s.logger.Error("查询用户失败", zap.Int64("id", claims.UserID), zap.Error(err))
		return err
	}

	if err := s.repo.User.SetVerifiedEmail(ctx, claims.UserID); err != nil {
		s.logger.Error("标记邮箱已验证失败", zap.Int64("user_id", claims.UserID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 标识可以是邮箱或昵称，先按格式粗筛
	if !validate.Email(req.Identifier) && !validate.Pseudo(req.Identifier) {
		return nil, ErrLoginFormat
	}
	if !validate.Password(req.Password) {
		return nil, ErrLoginFormat
	}

	user, err := s.repo.User.GetByLogin(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	cred, err := s.repo.User.GetHashedPassword(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("用户凭证缺失", zap.Int64("user_id", user.ID))
			return nil, ErrCredentialMissing
		}
		s.logger.Error("查询用户凭证失败", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.HashedPass), []byte(req.Password)) != nil {
		return nil, ErrBadCredentials
	}

	if !user.VerifiedEmail {
		return nil, ErrEmailNotVerified
	}

	if err := s.repo.User.TouchLastConnection(ctx, user.ID); err != nil {
		s.logger.Warn("更新最后登录时间失败", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	token, err := s.jwtMgr.GenerateAccessToken(user.ID)
	if err != nil {
		s.logger.Error("签发访问令牌失败", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{Token: token}, nil
}

// ────────────────────── RequestPasswordReset ──────────────────────

func (s *authService) RequestPasswordReset(ctx context.Context, req *dto.PasswordResetRequest) error {
	if !validate.Email(req.Email) {
		return ErrEmailInvalid
	}

	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmailUnknown
		}
		s.logger.Error("查询用户失败", zap.String("email", req.Email), zap.Error(err))
		return err
	}

	token, err := s.jwtMgr.GeneratePasswordResetToken(user.ID)
	if err != nil {
		s.logger.Error("生成重置令牌失败", zap.Int64("user_id", user.ID), zap.Error(err))
		return err
	}

	if err := s.sendResetMail(user, token); err != nil {
		return ErrMailSendFailed
	}
	return nil
}

// ────────────────────── PatchPassword ──────────────────────

func (s *authService) PatchPassword(ctx context.Context, req *dto.PatchPasswordRequest) error {
	if !validate.Password(req.Password) {
		return ErrPasswordInvalid
	}

	claims, err := s.jwtMgr.ParseToken(req.Token, jwt.PurposePasswordReset)
	if err != nil {
		return ErrAuthTokenInvalid
	}

	// 占位只需覆盖令牌剩余有效期，过期后 Redis 自行清理
	fresh, err := s.tokens.ConsumeTokenID(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	if err != nil {
		s.logger.Error("兑现一次性令牌失败", zap.Error(err))
		return err
	}
	if !fresh {
		return ErrAuthTokenInvalid
	}

	if _, err := s.repo.User.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuthTokenInvalid
		}
		s.logger.Error("查询用户失败", zap.Int64("id", claims.UserID), zap.Error(err))
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.Auth.BcryptCost)
	if err != nil {
		s.logger.Error("密码散列失败", zap.Error(err))
		return err
	}

	if err := s.repo.User.UpsertHashedPassword(ctx, claims.UserID, string(hash)); err != nil {
		s.logger.Error("写入新密码失败", zap.Int64("user_id", claims.UserID), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

// compensateRegister 回收注册途中失败的账号
func (s *authService) compensateRegister(ctx context.Context, userID int64) {
	if err := s.repo.User.Delete(ctx, userID); err != nil {
		s.logger.Error("补偿删除用户失败", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (s *authService) sendVerifyMail(user *model.User, token string) error {
	link := fmt.Sprintf("%s/auth/verifyEmail/%s", strings.TrimRight(s.cfg.Server.FrontURL, "/"), token)
	body := fmt.Sprintf(
		"Bonjour %s,\n\nMerci de confirmer votre adresse email en suivant ce lien (valable 1 heure) :\n%s\n",
		user.Firstname, link,
	)
	return s.mailer.Send(user.Email, "Confirmation de votre adresse email", body)
}

func (s *authService) sendResetMail(user *model.User, token string) error {
	link := fmt.Sprintf("%s/user/password/%s", strings.TrimRight(s.cfg.Server.FrontURL, "/"), token)
	body := fmt.Sprintf(
		"Bonjour %s,\n\nPour choisir un nouveau mot de passe, suivez ce lien (valable 1 heure) :\n%s\n",
		user.Firstname, link,
	)
	return s.mailer.Send(user.Email, "Réinitialisation de votre mot de passe", body)
}

// [自证通过] internal/service/auth_service.go
