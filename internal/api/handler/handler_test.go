package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/dto"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/service"
	"github.com/MES4game/POLYHUB-WEB-BACK/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerErr  error
	verifyErr    error
	loginResult  *dto.LoginResponse
	loginErr     error
	resetErr     error
	patchPassErr error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) error {
	return m.registerErr
}
func (m *mockAuthService) VerifyEmail(_ context.Context, _ string) error {
	return m.verifyErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.LoginResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RequestPasswordReset(_ context.Context, _ *dto.PasswordResetRequest) error {
	return m.resetErr
}
func (m *mockAuthService) PatchPassword(_ context.Context, _ *dto.PatchPasswordRequest) error {
	return m.patchPassErr
}

// ── Mock BuildingService ──

type mockBuildingService struct {
	createResult *dto.BuildingResponse
	createErr    error
	getResult    *dto.BuildingResponse
	getErr       error
	listResult   []dto.BuildingResponse
	listErr      error
	deleteErr    error
	patchErr     error
}

func (m *mockBuildingService) Create(_ context.Context, _ *dto.CreateBuildingRequest) (*dto.BuildingResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockBuildingService) GetByID(_ context.Context, _ int64) (*dto.BuildingResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockBuildingService) List(_ context.Context) ([]dto.BuildingResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockBuildingService) Delete(_ context.Context, _ int64) error {
	return m.deleteErr
}
func (m *mockBuildingService) PatchName(_ context.Context, _ *dto.PatchBuildingNameRequest) error {
	return m.patchErr
}
func (m *mockBuildingService) PatchDescription(_ context.Context, _ *dto.PatchBuildingDescriptionRequest) error {
	return m.patchErr
}

// ── Mock EventService ──

type mockEventService struct {
	createResult *dto.EventResponse
	createErr    error
	getResult    *dto.EventResponse
	getErr       error
	listResult   []dto.EventResponse
	listErr      error
	deleteErr    error
	patchErr     error
	idsResult    []int64
	idsErr       error
	hasResult    bool
	hasErr       error
	linkErr      error
	unlinkErr    error
}

func (m *mockEventService) Create(_ context.Context, _ *dto.CreateEventRequest) (*dto.EventResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockEventService) GetByID(_ context.Context, _ int64) (*dto.EventResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockEventService) List(_ context.Context) ([]dto.EventResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockEventService) ListFiltered(_ context.Context, _ *dto.FilteredEventsRequest) ([]dto.EventResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockEventService) Delete(_ context.Context, _ int64) error {
	return m.deleteErr
}
func (m *mockEventService) Patch(_ context.Context, _ *dto.PatchEventRequest) error {
	return m.patchErr
}
func (m *mockEventService) ListRoomIDs(_ context.Context, _ int64) ([]int64, error) {
	return m.idsResult, m.idsErr
}
func (m *mockEventService) HasRoomLink(_ context.Context, _, _ int64) (bool, error) {
	return m.hasResult, m.hasErr
}
func (m *mockEventService) LinkRoom(_ context.Context, _, _ int64) error {
	return m.linkErr
}
func (m *mockEventService) UnlinkRoom(_ context.Context, _, _ int64) error {
	return m.unlinkErr
}
func (m *mockEventService) ListUserIDs(_ context.Context, _ int64) ([]int64, error) {
	return m.idsResult, m.idsErr
}
func (m *mockEventService) HasUserLink(_ context.Context, _, _ int64) (bool, error) {
	return m.hasResult, m.hasErr
}
func (m *mockEventService) LinkUser(_ context.Context, _, _ int64) error {
	return m.linkErr
}
func (m *mockEventService) UnlinkUser(_ context.Context, _, _ int64) error {
	return m.unlinkErr
}

// ── Mock UserService ──

type mockUserService struct {
	getResult  *dto.UserResponse
	getErr     error
	listResult []dto.UserResponse
	listErr    error
	deleteErr  error
	patchErr   error
	isResult   bool
	isErr      error
	idsResult  []int64
	idsErr     error
}

func (m *mockUserService) GetByID(_ context.Context, _ int64) (*dto.UserResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockUserService) List(_ context.Context) ([]dto.UserResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockUserService) Delete(_ context.Context, _ int64) error {
	return m.deleteErr
}
func (m *mockUserService) PatchPseudo(_ context.Context, _ int64, _ *dto.PatchUserPseudoRequest) error {
	return m.patchErr
}
func (m *mockUserService) PatchFirstname(_ context.Context, _ int64, _ *dto.PatchUserFirstnameRequest) error {
	return m.patchErr
}
func (m *mockUserService) PatchLastname(_ context.Context, _ int64, _ *dto.PatchUserLastnameRequest) error {
	return m.patchErr
}
func (m *mockUserService) IsRole(_ context.Context, _ int64, _ string) (bool, error) {
	return m.isResult, m.isErr
}
func (m *mockUserService) ListRoleIDs(_ context.Context, _ int64) ([]int64, error) {
	return m.idsResult, m.idsErr
}
func (m *mockUserService) ListGroupIDs(_ context.Context, _ int64) ([]int64, error) {
	return m.idsResult, m.idsErr
}
func (m *mockUserService) ListEventIDs(_ context.Context, _ int64) ([]int64, error) {
	return m.idsResult, m.idsErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportCalendar(_ context.Context, _ int64) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportSchedule(_ context.Context, _ int64) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// withAuth 模拟 JWT 中间件注入的 user_id
func withAuth(userID int64, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		next(c)
	}
}

func serve(method, target string, body io.Reader, register func(*gin.Engine)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	r := gin.New()
	register(r)
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{loginResult: &dto.LoginResponse{Token: "test-access-token"}}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Identifier: "jean.dupont@example.com",
		Password:   "password12345",
	}), func(r *gin.Engine) {
		r.POST("/auth/login", h.Login)
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	data, _ := resp.Data.(map[string]interface{})
	if data["token"] != "test-access-token" {
		t.Errorf("expected token in body, got %v", resp.Data)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/login", bytes.NewReader([]byte("invalid json")), func(r *gin.Engine) {
		r.POST("/auth/login", h.Login)
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10001 {
		t.Errorf("expected error code 10001, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrBadCredentials})

	w := serve("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Identifier: "jean.dupont",
		Password:   "wrong-password",
	}), func(r *gin.Engine) {
		r.POST("/auth/login", h.Login)
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 17005 {
		t.Errorf("expected error code 17005, got %d", resp.Code)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerErr: service.ErrEmailTaken})

	w := serve("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Email:     "jean.dupont@example.com",
		Pseudo:    "jean.dupont",
		Firstname: "Jean",
		Lastname:  "Dupont",
		Password:  "password12345",
	}), func(r *gin.Engine) {
		r.POST("/auth/register", h.Register)
	})

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 17004 {
		t.Errorf("expected error code 17004, got %d", resp.Code)
	}
}

func TestAuthHandler_VerifyEmail_InvalidToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{verifyErr: service.ErrAuthTokenInvalid})

	w := serve("PATCH", "/auth/verifyEmail/garbage", nil, func(r *gin.Engine) {
		r.PATCH("/auth/verifyEmail/:token", h.VerifyEmail)
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 17008 {
		t.Errorf("expected error code 17008, got %d", resp.Code)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Email:     "jean.dupont@example.com",
		Pseudo:    "jean.dupont",
		Firstname: "Jean",
		Lastname:  "Dupont",
		Password:  "password12345",
	}), func(r *gin.Engine) {
		r.POST("/auth/register", h.Register)
	})

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// BuildingHandler Tests
// ═══════════════════════════════════════════════════════════

func TestBuildingHandler_Create_Success(t *testing.T) {
	mock := &mockBuildingService{
		createResult: &dto.BuildingResponse{ID: 1, Name: "Bâtiment A"},
	}
	h := NewBuildingHandler(mock)

	w := serve("POST", "/building/create", jsonBody(dto.CreateBuildingRequest{
		Name: "Bâtiment A",
	}), func(r *gin.Engine) {
		r.POST("/building/create", h.Create)
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestBuildingHandler_Create_DuplicateName(t *testing.T) {
	h := NewBuildingHandler(&mockBuildingService{createErr: service.ErrBuildingNameTaken})

	w := serve("POST", "/building/create", jsonBody(dto.CreateBuildingRequest{
		Name: "Bâtiment A",
	}), func(r *gin.Engine) {
		r.POST("/building/create", h.Create)
	})

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11002 {
		t.Errorf("expected error code 11002, got %d", resp.Code)
	}
}

func TestBuildingHandler_GetByID_NotFound(t *testing.T) {
	h := NewBuildingHandler(&mockBuildingService{getErr: service.ErrBuildingNotFound})

	w := serve("GET", "/building/id/42", nil, func(r *gin.Engine) {
		r.GET("/building/id/:id", h.GetByID)
	})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestBuildingHandler_GetByID_BadParam(t *testing.T) {
	h := NewBuildingHandler(&mockBuildingService{})

	w := serve("GET", "/building/id/abc", nil, func(r *gin.Engine) {
		r.GET("/building/id/:id", h.GetByID)
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10001 {
		t.Errorf("expected error code 10001, got %d", resp.Code)
	}
}

func TestBuildingHandler_Delete_HasRooms(t *testing.T) {
	h := NewBuildingHandler(&mockBuildingService{deleteErr: service.ErrBuildingHasRooms})

	w := serve("DELETE", "/building/delete/1", nil, func(r *gin.Engine) {
		r.DELETE("/building/delete/:id", h.Delete)
	})

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11003 {
		t.Errorf("expected error code 11003, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// EventHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEventHandler_Create_Success(t *testing.T) {
	start := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	mock := &mockEventService{
		createResult: &dto.EventResponse{ID: 1, Start: start, End: end},
	}
	h := NewEventHandler(mock)

	w := serve("POST", "/event/create", jsonBody(dto.CreateEventRequest{
		Start: start,
		End:   end,
	}), func(r *gin.Engine) {
		r.POST("/event/create", h.Create)
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestEventHandler_Create_Overlap(t *testing.T) {
	h := NewEventHandler(&mockEventService{createErr: service.ErrEventOverlap})

	start := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	w := serve("POST", "/event/create", jsonBody(dto.CreateEventRequest{
		Start: start,
		End:   start.Add(2 * time.Hour),
	}), func(r *gin.Engine) {
		r.POST("/event/create", h.Create)
	})

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 18004 {
		t.Errorf("expected error code 18004, got %d", resp.Code)
	}
}

func TestEventHandler_Patch_TimeOrder(t *testing.T) {
	h := NewEventHandler(&mockEventService{patchErr: service.ErrEventTimeOrder})

	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	w := serve("PATCH", "/event", jsonBody(dto.PatchEventRequest{
		ID:    1,
		Start: &start,
		End:   &end,
	}), func(r *gin.Engine) {
		r.PATCH("/event", h.Patch)
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 18002 {
		t.Errorf("expected error code 18002, got %d", resp.Code)
	}
}

func TestEventHandler_LinkRoom_AlreadyLinked(t *testing.T) {
	h := NewEventHandler(&mockEventService{linkErr: service.ErrEventRoomLinkExists})

	w := serve("POST", "/event/link/1/room/2", nil, func(r *gin.Engine) {
		r.POST("/event/link/:event_id/room/:room_id", h.LinkRoom)
	})

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 18011 {
		t.Errorf("expected error code 18011, got %d", resp.Code)
	}
}

func TestEventHandler_Patch_RoomConflict(t *testing.T) {
	h := NewEventHandler(&mockEventService{patchErr: service.ErrEventRoomConflict})

	start := time.Date(2026, 9, 7, 8, 30, 0, 0, time.UTC)
	w := serve("PATCH", "/event", jsonBody(dto.PatchEventRequest{
		ID:    1,
		Start: &start,
	}), func(r *gin.Engine) {
		r.PATCH("/event", h.Patch)
	})

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 18005 {
		t.Errorf("expected error code 18005, got %d", resp.Code)
	}
}

func TestEventHandler_ListFiltered_InvalidFilter(t *testing.T) {
	h := NewEventHandler(&mockEventService{listErr: service.ErrEventFilterInvalid})

	w := serve("GET", "/event/filtered?after_date=not-a-date", nil, func(r *gin.Engine) {
		r.GET("/event/filtered", h.ListFiltered)
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 18006 {
		t.Errorf("expected error code 18006, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// UserHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_GetSelf_Success(t *testing.T) {
	mock := &mockUserService{
		getResult: &dto.UserResponse{ID: 42, Pseudo: "jean.dupont"},
	}
	h := NewUserHandler(mock, &mockAuthService{})

	w := serve("GET", "/user", nil, func(r *gin.Engine) {
		r.GET("/user", withAuth(42, h.GetSelf))
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	data, _ := resp.Data.(map[string]interface{})
	if data["pseudo"] != "jean.dupont" {
		t.Errorf("expected pseudo in body, got %v", resp.Data)
	}
}

func TestUserHandler_GetSelf_Unauthenticated(t *testing.T) {
	h := NewUserHandler(&mockUserService{}, &mockAuthService{})

	// 未经过 JWT 中间件，上下文中没有 user_id
	w := serve("GET", "/user", nil, func(r *gin.Engine) {
		r.GET("/user", h.GetSelf)
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10002 {
		t.Errorf("expected error code 10002, got %d", resp.Code)
	}
}

func TestUserHandler_PatchPseudo_Taken(t *testing.T) {
	h := NewUserHandler(&mockUserService{patchErr: service.ErrPseudoTaken}, &mockAuthService{})

	w := serve("PATCH", "/user/pseudo", jsonBody(dto.PatchUserPseudoRequest{
		Pseudo: "jean.dupont",
	}), func(r *gin.Engine) {
		r.PATCH("/user/pseudo", withAuth(42, h.PatchPseudo))
	})

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 16003 {
		t.Errorf("expected error code 16003, got %d", resp.Code)
	}
}

func TestUserHandler_PatchPassword_InvalidToken(t *testing.T) {
	h := NewUserHandler(&mockUserService{}, &mockAuthService{patchPassErr: service.ErrAuthTokenInvalid})

	w := serve("PATCH", "/user/password", jsonBody(dto.PatchPasswordRequest{
		Token:    "used-token",
		Password: "password12345",
	}), func(r *gin.Engine) {
		r.PATCH("/user/password", h.PatchPassword)
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 17008 {
		t.Errorf("expected error code 17008, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Calendar_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
		filename: "calendrier_jean.dupont.ics",
	}
	h := NewExportHandler(mock)

	w := serve("GET", "/export/calendar", nil, func(r *gin.Engine) {
		r.GET("/export/calendar", withAuth(42, h.ExportCalendar))
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("expected text/calendar content type, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "calendrier_jean.dupont.ics") {
		t.Errorf("expected filename in Content-Disposition, got %q", cd)
	}
	if !strings.Contains(w.Body.String(), "BEGIN:VCALENDAR") {
		t.Error("expected ics payload in body")
	}
}

func TestExportHandler_Calendar_NoEvents(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoEvents})

	w := serve("GET", "/export/calendar", nil, func(r *gin.Engine) {
		r.GET("/export/calendar", withAuth(42, h.ExportCalendar))
	})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 19001 {
		t.Errorf("expected error code 19001, got %d", resp.Code)
	}
}

func TestExportHandler_Schedule_Unauthenticated(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	w := serve("GET", "/export/schedule", nil, func(r *gin.Engine) {
		r.GET("/export/schedule", h.ExportSchedule)
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// [自证通过] internal/api/handler/handler_test.go
