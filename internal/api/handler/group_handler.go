package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/dto"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/service"
	"github.com/MES4game/POLYHUB-WEB-BACK/pkg/response"
)

// GroupHandler 班组模块 HTTP 处理器
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建 GroupHandler
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// List 获取班组列表
// GET /group
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groupSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": groups})
}

// GetByID 获取班组详情
// GET /group/id/:id
func (h *GroupHandler) GetByID(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	group, err := h.groupSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.OK(c, group)
}

// ListChildren 获取子班组，parent_id 取字面量 "null" 时返回根层班组
// GET /group/children/:parent_id
func (h *GroupHandler) ListChildren(c *gin.Context) {
	var parentID *int64
	raw := c.Param("parent_id")
	if raw != "null" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			response.BadRequest(c, 10001, "路径参数 parent_id 不合法")
			return
		}
		parentID = &id
	}

	groups, err := h.groupSvc.ListChildren(c.Request.Context(), parentID)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.OK(c, gin.H{"list": groups})
}

// Create 创建班组
// POST /group/create
func (h *GroupHandler) Create(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	group, err := h.groupSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.Created(c, group)
}

// Delete 删除班组
// DELETE /group/delete/:id
func (h *GroupHandler) Delete(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.groupSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.NoContent(c)
}

// PatchParent 调整班组父节点
// PATCH /group/parent_id
func (h *GroupHandler) PatchParent(c *gin.Context) {
	var req dto.PatchGroupParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.groupSvc.PatchParent(c.Request.Context(), &req); err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.NoContent(c)
}

// PatchName 修改班组名称
// PATCH /group/name
func (h *GroupHandler) PatchName(c *gin.Context) {
	var req dto.PatchGroupNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.groupSvc.PatchName(c.Request.Context(), &req); err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.NoContent(c)
}

// PatchDescription 修改班组描述
// PATCH /group/description
func (h *GroupHandler) PatchDescription(c *gin.Context) {
	var req dto.PatchGroupDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.groupSvc.PatchDescription(c.Request.Context(), &req); err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.NoContent(c)
}

// ────────────────────── 班组-用户关联 ──────────────────────

// ListUserIDs 列出班组关联的用户 id
// GET /group/link/:group_id/users
func (h *GroupHandler) ListUserIDs(c *gin.Context) {
	groupID, ok := ParseIDParam(c, "group_id")
	if !ok {
		return
	}

	ids, err := h.groupSvc.ListUserIDs(c.Request.Context(), groupID)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.OK(c, dto.IDListResponse{IDs: ids})
}

// HasUserLink 查询班组是否关联用户
// GET /group/link/:group_id/user/:user_id
func (h *GroupHandler) HasUserLink(c *gin.Context) {
	groupID, ok := ParseIDParam(c, "group_id")
	if !ok {
		return
	}
	userID, ok := ParseIDParam(c, "user_id")
	if !ok {
		return
	}

	linked, err := h.groupSvc.HasUserLink(c.Request.Context(), groupID, userID)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.OK(c, gin.H{"linked": linked})
}

// LinkUser 把用户加入班组
// POST /group/link/:group_id/user/:user_id
func (h *GroupHandler) LinkUser(c *gin.Context) {
	groupID, ok := ParseIDParam(c, "group_id")
	if !ok {
		return
	}
	userID, ok := ParseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.groupSvc.LinkUser(c.Request.Context(), groupID, userID); err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.NoContent(c)
}

// UnlinkUser 把用户移出班组
// DELETE /group/link/:group_id/user/:user_id
func (h *GroupHandler) UnlinkUser(c *gin.Context) {
	groupID, ok := ParseIDParam(c, "group_id")
	if !ok {
		return
	}
	userID, ok := ParseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.groupSvc.UnlinkUser(c.Request.Context(), groupID, userID); err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.NoContent(c)
}

// ────────────────────── 班组-课程关联 ──────────────────────

// ListLessonLinks 列出班组关联的课程三元组
// GET /group/link/:group_id/lessons
func (h *GroupHandler) ListLessonLinks(c *gin.Context) {
	groupID, ok := ParseIDParam(c, "group_id")
	if !ok {
		return
	}

	links, err := h.groupSvc.ListLessonLinks(c.Request.Context(), groupID)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.OK(c, gin.H{"list": links})
}

// LinkLesson 给班组关联课程三元组
// POST /group/link/:group_id/lesson/:lesson_id/:lesson_type_id/:lesson_arg
func (h *GroupHandler) LinkLesson(c *gin.Context) {
	groupID, lessonID, lessonTypeID, lessonArg, ok := h.parseLessonLinkParams(c)
	if !ok {
		return
	}

	if err := h.groupSvc.LinkLesson(c.Request.Context(), groupID, lessonID, lessonTypeID, lessonArg); err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.NoContent(c)
}

// UnlinkLesson 解除班组的课程三元组关联
// DELETE /group/link/:group_id/lesson/:lesson_id/:lesson_type_id/:lesson_arg
func (h *GroupHandler) UnlinkLesson(c *gin.Context) {
	groupID, lessonID, lessonTypeID, lessonArg, ok := h.parseLessonLinkParams(c)
	if !ok {
		return
	}

	if err := h.groupSvc.UnlinkLesson(c.Request.Context(), groupID, lessonID, lessonTypeID, lessonArg); err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.NoContent(c)
}

// ── 内部辅助方法 ──

func (h *GroupHandler) parseLessonLinkParams(c *gin.Context) (int64, int64, int64, int, bool) {
	groupID, ok := ParseIDParam(c, "group_id")
	if !ok {
		return 0, 0, 0, 0, false
	}
	lessonID, ok := ParseIDParam(c, "lesson_id")
	if !ok {
		return 0, 0, 0, 0, false
	}
	lessonTypeID, ok := ParseIDParam(c, "lesson_type_id")
	if !ok {
		return 0, 0, 0, 0, false
	}
	lessonArg, ok := ParseIntParam(c, "lesson_arg")
	if !ok {
		return 0, 0, 0, 0, false
	}
	return groupID, lessonID, lessonTypeID, lessonArg, true
}

// ── 错误映射 ──

func (h *GroupHandler) handleGroupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 14001, err.Error())
	case errors.Is(err, service.ErrGroupParentNotFound):
		response.BadRequest(c, 14002, err.Error())
	case errors.Is(err, service.ErrGroupNameTaken):
		response.Conflict(c, 14003, err.Error())
	case errors.Is(err, service.ErrGroupHasChildren):
		response.Conflict(c, 14004, err.Error())
	case errors.Is(err, service.ErrGroupHasUsers):
		response.Conflict(c, 14005, err.Error())
	case errors.Is(err, service.ErrGroupCycle):
		response.BadRequest(c, 14006, err.Error())
	case errors.Is(err, service.ErrGroupUserLinkExists):
		response.Conflict(c, 14011, err.Error())
	case errors.Is(err, service.ErrGroupUserLinkNotFound):
		response.NotFound(c, 14012, err.Error())
	case errors.Is(err, service.ErrGroupLessonLinkExists):
		response.Conflict(c, 14013, err.Error())
	case errors.Is(err, service.ErrGroupLessonLinkMissing):
		response.NotFound(c, 14014, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 16001, err.Error())
	case errors.Is(err, service.ErrLessonNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, service.ErrLessonTypeNotFound):
		response.NotFound(c, 13011, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/group_handler.go
