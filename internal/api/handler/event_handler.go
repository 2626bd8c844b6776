package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/dto"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/service"
	"github.com/MES4game/POLYHUB-WEB-BACK/pkg/response"
)

// EventHandler 日程模块 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// List 获取日程列表
// GET /event
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": events})
}

// ListFiltered 按条件筛选日程
// GET /event/filtered?after_date=&before_date=&room_id=&lesson_id=&lesson_type_id=&lesson_arg=
func (h *EventHandler) ListFiltered(c *gin.Context) {
	var req dto.FilteredEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	events, err := h.eventSvc.ListFiltered(c.Request.Context(), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, gin.H{"list": events})
}

// GetByID 获取日程详情
// GET /event/id/:id
func (h *EventHandler) GetByID(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := h.eventSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, event)
}

// Create 创建日程
// POST /event/create
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.Created(c, event)
}

// Delete 删除日程
// DELETE /event/delete/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.eventSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleEventError(c, err)
		return
	}
	response.NoContent(c)
}

// Patch 局部更新日程，未提供的字段沿用当前值
// PATCH /event
func (h *EventHandler) Patch(c *gin.Context) {
	var req dto.PatchEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.eventSvc.Patch(c.Request.Context(), &req); err != nil {
		h.handleEventError(c, err)
		return
	}
	response.NoContent(c)
}

// ────────────────────── 日程-教室关联 ──────────────────────

// ListRoomIDs 列出日程占用的教室 id
// GET /event/link/:event_id/rooms
func (h *EventHandler) ListRoomIDs(c *gin.Context) {
	eventID, ok := ParseIDParam(c, "event_id")
	if !ok {
		return
	}

	ids, err := h.eventSvc.ListRoomIDs(c.Request.Context(), eventID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, dto.IDListResponse{IDs: ids})
}

// HasRoomLink 查询日程是否占用教室
// GET /event/link/:event_id/room/:room_id
func (h *EventHandler) HasRoomLink(c *gin.Context) {
	eventID, ok := ParseIDParam(c, "event_id")
	if !ok {
		return
	}
	roomID, ok := ParseIDParam(c, "room_id")
	if !ok {
		return
	}

	linked, err := h.eventSvc.HasRoomLink(c.Request.Context(), eventID, roomID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, gin.H{"linked": linked})
}

// LinkRoom 给日程分配教室
// POST /event/link/:event_id/room/:room_id
func (h *EventHandler) LinkRoom(c *gin.Context) {
	eventID, ok := ParseIDParam(c, "event_id")
	if !ok {
		return
	}
	roomID, ok := ParseIDParam(c, "room_id")
	if !ok {
		return
	}

	if err := h.eventSvc.LinkRoom(c.Request.Context(), eventID, roomID); err != nil {
		h.handleEventError(c, err)
		return
	}
	response.NoContent(c)
}

// UnlinkRoom 解除日程的教室占用
// DELETE /event/link/:event_id/room/:room_id
func (h *EventHandler) UnlinkRoom(c *gin.Context) {
	eventID, ok := ParseIDParam(c, "event_id")
	if !ok {
		return
	}
	roomID, ok := ParseIDParam(c, "room_id")
	if !ok {
		return
	}

	if err := h.eventSvc.UnlinkRoom(c.Request.Context(), eventID, roomID); err != nil {
		h.handleEventError(c, err)
		return
	}
	response.NoContent(c)
}

// ────────────────────── 日程-用户关联 ──────────────────────

// ListUserIDs 列出日程关联的用户 id
// GET /event/link/:event_id/users
func (h *EventHandler) ListUserIDs(c *gin.Context) {
	eventID, ok := ParseIDParam(c, "event_id")
	if !ok {
		return
	}

	ids, err := h.eventSvc.ListUserIDs(c.Request.Context(), eventID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, dto.IDListResponse{IDs: ids})
}

// HasUserLink 查询日程是否关联用户
// GET /event/link/:event_id/user/:user_id
func (h *EventHandler) HasUserLink(c *gin.Context) {
	eventID, ok := ParseIDParam(c, "event_id")
	if !ok {
		return
	}
	userID, ok := ParseIDParam(c, "user_id")
	if !ok {
		return
	}

	linked, err := h.eventSvc.HasUserLink(c.Request.Context(), eventID, userID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, gin.H{"linked": linked})
}

// LinkUser 给日程关联用户
// POST /event/link/:event_id/user/:user_id
func (h *EventHandler) LinkUser(c *gin.Context) {
	eventID, ok := ParseIDParam(c, "event_id")
	if !ok {
		return
	}
	userID, ok := ParseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.eventSvc.LinkUser(c.Request.Context(), eventID, userID); err != nil {
		h.handleEventError(c, err)
		return
	}
	response.NoContent(c)
}

// UnlinkUser 解除日程与用户的关联
// DELETE /event/link/:event_id/user/:user_id
func (h *EventHandler) UnlinkUser(c *gin.Context) {
	eventID, ok := ParseIDParam(c, "event_id")
	if !ok {
		return
	}
	userID, ok := ParseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.eventSvc.UnlinkUser(c.Request.Context(), eventID, userID); err != nil {
		h.handleEventError(c, err)
		return
	}
	response.NoContent(c)
}

// ── 错误映射 ──

func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 18001, err.Error())
	case errors.Is(err, service.ErrEventTimeOrder):
		response.BadRequest(c, 18002, err.Error())
	case errors.Is(err, service.ErrEventNoFields):
		response.BadRequest(c, 18003, err.Error())
	case errors.Is(err, service.ErrEventOverlap):
		response.Conflict(c, 18004, err.Error())
	case errors.Is(err, service.ErrEventRoomConflict):
		response.Conflict(c, 18005, err.Error())
	case errors.Is(err, service.ErrEventFilterInvalid):
		response.BadRequest(c, 18006, err.Error())
	case errors.Is(err, service.ErrEventRoomLinkExists):
		response.Conflict(c, 18011, err.Error())
	case errors.Is(err, service.ErrEventRoomLinkMissing):
		response.NotFound(c, 18012, err.Error())
	case errors.Is(err, service.ErrEventUserLinkExists):
		response.Conflict(c, 18013, err.Error())
	case errors.Is(err, service.ErrEventUserLinkMissing):
		response.NotFound(c, 18014, err.Error())
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 12001, err.Error())
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

// [自证通过] internal/api/handler/event_handler.go
