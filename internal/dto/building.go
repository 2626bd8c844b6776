package dto

// ── 楼栋模块 DTO ──

// CreateBuildingRequest 创建楼栋请求
type CreateBuildingRequest struct {
	Name        string `json:"name"        binding:"required,min=1,max=64"`
	Description string `json:"description" binding:"omitempty,max=512"`
}

// PatchBuildingNameRequest 修改楼栋名称请求
type PatchBuildingNameRequest struct {
	ID   int64  `json:"id"   binding:"required,min=1"`
	Name string `json:"name" binding:"required,min=1,max=64"`
}

// PatchBuildingDescriptionRequest 修改楼栋描述请求
type PatchBuildingDescriptionRequest struct {
	ID          int64  `json:"id"          binding:"required,min=1"`
	Description string `json:"description" binding:"max=512"`
}

// BuildingResponse 楼栋信息响应
type BuildingResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
