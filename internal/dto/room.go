package dto

// ── 教室模块 DTO ──

// CreateRoomRequest 创建教室请求
type CreateRoomRequest struct {
	BuildingID  int64  `json:"building_id" binding:"required,min=1"`
	Name        string `json:"name"        binding:"required,min=1,max=64"`
	Description string `json:"description" binding:"omitempty,max=512"`
	Capacity    int    `json:"capacity"    binding:"min=0"`
}

// PatchRoomBuildingRequest 迁移教室所属楼栋请求
type PatchRoomBuildingRequest struct {
	ID         int64 `json:"id"          binding:"required,min=1"`
	BuildingID int64 `json:"building_id" binding:"required,min=1"`
}

// PatchRoomNameRequest 修改教室名称请求
type PatchRoomNameRequest struct {
	ID   int64  `json:"id"   binding:"required,min=1"`
	Name string `json:"name" binding:"required,min=1,max=64"`
}

// PatchRoomDescriptionRequest 修改教室描述请求
type PatchRoomDescriptionRequest struct {
	ID          int64  `json:"id"          binding:"required,min=1"`
	Description string `json:"description" binding:"max=512"`
}

// PatchRoomCapacityRequest 修改教室容量请求
type PatchRoomCapacityRequest struct {
	ID       int64 `json:"id"       binding:"required,min=1"`
	Capacity int   `json:"capacity" binding:"min=0"`
}

// RoomResponse 教室信息响应
type RoomResponse struct {
	ID          int64  `json:"id"`
	BuildingID  int64  `json:"building_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Capacity    int    `json:"capacity"`
}

// ── 教室设施 DTO ──

// CreateRoomFeatureRequest 创建设施请求
type CreateRoomFeatureRequest struct {
	Name        string `json:"name"        binding:"required,min=1,max=64"`
	Description string `json:"description" binding:"omitempty,max=512"`
}

// PatchRoomFeatureNameRequest 修改设施名称请求
type PatchRoomFeatureNameRequest struct {
	ID   int64  `json:"id"   binding:"required,min=1"`
	Name string `json:"name" binding:"required,min=1,max=64"`
}

// PatchRoomFeatureDescriptionRequest 修改设施描述请求
type PatchRoomFeatureDescriptionRequest struct {
	ID          int64  `json:"id"          binding:"required,min=1"`
	Description string `json:"description" binding:"max=512"`
}

// RoomFeatureResponse 设施信息响应
type RoomFeatureResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
