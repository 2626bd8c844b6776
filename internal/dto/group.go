package dto

// ── 班组模块 DTO ──

// CreateGroupRequest 创建班组请求，parent_id 为空表示根层班组
type CreateGroupRequest struct {
	ParentID    *int64 `json:"parent_id"   binding:"omitempty,min=1"`
	Name        string `json:"name"        binding:"required,min=1,max=64"`
	Description string `json:"description" binding:"omitempty,max=512"`
}

// PatchGroupParentRequest 调整班组父节点请求
type PatchGroupParentRequest struct {
	ID       int64  `json:"id"        binding:"required,min=1"`
	ParentID *int64 `json:"parent_id" binding:"omitempty,min=1"`
}

// PatchGroupNameRequest 修改班组名称请求
type PatchGroupNameRequest struct {
	ID   int64  `json:"id"   binding:"required,min=1"`
	Name string `json:"name" binding:"required,min=1,max=64"`
}

// PatchGroupDescriptionRequest 修改班组描述请求
type PatchGroupDescriptionRequest struct {
	ID          int64  `json:"id"          binding:"required,min=1"`
	Description string `json:"description" binding:"max=512"`
}

// GroupResponse 班组信息响应
type GroupResponse struct {
	ID          int64  `json:"id"`
	ParentID    *int64 `json:"parent_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
