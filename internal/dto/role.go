package dto

// ── 角色模块 DTO ──

// PatchRoleDescriptionRequest 修改角色描述请求
type PatchRoleDescriptionRequest struct {
	ID          int64  `json:"id"          binding:"required,min=1"`
	Description string `json:"description" binding:"max=512"`
}

// RoleResponse 角色信息响应
type RoleResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
