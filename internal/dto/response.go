package dto

// ── 通用响应 DTO ──

// IDListResponse 关联 id 列表响应
type IDListResponse struct {
	IDs []int64 `json:"ids"`
}
