package dto

import "time"

// ── 用户模块 DTO ──

// PatchUserPseudoRequest 修改当前用户昵称请求
type PatchUserPseudoRequest struct {
	Pseudo string `json:"pseudo" binding:"required"`
}

// PatchUserFirstnameRequest 修改当前用户名请求
type PatchUserFirstnameRequest struct {
	Firstname string `json:"firstname" binding:"required"`
}

// PatchUserLastnameRequest 修改当前用户姓请求
type PatchUserLastnameRequest struct {
	Lastname string `json:"lastname" binding:"required"`
}

// UserResponse 用户信息响应
type UserResponse struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Pseudo         string    `json:"pseudo"`
	Firstname      string    `json:"firstname"`
	Lastname       string    `json:"lastname"`
	VerifiedEmail  bool      `json:"verified_email"`
	CreatedOn      time.Time `json:"created_on"`
	LastConnection time.Time `json:"last_connection"`
}

// UserRoleCheckResponse 用户角色判定响应
type UserRoleCheckResponse struct {
	IsRole bool `json:"is_role"`
}
