package model

// 预置角色名，由迁移写入，不通过 API 创建
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleTeacher   = "teacher"
)

// Role 角色表 — 对应 roles
type Role struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string `gorm:"type:varchar(64);not null"  json:"name"`
	Description string `gorm:"type:varchar(512);not null" json:"description"`
}

func (Role) TableName() string { return "roles" }

// UserRole 用户-角色关联表 — 对应 users_roles
type UserRole struct {
	UserID int64 `gorm:"primaryKey" json:"user_id"`
	RoleID int64 `gorm:"primaryKey" json:"role_id"`
}

func (UserRole) TableName() string { return "users_roles" }
