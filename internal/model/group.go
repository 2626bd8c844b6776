package model

// Group 学生分组表 — 对应 groups，parent_id 自引用构成树
// 名称唯一性按 (parent_id, name) 约束，根分组 parent_id 为 NULL
type Group struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	ParentID    *int64 `json:"parent_id"`
	Name        string `gorm:"type:varchar(128);not null" json:"name"`
	Description string `gorm:"type:varchar(512);not null" json:"description"`
}

func (Group) TableName() string { return "groups" }

// UserGroup 用户-分组关联表 — 对应 users_groups
type UserGroup struct {
	UserID  int64 `gorm:"primaryKey" json:"user_id"`
	GroupID int64 `gorm:"primaryKey" json:"group_id"`
}

func (UserGroup) TableName() string { return "users_groups" }

// LessonGroup 课程-分组关联表 — 对应 lessons_groups
// 关联的是 (lesson_id, lesson_type_id, lesson_arg) 三元组，而不只是课程
type LessonGroup struct {
	GroupID      int64 `gorm:"primaryKey" json:"group_id"`
	LessonID     int64 `gorm:"primaryKey" json:"lesson_id"`
	LessonTypeID int64 `gorm:"primaryKey" json:"lesson_type_id"`
	LessonArg    int   `gorm:"primaryKey" json:"lesson_arg"`
}

func (LessonGroup) TableName() string { return "lessons_groups" }
