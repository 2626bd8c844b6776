package model

// Room 教室表 — 对应 rooms，名称在同一教学楼内唯一
type Room struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	BuildingID  int64  `gorm:"not null"                   json:"building_id"`
	Name        string `gorm:"type:varchar(128);not null" json:"name"`
	Description string `gorm:"type:varchar(512);not null" json:"description"`
	Capacity    int    `gorm:"not null;default:0"         json:"capacity"`

	// 关联
	Building *Building `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
}

func (Room) TableName() string { return "rooms" }

// RoomFeature 教室设施表 — 对应 room_features
type RoomFeature struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string `gorm:"type:varchar(128);not null" json:"name"`
	Description string `gorm:"type:varchar(512);not null" json:"description"`
}

func (RoomFeature) TableName() string { return "room_features" }

// RoomRoomFeature 教室-设施关联表 — 对应 rooms_room_features
type RoomRoomFeature struct {
	RoomID        int64 `gorm:"primaryKey" json:"room_id"`
	RoomFeatureID int64 `gorm:"primaryKey" json:"room_feature_id"`
}

func (RoomRoomFeature) TableName() string { return "rooms_room_features" }
