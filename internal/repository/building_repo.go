package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/model"
)

// BuildingRepository 楼栋数据访问接口
type BuildingRepository interface {
	Create(ctx context.Context, building *model.Building) error
	GetByID(ctx context.Context, id int64) (*model.Building, error)
	GetByName(ctx context.Context, name string) (*model.Building, error)
	List(ctx context.Context) ([]model.Building, error)
	Delete(ctx context.Context, id int64) error
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateDescription(ctx context.Context, id int64, description string) error
	// HasRooms 楼栋下是否仍存在教室（删除前置检查）
	HasRooms(ctx context.Context, id int64) (bool, error)
}

type buildingRepo struct {
	db *gorm.DB
}

func NewBuildingRepo(db *gorm.DB) BuildingRepository {
	return &buildingRepo{db: db}
}

func (r *buildingRepo) Create(ctx context.Context, building *model.Building) error {
	return r.db.WithContext(ctx).Create(building).Error
}

func (r *buildingRepo) GetByID(ctx context.Context, id int64) (*model.Building, error) {
	var building model.Building
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&building).Error; err != nil {
		return nil, err
	}
	return &building, nil
}

func (r *buildingRepo) GetByName(ctx context.Context, name string) (*model.Building, error) {
	var building model.Building
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&building).Error; err != nil {
		return nil, err
	}
	return &building, nil
}

func (r *buildingRepo) List(ctx context.Context) ([]model.Building, error) {
	var buildings []model.Building
	if err := r.db.WithContext(ctx).Order("id").Find(&buildings).Error; err != nil {
		return nil, err
	}
	return buildings, nil
}

func (r *buildingRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Building{}).Error
}

func (r *buildingRepo) UpdateName(ctx context.Context, id int64, name string) error {
	return r.db.WithContext(ctx).Model(&model.Building{}).
		Where("id = ?", id).
		Update("name", name).Error
}

func (r *buildingRepo) UpdateDescription(ctx context.Context, id int64, description string) error {
	return r.db.WithContext(ctx).Model(&model.Building{}).
		Where("id = ?", id).
		Update("description", description).Error
}

func (r *buildingRepo) HasRooms(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Room{}).
		Where("building_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
