package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/model"
)

// LessonGroupFilter 课程-班组关联的可选过滤条件，nil 表示不限定
type LessonGroupFilter struct {
	GroupID      *int64
	LessonID     *int64
	LessonTypeID *int64
	LessonArg    *int
}

// LessonRepository 课程与课程类型数据访问接口
type LessonRepository interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetByID(ctx context.Context, id int64) (*model.Lesson, error)
	GetByName(ctx context.Context, name string) (*model.Lesson, error)
	List(ctx context.Context) ([]model.Lesson, error)
	Delete(ctx context.Context, id int64) error
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateDescription(ctx context.Context, id int64, description string) error
	UpdateColor(ctx context.Context, id int64, color string) error

	CreateType(ctx context.Context, lessonType *model.LessonType) error
	GetTypeByID(ctx context.Context, id int64) (*model.LessonType, error)
	GetTypeByName(ctx context.Context, name string) (*model.LessonType, error)
	ListTypes(ctx context.Context) ([]model.LessonType, error)
	DeleteType(ctx context.Context, id int64) error
	UpdateTypeName(ctx context.Context, id int64, name string) error
	UpdateTypeDescription(ctx context.Context, id int64, description string) error

	// ListGroupLinks 按过滤条件列出课程-班组关联行
	ListGroupLinks(ctx context.Context, filter LessonGroupFilter) ([]model.LessonGroup, error)
}

type lessonRepo struct {
	db *gorm.DB
}

func NewLessonRepo(db *gorm.DB) LessonRepository {
	return &lessonRepo{db: db}
}

// ── 课程 ──

func (r *lessonRepo) Create(ctx context.Context, lesson *model.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *lessonRepo) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepo) GetByName(ctx context.Context, name string) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepo) List(ctx context.Context) ([]model.Lesson, error) {
	var lessons []model.Lesson
	if err := r.db.WithContext(ctx).Order("id").Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Lesson{}).Error
}

func (r *lessonRepo) UpdateName(ctx context.Context, id int64, name string) error {
	return r.db.WithContext(ctx).Model(&model.Lesson{}).
		Where("id = ?", id).
		Update("name", name).Error
}

func (r *lessonRepo) UpdateDescription(ctx context.Context, id int64, description string) error {
	return r.db.WithContext(ctx).Model(&model.Lesson{}).
		Where("id = ?", id).
		Update("description", description).Error
}

func (r *lessonRepo) UpdateColor(ctx context.Context, id int64, color string) error {
	return r.db.WithContext(ctx).Model(&model.Lesson{}).
		Where("id = ?", id).
		Update("color", color).Error
}

// ── 课程类型 ──

func (r *lessonRepo) CreateType(ctx context.Context, lessonType *model.LessonType) error {
	return r.db.WithContext(ctx).Create(lessonType).Error
}

func (r *lessonRepo) GetTypeByID(ctx context.Context, id int64) (*model.LessonType, error) {
	var lessonType model.LessonType
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&lessonType).Error; err != nil {
		return nil, err
	}
	return &lessonType, nil
}

func (r *lessonRepo) GetTypeByName(ctx context.Context, name string) (*model.LessonType, error) {
	var lessonType model.LessonType
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&lessonType).Error; err != nil {
		return nil, err
	}
	return &lessonType, nil
}

func (r *lessonRepo) ListTypes(ctx context.Context) ([]model.LessonType, error) {
	var types []model.LessonType
	if err := r.db.WithContext(ctx).Order("id").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *lessonRepo) DeleteType(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.LessonType{}).Error
}

func (r *lessonRepo) UpdateTypeName(ctx context.Context, id int64, name string) error {
	return r.db.WithContext(ctx).Model(&model.LessonType{}).
		Where("id = ?", id).
		Update("name", name).Error
}

func (r *lessonRepo) UpdateTypeDescription(ctx context.Context, id int64, description string) error {
	return r.db.WithContext(ctx).Model(&model.LessonType{}).
		Where("id = ?", id).
		Update("description", description).Error
}

// ── 课程-班组关联 ──

func (r *lessonRepo) ListGroupLinks(ctx context.Context, filter LessonGroupFilter) ([]model.LessonGroup, error) {
	query := r.db.WithContext(ctx).Model(&model.LessonGroup{})
	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}
	if filter.LessonID != nil {
		query = query.Where("lesson_id = ?", *filter.LessonID)
	}
	if filter.LessonTypeID != nil {
		query = query.Where("lesson_type_id = ?", *filter.LessonTypeID)
	}
	if filter.LessonArg != nil {
		query = query.Where("lesson_arg = ?", *filter.LessonArg)
	}

	var links []model.LessonGroup
	if err := query.Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
