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

// ── 课程模块业务错误 ──

var (
	ErrLessonNotFound      = errors.New("课程不存在")
	ErrLessonNameTaken     = errors.New("课程名称已被占用")
	ErrLessonInUse         = errors.New("课程仍被日程引用，无法删除")
	ErrLessonTypeNotFound  = errors.New("课程类型不存在")
	ErrLessonTypeNameTaken = errors.New("课程类型名称已被占用")
	ErrLessonTypeInUse     = errors.New("课程类型仍被日程引用，无法删除")
)

// LessonService 课程与课程类型业务接口
type LessonService interface {
	Create(ctx context.Context, req *dto.CreateLessonRequest) (*dto.LessonResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.LessonResponse, error)
	List(ctx context.Context) ([]dto.LessonResponse, error)
	Delete(ctx context.Context, id int64) error
	PatchName(ctx context.Context, req *dto.PatchLessonNameRequest) error
	PatchDescription(ctx context.Context, req *dto.PatchLessonDescriptionRequest) error
	PatchColor(ctx context.Context, req *dto.PatchLessonColorRequest) error

	CreateType(ctx context.Context, req *dto.CreateLessonTypeRequest) (*dto.LessonTypeResponse, error)
	GetTypeByID(ctx context.Context, id int64) (*dto.LessonTypeResponse, error)
	ListTypes(ctx context.Context) ([]dto.LessonTypeResponse, error)
	DeleteType(ctx context.Context, id int64) error
	PatchTypeName(ctx context.Context, req *dto.PatchLessonTypeNameRequest) error
	PatchTypeDescription(ctx context.Context, req *dto.PatchLessonTypeDescriptionRequest) error

	// ListGroupLinks 列出课程-班组关联行，过滤条件全部可选
	ListGroupLinks(ctx context.Context, filter repository.LessonGroupFilter) ([]dto.LessonGroupLinkResponse, error)
}

type lessonService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLessonService 创建 LessonService 实例
func NewLessonService(repo *repository.Repository, logger *zap.Logger) LessonService {
	return &lessonService{repo: repo, logger: logger}
}

// ────────────────────── 课程 ──────────────────────

func (s *lessonService) Create(ctx context.Context, req *dto.CreateLessonRequest) (*dto.LessonResponse, error) {
	if _, err := s.repo.Lesson.GetByName(ctx, req.Name); err == nil {
		return nil, ErrLessonNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询课程失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	lesson := &model.Lesson{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}
	if err := s.repo.Lesson.Create(ctx, lesson); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	return s.toLessonResponse(lesson), nil
}

func (s *lessonService) GetByID(ctx context.Context, id int64) (*dto.LessonResponse, error) {
	lesson, err := s.repo.Lesson.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return s.toLessonResponse(lesson), nil
}

func (s *lessonService) List(ctx context.Context) ([]dto.LessonResponse, error) {
	lessons, err := s.repo.Lesson.List(ctx)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}

	resp := make([]dto.LessonResponse, 0, len(lessons))
	for i := range lessons {
		resp = append(resp, *s.toLessonResponse(&lessons[i]))
	}
	return resp, nil
}

func (s *lessonService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Lesson.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	inUse, err := s.repo.Event.ExistsByLesson(ctx, id)
	if err != nil {
		s.logger.Error("检查课程引用失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if inUse {
		return ErrLessonInUse
	}

	if err := s.repo.Lesson.Delete(ctx, id); err != nil {
		s.logger.Error("删除课程失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *lessonService) PatchName(ctx context.Context, req *dto.PatchLessonNameRequest) error {
	if _, err := s.repo.Lesson.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if existing, err := s.repo.Lesson.GetByName(ctx, req.Name); err == nil {
		if existing.ID != req.ID {
			return ErrLessonNameTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询课程失败", zap.String("name", req.Name), zap.Error(err))
		return err
	}

	if err := s.repo.Lesson.UpdateName(ctx, req.ID, req.Name); err != nil {
		s.logger.Error("更新课程名称失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *lessonService) PatchDescription(ctx context.Context, req *dto.PatchLessonDescriptionRequest) error {
	if _, err := s.repo.Lesson.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if err := s.repo.Lesson.UpdateDescription(ctx, req.ID, req.Description); err != nil {
		s.logger.Error("更新课程描述失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *lessonService) PatchColor(ctx context.Context, req *dto.PatchLessonColorRequest) error {
	if _, err := s.repo.Lesson.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if err := s.repo.Lesson.UpdateColor(ctx, req.ID, req.Color); err != nil {
		s.logger.Error("更新课程颜色失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 课程类型 ──────────────────────

func (s *lessonService) CreateType(ctx context.Context, req *dto.CreateLessonTypeRequest) (*dto.LessonTypeResponse, error) {
	if _, err := s.repo.Lesson.GetTypeByName(ctx, req.Name); err == nil {
		return nil, ErrLessonTypeNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询课程类型失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	lessonType := &model.LessonType{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Lesson.CreateType(ctx, lessonType); err != nil {
		s.logger.Error("创建课程类型失败", zap.Error(err))
		return nil, err
	}

	return s.toTypeResponse(lessonType), nil
}

func (s *lessonService) GetTypeByID(ctx context.Context, id int64) (*dto.LessonTypeResponse, error) {
	lessonType, err := s.repo.Lesson.GetTypeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonTypeNotFound
		}
		s.logger.Error("查询课程类型失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return s.toTypeResponse(lessonType), nil
}

func (s *lessonService) ListTypes(ctx context.Context) ([]dto.LessonTypeResponse, error) {
	types, err := s.repo.Lesson.ListTypes(ctx)
	if err != nil {
		s.logger.Error("列出课程类型失败", zap.Error(err))
		return nil, err
	}

	resp := make([]dto.LessonTypeResponse, 0, len(types))
	for i := range types {
		resp = append(resp, *s.toTypeResponse(&types[i]))
	}
	return resp, nil
}

func (s *lessonService) DeleteType(ctx context.Context, id int64) error {
	if _, err := s.repo.Lesson.GetTypeByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonTypeNotFound
		}
		s.logger.Error("查询课程类型失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	inUse, err := s.repo.Event.ExistsByLessonType(ctx, id)
	if err != nil {
		s.logger.Error("检查课程类型引用失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if inUse {
		return ErrLessonTypeInUse
	}

	if err := s.repo.Lesson.DeleteType(ctx, id); err != nil {
		s.logger.Error("删除课程类型失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *lessonService) PatchTypeName(ctx context.Context, req *dto.PatchLessonTypeNameRequest) error {
	if _, err := s.repo.Lesson.GetTypeByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonTypeNotFound
		}
		s.logger.Error("查询课程类型失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if existing, err := s.repo.Lesson.GetTypeByName(ctx, req.Name); err == nil {
		if existing.ID != req.ID {
			return ErrLessonTypeNameTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询课程类型失败", zap.String("name", req.Name), zap.Error(err))
		return err
	}

	if err := s.repo.Lesson.UpdateTypeName(ctx, req.ID, req.Name); err != nil {
		s.logger.Error("更新课程类型名称失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *lessonService) PatchTypeDescription(ctx context.Context, req *dto.PatchLessonTypeDescriptionRequest) error {
	if _, err := s.repo.Lesson.GetTypeByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonTypeNotFound
		}
		s.logger.Error("查询课程类型失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if err := s.repo.Lesson.UpdateTypeDescription(ctx, req.ID, req.Description); err != nil {
		s.logger.Error("更新课程类型描述失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 课程-班组关联 ──────────────────────

func (s *lessonService) ListGroupLinks(ctx context.Context, filter repository.LessonGroupFilter) ([]dto.LessonGroupLinkResponse, error) {
	links, err := s.repo.Lesson.ListGroupLinks(ctx, filter)
	if err != nil {
		s.logger.Error("列出课程班组关联失败", zap.Error(err))
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

// ── 内部辅助方法 ──

func (s *lessonService) toLessonResponse(l *model.Lesson) *dto.LessonResponse {
	return &dto.LessonResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Color:       l.Color,
	}
}

func (s *lessonService) toTypeResponse(t *model.LessonType) *dto.LessonTypeResponse {
	return &dto.LessonTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
	}
}
