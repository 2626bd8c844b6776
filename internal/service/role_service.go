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

// ── 角色模块业务错误 ──

var (
	ErrRoleNotFound     = errors.New("角色不存在")
	ErrRoleLinkExists   = errors.New("用户已持有该角色")
	ErrRoleLinkNotFound = errors.New("用户未持有该角色")
	// ErrRoleMissing 迁移预置的角色行丢失，属于部署故障
	ErrRoleMissing = errors.New("预置角色缺失")
)

// RoleService 角色业务接口
// 角色行由迁移预置，不提供创建和删除
type RoleService interface {
	GetByID(ctx context.Context, id int64) (*dto.RoleResponse, error)
	List(ctx context.Context) ([]dto.RoleResponse, error)
	PatchDescription(ctx context.Context, req *dto.PatchRoleDescriptionRequest) error
	ListUserIDs(ctx context.Context, roleID int64) ([]int64, error)
	// LinkUser 按角色名给用户授予角色（moderator / teacher）
	LinkUser(ctx context.Context, userID int64, roleName string) error
	UnlinkUser(ctx context.Context, userID int64, roleName string) error
}

type roleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoleService 创建 RoleService 实例
func NewRoleService(repo *repository.Repository, logger *zap.Logger) RoleService {
	return &roleService{repo: repo, logger: logger}
}

// ────────────────────── GetByID ──────────────────────

func (s *roleService) GetByID(ctx context.Context, id int64) (*dto.RoleResponse, error) {
	role, err := s.repo.Role.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		s.logger.Error("查询角色失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return s.toRoleResponse(role), nil
}

// ────────────────────── List ──────────────────────

func (s *roleService) List(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := s.repo.Role.List(ctx)
	if err != nil {
		s.logger.Error("列出角色失败", zap.Error(err))
		return nil, err
	}

	resp := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		resp = append(resp, *s.toRoleResponse(&roles[i]))
	}
	return resp, nil
}

// ────────────────────── PatchDescription ──────────────────────

func (s *roleService) PatchDescription(ctx context.Context, req *dto.PatchRoleDescriptionRequest) error {
	if _, err := s.repo.Role.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		s.logger.Error("查询角色失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}

	if err := s.repo.Role.UpdateDescription(ctx, req.ID, req.Description); err != nil {
		s.logger.Error("更新角色描述失败", zap.Int64("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ListUserIDs ──────────────────────

func (s *roleService) ListUserIDs(ctx context.Context, roleID int64) ([]int64, error) {
	if _, err := s.repo.Role.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		s.logger.Error("查询角色失败", zap.Int64("id", roleID), zap.Error(err))
		return nil, err
	}

	ids, err := s.repo.Role.ListUserIDs(ctx, roleID)
	if err != nil {
		s.logger.Error("列出角色用户失败", zap.Int64("role_id", roleID), zap.Error(err))
		return nil, err
	}
	return ids, nil
}

// ────────────────────── LinkUser / UnlinkUser ──────────────────────

func (s *roleService) LinkUser(ctx context.Context, userID int64, roleName string) error {
	role, err := s.getSeededRole(ctx, roleName)
	if err != nil {
		return err
	}

	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Int64("id", userID), zap.Error(err))
		return err
	}

	linked, err := s.repo.Role.HasLink(ctx, userID, role.ID)
	if err != nil {
		s.logger.Error("查询用户角色关联失败", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	if linked {
		return ErrRoleLinkExists
	}

	if err := s.repo.Role.Link(ctx, userID, role.ID); err != nil {
		s.logger.Error("授予角色失败", zap.Int64("user_id", userID), zap.String("role", roleName), zap.Error(err))
		return err
	}
	return nil
}

func (s *roleService) UnlinkUser(ctx context.Context, userID int64, roleName string) error {
	role, err := s.getSeededRole(ctx, roleName)
	if err != nil {
		return err
	}

	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Int64("id", userID), zap.Error(err))
		return err
	}

	linked, err := s.repo.Role.HasLink(ctx, userID, role.ID)
	if err != nil {
		s.logger.Error("查询用户角色关联失败", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	if !linked {
		return ErrRoleLinkNotFound
	}

	if err := s.repo.Role.Unlink(ctx, userID, role.ID); err != nil {
		s.logger.Error("回收角色失败", zap.Int64("user_id", userID), zap.String("role", roleName), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *roleService) getSeededRole(ctx context.Context, name string) (*model.Role, error) {
	role, err := s.repo.Role.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("预置角色缺失", zap.String("role", name))
			return nil, ErrRoleMissing
		}
		s.logger.Error("查询角色失败", zap.String("role", name), zap.Error(err))
		return nil, err
	}
	return role, nil
}

func (s *roleService) toRoleResponse(r *model.Role) *dto.RoleResponse {
	return &dto.RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
	}
}
