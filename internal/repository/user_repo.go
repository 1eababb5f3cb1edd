package repository

import (
	"Glycora/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserRepo interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ListByIDs(ctx context.Context, ids []uint64) ([]*model.User, error)
	ListByRole(ctx context.Context, role string) ([]*model.User, error)

	GetProfile(ctx context.Context, userID uint64) (*model.PatientProfile, error)
	SaveProfile(ctx context.Context, profile *model.PatientProfile) error
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepoImpl{db: db}
}

func (s *userRepoImpl) Create(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *userRepoImpl) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	return &user, err
}

func (s *userRepoImpl) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return &user, err
}

func (s *userRepoImpl) ListByIDs(ctx context.Context, ids []uint64) ([]*model.User, error) {
	var users []*model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (s *userRepoImpl) ListByRole(ctx context.Context, role string) ([]*model.User, error) {
	var users []*model.User
	err := s.db.WithContext(ctx).Where("role = ? AND is_ban = 0", role).Find(&users).Error
	return users, err
}

func (s *userRepoImpl) GetProfile(ctx context.Context, userID uint64) (*model.PatientProfile, error) {
	var profile model.PatientProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	return &profile, err
}

// SaveProfile 存在则更新，不存在则创建
func (s *userRepoImpl) SaveProfile(ctx context.Context, profile *model.PatientProfile) error {
	var existing model.PatientProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", profile.UserID).First(&existing).Error
	if err == nil {
		profile.ID = existing.ID
		return s.db.WithContext(ctx).Save(profile).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(profile).Error
	}
	return err
}
