package repository

import (
	"Glycora/internal/model"
	"context"

	"gorm.io/gorm"
)

type PinRepo interface {
	Find(ctx context.Context, messageID, userID uint64) (*model.PinnedMessage, error)
	Create(ctx context.Context, p *model.PinnedMessage) error
	Delete(ctx context.Context, id uint64) error
	// ListMessageIDsByUser 返回用户收藏的全部消息 ID
	ListMessageIDsByUser(ctx context.Context, userID uint64) ([]uint64, error)
}

type pinRepoImpl struct {
	db *gorm.DB
}

func NewPinRepo(db *gorm.DB) PinRepo {
	return &pinRepoImpl{db: db}
}

func (s *pinRepoImpl) Find(ctx context.Context, messageID, userID uint64) (*model.PinnedMessage, error) {
	var p model.PinnedMessage
	err := s.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *pinRepoImpl) Create(ctx context.Context, p *model.PinnedMessage) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *pinRepoImpl) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.PinnedMessage{}, id).Error
}

func (s *pinRepoImpl) ListMessageIDsByUser(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.PinnedMessage{}).
		Where("user_id = ?", userID).
		Pluck("message_id", &ids).Error
	return ids, err
}
