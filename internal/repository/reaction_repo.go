package repository

import (
	"Glycora/internal/model"
	"context"

	"gorm.io/gorm"
)

type ReactionRepo interface {
	Find(ctx context.Context, messageID, userID uint64, emoji string) (*model.MessageReaction, error)
	Create(ctx context.Context, r *model.MessageReaction) error
	Delete(ctx context.Context, id uint64) error
	ListByMessage(ctx context.Context, messageID uint64) ([]*model.MessageReaction, error)
}

type reactionRepoImpl struct {
	db *gorm.DB
}

func NewReactionRepo(db *gorm.DB) ReactionRepo {
	return &reactionRepoImpl{db: db}
}

// Find 按 (message, user, emoji) 三元组精确查找，未找到返回 gorm.ErrRecordNotFound
func (s *reactionRepoImpl) Find(ctx context.Context, messageID, userID uint64, emoji string) (*model.MessageReaction, error) {
	var r model.MessageReaction
	err := s.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *reactionRepoImpl) Create(ctx context.Context, r *model.MessageReaction) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *reactionRepoImpl) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.MessageReaction{}, id).Error
}

func (s *reactionRepoImpl) ListByMessage(ctx context.Context, messageID uint64) ([]*model.MessageReaction, error) {
	var list []*model.MessageReaction
	err := s.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
