package repository

import (
	"Glycora/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type MessageRepo interface {
	Create(ctx context.Context, msg *model.Message) error
	GetByID(ctx context.Context, id uint64) (*model.Message, error)
	// ListVisible 返回用户可见的全部消息（其发出或接收的），按创建时间升序
	ListVisible(ctx context.Context, userID uint64) ([]*model.Message, error)
	// ListBetween 返回用户与某对手方之间的全部消息，按创建时间升序
	ListBetween(ctx context.Context, userID, peerID uint64) ([]*model.Message, error)
	// ListSystem 返回发给用户的全部系统消息（发送者为空），按创建时间升序
	ListSystem(ctx context.Context, userID uint64) ([]*model.Message, error)
	// MarkConversationRead 将对手方发给用户的全部未读消息一次性置为已读，
	// 返回被更新的消息 ID 列表
	MarkConversationRead(ctx context.Context, userID, peerID uint64, readAt time.Time) ([]uint64, error)
}

type messageRepoImpl struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &messageRepoImpl{db: db}
}

func (s *messageRepoImpl) Create(ctx context.Context, msg *model.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

func (s *messageRepoImpl) GetByID(ctx context.Context, id uint64) (*model.Message, error) {
	var msg model.Message
	err := s.db.WithContext(ctx).First(&msg, id).Error
	return &msg, err
}

func (s *messageRepoImpl) ListVisible(ctx context.Context, userID uint64) ([]*model.Message, error) {
	var msgs []*model.Message
	err := s.db.WithContext(ctx).
		Where("from_user_id = ? OR to_patient_id = ? OR to_clinician_id = ?", userID, userID, userID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

func (s *messageRepoImpl) ListBetween(ctx context.Context, userID, peerID uint64) ([]*model.Message, error) {
	var msgs []*model.Message
	err := s.db.WithContext(ctx).
		Where(
			s.db.Where("from_user_id = ? AND (to_patient_id = ? OR to_clinician_id = ?)", userID, peerID, peerID).
				Or("from_user_id = ? AND (to_patient_id = ? OR to_clinician_id = ?)", peerID, userID, userID),
		).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

func (s *messageRepoImpl) ListSystem(ctx context.Context, userID uint64) ([]*model.Message, error) {
	var msgs []*model.Message
	err := s.db.WithContext(ctx).
		Where("from_user_id IS NULL AND (to_patient_id = ? OR to_clinician_id = ?)", userID, userID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

// MarkConversationRead 先查出未读 ID 再批量更新，两步放在同一事务里
func (s *messageRepoImpl) MarkConversationRead(ctx context.Context, userID, peerID uint64, readAt time.Time) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Message{}).
			Where("from_user_id = ? AND (to_patient_id = ? OR to_clinician_id = ?) AND read_at IS NULL",
				peerID, userID, userID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&model.Message{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"read_at": readAt,
				"status":  model.MessageStatusRead,
			}).Error
	})
	return ids, err
}
