package model

import "time"

// MessageReaction 消息表情回应
// (message_id, user_id, emoji) 唯一索引兜底并发下的重复插入，
// 业务层按切换语义处理：存在即删除，不存在即插入。
type MessageReaction struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID uint64    `gorm:"uniqueIndex:idx_msg_user_emoji;index" json:"messageId"`
	UserID    uint64    `gorm:"uniqueIndex:idx_msg_user_emoji" json:"userId"`
	Emoji     string    `gorm:"type:varchar(16);uniqueIndex:idx_msg_user_emoji" json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
}

func (MessageReaction) TableName() string { return "message_reactions" }
