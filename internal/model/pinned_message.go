package model

import "time"

// PinnedMessage 用户个人的消息收藏标记
// 与回应相同的切换语义；收藏状态按用户隔离，互不可见。
type PinnedMessage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID uint64    `gorm:"uniqueIndex:idx_msg_user;index" json:"messageId"`
	UserID    uint64    `gorm:"uniqueIndex:idx_msg_user;index" json:"userId"`
	PinnedAt  time.Time `json:"pinnedAt"`
}

func (PinnedMessage) TableName() string { return "pinned_messages" }
