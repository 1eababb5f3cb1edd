package model

import "time"

const (
	MessageStatusSent = "sent"
	MessageStatusRead = "read"
)

// Message 医患私信主表
// 收件人二选一：患者发出的消息填 to_clinician_id，医生发出的消息填
// to_patient_id，两者有且仅有一个非空。from_user_id 为空表示系统消息。
type Message struct {
	ID              uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FromUserID      *uint64    `gorm:"index" json:"fromUserId"`
	ToPatientID     *uint64    `gorm:"index" json:"toPatientId"`
	ToClinicianID   *uint64    `gorm:"index" json:"toClinicianId"`
	Subject         string     `gorm:"type:varchar(255)" json:"subject"`
	Content         string     `gorm:"type:text" json:"content"`
	Status          string     `gorm:"type:varchar(20);default:'sent'" json:"status"`
	SentAt          time.Time  `json:"sentAt"`
	ReadAt          *time.Time `json:"readAt"` // 收件人查看会话前为 NULL
	ParentMessageID *uint64    `gorm:"index" json:"parentMessageId"`
	ThreadID        *uint64    `gorm:"index" json:"threadId"` // 恒等于回复链根消息 ID
	AttachmentURL   string     `gorm:"type:varchar(500)" json:"attachmentUrl"`
	AttachmentName  string     `gorm:"type:varchar(255)" json:"attachmentName"`
	AttachmentMime  string     `gorm:"type:varchar(100)" json:"attachmentMime"`
	CreatedAt       time.Time  `gorm:"index" json:"createdAt"`
}

func (Message) TableName() string { return "messages" }

// Recipient 返回消息唯一的收件人 ID
func (m *Message) Recipient() uint64 {
	if m.ToPatientID != nil {
		return *m.ToPatientID
	}
	if m.ToClinicianID != nil {
		return *m.ToClinicianID
	}
	return 0
}

// Counterpart 返回相对于 userID 的对手方 ID
func (m *Message) Counterpart(userID uint64) uint64 {
	if m.FromUserID != nil && *m.FromUserID != userID {
		return *m.FromUserID
	}
	return m.Recipient()
}
