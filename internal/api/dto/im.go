package dto

import "time"

// SendMessageReq 发送消息请求体
// content 与附件至少其一非空，由服务层校验
type SendMessageReq struct {
	TargetUserID   uint64  `json:"target_user_id" binding:"required"`
	Subject        string  `json:"subject" binding:"max=255"`
	Content        string  `json:"content"`
	ReplyTo        *uint64 `json:"reply_to"` // 被回复消息 ID
	AttachmentURL  string  `json:"attachment_url"`
	AttachmentName string  `json:"attachment_name"`
	AttachmentMime string  `json:"attachment_mime"`
}

// MessageDTO 消息明细响应
type MessageDTO struct {
	ID              uint64         `json:"id"`
	FromUserID      *uint64        `json:"from_user_id"`
	ToPatientID     *uint64        `json:"to_patient_id"`
	ToClinicianID   *uint64        `json:"to_clinician_id"`
	Subject         string         `json:"subject,omitempty"`
	Content         string         `json:"content"`
	Status          string         `json:"status"`
	SentAt          time.Time      `json:"sent_at"`
	ReadAt          *time.Time     `json:"read_at"`
	ParentMessageID *uint64        `json:"parent_message_id"`
	ThreadID        *uint64        `json:"thread_id"`
	Attachment      *AttachmentDTO `json:"attachment,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// AttachmentDTO 附件引用
type AttachmentDTO struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
}

// ConversationDTO 会话列表项响应
type ConversationDTO struct {
	PeerID          uint64      `json:"peer_id"`
	PeerDisplayName string      `json:"peer_display_name"`
	PeerRole        string      `json:"peer_role"`
	LastMessage     *MessageDTO `json:"last_message"`
	UnreadCount     int         `json:"unread_count"`
}

// ReactionGroupDTO 单个 emoji 在一条消息上的聚合视图
type ReactionGroupDTO struct {
	Emoji          string `json:"emoji"`
	Count          int    `json:"count"`
	HasOwnReaction bool   `json:"has_own_reaction"`
}

// ToggleReactionReq 回应切换请求
type ToggleReactionReq struct {
	MessageID uint64 `json:"message_id" binding:"required"`
	Emoji     string `json:"emoji" binding:"required,max=16"`
}

// TogglePinReq 收藏切换请求
type TogglePinReq struct {
	MessageID uint64 `json:"message_id" binding:"required"`
}

// ToggleRes 切换类操作的结果：true 表示此次为添加
type ToggleRes struct {
	Active bool `json:"active"`
}

// ReadReceiptDTO 已读回执推送
type ReadReceiptDTO struct {
	Type       string    `json:"type"`
	PeerID     uint64    `json:"peer_id"`
	MessageIDs []uint64  `json:"message_ids"`
	ReadAt     time.Time `json:"read_at"`
}

// TypingEventDTO 输入状态推送
type TypingEventDTO struct {
	Type   string `json:"type"`
	UserID uint64 `json:"user_id"`
	PeerID uint64 `json:"peer_id"`
	Typing bool   `json:"typing"`
}

// IMEventDTO 用户频道上的通用事件信封
type IMEventDTO struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
