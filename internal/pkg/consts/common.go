package consts

const (
	// MaxAttachmentSize 附件大小上限 10MB
	MaxAttachmentSize = 10 << 20

	// TypingIdleTimeoutMs 无键入后输入状态自动熄灭的毫秒数
	TypingIdleTimeoutMs = 2000
)

const (
	EventTypeMessage     = "MESSAGE"
	EventTypeReadReceipt = "READ_RECEIPT"
	EventTypeReaction    = "REACTION"
	EventTypeTyping      = "TYPING"
	EventTypeGlucose     = "GLUCOSE_ALERT"
	EventTypeAppointment = "APPOINTMENT"
)
