package consts

const (
	SmsKey            = "sms:validate:code:"
	TokenBlacklistKey = "auth:token:blacklist:"

	// IMUserKey 用户个人事件频道，承载消息/已读回执/回应等变更推送
	IMUserKey = "im:user:"
	// IMTypingKey 双方输入状态频道，后缀为排序后的 "小ID_大ID"
	IMTypingKey = "im:typing:"

	GlucoseAlertKey = "glucose:alert:last:"
)
