package handler

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/pkg/response"
	"Glycora/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type IMHandler struct {
	imService       service.IMService
	reactionService service.ReactionService
	typing          *service.TypingTracker
}

func NewIMHandler(imService service.IMService, reactionService service.ReactionService, typing *service.TypingTracker) *IMHandler {
	return &IMHandler{
		imService:       imService,
		reactionService: reactionService,
		typing:          typing,
	}
}

// GetConversationList 获取会话列表，支持按对方姓名过滤
func (s *IMHandler) GetConversationList(c *gin.Context) {
	userID := c.GetUint64("user_id")
	search := c.Query("search")

	res, err := s.imService.ListConversations(c.Request.Context(), userID, search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SelectConversation 打开会话：返回完整消息列表并标记对方消息为已读
func (s *IMHandler) SelectConversation(c *gin.Context) {
	userID := c.GetUint64("user_id")
	peerID, err := strconv.ParseUint(c.Param("peer_id"), 10, 64)
	if err != nil || peerID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.imService.SelectConversation(c.Request.Context(), userID, peerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetSystemMessages 获取系统消息列表（血糖告警、医嘱、预约提醒等）
func (s *IMHandler) GetSystemMessages(c *gin.Context) {
	userID := c.GetUint64("user_id")
	res, err := s.imService.ListSystemMessages(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SendMessage 发送消息接口
func (s *IMHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	senderID := c.GetUint64("user_id")

	res, err := s.imService.SendMessage(c.Request.Context(), senderID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetReplies 获取某条消息的回复列表
func (s *IMHandler) GetReplies(c *gin.Context) {
	userID := c.GetUint64("user_id")
	messageID, err := strconv.ParseUint(c.Param("message_id"), 10, 64)
	if err != nil || messageID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.imService.GetReplies(c.Request.Context(), userID, messageID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetThreadCount 获取某条消息的回复数
func (s *IMHandler) GetThreadCount(c *gin.Context) {
	userID := c.GetUint64("user_id")
	messageID, err := strconv.ParseUint(c.Param("message_id"), 10, 64)
	if err != nil || messageID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	count, err := s.imService.GetThreadCount(c.Request.Context(), userID, messageID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int{"count": count})
}

// ToggleReaction 切换回应
func (s *IMHandler) ToggleReaction(c *gin.Context) {
	var req dto.ToggleReactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")
	res, err := s.reactionService.ToggleReaction(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetMessageReactions 获取消息的回应聚合
func (s *IMHandler) GetMessageReactions(c *gin.Context) {
	userID := c.GetUint64("user_id")
	messageID, err := strconv.ParseUint(c.Param("message_id"), 10, 64)
	if err != nil || messageID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.reactionService.GetMessageReactions(c.Request.Context(), userID, messageID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// TogglePin 切换收藏
func (s *IMHandler) TogglePin(c *gin.Context) {
	var req dto.TogglePinReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")
	res, err := s.reactionService.TogglePin(c.Request.Context(), userID, req.MessageID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetPinnedMessages 获取收藏的消息列表
func (s *IMHandler) GetPinnedMessages(c *gin.Context) {
	userID := c.GetUint64("user_id")
	res, err := s.reactionService.ListPinned(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Typing 键入上报：每次键入调用一次，服务端维护熄灭计时
func (s *IMHandler) Typing(c *gin.Context) {
	userID := c.GetUint64("user_id")
	peerID, err := strconv.ParseUint(c.Query("peer_id"), 10, 64)
	if err != nil || peerID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	s.typing.OnKeystroke(c.Request.Context(), userID, peerID)
	response.Success(c, nil)
}
