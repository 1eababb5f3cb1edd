package handler

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/pkg/response"
	"Glycora/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AttachmentHandler struct {
	attachmentService service.AttachmentService
}

func NewAttachmentHandler(attachmentService service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// Upload 仅上传附件，返回可随后写入消息的附件引用
func (s *AttachmentHandler) Upload(c *gin.Context) {
	userID := c.GetUint64("user_id")

	file, err := c.FormFile("file")
	if err != nil || file == nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	res, err := s.attachmentService.Upload(c.Request.Context(), userID, file.Filename, reader, file.Size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SendWithAttachment 带附件发消息：上传失败则消息不会发出
// multipart 表单：file + target_user_id，content/subject/reply_to 可选
func (s *AttachmentHandler) SendWithAttachment(c *gin.Context) {
	senderID := c.GetUint64("user_id")

	targetUserID, err := strconv.ParseUint(c.PostForm("target_user_id"), 10, 64)
	if err != nil || targetUserID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	req := &dto.SendMessageReq{
		TargetUserID: targetUserID,
		Subject:      c.PostForm("subject"),
		Content:      c.PostForm("content"),
	}
	if raw := c.PostForm("reply_to"); raw != "" {
		replyTo, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		req.ReplyTo = &replyTo
	}

	file, err := c.FormFile("file")
	if err != nil || file == nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	res, err := s.attachmentService.SendWithAttachment(c.Request.Context(), senderID, req, file.Filename, reader, file.Size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
