package service

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/pkg/consts"
	"Glycora/internal/pkg/minio"
	"Glycora/internal/pkg/util"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Uploader 对象存储抽象，便于测试时替换实现
type Uploader interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	PublicURL(objectName string) string
}

type minioUploader struct{}

func NewUploader() Uploader {
	return &minioUploader{}
}

func (s *minioUploader) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	return minio.UploadFile(ctx, objectName, reader, size, contentType)
}

func (s *minioUploader) PublicURL(objectName string) string {
	return minio.GetPublicURL(objectName)
}

// AttachmentService 消息附件服务接口定义
type AttachmentService interface {
	// Upload 上传附件，返回可写入消息的附件引用
	Upload(ctx context.Context, ownerID uint64, filename string, file io.ReadSeeker, size int64) (*dto.AttachmentDTO, error)
	// SendWithAttachment 先上传附件再发送消息，上传失败则整体中止
	SendWithAttachment(ctx context.Context, senderID uint64, req *dto.SendMessageReq, filename string, file io.ReadSeeker, size int64) (*dto.MessageDTO, error)
}

type attachmentServiceImpl struct {
	uploader Uploader
	im       IMService
}

func NewAttachmentService(uploader Uploader, im IMService) AttachmentService {
	return &attachmentServiceImpl{
		uploader: uploader,
		im:       im,
	}
}

// Upload 大小校验先于任何网络传输，对象路径按属主隔离
func (s *attachmentServiceImpl) Upload(ctx context.Context, ownerID uint64, filename string, file io.ReadSeeker, size int64) (*dto.AttachmentDTO, error) {
	if size > consts.MaxAttachmentSize {
		return nil, ErrFileTooLarge
	}
	if size <= 0 || filename == "" {
		return nil, ErrParamInvalid
	}

	contentType, err := util.GetSafeContentType(file)
	if err != nil {
		return nil, ErrFileNotSupported
	}

	objectName := fmt.Sprintf("%d/%s/%s%s",
		ownerID,
		time.Now().Format("20060102"),
		uuid.NewString(),
		filepath.Ext(filename),
	)

	key, err := s.uploader.Upload(ctx, objectName, file, size, contentType)
	if err != nil {
		log.ErrorContext(ctx, "Failed to upload attachment", "ownerID", ownerID, "filename", filename, "err", err)
		return nil, ErrAttachmentUpload
	}

	return &dto.AttachmentDTO{
		URL:      s.uploader.PublicURL(key),
		Name:     filename,
		MimeType: contentType,
	}, nil
}

// SendWithAttachment 组合操作：任一环节失败都不会落下消息行
func (s *attachmentServiceImpl) SendWithAttachment(ctx context.Context, senderID uint64, req *dto.SendMessageReq, filename string, file io.ReadSeeker, size int64) (*dto.MessageDTO, error) {
	attachment, err := s.Upload(ctx, senderID, filename, file, size)
	if err != nil {
		return nil, err
	}

	req.AttachmentURL = attachment.URL
	req.AttachmentName = attachment.Name
	req.AttachmentMime = attachment.MimeType
	return s.im.SendMessage(ctx, senderID, req)
}
