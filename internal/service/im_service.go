package service

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/model"
	"Glycora/internal/pkg/consts"
	"Glycora/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
)

// IMService 医患私信服务接口定义
type IMService interface {
	ListConversations(ctx context.Context, userID uint64, search string) ([]*dto.ConversationDTO, error)
	// SelectConversation 返回与对手方的完整消息列表（升序），
	// 副作用：将对方发来的全部未读消息一次性置为已读
	SelectConversation(ctx context.Context, userID, peerID uint64) ([]*dto.MessageDTO, error)
	SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	// SendSystemMessage 发送系统消息（无发送者）
	SendSystemMessage(ctx context.Context, toUserID uint64, subject, content string) error
	// ListSystemMessages 返回用户收到的全部系统消息（升序）
	ListSystemMessages(ctx context.Context, userID uint64) ([]*dto.MessageDTO, error)
	GetReplies(ctx context.Context, userID, messageID uint64) ([]*dto.MessageDTO, error)
	GetThreadCount(ctx context.Context, userID, messageID uint64) (int, error)
}

type imServiceImpl struct {
	messageRepo repository.MessageRepo
	userRepo    repository.UserRepo
	events      EventPublisher
	typing      *TypingTracker
}

func NewIMService(messageRepo repository.MessageRepo, userRepo repository.UserRepo, events EventPublisher, typing *TypingTracker) IMService {
	return &imServiceImpl{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		events:      events,
		typing:      typing,
	}
}

// ListConversations 获取会话列表
// 拉取用户可见的全部消息后整体聚合，数据量为数十到数百条，不做增量维护
func (s *imServiceImpl) ListConversations(ctx context.Context, userID uint64, search string) ([]*dto.ConversationDTO, error) {
	messages, err := s.messageRepo.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := AggregateConversations(messages, userID)

	peerIDs := make([]uint64, 0, len(summaries))
	for _, sum := range summaries {
		peerIDs = append(peerIDs, sum.PeerID)
	}
	peers, err := s.userRepo.ListByIDs(ctx, peerIDs)
	if err != nil {
		return nil, err
	}

	names := make(map[uint64]string, len(peers))
	roles := make(map[uint64]string, len(peers))
	for _, p := range peers {
		names[p.ID] = p.DisplayName
		roles[p.ID] = p.Role
	}

	summaries = FilterConversationsByName(summaries, names, search)

	res := make([]*dto.ConversationDTO, 0, len(summaries))
	for _, sum := range summaries {
		res = append(res, &dto.ConversationDTO{
			PeerID:          sum.PeerID,
			PeerDisplayName: names[sum.PeerID],
			PeerRole:        roles[sum.PeerID],
			LastMessage:     toMessageDTO(sum.LastMessage),
			UnreadCount:     sum.UnreadCount,
		})
	}
	return res, nil
}

// SelectConversation 打开会话：取全部消息并批量标记已读
func (s *imServiceImpl) SelectConversation(ctx context.Context, userID, peerID uint64) ([]*dto.MessageDTO, error) {
	messages, err := s.messageRepo.ListBetween(ctx, userID, peerID)
	if err != nil {
		return nil, err
	}

	readAt := time.Now()
	readIDs, err := s.messageRepo.MarkConversationRead(ctx, userID, peerID, readAt)
	if err != nil {
		return nil, err
	}

	// 同步内存视图，避免再查一次
	readSet := make(map[uint64]struct{}, len(readIDs))
	for _, id := range readIDs {
		readSet[id] = struct{}{}
	}
	for _, m := range messages {
		if _, ok := readSet[m.ID]; ok {
			t := readAt
			m.ReadAt = &t
			m.Status = model.MessageStatusRead
		}
	}

	// 已读回执推送到对方频道
	if len(readIDs) > 0 {
		receipt := &dto.ReadReceiptDTO{
			Type:       consts.EventTypeReadReceipt,
			PeerID:     userID,
			MessageIDs: readIDs,
			ReadAt:     readAt,
		}
		if err := s.events.PublishToUser(ctx, peerID, &dto.IMEventDTO{
			Type:    consts.EventTypeReadReceipt,
			Payload: receipt,
		}); err != nil {
			log.WarnContext(ctx, "Failed to publish read receipt", "peerID", peerID, "err", err)
		}
	}

	res := make([]*dto.MessageDTO, 0, len(messages))
	for _, m := range messages {
		res = append(res, toMessageDTO(m))
	}
	return res, nil
}

// SendMessage 发送消息
func (s *imServiceImpl) SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	// 校验先于任何写入
	if strings.TrimSpace(req.Content) == "" && req.AttachmentURL == "" {
		return nil, ErrMessageEmpty
	}
	if req.TargetUserID == senderID {
		return nil, ErrSelfMessage
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	target, err := s.userRepo.GetByID(ctx, req.TargetUserID)
	if err != nil || target.IsBan {
		return nil, ErrTargetUserInvalid
	}

	msg := &model.Message{
		FromUserID: &sender.ID,
		Subject:    req.Subject,
		Content:    strings.TrimSpace(req.Content),
		Status:     model.MessageStatusSent,
		SentAt:     time.Now(),
		CreatedAt:  time.Now(),
	}

	// 收件人二选一：由发送方角色决定另一方字段
	switch sender.Role {
	case model.RoleClinician:
		if target.Role != model.RolePatient {
			return nil, ErrTargetUserInvalid
		}
		msg.ToPatientID = &target.ID
	case model.RolePatient:
		if target.Role != model.RoleClinician {
			return nil, ErrTargetUserInvalid
		}
		msg.ToClinicianID = &target.ID
	default:
		return nil, UnauthorizedError
	}

	// 回复：父引用指向被回复的消息，线程标识恒为根消息 ID
	if req.ReplyTo != nil {
		parent, err := s.messageRepo.GetByID(ctx, *req.ReplyTo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMessageNotFound
			}
			return nil, err
		}
		if parent.Counterpart(senderID) != target.ID && parent.Recipient() != senderID {
			return nil, UnauthorizedError
		}
		msg.ParentMessageID = &parent.ID
		threadID := ResolveThreadID(parent)
		msg.ThreadID = &threadID
	}

	// 附件引用与占位正文
	if req.AttachmentURL != "" {
		msg.AttachmentURL = req.AttachmentURL
		msg.AttachmentName = req.AttachmentName
		msg.AttachmentMime = req.AttachmentMime
		if msg.Content == "" {
			msg.Content = fmt.Sprintf("[附件] %s", req.AttachmentName)
		}
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	// 发送即视为停止输入
	s.typing.OnMessageSent(ctx, senderID, target.ID)

	res := toMessageDTO(msg)
	if err := s.events.PublishToUser(ctx, target.ID, &dto.IMEventDTO{
		Type:    consts.EventTypeMessage,
		Payload: res,
	}); err != nil {
		log.WarnContext(ctx, "Failed to publish message event", "targetID", target.ID, "err", err)
	}

	return res, nil
}

// SendSystemMessage 系统消息：发送者为空，收件人字段由目标角色决定
func (s *imServiceImpl) SendSystemMessage(ctx context.Context, toUserID uint64, subject, content string) error {
	target, err := s.userRepo.GetByID(ctx, toUserID)
	if err != nil {
		return ErrUserNotFound
	}

	msg := &model.Message{
		Subject:   subject,
		Content:   content,
		Status:    model.MessageStatusSent,
		SentAt:    time.Now(),
		CreatedAt: time.Now(),
	}
	switch target.Role {
	case model.RolePatient:
		msg.ToPatientID = &target.ID
	case model.RoleClinician:
		msg.ToClinicianID = &target.ID
	default:
		return ErrTargetUserInvalid
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return err
	}

	return s.events.PublishToUser(ctx, target.ID, &dto.IMEventDTO{
		Type:    consts.EventTypeMessage,
		Payload: toMessageDTO(msg),
	})
}

// ListSystemMessages 系统消息不属于任何医患会话，通过独立列表读取
func (s *imServiceImpl) ListSystemMessages(ctx context.Context, userID uint64) ([]*dto.MessageDTO, error) {
	messages, err := s.messageRepo.ListSystem(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.MessageDTO, 0, len(messages))
	for _, m := range messages {
		res = append(res, toMessageDTO(m))
	}
	return res, nil
}

// GetReplies 某条消息的回复列表
func (s *imServiceImpl) GetReplies(ctx context.Context, userID, messageID uint64) ([]*dto.MessageDTO, error) {
	messages, err := s.visibleThreadPool(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}

	replies := ThreadReplies(messages, messageID)
	res := make([]*dto.MessageDTO, 0, len(replies))
	for _, m := range replies {
		res = append(res, toMessageDTO(m))
	}
	return res, nil
}

// GetThreadCount 回复数，用于 "N 条回复" 展示
func (s *imServiceImpl) GetThreadCount(ctx context.Context, userID, messageID uint64) (int, error) {
	messages, err := s.visibleThreadPool(ctx, userID, messageID)
	if err != nil {
		return 0, err
	}
	return ThreadCount(messages, messageID), nil
}

// visibleThreadPool 校验消息归属并返回该会话的全部消息
func (s *imServiceImpl) visibleThreadPool(ctx context.Context, userID, messageID uint64) ([]*model.Message, error) {
	root, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	peerID := root.Counterpart(userID)
	if (root.FromUserID == nil || *root.FromUserID != userID) && root.Recipient() != userID {
		return nil, UnauthorizedError
	}
	return s.messageRepo.ListBetween(ctx, userID, peerID)
}

func toMessageDTO(m *model.Message) *dto.MessageDTO {
	if m == nil {
		return nil
	}
	res := &dto.MessageDTO{
		ID:              m.ID,
		FromUserID:      m.FromUserID,
		ToPatientID:     m.ToPatientID,
		ToClinicianID:   m.ToClinicianID,
		Subject:         m.Subject,
		Content:         m.Content,
		Status:          m.Status,
		SentAt:          m.SentAt,
		ReadAt:          m.ReadAt,
		ParentMessageID: m.ParentMessageID,
		ThreadID:        m.ThreadID,
		CreatedAt:       m.CreatedAt,
	}
	if m.AttachmentURL != "" {
		res.Attachment = &dto.AttachmentDTO{
			URL:      m.AttachmentURL,
			Name:     m.AttachmentName,
			MimeType: m.AttachmentMime,
		}
	}
	return res
}
