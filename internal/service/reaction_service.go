package service

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/model"
	"Glycora/internal/pkg/consts"
	"Glycora/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"gorm.io/gorm"
)

// ReactionService 消息回应与收藏服务接口定义
type ReactionService interface {
	// ToggleReaction 切换回应：已存在则删除，不存在则新增
	ToggleReaction(ctx context.Context, userID uint64, req *dto.ToggleReactionReq) (*dto.ToggleRes, error)
	GetMessageReactions(ctx context.Context, userID, messageID uint64) ([]*dto.ReactionGroupDTO, error)
	TogglePin(ctx context.Context, userID, messageID uint64) (*dto.ToggleRes, error)
	IsPinned(ctx context.Context, userID, messageID uint64) (bool, error)
	// ListPinned 返回用户收藏的消息，保持消息本身的时间顺序
	ListPinned(ctx context.Context, userID uint64) ([]*dto.MessageDTO, error)
}

type reactionServiceImpl struct {
	reactionRepo repository.ReactionRepo
	pinRepo      repository.PinRepo
	messageRepo  repository.MessageRepo
	events       EventPublisher
}

func NewReactionService(reactionRepo repository.ReactionRepo, pinRepo repository.PinRepo, messageRepo repository.MessageRepo, events EventPublisher) ReactionService {
	return &reactionServiceImpl{
		reactionRepo: reactionRepo,
		pinRepo:      pinRepo,
		messageRepo:  messageRepo,
		events:       events,
	}
}

// ToggleReaction 以数据库现状为准做切换，唯一索引兜底并发重复
func (s *reactionServiceImpl) ToggleReaction(ctx context.Context, userID uint64, req *dto.ToggleReactionReq) (*dto.ToggleRes, error) {
	msg, err := s.messageRepo.GetByID(ctx, req.MessageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if (msg.FromUserID == nil || *msg.FromUserID != userID) && msg.Recipient() != userID {
		return nil, UnauthorizedError
	}

	existing, err := s.reactionRepo.Find(ctx, req.MessageID, userID, req.Emoji)
	switch {
	case err == nil:
		if err := s.reactionRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		s.publishReaction(ctx, msg, userID)
		return &dto.ToggleRes{Active: false}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		r := &model.MessageReaction{
			MessageID: req.MessageID,
			UserID:    userID,
			Emoji:     req.Emoji,
			CreatedAt: time.Now(),
		}
		if err := s.reactionRepo.Create(ctx, r); err != nil {
			return nil, err
		}
		s.publishReaction(ctx, msg, userID)
		return &dto.ToggleRes{Active: true}, nil
	default:
		return nil, err
	}
}

// GetMessageReactions 按 emoji 聚合，标记当前用户是否参与
func (s *reactionServiceImpl) GetMessageReactions(ctx context.Context, userID, messageID uint64) ([]*dto.ReactionGroupDTO, error) {
	list, err := s.reactionRepo.ListByMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}

	byEmoji := make(map[string]*dto.ReactionGroupDTO)
	var order []string
	for _, r := range list {
		group, ok := byEmoji[r.Emoji]
		if !ok {
			group = &dto.ReactionGroupDTO{Emoji: r.Emoji}
			byEmoji[r.Emoji] = group
			order = append(order, r.Emoji)
		}
		group.Count++
		if r.UserID == userID {
			group.HasOwnReaction = true
		}
	}

	res := make([]*dto.ReactionGroupDTO, 0, len(order))
	for _, emoji := range order {
		res = append(res, byEmoji[emoji])
	}
	return res, nil
}

// TogglePin 切换收藏，收藏仅对本人可见，不产生推送
func (s *reactionServiceImpl) TogglePin(ctx context.Context, userID, messageID uint64) (*dto.ToggleRes, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if (msg.FromUserID == nil || *msg.FromUserID != userID) && msg.Recipient() != userID {
		return nil, UnauthorizedError
	}

	existing, err := s.pinRepo.Find(ctx, messageID, userID)
	switch {
	case err == nil:
		if err := s.pinRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		return &dto.ToggleRes{Active: false}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		p := &model.PinnedMessage{
			MessageID: messageID,
			UserID:    userID,
			PinnedAt:  time.Now(),
		}
		if err := s.pinRepo.Create(ctx, p); err != nil {
			return nil, err
		}
		return &dto.ToggleRes{Active: true}, nil
	default:
		return nil, err
	}
}

func (s *reactionServiceImpl) IsPinned(ctx context.Context, userID, messageID uint64) (bool, error) {
	_, err := s.pinRepo.Find(ctx, messageID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListPinned 收藏列表按消息创建时间排序，而非收藏时间
func (s *reactionServiceImpl) ListPinned(ctx context.Context, userID uint64) ([]*dto.MessageDTO, error) {
	ids, err := s.pinRepo.ListMessageIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*dto.MessageDTO{}, nil
	}

	pinned := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		pinned[id] = struct{}{}
	}

	// ListVisible 已按创建时间升序返回
	messages, err := s.messageRepo.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageDTO, 0, len(ids))
	for _, m := range messages {
		if _, ok := pinned[m.ID]; ok {
			res = append(res, toMessageDTO(m))
		}
	}
	return res, nil
}

// publishReaction 通知消息的另一方刷新该消息的回应视图
func (s *reactionServiceImpl) publishReaction(ctx context.Context, msg *model.Message, actorID uint64) {
	peerID := msg.Counterpart(actorID)
	if peerID == 0 {
		return
	}
	err := s.events.PublishToUser(ctx, peerID, &dto.IMEventDTO{
		Type: consts.EventTypeReaction,
		Payload: map[string]uint64{
			"message_id": msg.ID,
		},
	})
	if err != nil {
		log.WarnContext(ctx, "Failed to publish reaction event", "peerID", peerID, "err", err)
	}
}
