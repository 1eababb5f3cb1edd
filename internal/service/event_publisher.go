package service

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/pkg/consts"
	"Glycora/internal/pkg/redis"
	"context"
	"strconv"

	"github.com/goccy/go-json"
)

// EventPublisher 变更推送总线：向用户个人频道发布事件
// 前端通过 WebSocket 订阅该频道获得实时更新。
type EventPublisher interface {
	PublishToUser(ctx context.Context, userID uint64, event *dto.IMEventDTO) error
}

type redisEventPublisher struct{}

func NewEventPublisher() EventPublisher {
	return &redisEventPublisher{}
}

func (s *redisEventPublisher) PublishToUser(ctx context.Context, userID uint64, event *dto.IMEventDTO) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	channel := consts.IMUserKey + strconv.FormatUint(userID, 10)
	return redis.Publish(ctx, channel, data)
}
