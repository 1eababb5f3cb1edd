package kafka

import (
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

const (
	batchSize    = 64
	batchTimeout = 1 * time.Second
)

type BatchLogicFunc func(ctx context.Context, msgs []*sarama.ConsumerMessage) error

// pullMessageBatch 拉取一批消息并整批交给业务逻辑
// 整批成功才提交位点，失败则指数退避重试
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic BatchLogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session, batch, logic)
				// 清空缓冲区 & 重置定时器
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic BatchLogicFunc) {
	retryInterval := 100 * time.Millisecond

	for {
		err := logic(session.Context(), messages)
		if err == nil {
			break
		}
		select {
		case <-session.Context().Done():
			return
		default:
		}

		log.Error("process message batch error", "err", err)
		time.Sleep(retryInterval)

		retryInterval *= 2
		if retryInterval > 5*time.Second {
			retryInterval = 5 * time.Second
		}
	}

	lastMsg := messages[len(messages)-1]
	session.MarkMessage(lastMsg, "")
}
