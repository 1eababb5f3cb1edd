package kafka

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// CGMHandler 消费 CGM 设备上报的血糖事件并批量落库
type CGMHandler struct {
	glucoseService service.GlucoseService
}

func NewCGMHandler(glucoseService service.GlucoseService) *CGMHandler {
	return &CGMHandler{glucoseService: glucoseService}
}

func (s *CGMHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (s *CGMHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (s *CGMHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, s.handleBatch)
}

func (s *CGMHandler) handleBatch(ctx context.Context, msgs []*sarama.ConsumerMessage) error {
	events := make([]*dto.CGMReadingEvent, 0, len(msgs))
	for _, msg := range msgs {
		var event dto.CGMReadingEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// 坏消息不重试，丢弃并继续
			log.ErrorContext(ctx, "unmarshal cgm event error", "offset", msg.Offset, "err", err)
			continue
		}
		events = append(events, &event)
	}

	return s.glucoseService.IngestDeviceReadings(ctx, events)
}
