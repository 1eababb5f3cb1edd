package kafka

import (
	"Glycora/internal/api/config"
	"Glycora/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	cgmConsumer sarama.ConsumerGroup
	cgmHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, glucoseService service.GlucoseService) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	cgmConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaCGMConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	cgmHandler := NewCGMHandler(glucoseService)

	return &ConsumerManager{
		cgmConsumer: cgmConsumer,
		cgmHandler:  cgmHandler,
	}, nil
}

// Start 启动所有消费者
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaCGMConsumer.Topic
		log.Info("CGM consumer started", "topic", topic)
		for {
			if err := m.cgmConsumer.Consume(ctx, []string{topic}, m.cgmHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.cgmConsumer.Close(); err != nil {
		log.Error("Failed to close cgm consumer", "err", err)
	}

	return nil
}
