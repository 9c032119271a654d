package kafka

import (
	"context"
	log "log/slog"

	"github.com/IBM/sarama"

	"wiki-echo/internal/config"
)

// ConsumerManager runs the echo event consumer group.
type ConsumerManager struct {
	consumer sarama.ConsumerGroup
	handler  sarama.ConsumerGroupHandler
	topic    string
}

func NewConsumerManager(cfg *config.Config, notifier Notifier) (*ConsumerManager, error) {
	consumer, err := sarama.NewConsumerGroup(cfg.KafkaBrokers, cfg.KafkaGroupID, newSaramaConfig())
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		consumer: consumer,
		handler:  NewEventHandler(notifier),
		topic:    cfg.KafkaTopic,
	}, nil
}

// Start consumes until ctx is cancelled.
func (m *ConsumerManager) Start(ctx context.Context) {
	go func() {
		for err := range m.consumer.Errors() {
			log.Error("echo consumer error", "err", err)
		}
	}()

	go func() {
		log.Info("echo event consumer started", "topic", m.topic)
		for {
			if err := m.consumer.Consume(ctx, []string{m.topic}, m.handler); err != nil {
				log.Error("error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

func (m *ConsumerManager) Close() error {
	return m.consumer.Close()
}
