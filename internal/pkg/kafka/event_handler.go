package kafka

import (
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/pkg/logger"
	"wiki-echo/internal/service/notification"
)

// Notifier is the part of the notification service the consumer drives.
type Notifier interface {
	Notify(ctx context.Context, input domain.NotifyInput) (*domain.Event, error)
}

// EventHandler turns wiki action messages into notifications.
type EventHandler struct {
	notifier Notifier
}

func NewEventHandler(notifier Notifier) *EventHandler {
	return &EventHandler{notifier: notifier}
}

func (h *EventHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("echo event consumer setup")
	return nil
}

func (h *EventHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("echo event consumer cleanup")
	return nil
}

func (h *EventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	if err := pullMessageBatch(session, claim, h.logic); err != nil {
		log.Error("echo event batch error", "err", err)
		return err
	}
	return nil
}

// logic returns an error only for failures worth retrying. Malformed
// messages and unknown types are logged and dropped.
func (h *EventHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	ctx = logger.WithTraceID(ctx, "kafka-"+uuid.NewString())

	var input domain.NotifyInput
	if err := json.Unmarshal(msg.Value, &input); err != nil {
		log.WarnContext(ctx, "dropping malformed echo event", "offset", msg.Offset, "err", err)
		return nil
	}
	if input.Type == "" {
		log.WarnContext(ctx, "dropping echo event without type", "offset", msg.Offset)
		return nil
	}

	event, err := h.notifier.Notify(ctx, input)
	if errors.Is(err, notification.ErrUnknownType) {
		log.WarnContext(ctx, "dropping echo event of unknown type", "type", input.Type)
		return nil
	}
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "echo event stored", "event_id", event.ID, "type", event.Type, "recipients", len(input.Recipients))
	return nil
}
