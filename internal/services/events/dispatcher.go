package events

import (
	"context"
	"log/slog"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/metrics"
	kafkaPorts "github.com/admin/cosmic-connect/internal/ports/kafka"
)

// Dispatcher публикация событий без влияния на основной сценарий:
// ошибка брокера логируется и считается, но не возвращается вызывающему
type Dispatcher struct {
	publisher kafkaPorts.IEventPublisher
	log       *slog.Logger
}

func NewDispatcher(publisher kafkaPorts.IEventPublisher, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		log:       log,
	}
}

var _ kafkaPorts.IEventPublisher = (*Dispatcher)(nil)

func (d *Dispatcher) Publish(ctx context.Context, event domain.Event) error {
	if d == nil || d.publisher == nil {
		return nil
	}

	if err := d.publisher.Publish(ctx, event); err != nil {
		metrics.EventPublishErrors.WithLabelValues(string(event.Type)).Inc()
		d.log.Warn("failed to publish domain event",
			"error", err,
			"event_type", event.Type,
			"event_id", event.ID,
			"chat_id", event.ChatID,
		)
	}
	return nil
}
