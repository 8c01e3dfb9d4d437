package kafka

import (
	"context"

	"github.com/admin/cosmic-connect/internal/domain"
)

// IEventPublisher публикация доменных событий
type IEventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
