package feed

import (
	"context"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/google/uuid"
)

// Subscription подписка на новые сообщения одного чата
type Subscription interface {
	// Messages закрывается, когда подписка закрыта или отстала
	Messages() <-chan domain.Message
	Close() error
}

// IMessageFeed лента вставок сообщений, канал на каждый чат
type IMessageFeed interface {
	Publish(ctx context.Context, message domain.Message) error
	// Subscribe возвращается только после того, как подписка активна
	Subscribe(ctx context.Context, chatID uuid.UUID) (Subscription, error)
}
