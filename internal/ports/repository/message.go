package repository

import (
	"context"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/google/uuid"
)

// IMessageRepo сообщения чатов
type IMessageRepo interface {
	// Create сохраняет сообщение, сервер назначает seq и created_at
	Create(ctx context.Context, message *domain.Message) error
	ListByChat(ctx context.Context, chatID uuid.UUID) ([]domain.Message, error)
	ListAfter(ctx context.Context, chatID uuid.UUID, afterSeq int64) ([]domain.Message, error)
	MarkRead(ctx context.Context, chatID, readerID uuid.UUID) (int64, error)
}
