package repository

import (
	"context"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/ports/persistence"
	"github.com/google/uuid"
)

// IChatRepo консультации
type IChatRepo interface {
	Create(ctx context.Context, chat *domain.Chat) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ChatSummary, error)
	ListActiveByAstrologer(ctx context.Context, astrologerID uuid.UUID) ([]domain.ChatSummary, error)
	// ActivateTx переводит чат в активный; повторная активация не меняет started_at
	ActivateTx(ctx context.Context, tx persistence.Transaction, id uuid.UUID) (activated bool, err error)
}
