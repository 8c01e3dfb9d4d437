package repository

import (
	"context"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/google/uuid"
)

// IAstrologerRepo профили астрологов
type IAstrologerRepo interface {
	// ListCards каталог: онлайн сначала, затем по рейтингу и имени
	ListCards(ctx context.Context) ([]domain.AstrologerCard, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Astrologer, error)
	// Create вставляет строку, если её ещё нет; возвращает актуальную строку
	Create(ctx context.Context, astrologer *domain.Astrologer) (*domain.Astrologer, error)
	Update(ctx context.Context, astrologer *domain.Astrologer) error
	SetOnline(ctx context.Context, id uuid.UUID, online bool) error
}
