package usecase

import (
	"context"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/google/uuid"
)

type ICatalogService interface {
	ListAstrologers(ctx context.Context) ([]domain.AstrologerCard, error)
	StartChat(ctx context.Context, userID, astrologerID uuid.UUID) (*domain.Chat, error)
	ListMyChats(ctx context.Context, userID uuid.UUID) ([]domain.ChatSummary, error)
}

type IAstrologerService interface {
	GetOrCreateProfile(ctx context.Context, astrologerID uuid.UUID) (*domain.Astrologer, error)
	UpdateProfile(ctx context.Context, astrologerID uuid.UUID, patch domain.AstrologerPatch) (*domain.Astrologer, error)
	SetOnline(ctx context.Context, astrologerID uuid.UUID, online bool) error
	ListActiveChats(ctx context.Context, astrologerID uuid.UUID) ([]domain.ChatSummary, error)
}
