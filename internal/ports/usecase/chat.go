package usecase

import (
	"context"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/google/uuid"
)

type IChatService interface {
	GetChat(ctx context.Context, chatID, viewerID uuid.UUID) (*domain.ChatDetails, error)
	SendMessage(ctx context.Context, chatID, senderID uuid.UUID, text string) (*domain.Message, error)
	ListMessages(ctx context.Context, chatID, viewerID uuid.UUID) ([]domain.Message, error)
	MarkRead(ctx context.Context, chatID, readerID uuid.UUID) (int64, error)
	// Subscribe канал закрывается при отмене ctx
	Subscribe(ctx context.Context, chatID, viewerID uuid.UUID, afterSeq int64) (<-chan domain.Message, error)
	SubmitProof(ctx context.Context, in domain.ProofSubmission) (*domain.Payment, error)
}
