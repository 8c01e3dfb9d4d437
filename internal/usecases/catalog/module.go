package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/metrics"
	kafkaPorts "github.com/admin/cosmic-connect/internal/ports/kafka"
	"github.com/admin/cosmic-connect/internal/ports/repository"
	"github.com/google/uuid"
)

type Service struct {
	ProfileRepo    repository.IProfileRepo
	AstrologerRepo repository.IAstrologerRepo
	ChatRepo       repository.IChatRepo
	Events         kafkaPorts.IEventPublisher
	Log            *slog.Logger
}

func New(
	profileRepo repository.IProfileRepo,
	astrologerRepo repository.IAstrologerRepo,
	chatRepo repository.IChatRepo,
	events kafkaPorts.IEventPublisher,
	log *slog.Logger,
) *Service {
	return &Service{
		ProfileRepo:    profileRepo,
		AstrologerRepo: astrologerRepo,
		ChatRepo:       chatRepo,
		Events:         events,
		Log:            log,
	}
}

// ListAstrologers каталог: сначала онлайн, затем по рейтингу и имени
func (s *Service) ListAstrologers(ctx context.Context) ([]domain.AstrologerCard, error) {
	return s.AstrologerRepo.ListCards(ctx)
}

// StartChat создаёт неактивный чат пользователя с астрологом
func (s *Service) StartChat(ctx context.Context, userID, astrologerID uuid.UUID) (*domain.Chat, error) {
	if astrologerID == uuid.Nil {
		return nil, fmt.Errorf("%w: astrologer id is required", domain.ErrValidation)
	}
	if userID == astrologerID {
		return nil, fmt.Errorf("%w: cannot start a chat with yourself", domain.ErrValidation)
	}

	astrologer, err := s.ProfileRepo.GetByID(ctx, astrologerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("astrologer %s: %w", astrologerID, domain.ErrNotFound)
		}
		return nil, err
	}
	if astrologer.Role != domain.RoleAstrologer {
		return nil, fmt.Errorf("astrologer %s: %w", astrologerID, domain.ErrNotFound)
	}

	now := time.Now().UTC()
	chat := &domain.Chat{
		ID:           uuid.New(),
		UserID:       userID,
		AstrologerID: astrologerID,
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.ChatRepo.Create(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to start chat: %w", err)
	}

	metrics.ChatsCreated.Inc()
	s.Log.Info("chat created",
		"chat_id", chat.ID,
		"user_id", userID,
		"astrologer_id", astrologerID,
	)
	_ = s.Events.Publish(ctx, domain.NewEvent(domain.EventChatCreated, chat.ID, userID, now))

	return chat, nil
}

// ListMyChats чаты пользователя, новые сверху
func (s *Service) ListMyChats(ctx context.Context, userID uuid.UUID) ([]domain.ChatSummary, error) {
	return s.ChatRepo.ListByUser(ctx, userID)
}
