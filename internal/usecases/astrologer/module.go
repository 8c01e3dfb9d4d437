package astrologer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/ports/repository"
	"github.com/google/uuid"
)

// Service дашборд астролога: своя карточка, статус онлайн, активные чаты
type Service struct {
	AstrologerRepo repository.IAstrologerRepo
	ChatRepo       repository.IChatRepo
	Log            *slog.Logger
}

func New(astrologerRepo repository.IAstrologerRepo, chatRepo repository.IChatRepo, log *slog.Logger) *Service {
	return &Service{
		AstrologerRepo: astrologerRepo,
		ChatRepo:       chatRepo,
		Log:            log,
	}
}

// GetOrCreateProfile карточка астролога; при первом заходе создаётся дефолтная
func (s *Service) GetOrCreateProfile(ctx context.Context, astrologerID uuid.UUID) (*domain.Astrologer, error) {
	a, err := s.AstrologerRepo.GetByID(ctx, astrologerID)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	a, err = s.AstrologerRepo.Create(ctx, domain.NewDefaultAstrologer(astrologerID, time.Now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("failed to create astrologer profile: %w", err)
	}

	s.Log.Info("astrologer profile created", "astrologer_id", astrologerID)
	return a, nil
}

// UpdateProfile применяет патч владельца к карточке
func (s *Service) UpdateProfile(ctx context.Context, astrologerID uuid.UUID, patch domain.AstrologerPatch) (*domain.Astrologer, error) {
	a, err := s.GetOrCreateProfile(ctx, astrologerID)
	if err != nil {
		return nil, err
	}

	if err := patch.Apply(a); err != nil {
		return nil, err
	}
	a.UpdatedAt = time.Now().UTC()

	if err := s.AstrologerRepo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update astrologer profile: %w", err)
	}

	s.Log.Info("astrologer profile updated", "astrologer_id", astrologerID)
	return a, nil
}

func (s *Service) SetOnline(ctx context.Context, astrologerID uuid.UUID, online bool) error {
	if _, err := s.GetOrCreateProfile(ctx, astrologerID); err != nil {
		return err
	}
	if err := s.AstrologerRepo.SetOnline(ctx, astrologerID, online); err != nil {
		return fmt.Errorf("failed to set online status: %w", err)
	}

	s.Log.Info("astrologer online status changed", "astrologer_id", astrologerID, "online", online)
	return nil
}

// ListActiveChats активные чаты астролога с именами пользователей
func (s *Service) ListActiveChats(ctx context.Context, astrologerID uuid.UUID) ([]domain.ChatSummary, error) {
	return s.ChatRepo.ListActiveByAstrologer(ctx, astrologerID)
}
