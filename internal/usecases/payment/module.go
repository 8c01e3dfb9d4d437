package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	kafkaPorts "github.com/admin/cosmic-connect/internal/ports/kafka"
	"github.com/admin/cosmic-connect/internal/ports/persistence"
	"github.com/admin/cosmic-connect/internal/ports/repository"
	"github.com/admin/cosmic-connect/internal/ports/service"
	"github.com/admin/cosmic-connect/internal/ports/storage"
)

const defaultProofURLTTL = 15 * time.Minute

// Service очередь ручной проверки оплат: админ подтверждает или отклоняет пруф
type Service struct {
	DB             persistence.Persistence
	PaymentRepo    repository.IPaymentRepo
	ChatRepo       repository.IChatRepo
	Proofs         storage.IProofStorage
	Events         kafkaPorts.IEventPublisher
	AlerterService service.IAlerterService // может быть nil
	ProofURLTTL    time.Duration
	Log            *slog.Logger

	now func() time.Time
}

func New(
	db persistence.Persistence,
	paymentRepo repository.IPaymentRepo,
	chatRepo repository.IChatRepo,
	proofs storage.IProofStorage,
	events kafkaPorts.IEventPublisher,
	alerterService service.IAlerterService,
	proofURLTTL time.Duration,
	log *slog.Logger,
) *Service {
	if proofURLTTL <= 0 {
		proofURLTTL = defaultProofURLTTL
	}
	return &Service{
		DB:             db,
		PaymentRepo:    paymentRepo,
		ChatRepo:       chatRepo,
		Proofs:         proofs,
		Events:         events,
		AlerterService: alerterService,
		ProofURLTTL:    proofURLTTL,
		Log:            log,
		now:            time.Now,
	}
}

// ListPending очередь админа, новые сверху; ссылка на пруф - presigned URL
func (s *Service) ListPending(ctx context.Context) ([]domain.PendingPayment, error) {
	pending, err := s.PaymentRepo.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	for i := range pending {
		key := pending[i].ProofURL
		if key == nil || *key == "" {
			continue
		}
		link, err := s.Proofs.GetPresignedURL(ctx, *key, s.ProofURLTTL)
		if err != nil {
			s.Log.Warn("failed to presign payment proof",
				"error", err,
				"payment_id", pending[i].ID,
				"key", *key,
			)
			continue
		}
		pending[i].ProofLink = link
	}

	return pending, nil
}

func (s *Service) alert(ctx context.Context, message string) {
	if s.AlerterService == nil {
		return
	}
	if err := s.AlerterService.SendAlert(ctx, message); err != nil {
		s.Log.Warn("failed to send alert", "error", err)
	}
}
