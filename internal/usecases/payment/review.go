package payment

import (
	"context"
	"fmt"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/metrics"
	"github.com/admin/cosmic-connect/internal/ports/persistence"
	"github.com/google/uuid"
)

// Verify подтверждает оплату и активирует чат в одной транзакции.
// Повторный verify ничего не меняет, verify после reject - ErrInvalidPaymentTransition.
func (s *Service) Verify(ctx context.Context, paymentID, adminID uuid.UUID) (*domain.Payment, error) {
	var (
		payment   *domain.Payment
		changed   bool
		activated bool
	)
	now := s.now().UTC()

	err := s.DB.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		p, err := s.PaymentRepo.GetForUpdateTx(ctx, tx, paymentID)
		if err != nil {
			return err
		}

		changed, err = p.Status.CanTransitionTo(domain.PaymentStatusVerified)
		if err != nil {
			return err
		}

		if changed {
			ok, err := s.PaymentRepo.ResolveTx(ctx, tx, p.ID, domain.PaymentStatusVerified, adminID, now)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: payment %s is no longer pending", domain.ErrConflict, p.ID)
			}
			p.Status = domain.PaymentStatusVerified
			p.VerifiedBy = &adminID
			p.VerifiedAt = &now
			p.UpdatedAt = now
		}

		// повторный verify долечивает чат, если активация раньше не случилась
		if p.ChatID != nil {
			activated, err = s.ChatRepo.ActivateTx(ctx, tx, *p.ChatID)
			if err != nil {
				return err
			}
		}

		payment = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify payment %s: %w", paymentID, err)
	}

	if changed {
		metrics.PaymentsResolved.WithLabelValues(string(domain.PaymentStatusVerified)).Inc()
		s.Log.Info("payment verified",
			"payment_id", payment.ID,
			"chat_id", payment.ChatID,
			"admin_id", adminID,
			"amount", payment.Amount.String(),
		)
		_ = s.Events.Publish(ctx, domain.NewPaymentEvent(domain.EventPaymentVerified, payment, adminID, now))
	}
	if activated {
		metrics.ChatsActivated.WithLabelValues("review").Inc()
		s.Log.Info("chat activated", "chat_id", *payment.ChatID, "payment_id", payment.ID)
		_ = s.Events.Publish(ctx, domain.NewPaymentEvent(domain.EventChatActivated, payment, adminID, now))
	}

	return payment, nil
}

// Reject отклоняет оплату, чат остаётся неактивным. Повторный reject - no-op без события.
func (s *Service) Reject(ctx context.Context, paymentID, adminID uuid.UUID) (*domain.Payment, error) {
	var (
		payment *domain.Payment
		changed bool
	)
	now := s.now().UTC()

	err := s.DB.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		p, err := s.PaymentRepo.GetForUpdateTx(ctx, tx, paymentID)
		if err != nil {
			return err
		}

		changed, err = p.Status.CanTransitionTo(domain.PaymentStatusRejected)
		if err != nil {
			return err
		}

		if changed {
			ok, err := s.PaymentRepo.ResolveTx(ctx, tx, p.ID, domain.PaymentStatusRejected, adminID, now)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: payment %s is no longer pending", domain.ErrConflict, p.ID)
			}
			p.Status = domain.PaymentStatusRejected
			p.UpdatedAt = now
		}

		payment = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reject payment %s: %w", paymentID, err)
	}

	if changed {
		metrics.PaymentsResolved.WithLabelValues(string(domain.PaymentStatusRejected)).Inc()
		s.Log.Info("payment rejected",
			"payment_id", payment.ID,
			"chat_id", payment.ChatID,
			"admin_id", adminID,
		)
		_ = s.Events.Publish(ctx, domain.NewPaymentEvent(domain.EventPaymentRejected, payment, adminID, now))
	}

	return payment, nil
}
