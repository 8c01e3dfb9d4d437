package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/metrics"
	"github.com/admin/cosmic-connect/internal/ports/persistence"
	"github.com/google/uuid"
)

// ReconcileActivations активирует чаты, у которых есть подтверждённая оплата, но is_active=false
// (строки, оставшиеся от неатомарного подтверждения). Возвращает число активированных чатов.
func (s *Service) ReconcileActivations(ctx context.Context) (int, error) {
	payments, err := s.PaymentRepo.ListVerifiedWithInactiveChat(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list verified payments with inactive chats: %w", err)
	}
	if len(payments) == 0 {
		return 0, nil
	}

	var (
		activated []string
		failed    int
	)
	for i := range payments {
		p := payments[i]
		if p.ChatID == nil {
			continue
		}

		var ok bool
		err := s.DB.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
			var err error
			ok, err = s.ChatRepo.ActivateTx(ctx, tx, *p.ChatID)
			return err
		})
		if err != nil {
			failed++
			s.Log.Error("failed to reconcile chat activation",
				"error", err,
				"chat_id", *p.ChatID,
				"payment_id", p.ID,
			)
			continue
		}
		if !ok {
			continue
		}

		actor := uuid.Nil
		if p.VerifiedBy != nil {
			actor = *p.VerifiedBy
		}
		metrics.ChatsActivated.WithLabelValues("reconciler").Inc()
		s.Log.Info("chat activated by reconciler", "chat_id", *p.ChatID, "payment_id", p.ID)
		_ = s.Events.Publish(ctx, domain.NewPaymentEvent(domain.EventChatActivated, &p, actor, s.now().UTC()))
		activated = append(activated, p.ChatID.String())
	}

	if len(activated) > 0 {
		s.alert(ctx, fmt.Sprintf("Activated %d chat(s) with verified payments: %s",
			len(activated), strings.Join(activated, ", ")))
	}
	if failed > 0 {
		return len(activated), fmt.Errorf("failed to activate %d of %d chats", failed, len(payments))
	}
	return len(activated), nil
}

// RemindPending напоминает админам об оплатах, ждущих проверки дольше olderThan
func (s *Service) RemindPending(ctx context.Context, olderThan time.Duration) (int, error) {
	before := s.now().UTC().Add(-olderThan)
	pending, err := s.PaymentRepo.ListPendingOlderThan(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale pending payments: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d payment(s) waiting for review longer than %s:\n", len(pending), olderThan)
	for _, p := range pending {
		fmt.Fprintf(&b, "- %s from %s, amount %s, since %s\n",
			p.ID, p.PayerName, p.Amount.StringFixed(2), p.CreatedAt.Format(time.RFC3339))
	}
	s.alert(ctx, b.String())

	s.Log.Info("pending payments reminder sent", "count", len(pending))
	return len(pending), nil
}
