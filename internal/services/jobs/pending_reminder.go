package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/admin/cosmic-connect/internal/ports/usecase"
)

const pendingPaymentsReminderName = "pending-payments-reminder"

// PendingPaymentsReminder раз в час напоминает админам о непроверенных оплатах
type PendingPaymentsReminder struct {
	payments  usecase.IPaymentMaintenance
	olderThan time.Duration
	log       *slog.Logger
}

func NewPendingPaymentsReminder(payments usecase.IPaymentMaintenance, olderThan time.Duration, log *slog.Logger) *PendingPaymentsReminder {
	return &PendingPaymentsReminder{
		payments:  payments,
		olderThan: olderThan,
		log:       log,
	}
}

func (j *PendingPaymentsReminder) Name() string {
	return pendingPaymentsReminderName
}

// NextRun в начале каждого часа
func (j *PendingPaymentsReminder) NextRun(now time.Time) time.Time {
	return now.Truncate(time.Hour).Add(time.Hour)
}

func (j *PendingPaymentsReminder) Run(ctx context.Context) error {
	n, err := j.payments.RemindPending(ctx, j.olderThan)
	if err != nil {
		return err
	}
	j.log.Debug("pending payments checked", "stale", n)
	return nil
}
