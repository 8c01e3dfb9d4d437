package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/admin/cosmic-connect/internal/ports/usecase"
)

const (
	activationReconcilerName = "activation-reconciler"

	DefaultReconcileInterval = 10 * time.Minute
)

// ActivationReconciler активирует чаты с подтверждённой оплатой, оставшиеся неактивными
type ActivationReconciler struct {
	payments usecase.IPaymentMaintenance
	interval time.Duration
	log      *slog.Logger
}

func NewActivationReconciler(payments usecase.IPaymentMaintenance, interval time.Duration, log *slog.Logger) *ActivationReconciler {
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}
	return &ActivationReconciler{
		payments: payments,
		interval: interval,
		log:      log,
	}
}

func (j *ActivationReconciler) Name() string {
	return activationReconcilerName
}

// NextRun по границе интервала (каждые 10 минут по умолчанию)
func (j *ActivationReconciler) NextRun(now time.Time) time.Time {
	return now.Truncate(j.interval).Add(j.interval)
}

func (j *ActivationReconciler) Run(ctx context.Context) error {
	n, err := j.payments.ReconcileActivations(ctx)
	if n > 0 {
		j.log.Info("reconciled chat activations", "activated", n)
	}
	return err
}
