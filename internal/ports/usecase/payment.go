package usecase

import (
	"context"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/google/uuid"
)

// IPaymentReviewService очередь проверки оплат (admin_panel)
type IPaymentReviewService interface {
	ListPending(ctx context.Context) ([]domain.PendingPayment, error)
	Verify(ctx context.Context, paymentID, adminID uuid.UUID) (*domain.Payment, error)
	Reject(ctx context.Context, paymentID, adminID uuid.UUID) (*domain.Payment, error)
}

// IPaymentMaintenance фоновые сверки для джоб
type IPaymentMaintenance interface {
	ReconcileActivations(ctx context.Context) (int, error)
	RemindPending(ctx context.Context, olderThan time.Duration) (int, error)
}
