package repository

import (
	"context"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/ports/persistence"
	"github.com/google/uuid"
)

// IPaymentRepo оплаты и очередь проверки
type IPaymentRepo interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	ListByChat(ctx context.Context, chatID uuid.UUID) ([]domain.Payment, error)
	ListPending(ctx context.Context) ([]domain.PendingPayment, error)
	ListPendingOlderThan(ctx context.Context, before time.Time) ([]domain.PendingPayment, error)
	// ListVerifiedWithInactiveChat оплаты, подтверждённые без активации чата
	ListVerifiedWithInactiveChat(ctx context.Context) ([]domain.Payment, error)
	GetForUpdateTx(ctx context.Context, tx persistence.Transaction, id uuid.UUID) (*domain.Payment, error)
	// ResolveTx переводит pending в финальный статус, false если строка уже не pending
	ResolveTx(ctx context.Context, tx persistence.Transaction, id uuid.UUID, status domain.PaymentStatus, adminID uuid.UUID, at time.Time) (bool, error)
}
