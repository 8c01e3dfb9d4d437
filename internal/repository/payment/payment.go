package paymentRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/ports/persistence"
	ports "github.com/admin/cosmic-connect/internal/ports/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type paymentColumns struct {
	TableName    string
	ID           string
	UserID       string
	AstrologerID string
	ChatID       string
	Amount       string
	Status       string
	ProofURL     string
	Notes        string
	VerifiedBy   string
	VerifiedAt   string
	CreatedAt    string
	UpdatedAt    string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns paymentColumns
}

// New создаёт новый репозиторий для работы с платежами
func New(db persistence.Persistence, log *slog.Logger) ports.IPaymentRepo {
	return &Repository{
		db:  db,
		Log: log,
		columns: paymentColumns{
			TableName:    "payments",
			ID:           "id",
			UserID:       "user_id",
			AstrologerID: "astrologer_id",
			ChatID:       "chat_id",
			Amount:       "amount",
			Status:       "status",
			ProofURL:     "proof_url",
			Notes:        "notes",
			VerifiedBy:   "verified_by",
			VerifiedAt:   "verified_at",
			CreatedAt:    "created_at",
			UpdatedAt:    "updated_at",
		},
	}
}

func (r *Repository) columnList() []string {
	return []string{
		r.columns.ID,
		r.columns.UserID,
		r.columns.AstrologerID,
		r.columns.ChatID,
		r.columns.Amount,
		r.columns.Status,
		r.columns.ProofURL,
		r.columns.Notes,
		r.columns.VerifiedBy,
		r.columns.VerifiedAt,
		r.columns.CreatedAt,
		r.columns.UpdatedAt,
	}
}

// allColumns возвращает строку со всеми колонками (12 полей)
func (r *Repository) allColumns() string {
	return strings.Join(r.columnList(), ", ")
}

func (r *Repository) prefixedColumns(alias string) string {
	cols := r.columnList()
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// Create создаёт pending платёж; второй живой платёж на чат режет уникальный индекс
func (r *Repository) Create(ctx context.Context, payment *domain.Payment) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		r.columns.TableName,
		r.allColumns(),
	)

	err := r.db.Exec(ctx, query,
		payment.ID,
		payment.UserID,
		payment.AstrologerID,
		payment.ChatID,
		payment.Amount,
		string(payment.Status),
		payment.ProofURL,
		payment.Notes,
		payment.VerifiedBy,
		payment.VerifiedAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.Log.Warn("chat already has a live payment",
				"payment_id", payment.ID,
				"chat_id", payment.ChatID,
			)
			return domain.ErrPaymentExists
		}
		r.Log.Error("failed to create payment",
			"error", err,
			"payment_id", payment.ID,
			"user_id", payment.UserID,
		)
		return fmt.Errorf("failed to create payment: %w", err)
	}

	r.Log.Debug("payment created successfully",
		"payment_id", payment.ID,
		"user_id", payment.UserID,
		"amount", payment.Amount,
	)
	return nil
}

// GetByID получает платёж по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID,
	)
	return r.getOne(ctx, r.db, query, id)
}

// GetForUpdateTx читает платёж с блокировкой строки до конца транзакции
func (r *Repository) GetForUpdateTx(ctx context.Context, tx persistence.Transaction, id uuid.UUID) (*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID,
	)
	return r.getOne(ctx, tx, query, id)
}

func (r *Repository) getOne(ctx context.Context, q persistence.Querier, query string, id uuid.UUID) (*domain.Payment, error) {
	var payment domain.Payment
	if err := q.Get(ctx, &payment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("payment not found", "payment_id", id)
			return nil, fmt.Errorf("payment: %w", domain.ErrNotFound)
		}
		r.Log.Error("failed to get payment",
			"error", err,
			"payment_id", id,
		)
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	r.Log.Debug("payment retrieved successfully", "payment_id", id)
	return &payment, nil
}

// ListByChat платежи чата, старые сначала
func (r *Repository) ListByChat(ctx context.Context, chatID uuid.UUID) ([]domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ChatID,
		r.columns.CreatedAt,
	)

	payments := make([]domain.Payment, 0)
	if err := r.db.Select(ctx, &payments, query, chatID); err != nil {
		r.Log.Error("failed to list chat payments",
			"error", err,
			"chat_id", chatID,
		)
		return nil, fmt.Errorf("failed to list chat payments: %w", err)
	}
	return payments, nil
}

// ListPending очередь админа, новые сначала
func (r *Repository) ListPending(ctx context.Context) ([]domain.PendingPayment, error) {
	return r.listPending(ctx, "", nil)
}

// ListPendingOlderThan pending платежи, созданные раньше before
func (r *Repository) ListPendingOlderThan(ctx context.Context, before time.Time) ([]domain.PendingPayment, error) {
	return r.listPending(ctx, fmt.Sprintf(" AND pay.%s < $2", r.columns.CreatedAt), []interface{}{before})
}

func (r *Repository) listPending(ctx context.Context, extra string, extraArgs []interface{}) ([]domain.PendingPayment, error) {
	query := fmt.Sprintf(`SELECT %s, p.full_name AS payer_name
		FROM %s pay
		JOIN profiles p ON p.id = pay.%s
		WHERE pay.%s = $1%s
		ORDER BY pay.%s DESC`,
		r.prefixedColumns("pay"),
		r.columns.TableName,
		r.columns.UserID,
		r.columns.Status,
		extra,
		r.columns.CreatedAt,
	)

	args := append([]interface{}{string(domain.PaymentStatusPending)}, extraArgs...)
	payments := make([]domain.PendingPayment, 0)
	if err := r.db.Select(ctx, &payments, query, args...); err != nil {
		r.Log.Error("failed to list pending payments", "error", err)
		return nil, fmt.Errorf("failed to list pending payments: %w", err)
	}

	r.Log.Debug("pending payments listed", "count", len(payments))
	return payments, nil
}

// ListVerifiedWithInactiveChat подтверждённые платежи, чей чат так и не активировался
func (r *Repository) ListVerifiedWithInactiveChat(ctx context.Context) ([]domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s
		FROM %s pay
		JOIN chats c ON c.id = pay.%s
		WHERE pay.%s = $1 AND c.is_active = FALSE
		ORDER BY pay.%s ASC`,
		r.prefixedColumns("pay"),
		r.columns.TableName,
		r.columns.ChatID,
		r.columns.Status,
		r.columns.VerifiedAt,
	)

	payments := make([]domain.Payment, 0)
	if err := r.db.Select(ctx, &payments, query, string(domain.PaymentStatusVerified)); err != nil {
		r.Log.Error("failed to list verified payments with inactive chats", "error", err)
		return nil, fmt.Errorf("failed to list verified payments with inactive chats: %w", err)
	}
	return payments, nil
}

// ResolveTx переводит платёж из pending; false - строка уже не pending (её перевёл другой админ)
func (r *Repository) ResolveTx(ctx context.Context, tx persistence.Transaction, id uuid.UUID, status domain.PaymentStatus, adminID uuid.UUID, at time.Time) (bool, error) {
	var (
		query string
		args  []interface{}
	)

	switch status {
	case domain.PaymentStatusVerified:
		query = fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $4 WHERE %s = $1 AND %s = $5`,
			r.columns.TableName,
			r.columns.Status,
			r.columns.VerifiedBy,
			r.columns.VerifiedAt,
			r.columns.UpdatedAt,
			r.columns.ID,
			r.columns.Status,
		)
		args = []interface{}{id, string(status), adminID, at, string(domain.PaymentStatusPending)}
	case domain.PaymentStatusRejected:
		query = fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 AND %s = $4`,
			r.columns.TableName,
			r.columns.Status,
			r.columns.UpdatedAt,
			r.columns.ID,
			r.columns.Status,
		)
		args = []interface{}{id, string(status), at, string(domain.PaymentStatusPending)}
	default:
		return false, fmt.Errorf("%w: cannot resolve payment to %s", domain.ErrInvalidPaymentTransition, status)
	}

	affected, err := tx.ExecWithResult(ctx, query, args...)
	if err != nil {
		r.Log.Error("failed to resolve payment",
			"error", err,
			"payment_id", id,
			"status", status,
		)
		return false, fmt.Errorf("failed to resolve payment: %w", err)
	}

	r.Log.Debug("payment resolve applied",
		"payment_id", id,
		"status", status,
		"admin_id", adminID,
		"changed", affected > 0,
	)
	return affected > 0, nil
}
