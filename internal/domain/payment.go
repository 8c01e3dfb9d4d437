package domain

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus статус ручной проверки оплаты
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"  // пруф загружен, ждёт админа
	PaymentStatusVerified PaymentStatus = "verified" // подтверждён, чат активирован
	PaymentStatusRejected PaymentStatus = "rejected" // отклонён, чат остаётся неактивным
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusVerified, PaymentStatusRejected:
		return true
	default:
		return false
	}
}

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusVerified || s == PaymentStatusRejected
}

// CanTransitionTo переходы только pending -> verified|rejected
// Возвращает changed=false для повтора того же статуса (идемпотентно)
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) (changed bool, err error) {
	if s == next {
		return false, nil
	}
	if s == PaymentStatusPending && next.IsTerminal() {
		return true, nil
	}
	return false, fmt.Errorf("%w: %s -> %s", ErrInvalidPaymentTransition, s, next)
}

// Payment оплата консультации, подтверждается вручную админом по пруфу
type Payment struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	UserID       uuid.UUID       `json:"user_id" db:"user_id"`
	AstrologerID uuid.UUID       `json:"astrologer_id" db:"astrologer_id"`
	ChatID       *uuid.UUID      `json:"chat_id,omitempty" db:"chat_id"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	Status       PaymentStatus   `json:"status" db:"status"`
	ProofURL     *string         `json:"proof_url,omitempty" db:"proof_url"` // ключ объекта в хранилище пруфов
	Notes        *string         `json:"notes,omitempty" db:"notes"`
	VerifiedBy   *uuid.UUID      `json:"verified_by,omitempty" db:"verified_by"`
	VerifiedAt   *time.Time      `json:"verified_at,omitempty" db:"verified_at"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// PendingPayment строка очереди админа с именем плательщика
type PendingPayment struct {
	Payment
	PayerName string `json:"payer_name" db:"payer_name"`
	ProofLink string `json:"proof_link,omitempty" db:"-"` // presigned URL, заполняется при выдаче
}

// ProofSubmission загрузка пруфа оплаты пользователем
type ProofSubmission struct {
	ChatID      uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProofExtension расширение объекта по content type, пустая строка - тип не поддерживается
func ProofExtension(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}

// ProofObjectKey путь пруфа в бакете
func ProofObjectKey(chatID, paymentID uuid.UUID, ext string) string {
	return fmt.Sprintf("proofs/%s/%s%s", chatID, paymentID, ext)
}
