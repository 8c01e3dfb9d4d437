package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Chat консультация пользователя с астрологом, активируется только подтверждённой оплатой
type Chat struct {
	ID              uuid.UUID           `json:"id" db:"id"`
	UserID          uuid.UUID           `json:"user_id" db:"user_id"`
	AstrologerID    uuid.UUID           `json:"astrologer_id" db:"astrologer_id"`
	IsActive        bool                `json:"is_active" db:"is_active"`
	StartedAt       *time.Time          `json:"started_at,omitempty" db:"started_at"`
	EndedAt         *time.Time          `json:"ended_at,omitempty" db:"ended_at"`
	DurationMinutes *int                `json:"duration_minutes,omitempty" db:"duration_minutes"`
	TotalCost       decimal.NullDecimal `json:"total_cost" db:"total_cost"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
}

// IsParticipant участвует ли профиль в чате
func (c *Chat) IsParticipant(profileID uuid.UUID) bool {
	return c.UserID == profileID || c.AstrologerID == profileID
}

// CounterpartID id второго участника
func (c *Chat) CounterpartID(profileID uuid.UUID) uuid.UUID {
	if c.UserID == profileID {
		return c.AstrologerID
	}
	return c.UserID
}

// ChatSummary строка списка чатов с именем собеседника
type ChatSummary struct {
	Chat
	CounterpartName string `json:"counterpart_name" db:"counterpart_name"`
}

// ChatState состояние машины активации
type ChatState string

const (
	ChatStateCreated        ChatState = "created"
	ChatStatePaymentPending ChatState = "payment_pending"
	ChatStateActive         ChatState = "active"
	ChatStateRejected       ChatState = "rejected"
)

// DeriveChatState вычисляет состояние по строке чата и платежам этого чата
func DeriveChatState(chat *Chat, payments []Payment) ChatState {
	var pending, verified, rejected bool
	for _, p := range payments {
		if p.ChatID == nil || *p.ChatID != chat.ID {
			continue
		}
		switch p.Status {
		case PaymentStatusPending:
			pending = true
		case PaymentStatusVerified:
			verified = true
		case PaymentStatusRejected:
			rejected = true
		}
	}

	switch {
	case chat.IsActive && verified:
		return ChatStateActive
	case pending:
		return ChatStatePaymentPending
	case rejected && !verified:
		return ChatStateRejected
	default:
		// verified без активного чата или активный чат без оплаты - несогласованность,
		// для пользователя это всё ещё "создан"
		return ChatStateCreated
	}
}

// CheckActivationConsistency is_active=true требует подтверждённого платежа по чату
func CheckActivationConsistency(chat *Chat, payments []Payment) error {
	if !chat.IsActive {
		return nil
	}
	for _, p := range payments {
		if p.ChatID != nil && *p.ChatID == chat.ID && p.Status == PaymentStatusVerified {
			return nil
		}
	}
	return ErrChatActivatedWithoutPayment
}

// ChatDetails чат с вычисленным состоянием для экрана чата
type ChatDetails struct {
	Chat            Chat      `json:"chat"`
	State           ChatState `json:"state"`
	CounterpartName string    `json:"counterpart_name"`
}
