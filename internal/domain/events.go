package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType тип доменного события в шине
type EventType string

const (
	EventChatCreated      EventType = "chat.created"
	EventChatActivated    EventType = "chat.activated"
	EventPaymentSubmitted EventType = "payment.submitted"
	EventPaymentVerified  EventType = "payment.verified"
	EventPaymentRejected  EventType = "payment.rejected"
	EventMessageCreated   EventType = "message.created"
)

// Event доменное событие, ключ партиционирования - chat_id
type Event struct {
	ID         uuid.UUID        `json:"id"`
	Type       EventType        `json:"event_type"`
	ChatID     uuid.UUID        `json:"chat_id"`
	ActorID    uuid.UUID        `json:"actor_id"`
	PaymentID  *uuid.UUID       `json:"payment_id,omitempty"`
	MessageID  *uuid.UUID       `json:"message_id,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func NewEvent(eventType EventType, chatID, actorID uuid.UUID, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		ChatID:     chatID,
		ActorID:    actorID,
		OccurredAt: at,
	}
}

// NewPaymentEvent событие по платежу
func NewPaymentEvent(eventType EventType, p *Payment, actorID uuid.UUID, at time.Time) Event {
	var chatID uuid.UUID
	if p.ChatID != nil {
		chatID = *p.ChatID
	}
	ev := NewEvent(eventType, chatID, actorID, at)
	paymentID := p.ID
	amount := p.Amount
	ev.PaymentID = &paymentID
	ev.Amount = &amount
	return ev
}
