package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/admin/cosmic-connect/internal/usecases/usecasetest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentEvent(t *testing.T, eventType domain.EventType) (domain.Event, []byte) {
	t.Helper()
	chatID := uuid.New()
	p := &domain.Payment{ID: uuid.New(), ChatID: &chatID, Amount: decimal.RequireFromString("30")}
	ev := domain.NewPaymentEvent(eventType, p, uuid.New(), time.Now().UTC())
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	return ev, raw
}

func TestForwardsPaymentEvents(t *testing.T) {
	alerter := &usecasetest.Alerter{}
	h := NewAdminNotificationHandler(alerter, logger.Discard())

	submitted, raw := paymentEvent(t, domain.EventPaymentSubmitted)
	require.NoError(t, h.HandleMessage(context.Background(), submitted.ChatID.String(), raw,
		map[string]string{"event_type": string(domain.EventPaymentSubmitted)}))

	verified, raw := paymentEvent(t, domain.EventPaymentVerified)
	// без header тип берётся из тела
	require.NoError(t, h.HandleMessage(context.Background(), verified.ChatID.String(), raw, nil))

	msgs := alerter.Messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], submitted.PaymentID.String())
	assert.Contains(t, msgs[0], "30.00")
	assert.Contains(t, msgs[1], "verified")
}

func TestIgnoresOtherEvents(t *testing.T) {
	alerter := &usecasetest.Alerter{}
	h := NewAdminNotificationHandler(alerter, logger.Discard())

	ev, raw := paymentEvent(t, domain.EventPaymentRejected)
	require.NoError(t, h.HandleMessage(context.Background(), ev.ChatID.String(), raw,
		map[string]string{"event_type": string(domain.EventPaymentRejected)}))
	require.NoError(t, h.HandleMessage(context.Background(), "k", []byte(`{"event_type":"message.created"}`), nil))
	assert.Empty(t, alerter.Messages())

	assert.Error(t, h.HandleMessage(context.Background(), "k", []byte("not json"), nil))
}

func TestAlerterFailureIsReturned(t *testing.T) {
	alerter := &usecasetest.Alerter{Err: errors.New("telegram 502")}
	h := NewAdminNotificationHandler(alerter, logger.Discard())

	_, raw := paymentEvent(t, domain.EventPaymentSubmitted)
	assert.Error(t, h.HandleMessage(context.Background(), "k", raw, map[string]string{"event_type": "payment.submitted"}))
}
