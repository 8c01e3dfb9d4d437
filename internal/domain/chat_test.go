package domain

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentFor(chatID uuid.UUID, status PaymentStatus) Payment {
	id := chatID
	return Payment{ID: uuid.New(), ChatID: &id, Status: status}
}

func TestDeriveChatState(t *testing.T) {
	chatID := uuid.New()
	other := uuid.New()

	tests := []struct {
		name     string
		active   bool
		payments []Payment
		want     ChatState
	}{
		{"no payments", false, nil, ChatStateCreated},
		{"pending", false, []Payment{paymentFor(chatID, PaymentStatusPending)}, ChatStatePaymentPending},
		{"verified and active", true, []Payment{paymentFor(chatID, PaymentStatusVerified)}, ChatStateActive},
		{"rejected", false, []Payment{paymentFor(chatID, PaymentStatusRejected)}, ChatStateRejected},
		{"verified but inactive", false, []Payment{paymentFor(chatID, PaymentStatusVerified)}, ChatStateCreated},
		{"active without payment", true, nil, ChatStateCreated},
		{"payment of another chat ignored", false, []Payment{paymentFor(other, PaymentStatusPending)}, ChatStateCreated},
		{"pending after rejection", false, []Payment{
			paymentFor(chatID, PaymentStatusRejected),
			paymentFor(chatID, PaymentStatusPending),
		}, ChatStatePaymentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &Chat{ID: chatID, IsActive: tt.active}
			assert.Equal(t, tt.want, DeriveChatState(chat, tt.payments))
		})
	}
}

func TestCheckActivationConsistency(t *testing.T) {
	chatID := uuid.New()

	require.NoError(t, CheckActivationConsistency(&Chat{ID: chatID}, nil))
	require.NoError(t, CheckActivationConsistency(
		&Chat{ID: chatID, IsActive: true},
		[]Payment{paymentFor(chatID, PaymentStatusVerified)},
	))
	require.ErrorIs(t, CheckActivationConsistency(
		&Chat{ID: chatID, IsActive: true},
		[]Payment{paymentFor(chatID, PaymentStatusPending), paymentFor(uuid.New(), PaymentStatusVerified)},
	), ErrChatActivatedWithoutPayment)
}

// Случайные последовательности проверок: активация чата происходит только через verify,
// поэтому активный чат всегда согласован и находится в состоянии active
func TestActivationOnlyThroughVerify(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	statuses := []PaymentStatus{PaymentStatusVerified, PaymentStatusRejected}

	for round := 0; round < 500; round++ {
		chat := &Chat{ID: uuid.New()}
		var payments []Payment

		steps := rng.Intn(6)
		for i := 0; i < steps; i++ {
			open := -1
			for idx, p := range payments {
				if p.Status == PaymentStatusPending {
					open = idx
				}
			}

			if open < 0 {
				// новый пруф допустим, пока нет ни pending, ни verified
				if DeriveChatState(chat, payments) == ChatStateCreated && !chat.IsActive {
					payments = append(payments, paymentFor(chat.ID, PaymentStatusPending))
				}
				continue
			}

			next := statuses[rng.Intn(len(statuses))]
			changed, err := payments[open].Status.CanTransitionTo(next)
			require.NoError(t, err)
			require.True(t, changed)
			payments[open].Status = next
			if next == PaymentStatusVerified {
				chat.IsActive = true
			}
		}

		require.NoError(t, CheckActivationConsistency(chat, payments), "round %d", round)
		if chat.IsActive {
			assert.Equal(t, ChatStateActive, DeriveChatState(chat, payments), "round %d", round)
		}
	}
}
