package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to    PaymentStatus
		wantChanged bool
		wantErr     bool
	}{
		{PaymentStatusPending, PaymentStatusVerified, true, false},
		{PaymentStatusPending, PaymentStatusRejected, true, false},
		{PaymentStatusPending, PaymentStatusPending, false, false},
		{PaymentStatusVerified, PaymentStatusVerified, false, false},
		{PaymentStatusRejected, PaymentStatusRejected, false, false},
		{PaymentStatusVerified, PaymentStatusRejected, false, true},
		{PaymentStatusRejected, PaymentStatusVerified, false, true},
		{PaymentStatusVerified, PaymentStatusPending, false, true},
		{PaymentStatusRejected, PaymentStatusPending, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			changed, err := tt.from.CanTransitionTo(tt.to)
			assert.Equal(t, tt.wantChanged, changed)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPaymentTransition)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProofExtension(t *testing.T) {
	assert.Equal(t, ".jpg", ProofExtension("image/jpeg"))
	assert.Equal(t, ".png", ProofExtension("image/png"))
	assert.Equal(t, ".pdf", ProofExtension("application/pdf"))
	assert.Empty(t, ProofExtension("text/html"))
	assert.Empty(t, ProofExtension(""))
}
