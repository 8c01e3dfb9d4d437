package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad email", domain.ErrValidation), http.StatusBadRequest},
		{domain.ErrEmptyMessage, http.StatusBadRequest},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrNotParticipant, http.StatusForbidden},
		{fmt.Errorf("chat: %w", domain.ErrNotFound), http.StatusNotFound},
		{domain.ErrChatInactive, http.StatusConflict},
		{fmt.Errorf("verify: %w", domain.ErrInvalidPaymentTransition), http.StatusConflict},
		{domain.ErrPaymentExists, http.StatusConflict},
		{domain.WrapBusinessError(domain.ErrChatClosed), http.StatusConflict},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}
