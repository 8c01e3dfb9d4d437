package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMessageBody(t *testing.T) {
	got, err := ValidateMessageBody("  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	for _, empty := range []string{"", "   ", "\n\t "} {
		_, err := ValidateMessageBody(empty)
		require.ErrorIs(t, err, ErrEmptyMessage)
	}

	_, err = ValidateMessageBody(strings.Repeat("я", MaxMessageLength))
	require.NoError(t, err)

	_, err = ValidateMessageBody(strings.Repeat("я", MaxMessageLength+1))
	require.ErrorIs(t, err, ErrValidation)
}
