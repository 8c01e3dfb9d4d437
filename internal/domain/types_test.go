package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["tarot","natal"]`)))
	assert.Equal(t, StringList{"tarot", "natal"}, l)

	require.NoError(t, l.Scan(`["ru"]`))
	assert.Equal(t, StringList{"ru"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Equal(t, StringList{}, l)

	require.Error(t, l.Scan(42))

	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringList{"en", "ru"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["en","ru"]`, v)
}
