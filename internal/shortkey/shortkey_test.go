package shortkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	c, err := New("chapter-salt", 6)
	require.NoError(t, err)

	for _, id := range []int64{1, 42, 987654321} {
		key, err := c.Encode(id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(key), 6)

		got, err := c.Decode(key)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestDecode_Rejects(t *testing.T) {
	c, err := New("chapter-salt", 6)
	require.NoError(t, err)

	other, err := New("another-salt", 6)
	require.NoError(t, err)
	foreign, err := other.Encode(42)
	require.NoError(t, err)

	pair, err := c.h.EncodeInt64([]int64{1, 2})
	require.NoError(t, err)

	for _, key := range []string{"", "!!!", pair, foreign} {
		_, err := c.Decode(key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestEncode_Negative(t *testing.T) {
	c, err := New("chapter-salt", 6)
	require.NoError(t, err)

	_, err = c.Encode(-1)
	assert.Error(t, err)
}
