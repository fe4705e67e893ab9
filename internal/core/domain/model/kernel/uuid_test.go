package kernel_test

import (
	"encoding/json"
	"testing"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	first := kernel.NewUUID()
	second := kernel.NewUUID()

	require.NoError(t, first.Validate())
	assert.False(t, first.IsEqual(second))
}

func TestUUIDFromString(t *testing.T) {
	t.Run("parses canonical form", func(t *testing.T) {
		id, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")

		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := kernel.UUIDFromString("O-1001")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects nil uuid", func(t *testing.T) {
		_, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	original := kernel.NewUUID()
	raw := original.Bytes()

	restored, err := kernel.UUIDFromBytes(raw[:])

	require.NoError(t, err)
	assert.True(t, original.IsEqual(restored))

	_, err = kernel.UUIDFromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestUUID_ZeroValueIsInvalid(t *testing.T) {
	var id kernel.UUID

	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
}

func TestUUID_TextRoundTrip(t *testing.T) {
	type envelope struct {
		ID kernel.UUID `json:"id"`
	}
	original := envelope{ID: kernel.NewUUID()}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), original.ID.String())

	var decoded envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.ID.IsEqual(decoded.ID))
}
