package guard_test

import (
	"errors"
	"testing"

	"orderengine/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	notConstructed := errors.New("command not constructed")

	t.Run("constructed_guard_passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(notConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_returns_supplied_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(notConstructed)

		assert.Equal(t, notConstructed, err)
	})

	t.Run("zero_value_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})

	t.Run("copies_keep_their_state", func(t *testing.T) {
		g := guard.NewConstructorGuard()
		copied := g

		require.NoError(t, copied.Validate(notConstructed))
	})
}

func BenchmarkConstructorGuard_Validate(b *testing.B) {
	g := guard.NewConstructorGuard()
	err := errors.New("not constructed")
	b.ResetTimer()
	for range b.N {
		_ = g.Validate(err)
	}
}
