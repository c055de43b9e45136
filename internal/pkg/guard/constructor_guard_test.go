package guard_test

import (
	"errors"
	"testing"

	"quickgo/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guardedThing struct {
	guard.ConstructorGuard
}

func newGuardedThing() guardedThing {
	return guardedThing{ConstructorGuard: guard.NewConstructorGuard()}
}

func TestConstructorGuard(t *testing.T) {
	t.Run("constructed object passes validation", func(t *testing.T) {
		thing := newGuardedThing()
		require.NoError(t, thing.Validate(nil))
	})

	t.Run("zero value fails with default error", func(t *testing.T) {
		var thing guardedThing
		err := thing.Validate(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, guard.ErrDefaultConstructorGuard)
	})

	t.Run("zero value fails with supplied error", func(t *testing.T) {
		var thing guardedThing
		custom := errors.New("order must be created via NewOrder")
		err := thing.Validate(custom)
		require.Error(t, err)
		assert.Equal(t, custom, err)
	})

	t.Run("constructed object ignores supplied error", func(t *testing.T) {
		thing := newGuardedThing()
		require.NoError(t, thing.Validate(errors.New("never returned")))
	})
}
