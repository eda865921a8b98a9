package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		store := NewInMemoryTokenStore()
		require.NoError(t, store.Set(ctx, "k", "v", time.Minute))

		value, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", value)

		exists, err := store.Exists(ctx, "k")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("missing key reads empty", func(t *testing.T) {
		store := NewInMemoryTokenStore()
		value, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("expired key reads empty", func(t *testing.T) {
		store := NewInMemoryTokenStore()
		require.NoError(t, store.Set(ctx, "k", "v", 300*time.Second))

		store.SetClock(func() time.Time { return time.Now().Add(301 * time.Second) })

		value, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("delete removes several keys at once", func(t *testing.T) {
		store := NewInMemoryTokenStore()
		require.NoError(t, store.Set(ctx, "a", "1", time.Minute))
		require.NoError(t, store.Set(ctx, "b", "2", time.Minute))

		require.NoError(t, store.Delete(ctx, "a", "b"))

		exists, err := store.Exists(ctx, "a")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
