// Package compliance holds test suites shared by every storage backend.
package compliance

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rezkam/shoplist/internal/application/localcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunKVComplianceTest runs the key/value contract against a backend.
// setup returns a fresh, empty store; cleanup is registered by setup via t.Cleanup.
func RunKVComplianceTest(t *testing.T, setup func(t *testing.T) localcache.KV) {
	t.Run("MissingKeyIsNotAnError", func(t *testing.T) {
		kv := setup(t)

		value, found, err := kv.Get(context.Background(), "missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, value)
	})

	t.Run("SetThenGet", func(t *testing.T) {
		kv := setup(t)
		ctx := context.Background()

		require.NoError(t, kv.Set(ctx, localcache.KeyHistory, []byte(`[{"id":"a"}]`)))

		value, found, err := kv.Get(ctx, localcache.KeyHistory)
		require.NoError(t, err)
		assert.True(t, found)
		assert.JSONEq(t, `[{"id":"a"}]`, string(value))
	})

	t.Run("SetOverwrites", func(t *testing.T) {
		kv := setup(t)
		ctx := context.Background()

		require.NoError(t, kv.Set(ctx, "k", []byte(`"first"`)))
		require.NoError(t, kv.Set(ctx, "k", []byte(`"second"`)))

		value, found, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, `"second"`, string(value))
	})

	t.Run("RemoveThenGet", func(t *testing.T) {
		kv := setup(t)
		ctx := context.Background()

		require.NoError(t, kv.Set(ctx, "k", []byte(`1`)))
		require.NoError(t, kv.Remove(ctx, "k"))

		_, found, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("RemoveMissingKey", func(t *testing.T) {
		kv := setup(t)
		assert.NoError(t, kv.Remove(context.Background(), "never-set"))
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		kv := setup(t)
		ctx := context.Background()

		require.NoError(t, kv.Set(ctx, localcache.KeyHistory, []byte(`[]`)))
		require.NoError(t, kv.Set(ctx, localcache.KeySavedLists, []byte(`[1]`)))
		require.NoError(t, kv.Remove(ctx, localcache.KeyHistory))

		value, found, err := kv.Get(ctx, localcache.KeySavedLists)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, `[1]`, string(value))
	})

	t.Run("ReturnedValueIsNotAliased", func(t *testing.T) {
		kv := setup(t)
		ctx := context.Background()

		in := []byte(`"abc"`)
		require.NoError(t, kv.Set(ctx, "k", in))
		in[1] = 'X'

		out, _, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, `"abc"`, string(out))
	})

	t.Run("ConcurrentWriters", func(t *testing.T) {
		kv := setup(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := range 20 {
			wg.Go(func() {
				key := fmt.Sprintf("key-%d", i)
				assert.NoError(t, kv.Set(ctx, key, []byte(fmt.Sprintf("%d", i))))
			})
		}
		wg.Wait()

		for i := range 20 {
			value, found, err := kv.Get(ctx, fmt.Sprintf("key-%d", i))
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, fmt.Sprintf("%d", i), string(value))
		}
	})

	t.Run("HistoryRoundTrip", func(t *testing.T) {
		kv := setup(t)
		RunHistoryScenario(t, localcache.NewHistory(kv))
	})
}
