package compliance

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/shoplist/internal/ptr"
	"github.com/rezkam/shoplist/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRemoteComplianceTest runs the remote.Store contract against a backend.
// Every subtest uses its own user id, so a shared backend may be reused.
func RunRemoteComplianceTest(t *testing.T, setup func(t *testing.T) remote.Store) {
	newID := func(t *testing.T) string {
		id, err := uuid.NewV7()
		require.NoError(t, err)
		return id.String()
	}
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	t.Run("SavedListUpsertAndList", func(t *testing.T) {
		store := setup(t)
		ctx := context.Background()
		user := "user-" + newID(t)

		older := remote.SavedListRow{
			ID: newID(t), UserID: user, Name: "Weekly",
			Items:     json.RawMessage(`[{"id":"a","text":"milk","checked":false,"quantity":1,"unit":"units"}]`),
			CreatedAt: base, UpdatedAt: base,
		}
		newer := remote.SavedListRow{
			ID: newID(t), UserID: user, Name: "Party",
			Items: json.RawMessage(`[]`), Store: ptr.To("Shufersal"),
			CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour),
		}
		require.NoError(t, store.UpsertSavedList(ctx, older))
		require.NoError(t, store.UpsertSavedList(ctx, newer))

		rows, err := store.ListSavedLists(ctx, user)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, newer.ID, rows[0].ID)
		assert.Equal(t, "Shufersal", ptr.Deref(rows[0].Store, ""))
		assert.Equal(t, older.ID, rows[1].ID)
		assert.JSONEq(t, string(older.Items), string(rows[1].Items))
		assert.True(t, older.CreatedAt.Equal(rows[1].CreatedAt))

		// Upsert replaces in place.
		older.Name = "Weekly groceries"
		older.UpdatedAt = base.Add(2 * time.Hour)
		require.NoError(t, store.UpsertSavedList(ctx, older))

		rows, err = store.ListSavedLists(ctx, user)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Weekly groceries", rows[1].Name)
		assert.True(t, older.CreatedAt.Equal(rows[1].CreatedAt))
	})

	t.Run("SavedListDelete", func(t *testing.T) {
		store := setup(t)
		ctx := context.Background()
		user := "user-" + newID(t)

		row := remote.SavedListRow{ID: newID(t), UserID: user, Name: "Weekly", Items: json.RawMessage(`[]`), CreatedAt: base, UpdatedAt: base}
		require.NoError(t, store.UpsertSavedList(ctx, row))

		require.NoError(t, store.DeleteSavedList(ctx, user, newID(t)))
		require.NoError(t, store.DeleteSavedList(ctx, user, row.ID))

		rows, err := store.ListSavedLists(ctx, user)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("UsersAreIsolated", func(t *testing.T) {
		store := setup(t)
		ctx := context.Background()
		alice := "alice-" + newID(t)
		bob := "bob-" + newID(t)

		require.NoError(t, store.InsertHistory(ctx, remote.HistoryRow{
			ID: newID(t), UserID: alice, Items: json.RawMessage(`[]`), CompletedAt: base, CreatedAt: base,
		}))

		rows, err := store.ListHistory(ctx, bob)
		require.NoError(t, err)
		assert.Empty(t, rows)

		require.NoError(t, store.ClearHistory(ctx, bob))
		rows, err = store.ListHistory(ctx, alice)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("HistoryInsertListDeleteClear", func(t *testing.T) {
		store := setup(t)
		ctx := context.Background()
		user := "user-" + newID(t)
		started := base.Add(-30 * time.Minute)

		first := remote.HistoryRow{
			ID: newID(t), UserID: user, Store: "corner shop",
			Items:      json.RawMessage(`[{"id":"a","text":"milk","checked":true,"quantity":2,"unit":"units"}]`),
			TotalItems: 1, CheckedItems: 1, StartedAt: &started,
			CompletedAt: base, CreatedAt: base,
		}
		second := remote.HistoryRow{
			ID: newID(t), UserID: user, Items: json.RawMessage(`[]`),
			CompletedAt: base.Add(24 * time.Hour), CreatedAt: base.Add(24 * time.Hour),
		}
		require.NoError(t, store.InsertHistory(ctx, first))
		require.NoError(t, store.InsertHistory(ctx, second))
		// Replays are tolerated.
		require.NoError(t, store.InsertHistory(ctx, first))

		rows, err := store.ListHistory(ctx, user)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, second.ID, rows[0].ID)
		assert.Equal(t, first.ID, rows[1].ID)
		assert.Equal(t, "corner shop", rows[1].Store)
		assert.Equal(t, 1, rows[1].CheckedItems)
		require.NotNil(t, rows[1].StartedAt)
		assert.True(t, started.Equal(*rows[1].StartedAt))
		assert.Nil(t, rows[0].StartedAt)

		require.NoError(t, store.DeleteHistory(ctx, user, first.ID))
		require.NoError(t, store.DeleteHistory(ctx, user, newID(t)))
		rows, err = store.ListHistory(ctx, user)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		require.NoError(t, store.ClearHistory(ctx, user))
		rows, err = store.ListHistory(ctx, user)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
