package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/rezkam/shoplist/internal/application/localcache"
	"github.com/rezkam/shoplist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunHistoryScenario drives a history log through its full lifecycle.
// The log must start empty.
func RunHistoryScenario(t *testing.T, history *localcache.History) {
	t.Helper()
	ctx := context.Background()

	first := mustHistory(t, "h-1", time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	second := mustHistory(t, "h-2", time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC))

	require.NoError(t, history.Save(ctx, first))
	require.NoError(t, history.Save(ctx, second))

	records := history.List(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, "h-2", records[0].ID)
	assert.Equal(t, "h-1", records[1].ID)
	assert.True(t, records[1].Date.Equal(first.Date))
	assert.Equal(t, first.Items, records[1].Items)

	require.NoError(t, history.DeleteByID(ctx, "unknown"))
	assert.Len(t, history.List(ctx), 2)

	require.NoError(t, history.ClearAll(ctx))
	assert.Empty(t, history.List(ctx))
}

func mustHistory(t *testing.T, id string, at time.Time) domain.ShoppingHistory {
	t.Helper()
	h, err := domain.NewShoppingHistory(id, domain.ItemList{
		{ID: id + "-milk", Text: "milk", Quantity: 2, Unit: domain.UnitUnits, Checked: true},
		{ID: id + "-flour", Text: "flour", Quantity: 1.5, Unit: domain.UnitKg},
	}, "corner shop", at)
	require.NoError(t, err)
	return h
}
