package remote

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rezkam/shoplist/internal/domain"
	"github.com/rezkam/shoplist/internal/ptr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleList() domain.SavedList {
	return domain.SavedList{
		ID:   "0190a1b2-0000-7000-8000-000000000001",
		Name: "Weekly",
		Items: domain.ItemList{
			{ID: "i1", Text: "milk", Quantity: 2, Unit: domain.UnitUnits},
			{ID: "i2", Text: "flour", Quantity: 1.5, Unit: domain.UnitKg, Checked: true},
			{ID: "i3", Text: "יין", Quantity: 1, Unit: domain.UnitUnits},
		},
		CreatedAt: time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	}
}

func TestSavedListRoundTrip(t *testing.T) {
	list := sampleList()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	row, err := FromSavedList(list, "user-1", now)
	require.NoError(t, err)

	assert.Equal(t, "user-1", row.UserID)
	assert.Equal(t, now, row.UpdatedAt)

	// The row goes over the wire as JSON before it is read back.
	wire, err := json.Marshal(row)
	require.NoError(t, err)
	var decoded SavedListRow
	require.NoError(t, json.Unmarshal(wire, &decoded))

	got := ToSavedList(decoded)
	assert.Equal(t, list.ID, got.ID)
	assert.Equal(t, list.Name, got.Name)
	assert.Equal(t, list.Items, got.Items)
	assert.True(t, list.CreatedAt.Equal(got.CreatedAt))
}

func TestFromSavedList_ZeroCreatedAtUsesNow(t *testing.T) {
	list := sampleList()
	list.CreatedAt = time.Time{}
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	row, err := FromSavedList(list, "u", now)
	require.NoError(t, err)
	assert.Equal(t, now, row.CreatedAt)
}

func TestToSavedList_DropsRemoteOnlyFields(t *testing.T) {
	row := SavedListRow{
		ID:     "l1",
		UserID: "u",
		Name:   "Party",
		Items:  json.RawMessage(`[]`),
		Store:  ptr.To("Shufersal"),
	}

	got := ToSavedList(row)
	assert.Equal(t, domain.SavedList{ID: "l1", Name: "Party", Items: domain.ItemList{}, CreatedAt: time.Time{}.UTC()}, got)
}

func TestToSavedList_MalformedItems(t *testing.T) {
	for _, raw := range []string{`{"not":"a list"}`, `[1,2`, `null`, ``} {
		got := ToSavedList(SavedListRow{ID: "l1", Items: json.RawMessage(raw)})
		assert.NotNil(t, got.Items, "raw %q", raw)
		assert.Empty(t, got.Items, "raw %q", raw)
	}
}

func TestToSavedList_NormalizesItems(t *testing.T) {
	raw := `[
		{"id":"a","text":" milk ","quantity":0,"unit":"liters"},
		{"id":"","text":"orphan","quantity":1,"unit":"units"},
		{"id":"b","text":"salt"}
	]`

	got := ToSavedList(SavedListRow{ID: "l1", Items: json.RawMessage(raw)})

	require.Len(t, got.Items, 2)
	assert.Equal(t, domain.ShoppingItem{ID: "a", Text: "milk", Quantity: 1, Unit: domain.UnitUnits}, got.Items[0])
	assert.Equal(t, domain.ShoppingItem{ID: "b", Text: "salt", Quantity: 1, Unit: domain.UnitUnits}, got.Items[1])
}

func TestToShoppingHistory(t *testing.T) {
	completed := time.Date(2026, 4, 4, 18, 30, 0, 0, time.FixedZone("IDT", 3*3600))
	row := HistoryRow{
		ID:           "h1",
		UserID:       "u",
		Store:        "Rami Levy",
		Items:        json.RawMessage(`[{"id":"a","text":"milk","checked":true,"quantity":1,"unit":"units"}]`),
		TotalItems:   3,
		CheckedItems: 1,
		StartedAt:    ptr.To(completed.Add(-time.Hour)),
		CompletedAt:  completed,
	}

	h := ToShoppingHistory(row)

	assert.Equal(t, "h1", h.ID)
	assert.Equal(t, "Rami Levy", h.Store)
	assert.True(t, h.Date.Equal(completed))
	assert.Equal(t, time.UTC, h.Date.Location())
	assert.Equal(t, 1, h.CompletedItems)
	assert.Equal(t, 3, h.TotalItems)
	assert.Zero(t, h.TotalAmount)
	require.Len(t, h.Items, 1)
}

func TestShoppingHistoryRoundTrip(t *testing.T) {
	h, err := domain.NewShoppingHistory("h1", sampleList().Items, "corner shop", time.Date(2026, 5, 5, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	h.TotalAmount = 120.5

	row, err := FromShoppingHistory(h, "user-1", time.Now())
	require.NoError(t, err)
	got := ToShoppingHistory(row)

	assert.Equal(t, h.ID, got.ID)
	assert.Equal(t, h.Items, got.Items)
	assert.Equal(t, h.Store, got.Store)
	assert.Equal(t, h.CompletedItems, got.CompletedItems)
	assert.Equal(t, h.TotalItems, got.TotalItems)
	assert.True(t, h.Date.Equal(got.Date))
	// Amounts are local-only.
	assert.Zero(t, got.TotalAmount)
}

func TestDisabled(t *testing.T) {
	var s Store = Disabled{}

	assert.False(t, IsConfigured(s))
	assert.False(t, IsConfigured(nil))
	assert.False(t, IsConfigured(&Disabled{}))

	_, err := s.ListHistory(t.Context(), "u")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, s.InsertHistory(t.Context(), HistoryRow{}), ErrNotConfigured)
	assert.ErrorIs(t, s.UpsertSavedList(t.Context(), SavedListRow{}), ErrNotConfigured)
	assert.NoError(t, s.Close())
}
