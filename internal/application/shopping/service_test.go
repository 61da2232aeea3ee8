package shopping

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/shoplist/internal/application/localcache"
	"github.com/rezkam/shoplist/internal/domain"
	"github.com/rezkam/shoplist/internal/infrastructure/persistence/memory"
)

// fakeArchive records what the service hands to the archive.
type fakeArchive struct {
	mu      sync.Mutex
	history []domain.ShoppingHistory
	lists   map[string]domain.SavedList
	err     error
}

func (f *fakeArchive) SaveHistory(ctx context.Context, h domain.ShoppingHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.history = append(f.history, h)
	return nil
}

func (f *fakeArchive) SaveSavedList(ctx context.Context, list domain.SavedList) error {
	if f.err != nil {
		return f.err
	}
	if f.lists == nil {
		f.lists = map[string]domain.SavedList{}
	}
	f.lists[list.ID] = list
	return nil
}

func (f *fakeArchive) GetSavedList(ctx context.Context, id string) (domain.SavedList, error) {
	list, ok := f.lists[id]
	if !ok {
		return domain.SavedList{}, domain.ErrSavedListNotFound
	}
	return list, nil
}

var fixedNow = time.Date(2026, 7, 1, 17, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *fakeArchive, *memory.Store) {
	t.Helper()
	kv := memory.NewStore()
	archive := &fakeArchive{}
	svc := NewService(kv, archive, WithClock(func() time.Time { return fixedNow }))
	return svc, archive, kv
}

func TestService_AddClampsQuantityAndDefaultsUnit(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, q := range []float64{0, -2} {
		item, err := svc.Add(ctx, "milk", q, "")
		require.NoError(t, err)
		assert.Equal(t, 1.0, item.Quantity)
		assert.Equal(t, domain.UnitUnits, item.Unit)
		assert.False(t, item.Checked)
		assert.NotEmpty(t, item.ID)
	}

	items, err := svc.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestService_AddValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "   ", 1, "")
	assert.ErrorIs(t, err, domain.ErrTextRequired)

	_, err = svc.Add(ctx, "milk", 1, "liters")
	assert.ErrorIs(t, err, domain.ErrInvalidUnit)
}

func TestService_MutationsReplaceByID(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	milk, err := svc.Add(ctx, "milk", 1, "")
	require.NoError(t, err)
	flour, err := svc.Add(ctx, "flour", 1, "kg")
	require.NoError(t, err)

	toggled, err := svc.Toggle(ctx, milk.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Checked)

	updated, err := svc.SetQuantity(ctx, flour.ID, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, updated.Quantity)

	updated, err = svc.SetQuantity(ctx, flour.ID, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, updated.Quantity)

	updated, err = svc.SetUnit(ctx, flour.ID, "g")
	require.NoError(t, err)
	assert.Equal(t, domain.UnitGram, updated.Unit)

	renamed, err := svc.Rename(ctx, milk.ID, "oat milk")
	require.NoError(t, err)
	assert.Equal(t, milk.ID, renamed.ID)
	assert.True(t, renamed.Checked)

	items, err := svc.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemList{renamed, updated}, items)
}

func TestService_UnknownItem(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	_, err = svc.SetQuantity(ctx, "nope", 2)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.ErrorIs(t, svc.Remove(ctx, "nope"), domain.ErrItemNotFound)
}

func TestService_ClearChecked(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.Add(ctx, "milk", 1, "")
	_, _ = svc.Add(ctx, "bread", 1, "")
	c, _ := svc.Add(ctx, "eggs", 1, "")
	_, _ = svc.Toggle(ctx, a.ID)
	_, _ = svc.Toggle(ctx, c.ID)

	removed, err := svc.ClearChecked(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	items, _ := svc.Items(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "bread", items[0].Text)
}

func TestService_Grouped(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, text := range []string{"milk", "bread", "milk again"} {
		_, err := svc.Add(ctx, text, 1, "")
		require.NoError(t, err)
	}

	groups, err := svc.Grouped(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, domain.CategoryDairy, groups[0].Key)
	assert.Equal(t, "milk again", groups[0].Items[1].Text)
	assert.Equal(t, domain.CategoryBakery, groups[1].Key)
}

func TestService_WithClassifier(t *testing.T) {
	kv := memory.NewStore()
	svc := NewService(kv, &fakeArchive{}, WithClassifier(func(string) domain.CategoryKey {
		return domain.CategorySnacks
	}))
	ctx := context.Background()

	_, err := svc.Add(ctx, "milk", 1, "")
	require.NoError(t, err)

	groups, err := svc.Grouped(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, domain.CategorySnacks, groups[0].Key)
}

func TestService_CompleteArchivesAndClears(t *testing.T) {
	svc, archive, _ := newTestService(t)
	ctx := context.Background()

	milk, _ := svc.Add(ctx, "milk", 2, "")
	_, _ = svc.Add(ctx, "bread", 1, "")
	_, _ = svc.Toggle(ctx, milk.ID)

	h, err := svc.Complete(ctx, "Rami Levy")
	require.NoError(t, err)

	assert.Equal(t, 1, h.CompletedItems)
	assert.Equal(t, 2, h.TotalItems)
	assert.Equal(t, "Rami Levy", h.Store)
	assert.Equal(t, fixedNow, h.Date)
	require.Len(t, archive.history, 1)
	assert.Equal(t, h.ID, archive.history[0].ID)

	items, err := svc.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestService_CompleteEmptyList(t *testing.T) {
	svc, archive, _ := newTestService(t)

	_, err := svc.Complete(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrEmptyList)
	assert.Empty(t, archive.history)
}

// slowKV delays reads the way a disk-backed store does, widening any window
// between reading and writing the list.
type slowKV struct {
	*memory.Store
}

func (s slowKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	time.Sleep(time.Millisecond)
	return s.Store.Get(ctx, key)
}

func TestService_ConcurrentCompleteArchivesOnce(t *testing.T) {
	ctx := context.Background()

	for range 20 {
		archive := &fakeArchive{}
		svc := NewService(slowKV{memory.NewStore()}, archive)
		_, err := svc.Add(ctx, "milk", 1, "")
		require.NoError(t, err)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			emptyErr int
		)
		for range 2 {
			wg.Go(func() {
				_, err := svc.Complete(ctx, "")
				if errors.Is(err, domain.ErrEmptyList) {
					mu.Lock()
					emptyErr++
					mu.Unlock()
					return
				}
				assert.NoError(t, err)
			})
		}
		wg.Wait()

		require.Len(t, archive.history, 1)
		assert.Equal(t, 1, emptyErr)
		items, err := svc.Items(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	}
}

func TestService_CompleteArchiveFailureKeepsList(t *testing.T) {
	svc, archive, _ := newTestService(t)
	ctx := context.Background()
	_, _ = svc.Add(ctx, "milk", 1, "")

	archive.err = errors.New("disk full")
	_, err := svc.Complete(ctx, "")
	require.Error(t, err)

	items, _ := svc.Items(ctx)
	assert.Len(t, items, 1)
}

func TestService_SaveAndLoadTemplate(t *testing.T) {
	svc, archive, _ := newTestService(t)
	ctx := context.Background()

	milk, _ := svc.Add(ctx, "milk", 2, "")
	_, _ = svc.Add(ctx, "flour", 1.5, "kg")
	_, _ = svc.Toggle(ctx, milk.ID)

	saved, err := svc.SaveAsTemplate(ctx, " Weekly ")
	require.NoError(t, err)
	assert.Equal(t, "Weekly", saved.Name)
	assert.Equal(t, fixedNow, saved.CreatedAt)
	require.Len(t, saved.Items, 2)
	assert.False(t, saved.Items[0].Checked)
	assert.Contains(t, archive.lists, saved.ID)

	require.NoError(t, svc.Clear(ctx))

	added, err := svc.LoadTemplate(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.NotEqual(t, saved.Items[0].ID, added[0].ID)
	assert.Equal(t, "flour", added[1].Text)
	assert.Equal(t, 1.5, added[1].Quantity)
	assert.Equal(t, domain.UnitKg, added[1].Unit)

	// Loading twice appends a second copy with new IDs.
	_, err = svc.LoadTemplate(ctx, saved.ID)
	require.NoError(t, err)
	items, _ := svc.Items(ctx)
	assert.Len(t, items, 4)
}

func TestService_SaveAsTemplateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveAsTemplate(ctx, "Weekly")
	assert.ErrorIs(t, err, domain.ErrEmptyList)

	_, _ = svc.Add(ctx, "milk", 1, "")
	_, err = svc.SaveAsTemplate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = svc.LoadTemplate(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSavedListNotFound)
}

func TestService_CorruptCurrentListReadsAsEmpty(t *testing.T) {
	svc, _, kv := newTestService(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, localcache.KeyCurrent, []byte(`garbage`)))

	items, err := svc.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.Add(ctx, "milk", 1, "")
	require.NoError(t, err)
	items, _ = svc.Items(ctx)
	assert.Len(t, items, 1)
}

func TestService_ConcurrentAdds(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	done := make(chan error)
	for i := range 25 {
		go func() {
			_, err := svc.Add(ctx, fmt.Sprintf("item %d", i), 1, "")
			done <- err
		}()
	}
	for range 25 {
		require.NoError(t, <-done)
	}

	items, err := svc.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 25)
}
