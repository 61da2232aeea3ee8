package localcache

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/rezkam/shoplist/internal/domain"
)

// SavedLists is the local cache of template lists, newest first.
type SavedLists struct {
	lists   *Collection[domain.SavedList]
	deleted *Tombstones
}

// NewSavedLists returns the saved-list cache stored in kv.
func NewSavedLists(kv KV) *SavedLists {
	return &SavedLists{
		lists:   NewCollection(kv, KeySavedLists, sanitizeSavedList),
		deleted: NewTombstones(kv, KeySavedListsDeleted),
	}
}

// Deleted holds ids removed locally and not yet removed remotely.
func (s *SavedLists) Deleted() *Tombstones {
	return s.deleted
}

// Snapshot returns the lists like List but reports storage failures.
func (s *SavedLists) Snapshot(ctx context.Context) ([]domain.SavedList, error) {
	return s.lists.Load(ctx)
}

// Save inserts list at the front, or replaces the list with the same ID in place.
func (s *SavedLists) Save(ctx context.Context, list domain.SavedList) error {
	if list.ID == "" {
		return domain.ErrInvalidID
	}
	if _, err := domain.NewListName(list.Name); err != nil {
		return err
	}

	return s.lists.Update(ctx, func(lists []domain.SavedList) ([]domain.SavedList, error) {
		if i := slices.IndexFunc(lists, func(l domain.SavedList) bool { return l.ID == list.ID }); i >= 0 {
			lists[i] = list
			return lists, nil
		}
		return append([]domain.SavedList{list}, lists...), nil
	})
}

// List returns every saved list, newest first.
// An unreadable store yields an empty slice; the failure is logged.
func (s *SavedLists) List(ctx context.Context) []domain.SavedList {
	lists, err := s.lists.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read saved lists",
			slog.String("error", err.Error()))
		return []domain.SavedList{}
	}
	return lists
}

// Get returns the saved list with id.
// Returns domain.ErrSavedListNotFound if there is none.
func (s *SavedLists) Get(ctx context.Context, id string) (domain.SavedList, error) {
	lists, err := s.lists.Load(ctx)
	if err != nil {
		return domain.SavedList{}, err
	}

	i := slices.IndexFunc(lists, func(l domain.SavedList) bool { return l.ID == id })
	if i < 0 {
		return domain.SavedList{}, fmt.Errorf("%w: %s", domain.ErrSavedListNotFound, id)
	}
	return lists[i], nil
}

// Delete removes the saved list with id. Unknown ids are a no-op.
func (s *SavedLists) Delete(ctx context.Context, id string) error {
	return s.lists.Update(ctx, func(lists []domain.SavedList) ([]domain.SavedList, error) {
		return slices.DeleteFunc(lists, func(l domain.SavedList) bool {
			return l.ID == id
		}), nil
	})
}

// ReplaceAll overwrites the cache with lists.
func (s *SavedLists) ReplaceAll(ctx context.Context, lists []domain.SavedList) error {
	return s.lists.Replace(ctx, lists)
}

func sanitizeSavedList(l domain.SavedList) (domain.SavedList, bool) {
	if l.ID == "" {
		return l, false
	}
	l.Items = sanitizeItems(l.Items)
	return l, true
}
