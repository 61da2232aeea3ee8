package localcache

import (
	"context"
	"log/slog"
	"slices"

	"github.com/rezkam/shoplist/internal/domain"
)

// History is the local log of completed shopping trips, most recent first.
type History struct {
	log     *Collection[domain.ShoppingHistory]
	deleted *Tombstones
}

// NewHistory returns the history log stored in kv.
func NewHistory(kv KV) *History {
	return &History{
		log:     NewCollection(kv, KeyHistory, sanitizeHistory),
		deleted: NewTombstones(kv, KeyHistoryDeleted),
	}
}

// Deleted holds ids removed locally and not yet removed remotely.
func (s *History) Deleted() *Tombstones {
	return s.deleted
}

// Snapshot returns the log like List but reports storage failures.
func (s *History) Snapshot(ctx context.Context) ([]domain.ShoppingHistory, error) {
	return s.log.Load(ctx)
}

// Save prepends h to the log. Records are immutable once stored: saving
// an ID that is already present keeps the original and succeeds.
func (s *History) Save(ctx context.Context, h domain.ShoppingHistory) error {
	if err := h.Validate(); err != nil {
		return err
	}

	return s.log.Update(ctx, func(records []domain.ShoppingHistory) ([]domain.ShoppingHistory, error) {
		if slices.ContainsFunc(records, func(r domain.ShoppingHistory) bool { return r.ID == h.ID }) {
			return records, nil
		}
		return append([]domain.ShoppingHistory{h}, records...), nil
	})
}

// List returns the log, most recent first.
// An unreadable store yields an empty slice; the failure is logged.
func (s *History) List(ctx context.Context) []domain.ShoppingHistory {
	records, err := s.log.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read shopping history",
			slog.String("error", err.Error()))
		return []domain.ShoppingHistory{}
	}
	return records
}

// DeleteByID removes the record with id.
// Deleting an unknown id succeeds and leaves the log unchanged.
func (s *History) DeleteByID(ctx context.Context, id string) error {
	return s.log.Update(ctx, func(records []domain.ShoppingHistory) ([]domain.ShoppingHistory, error) {
		return slices.DeleteFunc(records, func(r domain.ShoppingHistory) bool {
			return r.ID == id
		}), nil
	})
}

// ClearAll removes the entire log.
func (s *History) ClearAll(ctx context.Context) error {
	return s.log.Clear(ctx)
}

// ReplaceAll overwrites the log with records, which must already be
// ordered most recent first. Invalid records are rejected as a whole.
func (s *History) ReplaceAll(ctx context.Context, records []domain.ShoppingHistory) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return s.log.Replace(ctx, records)
}

func sanitizeHistory(h domain.ShoppingHistory) (domain.ShoppingHistory, bool) {
	if h.Validate() != nil {
		return h, false
	}
	h.Items = sanitizeItems(h.Items)
	return h, true
}

func sanitizeItems(items domain.ItemList) domain.ItemList {
	out := make(domain.ItemList, 0, len(items))
	for _, item := range items {
		if fixed, ok := item.Normalize(); ok {
			out = append(out, fixed)
		}
	}
	return out
}
