// Package shopping manages the active shopping list.
package shopping

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rezkam/shoplist/internal/application/localcache"
	"github.com/rezkam/shoplist/internal/domain"
	"github.com/rezkam/shoplist/internal/grouping"
	"github.com/rezkam/shoplist/internal/ptr"
)

// Service provides the operations on the active list.
// The list lives in local storage; every mutation is a serialized
// read-modify-write of the whole list.
type Service struct {
	current  *localcache.Collection[domain.ShoppingItem]
	archive  Archive
	classify grouping.Classifier
	now      func() time.Time
	newID    func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithClassifier replaces the category classifier used by Grouped.
func WithClassifier(c grouping.Classifier) Option {
	return func(s *Service) { s.classify = c }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a shopping service storing the active list in kv.
func NewService(kv localcache.KV, archive Archive, opts ...Option) *Service {
	s := &Service{
		current: localcache.NewCollection(kv, localcache.KeyCurrent, normalizeItem),
		archive: archive,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   newID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

func normalizeItem(item domain.ShoppingItem) (domain.ShoppingItem, bool) {
	return item.Normalize()
}

// Items returns the active list in insertion order.
func (s *Service) Items(ctx context.Context) (domain.ItemList, error) {
	items, err := s.current.Load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ItemList(items), nil
}

// Grouped returns the active list grouped by category in display order.
func (s *Service) Grouped(ctx context.Context) ([]grouping.Group, error) {
	items, err := s.current.Load(ctx)
	if err != nil {
		return nil, err
	}
	return grouping.OrderedGroups(items, s.classify), nil
}

// Add appends a new unchecked item. Quantity is clamped to at least 1
// and an empty unit defaults to units.
func (s *Service) Add(ctx context.Context, text string, quantity float64, unit string) (domain.ShoppingItem, error) {
	id, err := s.newID()
	if err != nil {
		return domain.ShoppingItem{}, err
	}

	item, err := domain.NewShoppingItem(id, text, quantity, unit)
	if err != nil {
		return domain.ShoppingItem{}, err
	}

	err = s.current.Update(ctx, func(items []domain.ShoppingItem) ([]domain.ShoppingItem, error) {
		return domain.ItemList(items).Add(item)
	})
	if err != nil {
		return domain.ShoppingItem{}, err
	}
	return item, nil
}

// Update applies a masked update to one item.
func (s *Service) Update(ctx context.Context, params domain.UpdateItemParams) (domain.ShoppingItem, error) {
	if err := params.Validate(); err != nil {
		return domain.ShoppingItem{}, err
	}

	var updated domain.ShoppingItem
	err := s.current.Update(ctx, func(items []domain.ShoppingItem) ([]domain.ShoppingItem, error) {
		list := domain.ItemList(items)
		item, ok := list.Find(params.ItemID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, params.ItemID)
		}

		var err error
		if updated, err = params.Apply(item); err != nil {
			return nil, err
		}
		return list.Replace(updated)
	})
	if err != nil {
		return domain.ShoppingItem{}, err
	}
	return updated, nil
}

// Toggle flips the checked flag of an item.
func (s *Service) Toggle(ctx context.Context, id string) (domain.ShoppingItem, error) {
	var updated domain.ShoppingItem
	err := s.current.Update(ctx, func(items []domain.ShoppingItem) ([]domain.ShoppingItem, error) {
		list := domain.ItemList(items)
		item, ok := list.Find(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
		}
		item.Checked = !item.Checked
		updated = item
		return list.Replace(item)
	})
	if err != nil {
		return domain.ShoppingItem{}, err
	}
	return updated, nil
}

// SetQuantity changes an item's quantity, clamped to at least 1.
func (s *Service) SetQuantity(ctx context.Context, id string, quantity float64) (domain.ShoppingItem, error) {
	return s.Update(ctx, domain.UpdateItemParams{
		ItemID:     id,
		UpdateMask: []string{domain.FieldQuantity},
		Quantity:   ptr.To(quantity),
	})
}

// SetUnit changes an item's unit.
func (s *Service) SetUnit(ctx context.Context, id string, unit string) (domain.ShoppingItem, error) {
	return s.Update(ctx, domain.UpdateItemParams{
		ItemID:     id,
		UpdateMask: []string{domain.FieldUnit},
		Unit:       ptr.To(unit),
	})
}

// Rename changes an item's text.
func (s *Service) Rename(ctx context.Context, id string, text string) (domain.ShoppingItem, error) {
	return s.Update(ctx, domain.UpdateItemParams{
		ItemID:     id,
		UpdateMask: []string{domain.FieldText},
		Text:       ptr.To(text),
	})
}

// Remove deletes an item from the list.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.current.Update(ctx, func(items []domain.ShoppingItem) ([]domain.ShoppingItem, error) {
		return domain.ItemList(items).Remove(id)
	})
}

// ClearChecked removes every checked item and returns how many were removed.
func (s *Service) ClearChecked(ctx context.Context) (int, error) {
	var removed int
	err := s.current.Update(ctx, func(items []domain.ShoppingItem) ([]domain.ShoppingItem, error) {
		kept := make([]domain.ShoppingItem, 0, len(items))
		for _, item := range items {
			if !item.Checked {
				kept = append(kept, item)
			}
		}
		removed = len(items) - len(kept)
		return kept, nil
	})
	return removed, err
}

// Clear empties the active list.
func (s *Service) Clear(ctx context.Context) error {
	return s.current.Clear(ctx)
}

// Complete archives the active list as a history record and empties it.
// Snapshot, archive and clear run inside one critical section of the list,
// so concurrent completions archive a trip once and the loser sees
// domain.ErrEmptyList. Nothing is cleared when the archive fails.
func (s *Service) Complete(ctx context.Context, store string) (domain.ShoppingHistory, error) {
	id, err := s.newID()
	if err != nil {
		return domain.ShoppingHistory{}, err
	}

	var (
		h        domain.ShoppingHistory
		archived bool
	)
	err = s.current.Update(ctx, func(items []domain.ShoppingItem) ([]domain.ShoppingItem, error) {
		var err error
		if h, err = domain.NewShoppingHistory(id, items, store, s.now()); err != nil {
			return nil, err
		}
		if err := s.archive.SaveHistory(ctx, h); err != nil {
			return nil, fmt.Errorf("failed to save history: %w", err)
		}
		archived = true
		return []domain.ShoppingItem{}, nil
	})
	switch {
	case err == nil:
		return h, nil
	case archived:
		return domain.ShoppingHistory{}, fmt.Errorf("history saved but list not cleared: %w", err)
	default:
		return domain.ShoppingHistory{}, err
	}
}

// SaveAsTemplate stores the active list as a named saved list.
// Items are stored unchecked.
func (s *Service) SaveAsTemplate(ctx context.Context, name string) (domain.SavedList, error) {
	listName, err := domain.NewListName(name)
	if err != nil {
		return domain.SavedList{}, err
	}

	items, err := s.current.Load(ctx)
	if err != nil {
		return domain.SavedList{}, err
	}
	if len(items) == 0 {
		return domain.SavedList{}, domain.ErrEmptyList
	}

	id, err := s.newID()
	if err != nil {
		return domain.SavedList{}, err
	}

	template := make(domain.ItemList, len(items))
	for i, item := range items {
		item.Checked = false
		template[i] = item
	}

	list := domain.SavedList{
		ID:        id,
		Name:      listName.String(),
		Items:     template,
		CreatedAt: s.now(),
	}
	if err := s.archive.SaveSavedList(ctx, list); err != nil {
		return domain.SavedList{}, fmt.Errorf("failed to save list: %w", err)
	}
	return list, nil
}

// LoadTemplate appends the items of a saved list to the active list.
// Loaded items get fresh IDs and start unchecked. Returns the added items.
func (s *Service) LoadTemplate(ctx context.Context, id string) (domain.ItemList, error) {
	saved, err := s.archive.GetSavedList(ctx, id)
	if err != nil {
		return nil, err
	}

	added := make(domain.ItemList, 0, len(saved.Items))
	for _, src := range saved.Items {
		itemID, err := s.newID()
		if err != nil {
			return nil, err
		}
		item, err := domain.NewShoppingItem(itemID, src.Text, src.Quantity, string(src.Unit))
		if err != nil {
			continue
		}
		added = append(added, item)
	}

	err = s.current.Update(ctx, func(items []domain.ShoppingItem) ([]domain.ShoppingItem, error) {
		return append(items, added...), nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}
