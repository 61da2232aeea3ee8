package domain

import (
	"fmt"
	"slices"
	"time"
)

// ShoppingItem is a single entry on a shopping list.
// ID is immutable; every other field is changed by replacing the item
// in its owning list.
type ShoppingItem struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Checked  bool    `json:"checked"`
	Quantity float64 `json:"quantity"`
	Unit     Unit    `json:"unit"`
}

// NewShoppingItem builds an unchecked item, validating text and
// normalising quantity and unit.
func NewShoppingItem(id, text string, quantity float64, unit string) (ShoppingItem, error) {
	if id == "" {
		return ShoppingItem{}, ErrInvalidID
	}

	t, err := NewItemText(text)
	if err != nil {
		return ShoppingItem{}, err
	}

	u, err := NewUnit(unit)
	if err != nil {
		return ShoppingItem{}, err
	}

	return ShoppingItem{
		ID:       id,
		Text:     t.String(),
		Quantity: NewQuantity(quantity),
		Unit:     u,
	}, nil
}

// Normalize repairs fields of an item decoded from storage so it satisfies
// the item invariants. Items with no ID or no text are reported as unusable.
func (item ShoppingItem) Normalize() (ShoppingItem, bool) {
	if item.ID == "" {
		return ShoppingItem{}, false
	}
	text, err := NewItemText(item.Text)
	if err != nil {
		return ShoppingItem{}, false
	}
	item.Text = text.String()
	item.Quantity = NewQuantity(item.Quantity)
	if unit, err := NewUnit(string(item.Unit)); err == nil {
		item.Unit = unit
	} else {
		item.Unit = UnitUnits
	}
	return item, true
}

// ItemList is an ordered sequence of items with unique IDs.
type ItemList []ShoppingItem

// Clone returns a copy that shares no backing array with l.
func (l ItemList) Clone() ItemList {
	if l == nil {
		return ItemList{}
	}
	return slices.Clone(l)
}

// Index returns the position of the item with the given ID, or -1.
func (l ItemList) Index(id string) int {
	return slices.IndexFunc(l, func(item ShoppingItem) bool {
		return item.ID == id
	})
}

// Find returns the item with the given ID.
func (l ItemList) Find(id string) (ShoppingItem, bool) {
	i := l.Index(id)
	if i < 0 {
		return ShoppingItem{}, false
	}
	return l[i], true
}

// Add returns a new list with item appended.
// Returns ErrDuplicateItemID if an item with the same ID exists.
func (l ItemList) Add(item ShoppingItem) (ItemList, error) {
	if l.Index(item.ID) >= 0 {
		return l, fmt.Errorf("%w: %s", ErrDuplicateItemID, item.ID)
	}
	return append(l.Clone(), item), nil
}

// Replace returns a new list where the item with item.ID is swapped for item.
// Returns ErrItemNotFound if no such item exists.
func (l ItemList) Replace(item ShoppingItem) (ItemList, error) {
	i := l.Index(item.ID)
	if i < 0 {
		return l, fmt.Errorf("%w: %s", ErrItemNotFound, item.ID)
	}
	out := l.Clone()
	out[i] = item
	return out, nil
}

// Remove returns a new list without the item with the given ID.
// Returns ErrItemNotFound if no such item exists.
func (l ItemList) Remove(id string) (ItemList, error) {
	i := l.Index(id)
	if i < 0 {
		return l, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	out := l.Clone()
	return slices.Delete(out, i, i+1), nil
}

// Counts returns the number of checked items and the total.
func (l ItemList) Counts() (checked, total int) {
	for _, item := range l {
		if item.Checked {
			checked++
		}
	}
	return checked, len(l)
}

// SavedList is a named, reusable template list.
type SavedList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Items     ItemList  `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// ShoppingHistory is an immutable snapshot of one finished shopping trip.
type ShoppingHistory struct {
	ID             string    `json:"id"`
	Date           time.Time `json:"date"`
	Items          ItemList  `json:"items"`
	TotalAmount    float64   `json:"total_amount"`
	Store          string    `json:"store"`
	CompletedItems int       `json:"completed_items"`
	TotalItems     int       `json:"total_items"`
}

// NewShoppingHistory snapshots items into a history record completed at now.
// The record gets its own copy of the items.
func NewShoppingHistory(id string, items ItemList, store string, now time.Time) (ShoppingHistory, error) {
	if id == "" {
		return ShoppingHistory{}, ErrInvalidID
	}
	if len(items) == 0 {
		return ShoppingHistory{}, ErrEmptyList
	}

	checked, total := items.Counts()

	return ShoppingHistory{
		ID:             id,
		Date:           now.UTC(),
		Items:          items.Clone(),
		Store:          store,
		CompletedItems: checked,
		TotalItems:     total,
	}, nil
}

// Validate checks the counter invariant of a history record.
func (h ShoppingHistory) Validate() error {
	if h.ID == "" {
		return ErrInvalidID
	}
	if h.CompletedItems < 0 || h.TotalItems < 0 || h.CompletedItems > h.TotalItems {
		return fmt.Errorf("%w: completed=%d total=%d", ErrInvalidCounts, h.CompletedItems, h.TotalItems)
	}
	return nil
}
