package remote

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rezkam/shoplist/internal/domain"
)

// ToSavedList converts a remote row to the local model.
// user_id, store and updated_at have no local counterpart and are dropped.
func ToSavedList(row SavedListRow) domain.SavedList {
	return domain.SavedList{
		ID:        row.ID,
		Name:      row.Name,
		Items:     decodeItems(row.Items),
		CreatedAt: row.CreatedAt.UTC(),
	}
}

// FromSavedList builds the remote row for list owned by userID.
// now becomes the row's update timestamp.
func FromSavedList(list domain.SavedList, userID string, now time.Time) (SavedListRow, error) {
	items, err := encodeItems(list.Items)
	if err != nil {
		return SavedListRow{}, err
	}

	createdAt := list.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	return SavedListRow{
		ID:        list.ID,
		UserID:    userID,
		Name:      list.Name,
		Items:     items,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// ToShoppingHistory converts a remote row to the local model.
// completed_at becomes the record date. The remote schema carries no
// amount, so TotalAmount is always zero.
func ToShoppingHistory(row HistoryRow) domain.ShoppingHistory {
	return domain.ShoppingHistory{
		ID:             row.ID,
		Date:           row.CompletedAt.UTC(),
		Items:          decodeItems(row.Items),
		Store:          row.Store,
		CompletedItems: row.CheckedItems,
		TotalItems:     row.TotalItems,
	}
}

// FromShoppingHistory builds the remote row for h owned by userID.
func FromShoppingHistory(h domain.ShoppingHistory, userID string, now time.Time) (HistoryRow, error) {
	items, err := encodeItems(h.Items)
	if err != nil {
		return HistoryRow{}, err
	}

	return HistoryRow{
		ID:           h.ID,
		UserID:       userID,
		Store:        h.Store,
		Items:        items,
		TotalItems:   h.TotalItems,
		CheckedItems: h.CompletedItems,
		CompletedAt:  h.Date.UTC(),
		CreatedAt:    now.UTC(),
	}, nil
}

// decodeItems parses an items blob. Malformed JSON yields an empty list;
// individual items are normalized and unusable ones dropped.
func decodeItems(raw json.RawMessage) domain.ItemList {
	if len(raw) == 0 {
		return domain.ItemList{}
	}

	var decoded []domain.ShoppingItem
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return domain.ItemList{}
	}

	items := make(domain.ItemList, 0, len(decoded))
	for _, item := range decoded {
		if fixed, ok := item.Normalize(); ok {
			items = append(items, fixed)
		}
	}
	return items
}

func encodeItems(items domain.ItemList) (json.RawMessage, error) {
	if items == nil {
		items = domain.ItemList{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode items: %w", err)
	}
	return data, nil
}
