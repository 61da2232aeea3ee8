// Package grouping partitions shopping items into ordered category buckets
// for display.
package grouping

import (
	"github.com/rezkam/shoplist/internal/category"
	"github.com/rezkam/shoplist/internal/domain"
)

// Classifier maps an item text to its category.
type Classifier func(text string) domain.CategoryKey

// Group is one non-empty category bucket ready for rendering.
// Items lists unchecked items before checked ones, each half keeping
// the relative order of the input.
type Group struct {
	Key       domain.CategoryKey
	Info      domain.CategoryInfo
	Items     []domain.ShoppingItem
	Pending   int
	Completed int
	Total     int
}

// GroupByCategory partitions items by category.
// Each bucket keeps the relative input order of its items. A nil
// classify uses category.Classify.
func GroupByCategory(items []domain.ShoppingItem, classify Classifier) map[domain.CategoryKey][]domain.ShoppingItem {
	if classify == nil {
		classify = category.Classify
	}

	buckets := make(map[domain.CategoryKey][]domain.ShoppingItem)
	for _, item := range items {
		key := classify(item.Text)
		if _, ok := domain.LookupCategory(key); !ok {
			key = domain.CategoryOther
		}
		buckets[key] = append(buckets[key], item)
	}
	return buckets
}

// OrderedGroups returns the non-empty buckets of items in display order.
// Empty input yields an empty, non-nil slice.
func OrderedGroups(items []domain.ShoppingItem, classify Classifier) []Group {
	buckets := GroupByCategory(items, classify)

	groups := make([]Group, 0, len(buckets))
	for _, key := range domain.CategoryOrder() {
		bucket, ok := buckets[key]
		if !ok {
			continue
		}

		pending := make([]domain.ShoppingItem, 0, len(bucket))
		var completed []domain.ShoppingItem
		for _, item := range bucket {
			if item.Checked {
				completed = append(completed, item)
			} else {
				pending = append(pending, item)
			}
		}

		groups = append(groups, Group{
			Key:       key,
			Info:      category.Info(key),
			Items:     append(pending, completed...),
			Pending:   len(pending),
			Completed: len(completed),
			Total:     len(bucket),
		})
	}

	return groups
}

// Flatten concatenates the items of groups in order.
func Flatten(groups []Group) []domain.ShoppingItem {
	var n int
	for _, g := range groups {
		n += len(g.Items)
	}

	out := make([]domain.ShoppingItem, 0, n)
	for _, g := range groups {
		out = append(out, g.Items...)
	}
	return out
}
