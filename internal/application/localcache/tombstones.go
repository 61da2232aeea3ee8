package localcache

import (
	"context"
	"slices"
)

// Tombstones is a persisted set of IDs deleted locally whose deletion has
// not yet been confirmed by the remote store.
type Tombstones struct {
	ids *Collection[string]
}

// NewTombstones returns the set stored in kv under key.
func NewTombstones(kv KV, key string) *Tombstones {
	return &Tombstones{ids: NewCollection(kv, key, func(id string) (string, bool) {
		return id, id != ""
	})}
}

// Add records ids. IDs already present are kept once.
func (t *Tombstones) Add(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return t.ids.Update(ctx, func(set []string) ([]string, error) {
		for _, id := range ids {
			if id != "" && !slices.Contains(set, id) {
				set = append(set, id)
			}
		}
		return set, nil
	})
}

// Remove forgets ids. Unknown ids are ignored.
func (t *Tombstones) Remove(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return t.ids.Update(ctx, func(set []string) ([]string, error) {
		return slices.DeleteFunc(set, func(id string) bool {
			return slices.Contains(ids, id)
		}), nil
	})
}

// Set returns the recorded ids.
func (t *Tombstones) Set(ctx context.Context) (map[string]struct{}, error) {
	ids, err := t.ids.Load(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
