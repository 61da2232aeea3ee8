package localcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Collection is a JSON array stored under a single KV key.
//
// Every mutation is one read-modify-write of the whole array, serialized by
// the collection's mutex so concurrent writers never lose updates. Callers
// must share one Collection per key for the serialization to hold.
type Collection[T any] struct {
	kv  KV
	key string
	mu  sync.Mutex

	// sanitize repairs a decoded element or reports it unusable.
	sanitize func(T) (T, bool)
}

// NewCollection returns a collection stored under key.
// sanitize may be nil.
func NewCollection[T any](kv KV, key string, sanitize func(T) (T, bool)) *Collection[T] {
	return &Collection[T]{kv: kv, key: key, sanitize: sanitize}
}

// Key returns the storage key of the collection.
func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the stored elements.
// A missing or undecodable value yields an empty slice and no error;
// only a storage failure is returned.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx)
}

// Update applies fn to the stored elements and persists the result.
// Nothing is written if fn returns an error.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.loadLocked(ctx)
	if err != nil {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	return c.storeLocked(ctx, next)
}

// Replace overwrites the stored elements.
func (c *Collection[T]) Replace(ctx context.Context, elems []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storeLocked(ctx, elems)
}

// Clear removes the key.
func (c *Collection[T]) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Remove(ctx, c.key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", c.key, err)
	}
	return nil
}

func (c *Collection[T]) loadLocked(ctx context.Context) ([]T, error) {
	data, found, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.key, err)
	}
	if !found || len(data) == 0 {
		return []T{}, nil
	}

	var elems []T
	if err := json.Unmarshal(data, &elems); err != nil {
		slog.WarnContext(ctx, "Discarding corrupt local collection",
			slog.String("key", c.key),
			slog.String("error", err.Error()))
		return []T{}, nil
	}
	if elems == nil {
		return []T{}, nil
	}

	if c.sanitize == nil {
		return elems, nil
	}

	out := elems[:0]
	for _, e := range elems {
		if fixed, ok := c.sanitize(e); ok {
			out = append(out, fixed)
		}
	}
	if dropped := len(elems) - len(out); dropped > 0 {
		slog.WarnContext(ctx, "Dropped invalid records from local collection",
			slog.String("key", c.key),
			slog.Int("dropped", dropped))
	}
	return out, nil
}

func (c *Collection[T]) storeLocked(ctx context.Context, elems []T) error {
	if elems == nil {
		elems = []T{}
	}

	data, err := json.Marshal(elems)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", c.key, err)
	}

	if err := c.kv.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.key, err)
	}
	return nil
}
