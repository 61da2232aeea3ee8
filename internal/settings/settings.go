// Package settings holds the process-wide user preferences as an immutable
// snapshot with an explicit update channel.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/rezkam/shoplist/internal/application/localcache"
	"github.com/rezkam/shoplist/internal/domain"
)

// Settings is one immutable snapshot of the user preferences.
type Settings struct {
	Language     domain.Language `json:"language"`
	SoundEnabled bool            `json:"sound_enabled"`
}

// Defaults returns the settings used before anything is stored.
func Defaults() Settings {
	return Settings{Language: domain.LanguageHebrew, SoundEnabled: true}
}

// Validate checks that every field holds a supported value.
func (s Settings) Validate() error {
	if _, err := domain.NewLanguage(string(s.Language)); err != nil {
		return err
	}
	if s.Language == "" {
		return fmt.Errorf("%w: empty", domain.ErrInvalidLanguage)
	}
	return nil
}

// Store publishes the current settings snapshot.
// Readers never block; updates are serialized and persisted to the local
// key/value store before they are published.
type Store struct {
	kv      localcache.KV
	current atomic.Pointer[Settings]

	mu          sync.Mutex // serializes Update and guards subscribers
	subscribers map[int]chan Settings
	nextID      int
}

// Load returns a store seeded from kv. A missing or unreadable value
// falls back to Defaults; the failure is logged.
func Load(ctx context.Context, kv localcache.KV) *Store {
	s := &Store{kv: kv, subscribers: make(map[int]chan Settings)}

	initial := Defaults()
	data, found, err := kv.Get(ctx, localcache.KeySettings)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "Failed to read settings, using defaults",
			slog.String("error", err.Error()))
	case found:
		var stored Settings
		if err := json.Unmarshal(data, &stored); err != nil || stored.Validate() != nil {
			slog.WarnContext(ctx, "Discarding invalid stored settings")
		} else {
			initial = stored
		}
	}

	s.current.Store(&initial)
	return s
}

// Current returns the latest snapshot.
func (s *Store) Current() Settings {
	return *s.current.Load()
}

// Update derives a new snapshot with fn, persists it and publishes it.
// Nothing changes if fn's result is invalid or cannot be stored.
func (s *Store) Update(ctx context.Context, fn func(Settings) Settings) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(*s.current.Load())
	if err := next.Validate(); err != nil {
		return Settings{}, err
	}

	data, err := json.Marshal(next)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.kv.Set(ctx, localcache.KeySettings, data); err != nil {
		return Settings{}, fmt.Errorf("failed to persist settings: %w", err)
	}

	s.current.Store(&next)
	for _, ch := range s.subscribers {
		publish(ch, next)
	}
	return next, nil
}

// Subscribe returns a channel that receives every new snapshot.
// A subscriber that falls behind only sees the latest snapshot.
// cancel closes the channel and is safe to call more than once.
func (s *Store) Subscribe() (<-chan Settings, func()) {
	ch := make(chan Settings, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// publish delivers v, replacing an undelivered older value.
// Callers hold s.mu, so there is a single sender per channel.
func publish(ch chan Settings, v Settings) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
