// Package remote defines the optional cloud store the local collections are
// mirrored to, its row schema and the conversions to the local model.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotConfigured is returned by every operation of a Disabled store.
var ErrNotConfigured = errors.New("remote store not configured")

// SavedListRow is a row of the saved_lists table.
type SavedListRow struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Items     json.RawMessage `json:"items"`
	Store     *string         `json:"store,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// HistoryRow is a row of the shopping_history table.
type HistoryRow struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Store        string          `json:"store"`
	Items        json.RawMessage `json:"items"`
	TotalItems   int             `json:"total_items"`
	CheckedItems int             `json:"checked_items"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	CompletedAt  time.Time       `json:"completed_at"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Store is row-oriented CRUD over the two remote tables, scoped by user.
// Lists return newest first.
type Store interface {
	ListSavedLists(ctx context.Context, userID string) ([]SavedListRow, error)
	UpsertSavedList(ctx context.Context, row SavedListRow) error
	DeleteSavedList(ctx context.Context, userID, id string) error

	ListHistory(ctx context.Context, userID string) ([]HistoryRow, error)
	InsertHistory(ctx context.Context, row HistoryRow) error
	DeleteHistory(ctx context.Context, userID, id string) error
	ClearHistory(ctx context.Context, userID string) error

	Close() error
}

// Disabled is the store used when no remote credentials are configured.
// Every call returns ErrNotConfigured without doing any I/O.
type Disabled struct{}

var _ Store = Disabled{}

func (Disabled) ListSavedLists(context.Context, string) ([]SavedListRow, error) {
	return nil, ErrNotConfigured
}

func (Disabled) UpsertSavedList(context.Context, SavedListRow) error { return ErrNotConfigured }

func (Disabled) DeleteSavedList(context.Context, string, string) error { return ErrNotConfigured }

func (Disabled) ListHistory(context.Context, string) ([]HistoryRow, error) {
	return nil, ErrNotConfigured
}

func (Disabled) InsertHistory(context.Context, HistoryRow) error { return ErrNotConfigured }

func (Disabled) DeleteHistory(context.Context, string, string) error { return ErrNotConfigured }

func (Disabled) ClearHistory(context.Context, string) error { return ErrNotConfigured }

func (Disabled) Close() error { return nil }

// IsConfigured reports whether s talks to a real backend.
func IsConfigured(s Store) bool {
	switch s.(type) {
	case nil, Disabled, *Disabled:
		return false
	default:
		return true
	}
}
