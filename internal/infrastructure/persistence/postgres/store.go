// Package postgres implements the remote store on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rezkam/shoplist/internal/domain"
	"github.com/rezkam/shoplist/internal/remote"
)

// checkViolation is the SQLSTATE for a failed CHECK constraint.
const checkViolation = "23514"

// Store implements remote.Store over the saved_lists and shopping_history tables.
type Store struct {
	pool *pgxpool.Pool
}

var _ remote.Store = (*Store)(nil)

// NewStore creates a new PostgreSQL store with the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// ListSavedLists returns the user's saved lists, newest first.
func (s *Store) ListSavedLists(ctx context.Context, userID string) ([]remote.SavedListRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, name, items, store, created_at, updated_at
		FROM saved_lists
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved lists: %w", err)
	}

	lists, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (remote.SavedListRow, error) {
		var (
			id                   pgtype.UUID
			r                    remote.SavedListRow
			items                []byte
			createdAt, updatedAt pgtype.Timestamptz
		)
		if err := row.Scan(&id, &r.UserID, &r.Name, &items, &r.Store, &createdAt, &updatedAt); err != nil {
			return remote.SavedListRow{}, err
		}
		r.ID = pgtypeToUUIDString(id)
		r.Items = items
		r.CreatedAt = pgtypeToTime(createdAt)
		r.UpdatedAt = pgtypeToTime(updatedAt)
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan saved lists: %w", err)
	}
	return lists, nil
}

// UpsertSavedList inserts a saved list or replaces the user's existing one.
// A row with the same id owned by another user is left untouched.
func (s *Store) UpsertSavedList(ctx context.Context, row remote.SavedListRow) error {
	id, err := parseID(row.ID)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO saved_lists (id, user_id, name, items, store, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()), COALESCE($7, now()))
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    items = EXCLUDED.items,
		    store = EXCLUDED.store,
		    updated_at = EXCLUDED.updated_at
		WHERE saved_lists.user_id = EXCLUDED.user_id`,
		id, row.UserID, row.Name, itemsOrEmpty(row.Items), row.Store,
		timeToPgtype(row.CreatedAt), timeToPgtype(row.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert saved list: %w", err)
	}
	return nil
}

// DeleteSavedList removes one of the user's saved lists. Unknown ids succeed.
func (s *Store) DeleteSavedList(ctx context.Context, userID, id string) error {
	pgID, err := parseID(id)
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, `DELETE FROM saved_lists WHERE user_id = $1 AND id = $2`, userID, pgID); err != nil {
		return fmt.Errorf("failed to delete saved list: %w", err)
	}
	return nil
}

// ListHistory returns the user's history, most recently completed first.
func (s *Store) ListHistory(ctx context.Context, userID string) ([]remote.HistoryRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, store, items, total_items, checked_items, started_at, completed_at, created_at
		FROM shopping_history
		WHERE user_id = $1
		ORDER BY completed_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	history, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (remote.HistoryRow, error) {
		var (
			id                                pgtype.UUID
			r                                 remote.HistoryRow
			items                             []byte
			startedAt, completedAt, createdAt pgtype.Timestamptz
		)
		if err := row.Scan(&id, &r.UserID, &r.Store, &items, &r.TotalItems, &r.CheckedItems,
			&startedAt, &completedAt, &createdAt); err != nil {
			return remote.HistoryRow{}, err
		}
		r.ID = pgtypeToUUIDString(id)
		r.Items = items
		r.StartedAt = pgtypeToTimePtr(startedAt)
		r.CompletedAt = pgtypeToTime(completedAt)
		r.CreatedAt = pgtypeToTime(createdAt)
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan history: %w", err)
	}
	return history, nil
}

// InsertHistory stores a history record. Re-inserting an existing id is a
// no-op, so a replayed mirror write does not fail.
func (s *Store) InsertHistory(ctx context.Context, row remote.HistoryRow) error {
	id, err := parseID(row.ID)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO shopping_history
			(id, user_id, store, items, total_items, checked_items, started_at, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()))
		ON CONFLICT (id) DO NOTHING`,
		id, row.UserID, row.Store, itemsOrEmpty(row.Items), row.TotalItems, row.CheckedItems,
		timePtrToPgtype(row.StartedAt), row.CompletedAt.UTC(), timeToPgtype(row.CreatedAt))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == checkViolation {
			return fmt.Errorf("%w: %w", domain.ErrInvalidCounts, err)
		}
		return fmt.Errorf("failed to insert history: %w", err)
	}
	return nil
}

// DeleteHistory removes one of the user's history records. Unknown ids succeed.
func (s *Store) DeleteHistory(ctx context.Context, userID, id string) error {
	pgID, err := parseID(id)
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, `DELETE FROM shopping_history WHERE user_id = $1 AND id = $2`, userID, pgID); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}

// ClearHistory removes all of the user's history records.
func (s *Store) ClearHistory(ctx context.Context, userID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM shopping_history WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
