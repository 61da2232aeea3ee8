package mirror

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rezkam/shoplist/internal/remote"
)

var errUnavailable = errors.New("remote unavailable")

// fakeRemote is an in-memory remote.Store with switchable failures.
type fakeRemote struct {
	mu      sync.Mutex
	history []remote.HistoryRow
	lists   []remote.SavedListRow
	calls   []string
	fail    error

	// block, when set, makes every write wait until it is closed or the
	// call's context ends.
	block chan struct{}
}

var _ remote.Store = (*fakeRemote)(nil)

func (f *fakeRemote) begin(ctx context.Context, call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	block, fail := f.block, f.fail
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fail
}

func (f *fakeRemote) setFail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

func (f *fakeRemote) historyIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, len(f.history))
	for i, r := range f.history {
		ids[i] = r.ID
	}
	return ids
}

func (f *fakeRemote) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *fakeRemote) ListSavedLists(ctx context.Context, userID string) ([]remote.SavedListRow, error) {
	if err := f.begin(ctx, "ListSavedLists"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.lists), nil
}

func (f *fakeRemote) UpsertSavedList(ctx context.Context, row remote.SavedListRow) error {
	if err := f.begin(ctx, "UpsertSavedList"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = slices.DeleteFunc(f.lists, func(r remote.SavedListRow) bool { return r.ID == row.ID })
	f.lists = append([]remote.SavedListRow{row}, f.lists...)
	return nil
}

func (f *fakeRemote) DeleteSavedList(ctx context.Context, userID, id string) error {
	if err := f.begin(ctx, "DeleteSavedList"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = slices.DeleteFunc(f.lists, func(r remote.SavedListRow) bool { return r.ID == id })
	return nil
}

func (f *fakeRemote) ListHistory(ctx context.Context, userID string) ([]remote.HistoryRow, error) {
	if err := f.begin(ctx, "ListHistory"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.history), nil
}

func (f *fakeRemote) InsertHistory(ctx context.Context, row remote.HistoryRow) error {
	if err := f.begin(ctx, "InsertHistory"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if slices.ContainsFunc(f.history, func(r remote.HistoryRow) bool { return r.ID == row.ID }) {
		return nil
	}
	f.history = append([]remote.HistoryRow{row}, f.history...)
	return nil
}

func (f *fakeRemote) DeleteHistory(ctx context.Context, userID, id string) error {
	if err := f.begin(ctx, "DeleteHistory"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = slices.DeleteFunc(f.history, func(r remote.HistoryRow) bool { return r.ID == id })
	return nil
}

func (f *fakeRemote) ClearHistory(ctx context.Context, userID string) error {
	if err := f.begin(ctx, "ClearHistory"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = nil
	return nil
}

func (f *fakeRemote) Close() error { return nil }
