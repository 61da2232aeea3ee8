// Package mirror keeps the local collections authoritative while mirroring
// every write to the optional remote store on a best-effort basis.
package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/rezkam/shoplist/internal/application/localcache"
	"github.com/rezkam/shoplist/internal/domain"
	"github.com/rezkam/shoplist/internal/remote"
)

const instrumentationName = "github.com/rezkam/shoplist/internal/application/mirror"

// Default configuration values.
const (
	DefaultOperationTimeout = 5 * time.Second
	DefaultQueueSize        = 256
)

// Config holds configuration for the Adapter.
type Config struct {
	UserID           string        // Owner of every remote row
	OperationTimeout time.Duration // Timeout for each remote call
	QueueSize        int           // Buffer size for pending remote writes

	// Optional; the global providers are used when nil.
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider
}

// Status reports whether remote mirroring is running.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// RefreshResult describes the outcome of a Refresh. History and SavedLists
// count the local records after the merge; Pushed counts local records
// queued again because the remote store lacked them, Purged counts remote
// records queued for deletion because they were deleted locally.
type RefreshResult struct {
	Applied    bool   `json:"applied"`
	Reason     string `json:"reason,omitempty"`
	History    int    `json:"history"`
	SavedLists int    `json:"saved_lists"`
	Pushed     int    `json:"pushed"`
	Purged     int    `json:"purged"`
}

// Reasons a refresh was not applied.
const (
	ReasonNotConfigured = "remote not configured"
	ReasonRemoteFailed  = "remote unavailable"
	ReasonShutdown      = "shutting down"
)

type remoteOp struct {
	name string
	run  func(ctx context.Context) error
	done func(ctx context.Context) // after run succeeds; may be nil
}

// Adapter is the single entry point to the history log and saved lists.
//
// Reads are served from local storage only. Writes apply locally first and
// the local result is what the caller sees; on success the matching remote
// call is queued for a background worker. Remote failures are logged and
// counted, never returned.
type Adapter struct {
	history *localcache.History
	saved   *localcache.SavedLists
	remote  remote.Store

	userID           string
	operationTimeout time.Duration
	configured       bool

	appCtx       context.Context
	ops          chan remoteOp
	pending      atomic.Int64 // queued or in-flight remote writes
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup

	// queueMu orders enqueue against Shutdown: once closed is set no op
	// enters the queue, so the worker's final drain sees every op.
	queueMu sync.RWMutex
	closed  bool

	// writeMu lets Refresh merge into the local collections without racing
	// a local write. Writers hold it shared, so they never wait on each other.
	writeMu   sync.RWMutex
	refreshMu sync.Mutex

	now        func() time.Time
	tracer     trace.Tracer
	opsCounter metric.Int64Counter
}

// New creates an adapter and, when store is configured, starts the
// background worker. ctx should be an application-level context that is
// cancelled on shutdown.
func New(ctx context.Context, history *localcache.History, saved *localcache.SavedLists, store remote.Store, cfg Config) *Adapter {
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = DefaultOperationTimeout
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if store == nil {
		store = remote.Disabled{}
	}

	counter, err := cfg.MeterProvider.Meter(instrumentationName).Int64Counter(
		"shoplist.mirror.ops",
		metric.WithDescription("Remote mirror operations by op and outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		slog.WarnContext(ctx, "Failed to create mirror counter", slog.String("error", err.Error()))
	}

	a := &Adapter{
		history:          history,
		saved:            saved,
		remote:           store,
		userID:           cfg.UserID,
		operationTimeout: cfg.OperationTimeout,
		configured:       remote.IsConfigured(store),
		appCtx:           ctx,
		ops:              make(chan remoteOp, cfg.QueueSize),
		shutdownChan:     make(chan struct{}),
		now:              func() time.Time { return time.Now().UTC() },
		tracer:           cfg.TracerProvider.Tracer(instrumentationName),
		opsCounter:       counter,
	}

	if a.configured {
		a.wg.Add(1)
		go a.processRemoteOps()
	}

	return a
}

// Status reports whether writes are currently being mirrored.
func (a *Adapter) Status() Status {
	if !a.configured {
		return StatusInactive
	}
	select {
	case <-a.shutdownChan:
		return StatusInactive
	default:
		return StatusActive
	}
}

// Pending returns the number of remote writes not yet completed.
func (a *Adapter) Pending() int {
	return int(a.pending.Load())
}

// ListHistory returns the local history log, most recent first.
func (a *Adapter) ListHistory(ctx context.Context) []domain.ShoppingHistory {
	return a.history.List(ctx)
}

// SaveHistory records a completed trip. Replaying a stored ID keeps the
// original record.
func (a *Adapter) SaveHistory(ctx context.Context, h domain.ShoppingHistory) error {
	return a.write(func() error {
		if err := a.history.Save(ctx, h); err != nil {
			return err
		}
		a.pushHistory(ctx, h)
		return nil
	})
}

// DeleteHistory removes one history record. Unknown ids succeed.
func (a *Adapter) DeleteHistory(ctx context.Context, id string) error {
	return a.write(func() error {
		if err := a.tombstone(ctx, a.history.Deleted(), id); err != nil {
			return err
		}
		if err := a.history.DeleteByID(ctx, id); err != nil {
			return err
		}
		a.purgeHistory(ctx, id)
		return nil
	})
}

// ClearHistory removes the whole history log.
func (a *Adapter) ClearHistory(ctx context.Context) error {
	return a.write(func() error {
		var ids []string
		if a.configured {
			records, err := a.history.Snapshot(ctx)
			if err != nil {
				return err
			}
			for _, r := range records {
				ids = append(ids, r.ID)
			}
			if err := a.tombstone(ctx, a.history.Deleted(), ids...); err != nil {
				return err
			}
		}
		if err := a.history.ClearAll(ctx); err != nil {
			return err
		}
		a.enqueue(ctx, remoteOp{
			name: "clear_history",
			run: func(ctx context.Context) error {
				return a.remote.ClearHistory(ctx, a.userID)
			},
			done: a.forget(a.history.Deleted(), ids...),
		})
		return nil
	})
}

// ListSavedLists returns the local saved lists, newest first.
func (a *Adapter) ListSavedLists(ctx context.Context) []domain.SavedList {
	return a.saved.List(ctx)
}

// GetSavedList returns one saved list from local storage.
func (a *Adapter) GetSavedList(ctx context.Context, id string) (domain.SavedList, error) {
	return a.saved.Get(ctx, id)
}

// SaveSavedList inserts or replaces a saved list.
func (a *Adapter) SaveSavedList(ctx context.Context, list domain.SavedList) error {
	return a.write(func() error {
		if err := a.saved.Save(ctx, list); err != nil {
			return err
		}
		a.pushSavedList(ctx, list)
		return nil
	})
}

// DeleteSavedList removes a saved list. Unknown ids succeed.
func (a *Adapter) DeleteSavedList(ctx context.Context, id string) error {
	return a.write(func() error {
		if err := a.tombstone(ctx, a.saved.Deleted(), id); err != nil {
			return err
		}
		if err := a.saved.Delete(ctx, id); err != nil {
			return err
		}
		a.purgeSavedList(ctx, id)
		return nil
	})
}

func (a *Adapter) write(fn func() error) error {
	a.writeMu.RLock()
	defer a.writeMu.RUnlock()
	return fn()
}

// tombstone records ids as deleted locally until the remote store confirms
// the deletion, so Refresh cannot bring them back.
func (a *Adapter) tombstone(ctx context.Context, ts *localcache.Tombstones, ids ...string) error {
	if !a.configured {
		return nil
	}
	if err := ts.Add(ctx, ids...); err != nil {
		return fmt.Errorf("failed to record deletion: %w", err)
	}
	return nil
}

func (a *Adapter) forget(ts *localcache.Tombstones, ids ...string) func(ctx context.Context) {
	return func(ctx context.Context) {
		if err := ts.Remove(ctx, ids...); err != nil {
			slog.WarnContext(ctx, "Failed to clear deletion record",
				slog.Any("ids", ids),
				slog.String("error", err.Error()))
		}
	}
}

func (a *Adapter) pushHistory(ctx context.Context, h domain.ShoppingHistory) {
	if !a.configured {
		return
	}
	row, err := remote.FromShoppingHistory(h, a.userID, a.now())
	if err != nil {
		slog.WarnContext(ctx, "Skipping remote mirror of history record",
			slog.String("history_id", h.ID),
			slog.String("error", err.Error()))
		return
	}
	a.enqueue(ctx, remoteOp{name: "insert_history", run: func(ctx context.Context) error {
		return a.remote.InsertHistory(ctx, row)
	}})
}

func (a *Adapter) purgeHistory(ctx context.Context, id string) {
	a.enqueue(ctx, remoteOp{
		name: "delete_history",
		run: func(ctx context.Context) error {
			return a.remote.DeleteHistory(ctx, a.userID, id)
		},
		done: a.forget(a.history.Deleted(), id),
	})
}

func (a *Adapter) pushSavedList(ctx context.Context, list domain.SavedList) {
	if !a.configured {
		return
	}
	row, err := remote.FromSavedList(list, a.userID, a.now())
	if err != nil {
		slog.WarnContext(ctx, "Skipping remote mirror of saved list",
			slog.String("list_id", list.ID),
			slog.String("error", err.Error()))
		return
	}
	a.enqueue(ctx, remoteOp{name: "upsert_saved_list", run: func(ctx context.Context) error {
		return a.remote.UpsertSavedList(ctx, row)
	}})
}

func (a *Adapter) purgeSavedList(ctx context.Context, id string) {
	a.enqueue(ctx, remoteOp{
		name: "delete_saved_list",
		run: func(ctx context.Context) error {
			return a.remote.DeleteSavedList(ctx, a.userID, id)
		},
		done: a.forget(a.saved.Deleted(), id),
	})
}

func (a *Adapter) enqueue(ctx context.Context, op remoteOp) {
	if !a.configured {
		return
	}

	a.queueMu.RLock()
	defer a.queueMu.RUnlock()

	if a.closed {
		slog.WarnContext(ctx, "Dropped remote mirror operation after shutdown",
			slog.String("op", op.name))
		a.record(ctx, op.name, "dropped")
		return
	}

	a.pending.Add(1)
	select {
	case a.ops <- op:
	default:
		// Queue full: drop rather than block the local write.
		a.pending.Add(-1)
		slog.WarnContext(ctx, "Dropped remote mirror operation due to full queue",
			slog.String("op", op.name))
		a.record(ctx, op.name, "dropped")
	}
}

// processRemoteOps is the single background worker that applies queued
// remote writes in order.
func (a *Adapter) processRemoteOps() {
	defer a.wg.Done()

	for {
		select {
		case op := <-a.ops:
			a.execute(a.appCtx, op)

		case <-a.shutdownChan:
			// Drain remaining ops. The application context is already
			// cancelled at this point, so each op gets a fresh timeout.
			for {
				select {
				case op := <-a.ops:
					a.execute(context.WithoutCancel(a.appCtx), op)
				default:
					return
				}
			}
		}
	}
}

func (a *Adapter) execute(parent context.Context, op remoteOp) {
	defer a.pending.Add(-1)

	ctx, cancel := context.WithTimeout(parent, a.operationTimeout)
	defer cancel()

	ctx, span := a.tracer.Start(ctx, "mirror."+op.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("mirror.op", op.name)))
	defer span.End()

	if err := op.run(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.WarnContext(ctx, "Remote mirror operation failed",
			slog.String("op", op.name),
			slog.String("error", err.Error()))
		a.record(ctx, op.name, "error")
		return
	}

	a.record(ctx, op.name, "ok")
	if op.done != nil {
		op.done(ctx)
	}
}

func (a *Adapter) record(ctx context.Context, op, outcome string) {
	if a.opsCounter == nil {
		return
	}
	a.opsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
}

// Refresh merges the remote snapshot into the local collections.
//
// Local data stays authoritative. Local records are kept as they are and
// queued again when the remote store lacks them. Records deleted locally
// are never restored; their remote deletion is queued again instead. Only
// records this device has never seen are added. It is safe to call
// repeatedly, for example whenever a change feed reports remote updates.
// A remote failure leaves local data untouched and is reported through the
// result; the returned error is reserved for local storage failures.
func (a *Adapter) Refresh(ctx context.Context) (RefreshResult, error) {
	if !a.configured {
		return RefreshResult{Reason: ReasonNotConfigured}, nil
	}
	if a.Status() != StatusActive {
		return RefreshResult{Reason: ReasonShutdown}, nil
	}

	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()

	// With nothing in flight, a tombstone read now whose row is missing from
	// the snapshot below is fully applied remotely and can be forgotten.
	idle := a.Pending() == 0
	goneHistory, err := a.history.Deleted().Set(ctx)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("failed to read deleted history: %w", err)
	}
	goneLists, err := a.saved.Deleted().Set(ctx)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("failed to read deleted saved lists: %w", err)
	}

	settledHistory, settledLists := maps.Clone(goneHistory), maps.Clone(goneLists)

	remoteHistory, remoteLists, err := a.fetchSnapshot(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Remote refresh failed",
			slog.String("error", err.Error()))
		a.record(ctx, "refresh", "error")
		return RefreshResult{Reason: ReasonRemoteFailed}, nil
	}

	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	// Deletions made while the snapshot was in flight count as well.
	if err := addTombstones(ctx, a.history.Deleted(), goneHistory); err != nil {
		return RefreshResult{}, fmt.Errorf("failed to read deleted history: %w", err)
	}
	if err := addTombstones(ctx, a.saved.Deleted(), goneLists); err != nil {
		return RefreshResult{}, fmt.Errorf("failed to read deleted saved lists: %w", err)
	}

	localHistory, err := a.history.Snapshot(ctx)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("failed to read local history: %w", err)
	}
	localLists, err := a.saved.Snapshot(ctx)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("failed to read local saved lists: %w", err)
	}

	history := merge(localHistory, remoteHistory, goneHistory, historyID)
	slices.SortStableFunc(history.records, func(x, y domain.ShoppingHistory) int {
		return y.Date.Compare(x.Date)
	})
	lists := merge(localLists, remoteLists, goneLists, savedListID)
	slices.SortStableFunc(lists.records, func(x, y domain.SavedList) int {
		return y.CreatedAt.Compare(x.CreatedAt)
	})

	if err := a.history.ReplaceAll(ctx, history.records); err != nil {
		return RefreshResult{}, fmt.Errorf("failed to apply remote history: %w", err)
	}
	if err := a.saved.ReplaceAll(ctx, lists.records); err != nil {
		return RefreshResult{}, fmt.Errorf("failed to apply remote saved lists: %w", err)
	}

	if idle {
		a.forget(a.history.Deleted(), settled(settledHistory, remoteHistory, historyID)...)(ctx)
		a.forget(a.saved.Deleted(), settled(settledLists, remoteLists, savedListID)...)(ctx)
	}
	for _, h := range history.push {
		a.pushHistory(ctx, h)
	}
	for _, l := range lists.push {
		a.pushSavedList(ctx, l)
	}
	for _, id := range history.purge {
		a.purgeHistory(ctx, id)
	}
	for _, id := range lists.purge {
		a.purgeSavedList(ctx, id)
	}

	a.record(ctx, "refresh", "ok")
	return RefreshResult{
		Applied:    true,
		History:    len(history.records),
		SavedLists: len(lists.records),
		Pushed:     len(history.push) + len(lists.push),
		Purged:     len(history.purge) + len(lists.purge),
	}, nil
}

func addTombstones(ctx context.Context, ts *localcache.Tombstones, into map[string]struct{}) error {
	now, err := ts.Set(ctx)
	if err != nil {
		return err
	}
	for id := range now {
		into[id] = struct{}{}
	}
	return nil
}

func historyID(h domain.ShoppingHistory) string { return h.ID }

func savedListID(l domain.SavedList) string { return l.ID }

// merged is the outcome of reconciling one local collection with its
// remote snapshot.
type merged[T any] struct {
	records []T      // local records plus remote-only records not deleted locally
	push    []T      // local records the remote store lacks
	purge   []string // remote records deleted locally
}

func merge[T any](local, remote []T, gone map[string]struct{}, id func(T) string) merged[T] {
	out := merged[T]{records: slices.Clone(local)}

	localIDs := make(map[string]struct{}, len(local))
	for _, r := range local {
		localIDs[id(r)] = struct{}{}
	}
	remoteIDs := make(map[string]struct{}, len(remote))
	for _, r := range remote {
		rid := id(r)
		remoteIDs[rid] = struct{}{}
		if _, ok := localIDs[rid]; ok {
			continue
		}
		if _, ok := gone[rid]; ok {
			out.purge = append(out.purge, rid)
			continue
		}
		out.records = append(out.records, r)
	}

	for _, r := range local {
		if _, ok := remoteIDs[id(r)]; !ok {
			out.push = append(out.push, r)
		}
	}
	return out
}

// settled returns the tombstones in gone that have no remote record.
func settled[T any](gone map[string]struct{}, remote []T, id func(T) string) []string {
	for _, r := range remote {
		delete(gone, id(r))
	}
	return slices.Collect(maps.Keys(gone))
}

func (a *Adapter) fetchSnapshot(ctx context.Context) ([]domain.ShoppingHistory, []domain.SavedList, error) {
	ctx, cancel := context.WithTimeout(ctx, a.operationTimeout)
	defer cancel()

	ctx, span := a.tracer.Start(ctx, "mirror.refresh", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	historyRows, err := a.remote.ListHistory(ctx, a.userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, fmt.Errorf("list history: %w", err)
	}
	listRows, err := a.remote.ListSavedLists(ctx, a.userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, fmt.Errorf("list saved lists: %w", err)
	}

	history := make([]domain.ShoppingHistory, 0, len(historyRows))
	for _, row := range historyRows {
		h := remote.ToShoppingHistory(row)
		if err := h.Validate(); err != nil {
			slog.WarnContext(ctx, "Skipping invalid remote history row",
				slog.String("history_id", row.ID),
				slog.String("error", err.Error()))
			continue
		}
		history = append(history, h)
	}

	lists := make([]domain.SavedList, 0, len(listRows))
	for _, row := range listRows {
		if row.ID == "" {
			continue
		}
		lists = append(lists, remote.ToSavedList(row))
	}

	span.SetAttributes(
		attribute.Int("mirror.history", len(history)),
		attribute.Int("mirror.saved_lists", len(lists)),
	)
	return history, lists, nil
}

// Shutdown stops the worker after it has drained queued writes.
// It respects ctx's deadline and is safe to call multiple times.
func (a *Adapter) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.shutdownOnce.Do(func() {
		a.queueMu.Lock()
		a.closed = true
		close(a.shutdownChan)
		a.queueMu.Unlock()

		done := make(chan struct{})
		go func() {
			a.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			shutdownErr = fmt.Errorf("shutdown timeout: %w", ctx.Err())
		}
	})
	return shutdownErr
}
