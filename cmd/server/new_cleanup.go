package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// shutdowner is the part of mirror.Adapter cleanup needs.
type shutdowner interface {
	Shutdown(context.Context) error
}

// newCleanup returns the shutdown hook. Queued mirror writes are drained
// first because they still read from the stores, which are then closed in
// argument order. Nil entries are skipped and failures are logged so every
// store still gets its Close.
func newCleanup(ctx context.Context, adapter shutdowner, stores ...io.Closer) func() {
	return func() {
		if adapter != nil {
			if err := adapter.Shutdown(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to drain mirror adapter", slog.String("error", err.Error()))
			}
		}

		for _, c := range stores {
			if c == nil {
				continue
			}
			if err := c.Close(); err != nil {
				slog.ErrorContext(ctx, "failed to close store",
					slog.String("store", fmt.Sprintf("%T", c)),
					slog.String("error", err.Error()))
			}
		}
	}
}
