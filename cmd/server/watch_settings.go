package main

import (
	"context"
	"log/slog"

	"github.com/rezkam/shoplist/internal/settings"
)

// watchSettings logs every published settings snapshot until ctx is done.
// The subscription is registered before it returns, so no update made
// afterwards is missed. wait blocks until the watcher has stopped.
func watchSettings(ctx context.Context, prefs *settings.Store, logger *slog.Logger) (wait func()) {
	updates, cancel := prefs.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-updates:
				if !ok {
					return
				}
				logger.InfoContext(ctx, "settings changed",
					slog.String("language", string(s.Language)),
					slog.Bool("sound_enabled", s.SoundEnabled))
			}
		}
	}()

	return func() { <-done }
}
