package main

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/rezkam/shoplist/internal/application/localcache"
	"github.com/rezkam/shoplist/internal/application/mirror"
	"github.com/rezkam/shoplist/internal/application/shopping"
	"github.com/rezkam/shoplist/internal/config"
	"github.com/rezkam/shoplist/internal/grouping"
	httpserver "github.com/rezkam/shoplist/internal/infrastructure/http"
	"github.com/rezkam/shoplist/internal/infrastructure/http/handler"
	"github.com/rezkam/shoplist/internal/settings"
)

// app is the wired service: stores, mirror adapter, settings watcher and
// HTTP server.
type app struct {
	server  *httpserver.APIServer
	adapter *mirror.Adapter
	cleanup func(ctx context.Context)
}

// newApp opens the configured stores and wires every layer on top of them.
// ctx is the application context; cancelling it stops background work.
func newApp(ctx context.Context, cfg *config.ServerConfig, mp metric.MeterProvider, tp trace.TracerProvider) (*app, error) {
	kv, localCloser, err := openLocal(ctx, cfg.Local)
	if err != nil {
		return nil, err
	}

	remoteStore, remoteCloser, err := openRemote(ctx, cfg.Remote)
	if err != nil {
		closeQuietly(localCloser)
		return nil, err
	}

	adapter := mirror.New(ctx,
		localcache.NewHistory(kv),
		localcache.NewSavedLists(kv),
		remoteStore,
		mirror.Config{
			UserID:           cfg.Remote.UserID,
			OperationTimeout: cfg.Mirror.OperationTimeout,
			QueueSize:        cfg.Mirror.QueueSize,
			MeterProvider:    mp,
			TracerProvider:   tp,
		},
	)

	if cfg.Mirror.RefreshOnStart {
		result, err := adapter.Refresh(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "startup refresh failed", "error", err)
		} else {
			slog.InfoContext(ctx, "startup refresh finished",
				"applied", result.Applied,
				"reason", result.Reason,
				"history", result.History,
				"saved_lists", result.SavedLists,
				"pushed", result.Pushed,
				"purged", result.Purged)
		}
	}

	prefs := settings.Load(ctx, kv)
	watchCtx, stopWatch := context.WithCancel(ctx)
	waitWatch := watchSettings(watchCtx, prefs, slog.Default())
	svc := shopping.NewService(kv, adapter)
	api := handler.New(svc, adapter, prefs, grouping.NewCollapseState())

	server := httpserver.NewAPIServer(api.Routes(), httpserver.ServerConfig{
		Host:              cfg.HTTP.Host,
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		TLSEnabled:        cfg.HTTP.TLSEnabled,
		TLSCertFile:       cfg.HTTP.TLSCertFile,
		TLSKeyFile:        cfg.HTTP.TLSKeyFile,
	})

	return &app{
		server:  server,
		adapter: adapter,
		cleanup: func(ctx context.Context) {
			stopWatch()
			waitWatch()
			// Drain mirror writes before the stores they read from are closed.
			newCleanup(ctx, adapter, remoteCloser, localCloser)()
		},
	}, nil
}

func closeQuietly(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Error("failed to close store", slog.String("error", err.Error()))
	}
}
