package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"google.golang.org/api/option"

	"github.com/rezkam/shoplist/internal/application/localcache"
	"github.com/rezkam/shoplist/internal/config"
	"github.com/rezkam/shoplist/internal/infrastructure/persistence/fs"
	"github.com/rezkam/shoplist/internal/infrastructure/persistence/gcs"
	"github.com/rezkam/shoplist/internal/infrastructure/persistence/memory"
	"github.com/rezkam/shoplist/internal/infrastructure/persistence/postgres"
	"github.com/rezkam/shoplist/internal/infrastructure/persistence/sqlite"
	"github.com/rezkam/shoplist/internal/remote"
)

// Default local store locations.
const (
	DefaultSQLitePath = "shoplist-data/shoplist.db"
	DefaultFSDir      = "shoplist-data"
)

// openLocal opens the local key/value store selected by cfg.
// The returned closer is nil when the store holds no resources.
func openLocal(ctx context.Context, cfg config.LocalConfig) (localcache.KV, io.Closer, error) {
	switch cfg.Backend {
	case config.LocalMemory:
		slog.WarnContext(ctx, "Using in-memory local store, data is lost on exit")
		return memory.NewStore(), nil, nil

	case config.LocalFS:
		dir := cfg.Path
		if dir == "" {
			dir = DefaultFSDir
		}
		store, err := fs.NewStore(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open fs store: %w", err)
		}
		slog.InfoContext(ctx, "local store initialized", "backend", config.LocalFS, "dir", dir)
		return store, nil, nil

	case "", config.LocalSQLite:
		path := cfg.Path
		if path == "" {
			path = DefaultSQLitePath
		}
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		slog.InfoContext(ctx, "local store initialized", "backend", config.LocalSQLite, "path", path)
		return store, store, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s", config.ErrUnknownBackend, cfg.Backend)
	}
}

// openRemote opens the remote mirror selected by cfg. A disabled remote
// yields remote.Disabled and a nil closer.
func openRemote(ctx context.Context, cfg config.RemoteConfig) (remote.Store, io.Closer, error) {
	switch cfg.Backend {
	case "", config.RemoteNone:
		slog.InfoContext(ctx, "remote mirror disabled")
		return remote.Disabled{}, nil, nil

	case config.RemotePostgres:
		store, err := postgres.Open(ctx, postgres.DBConfig{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create postgres store: %w", err)
		}
		slog.InfoContext(ctx, "remote mirror initialized",
			"backend", config.RemotePostgres,
			"url", maskPassword(cfg.Postgres.DSN))
		return store, store, nil

	case config.RemoteGCS:
		store, err := gcs.NewStore(ctx, cfg.GCS.Bucket, cfg.GCS.Prefix, gcsOptions(cfg.GCS)...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gcs store: %w", err)
		}
		slog.InfoContext(ctx, "remote mirror initialized",
			"backend", config.RemoteGCS,
			"bucket", cfg.GCS.Bucket,
			"prefix", cfg.GCS.Prefix)
		return store, store, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s", config.ErrUnknownBackend, cfg.Backend)
	}
}

func gcsOptions(cfg config.GCSConfig) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.WithoutAuth {
		opts = append(opts, option.WithoutAuthentication())
	}
	return opts
}

// maskPassword masks the password in a connection string for logging.
func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}
