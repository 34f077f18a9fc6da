package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"workpulse/internal/access"
	"workpulse/internal/config"
	"workpulse/internal/entrylog"
	"workpulse/internal/metrics"
	"workpulse/internal/report"
	"workpulse/internal/repository"
)

// backend is the storage selected by storage.driver. Both drivers serve
// entries and the directory from the same store.
type backend interface {
	report.EntrySource
	access.Directory
	UpsertEntries(ctx context.Context, entries []metrics.Entry) (int, error)
	PutRoster(ctx context.Context, roster access.Roster) error
	// Flush persists pending writes; Close releases the store.
	Flush() error
	Close() error
}

type sqliteBackend struct {
	*repository.Store
}

func (sqliteBackend) Flush() error { return nil }

type jsonlBackend struct {
	*entrylog.Store
	dir string
}

func (b jsonlBackend) Flush() error { return b.Save(b.dir) }
func (jsonlBackend) Close() error   { return nil }

func openBackend(ctx context.Context, cfg *config.AppConfig) (backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverJSONL:
		if err := os.MkdirAll(cfg.Storage.JSONLDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		store := entrylog.NewStore()
		if err := store.Load(ctx, cfg.Storage.JSONLDir); err != nil {
			return nil, err
		}
		log.Debug().Str("dir", cfg.Storage.JSONLDir).Msg("Using JSONL store")
		return jsonlBackend{Store: store, dir: cfg.Storage.JSONLDir}, nil

	case config.DriverSQLite:
		store, err := repository.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("path", cfg.Storage.SQLitePath).Msg("Using SQLite store")
		return sqliteBackend{Store: store}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func newEngine(b backend, cfg *config.AppConfig) (*report.Engine, error) {
	return report.NewEngine(b, b, report.Options{
		Workers:       cfg.Report.Workers,
		CacheSize:     cfg.Report.CacheSize,
		DefaultTarget: cfg.Report.DefaultTarget,
		Retry:         cfg.Retry.RetryPolicy(),
	})
}
