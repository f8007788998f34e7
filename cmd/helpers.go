package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/skyvault-labs/s5vector/internal/cas"
	"github.com/skyvault-labs/s5vector/internal/config"
	"github.com/skyvault-labs/s5vector/internal/db"
	"github.com/skyvault-labs/s5vector/internal/events"
	"github.com/skyvault-labs/s5vector/internal/registry"
	"github.com/skyvault-labs/s5vector/internal/search"
	"github.com/skyvault-labs/s5vector/internal/store"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `s5vector init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// storeEnv bundles the opened store with its search index and event hub.
type storeEnv struct {
	Store *store.Store
	Index *search.Index
	Hub   *events.Hub

	closeFn func() error
}

func (e *storeEnv) Close() error {
	if e.closeFn != nil {
		return e.closeFn()
	}
	return nil
}

// openStore builds the store stack for the configured backend and rebuilds
// the search index from it.
func openStore(ctx context.Context, cfg *config.Config) (*storeEnv, error) {
	var (
		blobs   cas.Store
		reg     registry.Registry
		closeFn func() error
	)

	switch cfg.Backend {
	case config.BackendMemory:
		blobs = cas.NewMemory()
		reg = registry.NewMemory()
	default:
		database, err := db.Open(filepath.Join(cfg.DataDir, "s5vector.db"))
		if err != nil {
			return nil, err
		}
		blobs = cas.NewSQLite(database)
		reg = registry.NewSQLite(database)
		closeFn = database.Close
	}

	st := store.New(blobs, reg)

	hub := events.NewHub()
	st.SetHub(hub)

	ix := search.NewIndex()
	if err := ix.Rebuild(ctx, st); err != nil {
		return nil, fmt.Errorf("rebuilding search index: %w", err)
	}
	st.SetIndexer(ix)

	return &storeEnv{Store: st, Index: ix, Hub: hub, closeFn: closeFn}, nil
}
