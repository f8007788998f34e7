// Package manager is the thin session-facing layer for clients that hold a
// database open across many calls, such as a web UI or an interactive shell.
// It keeps a current-database cursor and forwards every call to the store.
// The one-shot CLI and the HTTP API address databases by name per call and
// talk to the store directly.
package manager

import (
	"context"
	"errors"
	"sync"

	"github.com/skyvault-labs/s5vector/internal/search"
	"github.com/skyvault-labs/s5vector/internal/store"
)

// ErrNoDatabaseSelected is returned when a vector or folder operation runs
// before Use selected a database.
var ErrNoDatabaseSelected = errors.New("no database selected")

// Manager proxies a session's calls onto the store.
type Manager struct {
	store *store.Store
	index *search.Index

	mu      sync.RWMutex
	current string
}

// New creates a manager over the given store and search index.
func New(st *store.Store, ix *search.Index) *Manager {
	return &Manager{store: st, index: ix}
}

// Use selects the database subsequent calls operate on.
func (m *Manager) Use(name string) {
	m.mu.Lock()
	m.current = name
	m.mu.Unlock()
}

// Current returns the selected database name, or "".
func (m *Manager) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) database() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == "" {
		return "", ErrNoDatabaseSelected
	}
	return m.current, nil
}

// EnsureDatabase selects the named database, creating it first if needed.
func (m *Manager) EnsureDatabase(ctx context.Context, name string, opts store.CreateOptions) error {
	if _, err := m.store.GetDatabase(ctx, name); err != nil {
		if !errors.Is(err, store.ErrDatabaseNotFound) {
			return err
		}
		if _, err := m.store.CreateDatabase(ctx, name, opts); err != nil {
			return err
		}
	}
	m.Use(name)
	return nil
}

// ListDatabases forwards to the store.
func (m *Manager) ListDatabases(ctx context.Context) ([]store.DatabaseInfo, error) {
	return m.store.ListDatabases(ctx)
}

// PutVectors adds vectors to the selected database.
func (m *Manager) PutVectors(ctx context.Context, vecs []store.Vector) ([]store.Vector, error) {
	db, err := m.database()
	if err != nil {
		return nil, err
	}
	return m.store.PutVectors(ctx, db, vecs)
}

// GetVectors fetches vectors by id from the selected database.
func (m *Manager) GetVectors(ctx context.Context, ids []string) ([]store.Vector, error) {
	db, err := m.database()
	if err != nil {
		return nil, err
	}
	return m.store.GetVectors(ctx, db, ids)
}

// ListVectors lists the selected database's vectors.
func (m *Manager) ListVectors(ctx context.Context) ([]store.Vector, error) {
	db, err := m.database()
	if err != nil {
		return nil, err
	}
	return m.store.ListVectors(ctx, db)
}

// DeleteVector removes a vector from the selected database.
func (m *Manager) DeleteVector(ctx context.Context, id string) error {
	db, err := m.database()
	if err != nil {
		return err
	}
	return m.store.DeleteVector(ctx, db, id)
}

// ListFolders lists the selected database's folders with counts.
func (m *Manager) ListFolders(ctx context.Context) ([]store.FolderInfo, error) {
	db, err := m.database()
	if err != nil {
		return nil, err
	}
	return m.store.ListFolders(ctx, db)
}

// MoveVector moves a vector to a folder in the selected database.
func (m *Manager) MoveVector(ctx context.Context, id, folder string) error {
	db, err := m.database()
	if err != nil {
		return err
	}
	return m.store.MoveVector(ctx, db, id, folder)
}

// Search runs a similarity query against the selected database.
func (m *Manager) Search(ctx context.Context, embedding []float32, limit int, opts search.Options) ([]search.Result, error) {
	db, err := m.database()
	if err != nil {
		return nil, err
	}
	return m.index.Search(ctx, db, embedding, limit, opts)
}
