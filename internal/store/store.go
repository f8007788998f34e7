// Package store implements the vector store: named databases persisted as
// manifest blobs in a content-addressed store, with a registry entry per
// database pointing at the latest manifest revision.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/skyvault-labs/s5vector/internal/cas"
	"github.com/skyvault-labs/s5vector/internal/events"
	"github.com/skyvault-labs/s5vector/internal/registry"
)

// Indexer receives vector mutations so a search index can stay in sync with
// the store. All methods are called with the store lock held.
type Indexer interface {
	EnsureDatabase(ctx context.Context, db string) error
	DropDatabase(db string) error
	Index(ctx context.Context, db string, vectors []Vector) error
	Remove(ctx context.Context, db string, ids []string) error
}

// Store manages vector databases on top of a blob store and a registry.
type Store struct {
	blobs cas.Store
	reg   registry.Registry

	mu      sync.RWMutex
	indexer Indexer
	hub     *events.Hub
}

// New creates a store over the given blob store and registry.
func New(blobs cas.Store, reg registry.Registry) *Store {
	return &Store{blobs: blobs, reg: reg}
}

// SetIndexer attaches a search indexer notified of vector mutations.
func (s *Store) SetIndexer(ix Indexer) {
	s.mu.Lock()
	s.indexer = ix
	s.mu.Unlock()
}

// SetHub attaches an event hub notified of store changes.
func (s *Store) SetHub(h *events.Hub) {
	s.mu.Lock()
	s.hub = h
	s.mu.Unlock()
}

func (s *Store) emit(eventType, db string, detail map[string]string) {
	if s.hub != nil {
		s.hub.Publish(events.Event{Type: eventType, Database: db, Detail: detail})
	}
}

// loadManifest resolves a database name through the registry to its manifest.
func (s *Store) loadManifest(ctx context.Context, name string) (*Manifest, error) {
	entry, err := s.reg.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}

	data, err := s.blobs.Get(ctx, entry.CID)
	if err != nil {
		return nil, fmt.Errorf("reading manifest for %s: %w", name, err)
	}

	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decoding manifest for %s: %w", name, err)
	}
	if m.Vectors == nil {
		m.Vectors = make(map[string]vectorRef)
	}
	return m, nil
}

// commit persists the manifest and swaps the registry pointer to it. This is
// the single commit point for every mutation: readers see either the old or
// the new manifest, never a partial write.
func (s *Store) commit(ctx context.Context, m *Manifest) error {
	m.UpdatedAt = Now()

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest for %s: %w", m.Name, err)
	}

	prev, err := s.reg.Get(ctx, m.Name)
	if err != nil {
		return err
	}

	cid, err := s.blobs.Put(ctx, data)
	if err != nil {
		return fmt.Errorf("writing manifest for %s: %w", m.Name, err)
	}
	if _, err := s.reg.Set(ctx, m.Name, cid); err != nil {
		return err
	}

	// The superseded manifest blob is unreachable once the pointer moved.
	// Delete releases one reference, so this balances even if the new
	// manifest hashed to the same CID.
	if prev != nil {
		if err := s.blobs.Delete(ctx, prev.CID); err != nil {
			return fmt.Errorf("pruning old manifest for %s: %w", m.Name, err)
		}
	}
	return nil
}

// CreateDatabase creates a new, empty database.
func (s *Store) CreateDatabase(ctx context.Context, name string, opts CreateOptions) (*DatabaseInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.reg.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseExists, name)
	}

	now := Now()
	m := &Manifest{
		Name:        name,
		Dimensions:  opts.Dimensions,
		Owner:       opts.Owner,
		Description: opts.Description,
		UseFolders:  opts.UseFolders,
		Vectors:     make(map[string]vectorRef),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.commit(ctx, m); err != nil {
		return nil, err
	}

	if s.indexer != nil {
		if err := s.indexer.EnsureDatabase(ctx, name); err != nil {
			return nil, fmt.Errorf("creating search index for %s: %w", name, err)
		}
	}

	s.emit(events.TypeDatabaseCreated, name, nil)
	info := m.info()
	return &info, nil
}

// GetDatabase returns the metadata of a database.
func (s *Store) GetDatabase(ctx context.Context, name string) (*DatabaseInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.loadManifest(ctx, name)
	if err != nil {
		return nil, err
	}
	info := m.info()
	return &info, nil
}

// GetDatabaseMetadata is an alias for GetDatabase kept for callers that
// address the operation by its metadata name.
func (s *Store) GetDatabaseMetadata(ctx context.Context, name string) (*DatabaseInfo, error) {
	return s.GetDatabase(ctx, name)
}

// ListDatabases returns all databases, newest first. Databases whose
// timestamps failed to decode sort last rather than crashing the comparator.
func (s *Store) ListDatabases(ctx context.Context) ([]DatabaseInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.reg.List(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]DatabaseInfo, 0, len(entries))
	for _, e := range entries {
		m, err := s.loadManifest(ctx, e.Name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, m.info())
	}

	sortDatabasesNewestFirst(infos)
	return infos, nil
}

// UpdateDatabase applies metadata changes to a database.
func (s *Store) UpdateDatabase(ctx context.Context, name string, opts UpdateOptions) (*DatabaseInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest(ctx, name)
	if err != nil {
		return nil, err
	}

	if opts.Description != nil {
		m.Description = *opts.Description
	}
	if opts.Owner != nil {
		m.Owner = *opts.Owner
	}

	if err := s.commit(ctx, m); err != nil {
		return nil, err
	}

	s.emit(events.TypeDatabaseUpdated, name, nil)
	info := m.info()
	return &info, nil
}

// UpdateDatabaseMetadata is an alias for UpdateDatabase.
func (s *Store) UpdateDatabaseMetadata(ctx context.Context, name string, opts UpdateOptions) (*DatabaseInfo, error) {
	return s.UpdateDatabase(ctx, name, opts)
}

// DeleteDatabase removes a database, its manifest and all vector blobs.
func (s *Store) DeleteDatabase(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest(ctx, name)
	if err != nil {
		return err
	}

	for _, ref := range m.Vectors {
		if err := s.blobs.Delete(ctx, ref.CID); err != nil {
			return fmt.Errorf("deleting vector blob in %s: %w", name, err)
		}
	}

	entry, err := s.reg.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := s.reg.Delete(ctx, name); err != nil {
		return err
	}
	if entry != nil {
		if err := s.blobs.Delete(ctx, entry.CID); err != nil {
			return fmt.Errorf("deleting manifest blob for %s: %w", name, err)
		}
	}

	if s.indexer != nil {
		if err := s.indexer.DropDatabase(name); err != nil {
			return fmt.Errorf("dropping search index for %s: %w", name, err)
		}
	}

	s.emit(events.TypeDatabaseDeleted, name, nil)
	return nil
}

// sortDatabasesNewestFirst orders databases by creation time, newest first,
// with name as tiebreaker. Zero times (from unparseable timestamps) end up
// last.
func sortDatabasesNewestFirst(infos []DatabaseInfo) {
	sort.Slice(infos, func(i, j int) bool { return databaseLess(infos[i], infos[j]) })
}

func databaseLess(a, b DatabaseInfo) bool {
	at, bt := a.CreatedAt.Time, b.CreatedAt.Time
	if at.IsZero() != bt.IsZero() {
		return !at.IsZero()
	}
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return a.Name < b.Name
}
