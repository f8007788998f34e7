package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/skyvault-labs/s5vector/internal/events"
)

// PutVector adds or replaces a single vector.
func (s *Store) PutVector(ctx context.Context, db string, vec Vector) (*Vector, error) {
	vecs, err := s.PutVectors(ctx, db, []Vector{vec})
	if err != nil {
		return nil, err
	}
	return &vecs[0], nil
}

// PutVectors adds or replaces a batch of vectors. Vectors without an id get
// one assigned. Writing into an unknown folder implicitly records the folder
// on the manifest.
func (s *Store) PutVectors(ctx context.Context, db string, vecs []Vector) ([]Vector, error) {
	if len(vecs) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return nil, err
	}

	stored := make([]Vector, 0, len(vecs))
	for _, vec := range vecs {
		if m.Dimensions > 0 && len(vec.Embedding) != m.Dimensions {
			return nil, fmt.Errorf("%w: database %s expects %d dimensions, vector %q has %d",
				ErrDimensionMismatch, db, m.Dimensions, vec.ID, len(vec.Embedding))
		}

		if vec.ID == "" {
			vec.ID = uuid.NewString()
		}
		if vec.Metadata != nil {
			if folder := NormalizeFolderPath(vec.Metadata[FolderPathKey]); folder == "" {
				delete(vec.Metadata, FolderPathKey)
			} else {
				vec.Metadata[FolderPathKey] = folder
			}
		}
		if folder := vec.FolderPath(); folder != "" && m.addFolder(folder) {
			s.emit(events.TypeFolderCreated, db, map[string]string{"path": folder})
		}

		if err := s.writeVector(ctx, m, vec); err != nil {
			return nil, err
		}
		stored = append(stored, vec)
	}

	if err := s.commit(ctx, m); err != nil {
		return nil, err
	}

	if s.indexer != nil {
		if err := s.indexer.Index(ctx, db, stored); err != nil {
			return nil, fmt.Errorf("indexing vectors in %s: %w", db, err)
		}
	}

	s.emit(events.TypeVectorPut, db, map[string]string{"count": fmt.Sprint(len(stored))})
	return stored, nil
}

// writeVector stores the vector blob and updates the manifest reference.
// The blob store is shared by every database and counts references, so a
// replaced reference is released unconditionally; byte-identical vectors held
// by other databases keep the blob alive.
func (s *Store) writeVector(ctx context.Context, m *Manifest, vec Vector) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("encoding vector %q: %w", vec.ID, err)
	}

	cid, err := s.blobs.Put(ctx, data)
	if err != nil {
		return fmt.Errorf("writing vector %q: %w", vec.ID, err)
	}

	if old, ok := m.Vectors[vec.ID]; ok {
		m.StorageSize -= old.Size
		if err := s.blobs.Delete(ctx, old.CID); err != nil {
			return fmt.Errorf("releasing replaced vector %q: %w", vec.ID, err)
		}
	}

	m.Vectors[vec.ID] = vectorRef{CID: cid, Size: int64(len(data))}
	m.StorageSize += int64(len(data))
	return nil
}

func (s *Store) loadVector(ctx context.Context, m *Manifest, id string) (*Vector, error) {
	ref, ok := m.Vectors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s in database %s", ErrVectorNotFound, id, m.Name)
	}

	data, err := s.blobs.Get(ctx, ref.CID)
	if err != nil {
		return nil, fmt.Errorf("reading vector %q in %s: %w", id, m.Name, err)
	}

	vec := &Vector{}
	if err := json.Unmarshal(data, vec); err != nil {
		return nil, fmt.Errorf("decoding vector %q in %s: %w", id, m.Name, err)
	}
	return vec, nil
}

// GetVector returns a single vector by id.
func (s *Store) GetVector(ctx context.Context, db, id string) (*Vector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return nil, err
	}
	return s.loadVector(ctx, m, id)
}

// GetVectors returns the vectors for the given ids, in request order.
// Nonexistent ids are skipped, not errors.
func (s *Store) GetVectors(ctx context.Context, db string, ids []string) ([]Vector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return nil, err
	}

	vecs := make([]Vector, 0, len(ids))
	for _, id := range ids {
		if _, ok := m.Vectors[id]; !ok {
			continue
		}
		vec, err := s.loadVector(ctx, m, id)
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, *vec)
	}
	return vecs, nil
}

// ListVectors returns every vector in the database, ordered by id. An empty
// database yields an empty slice.
func (s *Store) ListVectors(ctx context.Context, db string) ([]Vector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return nil, err
	}
	return s.loadAllVectors(ctx, m)
}

func (s *Store) loadAllVectors(ctx context.Context, m *Manifest) ([]Vector, error) {
	ids := make([]string, 0, len(m.Vectors))
	for id := range m.Vectors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	vecs := make([]Vector, 0, len(ids))
	for _, id := range ids {
		vec, err := s.loadVector(ctx, m, id)
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, *vec)
	}
	return vecs, nil
}

// DeleteVector removes a single vector by id.
func (s *Store) DeleteVector(ctx context.Context, db, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return err
	}

	if err := s.deleteVectorLocked(ctx, m, id); err != nil {
		return err
	}
	if err := s.commit(ctx, m); err != nil {
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.Remove(ctx, db, []string{id}); err != nil {
			return fmt.Errorf("unindexing vector %q in %s: %w", id, db, err)
		}
	}

	s.emit(events.TypeVectorDeleted, db, map[string]string{"id": id})
	return nil
}

func (s *Store) deleteVectorLocked(ctx context.Context, m *Manifest, id string) error {
	ref, ok := m.Vectors[id]
	if !ok {
		return fmt.Errorf("%w: %s in database %s", ErrVectorNotFound, id, m.Name)
	}

	delete(m.Vectors, id)
	m.StorageSize -= ref.Size

	if err := s.blobs.Delete(ctx, ref.CID); err != nil {
		return fmt.Errorf("deleting vector blob %q: %w", id, err)
	}
	return nil
}

// DeleteVectors removes every vector matching the filter and returns the
// deleted ids.
func (s *Store) DeleteVectors(ctx context.Context, db string, filter Filter) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return nil, err
	}

	vecs, err := s.loadAllVectors(ctx, m)
	if err != nil {
		return nil, err
	}

	var deleted []string
	for _, vec := range vecs {
		match, err := filter.matches(vec)
		if err != nil {
			return nil, err
		}
		if !match {
			continue
		}
		if err := s.deleteVectorLocked(ctx, m, vec.ID); err != nil {
			return nil, err
		}
		deleted = append(deleted, vec.ID)
	}

	if len(deleted) == 0 {
		return nil, nil
	}

	if err := s.commit(ctx, m); err != nil {
		return nil, err
	}

	if s.indexer != nil {
		if err := s.indexer.Remove(ctx, db, deleted); err != nil {
			return nil, fmt.Errorf("unindexing vectors in %s: %w", db, err)
		}
	}

	s.emit(events.TypeVectorDeleted, db, map[string]string{"count": fmt.Sprint(len(deleted))})
	return deleted, nil
}

// matches reports whether a vector satisfies the filter: every metadata pair
// must match exactly, and the folder path must match the glob if one is set.
func (f Filter) matches(vec Vector) (bool, error) {
	for key, want := range f.Metadata {
		if vec.Metadata[key] != want {
			return false, nil
		}
	}

	if f.FolderPattern != "" {
		ok, err := doublestar.Match(f.FolderPattern, vec.FolderPath())
		if err != nil {
			return false, fmt.Errorf("invalid folder pattern %q: %w", f.FolderPattern, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
