package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/skyvault-labs/s5vector/internal/events"
)

// ListFolderPaths returns every known folder path, sorted. This includes
// folders created explicitly that hold no vectors yet.
func (s *Store) ListFolderPaths(ctx context.Context, db string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(m.Folders))
	copy(paths, m.Folders)
	sort.Strings(paths)
	return paths, nil
}

// ListFolders returns every known folder with the count of vectors placed
// directly in it. Empty folders are included with a zero count.
func (s *Store) ListFolders(ctx context.Context, db string) ([]FolderInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(m.Folders))
	for _, path := range m.Folders {
		counts[path] = 0
	}

	vecs, err := s.loadAllVectors(ctx, m)
	if err != nil {
		return nil, err
	}
	for _, vec := range vecs {
		if folder := vec.FolderPath(); folder != "" {
			counts[folder]++
		}
	}

	infos := make([]FolderInfo, 0, len(counts))
	for path, count := range counts {
		infos = append(infos, FolderInfo{Path: path, VectorCount: count})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos, nil
}

// FolderStats aggregates the folder's subtree: vector count, stored bytes,
// and optionally min/max/avg of a numeric metadata key.
func (s *Store) FolderStats(ctx context.Context, db, folder, numericKey string) (*FolderStats, error) {
	folder = NormalizeFolderPath(folder)

	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return nil, err
	}
	if folder != "" && !m.hasFolder(folder) {
		return nil, fmt.Errorf("%w: %s in database %s", ErrFolderNotFound, folder, db)
	}

	vecs, err := s.loadAllVectors(ctx, m)
	if err != nil {
		return nil, err
	}

	stats := &FolderStats{Path: folder, NumericKey: numericKey}
	var sum float64
	var samples int
	for _, vec := range vecs {
		if !underFolder(vec.FolderPath(), folder) {
			continue
		}
		stats.VectorCount++
		stats.StorageSize += m.Vectors[vec.ID].Size

		if numericKey == "" {
			continue
		}
		val, err := strconv.ParseFloat(vec.Metadata[numericKey], 64)
		if err != nil {
			continue
		}
		if samples == 0 || val < stats.Min {
			stats.Min = val
		}
		if samples == 0 || val > stats.Max {
			stats.Max = val
		}
		sum += val
		samples++
	}
	stats.Samples = samples
	if samples > 0 {
		stats.Avg = sum / float64(samples)
	}
	return stats, nil
}

// CreateFolder records a folder path on the manifest so it exists even while
// empty. Creating an existing folder is a no-op.
func (s *Store) CreateFolder(ctx context.Context, db, folder string) error {
	folder = NormalizeFolderPath(folder)
	if folder == "" {
		return fmt.Errorf("folder path must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return err
	}
	if !m.addFolder(folder) {
		return nil
	}
	if err := s.commit(ctx, m); err != nil {
		return err
	}

	s.emit(events.TypeFolderCreated, db, map[string]string{"path": folder})
	return nil
}

// RenameFolder moves a folder and its entire subtree to a new path, rewriting
// the folderPath metadata of every affected vector and the manifest's folder
// list. The target path must not already exist.
func (s *Store) RenameFolder(ctx context.Context, db, oldPath, newPath string) (int, error) {
	oldPath = NormalizeFolderPath(oldPath)
	newPath = NormalizeFolderPath(newPath)
	if oldPath == "" || newPath == "" {
		return 0, fmt.Errorf("folder paths must not be empty")
	}
	if oldPath == newPath {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return 0, err
	}
	if !m.hasFolder(oldPath) {
		return 0, fmt.Errorf("%w: %s in database %s", ErrFolderNotFound, oldPath, db)
	}
	if m.hasFolder(newPath) {
		return 0, fmt.Errorf("%w: %s in database %s", ErrFolderExists, newPath, db)
	}

	moved, err := s.rebaseSubtree(ctx, m, oldPath, newPath)
	if err != nil {
		return 0, err
	}
	if err := s.commit(ctx, m); err != nil {
		return 0, err
	}

	if s.indexer != nil && len(moved) > 0 {
		if err := s.indexer.Index(ctx, db, moved); err != nil {
			return 0, fmt.Errorf("reindexing renamed folder in %s: %w", db, err)
		}
	}

	s.emit(events.TypeFolderRenamed, db, map[string]string{"from": oldPath, "to": newPath})
	return len(moved), nil
}

// rebaseSubtree rewrites every folder path under oldPath to live under
// newPath, on both the manifest folder list and the affected vectors.
func (s *Store) rebaseSubtree(ctx context.Context, m *Manifest, oldPath, newPath string) ([]Vector, error) {
	for i, f := range m.Folders {
		if underFolder(f, oldPath) {
			m.Folders[i] = rebaseFolder(f, oldPath, newPath)
		}
	}

	vecs, err := s.loadAllVectors(ctx, m)
	if err != nil {
		return nil, err
	}

	var moved []Vector
	for _, vec := range vecs {
		folder := vec.FolderPath()
		if !underFolder(folder, oldPath) || folder == "" {
			continue
		}
		if rebased := rebaseFolder(folder, oldPath, newPath); rebased == "" {
			delete(vec.Metadata, FolderPathKey)
		} else {
			vec.Metadata[FolderPathKey] = rebased
		}
		if err := s.writeVector(ctx, m, vec); err != nil {
			return nil, err
		}
		moved = append(moved, vec)
	}
	return moved, nil
}

// DeleteFolder deletes every vector in the folder's subtree, then removes the
// folder (and its descendants) from the manifest. Returns the deleted ids.
func (s *Store) DeleteFolder(ctx context.Context, db, folder string) ([]string, error) {
	folder = NormalizeFolderPath(folder)
	if folder == "" {
		return nil, fmt.Errorf("folder path must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return nil, err
	}
	if !m.hasFolder(folder) {
		return nil, fmt.Errorf("%w: %s in database %s", ErrFolderNotFound, folder, db)
	}

	vecs, err := s.loadAllVectors(ctx, m)
	if err != nil {
		return nil, err
	}

	// Vectors go first; only then is the path dropped from the manifest.
	var deleted []string
	for _, vec := range vecs {
		if !underFolder(vec.FolderPath(), folder) || vec.FolderPath() == "" {
			continue
		}
		if err := s.deleteVectorLocked(ctx, m, vec.ID); err != nil {
			return nil, err
		}
		deleted = append(deleted, vec.ID)
	}

	kept := m.Folders[:0]
	for _, f := range m.Folders {
		if !underFolder(f, folder) {
			kept = append(kept, f)
		}
	}
	m.Folders = kept

	if err := s.commit(ctx, m); err != nil {
		return nil, err
	}

	if s.indexer != nil && len(deleted) > 0 {
		if err := s.indexer.Remove(ctx, db, deleted); err != nil {
			return nil, fmt.Errorf("unindexing deleted folder in %s: %w", db, err)
		}
	}

	s.emit(events.TypeFolderDeleted, db, map[string]string{"path": folder})
	return deleted, nil
}

// MoveVector places a single vector into a different folder. An empty target
// moves it to the root.
func (s *Store) MoveVector(ctx context.Context, db, id, folder string) error {
	folder = NormalizeFolderPath(folder)

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return err
	}

	vec, err := s.loadVector(ctx, m, id)
	if err != nil {
		return err
	}

	from := vec.FolderPath()
	if from == folder {
		return nil
	}

	if vec.Metadata == nil {
		vec.Metadata = make(map[string]string)
	}
	if folder == "" {
		delete(vec.Metadata, FolderPathKey)
	} else {
		vec.Metadata[FolderPathKey] = folder
		if m.addFolder(folder) {
			s.emit(events.TypeFolderCreated, m.Name, map[string]string{"path": folder})
		}
	}

	if err := s.writeVector(ctx, m, *vec); err != nil {
		return err
	}
	if err := s.commit(ctx, m); err != nil {
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.Index(ctx, db, []Vector{*vec}); err != nil {
			return fmt.Errorf("reindexing moved vector %q in %s: %w", id, db, err)
		}
	}

	s.emit(events.TypeVectorMoved, db, map[string]string{"id": id, "from": from, "to": folder})
	return nil
}

// MoveFolder moves the source folder's subtree under the destination path.
// Unlike RenameFolder, the destination may already exist; contents merge.
func (s *Store) MoveFolder(ctx context.Context, db, src, dst string) (int, error) {
	src = NormalizeFolderPath(src)
	dst = NormalizeFolderPath(dst)
	if src == "" {
		return 0, fmt.Errorf("source folder path must not be empty")
	}
	if src == dst {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return 0, err
	}
	if !m.hasFolder(src) {
		return 0, fmt.Errorf("%w: %s in database %s", ErrFolderNotFound, src, db)
	}

	moved, err := s.rebaseSubtree(ctx, m, src, dst)
	if err != nil {
		return 0, err
	}

	// Merging can leave duplicate folder entries; keep the list unique.
	seen := make(map[string]bool, len(m.Folders))
	kept := m.Folders[:0]
	for _, f := range m.Folders {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		kept = append(kept, f)
	}
	m.Folders = kept

	if err := s.commit(ctx, m); err != nil {
		return 0, err
	}

	if s.indexer != nil && len(moved) > 0 {
		if err := s.indexer.Index(ctx, db, moved); err != nil {
			return 0, fmt.Errorf("reindexing moved folder in %s: %w", db, err)
		}
	}

	s.emit(events.TypeFolderMoved, db, map[string]string{"from": src, "to": dst})
	return len(moved), nil
}
