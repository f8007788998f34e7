package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/skyvault-labs/s5vector/internal/events"
)

func TestCreateFolderAndListEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1, UseFolders: true})

	if err := s.CreateFolder(ctx, "docs", "drafts"); err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	// Idempotent.
	if err := s.CreateFolder(ctx, "docs", "drafts"); err != nil {
		t.Fatalf("CreateFolder again: %v", err)
	}

	folders, err := s.ListFolders(ctx, "docs")
	if err != nil {
		t.Fatalf("ListFolders: %v", err)
	}
	if len(folders) != 1 || folders[0].Path != "drafts" || folders[0].VectorCount != 0 {
		t.Errorf("folders = %v, want one empty drafts folder", folders)
	}
}

func TestListFoldersCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1, UseFolders: true})

	seedVectors(t, s, "docs",
		Vector{ID: "a", Embedding: []float32{1}, Metadata: map[string]string{FolderPathKey: "guides"}},
		Vector{ID: "b", Embedding: []float32{2}, Metadata: map[string]string{FolderPathKey: "guides"}},
		Vector{ID: "c", Embedding: []float32{3}, Metadata: map[string]string{FolderPathKey: "guides/deep"}},
		Vector{ID: "d", Embedding: []float32{4}},
	)
	if err := s.CreateFolder(ctx, "docs", "empty"); err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}

	folders, err := s.ListFolders(ctx, "docs")
	if err != nil {
		t.Fatalf("ListFolders: %v", err)
	}

	want := map[string]int{"empty": 0, "guides": 2, "guides/deep": 1}
	if len(folders) != len(want) {
		t.Fatalf("got %d folders %v, want %d", len(folders), folders, len(want))
	}
	for _, f := range folders {
		if count, ok := want[f.Path]; !ok || count != f.VectorCount {
			t.Errorf("folder %s: count %d, want %d", f.Path, f.VectorCount, count)
		}
	}
}

func TestFolderStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1, UseFolders: true})

	seedVectors(t, s, "docs",
		Vector{ID: "a", Embedding: []float32{1}, Metadata: map[string]string{FolderPathKey: "guides", "score": "2"}},
		Vector{ID: "b", Embedding: []float32{2}, Metadata: map[string]string{FolderPathKey: "guides/deep", "score": "4"}},
		Vector{ID: "c", Embedding: []float32{3}, Metadata: map[string]string{FolderPathKey: "other", "score": "100"}},
		Vector{ID: "d", Embedding: []float32{4}, Metadata: map[string]string{FolderPathKey: "guides", "score": "not-a-number"}},
	)

	stats, err := s.FolderStats(ctx, "docs", "guides", "score")
	if err != nil {
		t.Fatalf("FolderStats: %v", err)
	}
	if stats.VectorCount != 3 {
		t.Errorf("subtree count = %d, want 3", stats.VectorCount)
	}
	if stats.Min != 2 || stats.Max != 4 || stats.Avg != 3 {
		t.Errorf("aggregates = min %g max %g avg %g, want 2/4/3", stats.Min, stats.Max, stats.Avg)
	}
	if stats.Samples != 2 {
		t.Errorf("samples = %d, want 2 (non-numeric values are skipped)", stats.Samples)
	}
	if stats.StorageSize <= 0 {
		t.Errorf("storage size = %d, want positive", stats.StorageSize)
	}

	// The whole database when no folder is given.
	stats, err = s.FolderStats(ctx, "docs", "", "")
	if err != nil {
		t.Fatalf("FolderStats (root): %v", err)
	}
	if stats.VectorCount != 4 {
		t.Errorf("root count = %d, want 4", stats.VectorCount)
	}

	if _, err := s.FolderStats(ctx, "docs", "missing", ""); !errors.Is(err, ErrFolderNotFound) {
		t.Errorf("got %v, want ErrFolderNotFound", err)
	}
}

func TestFolderStatsZeroAggregates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1, UseFolders: true})

	seedVectors(t, s, "docs",
		Vector{ID: "a", Embedding: []float32{1}, Metadata: map[string]string{FolderPathKey: "readings", "delta": "-1"}},
		Vector{ID: "b", Embedding: []float32{2}, Metadata: map[string]string{FolderPathKey: "readings", "delta": "1"}},
	)

	stats, err := s.FolderStats(ctx, "docs", "readings", "delta")
	if err != nil {
		t.Fatalf("FolderStats: %v", err)
	}
	if stats.Min != -1 || stats.Max != 1 || stats.Avg != 0 {
		t.Errorf("aggregates = min %g max %g avg %g, want -1/1/0", stats.Min, stats.Max, stats.Avg)
	}

	// A zero average is a real result and must survive serialization.
	data, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"avg":0`, `"min":-1`, `"max":1`, `"samples":2`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("serialized stats %s missing %s", data, want)
		}
	}
}

func TestRenameFolderCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1, UseFolders: true})

	seedVectors(t, s, "docs",
		Vector{ID: "a", Embedding: []float32{1}, Metadata: map[string]string{FolderPathKey: "old"}},
		Vector{ID: "b", Embedding: []float32{2}, Metadata: map[string]string{FolderPathKey: "old/deep"}},
		Vector{ID: "c", Embedding: []float32{3}, Metadata: map[string]string{FolderPathKey: "unrelated"}},
	)

	moved, err := s.RenameFolder(ctx, "docs", "old", "fresh")
	if err != nil {
		t.Fatalf("RenameFolder: %v", err)
	}
	if moved != 2 {
		t.Errorf("moved = %d, want 2", moved)
	}

	paths, err := s.ListFolderPaths(ctx, "docs")
	if err != nil {
		t.Fatalf("ListFolderPaths: %v", err)
	}
	want := []string{"fresh", "fresh/deep", "unrelated"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], want[i])
		}
	}

	vec, err := s.GetVector(ctx, "docs", "b")
	if err != nil {
		t.Fatalf("GetVector: %v", err)
	}
	if vec.FolderPath() != "fresh/deep" {
		t.Errorf("vector b folder = %q, want fresh/deep", vec.FolderPath())
	}
}

func TestRenameFolderTargetExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1, UseFolders: true})

	for _, f := range []string{"one", "two"} {
		if err := s.CreateFolder(ctx, "docs", f); err != nil {
			t.Fatalf("CreateFolder(%s): %v", f, err)
		}
	}

	if _, err := s.RenameFolder(ctx, "docs", "one", "two"); !errors.Is(err, ErrFolderExists) {
		t.Errorf("got %v, want ErrFolderExists", err)
	}
	if _, err := s.RenameFolder(ctx, "docs", "missing", "three"); !errors.Is(err, ErrFolderNotFound) {
		t.Errorf("got %v, want ErrFolderNotFound", err)
	}
}

func TestDeleteFolderCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1, UseFolders: true})

	seedVectors(t, s, "docs",
		Vector{ID: "a", Embedding: []float32{1}, Metadata: map[string]string{FolderPathKey: "gone"}},
		Vector{ID: "b", Embedding: []float32{2}, Metadata: map[string]string{FolderPathKey: "gone/deep"}},
		Vector{ID: "c", Embedding: []float32{3}, Metadata: map[string]string{FolderPathKey: "kept"}},
		Vector{ID: "d", Embedding: []float32{4}},
	)

	deleted, err := s.DeleteFolder(ctx, "docs", "gone")
	if err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}
	if len(deleted) != 2 {
		t.Errorf("deleted = %v, want two ids", deleted)
	}

	paths, err := s.ListFolderPaths(ctx, "docs")
	if err != nil {
		t.Fatalf("ListFolderPaths: %v", err)
	}
	if len(paths) != 1 || paths[0] != "kept" {
		t.Errorf("paths = %v, want [kept]", paths)
	}

	// Root vectors survive a folder delete.
	if _, err := s.GetVector(ctx, "docs", "d"); err != nil {
		t.Errorf("root vector gone: %v", err)
	}
	if _, err := s.GetVector(ctx, "docs", "a"); !errors.Is(err, ErrVectorNotFound) {
		t.Errorf("got %v, want ErrVectorNotFound for deleted vector", err)
	}
}

func TestMoveVector(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1, UseFolders: true})

	seedVectors(t, s, "docs", Vector{ID: "a", Embedding: []float32{1}})

	if err := s.MoveVector(ctx, "docs", "a", "inbox"); err != nil {
		t.Fatalf("MoveVector: %v", err)
	}
	vec, err := s.GetVector(ctx, "docs", "a")
	if err != nil {
		t.Fatalf("GetVector: %v", err)
	}
	if vec.FolderPath() != "inbox" {
		t.Errorf("folder = %q, want inbox", vec.FolderPath())
	}

	paths, err := s.ListFolderPaths(ctx, "docs")
	if err != nil {
		t.Fatalf("ListFolderPaths: %v", err)
	}
	if len(paths) != 1 || paths[0] != "inbox" {
		t.Errorf("paths = %v, want [inbox]", paths)
	}

	// Back to the root drops the metadata key entirely.
	if err := s.MoveVector(ctx, "docs", "a", ""); err != nil {
		t.Fatalf("MoveVector to root: %v", err)
	}
	vec, err = s.GetVector(ctx, "docs", "a")
	if err != nil {
		t.Fatalf("GetVector: %v", err)
	}
	if _, ok := vec.Metadata[FolderPathKey]; ok {
		t.Errorf("metadata still carries %s = %q", FolderPathKey, vec.Metadata[FolderPathKey])
	}
}

func TestMoveVectorAnnouncesNewFolder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1, UseFolders: true})
	seedVectors(t, s, "docs", Vector{ID: "a", Embedding: []float32{1}})

	hub := events.NewHub()
	s.SetHub(hub)
	ch, cancel := hub.Subscribe()
	defer cancel()

	if err := s.MoveVector(ctx, "docs", "a", "inbox"); err != nil {
		t.Fatalf("MoveVector: %v", err)
	}

	var types []string
	for {
		select {
		case e := <-ch:
			types = append(types, e.Type)
			if e.Type == events.TypeFolderCreated && e.Detail["path"] != "inbox" {
				t.Errorf("folder.created path = %q, want inbox", e.Detail["path"])
			}
			continue
		default:
		}
		break
	}

	var sawFolder, sawMove bool
	for _, typ := range types {
		switch typ {
		case events.TypeFolderCreated:
			sawFolder = true
		case events.TypeVectorMoved:
			sawMove = true
		}
	}
	if !sawFolder {
		t.Errorf("events %v missing folder.created for the implicit folder", types)
	}
	if !sawMove {
		t.Errorf("events %v missing vector.moved", types)
	}
}

func TestMoveFolderMerges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1, UseFolders: true})

	seedVectors(t, s, "docs",
		Vector{ID: "a", Embedding: []float32{1}, Metadata: map[string]string{FolderPathKey: "src"}},
		Vector{ID: "b", Embedding: []float32{2}, Metadata: map[string]string{FolderPathKey: "dst"}},
	)

	moved, err := s.MoveFolder(ctx, "docs", "src", "dst")
	if err != nil {
		t.Fatalf("MoveFolder: %v", err)
	}
	if moved != 1 {
		t.Errorf("moved = %d, want 1", moved)
	}

	paths, err := s.ListFolderPaths(ctx, "docs")
	if err != nil {
		t.Fatalf("ListFolderPaths: %v", err)
	}
	if len(paths) != 1 || paths[0] != "dst" {
		t.Errorf("paths = %v, want [dst]", paths)
	}

	vec, err := s.GetVector(ctx, "docs", "a")
	if err != nil {
		t.Fatalf("GetVector: %v", err)
	}
	if vec.FolderPath() != "dst" {
		t.Errorf("folder = %q, want dst", vec.FolderPath())
	}
}

func TestMoveFolderToRoot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1, UseFolders: true})

	seedVectors(t, s, "docs",
		Vector{ID: "a", Embedding: []float32{1}, Metadata: map[string]string{FolderPathKey: "attic/box"}},
	)

	if _, err := s.MoveFolder(ctx, "docs", "attic/box", ""); err != nil {
		t.Fatalf("MoveFolder to root: %v", err)
	}

	vec, err := s.GetVector(ctx, "docs", "a")
	if err != nil {
		t.Fatalf("GetVector: %v", err)
	}
	if got := vec.FolderPath(); got != "" {
		t.Errorf("folder = %q, want root", got)
	}
}

func TestRebaseFolder(t *testing.T) {
	cases := []struct {
		path, oldPrefix, newPrefix, want string
	}{
		{"a", "a", "b", "b"},
		{"a/x", "a", "b", "b/x"},
		{"a/x/y", "a", "b/c", "b/c/x/y"},
		{"a/x", "a", "", "x"},
		{"a", "a", "", ""},
	}
	for _, tc := range cases {
		if got := rebaseFolder(tc.path, tc.oldPrefix, tc.newPrefix); got != tc.want {
			t.Errorf("rebaseFolder(%q, %q, %q) = %q, want %q",
				tc.path, tc.oldPrefix, tc.newPrefix, got, tc.want)
		}
	}
}
