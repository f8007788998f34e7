package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/skyvault-labs/s5vector/internal/cas"
	"github.com/skyvault-labs/s5vector/internal/registry"
)

func seedVectors(t *testing.T, s *Store, db string, vecs ...Vector) {
	t.Helper()
	if _, err := s.PutVectors(context.Background(), db, vecs); err != nil {
		t.Fatalf("PutVectors: %v", err)
	}
}

func TestPutVectorAssignsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 2})

	vec, err := s.PutVector(ctx, "docs", Vector{Embedding: []float32{1, 2}})
	if err != nil {
		t.Fatalf("PutVector: %v", err)
	}
	if vec.ID == "" {
		t.Error("expected an assigned id")
	}

	got, err := s.GetVector(ctx, "docs", vec.ID)
	if err != nil {
		t.Fatalf("GetVector: %v", err)
	}
	if got.Embedding[0] != 1 || got.Embedding[1] != 2 {
		t.Errorf("embedding roundtrip: got %v", got.Embedding)
	}
}

func TestPutVectorDimensionMismatch(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 3})

	_, err := s.PutVector(context.Background(), "docs", Vector{ID: "a", Embedding: []float32{1, 2}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestPutVectorReplace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 2})

	seedVectors(t, s, "docs", Vector{ID: "a", Embedding: []float32{1, 2}})
	seedVectors(t, s, "docs", Vector{ID: "a", Embedding: []float32{3, 4}})

	got, err := s.GetVector(ctx, "docs", "a")
	if err != nil {
		t.Fatalf("GetVector: %v", err)
	}
	if got.Embedding[0] != 3 {
		t.Errorf("replace did not take: got %v", got.Embedding)
	}

	info, err := s.GetDatabase(ctx, "docs")
	if err != nil {
		t.Fatalf("GetDatabase: %v", err)
	}
	if info.VectorCount != 1 {
		t.Errorf("vector count = %d, want 1 after replace", info.VectorCount)
	}
}

func TestPutVectorCreatesFolderImplicitly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 2, UseFolders: true})

	seedVectors(t, s, "docs", Vector{
		ID:        "a",
		Embedding: []float32{1, 2},
		Metadata:  map[string]string{FolderPathKey: "/guides/intro/"},
	})

	paths, err := s.ListFolderPaths(ctx, "docs")
	if err != nil {
		t.Fatalf("ListFolderPaths: %v", err)
	}
	if len(paths) != 1 || paths[0] != "guides/intro" {
		t.Errorf("paths = %v, want [guides/intro]", paths)
	}

	got, err := s.GetVector(ctx, "docs", "a")
	if err != nil {
		t.Fatalf("GetVector: %v", err)
	}
	if got.FolderPath() != "guides/intro" {
		t.Errorf("stored folder path = %q, want normalized form", got.FolderPath())
	}
}

func TestGetVectorsSkipsMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 2})
	seedVectors(t, s, "docs",
		Vector{ID: "a", Embedding: []float32{1, 2}},
		Vector{ID: "b", Embedding: []float32{3, 4}},
	)

	vecs, err := s.GetVectors(ctx, "docs", []string{"a", "nope", "b"})
	if err != nil {
		t.Fatalf("GetVectors: %v", err)
	}
	if len(vecs) != 2 || vecs[0].ID != "a" || vecs[1].ID != "b" {
		t.Errorf("got %d vectors %v, want a and b in order", len(vecs), vecs)
	}
}

func TestListVectorsSorted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1})
	seedVectors(t, s, "docs",
		Vector{ID: "c", Embedding: []float32{3}},
		Vector{ID: "a", Embedding: []float32{1}},
		Vector{ID: "b", Embedding: []float32{2}},
	)

	vecs, err := s.ListVectors(ctx, "docs")
	if err != nil {
		t.Fatalf("ListVectors: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if vecs[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, vecs[i].ID, id)
		}
	}
}

func TestDeleteVector(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1})
	seedVectors(t, s, "docs", Vector{ID: "a", Embedding: []float32{1}})

	if err := s.DeleteVector(ctx, "docs", "a"); err != nil {
		t.Fatalf("DeleteVector: %v", err)
	}
	if _, err := s.GetVector(ctx, "docs", "a"); !errors.Is(err, ErrVectorNotFound) {
		t.Errorf("after delete: got %v, want ErrVectorNotFound", err)
	}
	if err := s.DeleteVector(ctx, "docs", "a"); !errors.Is(err, ErrVectorNotFound) {
		t.Errorf("double delete: got %v, want ErrVectorNotFound", err)
	}

	info, err := s.GetDatabase(ctx, "docs")
	if err != nil {
		t.Fatalf("GetDatabase: %v", err)
	}
	if info.StorageSize != 0 {
		t.Errorf("storage size = %d after deleting the only vector, want 0", info.StorageSize)
	}
}

func TestRewriteKeepsBlobReadable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1})

	// Rewriting a vector with identical content reuses the CID; the
	// replaced reference must be released without losing the blob.
	seedVectors(t, s, "docs", Vector{ID: "a", Embedding: []float32{1}})
	seedVectors(t, s, "docs", Vector{ID: "a", Embedding: []float32{1}})

	got, err := s.GetVector(ctx, "docs", "a")
	if err != nil {
		t.Fatalf("GetVector after rewrite: %v", err)
	}
	if got.Embedding[0] != 1 {
		t.Errorf("embedding = %v", got.Embedding)
	}
}

func TestDeleteVectorSharedAcrossDatabases(t *testing.T) {
	blobs := cas.NewMemory()
	s := New(blobs, registry.NewMemory())
	ctx := context.Background()

	mustCreate(t, s, "one", CreateOptions{Dimensions: 1})
	mustCreate(t, s, "two", CreateOptions{Dimensions: 1})

	// Byte-identical vectors in different databases share a single CID in
	// the common blob store, as when one export is imported twice.
	vec := Vector{ID: "a", Embedding: []float32{1}}
	seedVectors(t, s, "one", vec)
	seedVectors(t, s, "two", vec)

	if err := s.DeleteVector(ctx, "one", "a"); err != nil {
		t.Fatalf("DeleteVector: %v", err)
	}

	got, err := s.GetVector(ctx, "two", "a")
	if err != nil {
		t.Fatalf("GetVector in the other database: %v", err)
	}
	if got.Embedding[0] != 1 {
		t.Errorf("embedding = %v", got.Embedding)
	}

	// The last holder going away releases the blob for real.
	if err := s.DeleteDatabase(ctx, "two"); err != nil {
		t.Fatalf("DeleteDatabase: %v", err)
	}
	data, err := json.Marshal(vec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if ok, _ := blobs.Has(ctx, cas.SumCID(data)); ok {
		t.Error("vector blob leaked after the last database dropped it")
	}
}

func TestDeleteDatabaseKeepsSharedBlobs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, "one", CreateOptions{Dimensions: 1})
	mustCreate(t, s, "two", CreateOptions{Dimensions: 1})

	vec := Vector{ID: "a", Embedding: []float32{1}}
	seedVectors(t, s, "one", vec)
	seedVectors(t, s, "two", vec)

	if err := s.DeleteDatabase(ctx, "one"); err != nil {
		t.Fatalf("DeleteDatabase: %v", err)
	}
	if _, err := s.GetVector(ctx, "two", "a"); err != nil {
		t.Errorf("GetVector in the surviving database: %v", err)
	}
}

func TestDeleteVectorsByFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "docs", CreateOptions{Dimensions: 1, UseFolders: true})
	seedVectors(t, s, "docs",
		Vector{ID: "a", Embedding: []float32{1}, Metadata: map[string]string{"lang": "go", FolderPathKey: "src"}},
		Vector{ID: "b", Embedding: []float32{2}, Metadata: map[string]string{"lang": "go", FolderPathKey: "src/sub"}},
		Vector{ID: "c", Embedding: []float32{3}, Metadata: map[string]string{"lang": "rust", FolderPathKey: "src"}},
		Vector{ID: "d", Embedding: []float32{4}},
	)

	deleted, err := s.DeleteVectors(ctx, "docs", Filter{
		Metadata:      map[string]string{"lang": "go"},
		FolderPattern: "src/**",
	})
	if err != nil {
		t.Fatalf("DeleteVectors: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "b" {
		t.Errorf("deleted = %v, want [b]", deleted)
	}

	// A filter matching nothing deletes nothing.
	deleted, err = s.DeleteVectors(ctx, "docs", Filter{Metadata: map[string]string{"lang": "python"}})
	if err != nil {
		t.Fatalf("DeleteVectors (no match): %v", err)
	}
	if len(deleted) != 0 {
		t.Errorf("deleted = %v, want none", deleted)
	}
}

func TestFilterMatches(t *testing.T) {
	vec := Vector{
		ID:       "a",
		Metadata: map[string]string{"lang": "go", FolderPathKey: "docs/guides"},
	}

	cases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty matches all", Filter{}, true},
		{"metadata match", Filter{Metadata: map[string]string{"lang": "go"}}, true},
		{"metadata mismatch", Filter{Metadata: map[string]string{"lang": "rust"}}, false},
		{"glob match", Filter{FolderPattern: "docs/**"}, true},
		{"glob exact", Filter{FolderPattern: "docs/guides"}, true},
		{"glob mismatch", Filter{FolderPattern: "src/**"}, false},
		{"both", Filter{Metadata: map[string]string{"lang": "go"}, FolderPattern: "docs/*"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.filter.matches(vec)
			if err != nil {
				t.Fatalf("matches: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}
