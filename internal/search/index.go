// Package search maintains a chromem-go index alongside the store and serves
// similarity queries, optionally restricted to a folder.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/skyvault-labs/s5vector/internal/store"
)

// ErrNoEmbedder is returned by the index's embedding function. Embeddings are
// always computed by the caller and passed in; the index never generates one.
var ErrNoEmbedder = errors.New("embeddings are computed by the caller, pass a query embedding")

const defaultOversample = 4

// Options narrows a search.
type Options struct {
	// Folder restricts results to vectors placed exactly in this folder.
	Folder string

	// Recursive widens Folder to its whole subtree. chromem's where clause
	// is equality-only, so subtree queries oversample and post-filter
	// client-side.
	Recursive bool

	// Oversample is the multiplier applied to the limit for recursive
	// queries before post-filtering. Zero means the default.
	Oversample int
}

// Result is a single search hit.
type Result struct {
	ID         string            `json:"id"`
	Similarity float32           `json:"similarity"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Index is a per-database collection set over a chromem DB. It implements
// store.Indexer so the store keeps it in sync on every mutation.
type Index struct {
	mu          sync.Mutex
	db          *chromem.DB
	collections map[string]*chromem.Collection
}

// NewIndex creates an empty in-memory search index.
func NewIndex() *Index {
	return &Index{
		db:          chromem.NewDB(),
		collections: make(map[string]*chromem.Collection),
	}
}

// noEmbedFunc satisfies chromem's embedding hook without ever embedding.
func noEmbedFunc(ctx context.Context, text string) ([]float32, error) {
	return nil, ErrNoEmbedder
}

func collectionName(db string) string { return "db:" + db }

// EnsureDatabase creates the collection for a database if needed.
func (ix *Index) EnsureDatabase(ctx context.Context, db string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	_, err := ix.ensureLocked(db)
	return err
}

func (ix *Index) ensureLocked(db string) (*chromem.Collection, error) {
	if col, ok := ix.collections[db]; ok {
		return col, nil
	}
	col, err := ix.db.GetOrCreateCollection(collectionName(db), nil, noEmbedFunc)
	if err != nil {
		return nil, fmt.Errorf("creating collection for %s: %w", db, err)
	}
	ix.collections[db] = col
	return col, nil
}

// DropDatabase removes a database's collection.
func (ix *Index) DropDatabase(db string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.collections[db]; !ok {
		return nil
	}
	delete(ix.collections, db)
	if err := ix.db.DeleteCollection(collectionName(db)); err != nil {
		return fmt.Errorf("deleting collection for %s: %w", db, err)
	}
	return nil
}

// Index adds or replaces vectors in a database's collection.
func (ix *Index) Index(ctx context.Context, db string, vectors []store.Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	col, err := ix.ensureLocked(db)
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, len(vectors))
	for i, vec := range vectors {
		metadata := make(map[string]string, len(vec.Metadata))
		for k, v := range vec.Metadata {
			metadata[k] = v
		}
		docs[i] = chromem.Document{
			ID:        vec.ID,
			Content:   vec.ID,
			Embedding: vec.Embedding,
			Metadata:  metadata,
		}
	}

	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("indexing %d vectors in %s: %w", len(docs), db, err)
	}
	return nil
}

// Remove deletes vectors from a database's collection.
func (ix *Index) Remove(ctx context.Context, db string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	col, ok := ix.collections[db]
	if !ok {
		return nil
	}
	if err := col.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("unindexing %d vectors in %s: %w", len(ids), db, err)
	}
	return nil
}

// Search returns the nearest vectors to the query embedding. An unindexed or
// empty database yields an empty result, not an error.
func (ix *Index) Search(ctx context.Context, db string, embedding []float32, limit int, opts Options) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	ix.mu.Lock()
	col, ok := ix.collections[db]
	ix.mu.Unlock()
	if !ok {
		return nil, nil
	}

	count := col.Count()
	if count == 0 {
		return nil, nil
	}

	folder := store.NormalizeFolderPath(opts.Folder)

	// Folder narrowing happens client-side after the query: chromem's
	// where clause rejects nResults larger than the filtered match count,
	// which is unknowable up front. Oversample instead and trim.
	n := limit
	if folder != "" {
		oversample := opts.Oversample
		if oversample <= 0 {
			oversample = defaultOversample
		}
		n = limit * oversample
	}
	if n > count {
		n = count
	}

	hits, err := col.QueryEmbedding(ctx, embedding, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", db, err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		if folder != "" {
			hitFolder := hit.Metadata[store.FolderPathKey]
			if opts.Recursive && !inSubtree(hitFolder, folder) {
				continue
			}
			if !opts.Recursive && hitFolder != folder {
				continue
			}
		}
		results = append(results, Result{
			ID:         hit.ID,
			Similarity: hit.Similarity,
			Metadata:   hit.Metadata,
		})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// Rebuild repopulates the index from the store, replacing any prior state.
func (ix *Index) Rebuild(ctx context.Context, st *store.Store) error {
	dbs, err := st.ListDatabases(ctx)
	if err != nil {
		return err
	}

	for _, info := range dbs {
		if err := ix.EnsureDatabase(ctx, info.Name); err != nil {
			return err
		}
		vecs, err := st.ListVectors(ctx, info.Name)
		if err != nil {
			return err
		}
		if err := ix.Index(ctx, info.Name, vecs); err != nil {
			return err
		}
	}
	return nil
}

func inSubtree(path, folder string) bool {
	return path == folder || strings.HasPrefix(path, folder+"/")
}
