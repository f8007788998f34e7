// Package registry maps mutable names to content IDs, the way an S5 registry
// entry points a fixed key at the latest revision of a manifest.
package registry

import (
	"context"
	"time"
)

// Entry is a single named pointer into the blob store.
type Entry struct {
	Name      string    `json:"name"`
	CID       string    `json:"cid"`
	Revision  int64     `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Registry stores mutable name -> CID pointers. Set on an existing name
// bumps its revision.
type Registry interface {
	// Set points name at cid, creating the entry or bumping its revision.
	Set(ctx context.Context, name, cid string) (*Entry, error)

	// Get returns the entry for name, or nil if it does not exist.
	Get(ctx context.Context, name string) (*Entry, error)

	// List returns all entries ordered by name.
	List(ctx context.Context) ([]Entry, error)

	// Delete removes the entry for name. Deleting an absent name is not
	// an error.
	Delete(ctx context.Context, name string) error
}
