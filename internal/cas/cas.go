// Package cas provides content-addressed blob storage with reference
// counting. Every blob is keyed by the digest of its content, so a CID always
// resolves to the same bytes; storing the same bytes again bumps the blob's
// reference count, and the blob is removed only when the last reference is
// released.
package cas

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a CID does not resolve to a stored blob.
var ErrNotFound = errors.New("blob not found")

// Store is a content-addressed blob store.
type Store interface {
	// Put stores data and returns its CID. Storing the same bytes twice
	// returns the same CID and increments the blob's reference count
	// instead of writing it again.
	Put(ctx context.Context, data []byte) (string, error)

	// Get returns the blob for the given CID.
	Get(ctx context.Context, cid string) ([]byte, error)

	// Has reports whether a blob exists for the given CID.
	Has(ctx context.Context, cid string) (bool, error)

	// Delete releases one reference to the blob; the blob is removed once
	// its last reference is released. Releasing an absent CID is not an
	// error.
	Delete(ctx context.Context, cid string) error

	// Close releases any underlying resources.
	Close() error
}

// SumCID computes the CID for the given bytes.
func SumCID(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// notFound wraps ErrNotFound with the offending CID.
func notFound(cid string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, cid)
}
