package cas

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/skyvault-labs/s5vector/internal/db"
)

// SQLite is a Store backed by the blobs table of a SQLite database.
type SQLite struct {
	db *db.DB
}

// NewSQLite creates a blob store over the given database.
func NewSQLite(database *db.DB) *SQLite {
	return &SQLite{db: database}
}

func (s *SQLite) Put(ctx context.Context, data []byte) (string, error) {
	cid := SumCID(data)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (cid, data, size) VALUES (?, ?, ?)
		 ON CONFLICT(cid) DO UPDATE SET refs = refs + 1`,
		cid, data, len(data),
	)
	if err != nil {
		return "", fmt.Errorf("storing blob %s: %w", cid, err)
	}
	return cid, nil
}

func (s *SQLite) Get(ctx context.Context, cid string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM blobs WHERE cid = ?`, cid,
	).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, notFound(cid)
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", cid, err)
	}
	return data, nil
}

func (s *SQLite) Has(ctx context.Context, cid string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM blobs WHERE cid = ?`, cid,
	).Scan(&one)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking blob %s: %w", cid, err)
	}
	return true, nil
}

func (s *SQLite) Delete(ctx context.Context, cid string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE blobs SET refs = refs - 1 WHERE cid = ?`, cid); err != nil {
		return fmt.Errorf("releasing blob %s: %w", cid, err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM blobs WHERE cid = ? AND refs <= 0`, cid); err != nil {
		return fmt.Errorf("deleting blob %s: %w", cid, err)
	}
	return nil
}

// Close is a no-op; the underlying database is owned by the caller.
func (s *SQLite) Close() error { return nil }
