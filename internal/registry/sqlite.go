package registry

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/skyvault-labs/s5vector/internal/db"
)

// SQLite is a Registry backed by the registry_entries table.
type SQLite struct {
	db *db.DB
}

// NewSQLite creates a registry over the given database.
func NewSQLite(database *db.DB) *SQLite {
	return &SQLite{db: database}
}

func (r *SQLite) Set(ctx context.Context, name, cid string) (*Entry, error) {
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO registry_entries (name, cid, revision, updated_at)
		 VALUES (?, ?, 1, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   cid = excluded.cid,
		   revision = registry_entries.revision + 1,
		   updated_at = excluded.updated_at`,
		name, cid, now,
	)
	if err != nil {
		return nil, fmt.Errorf("setting registry entry %q: %w", name, err)
	}
	return r.Get(ctx, name)
}

func (r *SQLite) Get(ctx context.Context, name string) (*Entry, error) {
	e := &Entry{}
	err := r.db.QueryRowContext(ctx,
		`SELECT name, cid, revision, updated_at FROM registry_entries WHERE name = ?`, name,
	).Scan(&e.Name, &e.CID, &e.Revision, &e.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting registry entry %q: %w", name, err)
	}
	return e, nil
}

func (r *SQLite) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, cid, revision, updated_at FROM registry_entries`)
	if err != nil {
		return nil, fmt.Errorf("listing registry entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.CID, &e.Revision, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning registry entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registry entries: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (r *SQLite) Delete(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM registry_entries WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting registry entry %q: %w", name, err)
	}
	return nil
}
