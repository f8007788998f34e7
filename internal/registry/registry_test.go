package registry

import (
	"context"
	"testing"

	"github.com/skyvault-labs/s5vector/internal/db"
)

func testRegistries(t *testing.T) map[string]Registry {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return map[string]Registry{
		"memory": NewMemory(),
		"sqlite": NewSQLite(database),
	}
}

func TestSetAndGet(t *testing.T) {
	for name, r := range testRegistries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			entry, err := r.Set(ctx, "docs", "sha256:aaa")
			if err != nil {
				t.Fatalf("Set: %v", err)
			}
			if entry.Revision != 1 {
				t.Errorf("first revision = %d, want 1", entry.Revision)
			}

			got, err := r.Get(ctx, "docs")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got == nil || got.CID != "sha256:aaa" {
				t.Fatalf("Get = %+v, want CID sha256:aaa", got)
			}
		})
	}
}

func TestSetBumpsRevision(t *testing.T) {
	for name, r := range testRegistries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := r.Set(ctx, "docs", "sha256:aaa"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			entry, err := r.Set(ctx, "docs", "sha256:bbb")
			if err != nil {
				t.Fatalf("Set again: %v", err)
			}
			if entry.Revision != 2 {
				t.Errorf("revision = %d, want 2", entry.Revision)
			}
			if entry.CID != "sha256:bbb" {
				t.Errorf("CID = %s, want sha256:bbb", entry.CID)
			}
		})
	}
}

func TestGetAbsent(t *testing.T) {
	for name, r := range testRegistries(t) {
		t.Run(name, func(t *testing.T) {
			entry, err := r.Get(context.Background(), "nope")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if entry != nil {
				t.Errorf("Get = %+v, want nil for an absent name", entry)
			}
		})
	}
}

func TestListOrderedByName(t *testing.T) {
	for name, r := range testRegistries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for _, n := range []string{"zeta", "alpha", "mid"} {
				if _, err := r.Set(ctx, n, "sha256:x"); err != nil {
					t.Fatalf("Set(%s): %v", n, err)
				}
			}

			entries, err := r.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			want := []string{"alpha", "mid", "zeta"}
			if len(entries) != len(want) {
				t.Fatalf("got %d entries, want %d", len(entries), len(want))
			}
			for i, n := range want {
				if entries[i].Name != n {
					t.Errorf("entries[%d] = %s, want %s", i, entries[i].Name, n)
				}
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, r := range testRegistries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := r.Set(ctx, "docs", "sha256:aaa"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := r.Delete(ctx, "docs"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			entry, err := r.Get(ctx, "docs")
			if err != nil {
				t.Fatalf("Get after delete: %v", err)
			}
			if entry != nil {
				t.Errorf("entry survives delete: %+v", entry)
			}
			// Absent names delete cleanly.
			if err := r.Delete(ctx, "docs"); err != nil {
				t.Errorf("double Delete: %v", err)
			}
		})
	}
}
