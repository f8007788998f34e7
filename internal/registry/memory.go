package registry

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory Registry, used for tests and the memory backend.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemory creates an empty in-memory registry.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

func (r *Memory) Set(ctx context.Context, name, cid string) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if ok {
		e.CID = cid
		e.Revision++
	} else {
		e = Entry{Name: name, CID: cid, Revision: 1}
	}
	e.UpdatedAt = time.Now().UTC()
	r.entries[name] = e

	out := e
	return &out, nil
}

func (r *Memory) Get(ctx context.Context, name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, nil
	}
	out := e
	return &out, nil
}

func (r *Memory) List(ctx context.Context) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (r *Memory) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
	return nil
}
