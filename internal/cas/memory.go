package cas

import (
	"context"
	"sync"
)

type memBlob struct {
	data []byte
	refs int
}

// Memory is an in-memory Store, used for tests and the memory backend.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]*memBlob
}

// NewMemory creates an empty in-memory blob store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string]*memBlob)}
}

func (m *Memory) Put(ctx context.Context, data []byte) (string, error) {
	cid := SumCID(data)

	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.blobs[cid]; ok {
		b.refs++
		return cid, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.blobs[cid] = &memBlob{data: cp, refs: 1}
	return cid, nil
}

func (m *Memory) Get(ctx context.Context, cid string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blobs[cid]
	if !ok {
		return nil, notFound(cid)
	}
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return cp, nil
}

func (m *Memory) Has(ctx context.Context, cid string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.blobs[cid]
	return ok, nil
}

func (m *Memory) Delete(ctx context.Context, cid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blobs[cid]
	if !ok {
		return nil
	}
	b.refs--
	if b.refs <= 0 {
		delete(m.blobs, cid)
	}
	return nil
}

func (m *Memory) Close() error { return nil }

// Len returns the number of stored blobs.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
