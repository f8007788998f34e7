// Package events provides a broadcast hub for store change notifications.
package events

import (
	"sync"
	"time"
)

// Event types published by the store.
const (
	TypeDatabaseCreated = "database.created"
	TypeDatabaseUpdated = "database.updated"
	TypeDatabaseDeleted = "database.deleted"
	TypeVectorPut       = "vector.put"
	TypeVectorDeleted   = "vector.deleted"
	TypeVectorMoved     = "vector.moved"
	TypeFolderCreated   = "folder.created"
	TypeFolderRenamed   = "folder.renamed"
	TypeFolderDeleted   = "folder.deleted"
	TypeFolderMoved     = "folder.moved"
)

// Event is a single change notification.
type Event struct {
	Type     string            `json:"type"`
	Database string            `json:"database"`
	Detail   map[string]string `json:"detail,omitempty"`
	Time     time.Time         `json:"time"`
}

const subscriberBuffer = 64

// Hub fans events out to subscribers. Publishing never blocks: a subscriber
// whose buffer is full misses the event.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel function must be
// called to release it.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber with buffer space.
func (h *Hub) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
