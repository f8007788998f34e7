package events

import (
	"testing"
	"time"
)

func TestPublishReachesSubscribers(t *testing.T) {
	h := NewHub()

	ch, cancel := h.Subscribe()
	defer cancel()

	h.Publish(Event{Type: TypeDatabaseCreated, Database: "docs"})

	select {
	case e := <-ch:
		if e.Type != TypeDatabaseCreated || e.Database != "docs" {
			t.Errorf("got %+v", e)
		}
		if e.Time.IsZero() {
			t.Error("Publish did not stamp the event time")
		}
	case <-time.After(time.Second):
		t.Fatal("event never arrived")
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	h := NewHub()

	_, cancel := h.Subscribe()
	defer cancel()

	// Nobody drains the subscriber; publishing past the buffer must not hang.
	for i := 0; i < subscriberBuffer*2; i++ {
		h.Publish(Event{Type: TypeVectorPut, Database: "docs"})
	}
}

func TestCancelRemovesSubscriber(t *testing.T) {
	h := NewHub()

	ch, cancel := h.Subscribe()
	if h.Subscribers() != 1 {
		t.Fatalf("subscribers = %d, want 1", h.Subscribers())
	}

	cancel()
	if h.Subscribers() != 0 {
		t.Errorf("subscribers = %d after cancel, want 0", h.Subscribers())
	}
	if _, ok := <-ch; ok {
		t.Error("channel still open after cancel")
	}

	// Cancel twice is safe.
	cancel()
}

func TestPublishWithoutSubscribers(t *testing.T) {
	h := NewHub()
	h.Publish(Event{Type: TypeDatabaseDeleted, Database: "docs"})
}
