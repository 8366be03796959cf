// Package events fans collection change notifications out to subscribers.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Change reports that a stored collection or setting was rewritten.
type Change struct {
	Collection string    `json:"collection"`
	At         time.Time `json:"at"`
}

// Hub is an in-process publish/subscribe fan-out. Slow subscribers miss
// notifications rather than blocking publishers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]chan Change
	nextID int
	logger *slog.Logger
}

// NewHub constructs a Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{subs: make(map[int]chan Change), logger: logger}
}

// Publish delivers c to every subscriber without blocking.
func (h *Hub) Publish(c Change) {
	if h == nil {
		return
	}
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		select {
		case ch <- c:
		default:
			h.logger.Warn("dropping change notification", slog.Int("subscriber", id), slog.String("collection", c.Collection))
		}
	}
}

// Subscribe returns a channel of changes that is closed when ctx ends.
func (h *Hub) Subscribe(ctx context.Context, buffer int) <-chan Change {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Change, buffer)
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
		close(ch)
	}()
	return ch
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
