package realtime

import (
	"context"
	"errors"
	"sync"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/metrics"
	"go.uber.org/zap"
)

// ErrHubClosed is returned when publishing on a closed hub
var ErrHubClosed = errors.New("change feed closed")

const defaultBufferSize = 64

// Hub fans change events out to in-process subscribers
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscription]struct{}
	buffer int
	closed bool
}

// NewHub creates a hub whose subscribers buffer up to bufferSize events
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Hub{
		subs:   make(map[string]map[*subscription]struct{}),
		buffer: bufferSize,
	}
}

// Publish delivers event to every matching local subscriber
func (h *Hub) Publish(ctx context.Context, event entities.ChangeEvent) error {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		return ErrHubClosed
	}
	h.Deliver(ctx, event)
	return nil
}

// Deliver hands event to the subscribers of its table. A subscriber whose
// buffer is full misses the event.
func (h *Hub) Deliver(ctx context.Context, event entities.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[event.Table] {
		if !event.Matches(sub.filter) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			metrics.RealtimeDropped.WithLabelValues(event.Table).Inc()
			logger.Warn(ctx, "Change event dropped, subscriber buffer full",
				zap.String("table", event.Table),
				zap.String("type", string(event.Type)),
			)
		}
	}
}

// Subscribe opens a subscription on table. A nil filter receives every event.
func (h *Hub) Subscribe(table string, filter *entities.Filter) repositories.Subscription {
	sub := &subscription{
		hub:    h,
		table:  table,
		filter: filter,
		ch:     make(chan entities.ChangeEvent, h.buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
		sub.done = true
		return sub
	}
	if h.subs[table] == nil {
		h.subs[table] = make(map[*subscription]struct{})
	}
	h.subs[table][sub] = struct{}{}
	metrics.RealtimeSubscribers.WithLabelValues(table).Inc()
	return sub
}

// SubscriberCount returns the number of open subscriptions on table
func (h *Hub) SubscriberCount(table string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[table])
}

// Close ends every subscription
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for table, subs := range h.subs {
		for sub := range subs {
			sub.done = true
			close(sub.ch)
			metrics.RealtimeSubscribers.WithLabelValues(table).Dec()
		}
		delete(h.subs, table)
	}
}

func (h *Hub) remove(sub *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub.done {
		return
	}
	sub.done = true
	if subs, ok := h.subs[sub.table]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subs, sub.table)
		}
	}
	close(sub.ch)
	metrics.RealtimeSubscribers.WithLabelValues(sub.table).Dec()
}

type subscription struct {
	hub    *Hub
	table  string
	filter *entities.Filter
	ch     chan entities.ChangeEvent
	done   bool // guarded by hub.mu
}

func (s *subscription) Events() <-chan entities.ChangeEvent { return s.ch }

func (s *subscription) Close() { s.hub.remove(s) }
