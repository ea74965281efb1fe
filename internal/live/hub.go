// Package live fans review-ledger changes out to open detail views.
//
// A Subscription is scoped to one judge slug and must be closed when the view
// goes away. Notifications carry no data: each one tells the subscriber to
// reload a full snapshot, so a pending notification absorbs later ones.
package live

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Hub tracks subscriptions per judge slug.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}

	gauge prometheus.Gauge
}

// NewHub returns an empty hub. gauge, if non-nil, tracks open subscriptions.
func NewHub(gauge prometheus.Gauge) *Hub {
	return &Hub{
		subs:  make(map[string]map[*Subscription]struct{}),
		gauge: gauge,
	}
}

// Subscription receives a value on C whenever reviews for Slug change.
type Subscription struct {
	Slug string
	C    <-chan struct{}

	c    chan struct{}
	hub  *Hub
	once sync.Once
}

// Subscribe registers interest in slug.
func (h *Hub) Subscribe(slug string) *Subscription {
	c := make(chan struct{}, 1)
	s := &Subscription{Slug: slug, C: c, c: c, hub: h}

	h.mu.Lock()
	set, ok := h.subs[slug]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[slug] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()

	if h.gauge != nil {
		h.gauge.Inc()
	}
	return s
}

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		if set, ok := h.subs[s.Slug]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.subs, s.Slug)
			}
		}
		h.mu.Unlock()

		if h.gauge != nil {
			h.gauge.Dec()
		}
	})
}

// Publish wakes every subscriber of slug without blocking.
func (h *Hub) Publish(slug string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[slug] {
		s.wake()
	}
}

// PublishAll wakes every subscriber, e.g. after notifications may have been
// missed while the listener was reconnecting.
func (h *Hub) PublishAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.subs {
		for s := range set {
			s.wake()
		}
	}
}

// Len reports open subscriptions for slug.
func (h *Hub) Len(slug string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[slug])
}

// Total reports open subscriptions across all slugs.
func (h *Hub) Total() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, set := range h.subs {
		n += len(set)
	}
	return n
}

func (s *Subscription) wake() {
	select {
	case s.c <- struct{}{}:
	default:
	}
}
