// Package state owns the shared "latest snapshot + active theme"
// holder. The scheduler is the only writer; front ends reach the state
// solely through the read-only Adapter interface.
package state

import (
	"sync"

	"sysglance/internal/sampler"
	"sysglance/internal/theme"
)

// Adapter is the read-only surface front ends consume. Callbacks
// observe snapshots in production order, and a subscriber added
// mid-stream is immediately handed the snapshot current at registration
// time so it never starts behind.
type Adapter interface {
	// Latest returns the most recent snapshot. ok is false before the
	// first sample completes.
	Latest() (snap *sampler.Snapshot, ok bool)

	// Theme returns the active display theme.
	Theme() *theme.Theme

	// Subscribe registers an update callback and returns a function
	// that removes it.
	Subscribe(fn func(*sampler.Snapshot)) (cancel func())

	// History returns the rolling metric series for graphing.
	History() []HistoryPoint
}

type subscriber struct {
	id int
	fn func(*sampler.Snapshot)
}

// Holder is the single mutable shared resource of the process. Publish
// is called only from the scheduler goroutine; everything else reads.
type Holder struct {
	mu      sync.RWMutex
	latest  *sampler.Snapshot
	subs    []subscriber
	nextID  int
	history *History
	themes  *theme.Controller
}

// NewHolder creates an empty holder bound to the theme controller.
func NewHolder(themes *theme.Controller) *Holder {
	return &Holder{
		history: NewHistory(DefaultHistorySize),
		themes:  themes,
	}
}

// Publish stores a new snapshot and notifies subscribers in
// registration order. Callbacks run on the caller's goroutine, so the
// single-writer discipline extends through notification: no two
// callbacks for different snapshots ever race.
func (h *Holder) Publish(snap *sampler.Snapshot) {
	h.mu.Lock()
	h.latest = snap
	if !snap.Degraded {
		h.history.Push(snap.Timestamp, snap.Metrics)
	}
	subs := make([]subscriber, len(h.subs))
	copy(subs, h.subs)
	h.mu.Unlock()

	for _, s := range subs {
		s.fn(snap)
	}
}

// Latest returns the most recent snapshot, or ok=false before the
// first publish.
func (h *Holder) Latest() (*sampler.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.latest != nil
}

// Theme returns the active display theme.
func (h *Holder) Theme() *theme.Theme {
	return h.themes.Current()
}

// Subscribe registers fn and, if a snapshot already exists, delivers it
// before returning so the subscriber never observes anything older than
// registration time.
func (h *Holder) Subscribe(fn func(*sampler.Snapshot)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs = append(h.subs, subscriber{id: id, fn: fn})
	current := h.latest
	h.mu.Unlock()

	if current != nil {
		fn(current)
	}

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, s := range h.subs {
			if s.id == id {
				h.subs = append(h.subs[:i], h.subs[i+1:]...)
				break
			}
		}
	}
}

// History returns a copy of the rolling metric series.
func (h *Holder) History() []HistoryPoint {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.history.Points()
}
