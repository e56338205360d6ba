package state

import (
	"time"

	"sysglance/internal/sampler"
)

// DefaultHistorySize is the number of samples retained for the web
// graphs; at the default two-second cadence that is under two minutes
// of rolling history.
const DefaultHistorySize = 50

// HistoryPoint is one graphable reading.
type HistoryPoint struct {
	Time   time.Time `json:"time"`
	CPU    float64   `json:"cpu"`
	Memory float64   `json:"memory"`
	Disk   float64   `json:"disk"`
}

// History is a fixed-size ring of metric readings. It is not
// goroutine-safe on its own; the Holder serializes access.
type History struct {
	points []HistoryPoint
	head   int
	count  int
	size   int
}

// NewHistory creates a ring retaining size points.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		points: make([]HistoryPoint, size),
		size:   size,
	}
}

// Push appends a reading, evicting the oldest when full.
func (h *History) Push(ts time.Time, m sampler.MetricsSample) {
	h.points[h.head] = HistoryPoint{Time: ts, CPU: m.CPU, Memory: m.Memory, Disk: m.Disk}
	h.head = (h.head + 1) % h.size
	if h.count < h.size {
		h.count++
	}
}

// Points returns the retained readings oldest first.
func (h *History) Points() []HistoryPoint {
	out := make([]HistoryPoint, 0, h.count)
	start := h.head - h.count
	if start < 0 {
		start += h.size
	}
	for i := 0; i < h.count; i++ {
		out = append(out, h.points[(start+i)%h.size])
	}
	return out
}
