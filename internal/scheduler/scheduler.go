// Package scheduler drives periodic sampling. A single goroutine owns
// the tick loop and is the only writer of published snapshots, so
// ordering and the no-overlap guarantee fall out of the structure
// rather than locking.
package scheduler

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"sysglance/internal/errors"
	"sysglance/internal/logger"
	"sysglance/internal/sampler"
)

// State is the scheduler lifecycle state.
type State int

const (
	Idle State = iota
	Running
	Stopping
	Stopped
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Scheduler fires sampling attempts at a fixed cadence. Ticks are
// measured start-to-start: a slow sample never shifts the grid, it
// just causes the overlapping tick to be skipped and counted. Exactly
// one sample is ever in flight.
type Scheduler struct {
	sampler  *sampler.Sampler
	publish  func(*sampler.Snapshot)
	interval time.Duration
	grace    time.Duration
	log      logger.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}

	skipped atomic.Int64
}

// New creates a scheduler. publish is invoked exactly once per
// completed sample, in production order, from the scheduler goroutine.
func New(s *sampler.Sampler, interval, grace time.Duration, publish func(*sampler.Snapshot), log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Noop()
	}
	return &Scheduler{
		sampler:  s,
		publish:  publish,
		interval: interval,
		grace:    grace,
		log:      log,
	}
}

// Start transitions Idle -> Running and begins the tick loop. The
// first sample fires immediately; subsequent attempts follow the
// configured cadence. ctx cancellation stops the loop the same way
// Stop does, minus the bounded wait.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return errors.New(errors.ErrShutdown,
			"Scheduler already "+s.state.String(),
			"A scheduler runs once; create a new one to restart")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.state = Running

	go s.run(runCtx)
	return nil
}

// Stop transitions to Stopped from any state. It cancels the in-flight
// sample, waits for it to settle bounded by the grace period, and
// guarantees no publish happens after it returns. Idempotent; never
// returns an error for state reasons, and a grace overrun is logged
// rather than surfaced.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	switch s.state {
	case Idle, Stopped:
		s.state = Stopped
		s.mu.Unlock()
		return
	case Stopping:
		done := s.done
		s.mu.Unlock()
		s.awaitDone(done)
		return
	}
	s.state = Stopping
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	s.awaitDone(done)

	s.mu.Lock()
	s.state = Stopped
	s.mu.Unlock()
}

func (s *Scheduler) awaitDone(done chan struct{}) {
	select {
	case <-done:
	case <-time.After(s.grace):
		s.log.Error("shutdown: in-flight sample did not settle within %s, releasing anyway", s.grace)
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SkippedTicks returns how many ticks were skipped because a sample
// was still in flight.
func (s *Scheduler) SkippedTicks() int64 {
	return s.skipped.Load()
}

type sampleResult struct {
	snap *sampler.Snapshot
	err  error
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	results := make(chan sampleResult, 1)
	var prev *sampler.Snapshot
	inFlight := false

	launch := func() {
		inFlight = true
		p := prev
		go func() {
			snap, err := s.sampler.Sample(ctx, p)
			results <- sampleResult{snap, err}
		}()
	}

	// Sample immediately so front ends are not blank for a full interval.
	launch()

	for {
		select {
		case <-ctx.Done():
			if inFlight {
				// The sample's context is cancelled, so it settles on
				// its own; the discard keeps the publish-after-stop
				// guarantee.
				<-results
			}
			return

		case <-ticker.C:
			if inFlight {
				n := s.skipped.Add(1)
				s.log.Warn("tick skipped: previous sample still in flight (%d total)", n)
				continue
			}
			launch()

		case r := <-results:
			inFlight = false
			if ctx.Err() != nil {
				return
			}
			if r.err != nil {
				if stderrors.Is(r.err, context.Canceled) || stderrors.Is(r.err, context.DeadlineExceeded) {
					return
				}
				// Degraded event: the loop keeps ticking, the failure
				// travels to subscribers as a marked snapshot.
				s.log.Error("sampling failed: %v", r.err)
				s.publish(s.sampler.DegradedSnapshot(prev, r.err))
				continue
			}
			prev = r.snap
			s.publish(r.snap)
		}
	}
}
