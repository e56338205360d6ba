package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysglance/internal/config"
	"sysglance/internal/logger"
	"sysglance/internal/sampler"
)

// blockingMetrics simulates a provider with controllable latency and
// failure behavior, and records how many calls overlap.
type blockingMetrics struct {
	delay      time.Duration
	failures   atomic.Int64 // fail this many leading calls
	inFlight   atomic.Int64
	maxOverlap atomic.Int64
	calls      atomic.Int64
	ignoreCtx  bool
}

func (m *blockingMetrics) Metrics(ctx context.Context) (sampler.MetricsSample, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		prev := m.maxOverlap.Load()
		if n <= prev || m.maxOverlap.CompareAndSwap(prev, n) {
			break
		}
	}
	call := m.calls.Add(1)

	if m.delay > 0 {
		if m.ignoreCtx {
			time.Sleep(m.delay)
		} else {
			select {
			case <-time.After(m.delay):
			case <-ctx.Done():
				return sampler.MetricsSample{}, ctx.Err()
			}
		}
	}

	if m.failures.Load() >= call {
		return sampler.MetricsSample{}, fmt.Errorf("metrics unavailable")
	}
	return sampler.MetricsSample{CPU: float64(call)}, nil
}

type stubServices struct{}

func (stubServices) ServiceStatus(ctx context.Context, name string) sampler.ServiceState {
	return sampler.ServiceState{Activity: sampler.ActivityActive}
}

type stubLogs struct{}

func (stubLogs) Logs(ctx context.Context, max int, min sampler.Severity) ([]sampler.LogEntry, error) {
	return nil, nil
}

type capture struct {
	mu    sync.Mutex
	snaps []*sampler.Snapshot
}

func (c *capture) publish(s *sampler.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps = append(c.snaps, s)
}

func (c *capture) all() []*sampler.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*sampler.Snapshot, len(c.snaps))
	copy(out, c.snaps)
	return out
}

func newScheduler(metrics *blockingMetrics, interval, grace time.Duration, cap *capture) *Scheduler {
	cfg := config.DefaultConfig()
	cfg.Services = []string{"ssh.service"}
	smp := sampler.New(cfg, metrics, stubServices{}, stubLogs{}, logger.Noop())
	return New(smp, interval, grace, cap.publish, logger.Noop())
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestSchedulerPublishesInProductionOrder(t *testing.T) {
	metrics := &blockingMetrics{}
	cap := &capture{}
	s := newScheduler(metrics, 15*time.Millisecond, 200*time.Millisecond, cap)

	require.NoError(t, s.Start(context.Background()))
	waitFor(t, time.Second, func() bool { return len(cap.all()) >= 4 })
	s.Stop()

	snaps := cap.all()
	require.GreaterOrEqual(t, len(snaps), 4)
	for i := 1; i < len(snaps); i++ {
		// CPU carries the call counter: strictly increasing order.
		assert.Greater(t, snaps[i].Metrics.CPU, snaps[i-1].Metrics.CPU)
	}
}

func TestSchedulerFirstSampleIsImmediate(t *testing.T) {
	metrics := &blockingMetrics{}
	cap := &capture{}
	// A long interval: only the immediate sample can account for a publish.
	s := newScheduler(metrics, time.Hour, 200*time.Millisecond, cap)

	require.NoError(t, s.Start(context.Background()))
	waitFor(t, time.Second, func() bool { return len(cap.all()) >= 1 })
	s.Stop()
}

func TestSchedulerNeverOverlapsSamples(t *testing.T) {
	metrics := &blockingMetrics{delay: 60 * time.Millisecond}
	cap := &capture{}
	s := newScheduler(metrics, 15*time.Millisecond, 500*time.Millisecond, cap)

	require.NoError(t, s.Start(context.Background()))
	waitFor(t, 2*time.Second, func() bool { return len(cap.all()) >= 3 })
	s.Stop()

	assert.Equal(t, int64(1), metrics.maxOverlap.Load(), "two samples were in flight at once")
	assert.Greater(t, s.SkippedTicks(), int64(0), "slow samples should skip ticks, not queue them")
}

func TestSchedulerDegradedEventKeepsTicking(t *testing.T) {
	metrics := &blockingMetrics{}
	metrics.failures.Store(1) // first call fails, rest succeed
	cap := &capture{}
	s := newScheduler(metrics, 15*time.Millisecond, 200*time.Millisecond, cap)

	require.NoError(t, s.Start(context.Background()))
	waitFor(t, time.Second, func() bool { return len(cap.all()) >= 3 })
	s.Stop()

	snaps := cap.all()
	require.GreaterOrEqual(t, len(snaps), 3)
	assert.True(t, snaps[0].Degraded, "failed first sample should surface as a degraded event")
	assert.Contains(t, snaps[0].Err, "metrics unavailable")
	assert.False(t, snaps[1].Degraded, "scheduler must keep ticking after a failure")
}

func TestStopWaitsForInFlightSampleAndSilencesPublish(t *testing.T) {
	metrics := &blockingMetrics{delay: 80 * time.Millisecond}
	cap := &capture{}
	s := newScheduler(metrics, 10*time.Millisecond, 500*time.Millisecond, cap)

	require.NoError(t, s.Start(context.Background()))
	waitFor(t, time.Second, func() bool { return metrics.calls.Load() >= 1 })

	s.Stop()
	assert.Equal(t, Stopped, s.State())

	published := len(cap.all())
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, published, len(cap.all()), "no publishes may happen after Stop returns")
}

func TestStopHonorsGracePeriodForStuckSample(t *testing.T) {
	metrics := &blockingMetrics{delay: 2 * time.Second, ignoreCtx: true}
	cap := &capture{}

	cfg := config.DefaultConfig()
	cfg.Services = []string{"ssh.service"}
	smp := sampler.New(cfg, metrics, stubServices{}, stubLogs{}, logger.Noop())
	buf := logger.NewBufferLogger()
	s := New(smp, 10*time.Millisecond, 100*time.Millisecond, cap.publish, buf)

	require.NoError(t, s.Start(context.Background()))
	waitFor(t, time.Second, func() bool { return metrics.calls.Load() >= 1 })

	start := time.Now()
	s.Stop()
	elapsed := time.Since(start)

	assert.Less(t, elapsed, time.Second, "Stop must not wait for a sample that ignores cancellation")
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.True(t, buf.HasLevel("error"), "grace overrun should be logged")
	assert.Equal(t, Stopped, s.State())
}

func TestStopIsIdempotentFromAnyState(t *testing.T) {
	metrics := &blockingMetrics{}
	cap := &capture{}

	// From Idle.
	s := newScheduler(metrics, 15*time.Millisecond, 200*time.Millisecond, cap)
	s.Stop()
	s.Stop()
	assert.Equal(t, Stopped, s.State())

	// From Running, twice.
	s2 := newScheduler(metrics, 15*time.Millisecond, 200*time.Millisecond, cap)
	require.NoError(t, s2.Start(context.Background()))
	s2.Stop()
	s2.Stop()
	assert.Equal(t, Stopped, s2.State())
}

func TestStartAfterStopFails(t *testing.T) {
	metrics := &blockingMetrics{}
	cap := &capture{}
	s := newScheduler(metrics, 15*time.Millisecond, 200*time.Millisecond, cap)

	s.Stop()
	err := s.Start(context.Background())
	require.Error(t, err)
}

func TestStateTransitions(t *testing.T) {
	metrics := &blockingMetrics{}
	cap := &capture{}
	s := newScheduler(metrics, 15*time.Millisecond, 200*time.Millisecond, cap)

	assert.Equal(t, Idle, s.State())
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, Running, s.State())
	s.Stop()
	assert.Equal(t, Stopped, s.State())
}
