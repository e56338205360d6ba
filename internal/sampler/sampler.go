package sampler

import (
	"context"
	"time"

	"sysglance/internal/config"
	"sysglance/internal/errors"
	"sysglance/internal/logger"
)

// MetricsProvider returns a point-in-time reading of host resource
// usage. A failure here fails the whole sample: metrics are
// load-bearing for both front ends.
type MetricsProvider interface {
	Metrics(ctx context.Context) (MetricsSample, error)
}

// ServiceStatusProvider reports the run state of a single unit.
// Implementations never fail: a unit that cannot be queried comes back
// as ActivityUnknown with the failure recorded in Detail.
type ServiceStatusProvider interface {
	ServiceStatus(ctx context.Context, name string) ServiceState
}

// LogSource returns up to max recent log entries at or above the given
// severity, ordered oldest first.
type LogSource interface {
	Logs(ctx context.Context, max int, min Severity) ([]LogEntry, error)
}

// Sampler assembles snapshots from the three providers. It holds no
// state between calls: log retention across failures is handled by
// passing the previous snapshot into Sample, so ownership of history
// stays with the scheduler.
type Sampler struct {
	cfg      *config.Config
	metrics  MetricsProvider
	services ServiceStatusProvider
	logs     LogSource
	severity Severity
	log      logger.Logger
	now      func() time.Time
}

// New creates a Sampler for the given configuration and providers.
func New(cfg *config.Config, metrics MetricsProvider, services ServiceStatusProvider, logs LogSource, log logger.Logger) *Sampler {
	if log == nil {
		log = logger.Noop()
	}
	return &Sampler{
		cfg:      cfg,
		metrics:  metrics,
		services: services,
		logs:     logs,
		severity: ParseSeverity(cfg.LogSeverity),
		log:      log,
		now:      time.Now,
	}
}

// Sample produces one complete snapshot. prev may be nil (first pass).
//
// Degradation rules:
//   - metrics failure fails the sample; the caller turns the error into
//     a degraded event
//   - a service that cannot be queried yields an unknown entry, never
//     an omission
//   - a log source failure retains prev's logs and marks them stale
func (s *Sampler) Sample(ctx context.Context, prev *Snapshot) (*Snapshot, error) {
	metrics, err := s.metrics.Metrics(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrProvider,
			"Metrics collection failed",
			"Check that the host exposes CPU, memory, and disk statistics")
	}

	snap := &Snapshot{
		Timestamp: s.now(),
		Metrics:   metrics,
		Services:  make([]ServiceState, 0, len(s.cfg.Services)),
	}

	// One entry per configured unit, in configured order.
	for _, name := range s.cfg.Services {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		state := s.services.ServiceStatus(ctx, name)
		state.Name = name
		state.State = state.Activity.String()
		snap.Services = append(snap.Services, state)
	}

	entries, err := s.logs.Logs(ctx, s.cfg.LogLimit, s.severity)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn("log source failed, carrying previous entries: %v", err)
		if prev != nil {
			snap.Logs = prev.Logs
		}
		snap.LogsStale = true
		return snap, nil
	}

	if len(entries) > s.cfg.LogLimit {
		entries = entries[len(entries)-s.cfg.LogLimit:]
	}
	for i := range entries {
		entries[i].Level = entries[i].Severity.String()
	}
	snap.Logs = entries

	return snap, nil
}

// DegradedSnapshot builds the distinguished event published when a
// sampling pass fails outright. Services and logs carry over from prev
// so front ends keep showing the last known state, clearly marked.
func (s *Sampler) DegradedSnapshot(prev *Snapshot, cause error) *Snapshot {
	snap := &Snapshot{
		Timestamp: s.now(),
		Degraded:  true,
		LogsStale: true,
	}
	if cause != nil {
		snap.Err = cause.Error()
	}
	if prev != nil {
		snap.Services = prev.Services
		snap.Logs = prev.Logs
		snap.Metrics = prev.Metrics
	}
	return snap
}
