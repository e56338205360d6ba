// Package sampler defines the snapshot data model and the Sampler that
// assembles one consistent snapshot per pass from the metric, service,
// and log providers.
package sampler

import "time"

// Severity is the log severity scale, ordered least to most severe.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Journalctl returns the journald priority name for -p.
func (s Severity) Journalctl() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "err"
	case SeverityCritical:
		return "crit"
	default:
		return "err"
	}
}

// ParseSeverity maps a config severity name to its Severity value.
// Unknown names fall back to SeverityError, the collection default.
func ParseSeverity(name string) Severity {
	switch name {
	case "debug":
		return SeverityDebug
	case "info":
		return SeverityInfo
	case "warning":
		return SeverityWarning
	case "error":
		return SeverityError
	case "critical":
		return SeverityCritical
	default:
		return SeverityError
	}
}

// Activity is the tri-state run status of a service unit.
// Unknown is the zero value so a lookup failure degrades safely.
type Activity int

const (
	ActivityUnknown Activity = iota
	ActivityActive
	ActivityInactive
)

// String returns a human-readable activity label.
func (a Activity) String() string {
	switch a {
	case ActivityActive:
		return "active"
	case ActivityInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// MetricsSample is a point-in-time reading of host resource usage.
// All values are percentages in [0,100].
type MetricsSample struct {
	CPU    float64 `json:"cpu_percent"`
	Memory float64 `json:"memory_percent"`
	Disk   float64 `json:"disk_percent"`
}

// ServiceState is the observed state of one configured service unit.
type ServiceState struct {
	Name     string   `json:"name"`
	Activity Activity `json:"-"`
	// State mirrors Activity as a string for JSON consumers.
	State string `json:"state"`
	// Detail carries extra context: a failure description for unknown
	// units, or the raw systemctl output for odd states.
	Detail string `json:"detail,omitempty"`
	// Enabled is the is-enabled result, best effort; empty on failure.
	Enabled string `json:"enabled,omitempty"`
}

// LogEntry is a single system-log line.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"-"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Snapshot is one complete, immutable view of host state. A new
// Snapshot fully replaces the previous one; it is never patched in
// place.
type Snapshot struct {
	Timestamp time.Time      `json:"timestamp"`
	Metrics   MetricsSample  `json:"metrics"`
	Services  []ServiceState `json:"services"`
	Logs      []LogEntry     `json:"logs"`

	// LogsStale marks logs carried over from the previous snapshot
	// after a log source failure.
	LogsStale bool `json:"logs_stale"`

	// Degraded marks a snapshot produced from a failed metrics pass.
	// Metrics are zero-valued and Err describes the failure; services
	// and logs are carried from the previous snapshot.
	Degraded bool   `json:"degraded"`
	Err      string `json:"error,omitempty"`
}
