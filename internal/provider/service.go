package provider

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"sysglance/internal/sampler"
)

// serviceQueryTimeout bounds each systemctl invocation so one hung unit
// cannot stall the whole sampling pass.
const serviceQueryTimeout = 5 * time.Second

// runner executes a command and returns its combined output. Split out
// so tests can exercise the status mapping without systemctl.
type runner func(ctx context.Context, name string, args ...string) (string, error)

func execRunner(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

// SystemdStatus queries unit state via systemctl.
type SystemdStatus struct {
	run runner
}

// NewSystemdStatus creates a service status provider backed by systemctl.
func NewSystemdStatus() *SystemdStatus {
	return &SystemdStatus{run: execRunner}
}

// ServiceStatus reports the tri-state activity of one unit. It never
// returns an error: a unit that does not exist, or a systemctl call
// that fails or times out, yields an unknown state with the cause in
// Detail. "inactive" and "failed" are valid results even though
// systemctl exits non-zero for them.
func (p *SystemdStatus) ServiceStatus(ctx context.Context, name string) sampler.ServiceState {
	qctx, cancel := context.WithTimeout(ctx, serviceQueryTimeout)
	defer cancel()

	out, err := p.run(qctx, "systemctl", "is-active", name)
	state := strings.TrimSpace(out)

	var result sampler.ServiceState
	switch state {
	case "active", "reloading":
		result.Activity = sampler.ActivityActive
	case "inactive", "failed", "deactivating", "activating":
		result.Activity = sampler.ActivityInactive
		result.Detail = state
	default:
		result.Activity = sampler.ActivityUnknown
		if state != "" {
			result.Detail = state
		} else if err != nil {
			result.Detail = err.Error()
		}
		return result
	}

	// is-enabled is best effort; the unit state above already answered
	// the load-bearing question.
	ectx, ecancel := context.WithTimeout(ctx, serviceQueryTimeout)
	defer ecancel()
	if out, _ := p.run(ectx, "systemctl", "is-enabled", name); out != "" {
		// is-enabled exits non-zero for "disabled" but still prints the
		// state; error chatter spans multiple words and is dropped.
		enabled := strings.TrimSpace(out)
		if enabled != "" && !strings.ContainsAny(enabled, " \n\t") {
			result.Enabled = enabled
		}
	}

	return result
}
