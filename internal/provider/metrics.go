// Package provider implements the metric, service-status, and log
// collaborators consumed by the sampler. Each provider is independent:
// a failure in one never takes down another.
package provider

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"sysglance/internal/sampler"
)

// HostMetrics reads CPU, memory, and disk usage from the local host.
type HostMetrics struct {
	// diskPath is the mount point measured for disk usage.
	diskPath string
}

// NewHostMetrics creates a metrics provider measuring the root filesystem.
func NewHostMetrics() *HostMetrics {
	return &HostMetrics{diskPath: "/"}
}

// Metrics returns current usage percentages. Any failing reading fails
// the whole call: partial metrics are worse than a degraded snapshot.
func (p *HostMetrics) Metrics(ctx context.Context) (sampler.MetricsSample, error) {
	var sample sampler.MetricsSample

	// interval 0 reports usage since the previous call, so repeated
	// sampling gives per-tick figures without blocking the tick loop.
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return sample, fmt.Errorf("cpu usage: %w", err)
	}
	if len(percents) == 0 {
		return sample, fmt.Errorf("cpu usage: no readings")
	}
	sample.CPU = clampPercent(percents[0])

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return sample, fmt.Errorf("memory usage: %w", err)
	}
	sample.Memory = clampPercent(vm.UsedPercent)

	du, err := disk.UsageWithContext(ctx, p.diskPath)
	if err != nil {
		return sample, fmt.Errorf("disk usage for %s: %w", p.diskPath, err)
	}
	sample.Disk = clampPercent(du.UsedPercent)

	return sample, nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
