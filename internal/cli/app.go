package cli

import (
	"time"

	"sysglance/internal/config"
	"sysglance/internal/logger"
	"sysglance/internal/provider"
	"sysglance/internal/sampler"
	"sysglance/internal/scheduler"
	"sysglance/internal/state"
	"sysglance/internal/theme"
)

// app is the assembled runtime: providers feeding the sampler, the
// scheduler driving it, and the holder that front ends read from.
type app struct {
	cfg       *config.Config
	holder    *state.Holder
	themes    *theme.Controller
	scheduler *scheduler.Scheduler
	log       logger.Logger
}

// buildApp loads config and wires the sampling pipeline. interval
// overrides the configured refresh rate when non-zero.
func buildApp(interval time.Duration) (*app, error) {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return nil, err
	}

	if interval == 0 {
		interval = cfg.Interval()
	}

	log := logger.NewEnvLogger("sysglance")

	light, dark := theme.Pair(cfg.Themes)
	themes := theme.NewController(light, dark)
	holder := state.NewHolder(themes)

	smp := sampler.New(cfg,
		provider.NewHostMetrics(),
		provider.NewSystemdStatus(),
		provider.NewJournal(),
		log)

	sched := scheduler.New(smp, interval, cfg.Grace(), holder.Publish, log)

	return &app{
		cfg:       cfg,
		holder:    holder,
		themes:    themes,
		scheduler: sched,
		log:       log,
	}, nil
}
