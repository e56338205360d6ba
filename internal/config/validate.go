package config

import (
	"fmt"
	"strings"

	"sysglance/internal/errors"
)

// ValidSeverities are the accepted values for log_severity, mapped to
// their journald priority names.
var ValidSeverities = map[string]bool{
	"debug":    true,
	"info":     true,
	"warning":  true,
	"error":    true,
	"critical": true,
}

// Validate checks the config for errors and returns structured error messages.
// A config that passes validation is safe to treat as read-only for the
// lifetime of the process.
func Validate(cfg *Config) error {
	if len(cfg.Services) == 0 {
		return errors.New(errors.ErrConfig,
			"No services configured",
			"Add at least one unit under 'services', e.g. ssh.service")
	}

	seen := make(map[string]bool)
	for i, name := range cfg.Services {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Service entry %d is empty", i+1),
				"Remove the blank entry from the 'services' list")
		}
		if strings.ContainsAny(trimmed, " \t") {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Service name '%s' contains whitespace", trimmed),
				"Unit names look like 'ssh.service' - one name per list entry")
		}
		if seen[trimmed] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Service '%s' is listed twice", trimmed),
				"Each unit may appear only once in 'services'")
		}
		seen[trimmed] = true
	}

	if cfg.LogLimit <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("log_limit must be a positive integer, got %d", cfg.LogLimit),
			"Set log_limit to how many journal entries each snapshot should carry, e.g. 10")
	}

	if cfg.RefreshRate <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("refresh_rate must be a positive number of seconds, got %g", cfg.RefreshRate),
			"Set refresh_rate to the sampling cadence in seconds, e.g. 2")
	}

	if cfg.GracePeriod <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("grace_period must be a positive number of seconds, got %g", cfg.GracePeriod),
			"Set grace_period to how long shutdown may wait for an in-flight sample, e.g. 3")
	}

	if !ValidSeverities[cfg.LogSeverity] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown log_severity '%s'", cfg.LogSeverity),
			"Use one of: debug, info, warning, error, critical")
	}

	if cfg.Web.Addr == "" {
		return errors.New(errors.ErrConfig,
			"web.addr is empty",
			"Set web.addr to a listen address like ':8050'")
	}

	if err := validateTheme("light", cfg.Themes.Light); err != nil {
		return err
	}
	if err := validateTheme("dark", cfg.Themes.Dark); err != nil {
		return err
	}

	return nil
}

// validateTheme checks that all five style slots of a theme are set.
func validateTheme(name string, spec ThemeSpec) error {
	slots := map[string]string{
		"info":    spec.Info,
		"warning": spec.Warning,
		"error":   spec.Error,
		"header":  spec.Header,
		"footer":  spec.Footer,
	}
	for slot, value := range slots {
		if strings.TrimSpace(value) == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Theme '%s' is missing the '%s' style", name, slot),
				fmt.Sprintf("Set themes.%s.%s to a style string like 'bold red'", name, slot))
		}
	}
	return nil
}
