package config

import "time"

// Config represents the complete sysglance.yaml configuration file.
// It is loaded and validated once at startup and treated as read-only
// for the remainder of the process lifetime.
type Config struct {
	// Services is the ordered list of service units to watch.
	// Snapshot order follows this list exactly.
	Services []string `yaml:"services" mapstructure:"services"`

	// LogLimit is the maximum number of journal entries per snapshot.
	LogLimit int `yaml:"log_limit" mapstructure:"log_limit"`

	// RefreshRate is the sampling cadence in seconds.
	RefreshRate float64 `yaml:"refresh_rate" mapstructure:"refresh_rate"`

	// LogSeverity is the minimum journal severity to collect:
	// debug, info, warning, error, or critical.
	LogSeverity string `yaml:"log_severity" mapstructure:"log_severity"`

	// GracePeriod is how long Stop() waits for an in-flight sample
	// to settle, in seconds.
	GracePeriod float64 `yaml:"grace_period" mapstructure:"grace_period"`

	Web    WebConfig `yaml:"web" mapstructure:"web"`
	Themes Themes    `yaml:"themes" mapstructure:"themes"`
}

// WebConfig controls the web front end.
type WebConfig struct {
	// Addr is the listen address for the web dashboard.
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// Themes holds the two display themes. Exactly these two exist per run.
type Themes struct {
	Light ThemeSpec `yaml:"light" mapstructure:"light"`
	Dark  ThemeSpec `yaml:"dark" mapstructure:"dark"`
}

// ThemeSpec maps the five semantic style slots to style-description strings,
// e.g. "bold red" or "white on #1A1A2E".
type ThemeSpec struct {
	Info    string `yaml:"info" mapstructure:"info"`
	Warning string `yaml:"warning" mapstructure:"warning"`
	Error   string `yaml:"error" mapstructure:"error"`
	Header  string `yaml:"header" mapstructure:"header"`
	Footer  string `yaml:"footer" mapstructure:"footer"`
}

// Interval returns the sampling cadence as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.RefreshRate * float64(time.Second))
}

// Grace returns the shutdown grace period as a duration.
func (c *Config) Grace() time.Duration {
	return time.Duration(c.GracePeriod * float64(time.Second))
}

// DefaultConfig returns a Config with sensible defaults.
// The service list and cadence match a typical small server setup.
func DefaultConfig() *Config {
	return &Config{
		Services:    []string{"ssh.service", "cron.service", "networking.service"},
		LogLimit:    10,
		RefreshRate: 2,
		LogSeverity: "error",
		GracePeriod: 3,
		Web: WebConfig{
			Addr: ":8050",
		},
		Themes: Themes{
			Light: ThemeSpec{
				Info:    "blue",
				Warning: "magenta",
				Error:   "bold red",
				Header:  "bold black on white",
				Footer:  "dim black",
			},
			Dark: ThemeSpec{
				Info:    "cyan",
				Warning: "yellow",
				Error:   "bold red",
				Header:  "bold white on blue",
				Footer:  "dim white",
			},
		},
	}
}
