package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"sysglance/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = "sysglance.yaml"
	// GlobalConfigDir is the directory for global config, under $HOME.
	GlobalConfigDir = ".config/sysglance"
)

// Load reads and validates config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'sysglance init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. sysglance.yaml in the current directory
// 3. ~/.config/sysglance/sysglance.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, ConfigFileName)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns validated
// defaults if no config file exists.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}

	if path == "" {
		cfg := DefaultConfig()
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return Load(path)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	setDefaults(v, cfg)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers defaults with viper so absent keys fall back
// instead of zeroing the merged struct.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("services", cfg.Services)
	v.SetDefault("log_limit", cfg.LogLimit)
	v.SetDefault("refresh_rate", cfg.RefreshRate)
	v.SetDefault("log_severity", cfg.LogSeverity)
	v.SetDefault("grace_period", cfg.GracePeriod)
	v.SetDefault("web.addr", cfg.Web.Addr)
	v.SetDefault("themes.light.info", cfg.Themes.Light.Info)
	v.SetDefault("themes.light.warning", cfg.Themes.Light.Warning)
	v.SetDefault("themes.light.error", cfg.Themes.Light.Error)
	v.SetDefault("themes.light.header", cfg.Themes.Light.Header)
	v.SetDefault("themes.light.footer", cfg.Themes.Light.Footer)
	v.SetDefault("themes.dark.info", cfg.Themes.Dark.Info)
	v.SetDefault("themes.dark.warning", cfg.Themes.Dark.Warning)
	v.SetDefault("themes.dark.error", cfg.Themes.Dark.Error)
	v.SetDefault("themes.dark.header", cfg.Themes.Dark.Header)
	v.SetDefault("themes.dark.footer", cfg.Themes.Dark.Footer)
}
