package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"sysglance/internal/errors"
)

// WriteFile marshals the config to YAML and writes it to path,
// creating parent directories as needed. Used by 'sysglance init'.
func WriteFile(path string, cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to serialize config",
			"This is unexpected - please report it")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot create config directory "+dir,
				"Check directory permissions")
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot write config file "+path,
			"Check file permissions")
	}

	return nil
}
