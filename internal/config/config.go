package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"torchenv/internal/configdir"
)

const (
	systemConfigFile = "config.yaml"
	userConfigDir    = ".torchenv"
	userConfigFile   = "config.yaml"
)

// Load loads and merges configuration from system and user files
// Priority: defaults < system config < user config
func Load() (Config, error) {
	cfg := DefaultConfig()

	systemPath := filepath.Join(configdir.ConfigDir(), systemConfigFile)
	if err := mergeConfigFile(&cfg, systemPath); err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to load system config: %w", err)
		}
		// System config not existing is OK, continue with defaults
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(homeDir, userConfigDir, userConfigFile)
		if err := mergeConfigFile(&cfg, userPath); err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to load user config: %w", err)
			}
			// User config not existing is OK
		}
	}

	if validationErrors := cfg.Validate(); len(validationErrors) > 0 {
		return cfg, fmt.Errorf("config.validation.error: %v", formatValidationErrors(validationErrors))
	}

	return cfg, nil
}

// LoadFrom loads configuration from a specific file path
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := mergeConfigFile(&cfg, path); err != nil {
		return cfg, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if validationErrors := cfg.Validate(); len(validationErrors) > 0 {
		return cfg, fmt.Errorf("config.validation.error: %v", formatValidationErrors(validationErrors))
	}

	return cfg, nil
}

// mergeConfigFile reads a YAML file and merges it into the existing config
func mergeConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- path is constructed from trusted sources
	if err != nil {
		return err
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfig(cfg, &overlay)

	return nil
}

// mergeConfig merges non-zero values from src into dst
func mergeConfig(dst, src *Config) {
	if src.Python.Binary != "" {
		dst.Python.Binary = src.Python.Binary
	}
	if src.Pip.Binary != "" {
		dst.Pip.Binary = src.Pip.Binary
	}
	if len(src.Pip.ExtraArgs) > 0 {
		dst.Pip.ExtraArgs = src.Pip.ExtraArgs
	}
	if src.Paths.LogDir != "" {
		dst.Paths.LogDir = src.Paths.LogDir
	}
	if src.Paths.TempDir != "" {
		dst.Paths.TempDir = src.Paths.TempDir
	}
	if src.Paths.StateDir != "" {
		dst.Paths.StateDir = src.Paths.StateDir
	}
	if len(src.Indexes.Overrides) > 0 {
		if dst.Indexes.Overrides == nil {
			dst.Indexes.Overrides = map[string]string{}
		}
		for version, url := range src.Indexes.Overrides {
			dst.Indexes.Overrides[version] = url
		}
	}
	if len(src.Packages.Toolchain) > 0 {
		dst.Packages.Toolchain = src.Packages.Toolchain
	}
	if src.Packages.Publisher != "" {
		dst.Packages.Publisher = src.Packages.Publisher
	}
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
}

func formatValidationErrors(errors []ValidationError) string {
	result := ""
	for i, err := range errors {
		if i > 0 {
			result += "; "
		}
		result += err.Error()
	}
	return result
}
