package config

import (
	"fmt"
	"path/filepath"

	"torchenv/internal/cuda"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateBinaries()...)
	errors = append(errors, c.validatePaths()...)
	errors = append(errors, c.validateIndexes()...)
	errors = append(errors, c.validatePackages()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateBinaries() []ValidationError {
	var errors []ValidationError

	if c.Python.Binary == "" {
		errors = append(errors, ValidationError{
			Path:    "python.binary",
			Message: "must not be empty",
		})
	}
	if c.Pip.Binary == "" {
		errors = append(errors, ValidationError{
			Path:    "pip.binary",
			Message: "must not be empty",
		})
	}

	return errors
}

func (c *Config) validatePaths() []ValidationError {
	var errors []ValidationError

	paths := map[string]string{
		"paths.log_dir":   c.Paths.LogDir,
		"paths.temp_dir":  c.Paths.TempDir,
		"paths.state_dir": c.Paths.StateDir,
	}
	for key, value := range paths {
		if value == "" {
			errors = append(errors, ValidationError{
				Path:    key,
				Message: "must not be empty",
			})
			continue
		}
		if !filepath.IsAbs(value) {
			errors = append(errors, ValidationError{
				Path:    key,
				Message: fmt.Sprintf("must be an absolute path, got '%s'", value),
			})
		}
	}

	return errors
}

func (c *Config) validateIndexes() []ValidationError {
	var errors []ValidationError

	for version := range c.Indexes.Overrides {
		if _, err := cuda.Normalize(version); err != nil {
			errors = append(errors, ValidationError{
				Path:    "indexes.overrides." + version,
				Message: fmt.Sprintf("not a recognized CUDA version (supported: %v)", cuda.Supported()),
			})
		}
	}

	return errors
}

func (c *Config) validatePackages() []ValidationError {
	var errors []ValidationError

	if len(c.Packages.Toolchain) == 0 {
		errors = append(errors, ValidationError{
			Path:    "packages.toolchain",
			Message: "must name at least one package",
		})
	}
	for i, pkg := range c.Packages.Toolchain {
		if pkg == "" {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("packages.toolchain[%d]", i),
				Message: "must not be empty",
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		errors = append(errors, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validLevels, c.Logging.Level),
		})
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, c.Logging.Format) {
		errors = append(errors, ValidationError{
			Path:    "logging.format",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validFormats, c.Logging.Format),
		})
	}

	return errors
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
