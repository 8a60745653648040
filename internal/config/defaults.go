package config

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Python: PythonConfig{
			Binary: "python",
		},
		Pip: PipConfig{
			Binary: "pip",
		},
		Paths: PathsConfig{
			LogDir:   "/var/log/torchenv",
			TempDir:  "/tmp/torchenv",
			StateDir: "/var/lib/torchenv",
		},
		Indexes: IndexConfig{
			Overrides: map[string]string{},
		},
		Packages: PackagesConfig{
			Toolchain: []string{"pip", "setuptools", "wheel"},
			Publisher: "twine",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
