package config

// Config represents the complete torchenv configuration
type Config struct {
	Python   PythonConfig   `yaml:"python"`
	Pip      PipConfig      `yaml:"pip"`
	Paths    PathsConfig    `yaml:"paths"`
	Indexes  IndexConfig    `yaml:"indexes"`
	Packages PackagesConfig `yaml:"packages"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PythonConfig selects the interpreter whose environment is mutated
type PythonConfig struct {
	Binary string `yaml:"binary"`
}

// PipConfig selects the package manager binary and extra flags
type PipConfig struct {
	Binary    string   `yaml:"binary"`
	ExtraArgs []string `yaml:"extra_args"`
}

// PathsConfig names the directories torchenv owns on the host
type PathsConfig struct {
	LogDir   string `yaml:"log_dir"`
	TempDir  string `yaml:"temp_dir"`
	StateDir string `yaml:"state_dir"`
}

// IndexConfig allows overriding the package index per CUDA version,
// e.g. to point a CI image at an internal mirror.
type IndexConfig struct {
	Overrides map[string]string `yaml:"overrides"`
}

// PackagesConfig names the auxiliary packages setup installs
type PackagesConfig struct {
	Toolchain []string `yaml:"toolchain"`
	Publisher string   `yaml:"publisher"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}
