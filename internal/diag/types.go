package diag

import "time"

// Manifest represents the diagnostic package manifest
type Manifest struct {
	Timestamp       string         `json:"timestamp"`
	Host            string         `json:"host"`
	TorchenvVersion string         `json:"torchenv_version"`
	Files           []ManifestFile `json:"files"`
}

// ManifestFile represents a file in the diagnostic package
type ManifestFile struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	SHA256    string `json:"sha256"`
}

// Config configures diagnostic collection
type Config struct {
	LogDir        string
	ConfigPath    string
	StateDir      string
	OutputPath    string
	IncludeLogs   bool
	IncludeConfig bool
	IncludeState  bool
	Version       string
}

// NewConfig creates a default diagnostic config
func NewConfig(version string) *Config {
	return &Config{
		LogDir:        "/var/log/torchenv",
		ConfigPath:    "/etc/torchenv/config.yaml",
		StateDir:      "/var/lib/torchenv",
		OutputPath:    generateOutputPath(),
		IncludeLogs:   true,
		IncludeConfig: true,
		IncludeState:  true,
		Version:       version,
	}
}

func generateOutputPath() string {
	timestamp := time.Now().UTC().Format("20060102-150405")
	return "torchenv-diag-" + timestamp + ".zip"
}
