package diag

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"torchenv/internal/logging"
)

// Collector gathers diagnostic artifacts
type Collector struct {
	config   *Config
	redactor *Redactor
	logger   *logging.Logger
}

// NewCollector creates a new diagnostic collector
func NewCollector(config *Config, logger *logging.Logger) *Collector {
	return &Collector{
		config:   config,
		redactor: NewRedactor(),
		logger:   logger,
	}
}

// CollectLogs gathers all log files from the log directory
func (c *Collector) CollectLogs() (map[string][]byte, error) {
	if !c.config.IncludeLogs {
		return nil, nil
	}

	files := make(map[string][]byte)

	if _, err := os.Stat(c.config.LogDir); os.IsNotExist(err) {
		c.logger.Warn("diag.collect.logs.missing", "Log directory not found", map[string]interface{}{
			"path": c.config.LogDir,
		})
		return files, nil
	}

	err := filepath.Walk(c.config.LogDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			c.logger.Warn("diag.collect.logs.walk_error", "Error accessing file", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			return nil // Continue walking
		}

		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".log" {
			return nil
		}

		content, err := os.ReadFile(path) // #nosec G304 -- paths come from walking the configured log dir
		if err != nil {
			c.logger.Warn("diag.collect.logs.read_error", "Failed to read log file", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			return nil // Continue with other files
		}

		relPath, err := filepath.Rel(c.config.LogDir, path)
		if err != nil {
			relPath = filepath.Base(path)
		}

		files["logs/"+relPath] = []byte(c.redactor.RedactFile(string(content)))
		return nil
	})

	if err != nil {
		return files, fmt.Errorf("failed to walk log directory: %w", err)
	}

	c.logger.Info("diag.collect.logs.complete", "Log collection complete", map[string]interface{}{
		"file_count": len(files),
	})

	return files, nil
}

// CollectConfig gathers and redacts the configuration file
func (c *Collector) CollectConfig() (map[string][]byte, error) {
	if !c.config.IncludeConfig {
		return nil, nil
	}

	files := make(map[string][]byte)

	if _, err := os.Stat(c.config.ConfigPath); os.IsNotExist(err) {
		c.logger.Warn("diag.collect.config.missing", "Config file not found", map[string]interface{}{
			"path": c.config.ConfigPath,
		})
		return files, nil
	}

	content, err := os.ReadFile(c.config.ConfigPath) // #nosec G304 -- path comes from diag configuration
	if err != nil {
		c.logger.Error("diag.collect.config.read_error", "Failed to read config file", map[string]interface{}{
			"path":  c.config.ConfigPath,
			"error": err.Error(),
		})
		return files, fmt.Errorf("failed to read config: %w", err)
	}

	files["config/config.yaml"] = []byte(c.redactor.RedactFile(string(content)))

	c.logger.Info("diag.collect.config.complete", "Config collection complete", map[string]interface{}{
		"redacted": true,
	})

	return files, nil
}

// CollectStateReports gathers machine state artifacts (the GPU preflight
// report) from the state directory
func (c *Collector) CollectStateReports() (map[string][]byte, error) {
	if !c.config.IncludeState {
		return nil, nil
	}

	files := make(map[string][]byte)

	reportPath := filepath.Join(c.config.StateDir, "gpu_report.json")
	content, err := os.ReadFile(reportPath) // #nosec G304 -- path is constructed from the configured state dir
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("diag.collect.state.read_error", "Failed to read GPU report", map[string]interface{}{
				"path":  reportPath,
				"error": err.Error(),
			})
		}
		return files, nil
	}

	files["state/gpu_report.json"] = content

	c.logger.Info("diag.collect.state.complete", "State collection complete", map[string]interface{}{
		"file_count": len(files),
	})

	return files, nil
}

// CollectSystemInfo gathers system and version information
func (c *Collector) CollectSystemInfo() (map[string][]byte, error) {
	files := make(map[string][]byte)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	sysInfo := map[string]interface{}{
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"host":             hostname,
		"torchenv_version": c.config.Version,
	}

	sysInfoJSON, err := json.MarshalIndent(sysInfo, "", "  ")
	if err != nil {
		return files, fmt.Errorf("failed to marshal system info: %w", err)
	}

	files["system_info.json"] = sysInfoJSON

	c.logger.Info("diag.collect.sysinfo.complete", "System info collection complete", nil)

	return files, nil
}

// CalculateSHA256 computes SHA256 hash of data
func CalculateSHA256(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
