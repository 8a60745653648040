package diag

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"torchenv/internal/logging"
)

// Packager creates diagnostic ZIP packages
type Packager struct {
	config    *Config
	collector *Collector
	logger    *logging.Logger
}

// NewPackager creates a new diagnostic packager
func NewPackager(config *Config, logger *logging.Logger) *Packager {
	return &Packager{
		config:    config,
		collector: NewCollector(config, logger),
		logger:    logger,
	}
}

// CreatePackage creates a complete diagnostic package
func (p *Packager) CreatePackage() (string, error) {
	p.logger.Info("diag.package.start", "Creating diagnostic package", map[string]interface{}{
		"output": p.config.OutputPath,
	})

	allFiles := make(map[string][]byte)

	logs, err := p.collector.CollectLogs()
	if err != nil {
		p.logger.Error("diag.package.logs_error", "Failed to collect logs", map[string]interface{}{
			"error": err.Error(),
		})
		// Continue with partial package
	}
	for path, content := range logs {
		allFiles[path] = content
	}

	config, err := p.collector.CollectConfig()
	if err != nil {
		p.logger.Error("diag.package.config_error", "Failed to collect config", map[string]interface{}{
			"error": err.Error(),
		})
		// Continue with partial package
	}
	for path, content := range config {
		allFiles[path] = content
	}

	state, err := p.collector.CollectStateReports()
	if err != nil {
		p.logger.Error("diag.package.state_error", "Failed to collect state reports", map[string]interface{}{
			"error": err.Error(),
		})
		// Continue with partial package
	}
	for path, content := range state {
		allFiles[path] = content
	}

	sysInfo, err := p.collector.CollectSystemInfo()
	if err != nil {
		p.logger.Error("diag.package.sysinfo_error", "Failed to collect system info", map[string]interface{}{
			"error": err.Error(),
		})
		// Continue with partial package
	}
	for path, content := range sysInfo {
		allFiles[path] = content
	}

	manifest := p.createManifest(allFiles)
	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}
	allFiles["diag_manifest.json"] = manifestJSON

	if err := p.createZIP(allFiles); err != nil {
		return "", fmt.Errorf("failed to create ZIP: %w", err)
	}

	p.logger.Info("diag.package.complete", "Diagnostic package created", map[string]interface{}{
		"output":     p.config.OutputPath,
		"file_count": len(allFiles),
	})

	return p.config.OutputPath, nil
}

// createManifest generates the diagnostic manifest
func (p *Packager) createManifest(files map[string][]byte) *Manifest {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	manifest := &Manifest{
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Host:            hostname,
		TorchenvVersion: p.config.Version,
		Files:           make([]ManifestFile, 0, len(files)),
	}

	for path, content := range files {
		manifest.Files = append(manifest.Files, ManifestFile{
			Path:      path,
			SizeBytes: int64(len(content)),
			SHA256:    CalculateSHA256(content),
		})
	}

	return manifest
}

// createZIP creates the ZIP archive
func (p *Packager) createZIP(files map[string][]byte) error {
	zipFile, err := os.Create(p.config.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := zipFile.Close(); closeErr != nil {
			p.logger.Warn("diag.package.zipfile.close_error", "Failed to close ZIP file", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	writer := zip.NewWriter(zipFile)
	defer func() {
		if closeErr := writer.Close(); closeErr != nil {
			p.logger.Warn("diag.package.zipwriter.close_error", "Failed to close ZIP writer", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	for path, content := range files {
		entry, err := writer.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create ZIP entry %s: %w", path, err)
		}
		if _, err := entry.Write(content); err != nil {
			return fmt.Errorf("failed to write ZIP entry %s: %w", path, err)
		}
	}

	return nil
}
