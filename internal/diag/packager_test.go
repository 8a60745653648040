package diag

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"torchenv/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewWriterLogger(logging.LevelError, io.Discard)
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	base := t.TempDir()

	logDir := filepath.Join(base, "logs")
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(logDir, "setup.log"), []byte("token: secret-value\nok\n"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	configPath := filepath.Join(base, "config.yaml")
	if err := os.WriteFile(configPath, []byte("python:\n  binary: python3\n"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	stateDir := filepath.Join(base, "state")
	if err := os.MkdirAll(stateDir, 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(stateDir, "gpu_report.json"), []byte(`{"nvml_ok":false}`), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	return &Config{
		LogDir:        logDir,
		ConfigPath:    configPath,
		StateDir:      stateDir,
		OutputPath:    filepath.Join(base, "diag.zip"),
		IncludeLogs:   true,
		IncludeConfig: true,
		IncludeState:  true,
		Version:       "test",
	}
}

func TestCreatePackage(t *testing.T) {
	cfg := testConfig(t)
	packager := NewPackager(cfg, testLogger())

	output, err := packager.CreatePackage()
	if err != nil {
		t.Fatalf("CreatePackage() error = %v", err)
	}

	reader, err := zip.OpenReader(output)
	if err != nil {
		t.Fatalf("output is not a valid ZIP: %v", err)
	}
	defer reader.Close()

	want := map[string]bool{
		"logs/setup.log":        false,
		"config/config.yaml":    false,
		"state/gpu_report.json": false,
		"system_info.json":      false,
		"diag_manifest.json":    false,
	}
	for _, file := range reader.File {
		if _, ok := want[file.Name]; ok {
			want[file.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("package missing entry %s", name)
		}
	}
}

func TestCreatePackage_RedactsLogs(t *testing.T) {
	cfg := testConfig(t)
	packager := NewPackager(cfg, testLogger())

	output, err := packager.CreatePackage()
	if err != nil {
		t.Fatalf("CreatePackage() error = %v", err)
	}

	reader, err := zip.OpenReader(output)
	if err != nil {
		t.Fatalf("zip.OpenReader() error = %v", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "logs/setup.log" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("file.Open() error = %v", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if strings.Contains(string(content), "secret-value") {
			t.Error("packaged log still contains the secret")
		}
		return
	}
	t.Fatal("logs/setup.log not found in package")
}

func TestCreatePackage_MissingArtifactsTolerated(t *testing.T) {
	base := t.TempDir()
	cfg := &Config{
		LogDir:        filepath.Join(base, "no-logs"),
		ConfigPath:    filepath.Join(base, "no-config.yaml"),
		StateDir:      filepath.Join(base, "no-state"),
		OutputPath:    filepath.Join(base, "diag.zip"),
		IncludeLogs:   true,
		IncludeConfig: true,
		IncludeState:  true,
		Version:       "test",
	}

	packager := NewPackager(cfg, testLogger())
	if _, err := packager.CreatePackage(); err != nil {
		t.Fatalf("CreatePackage() should produce a partial package, got %v", err)
	}
}
