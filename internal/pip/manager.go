package pip

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// NoTorch is the sentinel probe result when the queried package is not
// installed in the active interpreter.
const NoTorch = "no_torch"

// Manager represents the package manager mutating the interpreter
// environment. An injected implementation keeps the installer logic
// testable without touching a real environment.
type Manager interface {
	// InstalledVersion returns the installed version string of a package,
	// or the NoTorch sentinel when the package is absent
	InstalledVersion(pkg string) (string, error)
	// Install installs a package spec, optionally from a specific index URL
	Install(spec string, indexURL string) error
	// Uninstall removes a package if present
	Uninstall(pkg string) error
	// Upgrade upgrades the given packages to their latest releases
	Upgrade(pkgs ...string) error
	// PurgeCache clears the package manager's download cache
	PurgeCache() error
	// IsAvailable checks if the package manager binary is on the path
	IsAvailable() bool
}

// CLIManager implements Manager on top of the pip and python binaries
type CLIManager struct {
	pythonBinary string
	pipBinary    string
	extraArgs    []string
}

// NewCLIManager creates a manager driving the given binaries
func NewCLIManager(pythonBinary, pipBinary string, extraArgs []string) *CLIManager {
	return &CLIManager{
		pythonBinary: pythonBinary,
		pipBinary:    pipBinary,
		extraArgs:    extraArgs,
	}
}

// IsAvailable checks if the pip binary can be invoked
func (m *CLIManager) IsAvailable() bool {
	cmd := exec.Command(m.pipBinary, "--version") // #nosec G204 -- binary name comes from validated configuration
	return cmd.Run() == nil
}

// InstalledVersion queries the active interpreter for a package's version.
// A failed import means the package is absent, which is not an error.
func (m *CLIManager) InstalledVersion(pkg string) (string, error) {
	probe := fmt.Sprintf("import importlib.metadata as m; print(m.version(%q), end='')", pkg)

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(m.pythonBinary, "-c", probe) // #nosec G204 -- binary name comes from validated configuration
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			return NoTorch, nil
		}
		return "", fmt.Errorf("failed to probe %s version: %w", pkg, err)
	}

	version := strings.TrimSpace(stdout.String())
	if version == "" {
		return NoTorch, nil
	}
	return version, nil
}

// Install installs a package spec, from indexURL when non-empty
func (m *CLIManager) Install(spec string, indexURL string) error {
	args := []string{"install", spec}
	if indexURL != "" {
		args = append(args, "--index-url", indexURL)
	}
	args = append(args, m.extraArgs...)

	return m.run(args, fmt.Sprintf("install %s", spec))
}

// Uninstall removes a package without prompting
func (m *CLIManager) Uninstall(pkg string) error {
	return m.run([]string{"uninstall", "-y", pkg}, fmt.Sprintf("uninstall %s", pkg))
}

// Upgrade upgrades the given packages from the primary index
func (m *CLIManager) Upgrade(pkgs ...string) error {
	if len(pkgs) == 0 {
		return nil
	}
	args := append([]string{"install", "--upgrade"}, pkgs...)
	return m.run(args, fmt.Sprintf("upgrade %s", strings.Join(pkgs, " ")))
}

// PurgeCache clears pip's download cache
func (m *CLIManager) PurgeCache() error {
	return m.run([]string{"cache", "purge"}, "purge cache")
}

func (m *CLIManager) run(args []string, action string) error {
	// #nosec G204 -- arguments are built from validated versions and configuration
	cmd := exec.Command(m.pipBinary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s failed: %w, stderr: %s", m.pipBinary, action, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
