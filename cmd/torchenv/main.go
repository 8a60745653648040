package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"torchenv/internal/config"
	"torchenv/internal/configdir"
	"torchenv/internal/cuda"
	"torchenv/internal/diag"
	"torchenv/internal/fsutil"
	"torchenv/internal/gpu"
	"torchenv/internal/installer"
	"torchenv/internal/logging"
	"torchenv/internal/pip"
	"torchenv/internal/secrets"
	"torchenv/internal/tui"
)

const version = "0.1.0-dev"

const setupLogFile = "setup.log"

func main() {
	if len(os.Args) <= 1 {
		runDashboard()
		return
	}

	command := strings.ToLower(os.Args[1])
	if handler, ok := commandHandlers()[command]; ok {
		handler()
		return
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
	printUsage()
	os.Exit(1)
}

func commandHandlers() map[string]func() {
	return map[string]func(){
		"setup":         runSetup,
		"resolve-index": runResolveIndex,
		"wheel-name":    runWheelName,
		"status":        runStatus,
		"gpu-check":     runGPUCheck,
		"token":         runToken,
		"diag":          runDiag,
		"config":        runConfig,
		"version":       runVersion,
		"help":          printUsage,
		"--help":        printUsage,
		"-h":            printUsage,
	}
}

func runVersion() {
	fmt.Printf("torchenv version %s\n", version)
}

// runSetup provisions the machine: torch build matched to the CUDA
// toolkit, packaging toolchain, publishing tool, cache cleanup.
func runSetup() {
	args := os.Args[2:]
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: torchenv setup <cuda-version> <torch-version> <python-version> [reserved]")
		os.Exit(1)
	}
	// A fourth positional argument is accepted and ignored (reserved)
	cudaVersion, torchVersion, pythonVersion := args[0], args[1], args[2]

	cfg := loadConfigOrExit()

	// The log directory is emptied before anything else runs
	if err := fsutil.ResetDir(cfg.Paths.LogDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to reset log directory: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFileLogger(logging.Level(cfg.Logging.Level), filepath.Join(cfg.Paths.LogDir, setupLogFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Close() }()

	stateDir := fsutil.GetStateDir(cfg.Paths.StateDir)
	if err := fsutil.EnsureStateDirectory(stateDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runPreflight(logger, stateDir, cudaVersion)

	inst := installer.New(
		pip.NewCLIManager(cfg.Python.Binary, cfg.Pip.Binary, cfg.Pip.ExtraArgs),
		logger,
		installerOptions(cfg, logger, stateDir),
	)

	if err := inst.Setup(cudaVersion, torchVersion, pythonVersion); err != nil {
		logger.Error("setup.failed", "Environment provisioning failed", map[string]interface{}{
			"error": err.Error(),
		})
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitForError(err)
	}

	fmt.Println("Environment provisioned successfully")
}

// runPreflight probes the GPU driver and warns when it cannot run builds
// for the requested toolkit. Advisory only.
func runPreflight(logger *logging.Logger, stateDir, cudaVersion string) {
	prober := gpu.NewProber(logger)
	report := prober.Probe()

	if err := prober.SaveReport(report, filepath.Join(stateDir, "gpu_report.json")); err != nil {
		logger.Warn("setup.gpu.report_failed", "Failed to persist GPU report", map[string]interface{}{
			"error": err.Error(),
		})
	}

	dotted, err := cuda.Normalize(cudaVersion)
	if err != nil {
		return // setup will reject the version with the proper exit code
	}
	if report.NVMLOk && !report.SupportsToolkit(dotted) {
		logger.Warn("setup.gpu.driver_too_old", "Driver does not support the requested CUDA toolkit", map[string]interface{}{
			"requested": dotted,
			"max_cuda":  report.MaxCUDAVersion,
		})
		fmt.Fprintf(os.Stderr, "Warning: installed driver does not support CUDA %s\n", dotted)
	}
}

func runResolveIndex() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: torchenv resolve-index <cuda-version>")
		os.Exit(1)
	}

	cfg := loadConfigOrExit()
	logger := logging.NewLogger(logging.Level(cfg.Logging.Level))
	inst := installer.New(nil, logger, installer.Options{
		IndexOverrides: cfg.Indexes.Overrides,
	})

	url, err := inst.ResolveIndexURL(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitForError(err)
	}
	fmt.Println(url)
}

func runWheelName() {
	if len(os.Args) < 5 {
		fmt.Fprintln(os.Stderr, "Usage: torchenv wheel-name <cuda-version> <torch-version> <python-version>")
		os.Exit(1)
	}

	name, err := installer.WheelFilename(os.Args[2], os.Args[3], os.Args[4])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitForError(err)
	}
	fmt.Println(name)
}

func runStatus() {
	cfg := loadConfigOrExit()
	logger := logging.NewLogger(logging.LevelWarn)

	status := collectStatus(cfg, logger)

	fmt.Println("=== torchenv Environment Status ===")
	fmt.Println()
	if status.TorchVersion == pip.NoTorch || status.TorchVersion == "" {
		fmt.Println("Torch:   not installed")
	} else {
		fmt.Printf("Torch:   %s\n", status.TorchVersion)
	}
	if status.PipAvailable {
		fmt.Printf("Pip:     %s (available)\n", cfg.Pip.Binary)
	} else {
		fmt.Printf("Pip:     %s (NOT FOUND)\n", cfg.Pip.Binary)
	}
	if status.GPUReport.NVMLOk {
		fmt.Printf("Driver:  %s (max CUDA %d.%d)\n", status.GPUReport.DriverVersion,
			status.GPUReport.MaxCUDAVersion/1000, (status.GPUReport.MaxCUDAVersion%1000)/10)
	} else {
		fmt.Printf("Driver:  unavailable (%s)\n", status.GPUReport.ErrorMessage)
	}
	fmt.Println()
	fmt.Printf("Config dir: %s\n", status.ConfigDir)
	fmt.Printf("Log dir:    %s\n", status.LogDir)
	fmt.Printf("State dir:  %s\n", status.StateDir)
}

func runGPUCheck() {
	cfg := loadConfigOrExit()
	logger := logging.NewLogger(logging.Level(cfg.Logging.Level))

	prober := gpu.NewProber(logger)
	report := prober.Probe()

	if report.NVMLOk {
		fmt.Printf("Driver version: %s\n", report.DriverVersion)
		fmt.Printf("Max CUDA:       %d.%d\n", report.MaxCUDAVersion/1000, (report.MaxCUDAVersion%1000)/10)
		for _, device := range report.GPUs {
			fmt.Printf("GPU %d: %s (%d MB)\n", device.Index, device.Name, device.MemoryMB)
		}
		for _, toolkit := range cuda.Supported() {
			verdict := "no"
			if report.SupportsToolkit(toolkit) {
				verdict = "yes"
			}
			fmt.Printf("CUDA %s supported: %s\n", toolkit, verdict)
		}
	} else {
		fmt.Printf("GPU preflight unavailable: %s\n", report.ErrorMessage)
	}

	stateDir := fsutil.GetStateDir(cfg.Paths.StateDir)
	if err := fsutil.EnsureStateDirectory(stateDir); err == nil {
		if err := prober.SaveReport(report, filepath.Join(stateDir, "gpu_report.json")); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save report: %v\n", err)
		}
	}
}

func runToken() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: torchenv token <set|clear> [value]")
		os.Exit(1)
	}

	cfg := loadConfigOrExit()
	logger := logging.NewLogger(logging.Level(cfg.Logging.Level))

	stateDir := fsutil.GetStateDir(cfg.Paths.StateDir)
	store, err := secrets.NewTokenStore(stateDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[2] {
	case "set":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: torchenv token set <value>")
			os.Exit(1)
		}
		if err := store.SetToken(os.Args[3]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Index token stored")
	case "clear":
		if err := store.ClearToken(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Index token cleared")
	default:
		fmt.Fprintf(os.Stderr, "Unknown token subcommand: %s\n", os.Args[2])
		os.Exit(1)
	}
}

func runDiag() {
	cfg := loadConfigOrExit()
	logger := logging.NewLogger(logging.Level(cfg.Logging.Level))

	diagConfig := diag.NewConfig(version)
	diagConfig.LogDir = cfg.Paths.LogDir
	diagConfig.ConfigPath = filepath.Join(configdir.ConfigDir(), "config.yaml")
	diagConfig.StateDir = fsutil.GetStateDir(cfg.Paths.StateDir)

	packager := diag.NewPackager(diagConfig, logger)
	output, err := packager.CreatePackage()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Diagnostic package created: %s\n", output)
}

func runConfig() {
	cfg := loadConfigOrExit()

	fmt.Println("=== Effective Configuration ===")
	fmt.Println()
	fmt.Printf("python.binary:      %s\n", cfg.Python.Binary)
	fmt.Printf("pip.binary:         %s\n", cfg.Pip.Binary)
	fmt.Printf("paths.log_dir:      %s\n", cfg.Paths.LogDir)
	fmt.Printf("paths.temp_dir:     %s\n", cfg.Paths.TempDir)
	fmt.Printf("paths.state_dir:    %s\n", cfg.Paths.StateDir)
	fmt.Printf("packages.toolchain: %s\n", strings.Join(cfg.Packages.Toolchain, " "))
	fmt.Printf("packages.publisher: %s\n", cfg.Packages.Publisher)
	fmt.Printf("logging.level:      %s\n", cfg.Logging.Level)
	if len(cfg.Indexes.Overrides) > 0 {
		fmt.Println("indexes.overrides:")
		for _, toolkit := range cuda.Supported() {
			if url, ok := cfg.Indexes.Overrides[toolkit]; ok {
				fmt.Printf("  %s: %s\n", toolkit, url)
			}
		}
	}
}

func runDashboard() {
	cfg := loadConfigOrExit()
	logger := logging.NewLogger(logging.LevelWarn)

	model := tui.NewModel(logger, func() tui.Status {
		return collectStatus(cfg, logger)
	})

	if _, err := tea.NewProgram(model).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func collectStatus(cfg config.Config, logger *logging.Logger) tui.Status {
	manager := pip.NewCLIManager(cfg.Python.Binary, cfg.Pip.Binary, cfg.Pip.ExtraArgs)

	torchVersion, err := manager.InstalledVersion(installer.TorchPackage)
	if err != nil {
		torchVersion = pip.NoTorch
	}

	return tui.Status{
		TorchVersion: torchVersion,
		PipAvailable: manager.IsAvailable(),
		GPUReport:    gpu.NewProber(logger).Probe(),
		ConfigDir:    configdir.ConfigDir(),
		LogDir:       cfg.Paths.LogDir,
		StateDir:     fsutil.GetStateDir(cfg.Paths.StateDir),
	}
}

func installerOptions(cfg config.Config, logger *logging.Logger, stateDir string) installer.Options {
	opts := installer.Options{
		Toolchain:      cfg.Packages.Toolchain,
		Publisher:      cfg.Packages.Publisher,
		TempDir:        cfg.Paths.TempDir,
		IndexOverrides: cfg.Indexes.Overrides,
	}

	// A stored index token only matters when overrides point at a mirror
	if len(cfg.Indexes.Overrides) > 0 {
		if store, err := secrets.NewTokenStore(stateDir, logger); err == nil {
			if token, err := store.Token(); err == nil {
				opts.IndexToken = token
			}
		}
	}

	return opts
}

func loadConfigOrExit() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// exitForError maps error kinds to process exit codes. An unrecognized
// CUDA version carries its own distinct code.
func exitForError(err error) {
	var unsupported *cuda.UnsupportedVersionError
	if errors.As(err, &unsupported) {
		os.Exit(cuda.ExitCodeUnsupported)
	}
	os.Exit(1)
}

func printUsage() {
	fmt.Println(`torchenv — CI machine provisioning for CUDA-matched torch builds

Usage:
  torchenv                                   Interactive status dashboard
  torchenv setup <cuda> <torch> <python>     Provision the environment
                 [reserved]                  (fourth argument is reserved)
  torchenv resolve-index <cuda>              Print the package index URL
  torchenv wheel-name <cuda> <torch> <py>    Print the expected wheel name
  torchenv status                            Show environment status
  torchenv gpu-check                         Run the GPU driver preflight
  torchenv token set <value>                 Store the index credential
  torchenv token clear                       Remove the index credential
  torchenv diag                              Create a diagnostic package
  torchenv config                            Show effective configuration
  torchenv version                           Show version

Exit codes:
  0    success
  111  unrecognized CUDA version (supported: 11.8, 12.1, 12.4, 12.6)
  1    any other failure`)
}
