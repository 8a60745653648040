package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"torchenv/internal/gpu"
	"torchenv/internal/logging"
	"torchenv/internal/pip"
)

// Status holds everything the dashboard displays
type Status struct {
	TorchVersion string
	PipAvailable bool
	GPUReport    gpu.Report
	ConfigDir    string
	LogDir       string
	StateDir     string
}

// StatusLoader fetches a fresh status snapshot
type StatusLoader func() Status

// statusMsg delivers a refreshed snapshot into the update loop
type statusMsg Status

// Model represents the dashboard state
type Model struct {
	startTime time.Time
	quitting  bool
	loading   bool

	logger *logging.Logger
	loader StatusLoader

	status    Status
	hasStatus bool
}

// NewModel creates a dashboard model that loads status via the given loader
func NewModel(logger *logging.Logger, loader StatusLoader) Model {
	return Model{
		startTime: time.Now(),
		logger:    logger,
		loader:    loader,
		loading:   true,
	}
}

// Init triggers the initial status load
func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) refresh() tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		return statusMsg(loader())
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.status = Status(msg)
		m.hasStatus = true
		m.loading = false
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.refresh()
		}
	}

	return m, nil
}

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.loading && !m.hasStatus {
		return "Loading environment status...\n"
	}
	return renderStatus(m.status)
}

// torchLine formats the installed-build line
func torchLine(s Status) string {
	if s.TorchVersion == pip.NoTorch || s.TorchVersion == "" {
		return "not installed"
	}
	return s.TorchVersion
}

// gpuLine formats the driver preflight line
func gpuLine(r gpu.Report) string {
	if !r.NVMLOk {
		if r.ErrorMessage != "" {
			return r.ErrorMessage
		}
		return "driver not available"
	}
	return fmt.Sprintf("driver %s, %d GPU(s), max CUDA %d.%d",
		r.DriverVersion, len(r.GPUs), r.MaxCUDAVersion/1000, (r.MaxCUDAVersion%1000)/10)
}
