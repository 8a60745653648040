package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"torchenv/internal/gpu"
	"torchenv/internal/logging"
	"torchenv/internal/pip"
)

func testModel() Model {
	logger := logging.NewWriterLogger(logging.LevelError, io.Discard)
	return NewModel(logger, func() Status {
		return Status{
			TorchVersion: "2.1.0+cu121",
			PipAvailable: true,
			GPUReport:    gpu.Report{NVMLOk: true, DriverVersion: "550.54.15", MaxCUDAVersion: 12040},
			ConfigDir:    "/etc/torchenv",
			LogDir:       "/var/log/torchenv",
			StateDir:     "/var/lib/torchenv",
		}
	})
}

func TestModel_LoadsStatusOnInit(t *testing.T) {
	m := testModel()

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init() should return a load command")
	}

	updated, _ := m.Update(cmd())
	model := updated.(Model)

	if !model.hasStatus {
		t.Fatal("model should carry status after the load message")
	}

	view := model.View()
	if !strings.Contains(view, "2.1.0+cu121") {
		t.Errorf("view should show installed build, got:\n%s", view)
	}
	if !strings.Contains(view, "550.54.15") {
		t.Errorf("view should show driver version, got:\n%s", view)
	}
}

func TestModel_QuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		m := testModel()
		updated, cmd := m.Update(keyMsg(key))
		model := updated.(Model)

		if !model.quitting {
			t.Errorf("key %q should set quitting", key)
		}
		if cmd == nil {
			t.Errorf("key %q should return tea.Quit", key)
		}
	}
}

func TestModel_RefreshKey(t *testing.T) {
	m := testModel()
	updated, _ := m.Update(m.Init()())
	model := updated.(Model)

	refreshed, cmd := model.Update(keyMsg("r"))
	model = refreshed.(Model)

	if !model.loading {
		t.Error("r should mark the model as loading")
	}
	if cmd == nil {
		t.Error("r should trigger a reload command")
	}
}

func TestModel_ViewBeforeLoad(t *testing.T) {
	m := testModel()
	if !strings.Contains(m.View(), "Loading") {
		t.Errorf("pre-load view should show a loading hint, got:\n%s", m.View())
	}
}

func TestTorchLine_Absent(t *testing.T) {
	if got := torchLine(Status{TorchVersion: pip.NoTorch}); got != "not installed" {
		t.Errorf("torchLine(no_torch) = %q", got)
	}
}

func keyMsg(key string) tea.Msg {
	switch key {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}
