package pip

import (
	"testing"
)

func TestCLIManager_InstalledVersion_AbsentPackage(t *testing.T) {
	// sh -c "<python probe>" is not valid shell, so the probe exits
	// non-zero, which the manager reports as the absent sentinel.
	m := NewCLIManager("sh", "pip", nil)

	version, err := m.InstalledVersion("torch")
	if err != nil {
		t.Fatalf("InstalledVersion() error = %v", err)
	}
	if version != NoTorch {
		t.Errorf("InstalledVersion() = %q, want %q", version, NoTorch)
	}
}

func TestCLIManager_InstalledVersion_MissingInterpreter(t *testing.T) {
	m := NewCLIManager("definitely-not-a-real-binary", "pip", nil)

	if _, err := m.InstalledVersion("torch"); err == nil {
		t.Fatal("InstalledVersion() should fail when the interpreter is missing")
	}
}

func TestCLIManager_IsAvailable(t *testing.T) {
	available := NewCLIManager("python", "true", nil)
	if !available.IsAvailable() {
		t.Error("IsAvailable() = false for a runnable binary")
	}

	missing := NewCLIManager("python", "definitely-not-a-real-binary", nil)
	if missing.IsAvailable() {
		t.Error("IsAvailable() = true for a missing binary")
	}
}

func TestCLIManager_Upgrade_NoPackagesIsNoop(t *testing.T) {
	// A missing binary would fail if Upgrade spawned anything.
	m := NewCLIManager("python", "definitely-not-a-real-binary", nil)

	if err := m.Upgrade(); err != nil {
		t.Errorf("Upgrade() with no packages should be a no-op, got %v", err)
	}
}
