package installer

import "testing"

func TestWheelFilename(t *testing.T) {
	tests := []struct {
		cuda   string
		torch  string
		python string
		want   string
	}{
		{"121", "2.1.0", "310", "torch-2.1.0+cu121-cp310-cp310-linux_x86_64.whl"},
		{"12.1", "2.1.0", "3.10", "torch-2.1.0+cu121-cp310-cp310-linux_x86_64.whl"},
		{"11.8", "2.0.1", "3.9", "torch-2.0.1+cu118-cp39-cp39-linux_x86_64.whl"},
		{"12.6", "2.5.1", "312", "torch-2.5.1+cu126-cp312-cp312-linux_x86_64.whl"},
	}

	for _, tt := range tests {
		got, err := WheelFilename(tt.cuda, tt.torch, tt.python)
		if err != nil {
			t.Errorf("WheelFilename(%q, %q, %q) error = %v", tt.cuda, tt.torch, tt.python, err)
			continue
		}
		if got != tt.want {
			t.Errorf("WheelFilename(%q, %q, %q) = %q, want %q", tt.cuda, tt.torch, tt.python, got, tt.want)
		}
	}
}

func TestWheelFilename_UnsupportedCUDA(t *testing.T) {
	if _, err := WheelFilename("12.9", "2.1.0", "310"); err == nil {
		t.Fatal("WheelFilename() should fail for unsupported CUDA versions")
	}
}

func TestNormalizePython(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"310", "3.10"},
		{"3.10", "3.10"},
		{"39", "3.9"},
		{"3.9", "3.9"},
		{"312", "3.12"},
	}

	for _, tt := range tests {
		got, err := NormalizePython(tt.in)
		if err != nil {
			t.Errorf("NormalizePython(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizePython(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePython_Invalid(t *testing.T) {
	for _, in := range []string{"", "3", "three.ten", "3.x"} {
		if _, err := NormalizePython(in); err == nil {
			t.Errorf("NormalizePython(%q) expected error", in)
		}
	}
}
