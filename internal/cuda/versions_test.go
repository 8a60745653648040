package cuda

import (
	"errors"
	"testing"
)

func TestIndexURL_SupportedVersions(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"11.8", "https://download.pytorch.org/whl/cu118"},
		{"12.1", ""},
		{"12.4", "https://download.pytorch.org/whl/cu124"},
		{"12.6", "https://download.pytorch.org/whl/cu126"},
		// Undotted spellings resolve the same way
		{"118", "https://download.pytorch.org/whl/cu118"},
		{"121", ""},
		{"124", "https://download.pytorch.org/whl/cu124"},
		{"126", "https://download.pytorch.org/whl/cu126"},
	}

	for _, tt := range tests {
		got, err := IndexURL(tt.version)
		if err != nil {
			t.Errorf("IndexURL(%q) unexpected error: %v", tt.version, err)
			continue
		}
		if got != tt.want {
			t.Errorf("IndexURL(%q) = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestIndexURL_Unsupported(t *testing.T) {
	for _, version := range []string{"10.2", "12.2", "122", "13", "", "cu121", "12.1.1"} {
		_, err := IndexURL(version)
		if err == nil {
			t.Errorf("IndexURL(%q) expected error, got nil", version)
			continue
		}

		var unsupported *UnsupportedVersionError
		if !errors.As(err, &unsupported) {
			t.Errorf("IndexURL(%q) error = %v, want UnsupportedVersionError", version, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"11.8", "11.8"},
		{"118", "11.8"},
		{"12.6", "12.6"},
		{"126", "12.6"},
		{" 12.4 ", "12.4"},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if err != nil {
			t.Errorf("Normalize(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSuffixAndTag(t *testing.T) {
	suffix, err := Suffix("12.4")
	if err != nil {
		t.Fatalf("Suffix() error = %v", err)
	}
	if suffix != "124" {
		t.Errorf("Suffix(12.4) = %q, want 124", suffix)
	}

	tag, err := Tag("118")
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if tag != "cu118" {
		t.Errorf("Tag(118) = %q, want cu118", tag)
	}
}

func TestTagMatches(t *testing.T) {
	tests := []struct {
		tag     string
		version string
		want    bool
	}{
		{"121", "12.1", true},
		{"cu121", "12.1", true},
		{"cu12.1", "12.1", true},
		{"cu121", "121", true},
		{"cu118", "12.1", false},
		{"cu124", "12.6", false},
		{"", "12.1", false},
		{"cu121", "12.9", false},
	}

	for _, tt := range tests {
		if got := TagMatches(tt.tag, tt.version); got != tt.want {
			t.Errorf("TagMatches(%q, %q) = %v, want %v", tt.tag, tt.version, got, tt.want)
		}
	}
}

func TestSupported(t *testing.T) {
	want := []string{"11.8", "12.1", "12.4", "12.6"}
	got := Supported()
	if len(got) != len(want) {
		t.Fatalf("Supported() returned %d versions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Supported()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
