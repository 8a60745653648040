package installer

import (
	"fmt"
	"strings"

	"torchenv/internal/cuda"
)

// NormalizePython accepts a dotted or undotted interpreter version and
// returns the canonical dotted form ("310" and "3.10" both yield "3.10").
func NormalizePython(version string) (string, error) {
	v := strings.TrimSpace(version)
	if v == "" {
		return "", fmt.Errorf("python version must not be empty")
	}

	digits := strings.ReplaceAll(v, ".", "")
	if len(digits) < 2 {
		return "", fmt.Errorf("python version %q too short", version)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("python version %q is not numeric", version)
		}
	}

	// Major versions are single digit; everything after is the minor
	return digits[:1] + "." + digits[1:], nil
}

// WheelFilename formats the expected wheel artifact name for a torch
// build, following the upstream naming scheme
// torch-<v>+cu<cuda>-cp<py>-cp<py>-linux_x86_64.whl.
func WheelFilename(cudaVersion, torchVersion, pythonVersion string) (string, error) {
	suffix, err := cuda.Suffix(cudaVersion)
	if err != nil {
		return "", err
	}

	python, err := NormalizePython(pythonVersion)
	if err != nil {
		return "", err
	}
	pyTag := "cp" + strings.ReplaceAll(python, ".", "")

	return fmt.Sprintf("torch-%s+cu%s-%s-%s-linux_x86_64.whl", torchVersion, suffix, pyTag, pyTag), nil
}
