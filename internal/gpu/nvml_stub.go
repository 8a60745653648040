//go:build !cuda

package gpu

import "torchenv/internal/logging"

// NVMLInterface is a placeholder interface for builds without CUDA support.
type NVMLInterface interface{}

// DeviceInterface is a placeholder for builds without CUDA support.
type DeviceInterface interface{}

// NewProberWithNVML is provided for API compatibility; NVML is ignored
// when CUDA support is disabled.
func NewProberWithNVML(_ NVMLInterface, logger *logging.Logger) *Prober {
	return NewProber(logger)
}
