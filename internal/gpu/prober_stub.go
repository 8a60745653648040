//go:build !cuda

package gpu

import "torchenv/internal/logging"

// Prober provides a no-op driver preflight when NVML is unavailable.
type Prober struct {
	logger *logging.Logger
}

// NewProber creates a prober that skips NVML when CUDA support is disabled.
func NewProber(logger *logging.Logger) *Prober {
	return &Prober{logger: logger}
}

// Probe returns a report indicating that NVML is unavailable in this build.
func (p *Prober) Probe() Report {
	if p.logger != nil {
		p.logger.Info("gpu.probe.disabled", "Skipping NVML preflight (built without cuda tag)", nil)
	}

	return Report{
		GPUs:         []Device{},
		NVMLOk:       false,
		ErrorMessage: "NVML disabled: rebuild with -tags cuda",
	}
}

// SaveReport persists a preflight report to disk.
func (p *Prober) SaveReport(report Report, filepath string) error {
	return saveReportToFile(p.logger, report, filepath)
}
