//go:build cuda

package gpu

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"torchenv/internal/logging"
)

// Prober performs the driver preflight before a torch install
type Prober struct {
	nvml   NVMLInterface
	logger *logging.Logger
}

// NewProber creates a prober backed by the real NVML library
func NewProber(logger *logging.Logger) *Prober {
	return &Prober{
		nvml:   NewRealNVML(),
		logger: logger,
	}
}

// NewProberWithNVML creates a prober with a custom NVML interface (for testing)
func NewProberWithNVML(nvmlInterface NVMLInterface, logger *logging.Logger) *Prober {
	return &Prober{
		nvml:   nvmlInterface,
		logger: logger,
	}
}

// Probe inspects the driver and returns a preflight report
func (p *Prober) Probe() Report {
	p.logger.Info("gpu.probe.start", "Starting driver preflight", nil)

	report := Report{
		GPUs: make([]Device, 0),
	}

	ret := p.nvml.Init()
	if ret != nvml.SUCCESS {
		report.NVMLOk = false
		report.ErrorMessage = fmt.Sprintf("Failed to initialize NVML: %v", nvml.ErrorString(ret))
		p.logger.Warn("gpu.nvml.init.failed", "NVML initialization failed", map[string]interface{}{
			"error": report.ErrorMessage,
		})
		return report
	}
	defer p.nvml.Shutdown()

	report.NVMLOk = true

	driverVersion, ret := p.nvml.SystemGetDriverVersion()
	if ret != nvml.SUCCESS {
		p.logger.Warn("gpu.driver.version.failed", "Failed to get driver version", map[string]interface{}{
			"error": nvml.ErrorString(ret),
		})
	} else {
		report.DriverVersion = driverVersion
	}

	maxCUDA, ret := p.nvml.SystemGetCudaDriverVersion()
	if ret != nvml.SUCCESS {
		p.logger.Warn("gpu.cuda.version.failed", "Failed to get max CUDA version", map[string]interface{}{
			"error": nvml.ErrorString(ret),
		})
	} else {
		report.MaxCUDAVersion = maxCUDA
	}

	count, ret := p.nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		report.ErrorMessage = fmt.Sprintf("Failed to get device count: %v", nvml.ErrorString(ret))
		p.logger.Error("gpu.device.count.failed", "Failed to get GPU count", map[string]interface{}{
			"error": report.ErrorMessage,
		})
		return report
	}

	p.logger.Info("gpu.device.count", "Found GPU devices", map[string]interface{}{
		"count": count,
	})

	for i := 0; i < count; i++ {
		device, ret := p.nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			p.logger.Warn("gpu.device.handle.failed", "Failed to get device handle", map[string]interface{}{
				"index": i,
				"error": nvml.ErrorString(ret),
			})
			continue
		}

		info := Device{Index: i}

		if name, ret := device.GetName(); ret == nvml.SUCCESS {
			info.Name = name
		}
		if uuid, ret := device.GetUUID(); ret == nvml.SUCCESS {
			info.UUID = uuid
		}
		if memInfo, ret := device.GetMemoryInfo(); ret == nvml.SUCCESS {
			info.MemoryMB = memInfo.Total / (1024 * 1024)
		}

		report.GPUs = append(report.GPUs, info)
	}

	return report
}

// SaveReport persists a preflight report to disk
func (p *Prober) SaveReport(report Report, filepath string) error {
	return saveReportToFile(p.logger, report, filepath)
}
