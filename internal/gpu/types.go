package gpu

// Device describes a single GPU visible to the driver
type Device struct {
	Name     string `json:"name"`
	UUID     string `json:"uuid"`
	MemoryMB uint64 `json:"memory_mb"`
	Index    int    `json:"index"`
}

// Report captures the preflight probe of the host's GPU driver, persisted
// as gpu_report.json in the state dir. MaxCUDAVersion is the highest CUDA
// toolkit the driver supports, in NVML encoding (major*1000 + minor*10).
type Report struct {
	DriverVersion  string   `json:"driver_version"`
	MaxCUDAVersion int      `json:"max_cuda_version"`
	NVMLOk         bool     `json:"nvml_ok"`
	GPUs           []Device `json:"gpus"`
	ErrorMessage   string   `json:"error_message,omitempty"`
}

// SupportsToolkit reports whether the driver can run builds compiled
// against the given CUDA toolkit version. Unknown driver state counts
// as unsupported.
func (r Report) SupportsToolkit(dottedVersion string) bool {
	if !r.NVMLOk {
		return false
	}
	encoded, ok := encodeVersion(dottedVersion)
	if !ok {
		return false
	}
	return r.MaxCUDAVersion >= encoded
}

// encodeVersion converts "12.4" into NVML's integer encoding (12040)
func encodeVersion(dotted string) (int, bool) {
	major, minor := 0, 0
	seenDot := false
	for _, r := range dotted {
		if r == '.' {
			if seenDot {
				return 0, false
			}
			seenDot = true
			continue
		}
		if r < '0' || r > '9' {
			return 0, false
		}
		if seenDot {
			minor = minor*10 + int(r-'0')
		} else {
			major = major*10 + int(r-'0')
		}
	}
	if major == 0 {
		return 0, false
	}
	return major*1000 + minor*10, true
}
