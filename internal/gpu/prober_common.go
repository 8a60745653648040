package gpu

import (
	"encoding/json"
	"fmt"

	"torchenv/internal/fsutil"
	"torchenv/internal/logging"
)

func saveReportToFile(logger *logging.Logger, report Report, filepath string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := fsutil.AtomicWriteFile(filepath, data, fsutil.DefaultFilePermissions, logger); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	if logger != nil {
		logger.Info("gpu.report.saved", "Driver preflight report saved", map[string]interface{}{
			"filepath": filepath,
		})
	}

	return nil
}
