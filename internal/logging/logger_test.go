package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(LevelWarn, &buf)

	logger.Debug("setup.debug", "should be filtered", nil)
	logger.Info("setup.info", "should be filtered", nil)
	logger.Warn("setup.warn", "should appear", nil)
	logger.Error("setup.error", "should appear", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
	}
}

func TestLogger_EventShape(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(LevelInfo, &buf)

	logger.Info("setup.torch.skip", "Requested build already installed", map[string]interface{}{
		"installed": "2.1.0+cu121",
	})

	var event Event
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}

	if event.Type != "setup.torch.skip" {
		t.Errorf("Type = %s, want setup.torch.skip", event.Type)
	}
	if event.Level != LevelInfo {
		t.Errorf("Level = %s, want info", event.Level)
	}
	if event.Payload["installed"] != "2.1.0+cu121" {
		t.Errorf("Payload[installed] = %v, want 2.1.0+cu121", event.Payload["installed"])
	}
	if event.Timestamp == "" {
		t.Error("Timestamp should not be empty")
	}
}

func TestLogger_NilPayloadOmitted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(LevelInfo, &buf)

	logger.Info("setup.start", "starting", nil)

	if strings.Contains(buf.String(), "payload") {
		t.Errorf("nil payload should be omitted from output: %q", buf.String())
	}
}
