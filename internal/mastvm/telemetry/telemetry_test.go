package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerWritesJSONRecords(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, slog.LevelDebug)
	lg.ContextPushed(1, 10, false)

	line := strings.TrimSpace(buf.String())
	var record map[string]interface{}
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("log record is not valid JSON: %v", err)
	}
	if record["msg"] != "context pushed" {
		t.Errorf("msg = %v, want %q", record["msg"], "context pushed")
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, slog.LevelWarn)
	lg.ContextPushed(1, 10, false)
	if buf.Len() != 0 {
		t.Errorf("a Debug-level call should produce no output at Warn level, got %q", buf.String())
	}
	lg.CycleLimitWarning(10, 100)
	if buf.Len() == 0 {
		t.Errorf("a Warn-level call should produce output at Warn level")
	}
}

func TestDiscardProducesNoOutput(t *testing.T) {
	lg := Discard()
	lg.ExecutionFailed(1, nil)
	lg.ExecutionFinished(1, 1)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
