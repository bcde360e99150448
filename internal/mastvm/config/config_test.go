package config

import (
	"os"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig should validate, got: %v", err)
	}
}

func TestValidateRejectsZeroMaxCycles(t *testing.T) {
	c := DefaultConfig().WithMaxCycles(0)
	if err := c.Validate(); err == nil {
		t.Errorf("Validate should reject MaxCycles == 0")
	}
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	c := DefaultConfig()
	c.LogLevel = "verbose"
	if err := c.Validate(); err == nil {
		t.Errorf("Validate should reject an unrecognized log level")
	}
}

func TestWithDebugModeEnablesTracing(t *testing.T) {
	c := DefaultConfig().WithDebugMode(true)
	if !c.EnableTracing {
		t.Errorf("WithDebugMode(true) should also enable tracing")
	}
}

func TestLoadFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("MASTVM_MAX_CYCLES", "12345")
	t.Setenv("MASTVM_ENABLE_TRACING", "true")
	t.Setenv("MASTVM_LOG_LEVEL", "debug")
	defer os.Unsetenv("MASTVM_DEBUG_MODE")

	c, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if c.MaxCycles != 12345 {
		t.Errorf("MaxCycles = %d, want 12345", c.MaxCycles)
	}
	if !c.EnableTracing {
		t.Errorf("EnableTracing = false, want true")
	}
	if c.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", c.LogLevel)
	}
}

func TestLoadFromEnvRejectsBadValue(t *testing.T) {
	t.Setenv("MASTVM_MAX_CYCLES", "not-a-number")
	if _, err := LoadFromEnv(); err == nil {
		t.Errorf("LoadFromEnv should fail on a malformed MASTVM_MAX_CYCLES")
	}
}
