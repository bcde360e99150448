// Package config holds the execution knobs a driver is constructed with,
// loaded from environment variables with explicit, validated defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config bundles the resource limits and diagnostic toggles an execution
// run is configured with.
type Config struct {
	MaxCycles     uint32
	EnableTracing bool
	DebugMode     bool
	LogLevel      string
}

// DefaultConfig returns sane defaults for an embedded, non-debug run.
func DefaultConfig() *Config {
	return &Config{
		MaxCycles:     1 << 20,
		EnableTracing: false,
		DebugMode:     false,
		LogLevel:      "info",
	}
}

// Validate checks the configuration's internal consistency.
func (c *Config) Validate() error {
	if c.MaxCycles == 0 {
		return fmt.Errorf("config: max cycles must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}

// WithMaxCycles sets the cycle limit.
func (c *Config) WithMaxCycles(n uint32) *Config {
	c.MaxCycles = n
	return c
}

// WithDebugMode toggles debug mode, which also enables tracing.
func (c *Config) WithDebugMode(enabled bool) *Config {
	c.DebugMode = enabled
	if enabled {
		c.EnableTracing = true
	}
	return c
}

// LoadFromEnv overlays MASTVM_MAX_CYCLES, MASTVM_ENABLE_TRACING,
// MASTVM_DEBUG_MODE, and MASTVM_LOG_LEVEL onto DefaultConfig.
func LoadFromEnv() (*Config, error) {
	c := DefaultConfig()
	if v := os.Getenv("MASTVM_MAX_CYCLES"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("config: MASTVM_MAX_CYCLES: %w", err)
		}
		c.MaxCycles = uint32(n)
	}
	if v := os.Getenv("MASTVM_ENABLE_TRACING"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config: MASTVM_ENABLE_TRACING: %w", err)
		}
		c.EnableTracing = b
	}
	if v := os.Getenv("MASTVM_DEBUG_MODE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config: MASTVM_DEBUG_MODE: %w", err)
		}
		c.WithDebugMode(b)
	}
	if v := os.Getenv("MASTVM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
