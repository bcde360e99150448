// Package telemetry provides the structured, leveled logging consumed by
// the execution driver and the CLI. It wraps log/slog rather than a
// third-party logging library, since none appears anywhere in the
// retrieval pack this module was grounded on.
package telemetry

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a thin handle around *slog.Logger scoped to driver lifecycle
// events: context push/pop, cycle-limit warnings, precompile absorption.
type Logger struct {
	l *slog.Logger
}

// New builds a Logger writing JSON-formatted records to w at the given
// level. A nil w defaults to os.Stderr.
func New(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{l: slog.New(h)}
}

// Discard returns a Logger that drops every record, for callers that pass
// no logger of their own.
func Discard() *Logger {
	return &Logger{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// ParseLevel maps the teacher's config log-level strings onto slog.Level.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (lg *Logger) ContextPushed(ctxID uint32, clk uint32, inSyscall bool) {
	lg.l.Debug("context pushed", "ctx", ctxID, "clk", clk, "syscall", inSyscall)
}

func (lg *Logger) ContextPopped(ctxID uint32, clk uint32) {
	lg.l.Debug("context popped", "ctx", ctxID, "clk", clk)
}

func (lg *Logger) CycleLimitWarning(clk uint32, maxCycles uint32) {
	lg.l.Warn("approaching cycle limit", "clk", clk, "max_cycles", maxCycles)
}

func (lg *Logger) PrecompileAbsorbed(tag uint64, clk uint32) {
	lg.l.Debug("precompile commitment absorbed", "tag", tag, "clk", clk)
}

func (lg *Logger) ExecutionFailed(clk uint32, err error) {
	lg.l.Error("execution failed", "clk", clk, "err", err)
}

func (lg *Logger) ExecutionFinished(clk uint32, cyclesExecuted uint32) {
	lg.l.Info("execution finished", "clk", clk, "cycles", cyclesExecuted)
}
