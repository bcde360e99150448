package mastvm

import (
	"fmt"

	"github.com/kernelmast/mast-vm/internal/mastvm/vm"
)

// ExecutionError is the public, user-visible execution fault: a clock, an
// optional resolved source location, and either a wrapped operation fault
// or a fatal program-level condition.
type ExecutionError struct {
	Clk     uint32
	Span    *SourceSpan
	File    *SourceFile
	Fatal   bool
	message string
}

func (e *ExecutionError) Error() string {
	if e.message != "" {
		return e.message
	}
	return fmt.Sprintf("mastvm: execution error at clk=%d", e.Clk)
}

func fromInternalError(err *vm.ExecutionError) *ExecutionError {
	out := &ExecutionError{Clk: err.Clk, Span: err.Span, File: err.File}
	if err.Fatal != vm.FatalNone {
		out.Fatal = true
	}
	out.message = err.Error()
	return out
}
