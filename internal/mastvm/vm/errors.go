package vm

import (
	"fmt"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
	"github.com/kernelmast/mast-vm/internal/mastvm/mast"
)

// OperationError is a context-free fault intrinsic to a single operation.
// The driver wraps it with location information at node boundaries via
// ExecutionSiteContext.IntoExecErr.
type OperationError struct {
	Kind OpErrorKind

	// FailedAssertion / NotU32Values.
	ErrCode uint32
	ErrMsg  string
	Values  []field.Felt

	// InvalidStackDepthOnReturn.
	Expected, Actual int

	// MastNodeNotFoundInForest.
	NodeID mast.NodeId

	// NotBinaryValue.
	Value field.Felt

	// MerklePathVerificationFailed, boxed to keep this struct small on the
	// hot path even though it carries several fields.
	MerkleFail *MerkleVerificationFailure

	// EventError.
	EventID field.Felt
	Inner   error
}

// MerkleVerificationFailure carries the detail of a failed MpVerify.
type MerkleVerificationFailure struct {
	Value   field.Digest
	Index   uint64
	Root    field.Digest
	ErrCode uint32
	ErrMsg  string
}

// OpErrorKind discriminates OperationError variants.
type OpErrorKind int

const (
	ErrDivideByZero OpErrorKind = iota
	ErrFailedAssertion
	ErrNotU32Values
	ErrMemoryError
	ErrAdviceError
	ErrMerklePathVerificationFailed
	ErrMastNodeNotFoundInForest
	ErrInvalidStackDepthOnReturn
	ErrEventError
	ErrNotBinaryValue
	ErrInvalidFriDomainSegment
	ErrInvalidFriLayerFolding
)

func (e *OperationError) Error() string {
	switch e.Kind {
	case ErrDivideByZero:
		return "division by zero"
	case ErrFailedAssertion:
		return fmt.Sprintf("assertion failed (err_code=%#x)", e.ErrCode)
	case ErrNotU32Values:
		return fmt.Sprintf("operands not valid u32 values: %v (err_code=%#x)", e.Values, e.ErrCode)
	case ErrMemoryError:
		return fmt.Sprintf("memory error: %v", e.Inner)
	case ErrAdviceError:
		return fmt.Sprintf("advice error: %v", e.Inner)
	case ErrMerklePathVerificationFailed:
		return fmt.Sprintf("merkle path verification failed: %+v", e.MerkleFail)
	case ErrMastNodeNotFoundInForest:
		return fmt.Sprintf("mast node %d not found in forest", e.NodeID)
	case ErrInvalidStackDepthOnReturn:
		return fmt.Sprintf("invalid stack depth on return: expected %d, got %d", e.Expected, e.Actual)
	case ErrEventError:
		return fmt.Sprintf("event %v handler error: %v", e.EventID, e.Inner)
	case ErrNotBinaryValue:
		return fmt.Sprintf("expected 0 or 1, got %v", e.Value)
	case ErrInvalidFriDomainSegment:
		return fmt.Sprintf("invalid fri domain segment %v, must be <= 3", e.Value)
	case ErrInvalidFriLayerFolding:
		return fmt.Sprintf("fri layer folding mismatch at domain segment %v", e.Value)
	default:
		return "unknown operation error"
	}
}

// ExecutionError is the user-visible fault the driver produces, wrapping an
// OperationError with clock and (when resolvable) source location.
type ExecutionError struct {
	Clk  uint32
	Span *SourceSpan
	File *SourceFile
	Err  *OperationError

	// Fatal program-level variants carry no OperationError.
	Fatal FatalKind
}

// FatalKind distinguishes program-level faults that are never retried and
// never carry an OperationError.
type FatalKind int

const (
	FatalNone FatalKind = iota
	FatalCycleLimitExceeded
	FatalMastForestNotFound
)

func (e *ExecutionError) Error() string {
	switch e.Fatal {
	case FatalCycleLimitExceeded:
		return fmt.Sprintf("cycle limit exceeded at clk=%d", e.Clk)
	case FatalMastForestNotFound:
		return fmt.Sprintf("mast forest not found at clk=%d", e.Clk)
	}
	if e.Span != nil {
		return fmt.Sprintf("clk=%d span=%v: %v", e.Clk, e.Span, e.Err)
	}
	return fmt.Sprintf("clk=%d: %v", e.Clk, e.Err)
}
