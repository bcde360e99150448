package mastvm

import (
	"github.com/kernelmast/mast-vm/internal/mastvm/advice"
	"github.com/kernelmast/mast-vm/internal/mastvm/field"
	"github.com/kernelmast/mast-vm/internal/mastvm/mast"
	"github.com/kernelmast/mast-vm/internal/mastvm/telemetry"
)

// Program is a MAST forest together with its declared entry root.
type Program struct {
	Forest *mast.Forest
	Root   mast.NodeId
}

// StackInputs is an ordered list of up to 16 elements, top-first, placed on
// the visible operand stack before execution begins.
type StackInputs []field.Felt

// AdviceInputs seeds the advice provider's stack and map before execution.
type AdviceInputs struct {
	Stack []field.Felt
	Map   map[field.Digest][]field.Felt
}

func (a AdviceInputs) toInternal() advice.Inputs {
	return advice.Inputs{Stack: a.Stack, Map: a.Map}
}

// ExecutionOptions configures resource limits and output detail.
type ExecutionOptions struct {
	MaxCycles      uint32
	ExpectedCycles uint32
	EnableTracing  bool
	DebugMode      bool
	WithMemory     bool
	WithAdvice     bool
	Logger         *telemetry.Logger
}

// StackOutputs is an ordered list of up to 16 elements, top-first, read
// from the visible operand stack at the end of execution.
type StackOutputs []field.Felt

// AdviceProviderSnapshot is the advice stack/map contents at the end of
// execution, included when ExecutionOptions.WithAdvice is set.
type AdviceProviderSnapshot struct {
	Stack      []field.Felt
	MapEntries map[field.Digest][]field.Felt
}

// MemorySnapshot is every word written in the root context (including
// words written as zero) at the end of execution, included when
// ExecutionOptions.WithMemory is set.
type MemorySnapshot map[uint32]field.Word

// PrecompileRequest mirrors internal/mastvm/vm.PrecompileRequest for
// public consumption.
type PrecompileRequest struct {
	Tag        field.Felt
	Calldata   []byte
	Commitment field.Digest
}

// ExecutionOutputs bundles everything Execute produces.
type ExecutionOutputs struct {
	Stack                  StackOutputs
	Advice                 *AdviceProviderSnapshot
	Memory                 *MemorySnapshot
	PrecompileRequests     []PrecompileRequest
	PrecompileTranscript   field.Word
	CyclesExecuted         uint32
}
