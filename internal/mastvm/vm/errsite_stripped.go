//go:build mastvm_nositectx

package vm

import "github.com/kernelmast/mast-vm/internal/mastvm/mast"

// ExecutionSiteContext is the high-throughput build variant: it collapses
// to just the clock and every resolution method returns no source info,
// without changing the ABI the rest of the core depends on.
type ExecutionSiteContext struct {
	clk uint32
}

// NodeSite builds a stripped handle; forest/nodeID are accepted for ABI
// parity with the full build but discarded.
func NodeSite(forest *mast.Forest, nodeID mast.NodeId, clk uint32) ExecutionSiteContext {
	return ExecutionSiteContext{clk: clk}
}

// OperationSite builds a stripped handle; discarded fields are accepted
// for ABI parity with the full build.
func OperationSite(forest *mast.Forest, nodeID mast.NodeId, opIdx int, clk uint32) ExecutionSiteContext {
	return ExecutionSiteContext{clk: clk}
}

// Clk returns the handle's clock value.
func (c ExecutionSiteContext) Clk() uint32 { return c.clk }

// Resolve always reports no source info in the stripped build.
func (c ExecutionSiteContext) Resolve(host Host) (SourceSpan, *SourceFile, bool) {
	return SourceSpan{}, nil, false
}

// IntoExecErr always produces the context-free ExecutionError shape.
func (c ExecutionSiteContext) IntoExecErr(host Host, err *OperationError) *ExecutionError {
	return &ExecutionError{Clk: c.clk, Err: err}
}
