//go:build !mastvm_nositectx

package vm

import "github.com/kernelmast/mast-vm/internal/mastvm/mast"

// ExecutionSiteContext is a lazy handle describing where an operation
// fault occurred. Resolution to a source span happens only inside the
// error-mapping closure on the failure path, since eager resolution would
// run on every operation and ≫99% of operations succeed.
type ExecutionSiteContext struct {
	clk     uint32
	forest  *mast.Forest
	nodeID  mast.NodeId
	opIdx   int
	hasIdx  bool
}

// NodeSite builds a handle for a node-level fault (no specific operation
// index within the node).
func NodeSite(forest *mast.Forest, nodeID mast.NodeId, clk uint32) ExecutionSiteContext {
	return ExecutionSiteContext{clk: clk, forest: forest, nodeID: nodeID}
}

// OperationSite builds a handle for an instruction-level fault.
func OperationSite(forest *mast.Forest, nodeID mast.NodeId, opIdx int, clk uint32) ExecutionSiteContext {
	return ExecutionSiteContext{clk: clk, forest: forest, nodeID: nodeID, opIdx: opIdx, hasIdx: true}
}

// Clk returns the handle's clock value, available in both build variants.
func (c ExecutionSiteContext) Clk() uint32 { return c.clk }

// Resolve maps the handle to a source span and optional file, returning
// false if no decorator covers the site or the host has no source info.
func (c ExecutionSiteContext) Resolve(host Host) (SourceSpan, *SourceFile, bool) {
	if !c.hasIdx {
		return SourceSpan{}, nil, false
	}
	node, ok := c.forest.GetNodeByID(c.nodeID)
	if !ok {
		return SourceSpan{}, nil, false
	}
	var location string
	for _, d := range node.Decorators {
		if d.OpIndex == c.opIdx {
			location = d.Location
			break
		}
	}
	if location == "" {
		return SourceSpan{}, nil, false
	}
	span, file := host.GetLabelAndSourceFile(location)
	if span == (SourceSpan{}) && file == nil {
		return SourceSpan{}, nil, false
	}
	return span, file, true
}

// IntoExecErr converts an OperationError into the user-visible
// ExecutionError, attaching a resolved source span when available.
func (c ExecutionSiteContext) IntoExecErr(host Host, err *OperationError) *ExecutionError {
	if span, file, ok := c.Resolve(host); ok {
		return &ExecutionError{Clk: c.clk, Span: &span, File: file, Err: err}
	}
	return &ExecutionError{Clk: c.clk, Err: err}
}
