package mast

// Decorator attaches non-executing debug metadata to a position inside a
// basic block's operation sequence: source-map hints, trace labels, or
// assembly-op spans used by the error-site subsystem to resolve a fault to
// a source location.
type Decorator struct {
	// OpIndex is the position, within the block's flattened operation
	// list, that this decorator precedes.
	OpIndex int

	// AssemblyOp names the higher-level instruction this range of
	// operations was compiled from (e.g. "u32wrapping_add"). It is not
	// passed to the host; source spans are resolved from Location.
	AssemblyOp string

	// Location is an opaque, host-interpreted source location token.
	Location string
}
