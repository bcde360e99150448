package vm

import (
	"github.com/kernelmast/mast-vm/internal/mastvm/field"
	"github.com/kernelmast/mast-vm/internal/mastvm/memory"
)

// ExecutionContext is the isolation unit pushed by Call/SysCall/DynCall:
// its own memory region and overflow table, plus the digest of the
// procedure it's executing and whether it was entered via SysCall.
type ExecutionContext struct {
	ID        memory.ContextID
	FnHash    field.Digest
	InSyscall bool

	savedOverflow overflowSnapshot
	entryDepth    int
}

// ContextStack tracks nested execution contexts. The root context (id 0)
// is implicit and never popped.
type ContextStack struct {
	next    memory.ContextID
	frames  []*ExecutionContext
	current memory.ContextID
}

// NewContextStack returns a context stack positioned at the root context.
func NewContextStack() *ContextStack {
	return &ContextStack{next: 1, current: 0}
}

// Current returns the active context id.
func (c *ContextStack) Current() memory.ContextID { return c.current }

// InSyscall reports whether the active frame, or any frame it is nested
// within, was entered via SysCall. A SysCall cannot re-enter a SysCall even
// through an intervening plain Call, so this must stay sticky down the
// whole frame stack rather than only inspecting the top.
func (c *ContextStack) InSyscall() bool {
	for _, frame := range c.frames {
		if frame.InSyscall {
			return true
		}
	}
	return false
}

// Push enters a new isolated context, allocating a fresh context id and
// swapping in an empty overflow table (the caller's is stashed in the
// returned frame for Pop to restore).
func (c *ContextStack) Push(stack *OperandStack, fnHash field.Digest, inSyscall bool) *ExecutionContext {
	frame := &ExecutionContext{
		ID:            c.next,
		FnHash:        fnHash,
		InSyscall:     inSyscall,
		savedOverflow: stack.saveOverflow(),
		entryDepth:    VisibleDepth,
	}
	c.next++
	stack.installFreshOverflow()
	c.frames = append(c.frames, frame)
	c.current = frame.ID
	return frame
}

// Pop leaves the active context, restoring the caller's overflow table. It
// returns nothing; the driver reads the callee's own overflow length and
// checks it against the stack-depth-restoration invariant before calling
// Pop.
func (c *ContextStack) Pop(stack *OperandStack) {
	n := len(c.frames)
	frame := c.frames[n-1]
	c.frames = c.frames[:n-1]
	stack.restoreOverflow(frame.savedOverflow)
	if n-1 == 0 {
		c.current = 0
	} else {
		c.current = c.frames[n-2].ID
	}
}
