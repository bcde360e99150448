package vm

import (
	"testing"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

func TestContextStackPushPopRestoresOverflow(t *testing.T) {
	s := NewOperandStack(nil)
	for i := 0; i < VisibleDepth+2; i++ {
		s.Push(uint32(i), field.New(uint64(i)))
	}
	callerOverflow := s.overflowLen()

	ctxs := NewContextStack()
	frame := ctxs.Push(s, field.Digest{field.New(1)}, false)
	if s.overflowLen() != 0 {
		t.Fatalf("entering a new context should install a fresh empty overflow, got len %d", s.overflowLen())
	}
	if ctxs.Current() != frame.ID {
		t.Errorf("Current() = %d, want %d", ctxs.Current(), frame.ID)
	}

	ctxs.Pop(s)
	if s.overflowLen() != callerOverflow {
		t.Errorf("Pop should restore the caller's overflow length, got %d want %d", s.overflowLen(), callerOverflow)
	}
	if ctxs.Current() != 0 {
		t.Errorf("after popping the only frame, Current() should be the root context")
	}
}

func TestContextStackInSyscall(t *testing.T) {
	s := NewOperandStack(nil)
	ctxs := NewContextStack()
	if ctxs.InSyscall() {
		t.Errorf("root context should not report InSyscall")
	}
	ctxs.Push(s, field.Digest{}, true)
	if !ctxs.InSyscall() {
		t.Errorf("after pushing a SysCall frame, InSyscall should be true")
	}
}

func TestContextStackInSyscallStickyThroughNestedCall(t *testing.T) {
	s := NewOperandStack(nil)
	ctxs := NewContextStack()
	ctxs.Push(s, field.Digest{}, true)
	ctxs.Push(s, field.Digest{}, false)
	if !ctxs.InSyscall() {
		t.Errorf("InSyscall should stay true through a nested non-syscall frame")
	}
	ctxs.Pop(s)
	if !ctxs.InSyscall() {
		t.Errorf("InSyscall should still be true back in the original syscall frame")
	}
	ctxs.Pop(s)
	if ctxs.InSyscall() {
		t.Errorf("InSyscall should be false once the syscall frame itself is popped")
	}
}

func TestContextStackAllocatesDistinctIDs(t *testing.T) {
	s := NewOperandStack(nil)
	ctxs := NewContextStack()
	f1 := ctxs.Push(s, field.Digest{}, false)
	ctxs.Pop(s)
	f2 := ctxs.Push(s, field.Digest{}, false)
	if f1.ID == f2.ID {
		t.Errorf("successive Push calls should allocate distinct context ids, got %d twice", f1.ID)
	}
}
