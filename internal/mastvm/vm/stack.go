// Package vm implements the operand stack machine, execution contexts,
// operation dispatch, and the execution driver that walks a MAST forest.
package vm

import "github.com/kernelmast/mast-vm/internal/mastvm/field"

// VisibleDepth is the fixed number of operand-stack slots held in
// registers; anything beyond it lives in the overflow table.
const VisibleDepth = 16

// OverflowEntry is one spilled stack value, chained to the entry pushed
// immediately before it for reverse enumeration.
type OverflowEntry struct {
	Clk     uint32
	Value   field.Felt
	PrevClk uint32
}

// OperandStack is the visible-16-plus-overflow operand stack.
type OperandStack struct {
	visible  [VisibleDepth]field.Felt
	overflow []OverflowEntry
	lastClk  uint32
}

// NewOperandStack returns a stack pre-loaded with inputs, top-first; unused
// visible slots are zero.
func NewOperandStack(inputs []field.Felt) *OperandStack {
	s := &OperandStack{}
	for i := 0; i < len(inputs) && i < VisibleDepth; i++ {
		s.visible[i] = inputs[i]
	}
	return s
}

// Depth returns the conceptual stack depth: 16 plus the overflow count.
func (s *OperandStack) Depth() int { return VisibleDepth + len(s.overflow) }

// Top returns the top-of-stack value without popping.
func (s *OperandStack) Top() field.Felt { return s.visible[0] }

// Get returns the value at visible position n (0 = top), n in [0, 16).
func (s *OperandStack) Get(n int) field.Felt { return s.visible[n] }

// Set overwrites the value at visible position n.
func (s *OperandStack) Set(n int, v field.Felt) { s.visible[n] = v }

// Push shifts the visible stack down by one, spilling the former bottom
// slot into the overflow table, and writes v to the top.
func (s *OperandStack) Push(clk uint32, v field.Felt) {
	spilled := s.visible[VisibleDepth-1]
	for i := VisibleDepth - 1; i > 0; i-- {
		s.visible[i] = s.visible[i-1]
	}
	s.visible[0] = v
	s.overflow = append(s.overflow, OverflowEntry{Clk: clk, Value: spilled, PrevClk: s.lastClk})
	s.lastClk = clk
}

// Pop removes and returns the top value, refilling the vacated bottom slot
// from the overflow table, or with zero if the overflow is empty.
func (s *OperandStack) Pop() field.Felt {
	top := s.visible[0]
	for i := 0; i < VisibleDepth-1; i++ {
		s.visible[i] = s.visible[i+1]
	}
	if n := len(s.overflow); n > 0 {
		last := s.overflow[n-1]
		s.overflow = s.overflow[:n-1]
		s.visible[VisibleDepth-1] = last.Value
		s.lastClk = last.PrevClk
	} else {
		s.visible[VisibleDepth-1] = field.Zero
	}
	return top
}

// PushWord pushes a word so that w[0] ends up on top.
func (s *OperandStack) PushWord(clk uint32, w field.Word) {
	for i := 3; i >= 0; i-- {
		s.Push(clk, w[i])
	}
}

// PopWord pops four elements in top-first order.
func (s *OperandStack) PopWord() field.Word {
	var w field.Word
	for i := 0; i < 4; i++ {
		w[i] = s.Pop()
	}
	return w
}

// Swap exchanges the top two elements.
func (s *OperandStack) Swap() { s.visible[0], s.visible[1] = s.visible[1], s.visible[0] }

// Dup duplicates visible[n] to the top, spilling the bottom slot.
func (s *OperandStack) Dup(clk uint32, n int) { s.Push(clk, s.visible[n]) }

// SwapW exchanges word 0 (slots 0-3) with word n (slots 4n..4n+3), n in [1,3].
func (s *OperandStack) SwapW(n int) {
	base := n * 4
	for i := 0; i < 4; i++ {
		s.visible[i], s.visible[base+i] = s.visible[base+i], s.visible[i]
	}
}

// MovUp moves visible[n] to the top, shifting intervening elements down.
func (s *OperandStack) MovUp(n int) {
	v := s.visible[n]
	for i := n; i > 0; i-- {
		s.visible[i] = s.visible[i-1]
	}
	s.visible[0] = v
}

// MovDn moves the top element to position n, shifting intervening elements up.
func (s *OperandStack) MovDn(n int) {
	v := s.visible[0]
	for i := 0; i < n; i++ {
		s.visible[i] = s.visible[i+1]
	}
	s.visible[n] = v
}

// PadW pushes a zero word, spilling four bottom slots.
func (s *OperandStack) PadW(clk uint32) {
	for i := 0; i < 4; i++ {
		s.Push(clk, field.Zero)
	}
}

// ReverseW reverses the order of the top word's four elements.
func (s *OperandStack) ReverseW() {
	s.visible[0], s.visible[3] = s.visible[3], s.visible[0]
	s.visible[1], s.visible[2] = s.visible[2], s.visible[1]
}

// ReverseDW reverses the order of the top two words (8 elements) as a unit.
func (s *OperandStack) ReverseDW() {
	for i := 0; i < 4; i++ {
		s.visible[i], s.visible[7-i] = s.visible[7-i], s.visible[i]
	}
}

// overflowSnapshot captures the overflow table and chain cursor so a
// Call/SysCall/DynCall can stash the caller's overflow and install a fresh
// one for the callee.
type overflowSnapshot struct {
	entries []OverflowEntry
	lastClk uint32
}

func (s *OperandStack) saveOverflow() overflowSnapshot {
	return overflowSnapshot{entries: s.overflow, lastClk: s.lastClk}
}

func (s *OperandStack) installFreshOverflow() {
	s.overflow = nil
	s.lastClk = 0
}

func (s *OperandStack) restoreOverflow(snap overflowSnapshot) {
	s.overflow = snap.entries
	s.lastClk = snap.lastClk
}

// overflowLen reports the current overflow table's length, used to check
// the stack-depth-restoration invariant on Call/SysCall/DynCall return.
func (s *OperandStack) overflowLen() int { return len(s.overflow) }
