package vm

import (
	"testing"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

func TestPushPopRoundTrip(t *testing.T) {
	s := NewOperandStack(nil)
	s.Push(1, field.New(10))
	s.Push(2, field.New(20))
	if got := s.Pop(); got != field.New(20) {
		t.Errorf("Pop = %v, want 20", got)
	}
	if got := s.Pop(); got != field.New(10) {
		t.Errorf("Pop = %v, want 10", got)
	}
}

func TestPushOverflowsPastVisibleDepth(t *testing.T) {
	s := NewOperandStack(nil)
	for i := 0; i < VisibleDepth+3; i++ {
		s.Push(uint32(i), field.New(uint64(i)))
	}
	// A fresh stack already has depth 16 (zero padding), and every push
	// spills one slot into overflow, so 19 pushes give depth 16+19.
	if s.Depth() != 2*VisibleDepth+3 {
		t.Errorf("Depth = %d, want %d", s.Depth(), 2*VisibleDepth+3)
	}
	// Popping everything should return values in reverse push order.
	for i := VisibleDepth + 2; i >= 0; i-- {
		got := s.Pop()
		if got != field.New(uint64(i)) {
			t.Fatalf("Pop = %v, want %d", got, i)
		}
	}
}

func TestPushWordPopWordRoundTrip(t *testing.T) {
	s := NewOperandStack(nil)
	w := field.Word{field.New(1), field.New(2), field.New(3), field.New(4)}
	s.PushWord(1, w)
	if got := s.PopWord(); got != w {
		t.Errorf("PopWord = %v, want %v", got, w)
	}
}

func TestDupDuplicatesWithoutConsuming(t *testing.T) {
	s := NewOperandStack([]field.Felt{field.New(5), field.New(6)})
	s.Dup(1, 1)
	if got := s.Top(); got != field.New(6) {
		t.Errorf("Dup(1) top = %v, want 6", got)
	}
	if got := s.Get(1); got != field.New(5) {
		t.Errorf("Get(1) after Dup = %v, want 5", got)
	}
}

func TestMovUpMovDn(t *testing.T) {
	s := NewOperandStack([]field.Felt{field.New(1), field.New(2), field.New(3)})
	s.MovUp(2)
	if got := s.Top(); got != field.New(3) {
		t.Errorf("after MovUp(2) top = %v, want 3", got)
	}
	s.MovDn(2)
	if got := s.Get(2); got != field.New(3) {
		t.Errorf("after MovDn(2) position 2 = %v, want 3", got)
	}
}

func TestReverseWAndReverseDW(t *testing.T) {
	vals := make([]field.Felt, 8)
	for i := range vals {
		vals[i] = field.New(uint64(i))
	}
	s := NewOperandStack(vals)
	s.ReverseW()
	if s.Get(0) != field.New(3) || s.Get(3) != field.New(0) {
		t.Errorf("ReverseW did not reverse the top word: %v %v", s.Get(0), s.Get(3))
	}

	s2 := NewOperandStack(vals)
	s2.ReverseDW()
	if s2.Get(0) != field.New(7) || s2.Get(7) != field.New(0) {
		t.Errorf("ReverseDW did not reverse the top double word: %v %v", s2.Get(0), s2.Get(7))
	}
}

func TestSaveInstallRestoreOverflow(t *testing.T) {
	s := NewOperandStack(nil)
	for i := 0; i < VisibleDepth+2; i++ {
		s.Push(uint32(i), field.New(uint64(i)))
	}
	// Every push spills one slot, so 18 pushes leave 18 overflow entries.
	snap := s.saveOverflow()
	if s.overflowLen() != VisibleDepth+2 {
		t.Fatalf("overflowLen before save = %d, want %d", s.overflowLen(), VisibleDepth+2)
	}

	s.installFreshOverflow()
	if s.overflowLen() != 0 {
		t.Errorf("overflowLen after installFreshOverflow = %d, want 0", s.overflowLen())
	}

	s.restoreOverflow(snap)
	if s.overflowLen() != VisibleDepth+2 {
		t.Errorf("overflowLen after restoreOverflow = %d, want %d", s.overflowLen(), VisibleDepth+2)
	}
}
