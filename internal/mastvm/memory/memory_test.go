package memory

import (
	"testing"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

func TestElementReadWrite(t *testing.T) {
	m := New()
	if err := m.WriteElement(0, 8, field.New(42)); err != nil {
		t.Fatalf("WriteElement failed: %v", err)
	}
	got, err := m.ReadElement(0, 8)
	if err != nil {
		t.Fatalf("ReadElement failed: %v", err)
	}
	if got != field.New(42) {
		t.Errorf("ReadElement = %v, want 42", got)
	}
}

func TestUnwrittenElementReadsZero(t *testing.T) {
	m := New()
	got, err := m.ReadElement(0, 100)
	if err != nil {
		t.Fatalf("ReadElement failed: %v", err)
	}
	if got != field.Zero {
		t.Errorf("unwritten element = %v, want zero", got)
	}
}

func TestWordReadWriteRequiresAlignment(t *testing.T) {
	m := New()
	w := field.Word{field.New(1), field.New(2), field.New(3), field.New(4)}
	if err := m.WriteWord(0, 0, w); err != nil {
		t.Fatalf("WriteWord(aligned) failed: %v", err)
	}
	if err := m.WriteWord(0, 1, w); err == nil {
		t.Errorf("WriteWord at an unaligned address should fail")
	}
	got, err := m.ReadWord(0, 0)
	if err != nil {
		t.Fatalf("ReadWord failed: %v", err)
	}
	if got != w {
		t.Errorf("ReadWord = %v, want %v", got, w)
	}
}

func TestDoubleWordReadWriteRequiresAlignment(t *testing.T) {
	m := New()
	a := field.Word{field.New(1)}
	b := field.Word{field.New(2)}
	if err := m.WriteDoubleWord(0, 0, a, b); err != nil {
		t.Fatalf("WriteDoubleWord(aligned) failed: %v", err)
	}
	if err := m.WriteDoubleWord(0, 4, a, b); err == nil {
		t.Errorf("WriteDoubleWord at a non-double-word-aligned address should fail")
	}
	gotA, gotB, err := m.ReadDoubleWord(0, 0)
	if err != nil {
		t.Fatalf("ReadDoubleWord failed: %v", err)
	}
	if gotA != a || gotB != b {
		t.Errorf("ReadDoubleWord = (%v, %v), want (%v, %v)", gotA, gotB, a, b)
	}
}

func TestContextIsolation(t *testing.T) {
	m := New()
	if err := m.WriteElement(1, 0, field.New(7)); err != nil {
		t.Fatalf("WriteElement failed: %v", err)
	}
	got, err := m.ReadElement(2, 0)
	if err != nil {
		t.Fatalf("ReadElement failed: %v", err)
	}
	if got != field.Zero {
		t.Errorf("writes to context 1 leaked into context 2: got %v", got)
	}
}

func TestDropContext(t *testing.T) {
	m := New()
	if err := m.WriteElement(3, 0, field.New(9)); err != nil {
		t.Fatalf("WriteElement failed: %v", err)
	}
	m.DropContext(3)
	snap := m.Snapshot(3)
	if len(snap) != 0 {
		t.Errorf("Snapshot after DropContext should be empty, got %v", snap)
	}
}

func TestAddressOutOfBounds(t *testing.T) {
	m := New()
	if err := m.WriteElement(0, addrSpace, field.New(1)); err == nil {
		t.Errorf("WriteElement at address >= 2^32 should fail")
	}
}
