package advice

import (
	"testing"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

func TestStackPopOrder(t *testing.T) {
	s := NewStack([]field.Felt{field.New(1), field.New(2), field.New(3)})
	for _, want := range []uint64{3, 2, 1} {
		got, err := s.Pop()
		if err != nil {
			t.Fatalf("Pop failed: %v", err)
		}
		if got.Uint64() != want {
			t.Errorf("Pop = %d, want %d", got.Uint64(), want)
		}
	}
	if _, err := s.Pop(); err == nil {
		t.Errorf("Pop on empty stack should fail")
	}
}

func TestStackPushWordPopWordRoundTrip(t *testing.T) {
	s := NewStack(nil)
	w := field.Word{field.New(1), field.New(2), field.New(3), field.New(4)}
	s.PushWord(w)
	got, err := s.PopWord()
	if err != nil {
		t.Fatalf("PopWord failed: %v", err)
	}
	if got != w {
		t.Errorf("PopWord = %v, want %v", got, w)
	}
}

func TestStackExtendAndLen(t *testing.T) {
	s := NewStack(nil)
	s.Extend([]field.Felt{field.New(1), field.New(2)})
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}
