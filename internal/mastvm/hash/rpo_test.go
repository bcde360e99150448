package hash

import (
	"testing"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

func TestHashIsDeterministic(t *testing.T) {
	in := []field.Felt{field.New(1), field.New(2), field.New(3)}
	a := Hash(in)
	b := Hash(in)
	if a != b {
		t.Errorf("Hash is not deterministic: %v != %v", a, b)
	}
}

func TestHashDistinguishesInputs(t *testing.T) {
	a := Hash([]field.Felt{field.New(1), field.New(2)})
	b := Hash([]field.Felt{field.New(2), field.New(1)})
	if a == b {
		t.Errorf("Hash collided on distinct inputs")
	}
}

func TestHashEmptyInput(t *testing.T) {
	got := Hash(nil)
	if got.IsZero() {
		t.Errorf("Hash(nil) should not be the all-zero digest")
	}
}

func TestHashWordsDeterministic(t *testing.T) {
	left := field.Word{field.New(1), field.New(2), field.New(3), field.New(4)}
	right := field.Word{field.New(5), field.New(6), field.New(7), field.New(8)}
	a := HashWords(left, right)
	b := HashWords(left, right)
	if a != b {
		t.Errorf("HashWords is not deterministic")
	}
	if HashWords(right, left) == a {
		t.Errorf("HashWords should be order-sensitive")
	}
}

func TestPermuteIsInvertibleFree(t *testing.T) {
	var state [Width]field.Felt
	for i := range state {
		state[i] = field.New(uint64(i + 1))
	}
	before := state
	Permute(&state)
	if state == before {
		t.Errorf("Permute should change the state")
	}
}

func TestSpongeAbsorbWordsMatchesHashWords(t *testing.T) {
	left := field.Word{field.New(10), field.New(20), field.New(30), field.New(40)}
	right := field.Word{field.New(50), field.New(60), field.New(70), field.New(80)}

	s := NewSponge()
	s.AbsorbWords(left, right)

	want := HashWords(left, right)
	if got := s.Digest(); got != want {
		t.Errorf("Sponge.AbsorbWords digest = %v, want %v", got, want)
	}
}

func TestSpongeCapacityRoundTrip(t *testing.T) {
	s := NewSponge()
	s.AbsorbWords(field.Word{field.New(1)}, field.Word{field.New(2)})
	cap1 := s.Capacity()

	s2 := NewSponge()
	s2.SetCapacity(cap1)
	if got := s2.Capacity(); got != cap1 {
		t.Errorf("SetCapacity/Capacity round trip = %v, want %v", got, cap1)
	}
}
