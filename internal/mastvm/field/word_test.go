package field

import "testing"

func TestWordBytesRoundTrip(t *testing.T) {
	w := Word{New(1), New(2), New(3), New(4)}
	got, err := WordFromBytesBE(w.BytesBE())
	if err != nil {
		t.Fatalf("WordFromBytesBE failed: %v", err)
	}
	if !got.Equal(w) {
		t.Errorf("round trip = %v, want %v", got, w)
	}
}

func TestWordEqualAndZero(t *testing.T) {
	if !ZeroWord.IsZero() {
		t.Errorf("ZeroWord.IsZero() = false")
	}
	w := Word{New(1), Zero, Zero, Zero}
	if w.IsZero() {
		t.Errorf("non-zero word reported as zero")
	}
	if !w.Equal(Word{New(1), Zero, Zero, Zero}) {
		t.Errorf("Equal should hold for identical words")
	}
}

func TestWordReverse(t *testing.T) {
	w := Word{New(1), New(2), New(3), New(4)}
	got := w.Reverse()
	want := Word{New(4), New(3), New(2), New(1)}
	if got != want {
		t.Errorf("Reverse = %v, want %v", got, want)
	}
}
