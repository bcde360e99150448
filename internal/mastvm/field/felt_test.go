package field

import (
	"math"
	"testing"
)

func TestArithmetic(t *testing.T) {
	t.Run("AddWrapsModulus", func(t *testing.T) {
		a := New(Modulus - 1)
		b := New(2)
		got := a.Add(b)
		if want := New(1); got != want {
			t.Errorf("Add = %v, want %v", got, want)
		}
	})

	t.Run("SubWrapsBelowZero", func(t *testing.T) {
		a := New(0)
		b := New(1)
		got := a.Sub(b)
		if want := New(Modulus - 1); got != want {
			t.Errorf("Sub = %v, want %v", got, want)
		}
	})

	t.Run("MulNearMax", func(t *testing.T) {
		a := New(math.MaxUint64 % Modulus)
		b := New(math.MaxUint64 % Modulus)
		got := a.Mul(b)
		if got.Uint64() >= Modulus {
			t.Errorf("Mul result %v is not canonical", got)
		}
	})

	t.Run("NegThenAddIsZero", func(t *testing.T) {
		a := New(12345)
		if got := a.Add(a.Neg()); got != Zero {
			t.Errorf("a + (-a) = %v, want 0", got)
		}
	})

	t.Run("InvThenMulIsOne", func(t *testing.T) {
		a := New(7)
		inv, err := a.Inv()
		if err != nil {
			t.Fatalf("Inv failed: %v", err)
		}
		if got := a.Mul(inv); got != One {
			t.Errorf("a * a^-1 = %v, want 1", got)
		}
	})

	t.Run("InvOfZeroFails", func(t *testing.T) {
		if _, err := Zero.Inv(); err == nil {
			t.Errorf("Inv(0) should fail")
		}
	})
}

func TestBatchInvert(t *testing.T) {
	vs := []Felt{New(3), New(5), New(7)}
	want := make([]Felt, len(vs))
	for i, v := range vs {
		inv, err := v.Inv()
		if err != nil {
			t.Fatalf("Inv failed: %v", err)
		}
		want[i] = inv
	}
	BatchInvert(vs)
	for i := range vs {
		if vs[i] != want[i] {
			t.Errorf("BatchInvert[%d] = %v, want %v", i, vs[i], want[i])
		}
	}
}

func TestBatchInvertSkipsZero(t *testing.T) {
	vs := []Felt{New(3), Zero, New(7)}
	BatchInvert(vs)
	if vs[1] != Zero {
		t.Errorf("BatchInvert should leave zero entries unchanged, got %v", vs[1])
	}
}

func TestBytesRoundTrip(t *testing.T) {
	a := New(0xDEADBEEF)
	got, err := FromBytes(a.Bytes())
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}
	if got != a {
		t.Errorf("round trip = %v, want %v", got, a)
	}
}

func TestCheckedRejectsNonCanonical(t *testing.T) {
	if _, err := Checked(Modulus); err == nil {
		t.Errorf("Checked(Modulus) should fail")
	}
}

func TestFitsU32(t *testing.T) {
	if !New(1 << 31).FitsU32() {
		t.Errorf("2^31 should fit in u32")
	}
	if New(1 << 32).FitsU32() {
		t.Errorf("2^32 should not fit in u32")
	}
}
