// Package field implements arithmetic over the Goldilocks prime field
// p = 2^64 - 2^32 + 1, the base field of the execution core.
package field

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Modulus is the Goldilocks prime p = 2^64 - 2^32 + 1.
const Modulus uint64 = 0xFFFFFFFF00000001

// Felt is an element of the Goldilocks field, always held in canonical
// form (< Modulus).
type Felt uint64

// Zero and One are the additive and multiplicative identities.
const (
	Zero Felt = 0
	One  Felt = 1
)

// New reduces v modulo the field modulus and returns the resulting element.
func New(v uint64) Felt {
	if v >= Modulus {
		return Felt(v - Modulus)
	}
	return Felt(v)
}

// FromInt64 wraps around zero for negative inputs, following the field's
// additive group.
func FromInt64(v int64) Felt {
	if v >= 0 {
		return New(uint64(v))
	}
	return Zero.Sub(New(uint64(-v)))
}

// Checked constructs a Felt from an arbitrary 64-bit integer, failing when
// the value does not already lie in [0, p).
func Checked(v uint64) (Felt, error) {
	if v >= Modulus {
		return 0, fmt.Errorf("field: value %d is not a canonical Goldilocks element (p = %d)", v, Modulus)
	}
	return Felt(v), nil
}

// Uint64 returns the canonical representative in [0, p).
func (a Felt) Uint64() uint64 { return uint64(a) }

// Add returns a + b mod p.
func (a Felt) Add(b Felt) Felt {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	// sum can overflow p by at most one modulus, or overflow 2^64 by carry.
	if carry != 0 {
		// sum wrapped past 2^64; correct by adding back 2^64 mod p = 2^32 - 1.
		sum += (1 << 32) - 1
	}
	return reduceSum(sum)
}

// Sub returns a - b mod p.
func (a Felt) Sub(b Felt) Felt {
	diff, borrow := bits.Sub64(uint64(a), uint64(b), 0)
	if borrow != 0 {
		diff -= (1 << 32) - 1
	}
	return reduceSum(diff)
}

func reduceSum(v uint64) Felt {
	if v >= Modulus {
		return Felt(v - Modulus)
	}
	return Felt(v)
}

// Neg returns -a mod p.
func (a Felt) Neg() Felt {
	if a == 0 {
		return Zero
	}
	return Felt(Modulus - uint64(a))
}

// Double returns 2*a mod p.
func (a Felt) Double() Felt { return a.Add(a) }

// Mul returns a * b mod p using a 128-bit product reduced against the
// Goldilocks modulus's special shape.
func (a Felt) Mul(b Felt) Felt {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return reduce128(hi, lo)
}

// reduce128 reduces a 128-bit value hi:lo modulo p, exploiting
// p = 2^64 - 2^32 + 1 so that 2^64 ≡ 2^32 - 1 and 2^96 ≡ -1 (mod p).
func reduce128(hi, lo uint64) Felt {
	hiLo := hi & 0xFFFFFFFF
	hiHi := hi >> 32

	// t0 = lo - hiHi (mod p), borrow handled with wraparound correction.
	t0, borrow := bits.Sub64(lo, hiHi, 0)
	if borrow != 0 {
		t0 -= (1 << 32) - 1
	}

	// t1 = hiLo * (2^32 - 1) = hiLo << 32 - hiLo
	t1 := hiLo<<32 - hiLo

	sum, carry := bits.Add64(t0, t1, 0)
	if carry != 0 {
		sum += (1 << 32) - 1
	}
	return reduceSum(sum)
}

// Square returns a^2 mod p.
func (a Felt) Square() Felt { return a.Mul(a) }

// Pow raises a to the given exponent using binary exponentiation.
func (a Felt) Pow(exp uint64) Felt {
	result := One
	base := a
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		exp >>= 1
	}
	return result
}

// Inv returns the multiplicative inverse of a, failing for zero.
func (a Felt) Inv() (Felt, error) {
	if a == 0 {
		return 0, ErrDivideByZero
	}
	// Fermat's little theorem: a^(p-2) = a^-1 (mod p).
	return a.Pow(Modulus - 2), nil
}

// BatchInvert inverts every element of vs in place. Elements equal to zero
// are left unchanged rather than causing a failure: callers on the hot
// execution path must pre-partition nonzero operands, and this primitive
// never panics on a stray zero in a helper column.
func BatchInvert(vs []Felt) {
	n := len(vs)
	if n == 0 {
		return
	}
	prefix := make([]Felt, n)
	acc := One
	for i, v := range vs {
		prefix[i] = acc
		if v != 0 {
			acc = acc.Mul(v)
		}
	}
	accInv, err := acc.Inv()
	if err != nil {
		// acc is zero only if every nonzero-marked element was actually
		// zero, which cannot happen given the guard above.
		accInv = Zero
	}
	for i := n - 1; i >= 0; i-- {
		v := vs[i]
		if v == 0 {
			continue
		}
		vs[i] = accInv.Mul(prefix[i])
		accInv = accInv.Mul(v)
	}
}

// IsZero reports whether a is the additive identity.
func (a Felt) IsZero() bool { return a == 0 }

// Equal reports whether a and b are the same field element.
func (a Felt) Equal(b Felt) bool { return a == b }

// Bytes returns the canonical little-endian 8-byte encoding of a.
func (a Felt) Bytes() [8]byte {
	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], uint64(a))
	return out
}

// FromBytes decodes a canonical little-endian 8-byte encoding, failing if
// the encoded value is not reduced.
func FromBytes(b [8]byte) (Felt, error) {
	return Checked(binary.LittleEndian.Uint64(b[:]))
}

// String renders the element as a decimal integer.
func (a Felt) String() string { return fmt.Sprintf("%d", uint64(a)) }

// FitsU32 reports whether a's canonical value fits in [0, 2^32).
func (a Felt) FitsU32() bool { return uint64(a) < 1<<32 }
