// Package hash implements the RPO-256 sponge permutation used to compute
// MAST node digests, to hash memory contents, and to absorb precompile
// commitments into the execution transcript.
//
// Rather than shipping a large table of precomputed round constants, the
// constants and MDS matrix are derived deterministically at package init
// time from a domain-separated SHAKE256 expansion -- the same
// "generate-don't-store" approach the reference Poseidon implementation
// uses via its Grain LFSR, adapted here to a fixed 12-wide state.
package hash

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

const (
	// Width is the number of field elements in the permutation state.
	Width = 12
	// Rate is the number of state elements absorbed/squeezed per block.
	Rate = 8
	// Capacity is the number of state elements reserved for security.
	Capacity = Width - Rate

	numFullRounds    = 8
	numPartialRounds = 7
	sboxPower        = 7
)

var (
	roundConstants [numFullRounds + numPartialRounds][Width]field.Felt
	mdsMatrix      [Width][Width]field.Felt
)

func init() {
	roundConstants = generateRoundConstants()
	mdsMatrix = generateMDS()
}

// expandConstants deterministically derives n field elements from a
// domain-separated SHAKE256 stream, rejecting non-canonical draws.
func expandConstants(domain string, n int) []field.Felt {
	out := make([]field.Felt, 0, n)
	shake := sha3.NewShake256()
	_, _ = shake.Write([]byte("mast-vm/rpo256/" + domain))
	var buf [8]byte
	for len(out) < n {
		if _, err := shake.Read(buf[:]); err != nil {
			panic("hash: shake256 expansion failed: " + err.Error())
		}
		v := binary.LittleEndian.Uint64(buf[:])
		if v >= field.Modulus {
			continue
		}
		out = append(out, field.New(v))
	}
	return out
}

func generateRoundConstants() [numFullRounds + numPartialRounds][Width]field.Felt {
	flat := expandConstants("round-constants", (numFullRounds+numPartialRounds)*Width)
	var rc [numFullRounds + numPartialRounds][Width]field.Felt
	idx := 0
	for r := range rc {
		for c := 0; c < Width; c++ {
			rc[r][c] = flat[idx]
			idx++
		}
	}
	return rc
}

// generateMDS builds a Cauchy matrix M[i][j] = 1/(x_i + y_j), which is
// maximum-distance-separable by construction, mirroring the Cauchy MDS
// generator used for the reference Poseidon permutation.
func generateMDS() [Width][Width]field.Felt {
	xs := expandConstants("mds-x", Width)
	ys := expandConstants("mds-y", Width)
	var m [Width][Width]field.Felt
	for i := 0; i < Width; i++ {
		for j := 0; j < Width; j++ {
			sum := xs[i].Add(ys[j])
			inv, err := sum.Inv()
			if err != nil {
				// Astronomically unlikely for SHAKE-derived constants;
				// perturb deterministically rather than propagate a panic
				// into every caller of the permutation.
				sum = sum.Add(field.One)
				inv, _ = sum.Inv()
			}
			m[i][j] = inv
		}
	}
	return m
}

func sbox(x field.Felt) field.Felt { return x.Pow(sboxPower) }

// Permute applies the fixed 12-element-wide RPO permutation in place.
func Permute(state *[Width]field.Felt) {
	round := 0
	for r := 0; r < numFullRounds/2; r++ {
		fullRound(state, round)
		round++
	}
	for r := 0; r < numPartialRounds; r++ {
		partialRound(state, round)
		round++
	}
	for r := 0; r < numFullRounds/2; r++ {
		fullRound(state, round)
		round++
	}
}

func fullRound(state *[Width]field.Felt, round int) {
	for i := range state {
		state[i] = sbox(state[i].Add(roundConstants[round][i]))
	}
	applyMDS(state)
}

func partialRound(state *[Width]field.Felt, round int) {
	for i := range state {
		state[i] = state[i].Add(roundConstants[round][i])
	}
	state[0] = sbox(state[0])
	applyMDS(state)
}

func applyMDS(state *[Width]field.Felt) {
	var out [Width]field.Felt
	for i := 0; i < Width; i++ {
		acc := field.Zero
		for j := 0; j < Width; j++ {
			acc = acc.Add(mdsMatrix[i][j].Mul(state[j]))
		}
		out[i] = acc
	}
	*state = out
}

// Hash computes the 4-element RPO digest of a sequence of field elements,
// padding with a single 1 followed by zeros to the next rate-sized block
// when the input is not already block-aligned.
func Hash(elements []field.Felt) field.Digest {
	var state [Width]field.Felt
	i := 0
	for ; i+Rate <= len(elements); i += Rate {
		absorbBlock(&state, elements[i:i+Rate])
		Permute(&state)
	}
	rem := elements[i:]
	if len(rem) > 0 || len(elements) == 0 || len(elements)%Rate != 0 {
		var block [Rate]field.Felt
		copy(block[:], rem)
		block[len(rem)] = field.One
		absorbBlock(&state, block[:])
		Permute(&state)
	}
	var out field.Digest
	copy(out[:], state[:4])
	return out
}

// HashWords hashes the concatenation of two digests, the shape used to
// combine a MAST node's children into its own digest.
func HashWords(left, right field.Word) field.Digest {
	elems := make([]field.Felt, 0, 8)
	elems = append(elems, left[:]...)
	elems = append(elems, right[:]...)
	return hashBlockAligned(elems)
}

// hashBlockAligned hashes an input whose length is a nonzero multiple of
// Rate without appending padding, used for merging two already-fixed-width
// digests where no ambiguity about length exists.
func hashBlockAligned(elements []field.Felt) field.Digest {
	var state [Width]field.Felt
	for i := 0; i < len(elements); i += Rate {
		var block [Rate]field.Felt
		copy(block[:], elements[i:i+Rate])
		absorbBlock(&state, block[:])
		Permute(&state)
	}
	var out field.Digest
	copy(out[:], state[:4])
	return out
}

func absorbBlock(state *[Width]field.Felt, block []field.Felt) {
	for i := 0; i < Rate && i < len(block); i++ {
		state[Capacity+i] = state[Capacity+i].Add(block[i])
	}
}

// Sponge is an explicit-state RPO sponge for the MStream memory-hashing
// operation and for the precompile transcript, where the caller controls
// absorb/permute boundaries directly rather than hashing a whole message
// at once.
type Sponge struct {
	State [Width]field.Felt
}

// NewSponge returns a sponge with all-zero initial state.
func NewSponge() *Sponge { return &Sponge{} }

// AbsorbRate absorbs a full rate-sized block of elements and applies the
// permutation. Used directly by callers, such as a basic block's digest
// computation, that build their own rate blocks out of packed data rather
// than pairs of words.
func (s *Sponge) AbsorbRate(block [Rate]field.Felt) {
	absorbBlock(&s.State, block[:])
	Permute(&s.State)
}

// AbsorbWords XORs (adds, in the field) two words into the rate portion of
// the state and applies the permutation, the shape used by MStream to
// stream 8 elements at a time.
func (s *Sponge) AbsorbWords(a, b field.Word) {
	block := [Rate]field.Felt{a[0], a[1], a[2], a[3], b[0], b[1], b[2], b[3]}
	absorbBlock(&s.State, block[:])
	Permute(&s.State)
}

// Digest returns the first 4 elements of the state as the current digest.
func (s *Sponge) Digest() field.Digest {
	var out field.Digest
	copy(out[:], s.State[:4])
	return out
}

// Capacity returns the last Capacity elements of the state, used by the
// precompile transcript as the running capacity word.
func (s *Sponge) Capacity() field.Word {
	var out field.Word
	copy(out[:], s.State[Rate:])
	return out
}

// SetCapacity overwrites the sponge's capacity portion, used to resume a
// transcript from a previously recorded capacity value.
func (s *Sponge) SetCapacity(cap field.Word) {
	copy(s.State[Rate:], cap[:])
}
