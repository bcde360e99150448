package vm

import "github.com/kernelmast/mast-vm/internal/mastvm/field"

// FRI folding-by-4 needs a handful of constants derived from the field's
// generator: the domain offset itself, and the first three negative powers
// of tau, the generator of the order-4 subgroup. These are computed here
// rather than hardcoded, following this module's generate-don't-store
// convention for derived cryptographic constants (see hash/rpo.go's round
// constants).
var (
	friGenerator = field.New(7)
	friTau       = friGenerator.Pow((field.Modulus - 1) / 4)
	friTauInv    = mustInv(friTau)
	friTau2Inv   = friTauInv.Mul(friTauInv)
	friTau3Inv   = friTau2Inv.Mul(friTauInv)
	friTwoInv    = mustInv(field.New(2))
)

func mustInv(f field.Felt) field.Felt {
	inv, err := f.Inv()
	if err != nil {
		panic("vm: fri constant inverse of zero: " + err.Error())
	}
	return inv
}

// friTauFactor returns the power of 1/tau associated with a FRI domain
// segment (0-3), used to recover the evaluation point x from poe.
func friTauFactor(segment uint64) field.Felt {
	switch segment {
	case 0:
		return field.One
	case 1:
		return friTauInv
	case 2:
		return friTau2Inv
	case 3:
		return friTau3Inv
	default:
		return field.Zero
	}
}

// friSegmentFlags returns the one-hot encoding of segment, written back to
// the stack so the next fold step can re-derive which quarter of the
// source domain this layer folded.
func friSegmentFlags(segment uint64) [4]field.Felt {
	var flags [4]field.Felt
	flags[segment] = field.One
	return flags
}

// fold2 combines two evaluations of a polynomial at x and -x into a single
// evaluation of the folded polynomial, per the standard FRI folding-by-2
// step: ((f(x) + f(-x)) + (f(x) - f(-x))*ep) / 2.
func fold2(fx, fNegX, ep field.Quad) field.Quad {
	sum := fx.Add(fNegX)
	diff := fx.Sub(fNegX).Mul(ep)
	return sum.Add(diff).MulBase(friTwoInv)
}

// fold4 performs one FRI folding-by-4 step: two folding-by-2 steps across
// the even/odd-indexed source values, then a final folding-by-2 of their
// results. It returns the fully folded value along with the two
// intermediate folds, which are written back to the stack for the next
// layer's consistency check.
func fold4(values [4]field.Quad, ev, es field.Quad) (folded, tmp0, tmp1 field.Quad) {
	tmp0 = fold2(values[0], values[2], ev)
	tmp1 = fold2(values[1], values[3], ev.MulBase(friTauInv))
	folded = fold2(tmp0, tmp1, es)
	return folded, tmp0, tmp1
}
