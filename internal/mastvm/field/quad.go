package field

// Quad is an element of the quadratic extension Felt[x]/(x^2 - 7), used by
// the FRI folding and Horner-evaluation operations that need soundness
// beyond the base field. 7 is a non-residue in the Goldilocks field, so the
// extension is irreducible.
type Quad struct {
	A0, A1 Felt
}

// nonResidue is the constant term of the extension's defining polynomial.
const nonResidue Felt = 7

// QuadZero and QuadOne are the extension's additive and multiplicative
// identities.
var (
	QuadZero = Quad{}
	QuadOne  = Quad{A0: One}
)

// NewQuad builds an extension element from its two base-field components.
func NewQuad(a0, a1 Felt) Quad { return Quad{A0: a0, A1: a1} }

// FromBase lifts a base field element into the extension.
func FromBase(a Felt) Quad { return Quad{A0: a} }

// Add returns q + r componentwise.
func (q Quad) Add(r Quad) Quad {
	return Quad{A0: q.A0.Add(r.A0), A1: q.A1.Add(r.A1)}
}

// Sub returns q - r componentwise.
func (q Quad) Sub(r Quad) Quad {
	return Quad{A0: q.A0.Sub(r.A0), A1: q.A1.Sub(r.A1)}
}

// Neg returns -q.
func (q Quad) Neg() Quad {
	return Quad{A0: q.A0.Neg(), A1: q.A1.Neg()}
}

// Mul returns the extension-field product of q and r:
// (a0 + a1*x)(b0 + b1*x) = (a0*b0 + nonResidue*a1*b1) + (a0*b1 + a1*b0)*x.
func (q Quad) Mul(r Quad) Quad {
	a0b0 := q.A0.Mul(r.A0)
	a1b1 := q.A1.Mul(r.A1)
	a0b1 := q.A0.Mul(r.A1)
	a1b0 := q.A1.Mul(r.A0)
	return Quad{
		A0: a0b0.Add(a1b1.Mul(nonResidue)),
		A1: a0b1.Add(a1b0),
	}
}

// MulBase scales q by a base field element.
func (q Quad) MulBase(s Felt) Quad {
	return Quad{A0: q.A0.Mul(s), A1: q.A1.Mul(s)}
}

// conjugate returns a0 - a1*x, the Galois conjugate of q.
func (q Quad) conjugate() Quad {
	return Quad{A0: q.A0, A1: q.A1.Neg()}
}

// norm returns the base-field norm N(q) = q * conjugate(q) = a0^2 - nonResidue*a1^2.
func (q Quad) norm() Felt {
	return q.A0.Square().Sub(nonResidue.Mul(q.A1.Square()))
}

// Inv returns the multiplicative inverse of q, failing when q is zero.
func (q Quad) Inv() (Quad, error) {
	if q.IsZero() {
		return Quad{}, ErrDivideByZero
	}
	nInv, err := q.norm().Inv()
	if err != nil {
		return Quad{}, err
	}
	return q.conjugate().MulBase(nInv), nil
}

// IsZero reports whether q is the additive identity.
func (q Quad) IsZero() bool { return q.A0.IsZero() && q.A1.IsZero() }

// Equal reports whether q and r denote the same extension element.
func (q Quad) Equal(r Quad) bool { return q.A0 == r.A0 && q.A1 == r.A1 }
