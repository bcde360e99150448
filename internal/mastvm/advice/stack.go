package advice

import "github.com/kernelmast/mast-vm/internal/mastvm/field"

// Stack is a LIFO of field elements supplied non-deterministically by the
// host ahead of execution; operations consume from the top.
type Stack struct {
	elems []field.Felt
}

// NewStack returns a stack pre-loaded with values, topmost last in the
// given slice (i.e. values[len(values)-1] pops first).
func NewStack(values []field.Felt) *Stack {
	return &Stack{elems: append([]field.Felt(nil), values...)}
}

// Pop removes and returns the top element.
func (s *Stack) Pop() (field.Felt, error) {
	if len(s.elems) == 0 {
		return field.Zero, ErrStackReadFailed
	}
	v := s.elems[len(s.elems)-1]
	s.elems = s.elems[:len(s.elems)-1]
	return v, nil
}

// PopWord removes and returns the top four elements in top-first order.
func (s *Stack) PopWord() (field.Word, error) {
	var w field.Word
	for i := 0; i < 4; i++ {
		v, err := s.Pop()
		if err != nil {
			return field.Word{}, err
		}
		w[i] = v
	}
	return w, nil
}

// Push appends a single element to the top.
func (s *Stack) Push(v field.Felt) { s.elems = append(s.elems, v) }

// PushWord pushes a word's elements so that w[0] pops first.
func (s *Stack) PushWord(w field.Word) {
	for i := 3; i >= 0; i-- {
		s.Push(w[i])
	}
}

// Extend pushes every element of vs in order, so vs[len(vs)-1] pops first.
func (s *Stack) Extend(vs []field.Felt) {
	s.elems = append(s.elems, vs...)
}

// Len returns the number of elements remaining on the stack.
func (s *Stack) Len() int { return len(s.elems) }

// Snapshot returns a copy of the remaining elements, bottom-first.
func (s *Stack) Snapshot() []field.Felt {
	return append([]field.Felt(nil), s.elems...)
}
