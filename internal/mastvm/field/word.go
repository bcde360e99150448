package field

import "fmt"

// Word is an ordered 4-tuple of field elements. Digests are Words; memory
// cells and stack overflow slots also traffic in Words.
type Word [4]Felt

// Digest is a Word used as a cryptographic commitment (a MAST node hash, a
// Merkle root, a program hash).
type Digest = Word

// ZeroWord is the all-zero word.
var ZeroWord = Word{}

// BytesBE encodes w as the big-endian concatenation of its four elements'
// canonical little-endian byte encodings, i.e. element 0 is most
// significant.
func (w Word) BytesBE() [32]byte {
	var out [32]byte
	for i := 0; i < 4; i++ {
		b := w[3-i].Bytes()
		copy(out[i*8:i*8+8], b[:])
	}
	return out
}

// BytesLE encodes w as the concatenation of its four elements' canonical
// little-endian byte encodings in index order, i.e. element 0 is least
// significant.
func (w Word) BytesLE() [32]byte {
	var out [32]byte
	for i := 0; i < 4; i++ {
		b := w[i].Bytes()
		copy(out[i*8:i*8+8], b[:])
	}
	return out
}

// WordFromBytesBE decodes the inverse of BytesBE, failing if any 8-byte
// chunk is not a canonical field element.
func WordFromBytesBE(b [32]byte) (Word, error) {
	var w Word
	for i := 0; i < 4; i++ {
		var chunk [8]byte
		copy(chunk[:], b[i*8:i*8+8])
		v, err := FromBytes(chunk)
		if err != nil {
			return Word{}, fmt.Errorf("field: word element %d: %w", 3-i, err)
		}
		w[3-i] = v
	}
	return w, nil
}

// Equal reports whether w and v are the same word.
func (w Word) Equal(v Word) bool { return w == v }

// IsZero reports whether every element of w is zero.
func (w Word) IsZero() bool { return w == Word{} }

// String renders w as a bracketed list of decimal elements, most
// significant first.
func (w Word) String() string {
	return fmt.Sprintf("[%s, %s, %s, %s]", w[0], w[1], w[2], w[3])
}

// Reverse returns w with its elements in reverse order.
func (w Word) Reverse() Word {
	return Word{w[3], w[2], w[1], w[0]}
}
