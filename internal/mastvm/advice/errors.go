package advice

import (
	"errors"
	"fmt"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

// ErrStackReadFailed is returned when popping from an empty advice stack.
var ErrStackReadFailed = errors.New("advice: stack read failed, stack is empty")

// ErrKeyAlreadyPresent is returned when inserting a key already present in
// the advice map with a different value sequence.
type ErrKeyAlreadyPresent struct {
	Key field.Digest
}

func (e *ErrKeyAlreadyPresent) Error() string {
	return fmt.Sprintf("advice: key %v already present in map with different values", e.Key)
}

// ErrMerklePathDoesNotExist is returned when no recorded path exists for
// the requested (root, depth, index).
type ErrMerklePathDoesNotExist struct {
	Root  field.Digest
	Depth uint64
	Index uint64
}

func (e *ErrMerklePathDoesNotExist) Error() string {
	return fmt.Sprintf("advice: no merkle path for root %v at depth %d index %d", e.Root, e.Depth, e.Index)
}
