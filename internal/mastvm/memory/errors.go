package memory

import "fmt"

// ErrAddressOutOfBounds is returned when an address or alignment
// requirement is violated.
type ErrAddressOutOfBounds struct {
	Addr   uint64
	Reason string
}

func (e *ErrAddressOutOfBounds) Error() string {
	return fmt.Sprintf("memory: address %d out of bounds: %s", e.Addr, e.Reason)
}
