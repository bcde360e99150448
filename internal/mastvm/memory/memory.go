// Package memory implements the VM's per-execution-context,
// word-addressable memory with element- and double-word-addressable views.
package memory

import "github.com/kernelmast/mast-vm/internal/mastvm/field"

// addrSpace bounds every address (element or word) to [0, 2^32).
const addrSpace = uint64(1) << 32

// ContextID identifies an isolated memory region, one per execution
// context created by Call/SysCall/DynCall.
type ContextID uint32

// Memory holds one word-addressable region per execution context. Absent
// words read as the zero word; writes allocate lazily.
type Memory struct {
	contexts map[ContextID]map[uint32]field.Word
}

// New returns an empty multi-context memory.
func New() *Memory {
	return &Memory{contexts: make(map[ContextID]map[uint32]field.Word)}
}

func (m *Memory) region(ctx ContextID) map[uint32]field.Word {
	r, ok := m.contexts[ctx]
	if !ok {
		r = make(map[uint32]field.Word)
		m.contexts[ctx] = r
	}
	return r
}

func checkBounds(addr uint64) error {
	if addr >= addrSpace {
		return &ErrAddressOutOfBounds{Addr: addr, Reason: "address exceeds 2^32"}
	}
	return nil
}

// ReadElement reads a single field element at an element address, with no
// alignment requirement.
func (m *Memory) ReadElement(ctx ContextID, addr uint64) (field.Felt, error) {
	if err := checkBounds(addr); err != nil {
		return field.Zero, err
	}
	wordAddr := uint32(addr >> 2)
	idx := addr & 3
	w := m.region(ctx)[wordAddr]
	return w[idx], nil
}

// WriteElement writes a single field element at an element address.
func (m *Memory) WriteElement(ctx ContextID, addr uint64, v field.Felt) error {
	if err := checkBounds(addr); err != nil {
		return err
	}
	wordAddr := uint32(addr >> 2)
	idx := addr & 3
	region := m.region(ctx)
	w := region[wordAddr]
	w[idx] = v
	region[wordAddr] = w
	return nil
}

// ReadWord reads a full word; addr must be word-aligned (addr & 3 == 0).
func (m *Memory) ReadWord(ctx ContextID, addr uint64) (field.Word, error) {
	if err := checkBounds(addr); err != nil {
		return field.Word{}, err
	}
	if addr&3 != 0 {
		return field.Word{}, &ErrAddressOutOfBounds{Addr: addr, Reason: "address not word-aligned"}
	}
	return m.region(ctx)[uint32(addr>>2)], nil
}

// WriteWord writes a full word; addr must be word-aligned.
func (m *Memory) WriteWord(ctx ContextID, addr uint64, w field.Word) error {
	if err := checkBounds(addr); err != nil {
		return err
	}
	if addr&3 != 0 {
		return &ErrAddressOutOfBounds{Addr: addr, Reason: "address not word-aligned"}
	}
	m.region(ctx)[uint32(addr>>2)] = w
	return nil
}

// ReadDoubleWord reads two consecutive words; addr must satisfy addr & 7 == 0.
func (m *Memory) ReadDoubleWord(ctx ContextID, addr uint64) (field.Word, field.Word, error) {
	if err := checkBounds(addr); err != nil {
		return field.Word{}, field.Word{}, err
	}
	if addr&7 != 0 {
		return field.Word{}, field.Word{}, &ErrAddressOutOfBounds{Addr: addr, Reason: "address not double-word-aligned"}
	}
	region := m.region(ctx)
	base := uint32(addr >> 2)
	return region[base], region[base+1], nil
}

// WriteDoubleWord writes two consecutive words; addr must satisfy addr & 7 == 0.
func (m *Memory) WriteDoubleWord(ctx ContextID, addr uint64, a, b field.Word) error {
	if err := checkBounds(addr); err != nil {
		return err
	}
	if addr&7 != 0 {
		return &ErrAddressOutOfBounds{Addr: addr, Reason: "address not double-word-aligned"}
	}
	region := m.region(ctx)
	base := uint32(addr >> 2)
	region[base] = a
	region[base+1] = b
	return nil
}

// DropContext discards an entire context's memory, used when a call
// context is popped and its isolated region is no longer reachable.
func (m *Memory) DropContext(ctx ContextID) {
	delete(m.contexts, ctx)
}

// Snapshot returns a copy of every word written in a context (including
// words written as zero), keyed by word address, for inclusion in
// execution outputs.
func (m *Memory) Snapshot(ctx ContextID) map[uint32]field.Word {
	out := make(map[uint32]field.Word, len(m.contexts[ctx]))
	for addr, w := range m.contexts[ctx] {
		out[addr] = w
	}
	return out
}
