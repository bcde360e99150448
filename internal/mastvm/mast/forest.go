package mast

import (
	"fmt"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

// Forest is an immutable arena of MAST nodes plus a table of declared
// procedure roots keyed by digest. It never mutates once construction is
// finished; callers build it through a Builder and freeze it.
type Forest struct {
	nodes []Node
	roots map[field.Digest]NodeId
	// kernel holds the digests of procedures callable only via SysCall.
	kernel map[field.Digest]struct{}
}

// Builder accumulates nodes before a Forest is frozen.
type Builder struct {
	nodes []Node
	roots map[field.Digest]NodeId
	kernel map[field.Digest]struct{}
}

// NewBuilder returns an empty forest builder.
func NewBuilder() *Builder {
	return &Builder{
		roots:  make(map[field.Digest]NodeId),
		kernel: make(map[field.Digest]struct{}),
	}
}

// AddNode appends a node to the arena and returns its id.
func (b *Builder) AddNode(n *Node) NodeId {
	id := NodeId(len(b.nodes))
	b.nodes = append(b.nodes, *n)
	return id
}

func (b *Builder) nodeAt(id NodeId) (*Node, error) {
	if int(id) < 0 || int(id) >= len(b.nodes) {
		return nil, fmt.Errorf("mast: child id %d out of range", id)
	}
	return &b.nodes[id], nil
}

// AddBasicBlock constructs a basic block from ops and appends it.
func (b *Builder) AddBasicBlock(ops []Operation, decorators []Decorator) (NodeId, error) {
	n, err := NewBasicBlock(ops, decorators)
	if err != nil {
		return Invalid, err
	}
	return b.AddNode(n), nil
}

// AddJoin constructs a Join over already-added children left and right,
// wiring the resulting node's Left/Right fields to their ids.
func (b *Builder) AddJoin(left, right NodeId) (NodeId, error) {
	l, err := b.nodeAt(left)
	if err != nil {
		return Invalid, err
	}
	r, err := b.nodeAt(right)
	if err != nil {
		return Invalid, err
	}
	n := NewJoin(l, r)
	n.Left, n.Right = left, right
	return b.AddNode(n), nil
}

// AddSplit constructs a Split choosing between already-added thenID and
// elseID children.
func (b *Builder) AddSplit(thenID, elseID NodeId) (NodeId, error) {
	t, err := b.nodeAt(thenID)
	if err != nil {
		return Invalid, err
	}
	e, err := b.nodeAt(elseID)
	if err != nil {
		return Invalid, err
	}
	n := NewSplit(t, e)
	n.Left, n.Right = thenID, elseID
	return b.AddNode(n), nil
}

// AddLoop constructs a Loop around an already-added body child.
func (b *Builder) AddLoop(body NodeId) (NodeId, error) {
	c, err := b.nodeAt(body)
	if err != nil {
		return Invalid, err
	}
	n := NewLoop(c)
	n.Child = body
	return b.AddNode(n), nil
}

// AddCall constructs a Call to an already-added callee child.
func (b *Builder) AddCall(callee NodeId) (NodeId, error) {
	c, err := b.nodeAt(callee)
	if err != nil {
		return Invalid, err
	}
	n := NewCall(c)
	n.Child = callee
	return b.AddNode(n), nil
}

// AddSysCall constructs a SysCall to an already-added callee child.
func (b *Builder) AddSysCall(callee NodeId) (NodeId, error) {
	c, err := b.nodeAt(callee)
	if err != nil {
		return Invalid, err
	}
	n := NewSysCall(c)
	n.Child = callee
	return b.AddNode(n), nil
}

// AddDyn appends a Dyn node reading its target's digest from memAddr.
func (b *Builder) AddDyn(memAddr field.Felt) NodeId {
	return b.AddNode(NewDyn(memAddr))
}

// AddDynCall appends a DynCall node reading its target's digest from memAddr.
func (b *Builder) AddDynCall(memAddr field.Felt) NodeId {
	return b.AddNode(NewDynCall(memAddr))
}

// AddExternal appends an External placeholder resolved lazily at execution.
func (b *Builder) AddExternal(digest field.Digest) NodeId {
	return b.AddNode(NewExternal(digest))
}

// DeclareRoot marks id as a named procedure root, addressable by its
// node's digest.
func (b *Builder) DeclareRoot(id NodeId) error {
	if int(id) >= len(b.nodes) {
		return fmt.Errorf("mast: root id %d out of range", id)
	}
	b.roots[b.nodes[id].Digest()] = id
	return nil
}

// DeclareKernelProcedure marks a digest as callable only via SysCall.
func (b *Builder) DeclareKernelProcedure(digest field.Digest) {
	b.kernel[digest] = struct{}{}
}

// Build freezes the builder into an immutable Forest.
func (b *Builder) Build() *Forest {
	return &Forest{
		nodes:  append([]Node(nil), b.nodes...),
		roots:  b.roots,
		kernel: b.kernel,
	}
}

// GetNodeByID returns the node at id, or false if id is out of range.
func (f *Forest) GetNodeByID(id NodeId) (*Node, bool) {
	if int(id) < 0 || int(id) >= len(f.nodes) {
		return nil, false
	}
	return &f.nodes[id], true
}

// NumNodes returns the number of nodes in the forest's arena.
func (f *Forest) NumNodes() int { return len(f.nodes) }

// FindRoot looks up a declared procedure root by digest.
func (f *Forest) FindRoot(digest field.Digest) (NodeId, bool) {
	id, ok := f.roots[digest]
	return id, ok
}

// IsKernelProcedure reports whether digest names a kernel (SysCall-only)
// procedure.
func (f *Forest) IsKernelProcedure(digest field.Digest) bool {
	_, ok := f.kernel[digest]
	return ok
}

// Merge combines other into a new forest, renumbering other's node ids to
// avoid collision with this forest's arena while preserving every node's
// digest. It returns the merged forest and the id remapping applied to
// other's nodes.
func (f *Forest) Merge(other *Forest) (*Forest, map[NodeId]NodeId) {
	remap := make(map[NodeId]NodeId, len(other.nodes))
	merged := &Forest{
		nodes:  append([]Node(nil), f.nodes...),
		roots:  make(map[field.Digest]NodeId, len(f.roots)+len(other.roots)),
		kernel: make(map[field.Digest]struct{}, len(f.kernel)+len(other.kernel)),
	}
	for d, id := range f.roots {
		merged.roots[d] = id
	}
	for d := range f.kernel {
		merged.kernel[d] = struct{}{}
	}

	offset := NodeId(len(f.nodes))
	for i, n := range other.nodes {
		remapped := remapNode(n, offset, remap)
		merged.nodes = append(merged.nodes, remapped)
		remap[NodeId(i)] = offset + NodeId(i)
	}
	for d, id := range other.roots {
		merged.roots[d] = remap[id]
	}
	for d := range other.kernel {
		merged.kernel[d] = struct{}{}
	}
	return merged, remap
}

// remapNode rewrites a node's child ids by adding a fixed offset; digests
// are untouched since they were computed from child digests, not ids, and
// remain valid after renumbering.
func remapNode(n Node, offset NodeId, _ map[NodeId]NodeId) Node {
	switch n.Kind {
	case KindJoin, KindSplit:
		n.Left += offset
		n.Right += offset
	case KindLoop, KindCall, KindSysCall:
		n.Child += offset
	}
	return n
}
