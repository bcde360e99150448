package mast

import (
	"fmt"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
	"github.com/kernelmast/mast-vm/internal/mastvm/hash"
)

// NodeId is a small integer index into a Forest's node arena.
type NodeId uint32

// Invalid is the sentinel id used for absent children.
const Invalid NodeId = ^NodeId(0)

// NodeKind tags the variant of a MAST node.
type NodeKind uint8

const (
	KindBasicBlock NodeKind = iota
	KindJoin
	KindSplit
	KindLoop
	KindCall
	KindSysCall
	KindDyn
	KindDynCall
	KindExternal
)

func (k NodeKind) String() string {
	switch k {
	case KindBasicBlock:
		return "BasicBlock"
	case KindJoin:
		return "Join"
	case KindSplit:
		return "Split"
	case KindLoop:
		return "Loop"
	case KindCall:
		return "Call"
	case KindSysCall:
		return "SysCall"
	case KindDyn:
		return "Dyn"
	case KindDynCall:
		return "DynCall"
	case KindExternal:
		return "External"
	default:
		return "Unknown"
	}
}

// Node is a tagged MAST node. Only the fields relevant to Kind are
// meaningful. Every node carries a precomputed digest, a deterministic
// function of its kind and its children's digests.
type Node struct {
	Kind NodeKind

	// BasicBlock fields.
	Ops        []Operation
	Decorators []Decorator

	// Join / Split: two children.
	Left  NodeId
	Right NodeId

	// Loop / Call / SysCall: one child.
	Child NodeId

	// Dyn / DynCall: memory address holding the target digest.
	MemAddr field.Felt

	// External: the digest of the node this placeholder resolves to.
	ExternalDigest field.Digest

	digest field.Digest
}

// Digest returns the node's precomputed digest.
func (n *Node) Digest() field.Digest { return n.digest }

// NewBasicBlock builds a basic block node from a non-empty operation
// sequence, computing its digest by hashing its operation groups in
// batches of BatchSize through the RPO permutation.
func NewBasicBlock(ops []Operation, decorators []Decorator) (*Node, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("mast: basic block must be non-empty")
	}
	groups := splitIntoGroups(ops)
	batches := splitIntoBatches(groups)

	sponge := hash.NewSponge()
	for _, batch := range batches {
		var block [hash.Rate]field.Felt
		for i, g := range batch {
			block[i] = packGroup(g).packed
		}
		sponge.AbsorbRate(block)
	}
	digest := sponge.Digest()

	return &Node{
		Kind:       KindBasicBlock,
		Ops:        append([]Operation(nil), ops...),
		Decorators: append([]Decorator(nil), decorators...),
		digest:     digest,
	}, nil
}

// NewJoin builds a Join node executing left then right.
func NewJoin(left, right *Node) *Node {
	return &Node{
		Kind:   KindJoin,
		digest: hashPair(domainJoin, left.digest, right.digest),
	}
}

// NewSplit builds a Split node choosing between thenNode and elseNode.
func NewSplit(thenNode, elseNode *Node) *Node {
	return &Node{
		Kind:   KindSplit,
		digest: hashPair(domainSplit, thenNode.digest, elseNode.digest),
	}
}

// NewLoop builds a Loop node around body.
func NewLoop(body *Node) *Node {
	return &Node{
		Kind:   KindLoop,
		digest: hashSingle(domainLoop, body.digest),
	}
}

// NewCall builds a Call node invoking callee.
func NewCall(callee *Node) *Node {
	return &Node{
		Kind:   KindCall,
		digest: hashSingle(domainCall, callee.digest),
	}
}

// NewSysCall builds a SysCall node invoking callee.
func NewSysCall(callee *Node) *Node {
	return &Node{
		Kind:   KindSysCall,
		digest: hashSingle(domainSysCall, callee.digest),
	}
}

// NewDyn builds a Dyn node reading its target's digest from memAddr.
func NewDyn(memAddr field.Felt) *Node {
	return &Node{Kind: KindDyn, MemAddr: memAddr, digest: hashDomainOnly(domainDyn)}
}

// NewDynCall builds a DynCall node reading its target's digest from memAddr.
func NewDynCall(memAddr field.Felt) *Node {
	return &Node{Kind: KindDynCall, MemAddr: memAddr, digest: hashDomainOnly(domainDynCall)}
}

// NewExternal builds a placeholder node for a digest resolved lazily by the
// host at execution time.
func NewExternal(digest field.Digest) *Node {
	return &Node{Kind: KindExternal, ExternalDigest: digest, digest: digest}
}
