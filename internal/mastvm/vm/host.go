package vm

import (
	"github.com/kernelmast/mast-vm/internal/mastvm/field"
	"github.com/kernelmast/mast-vm/internal/mastvm/mast"
)

// SourceSpan is an opaque, host-interpreted location within a source file.
type SourceSpan struct {
	Start, End uint32
}

// SourceFile names the file a SourceSpan belongs to.
type SourceFile struct {
	Path string
}

// ProcessState is the read-only view of VM state passed to Host.OnEvent; a
// host may inspect it but never mutate VM state directly.
type ProcessState struct {
	Clk         uint32
	StackTop    []field.Felt
	ContextID   uint32
	InSyscall   bool
}

// AdviceMutation is a declarative change the host asks the driver to apply
// to the advice provider in response to an event. Mutations, not
// callbacks, keep host interactions auditable and replayable.
type AdviceMutation struct {
	Kind AdviceMutationKind

	PushStackValue field.Felt
	PushStackWord  field.Word
	ExtendValues   []field.Felt

	MapKey    field.Digest
	MapValues []field.Felt

	MerkleRoot  field.Digest
	MerkleDepth uint64
	MerkleIndex uint64
	MerkleValue field.Digest

	MergeLeft, MergeRight field.Digest
}

// AdviceMutationKind discriminates AdviceMutation variants.
type AdviceMutationKind int

const (
	MutationPushStack AdviceMutationKind = iota
	MutationPushStackWord
	MutationExtendStack
	MutationInsertIntoMap
	MutationMerkleUpdate
	MutationMergeRoots
)

// Host is the pluggable, purely reactive external collaborator: it
// resolves External/DynCall targets, resolves source spans for
// diagnostics, answers Emit events with advice mutations, and supplies
// precompile commitments. It cannot preempt execution or mutate
// memory/stack directly.
type Host interface {
	GetMastForest(digest field.Digest) (*mast.Forest, bool)
	GetLabelAndSourceFile(location string) (SourceSpan, *SourceFile)
	OnEvent(eventID field.Felt, state ProcessState) ([]AdviceMutation, error)
	GetPrecompileCommitment(tag field.Felt, calldata []byte) (field.Felt, field.Digest)
}
