package mastvm

import (
	"github.com/kernelmast/mast-vm/internal/mastvm/field"
	"github.com/kernelmast/mast-vm/internal/mastvm/mast"
)

// NoopHost is a minimal Host for programs that need no External/DynCall
// resolution, no source diagnostics, and no precompile commitments —
// useful for embedding a self-contained single-forest program or for
// tests. Emit events are accepted and produce no advice mutations.
type NoopHost struct{}

func (NoopHost) GetMastForest(digest field.Digest) (*mast.Forest, bool) { return nil, false }

func (NoopHost) GetLabelAndSourceFile(location string) (SourceSpan, *SourceFile) {
	return SourceSpan{}, nil
}

func (NoopHost) OnEvent(eventID field.Felt, state ProcessState) ([]AdviceMutation, error) {
	return nil, nil
}

func (NoopHost) GetPrecompileCommitment(tag field.Felt, calldata []byte) (field.Felt, field.Digest) {
	return tag, field.Digest{}
}
