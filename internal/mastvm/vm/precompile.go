package vm

import (
	"github.com/kernelmast/mast-vm/internal/mastvm/field"
	"github.com/kernelmast/mast-vm/internal/mastvm/hash"
)

// PrecompileRequest is one deferred-to-the-host computation: opaque
// calldata tagged for the host to recognize, plus the commitment it
// returned.
type PrecompileRequest struct {
	Tag        field.Felt
	Calldata   []byte
	Commitment field.Digest
}

// PrecompileTranscript threads an RPO sponge capacity through every
// log_precompile operation, absorbing [CAP_PREV, TAG, COMM] each time, so a
// verifier replaying the recorded requests can reconstruct the same
// capacity independently of the VM.
type PrecompileTranscript struct {
	sponge   *hash.Sponge
	requests []PrecompileRequest
}

// NewPrecompileTranscript returns a transcript with zero initial capacity.
func NewPrecompileTranscript() *PrecompileTranscript {
	return &PrecompileTranscript{sponge: hash.NewSponge()}
}

// Absorb records a request and advances the transcript, absorbing the tag
// and commitment words through the sponge whose capacity carries CAP_PREV
// forward from the previous call.
func (t *PrecompileTranscript) Absorb(tag field.Felt, calldata []byte, commitment field.Digest) {
	t.requests = append(t.requests, PrecompileRequest{Tag: tag, Calldata: calldata, Commitment: commitment})
	tagWord := field.Word{tag, field.Zero, field.Zero, field.Zero}
	t.sponge.AbsorbWords(tagWord, commitment)
}

// Finalize absorbs two zero words per the finalization convention and
// returns the resulting capacity.
func (t *PrecompileTranscript) Finalize() field.Word {
	t.sponge.AbsorbWords(field.ZeroWord, field.ZeroWord)
	return t.sponge.Capacity()
}

// Requests returns the recorded precompile requests in absorption order.
func (t *PrecompileTranscript) Requests() []PrecompileRequest {
	return append([]PrecompileRequest(nil), t.requests...)
}

// Digest returns the transcript's current capacity without finalizing,
// for inspection mid-execution.
func (t *PrecompileTranscript) Digest() field.Word {
	return t.sponge.Capacity()
}
