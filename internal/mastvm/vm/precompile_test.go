package vm

import (
	"testing"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

func TestPrecompileTranscriptRecordsRequests(t *testing.T) {
	pct := NewPrecompileTranscript()
	commitment := field.Digest{field.New(1), field.New(2), field.New(3), field.New(4)}
	pct.Absorb(field.New(7), []byte("calldata"), commitment)

	reqs := pct.Requests()
	if len(reqs) != 1 {
		t.Fatalf("Requests() len = %d, want 1", len(reqs))
	}
	if reqs[0].Tag != field.New(7) || reqs[0].Commitment != commitment {
		t.Errorf("recorded request = %+v", reqs[0])
	}
}

func TestPrecompileTranscriptIsOrderSensitive(t *testing.T) {
	a := NewPrecompileTranscript()
	a.Absorb(field.New(1), nil, field.Digest{})
	a.Absorb(field.New(2), nil, field.Digest{})

	b := NewPrecompileTranscript()
	b.Absorb(field.New(2), nil, field.Digest{})
	b.Absorb(field.New(1), nil, field.Digest{})

	if a.Digest() == b.Digest() {
		t.Errorf("absorbing requests in different order should yield different capacities")
	}
}

func TestPrecompileTranscriptFinalizeChangesCapacity(t *testing.T) {
	pct := NewPrecompileTranscript()
	pct.Absorb(field.New(1), nil, field.Digest{})
	before := pct.Digest()
	after := pct.Finalize()
	if before == after {
		t.Errorf("Finalize should change the capacity by absorbing padding")
	}
}
