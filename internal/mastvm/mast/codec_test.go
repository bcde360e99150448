package mast

import (
	"testing"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	forest, join := buildSimpleForest(t)
	encoded := Encode(forest)

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.NumNodes() != forest.NumNodes() {
		t.Fatalf("NumNodes = %d, want %d", decoded.NumNodes(), forest.NumNodes())
	}

	want, _ := forest.GetNodeByID(join)
	got, ok := decoded.GetNodeByID(join)
	if !ok {
		t.Fatalf("decoded forest missing node %d", join)
	}
	if got.Digest() != want.Digest() {
		t.Errorf("decoded node digest = %v, want %v", got.Digest(), want.Digest())
	}
	if _, ok := decoded.FindRoot(want.Digest()); !ok {
		t.Errorf("decoded forest lost the declared root")
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	forest, _ := buildSimpleForest(t)
	encoded := Encode(forest)
	encoded[0] = 'X'
	if _, err := Decode(encoded); err == nil {
		t.Errorf("Decode should reject corrupted magic")
	}
}

func TestVerifyDigestsRejectsMismatch(t *testing.T) {
	nodes := []Node{
		{Kind: KindBasicBlock, Ops: []Operation{Push(field.New(1))}, digest: field.Digest{field.New(999)}},
	}
	if err := verifyDigests(nodes); err == nil {
		t.Errorf("verifyDigests should reject a node whose stored digest doesn't match its recomputation")
	}
}

func TestDecodeRejectsOversizedNodeCount(t *testing.T) {
	forest, _ := buildSimpleForest(t)
	encoded := Encode(forest)
	// Overwrite the node-count field (bytes 8..12, after magic+version)
	// with a value exceeding MaxNodes.
	encoded[8] = 0xFF
	encoded[9] = 0xFF
	encoded[10] = 0xFF
	encoded[11] = 0x7F
	if _, err := Decode(encoded); err == nil {
		t.Errorf("Decode should reject a node count exceeding MaxNodes")
	}
}
