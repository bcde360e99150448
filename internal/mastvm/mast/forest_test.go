package mast

import (
	"testing"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

func buildSimpleForest(t *testing.T) (*Forest, NodeId) {
	b := NewBuilder()
	bb1, err := b.AddBasicBlock([]Operation{Push(field.New(1))}, nil)
	if err != nil {
		t.Fatalf("AddBasicBlock failed: %v", err)
	}
	bb2, err := b.AddBasicBlock([]Operation{Push(field.New(2))}, nil)
	if err != nil {
		t.Fatalf("AddBasicBlock failed: %v", err)
	}
	join, err := b.AddJoin(bb1, bb2)
	if err != nil {
		t.Fatalf("AddJoin failed: %v", err)
	}
	if err := b.DeclareRoot(join); err != nil {
		t.Fatalf("DeclareRoot failed: %v", err)
	}
	return b.Build(), join
}

func TestBuilderWiresChildIds(t *testing.T) {
	forest, join := buildSimpleForest(t)
	node, ok := forest.GetNodeByID(join)
	if !ok {
		t.Fatalf("GetNodeByID(%d) not found", join)
	}
	if node.Kind != KindJoin {
		t.Fatalf("root kind = %v, want Join", node.Kind)
	}
	if node.Left == 0 && node.Right == 0 {
		t.Errorf("Join children were not wired: Left=%d Right=%d", node.Left, node.Right)
	}
	left, ok := forest.GetNodeByID(node.Left)
	if !ok || left.Kind != KindBasicBlock {
		t.Errorf("Left child is not the expected basic block")
	}
	right, ok := forest.GetNodeByID(node.Right)
	if !ok || right.Kind != KindBasicBlock {
		t.Errorf("Right child is not the expected basic block")
	}
}

func TestFindRoot(t *testing.T) {
	forest, join := buildSimpleForest(t)
	node, _ := forest.GetNodeByID(join)
	id, ok := forest.FindRoot(node.Digest())
	if !ok || id != join {
		t.Errorf("FindRoot = (%d, %v), want (%d, true)", id, ok, join)
	}
}

func TestKernelProcedureDeclaration(t *testing.T) {
	b := NewBuilder()
	bb, err := b.AddBasicBlock([]Operation{OpNoopOperation}, nil)
	if err != nil {
		t.Fatalf("AddBasicBlock failed: %v", err)
	}
	node, _ := b.nodeAt(bb)
	b.DeclareKernelProcedure(node.Digest())
	forest := b.Build()
	if !forest.IsKernelProcedure(node.Digest()) {
		t.Errorf("IsKernelProcedure should report true for declared kernel digest")
	}
	if forest.IsKernelProcedure(field.Digest{}) {
		t.Errorf("IsKernelProcedure should report false for undeclared digest")
	}
}

func TestMergePreservesDigestsAndRemapsIds(t *testing.T) {
	b1 := NewBuilder()
	bb1, _ := b1.AddBasicBlock([]Operation{Push(field.New(1))}, nil)
	forest1 := b1.Build()

	b2 := NewBuilder()
	bb2a, _ := b2.AddBasicBlock([]Operation{Push(field.New(2))}, nil)
	bb2b, _ := b2.AddBasicBlock([]Operation{Push(field.New(3))}, nil)
	join2, err := b2.AddJoin(bb2a, bb2b)
	if err != nil {
		t.Fatalf("AddJoin failed: %v", err)
	}
	if err := b2.DeclareRoot(join2); err != nil {
		t.Fatalf("DeclareRoot failed: %v", err)
	}
	forest2 := b2.Build()

	merged, remap := forest1.Merge(forest2)

	origJoin, _ := forest2.GetNodeByID(join2)
	remappedID := remap[join2]
	remappedJoin, ok := merged.GetNodeByID(remappedID)
	if !ok {
		t.Fatalf("remapped join id %d not found in merged forest", remappedID)
	}
	if remappedJoin.Digest() != origJoin.Digest() {
		t.Errorf("Merge changed a node's digest: %v != %v", remappedJoin.Digest(), origJoin.Digest())
	}
	if remap[join2] <= remap[bb2a] {
		t.Errorf("merged join id should come after its remapped children")
	}
	if _, ok := merged.FindRoot(origJoin.Digest()); !ok {
		t.Errorf("merged forest should retain the root declared on forest2")
	}
	_ = bb1
}
