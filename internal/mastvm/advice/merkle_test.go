package advice

import (
	"testing"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

func leaf(v uint64) field.Digest {
	return field.Digest{field.New(v), field.Zero, field.Zero, field.Zero}
}

func buildDepth2Tree(t *testing.T) (*MerkleStore, field.Digest, [4]field.Digest) {
	s := NewMerkleStore()
	leaves := [4]field.Digest{leaf(10), leaf(20), leaf(30), leaf(40)}
	n0 := s.Add(leaves[0], leaves[1])
	n1 := s.Add(leaves[2], leaves[3])
	root := s.Add(n0, n1)
	return s, root, leaves
}

func TestMerklePathMatchesLeaf(t *testing.T) {
	s, root, leaves := buildDepth2Tree(t)
	for index := uint64(0); index < 4; index++ {
		_, got, err := s.Path(root, 2, index)
		if err != nil {
			t.Fatalf("Path(%d) failed: %v", index, err)
		}
		if got != leaves[index] {
			t.Errorf("Path(%d) leaf = %v, want %v", index, got, leaves[index])
		}
	}
}

func TestMerklePathMissingNode(t *testing.T) {
	s := NewMerkleStore()
	if _, _, err := s.Path(field.Digest{}, 2, 0); err == nil {
		t.Errorf("Path against an empty store should fail")
	}
}

func TestMerkleUpdateRoundTrip(t *testing.T) {
	s, root, _ := buildDepth2Tree(t)
	newLeaf := leaf(99)

	newRoot, oldRoot, err := s.Update(root, 2, 1, newLeaf)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if oldRoot != root {
		t.Errorf("Update returned oldRoot = %v, want %v", oldRoot, root)
	}
	if newRoot == root {
		t.Errorf("Update should produce a different root after a real change")
	}

	_, got, err := s.Path(newRoot, 2, 1)
	if err != nil {
		t.Fatalf("Path against new root failed: %v", err)
	}
	if got != newLeaf {
		t.Errorf("updated leaf = %v, want %v", got, newLeaf)
	}

	// The old tree, addressed by its own root, must still be intact
	// (structural sharing, not in-place mutation).
	_, stillOld, err := s.Path(root, 2, 1)
	if err != nil {
		t.Fatalf("Path against old root failed: %v", err)
	}
	if stillOld != leaf(20) {
		t.Errorf("old tree leaf mutated: got %v, want original", stillOld)
	}
}

func TestMergeRootsIsContentAddressed(t *testing.T) {
	s := NewMerkleStore()
	left, right := leaf(1), leaf(2)
	a := s.MergeRoots(left, right)
	b := s.MergeRoots(left, right)
	if a != b {
		t.Errorf("MergeRoots should be deterministic: %v != %v", a, b)
	}
}
