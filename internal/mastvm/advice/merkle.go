// Package advice implements the VM's nondeterministic input sources: the
// advice stack, the advice map, and a content-addressed Merkle store.
package advice

import (
	"github.com/kernelmast/mast-vm/internal/mastvm/field"
	"github.com/kernelmast/mast-vm/internal/mastvm/hash"
)

type merkleNode struct {
	left, right field.Digest
}

// MerkleStore is a content-addressed table of internal Merkle nodes keyed
// by their own digest. Distinct trees sharing a subtree automatically share
// storage for it, since a subtree's digest is the same regardless of which
// root it hangs from.
type MerkleStore struct {
	nodes map[field.Digest]merkleNode
}

// NewMerkleStore returns an empty Merkle store.
func NewMerkleStore() *MerkleStore {
	return &MerkleStore{nodes: make(map[field.Digest]merkleNode)}
}

// Add records an internal node with the given children and returns its
// digest, inserting it into the content-addressed table.
func (s *MerkleStore) Add(left, right field.Digest) field.Digest {
	d := hash.HashWords(left, right)
	s.nodes[d] = merkleNode{left: left, right: right}
	return d
}

// Path walks from root down to the leaf at index within a tree of the
// given depth, returning the sibling digests encountered (root-to-leaf
// order) and the digest found at the leaf position.
func (s *MerkleStore) Path(root field.Digest, depth, index uint64) (MerklePath, field.Digest, error) {
	path := make(MerklePath, 0, depth)
	cur := root
	for level := uint64(0); level < depth; level++ {
		n, ok := s.nodes[cur]
		if !ok {
			return nil, field.Digest{}, &ErrMerklePathDoesNotExist{Root: root, Depth: depth, Index: index}
		}
		bit := (index >> (depth - 1 - level)) & 1
		if bit == 0 {
			path = append(path, n.right)
			cur = n.left
		} else {
			path = append(path, n.left)
			cur = n.right
		}
	}
	return path, cur, nil
}

// Update replaces the leaf at index within the tree rooted at root (depth
// levels deep) with newValue, inserting every newly-formed internal node
// along the path and returning the new and old roots.
func (s *MerkleStore) Update(root field.Digest, depth, index uint64, newValue field.Digest) (newRoot, oldRoot field.Digest, err error) {
	path, _, err := s.Path(root, depth, index)
	if err != nil {
		return field.Digest{}, field.Digest{}, err
	}
	cur := newValue
	for level := int(depth) - 1; level >= 0; level-- {
		sibling := path[level]
		bit := (index >> uint64(depth-1-uint64(level))) & 1
		var left, right field.Digest
		if bit == 0 {
			left, right = cur, sibling
		} else {
			left, right = sibling, cur
		}
		cur = s.Add(left, right)
	}
	return cur, root, nil
}

// MergeRoots combines two existing roots into a new parent node, returning
// its digest.
func (s *MerkleStore) MergeRoots(left, right field.Digest) field.Digest {
	return s.Add(left, right)
}

// MerklePath is the ordered sequence of sibling digests from root to leaf.
type MerklePath []field.Digest
