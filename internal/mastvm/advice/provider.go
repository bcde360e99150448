package advice

import "github.com/kernelmast/mast-vm/internal/mastvm/field"

// Provider bundles the advice stack, advice map, and Merkle store that
// together make up the VM's nondeterministic inputs. It is owned
// exclusively by one execution; the host may only mutate it via
// AdviceMutation values returned from an event handler.
type Provider struct {
	Stack  *Stack
	Map    *Map
	Merkle *MerkleStore
}

// Inputs is the initial state a Provider is constructed from.
type Inputs struct {
	Stack []field.Felt
	Map   map[field.Digest][]field.Felt
}

// NewProvider builds a Provider from initial inputs, pre-populating the
// advice map (later identical re-insertions remain no-ops; differing ones
// still fail the uniqueness check like any other insertion).
func NewProvider(in Inputs) (*Provider, error) {
	p := &Provider{
		Stack:  NewStack(in.Stack),
		Map:    NewMap(),
		Merkle: NewMerkleStore(),
	}
	for k, v := range in.Map {
		if err := p.Map.Insert(k, v); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Snapshot is an immutable view of a Provider's state at a point in time,
// produced at the end of execution.
type Snapshot struct {
	Stack      []field.Felt
	MapEntries map[field.Digest][]field.Felt
}

// Snapshot captures the current advice stack and map contents. The Merkle
// store is not snapshotted element-wise since its content-addressed nodes
// are already immutable once inserted; callers retain the *Provider for
// further path queries against any root it has ever produced.
func (p *Provider) Snapshot() Snapshot {
	entries := make(map[field.Digest][]field.Felt, p.Map.Len())
	for k, v := range p.Map.entries {
		entries[k] = append([]field.Felt(nil), v...)
	}
	return Snapshot{
		Stack:      p.Stack.Snapshot(),
		MapEntries: entries,
	}
}
