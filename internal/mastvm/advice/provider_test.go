package advice

import (
	"testing"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

func TestNewProviderPrepopulatesMap(t *testing.T) {
	key := field.Digest{field.New(7)}
	p, err := NewProvider(Inputs{
		Stack: []field.Felt{field.New(1)},
		Map:   map[field.Digest][]field.Felt{key: {field.New(2), field.New(3)}},
	})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	got, ok := p.Map.Get(key)
	if !ok || len(got) != 2 {
		t.Errorf("advice map was not pre-populated from Inputs")
	}
}

func TestProviderSnapshot(t *testing.T) {
	p, err := NewProvider(Inputs{Stack: []field.Felt{field.New(1), field.New(2)}})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	snap := p.Snapshot()
	if len(snap.Stack) != 2 {
		t.Errorf("Snapshot.Stack length = %d, want 2", len(snap.Stack))
	}
	if _, err := p.Stack.Pop(); err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	if len(snap.Stack) != 2 {
		t.Errorf("Snapshot should be a copy unaffected by later mutation")
	}
}
