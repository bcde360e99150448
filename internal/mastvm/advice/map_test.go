package advice

import (
	"testing"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

func TestMapInsertAndGet(t *testing.T) {
	m := NewMap()
	key := field.Digest{field.New(1)}
	values := []field.Felt{field.New(10), field.New(20)}
	if err := m.Insert(key, values); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	got, ok := m.Get(key)
	if !ok {
		t.Fatalf("Get returned ok=false after Insert")
	}
	if len(got) != 2 || got[0] != field.New(10) || got[1] != field.New(20) {
		t.Errorf("Get = %v, want %v", got, values)
	}
}

func TestMapReinsertSameValuesIsNoop(t *testing.T) {
	m := NewMap()
	key := field.Digest{field.New(1)}
	values := []field.Felt{field.New(10)}
	if err := m.Insert(key, values); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}
	if err := m.Insert(key, values); err != nil {
		t.Errorf("re-inserting identical values should be a no-op, got error: %v", err)
	}
}

func TestMapReinsertDifferentValuesFails(t *testing.T) {
	m := NewMap()
	key := field.Digest{field.New(1)}
	if err := m.Insert(key, []field.Felt{field.New(10)}); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}
	if err := m.Insert(key, []field.Felt{field.New(11)}); err == nil {
		t.Errorf("re-inserting a different sequence under the same key should fail")
	}
}
