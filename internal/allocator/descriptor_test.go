package allocator

import "testing"

func TestNewTypeDescriptorRejectsIncompatibleABI(t *testing.T) {
	if _, err := NewTypeDescriptor(1, "t", FlagLeaf, 8, 8, "2.0.0"); err == nil {
		t.Fatal("expected an error for a major-version mismatch")
	}
}

func TestNewTypeDescriptorRejectsMalformedABI(t *testing.T) {
	if _, err := NewTypeDescriptor(1, "t", FlagLeaf, 8, 8, "not-a-version"); err == nil {
		t.Fatal("expected an error for an unparseable abi string")
	}
}

func TestTraceStrategyPrecedence(t *testing.T) {
	t.Run("trace function wins", func(t *testing.T) {
		d, _ := NewTypeDescriptor(1, "t", 0, 8, 0, "1.0.0")

		var marked []Ref

		d.WithTrace(func(obj *Object, mark func(Ref)) {
			marked = append(marked, obj)
		})
		d.WithPointerOffsets(0)

		obj := &Object{Type: d}
		d.trace(obj, func(r Ref) {})

		if len(marked) != 1 || marked[0] != obj {
			t.Fatalf("trace function was not invoked as expected")
		}
	})

	t.Run("pointer offsets mark selected slots", func(t *testing.T) {
		d, _ := NewTypeDescriptor(2, "t", 0, 8, 0, "1.0.0")
		d.WithPointerOffsets(0, 2)

		child0 := &Object{Type: d}
		child2 := &Object{Type: d}
		slots := []Ref{child0, nil, child2}
		obj := &Object{Type: d, Data: slots}

		var seen []Ref

		d.trace(obj, func(r Ref) { seen = append(seen, r) })

		if len(seen) != 2 || seen[0] != child0 || seen[1] != child2 {
			t.Fatalf("trace marked %v, want [child0, child2]", seen)
		}
	})

	t.Run("leaf marks nothing", func(t *testing.T) {
		d, _ := NewTypeDescriptor(3, "t", FlagLeaf, 8, 8, "1.0.0")
		obj := &Object{Type: d}

		called := false

		d.trace(obj, func(r Ref) { called = true })

		if called {
			t.Fatal("leaf descriptor invoked mark")
		}
	})
}

func TestValidateExactlyOneStrategy(t *testing.T) {
	d, _ := NewTypeDescriptor(4, "t", 0, 8, 0, "1.0.0")
	if err := d.validate(); err == nil {
		t.Fatal("expected validate to reject zero trace strategies")
	}

	d.WithTrace(func(obj *Object, mark func(Ref)) {})
	d.WithPointerOffsets(0)

	if err := d.validate(); err == nil {
		t.Fatal("expected validate to reject two simultaneous trace strategies")
	}
}
