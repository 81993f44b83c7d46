package allocator

import "testing"

func expectPanic(t *testing.T, fn func()) {
	t.Helper()

	exited := false
	restore := SetExitFuncForTest(func(int) { exited = true; panic("exit") })
	defer restore()

	defer func() {
		recover()

		if !exited {
			t.Fatal("expected the operation to panic")
		}
	}()

	fn()
}

func TestPanicNullDeref(t *testing.T) {
	Shutdown()
	defer Shutdown()

	expectPanic(t, func() { PanicNullDeref("deref") })
}

func TestCheckedCastRejectsNil(t *testing.T) {
	Shutdown()
	defer Shutdown()

	expectPanic(t, func() { CheckedCast(nil, leafType) })
}

func TestCheckedCastRejectsWrongType(t *testing.T) {
	Shutdown()
	defer Shutdown()

	other, _ := NewTypeDescriptor(9003, "test.other", FlagLeaf, 8, 8, "1.0.0")
	obj := &Object{Type: other}

	expectPanic(t, func() { CheckedCast(obj, leafType) })
}

func TestCheckedCastAcceptsMatchingType(t *testing.T) {
	Shutdown()
	defer Shutdown()

	obj := &Object{Type: leafType}
	if got := CheckedCast(obj, leafType); got != obj {
		t.Fatal("CheckedCast should return obj unchanged on a matching type")
	}
}
