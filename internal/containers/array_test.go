package containers

import (
	"testing"

	"github.com/orizon-lang/orizon-mrt/internal/allocator"
)

func TestArrayPrimitiveRoundTrip(t *testing.T) {
	resetRuntime(t)

	arr := NewI64Array(5)
	if got := ArrayLen(arr); got != 5 {
		t.Fatalf("ArrayLen = %d, want 5", got)
	}

	for i := 0; i < 5; i++ {
		ArraySetI64(arr, i, int64(i*10))
	}

	for i := 0; i < 5; i++ {
		if got := ArrayGetI64(arr, i); got != int64(i*10) {
			t.Errorf("ArrayGetI64(%d) = %d, want %d", i, got, i*10)
		}
	}
}

func TestArrayU8Truncates(t *testing.T) {
	resetRuntime(t)

	arr := NewU8Array(1)
	ArraySetU8(arr, 0, 0x1FF)

	if got := ArrayGetU8(arr, 0); got != 0xFF {
		t.Errorf("ArrayGetU8 = %#x, want 0xff", got)
	}
}

func TestArrayBoolNormalizes(t *testing.T) {
	resetRuntime(t)

	arr := NewBoolArray(2)
	ArraySetBool(arr, 0, 5)
	ArraySetBool(arr, 1, 0)

	if !ArrayGetBool(arr, 0) {
		t.Error("ArrayGetBool(0) = false, want true")
	}

	if ArrayGetBool(arr, 1) {
		t.Error("ArrayGetBool(1) = true, want false")
	}
}

func TestArrayBoundsViolationPanics(t *testing.T) {
	resetRuntime(t)

	exited := false
	restore := allocator.SetExitFuncForTest(func(int) { exited = true; panic("exit") })
	defer restore()

	defer func() {
		recover()

		if !exited {
			t.Fatal("expected out-of-bounds ArrayGetI64 to panic")
		}
	}()

	arr := NewI64Array(2)
	ArrayGetI64(arr, 2)
}

func TestArrayKindMismatchPanics(t *testing.T) {
	resetRuntime(t)

	exited := false
	restore := allocator.SetExitFuncForTest(func(int) { exited = true; panic("exit") })
	defer restore()

	defer func() {
		recover()

		if !exited {
			t.Fatal("expected ArrayGetU64 on an i64 array to panic")
		}
	}()

	arr := NewI64Array(1)
	ArrayGetU64(arr, 0)
}

func TestArraySliceIsIndependentCopy(t *testing.T) {
	resetRuntime(t)

	arr := NewI64Array(4)
	for i := 0; i < 4; i++ {
		ArraySetI64(arr, i, int64(i))
	}

	sliced := Slice(arr, 1, 3)
	if got := ArrayLen(sliced); got != 2 {
		t.Fatalf("ArrayLen(sliced) = %d, want 2", got)
	}

	ArraySetI64(sliced, 0, 99)

	if got := ArrayGetI64(arr, 1); got != 1 {
		t.Errorf("source mutated by slice write: ArrayGetI64(1) = %d, want 1", got)
	}

	if got := ArrayGetI64(sliced, 0); got != 99 {
		t.Errorf("ArrayGetI64(sliced, 0) = %d, want 99", got)
	}
}

func TestArraySliceInvalidRangePanics(t *testing.T) {
	resetRuntime(t)

	exited := false
	restore := allocator.SetExitFuncForTest(func(int) { exited = true; panic("exit") })
	defer restore()

	defer func() {
		recover()

		if !exited {
			t.Fatal("expected slice(start > end) to panic")
		}
	}()

	arr := NewI64Array(4)
	Slice(arr, 3, 1)
}

func TestRefArrayStoresReferences(t *testing.T) {
	resetRuntime(t)

	inner := NewI64Array(1)
	ArraySetI64(inner, 0, 123)

	arr := NewRefArray(2)
	ArraySetRef(arr, 0, inner)

	if got := ArrayGetRef(arr, 0); got != inner {
		t.Error("ArrayGetRef did not return the stored reference")
	}

	if got := ArrayGetRef(arr, 1); got != nil {
		t.Errorf("ArrayGetRef(1) = %v, want nil for an unset slot", got)
	}
}
