// Package containers implements the managed container primitives built on
// top of internal/allocator: boxed scalars, typed arrays, strings, string
// buffers, and reference vectors (spec §4.7-4.11).
package containers

import (
	"github.com/orizon-lang/orizon-mrt/internal/allocator"
)

// Each box kind is a distinct, immutable, LEAF type descriptor (§4.7). The
// "stored widened to 64 bits" detail the spec calls out for U8 and BOOL is a
// native-representation concern with no observable effect once Get returns
// the narrow Go type, so this runtime stores the narrow type directly.
var (
	boxI64Type  = mustDescriptor(1001, "box.i64", allocator.FlagLeaf, 8, 8)
	boxU64Type  = mustDescriptor(1002, "box.u64", allocator.FlagLeaf, 8, 8)
	boxU8Type   = mustDescriptor(1003, "box.u8", allocator.FlagLeaf, 1, 1)
	boxBoolType = mustDescriptor(1004, "box.bool", allocator.FlagLeaf, 1, 1)
	boxF64Type  = mustDescriptor(1005, "box.f64", allocator.FlagLeaf, 8, 8)
)

func mustDescriptor(id uint32, name string, flags allocator.Flag, align, fixedSize uintptr) *allocator.TypeDescriptor {
	d, err := allocator.NewTypeDescriptor(id, name, flags, align, fixedSize, "1.0.0")
	if err != nil {
		panic(err)
	}

	return d
}

// NewI64 constructs an immutable signed 64-bit box.
func NewI64(v int64) *allocator.Object {
	return allocator.AllocObj(boxI64Type, boxI64Type.FixedSizeBytes, v)
}

// GetI64 reads a signed 64-bit box, panicking with bad-cast if obj is not
// one.
func GetI64(obj *allocator.Object) int64 {
	allocator.CheckedCast(obj, boxI64Type)
	return obj.Data.(int64)
}

// NewU64 constructs an immutable unsigned 64-bit box.
func NewU64(v uint64) *allocator.Object {
	return allocator.AllocObj(boxU64Type, boxU64Type.FixedSizeBytes, v)
}

// GetU64 reads an unsigned 64-bit box.
func GetU64(obj *allocator.Object) uint64 {
	allocator.CheckedCast(obj, boxU64Type)
	return obj.Data.(uint64)
}

// NewU8 constructs an immutable 8-bit unsigned box; v is truncated to 8
// bits on construction.
func NewU8(v uint64) *allocator.Object {
	return allocator.AllocObj(boxU8Type, boxU8Type.FixedSizeBytes, uint8(v))
}

// GetU8 reads an 8-bit unsigned box.
func GetU8(obj *allocator.Object) uint8 {
	allocator.CheckedCast(obj, boxU8Type)
	return obj.Data.(uint8)
}

// NewBool constructs an immutable boolean box; any nonzero v normalizes to
// true.
func NewBool(v uint64) *allocator.Object {
	return allocator.AllocObj(boxBoolType, boxBoolType.FixedSizeBytes, v != 0)
}

// GetBool reads a boolean box.
func GetBool(obj *allocator.Object) bool {
	allocator.CheckedCast(obj, boxBoolType)
	return obj.Data.(bool)
}

// NewF64 constructs an immutable IEEE-754 double box.
func NewF64(v float64) *allocator.Object {
	return allocator.AllocObj(boxF64Type, boxF64Type.FixedSizeBytes, v)
}

// GetF64 reads an IEEE-754 double box.
func GetF64(obj *allocator.Object) float64 {
	allocator.CheckedCast(obj, boxF64Type)
	return obj.Data.(float64)
}
