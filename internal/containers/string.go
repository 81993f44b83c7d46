package containers

import (
	"github.com/orizon-lang/orizon-mrt/internal/allocator"
	"github.com/orizon-lang/orizon-mrt/internal/errors"
)

// stringType is the immutable string descriptor (§4.9): LEAF, because a
// string's bytes carry no references of their own.
var stringType = mustDescriptor(1020, "string", allocator.FlagLeaf|allocator.FlagVariableSize, 1, 0)

// NewStringFromBytes constructs an immutable string by copying b, so later
// mutation of the caller's slice never reaches into the managed string
// (§4.9 "str_from_bytes").
func NewStringFromBytes(b []byte) *allocator.Object {
	cp := append([]byte(nil), b...)
	return allocator.AllocObj(stringType, uint64(len(cp)), cp)
}

// NewStringFromChar constructs the one-byte string holding value, unencoded
// (§4.9 "str_from_char"): strings are byte sequences with no enforced
// encoding, so this is a plain single-byte string, not a UTF-8 code point.
func NewStringFromChar(value uint8) *allocator.Object {
	return allocator.AllocObj(stringType, 1, []byte{value})
}

func stringBytes(obj *allocator.Object) []byte {
	allocator.CheckedCast(obj, stringType)
	return obj.Data.([]byte)
}

// StrLen returns the string's length in bytes (§4.9 "str_len").
func StrLen(obj *allocator.Object) uint64 {
	return uint64(len(stringBytes(obj)))
}

// StrGetU8 returns the byte at index i, bounds-checked (§4.9 "str_get_u8").
func StrGetU8(obj *allocator.Object, i uint64) uint8 {
	b := stringBytes(obj)
	if i >= uint64(len(b)) {
		allocator.Panic(errors.IndexOutOfBounds(uintptr(i), uintptr(len(b))))
	}

	return b[i]
}

// StrSlice returns a new, independent string holding a copy of [start, end)
// (§4.9 "str_slice"); like array slicing, this is never an aliased view.
func StrSlice(obj *allocator.Object, start, end uint64) *allocator.Object {
	b := stringBytes(obj)
	checkSliceRange(start, end, uint64(len(b)))

	return NewStringFromBytes(b[start:end])
}

// StrDataPtr exposes the string's backing bytes directly for callers that
// need read-only access to the raw byte sequence (§4.9 "str_data_ptr"); Go
// has no raw-pointer equivalent worth exposing, so this returns the backing
// slice itself rather than an unsafe.Pointer. The slice aliases the string's
// storage and nothing prevents writes through it; the string stays unchanged
// only as long as callers treat the slice as read-only.
func StrDataPtr(obj *allocator.Object) []byte {
	return stringBytes(obj)
}
