package containers

import (
	"github.com/orizon-lang/orizon-mrt/internal/allocator"
	"github.com/orizon-lang/orizon-mrt/internal/errors"
)

// ElementKind is the kind tag stored inside every typed array (§4.8).
type ElementKind int

const (
	KindI64 ElementKind = iota
	KindU64
	KindU8
	KindBool
	KindDouble
	KindRef
)

func (k ElementKind) String() string {
	switch k {
	case KindI64:
		return "i64"
	case KindU64:
		return "u64"
	case KindU8:
		return "u8"
	case KindBool:
		return "bool"
	case KindDouble:
		return "double"
	case KindRef:
		return "ref"
	default:
		return "unknown"
	}
}

func elementSize(k ElementKind) uint64 {
	switch k {
	case KindU8:
		return 1
	case KindBool:
		return 1
	default:
		return 8
	}
}

// arrayPayload backs both the primitive and the reference array type
// descriptors; Raw holds the concrete backing slice for Kind.
type arrayPayload struct {
	Raw  any
	Kind ElementKind
}

var (
	primitiveArrayType = mustDescriptor(1010, "array.primitive", allocator.FlagLeaf|allocator.FlagVariableSize, 8, 0)
	refArrayType       = mustDescriptor(1011, "array.ref", allocator.FlagVariableSize, 8, 0).WithTrace(traceRefArray)
)

func traceRefArray(obj *allocator.Object, mark func(allocator.Ref)) {
	p := obj.Data.(arrayPayload)
	for _, ref := range p.Raw.([]allocator.Ref) {
		mark(ref)
	}
}

// newArray builds a fresh, zeroed array of length and kind, raising OOM on
// size overflow (§4.8 "new_X").
func newArray(kind ElementKind, length uint64) *allocator.Object {
	payloadBytes, ok := allocator.MulOverflowChecked(length, elementSize(kind))
	if !ok {
		allocator.PanicOOM("new array: length * element size overflowed")
	}

	var raw any

	typ := primitiveArrayType

	switch kind {
	case KindI64:
		raw = make([]int64, length)
	case KindU64:
		raw = make([]uint64, length)
	case KindU8:
		raw = make([]uint8, length)
	case KindBool:
		raw = make([]bool, length)
	case KindDouble:
		raw = make([]float64, length)
	case KindRef:
		raw = make([]allocator.Ref, length)
		typ = refArrayType
	}

	return allocator.AllocObj(typ, payloadBytes, arrayPayload{Kind: kind, Raw: raw})
}

func NewI64Array(length uint64) *allocator.Object    { return newArray(KindI64, length) }
func NewU64Array(length uint64) *allocator.Object    { return newArray(KindU64, length) }
func NewU8Array(length uint64) *allocator.Object     { return newArray(KindU8, length) }
func NewBoolArray(length uint64) *allocator.Object   { return newArray(KindBool, length) }
func NewDoubleArray(length uint64) *allocator.Object { return newArray(KindDouble, length) }
func NewRefArray(length uint64) *allocator.Object    { return newArray(KindRef, length) }

func payloadOf(obj *allocator.Object) arrayPayload {
	if obj.Type != primitiveArrayType && obj.Type != refArrayType {
		allocator.PanicBadCast(obj.Type, primitiveArrayType)
	}

	return obj.Data.(arrayPayload)
}

// ArrayLen returns the array's length, valid for any array kind.
func ArrayLen(obj *allocator.Object) uint64 {
	p := payloadOf(obj)
	return uint64(rawLen(p))
}

func rawLen(p arrayPayload) int {
	switch r := p.Raw.(type) {
	case []int64:
		return len(r)
	case []uint64:
		return len(r)
	case []uint8:
		return len(r)
	case []bool:
		return len(r)
	case []float64:
		return len(r)
	case []allocator.Ref:
		return len(r)
	default:
		return 0
	}
}

func checkKind(p arrayPayload, want ElementKind, op string) {
	if p.Kind != want {
		allocator.Panic(errors.KindMismatch(op, want.String(), p.Kind.String()))
	}
}

func checkBounds(i, length int, op string) {
	if i < 0 || i >= length {
		allocator.Panic(errors.IndexOutOfBounds(uintptr(i), uintptr(length)))
	}
}

func ArrayGetI64(obj *allocator.Object, i int) int64 {
	p := payloadOf(obj)
	checkKind(p, KindI64, "get_i64")
	s := p.Raw.([]int64)
	checkBounds(i, len(s), "get_i64")

	return s[i]
}

func ArraySetI64(obj *allocator.Object, i int, v int64) {
	p := payloadOf(obj)
	checkKind(p, KindI64, "set_i64")
	s := p.Raw.([]int64)
	checkBounds(i, len(s), "set_i64")
	s[i] = v
}

func ArrayGetU64(obj *allocator.Object, i int) uint64 {
	p := payloadOf(obj)
	checkKind(p, KindU64, "get_u64")
	s := p.Raw.([]uint64)
	checkBounds(i, len(s), "get_u64")

	return s[i]
}

func ArraySetU64(obj *allocator.Object, i int, v uint64) {
	p := payloadOf(obj)
	checkKind(p, KindU64, "set_u64")
	s := p.Raw.([]uint64)
	checkBounds(i, len(s), "set_u64")
	s[i] = v
}

func ArrayGetU8(obj *allocator.Object, i int) uint8 {
	p := payloadOf(obj)
	checkKind(p, KindU8, "get_u8")
	s := p.Raw.([]uint8)
	checkBounds(i, len(s), "get_u8")

	return s[i]
}

// ArraySetU8 truncates v to 8 bits on store (§4.8).
func ArraySetU8(obj *allocator.Object, i int, v uint64) {
	p := payloadOf(obj)
	checkKind(p, KindU8, "set_u8")
	s := p.Raw.([]uint8)
	checkBounds(i, len(s), "set_u8")
	s[i] = uint8(v)
}

func ArrayGetBool(obj *allocator.Object, i int) bool {
	p := payloadOf(obj)
	checkKind(p, KindBool, "get_bool")
	s := p.Raw.([]bool)
	checkBounds(i, len(s), "get_bool")

	return s[i]
}

// ArraySetBool normalizes any nonzero v to true (§4.8).
func ArraySetBool(obj *allocator.Object, i int, v uint64) {
	p := payloadOf(obj)
	checkKind(p, KindBool, "set_bool")
	s := p.Raw.([]bool)
	checkBounds(i, len(s), "set_bool")
	s[i] = v != 0
}

func ArrayGetDouble(obj *allocator.Object, i int) float64 {
	p := payloadOf(obj)
	checkKind(p, KindDouble, "get_double")
	s := p.Raw.([]float64)
	checkBounds(i, len(s), "get_double")

	return s[i]
}

func ArraySetDouble(obj *allocator.Object, i int, v float64) {
	p := payloadOf(obj)
	checkKind(p, KindDouble, "set_double")
	s := p.Raw.([]float64)
	checkBounds(i, len(s), "set_double")
	s[i] = v
}

func ArrayGetRef(obj *allocator.Object, i int) allocator.Ref {
	p := payloadOf(obj)
	checkKind(p, KindRef, "get_ref")
	s := p.Raw.([]allocator.Ref)
	checkBounds(i, len(s), "get_ref")

	return s[i]
}

func ArraySetRef(obj *allocator.Object, i int, v allocator.Ref) {
	p := payloadOf(obj)
	checkKind(p, KindRef, "set_ref")
	s := p.Raw.([]allocator.Ref)
	checkBounds(i, len(s), "set_ref")
	s[i] = v
}

// checkSliceRange validates start <= end <= len, raising invalid-slice-range
// otherwise (§4.8, §7).
func checkSliceRange(start, end, length uint64) {
	if start > end || end > length {
		allocator.Panic(errors.InvalidSliceRange(uintptr(start), uintptr(end), uintptr(length)))
	}
}

// Slice produces a new, independent array of the same kind holding a
// byte-for-byte (slot-for-slot, for REF) copy of [start, end). Slicing is
// never an aliased view (§4.8, §9 open question resolved as "copy").
func Slice(obj *allocator.Object, start, end uint64) *allocator.Object {
	p := payloadOf(obj)
	length := uint64(rawLen(p))
	checkSliceRange(start, end, length)

	switch r := p.Raw.(type) {
	case []int64:
		cp := append([]int64(nil), r[start:end]...)
		return allocator.AllocObj(primitiveArrayType, (end-start)*elementSize(KindI64), arrayPayload{Kind: KindI64, Raw: cp})
	case []uint64:
		cp := append([]uint64(nil), r[start:end]...)
		return allocator.AllocObj(primitiveArrayType, (end-start)*elementSize(KindU64), arrayPayload{Kind: KindU64, Raw: cp})
	case []uint8:
		cp := append([]uint8(nil), r[start:end]...)
		return allocator.AllocObj(primitiveArrayType, (end-start)*elementSize(KindU8), arrayPayload{Kind: KindU8, Raw: cp})
	case []bool:
		cp := append([]bool(nil), r[start:end]...)
		return allocator.AllocObj(primitiveArrayType, (end-start)*elementSize(KindBool), arrayPayload{Kind: KindBool, Raw: cp})
	case []float64:
		cp := append([]float64(nil), r[start:end]...)
		return allocator.AllocObj(primitiveArrayType, (end-start)*elementSize(KindDouble), arrayPayload{Kind: KindDouble, Raw: cp})
	case []allocator.Ref:
		cp := append([]allocator.Ref(nil), r[start:end]...)
		return allocator.AllocObj(refArrayType, (end-start)*elementSize(KindRef), arrayPayload{Kind: KindRef, Raw: cp})
	default:
		allocator.PanicOOM("slice: unrecognized array payload")
		return nil
	}
}
