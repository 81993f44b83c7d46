package containers

import (
	"github.com/orizon-lang/orizon-mrt/internal/allocator"
	"github.com/orizon-lang/orizon-mrt/internal/errors"
)

const vectorInitialCapacity = 4

// vectorStorageType holds the growable backing slots; both it and the
// vector itself are HAS_REFS (§4.11).
var vectorStorageType = mustDescriptor(1040, "vector.storage", allocator.FlagHasRefs|allocator.FlagVariableSize, 8, 0).WithTrace(traceVectorStorage)

var vectorType = mustDescriptor(1041, "vector", allocator.FlagHasRefs, 8, 0).WithTrace(traceVector)

type vectorStorage struct {
	elements []allocator.Ref
}

type vectorPayload struct {
	storage allocator.Ref
	length  uint64
}

func traceVectorStorage(obj *allocator.Object, mark func(allocator.Ref)) {
	s := obj.Data.(*vectorStorage)
	for _, ref := range s.elements {
		mark(ref)
	}
}

func traceVector(obj *allocator.Object, mark func(allocator.Ref)) {
	p := obj.Data.(*vectorPayload)
	mark(p.storage)
}

func newVectorStorage(capacity uint64) *allocator.Object {
	return allocator.AllocObj(vectorStorageType, capacity*8, &vectorStorage{elements: make([]allocator.Ref, capacity)})
}

// NewVector allocates an initial storage of capacity 4 under a temporary
// root, then allocates the vector, then installs the storage reference
// (§4.11 "new").
func NewVector() *allocator.Object {
	storage := newVectorStorage(vectorInitialCapacity)

	var frame allocator.RootFrame

	slots := make([]allocator.Ref, 1)
	allocator.FrameInit(&frame, slots)
	_ = allocator.PushRoots(&frame)
	allocator.RootSlotStore(&frame, 0, storage)

	vec := allocator.AllocObj(vectorType, 0, &vectorPayload{storage: storage})

	allocator.PopRoots()

	return vec
}

func vectorPayloadOf(obj *allocator.Object) *vectorPayload {
	allocator.CheckedCast(obj, vectorType)
	return obj.Data.(*vectorPayload)
}

func vectorStorageOf(ref allocator.Ref) *vectorStorage {
	allocator.CheckedCast(ref, vectorStorageType)
	return ref.Data.(*vectorStorage)
}

// VectorLen returns the number of elements pushed (§4.11 "len").
func VectorLen(obj *allocator.Object) uint64 {
	return vectorPayloadOf(obj).length
}

// VectorPush appends value, growing the backing storage geometrically
// (×2, floored at 4) when full. The new storage is held in a temporary root
// frame from just after its allocation while the existing elements are
// copied into it, then installed (§4.11 "push"). The vector itself is not
// rooted by this function.
func VectorPush(obj *allocator.Object, value allocator.Ref) {
	p := vectorPayloadOf(obj)
	cur := vectorStorageOf(p.storage)

	if p.length == uint64(len(cur.elements)) {
		newCap := uint64(len(cur.elements)) * 2
		if newCap < vectorInitialCapacity {
			newCap = vectorInitialCapacity
		}

		next := newVectorStorage(newCap)

		var frame allocator.RootFrame

		slots := make([]allocator.Ref, 1)
		allocator.FrameInit(&frame, slots)
		_ = allocator.PushRoots(&frame)
		allocator.RootSlotStore(&frame, 0, next)

		copy(next.Data.(*vectorStorage).elements, cur.elements[:p.length])

		allocator.PopRoots()

		p.storage = next
		cur = next.Data.(*vectorStorage)
	}

	cur.elements[p.length] = value
	p.length++
}

// VectorGet returns the element at index i, bounds-checked against len
// (§4.11 "get").
func VectorGet(obj *allocator.Object, i uint64) allocator.Ref {
	p := vectorPayloadOf(obj)
	if i >= p.length {
		allocator.Panic(errors.IndexOutOfBounds(uintptr(i), uintptr(p.length)))
	}

	return vectorStorageOf(p.storage).elements[i]
}

// VectorSet overwrites the element at index i, bounds-checked against len
// (§4.11 "set").
func VectorSet(obj *allocator.Object, i uint64, value allocator.Ref) {
	p := vectorPayloadOf(obj)
	if i >= p.length {
		allocator.Panic(errors.IndexOutOfBounds(uintptr(i), uintptr(p.length)))
	}

	vectorStorageOf(p.storage).elements[i] = value
}
