package containers

import (
	"github.com/orizon-lang/orizon-mrt/internal/allocator"
	"github.com/orizon-lang/orizon-mrt/internal/errors"
)

// strbufStorageType is the separate, LEAF + VARIABLE_SIZE backing block a
// string buffer owns (§4.10). It exists as its own tracked object so
// `reserve` can swap it out from under a live buffer reference.
var strbufStorageType = mustDescriptor(1030, "strbuf.storage", allocator.FlagLeaf|allocator.FlagVariableSize, 1, 0)

// strbufType is HAS_REFS: its trace callback marks the storage reference,
// nothing else (§4.10).
var strbufType = mustDescriptor(1031, "strbuf", allocator.FlagHasRefs, 8, 0).WithTrace(traceStrbuf)

type strbufStorage struct {
	bytes []byte
}

type strbufPayload struct {
	storage allocator.Ref
	length  uint64
}

func traceStrbuf(obj *allocator.Object, mark func(allocator.Ref)) {
	p := obj.Data.(*strbufPayload)
	mark(p.storage)
}

func newStorage(capacity uint64) *allocator.Object {
	return allocator.AllocObj(strbufStorageType, capacity, &strbufStorage{bytes: make([]byte, capacity)})
}

// NewStringBuffer allocates a storage block of the given capacity and an
// empty buffer referencing it, rooting the storage across the buffer's own
// allocation so a collection the buffer allocation triggers cannot reclaim
// it first (§4.10 "new").
func NewStringBuffer(capacity uint64) *allocator.Object {
	storage := newStorage(capacity)

	var frame allocator.RootFrame

	slots := make([]allocator.Ref, 1)
	allocator.FrameInit(&frame, slots)

	if err := allocator.PushRoots(&frame); err != nil {
		allocator.Panic(errors.NullArgument("frame", "strbuf_new"))
	}

	allocator.RootSlotStore(&frame, 0, storage)

	buf := allocator.AllocObj(strbufType, 0, &strbufPayload{storage: storage})

	allocator.PopRoots()

	return buf
}

// NewStringBufferFromString builds a buffer whose initial content is a copy
// of str's bytes (§4.10 "from_str").
func NewStringBufferFromString(str *allocator.Object) *allocator.Object {
	b := stringBytes(str)
	buf := NewStringBuffer(uint64(len(b)))
	p := strbufPayloadOf(buf)
	st := storageOf(p.storage)
	copy(st.bytes, b)
	p.length = uint64(len(b))

	return buf
}

func strbufPayloadOf(obj *allocator.Object) *strbufPayload {
	allocator.CheckedCast(obj, strbufType)
	return obj.Data.(*strbufPayload)
}

func storageOf(ref allocator.Ref) *strbufStorage {
	allocator.CheckedCast(ref, strbufStorageType)
	return ref.Data.(*strbufStorage)
}

// StrbufLen returns the buffer's current content length.
func StrbufLen(obj *allocator.Object) uint64 {
	return strbufPayloadOf(obj).length
}

// StrbufCapacity returns the buffer's current backing storage capacity.
func StrbufCapacity(obj *allocator.Object) uint64 {
	p := strbufPayloadOf(obj)
	return uint64(len(storageOf(p.storage).bytes))
}

// StrbufGetU8 returns the byte at index i, bounds-checked against len, not
// capacity (§4.10).
func StrbufGetU8(obj *allocator.Object, i uint64) uint8 {
	p := strbufPayloadOf(obj)
	if i >= p.length {
		allocator.Panic(errors.IndexOutOfBounds(uintptr(i), uintptr(p.length)))
	}

	return storageOf(p.storage).bytes[i]
}

// StrbufSetU8 writes v, truncated to 8 bits, at index i, bounds-checked
// against len (§4.10).
func StrbufSetU8(obj *allocator.Object, i uint64, v uint64) {
	p := strbufPayloadOf(obj)
	if i >= p.length {
		allocator.Panic(errors.IndexOutOfBounds(uintptr(i), uintptr(p.length)))
	}

	storageOf(p.storage).bytes[i] = uint8(v)
}

// StrbufReserve grows the buffer's backing storage to at least newCapacity,
// a no-op if the current capacity already suffices. The replacement storage
// is held in a temporary root frame from just after its allocation while the
// first len bytes are copied into it, then installed (§4.10 "reserve"). The
// buffer itself is not rooted by this function.
func StrbufReserve(obj *allocator.Object, newCapacity uint64) {
	p := strbufPayloadOf(obj)
	current := storageOf(p.storage)

	if newCapacity <= uint64(len(current.bytes)) {
		return
	}

	next := newStorage(newCapacity)

	var frame allocator.RootFrame

	slots := make([]allocator.Ref, 1)
	allocator.FrameInit(&frame, slots)
	_ = allocator.PushRoots(&frame)
	allocator.RootSlotStore(&frame, 0, next)

	copy(next.Data.(*strbufStorage).bytes, current.bytes[:p.length])

	allocator.PopRoots()

	p.storage = next
}

// StrbufToStr copies the buffer's current content into a new immutable
// string (§4.10 "to_str").
func StrbufToStr(obj *allocator.Object) *allocator.Object {
	p := strbufPayloadOf(obj)
	st := storageOf(p.storage)

	return NewStringFromBytes(st.bytes[:p.length])
}

// StrbufSetLen sets len to any value up to the storage capacity, used by
// append-style builders: StrbufSetU8 only writes below len, so the length is
// extended first and the new bytes are written afterwards.
func StrbufSetLen(obj *allocator.Object, length uint64) {
	p := strbufPayloadOf(obj)
	if length > uint64(len(storageOf(p.storage).bytes)) {
		allocator.Panic(errors.InvalidSize(uintptr(length), "strbuf_set_len"))
	}

	p.length = length
}
