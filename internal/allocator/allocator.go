package allocator

import (
	"math"

	"github.com/orizon-lang/orizon-mrt/internal/errors"
)

// HeaderSize is the nominal size, in bytes, of the fixed portion of every
// managed object (type pointer + size + flags, word-aligned). It exists so
// GCStats byte counts have the same shape as a native implementation's even
// though Go objects aren't laid out as a single flat allocation; every
// AllocObj call folds it into SizeBytes.
const HeaderSize = 24

// AllocObj implements alloc_obj (§4.2): it computes the total allocation
// size with an overflow check, opportunistically collects if the projected
// total would cross the threshold, constructs the header, tracks the
// object, and returns it. data is the already-zero-valued Go representation
// of the new object's payload (a scalar, a []byte, or a []Ref whose entries
// are all nil) - the caller building it from Go zero values satisfies the
// "freshly allocated reference slots read as no reference" requirement
// without a separate zeroing pass.
func AllocObj(typ *TypeDescriptor, payloadBytes uint64, data any) *Object {
	typ.ensureValid()

	total, ok := addOverflowChecked(uint64(HeaderSize), payloadBytes)
	if !ok {
		PanicOOM("alloc_obj: size computation overflowed")
	}

	gc := State().gc
	gc.maybeCollect(total)

	obj := &Object{
		Type:      typ,
		SizeBytes: uintptr(total),
		Data:      data,
	}

	gc.track(obj)

	return obj
}

// addOverflowChecked adds a and b, reporting overflow against a 64-bit
// unsigned result the way the spec's native size computation would against
// its native word size.
func addOverflowChecked(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}

	return sum, true
}

// mulOverflowChecked multiplies a and b, used by typed-array and string
// constructors computing len * element_size (§4.8).
func mulOverflowChecked(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}

	product := a * b
	if product/a != b || product > math.MaxInt64 {
		return 0, false
	}

	return product, true
}

// MulOverflowChecked is the exported form used by internal/containers.
func MulOverflowChecked(a, b uint64) (uint64, bool) { return mulOverflowChecked(a, b) }

// AddOverflowChecked is the exported form used by internal/containers.
func AddOverflowChecked(a, b uint64) (uint64, bool) { return addOverflowChecked(a, b) }

// GCTrackAllocation exposes gc.track for callers (containers) that build
// the Object directly rather than through AllocObj - currently unused
// directly since every container goes through AllocObj, kept to satisfy the
// §6 flat symbol surface (`gc_track_allocation`) as a documented entry
// point a future allocation path could call without reaching into the
// collector's internals.
func GCTrackAllocation(obj *Object) {
	if obj == nil {
		Panic(errors.NullArgument("obj", "gc_track_allocation"))
	}

	State().gc.track(obj)
}

// GCMaybeCollect exposes gc.maybeCollect for the same reason as
// GCTrackAllocation above.
func GCMaybeCollect(upcomingBytes uint64) {
	State().gc.maybeCollect(upcomingBytes)
}
