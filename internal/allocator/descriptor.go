// Package allocator implements the managed-memory core for the Orizon
// runtime: type descriptors, object headers, the allocator, and the
// stop-the-world mark-and-sweep collector. Containers built on top of this
// package live in internal/containers.
package allocator

import (
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/orizon-mrt/internal/errors"
)

// Flag is a bitset carried on a TypeDescriptor describing how the collector
// should treat objects of that type.
type Flag uint32

const (
	// FlagHasRefs marks a type whose payload may contain outgoing references.
	FlagHasRefs Flag = 1 << iota
	// FlagVariableSize marks a type whose payload size is not fixed by the
	// descriptor alone (e.g. arrays, strings); the true size lives in the header.
	FlagVariableSize
	// FlagLeaf marks a type with no outgoing references at all.
	FlagLeaf
)

func (f Flag) has(bit Flag) bool { return f&bit != 0 }

// Ref is a single reference cell: the address of a managed object, or nil
// for "no reference". Root-frame slots, global-root slots and the reference
// fields inside containers are all of this type, mirroring the spec's single
// uniform notion of a root.
type Ref = *Object

// TraceFunc visits every reference cell owned by obj, calling mark for each.
// Implementations must never allocate and must never call back into the
// collector; mark tolerates a nil reference.
type TraceFunc func(obj *Object, mark func(Ref))

// TypeDescriptor is immutable, process-lifetime metadata describing one
// managed object kind. Descriptors are compared by pointer identity, never
// by value, so two descriptors with identical fields are still distinct
// types.
//
// PointerOffsets is the Go-idiomatic reading of the spec's "byte offsets"
// struct-shaped trace strategy: since this runtime represents a struct-shaped
// payload as a []Ref slice rather than a raw byte buffer (there is no flat
// memory layout to take offsets into in a hosted Go implementation), the
// entries are slot indices into that slice rather than byte offsets. See
// DESIGN.md for the grounding of this choice.
type TypeDescriptor struct {
	TraceFn        TraceFunc
	DebugName      string
	PointerOffsets []int
	ABIVersion     *semver.Version
	TypeID         uint32
	Flags          Flag
	AlignBytes     uintptr
	FixedSizeBytes uintptr

	validateOnce sync.Once
	validateErr  *errors.StandardError
}

// runtimeABI is the ABI major version this build of the runtime implements.
// A descriptor registered with an incompatible major version is rejected at
// registration time, before any object of that type can exist.
var runtimeABI = semver.MustParse("1.0.0")

// NewTypeDescriptor validates the ABI version and constructs a
// TypeDescriptor. It does not check the §4.1 invariant that exactly one
// trace strategy is selected (a trace function, a non-empty pointer-offset
// table, or the leaf flag); ensureValid checks that on first allocation.
func NewTypeDescriptor(typeID uint32, name string, flags Flag, alignBytes, fixedSize uintptr, abi string) (*TypeDescriptor, error) {
	v, err := semver.NewVersion(abi)
	if err != nil {
		return nil, fmt.Errorf("allocator: parsing abi version for type %q: %w", name, err)
	}

	if v.Major() != runtimeABI.Major() {
		return nil, fmt.Errorf("allocator: type %q declares abi %s, runtime supports major version %d", name, v, runtimeABI.Major())
	}

	d := &TypeDescriptor{
		TypeID:         typeID,
		DebugName:      name,
		Flags:          flags,
		ABIVersion:     v,
		AlignBytes:     alignBytes,
		FixedSizeBytes: fixedSize,
	}

	return d, nil
}

// WithTrace attaches a trace callback and clears the leaf flag.
func (d *TypeDescriptor) WithTrace(fn TraceFunc) *TypeDescriptor {
	d.TraceFn = fn
	d.Flags |= FlagHasRefs
	d.Flags &^= FlagLeaf

	return d
}

// WithPointerOffsets attaches a struct-shaped trace strategy: the object's
// payload must be a []Ref, and the given slot indices are marked directly
// without a custom callback.
func (d *TypeDescriptor) WithPointerOffsets(slots ...int) *TypeDescriptor {
	d.PointerOffsets = slots
	d.Flags |= FlagHasRefs
	d.Flags &^= FlagLeaf

	return d
}

// validate checks the §4.1 "exactly one trace strategy" invariant.
func (d *TypeDescriptor) validate() *errors.StandardError {
	strategies := 0
	if d.TraceFn != nil {
		strategies++
	}

	if len(d.PointerOffsets) > 0 {
		strategies++
	}

	if d.Flags.has(FlagLeaf) {
		strategies++
	}

	if strategies != 1 {
		return errors.InvalidDescriptor(d.DebugName, strategies)
	}

	return nil
}

// ensureValid runs validate lazily on first use rather than at construction
// (WithTrace / WithPointerOffsets are applied after NewTypeDescriptor
// returns), memoizing the result so every later allocation of this type
// pays no repeat cost. It panics through the standard fatal path on a
// descriptor that still hasn't settled on exactly one trace strategy.
func (d *TypeDescriptor) ensureValid() {
	d.validateOnce.Do(func() {
		d.validateErr = d.validate()
	})

	if d.validateErr != nil {
		Panic(d.validateErr)
	}
}

// trace walks the children of obj using the descriptor's selected strategy,
// per the §4.1 precedence: trace function, then pointer-offset table, then
// leaf (no children).
func (d *TypeDescriptor) trace(obj *Object, mark func(Ref)) {
	switch {
	case d.TraceFn != nil:
		d.TraceFn(obj, mark)
	case len(d.PointerOffsets) > 0:
		slots, _ := obj.Data.([]Ref)
		for _, idx := range d.PointerOffsets {
			if idx >= 0 && idx < len(slots) {
				mark(slots[idx])
			}
		}
	default:
		// Leaf: no children.
	}
}
