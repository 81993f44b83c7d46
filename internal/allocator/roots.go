package allocator

import (
	"github.com/orizon-lang/orizon-mrt/internal/errors"
)

// RootFrame is a shadow-stack frame: a caller-owned array of reference
// cells, linked to the frame below it. Lifetime equals the function
// activation that pushed it; frames must be popped in LIFO order (§4.3).
type RootFrame struct {
	prev  *RootFrame
	slots []Ref
}

// FrameInit records the backing array and clears every slot to "no
// reference", so a collection triggered before the mutator stores into a
// freshly pushed frame never observes garbage pointers.
func FrameInit(frame *RootFrame, slots []Ref) {
	frame.slots = slots
	for i := range frame.slots {
		frame.slots[i] = nil
	}
}

// PushRoots links frame above the current top of the shadow stack.
func PushRoots(frame *RootFrame) error {
	if frame == nil {
		return errors.NullArgument("frame", "push_roots")
	}

	st := State()
	frame.prev = st.rootsTop
	st.rootsTop = frame

	return nil
}

// PopRoots detaches the top frame. Underflow (pop with nothing pushed) is a
// fatal condition per §4.3 and is reported through Panic rather than
// returned, matching every other shadow-stack discipline violation.
func PopRoots() {
	st := State()
	if st.rootsTop == nil {
		Panic(errors.ShadowStackUnderflow())
	}

	st.rootsTop = st.rootsTop.prev
}

// RootSlotStore writes ref into frame's slot i, after a bounds check.
func RootSlotStore(frame *RootFrame, i int, ref Ref) {
	if i < 0 || i >= len(frame.slots) {
		Panic(errors.IndexOutOfBounds(uintptr(i), uintptr(len(frame.slots))))
	}

	frame.slots[i] = ref
}

// RootSlotLoad reads frame's slot i, after a bounds check.
func RootSlotLoad(frame *RootFrame, i int) Ref {
	if i < 0 || i >= len(frame.slots) {
		Panic(errors.IndexOutOfBounds(uintptr(i), uintptr(len(frame.slots))))
	}

	return frame.slots[i]
}

// globalRootEntry is one node of the singly-linked global root registry
// (§4.4). Ordering is immaterial; the registry only needs to answer
// "is this slot already registered" and "walk every registered slot".
type globalRootEntry struct {
	slot *Ref
	next *globalRootEntry
}

// globalRoots is the process-wide global-root list, owned by the collector
// so reset_state can tear it down alongside the tracked-object registry.
type globalRoots struct {
	head *globalRootEntry
}

// register adds one entry for slot if absent (idempotent).
func (g *globalRoots) register(slot *Ref) error {
	if slot == nil {
		return errors.NullArgument("slot", "register_global_root")
	}

	for e := g.head; e != nil; e = e.next {
		if e.slot == slot {
			return nil
		}
	}

	g.head = &globalRootEntry{slot: slot, next: g.head}

	return nil
}

// unregister removes the entry for slot if present.
func (g *globalRoots) unregister(slot *Ref) error {
	if slot == nil {
		return errors.NullArgument("slot", "unregister_global_root")
	}

	var prev *globalRootEntry

	for e := g.head; e != nil; e = e.next {
		if e.slot == slot {
			if prev == nil {
				g.head = e.next
			} else {
				prev.next = e.next
			}

			return nil
		}

		prev = e
	}

	return nil
}

// RegisterGlobalRoot registers slot as a process-wide root until explicitly
// unregistered.
func RegisterGlobalRoot(slot *Ref) error {
	if slot == nil {
		Panic(errors.NullArgument("slot", "register_global_root"))
	}

	return State().gc.globals.register(slot)
}

// UnregisterGlobalRoot removes slot from the global root registry.
func UnregisterGlobalRoot(slot *Ref) error {
	if slot == nil {
		Panic(errors.NullArgument("slot", "unregister_global_root"))
	}

	return State().gc.globals.unregister(slot)
}
