package allocator

import (
	"log"
	"time"
)

// GCStats is the read-only observation surface named in §6.
type GCStats struct {
	AllocatedBytes     uint64
	LiveBytes          uint64
	NextGCThreshold    uint64
	TrackedObjectCount uint64
}

// CycleSample is one collection cycle's worth of history, consumed by the
// ambient metrics exporter (§4.14).
type CycleSample struct {
	At            time.Time
	Duration      time.Duration
	BytesFreed    uint64
	TrackedBefore uint64
	TrackedAfter  uint64
}

const cycleHistoryLimit = 256

// Collector owns the tracked-object registry, the global root list, and the
// GC bookkeeping counters. It is reachable only through ThreadState; there
// is exactly one per process (§5).
//
// The spec's tracked-object registry is specified as a linked list that a
// linear scan may check membership against, with a hash-set keyed by
// address named as an explicitly allowed optimization with identical
// semantics (§4.5). This runtime takes that optimization from the start: a
// Go map keyed by pointer identity is both the idiomatic choice and the
// fast path, so there is no separate slow-path list to keep in sync.
type Collector struct {
	tracked map[*Object]struct{}
	globals globalRoots
	cfg     atomicConfig
	history []CycleSample
	cycles  uint64
	stats   GCStats
}

func newCollector(cfg *Config) *Collector {
	c := &Collector{
		tracked: make(map[*Object]struct{}),
	}
	c.cfg.store(cfg)
	c.stats.NextGCThreshold = cfg.InitialThresholdBytes

	return c
}

// track registers a freshly allocated object (§4.2: "track the object").
func (c *Collector) track(obj *Object) {
	debugValidateTrack(obj)
	c.tracked[obj] = struct{}{}
	c.stats.AllocatedBytes = saturatingAdd(c.stats.AllocatedBytes, uint64(obj.SizeBytes))
	c.stats.TrackedObjectCount = uint64(len(c.tracked))
}

// isTracked answers the "is this a real tracked-object header" identity
// check mark-slot must perform before dereferencing a candidate pointer
// (§4.5).
func (c *Collector) isTracked(obj *Object) bool {
	_, ok := c.tracked[obj]
	return ok
}

// maybeCollect opportunistically runs a collection when the projected
// allocated_bytes would cross next_gc_threshold (§4.2).
func (c *Collector) maybeCollect(upcoming uint64) {
	if c.stats.AllocatedBytes+upcoming >= c.stats.NextGCThreshold {
		c.Collect()
	}
}

// Collect runs one full stop-the-world mark-and-sweep cycle (§4.5 steps 1-6).
func (c *Collector) Collect() {
	start := time.Now()
	trackedBefore := uint64(len(c.tracked))

	c.clearMarks()
	c.markRoots()
	bytesFreed := c.sweep()

	cfg := c.cfg.load()
	c.stats.LiveBytes = c.liveBytes()
	c.stats.AllocatedBytes = c.stats.LiveBytes
	c.stats.NextGCThreshold = nextThreshold(c.stats.LiveBytes, cfg.GrowthNumerator, cfg.GrowthDenominator)
	c.stats.TrackedObjectCount = uint64(len(c.tracked))

	c.cycles++
	sample := CycleSample{
		At:            start,
		Duration:      time.Since(start),
		BytesFreed:    bytesFreed,
		TrackedBefore: trackedBefore,
		TrackedAfter:  uint64(len(c.tracked)),
	}
	c.history = append(c.history, sample)
	if len(c.history) > cycleHistoryLimit {
		c.history = c.history[len(c.history)-cycleHistoryLimit:]
	}

	log.Printf("gc: cycle %d took %s, freed %d bytes, tracked %d -> %d, live %d, next threshold %d",
		c.cycles, sample.Duration, bytesFreed, trackedBefore, sample.TrackedAfter, c.stats.LiveBytes, c.stats.NextGCThreshold)
}

// nextThreshold computes max(MIN_THRESHOLD, live*num/den) with saturating
// multiplication, per §4.5 step 5 / the §9 open-question resolution that
// allocated_bytes folds back to live_bytes at the end of collection.
func nextThreshold(live, num, den uint64) uint64 {
	if den == 0 {
		den = 1
	}

	scaled := saturatingMul(live, num) / den
	if scaled < MinThreshold {
		return MinThreshold
	}

	return scaled
}

// saturatingAdd adds a and b, clamping to the maximum uint64 instead of
// wrapping, per §3's requirement that allocated_bytes use saturating
// arithmetic.
func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}

	return sum
}

func saturatingMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}

	product := a * b
	if product/a != b {
		return ^uint64(0)
	}

	return product
}

// clearMarks walks every tracked object and clears MARKED (§4.5 step 1).
func (c *Collector) clearMarks() {
	for obj := range c.tracked {
		obj.clearMarked()
	}
}

// markRoots walks global roots and every shadow-stack frame top-down,
// calling markSlot on each slot (§4.5 step 2).
func (c *Collector) markRoots() {
	for e := c.globals.head; e != nil; e = e.next {
		c.markSlot(*e.slot)
	}

	for f := State().rootsTop; f != nil; f = f.prev {
		for _, ref := range f.slots {
			c.markSlot(ref)
		}
	}
}

// markSlot is the mark closure (§4.5 step 3): if ref is a tracked object not
// already marked, mark it and recurse into its children via an explicit
// worklist, bounding stack usage independent of graph depth.
func (c *Collector) markSlot(ref Ref) {
	if ref == nil || !c.isTracked(ref) || ref.marked() {
		return
	}

	debugValidateMark(ref)

	worklist := []Ref{ref}
	ref.setMarked()

	for len(worklist) > 0 {
		n := len(worklist) - 1
		obj := worklist[n]
		worklist = worklist[:n]

		obj.Type.trace(obj, func(child Ref) {
			if child == nil || !c.isTracked(child) || child.marked() {
				return
			}

			debugValidateMark(child)
			child.setMarked()
			worklist = append(worklist, child)
		})
	}
}

// sweep frees every unmarked, unpinned tracked object and returns the bytes
// reclaimed (§4.5 step 4).
func (c *Collector) sweep() uint64 {
	var freed uint64

	for obj := range c.tracked {
		if obj.marked() || obj.pinned() {
			obj.clearMarked()
			continue
		}

		freed += uint64(obj.SizeBytes)
		delete(c.tracked, obj)
	}

	return freed
}

// liveBytes sums the size of every still-tracked object after sweep.
func (c *Collector) liveBytes() uint64 {
	var total uint64
	for obj := range c.tracked {
		total += uint64(obj.SizeBytes)
	}

	return total
}

// resetState frees every tracked object and every root-registry entry and
// resets counters (§4.5 "reset_state"), for shutdown and test isolation.
func (c *Collector) resetState() {
	c.tracked = make(map[*Object]struct{})
	c.globals = globalRoots{}
	c.history = nil
	c.cycles = 0
	c.stats = GCStats{NextGCThreshold: c.cfg.load().InitialThresholdBytes}
}

// Stats returns a copy of the current GC bookkeeping counters.
func (c *Collector) Stats() GCStats { return c.stats }

// GCCollect runs collect() directly, for mutator-invoked collection.
func GCCollect() { State().gc.Collect() }

// GCGetStats returns the current GC statistics snapshot.
func GCGetStats() GCStats { return State().gc.Stats() }

// GCResetState tears down the heap and root registry and resets counters.
func GCResetState() { State().gc.resetState() }

// GCCycleHistory returns a copy of the retained per-cycle history, oldest
// first, for the ambient metrics exporter (§4.14).
func GCCycleHistory() []CycleSample {
	gc := State().gc

	out := make([]CycleSample, len(gc.history))
	copy(out, gc.history)

	return out
}
