package allocator

import "testing"

var leafType = func() *TypeDescriptor {
	d, err := NewTypeDescriptor(9001, "test.leaf", FlagLeaf, 8, 8, "1.0.0")
	if err != nil {
		panic(err)
	}

	return d
}()

var nodeType = func() *TypeDescriptor {
	d, err := NewTypeDescriptor(9002, "test.node", 0, 8, 0, "1.0.0")
	if err != nil {
		panic(err)
	}

	return d.WithPointerOffsets(0)
}()

func newNode(next Ref) *Object {
	return AllocObj(nodeType, 8, []Ref{next})
}

func TestCollectSweepsUnreachableObjects(t *testing.T) {
	Shutdown()
	defer Shutdown()

	garbage := AllocObj(leafType, 8, int64(1))

	GCCollect()

	stats := GCGetStats()
	if stats.TrackedObjectCount != 0 {
		t.Fatalf("tracked count after sweeping unreachable garbage = %d, want 0", stats.TrackedObjectCount)
	}

	_ = garbage
}

func TestCollectRetainsRootedObjects(t *testing.T) {
	Shutdown()
	defer Shutdown()

	obj := AllocObj(leafType, 8, int64(1))

	var frame RootFrame

	slots := make([]Ref, 1)
	FrameInit(&frame, slots)

	if err := PushRoots(&frame); err != nil {
		t.Fatal(err)
	}

	RootSlotStore(&frame, 0, obj)

	GCCollect()

	if got := GCGetStats().TrackedObjectCount; got != 1 {
		t.Fatalf("tracked count with a rooted object = %d, want 1", got)
	}

	PopRoots()
}

func TestCollectTracesThroughChildren(t *testing.T) {
	Shutdown()
	defer Shutdown()

	leaf := AllocObj(leafType, 8, int64(1))
	node := newNode(leaf)

	var frame RootFrame

	slots := make([]Ref, 1)
	FrameInit(&frame, slots)
	_ = PushRoots(&frame)
	RootSlotStore(&frame, 0, node)

	GCCollect()

	if got := GCGetStats().TrackedObjectCount; got != 2 {
		t.Fatalf("tracked count with node+leaf reachable = %d, want 2", got)
	}

	PopRoots()
}

func TestCollectViaGlobalRoot(t *testing.T) {
	Shutdown()
	defer Shutdown()

	obj := AllocObj(leafType, 8, int64(1))

	var slot Ref = obj
	if err := RegisterGlobalRoot(&slot); err != nil {
		t.Fatal(err)
	}

	GCCollect()

	if got := GCGetStats().TrackedObjectCount; got != 1 {
		t.Fatalf("tracked count with a global-rooted object = %d, want 1", got)
	}

	if err := UnregisterGlobalRoot(&slot); err != nil {
		t.Fatal(err)
	}

	GCCollect()

	if got := GCGetStats().TrackedObjectCount; got != 0 {
		t.Fatalf("tracked count after unregistering the only root = %d, want 0", got)
	}
}

func TestNextThresholdFloorsAtMinimum(t *testing.T) {
	if got := nextThreshold(0, DefaultGrowthNum, DefaultGrowthDen); got != MinThreshold {
		t.Errorf("nextThreshold(0) = %d, want MinThreshold %d", got, MinThreshold)
	}
}

func TestNextThresholdScalesWithLiveBytes(t *testing.T) {
	live := uint64(1 << 20)
	if got := nextThreshold(live, 2, 1); got != live*2 {
		t.Errorf("nextThreshold(%d, 2, 1) = %d, want %d", live, got, live*2)
	}
}

func TestSaturatingMulDoesNotOverflow(t *testing.T) {
	if got := saturatingMul(^uint64(0), 2); got != ^uint64(0) {
		t.Errorf("saturatingMul overflow = %d, want max uint64", got)
	}
}

func TestGCResetStateClearsEverything(t *testing.T) {
	Shutdown()
	defer Shutdown()

	AllocObj(leafType, 8, int64(1))
	GCResetState()

	if got := GCGetStats().TrackedObjectCount; got != 0 {
		t.Fatalf("tracked count after reset_state = %d, want 0", got)
	}
}
