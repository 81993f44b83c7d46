// Command mrtsmoke runs the runtime's end-to-end scenarios (§8) against a
// freshly initialized heap and prints their observed counters. It exists
// purely as a runnable demonstration and a manual-testing aid; it is not
// itself part of the core contract.
package main

import (
	"fmt"
	"os"

	"github.com/orizon-lang/orizon-mrt/internal/allocator"
	"github.com/orizon-lang/orizon-mrt/internal/containers"
	"github.com/orizon-lang/orizon-mrt/internal/runtime"
)

// nodeType is a struct-shaped, pointer-offset-traced type used only by this
// demo to exercise the WithPointerOffsets trace strategy (the production
// containers that hold references all trace through WithTrace instead; see
// DESIGN.md).
var nodeType = func() *allocator.TypeDescriptor {
	d, err := allocator.NewTypeDescriptor(9100, "demo.node", 0, 8, 0, "1.0.0")
	if err != nil {
		panic(err)
	}

	return d.WithPointerOffsets(0)
}()

func newNode() *allocator.Object {
	return allocator.AllocObj(nodeType, 8, []allocator.Ref{nil})
}

func setNext(node *allocator.Object, next allocator.Ref) {
	node.Data.([]allocator.Ref)[0] = next
}

func main() {
	console := runtime.NewConsole(os.Stdout, os.Stdin)

	if err := allocator.Init(nil); err != nil {
		fmt.Fprintln(os.Stderr, "init:", err)
		os.Exit(1)
	}

	defer allocator.Shutdown()

	scenarioS1()
	scenarioS2()
	scenarioS3()
	scenarioS4()
	scenarioS5()
	scenarioS6(console)
	scenarioS7()

	stats := allocator.GCGetStats()
	fmt.Fprintf(os.Stdout, "final stats: allocated=%d live=%d next_threshold=%d tracked=%d\n",
		stats.AllocatedBytes, stats.LiveBytes, stats.NextGCThreshold, stats.TrackedObjectCount)
}

func scenarioS1() {
	allocator.GCResetState()

	for i := 0; i < 200; i++ {
		containers.NewI64(int64(i))
	}

	allocator.GCCollect()
	report("S1", allocator.GCGetStats().TrackedObjectCount, 0)
}

func scenarioS2() {
	allocator.GCResetState()

	var frame allocator.RootFrame

	slots := make([]allocator.Ref, 1)
	allocator.FrameInit(&frame, slots)
	_ = allocator.PushRoots(&frame)

	c := newNode()
	b := newNode()
	a := newNode()
	setNext(b, c)
	setNext(a, b)

	allocator.RootSlotStore(&frame, 0, a)
	allocator.GCCollect()
	report("S2 rooted", allocator.GCGetStats().TrackedObjectCount, 3)

	allocator.RootSlotStore(&frame, 0, nil)
	allocator.PopRoots()
	allocator.GCCollect()
	report("S2 unrooted", allocator.GCGetStats().TrackedObjectCount, 0)
}

func scenarioS3() {
	allocator.GCResetState()

	var frame allocator.RootFrame

	slots := make([]allocator.Ref, 1)
	allocator.FrameInit(&frame, slots)
	_ = allocator.PushRoots(&frame)

	n1 := newNode()
	n2 := newNode()
	setNext(n1, n2)
	setNext(n2, n1)

	allocator.RootSlotStore(&frame, 0, n1)
	allocator.GCCollect()
	report("S3 rooted cycle", allocator.GCGetStats().TrackedObjectCount, 2)

	allocator.RootSlotStore(&frame, 0, nil)
	allocator.PopRoots()
	allocator.GCCollect()
	report("S3 unrooted cycle", allocator.GCGetStats().TrackedObjectCount, 0)
}

func scenarioS4() {
	allocator.GCResetState()

	arr := containers.NewU8Array(4)
	containers.ArraySetU8(arr, 0, 9)
	containers.ArraySetU8(arr, 1, 7)

	sliced := containers.Slice(arr, 0, 2)
	containers.ArraySetU8(arr, 0, 1)

	got0 := containers.ArrayGetU8(sliced, 0)
	got1 := containers.ArrayGetU8(sliced, 1)

	fmt.Fprintf(os.Stdout, "S4: slice after source mutation = [%d, %d] (want [9, 7])\n", got0, got1)
}

func scenarioS5() {
	allocator.GCResetState()

	var frame allocator.RootFrame

	slots := make([]allocator.Ref, 1)
	allocator.FrameInit(&frame, slots)
	_ = allocator.PushRoots(&frame)

	arr := containers.NewRefArray(2)
	allocator.RootSlotStore(&frame, 0, arr)

	leaf0 := containers.NewI64(1)
	leaf1 := containers.NewI64(2)
	containers.ArraySetRef(arr, 0, leaf0)
	containers.ArraySetRef(arr, 1, leaf1)

	allocator.GCCollect()
	report("S5 two leaves + array", allocator.GCGetStats().TrackedObjectCount, 3)

	containers.ArraySetRef(arr, 0, nil)
	containers.ArraySetRef(arr, 1, nil)
	allocator.GCCollect()
	report("S5 cleared slots", allocator.GCGetStats().TrackedObjectCount, 1)

	allocator.RootSlotStore(&frame, 0, nil)
	allocator.PopRoots()
	allocator.GCCollect()
	report("S5 unrooted", allocator.GCGetStats().TrackedObjectCount, 0)
}

func scenarioS6(console *runtime.Console) {
	allocator.GCResetState()

	buf := containers.NewStringBuffer(0)
	containers.StrbufReserve(buf, 16)

	fmt.Fprintf(os.Stdout, "S6: len=%d capacity=%d (want len=0, capacity>=16)\n",
		containers.StrbufLen(buf), containers.StrbufCapacity(buf))

	console.PrintString(containers.StrbufToStr(buf))
}

func scenarioS7() {
	allocator.GCResetState()

	for i := 0; i < 5000; i++ {
		containers.NewI64(int64(i))
	}

	mid := allocator.GCGetStats().TrackedObjectCount
	fmt.Fprintf(os.Stdout, "S7: tracked after 5000 unrooted allocations = %d (want < 5000)\n", mid)

	allocator.GCCollect()
	report("S7 after explicit collect", allocator.GCGetStats().TrackedObjectCount, 0)
}

func report(label string, got, want uint64) {
	status := "ok"
	if got != want {
		status = "MISMATCH"
	}

	fmt.Fprintf(os.Stdout, "%s: tracked_object_count=%d want=%d [%s]\n", label, got, want, status)
}
