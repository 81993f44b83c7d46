package allocator

import (
	"fmt"
)

// ThreadState is the process-wide singleton the spec calls for in a
// single-threaded runtime (§5): one shadow stack, one trace stack, one
// collector. Emitted code never constructs one directly; it goes through
// Init/State/Shutdown.
type ThreadState struct {
	rootsTop *RootFrame
	traceTop *traceFrame
	gc       *Collector
}

// globalState is the single owned instance backing every package-level
// entry point, following the same GlobalRuntime-singleton pattern the rest
// of this codebase uses for process-wide services.
var globalState *ThreadState

// Init brings up the runtime singleton. cfg may be nil to take compiled-in
// defaults (§3 Configuration entity). Calling Init twice without an
// intervening Shutdown returns an error rather than silently discarding the
// live heap.
func Init(cfg *Config) error {
	if globalState != nil {
		return fmt.Errorf("allocator: runtime already initialized")
	}

	if cfg == nil {
		cfg = DefaultConfig()
	}

	globalState = &ThreadState{
		gc: newCollector(cfg),
	}

	return nil
}

// State returns the process-wide thread state, initializing it with default
// configuration on first use so that package-level helpers and tests don't
// all need to call Init explicitly.
func State() *ThreadState {
	if globalState == nil {
		_ = Init(nil)
	}

	return globalState
}

// Shutdown frees every tracked object and root-registry entry and discards
// the singleton. Safe to call when no runtime is initialized.
func Shutdown() {
	if globalState == nil {
		return
	}

	globalState.gc.resetState()
	globalState = nil
}

// GC returns the collector backing the current thread state.
func (t *ThreadState) GC() *Collector { return t.gc }
