package allocator

import (
	"fmt"
	"log"
	"os"

	"github.com/orizon-lang/orizon-mrt/internal/errors"
)

// exitFunc is the process-termination hook used by Panic. Tests substitute
// it with a function that records the call and panics with a sentinel
// instead of actually exiting, so panic paths are exercised without killing
// the test binary.
var exitFunc = os.Exit

// SetExitFuncForTest substitutes the process-termination hook and returns a
// restore function. It exists so both this package's own tests and
// internal/containers' tests can exercise a panic path without killing the
// test binary; callers are expected to recover from the panic the
// substitute fn itself raises.
func SetExitFuncForTest(fn func(int)) (restore func()) {
	prev := exitFunc
	exitFunc = fn

	return func() { exitFunc = prev }
}

// Panic prints the failure (message, active source location, full trace
// stack) and terminates the process. There is no recovery path: §7 requires
// every one of these conditions to fail loudly rather than risk continuing
// over a corrupted heap.
func Panic(err *errors.StandardError) {
	printPanic(err)
	exitFunc(1)
}

func printPanic(err *errors.StandardError) {
	st := State()

	fmt.Fprintln(os.Stderr, "panic:", err.Error())

	if st.traceTop != nil {
		fmt.Fprintln(os.Stderr, "  at", st.traceTop.location.String())
	}

	for _, loc := range TraceSnapshot() {
		fmt.Fprintln(os.Stderr, "  ", loc.String())
	}
}

// PanicNullDeref raises a null-dereference panic for a managed reference
// accessed in operation.
func PanicNullDeref(operation string) {
	Panic(errors.NullPointer(operation))
}

// PanicBadCast raises a checked-cast failure naming the actual and expected
// type descriptors.
func PanicBadCast(from, to *TypeDescriptor) {
	Panic(errors.BadCast(from.DebugName, to.DebugName))
}

// PanicOOM raises an out-of-memory failure with a short context string
// (e.g. "alloc_obj: size computation overflowed").
func PanicOOM(context string) {
	Panic(errors.OutOfMemory(context))
}

// PanicNullTermArray raises a panic whose message comes from a U8 array
// being treated as a null-terminated byte string (§4.12).
func PanicNullTermArray(message string) {
	Panic(errors.NewStandardError(errors.CategoryValidation, "NULL_TERM_ARRAY", message, nil))
}

// CheckedCast verifies that obj's type descriptor is identical (by pointer
// identity, per §4.1) to want, raising bad-cast otherwise. Returns obj for
// chaining once the check succeeds.
func CheckedCast(obj *Object, want *TypeDescriptor) *Object {
	if obj == nil {
		PanicNullDeref("checked_cast")
	}

	if obj.Type != want {
		PanicBadCast(obj.Type, want)
	}

	return obj
}

func init() {
	// Route the standard library logger's default writer through stderr
	// explicitly (it already defaults there), keeping panic diagnostics and
	// structured collection logs on the same stream so a redirected stdout
	// never splits a single failure's context across two files.
	log.SetOutput(os.Stderr)
}
