package allocator

import "fmt"

// Location is a single point in emitted source, carried by trace frames so a
// panic can report where the mutator was when it failed.
type Location struct {
	FunctionName string
	FilePath     string
	Line         int
	Column       int
}

func (l Location) String() string {
	if l.FilePath == "" {
		return l.FunctionName
	}

	return fmt.Sprintf("%s (%s:%d:%d)", l.FunctionName, l.FilePath, l.Line, l.Column)
}

// traceFrame is one entry of the source-location trace stack (§4.12).
type traceFrame struct {
	prev     *traceFrame
	location Location
}

// TracePush pushes a new trace frame naming the function being entered.
func TracePush(functionName, filePath string) {
	st := State()
	st.traceTop = &traceFrame{prev: st.traceTop, location: Location{FunctionName: functionName, FilePath: filePath}}
}

// TracePop pops the top trace frame. A pop with no frame pushed is a no-op;
// unlike the shadow stack, the trace stack is a debugging aid and must never
// itself be a source of fatal failure.
func TracePop() {
	st := State()
	if st.traceTop != nil {
		st.traceTop = st.traceTop.prev
	}
}

// TraceSetLocation updates the line/column of the currently active frame,
// called by emitted code before each potentially-failing operation.
func TraceSetLocation(line, column int) {
	st := State()
	if st.traceTop != nil {
		st.traceTop.location.Line = line
		st.traceTop.location.Column = column
	}
}

// TraceSnapshot returns the active trace stack, innermost frame first, for
// inclusion in a panic report.
func TraceSnapshot() []Location {
	st := State()

	var locs []Location

	for f := st.traceTop; f != nil; f = f.prev {
		locs = append(locs, f.location)
	}

	return locs
}
