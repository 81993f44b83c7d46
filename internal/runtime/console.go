// Package runtime implements the ambient stack around the managed-memory
// core in internal/allocator and internal/containers: the console surface
// and the GC observability exporter. Configuration loading and hot reload
// live in internal/allocator.
package runtime

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/orizon-lang/orizon-mrt/internal/allocator"
	"github.com/orizon-lang/orizon-mrt/internal/containers"
)

// Console wraps the standard I/O surface emitted code uses to print
// scalars and containers and to read all of stdin. It is built on
// io.Writer/io.Reader, not os.Stdin/os.Stdout directly, so tests can
// substitute in-memory streams (§4.13).
type Console struct {
	out   io.Writer
	in    io.Reader
	mu    sync.Mutex
	stats ConsoleStats
}

// ConsoleStats mirrors the byte/operation counters the rest of this
// codebase's I/O layer tracks for its standard streams.
type ConsoleStats struct {
	BytesWritten uint64
	BytesRead    uint64
	WriteCount   uint64
	ReadCount    uint64
}

// NewConsole builds a Console over the given writer and reader.
func NewConsole(out io.Writer, in io.Reader) *Console {
	return &Console{out: out, in: in}
}

func (c *Console) writeLine(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, _ := fmt.Fprintln(c.out, s)
	atomic.AddUint64(&c.stats.BytesWritten, uint64(n))
	atomic.AddUint64(&c.stats.WriteCount, 1)
}

// PrintI64 prints a signed 64-bit scalar box.
func (c *Console) PrintI64(obj *allocator.Object) { c.writeLine(fmt.Sprintf("%d", containers.GetI64(obj))) }

// PrintU64 prints an unsigned 64-bit scalar box.
func (c *Console) PrintU64(obj *allocator.Object) { c.writeLine(fmt.Sprintf("%d", containers.GetU64(obj))) }

// PrintU8 prints an 8-bit unsigned scalar box.
func (c *Console) PrintU8(obj *allocator.Object) { c.writeLine(fmt.Sprintf("%d", containers.GetU8(obj))) }

// PrintBool prints a boolean scalar box.
func (c *Console) PrintBool(obj *allocator.Object) { c.writeLine(fmt.Sprintf("%t", containers.GetBool(obj))) }

// PrintF64 prints an IEEE-754 double scalar box.
func (c *Console) PrintF64(obj *allocator.Object) { c.writeLine(fmt.Sprintf("%g", containers.GetF64(obj))) }

// PrintString prints an immutable string's bytes as text (§4.13: one of
// the "two string-like container views").
func (c *Console) PrintString(obj *allocator.Object) {
	c.writeLine(string(containers.StrDataPtr(obj)))
}

// PrintStringBuffer prints a string buffer's current content as text
// (§4.13: the second string-like container view).
func (c *Console) PrintStringBuffer(obj *allocator.Object) {
	c.writeLine(string(containers.StrDataPtr(containers.StrbufToStr(obj))))
}

// Stats returns a copy of the accumulated console I/O counters.
func (c *Console) Stats() ConsoleStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}

// ReadAllStdin reads until EOF from the console's reader and constructs a
// managed string from the result (§4.13 "console_read_all_stdin"). This is
// an adapter layer only; it owns no GC semantics beyond calling
// str_from_bytes.
func (c *Console) ReadAllStdin() (*allocator.Object, error) {
	b, err := io.ReadAll(c.in)
	if err != nil {
		return nil, fmt.Errorf("runtime: reading stdin: %w", err)
	}

	c.mu.Lock()
	atomic.AddUint64(&c.stats.BytesRead, uint64(len(b)))
	atomic.AddUint64(&c.stats.ReadCount, 1)
	c.mu.Unlock()

	return containers.NewStringFromBytes(b), nil
}
