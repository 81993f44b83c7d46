package runtime

import (
	"bytes"
	"strings"
	"testing"

	"github.com/orizon-lang/orizon-mrt/internal/allocator"
	"github.com/orizon-lang/orizon-mrt/internal/containers"
)

func TestConsolePrintScalars(t *testing.T) {
	allocator.Shutdown()
	defer allocator.Shutdown()

	var out bytes.Buffer

	c := NewConsole(&out, strings.NewReader(""))

	c.PrintI64(containers.NewI64(-7))
	c.PrintU64(containers.NewU64(7))
	c.PrintU8(containers.NewU8(200))
	c.PrintBool(containers.NewBool(1))
	c.PrintF64(containers.NewF64(2.5))
	c.PrintString(containers.NewStringFromBytes([]byte("hi")))

	want := "-7\n7\n200\ntrue\n2.5\nhi\n"
	if got := out.String(); got != want {
		t.Errorf("console output = %q, want %q", got, want)
	}

	stats := c.Stats()
	if stats.WriteCount != 6 {
		t.Errorf("WriteCount = %d, want 6", stats.WriteCount)
	}
}

func TestConsolePrintStringBuffer(t *testing.T) {
	allocator.Shutdown()
	defer allocator.Shutdown()

	var out bytes.Buffer

	c := NewConsole(&out, strings.NewReader(""))

	buf := containers.NewStringBuffer(8)
	containers.StrbufSetLen(buf, 2)
	containers.StrbufSetU8(buf, 0, 'o')
	containers.StrbufSetU8(buf, 1, 'k')

	c.PrintStringBuffer(buf)

	if got := out.String(); got != "ok\n" {
		t.Errorf("console output = %q, want %q", got, "ok\n")
	}
}

func TestConsoleReadAllStdin(t *testing.T) {
	allocator.Shutdown()
	defer allocator.Shutdown()

	c := NewConsole(&bytes.Buffer{}, strings.NewReader("hello stdin"))

	s, err := c.ReadAllStdin()
	if err != nil {
		t.Fatalf("ReadAllStdin: %v", err)
	}

	if got := string(containers.StrDataPtr(s)); got != "hello stdin" {
		t.Errorf("ReadAllStdin content = %q, want %q", got, "hello stdin")
	}

	if got := c.Stats().BytesRead; got != uint64(len("hello stdin")) {
		t.Errorf("BytesRead = %d, want %d", got, len("hello stdin"))
	}
}
