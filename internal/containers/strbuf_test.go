package containers

import (
	"testing"
)

func TestStringBufferBasics(t *testing.T) {
	resetRuntime(t)

	buf := NewStringBuffer(4)
	if got := StrbufLen(buf); got != 0 {
		t.Fatalf("StrbufLen(fresh) = %d, want 0", got)
	}

	if got := StrbufCapacity(buf); got != 4 {
		t.Fatalf("StrbufCapacity = %d, want 4", got)
	}

	StrbufSetLen(buf, 2)
	StrbufSetU8(buf, 0, 'h')
	StrbufSetU8(buf, 1, 'i')

	if got := StrbufGetU8(buf, 0); got != 'h' {
		t.Errorf("StrbufGetU8(0) = %c, want h", got)
	}

	s := StrbufToStr(buf)
	if got := StrLen(s); got != 2 {
		t.Errorf("StrLen(to_str) = %d, want 2", got)
	}

	if got := StrDataPtr(s); string(got) != "hi" {
		t.Errorf("StrDataPtr(to_str) = %q, want hi", got)
	}
}

func TestStringBufferFromStr(t *testing.T) {
	resetRuntime(t)

	src := NewStringFromBytes([]byte("abc"))
	buf := NewStringBufferFromString(src)

	if got := StrbufLen(buf); got != 3 {
		t.Fatalf("StrbufLen = %d, want 3", got)
	}

	if got := StrbufGetU8(buf, 2); got != 'c' {
		t.Errorf("StrbufGetU8(2) = %c, want c", got)
	}
}

func TestStringBufferReserveGrowsAndPreservesContent(t *testing.T) {
	resetRuntime(t)

	buf := NewStringBuffer(2)
	StrbufSetLen(buf, 2)
	StrbufSetU8(buf, 0, 'x')
	StrbufSetU8(buf, 1, 'y')

	StrbufReserve(buf, 16)

	if got := StrbufCapacity(buf); got < 16 {
		t.Errorf("StrbufCapacity after reserve = %d, want >= 16", got)
	}

	if got := StrbufLen(buf); got != 2 {
		t.Errorf("StrbufLen after reserve = %d, want 2 (content preserved)", got)
	}

	if got := StrbufGetU8(buf, 0); got != 'x' {
		t.Errorf("StrbufGetU8(0) after reserve = %c, want x", got)
	}
}

func TestStringBufferReserveSmallerIsNoOp(t *testing.T) {
	resetRuntime(t)

	buf := NewStringBuffer(16)
	StrbufReserve(buf, 4)

	if got := StrbufCapacity(buf); got != 16 {
		t.Errorf("StrbufCapacity after shrinking reserve = %d, want unchanged 16", got)
	}
}
