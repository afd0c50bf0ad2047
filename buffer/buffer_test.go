package buffer_test

import (
	"testing"

	"github.com/nabbar/bolt/buffer"
)

func TestLoadUnloadRoundTrip(t *testing.T) {
	b := buffer.New(4)
	b.LoadU8(0xAB)
	b.LoadI32(-12345)
	b.LoadF64(3.5)

	v8, err := b.UnloadU8()
	if err != nil || v8 != 0xAB {
		t.Fatalf("UnloadU8 = %v, %v", v8, err)
	}
	v32, err := b.UnloadI32()
	if err != nil || v32 != -12345 {
		t.Fatalf("UnloadI32 = %v, %v", v32, err)
	}
	vf, err := b.UnloadF64()
	if err != nil || vf != 3.5 {
		t.Fatalf("UnloadF64 = %v, %v", vf, err)
	}
}

func TestUnderflowReturnsError(t *testing.T) {
	b := buffer.New(4)
	b.LoadU8(1)

	if _, err := b.UnloadI64(); err == nil {
		t.Fatalf("expected underflow error")
	}
}

func TestCompactMovesUnreadTail(t *testing.T) {
	b := buffer.New(8)
	b.Load([]byte{1, 2, 3, 4, 5, 6})
	_, _ = b.UnloadPointer(4)

	b.Compact()
	if b.Unloadable() != 2 {
		t.Fatalf("expected 2 unread bytes after compact, got %d", b.Unloadable())
	}
	rest, _ := b.UnloadPointer(2)
	if rest[0] != 5 || rest[1] != 6 {
		t.Fatalf("unexpected tail after compact: %v", rest)
	}
}

func TestGrowsOnLoadBeyondCapacity(t *testing.T) {
	b := buffer.New(2)
	b.Load([]byte{1, 2, 3, 4, 5})

	if b.Capacity() < 5 {
		t.Fatalf("expected buffer to grow, capacity = %d", b.Capacity())
	}
	if b.Unloadable() != 5 {
		t.Fatalf("expected 5 unread bytes, got %d", b.Unloadable())
	}
}
