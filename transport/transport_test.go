package transport_test

import (
	"net"
	"testing"
	"time"

	"github.com/nabbar/bolt/transport"
)

func TestDialAndByteAccounting(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	defer ln.Close()

	go func() {
		c, aErr := ln.Accept()
		if aErr != nil {
			return
		}
		defer c.Close()
		buf := make([]byte, 4)
		_, _ = c.Read(buf)
		_, _ = c.Write([]byte("pong"))
	}()

	conn, cErr := transport.Dial(ln.Addr().String(), transport.Options{ConnectTimeout: 2 * time.Second, ReceiveTimeout: 2 * time.Second})
	if cErr != nil {
		t.Fatalf("dial failed: %v", cErr)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("ping")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	buf := make([]byte, 4)
	if _, err := conn.Read(buf); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if conn.BytesOut() != 4 || conn.BytesIn() != 4 {
		t.Fatalf("expected 4 bytes in/out, got in=%d out=%d", conn.BytesIn(), conn.BytesOut())
	}
}

func TestDialRefusedReturnsClassifiedError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close() // nothing listens now

	if _, cErr := transport.Dial(addr, transport.Options{ConnectTimeout: time.Second}); cErr == nil {
		t.Fatalf("expected dial to a closed port to fail")
	}
}
