package bolt_test

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/nabbar/bolt"
	"github.com/nabbar/bolt/buffer"
	"github.com/nabbar/bolt/config"
	"github.com/nabbar/bolt/packstream"
	"github.com/nabbar/bolt/protocol"
	"github.com/nabbar/bolt/value"
)

// serveOneHandshakeAndInit fakes just enough of a Bolt server to let a
// direct-scheme Connector complete Open+Init against it: read the 20-byte
// handshake, answer with version 1, then read one chunked INIT and answer
// SUCCESS.
func serveOneHandshakeAndInit(t *testing.T, ln net.Listener) {
	t.Helper()
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	preamble := make([]byte, 20)
	if _, err := readFull(conn, preamble); err != nil {
		t.Errorf("reading handshake: %v", err)
		return
	}

	selected := make([]byte, 4)
	binary.BigEndian.PutUint32(selected, uint32(protocol.Version1))
	if _, err := conn.Write(selected); err != nil {
		t.Errorf("writing version selection: %v", err)
		return
	}

	if _, err := packstream.ReadChunked(conn); err != nil {
		t.Errorf("reading INIT: %v", err)
		return
	}

	buf := buffer.New(64)
	if err := packstream.NewEncoder(buf).Encode(value.New().SetStructure(protocol.MsgSuccess, []*value.Value{
		value.New().SetDictionary([]value.Pair{{Key: "server", Val: value.New().SetString("test/1.0")}}),
	})); err != nil {
		t.Errorf("encode SUCCESS: %v", err)
		return
	}
	if err := packstream.WriteChunked(conn, buf.Bytes()); err != nil {
		t.Errorf("write SUCCESS: %v", err)
		return
	}
}

func readFull(conn net.Conn, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := conn.Read(p[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func TestConnectorAcquireAndReleaseDirect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		serveOneHandshakeAndInit(t, ln)
	}()

	host, port, splitErr := net.SplitHostPort(ln.Addr().String())
	if splitErr != nil {
		t.Fatalf("split host port: %v", splitErr)
	}

	cfg := config.Default()
	cfg.MaxPoolSize = 1
	cfg.ConnectTimeout = 2 * time.Second
	cfg.ReceiveTimeout = 2 * time.Second

	connector, cErr := bolt.New(host, port, nil, cfg)
	if cErr != nil {
		t.Fatalf("new connector: %v", cErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, aErr := connector.Acquire(ctx, bolt.Read)
	if aErr != nil {
		t.Fatalf("acquire: %v", aErr)
	}
	<-done

	if conn.Engine().Server() != "test/1.0" {
		t.Fatalf("expected server identification from INIT SUCCESS, got %q", conn.Engine().Server())
	}

	connector.Release(conn)
	connector.Destroy()
}
