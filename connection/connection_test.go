package connection_test

import (
	"net"
	"testing"

	"github.com/nabbar/bolt/buffer"
	"github.com/nabbar/bolt/connection"
	"github.com/nabbar/bolt/packstream"
	"github.com/nabbar/bolt/protocol"
	"github.com/nabbar/bolt/value"
)

func writeMessage(t *testing.T, conn net.Conn, sig byte, fields ...*value.Value) {
	t.Helper()
	buf := buffer.New(64)
	if err := packstream.NewEncoder(buf).Encode(value.New().SetStructure(sig, fields)); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := packstream.WriteChunked(conn, buf.Bytes()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

// newReadyConnection fabricates a Connection already wired to a live
// protocol Engine over a net.Pipe, bypassing Open/handshake so the state
// machine transitions can be exercised directly.
func newReadyConnection(t *testing.T) (*connection.Connection, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close(); server.Close() })

	c := connection.New(nil, nil)
	c.FixtureSetEngine(protocol.NewEngine(protocol.Version1, client, nil))
	c.FixtureForceState(connection.Ready)
	return c, server
}

func TestReadyTransitionsToFailedOnFailureSummary(t *testing.T) {
	c, server := newReadyConnection(t)

	runID := c.Enqueue(protocol.NewRun("BAD"))
	done := make(chan struct{})
	go func() {
		defer close(done)
		writeMessage(t, server, protocol.MsgFailure, value.New().SetDictionary([]value.Pair{
			{Key: "code", Val: value.New().SetString("Neo.ClientError.X")},
			{Key: "message", Val: value.New().SetString("boom")},
		}))
	}()

	if err := c.Send(); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if _, err := c.Fetch(runID); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	<-done

	if c.Status().State != connection.Failed {
		t.Fatalf("expected Failed, got %s", c.Status().State)
	}
}

func TestResetClearsFailedBackToReady(t *testing.T) {
	c, server := newReadyConnection(t)
	c.FixtureForceState(connection.Failed)

	done := make(chan struct{})
	go func() {
		defer close(done)
		writeMessage(t, server, protocol.MsgSuccess, value.New().SetDictionary(nil))
	}()

	if err := c.Reset(); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	<-done

	if c.Status().State != connection.Ready {
		t.Fatalf("expected Ready after RESET success, got %s", c.Status().State)
	}
}
