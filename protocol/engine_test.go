package protocol_test

import (
	"net"
	"testing"

	"github.com/nabbar/bolt/buffer"
	"github.com/nabbar/bolt/packstream"
	"github.com/nabbar/bolt/protocol"
	"github.com/nabbar/bolt/value"
)

// writeServerMessage encodes sig+fields as a Structure and chunks it onto
// conn, emulating a scripted Bolt server.
func writeServerMessage(t *testing.T, conn net.Conn, sig byte, fields ...*value.Value) {
	t.Helper()

	buf := buffer.New(64)
	if err := packstream.NewEncoder(buf).Encode(value.New().SetStructure(sig, fields)); err != nil {
		t.Fatalf("encode server message failed: %v", err)
	}
	if err := packstream.WriteChunked(conn, buf.Bytes()); err != nil {
		t.Fatalf("write server message failed: %v", err)
	}
}

// readClientMessages consumes n chunked client messages from conn, so the
// client's Send (which blocks on the unbuffered pipe until read) completes
// before the scripted replies are written.
func readClientMessages(t *testing.T, conn net.Conn, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		if _, err := packstream.ReadChunked(conn); err != nil {
			t.Errorf("read client message failed: %v", err)
			return
		}
	}
}

func TestRunPullAllHappyPath(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	eng := protocol.NewEngine(protocol.Version1, client, nil)

	runID := eng.Enqueue(protocol.NewRun("RETURN 1"))
	pullID := eng.Enqueue(protocol.NewPullAll())

	done := make(chan struct{})
	go func() {
		defer close(done)
		readClientMessages(t, server, 2)
		writeServerMessage(t, server, protocol.MsgSuccess,
			value.New().SetDictionary([]value.Pair{{Key: "fields", Val: value.New().SetList([]*value.Value{value.New().SetString("1")})}}))
		writeServerMessage(t, server, protocol.MsgRecord, value.New().SetInteger(1))
		writeServerMessage(t, server, protocol.MsgSuccess,
			value.New().SetDictionary([]value.Pair{{Key: "bookmark", Val: value.New().SetString("tx:1")}}))
	}()

	if err := eng.Send(); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if r, err := eng.Fetch(runID); err != nil || r != 0 {
		t.Fatalf("expected RUN summary, got r=%d err=%v", r, err)
	}
	if len(eng.ResultFieldNames()) != 1 || eng.ResultFieldNames()[0] != "1" {
		t.Fatalf("expected field names [1], got %v", eng.ResultFieldNames())
	}

	records, err := eng.FetchSummary(pullID)
	if err != nil {
		t.Fatalf("fetch_summary failed: %v", err)
	}
	if records != 1 {
		t.Fatalf("expected 1 record, got %d", records)
	}
	if eng.LastBookmark() != "tx:1" {
		t.Fatalf("expected bookmark tx:1, got %q", eng.LastBookmark())
	}

	<-done
}

func TestFailureLatchesAndIgnoredFollows(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	eng := protocol.NewEngine(protocol.Version1, client, nil)
	runID := eng.Enqueue(protocol.NewRun("BAD CYPHER"))
	pullID := eng.Enqueue(protocol.NewPullAll())

	done := make(chan struct{})
	go func() {
		defer close(done)
		readClientMessages(t, server, 2)
		writeServerMessage(t, server, protocol.MsgFailure,
			value.New().SetDictionary([]value.Pair{
				{Key: "code", Val: value.New().SetString("Neo.ClientError.Statement.SyntaxError")},
				{Key: "message", Val: value.New().SetString("bad syntax")},
			}))
		writeServerMessage(t, server, protocol.MsgIgnored)
	}()

	if err := eng.Send(); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if r, err := eng.Fetch(runID); err != nil || r != 0 {
		t.Fatalf("expected RUN summary (failure), got r=%d err=%v", r, err)
	}
	if eng.FailureData() == nil || eng.FailureData().ByKey("code").RawString() == "" {
		t.Fatalf("expected failure_data to carry code/message")
	}

	if r, err := eng.Fetch(pullID); err != nil || r != 0 {
		t.Fatalf("expected PULL_ALL to surface as IGNORED summary, got r=%d err=%v", r, err)
	}

	<-done
}

func TestLargeParameterRoundTripsThroughChunking(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	large := make([]byte, 655351/7) // comfortably exceeds one 65535-byte chunk
	for i := range large {
		large[i] = 'x'
	}

	eng := protocol.NewEngine(protocol.Version1, client, nil)
	runID := eng.Enqueue(protocol.NewRun("RETURN $p").SetParameters([]value.Pair{
		{Key: "p", Val: value.New().SetString(string(large))},
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		readClientMessages(t, server, 1)
		writeServerMessage(t, server, protocol.MsgSuccess, value.New().SetDictionary(nil))
	}()

	if err := eng.Send(); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if r, err := eng.Fetch(runID); err != nil || r != 0 {
		t.Fatalf("expected summary, got r=%d err=%v", r, err)
	}

	<-done
}
