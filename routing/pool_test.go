package routing_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/nabbar/bolt/address"
	"github.com/nabbar/bolt/buffer"
	"github.com/nabbar/bolt/connection"
	liberr "github.com/nabbar/bolt/errors"
	"github.com/nabbar/bolt/packstream"
	"github.com/nabbar/bolt/protocol"
	"github.com/nabbar/bolt/routing"
	"github.com/nabbar/bolt/value"
)

// scriptedRouter answers exactly one RUN/PULL_ALL discovery exchange with a
// routing table record, then closes.
func scriptedRouter(t *testing.T, server net.Conn, readerPort string) {
	t.Helper()

	readMsg := func() *value.Value {
		payload, err := packstream.ReadChunked(server)
		if err != nil {
			t.Fatalf("read chunked: %v", err)
		}
		buf := buffer.NewFrom(payload)
		dec := packstream.NewDecoder(buf, protocol.AllowedSignature(protocol.Version1))
		v, dErr := dec.Decode()
		if dErr != nil {
			t.Fatalf("decode: %v", dErr)
		}
		return v
	}

	readMsg() // RUN
	readMsg() // PULL_ALL

	writeMsg := func(sig byte, fields ...*value.Value) {
		b := buffer.New(256)
		if err := packstream.NewEncoder(b).Encode(value.New().SetStructure(sig, fields)); err != nil {
			t.Fatalf("encode: %v", err)
		}
		if err := packstream.WriteChunked(server, b.Bytes()); err != nil {
			t.Fatalf("write chunked: %v", err)
		}
	}

	writeMsg(protocol.MsgSuccess, value.New().SetDictionary([]value.Pair{
		{Key: "fields", Val: value.New().SetList([]*value.Value{value.New().SetString("ttl"), value.New().SetString("servers")})},
	}))

	servers := value.New().SetList([]*value.Value{
		value.New().SetDictionary([]value.Pair{
			{Key: "role", Val: value.New().SetString("READ")},
			{Key: "addresses", Val: value.New().SetList([]*value.Value{value.New().SetString("127.0.0.1:" + readerPort)})},
		}),
		value.New().SetDictionary([]value.Pair{
			{Key: "role", Val: value.New().SetString("WRITE")},
			{Key: "addresses", Val: value.New().SetList([]*value.Value{value.New().SetString("127.0.0.1:" + readerPort)})},
		}),
		value.New().SetDictionary([]value.Pair{
			{Key: "role", Val: value.New().SetString("ROUTE")},
			{Key: "addresses", Val: value.New().SetList([]*value.Value{value.New().SetString("127.0.0.1:7687")})},
		}),
	})
	writeMsg(protocol.MsgRecord, value.New().SetInteger(300), servers)
	writeMsg(protocol.MsgSuccess, value.New().SetDictionary(nil))
}

func TestRoutingPoolRefreshesAndSelectsReader(t *testing.T) {
	routerClient, routerServer := net.Pipe()
	defer routerClient.Close()
	defer routerServer.Close()

	initial := address.NewSet(address.New("127.0.0.1", "7687"))

	open := func(_ context.Context, addr *address.Address) (*connection.Connection, liberr.Error) {
		c := connection.New(addr, nil)
		c.FixtureSetEngine(protocol.NewEngine(protocol.Version1, routerClient, nil))
		c.FixtureForceState(connection.Ready)
		return c, nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		scriptedRouter(t, routerServer, "7688")
	}()

	rp := routing.NewPool(initial, nil, open, 4, 0, time.Second, nil)

	conn, err := rp.Acquire(context.Background(), routing.Read)
	<-done
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if conn.Address().Port() != "7688" {
		t.Fatalf("expected reader at port 7688, got %s", conn.Address().Port())
	}

	table := rp.Table()
	if table.Readers.Size() != 1 || table.Writers.Size() != 1 || table.Routers.Size() != 1 {
		t.Fatalf("expected one member per role, got readers=%d writers=%d routers=%d",
			table.Readers.Size(), table.Writers.Size(), table.Routers.Size())
	}
}

func TestForgetServerRemovesFromAllSets(t *testing.T) {
	initial := address.NewSet(address.New("127.0.0.1", "7687"))
	table := routing.NewTable(initial)
	a := address.New("127.0.0.1", "7688")

	table.Readers.Add(a)
	table.Writers.Add(a)
	table.Routers.Add(a)

	table.ForgetServer(a)

	if table.Readers.IndexOf(a) >= 0 || table.Writers.IndexOf(a) >= 0 || table.Routers.IndexOf(a) >= 0 {
		t.Fatalf("expected server to be removed from all three sets")
	}
}

func TestForgetWriterKeepsReaderAndRouter(t *testing.T) {
	initial := address.NewSet()
	table := routing.NewTable(initial)
	a := address.New("127.0.0.1", "7688")

	table.Readers.Add(a)
	table.Writers.Add(a)
	table.Routers.Add(a)

	table.ForgetWriter(a)

	if table.Writers.IndexOf(a) >= 0 {
		t.Fatalf("expected writer entry to be removed")
	}
	if table.Readers.IndexOf(a) < 0 || table.Routers.IndexOf(a) < 0 {
		t.Fatalf("expected reader/router entries to survive forget-writer")
	}
}

