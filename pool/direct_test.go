package pool_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/nabbar/bolt/address"
	"github.com/nabbar/bolt/connection"
	liberr "github.com/nabbar/bolt/errors"
	"github.com/nabbar/bolt/pool"
	"github.com/nabbar/bolt/protocol"
	"github.com/nabbar/bolt/stats"
)

// fakeOpen builds a ready Connection backed by a net.Pipe, bypassing the
// real dial/handshake so pool behavior can be tested without a socket.
func fakeOpen(t *testing.T) pool.Opener {
	t.Helper()
	return func(_ context.Context, addr *address.Address) (*connection.Connection, liberr.Error) {
		client, server := net.Pipe()
		t.Cleanup(func() { client.Close(); server.Close() })

		c := connection.New(addr, nil)
		c.FixtureSetEngine(protocol.NewEngine(protocol.Version1, client, nil))
		c.FixtureForceState(connection.Ready)
		return c, nil
	}
}

func TestAcquireOpensUpToMaxSizeThenFull(t *testing.T) {
	addr := address.New("localhost", "7687")
	d := pool.NewDirect(addr, fakeOpen(t), 2, 0, 50*time.Millisecond, nil)

	c1, err := d.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire 1: %v", err)
	}
	c2, err := d.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire 2: %v", err)
	}
	if c1 == c2 {
		t.Fatalf("expected distinct connections")
	}

	if _, err := d.Acquire(context.Background()); err == nil {
		t.Fatalf("expected acquisition timeout once pool is exhausted")
	}

	if n := d.ConnectionsInUse(); n != 2 {
		t.Fatalf("expected 2 connections in use, got %d", n)
	}
}

func TestAcquireReturnsPoolFullImmediatelyWithoutAcquireWait(t *testing.T) {
	addr := address.New("localhost", "7687")
	d := pool.NewDirect(addr, fakeOpen(t), 1, 0, 0, nil)

	if _, err := d.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire 1: %v", err)
	}

	_, err := d.Acquire(context.Background())
	if err == nil {
		t.Fatalf("expected POOL_FULL once the single slot is taken")
	}
	if !err.IsCode(liberr.CodePoolFull) {
		t.Fatalf("expected CodePoolFull, got %v", err)
	}
}

func TestReleaseRecyclesIdleConnection(t *testing.T) {
	addr := address.New("localhost", "7687")
	d := pool.NewDirect(addr, fakeOpen(t), 1, 0, 50*time.Millisecond, nil)

	c1, err := d.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	d.Release(c1)

	if n := d.ConnectionsInUse(); n != 0 {
		t.Fatalf("expected 0 in use after release, got %d", n)
	}

	c2, err := d.Acquire(context.Background())
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if c1 != c2 {
		t.Fatalf("expected the idle connection to be recycled")
	}
}

func TestStatsCollectorObservesRelease(t *testing.T) {
	addr := address.New("localhost", "7687")
	d := pool.NewDirect(addr, fakeOpen(t), 2, 0, 50*time.Millisecond, nil)
	c := stats.NewCollector()
	d.SetStats(c)

	conn, err := d.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	d.Release(conn)

	if c.Events() == 0 {
		t.Fatalf("expected at least one stats event from release")
	}
}

func TestReleaseOfDefunctConnectionDiscardsEntry(t *testing.T) {
	addr := address.New("localhost", "7687")
	d := pool.NewDirect(addr, fakeOpen(t), 1, 0, 50*time.Millisecond, nil)

	c1, err := d.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	c1.FixtureForceState(connection.Defunct)
	d.Release(c1)

	c2, err := d.Acquire(context.Background())
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if c1 == c2 {
		t.Fatalf("expected a fresh connection after discarding the defunct one")
	}
}
