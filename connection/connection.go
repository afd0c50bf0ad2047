/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2021 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package connection

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-uuid"

	"github.com/nabbar/bolt/address"
	liberr "github.com/nabbar/bolt/errors"
	"github.com/nabbar/bolt/logger"
	"github.com/nabbar/bolt/protocol"
	"github.com/nabbar/bolt/transport"
	"github.com/nabbar/bolt/value"
)

var sequence uint64

// Metrics tracks per-connection I/O and lifetime counters.
type Metrics struct {
	BytesIn   uint64
	BytesOut  uint64
	OpenedAt  time.Time
	ClosedAt  time.Time
}

// Status is the state-plus-context the spec requires a Connection expose:
// the current state, the last error code observed, and an optional free
// text context string.
type Status struct {
	State   State
	Code    liberr.CodeError
	Context string
}

// Connection owns one transport handle, one protocol engine instance and
// the bookkeeping the spec assigns to it: last-known-good address, status,
// metrics and a stable string identifier.
type Connection struct {
	id      string
	addr    *address.Address
	conn    *transport.Conn
	engine  *protocol.Engine
	log     logger.Logger
	status  Status
	metrics Metrics
}

// New allocates a Connection identifier (a monotonic sequence number plus a
// locally generated UUID, with the server-supplied connection_id appended
// once INIT succeeds, when the server sends one) but does not dial.
func New(addr *address.Address, log logger.Logger) *Connection {
	seq := atomic.AddUint64(&sequence, 1)
	localID, _ := uuid.GenerateUUID()

	return &Connection{
		id:     fmt.Sprintf("bolt-%d-%s", seq, localID),
		addr:   addr,
		log:    log,
		status: Status{State: Disconnected},
	}
}

func (c *Connection) ID() string        { return c.id }
func (c *Connection) Address() *address.Address { return c.addr }
func (c *Connection) Status() Status     { return c.status }
func (c *Connection) Metrics() Metrics   { return c.metrics }
func (c *Connection) Version() protocol.Version {
	if c.engine == nil {
		return protocol.VersionUnsupported
	}
	return c.engine.Version()
}

// Open dials the transport, performs the handshake and instantiates the
// matching protocol engine. On failure the connection transitions straight
// to Defunct, per the state table (Disconnected --open fails--> Defunct).
func (c *Connection) Open(ctx context.Context, opt transport.Options) liberr.Error {
	if !c.addr.Resolved() {
		if err := c.addr.Resolve(ctx); err != nil {
			c.fail(Defunct, liberr.CodeAddressNotResolved, "")
			return err
		}
	}

	conn, err := transport.Dial(c.addr.String(), opt)
	if err != nil {
		c.fail(Defunct, err.GetCode(), "dial")
		return err
	}

	version, hErr := protocol.Handshake(conn, protocol.DefaultProposals())
	if hErr != nil {
		_ = conn.Close()
		c.fail(Defunct, hErr.GetCode(), "handshake")
		return hErr
	}

	c.conn = conn
	c.engine = protocol.NewEngine(version, conn, c.log)
	c.metrics.OpenedAt = time.Now()
	c.status = Status{State: Connected}
	return nil
}

// Init sends INIT and blocks for its summary, transitioning to Ready on
// SUCCESS or Defunct on FAILURE.
func (c *Connection) Init(userAgent string, authToken []value.Pair) liberr.Error {
	id := c.engine.Enqueue(protocol.NewInit(userAgent, authToken))
	if err := c.engine.Send(); err != nil {
		c.fail(Defunct, err.GetCode(), "init send")
		return err
	}

	r, err := c.engine.Fetch(id)
	if err != nil {
		c.fail(Defunct, err.GetCode(), "init fetch")
		return err
	}
	if r != 0 || c.engine.DataSignature() != protocol.MsgSuccess {
		c.fail(Defunct, liberr.CodeProtocolViolation, "init rejected")
		return liberr.New(liberr.CodeProtocolViolation, "INIT failed")
	}

	for _, p := range c.engine.ResultMetadata() {
		if p.Key == "connection_id" {
			c.id += "-" + p.Val.RawString()
			break
		}
	}

	c.status = Status{State: Ready}
	return nil
}

// Enqueue exposes the underlying engine's request builder to callers
// (pool/routing) that drive RUN/PULL_ALL/DISCARD_ALL/RESET directly.
func (c *Connection) Enqueue(msg *protocol.Message) uint64 { return c.engine.Enqueue(msg) }

func (c *Connection) Send() liberr.Error {
	if err := c.engine.Send(); err != nil {
		c.fail(Defunct, err.GetCode(), "send")
		return err
	}
	return nil
}

func (c *Connection) Fetch(requestID uint64) (int, liberr.Error) {
	r, err := c.engine.Fetch(requestID)
	if err != nil {
		c.fail(Defunct, err.GetCode(), "fetch")
		return r, err
	}
	c.applyTransition()
	return r, nil
}

func (c *Connection) FetchSummary(requestID uint64) (int, liberr.Error) {
	n, err := c.engine.FetchSummary(requestID)
	if err != nil {
		c.fail(Defunct, err.GetCode(), "fetch_summary")
		return n, err
	}
	c.applyTransition()
	return n, nil
}

// applyTransition moves Ready->Failed on the most recent FAILURE summary,
// per the "request returns FAILURE" row of the state table. IGNORED never
// clears a latched failure, and nothing but Reset moves Failed back to
// Ready.
func (c *Connection) applyTransition() {
	if c.status.State != Ready && c.status.State != Failed {
		return
	}

	switch c.engine.DataSignature() {
	case protocol.MsgFailure:
		c.status = Status{State: Failed, Code: liberr.CodeServerFailure, Context: "server failure"}
	case protocol.MsgIgnored:
		// state unchanged either way.
	case protocol.MsgSuccess:
		if c.status.State == Ready {
			c.status = Status{State: Ready}
		}
		// if already Failed, a SUCCESS for a different, still-queued request
		// (there shouldn't be one) would not clear it either; only Reset does.
	}
}

// Reset sends RESET and, on success, clears the latched failure and
// returns to Ready (the only path out of Failed besides Defunct/close).
func (c *Connection) Reset() liberr.Error {
	id := c.engine.Enqueue(protocol.NewReset())
	if err := c.Send(); err != nil {
		return err
	}
	r, err := c.engine.Fetch(id)
	if err != nil {
		c.fail(Defunct, err.GetCode(), "reset fetch")
		return err
	}
	if r != 0 || c.engine.DataSignature() != protocol.MsgSuccess {
		c.fail(Defunct, liberr.CodeProtocolViolation, "reset rejected")
		return liberr.New(liberr.CodeProtocolViolation, "RESET failed")
	}

	c.engine.ClearFailure()
	c.status = Status{State: Ready}
	return nil
}

func (c *Connection) fail(state State, code liberr.CodeError, context string) {
	c.status = Status{State: state, Code: code, Context: context}
}

// Close transitions unconditionally to Disconnected, matching the "any ->
// close() -> Disconnected" row; the underlying socket is always released.
func (c *Connection) Close() liberr.Error {
	c.metrics.ClosedAt = time.Now()
	c.status = Status{State: Disconnected}

	if c.conn == nil {
		return nil
	}

	if err := c.conn.Close(); err != nil {
		return liberr.Wrap(liberr.CodeTransportConnectionReset, "close failed", err)
	}
	c.metrics.BytesIn = c.conn.BytesIn()
	c.metrics.BytesOut = c.conn.BytesOut()
	return nil
}

func (c *Connection) Engine() *protocol.Engine { return c.engine }
