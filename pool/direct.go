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

// Package pool implements the bounded Direct pool: at most max_pool_size
// connections to one endpoint, mutex-protected, with max-lifetime eviction
// and a bounded wait for an idle slot.
package pool

import (
	"context"
	"sync"
	"time"

	"github.com/nabbar/bolt/address"
	"github.com/nabbar/bolt/connection"
	liberr "github.com/nabbar/bolt/errors"
	"github.com/nabbar/bolt/logger"
	"github.com/nabbar/bolt/stats"
	"golang.org/x/sync/semaphore"
)

type entry struct {
	conn     *connection.Connection
	acquired bool
	createdAt time.Time
}

// Opener dials and initializes a brand-new connection to the pool's
// endpoint; the pool itself never imports transport.Dial or protocol
// directly, keeping it transport-agnostic the way the routing pool needs.
type Opener func(ctx context.Context, addr *address.Address) (*connection.Connection, liberr.Error)

// Direct is a bounded vector of connections to a single endpoint.
type Direct struct {
	mu   sync.Mutex
	sem  *semaphore.Weighted
	addr *address.Address
	open Opener
	log  logger.Logger

	maxSize     int
	maxLifetime time.Duration
	acquireWait time.Duration

	entries []*entry
	stats   *stats.Collector
}

// SetStats attaches a metrics collector; every release and discard reports
// that connection's accounted bytes and the pool updates its in-use gauge.
func (d *Direct) SetStats(c *stats.Collector) { d.stats = c }

func NewDirect(addr *address.Address, open Opener, maxSize int, maxLifetime, acquireWait time.Duration, log logger.Logger) *Direct {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Direct{
		addr:        addr,
		open:        open,
		log:         log,
		maxSize:     maxSize,
		maxLifetime: maxLifetime,
		acquireWait: acquireWait,
		sem:         semaphore.NewWeighted(int64(maxSize)),
	}
}

func (d *Direct) Address() *address.Address { return d.addr }

// ConnectionsInUse returns the count of non-idle entries.
func (d *Direct) ConnectionsInUse() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, e := range d.entries {
		if e.acquired {
			n++
		}
	}
	return n
}

// Acquire scans for a healthy idle entry younger than max-lifetime; failing
// that, opens a new one if the pool isn't full. If the pool is full, the
// default (v1) behaviour is to return POOL_FULL immediately without
// blocking; only when acquireWait is explicitly configured does it instead
// wait up to that long for a slot to free, returning
// POOL_ACQUISITION_TIMED_OUT if none does.
func (d *Direct) Acquire(ctx context.Context) (*connection.Connection, liberr.Error) {
	if !d.sem.TryAcquire(1) {
		if d.acquireWait <= 0 {
			return nil, liberr.New(liberr.CodePoolFull, "direct pool is full")
		}

		waitCtx, cancel := context.WithTimeout(ctx, d.acquireWait)
		defer cancel()

		if err := d.sem.Acquire(waitCtx, 1); err != nil {
			return nil, liberr.New(liberr.CodePoolAcquisitionTimeout, "timed out waiting for an idle connection slot")
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i := 0; i < len(d.entries); i++ {
		e := d.entries[i]
		if e.acquired {
			continue
		}
		if d.expired(e) {
			_ = e.conn.Close()
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			i--
			continue
		}
		e.acquired = true
		d.reportInUseLocked()
		return e.conn, nil
	}

	conn, err := d.open(ctx, d.addr)
	if err != nil {
		d.sem.Release(1)
		return nil, err
	}

	d.entries = append(d.entries, &entry{conn: conn, acquired: true, createdAt: time.Now()})
	d.reportInUseLocked()
	return conn, nil
}

// reportInUseLocked publishes the current in-use count to the attached
// stats collector. Callers must already hold d.mu.
func (d *Direct) reportInUseLocked() {
	if d.stats == nil {
		return
	}
	n := 0
	for _, e := range d.entries {
		if e.acquired {
			n++
		}
	}
	d.stats.SetInUse(d.addr.String(), n)
}

func (d *Direct) expired(e *entry) bool {
	return d.maxLifetime > 0 && time.Since(e.createdAt) >= d.maxLifetime
}

// Release marks conn idle. A Failed connection is RESET before being
// recycled (discarded if the RESET itself fails); a Defunct connection is
// discarded outright.
func (d *Direct) Release(conn *connection.Connection) {
	d.mu.Lock()
	idx := d.indexOf(conn)
	d.mu.Unlock()

	if idx < 0 {
		return
	}

	switch conn.Status().State {
	case connection.Failed:
		if err := conn.Reset(); err != nil {
			d.discard(conn)
			return
		}
	case connection.Defunct:
		d.discard(conn)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if i := d.indexOf(conn); i >= 0 {
		d.entries[i].acquired = false
	}
	d.sem.Release(1)
	if d.stats != nil {
		m := conn.Metrics()
		d.stats.Observe(d.addr.String(), m.BytesIn, m.BytesOut)
	}
	d.reportInUseLocked()
}

func (d *Direct) indexOf(conn *connection.Connection) int {
	for i, e := range d.entries {
		if e.conn == conn {
			return i
		}
	}
	return -1
}

func (d *Direct) discard(conn *connection.Connection) {
	_ = conn.Close()

	d.mu.Lock()
	defer d.mu.Unlock()
	if i := d.indexOf(conn); i >= 0 {
		d.entries = append(d.entries[:i], d.entries[i+1:]...)
	}
	d.sem.Release(1)
	if d.stats != nil {
		m := conn.Metrics()
		d.stats.Observe(d.addr.String(), m.BytesIn, m.BytesOut)
		d.stats.Release(m.BytesIn + m.BytesOut)
	}
	d.reportInUseLocked()
}

// Destroy closes every pooled connection.
func (d *Direct) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.entries {
		_ = e.conn.Close()
	}
	d.entries = nil
}
