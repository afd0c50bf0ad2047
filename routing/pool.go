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

package routing

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/bolt/address"
	"github.com/nabbar/bolt/connection"
	liberr "github.com/nabbar/bolt/errors"
	"github.com/nabbar/bolt/logger"
	"github.com/nabbar/bolt/pool"
	"github.com/nabbar/bolt/protocol"
	"github.com/nabbar/bolt/value"
)

const maxForgetRetries = 3

// Pool holds one routing table and a lazily-populated direct pool per
// cluster member, selecting targets by least-connected round-robin.
type Pool struct {
	mu sync.RWMutex

	initialRouters *address.Set
	routingContext []value.Pair
	table          *Table

	open        pool.Opener
	maxSize     int
	maxLifetime time.Duration
	acquireWait time.Duration
	log         logger.Logger

	direct map[string]*pool.Direct
	offset uint64
}

// NewPool seeds a routing pool from the user-provided (or resolver-produced)
// initial router addresses.
func NewPool(initialRouters *address.Set, routingContext []value.Pair, open pool.Opener, maxSize int, maxLifetime, acquireWait time.Duration, log logger.Logger) *Pool {
	return &Pool{
		initialRouters: initialRouters,
		routingContext: routingContext,
		table:          NewTable(initialRouters),
		open:           open,
		maxSize:        maxSize,
		maxLifetime:    maxLifetime,
		acquireWait:    acquireWait,
		log:            log,
		direct:         make(map[string]*pool.Direct),
	}
}

// Table returns the current routing table for inspection (e.g. by stats).
func (p *Pool) Table() *Table {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.table
}

func (p *Pool) directPool(addr *address.Address) *pool.Direct {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := addr.String()
	if d, ok := p.direct[key]; ok {
		return d
	}
	d := pool.NewDirect(addr, p.open, p.maxSize, p.maxLifetime, p.acquireWait, p.log)
	p.direct[key] = d
	return d
}

// Acquire selects a member for the given access mode, refreshing the
// routing table first if it is expired, and retries against a different
// member when the chosen one turns out to be unreachable.
func (p *Pool) Acquire(ctx context.Context, mode AccessMode) (*connection.Connection, liberr.Error) {
	var lastErr liberr.Error

	for attempt := 0; attempt < maxForgetRetries; attempt++ {
		if p.isExpired(mode) {
			if err := p.refreshLocked(ctx, mode); err != nil {
				return nil, err
			}
		}

		addr, err := p.selectMember(mode)
		if err != nil {
			return nil, err
		}

		d := p.directPool(addr)
		conn, aErr := d.Acquire(ctx)
		if aErr == nil {
			return conn, nil
		}

		if aErr.GetCode() == liberr.CodePoolFull || aErr.GetCode() == liberr.CodePoolAcquisitionTimeout {
			return nil, aErr
		}

		lastErr = aErr
		p.mu.Lock()
		p.table.ForgetServer(addr)
		p.mu.Unlock()
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, liberr.New(liberr.CodeRoutingNoServersToSelect, "no routable server available")
}

// Release returns conn to the direct pool matching its resolved endpoint.
func (p *Pool) Release(conn *connection.Connection) {
	d := p.directPool(conn.Address())
	d.Release(conn)
}

func (p *Pool) isExpired(mode AccessMode) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.table.IsExpired(mode, time.Now())
}

// selectMember performs least-connected round-robin: scan starting at
// offset mod N, remembering the server with the fewest connections_in_use
// across its direct pool, and advance the offset.
func (p *Pool) selectMember(mode AccessMode) (*address.Address, liberr.Error) {
	p.mu.RLock()
	var set *address.Set
	if mode == Write {
		set = p.table.Writers
	} else {
		set = p.table.Readers
	}
	items := set.Items()
	p.mu.RUnlock()

	n := len(items)
	if n == 0 {
		return nil, liberr.New(liberr.CodeRoutingNoServersToSelect, fmt.Sprintf("no %s servers available", mode))
	}

	start := int(atomic.AddUint64(&p.offset, 1) % uint64(n))

	var best *address.Address
	bestLoad := -1
	for i := 0; i < n; i++ {
		addr := items[(start+i)%n]
		d := p.directPool(addr)
		load := d.ConnectionsInUse()
		if best == nil || load < bestLoad {
			best = addr
			bestLoad = load
		}
	}
	return best, nil
}

// refreshLocked runs the discovery RUN/PULL_ALL exchange against candidate
// routers in order, replacing the routing table on the first success.
func (p *Pool) refreshLocked(ctx context.Context, _ AccessMode) liberr.Error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.table.IsExpired(Read, time.Now()) && !p.table.IsExpired(Write, time.Now()) {
		return nil
	}

	candidates := p.table.Candidates(p.initialRouters)
	var lastErr liberr.Error

	for _, addr := range candidates {
		d := p.direct[addr.String()]
		if d == nil {
			d = pool.NewDirect(addr, p.open, p.maxSize, p.maxLifetime, p.acquireWait, p.log)
			p.direct[addr.String()] = d
		}

		conn, err := d.Acquire(ctx)
		if err != nil {
			lastErr = err
			continue
		}

		readers, writers, routers, ttl, rErr := p.fetchRoutingTable(conn)
		d.Release(conn)
		if rErr != nil {
			lastErr = rErr
			continue
		}

		p.table.Replace(readers, writers, routers, ttl, time.Now())
		p.gcUnreferencedPools()
		return nil
	}

	if lastErr != nil {
		return liberr.Wrap(liberr.CodeRoutingUnableToRetrieve, "unable to retrieve routing table from any candidate router", lastErr)
	}
	return liberr.New(liberr.CodeRoutingUnableToRetrieve, "no candidate routers available")
}

// fetchRoutingTable sends CALL dbms.cluster.routing.getRoutingTable($context)
// over conn and parses the single expected record into three address sets
// plus a TTL.
func (p *Pool) fetchRoutingTable(conn *connection.Connection) (readers, writers, routers *address.Set, ttl time.Duration, err liberr.Error) {
	msg := protocol.NewRun("CALL dbms.cluster.routing.getRoutingTable($context)")
	msg.SetParameters([]value.Pair{{Key: "context", Val: dictValue(p.routingContext)}})

	runID := conn.Enqueue(msg)
	pullID := conn.Enqueue(protocol.NewPullAll())

	if sErr := conn.Send(); sErr != nil {
		return nil, nil, nil, 0, sErr
	}

	if _, fErr := conn.Fetch(runID); fErr != nil {
		return nil, nil, nil, 0, fErr
	}
	if conn.Engine().DataSignature() != protocol.MsgSuccess {
		return nil, nil, nil, 0, liberr.New(liberr.CodeRoutingUnexpectedResponse, "RUN did not succeed")
	}
	fieldNames := conn.Engine().ResultFieldNames()

	r, fErr := conn.Fetch(pullID)
	if fErr != nil {
		return nil, nil, nil, 0, fErr
	}
	if r != 1 {
		return nil, nil, nil, 0, liberr.New(liberr.CodeRoutingUnexpectedResponse, "expected exactly one routing record")
	}
	record := conn.Engine().DataFields()

	if n, _ := conn.FetchSummary(pullID); n != 0 {
		return nil, nil, nil, 0, liberr.New(liberr.CodeRoutingUnexpectedResponse, "expected exactly one routing record")
	}

	return parseRoutingRecord(fieldNames, record)
}

func dictValue(pairs []value.Pair) *value.Value {
	return value.New().SetDictionary(pairs)
}

// gcUnreferencedPools drops direct pools for servers that no longer appear
// in any routing-table set and that are fully idle.
func (p *Pool) gcUnreferencedPools() {
	for key, d := range p.direct {
		if d.ConnectionsInUse() != 0 {
			continue
		}
		if p.table.Readers.IndexOf(d.Address()) >= 0 {
			continue
		}
		if p.table.Writers.IndexOf(d.Address()) >= 0 {
			continue
		}
		if p.table.Routers.IndexOf(d.Address()) >= 0 {
			continue
		}
		d.Destroy()
		delete(p.direct, key)
	}
}

// Destroy closes every per-server direct pool.
func (p *Pool) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, d := range p.direct {
		d.Destroy()
	}
	p.direct = make(map[string]*pool.Direct)
}
