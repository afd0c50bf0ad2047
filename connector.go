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

// Package bolt is the driver's public entry point: Connector ties Config,
// the direct/routing pools and the connection state machine together into
// the acquire/release/destroy surface described by the programmatic
// interface section of the driver's design.
package bolt

import (
	"context"

	"github.com/nabbar/bolt/address"
	"github.com/nabbar/bolt/config"
	"github.com/nabbar/bolt/connection"
	liberr "github.com/nabbar/bolt/errors"
	"github.com/nabbar/bolt/pool"
	"github.com/nabbar/bolt/routing"
	"github.com/nabbar/bolt/stats"
	"github.com/nabbar/bolt/transport"
	"github.com/nabbar/bolt/value"
)

// AccessMode mirrors routing.AccessMode at the public surface, so callers
// of a direct-scheme Connector are not forced to import routing just to
// name READ/WRITE.
type AccessMode = routing.AccessMode

const (
	Read  = routing.Read
	Write = routing.Write
)

// Connector is the top-level handle a user obtains for one address (direct
// scheme) or one cluster (routing scheme). It owns exactly one pool kind.
type Connector struct {
	cfg       config.Config
	authToken []value.Pair

	direct  *pool.Direct
	routed  *routing.Pool
	metrics *stats.Collector
}

// New builds a Connector for the given seed address, authentication
// pairs and configuration. It does not dial: connections are opened lazily
// on the first Acquire.
func New(host, port string, authToken []value.Pair, cfg config.Config) (*Connector, liberr.Error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Connector{cfg: cfg, authToken: authToken, metrics: stats.NewCollector()}

	opener := func(ctx context.Context, addr *address.Address) (*connection.Connection, liberr.Error) {
		opt, oErr := cfg.TransportOptions()
		if oErr != nil {
			return nil, oErr
		}

		conn := connection.New(addr, cfg.Log)
		if err := conn.Open(ctx, opt); err != nil {
			return nil, err
		}
		if err := conn.Init(cfg.UserAgent, authToken); err != nil {
			return nil, err
		}
		return conn, nil
	}

	switch cfg.Scheme {
	case config.SchemeRouting:
		initial := address.NewSet(address.New(host, port))
		c.routed = routing.NewPool(initial, cfg.RoutingContext, opener, cfg.MaxPoolSize, cfg.MaxConnectionLifeTime, cfg.MaxConnectionAcquireTime, cfg.Log)
	default:
		c.direct = pool.NewDirect(address.New(host, port), opener, cfg.MaxPoolSize, cfg.MaxConnectionLifeTime, cfg.MaxConnectionAcquireTime, cfg.Log)
		c.direct.SetStats(c.metrics)
	}

	return c, nil
}

// Metrics exposes the connector's prometheus-backed accounting collector.
func (c *Connector) Metrics() *stats.Collector { return c.metrics }

// Acquire returns a connection suited to mode. For a direct-scheme
// Connector, mode is advisory only (there is a single endpoint); for a
// routing-scheme Connector it selects a reader or a writer member.
func (c *Connector) Acquire(ctx context.Context, mode AccessMode) (*connection.Connection, liberr.Error) {
	if c.routed != nil {
		return c.routed.Acquire(ctx, mode)
	}
	return c.direct.Acquire(ctx)
}

// Release returns conn to whichever pool owns its endpoint.
func (c *Connector) Release(conn *connection.Connection) {
	if c.routed != nil {
		c.routed.Release(conn)
		return
	}
	c.direct.Release(conn)
}

// Destroy closes every pooled connection.
func (c *Connector) Destroy() {
	if c.routed != nil {
		c.routed.Destroy()
		return
	}
	c.direct.Destroy()
}
