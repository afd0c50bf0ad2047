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

// Package transport dials the TCP (optionally TLS-wrapped) socket that
// carries the Bolt wire protocol, applying connect/receive timeouts and a
// handful of socket options via golang.org/x/sys.
package transport

import (
	"crypto/tls"
	"net"
	"time"

	liberr "github.com/nabbar/bolt/errors"
	"github.com/nabbar/bolt/transport/tlsconfig"
)

// Options configures a single dial.
type Options struct {
	ConnectTimeout time.Duration
	ReceiveTimeout time.Duration
	TLS            *tlsconfig.Trust // nil disables TLS
	KeepAlive      time.Duration
}

// Conn is a net.Conn with the driver's receive timeout pre-applied to every
// Read via SetReadDeadline, and bytes-in/out accounting for Connection's
// metrics.
type Conn struct {
	net.Conn
	opt     Options
	bytesIn uint64
	bytesOut uint64
}

func Dial(address string, opt Options) (*Conn, liberr.Error) {
	dialer := &net.Dialer{Timeout: opt.ConnectTimeout, KeepAlive: opt.KeepAlive}

	raw, err := dialer.Dial("tcp", address)
	if err != nil {
		return nil, classifyDialError(err)
	}

	if tc, ok := raw.(*net.TCPConn); ok {
		applySocketOptions(tc)
	}

	if opt.TLS != nil {
		cfg, cErr := opt.TLS.ClientConfig()
		if cErr != nil {
			_ = raw.Close()
			return nil, cErr
		}
		tlsConn := tls.Client(raw, cfg)
		if hErr := tlsConn.Handshake(); hErr != nil {
			_ = raw.Close()
			return nil, liberr.Wrap(liberr.CodeTransportTLSError, "tls handshake failed", hErr)
		}
		raw = tlsConn
	}

	return &Conn{Conn: raw, opt: opt}, nil
}

func (c *Conn) Read(p []byte) (int, error) {
	if c.opt.ReceiveTimeout > 0 {
		_ = c.Conn.SetReadDeadline(time.Now().Add(c.opt.ReceiveTimeout))
	}
	n, err := c.Conn.Read(p)
	c.bytesIn += uint64(n)
	return n, err
}

func (c *Conn) Write(p []byte) (int, error) {
	n, err := c.Conn.Write(p)
	c.bytesOut += uint64(n)
	return n, err
}

func (c *Conn) BytesIn() uint64  { return c.bytesIn }
func (c *Conn) BytesOut() uint64 { return c.bytesOut }

func classifyDialError(err error) liberr.Error {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return liberr.Wrap(liberr.CodeTransportTimedOut, "dial timed out", err)
	}
	return liberr.Wrap(liberr.CodeTransportConnectionRefused, "dial failed", err)
}
