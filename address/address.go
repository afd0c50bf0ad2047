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

// Package address implements Address (host/port + resolved endpoints) and
// AddressSet (an insertion-ordered set of Addresses), the addressing model
// shared by the direct and routing pools.
package address

import (
	"context"
	"net"
	"strconv"

	liberr "github.com/nabbar/bolt/errors"
)

// Address is a (host, port) pair plus whatever DNS resolution produced.
// Resolution is idempotent: Resolve replaces any previous result wholesale.
type Address struct {
	host string
	port string

	resolved   []net.IP
	resolvedPt int
}

func New(host, port string) *Address {
	return &Address{host: host, port: port}
}

func (a *Address) Host() string { return a.host }
func (a *Address) Port() string { return a.port }

func (a *Address) String() string {
	return net.JoinHostPort(a.host, a.port)
}

// Equal compares by host+port only, ignoring resolution state.
func (a *Address) Equal(o *Address) bool {
	if a == nil || o == nil {
		return a == o
	}
	return a.host == o.host && a.port == o.port
}

// Resolved reports whether Resolve has ever succeeded.
func (a *Address) Resolved() bool { return a.resolved != nil }

// IPs returns the resolved IP list, or nil if unresolved.
func (a *Address) IPs() []net.IP { return a.resolved }

// ResolvedPort returns the numeric port, valid only once Resolved.
func (a *Address) ResolvedPort() int { return a.resolvedPt }

// Resolve performs DNS resolution via the standard resolver, idempotently
// replacing any previous resolution.
func (a *Address) Resolve(ctx context.Context) liberr.Error {
	port, cErr := strconv.Atoi(a.port)
	if cErr != nil {
		return liberr.New(liberr.CodeAddressNameInfoFailed, "invalid port: "+a.port)
	}

	ips, rErr := net.DefaultResolver.LookupIP(ctx, "ip", a.host)
	if rErr != nil {
		e := liberr.New(liberr.CodeAddressNotResolved, "lookup failed for "+a.host)
		e.Add(rErr)
		return e
	}

	a.resolved = ips
	a.resolvedPt = port
	return nil
}

// Copy returns an independent Address sharing no resolution state.
func (a *Address) Copy() *Address {
	c := &Address{host: a.host, port: a.port, resolvedPt: a.resolvedPt}
	if a.resolved != nil {
		c.resolved = append([]net.IP(nil), a.resolved...)
	}
	return c
}
