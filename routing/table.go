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

// Package routing implements the routing table and the routing pool that
// selects member servers by access mode across a cluster.
package routing

import (
	"time"

	"github.com/nabbar/bolt/address"
)

// AccessMode selects which member set a routing acquisition draws from.
type AccessMode uint8

const (
	Read AccessMode = iota
	Write
)

// Table holds the three member sets a routing response produces, plus the
// bookkeeping needed to decide when it must be refreshed.
type Table struct {
	Readers *address.Set
	Writers *address.Set
	Routers *address.Set

	TTL             time.Duration
	LastUpdatedAt   time.Time
	ExpiresAtMillis int64
}

// NewTable seeds a table with the initial router addresses; readers and
// writers start empty until the first refresh.
func NewTable(initialRouters *address.Set) *Table {
	return &Table{
		Readers: address.NewSet(),
		Writers: address.NewSet(),
		Routers: initialRouters.Clone(),
	}
}

// IsExpired reports whether the table can no longer serve the given access
// mode: an empty router set, an empty member set for that mode, or the
// wall-clock deadline having passed.
func (t *Table) IsExpired(mode AccessMode, now time.Time) bool {
	if t.Routers.IsEmpty() {
		return true
	}
	if mode == Read && t.Readers.IsEmpty() {
		return true
	}
	if mode == Write && t.Writers.IsEmpty() {
		return true
	}
	return now.UnixMilli() >= t.ExpiresAtMillis
}

// Replace atomically swaps the three member sets and recomputes the expiry
// deadline from a freshly retrieved TTL.
func (t *Table) Replace(readers, writers, routers *address.Set, ttl time.Duration, now time.Time) {
	t.Readers = readers
	t.Writers = writers
	t.Routers = routers
	t.TTL = ttl
	t.LastUpdatedAt = now
	t.ExpiresAtMillis = now.Add(ttl).UnixMilli()
}

// ForgetServer removes addr from all three member sets.
func (t *Table) ForgetServer(addr *address.Address) {
	t.Readers.Remove(addr)
	t.Writers.Remove(addr)
	t.Routers.Remove(addr)
}

// ForgetWriter removes addr from the writers set only.
func (t *Table) ForgetWriter(addr *address.Address) {
	t.Writers.Remove(addr)
}

// Candidates returns the refresh candidate order: routers first, then the
// initial router set, deduplicated by host+port.
func (t *Table) Candidates(initialRouters *address.Set) []*address.Address {
	seen := address.NewSet()
	out := make([]*address.Address, 0, t.Routers.Size()+initialRouters.Size())

	for _, a := range t.Routers.Items() {
		if seen.Add(a) >= 0 {
			out = append(out, a)
		}
	}
	for _, a := range initialRouters.Items() {
		if seen.Add(a) >= 0 {
			out = append(out, a)
		}
	}
	return out
}

func (m AccessMode) String() string {
	if m == Write {
		return "WRITE"
	}
	return "READ"
}
