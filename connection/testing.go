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

import "github.com/nabbar/bolt/protocol"

// This file is a test-fixture surface, not part of the driver's stable API:
// it lets connection_test and the pool/routing package tests fabricate a
// Connection in an arbitrary state over a fake transport, without driving
// the real Open/Init handshake. It has to live in the regular (non "_test.go")
// build so that those other packages' tests can still see it when they
// import connection as an ordinary dependency; callers outside test code
// must not use it.

// FixtureSetEngine installs e as the connection's protocol engine, bypassing
// the real handshake/dial Open performs.
func (c *Connection) FixtureSetEngine(e *protocol.Engine) { c.engine = e }

// FixtureForceState overwrites the connection's status, bypassing the
// regular transition rules in connection.go.
func (c *Connection) FixtureForceState(s State) { c.status = Status{State: s} }
