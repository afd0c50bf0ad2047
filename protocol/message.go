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

package protocol

import "github.com/nabbar/bolt/value"

// Message is a pre-built Structure under construction: a pinned signature
// with a mutable field list, built up via setters before Send. It mirrors
// the per-version "pre-built message templates" the connection keeps for
// RUN, DISCARD_ALL, PULL_ALL, RESET, ...
type Message struct {
	Sig    byte
	Fields []*value.Value
}

func NewInit(userAgent string, authToken []value.Pair) *Message {
	return &Message{Sig: MsgInit, Fields: []*value.Value{
		value.New().SetString(userAgent),
		value.New().SetDictionary(authToken),
	}}
}

func NewAckFailure() *Message {
	return &Message{Sig: MsgAckFailure, Fields: nil}
}

func NewReset() *Message {
	return &Message{Sig: MsgReset, Fields: nil}
}

func NewRun(statement string) *Message {
	return &Message{Sig: MsgRun, Fields: []*value.Value{
		value.New().SetString(statement),
		value.New().SetDictionary(nil),
	}}
}

// SetParameters replaces RUN's parameter dictionary.
func (m *Message) SetParameters(params []value.Pair) *Message {
	if m.Sig == MsgRun && len(m.Fields) == 2 {
		m.Fields[1] = value.New().SetDictionary(params)
	}
	return m
}

func NewDiscardAll() *Message {
	return &Message{Sig: MsgDiscardAll, Fields: nil}
}

func NewPullAll() *Message {
	return &Message{Sig: MsgPullAll, Fields: nil}
}

// NewBegin, NewCommit and NewRollback build the plain-Cypher RUN messages
// used to delimit explicit transactions on the v1/v2 wire, which predates
// dedicated BEGIN/COMMIT/ROLLBACK structure signatures: starting/ending a
// transaction is itself a statement, paired with a DISCARD_ALL by the
// caller exactly like any other RUN.
func NewBegin(bookmark string) *Message {
	params := []value.Pair{}
	if bookmark != "" {
		params = append(params, value.Pair{Key: "bookmark", Val: value.New().SetString(bookmark)})
	}
	return NewRun("BEGIN").SetParameters(params)
}

func NewCommit() *Message {
	return NewRun("COMMIT")
}

func NewRollback() *Message {
	return NewRun("ROLLBACK")
}
