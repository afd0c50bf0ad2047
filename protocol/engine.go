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

import (
	"io"

	"github.com/nabbar/bolt/buffer"
	liberr "github.com/nabbar/bolt/errors"
	"github.com/nabbar/bolt/logger"
	"github.com/nabbar/bolt/packstream"
	"github.com/nabbar/bolt/value"
)

const bookmarkCapacity = 40

type pendingRequest struct {
	id  uint64
	sig byte
}

// Engine is the per-connection, per-version protocol state described by
// the wire spec's "protocol state" section: request/response counters,
// the most recent server identification, result shape, failure data and
// bookmark, plus the queue of requests awaiting a summary.
type Engine struct {
	version Version
	rw      io.ReadWriter
	log     logger.Logger

	nextRequestID   uint64
	responseCounter uint64
	recordCounter   int

	pending []pendingRequest
	queued  [][]byte // serialized-but-unsent messages, in enqueue order

	server           string
	resultFieldNames []string
	resultMetadata   []value.Pair
	failureData      *value.Value
	lastBookmark     string

	dataSig    byte
	dataFields []*value.Value
}

func NewEngine(version Version, rw io.ReadWriter, log logger.Logger) *Engine {
	return &Engine{version: version, rw: rw, log: log}
}

func (e *Engine) Version() Version { return e.version }

func (e *Engine) Server() string { return e.server }

func (e *Engine) ResultFieldNames() []string { return e.resultFieldNames }

func (e *Engine) ResultMetadata() []value.Pair { return e.resultMetadata }

func (e *Engine) FailureData() *value.Value { return e.failureData }

func (e *Engine) LastBookmark() string { return e.lastBookmark }

func (e *Engine) RecordCounter() int { return e.recordCounter }

// DataSignature and DataFields expose the most recently fetched payload:
// either a RECORD's fields, or a summary's metadata rendered as fields.
func (e *Engine) DataSignature() byte { return e.dataSig }
func (e *Engine) DataFields() []*value.Value { return e.dataFields }

// Enqueue serializes msg as a Structure, logs it (masked then unmasked),
// and assigns it the next monotonically increasing request id. A RUN opens
// a new result, so it resets record_counter back to zero.
func (e *Engine) Enqueue(msg *Message) uint64 {
	id := e.nextRequestID
	e.nextRequestID++

	if msg.Sig == MsgRun {
		e.recordCounter = 0
	}

	e.logRedacted(msg)

	buf := buffer.New(128)
	structure := value.New().SetStructure(msg.Sig, msg.Fields)
	_ = packstream.NewEncoder(buf).Encode(structure)

	e.queued = append(e.queued, append([]byte(nil), buf.Bytes()...))
	e.pending = append(e.pending, pendingRequest{id: id, sig: msg.Sig})

	return id
}

// logRedacted emits the pre-send (masked) and pre-write (unmasked) log
// events from two independently built Value copies, per the redaction
// contract: neither copy may share storage with the other.
func (e *Engine) logRedacted(msg *Message) {
	if e.log == nil {
		return
	}

	unmasked := value.New().SetStructure(msg.Sig, msg.Fields)
	masked := unmasked.Copy()

	if msg.Sig == MsgInit && len(masked.Fields()) == 2 {
		maskAuthToken(masked.Fields()[1])
	}

	e.log.Entry(logger.DebugLevel, "send").FieldAdd("message", masked.Render()).Log()
	e.log.Entry(logger.DebugLevel, "write").FieldAdd("message", unmasked.Render()).Log()
}

func maskAuthToken(auth *value.Value) {
	if auth.Kind() != value.KindDictionary {
		return
	}
	for _, p := range auth.Dictionary() {
		if p.Key == "credentials" {
			p.Val.SetString("********")
		}
	}
}

// Send drains every queued, serialized message to the transport as
// independent chunked frames, in enqueue order.
func (e *Engine) Send() liberr.Error {
	for _, msg := range e.queued {
		if err := packstream.WriteChunked(e.rw, msg); err != nil {
			return err
		}
	}
	e.queued = e.queued[:0]
	return nil
}

// Fetch implements the request-lifecycle contract: 1 for a record belonging
// to an earlier-or-equal request, 0 for request_id's own summary, -1 on
// error. Records/summaries for older request ids are silently discarded.
func (e *Engine) Fetch(requestID uint64) (int, liberr.Error) {
	for {
		if len(e.pending) == 0 {
			return -1, liberr.New(liberr.CodeProtocolViolation, "fetch called with no pending request")
		}

		front := e.pending[0]

		raw, err := packstream.ReadChunked(e.rw)
		if err != nil {
			return -1, err
		}

		buf := buffer.NewFrom(raw)
		dec := packstream.NewDecoder(buf, AllowedSignature(e.version))
		v, dErr := dec.Decode()
		if dErr != nil {
			return -1, dErr
		}
		if v.Kind() != value.KindStructure {
			return -1, liberr.New(liberr.CodeProtocolViolation, "expected a Structure payload")
		}

		switch v.Signature() {
		case MsgRecord:
			if front.id < requestID {
				continue
			}
			e.dataSig = MsgRecord
			e.dataFields = v.Fields()
			e.recordCounter++
			return 1, nil

		case MsgSuccess, MsgFailure, MsgIgnored:
			e.pending = e.pending[1:]
			e.responseCounter++
			e.dataSig = v.Signature()
			e.dataFields = v.Fields()
			e.applySummary(v.Signature(), v.Fields())

			if front.id < requestID {
				continue
			}
			return 0, nil

		default:
			return -1, liberr.Newf(liberr.CodeProtocolViolation, "unexpected message signature 0x%02X", v.Signature())
		}
	}
}

// FetchSummary calls Fetch in a loop until it returns <= 0, returning the
// number of records observed.
func (e *Engine) FetchSummary(requestID uint64) (int, liberr.Error) {
	records := 0
	for {
		r, err := e.Fetch(requestID)
		if err != nil {
			return records, err
		}
		if r <= 0 {
			return records, nil
		}
		records++
	}
}

func (e *Engine) applySummary(sig byte, fields []*value.Value) {
	switch sig {
	case MsgSuccess:
		if len(fields) == 0 {
			return
		}
		meta := fields[0]
		var kept []value.Pair
		for _, p := range meta.Dictionary() {
			switch p.Key {
			case "fields":
				names := make([]string, 0, p.Val.Size())
				for _, f := range p.Val.List() {
					names = append(names, f.RawString())
				}
				e.resultFieldNames = names
			case "bookmark":
				b := p.Val.RawString()
				if len(b) > bookmarkCapacity {
					b = b[:bookmarkCapacity]
				}
				e.lastBookmark = b
			case "server":
				e.server = p.Val.RawString()
			default:
				kept = append(kept, p)
			}
		}
		e.resultMetadata = kept

	case MsgFailure:
		if len(fields) > 0 {
			e.failureData = fields[0]
		} else {
			e.failureData = value.New().SetDictionary(nil)
		}

	case MsgIgnored:
		// state unchanged; a latched FAILURE (if any) stays latched.
	}
}

// ClearFailure drops the latched failure_data, called by the connection
// once RESET succeeds.
func (e *Engine) ClearFailure() { e.failureData = nil }
