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

// Package protocol implements the Bolt message set and the v1/v2 protocol
// engines: handshake negotiation, message construction (INIT, RUN, BEGIN,
// COMMIT, ROLLBACK, DISCARD_ALL, PULL_ALL, RESET, ACK_FAILURE), the
// request/response lifecycle (fetch/fetch_summary), and summary handling.
package protocol

// Client to server message signatures.
const (
	MsgInit       byte = 0x01
	MsgAckFailure byte = 0x0E
	MsgReset      byte = 0x0F
	MsgRun        byte = 0x10
	MsgDiscardAll byte = 0x2F
	MsgPullAll    byte = 0x3F
)

// Server to client message signatures.
const (
	MsgSuccess byte = 0x70
	MsgRecord  byte = 0x71
	MsgIgnored byte = 0x7E
	MsgFailure byte = 0x7F
)

// Result-value structure signatures, common to v1 and v2.
const (
	StructNode                = 'N'
	StructRelationship        = 'R'
	StructUnboundRelationship = 'r'
	StructPath                = 'P'
)

// v2 additionally defines temporal/spatial structure signatures.
const (
	StructPoint2D         = 'X'
	StructPoint3D         = 'Y'
	StructLocalDate       = 'D'
	StructLocalTime       = 't'
	StructLocalDateTime   = 'd'
	StructOffsetTime      = 'T'
	StructOffsetDateTime  = 'F'
	StructZonedDateTime   = 'f'
	StructDuration        = 'E'
)

// Version identifies a negotiated protocol version.
type Version uint32

const (
	VersionUnsupported Version = 0
	Version1           Version = 1
	Version2           Version = 2
)

func resultSignatures(sig byte) bool {
	switch sig {
	case StructNode, StructRelationship, StructUnboundRelationship, StructPath:
		return true
	}
	return false
}

// envelopeSignatures reports whether sig is one of the server-to-client
// message envelopes (SUCCESS/RECORD/IGNORED/FAILURE); every server reply is
// itself wire-encoded as a Structure carrying one of these signatures, so
// the decoder's allow-list must accept them the same as any result value.
func envelopeSignatures(sig byte) bool {
	switch sig {
	case MsgSuccess, MsgRecord, MsgIgnored, MsgFailure:
		return true
	}
	return false
}

func v2Signatures(sig byte) bool {
	switch sig {
	case StructPoint2D, StructPoint3D, StructLocalDate, StructLocalTime, StructLocalDateTime,
		StructOffsetTime, StructOffsetDateTime, StructZonedDateTime, StructDuration:
		return true
	}
	return false
}

// AllowedSignature returns the packstream.SignatureAllowed predicate for
// the given protocol version.
func AllowedSignature(v Version) func(sig byte) bool {
	return func(sig byte) bool {
		if envelopeSignatures(sig) {
			return true
		}
		if resultSignatures(sig) {
			return true
		}
		if v >= Version2 && v2Signatures(sig) {
			return true
		}
		return false
	}
}
