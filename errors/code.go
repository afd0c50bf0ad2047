/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package errors implements the stable error taxonomy described by the
// driver's failure-semantics contract (transport, protocol, pooling,
// addressing, routing, server-failure). Every internal failure path returns
// a CodeError-tagged Error rather than a bare error.
package errors

import (
	"math"
	"strconv"
)

// CodeError is a numeric error classification, analogous to an HTTP status
// code. Zero means "no specific code" (a wrapped foreign error).
type CodeError uint16

func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

func (c CodeError) Int() int {
	return int(c)
}

func (c CodeError) String() string {
	if m, ok := codeNames[c]; ok {
		return m
	}
	return strconv.Itoa(c.Int())
}

// ParseCodeError clamps an arbitrary integer into the CodeError range.
func ParseCodeError(i int64) CodeError {
	if i < 0 {
		return CodeUnknown
	} else if i >= int64(math.MaxUint16) {
		return CodeError(math.MaxUint16)
	}
	return CodeError(i)
}

const (
	// CodeUnknown is used for errors wrapped from foreign (non-driver) sources.
	CodeUnknown CodeError = 0

	// Transport (spec §7 "Transport")
	CodeTransportPermissionDenied    CodeError = 100
	CodeTransportUnsupportedFamily   CodeError = 101
	CodeTransportTooManyFiles        CodeError = 102
	CodeTransportOutOfMemory         CodeError = 103
	CodeTransportOutOfPorts          CodeError = 104
	CodeTransportConnectionRefused   CodeError = 105
	CodeTransportConnectionReset     CodeError = 106
	CodeTransportInterrupted         CodeError = 107
	CodeTransportNetworkUnreachable  CodeError = 108
	CodeTransportTimedOut            CodeError = 109
	CodeTransportTLSError            CodeError = 110
	CodeTransportEndOfTransmission   CodeError = 111

	// Protocol (spec §7 "Protocol")
	CodeProtocolViolation            CodeError = 200
	CodeProtocolUnsupportedEncode    CodeError = 201
	CodeProtocolNotImplementedDecode CodeError = 202
	CodeProtocolUnexpectedMarker     CodeError = 203
	CodeProtocolUnsupportedVersion   CodeError = 204
	CodeBufferUnderflow              CodeError = 205

	// Pooling (spec §7 "Pooling")
	CodePoolFull               CodeError = 300
	CodePoolAcquisitionTimeout CodeError = 301

	// Addressing (spec §7 "Addressing")
	CodeAddressNotResolved    CodeError = 400
	CodeAddressNameInfoFailed CodeError = 401

	// Routing (spec §7 "Routing")
	CodeRoutingUnableToRetrieve   CodeError = 500
	CodeRoutingNoServersToSelect  CodeError = 501
	CodeRoutingUnableToConstruct  CodeError = 502
	CodeRoutingUnableToRefresh    CodeError = 503
	CodeRoutingUnexpectedResponse CodeError = 504

	// Server failure (spec §7 "Server failure"): code/message carried verbatim
	// from the FAILURE metadata; this sentinel flags that origin.
	CodeServerFailure CodeError = 600

	// Configuration
	CodeConfigInvalid CodeError = 700
)

var codeNames = map[CodeError]string{
	CodeUnknown:                       "unknown error",
	CodeTransportPermissionDenied:     "transport: permission denied",
	CodeTransportUnsupportedFamily:    "transport: unsupported address family",
	CodeTransportTooManyFiles:        "transport: too many open files",
	CodeTransportOutOfMemory:          "transport: out of memory",
	CodeTransportOutOfPorts:           "transport: out of ports",
	CodeTransportConnectionRefused:    "transport: connection refused",
	CodeTransportConnectionReset:      "transport: connection reset",
	CodeTransportInterrupted:          "transport: interrupted",
	CodeTransportNetworkUnreachable:   "transport: network unreachable",
	CodeTransportTimedOut:             "transport: timed out",
	CodeTransportTLSError:             "transport: TLS error",
	CodeTransportEndOfTransmission:    "transport: end of transmission",
	CodeProtocolViolation:             "protocol: violation",
	CodeProtocolUnsupportedEncode:     "protocol: unsupported type for encode",
	CodeProtocolNotImplementedDecode:  "protocol: not implemented for decode",
	CodeProtocolUnexpectedMarker:      "protocol: unexpected marker",
	CodeProtocolUnsupportedVersion:    "protocol: unsupported protocol version",
	CodeBufferUnderflow:               "buffer: underflow on unload",
	CodePoolFull:                      "pool: full",
	CodePoolAcquisitionTimeout:        "pool: acquisition timed out",
	CodeAddressNotResolved:            "addressing: name not resolved",
	CodeAddressNameInfoFailed:         "addressing: getnameinfo failed",
	CodeRoutingUnableToRetrieve:       "routing: unable to retrieve routing table",
	CodeRoutingNoServersToSelect:      "routing: no servers to select",
	CodeRoutingUnableToConstruct:      "routing: unable to construct pool for server",
	CodeRoutingUnableToRefresh:        "routing: unable to refresh routing table",
	CodeRoutingUnexpectedResponse:     "routing: unexpected discovery response",
	CodeServerFailure:                 "server failure",
	CodeConfigInvalid:                 "configuration: invalid",
}

func unicCodeSlice(slice []CodeError) []CodeError {
	seen := make(map[CodeError]struct{}, len(slice))
	res := make([]CodeError, 0, len(slice))

	for _, c := range slice {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		res = append(res, c)
	}

	return res
}
