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
	"encoding/binary"
	"io"

	liberr "github.com/nabbar/bolt/errors"
)

var handshakeMagic = [4]byte{0x60, 0x60, 0xB0, 0x17}

// DefaultProposals is the four version proposals sent in descending
// preference order, matching the teacher's "offer newest first" handshake.
func DefaultProposals() [4]uint32 {
	return [4]uint32{uint32(Version2), uint32(Version1), 0, 0}
}

// Handshake writes the magic preamble and four version proposals, then
// reads the 4-byte server-selected version. Version 0 means unsupported.
func Handshake(rw io.ReadWriter, proposals [4]uint32) (Version, liberr.Error) {
	out := make([]byte, 4+16)
	copy(out[:4], handshakeMagic[:])
	for i, p := range proposals {
		binary.BigEndian.PutUint32(out[4+i*4:8+i*4], p)
	}

	if _, err := rw.Write(out); err != nil {
		return VersionUnsupported, liberr.Wrap(liberr.CodeTransportConnectionReset, "handshake write failed", err)
	}

	in := make([]byte, 4)
	if _, err := io.ReadFull(rw, in); err != nil {
		return VersionUnsupported, liberr.Wrap(liberr.CodeTransportEndOfTransmission, "handshake read failed", err)
	}

	selected := Version(binary.BigEndian.Uint32(in))
	if selected != Version1 && selected != Version2 {
		return VersionUnsupported, liberr.New(liberr.CodeProtocolUnsupportedVersion, "server proposed an unsupported protocol version")
	}

	return selected, nil
}
