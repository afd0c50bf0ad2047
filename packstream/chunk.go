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

package packstream

import (
	"encoding/binary"
	"io"

	liberr "github.com/nabbar/bolt/errors"
)

// WriteChunked splits message into chunks of at most MaxChunkSize bytes,
// each prefixed with a big-endian u16 length, and terminates with a
// zero-length chunk.
func WriteChunked(w io.Writer, message []byte) liberr.Error {
	hdr := make([]byte, 2)

	for len(message) > 0 {
		n := len(message)
		if n > MaxChunkSize {
			n = MaxChunkSize
		}

		binary.BigEndian.PutUint16(hdr, uint16(n))
		if _, err := w.Write(hdr); err != nil {
			return liberr.Wrap(liberr.CodeTransportConnectionReset, "chunk header write failed", err)
		}
		if _, err := w.Write(message[:n]); err != nil {
			return liberr.Wrap(liberr.CodeTransportConnectionReset, "chunk payload write failed", err)
		}
		message = message[n:]
	}

	if _, err := w.Write([]byte{0x00, 0x00}); err != nil {
		return liberr.Wrap(liberr.CodeTransportConnectionReset, "chunk terminator write failed", err)
	}
	return nil
}

// ReadChunked reads chunks until the zero-length terminator and returns the
// reassembled message.
func ReadChunked(r io.Reader) ([]byte, liberr.Error) {
	hdr := make([]byte, 2)
	var message []byte

	for {
		if _, err := io.ReadFull(r, hdr); err != nil {
			return nil, liberr.Wrap(liberr.CodeTransportEndOfTransmission, "chunk header read failed", err)
		}

		n := binary.BigEndian.Uint16(hdr)
		if n == 0 {
			return message, nil
		}

		chunk := make([]byte, n)
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, liberr.Wrap(liberr.CodeTransportEndOfTransmission, "chunk payload read failed", err)
		}
		message = append(message, chunk...)
	}
}
