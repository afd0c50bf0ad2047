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

// Package packstream implements the self-describing binary codec used on
// the wire: marker-byte value encoding/decoding (canonical shortest form)
// plus the chunked framing layer that splits a logical message into
// length-prefixed chunks terminated by a zero-length chunk.
package packstream

const (
	markerTinyIntMax = 0x7F // 00..7F: positive tiny int 0..127
	markerTinyIntMin = 0xF0 // F0..FF: negative tiny int -16..-1

	markerTinyString = 0x80 // 80..8F
	markerTinyList   = 0x90 // 90..9F
	markerTinyDict   = 0xA0 // A0..AF
	markerTinyStruct = 0xB0 // B0..BF

	markerNull    = 0xC0
	markerFloat64 = 0xC1
	markerFalse   = 0xC2
	markerTrue    = 0xC3

	markerInt8  = 0xC8
	markerInt16 = 0xC9
	markerInt32 = 0xCA
	markerInt64 = 0xCB

	markerBytes8  = 0xCC
	markerBytes16 = 0xCD
	markerBytes32 = 0xCE

	markerString8  = 0xD0
	markerString16 = 0xD1
	markerString32 = 0xD2

	markerList8  = 0xD4
	markerList16 = 0xD5
	markerList32 = 0xD6

	markerDict8  = 0xD8
	markerDict16 = 0xD9
	markerDict32 = 0xDA
)

// MaxChunkSize is the largest payload a single chunk may carry (u16 length
// prefix).
const MaxChunkSize = 0xFFFF
