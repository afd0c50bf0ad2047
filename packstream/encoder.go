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
	"github.com/nabbar/bolt/buffer"
	liberr "github.com/nabbar/bolt/errors"
	"github.com/nabbar/bolt/value"
)

// Encoder writes Values to a Buffer using the canonical shortest-form
// marker encoding: tiny forms are always preferred over fixed-width ones
// when the value fits.
type Encoder struct {
	buf *buffer.Buffer
}

func NewEncoder(buf *buffer.Buffer) *Encoder {
	return &Encoder{buf: buf}
}

func (e *Encoder) Encode(v *value.Value) liberr.Error {
	switch v.Kind() {
	case value.KindNull:
		e.buf.LoadU8(markerNull)
	case value.KindBoolean:
		if v.Boolean() {
			e.buf.LoadU8(markerTrue)
		} else {
			e.buf.LoadU8(markerFalse)
		}
	case value.KindInteger:
		e.encodeInteger(v.Integer())
	case value.KindFloat:
		e.buf.LoadU8(markerFloat64)
		e.buf.LoadF64(v.Float())
	case value.KindString:
		e.encodeStringHeader(len(v.RawString()))
		e.buf.Load([]byte(v.RawString()))
	case value.KindBytes:
		e.encodeBytesHeader(len(v.Bytes()))
		e.buf.Load(v.Bytes())
	case value.KindList:
		items := v.List()
		e.encodeListHeader(len(items))
		for _, item := range items {
			if err := e.Encode(item); err != nil {
				return err
			}
		}
	case value.KindDictionary:
		pairs := v.Dictionary()
		e.encodeDictHeader(len(pairs))
		for _, p := range pairs {
			e.encodeStringHeader(len(p.Key))
			e.buf.Load([]byte(p.Key))
			if err := e.Encode(p.Val); err != nil {
				return err
			}
		}
	case value.KindStructure:
		fields := v.Fields()
		e.buf.LoadU8(byte(markerTinyStruct | (len(fields) & 0x0F)))
		e.buf.LoadU8(v.Signature())
		for _, f := range fields {
			if err := e.Encode(f); err != nil {
				return err
			}
		}
	default:
		return liberr.New(liberr.CodeProtocolUnsupportedEncode, "unsupported value kind for encode")
	}
	return nil
}

func (e *Encoder) encodeInteger(i int64) {
	switch {
	case i >= -16 && i <= 127:
		e.buf.LoadI8(int8(i))
	case i >= -128 && i <= 127:
		e.buf.LoadU8(markerInt8)
		e.buf.LoadI8(int8(i))
	case i >= -32768 && i <= 32767:
		e.buf.LoadU8(markerInt16)
		e.buf.LoadI16(int16(i))
	case i >= -2147483648 && i <= 2147483647:
		e.buf.LoadU8(markerInt32)
		e.buf.LoadI32(int32(i))
	default:
		e.buf.LoadU8(markerInt64)
		e.buf.LoadI64(i)
	}
}

func (e *Encoder) encodeStringHeader(n int) {
	switch {
	case n <= 15:
		e.buf.LoadU8(byte(markerTinyString | n))
	case n <= 0xFF:
		e.buf.LoadU8(markerString8)
		e.buf.LoadU8(uint8(n))
	case n <= 0xFFFF:
		e.buf.LoadU8(markerString16)
		e.buf.LoadU16(uint16(n))
	default:
		e.buf.LoadU8(markerString32)
		e.buf.LoadI32(int32(n))
	}
}

func (e *Encoder) encodeBytesHeader(n int) {
	switch {
	case n <= 0xFF:
		e.buf.LoadU8(markerBytes8)
		e.buf.LoadU8(uint8(n))
	case n <= 0xFFFF:
		e.buf.LoadU8(markerBytes16)
		e.buf.LoadU16(uint16(n))
	default:
		e.buf.LoadU8(markerBytes32)
		e.buf.LoadI32(int32(n))
	}
}

func (e *Encoder) encodeListHeader(n int) {
	switch {
	case n <= 15:
		e.buf.LoadU8(byte(markerTinyList | n))
	case n <= 0xFF:
		e.buf.LoadU8(markerList8)
		e.buf.LoadU8(uint8(n))
	case n <= 0xFFFF:
		e.buf.LoadU8(markerList16)
		e.buf.LoadU16(uint16(n))
	default:
		e.buf.LoadU8(markerList32)
		e.buf.LoadI32(int32(n))
	}
}

func (e *Encoder) encodeDictHeader(n int) {
	switch {
	case n <= 15:
		e.buf.LoadU8(byte(markerTinyDict | n))
	case n <= 0xFF:
		e.buf.LoadU8(markerDict8)
		e.buf.LoadU8(uint8(n))
	case n <= 0xFFFF:
		e.buf.LoadU8(markerDict16)
		e.buf.LoadU16(uint16(n))
	default:
		e.buf.LoadU8(markerDict32)
		e.buf.LoadI32(int32(n))
	}
}
