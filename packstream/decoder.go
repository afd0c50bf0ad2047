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

// SignatureAllowed is consulted for every Structure marker encountered;
// unknown signatures are a protocol violation. The protocol package
// supplies the per-version allow-list (v1 message/structure set, v2 adds
// temporal/spatial signatures).
type SignatureAllowed func(sig byte) bool

// Decoder reads Values from a Buffer. Decoding accepts any valid marker
// representation (not just the canonical shortest form the Encoder emits).
type Decoder struct {
	buf     *buffer.Buffer
	allowed SignatureAllowed
}

func NewDecoder(buf *buffer.Buffer, allowed SignatureAllowed) *Decoder {
	return &Decoder{buf: buf, allowed: allowed}
}

func (d *Decoder) Decode() (*value.Value, liberr.Error) {
	marker, err := d.buf.UnloadU8()
	if err != nil {
		return nil, err
	}
	return d.decodeMarker(marker)
}

func (d *Decoder) decodeMarker(marker uint8) (*value.Value, liberr.Error) {
	switch {
	case marker <= markerTinyIntMax:
		return value.New().SetInteger(int64(int8(marker))), nil
	case marker >= markerTinyIntMin:
		return value.New().SetInteger(int64(int8(marker))), nil
	case marker&0xF0 == markerTinyString:
		return d.decodeString(int(marker & 0x0F))
	case marker&0xF0 == markerTinyList:
		return d.decodeList(int(marker & 0x0F))
	case marker&0xF0 == markerTinyDict:
		return d.decodeDict(int(marker & 0x0F))
	case marker&0xF0 == markerTinyStruct:
		return d.decodeStructure(int(marker & 0x0F))
	}

	switch marker {
	case markerNull:
		return value.New(), nil
	case markerFloat64:
		f, e := d.buf.UnloadF64()
		if e != nil {
			return nil, e
		}
		return value.New().SetFloat(f), nil
	case markerFalse:
		return value.New().SetBoolean(false), nil
	case markerTrue:
		return value.New().SetBoolean(true), nil
	case markerInt8:
		i, e := d.buf.UnloadI8()
		if e != nil {
			return nil, e
		}
		return value.New().SetInteger(int64(i)), nil
	case markerInt16:
		i, e := d.buf.UnloadI16()
		if e != nil {
			return nil, e
		}
		return value.New().SetInteger(int64(i)), nil
	case markerInt32:
		i, e := d.buf.UnloadI32()
		if e != nil {
			return nil, e
		}
		return value.New().SetInteger(int64(i)), nil
	case markerInt64:
		i, e := d.buf.UnloadI64()
		if e != nil {
			return nil, e
		}
		return value.New().SetInteger(i), nil
	case markerBytes8, markerBytes16, markerBytes32:
		n, e := d.decodeLength(marker, markerBytes8, markerBytes16)
		if e != nil {
			return nil, e
		}
		b, e := d.buf.UnloadPointer(n)
		if e != nil {
			return nil, e
		}
		return value.New().SetBytes(append([]byte(nil), b...)), nil
	case markerString8, markerString16, markerString32:
		n, e := d.decodeLength(marker, markerString8, markerString16)
		if e != nil {
			return nil, e
		}
		return d.decodeString(n)
	case markerList8, markerList16, markerList32:
		n, e := d.decodeLength(marker, markerList8, markerList16)
		if e != nil {
			return nil, e
		}
		return d.decodeList(n)
	case markerDict8, markerDict16, markerDict32:
		n, e := d.decodeLength(marker, markerDict8, markerDict16)
		if e != nil {
			return nil, e
		}
		return d.decodeDict(n)
	}

	return nil, liberr.New(liberr.CodeProtocolUnexpectedMarker, "unexpected marker byte")
}

func (d *Decoder) decodeLength(marker, m8, m16 uint8) (int, liberr.Error) {
	switch marker {
	case m8:
		v, e := d.buf.UnloadU8()
		return int(v), e
	case m16:
		v, e := d.buf.UnloadU16()
		return int(v), e
	default:
		v, e := d.buf.UnloadI32()
		return int(v), e
	}
}

func (d *Decoder) decodeString(n int) (*value.Value, liberr.Error) {
	b, e := d.buf.UnloadPointer(n)
	if e != nil {
		return nil, e
	}
	return value.New().SetString(string(b)), nil
}

func (d *Decoder) decodeList(n int) (*value.Value, liberr.Error) {
	items := make([]*value.Value, n)
	for i := 0; i < n; i++ {
		v, e := d.Decode()
		if e != nil {
			return nil, e
		}
		items[i] = v
	}
	return value.New().SetList(items), nil
}

func (d *Decoder) decodeDict(n int) (*value.Value, liberr.Error) {
	pairs := make([]value.Pair, n)
	for i := 0; i < n; i++ {
		key, e := d.Decode()
		if e != nil {
			return nil, e
		}
		val, e := d.Decode()
		if e != nil {
			return nil, e
		}
		pairs[i] = value.Pair{Key: key.RawString(), Val: val}
	}
	return value.New().SetDictionary(pairs), nil
}

func (d *Decoder) decodeStructure(n int) (*value.Value, liberr.Error) {
	sig, e := d.buf.UnloadU8()
	if e != nil {
		return nil, e
	}
	if d.allowed != nil && !d.allowed(sig) {
		return nil, liberr.Newf(liberr.CodeProtocolUnexpectedMarker, "unknown structure signature 0x%02X", sig)
	}

	fields := make([]*value.Value, n)
	for i := 0; i < n; i++ {
		v, err := d.Decode()
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	return value.New().SetStructure(sig, fields), nil
}
