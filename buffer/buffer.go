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

// Package buffer implements the growable byte ring shared by the packstream
// codec and the connection's rx/tx staging: a write cursor (extent) and a
// read cursor (cursor), cursor <= extent <= capacity. All multi-byte
// primitive helpers are big-endian, matching the wire format.
package buffer

import (
	"encoding/binary"
	"math"

	liberr "github.com/nabbar/bolt/errors"
)

const defaultCapacity = 744 // matches the teacher's default chunk-sized staging buffer

// Buffer is a growable byte ring. Zero value is not usable; use New.
type Buffer struct {
	data   []byte
	cursor int
	extent int
}

// New returns an empty Buffer with the given initial capacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Buffer{data: make([]byte, capacity)}
}

// NewFrom wraps existing bytes as a fully-loaded, unread Buffer.
func NewFrom(b []byte) *Buffer {
	return &Buffer{data: b, extent: len(b)}
}

func (b *Buffer) Capacity() int { return len(b.data) }

// Loadable returns the number of bytes that can be written without growing.
func (b *Buffer) Loadable() int { return len(b.data) - b.extent }

// Unloadable returns the number of bytes available to read.
func (b *Buffer) Unloadable() int { return b.extent - b.cursor }

func (b *Buffer) Reset() {
	b.cursor = 0
	b.extent = 0
}

// Compact moves [cursor..extent) to [0..extent-cursor) when cursor exceeds
// half of extent. It never grows capacity and is safe to call at any time.
func (b *Buffer) Compact() {
	if b.cursor == 0 || b.cursor <= b.extent/2 {
		return
	}
	n := copy(b.data, b.data[b.cursor:b.extent])
	b.extent = n
	b.cursor = 0
}

func (b *Buffer) grow(min int) {
	if b.Loadable() >= min {
		return
	}
	need := b.extent + min
	cap2 := len(b.data) * 2
	if cap2 < need {
		cap2 = need
	}
	grown := make([]byte, cap2)
	copy(grown, b.data[:b.extent])
	b.data = grown
}

// LoadPointer reserves size bytes for writing, growing if needed, and
// returns a span into the buffer's backing array.
func (b *Buffer) LoadPointer(size int) []byte {
	b.grow(size)
	span := b.data[b.extent : b.extent+size]
	b.extent += size
	return span
}

// UnloadPointer reads size bytes, returning an error on underflow.
func (b *Buffer) UnloadPointer(size int) ([]byte, liberr.Error) {
	if b.Unloadable() < size {
		return nil, liberr.New(liberr.CodeBufferUnderflow, "buffer underflow")
	}
	span := b.data[b.cursor : b.cursor+size]
	b.cursor += size
	return span, nil
}

func (b *Buffer) Load(p []byte) {
	copy(b.LoadPointer(len(p)), p)
}

func (b *Buffer) LoadU8(v uint8) { b.LoadPointer(1)[0] = v }
func (b *Buffer) LoadI8(v int8)  { b.LoadU8(uint8(v)) }

func (b *Buffer) LoadU16(v uint16) {
	binary.BigEndian.PutUint16(b.LoadPointer(2), v)
}

func (b *Buffer) LoadI16(v int16) { b.LoadU16(uint16(v)) }

func (b *Buffer) LoadI32(v int32) {
	binary.BigEndian.PutUint32(b.LoadPointer(4), uint32(v))
}

func (b *Buffer) LoadI64(v int64) {
	binary.BigEndian.PutUint64(b.LoadPointer(8), uint64(v))
}

func (b *Buffer) LoadF64(v float64) {
	binary.BigEndian.PutUint64(b.LoadPointer(8), math.Float64bits(v))
}

func (b *Buffer) UnloadU8() (uint8, liberr.Error) {
	p, err := b.UnloadPointer(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (b *Buffer) UnloadI8() (int8, liberr.Error) {
	v, err := b.UnloadU8()
	return int8(v), err
}

func (b *Buffer) UnloadU16() (uint16, liberr.Error) {
	p, err := b.UnloadPointer(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

func (b *Buffer) UnloadI16() (int16, liberr.Error) {
	v, err := b.UnloadU16()
	return int16(v), err
}

func (b *Buffer) UnloadI32() (int32, liberr.Error) {
	p, err := b.UnloadPointer(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(p)), nil
}

func (b *Buffer) UnloadI64() (int64, liberr.Error) {
	p, err := b.UnloadPointer(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(p)), nil
}

func (b *Buffer) UnloadF64() (float64, liberr.Error) {
	p, err := b.UnloadPointer(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(p)), nil
}

// Bytes returns the unread portion [cursor:extent).
func (b *Buffer) Bytes() []byte { return b.data[b.cursor:b.extent] }
