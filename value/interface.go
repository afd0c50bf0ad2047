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

// Package value implements the tagged-union Value type carried over the
// wire by the packstream codec: Null, Boolean, Integer, Float, String,
// Bytes, List, Dictionary and Structure. A Value owns its children; setting
// it to a new variant discards whatever the previous variant held.
package value

// Kind identifies which variant of a Value is currently valid. The zero
// value is Null.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindBytes
	KindList
	KindDictionary
	KindStructure
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindBytes:
		return "Bytes"
	case KindList:
		return "List"
	case KindDictionary:
		return "Dictionary"
	case KindStructure:
		return "Structure"
	default:
		return "Unknown"
	}
}

// Pair is one entry of a Dictionary. Order of Pairs is the insertion order;
// duplicate keys are allowed, but GetKeyIndex/ByKey resolve to the first
// match.
type Pair struct {
	Key string
	Val *Value
}
