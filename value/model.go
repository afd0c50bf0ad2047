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

package value

// Value is a tagged union. Only the field matching Kind is meaningful; the
// others are zero. Go's garbage collector owns reclamation, so there is no
// explicit free — SetNull and the other setters simply drop references to the
// previous payload, same effect as the C driver's _recycle.
type Value struct {
	kind Kind

	boolVal bool
	intVal  int64
	fltVal  float64
	strVal  string
	bufVal  []byte
	lstVal  []*Value
	dctVal  []Pair

	sig  byte
	flds []*Value // Structure fields
}

// New returns a Null Value.
func New() *Value {
	return &Value{kind: KindNull}
}

func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

func (v *Value) IsNull() bool { return v.Kind() == KindNull }

// Size returns element count for List/Dictionary/Structure/Bytes,
// byte-length for String, 1 for scalars, 0 for Null.
func (v *Value) Size() int {
	switch v.Kind() {
	case KindNull:
		return 0
	case KindString:
		return len(v.strVal)
	case KindBytes:
		return len(v.bufVal)
	case KindList:
		return len(v.lstVal)
	case KindDictionary:
		return len(v.dctVal)
	case KindStructure:
		return len(v.flds)
	default:
		return 1
	}
}

func (v *Value) reset(k Kind) {
	v.kind = k
	v.boolVal = false
	v.intVal = 0
	v.fltVal = 0
	v.strVal = ""
	v.bufVal = nil
	v.lstVal = nil
	v.dctVal = nil
	v.sig = 0
	v.flds = nil
}

func (v *Value) SetNull() *Value { v.reset(KindNull); return v }

func (v *Value) SetBoolean(b bool) *Value {
	v.reset(KindBoolean)
	v.boolVal = b
	return v
}

func (v *Value) SetInteger(i int64) *Value {
	v.reset(KindInteger)
	v.intVal = i
	return v
}

func (v *Value) SetFloat(f float64) *Value {
	v.reset(KindFloat)
	v.fltVal = f
	return v
}

func (v *Value) SetString(s string) *Value {
	v.reset(KindString)
	v.strVal = s
	return v
}

func (v *Value) SetBytes(b []byte) *Value {
	v.reset(KindBytes)
	v.bufVal = b
	return v
}

func (v *Value) SetList(items []*Value) *Value {
	v.reset(KindList)
	v.lstVal = items
	return v
}

func (v *Value) SetDictionary(pairs []Pair) *Value {
	v.reset(KindDictionary)
	v.dctVal = pairs
	return v
}

func (v *Value) SetStructure(sig byte, fields []*Value) *Value {
	v.reset(KindStructure)
	v.sig = sig
	v.flds = fields
	return v
}

func (v *Value) Boolean() bool       { return v.boolVal }
func (v *Value) Integer() int64      { return v.intVal }
func (v *Value) Float() float64      { return v.fltVal }
func (v *Value) String() string      { return v.Render() }
func (v *Value) RawString() string   { return v.strVal }
func (v *Value) Bytes() []byte       { return v.bufVal }
func (v *Value) List() []*Value      { return v.lstVal }
func (v *Value) Dictionary() []Pair  { return v.dctVal }
func (v *Value) Signature() byte     { return v.sig }
func (v *Value) Fields() []*Value    { return v.flds }

// ResizeList truncates or extends the List in place. New elements are Null.
func (v *Value) ResizeList(n int) *Value {
	if v.Kind() != KindList {
		v.reset(KindList)
	}
	if n <= len(v.lstVal) {
		v.lstVal = v.lstVal[:n]
		return v
	}
	grown := make([]*Value, n)
	copy(grown, v.lstVal)
	for i := len(v.lstVal); i < n; i++ {
		grown[i] = New()
	}
	v.lstVal = grown
	return v
}

// GetKeyIndex returns the index of the first Pair whose key matches at or
// after fromIndex, or -1.
func (v *Value) GetKeyIndex(key string, fromIndex int) int {
	if v.Kind() != KindDictionary {
		return -1
	}
	for i := fromIndex; i < len(v.dctVal); i++ {
		if v.dctVal[i].Key == key {
			return i
		}
	}
	return -1
}

// ByKey returns the first matching value for key, or nil.
func (v *Value) ByKey(key string) *Value {
	idx := v.GetKeyIndex(key, 0)
	if idx < 0 {
		return nil
	}
	return v.dctVal[idx].Val
}

// Copy performs a cycle-free deep copy.
func (v *Value) Copy() *Value {
	if v == nil {
		return nil
	}

	c := &Value{kind: v.kind, boolVal: v.boolVal, intVal: v.intVal, fltVal: v.fltVal, strVal: v.strVal, sig: v.sig}

	if v.bufVal != nil {
		c.bufVal = append([]byte(nil), v.bufVal...)
	}
	if v.lstVal != nil {
		c.lstVal = make([]*Value, len(v.lstVal))
		for i, e := range v.lstVal {
			c.lstVal[i] = e.Copy()
		}
	}
	if v.dctVal != nil {
		c.dctVal = make([]Pair, len(v.dctVal))
		for i, p := range v.dctVal {
			c.dctVal[i] = Pair{Key: p.Key, Val: p.Val.Copy()}
		}
	}
	if v.flds != nil {
		c.flds = make([]*Value, len(v.flds))
		for i, f := range v.flds {
			c.flds[i] = f.Copy()
		}
	}

	return c
}

// Equal performs a recursive structural comparison.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNull:
		return true
	case KindBoolean:
		return a.boolVal == b.boolVal
	case KindInteger:
		return a.intVal == b.intVal
	case KindFloat:
		return a.fltVal == b.fltVal
	case KindString:
		return a.strVal == b.strVal
	case KindBytes:
		if len(a.bufVal) != len(b.bufVal) {
			return false
		}
		for i := range a.bufVal {
			if a.bufVal[i] != b.bufVal[i] {
				return false
			}
		}
		return true
	case KindList:
		if len(a.lstVal) != len(b.lstVal) {
			return false
		}
		for i := range a.lstVal {
			if !Equal(a.lstVal[i], b.lstVal[i]) {
				return false
			}
		}
		return true
	case KindDictionary:
		if len(a.dctVal) != len(b.dctVal) {
			return false
		}
		for i := range a.dctVal {
			if a.dctVal[i].Key != b.dctVal[i].Key || !Equal(a.dctVal[i].Val, b.dctVal[i].Val) {
				return false
			}
		}
		return true
	case KindStructure:
		if a.sig != b.sig || len(a.flds) != len(b.flds) {
			return false
		}
		for i := range a.flds {
			if !Equal(a.flds[i], b.flds[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
