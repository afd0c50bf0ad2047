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

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// StructureNamer resolves a Structure signature byte to a printable name,
// e.g. 'N' -> "Node". Render falls back to "Struct[sig]" when nil or the
// signature is unknown.
type StructureNamer func(sig byte) (string, bool)

// Render writes the printable ASCII form described by the wire spec: quoted
// strings with \uXXXX / \UXXXXXXXX escapes for non-printable code points,
// lists as [a, b, c], dicts as {k: v, ...}, bytes as #HH HH ..., structures
// by name when namer resolves the signature.
func (v *Value) Render() string {
	return v.render(nil)
}

// RenderNamed is Render with a structure-signature resolver, used by the
// protocol packages which know the active version's signature table.
func (v *Value) RenderNamed(namer StructureNamer) string {
	return v.render(namer)
}

func (v *Value) render(namer StructureNamer) string {
	if v == nil {
		return "null"
	}

	switch v.kind {
	case KindNull:
		return "null"
	case KindBoolean:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindInteger:
		return strconv.FormatInt(v.intVal, 10)
	case KindFloat:
		return strconv.FormatFloat(v.fltVal, 'g', -1, 64)
	case KindString:
		return quoteString(v.strVal)
	case KindBytes:
		return renderBytes(v.bufVal)
	case KindList:
		parts := make([]string, len(v.lstVal))
		for i, e := range v.lstVal {
			parts[i] = e.render(namer)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindDictionary:
		parts := make([]string, len(v.dctVal))
		for i, p := range v.dctVal {
			parts[i] = quoteString(p.Key) + ": " + p.Val.render(namer)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindStructure:
		name := fmt.Sprintf("Struct[%02X]", v.sig)
		if namer != nil {
			if n, ok := namer(v.sig); ok {
				name = n
			}
		}
		parts := make([]string, len(v.flds))
		for i, f := range v.flds {
			parts[i] = f.render(namer)
		}
		return name + "(" + strings.Join(parts, ", ") + ")"
	default:
		return "?"
	}
}

func renderBytes(b []byte) string {
	if len(b) == 0 {
		return "#"
	}
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02X", c)
	}
	return "#" + strings.Join(parts, " ")
}

// quoteString reproduces the seabolt dump quoting rules: printable ASCII
// passes through, everything else is escaped as \uXXXX (or \UXXXXXXXX for
// code points above 0xFFFF), and the quote/backslash characters are
// backslash-escaped.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')

	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r >= 0x20 && r < 0x7F:
			b.WriteRune(r)
		case r > 0xFFFF:
			fmt.Fprintf(&b, "\\U%08X", r)
		case r == utf8.RuneError:
			b.WriteString("\\uFFFD")
		default:
			fmt.Fprintf(&b, "\\u%04X", r)
		}
	}

	b.WriteByte('"')
	return b.String()
}
