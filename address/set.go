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

package address

// Set is an insertion-ordered set of Addresses, membership by host+port.
type Set struct {
	items []*Address
}

func NewSet(addrs ...*Address) *Set {
	s := &Set{}
	s.AddAll(addrs)
	return s
}

func (s *Set) Size() int { return len(s.items) }

func (s *Set) IsEmpty() bool { return len(s.items) == 0 }

func (s *Set) Items() []*Address { return s.items }

func (s *Set) IndexOf(a *Address) int {
	for i, e := range s.items {
		if e.Equal(a) {
			return i
		}
	}
	return -1
}

// Add appends a if not already present, returning its index, or -1 if it
// was already a member.
func (s *Set) Add(a *Address) int {
	if s.IndexOf(a) >= 0 {
		return -1
	}
	s.items = append(s.items, a)
	return len(s.items) - 1
}

// Remove drops the first Address equal to a, returning its previous index,
// or -1 if absent.
func (s *Set) Remove(a *Address) int {
	idx := s.IndexOf(a)
	if idx < 0 {
		return -1
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return idx
}

// Replace wholesale-swaps the set's contents.
func (s *Set) Replace(addrs []*Address) {
	s.items = append([]*Address(nil), addrs...)
}

// AddAll adds every address not already present, preserving order.
func (s *Set) AddAll(addrs []*Address) {
	for _, a := range addrs {
		s.Add(a)
	}
}

// Clone returns a Set with the same Address pointers (AddressSet identity
// is by host+port, not by the Address value, so sharing is safe).
func (s *Set) Clone() *Set {
	c := &Set{items: make([]*Address, len(s.items))}
	copy(c.items, s.items)
	return c
}
