// Package set tracks which memory cells a program touched.
package set

import (
	"math/bits"

	"tlog.app/go/tlog/tlwire"
)

type (
	// Bitmap is a set of cell addresses.
	// It is sized for the address space up front and grows if an address is past it.
	Bitmap struct {
		w []uint64
	}

	// Span is a run of consecutive members [Lo, Hi).
	Span struct {
		Lo, Hi int
	}
)

func MakeBitmap(cells int) Bitmap {
	return Bitmap{w: make([]uint64, (cells+63)/64)}
}

func word(a int) (int, uint64) {
	return a >> 6, 1 << (a & 63)
}

func (s *Bitmap) Set(a int) {
	i, m := word(a)

	if i >= len(s.w) {
		s.w = append(s.w, make([]uint64, i+1-len(s.w))...)
	}

	s.w[i] |= m
}

func (s *Bitmap) Clear(a int) {
	i, m := word(a)

	if i < len(s.w) {
		s.w[i] &^= m
	}
}

func (s *Bitmap) IsSet(a int) bool {
	i, m := word(a)

	return i < len(s.w) && s.w[i]&m != 0
}

// Size is the number of members.
func (s *Bitmap) Size() (n int) {
	for _, x := range s.w {
		n += bits.OnesCount64(x)
	}

	return n
}

func (s *Bitmap) Reset() {
	clear(s.w)
}

// Range calls f for members in ascending order until f returns false.
func (s *Bitmap) Range(f func(a int) bool) {
	for i, x := range s.w {
		for x != 0 {
			j := bits.TrailingZeros64(x)
			x &^= 1 << j

			if !f(i<<6 | j) {
				return
			}
		}
	}
}

func (s *Bitmap) Slice() (r []int) {
	s.Range(func(a int) bool {
		r = append(r, a)
		return true
	})

	return r
}

// Spans groups members into maximal runs of consecutive addresses.
func (s *Bitmap) Spans() (r []Span) {
	s.Range(func(a int) bool {
		if n := len(r); n != 0 && r[n-1].Hi == a {
			r[n-1].Hi++
			return true
		}

		r = append(r, Span{Lo: a, Hi: a + 1})

		return true
	})

	return r
}

// TlogAppend encodes the set as an array of [lo, hi) pairs.
func (s Bitmap) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if s.w == nil {
		return e.AppendNil(b)
	}

	b = e.AppendTag(b, tlwire.Array, -1)

	for _, sp := range s.Spans() {
		b = e.AppendTag(b, tlwire.Array, 2)
		b = e.AppendInt(b, sp.Lo)
		b = e.AppendInt(b, sp.Hi)
	}

	return e.AppendBreak(b)
}

func (sp Span) Len() int { return sp.Hi - sp.Lo }
