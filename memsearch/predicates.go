// This file is part of lsnes-go.
//
// lsnes-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// lsnes-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with lsnes-go.  If not, see <https://www.gnu.org/licenses/>.

package memsearch

import (
	"math"

	"github.com/lsnes-go/core/memspace"
)

func bitWidth(k memspace.Kind) uint {
	switch k {
	case memspace.U8, memspace.I8:
		return 8
	case memspace.U16, memspace.I16:
		return 16
	case memspace.U24, memspace.I24:
		return 24
	case memspace.U32, memspace.I32, memspace.F32:
		return 32
	default:
		return 64
	}
}

func isSigned(k memspace.Kind) bool {
	switch k {
	case memspace.I8, memspace.I16, memspace.I24, memspace.I32, memspace.I64:
		return true
	}
	return false
}

func isFloat(k memspace.Kind) bool {
	return k == memspace.F32 || k == memspace.F64
}

// compare returns -1, 0, or 1 for a versus b, interpreting both
// according to k's signedness/floatness.
func compare(k memspace.Kind, a, b uint64) int {
	switch {
	case isFloat(k):
		var fa, fb float64
		if k == memspace.F32 {
			fa, fb = float64(math.Float32frombits(uint32(a))), float64(math.Float32frombits(uint32(b)))
		} else {
			fa, fb = math.Float64frombits(a), math.Float64frombits(b)
		}
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	case isSigned(k):
		sa, sb := signExtend(a, bitWidth(k)), signExtend(b, bitWidth(k))
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		default:
			return 0
		}
	default:
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

func signExtend(raw uint64, bits uint) int64 {
	shift := 64 - bits
	return int64(raw<<shift) >> shift
}

func mask(bits uint) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

// filter removes every candidate for which keep(previous, current)
// returns false, then refreshes previous_content for the survivors.
func (s *Search) filter(keep func(previous, current uint64) bool) {
	s.forEachCandidate(func(addr uint64) {
		raw, ok := s.rawAt(addr)
		if !ok {
			s.clear(addr)
			return
		}
		if !keep(s.previous[addr], raw) {
			s.clear(addr)
			return
		}
	})
	s.snapshot(func(uint64) bool { return true })
}

// Value keeps candidates whose current value equals v.
func (s *Search) Value(v uint64) {
	s.filter(func(_, cur uint64) bool { return cur == v })
}

// NotEqual keeps candidates whose current value differs from v.
func (s *Search) NotEqual(v uint64) {
	s.filter(func(_, cur uint64) bool { return cur != v })
}

// Less keeps candidates whose current value is less than their previous
// snapshot.
func (s *Search) Less() {
	s.filter(func(prev, cur uint64) bool { return compare(s.kind, cur, prev) < 0 })
}

// LessEqual keeps candidates whose current value is <= their previous
// snapshot.
func (s *Search) LessEqual() {
	s.filter(func(prev, cur uint64) bool { return compare(s.kind, cur, prev) <= 0 })
}

// Equal keeps candidates whose current value equals their previous
// snapshot.
func (s *Search) Equal() {
	s.filter(func(prev, cur uint64) bool { return compare(s.kind, cur, prev) == 0 })
}

// Unequal keeps candidates whose current value differs from their
// previous snapshot.
func (s *Search) Unequal() {
	s.filter(func(prev, cur uint64) bool { return compare(s.kind, cur, prev) != 0 })
}

// GreaterEqual keeps candidates whose current value is >= their
// previous snapshot.
func (s *Search) GreaterEqual() {
	s.filter(func(prev, cur uint64) bool { return compare(s.kind, cur, prev) >= 0 })
}

// Greater keeps candidates whose current value is > their previous
// snapshot.
func (s *Search) Greater() {
	s.filter(func(prev, cur uint64) bool { return compare(s.kind, cur, prev) > 0 })
}

// seqSign classifies new-old as if it were a signed counter that may
// have wrapped: it returns -1 if the top bit of (new-old) is set
// (interpreted as a negative step), 1 if clear and nonzero, 0 if the
// values are equal.
func (s *Search) seqSign(prev, cur uint64) int {
	bits := bitWidth(s.kind)
	diff := (cur - prev) & mask(bits)
	if diff == 0 {
		return 0
	}
	if diff&(uint64(1)<<(bits-1)) != 0 {
		return -1
	}
	return 1
}

// SeqLess keeps candidates whose signed wraparound step (new-old) is
// negative.
func (s *Search) SeqLess() { s.filter(func(prev, cur uint64) bool { return s.seqSign(prev, cur) < 0 }) }

// SeqLessEqual keeps candidates whose signed wraparound step is
// negative or zero.
func (s *Search) SeqLessEqual() {
	s.filter(func(prev, cur uint64) bool { return s.seqSign(prev, cur) <= 0 })
}

// SeqGreaterEqual keeps candidates whose signed wraparound step is
// positive or zero.
func (s *Search) SeqGreaterEqual() {
	s.filter(func(prev, cur uint64) bool { return s.seqSign(prev, cur) >= 0 })
}

// SeqGreater keeps candidates whose signed wraparound step is positive.
func (s *Search) SeqGreater() {
	s.filter(func(prev, cur uint64) bool { return s.seqSign(prev, cur) > 0 })
}

// Difference keeps candidates where (current - previous) == d, modulo
// the type's width.
func (s *Search) Difference(d uint64) {
	bits := bitWidth(s.kind)
	d &= mask(bits)
	s.filter(func(prev, cur uint64) bool { return (cur-prev)&mask(bits) == d })
}
