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

// Package memsearch implements the incremental "cheat search" filter
// engine: a candidate bitmap over a memspace.Space's linear map,
// whittled down generation by generation by typed predicates. The
// bitmap is a []uint64 with an all-zero fast skip; memspace.Space.Read
// is the refill path, since memspace doesn't distinguish a direct
// pointer from an MMIO path at this layer. That distinction lives
// inside memspace.Region.
package memsearch

import (
	"math"

	"github.com/lsnes-go/core/memspace"
)

// Search holds one memory-search session's candidate state.
type Search struct {
	space    *memspace.Space
	kind     memspace.Kind
	linSize  uint64
	previous []uint64 // one raw value per linear address, indexed [0,linSize)
	stillIn  []uint64 // bitmap, 64 addresses per word
	count    uint64
}

func wordIndex(addr uint64) (word int, bit uint) {
	return int(addr / 64), uint(addr % 64)
}

// New starts a fresh search of the given typed width over space's entire
// linear map: every address is initially a candidate.
func New(space *memspace.Space, kind memspace.Kind) *Search {
	s := &Search{space: space, kind: kind, linSize: space.LinearSize()}
	s.stillIn = make([]uint64, (s.linSize+63)/64)
	for i := range s.stillIn {
		s.stillIn[i] = ^uint64(0)
	}
	s.count = s.linSize
	s.previous = make([]uint64, s.linSize)
	s.clearTrailingBits()
	s.snapshot(func(uint64) bool { return true })
	return s
}

// clearTrailingBits zeroes the bits of the last bitmap word beyond
// linSize, so popcount/enumeration never treats padding bits as live.
func (s *Search) clearTrailingBits() {
	if len(s.stillIn) == 0 || s.linSize%64 == 0 {
		return
	}
	last := len(s.stillIn) - 1
	valid := s.linSize % 64
	mask := (uint64(1) << valid) - 1
	s.stillIn[last] &= mask
}

func popcount(v uint64) uint64 {
	var n uint64
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}

// linearToGlobal converts a linear address to the global address
// covering it, since memspace.Space.Read is global-addressed.
func linearToGlobal(space *memspace.Space, lin uint64) (uint64, bool) {
	r, off, ok := space.LookupLinear(lin)
	if !ok {
		return 0, false
	}
	return r.Base + off, true
}

func (s *Search) rawAt(addr uint64) (uint64, bool) {
	global, ok := linearToGlobal(s.space, addr)
	if !ok {
		return 0, false
	}
	v, err := s.space.Read(global, s.kind)
	if err != nil {
		return 0, false
	}
	return rawBits(v), true
}

// rawBits reinterprets a memspace.Read result as a comparable unsigned
// bit pattern (two's complement / IEEE bits), so predicates can compare
// with plain integer arithmetic regardless of the search's typed width.
func rawBits(v any) uint64 {
	switch x := v.(type) {
	case uint8:
		return uint64(x)
	case int8:
		return uint64(uint8(x))
	case uint16:
		return uint64(x)
	case int16:
		return uint64(uint16(x))
	case uint32:
		return uint64(x)
	case int32:
		return uint64(uint32(x))
	case int64:
		return uint64(x)
	case uint64:
		return x
	case float32:
		return uint64(math.Float32bits(x))
	case float64:
		return math.Float64bits(x)
	}
	return 0
}

// forEachCandidate calls fn(addr) for every address still marked a
// candidate, skipping fully-eliminated 64-bit words outright.
func (s *Search) forEachCandidate(fn func(addr uint64)) {
	for w, word := range s.stillIn {
		if word == 0 {
			continue
		}
		base := uint64(w) * 64
		for word != 0 {
			bit := trailingZeros(word)
			fn(base + uint64(bit))
			word &^= uint64(1) << bit
		}
	}
}

func trailingZeros(v uint64) uint {
	var n uint
	for v&1 == 0 {
		v >>= 1
		n++
	}
	return n
}

func (s *Search) clear(addr uint64) {
	w, b := wordIndex(addr)
	mask := uint64(1) << b
	if s.stillIn[w]&mask != 0 {
		s.stillIn[w] &^= mask
		s.count--
	}
}

// snapshot refreshes previous_content for every current candidate that
// keep satisfies, reading through the covering region.
func (s *Search) snapshot(keep func(addr uint64) bool) {
	s.forEachCandidate(func(addr uint64) {
		if !keep(addr) {
			return
		}
		raw, ok := s.rawAt(addr)
		if !ok {
			return
		}
		s.previous[addr] = raw
	})
}

// Update keeps every candidate unconditionally but refreshes
// previous_content from the current memory state.
func (s *Search) Update() {
	s.snapshot(func(uint64) bool { return true })
}

// GetCandidateCount returns how many addresses remain candidates.
func (s *Search) GetCandidateCount() uint64 { return s.count }

// IsCandidate reports whether lin is still a candidate.
func (s *Search) IsCandidate(lin uint64) bool {
	if lin >= s.linSize {
		return false
	}
	w, b := wordIndex(lin)
	return s.stillIn[w]&(uint64(1)<<b) != 0
}

// GetCandidates enumerates every remaining candidate's linear address.
func (s *Search) GetCandidates() []uint64 {
	var out []uint64
	s.forEachCandidate(func(addr uint64) { out = append(out, addr) })
	return out
}

// CycleCandidateVMA returns the next (forward=true) or previous
// candidate address relative to addr, wrapping within the region that
// covers addr. Returns ok=false if addr is outside the linear map or
// its region holds no candidates.
func (s *Search) CycleCandidateVMA(addr uint64, forward bool) (uint64, bool) {
	if s.count == 0 || addr >= s.linSize {
		return 0, false
	}
	region, offset, ok := s.space.LookupLinear(addr)
	if !ok {
		return 0, false
	}
	base := addr - offset
	n := region.Size
	step := func(a uint64) uint64 {
		off := a - base
		if forward {
			off = (off + 1) % n
		} else {
			off = (off + n - 1) % n
		}
		return base + off
	}
	a := step(addr)
	for i := uint64(0); i < n; i++ {
		if s.IsCandidate(a) {
			return a, true
		}
		a = step(a)
	}
	return 0, false
}
