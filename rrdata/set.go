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

// Package rrdata implements the rerecord data set: a counted,
// deduplicating set of fixed-size tokens (one 64-bit token minted per
// rerecord event) whose on-disk encoding run-length-compresses the long
// contiguous runs a monotonically-assigned counter naturally produces.
// The count doubles as the movie's rerecord counter: unbounded growth,
// bounded storage.
package rrdata

import "sort"

// Set is a deduplicating set of rerecord tokens.
type Set struct {
	tokens map[uint64]struct{}
}

// New returns an empty set.
func New() *Set { return &Set{tokens: make(map[uint64]struct{})} }

// Add inserts token, a no-op if it's already present.
func (s *Set) Add(token uint64) { s.tokens[token] = struct{}{} }

// Has reports whether token is in the set.
func (s *Set) Has(token uint64) bool {
	_, ok := s.tokens[token]
	return ok
}

// Count returns the number of distinct tokens in the set.
func (s *Set) Count() int { return len(s.tokens) }

// sorted returns the set's tokens in ascending order, the form the wire
// encoding's run-length grouping needs.
func (s *Set) sorted() []uint64 {
	out := make([]uint64, 0, len(s.tokens))
	for t := range s.tokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// runs groups a sorted token slice into maximal contiguous (t, t+1,
// t+2, …) ranges.
func runs(sorted []uint64) [][2]uint64 {
	var out [][2]uint64
	i := 0
	for i < len(sorted) {
		start := sorted[i]
		end := start
		j := i + 1
		for j < len(sorted) && sorted[j] == end+1 {
			end = sorted[j]
			j++
		}
		out = append(out, [2]uint64{start, end})
		i = j
	}
	return out
}
