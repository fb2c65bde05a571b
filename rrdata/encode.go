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

package rrdata

import (
	"bytes"
	"io"

	"github.com/lsnes-go/core/codec"
	"github.com/lsnes-go/core/coreerr"
)

// Wire form: a sequence of run groups, each two varints. The first is
// the gap from the previous group's last token to this group's first
// token (from zero for the first group, and minus the mandatory +1
// spacing for later groups, so consecutive groups never encode a zero
// gap twice over). The second is the run's length minus one. A rerecord
// counter hands out mostly-consecutive tokens, so a movie with a
// million rerecords usually encodes in a handful of groups.

// Write encodes the set to w.
func (s *Set) Write(w io.Writer) error {
	cw := codec.NewWriter(w)
	var prev uint64
	first := true
	for _, run := range runs(s.sorted()) {
		gap := run[0] - prev
		if !first {
			gap--
		}
		if err := cw.Number(gap); err != nil {
			return coreerr.Categorized(coreerr.IoFailure, "rrdata: write run gap: %v", err)
		}
		if err := cw.Number(run[1] - run[0]); err != nil {
			return coreerr.Categorized(coreerr.IoFailure, "rrdata: write run length: %v", err)
		}
		prev = run[1]
		first = false
	}
	return nil
}

// Bytes encodes the set into a fresh buffer.
func (s *Set) Bytes() []byte {
	var buf bytes.Buffer
	_ = s.Write(&buf)
	return buf.Bytes()
}

// getNumber reads one varint from blob at *pos, in the same seven-bits-
// per-byte form codec.Writer.Number emits.
func getNumber(blob []byte, pos *int) (uint64, error) {
	var v uint64
	var sh uint
	for {
		if *pos >= len(blob) {
			return 0, coreerr.Categorized(coreerr.MalformedInput, coreerr.RRDataDecodeError, "truncated varint")
		}
		b := blob[*pos]
		*pos++
		v |= uint64(b&0x7f) << sh
		sh += 7
		if b&0x80 == 0 {
			return v, nil
		}
	}
}

// decode walks blob's run groups, calling each for every group with its
// inclusive token range, and returns the total token count.
func decode(blob []byte, each func(start, end uint64)) (uint64, error) {
	var total, prev uint64
	pos := 0
	first := true
	for pos < len(blob) {
		gap, err := getNumber(blob, &pos)
		if err != nil {
			return 0, err
		}
		length, err := getNumber(blob, &pos)
		if err != nil {
			return 0, err
		}
		start := prev + gap
		if !first {
			start++
		}
		end := start + length
		if each != nil {
			each(start, end)
		}
		total += length + 1
		prev = end
		first = false
	}
	return total, nil
}

// Count decodes blob and returns the number of tokens it carries,
// without materializing the set.
func Count(blob []byte) (uint64, error) {
	return decode(blob, nil)
}

// Parse decodes blob into a Set.
func Parse(blob []byte) (*Set, error) {
	s := New()
	_, err := decode(blob, func(start, end uint64) {
		for t := start; ; t++ {
			s.Add(t)
			if t == end {
				break
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
