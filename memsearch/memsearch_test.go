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

package memsearch_test

import (
	"bytes"
	"testing"

	"github.com/lsnes-go/core/memsearch"
	"github.com/lsnes-go/core/memspace"
	"github.com/lsnes-go/core/test"
)

func buildSpace(t *testing.T, data []byte) *memspace.Space {
	t.Helper()
	var s memspace.Space
	r := &memspace.Region{Name: "ram", Base: 0, Size: uint64(len(data)), Order: memspace.LittleEndian, Direct: data}
	test.ExpectSuccess(t, s.AddRegion(r))
	return &s
}

func TestValueFilterNarrowsCandidates(t *testing.T) {
	data := []byte{10, 20, 10, 30}
	space := buildSpace(t, data)
	search := memsearch.New(space, memspace.U8)
	test.ExpectEquality(t, search.GetCandidateCount(), uint64(4))

	search.Value(10)
	test.ExpectEquality(t, search.GetCandidateCount(), uint64(2))
	test.ExpectSuccess(t, search.IsCandidate(0))
	test.ExpectFailure(t, search.IsCandidate(1))
}

func TestGreaterTracksChangeSincePreviousSnapshot(t *testing.T) {
	data := []byte{10, 20, 10, 30}
	space := buildSpace(t, data)
	search := memsearch.New(space, memspace.U8)

	data[0] = 15 // grew
	data[1] = 5  // shrank
	search.Greater()

	test.ExpectSuccess(t, search.IsCandidate(0))
	test.ExpectFailure(t, search.IsCandidate(1))
}

func TestDifferencePredicate(t *testing.T) {
	data := []byte{100, 100}
	space := buildSpace(t, data)
	search := memsearch.New(space, memspace.U8)

	data[0] = 105
	data[1] = 103
	search.Difference(5)

	test.ExpectSuccess(t, search.IsCandidate(0))
	test.ExpectFailure(t, search.IsCandidate(1))
}

func TestCycleCandidateVMAWraps(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	space := buildSpace(t, data)
	search := memsearch.New(space, memspace.U8)
	search.NotEqual(2) // keep 0,2,3; drop 1

	addr, ok := search.CycleCandidateVMA(3, true)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, addr, uint64(0))
}

func TestCycleCandidateVMAConfinedToRegion(t *testing.T) {
	// two regions; everything in the second is eliminated, so cycling
	// inside it never escapes into the first region's candidates.
	a := []byte{1, 2}
	b := []byte{3, 4}
	var space memspace.Space
	test.ExpectSuccess(t, space.AddRegion(&memspace.Region{Name: "a", Base: 0, Size: 2, Order: memspace.LittleEndian, Direct: a}))
	test.ExpectSuccess(t, space.AddRegion(&memspace.Region{Name: "b", Base: 0x100, Size: 2, Order: memspace.LittleEndian, Direct: b}))
	search := memsearch.New(&space, memspace.U8)
	search.Value(1) // only linear address 0, in region "a", survives

	_, ok := search.CycleCandidateVMA(2, true) // linear address inside "b"
	test.ExpectFailure(t, ok)

	addr, ok := search.CycleCandidateVMA(1, true) // inside "a", wraps to 0
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, addr, uint64(0))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	data := []byte{10, 20, 10, 30}
	space := buildSpace(t, data)
	search := memsearch.New(space, memspace.U8)
	search.Value(10)

	var buf bytes.Buffer
	test.ExpectSuccess(t, search.Save(&buf, memsearch.All))

	search2 := memsearch.New(space, memspace.U8)
	test.ExpectSuccess(t, search2.Load(&buf))
	test.ExpectEquality(t, search2.GetCandidateCount(), uint64(2))
	test.ExpectSuccess(t, search2.IsCandidate(0))
}
