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

package memspace_test

import (
	"testing"

	"github.com/lsnes-go/core/memspace"
	"github.com/lsnes-go/core/test"
)

func buildSpace(t *testing.T) *memspace.Space {
	t.Helper()
	var s memspace.Space
	ram := &memspace.Region{Name: "ram", Base: 0x0000, Size: 0x1000, Order: memspace.LittleEndian, Direct: make([]byte, 0x1000)}
	rom := &memspace.Region{Name: "rom", Base: 0x8000, Size: 0x1000, Order: memspace.BigEndian, ReadOnly: true, Direct: make([]byte, 0x1000)}
	test.ExpectSuccess(t, s.AddRegion(ram))
	test.ExpectSuccess(t, s.AddRegion(rom))
	return &s
}

func TestAddRegionRejectsOverlap(t *testing.T) {
	var s memspace.Space
	test.ExpectSuccess(t, s.AddRegion(&memspace.Region{Name: "a", Base: 0, Size: 0x100, Direct: make([]byte, 0x100)}))
	err := s.AddRegion(&memspace.Region{Name: "b", Base: 0x80, Size: 0x100, Direct: make([]byte, 0x100)})
	test.ExpectFailure(t, err == nil)
}

func TestLookupFindsRegionAndOffset(t *testing.T) {
	s := buildSpace(t)
	r, off, ok := s.Lookup(0x8010)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, r.Name, "rom")
	test.ExpectEquality(t, off, uint64(0x10))

	_, _, ok = s.Lookup(0x5000)
	test.ExpectFailure(t, ok)
}

func TestLookupLinearConcatenatesRegions(t *testing.T) {
	s := buildSpace(t)
	// ram occupies linear [0, 0x1000); rom occupies [0x1000, 0x2000).
	r, off, ok := s.LookupLinear(0x1005)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, r.Name, "rom")
	test.ExpectEquality(t, off, uint64(5))
	test.ExpectEquality(t, s.LinearSize(), uint64(0x2000))
}

func TestReadWriteHonorsEndianness(t *testing.T) {
	s := buildSpace(t)
	test.ExpectSuccess(t, s.Write(0x0000, memspace.U16, uint16(0x1234)))
	v, err := s.Read(0x0000, memspace.U16)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v.(uint16), uint16(0x1234))

	sv, err := s.ReadSwapped(0x0000, memspace.U16)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, sv.(uint16), uint16(0x3412))
}

func TestWriteReadOnlyRegionFails(t *testing.T) {
	s := buildSpace(t)
	err := s.Write(0x8000, memspace.U8, uint8(1))
	test.ExpectFailure(t, err == nil)
}

func TestGetPhysicalMapping(t *testing.T) {
	s := buildSpace(t)
	buf := s.GetPhysicalMapping(0x10, 4)
	test.ExpectFailure(t, buf == nil)
	test.ExpectEquality(t, len(buf), 4)

	// spans a region boundary: no single direct mapping covers it.
	buf = s.GetPhysicalMapping(0x0FF0, 0x20)
	test.ExpectSuccess(t, buf == nil)
}

func TestI24SignExtension(t *testing.T) {
	s := buildSpace(t)
	test.ExpectSuccess(t, s.Write(0x100, memspace.I24, int32(-1)))
	v, err := s.Read(0x100, memspace.I24)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v.(int32), int32(-1))
}
