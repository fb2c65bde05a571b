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
	"encoding/binary"
	"io"

	"github.com/lsnes-go/core/coreerr"
)

// Flavor selects what a snapshot persists.
type Flavor uint8

const (
	// PrevMem persists only previous_content (the comparison baseline).
	PrevMem Flavor = iota
	// Set persists only the candidate bitmap and count.
	Set
	// All persists both.
	All
)

// Save writes a snapshot of the given flavor to w: a one-byte flavor tag,
// an 8-byte big-endian linear size, then the flavor-specific payload.
func (s *Search) Save(w io.Writer, flavor Flavor) error {
	if err := binary.Write(w, binary.BigEndian, uint8(flavor)); err != nil {
		return coreerr.Categorized(coreerr.IoFailure, "memsearch: write flavor: %v", err)
	}
	if err := binary.Write(w, binary.BigEndian, s.linSize); err != nil {
		return coreerr.Categorized(coreerr.IoFailure, "memsearch: write linear size: %v", err)
	}
	if flavor == PrevMem || flavor == All {
		if err := binary.Write(w, binary.BigEndian, s.previous); err != nil {
			return coreerr.Categorized(coreerr.IoFailure, "memsearch: write previous content: %v", err)
		}
	}
	if flavor == Set || flavor == All {
		if err := binary.Write(w, binary.BigEndian, s.count); err != nil {
			return coreerr.Categorized(coreerr.IoFailure, "memsearch: write candidate count: %v", err)
		}
		if err := binary.Write(w, binary.BigEndian, s.stillIn); err != nil {
			return coreerr.Categorized(coreerr.IoFailure, "memsearch: write candidate bitmap: %v", err)
		}
	}
	return nil
}

// Load replaces s's state from a stream written by Save. A snapshot
// taken over a differently-sized linear map is rejected outright.
func (s *Search) Load(r io.Reader) error {
	var flavor uint8
	if err := binary.Read(r, binary.BigEndian, &flavor); err != nil {
		return coreerr.Categorized(coreerr.MalformedInput, "memsearch: read flavor: %v", err)
	}
	var linSize uint64
	if err := binary.Read(r, binary.BigEndian, &linSize); err != nil {
		return coreerr.Categorized(coreerr.MalformedInput, "memsearch: read linear size: %v", err)
	}
	if linSize != s.linSize {
		return coreerr.Categorized(coreerr.MalformedInput, "memsearch: linear size mismatch: snapshot has %d, space has %d", linSize, s.linSize)
	}
	f := Flavor(flavor)
	if f == PrevMem || f == All {
		if err := binary.Read(r, binary.BigEndian, s.previous); err != nil {
			return coreerr.Categorized(coreerr.MalformedInput, "memsearch: read previous content: %v", err)
		}
	}
	if f == Set || f == All {
		if err := binary.Read(r, binary.BigEndian, &s.count); err != nil {
			return coreerr.Categorized(coreerr.MalformedInput, "memsearch: read candidate count: %v", err)
		}
		if err := binary.Read(r, binary.BigEndian, s.stillIn); err != nil {
			return coreerr.Categorized(coreerr.MalformedInput, "memsearch: read candidate bitmap: %v", err)
		}
	}
	return nil
}
