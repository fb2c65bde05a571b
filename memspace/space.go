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

package memspace

import (
	"sort"

	"github.com/lsnes-go/core/coreerr"
	"github.com/lsnes-go/core/logger"
)

// Space is a registry of non-overlapping Regions, addressable either by
// a console-native global address or by a linear index across the whole
// concatenated map (region order = registration order).
type Space struct {
	regions []*Region
	// linearBase[i] is the linear-address offset at which regions[i]
	// starts; linearBase[len(regions)] is the total linear size.
	linearBase []uint64
}

// AddRegion registers r, rejecting it with coreerr.OutOfRange if it
// overlaps any already-registered region (the non-overlap invariant
// the registry maintains as an invariant).
func (s *Space) AddRegion(r *Region) error {
	for _, existing := range s.regions {
		if overlaps(existing, r) {
			logger.Logf(logger.Allow, "memspace", "rejecting region %q [%#x, %#x): overlaps %q",
				r.Name, r.Base, r.Base+r.Size, existing.Name)
			return coreerr.Categorized(coreerr.OutOfRange, "memspace: region %q overlaps %q", r.Name, existing.Name)
		}
	}
	s.regions = append(s.regions, r)
	s.rebuildLinear()
	return nil
}

func overlaps(a, b *Region) bool {
	return a.Base < b.Base+b.Size && b.Base < a.Base+a.Size
}

func (s *Space) rebuildLinear() {
	s.linearBase = make([]uint64, len(s.regions)+1)
	var off uint64
	for i, r := range s.regions {
		s.linearBase[i] = off
		off += r.Size
	}
	s.linearBase[len(s.regions)] = off
}

// Regions enumerates the registered regions in registration order.
func (s *Space) Regions() []*Region { return append([]*Region(nil), s.regions...) }

// Lookup finds the region containing a global address and the byte
// offset into it. ok is false if no region covers addr.
func (s *Space) Lookup(addr uint64) (region *Region, offset uint64, ok bool) {
	for _, r := range s.regions {
		if r.contains(addr) {
			return r, addr - r.Base, true
		}
	}
	return nil, 0, false
}

// LookupLinear finds the region containing a linear (concatenated-map)
// address and the byte offset into it.
func (s *Space) LookupLinear(lin uint64) (region *Region, offset uint64, ok bool) {
	if len(s.regions) == 0 || lin >= s.linearBase[len(s.regions)] {
		return nil, 0, false
	}
	i := sort.Search(len(s.regions), func(i int) bool { return s.linearBase[i+1] > lin })
	return s.regions[i], lin - s.linearBase[i], true
}

// LinearSize returns the total size of the concatenated linear map.
func (s *Space) LinearSize() uint64 {
	if len(s.regions) == 0 {
		return 0
	}
	return s.linearBase[len(s.regions)]
}

// LinearBase returns the linear-address offset at which region i starts.
func (s *Space) LinearBase(i int) uint64 { return s.linearBase[i] }

// Read performs a typed read at global address addr, honoring the
// covering region's declared endianness.
func (s *Space) Read(addr uint64, k Kind) (any, error) {
	r, off, ok := s.Lookup(addr)
	if !ok {
		return nil, coreerr.Categorized(coreerr.OutOfRange, "memspace: no region at address %#x", addr)
	}
	raw, err := r.readBytes(off, k.size())
	if err != nil {
		return nil, err
	}
	return fromRaw(k, raw), nil
}

// ReadSwapped is Read but with the byte order reversed from the region's
// native endianness.
func (s *Space) ReadSwapped(addr uint64, k Kind) (any, error) {
	r, off, ok := s.Lookup(addr)
	if !ok {
		return nil, coreerr.Categorized(coreerr.OutOfRange, "memspace: no region at address %#x", addr)
	}
	swapped := *r
	swapped.Order = otherOrder(r.Order)
	raw, err := swapped.readBytes(off, k.size())
	if err != nil {
		return nil, err
	}
	return fromRaw(k, raw), nil
}

// Write performs a typed write at global address addr, returning
// coreerr.ReadOnlyViolation if the covering region rejects writes.
func (s *Space) Write(addr uint64, k Kind, v any) error {
	r, off, ok := s.Lookup(addr)
	if !ok {
		return coreerr.Categorized(coreerr.OutOfRange, "memspace: no region at address %#x", addr)
	}
	return r.writeBytes(off, k.size(), toRaw(k, v))
}

// WriteSwapped is Write but byte-swapped relative to the region's native
// endianness.
func (s *Space) WriteSwapped(addr uint64, k Kind, v any) error {
	r, off, ok := s.Lookup(addr)
	if !ok {
		return coreerr.Categorized(coreerr.OutOfRange, "memspace: no region at address %#x", addr)
	}
	swapped := *r
	swapped.Order = otherOrder(r.Order)
	return swapped.writeBytes(off, k.size(), toRaw(k, v))
}

func otherOrder(o ByteOrder) ByteOrder {
	if o == BigEndian {
		return LittleEndian
	}
	return BigEndian
}

// GetPhysicalMapping returns a direct slice over [addr, addr+n) if a
// single direct-mapped region covers that whole span, or nil otherwise
// (spanning regions and computed/MMIO regions never have one).
func (s *Space) GetPhysicalMapping(addr, n uint64) []byte {
	r, off, ok := s.Lookup(addr)
	if !ok || r.Direct == nil {
		return nil
	}
	if off+n > uint64(len(r.Direct)) {
		return nil
	}
	return r.Direct[off : off+n]
}
