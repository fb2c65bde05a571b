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

// Package memspace implements the emulated address space: a registry of
// non-overlapping memory regions addressable either by the console's own
// global address or by a linear index across the whole concatenated map,
// with typed endian-aware reads and writes.
package memspace

import (
	"encoding/binary"
	"math"

	"github.com/lsnes-go/core/coreerr"
)

// ByteOrder selects how a region's multi-byte values are packed.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) impl() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Region is one addressable span of the machine: RAM, ROM, a memory
// mapped register bank, and so on. Direct exposes the region's backing
// bytes for the get_physical_mapping fast path; it is nil for regions
// that are computed or side-effecting (e.g. MMIO) and must go through
// Read/Write.
type Region struct {
	Name     string
	Base     uint64 // global address of the region's first byte
	Size     uint64
	Order    ByteOrder
	ReadOnly bool
	Direct   []byte
	Read     func(offset uint64, size int) (uint64, error)
	Write    func(offset uint64, size int, value uint64) error
}

func (r *Region) contains(addr uint64) bool {
	return addr >= r.Base && addr < r.Base+r.Size
}

func (r *Region) readBytes(offset uint64, size int) (uint64, error) {
	if r.Direct != nil {
		if offset+uint64(size) > uint64(len(r.Direct)) {
			return 0, coreerr.Categorized(coreerr.OutOfRange, "memspace: read past end of region %q", r.Name)
		}
		buf := r.Direct[offset : offset+uint64(size)]
		return decodeUint(buf, r.Order), nil
	}
	if r.Read == nil {
		return 0, coreerr.Categorized(coreerr.InvalidState, "memspace: region %q has no read path", r.Name)
	}
	return r.Read(offset, size)
}

func (r *Region) writeBytes(offset uint64, size int, value uint64) error {
	if r.ReadOnly {
		return coreerr.Categorized(coreerr.ReadOnlyViolation, "memspace: write to read-only region %q", r.Name)
	}
	if r.Direct != nil {
		if offset+uint64(size) > uint64(len(r.Direct)) {
			return coreerr.Categorized(coreerr.OutOfRange, "memspace: write past end of region %q", r.Name)
		}
		encodeUint(r.Direct[offset:offset+uint64(size)], r.Order, value)
		return nil
	}
	if r.Write == nil {
		return coreerr.Categorized(coreerr.InvalidState, "memspace: region %q has no write path", r.Name)
	}
	return r.Write(offset, size, value)
}

func decodeUint(buf []byte, order ByteOrder) uint64 {
	var v uint64
	switch len(buf) {
	case 1:
		v = uint64(buf[0])
	case 2:
		v = uint64(order.impl().Uint16(buf))
	case 3:
		v = decodeUint24(buf, order)
	case 4:
		v = uint64(order.impl().Uint32(buf))
	case 8:
		v = order.impl().Uint64(buf)
	}
	return v
}

func encodeUint(buf []byte, order ByteOrder, v uint64) {
	switch len(buf) {
	case 1:
		buf[0] = byte(v)
	case 2:
		order.impl().PutUint16(buf, uint16(v))
	case 3:
		encodeUint24(buf, order, v)
	case 4:
		order.impl().PutUint32(buf, uint32(v))
	case 8:
		order.impl().PutUint64(buf, v)
	}
}

func decodeUint24(buf []byte, order ByteOrder) uint64 {
	if order == BigEndian {
		return uint64(buf[0])<<16 | uint64(buf[1])<<8 | uint64(buf[2])
	}
	return uint64(buf[0]) | uint64(buf[1])<<8 | uint64(buf[2])<<16
}

func encodeUint24(buf []byte, order ByteOrder, v uint64) {
	if order == BigEndian {
		buf[0] = byte(v >> 16)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v)
		return
	}
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
}

// Kind selects the scalar type of a typed read or write, from single
// bytes up to 64-bit floats.
type Kind int

const (
	U8 Kind = iota
	I8
	U16
	I16
	U24
	I24
	U32
	I32
	U64
	I64
	F32
	F64
)

func (k Kind) size() int {
	switch k {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U24, I24:
		return 3
	case U32, I32, F32:
		return 4
	default:
		return 8
	}
}

func fromRaw(k Kind, raw uint64) any {
	switch k {
	case U8:
		return uint8(raw)
	case I8:
		return int8(raw)
	case U16:
		return uint16(raw)
	case I16:
		return int16(raw)
	case U24:
		return uint32(raw & 0xFFFFFF)
	case I24:
		return int32(signExtend(raw, 24))
	case U32:
		return uint32(raw)
	case I32:
		return int32(raw)
	case U64:
		return raw
	case I64:
		return int64(raw)
	case F32:
		return math.Float32frombits(uint32(raw))
	case F64:
		return math.Float64frombits(raw)
	}
	return nil
}

func signExtend(raw uint64, bits uint) int64 {
	shift := 64 - bits
	return int64(raw<<shift) >> shift
}

func toRaw(k Kind, v any) uint64 {
	switch val := v.(type) {
	case uint8:
		return uint64(val)
	case int8:
		return uint64(uint8(val))
	case uint16:
		return uint64(val)
	case int16:
		return uint64(uint16(val))
	case uint32:
		return uint64(val)
	case int32:
		if k == I24 {
			return uint64(val) & 0xFFFFFF
		}
		return uint64(uint32(val))
	case int64:
		return uint64(val)
	case uint64:
		return val
	case float32:
		return uint64(math.Float32bits(val))
	case float64:
		return math.Float64bits(val)
	case int:
		return uint64(val)
	}
	return 0
}
