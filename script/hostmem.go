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

package script

// HostMemory is the script-visible scratch buffer: byte addressable,
// growing on demand, persisted into savestate movies so scripts can
// carry state across save and load.
type HostMemory struct {
	data []byte
}

// NewHostMemory creates an empty scratch buffer.
func NewHostMemory() *HostMemory { return &HostMemory{} }

// Bytes exposes the raw buffer for savestate serialization.
func (h *HostMemory) Bytes() []byte { return h.data }

// SetBytes replaces the buffer, as savestate load does.
func (h *HostMemory) SetBytes(b []byte) { h.data = append([]byte(nil), b...) }

// grow ensures addresses [0, n) exist.
func (h *HostMemory) grow(n int) {
	if n > len(h.data) {
		grown := make([]byte, n)
		copy(grown, h.data)
		h.data = grown
	}
}

// Read returns the width-byte integer at addr; reads past the end see
// zeros.
func (h *HostMemory) Read(addr uint64, width int, be bool) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		var b byte
		idx := addr + uint64(i)
		if idx < uint64(len(h.data)) {
			b = h.data[idx]
		}
		if be {
			v = (v << 8) | uint64(b)
		} else {
			v |= uint64(b) << (8 * uint(i))
		}
	}
	return v
}

// Write stores a width-byte integer at addr, growing the buffer to
// fit.
func (h *HostMemory) Write(addr uint64, width int, be bool, value uint64) {
	h.grow(int(addr) + width)
	for i := 0; i < width; i++ {
		var b byte
		if be {
			b = byte(value >> (8 * uint(width-1-i)))
		} else {
			b = byte(value >> (8 * uint(i)))
		}
		h.data[addr+uint64(i)] = b
	}
}

// RegisterHostMemory installs the memory2-style scratch buffer
// bindings into g: typed reads and writes of every width in both byte
// orders, addressed from zero.
func RegisterHostMemory(g *FunctionGroup, h *HostMemory) {
	type width struct {
		name  string
		bytes int
	}
	widths := []width{
		{"byte", 1}, {"word", 2}, {"hword", 3}, {"dword", 4}, {"qword", 8},
	}
	for _, w := range widths {
		w := w
		g.Register("hostmemory.read"+w.name, func(p *Parameters) int {
			return p.Push(h.Read(p.Uint(), w.bytes, false))
		})
		g.Register("hostmemory.write"+w.name, func(p *Parameters) int {
			addr, v := p.Uint(), p.Uint()
			h.Write(addr, w.bytes, false, v)
			return 0
		})
		g.Register("hostmemory.reads"+w.name, func(p *Parameters) int {
			v := h.Read(p.Uint(), w.bytes, false)
			shift := uint(64 - 8*w.bytes)
			return p.Push(int64(v<<shift) >> shift)
		})
		g.Register("hostmemory.read"+w.name+"be", func(p *Parameters) int {
			return p.Push(h.Read(p.Uint(), w.bytes, true))
		})
		g.Register("hostmemory.write"+w.name+"be", func(p *Parameters) int {
			addr, v := p.Uint(), p.Uint()
			h.Write(addr, w.bytes, true, v)
			return 0
		})
	}
	g.Register("hostmemory.size", func(p *Parameters) int {
		return p.Push(uint64(len(h.data)))
	})
	g.Register("hostmemory.resize", func(p *Parameters) int {
		n := p.Uint()
		if n < uint64(len(h.data)) {
			h.data = h.data[:n]
		} else {
			h.grow(int(n))
		}
		return 0
	})
}
