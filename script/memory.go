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

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/lsnes-go/core/crypto"
	"github.com/lsnes-go/core/debugfacility"
	"github.com/lsnes-go/core/memspace"
)

// MemoryContext bundles what the memory bindings operate on: the
// address space, the watchpoint/cheat facility, and the host scratch
// buffer that store/storecmp target.
type MemoryContext struct {
	Space *memspace.Space
	Debug *debugfacility.Facility
	Host  *HostMemory
}

// vmaHandle is what a memory.vma instance wraps: one region plus the
// shared context. Offsets in every method are relative to the region
// base.
type vmaHandle struct {
	ctx    *MemoryContext
	region *memspace.Region

	// pinned watchpoint callbacks, keyed by (kind, offset) so
	// unregister can release the pin.
	pins map[[2]uint64]uint64
}

const (
	pinRead uint64 = iota
	pinWrite
	pinExec
)

// VMAClass builds the memory.vma class over ctx. Instances are
// obtained with memory.vma(name); memory.regions() lists what is
// available.
func VMAClass(ctx *MemoryContext) *Class {
	c := &Class{Name: "vma", Statics: map[string]Function{}, Methods: map[string]Function{}}

	// typed accessors: one read and one write method per width and
	// signedness, plus byteswapped variants.
	type accessor struct {
		name string
		kind memspace.Kind
	}
	accessors := []accessor{
		{"byte", memspace.U8}, {"sbyte", memspace.I8},
		{"word", memspace.U16}, {"sword", memspace.I16},
		{"hword", memspace.U24}, {"shword", memspace.I24},
		{"dword", memspace.U32}, {"sdword", memspace.I32},
		{"qword", memspace.U64}, {"sqword", memspace.I64},
		{"float", memspace.F32}, {"double", memspace.F64},
	}
	for _, a := range accessors {
		a := a
		c.Methods["read"+a.name] = func(p *Parameters) int {
			h := p.self(c)
			v, err := h.ctx.Space.Read(h.region.Base+p.Uint(), a.kind)
			if err != nil {
				p.Expected("readable address")
				return 0
			}
			return p.Push(v)
		}
		c.Methods["read"+a.name+"swap"] = func(p *Parameters) int {
			h := p.self(c)
			v, err := h.ctx.Space.ReadSwapped(h.region.Base+p.Uint(), a.kind)
			if err != nil {
				p.Expected("readable address")
				return 0
			}
			return p.Push(v)
		}
		c.Methods["write"+a.name] = func(p *Parameters) int {
			h := p.self(c)
			off := p.Uint()
			err := h.ctx.Space.Write(h.region.Base+off, a.kind, kindValue(a.kind, p))
			if err != nil {
				p.Expected("writable address")
			}
			return 0
		}
		c.Methods["write"+a.name+"swap"] = func(p *Parameters) int {
			h := p.self(c)
			off := p.Uint()
			err := h.ctx.Space.WriteSwapped(h.region.Base+off, a.kind, kindValue(a.kind, p))
			if err != nil {
				p.Expected("writable address")
			}
			return 0
		}
	}

	c.Methods["size"] = func(p *Parameters) int {
		return p.Push(p.self(c).region.Size)
	}

	c.Methods["readregion"] = func(p *Parameters) int {
		h := p.self(c)
		off, n := p.Uint(), p.Uint()
		buf, ok := h.readBytes(off, n)
		if !ok {
			p.Expected("in-range region read")
			return 0
		}
		return p.Push(buf)
	}

	c.Methods["writeregion"] = func(p *Parameters) int {
		h := p.self(c)
		off := p.Uint()
		data := []byte(p.String())
		for i, b := range data {
			if h.ctx.Space.Write(h.region.Base+off+uint64(i), memspace.U8, b) != nil {
				p.Expected("writable region")
				return 0
			}
		}
		return 0
	}

	// store copies a span of the region into the host scratch buffer;
	// storecmp does the same but reports whether the span differed
	// from what the scratch buffer already held. Scripts use it to
	// detect changes frame over frame without keeping state in the
	// interpreter.
	c.Methods["store"] = func(p *Parameters) int {
		h := p.self(c)
		hostaddr, off, n := p.Uint(), p.Uint(), p.Uint()
		buf, ok := h.readBytes(off, n)
		if !ok {
			p.Expected("in-range region read")
			return 0
		}
		for i, b := range buf {
			h.ctx.Host.Write(hostaddr+uint64(i), 1, false, uint64(b))
		}
		return 0
	}

	c.Methods["storecmp"] = func(p *Parameters) int {
		h := p.self(c)
		hostaddr, off, n := p.Uint(), p.Uint(), p.Uint()
		buf, ok := h.readBytes(off, n)
		if !ok {
			p.Expected("in-range region read")
			return 0
		}
		differs := false
		for i, b := range buf {
			if h.ctx.Host.Read(hostaddr+uint64(i), 1, false) != uint64(b) {
				differs = true
			}
			h.ctx.Host.Write(hostaddr+uint64(i), 1, false, uint64(b))
		}
		return p.Push(differs)
	}

	// sha256 and skein hash a rectangle of the region: rows spans of
	// length bytes each, stride bytes apart. rows=1 hashes a plain
	// span.
	c.Methods["sha256"] = func(p *Parameters) int {
		h := p.self(c)
		data, ok := h.readRect(p)
		if !ok {
			return 0
		}
		sum := sha256.Sum256(data)
		return p.Push(hex.EncodeToString(sum[:]))
	}

	c.Methods["skein"] = func(p *Parameters) int {
		h := p.self(c)
		data, ok := h.readRect(p)
		if !ok {
			return 0
		}
		return p.Push(hex.EncodeToString(crypto.Sum512(data, 256)))
	}

	c.Methods["cheat"] = func(p *Parameters) int {
		h := p.self(c)
		off := p.Uint()
		if p.More() {
			h.ctx.Debug.SetCheat(h.region.Base+off, uint8(p.Uint()))
		} else {
			h.ctx.Debug.ClearCheat(h.region.Base + off)
		}
		return 0
	}

	registerWatch := func(kind uint64) Function {
		return func(p *Parameters) int {
			h := p.self(c)
			off := p.Uint()
			fn := p.L.CheckFunction(p.n)
			pin := p.S.Pin(fn)
			h.pins[[2]uint64{kind, off}] = pin
			addr := h.region.Base + off
			s := p.S
			cb := func(a uint64, v uint8) {
				_ = s.CallPinned(pin, a, v)
			}
			switch kind {
			case pinRead:
				h.ctx.Debug.RegisterRead(addr, cb)
			case pinWrite:
				h.ctx.Debug.RegisterWrite(addr, cb)
			default:
				h.ctx.Debug.RegisterExecute(addr, cb)
			}
			return 0
		}
	}
	unregisterWatch := func(kind uint64) Function {
		return func(p *Parameters) int {
			h := p.self(c)
			off := p.Uint()
			if pin, ok := h.pins[[2]uint64{kind, off}]; ok {
				p.S.Unpin(pin)
				delete(h.pins, [2]uint64{kind, off})
			}
			addr := h.region.Base + off
			switch kind {
			case pinRead:
				h.ctx.Debug.UnregisterRead(addr)
			case pinWrite:
				h.ctx.Debug.UnregisterWrite(addr)
			default:
				h.ctx.Debug.UnregisterExecute(addr)
			}
			return 0
		}
	}
	c.Methods["registerread"] = registerWatch(pinRead)
	c.Methods["registerwrite"] = registerWatch(pinWrite)
	c.Methods["registerexec"] = registerWatch(pinExec)
	c.Methods["unregisterread"] = unregisterWatch(pinRead)
	c.Methods["unregisterwrite"] = unregisterWatch(pinWrite)
	c.Methods["unregisterexec"] = unregisterWatch(pinExec)

	return c
}

// RegisterMemory installs the memory bindings into g: the vma class
// plus the lookup statics.
func RegisterMemory(g *FunctionGroup, cg *ClassGroup, ctx *MemoryContext) {
	c := VMAClass(ctx)
	cg.Register(c)

	g.Register("memory.vma", func(p *Parameters) int {
		name := p.String()
		for _, r := range ctx.Space.Regions() {
			if r.Name == name {
				h := &vmaHandle{ctx: ctx, region: r, pins: map[[2]uint64]uint64{}}
				p.L.Push(c.WrapInstance(p.S, h))
				return 1
			}
		}
		p.Expected("known region name")
		return 0
	})

	g.Register("memory.regions", func(p *Parameters) int {
		tbl := p.L.NewTable()
		for i, r := range ctx.Space.Regions() {
			tbl.RawSetInt(i+1, toLua(p.L, r.Name))
		}
		p.L.Push(tbl)
		return 1
	})
}

// self unboxes the method receiver (argument 1).
func (p *Parameters) self(c *Class) *vmaHandle {
	h, _ := c.Get(p, 1, false).(*vmaHandle)
	p.n = 2
	return h
}

// readBytes reads n bytes starting at region offset off, through the
// direct mapping when one exists.
func (h *vmaHandle) readBytes(off, n uint64) ([]byte, bool) {
	if off+n > h.region.Size {
		return nil, false
	}
	if direct := h.ctx.Space.GetPhysicalMapping(h.region.Base+off, n); direct != nil {
		return append([]byte(nil), direct...), true
	}
	buf := make([]byte, n)
	for i := range buf {
		v, err := h.ctx.Space.Read(h.region.Base+off+uint64(i), memspace.U8)
		if err != nil {
			return nil, false
		}
		buf[i] = v.(uint8)
	}
	return buf, true
}

// readRect pulls (offset, length, rows, stride) arguments and gathers
// the described rectangle.
func (h *vmaHandle) readRect(p *Parameters) ([]byte, bool) {
	off := p.Uint()
	length := p.Uint()
	rows := p.OptUint(1)
	stride := p.OptUint(length)
	var data []byte
	for r := uint64(0); r < rows; r++ {
		row, ok := h.readBytes(off+r*stride, length)
		if !ok {
			p.Expected("in-range hash rectangle")
			return nil, false
		}
		data = append(data, row...)
	}
	return data, true
}

// kindValue pulls the next argument with the Go type Space.Write
// expects for k.
func kindValue(k memspace.Kind, p *Parameters) any {
	switch k {
	case memspace.U8:
		return uint8(p.Uint())
	case memspace.I8:
		return int8(p.Int())
	case memspace.U16:
		return uint16(p.Uint())
	case memspace.I16:
		return int16(p.Int())
	case memspace.U24:
		return uint32(p.Uint() & 0xffffff)
	case memspace.I24:
		return int32(p.Int())
	case memspace.U32:
		return uint32(p.Uint())
	case memspace.I32:
		return int32(p.Int())
	case memspace.U64:
		return p.Uint()
	case memspace.I64:
		return p.Int()
	case memspace.F32:
		return float32(p.Float())
	case memspace.F64:
		return p.Float()
	default:
		return nil
	}
}
