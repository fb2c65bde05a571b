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
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/lsnes-go/core/framebuffer"
)

// Parameters is the positional argument cursor a binding pulls its
// arguments through. Every pull consumes one position; mismatches
// raise a script argument error at the current position, so the script
// author sees exactly which argument was wrong.
type Parameters struct {
	S *State
	L *lua.LState
	n int
}

// Skip consumes an argument without looking at it.
func (p *Parameters) Skip() { p.n++ }

// More reports whether any arguments remain.
func (p *Parameters) More() bool { return p.n <= p.L.GetTop() }

// IsNil reports whether the next argument is nil (or missing).
func (p *Parameters) IsNil() bool { return p.L.Get(p.n) == lua.LNil }

// IsNumber reports whether the next argument is a number.
func (p *Parameters) IsNumber() bool {
	_, ok := p.L.Get(p.n).(lua.LNumber)
	return ok
}

// IsString reports whether the next argument is a string.
func (p *Parameters) IsString() bool {
	_, ok := p.L.Get(p.n).(lua.LString)
	return ok
}

// IsBool reports whether the next argument is a boolean.
func (p *Parameters) IsBool() bool {
	_, ok := p.L.Get(p.n).(lua.LBool)
	return ok
}

// Expected raises an argument error at the current position.
func (p *Parameters) Expected(what string) {
	p.L.ArgError(p.n, "expected "+what)
}

// Int pulls a signed integer.
func (p *Parameters) Int() int64 {
	v := p.L.CheckNumber(p.n)
	p.n++
	return int64(v)
}

// Uint pulls an unsigned integer.
func (p *Parameters) Uint() uint64 {
	v := p.L.CheckNumber(p.n)
	p.n++
	if v < 0 {
		return uint64(int64(v))
	}
	return uint64(v)
}

// Float pulls a float.
func (p *Parameters) Float() float64 {
	v := p.L.CheckNumber(p.n)
	p.n++
	return float64(v)
}

// Bool pulls a boolean.
func (p *Parameters) Bool() bool {
	v := p.L.CheckBool(p.n)
	p.n++
	return v
}

// String pulls a string.
func (p *Parameters) String() string {
	v := p.L.CheckString(p.n)
	p.n++
	return v
}

// OptInt pulls a signed integer, substituting def when the argument is
// nil or missing.
func (p *Parameters) OptInt(def int64) int64 {
	if p.IsNil() {
		p.n++
		return def
	}
	return p.Int()
}

// OptUint pulls an unsigned integer with a default.
func (p *Parameters) OptUint(def uint64) uint64 {
	if p.IsNil() {
		p.n++
		return def
	}
	return p.Uint()
}

// OptBool pulls a boolean with a default.
func (p *Parameters) OptBool(def bool) bool {
	if p.IsNil() {
		p.n++
		return def
	}
	return p.Bool()
}

// OptString pulls a string with a default.
func (p *Parameters) OptString(def string) string {
	if p.IsNil() {
		p.n++
		return def
	}
	return p.String()
}

// Push pushes one result value; returns 1 for convenient tail calls.
func (p *Parameters) Push(v Value) int {
	p.L.Push(toLua(p.L, v))
	return 1
}

// colorNames is the small name table the color argument accepts.
var colorNames = map[string]uint32{
	"black":   0x000000,
	"white":   0xffffff,
	"red":     0xff0000,
	"green":   0x00ff00,
	"blue":    0x0000ff,
	"yellow":  0xffff00,
	"cyan":    0x00ffff,
	"magenta": 0xff00ff,
	"gray":    0x808080,
	"grey":    0x808080,
	"orange":  0xffa500,
}

// Color pulls a framebuffer color. It accepts an integer (RGB in the
// low 24 bits, transparency in bits 24..31 so plain 0xRRGGBB values
// are opaque), a "#RRGGBB" or "#RRGGBBAA" string, or a color name; nil
// or a missing argument yields def.
func (p *Parameters) Color(def framebuffer.Color) framebuffer.Color {
	v := p.L.Get(p.n)
	switch x := v.(type) {
	case *lua.LNilType:
		p.n++
		return def
	case lua.LNumber:
		p.n++
		n := uint32(int64(x))
		return framebuffer.NewColor(n&0xffffff, 255-uint8(n>>24))
	case lua.LString:
		p.n++
		c, ok := parseColorString(string(x))
		if !ok {
			p.L.ArgError(p.n-1, "bad color "+string(x))
		}
		return c
	default:
		p.Expected("color")
		return def
	}
}

func parseColorString(s string) (framebuffer.Color, bool) {
	if rgb, ok := colorNames[strings.ToLower(s)]; ok {
		return framebuffer.NewColor(rgb, 255), true
	}
	if !strings.HasPrefix(s, "#") {
		return framebuffer.Color{}, false
	}
	hexpart := s[1:]
	switch len(hexpart) {
	case 6:
		rgb, err := strconv.ParseUint(hexpart, 16, 32)
		if err != nil {
			return framebuffer.Color{}, false
		}
		return framebuffer.NewColor(uint32(rgb), 255), true
	case 8:
		rgba, err := strconv.ParseUint(hexpart, 16, 32)
		if err != nil {
			return framebuffer.Color{}, false
		}
		return framebuffer.NewColor(uint32(rgba>>8), uint8(rgba)), true
	default:
		return framebuffer.Color{}, false
	}
}
