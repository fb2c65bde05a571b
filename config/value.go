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

package config

import (
	"fmt"
	"strconv"
)

// Value is the raw, untyped form a preference can take: either its
// native Go type (bool, int, float64, string, ...) or a string already
// parsed from a config file line.
type Value = any

// Cell is a single preference cell, as registered with a Disk. Set
// accepts either the value's native Go type or its string serialisation.
// String returns the current serialisation.
type Cell interface {
	Set(v Value) error
	String() string
}

// Bool is a boolean preference cell.
type Bool struct {
	v bool
}

func (b *Bool) Set(v Value) error {
	switch x := v.(type) {
	case bool:
		b.v = x
	case string:
		b.v = x == "true"
	default:
		return fmt.Errorf("config: cannot set bool from %T", v)
	}
	return nil
}

func (b *Bool) String() string {
	if b.v {
		return "true"
	}
	return "false"
}

// String is a string preference cell, optionally capped to a maximum
// length (0 means unbounded).
type String struct {
	v      string
	maxLen int
}

func (s *String) Set(v Value) error {
	x, ok := v.(string)
	if !ok {
		return fmt.Errorf("config: cannot set string from %T", v)
	}
	s.v = x
	s.crop()
	return nil
}

// SetMaxLen changes the maximum length and immediately crops the current
// value. A length of zero removes the limit but does not restore any
// previously cropped content.
func (s *String) SetMaxLen(n int) {
	s.maxLen = n
	s.crop()
}

func (s *String) crop() {
	if s.maxLen > 0 && len(s.v) > s.maxLen {
		s.v = s.v[:s.maxLen]
	}
}

func (s *String) String() string { return s.v }

// Int is an integer preference cell.
type Int struct {
	v int
}

func (i *Int) Set(v Value) error {
	switch x := v.(type) {
	case int:
		i.v = x
	case string:
		n, err := strconv.Atoi(x)
		if err != nil {
			return fmt.Errorf("config: cannot set int from %q: %w", x, err)
		}
		i.v = n
	default:
		return fmt.Errorf("config: cannot set int from %T", v)
	}
	return nil
}

func (i *Int) String() string { return strconv.Itoa(i.v) }

// Float is a floating point preference cell.
type Float struct {
	v float64
}

func (f *Float) Set(v Value) error {
	switch x := v.(type) {
	case float64:
		f.v = x
	case string:
		n, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return fmt.Errorf("config: cannot set float from %q: %w", x, err)
		}
		f.v = n
	default:
		return fmt.Errorf("config: cannot set float from %T", v)
	}
	return nil
}

func (f *Float) String() string { return strconv.FormatFloat(f.v, 'g', -1, 64) }

// Generic wraps an arbitrary value behind caller-supplied set/get
// functions, for preferences whose native representation isn't one of the
// built-in cell types (e.g. a packed "W,H" dimension pair).
type Generic struct {
	set func(Value) error
	get func() Value
}

// NewGeneric creates a Generic preference cell.
func NewGeneric(set func(Value) error, get func() Value) *Generic {
	return &Generic{set: set, get: get}
}

func (g *Generic) Set(v Value) error {
	return g.set(v)
}

func (g *Generic) String() string {
	v := g.get()
	return fmt.Sprintf("%v", v)
}
