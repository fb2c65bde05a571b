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
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Function is one native binding. It pulls its arguments through the
// cursor and returns the number of values it pushed back.
type Function func(p *Parameters) int

// FunctionGroup is a named collection of bindings. Groups are attached
// to states; adding or removing a binding is reflected in every
// attached state immediately, and an interpreter reset re-registers
// the whole group.
type FunctionGroup struct {
	Name string

	mu     sync.RWMutex
	fns    map[string]Function
	states []*State
}

// NewFunctionGroup creates an empty group.
func NewFunctionGroup(name string) *FunctionGroup {
	return &FunctionGroup{Name: name, fns: map[string]Function{}}
}

// Register adds a binding under a dotted path name and installs it in
// every attached state.
func (g *FunctionGroup) Register(name string, fn Function) {
	g.mu.Lock()
	g.fns[name] = fn
	states := append([]*State(nil), g.states...)
	g.mu.Unlock()
	for _, s := range states {
		setDotted(s.L, name, wrap(s, fn))
	}
}

// Unregister removes a binding everywhere.
func (g *FunctionGroup) Unregister(name string) {
	g.mu.Lock()
	delete(g.fns, name)
	states := append([]*State(nil), g.states...)
	g.mu.Unlock()
	for _, s := range states {
		clearDotted(s.L, name)
	}
}

// Names lists the registered binding names in order.
func (g *FunctionGroup) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.fns))
	for n := range g.fns {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Attach installs the group into a state and keeps it installed across
// resets.
func (g *FunctionGroup) Attach(s *State) {
	g.mu.Lock()
	g.states = append(g.states, s)
	g.mu.Unlock()
	s.mu.Lock()
	s.fgroups = append(s.fgroups, g)
	s.mu.Unlock()
	g.registerInto(s)
}

// registerInto installs every current binding into s. Called with s
// already locked during Reset, and unlocked from Attach; it touches
// only g's own lock.
func (g *FunctionGroup) registerInto(s *State) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for name, fn := range g.fns {
		setDotted(s.L, name, wrap(s, fn))
	}
}

// wrap adapts a Function to the interpreter's calling convention,
// giving it a fresh argument cursor per call.
func wrap(s *State, fn Function) *lua.LFunction {
	return s.L.NewFunction(func(L *lua.LState) int {
		p := &Parameters{S: s, L: L, n: 1}
		return fn(p)
	})
}

// ClassGroup is the class-registering sibling of FunctionGroup.
type ClassGroup struct {
	Name string

	mu      sync.RWMutex
	classes []*Class
	states  []*State
}

// NewClassGroup creates an empty class group.
func NewClassGroup(name string) *ClassGroup {
	return &ClassGroup{Name: name}
}

// Register adds a class and installs it in every attached state.
func (g *ClassGroup) Register(c *Class) {
	g.mu.Lock()
	g.classes = append(g.classes, c)
	states := append([]*State(nil), g.states...)
	g.mu.Unlock()
	for _, s := range states {
		c.registerInto(s)
	}
}

// Attach installs the group into a state and keeps it installed across
// resets.
func (g *ClassGroup) Attach(s *State) {
	g.mu.Lock()
	g.states = append(g.states, s)
	g.mu.Unlock()
	s.mu.Lock()
	s.cgroups = append(s.cgroups, g)
	s.mu.Unlock()
	g.registerInto(s)
}

func (g *ClassGroup) registerInto(s *State) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.classes {
		c.registerInto(s)
	}
}

// Class describes one native type exposed to scripts: a metatable name,
// constructors and static functions installed under the class's global
// table, and methods dispatched on instances.
type Class struct {
	Name    string
	Statics map[string]Function
	Methods map[string]Function
}

// registerInto builds the metatable and static table in s.
func (c *Class) registerInto(s *State) {
	L := s.L
	mt := L.NewTypeMetatable(c.Name)
	methods := L.NewTable()
	for name, fn := range c.Methods {
		L.SetField(methods, name, wrap(s, fn))
	}
	L.SetField(mt, "__index", methods)

	statics := L.NewTable()
	for name, fn := range c.Statics {
		L.SetField(statics, name, wrap(s, fn))
	}
	setDotted(L, c.Name, statics)
}

// WrapInstance boxes a native object as an instance of the class in s.
func (c *Class) WrapInstance(s *State, obj any) *lua.LUserData {
	ud := s.L.NewUserData()
	ud.Value = obj
	s.L.SetMetatable(ud, s.L.GetTypeMetatable(c.Name))
	return ud
}

// Is reports whether the cursor's argument argno is an instance of the
// class.
func (c *Class) Is(p *Parameters, argno int) bool {
	ud, ok := p.L.Get(argno).(*lua.LUserData)
	if !ok {
		return false
	}
	mt := p.L.GetMetatable(ud)
	return mt == p.L.GetTypeMetatable(c.Name)
}

// Get unboxes argument argno as an instance of the class, raising a
// script argument error if it is anything else (or, when optional is
// set, returning nil for missing arguments).
func (c *Class) Get(p *Parameters, argno int, optional bool) any {
	v := p.L.Get(argno)
	if v == lua.LNil && optional {
		return nil
	}
	ud, ok := v.(*lua.LUserData)
	if !ok || !c.Is(p, argno) {
		p.L.ArgError(argno, "expected "+c.Name)
		return nil
	}
	return ud.Value
}

// Pin unboxes argument argno and pins the boxed value so native code
// can keep it across yields. The caller releases the returned pin key
// with State.Unpin.
func (c *Class) Pin(p *Parameters, argno int) (any, uint64) {
	obj := c.Get(p, argno, false)
	key := p.S.Pin(p.L.Get(argno))
	return obj, key
}
