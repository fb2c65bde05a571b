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

// Package script is the bridge between the emulator and its embedded
// Lua interpreter. It owns the interpreter state, the registries of
// callable groups that survive an interpreter reset, the typed argument
// cursor bindings pull their parameters through, and the standard
// binding sets (bit operations, drawing, host memory, mapped memory).
package script

import (
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/lsnes-go/core/coreerr"
)

// State owns one interpreter. Callbacks and bindings run on the
// emulation coroutine; group registration may come from either
// coroutine, so the registry tables are guarded by a read lock.
type State struct {
	mu sync.RWMutex

	L *lua.LState

	fgroups []*FunctionGroup
	cgroups []*ClassGroup

	once map[string]struct{}

	// pins keeps Lua values reachable from Go across yields. The key
	// is handed back to the caller for release.
	pins    map[uint64]lua.LValue
	nextPin uint64
}

// NewState creates a fresh interpreter with no bindings registered.
func NewState() *State {
	s := &State{
		once: map[string]struct{}{},
		pins: map[uint64]lua.LValue{},
	}
	s.L = lua.NewState()
	return s
}

// Reset tears the interpreter down and builds a new one, re-registering
// every attached group. Scripts' global state is lost; the native-side
// registries survive.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.L != nil {
		s.L.Close()
	}
	s.L = lua.NewState()
	s.once = map[string]struct{}{}
	s.pins = map[uint64]lua.LValue{}
	for _, g := range s.fgroups {
		g.registerInto(s)
	}
	for _, g := range s.cgroups {
		g.registerInto(s)
	}
}

// Deinit closes the interpreter for good.
func (s *State) Deinit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.L != nil {
		s.L.Close()
		s.L = nil
	}
}

// DoOnce runs fn at most once per interpreter lifetime for the given
// key. An interpreter reset clears the guard.
func (s *State) DoOnce(key string, fn func()) {
	s.mu.Lock()
	if _, done := s.once[key]; done {
		s.mu.Unlock()
		return
	}
	s.once[key] = struct{}{}
	s.mu.Unlock()
	fn()
}

// DoString runs a chunk of script source.
func (s *State) DoString(src string) error {
	if err := s.L.DoString(src); err != nil {
		return coreerr.Categorized(coreerr.ScriptError, coreerr.ScriptCallbackError, err)
	}
	return nil
}

// Callback resolves a global function by name and invokes it with the
// given arguments. A name that resolves to nil is not an error; a
// script failure is reported as a script error but never propagates as
// a panic into the emulation loop.
func (s *State) Callback(name string, args ...Value) (bool, error) {
	fn := s.L.GetGlobal(name)
	if fn == lua.LNil {
		return false, nil
	}
	s.L.Push(fn)
	for _, a := range args {
		s.L.Push(toLua(s.L, a))
	}
	if err := s.L.PCall(len(args), 0, nil); err != nil {
		return true, coreerr.Categorized(coreerr.ScriptError, coreerr.ScriptCallbackError, err)
	}
	return true, nil
}

// Pin stores v so it stays reachable while native code holds it across
// yields; Unpin releases it. Pins survive until released or until the
// interpreter is reset.
func (s *State) Pin(v lua.LValue) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPin++
	s.pins[s.nextPin] = v
	return s.nextPin
}

// Pinned returns a pinned value.
func (s *State) Pinned(key uint64) (lua.LValue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.pins[key]
	return v, ok
}

// Unpin releases a pin; unknown keys are ignored.
func (s *State) Unpin(key uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pins, key)
}

// CallPinned invokes a pinned function value with the given arguments.
// Used by watchpoint callbacks, which outlive the binding call that
// registered them.
func (s *State) CallPinned(key uint64, args ...Value) error {
	fn, ok := s.Pinned(key)
	if !ok {
		return coreerr.Categorized(coreerr.StaleReference, coreerr.ScriptCallbackError, "released callback")
	}
	s.L.Push(fn)
	for _, a := range args {
		s.L.Push(toLua(s.L, a))
	}
	if err := s.L.PCall(len(args), 0, nil); err != nil {
		return coreerr.Categorized(coreerr.ScriptError, coreerr.ScriptCallbackError, err)
	}
	return nil
}

// setDotted installs value at a dotted path ("gui.rectangle"), creating
// intermediate tables as needed.
func setDotted(L *lua.LState, path string, value lua.LValue) {
	parts := strings.Split(path, ".")
	if len(parts) == 1 {
		L.SetGlobal(path, value)
		return
	}
	tbl := L.GetGlobal(parts[0])
	if tbl == lua.LNil {
		t := L.NewTable()
		L.SetGlobal(parts[0], t)
		tbl = t
	}
	cur, ok := tbl.(*lua.LTable)
	if !ok {
		return
	}
	for _, p := range parts[1 : len(parts)-1] {
		next := L.GetField(cur, p)
		if next == lua.LNil {
			t := L.NewTable()
			L.SetField(cur, p, t)
			next = t
		}
		cur, ok = next.(*lua.LTable)
		if !ok {
			return
		}
	}
	L.SetField(cur, parts[len(parts)-1], value)
}

// clearDotted removes a dotted path's leaf.
func clearDotted(L *lua.LState, path string) {
	parts := strings.Split(path, ".")
	if len(parts) == 1 {
		L.SetGlobal(path, lua.LNil)
		return
	}
	cur := L.GetGlobal(parts[0])
	for _, p := range parts[1 : len(parts)-1] {
		tbl, ok := cur.(*lua.LTable)
		if !ok {
			return
		}
		cur = L.GetField(tbl, p)
	}
	if tbl, ok := cur.(*lua.LTable); ok {
		L.SetField(tbl, parts[len(parts)-1], lua.LNil)
	}
}
