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

// Package debugfacility implements address-keyed watchpoint registries
// (read, write, execute) and a cheat table. The callback surface is
// intentionally a plain Go func value rather than anything
// scripting-specific; the scripting bridge (package script) wires its
// own object-pinned closures through it.
package debugfacility

// Callback is invoked when a watchpoint fires. addr is the global
// address that triggered it; value is the byte read or written (for
// execute watchpoints it is the opcode fetched, if the caller supplies
// one).
type Callback func(addr uint64, value uint8)

// kind distinguishes the three watchpoint registries.
type kind int

const (
	read kind = iota
	write
	exec
)

// Facility holds the three watchpoint registries and the cheat table
// for one emulated address space.
type Facility struct {
	watches [3]map[uint64][]Callback
	cheats  map[uint64]uint8
}

// New returns an empty Facility.
func New() *Facility {
	f := &Facility{cheats: make(map[uint64]uint8)}
	for i := range f.watches {
		f.watches[i] = make(map[uint64][]Callback)
	}
	return f
}

// RegisterRead adds cb to addr's read-watchpoint list.
func (f *Facility) RegisterRead(addr uint64, cb Callback) { f.register(read, addr, cb) }

// RegisterWrite adds cb to addr's write-watchpoint list.
func (f *Facility) RegisterWrite(addr uint64, cb Callback) { f.register(write, addr, cb) }

// RegisterExecute adds cb to addr's execute-watchpoint list.
func (f *Facility) RegisterExecute(addr uint64, cb Callback) { f.register(exec, addr, cb) }

func (f *Facility) register(k kind, addr uint64, cb Callback) {
	f.watches[k][addr] = append(f.watches[k][addr], cb)
}

// UnregisterRead, UnregisterWrite and UnregisterExecute drop every
// callback registered for addr in the corresponding registry.
func (f *Facility) UnregisterRead(addr uint64)    { delete(f.watches[read], addr) }
func (f *Facility) UnregisterWrite(addr uint64)   { delete(f.watches[write], addr) }
func (f *Facility) UnregisterExecute(addr uint64) { delete(f.watches[exec], addr) }

// OnRead fires every read watchpoint registered at addr.
func (f *Facility) OnRead(addr uint64, value uint8) { f.fire(read, addr, value) }

// OnWrite fires every write watchpoint registered at addr.
func (f *Facility) OnWrite(addr uint64, value uint8) { f.fire(write, addr, value) }

// OnExecute fires every execute watchpoint registered at addr.
func (f *Facility) OnExecute(addr uint64, value uint8) { f.fire(exec, addr, value) }

func (f *Facility) fire(k kind, addr uint64, value uint8) {
	for _, cb := range f.watches[k][addr] {
		cb(addr, value)
	}
}

// HasRead, HasWrite and HasExecute report whether addr has any
// watchpoint registered in the corresponding registry, letting a hot
// read/write/fetch path skip the fire call entirely when nothing is
// watching.
func (f *Facility) HasRead(addr uint64) bool    { return len(f.watches[read][addr]) > 0 }
func (f *Facility) HasWrite(addr uint64) bool   { return len(f.watches[write][addr]) > 0 }
func (f *Facility) HasExecute(addr uint64) bool { return len(f.watches[exec][addr]) > 0 }

// SetCheat installs a cheat value at addr, applied on every subsequent
// read that consults the cheat table.
func (f *Facility) SetCheat(addr uint64, value uint8) { f.cheats[addr] = value }

// GetCheat returns the cheat value at addr and whether one is set.
func (f *Facility) GetCheat(addr uint64) (uint8, bool) {
	v, ok := f.cheats[addr]
	return v, ok
}

// ClearCheat removes the cheat at addr, if any.
func (f *Facility) ClearCheat(addr uint64) { delete(f.cheats, addr) }

// Apply returns value unless addr has a cheat installed, in which case
// it returns the cheat's value instead. Callers apply this after a
// normal memory read and before handing the byte to the rest of the
// system.
func (f *Facility) Apply(addr uint64, value uint8) uint8 {
	if v, ok := f.cheats[addr]; ok {
		return v
	}
	return value
}
