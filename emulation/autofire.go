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

package emulation

// autofire is one button's pattern: asserted on frames where
// frame % Cycle < Duty.
type autofire struct {
	duty  uint32
	cycle uint32
}

// Overrides tracks the per-button autohold and autofire state layered
// between recorded movie input and live polling.
type Overrides struct {
	hold map[Buttonref]bool
	fire map[Buttonref]autofire
}

// NewOverrides returns an empty override set.
func NewOverrides() *Overrides {
	return &Overrides{
		hold: map[Buttonref]bool{},
		fire: map[Buttonref]autofire{},
	}
}

// ToggleHold flips autohold for one button and reports the new state.
func (o *Overrides) ToggleHold(ref Buttonref) bool {
	o.hold[ref] = !o.hold[ref]
	if !o.hold[ref] {
		delete(o.hold, ref)
	}
	return o.hold[ref]
}

// SetFire installs an autofire pattern; duty 0 clears it.
func (o *Overrides) SetFire(ref Buttonref, duty, cycle uint32) {
	if duty == 0 || cycle == 0 {
		delete(o.fire, ref)
		return
	}
	if duty > cycle {
		duty = cycle
	}
	o.fire[ref] = autofire{duty: duty, cycle: cycle}
}

// Apply merges the overrides into a live sample for one button on one
// frame. Autofire takes precedence over autohold; an asserted override
// forces the button on, otherwise the live sample passes through.
func (o *Overrides) Apply(ref Buttonref, frame uint64, live int16) int16 {
	if af, ok := o.fire[ref]; ok {
		if uint32(frame%uint64(af.cycle)) < af.duty {
			return 1
		}
		return live
	}
	if o.hold[ref] {
		return 1
	}
	return live
}
