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

// Package controller implements the port-type set that describes a
// console's controller layout and the pageable per-frame input vector
// a movie stores against it. The wire layout packs digital buttons as
// bits and analog fields as bytes.
package controller

// ButtonType distinguishes digital buttons from analog axes and
// lightguns for layout and wire-packing purposes.
type ButtonType int

const (
	// BUTTON is a single on/off digital input, packed as one bit.
	BUTTON ButtonType = iota
	// AXIS is a signed analog value in [RMin, RMax], packed as one byte.
	AXIS
	// RAXIS is an axis whose polarity is reversed relative to AXIS
	// (e.g. a trigger that reads 0 at rest instead of centered).
	RAXIS
	// LIGHTGUN is a screen-space coordinate axis; like AXIS, one byte.
	LIGHTGUN
)

func (t ButtonType) String() string {
	switch t {
	case BUTTON:
		return "button"
	case AXIS:
		return "axis"
	case RAXIS:
		return "raxis"
	case LIGHTGUN:
		return "lightgun"
	default:
		return "unknown"
	}
}

// Button describes one input of a controller: its wire type, its
// human-readable name, its legal range for analog types, whether the
// range is centered at zero (Centers) and whether it should stay hidden
// from ordinary UI display (Shadow, e.g. internal/debug-only inputs).
type Button struct {
	Type    ButtonType
	Name    string
	RMin    int16
	RMax    int16
	Centers bool
	Shadow  bool
}

// bits returns how many bits of frame storage this button consumes.
func (b Button) bits() int {
	if b.Type == BUTTON {
		return 1
	}
	return 8
}

// Controller is a named bundle of buttons/axes, e.g. a gamepad or a
// mouse.
type Controller struct {
	Name    string
	Buttons []Button
}

// Port is a single controller port: a name and the set of controller
// kinds that may be plugged into it (e.g. "none", "gamepad", "mouse").
type Port struct {
	Name        string
	Controllers []Controller
}

// PortTypeSet is the ordered port → controller → button tree that
// determines a movie's per-frame wire layout. The set is fixed for the
// lifetime of a movie; changing it requires a new movie.
type PortTypeSet struct {
	Ports []Port
}
