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

package controller

import (
	"fmt"

	"github.com/lsnes-go/core/coreerr"
)

// field locates one button's storage within a frame: either a bit
// position (BUTTON) or a byte offset (everything else).
type field struct {
	portIndex, buttonIndex int
	btype                  ButtonType
	bitPos                 int
	byteOff                int
}

// Layout computes the fixed per-frame wire layout for a PortTypeSet once
// a controller has been chosen for each port (movies fix this choice for
// their whole duration; switching controllers mid-movie isn't modeled
// here; the port-type set is a per-movie constant).
//
// Digital buttons across all ports are bit-packed contiguously first,
// rounded up to a whole number of bytes; analog fields (AXIS, RAXIS,
// LIGHTGUN) follow as one byte each, keeping layout arithmetic simple.
type Layout struct {
	TypeSet    PortTypeSet
	Active     []int
	fields     []field
	bitBytes   int
	frameBytes int
}

// NewLayout builds a Layout for set, where active[i] selects which
// controller is plugged into Set.Ports[i]. Returns
// coreerr.Category(OutOfRange) if active is the wrong length or any
// entry selects a controller that port doesn't have.
func NewLayout(set PortTypeSet, active []int) (*Layout, error) {
	if len(active) != len(set.Ports) {
		return nil, coreerr.Categorized(coreerr.OutOfRange, "controller: active selection has %d entries, want %d", len(active), len(set.Ports))
	}
	l := &Layout{TypeSet: set, Active: append([]int(nil), active...)}

	bitPos := 0
	var analog []field
	for pi, port := range set.Ports {
		ci := active[pi]
		if ci < 0 || ci >= len(port.Controllers) {
			return nil, coreerr.Categorized(coreerr.OutOfRange, "controller: port %q has no controller index %d", port.Name, ci)
		}
		for bi, b := range port.Controllers[ci].Buttons {
			if b.Type == BUTTON {
				l.fields = append(l.fields, field{portIndex: pi, buttonIndex: bi, btype: BUTTON, bitPos: bitPos})
				bitPos++
			} else {
				analog = append(analog, field{portIndex: pi, buttonIndex: bi, btype: b.Type})
			}
		}
	}
	l.bitBytes = (bitPos + 7) / 8
	off := l.bitBytes
	for i := range analog {
		analog[i].byteOff = off
		off++
	}
	l.fields = append(l.fields, analog...)
	l.frameBytes = off
	return l, nil
}

// FrameSize returns the number of bytes one frame occupies.
func (l *Layout) FrameSize() int { return l.frameBytes }

func (l *Layout) find(portIndex, buttonIndex int) (field, error) {
	for _, f := range l.fields {
		if f.portIndex == portIndex && f.buttonIndex == buttonIndex {
			return f, nil
		}
	}
	return field{}, coreerr.Categorized(coreerr.OutOfRange, "controller: no such field (port %d, button %d)", portIndex, buttonIndex)
}

// button looks up the Button descriptor backing a (portIndex,
// buttonIndex) pair under this layout's active controller selection.
func (l *Layout) button(portIndex, buttonIndex int) Button {
	ci := l.Active[portIndex]
	return l.TypeSet.Ports[portIndex].Controllers[ci].Buttons[buttonIndex]
}

// Get reads one field's value out of frame, a buffer at least
// FrameSize() bytes long.
func (l *Layout) Get(frame []byte, portIndex, buttonIndex int) (int16, error) {
	f, err := l.find(portIndex, buttonIndex)
	if err != nil {
		return 0, err
	}
	if f.btype == BUTTON {
		byteIdx := f.bitPos / 8
		bit := uint(f.bitPos % 8)
		if byteIdx >= len(frame) {
			return 0, coreerr.Categorized(coreerr.OutOfRange, "controller: frame too short")
		}
		if frame[byteIdx]&(1<<bit) != 0 {
			return 1, nil
		}
		return 0, nil
	}
	if f.byteOff >= len(frame) {
		return 0, coreerr.Categorized(coreerr.OutOfRange, "controller: frame too short")
	}
	return int16(int8(frame[f.byteOff])), nil
}

// Set writes value into the field at (portIndex, buttonIndex). Analog
// values are clamped to the button's declared [RMin, RMax] range;
// digital buttons record any nonzero value as pressed.
func (l *Layout) Set(frame []byte, portIndex, buttonIndex int, value int16) error {
	f, err := l.find(portIndex, buttonIndex)
	if err != nil {
		return err
	}
	if f.btype != BUTTON {
		b := l.button(portIndex, buttonIndex)
		if value < b.RMin {
			value = b.RMin
		}
		if value > b.RMax {
			value = b.RMax
		}
	}
	if f.btype == BUTTON {
		byteIdx := f.bitPos / 8
		bit := uint(f.bitPos % 8)
		if byteIdx >= len(frame) {
			return coreerr.Categorized(coreerr.OutOfRange, "controller: frame too short")
		}
		if value != 0 {
			frame[byteIdx] |= 1 << bit
		} else {
			frame[byteIdx] &^= 1 << bit
		}
		return nil
	}
	if f.byteOff >= len(frame) {
		return coreerr.Categorized(coreerr.OutOfRange, "controller: frame too short")
	}
	frame[f.byteOff] = byte(int8(value))
	return nil
}

// String renders the layout as a debugging aid: one line per field.
func (l *Layout) String() string {
	s := fmt.Sprintf("layout: %d bytes/frame\n", l.frameBytes)
	for _, f := range l.fields {
		s += fmt.Sprintf("  port=%d button=%d type=%s\n", f.portIndex, f.buttonIndex, f.btype)
	}
	return s
}
