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

package controller_test

import (
	"bytes"
	"testing"

	"github.com/lsnes-go/core/controller"
	"github.com/lsnes-go/core/test"
)

func gamepadSet() controller.PortTypeSet {
	pad := controller.Controller{
		Name: "gamepad",
		Buttons: []controller.Button{
			{Type: controller.BUTTON, Name: "A"},
			{Type: controller.BUTTON, Name: "B"},
			{Type: controller.AXIS, Name: "stick-x", RMin: -127, RMax: 127, Centers: true},
		},
	}
	return controller.PortTypeSet{Ports: []controller.Port{
		{Name: "port1", Controllers: []controller.Controller{{Name: "none"}, pad}},
		{Name: "port2", Controllers: []controller.Controller{{Name: "none"}, pad}},
	}}
}

func TestLayoutBitAndBytePacking(t *testing.T) {
	set := gamepadSet()
	layout, err := controller.NewLayout(set, []int{1, 1})
	test.ExpectSuccess(t, err)

	// 2 controllers x 2 buttons = 4 bits -> 1 byte, plus 2 analog bytes.
	test.ExpectEquality(t, layout.FrameSize(), 3)

	frame := make([]byte, layout.FrameSize())
	test.ExpectSuccess(t, layout.Set(frame, 0, 0, 1)) // port0 button A
	test.ExpectSuccess(t, layout.Set(frame, 1, 1, 1)) // port1 button B
	test.ExpectSuccess(t, layout.Set(frame, 0, 2, 64))

	v, err := layout.Get(frame, 0, 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, int16(1))

	v, err = layout.Get(frame, 1, 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, int16(0))

	v, err = layout.Get(frame, 0, 2)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, int16(64))
}

func TestLayoutClampsToRange(t *testing.T) {
	set := gamepadSet()
	layout, err := controller.NewLayout(set, []int{1, 0})
	test.ExpectSuccess(t, err)

	frame := make([]byte, layout.FrameSize())
	test.ExpectSuccess(t, layout.Set(frame, 0, 2, 200))
	v, err := layout.Get(frame, 0, 2)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, int16(127))
}

func TestFrameVectorAppendAndBinaryRoundTrip(t *testing.T) {
	set := gamepadSet()
	layout, err := controller.NewLayout(set, []int{1, 1})
	test.ExpectSuccess(t, err)

	fv := controller.NewFrameVector(layout)
	f0 := fv.Append()
	layout.Set(f0, 0, 0, 1)
	f1 := fv.Append()
	layout.Set(f1, 1, 1, 1)

	test.ExpectEquality(t, fv.Size(), uint64(2))

	var buf bytes.Buffer
	test.ExpectSuccess(t, fv.SaveBinary(&buf))

	fv2 := controller.NewFrameVector(layout)
	test.ExpectSuccess(t, fv2.LoadBinary(&buf))
	test.ExpectEquality(t, fv2.Size(), uint64(2))

	frame, err := fv2.Frame(0)
	test.ExpectSuccess(t, err)
	v, err := layout.Get(frame, 0, 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, int16(1))
}

func TestFrameVectorPaging(t *testing.T) {
	set := gamepadSet()
	layout, err := controller.NewLayout(set, []int{0, 0})
	test.ExpectSuccess(t, err)

	fv := controller.NewFrameVector(layout)
	test.ExpectEquality(t, fv.FramesPerPage() > 0, true)

	buf := fv.GetPageBuffer(0)
	test.ExpectEquality(t, len(buf), fv.FramesPerPage()*layout.FrameSize())
}
