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

package emulation_test

import (
	"testing"

	"github.com/lsnes-go/core/controller"
	"github.com/lsnes-go/core/emulation"
	"github.com/lsnes-go/core/framebuffer"
	"github.com/lsnes-go/core/movie"
	"github.com/lsnes-go/core/test"
)

// stubCore counts steps and records the frames it was fed. Every frame
// polls input; lagAt marks step indices that don't.
type stubCore struct {
	steps  int
	frames [][]byte
	lagAt  map[int]bool
	state  []byte
	sram   map[string][]byte
}

func (c *stubCore) Step(frame []byte) (emulation.StepResult, error) {
	polled := !c.lagAt[c.steps]
	c.steps++
	c.frames = append(c.frames, append([]byte(nil), frame...))
	return emulation.StepResult{Polled: polled}, nil
}

func (c *stubCore) Reset() error                { return nil }
func (c *stubCore) SaveState() ([]byte, error)  { return append([]byte(nil), c.state...), nil }
func (c *stubCore) LoadState(b []byte) error    { c.state = append([]byte(nil), b...); return nil }
func (c *stubCore) SRAM() map[string][]byte     { return c.sram }
func (c *stubCore) SetSRAM(m map[string][]byte) { c.sram = m }

// stubInput holds one button down.
type stubInput struct {
	port, controller, button int
	value                    int16
}

func (i *stubInput) Poll(port, controller, button int) int16 {
	if port == i.port && controller == i.controller && button == i.button {
		return i.value
	}
	return 0
}

func gamepadLayout(t *testing.T) *controller.Layout {
	t.Helper()
	set := controller.PortTypeSet{
		Ports: []controller.Port{{
			Name: "port1",
			Controllers: []controller.Controller{{
				Name: "gamepad",
				Buttons: []controller.Button{
					{Type: controller.BUTTON, Name: "A", RMin: 0, RMax: 1},
					{Type: controller.BUTTON, Name: "B", RMin: 0, RMax: 1},
				},
			}},
		}},
	}
	l, err := controller.NewLayout(set, []int{0})
	test.ExpectSuccess(t, err)
	return l
}

func newEmulator(t *testing.T, core *stubCore, input emulation.Input) *emulation.Emulator {
	t.Helper()
	layout := gamepadLayout(t)
	e := &emulation.Emulator{
		Core:  core,
		Input: input,
		Movie: movie.New("testsys", layout),
	}
	e.Start()
	return e
}

func TestRecordOneFrame(t *testing.T) {
	core := &stubCore{}
	e := newEmulator(t, core, &stubInput{button: 0, value: 1}) // hold A

	e.Requests.Submit(emulation.ReqSetMode, emulation.AdvanceFrame)
	test.ExpectEquality(t, e.Advance(), true)

	test.ExpectEquality(t, core.steps, 1)
	test.ExpectEquality(t, e.Frame(), uint64(1))
	test.ExpectEquality(t, e.Mode(), emulation.Paused)

	// the committed frame has the gamepad A bit set
	test.ExpectEquality(t, e.Movie.Input().Size(), uint64(1))
	frame, err := e.Movie.Input().Frame(0)
	test.ExpectSuccess(t, err)
	v, err := e.Movie.Layout().Get(frame, 0, 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, int16(1))
	test.ExpectEquality(t, frame[0], byte(0x01))
}

func TestReplayWinsOverLiveInput(t *testing.T) {
	layout := gamepadLayout(t)
	m := movie.New("testsys", layout)
	recorded := m.Input().Append()
	test.ExpectSuccess(t, layout.Set(recorded, 0, 1, 1)) // recorded B press

	core := &stubCore{}
	e := &emulation.Emulator{
		Core:  core,
		Input: &stubInput{button: 0, value: 1}, // live A press, must lose
		Movie: m,
	}
	e.Start()

	e.Requests.Submit(emulation.ReqSetMode, emulation.AdvanceFrame)
	test.ExpectEquality(t, e.Advance(), true)

	test.ExpectEquality(t, core.steps, 1)
	b, err := layout.Get(core.frames[0], 0, 1)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, b, int16(1))
	a, err := layout.Get(core.frames[0], 0, 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, a, int16(0))

	// replaying did not extend the movie
	test.ExpectEquality(t, m.Input().Size(), uint64(1))
}

func TestLagFrameDoesNotAdvance(t *testing.T) {
	core := &stubCore{lagAt: map[int]bool{0: true}}
	e := newEmulator(t, core, nil)

	e.Requests.Submit(emulation.ReqSetMode, emulation.AdvanceFrame)
	test.ExpectEquality(t, e.Advance(), true)

	test.ExpectEquality(t, e.Frame(), uint64(0))
	test.ExpectEquality(t, e.Lagged(), uint64(1))
	test.ExpectEquality(t, e.Movie.Input().Size(), uint64(0))
}

func TestPausedAdvanceRunsNothing(t *testing.T) {
	core := &stubCore{}
	e := newEmulator(t, core, nil)

	test.ExpectEquality(t, e.Advance(), true)
	test.ExpectEquality(t, core.steps, 0)
	test.ExpectEquality(t, e.Mode(), emulation.Paused)
}

func TestAutofirePattern(t *testing.T) {
	o := emulation.NewOverrides()
	ref := emulation.Buttonref{Port: 0, Controller: 0, Button: 0}
	o.SetFire(ref, 1, 3)

	// duty 1, cycle 3: asserted on frames 0, 3, 6, ...
	test.ExpectEquality(t, o.Apply(ref, 0, 0), int16(1))
	test.ExpectEquality(t, o.Apply(ref, 1, 0), int16(0))
	test.ExpectEquality(t, o.Apply(ref, 2, 0), int16(0))
	test.ExpectEquality(t, o.Apply(ref, 3, 0), int16(1))

	o.SetFire(ref, 0, 0) // clear
	test.ExpectEquality(t, o.Apply(ref, 0, 0), int16(0))
}

func TestAutoholdToggle(t *testing.T) {
	o := emulation.NewOverrides()
	ref := emulation.Buttonref{Port: 0, Controller: 0, Button: 1}

	test.ExpectEquality(t, o.ToggleHold(ref), true)
	test.ExpectEquality(t, o.Apply(ref, 5, 0), int16(1))
	test.ExpectEquality(t, o.ToggleHold(ref), false)
	test.ExpectEquality(t, o.Apply(ref, 5, 0), int16(0))

	// live input passes through when no override applies
	test.ExpectEquality(t, o.Apply(ref, 5, 1), int16(1))
}

func TestSaveAndLoadState(t *testing.T) {
	core := &stubCore{state: []byte{1, 2, 3}, sram: map[string][]byte{"w": {4}}}
	e := newEmulator(t, core, &stubInput{button: 0, value: 1})

	// record two frames
	for i := 0; i < 2; i++ {
		e.Requests.Submit(emulation.ReqSetMode, emulation.AdvanceFrame)
		test.ExpectEquality(t, e.Advance(), true)
	}
	test.ExpectEquality(t, e.Frame(), uint64(2))

	test.ExpectSuccess(t, e.SaveState())
	test.ExpectEquality(t, e.Movie.Dyn.SaveFrame, uint64(2))
	test.ExpectEquality(t, e.Movie.IsSavestate(), true)

	before := e.Movie.RRData.Count()
	test.ExpectSuccess(t, e.LoadState())
	test.ExpectEquality(t, e.Frame(), uint64(2))
	test.ExpectEquality(t, e.Movie.RRData.Count(), before+1)
}

func TestStop(t *testing.T) {
	core := &stubCore{}
	e := newEmulator(t, core, nil)
	e.Stop()
	test.ExpectEquality(t, e.Advance(), false)
	test.ExpectEquality(t, e.Advance(), false)
}

var _ emulation.Display = displayStub{}

// displayStub proves the Display contract is satisfiable with a frame
// copy alone.
type displayStub struct{}

func (displayStub) Present(fb *framebuffer.Rendered) {}
