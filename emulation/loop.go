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

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/lsnes-go/core/coreerr"
	"github.com/lsnes-go/core/coroutine"
	"github.com/lsnes-go/core/framebuffer"
	"github.com/lsnes-go/core/logger"
	"github.com/lsnes-go/core/movie"
	"github.com/lsnes-go/core/render"
	"github.com/lsnes-go/core/script"
)

// Emulator owns the per-session state the frame loop mutates: the
// movie being recorded or replayed, the live override set, the script
// state whose callbacks observe each frame, and the coroutine the loop
// runs on. All fields are touched only from the emulation coroutine
// once Start has been called; the UI reaches in exclusively through
// Requests.
type Emulator struct {
	Core    Core
	Display Display
	Audio   Audio
	UI      UI
	Input   Input
	Clock   Clock

	Movie     *movie.Movie
	Script    *script.State
	RenderCtx *script.RenderContext

	Requests RequestQueue

	// HScale and VScale upscale the core's raw frame before painting;
	// both default to 1.
	HScale, VScale uint32

	mode Mode
	co   *coroutine.Coroutine

	// frame is the index of the next frame to consume or record on
	// the current branch; lagged counts frames the guest never polled.
	frame  uint64
	lagged uint64

	overrides *Overrides
	fb        *framebuffer.Rendered
	queue     *render.Queue

	readOnly bool
}

// Start spins up the emulation coroutine, initially paused. Must be
// called from the goroutine that will pump Advance.
func (e *Emulator) Start() {
	if e.HScale == 0 {
		e.HScale = 1
	}
	if e.VScale == 0 {
		e.VScale = 1
	}
	e.mode = Paused
	e.overrides = NewOverrides()
	e.fb = framebuffer.NewRendered()
	e.frame = e.Movie.Dyn.SaveFrame
	e.lagged = e.Movie.Dyn.LaggedFrames
	e.co = coroutine.New(func(co *coroutine.Coroutine, _ any) {
		e.loop(co)
	}, nil)
}

// Advance resumes the emulation coroutine for one scheduling slice:
// one frame in a running mode, or just a request drain when paused.
// Returns false once the loop has ended.
func (e *Emulator) Advance() bool {
	if e.co == nil || e.co.IsDead() {
		return false
	}
	e.co.Resume()
	return !e.co.IsDead()
}

// Stop asks the loop to end; the next Advance returns false.
func (e *Emulator) Stop() {
	e.Requests.Submit(ReqSetMode, Ending)
}

// Mode reports the current frame-advance mode.
func (e *Emulator) Mode() Mode { return e.mode }

// Frame reports the current frame index.
func (e *Emulator) Frame() uint64 { return e.frame }

// Lagged reports the lag frame count.
func (e *Emulator) Lagged() uint64 { return e.lagged }

// SetReadOnly switches between read-only replay (movie input is never
// modified) and recording.
func (e *Emulator) SetReadOnly(ro bool) { e.readOnly = ro }

// loop is the emulation coroutine body.
func (e *Emulator) loop(co *coroutine.Coroutine) {
	for {
		e.drainRequests()
		switch e.mode {
		case Ending:
			return
		case Paused:
			co.Yield()
			continue
		}

		if err := e.runFrame(); err != nil {
			logger.Logf(logger.Allow, "emulation", "frame %d: %v", e.frame, err)
			e.mode = Paused
		}

		switch e.mode {
		case AdvanceFrame, AdvanceSubframe:
			e.mode = Paused
		}
		co.Yield()
	}
}

func (e *Emulator) drainRequests() {
	for _, r := range e.Requests.drain() {
		typed := true
		switch r.req {
		case ReqSetMode:
			if m, ok := r.data.(Mode); ok {
				e.mode = m
			} else {
				typed = false
			}
		case ReqToggleAutohold:
			if ref, ok := r.data.(Buttonref); ok {
				e.overrides.ToggleHold(ref)
			} else {
				typed = false
			}
		case ReqSetAutofire:
			if af, ok := r.data.(AutofireReq); ok {
				e.overrides.SetFire(af.Ref, af.Duty, af.Cycle)
			} else {
				typed = false
			}
		case ReqSelectBranch:
			if name, ok := r.data.(string); ok {
				e.selectBranch(name)
			} else {
				typed = false
			}
		default:
			logger.Logf(logger.Allow, "emulation", "unsupported feature request: %v", r.req)
		}
		if !typed {
			logger.Logf(logger.Allow, "emulation", "feature request %v: unexpected data type %T", r.req, r.data)
		}
	}
}

// selectBranch switches the movie's current branch, clamping the frame
// cursor to the new branch's length.
func (e *Emulator) selectBranch(name string) {
	if _, ok := e.Movie.Branches[name]; !ok {
		logger.Logf(logger.Allow, "emulation", "no such branch: %q", name)
		return
	}
	e.Movie.CurrentBranch = name
	if n := e.Movie.Input().Size(); e.frame > n {
		e.frame = n
	}
}

// runFrame is one trip through the frame pipeline.
func (e *Emulator) runFrame() error {
	frame, err := e.assembleInput()
	if err != nil {
		return err
	}

	result, err := e.Core.Step(frame)
	if err != nil {
		return coreerr.Errorf("emulation: core step: %v", err)
	}

	if result.Polled {
		if err := e.commitInput(frame); err != nil {
			return err
		}
		e.frame++
	} else {
		e.lagged++
	}

	e.paint(result.Frame)

	if e.Display != nil {
		e.Display.Present(e.fb)
	}
	if e.Audio != nil {
		e.Audio.Submit(result.Audio)
	}
	if e.UI != nil {
		e.UI.NotifyStatus(map[string]string{
			"frame": fmt.Sprintf("%d", e.frame),
			"lag":   fmt.Sprintf("%d", e.lagged),
			"mode":  e.mode.String(),
		})
	}
	return nil
}

// assembleInput builds the controller frame for this step. Sources
// merge in priority order: recorded movie input wins outright during
// replay; otherwise live polling filtered through autofire and
// autohold. The scripted on_input callback is then invoked with the frame
// number only; it receives neither the assembled frame nor a way to change it.
func (e *Emulator) assembleInput() ([]byte, error) {
	layout := e.Movie.Layout()
	input := e.Movie.Input()
	buf := make([]byte, layout.FrameSize())

	if e.frame < input.Size() {
		recorded, err := input.Frame(e.frame)
		if err != nil {
			return nil, err
		}
		copy(buf, recorded)
	} else {
		for pi, port := range layout.TypeSet.Ports {
			ci := layout.Active[pi]
			for bi := range port.Controllers[ci].Buttons {
				var live int16
				if e.Input != nil {
					live = e.Input.Poll(pi, ci, bi)
				}
				ref := Buttonref{Port: pi, Controller: ci, Button: bi}
				v := e.overrides.Apply(ref, e.frame, live)
				if err := layout.Set(buf, pi, bi, v); err != nil {
					return nil, err
				}
			}
		}
	}

	if e.Script != nil {
		if _, err := e.Script.Callback("on_input", e.frame); err != nil {
			logger.Logf(logger.Allow, "script", "on_input: %v", err)
		}
	}
	return buf, nil
}

// commitInput records the consumed frame on the current branch. During
// replay of existing input the branch is left untouched; in read-only
// mode nothing is ever written.
func (e *Emulator) commitInput(frame []byte) error {
	input := e.Movie.Input()
	if e.frame < input.Size() {
		return nil
	}
	if e.readOnly {
		return coreerr.Categorized(coreerr.ReadOnlyViolation, coreerr.MovieReadOnly)
	}
	copy(input.Append(), frame)
	return nil
}

// paint scales the raw frame into the rendered framebuffer, runs the
// scripted paint callbacks with a fresh render queue, then composites
// the queue over the frame.
func (e *Emulator) paint(raw *framebuffer.Raw) {
	if raw != nil {
		e.fb.SetSize(raw.Width()*e.HScale, raw.Height()*e.VScale)
		e.fb.CopyFrom(raw, e.HScale, e.VScale)
	}

	e.queue = &render.Queue{}
	if e.RenderCtx != nil {
		e.RenderCtx.Queue = e.queue
		defer func() { e.RenderCtx.Queue = nil }()
	}
	if e.Script != nil {
		if _, err := e.Script.Callback("on_paint", e.frame); err != nil {
			logger.Logf(logger.Allow, "script", "on_paint: %v", err)
		}
		if _, err := e.Script.Callback("on_video", e.frame); err != nil {
			logger.Logf(logger.Allow, "script", "on_video: %v", err)
		}
	}
	e.queue.Run(e.fb)
	e.queue.Clear()
}

// Rerecord mints a fresh random token into the movie's rerecord set.
// Called on every load-state while recording.
func (e *Emulator) Rerecord() {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return
	}
	e.Movie.RRData.Add(binary.BigEndian.Uint64(b[:]))
}

// SaveState captures the core's state into the movie's dynamic state.
func (e *Emulator) SaveState() error {
	state, err := e.Core.SaveState()
	if err != nil {
		return coreerr.Categorized(coreerr.IoFailure, "emulation: save state: %v", err)
	}
	e.Movie.Dyn.Savestate = state
	e.Movie.Dyn.SaveFrame = e.frame
	e.Movie.Dyn.LaggedFrames = e.lagged
	e.Movie.Dyn.SRAM = e.Core.SRAM()
	if e.Clock != nil {
		us := e.Clock.NowMicroseconds()
		e.Movie.Dyn.RTCSecond = uint64(us / 1e6)
		e.Movie.Dyn.RTCSubsecond = uint64(us % 1e6)
	}
	return nil
}

// LoadState restores the movie's dynamic state into the core and
// counts a rerecord.
func (e *Emulator) LoadState() error {
	if len(e.Movie.Dyn.Savestate) == 0 {
		return coreerr.Categorized(coreerr.InvalidState, "emulation: movie has no savestate")
	}
	if err := e.Core.LoadState(e.Movie.Dyn.Savestate); err != nil {
		return coreerr.Categorized(coreerr.IoFailure, "emulation: load state: %v", err)
	}
	e.Core.SetSRAM(e.Movie.Dyn.SRAM)
	e.frame = e.Movie.Dyn.SaveFrame
	e.lagged = e.Movie.Dyn.LaggedFrames
	if !e.readOnly {
		e.Rerecord()
		if n := e.frame; n < e.Movie.Input().Size() {
			// rerecording rewrites the timeline from here on.
			_ = e.Movie.Input().Truncate(n)
		}
	}
	return nil
}
