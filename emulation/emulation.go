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

// Package emulation drives one emulated frame per scheduler resume: it
// assembles the controller frame from recorded input and live
// overrides, steps the console core, lets scripted callbacks paint
// over the frame through the render queue, and publishes the result to
// the display and audio sinks. The console core itself, the display,
// the audio device and the input device are all external collaborators
// reached only through the interfaces defined here.
package emulation

import (
	"github.com/lsnes-go/core/framebuffer"
)

// Mode is the frame-advance mode the loop is in.
type Mode int

const (
	// FreeRun emulates continuously.
	FreeRun Mode = iota

	// Paused holds at the current frame until told otherwise.
	Paused

	// AdvanceFrame runs exactly one frame and drops to Paused.
	AdvanceFrame

	// AdvanceSubframe runs one whole frame, exactly as AdvanceFrame does,
	// and drops to Paused. Core.Step runs whole frames, so stepping stops
	// only at frame boundaries, never at an input poll inside a frame.
	AdvanceSubframe

	// Ending shuts the loop down.
	Ending
)

func (m Mode) String() string {
	switch m {
	case FreeRun:
		return "free-run"
	case Paused:
		return "paused"
	case AdvanceFrame:
		return "advance-frame"
	case AdvanceSubframe:
		return "advance-subframe"
	case Ending:
		return "ending"
	default:
		return "unknown"
	}
}

// AudioSlice is one frame's worth of audio samples from the core.
type AudioSlice []int16

// StepResult is what the console core hands back per frame.
type StepResult struct {
	Frame *framebuffer.Raw
	Audio AudioSlice

	// Polled is true when the guest read its controllers this frame.
	// A frame with no poll is a lag frame and does not consume movie
	// input.
	Polled bool
}

// Core is the emulated console. Implementations live outside this
// module; frame stepping is the only hot-path call.
type Core interface {
	Step(frame []byte) (StepResult, error)
	Reset() error
	SaveState() ([]byte, error)
	LoadState([]byte) error
	SRAM() map[string][]byte
	SetSRAM(map[string][]byte)
}

// Display receives the composited frame.
type Display interface {
	Present(fb *framebuffer.Rendered)
}

// Audio receives each frame's audio slice.
type Audio interface {
	Submit(slice AudioSlice)
}

// UI receives status updates. NotifyStatus keys are short stable
// identifiers ("frame", "mode", "rerecords"); NotifyScreenUpdate asks
// for a redraw outside the normal frame flow.
type UI interface {
	NotifyStatus(kv map[string]string)
	NotifyScreenUpdate()
}

// Input polls the live controller hardware for one button's current
// sample.
type Input interface {
	Poll(port, controller, button int) int16
}

// Clock supplies wall time for the movie RTC.
type Clock interface {
	NowMicroseconds() int64
}
