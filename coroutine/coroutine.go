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

// Package coroutine provides the cooperative two-task scheduler the
// emulation loop runs on. A Coroutine is a goroutine locked into strict
// rendezvous with its creator: exactly one of the two is ever runnable,
// control moving only at Resume and Yield. That keeps every mutation of
// the movie, memory space and render queue in program order with no
// locking, exactly as a hand-rolled stack-switching implementation
// would, while letting the runtime own the stacks.
package coroutine

import (
	"fmt"

	"github.com/lsnes-go/core/assert"
)

// Coroutine is a suspended task. Resume is only legal from the
// goroutine that created it ("main"); Yield and Exit only from inside
// the task.
type Coroutine struct {
	// resume wakes the task; yield hands control back. Both are
	// unbuffered so a send is a full rendezvous.
	resume chan struct{}
	yield  chan struct{}

	mainID uint64
	taskID uint64

	dead bool
}

// Entry is a coroutine body. It receives its own Coroutine so it can
// Yield; returning makes the coroutine dead.
type Entry func(co *Coroutine, arg any)

// New creates a coroutine running fn and lets it run until its first
// Yield (or until it returns immediately). Must be called from the
// goroutine that will do all subsequent Resume calls.
func New(fn Entry, arg any) *Coroutine {
	co := &Coroutine{
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
		mainID: assert.GetGoRoutineID(),
	}
	go func() {
		<-co.resume
		co.taskID = assert.GetGoRoutineID()
		defer func() {
			// a body that panics is dead like one that returned; the
			// panic propagates after control is handed back.
			co.dead = true
			r := recover()
			co.yield <- struct{}{}
			if r != nil && r != exitSentinel {
				panic(r)
			}
		}()
		fn(co, arg)
	}()
	co.unsafeResume()
	return co
}

// exitSentinel is the panic value Exit unwinds with.
var exitSentinel = new(int)

// Resume transfers control to the coroutine until it yields or dies.
// Resuming a dead coroutine is a fatal scheduling error.
func (co *Coroutine) Resume() {
	if assert.GetGoRoutineID() != co.mainID {
		fatal("Resume called from wrong task")
	}
	if co.dead {
		fatal("Resume called on dead coroutine")
	}
	co.unsafeResume()
}

func (co *Coroutine) unsafeResume() {
	co.resume <- struct{}{}
	<-co.yield
}

// Yield suspends the coroutine until the next Resume. Only legal from
// inside the coroutine.
func (co *Coroutine) Yield() {
	if assert.GetGoRoutineID() != co.taskID {
		fatal("Yield called from wrong task")
	}
	co.yield <- struct{}{}
	<-co.resume
}

// Exit marks the coroutine dead and yields for the last time. It does
// not return.
func (co *Coroutine) Exit() {
	if assert.GetGoRoutineID() != co.taskID {
		fatal("Exit called from wrong task")
	}
	panic(exitSentinel)
}

// IsDead reports whether the coroutine's body has returned or called
// Exit.
func (co *Coroutine) IsDead() bool { return co.dead }

// fatal reports a scheduling violation. These are programming errors
// with no recovery path; the scheduler aborts with a diagnostic.
func fatal(msg string) {
	panic(fmt.Sprintf("coroutine: invalid state: %s", msg))
}
