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

// Package render implements the retained-mode 2D render queue
// composited onto each emulated frame, plus the concrete drawing
// primitives the scripting bridge's drawing bindings map onto 1:1.
package render

import "github.com/lsnes-go/core/framebuffer"

// Object is one entry in a Queue. Concrete kinds (Pixel, Box,
// Rectangle, SolidRectangle, Circle, Crosshair, Text) all implement
// it. The queue owns object lifetime; a slice stands in for the page
// arena a manually-managed implementation would need.
type Object interface {
	// Apply draws the object onto fb. Panics from Apply are recovered
	// by Queue.Run so one misbehaving object can't block the rest.
	Apply(fb *framebuffer.Rendered)
	// Clone returns a deep copy of the object, used by Queue.CloneFrom.
	Clone() Object
}

// Killable is implemented by objects that track an opaque tag so a
// script can later ask the queue to remove everything it drew under
// that tag.
type Killable interface {
	// KillRequest reports whether this object matches tag and should be
	// removed.
	KillRequest(tag any) bool
}

type entry struct {
	obj    Object
	killed bool
}

// Queue is an append-only, ordered list of render Objects. The zero Queue
// is ready to use.
type Queue struct {
	entries []entry
}

// Add appends obj to the queue.
func (q *Queue) Add(obj Object) {
	q.entries = append(q.entries, entry{obj: obj})
}

// Run draws every non-killed object onto fb in insertion order. A panic
// from any single object's Apply is recovered and that object skipped,
// so a misbehaving script cannot prevent subsequent objects from
// rendering.
func (q *Queue) Run(fb *framebuffer.Rendered) {
	for i := range q.entries {
		if q.entries[i].killed {
			continue
		}
		applySafely(q.entries[i].obj, fb)
	}
}

func applySafely(obj Object, fb *framebuffer.Rendered) {
	defer func() { recover() }()
	obj.Apply(fb)
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.entries = q.entries[:0]
}

// Len reports the number of live (non-killed) objects.
func (q *Queue) Len() int {
	n := 0
	for _, e := range q.entries {
		if !e.killed {
			n++
		}
	}
	return n
}

// KillRequest marks every object whose KillRequest(tag) returns true as
// killed; objects that don't implement Killable are left untouched.
func (q *Queue) KillRequest(tag any) {
	for i := range q.entries {
		if q.entries[i].killed {
			continue
		}
		if k, ok := q.entries[i].obj.(Killable); ok && k.KillRequest(tag) {
			q.entries[i].killed = true
		}
	}
}

// CloneFrom replaces q's contents with a deep copy of other's live objects,
// each object cloning itself.
func (q *Queue) CloneFrom(other *Queue) {
	q.entries = q.entries[:0]
	for _, e := range other.entries {
		if e.killed {
			continue
		}
		q.entries = append(q.entries, entry{obj: e.obj.Clone()})
	}
}
