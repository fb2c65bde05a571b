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

package test

import "fmt"

// RingWriter is an io.Writer that keeps only the most recently written n
// bytes, discarding from the front as new data arrives.
type RingWriter struct {
	buf []byte
	cap int
}

// NewRingWriter creates a RingWriter with the given capacity in bytes.
func NewRingWriter(capacity int) (*RingWriter, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("test: ring writer capacity must be at least one")
	}
	return &RingWriter{cap: capacity}, nil
}

func (r *RingWriter) Write(p []byte) (int, error) {
	r.buf = append(r.buf, p...)
	if len(r.buf) > r.cap {
		r.buf = r.buf[len(r.buf)-r.cap:]
	}
	return len(p), nil
}

// String returns the currently retained tail.
func (r *RingWriter) String() string {
	return string(r.buf)
}

// Reset empties the buffer.
func (r *RingWriter) Reset() {
	r.buf = r.buf[:0]
}

// CappedWriter is an io.Writer that accepts writes only up to its capacity;
// anything beyond that is silently dropped.
type CappedWriter struct {
	buf []byte
	cap int
}

// NewCappedWriter creates a CappedWriter with the given capacity in bytes.
func NewCappedWriter(capacity int) (*CappedWriter, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("test: capped writer capacity must be at least one")
	}
	return &CappedWriter{cap: capacity}, nil
}

func (c *CappedWriter) Write(p []byte) (int, error) {
	room := c.cap - len(c.buf)
	if room <= 0 {
		return len(p), nil
	}
	if room > len(p) {
		room = len(p)
	}
	c.buf = append(c.buf, p[:room]...)
	return len(p), nil
}

// String returns everything written so far, up to the cap.
func (c *CappedWriter) String() string {
	return string(c.buf)
}

// Reset empties the buffer.
func (c *CappedWriter) Reset() {
	c.buf = c.buf[:0]
}
