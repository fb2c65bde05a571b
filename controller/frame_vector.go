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
	"encoding/binary"
	"io"

	"github.com/lsnes-go/core/coreerr"
)

// framesPerPage bounds how many frames one allocation unit holds, so a
// many-hour movie never forces one monolithic slice.
const framesPerPage = 4096

// FrameVector is a pageable sequence of fixed-size controller frames.
// Frames are addressable by index and stored in fixed-size pages so
// appending to a long movie never triggers a single huge reallocation.
type FrameVector struct {
	layout *Layout
	pages  [][]byte
	count  uint64
}

// NewFrameVector creates an empty frame vector over layout.
func NewFrameVector(layout *Layout) *FrameVector {
	return &FrameVector{layout: layout}
}

// Size returns the number of frames currently stored.
func (fv *FrameVector) Size() uint64 { return fv.count }

// FramesPerPage returns the fixed page capacity in frames.
func (fv *FrameVector) FramesPerPage() int { return framesPerPage }

// GetPageBuffer returns the raw backing buffer for page i, allocating it
// (zero-filled) if it doesn't exist yet. The returned slice aliases the
// vector's storage; callers use it for bulk encode/decode.
func (fv *FrameVector) GetPageBuffer(i int) []byte {
	for len(fv.pages) <= i {
		fv.pages = append(fv.pages, make([]byte, framesPerPage*fv.layout.FrameSize()))
	}
	return fv.pages[i]
}

// Frame returns the slice of the page buffer holding frame index idx.
// idx must be < Size().
func (fv *FrameVector) Frame(idx uint64) ([]byte, error) {
	if idx >= fv.count {
		return nil, coreerr.Categorized(coreerr.OutOfRange, "controller: frame index %d out of range (%d frames)", idx, fv.count)
	}
	fs := fv.layout.FrameSize()
	page := fv.GetPageBuffer(int(idx / framesPerPage))
	off := int(idx%framesPerPage) * fs
	return page[off : off+fs], nil
}

// Append adds one new zero-filled frame and returns it for the caller to
// fill in.
func (fv *FrameVector) Append() []byte {
	fs := fv.layout.FrameSize()
	page := fv.GetPageBuffer(int(fv.count / framesPerPage))
	off := int(fv.count%framesPerPage) * fs
	fv.count++
	frame := page[off : off+fs]
	// pages are reused across Truncate, so the slot may hold stale data
	for i := range frame {
		frame[i] = 0
	}
	return frame
}

// Truncate shrinks the vector to n frames; n must be <= Size().
func (fv *FrameVector) Truncate(n uint64) error {
	if n > fv.count {
		return coreerr.Categorized(coreerr.OutOfRange, "controller: cannot truncate %d frames to %d", fv.count, n)
	}
	fv.count = n
	return nil
}

// SaveBinary writes the frame count followed by the tightly packed
// frame data (no page padding) to w.
func (fv *FrameVector) SaveBinary(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, fv.count); err != nil {
		return coreerr.Categorized(coreerr.IoFailure, "controller: write frame count: %v", err)
	}
	fs := fv.layout.FrameSize()
	var i uint64
	for i = 0; i < fv.count; i++ {
		frame, err := fv.Frame(i)
		if err != nil {
			return err
		}
		if _, err := w.Write(frame[:fs]); err != nil {
			return coreerr.Categorized(coreerr.IoFailure, "controller: write frame %d: %v", i, err)
		}
	}
	return nil
}

// LoadBinary replaces the vector's contents by reading a stream written
// by SaveBinary.
func (fv *FrameVector) LoadBinary(r io.Reader) error {
	var n uint64
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return coreerr.Categorized(coreerr.MalformedInput, "controller: read frame count: %v", err)
	}
	fv.pages = nil
	fv.count = 0
	fs := fv.layout.FrameSize()
	var i uint64
	for i = 0; i < n; i++ {
		buf := fv.Append()
		if _, err := io.ReadFull(r, buf[:fs]); err != nil {
			return coreerr.Categorized(coreerr.MalformedInput, "controller: read frame %d: %v", i, err)
		}
	}
	return nil
}
