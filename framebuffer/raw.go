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

package framebuffer

import "github.com/lsnes-go/core/coreerr"

// PixelFormat describes how a Raw frame's bytes decode to 24-bit RGB:
// the bytes-per-pixel, the screenshot-serialization magic (via Name)
// and the decode function.
type PixelFormat struct {
	// Name identifies the format, used as part of the modern screenshot
	// magic (see Screenshot in screenshot.go).
	Name string
	// BytesPerPixel is the stride contribution of one pixel.
	BytesPerPixel int
	// Decode converts one pixel's raw bytes to 0xRRGGBB. Rendered.CopyFrom
	// calls it per pixel whenever no Palette lookup table is in use.
	Decode func(px []byte) uint32
	// Palette, if non-nil, maps a raw pixel value (as a little-endian
	// uint32 read from BytesPerPixel bytes) directly to 0xRRGGBB,
	// letting Rendered.CopyFrom use the ≤4096-pixel strip fast path
	// path instead of calling Decode per pixel. The table is only built
	// for formats of at most 2 bytes per pixel.
	Palette func(raw uint32) uint32
}

// buffer is the sum type backing a Raw frame: either an owned Go-managed
// slice, or a borrowed slice the Raw frame must never resize or outlive.
// A sum of owned and borrowed backing storage.
type buffer struct {
	data  []byte
	owned bool
}

// Raw is an immutable 2D pixel matrix handed back by the emulated core each
// frame (borrowed) or produced by a screenshot loader (owned).
// stride >= width*format.BytesPerPixel always holds.
type Raw struct {
	format PixelFormat
	width  uint32
	height uint32
	stride uint32
	buf    buffer
}

// NewOwnedRaw allocates a new owned Raw frame of the given size, zeroed.
func NewOwnedRaw(format PixelFormat, width, height uint32) *Raw {
	stride := width * uint32(format.BytesPerPixel)
	return &Raw{
		format: format,
		width:  width,
		height: height,
		stride: stride,
		buf:    buffer{data: make([]byte, int(stride)*int(height)), owned: true},
	}
}

// NewBorrowedRaw wraps externally managed memory; the Raw frame never
// copies or frees it. Reassigning a borrowed view is not a supported
// operation: Raw frames are immutable after construction, so a caller
// that wants different contents builds a new frame.
func NewBorrowedRaw(format PixelFormat, width, height, stride uint32, data []byte) (*Raw, error) {
	if stride < width*uint32(format.BytesPerPixel) {
		return nil, coreerr.Errorf("framebuffer: stride %d too small for width %d at %d bytes/pixel", stride, width, format.BytesPerPixel)
	}
	need := int(stride) * int(height)
	if len(data) < need {
		return nil, coreerr.Errorf("framebuffer: backing buffer too small: have %d bytes, need %d", len(data), need)
	}
	return &Raw{format: format, width: width, height: height, stride: stride, buf: buffer{data: data, owned: false}}, nil
}

// Width, Height, Stride, Format, Owned report the frame's geometry.
func (r *Raw) Width() uint32       { return r.width }
func (r *Raw) Height() uint32      { return r.height }
func (r *Raw) Stride() uint32      { return r.stride }
func (r *Raw) Format() PixelFormat { return r.format }
func (r *Raw) Owned() bool         { return r.buf.owned }

// Row returns the bytes of scanline y.
func (r *Raw) Row(y uint32) []byte {
	off := int(y) * int(r.stride)
	return r.buf.data[off : off+int(r.stride)]
}

// At decodes the pixel at (x, y) to 0xRRGGBB using the format's Decode
// function (bypassing any Palette, since a single random-access pixel read
// doesn't amortize building one).
func (r *Raw) At(x, y uint32) uint32 {
	bpp := r.format.BytesPerPixel
	row := r.Row(y)
	return r.format.Decode(row[int(x)*bpp : int(x)*bpp+bpp])
}
