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

package render

import "github.com/lsnes-go/core/framebuffer"

// clipRect intersects [x, x+w) x [y, y+h) (which may have negative
// x/y) with the framebuffer's own bounds; every primitive clips its
// bounding box against [0, width) x [0, height) before touching the
// buffer. Returns the clipped bounds and ok=false if the intersection
// is empty.
func clipRect(x, y, w, h int32, fbw, fbh uint32) (x0, y0, x1, y1 int32, ok bool) {
	x0, y0 = x, y
	x1, y1 = x+w, y+h
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > int32(fbw) {
		x1 = int32(fbw)
	}
	if y1 > int32(fbh) {
		y1 = int32(fbh)
	}
	return x0, y0, x1, y1, x1 > x0 && y1 > y0
}

// tagged is embedded by objects that support KillRequest by opaque tag
// equality, the common case (a script marks everything it draws with its
// own identity and later asks to kill it all).
type tagged struct {
	Tag any
}

func (t tagged) KillRequest(q any) bool {
	if t.Tag == nil {
		return false
	}
	return t.Tag == q
}

// Pixel draws a single blended pixel.
type Pixel struct {
	tagged
	X, Y  int32
	Color framebuffer.Color
}

func (p *Pixel) Apply(fb *framebuffer.Rendered) {
	if _, _, _, _, ok := clipRect(p.X, p.Y, 1, 1, fb.Width(), fb.Height()); !ok {
		return
	}
	fb.Set(uint32(p.X), uint32(p.Y), p.Color.Apply(fb.At(uint32(p.X), uint32(p.Y))))
}

func (p *Pixel) Clone() Object { c := *p; return &c }

// Rectangle draws an outlined rectangle: a Thickness-wide outline in
// Outline color, with an unfilled interior.
type Rectangle struct {
	tagged
	X, Y, W, H int32
	Thickness  int32
	Outline    framebuffer.Color
}

func (r *Rectangle) Apply(fb *framebuffer.Rendered) {
	drawBox(fb, r.X, r.Y, r.W, r.H, r.Thickness, r.Outline, nil)
}

func (r *Rectangle) Clone() Object { c := *r; return &c }

// SolidRectangle draws a single-color filled rectangle with no outline.
type SolidRectangle struct {
	tagged
	X, Y, W, H int32
	Fill       framebuffer.Color
}

func (r *SolidRectangle) Apply(fb *framebuffer.Rendered) {
	drawBox(fb, r.X, r.Y, r.W, r.H, 0, framebuffer.Color{}, &r.Fill)
}

func (r *SolidRectangle) Clone() Object { c := *r; return &c }

// Box draws a two-color outline-plus-fill rectangle, the union of
// Rectangle and SolidRectangle.
type Box struct {
	tagged
	X, Y, W, H int32
	Thickness  int32
	Outline    framebuffer.Color
	Fill       framebuffer.Color
}

func (b *Box) Apply(fb *framebuffer.Rendered) {
	drawBox(fb, b.X, b.Y, b.W, b.H, b.Thickness, b.Outline, &b.Fill)
}

func (b *Box) Clone() Object { c := *b; return &c }

// drawBox is the shared rasterizer for Rectangle/SolidRectangle/Box: for
// every pixel of the clipped bounding box, the outline band (distance from
// the nearest edge less than thickness) gets outline, and any interior
// pixel gets fill if non-nil.
func drawBox(fb *framebuffer.Rendered, x, y, w, h, thickness int32, outline framebuffer.Color, fill *framebuffer.Color) {
	x0, y0, x1, y1, ok := clipRect(x, y, w, h, fb.Width(), fb.Height())
	if !ok {
		return
	}
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			distLeft := px - x
			distRight := (x + w - 1) - px
			distTop := py - y
			distBottom := (y + h - 1) - py
			edgeDist := min4(distLeft, distRight, distTop, distBottom)
			var c framebuffer.Color
			if thickness > 0 && edgeDist < thickness {
				c = outline
			} else if fill != nil {
				c = *fill
			} else {
				continue
			}
			fb.Set(uint32(px), uint32(py), c.Apply(fb.At(uint32(px), uint32(py))))
		}
	}
}

func min4(a, b, c, d int32) int32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	if d < m {
		m = d
	}
	return m
}

// Circle draws a filled-and-outlined disc of radius R centered at
// (X, Y), rasterized by the classic r2 <= R2 >= (R-t)2 band test.
type Circle struct {
	tagged
	X, Y      int32
	R         int32
	Thickness int32
	Outline   framebuffer.Color
	Fill      *framebuffer.Color
}

func (c *Circle) Apply(fb *framebuffer.Rendered) {
	x0, y0, x1, y1, ok := clipRect(c.X-c.R, c.Y-c.R, 2*c.R+1, 2*c.R+1, fb.Width(), fb.Height())
	if !ok {
		return
	}
	rsq := c.R * c.R
	inner := c.R - c.Thickness
	innerSq := inner * inner
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			dx, dy := px-c.X, py-c.Y
			dsq := dx*dx + dy*dy
			if dsq > rsq {
				continue
			}
			var col framebuffer.Color
			if c.Thickness > 0 && dsq >= innerSq {
				col = c.Outline
			} else if c.Fill != nil {
				col = *c.Fill
			} else if c.Thickness == 0 {
				col = c.Outline
			} else {
				continue
			}
			fb.Set(uint32(px), uint32(py), col.Apply(fb.At(uint32(px), uint32(py))))
		}
	}
}

func (c *Circle) Clone() Object {
	cp := *c
	if c.Fill != nil {
		f := *c.Fill
		cp.Fill = &f
	}
	return &cp
}

// Crosshair draws a horizontal and a vertical stroke through (X, Y),
// spanning the whole framebuffer, each clipped independently.
type Crosshair struct {
	tagged
	X, Y  int32
	Color framebuffer.Color
}

func (ch *Crosshair) Apply(fb *framebuffer.Rendered) {
	if ch.Y >= 0 && ch.Y < int32(fb.Height()) {
		row := fb.RowPtr(uint32(ch.Y))
		for x := range row {
			row[x] = ch.Color.Apply(row[x])
		}
	}
	if ch.X >= 0 && ch.X < int32(fb.Width()) {
		for y := uint32(0); y < fb.Height(); y++ {
			fb.Set(uint32(ch.X), y, ch.Color.Apply(fb.At(uint32(ch.X), y)))
		}
	}
}

func (ch *Crosshair) Clone() Object { c := *ch; return &c }
