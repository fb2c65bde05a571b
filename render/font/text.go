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

package font

import "github.com/lsnes-go/core/framebuffer"

// placement is one laid-out glyph: its top-left corner and the glyph data
// to blit there (a blank cell, i.e. whitespace or tab, has no bits).
type placement struct {
	x, y  int
	glyph Glyph
	blank bool
}

// layout walks text's UTF-8 bytes and produces a sequence of glyph
// placements starting at (x0, y0). Tab (U+0009) advances to the next
// 64-pixel stop, newline (U+000A) returns to the origin column, and
// space (U+0020) is a hard-coded 8-wide blank cell.
func layout(store *Store, text []byte, x0, y0 int) []placement {
	var out []placement
	x, y := x0, y0
	runes := DecodeString(text)
	for _, cp := range runes {
		switch cp {
		case '\t':
			next := ((x-x0)/64+1)*64 + x0
			out = append(out, placement{x: x, y: y, blank: true, glyph: Glyph{Bitmap: make([]uint32, 16)}})
			x = next
			continue
		case '\n':
			x = x0
			y += 16
			continue
		case ' ':
			out = append(out, placement{x: x, y: y, blank: true, glyph: Glyph{Wide: false, Bitmap: make([]uint32, 16)}})
			x += 8
			continue
		}
		glyph, ok := store.Lookup(cp)
		if !ok {
			glyph = BadGlyph
		}
		out = append(out, placement{x: x, y: y, glyph: glyph})
		x += glyph.Width()
	}
	return out
}

// DrawOptions controls Draw's rendering: foreground/background colors,
// optional pixel doubling, and an optional halo outline color.
type DrawOptions struct {
	FG, BG    framebuffer.Color
	DoubleX   bool
	DoubleY   bool
	Halo      bool
	HaloColor framebuffer.Color
}

// Draw renders text (raw UTF-8 bytes) at (x, y) onto fb. Background pixels
// of each glyph cell are blended with BG; foreground (set) pixels with FG.
// Blank cells (space, tab) are filled entirely with BG.
func Draw(fb *framebuffer.Rendered, store *Store, text []byte, x, y int, opts DrawOptions) {
	scaleX, scaleY := 1, 1
	if opts.DoubleX {
		scaleX = 2
	}
	if opts.DoubleY {
		scaleY = 2
	}

	placements := layout(store, text, x, y)

	if opts.Halo {
		drawHalo(fb, placements, scaleX, scaleY, opts.HaloColor)
	}

	for _, p := range placements {
		w := p.glyph.Width()
		for gy := 0; gy < 16; gy++ {
			for gx := 0; gx < w; gx++ {
				set := !p.blank && p.glyph.Bit(gx, gy)
				col := opts.BG
				if set {
					col = opts.FG
				}
				plotScaled(fb, p.x+gx, p.y+gy, scaleX, scaleY, col)
			}
		}
	}
}

func plotScaled(fb *framebuffer.Rendered, x, y, scaleX, scaleY int, col framebuffer.Color) {
	for dy := 0; dy < scaleY; dy++ {
		py := y*scaleY + dy
		if py < 0 || py >= int(fb.Height()) {
			continue
		}
		for dx := 0; dx < scaleX; dx++ {
			px := x*scaleX + dx
			if px < 0 || px >= int(fb.Width()) {
				continue
			}
			fb.Set(uint32(px), uint32(py), col.Apply(fb.At(uint32(px), uint32(py))))
		}
	}
}

// drawHalo dilates the union of all foreground pixels by a 3x3 cross
// and paints the newly covered (previously-background) cells with
// haloColor. The dilation mask is computed directly: a cell is halo
// when any 4-neighbor is foreground and the cell itself is not.
func drawHalo(fb *framebuffer.Rendered, placements []placement, scaleX, scaleY int, haloColor framebuffer.Color) {
	fgAt := make(map[[2]int]bool)
	for _, p := range placements {
		if p.blank {
			continue
		}
		w := p.glyph.Width()
		for gy := 0; gy < 16; gy++ {
			for gx := 0; gx < w; gx++ {
				if p.glyph.Bit(gx, gy) {
					fgAt[[2]int{p.x + gx, p.y + gy}] = true
				}
			}
		}
	}

	neighbors := [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for cell := range fgAt {
		for _, n := range neighbors {
			nc := [2]int{cell[0] + n[0], cell[1] + n[1]}
			if fgAt[nc] {
				continue
			}
			plotScaled(fb, nc[0], nc[1], scaleX, scaleY, haloColor)
		}
	}
}
