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

// Rendered is the mutable, owned 32-bit-per-pixel framebuffer the
// render queue draws onto: a palette-shifted truecolor screen,
// generalized from a fixed console-specific palette to a
// format-agnostic one.
type Rendered struct {
	pixels           []uint32
	width            uint32
	height           uint32
	originX, originY uint32
	upsideDown       bool

	rshift, gshift, bshift uint32
	hasPalette             bool
	palette                []uint32 // built lazily, indexed by raw pixel value
}

// NewRendered creates an empty (0x0) Rendered framebuffer.
func NewRendered() *Rendered {
	return &Rendered{}
}

// SetSize reallocates the backing pixel storage only if the size actually
// changed.
func (s *Rendered) SetSize(width, height uint32) {
	if width == s.width && height == s.height && s.pixels != nil {
		return
	}
	s.width, s.height = width, height
	s.pixels = make([]uint32, int(width)*int(height))
}

// SetOrigin sets the top-left placement of the scaled raw frame within
// this framebuffer's own coordinate space.
func (s *Rendered) SetOrigin(x, y uint32) {
	s.originX, s.originY = x, y
}

// SetUpsideDown controls whether RowPtr addresses scanlines bottom-up.
func (s *Rendered) SetUpsideDown(v bool) {
	s.upsideDown = v
}

// Width and Height report the current size.
func (s *Rendered) Width() uint32  { return s.width }
func (s *Rendered) Height() uint32 { return s.height }

// RowPtr returns the pixel slice for scanline y, honoring UpsideDown.
func (s *Rendered) RowPtr(y uint32) []uint32 {
	if s.upsideDown {
		y = s.height - 1 - y
	}
	off := int(y) * int(s.width)
	return s.pixels[off : off+int(s.width)]
}

// At and Set read/write a single pixel, clipping silently to the
// framebuffer bounds (every render-queue primitive is expected to clip
// itself first; these are a safety net for callers that don't).
func (s *Rendered) At(x, y uint32) uint32 {
	if x >= s.width || y >= s.height {
		return 0
	}
	return s.RowPtr(y)[x]
}

func (s *Rendered) Set(x, y uint32, v uint32) {
	if x >= s.width || y >= s.height {
		return
	}
	s.RowPtr(y)[x] = v
}

// SetPalette reshuffles every stored pixel's channel order to the new
// shift triple. If the shifts are unchanged, this is a no-op (no copy),
// reshuffling channels in place.
func (s *Rendered) SetPalette(rshift, gshift, bshift uint32) {
	if s.hasPalette && rshift == s.rshift && gshift == s.gshift && bshift == s.bshift {
		return
	}
	oldR, oldG, oldB := s.rshift, s.gshift, s.bshift
	hadPalette := s.hasPalette
	s.rshift, s.gshift, s.bshift = rshift, gshift, bshift
	s.hasPalette = true
	if !hadPalette {
		return
	}
	for i, px := range s.pixels {
		r := (px >> oldR) & 0xFF
		g := (px >> oldG) & 0xFF
		b := (px >> oldB) & 0xFF
		s.pixels[i] = (r << rshift) | (g << gshift) | (b << bshift)
	}
}

// MakeColor packs an (r, g, b) triple (0-255 each) using the active
// palette shifts.
func (s *Rendered) MakeColor(r, g, b uint8) uint32 {
	return (uint32(r) << s.rshift) | (uint32(g) << s.gshift) | (uint32(b) << s.bshift)
}

// buildPalette constructs the raw-pixel -> 0xRRGGBB lookup table for a
// Raw frame's PixelFormat, used by CopyFrom's strip fast path. It is built
// afresh on every CopyFrom call and not cached across calls; the Rendered
// surface's channel shifts play no part in it. It returns nil when the
// format has no Palette or is wider than 2 bytes per pixel.
func buildPalette(format PixelFormat) []uint32 {
	if format.Palette == nil {
		return nil
	}
	span := 1 << uint(format.BytesPerPixel*8)
	if span > 1<<20 {
		// Pathologically wide formats (e.g. 32bpp truecolor) don't
		// benefit from a full lookup table; fall back to per-pixel
		// decode in that case.
		return nil
	}
	table := make([]uint32, span)
	for raw := range table {
		table[raw] = format.Palette(uint32(raw))
	}
	return table
}

// rawPixelValue reads a little-endian integer of format.BytesPerPixel
// bytes from px.
func rawPixelValue(px []byte) uint32 {
	var v uint32
	for i, b := range px {
		v |= uint32(b) << (8 * i)
	}
	return v
}

// CopyFrom nearest-neighbor upscales raw into s by (hscale, vscale),
// placing the result at (originX, originY) and clipping to s's bounds. If
// raw's format declares a Palette and is at most 2 bytes per pixel, a
// lookup table is built once for this call and pixels are looked up in at
// most 4096-pixel strips; otherwise each pixel goes through format.Decode
// directly.
func (s *Rendered) CopyFrom(raw *Raw, hscale, vscale uint32) {
	if hscale == 0 {
		hscale = 1
	}
	if vscale == 0 {
		vscale = 1
	}

	palette := buildPalette(raw.Format())
	bpp := raw.Format().BytesPerPixel

	const stripSize = 4096
	var strip [stripSize]uint32

	for sy := uint32(0); sy < raw.Height(); sy++ {
		row := raw.Row(sy)
		// Decode/palette-lookup the source row into strips, then blit
		// each decoded pixel hscale/vscale times.
		for base := 0; base < int(raw.Width()); base += stripSize {
			n := int(raw.Width()) - base
			if n > stripSize {
				n = stripSize
			}
			for i := 0; i < n; i++ {
				px := row[(base+i)*bpp : (base+i+1)*bpp]
				if palette != nil {
					strip[i] = palette[rawPixelValue(px)]
				} else {
					strip[i] = raw.Format().Decode(px)
				}
			}
			for i := 0; i < n; i++ {
				sx := uint32(base + i)
				color := strip[i]
				for dv := uint32(0); dv < vscale; dv++ {
					dy := s.originY + sy*vscale + dv
					if dy >= s.height {
						continue
					}
					rowptr := s.RowPtr(dy)
					for dh := uint32(0); dh < hscale; dh++ {
						dx := s.originX + sx*hscale + dh
						if dx >= s.width {
							continue
						}
						rowptr[dx] = color
					}
				}
			}
		}
	}
}
