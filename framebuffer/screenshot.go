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

import (
	"encoding/binary"

	"github.com/lsnes-go/core/coreerr"
)

// formatMagic derives a deterministic four byte tag for a PixelFormat name,
// used by the modern screenshot header so different formats don't collide.
func formatMagic(name string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(name); i++ {
		h ^= uint32(name[i])
		h *= 16777619
	}
	return h
}

// suppressor picks the two byte value acting as the
// "magic-suppressor": chosen so (totalSize mod (3*legacyWidth)) differs
// from the legacy remainder, so a legacy reader's heuristic width check
// can't mistake a modern screenshot for one of its own. legacyWidth is the
// width a legacy reader would infer from the first two big-endian bytes of
// a *legacy* screenshot of the same pixel count.
func suppressor(totalSize int, legacyWidth uint16) uint16 {
	if legacyWidth == 0 {
		return 0xFFFF
	}
	legacyRemainder := totalSize % (3 * int(legacyWidth))
	for s := 0; s < 0x10000; s++ {
		if s%(3*int(legacyWidth)) != legacyRemainder {
			return uint16(s)
		}
	}
	// Unreachable for any legacyWidth > 0: the loop above always finds a
	// value within one period of 3*legacyWidth.
	return 0xFFFF
}

// SaveScreenshot serializes raw in the modern format: a two byte
// magic-suppressor chosen to disambiguate from the legacy format, a four
// byte format magic, a two byte big-endian width, then one raw.Format()
// pixel per source pixel (no re-encoding: the format is preserved so
// LoadScreenshot can round-trip exactly).
func SaveScreenshot(raw *Raw) []byte {
	bpp := raw.Format().BytesPerPixel
	pixelBytes := int(raw.Width()) * int(raw.Height()) * bpp
	total := 2 + 4 + 2 + pixelBytes
	legacyWidth := uint16(raw.Width())
	sup := suppressor(total, legacyWidth)

	out := make([]byte, total)
	binary.BigEndian.PutUint16(out[0:2], sup)
	binary.BigEndian.PutUint32(out[2:6], formatMagic(raw.Format().Name))
	binary.BigEndian.PutUint16(out[6:8], uint16(raw.Width()))

	off := 8
	for y := uint32(0); y < raw.Height(); y++ {
		row := raw.Row(y)
		copy(out[off:off+int(raw.Width())*bpp], row[:int(raw.Width())*bpp])
		off += int(raw.Width()) * bpp
	}
	return out
}

// SaveLegacyScreenshot serializes raw as the legacy format: a big-endian
// u16 width followed by 3-byte-per-pixel RGB (format.Decode is used to
// flatten whatever the source format actually is).
func SaveLegacyScreenshot(raw *Raw) []byte {
	w, h := raw.Width(), raw.Height()
	out := make([]byte, 2+3*int(w)*int(h))
	binary.BigEndian.PutUint16(out[0:2], uint16(w))
	off := 2
	for y := uint32(0); y < h; y++ {
		for x := uint32(0); x < w; x++ {
			rgb := raw.At(x, y)
			out[off] = byte(rgb >> 16)
			out[off+1] = byte(rgb >> 8)
			out[off+2] = byte(rgb)
			off += 3
		}
	}
	return out
}

// LoadScreenshot decodes a screenshot saved by either SaveScreenshot or
// SaveLegacyScreenshot. The legacy format
// has no reliable self-identifying magic; this implementation follows the
// documented preference ("prefer magic-first detection"): it first checks
// whether the declared format name is known, and only falls back to the
// legacy 3-bytes-per-pixel interpretation if it isn't.
func LoadScreenshot(data []byte, formats map[string]PixelFormat) (*Raw, error) {
	if len(data) < 8 {
		return loadLegacyScreenshot(data)
	}
	magic := binary.BigEndian.Uint32(data[2:6])
	for name, format := range formats {
		if formatMagic(name) == magic {
			width := binary.BigEndian.Uint16(data[6:8])
			if width == 0 {
				return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MalformedStream, "screenshot: zero width")
			}
			bpp := format.BytesPerPixel
			pixelBytes := len(data) - 8
			if pixelBytes%(int(width)*bpp) != 0 {
				return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MalformedStream, "screenshot: pixel data size mismatch")
			}
			height := uint32(pixelBytes / (int(width) * bpp))
			raw := NewOwnedRaw(format, uint32(width), height)
			copy(raw.buf.data, data[8:])
			return raw, nil
		}
	}
	return loadLegacyScreenshot(data)
}

func loadLegacyScreenshot(data []byte) (*Raw, error) {
	if len(data) < 2 {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.UnexpectedEOF, "screenshot: truncated legacy header")
	}
	width := binary.BigEndian.Uint16(data[0:2])
	if width == 0 {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MalformedStream, "screenshot: zero width")
	}
	body := data[2:]
	if len(body)%(3*int(width)) != 0 {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MalformedStream, "screenshot: pixel data size mismatch")
	}
	height := uint32(len(body) / (3 * int(width)))
	format := PixelFormat{
		Name:          "legacy-rgb24",
		BytesPerPixel: 3,
		Decode: func(px []byte) uint32 {
			return uint32(px[0])<<16 | uint32(px[1])<<8 | uint32(px[2])
		},
	}
	raw := NewOwnedRaw(format, uint32(width), height)
	copy(raw.buf.data, body)
	return raw, nil
}
