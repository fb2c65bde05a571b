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

import (
	"bufio"
	"encoding/hex"
	"io"
	"strconv"
	"strings"

	"github.com/lsnes-go/core/coreerr"
)

// Load parses the bitmap font text format, one glyph per line:
// "<hex-codepoint>:<32-or-64-hex-digits>". 32 hex digits (16 bytes) is an
// 8x16 narrow glyph; 64 (32 bytes) is a 16x16 wide glyph. Blank lines and
// lines starting with '#' are skipped.
func Load(r io.Reader) (*Store, error) {
	entries := make(map[rune]Glyph)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MalformedStream, "font: bad line %d: missing ':'", lineNo)
		}
		cp, err := strconv.ParseUint(parts[0], 16, 32)
		if err != nil {
			return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MalformedStream, "font: bad codepoint on line %d: %v", lineNo, err)
		}
		bits, err := hex.DecodeString(parts[1])
		if err != nil {
			return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MalformedStream, "font: bad glyph data on line %d: %v", lineNo, err)
		}
		glyph, err := decodeGlyph(bits)
		if err != nil {
			return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MalformedStream, "font: line %d: %v", lineNo, err)
		}
		entries[rune(cp)] = glyph
	}
	if err := scanner.Err(); err != nil {
		return nil, coreerr.Categorized(coreerr.IoFailure, coreerr.UnexpectedEOF, err)
	}
	return NewStore(entries), nil
}

func decodeGlyph(bits []byte) (Glyph, error) {
	switch len(bits) {
	case 16: // 8x16 narrow: 1 byte per row, top-justified into a uint32
		rows := make([]uint32, 16)
		for y := 0; y < 16; y++ {
			rows[y] = uint32(bits[y]) << 24
		}
		return Glyph{Wide: false, Bitmap: rows}, nil
	case 32: // 16x16 wide: 2 bytes per row
		rows := make([]uint32, 16)
		for y := 0; y < 16; y++ {
			rows[y] = uint32(bits[y*2])<<24 | uint32(bits[y*2+1])<<16
		}
		return Glyph{Wide: true, Bitmap: rows}, nil
	default:
		return Glyph{}, coreerr.Errorf("font: glyph data must be 16 or 32 bytes, got %d", len(bits))
	}
}

// BadGlyph is the fixed glyph substituted for any codepoint with no entry
// in the Store. It renders as a solid 8x16 block, making
// missing characters visually obvious.
var BadGlyph = Glyph{
	Wide: false,
	Bitmap: func() []uint32 {
		rows := make([]uint32, 16)
		for i := range rows {
			rows[i] = 0xFF000000
		}
		return rows
	}(),
}
