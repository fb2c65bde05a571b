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

// replacementChar is emitted in place of malformed UTF-8: the decoder
// substitutes rather than failing, whatever the input.
const replacementChar = rune(0xFFFD)

const maxCodepoint = 0x10FFFF

func isSurrogate(cp rune) bool {
	return cp >= 0xD800 && cp <= 0xDFFF
}

// Decode decodes the next scalar value from s starting at a sequence
// boundary, returning the scalar, the number of bytes consumed, and ok. If
// s is empty, ok is false with n=0 ("more input required"). Malformed
// input returns replacementChar and consumes the bytes up to the first one
// that cannot continue the sequence (one byte for an invalid lead byte; the
// whole sequence for overlong, surrogate or out-of-range values).
func Decode(s []byte) (r rune, n int, ok bool) {
	if len(s) == 0 {
		return 0, 0, false
	}
	b0 := s[0]
	switch {
	case b0 < 0x80:
		return rune(b0), 1, true
	case b0 < 0xC2: // continuation byte or overlong 2-byte lead
		return replacementChar, 1, true
	case b0 < 0xE0:
		return decodeSeq(s, 2, rune(b0&0x1F), 0x80)
	case b0 < 0xF0:
		return decodeSeq(s, 3, rune(b0&0x0F), 0x800)
	case b0 < 0xF5:
		return decodeSeq(s, 4, rune(b0&0x07), 0x10000)
	default:
		return replacementChar, 1, true
	}
}

func decodeSeq(s []byte, length int, lead rune, minValue rune) (rune, int, bool) {
	if len(s) < length {
		// Could be "more input required" or a truncated-at-EOF
		// malformed sequence; callers that know they're at the true
		// end of the stream should treat a short decode as malformed
		// (see DecodeString).
		for i := 1; i < len(s); i++ {
			if s[i]&0xC0 != 0x80 {
				return replacementChar, i, true
			}
		}
		return 0, 0, false
	}
	cp := lead
	for i := 1; i < length; i++ {
		if s[i]&0xC0 != 0x80 {
			return replacementChar, i, true
		}
		cp = cp<<6 | rune(s[i]&0x3F)
	}
	if cp < minValue || cp > maxCodepoint || isSurrogate(cp) {
		return replacementChar, length, true
	}
	return cp, length, true
}

// DecodeString decodes all of s (known to be a complete, non-streaming
// buffer) to a slice of scalars, substituting replacementChar for any
// malformed bytes, including a sequence truncated at the very end of s,
// which Decode alone cannot distinguish from "more input required".
func DecodeString(s []byte) []rune {
	var out []rune
	for len(s) > 0 {
		r, n, ok := Decode(s)
		if !ok {
			// Decode asked for more input but there isn't any:
			// the trailing bytes are a malformed truncated
			// sequence.
			out = append(out, replacementChar)
			break
		}
		out = append(out, r)
		s = s[n:]
	}
	return out
}
