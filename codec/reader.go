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

package codec

import (
	"encoding/binary"
	"io"

	"github.com/lsnes-go/core/coreerr"
)

// Reader deserialises values written by a Writer. A Reader obtained from
// Substream is bounded: reads past its declared length fail immediately
// rather than reading into whatever follows in the parent.
type Reader struct {
	r      io.Reader
	parent *Reader
	left   uint64
}

// NewReader wraps a top-level source with no length bound.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Substream narrows r into a child Reader bounded to length bytes. The
// child reads through the parent, so bytes it consumes are also consumed
// from whichever Reader the parent is bounded by.
func (r *Reader) Substream(length uint64) (*Reader, error) {
	if r.parent != nil && length > r.left {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.SubstreamOverrun, length, r.left)
	}
	return &Reader{r: r.r, parent: r, left: length}, nil
}

// GetLeft reports the number of bytes remaining in a substream. It is an
// error to call this on a top-level Reader.
func (r *Reader) GetLeft() (uint64, error) {
	if r.parent == nil {
		return 0, coreerr.Errorf("codec: GetLeft can only be used on a substream")
	}
	return r.left, nil
}

func (r *Reader) read(buf []byte, allowNone bool) (bool, error) {
	if r.parent != nil {
		if r.left == 0 && allowNone {
			return false, nil
		}
		if uint64(len(buf)) > r.left {
			return false, coreerr.Categorized(coreerr.MalformedInput, coreerr.SubstreamOverrun, len(buf), r.left)
		}
		if _, err := r.parent.read(buf, false); err != nil {
			return false, err
		}
		r.left -= uint64(len(buf))
		return true, nil
	}

	n, err := io.ReadFull(r.r, buf)
	if err != nil {
		if n == 0 && allowNone && err == io.EOF {
			return false, nil
		}
		return false, coreerr.Categorized(coreerr.IoFailure, coreerr.UnexpectedEOF, err)
	}
	return true, nil
}

// Byte reads a single byte.
func (r *Reader) Byte() (byte, error) {
	var b [1]byte
	if _, err := r.read(b[:], false); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Number reads a LEB128-style varint written by Writer.Number.
func (r *Reader) Number() (uint64, error) {
	var s uint64
	var sh uint
	for {
		var b [1]byte
		if _, err := r.read(b[:], false); err != nil {
			return 0, err
		}
		s |= uint64(b[0]&0x7f) << sh
		sh += 7
		if b[0]&0x80 == 0 {
			break
		}
	}
	return s, nil
}

// Number32 reads a fixed four byte big-endian integer.
func (r *Reader) Number32() (uint32, error) {
	var b [4]byte
	if _, err := r.read(b[:], false); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// String reads a length-prefixed string written by Writer.String.
func (r *Reader) String() (string, error) {
	n, err := r.Number()
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := r.read(buf, false); err != nil {
		return "", err
	}
	return string(buf), nil
}

// StringImplicit reads the remainder of a substream as a string with no
// length prefix. It is an error to call this on a top-level Reader.
func (r *Reader) StringImplicit() (string, error) {
	if r.parent == nil {
		return "", coreerr.Errorf("codec: StringImplicit can only be used on a substream")
	}
	buf := make([]byte, r.left)
	if _, err := r.read(buf, false); err != nil {
		return "", err
	}
	return string(buf), nil
}

// BlobImplicit reads the remainder of a substream as raw bytes.
func (r *Reader) BlobImplicit() ([]byte, error) {
	if r.parent == nil {
		return nil, coreerr.Errorf("codec: BlobImplicit can only be used on a substream")
	}
	buf := make([]byte, r.left)
	if _, err := r.read(buf, false); err != nil {
		return nil, err
	}
	return buf, nil
}

// Raw fills buf completely.
func (r *Reader) Raw(buf []byte) error {
	_, err := r.read(buf, false)
	return err
}

// TagHandler pairs an extension tag with the function that consumes its
// substream.
type TagHandler struct {
	Tag uint32
	Fn  func(s *Reader) error
}

// Extension walks tagged extension records until the stream (or, for a
// substream, its bound) is exhausted. Each record's payload is exposed to
// its handler as a bounded substream, which is drained automatically
// afterward so an unread tail doesn't desync the next record.
func (r *Reader) Extension(handlers []TagHandler, defaultHandler func(tag uint32, s *Reader) error) error {
	byTag := make(map[uint32]func(*Reader) error, len(handlers))
	for _, h := range handlers {
		byTag[h.Tag] = h.Fn
	}

	for r.parent == nil || r.left > 0 {
		var magic [4]byte
		ok, err := r.read(magic[:], true)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if binary.BigEndian.Uint32(magic[:]) != ExtensionTag {
			return coreerr.Categorized(coreerr.MalformedInput, coreerr.MalformedStream, "extension magic mismatch")
		}

		tag, err := r.Number32()
		if err != nil {
			return err
		}
		size, err := r.Number()
		if err != nil {
			return err
		}
		sub, err := r.Substream(size)
		if err != nil {
			return err
		}

		if fn, ok := byTag[tag]; ok {
			if err := fn(sub); err != nil {
				return err
			}
		} else if defaultHandler != nil {
			if err := defaultHandler(tag, sub); err != nil {
				return err
			}
		}
		if err := sub.flush(); err != nil {
			return err
		}
	}
	return nil
}

// flush discards any unread bytes remaining in a substream.
func (r *Reader) flush() error {
	if r.parent == nil {
		return coreerr.Errorf("codec: flush can only be used on a substream")
	}
	var buf [256]byte
	for r.left > 0 {
		n := r.left
		if n > uint64(len(buf)) {
			n = uint64(len(buf))
		}
		if _, err := r.read(buf[:n], false); err != nil {
			return err
		}
	}
	return nil
}

// NullDefault is a default extension handler that silently discards any
// tag it's given.
func NullDefault(tag uint32, s *Reader) error {
	return nil
}
