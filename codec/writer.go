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
	"bytes"
	"encoding/binary"
	"io"
)

// ExtensionTag is the four byte magic that precedes every extension
// record's own tag, letting a reader sanity-check framing before trusting
// the tag and size that follow it.
const ExtensionTag uint32 = 0xaddb2d86

// Writer serialises values using the codec's wire format. The zero Writer
// is not usable; use NewWriter or NewBuffer.
type Writer struct {
	w io.Writer
	// buf is non-nil when this Writer owns its own backing buffer,
	// which Bytes() then exposes.
	buf *bytes.Buffer
}

// NewWriter wraps an existing sink.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// NewBuffer creates a Writer backed by its own buffer, retrievable with
// Bytes. Used to measure or stage an extension's payload before deciding
// whether to emit it at all.
func NewBuffer() *Writer {
	buf := &bytes.Buffer{}
	return &Writer{w: buf, buf: buf}
}

// Bytes returns the accumulated bytes of a buffer-backed Writer. It panics
// if the Writer was constructed with NewWriter against an explicit sink.
func (w *Writer) Bytes() []byte {
	if w.buf == nil {
		panic("codec: Bytes can only be used on a buffer-backed Writer")
	}
	return w.buf.Bytes()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) error {
	_, err := w.w.Write([]byte{b})
	return err
}

// Number writes an unsigned integer as a LEB128-style varint, seven bits
// per byte, continuation flagged by the top bit.
func (w *Writer) Number(n uint64) error {
	var data [10]byte
	length := 0
	for {
		cont := n > 127
		b := byte(n & 0x7f)
		if cont {
			b |= 0x80
		}
		data[length] = b
		length++
		n >>= 7
		if !cont {
			break
		}
	}
	_, err := w.w.Write(data[:length])
	return err
}

// NumberBytes reports how many bytes Number would write for n, without
// writing anything.
func NumberBytes(n uint64) int {
	o := 0
	for {
		o++
		n >>= 7
		if n == 0 {
			break
		}
	}
	return o
}

// Number32 writes a fixed four byte big-endian integer.
func (w *Writer) Number32(n uint32) error {
	var data [4]byte
	binary.BigEndian.PutUint32(data[:], n)
	_, err := w.w.Write(data[:])
	return err
}

// String writes a length-prefixed string.
func (w *Writer) String(s string) error {
	if err := w.Number(uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w.w, s)
	return err
}

// StringImplicit writes a string with no length prefix, for use inside an
// extension record whose size is already known to the reader from framing.
func (w *Writer) StringImplicit(s string) error {
	_, err := io.WriteString(w.w, s)
	return err
}

// BlobImplicit writes raw bytes with no length prefix.
func (w *Writer) BlobImplicit(blob []byte) error {
	_, err := w.w.Write(blob)
	return err
}

// Raw writes raw bytes verbatim. Equivalent to BlobImplicit; kept as a
// distinct name because the two have different callers in the wire format
// (fixed-size fields versus variable-length blobs).
func (w *Writer) Raw(buf []byte) error {
	_, err := w.w.Write(buf)
	return err
}

// WriteExtensionTag writes the extension framing (magic, tag, size) with
// no payload. Used by callers that stream a payload themselves afterward.
func (w *Writer) WriteExtensionTag(tag uint32, size uint64) error {
	if err := w.Number32(ExtensionTag); err != nil {
		return err
	}
	if err := w.Number32(tag); err != nil {
		return err
	}
	return w.Number(size)
}

// Extension buffers fn's output and, unless it came out empty and
// evenEmpty is false, writes it as a framed extension record under tag.
func (w *Writer) Extension(tag uint32, fn func(*Writer) error, evenEmpty bool) error {
	tmp := NewBuffer()
	if err := fn(tmp); err != nil {
		return err
	}
	payload := tmp.Bytes()
	if !evenEmpty && len(payload) == 0 {
		return nil
	}
	if err := w.Number32(ExtensionTag); err != nil {
		return err
	}
	if err := w.Number32(tag); err != nil {
		return err
	}
	return w.String(string(payload))
}

// ExtensionSized writes the extension framing using a size the caller
// already knows (sizePrecognition), then streams fn directly to w instead
// of buffering it first. Skips the record entirely when the size is zero
// and evenEmpty is false.
func (w *Writer) ExtensionSized(tag uint32, fn func(*Writer) error, evenEmpty bool, sizePrecognition uint64) error {
	if !evenEmpty && sizePrecognition == 0 {
		return nil
	}
	if err := w.Number32(ExtensionTag); err != nil {
		return err
	}
	if err := w.Number32(tag); err != nil {
		return err
	}
	if err := w.Number(sizePrecognition); err != nil {
		return err
	}
	return fn(w)
}
