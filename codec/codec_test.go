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

package codec_test

import (
	"bytes"
	"testing"

	"github.com/lsnes-go/core/codec"
	"github.com/lsnes-go/core/test"
)

func TestNumberRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 20, 1 << 40, ^uint64(0)}
	buf := &bytes.Buffer{}
	w := codec.NewWriter(buf)
	for _, v := range values {
		test.ExpectSuccess(t, w.Number(v))
	}

	r := codec.NewReader(buf)
	for _, want := range values {
		got, err := r.Number()
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, got, want)
	}
}

func TestNumber32RoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	w := codec.NewWriter(buf)
	test.ExpectSuccess(t, w.Number32(0xdeadbeef))

	r := codec.NewReader(buf)
	got, err := r.Number32()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, got, uint32(0xdeadbeef))
}

func TestStringRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	w := codec.NewWriter(buf)
	test.ExpectSuccess(t, w.String("hello, world"))

	r := codec.NewReader(buf)
	got, err := r.String()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, got, "hello, world")
}

func TestSubstreamBounds(t *testing.T) {
	buf := &bytes.Buffer{}
	w := codec.NewWriter(buf)
	test.ExpectSuccess(t, w.Raw([]byte("abcdefgh")))

	r := codec.NewReader(buf)
	sub, err := r.Substream(4)
	test.ExpectSuccess(t, err)

	left, err := sub.GetLeft()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, left, uint64(4))

	out := make([]byte, 4)
	test.ExpectSuccess(t, sub.Raw(out))
	test.ExpectEquality(t, string(out), "abcd")

	// reading past the substream's bound fails even though the
	// underlying reader has more data available
	test.ExpectFailure(t, sub.Raw(make([]byte, 1)))
}

func TestExtensionRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	w := codec.NewWriter(buf)

	test.ExpectSuccess(t, w.Extension(1, func(w *codec.Writer) error {
		return w.String("payload-one")
	}, false))
	// an empty extension without evenEmpty is skipped entirely
	test.ExpectSuccess(t, w.Extension(2, func(w *codec.Writer) error {
		return nil
	}, false))
	test.ExpectSuccess(t, w.Extension(3, func(w *codec.Writer) error {
		return w.String("payload-three")
	}, false))

	var seen []uint32
	var payloads []string
	r := codec.NewReader(buf)
	err := r.Extension(nil, func(tag uint32, s *codec.Reader) error {
		seen = append(seen, tag)
		p, err := s.String()
		if err != nil {
			return err
		}
		payloads = append(payloads, p)
		return nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(seen), 2)
	test.ExpectEquality(t, seen[0], uint32(1))
	test.ExpectEquality(t, seen[1], uint32(3))
	test.ExpectEquality(t, payloads[0], "payload-one")
	test.ExpectEquality(t, payloads[1], "payload-three")
}

func TestExtensionUnknownTagIsSkipped(t *testing.T) {
	buf := &bytes.Buffer{}
	w := codec.NewWriter(buf)
	test.ExpectSuccess(t, w.Extension(9, func(w *codec.Writer) error {
		return w.Raw([]byte("unread tail that must be drained"))
	}, false))
	test.ExpectSuccess(t, w.Extension(1, func(w *codec.Writer) error {
		return w.String("after")
	}, false))

	var handled []uint32
	r := codec.NewReader(buf)
	err := r.Extension([]codec.TagHandler{
		{Tag: 1, Fn: func(s *codec.Reader) error {
			handled = append(handled, 1)
			_, err := s.String()
			return err
		}},
	}, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(handled), 1)
}
