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

package rrdata_test

import (
	"bytes"
	"testing"

	"github.com/lsnes-go/core/rrdata"
	"github.com/lsnes-go/core/test"
)

func TestCountMatchesSetSize(t *testing.T) {
	s := rrdata.New()
	tokens := []uint64{1, 2, 3, 100, 101, 5000}
	for _, tok := range tokens {
		s.Add(tok)
	}
	test.ExpectEquality(t, s.Count(), len(tokens))

	n, err := rrdata.Count(s.Bytes())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, uint64(len(tokens)))
}

func TestAddIsIdempotent(t *testing.T) {
	s := rrdata.New()
	s.Add(42)
	before := s.Count()
	s.Add(42)
	test.ExpectEquality(t, s.Count(), before)

	s.Add(43)
	test.ExpectEquality(t, s.Count(), before+1)
}

func TestParseRoundTrip(t *testing.T) {
	s := rrdata.New()
	for _, tok := range []uint64{0, 1, 2, 7, 8, 9, 1 << 30, 1<<30 + 1} {
		s.Add(tok)
	}

	decoded, err := rrdata.Parse(s.Bytes())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, decoded.Count(), s.Count())
	for _, tok := range []uint64{0, 1, 2, 7, 8, 9, 1 << 30, 1<<30 + 1} {
		test.ExpectEquality(t, decoded.Has(tok), true)
	}
	test.ExpectEquality(t, decoded.Has(3), false)

	// a canonical re-encode is byte-identical
	test.ExpectEquality(t, bytes.Equal(decoded.Bytes(), s.Bytes()), true)
}

func TestEmptySet(t *testing.T) {
	s := rrdata.New()
	test.ExpectEquality(t, len(s.Bytes()), 0)
	n, err := rrdata.Count(nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, uint64(0))
}

func TestEmergencyStreamMatchesBytes(t *testing.T) {
	s := rrdata.New()
	for tok := uint64(10); tok < 200; tok++ {
		s.Add(tok)
	}
	s.Add(100000)

	st := s.NewEmergencyState()
	test.ExpectEquality(t, st.SizeEmergency(), uint64(len(s.Bytes())))

	var out []byte
	var buf [7]byte // deliberately awkward chunk size
	for {
		n := st.WriteEmergency(buf[:])
		if n == 0 {
			break
		}
		out = append(out, buf[:n]...)
	}
	test.ExpectEquality(t, bytes.Equal(out, s.Bytes()), true)
}

func TestTruncatedStreamRejected(t *testing.T) {
	s := rrdata.New()
	s.Add(300) // 300 needs a two byte varint
	enc := s.Bytes()
	_, err := rrdata.Count(enc[:len(enc)-1])
	test.ExpectFailure(t, err)
}
