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

package crypto_test

import (
	"encoding/hex"
	"testing"

	"github.com/lsnes-go/core/crypto"
	"github.com/lsnes-go/core/test"
)

// published Skein-512-512 test vectors (version 1.3)
func TestSkeinReferenceVectors(t *testing.T) {
	vectors := []struct {
		msg  string
		want string
	}{
		{
			"",
			"bc5b4c50925519c290cc634277ae3d6257212395cba733bbad37a4af0fa06af4" +
				"1fca7903d06564fea7a2d3730dbdb80c1f85562dfcc070334ea4d1d9e72cba7a",
		},
		{
			"The quick brown fox jumps over the lazy dog",
			"94c2ae036dba8783d0b3f7d6cc111ff810702f5c77707999be7e1c9486ff238a" +
				"7044de734293147359b4ac7e1d09cd247c351d69826b78dcddd951f0ef912713",
		},
	}
	for _, v := range vectors {
		got := crypto.Sum512([]byte(v.msg), 512)
		test.ExpectEquality(t, hex.EncodeToString(got), v.want)
	}
}

func TestSkeinDeterministic(t *testing.T) {
	a := crypto.Sum512([]byte("hello, lsnes"), 256)
	b := crypto.Sum512([]byte("hello, lsnes"), 256)
	test.ExpectEquality(t, a, b)
	test.ExpectEquality(t, len(a), 32)
}

func TestSkeinSensitivity(t *testing.T) {
	a := crypto.Sum512([]byte("hello, lsnes"), 256)
	b := crypto.Sum512([]byte("hello, lsneS"), 256)
	test.ExpectInequality(t, a, b)
}

func TestSkeinKeyedVsUnkeyed(t *testing.T) {
	h1 := crypto.NewHash(256)
	h1.Write([]byte("message"), crypto.TypeMessage)
	unkeyed := h1.Sum()

	h2 := crypto.NewHash(256)
	h2.Write([]byte("key"), crypto.TypeKey)
	h2.Write([]byte("message"), crypto.TypeMessage)
	keyed := h2.Sum()

	test.ExpectInequality(t, unkeyed, keyed)
}

func TestSkeinOutOfOrderTypesPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for out-of-order data types")
		}
	}()
	h := crypto.NewHash(256)
	h.Write([]byte("x"), crypto.TypeNonce)
	h.Write([]byte("y"), crypto.TypeKey)
}

func TestCurve25519Clamp(t *testing.T) {
	scalar := [32]byte{}
	for i := range scalar {
		scalar[i] = 0xFF
	}
	crypto.Clamp(&scalar)
	test.ExpectEquality(t, scalar[0]&0x07, byte(0))
	test.ExpectEquality(t, scalar[31]&0xC0, byte(0x40))
}

func TestCurve25519Agreement(t *testing.T) {
	var aPriv, bPriv [32]byte
	for i := range aPriv {
		aPriv[i] = byte(i + 1)
		bPriv[i] = byte(2*i + 3)
	}

	aPub := crypto.ScalarBaseMult(aPriv)
	bPub := crypto.ScalarBaseMult(bPriv)

	aShared := crypto.ScalarMult(aPriv, bPub)
	bShared := crypto.ScalarMult(bPriv, aPub)

	test.ExpectEquality(t, aShared, bShared)
}

func TestDH25519AuthFlow(t *testing.T) {
	var clientPriv [32]byte
	for i := range clientPriv {
		clientPriv[i] = byte(i * 7)
	}
	client := crypto.NewDH25519Auth(clientPriv)
	test.ExpectFailure(t, client.Ready())

	var serverPriv [32]byte
	for i := range serverPriv {
		serverPriv[i] = byte(i*3 + 1)
	}
	challenge := crypto.ScalarBaseMult(serverPriv)

	hexChallenge := encodeHex(challenge[:])
	test.ExpectSuccess(t, client.HandleChallenge("session-1", hexChallenge))
	test.ExpectSuccess(t, client.Ready())

	req, err := client.StartRequest("GET", "https://example.invalid/upload")
	test.ExpectSuccess(t, err)
	auth := req.Authorization()
	test.ExpectInequality(t, auth, "")
}

func TestLoadUserDH25519Key(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	auth, err := crypto.LoadUserDH25519Key()
	test.ExpectSuccess(t, err)

	// a second load finds the generated key rather than minting a new one
	again, err := crypto.LoadUserDH25519Key()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, auth.PublicKey(), again.PublicKey())
}

func encodeHex(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[2*i] = digits[c>>4]
		out[2*i+1] = digits[c&0xf]
	}
	return string(out)
}
