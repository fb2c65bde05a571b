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

package crypto

import "golang.org/x/crypto/curve25519"

// Clamp applies the standard curve25519 scalar clamp in place.
func Clamp(scalar *[32]byte) {
	scalar[0] &= 248
	scalar[31] &= 127
	scalar[31] |= 64
}

// ScalarMult computes the curve25519 scalar multiplication
// scalar*point, clamping scalar first.
func ScalarMult(scalar, point [32]byte) [32]byte {
	Clamp(&scalar)
	var out [32]byte
	curve25519.ScalarMult(&out, &scalar, &point)
	return out
}

// BasePoint is the curve25519 base point, used to derive a public key from a
// private scalar: ScalarBaseMult(priv) == ScalarMult(priv, BasePoint).
var BasePoint = [32]byte{9}

// ScalarBaseMult derives a public key from a clamped private scalar.
func ScalarBaseMult(scalar [32]byte) [32]byte {
	return ScalarMult(scalar, BasePoint)
}
