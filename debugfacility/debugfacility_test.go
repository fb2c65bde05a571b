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

package debugfacility_test

import (
	"testing"

	"github.com/lsnes-go/core/debugfacility"
	"github.com/lsnes-go/core/test"
)

func TestWriteWatchpointFires(t *testing.T) {
	f := debugfacility.New()
	var got uint8
	fired := false
	f.RegisterWrite(0x100, func(addr uint64, value uint8) {
		fired = true
		got = value
	})

	test.ExpectSuccess(t, f.HasWrite(0x100))
	f.OnWrite(0x100, 0x42)
	test.ExpectSuccess(t, fired)
	test.ExpectEquality(t, got, uint8(0x42))
}

func TestUnregisteredAddressDoesNotFire(t *testing.T) {
	f := debugfacility.New()
	fired := false
	f.RegisterRead(0x100, func(uint64, uint8) { fired = true })
	f.OnRead(0x200, 0)
	test.ExpectFailure(t, fired)
}

func TestCheatOverridesReadValue(t *testing.T) {
	f := debugfacility.New()
	f.SetCheat(0x10, 99)
	test.ExpectEquality(t, f.Apply(0x10, 5), uint8(99))

	f.ClearCheat(0x10)
	test.ExpectEquality(t, f.Apply(0x10, 5), uint8(5))
}

func TestGetCheatReportsPresence(t *testing.T) {
	f := debugfacility.New()
	_, ok := f.GetCheat(0x10)
	test.ExpectFailure(t, ok)

	f.SetCheat(0x10, 7)
	v, ok := f.GetCheat(0x10)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, uint8(7))
}
