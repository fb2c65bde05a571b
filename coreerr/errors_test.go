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

package coreerr_test

import (
	"testing"

	"github.com/lsnes-go/core/coreerr"
	"github.com/lsnes-go/core/test"
)

const testError = "test error: %s"
const testErrorB = "test error B: %s"

func TestDuplicateErrors(t *testing.T) {
	e := coreerr.Errorf(testError, "foo")
	test.Equate(t, e.Error(), "test error: foo")

	// packing errors of the same type next to each other causes
	// one of them to be dropped
	f := coreerr.Errorf(testError, e)
	test.Equate(t, f.Error(), "test error: foo")
}

func TestIs(t *testing.T) {
	e := coreerr.Errorf(testError, "foo")
	test.ExpectSuccess(t, coreerr.Is(e, testError))

	// Has() should fail because we haven't included testErrorB anywhere
	test.ExpectFailure(t, coreerr.Has(e, testErrorB))

	f := coreerr.Errorf(testErrorB, e)
	test.ExpectFailure(t, coreerr.Is(f, testError))
	test.ExpectSuccess(t, coreerr.Is(f, testErrorB))
	test.ExpectSuccess(t, coreerr.Has(f, testError))
	test.ExpectSuccess(t, coreerr.Has(f, testErrorB))

	test.ExpectSuccess(t, coreerr.IsAny(e))
	test.ExpectSuccess(t, coreerr.IsAny(f))
}

func TestPlainErrors(t *testing.T) {
	e := coreerr.Errorf(testError, "foo")

	test.ExpectFailure(t, coreerr.IsAny(nil))
	test.ExpectFailure(t, coreerr.Is(nil, testError))
	test.ExpectFailure(t, coreerr.Has(nil, testError))
	test.ExpectSuccess(t, coreerr.IsAny(e))
}

func TestCategory(t *testing.T) {
	e := coreerr.Categorized(coreerr.OutOfRange, coreerr.AddressOutOfRange, 0x1000)
	cat, ok := coreerr.Of(e)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, cat, coreerr.OutOfRange)

	plain := coreerr.Errorf("uncategorized: %s", "x")
	_, ok = coreerr.Of(plain)
	test.ExpectFailure(t, ok)
}
