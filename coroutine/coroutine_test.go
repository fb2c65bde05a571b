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

package coroutine_test

import (
	"testing"

	"github.com/lsnes-go/core/coroutine"
	"github.com/lsnes-go/core/test"
)

func TestLifecycle(t *testing.T) {
	var observed []int

	co := coroutine.New(func(co *coroutine.Coroutine, _ any) {
		observed = append(observed, 1)
		co.Yield()
		observed = append(observed, 2)
		co.Yield()
		observed = append(observed, 3)
	}, nil)

	// the constructor ran the body to its first yield
	test.ExpectEquality(t, len(observed), 1)
	test.ExpectEquality(t, co.IsDead(), false)

	co.Resume()
	test.ExpectEquality(t, len(observed), 2)
	test.ExpectEquality(t, co.IsDead(), false)

	co.Resume()
	test.ExpectEquality(t, len(observed), 3)
	test.ExpectEquality(t, co.IsDead(), true)

	test.ExpectEquality(t, observed[0], 1)
	test.ExpectEquality(t, observed[1], 2)
	test.ExpectEquality(t, observed[2], 3)
}

func TestArgumentPassing(t *testing.T) {
	var got any
	co := coroutine.New(func(co *coroutine.Coroutine, arg any) {
		got = arg
	}, "payload")
	test.ExpectEquality(t, co.IsDead(), true)
	test.ExpectEquality(t, got, "payload")
}

func TestExit(t *testing.T) {
	reached := false
	co := coroutine.New(func(co *coroutine.Coroutine, _ any) {
		co.Yield()
		co.Exit()
		reached = true // never runs
	}, nil)

	test.ExpectEquality(t, co.IsDead(), false)
	co.Resume()
	test.ExpectEquality(t, co.IsDead(), true)
	test.ExpectEquality(t, reached, false)
}

func TestStateSurvivesYield(t *testing.T) {
	// mutations made before a yield are visible unchanged after the
	// resume on both sides of the switch.
	shared := map[string]int{}
	co := coroutine.New(func(co *coroutine.Coroutine, _ any) {
		shared["inside"] = 1
		co.Yield()
		shared["inside"]++
	}, nil)

	test.ExpectEquality(t, shared["inside"], 1)
	shared["outside"] = 10
	co.Resume()
	test.ExpectEquality(t, shared["inside"], 2)
	test.ExpectEquality(t, shared["outside"], 10)
}

func TestResumeDeadPanics(t *testing.T) {
	co := coroutine.New(func(co *coroutine.Coroutine, _ any) {}, nil)
	test.ExpectEquality(t, co.IsDead(), true)

	defer func() {
		test.ExpectInequality(t, recover(), nil)
	}()
	co.Resume()
}
