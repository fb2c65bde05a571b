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

// Package test collects the handful of assertion helpers used throughout
// this module's own test suites, in place of a third-party assertion
// library.
package test

import (
	"math"
	"reflect"
	"testing"
)

// ExpectSuccess fails the test if v represents a failure. v may be a bool
// (false is failure), an error (non-nil is failure), or nil (success).
func ExpectSuccess(t *testing.T, v any) {
	t.Helper()
	if !isSuccess(v) {
		t.Errorf("expected success, got %v", v)
	}
}

// ExpectFailure fails the test if v represents success.
func ExpectFailure(t *testing.T, v any) {
	t.Helper()
	if isSuccess(v) {
		t.Errorf("expected failure, got %v", v)
	}
}

func isSuccess(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return x
	case error:
		return x == nil
	default:
		return true
	}
}

// ExpectEquality fails the test unless a and b are deeply equal.
func ExpectEquality(t *testing.T, a, b any) {
	t.Helper()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected equality: %v != %v", a, b)
	}
}

// ExpectInequality fails the test if a and b are deeply equal.
func ExpectInequality(t *testing.T, a, b any) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		t.Errorf("expected inequality: %v == %v", a, b)
	}
}

// ExpectApproximate fails the test unless a and b are within tolerance of
// one another.
func ExpectApproximate(t *testing.T, a, b, tolerance float64) {
	t.Helper()
	if math.Abs(a-b) > tolerance {
		t.Errorf("expected %v to be within %v of %v", a, tolerance, b)
	}
}

// Equate is the older, terser form of ExpectEquality, kept so existing
// callers don't have to churn.
func Equate(t *testing.T, a, b any) {
	t.Helper()
	ExpectEquality(t, a, b)
}
