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

// Package coreerr is a helper package for the plain Go error type. We think
// of these errors as curated errors: external to this package they are
// referenced as plain errors (they implement the error interface), but
// internally each is a (pattern, values) pair so that Is/Has can recognise
// them without string matching on the final formatted message, and so
// that Error() can de-duplicate adjacent repeated segments produced by
// naive wrapping.
//
//	func A() error {
//		err := B()
//		if err != nil {
//			return coreerr.Errorf("movie error: %v", err)
//		}
//		return nil
//	}
//
// If B() also wraps with "movie error: %v" the final message is still
// "movie error: ..." rather than "movie error: movie error: ...".
//
// Error categories (malformed input, I/O failure, read-only violation,
// out of range, stale reference, invalid state, script error, cancelled)
// are given Category constants in categories.go, and every subsystem's
// concrete message patterns live in messages.go, grouped by the subsystem
// that raises them.
package coreerr
