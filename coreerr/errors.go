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

package coreerr

import (
	"fmt"
	"strings"
)

// Values is the type used to specify arguments for curated errors.
type Values []any

// curated errors allow code to specify a predefined message pattern and
// not worry about how the message is formatted on output.
type curated struct {
	message  string
	values   Values
	category Category
	hasCat   bool
}

// Errorf creates a new curated error with no specific Category.
func Errorf(message string, values ...any) error {
	return curated{message: message, values: values}
}

// Categorized creates a new curated error tagged with a Category, so that
// callers further up the stack can branch on Of(err) without string
// matching.
func Categorized(cat Category, message string, values ...any) error {
	return curated{message: message, values: values, category: cat, hasCat: true}
}

// Error returns the normalised error message: the de-duplication of
// adjacent identical ": "-joined segments in the formatted chain.
func (er curated) Error() string {
	s := fmt.Errorf(er.message, er.values...).Error()

	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}
	return strings.Join(p, ": ")
}

// Head returns the leading pattern of a curated error, or err.Error() for a
// plain error.
func Head(err error) string {
	if er, ok := err.(curated); ok {
		return er.message
	}
	return err.Error()
}

// IsAny reports whether err was created by this package.
func IsAny(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(curated)
	return ok
}

// Is reports whether err has the given pattern as its own head.
func Is(err error, pattern string) bool {
	if err == nil {
		return false
	}
	er, ok := err.(curated)
	return ok && er.message == pattern
}

// Has reports whether pattern occurs anywhere in err's chain.
func Has(err error, pattern string) bool {
	if err == nil {
		return false
	}
	if !IsAny(err) {
		return false
	}
	if Is(err, pattern) {
		return true
	}
	for _, v := range err.(curated).values {
		if e, ok := v.(error); ok {
			if Has(e, pattern) {
				return true
			}
		}
	}
	return false
}

// Of returns the Category a curated error was tagged with, and whether it
// was tagged at all (untagged and non-curated errors both report false).
func Of(err error) (Category, bool) {
	if er, ok := err.(curated); ok && er.hasCat {
		return er.category, true
	}
	return 0, false
}
