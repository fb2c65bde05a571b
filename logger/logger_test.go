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

package logger_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/lsnes-go/core/logger"
	"github.com/lsnes-go/core/test"
)

func TestCentralLogger(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "test", "this is a test")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test\n")

	w.Reset()

	log.Log(logger.Allow, "test2", "this is another test")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	w.Reset()
	log.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "test2: this is another test\n")

	w.Reset()
	log.Tail(w, 0)
	test.ExpectEquality(t, w.String(), "")

	log.Clear()
	w.Reset()
	log.Write(w)
	test.ExpectEquality(t, w.String(), "")
}

type prohibitLogging struct {
	allow int
}

func (p prohibitLogging) AllowLogging() bool { return p.allow > 50 }

func TestPermissions(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	var p prohibitLogging

	for i := 0; i < 100; i++ {
		p.allow = rand.Intn(100)
		log.Clear()
		w.Reset()
		log.Log(p, "tag", "detail")
		log.Write(w)
		if p.AllowLogging() {
			test.ExpectEquality(t, w.String(), "tag: detail\n")
		} else {
			test.ExpectEquality(t, w.String(), "")
		}
	}
}

func TestRingWraps(t *testing.T) {
	log := logger.NewLogger(3)
	w := &strings.Builder{}

	log.Logf(logger.Allow, "t", "%d", 1)
	log.Logf(logger.Allow, "t", "%d", 2)
	log.Logf(logger.Allow, "t", "%d", 3)
	log.Logf(logger.Allow, "t", "%d", 4)

	log.Write(w)
	test.ExpectEquality(t, w.String(), "t: 2\nt: 3\nt: 4\n")
}
