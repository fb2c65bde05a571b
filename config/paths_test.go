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

package config_test

import (
	"testing"

	"github.com/lsnes-go/core/config"
	"github.com/lsnes-go/core/test"
)

func TestDirHonorsXDGOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	dir, err := config.Dir()
	test.Equate(t, err, nil)
	test.Equate(t, dir, tmp+"/lsnes-go")
}

func TestResourcePath(t *testing.T) {
	pth, err := config.ResourcePath("foo/bar", "baz")
	test.Equate(t, err, nil)
	test.Equate(t, pth, ".lsnes-go/foo/bar/baz")

	pth, err = config.ResourcePath("foo/bar", "")
	test.Equate(t, err, nil)
	test.Equate(t, pth, ".lsnes-go/foo/bar")

	pth, err = config.ResourcePath("", "baz")
	test.Equate(t, err, nil)
	test.Equate(t, pth, ".lsnes-go/baz")

	pth, err = config.ResourcePath("", "")
	test.Equate(t, err, nil)
	test.Equate(t, pth, ".lsnes-go")
}
