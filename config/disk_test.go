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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/lsnes-go/core/config"
	"github.com/lsnes-go/core/test"
)

const tempFile = "lsnes_core_config_test"

func getTmpConfigFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(os.TempDir(), tempFile)
}

func delTmpConfigFile(t *testing.T, fn string) {
	t.Helper()
	if err := os.Remove(fn); err != nil {
		var pathError *os.PathError
		if !errors.As(err, &pathError) {
			t.Errorf("error removing tmp config file: %v", err)
		}
	}
}

func cmpTmpFile(t *testing.T, fn string, expected string) {
	t.Helper()

	f, err := os.Open(fn)
	if err != nil {
		t.Errorf("error opening tmp file: %v", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Errorf("error reading tmp file: %v", err)
		return
	}

	expected = fmt.Sprintf("%s\n%s", config.WarningBoilerPlate, expected)
	if expected != string(data) {
		t.Errorf("expected data and data in config file do not match")
		fmt.Println("expected:")
		fmt.Println(expected)
		fmt.Println("\nin file:")
		fmt.Println(string(data))
	}
}

func TestBool(t *testing.T) {
	fn := getTmpConfigFile(t)
	defer delTmpConfigFile(t, fn)

	dsk, err := config.NewDisk(fn)
	test.ExpectSuccess(t, err)

	var v, w, x config.Bool
	test.ExpectSuccess(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, dsk.Add("testB", &w))
	test.ExpectSuccess(t, dsk.Add("testC", &x))

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, w.Set("foo"))
	test.ExpectSuccess(t, x.Set("true"))

	test.ExpectSuccess(t, dsk.Save())

	cmpTmpFile(t, fn, "test :: true\ntestB :: false\ntestC :: true\n")
}

func TestString(t *testing.T) {
	fn := getTmpConfigFile(t)
	defer delTmpConfigFile(t, fn)

	dsk, err := config.NewDisk(fn)
	test.ExpectSuccess(t, err)

	var v config.String
	test.ExpectSuccess(t, dsk.Add("foo", &v))
	test.ExpectSuccess(t, v.Set("bar"))
	test.ExpectSuccess(t, dsk.Save())

	cmpTmpFile(t, fn, "foo :: bar\n")
}

func TestFloat(t *testing.T) {
	fn := getTmpConfigFile(t)
	defer delTmpConfigFile(t, fn)

	dsk, err := config.NewDisk(fn)
	test.ExpectSuccess(t, err)

	var v config.Float
	test.ExpectSuccess(t, dsk.Add("foo", &v))

	test.ExpectFailure(t, v.Set("bar"))
	test.ExpectSuccess(t, v.Set(1.0))
	test.ExpectSuccess(t, v.Set(2.0))
	test.ExpectSuccess(t, v.Set(-3.0))

	test.ExpectSuccess(t, dsk.Save())
}

func TestInt(t *testing.T) {
	fn := getTmpConfigFile(t)
	defer delTmpConfigFile(t, fn)

	dsk, err := config.NewDisk(fn)
	test.ExpectSuccess(t, err)

	var v, w config.Int
	test.ExpectSuccess(t, dsk.Add("number", &v))
	test.ExpectSuccess(t, dsk.Add("numberB", &w))

	test.ExpectSuccess(t, v.Set(10))
	test.ExpectSuccess(t, w.Set("99"))
	test.ExpectSuccess(t, dsk.Save())

	cmpTmpFile(t, fn, "number :: 10\nnumberB :: 99\n")

	test.ExpectFailure(t, v.Set("---"))
	test.ExpectFailure(t, v.Set(1.0))
}

func TestGeneric(t *testing.T) {
	fn := getTmpConfigFile(t)
	defer delTmpConfigFile(t, fn)

	dsk, err := config.NewDisk(fn)
	test.ExpectSuccess(t, err)

	var w, h int

	v := config.NewGeneric(
		func(s config.Value) error {
			_, err := fmt.Sscanf(s.(string), "%d,%d", &w, &h)
			return err
		},
		func() config.Value {
			return fmt.Sprintf("%d,%d", w, h)
		},
	)

	test.ExpectSuccess(t, dsk.Add("generic", v))

	w, h = 1, 2
	test.ExpectSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "generic :: 1,2\n")

	w, h = 0, 0
	test.ExpectSuccess(t, dsk.Load())
	test.ExpectEquality(t, w, 1)
	test.ExpectEquality(t, h, 2)
}

// TestBoolAndString writes a bool and then a string from a different
// config.Disk instance sharing the same file, and checks that the second
// write doesn't clobber the results of the first.
func TestBoolAndString(t *testing.T) {
	fn := getTmpConfigFile(t)
	defer delTmpConfigFile(t, fn)

	dsk, err := config.NewDisk(fn)
	test.ExpectSuccess(t, err)

	var v config.Bool
	test.ExpectSuccess(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, dsk.Save())

	// start a new disk instance using the same file, which hasn't been
	// deleted yet
	dsk, err = config.NewDisk(fn)
	test.ExpectSuccess(t, err)

	var s config.String
	test.ExpectSuccess(t, dsk.Add("foo", &s))
	test.ExpectSuccess(t, s.Set("bar"))
	test.ExpectSuccess(t, dsk.Save())

	cmpTmpFile(t, fn, "foo :: bar\ntest :: true\n")
}

func TestMaxStringLength(t *testing.T) {
	fn := getTmpConfigFile(t)
	defer delTmpConfigFile(t, fn)

	dsk, err := config.NewDisk(fn)
	test.ExpectSuccess(t, err)

	var s config.String
	test.ExpectSuccess(t, dsk.Add("test", &s))
	test.ExpectSuccess(t, s.Set("123456789"))
	test.ExpectEquality(t, s.String(), "123456789")

	s.SetMaxLen(5)
	test.ExpectEquality(t, s.String(), "12345")

	s.SetMaxLen(0)
	test.ExpectEquality(t, s.String(), "12345")

	s.SetMaxLen(3)
	test.ExpectSuccess(t, s.Set("abcdefghi"))
	test.ExpectEquality(t, s.String(), "abc")
}
