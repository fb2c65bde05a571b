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

package config

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lsnes-go/core/coreerr"
)

// WarningBoilerPlate is written as the first line of every saved
// preferences file, so that a user who opens it by hand understands that
// it is machine-managed.
const WarningBoilerPlate = "# this file is generated by lsnes-go; edit with care"

// Disk groups named Cells and persists them, one "key :: value" pair per
// line, to a single file.
type Disk struct {
	filename string
	cells    map[string]Cell
}

// NewDisk prepares a Disk backed by the given file. The file is not
// touched until Save or Load is called.
func NewDisk(filename string) (*Disk, error) {
	if filename == "" {
		return nil, coreerr.Errorf("config: disk file name must not be empty")
	}
	return &Disk{
		filename: filename,
		cells:    make(map[string]Cell),
	}, nil
}

// Add registers a cell under a name. Re-registering the same name
// replaces the previous cell.
func (d *Disk) Add(name string, cell Cell) error {
	if cell == nil {
		return coreerr.Errorf("config: cannot add nil cell (%v)", name)
	}
	d.cells[name] = cell
	return nil
}

// Save writes every registered cell to disk, in alphabetical key order,
// merged with whatever the file already contains. Merging (rather than
// truncating) means two Disk instances backed by the same file (one
// per subsystem, say) can both save without clobbering each other's
// keys.
func (d *Disk) Save() error {
	merged := d.readExisting()
	for name, cell := range d.cells {
		merged[name] = cell.String()
	}

	f, err := os.Create(d.filename)
	if err != nil {
		return coreerr.Categorized(coreerr.IoFailure, "config: cannot save preferences (%v)", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s\n", WarningBoilerPlate)

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s :: %s\n", name, merged[name])
	}

	return w.Flush()
}

// readExisting returns the raw key/value pairs currently on disk, or an
// empty map if the file doesn't exist yet.
func (d *Disk) readExisting() map[string]string {
	out := make(map[string]string)

	f, err := os.Open(d.filename)
	if err != nil {
		return out
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, " :: ")
		if !ok {
			continue
		}
		out[name] = value
	}
	return out
}

// Load reads the file and applies each line to the matching registered
// cell. Lines for names that are not (or no longer) registered are
// ignored, and the boilerplate comment line is skipped.
func (d *Disk) Load() error {
	f, err := os.Open(d.filename)
	if err != nil {
		return coreerr.Categorized(coreerr.IoFailure, "config: cannot load preferences (%v)", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, " :: ")
		if !ok {
			continue
		}
		cell, ok := d.cells[name]
		if !ok {
			continue
		}
		if err := cell.Set(value); err != nil {
			return coreerr.Categorized(coreerr.MalformedInput, "config: malformed preference line (%v)", line)
		}
	}
	return sc.Err()
}
