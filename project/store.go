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

// Package project names persistent recording sessions and the per-user
// lists that surround them. A project ties a movie file, its ROM load
// description and its branch bookkeeping to a directory under the
// user's data directory; the package also keeps the recent-files lists
// and upload destinations, all in a line-oriented flat-file store
// simple enough to repair by hand.
package project

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/lsnes-go/core/config"
	"github.com/lsnes-go/core/coreerr"
)

// arbitrary maximum number of entries.
const maxEntries = 1000

const fieldSep = ","
const entrySep = "\n"

const (
	leaderFieldKey int = iota
	leaderFieldID
	numLeaderFields
)

func recordHeader(key int, id string) string {
	return fmt.Sprintf("%03d%s%s", key, fieldSep, id)
}

// Activity describes what will be occurring during the store session.
type Activity int

// Valid activities: the "higher level" activities inherit the
// abilities of the levels below them.
const (
	ActivityReading Activity = iota

	// Modifying implies Reading.
	ActivityModifying

	// Creating implies Modifying (which in turn implies Reading).
	ActivityCreating
)

// Store keeps track of one open store session.
type Store struct {
	file     *os.File
	activity Activity

	entries map[int]Entry

	// deserialisers for the different entries that may appear in the
	// store
	entryTypes map[string]Deserialiser
}

// Open starts a store session. init is called once the file is open
// and should register the entry types that may appear (see
// RegisterEntryType); entries are deserialised as part of Open and any
// deserialiser error fails the whole call.
func Open(path string, activity Activity, init func(*Store) error) (*Store, error) {
	st := &Store{activity: activity}
	st.entryTypes = make(map[string]Deserialiser)

	var flags int
	switch activity {
	case ActivityReading:
		flags = os.O_RDONLY
	case ActivityModifying:
		flags = os.O_RDWR
	case ActivityCreating:
		flags = os.O_RDWR | os.O_CREATE
	}

	var err error
	st.file, err = os.OpenFile(path, flags, 0600)
	if err != nil {
		return nil, coreerr.Categorized(coreerr.IoFailure, "project store: not available (%v)", path)
	}

	// closing of st.file requires a call to Close()

	if err = init(st); err != nil {
		return nil, err
	}

	if err = st.readFile(); err != nil {
		return nil, err
	}

	return st, nil
}

// OpenUser starts a session against the per-user project store
// (config.Dir()/projects.db), creating the configuration directory
// first when the activity permits creation.
func OpenUser(activity Activity, init func(*Store) error) (*Store, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if activity == ActivityCreating {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, coreerr.Categorized(coreerr.IoFailure, "project store: create %v: %v", dir, err)
		}
	}
	return Open(filepath.Join(dir, "projects.db"), activity, init)
}

// Close ends the session, writing back the entries first when
// commitChanges is set.
func (st *Store) Close(commitChanges bool) error {
	if commitChanges {
		if st.activity == ActivityReading {
			return coreerr.Errorf("project store: cannot commit to a read-only store")
		}

		if err := st.file.Truncate(0); err != nil {
			return err
		}
		if _, err := st.file.Seek(0, io.SeekStart); err != nil {
			return err
		}

		for _, key := range st.SortedKeyList() {
			v := st.entries[key]
			ser, err := v.Serialise()
			if err != nil {
				return err
			}

			s := strings.Builder{}
			s.WriteString(recordHeader(key, v.ID()))
			for i := 0; i < len(ser); i++ {
				s.WriteString(fieldSep)
				s.WriteString(ser[i])
			}
			s.WriteString(entrySep)

			if _, err = st.file.WriteString(s.String()); err != nil {
				return err
			}
		}
	}

	if st.file != nil {
		if err := st.file.Close(); err != nil {
			return err
		}
		st.file = nil
	}
	return nil
}

// NumEntries returns the number of entries in the store.
func (st Store) NumEntries() int {
	return len(st.entries)
}

// SortedKeyList returns a sorted list of store keys.
func (st Store) SortedKeyList() []int {
	keyList := make([]int, 0, len(st.entries))
	for k := range st.entries {
		keyList = append(keyList, k)
	}
	sort.Ints(keyList)
	return keyList
}

// List the entries in key order.
func (st Store) List(output io.Writer) error {
	if st.NumEntries() == 0 {
		_, err := output.Write([]byte("store is empty\n"))
		return err
	}

	for _, key := range st.SortedKeyList() {
		ent := st.entries[key]
		if _, err := fmt.Fprintf(output, "%03d %s\n", key, ent.String()); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(output, "Total: %d\n", st.NumEntries())
	return err
}

// Add an entry to the store.
func (st *Store) Add(ent Entry) error {
	var key int
	for key = 0; key < maxEntries; key++ {
		if _, ok := st.entries[key]; !ok {
			break
		}
	}
	if key == maxEntries {
		return coreerr.Errorf("project store: maximum entries exceeded (max %d)", maxEntries)
	}
	st.entries[key] = ent
	return nil
}

// Delete the entry with the specified key.
func (st *Store) Delete(key int) error {
	ent, ok := st.entries[key]
	if !ok {
		return coreerr.Categorized(coreerr.OutOfRange, coreerr.ProjectNoSuchEntry, key)
	}

	if err := ent.CleanUp(); err != nil {
		return coreerr.Errorf("project store: %v", err)
	}

	delete(st.entries, key)
	return nil
}

// SelectAll entries in the store. onSelect can be nil; it should
// return true if the selection is to continue.
//
// Returns the last matched entry, or an error with the last entry
// matched before the error occurred.
func (st Store) SelectAll(onSelect func(Entry) (bool, error)) (Entry, error) {
	var entry Entry

	if onSelect == nil {
		onSelect = func(_ Entry) (bool, error) { return true, nil }
	}

	for _, key := range st.SortedKeyList() {
		entry = st.entries[key]
		cont, err := onSelect(entry)
		if err != nil {
			return entry, err
		}
		if !cont {
			break // for loop
		}
	}

	return entry, nil
}

// SelectKeys matches entries with the specified key(s). An empty key
// list matches all keys. onSelect can be nil.
func (st Store) SelectKeys(onSelect func(Entry) (bool, error), keys ...int) (Entry, error) {
	var entry Entry

	if onSelect == nil {
		onSelect = func(_ Entry) (bool, error) { return true, nil }
	}

	keyList := keys
	if len(keys) == 0 {
		keyList = st.SortedKeyList()
	}

	for i := range keyList {
		entry = st.entries[keyList[i]]
		cont, err := onSelect(entry)
		if err != nil {
			return entry, err
		}
		if !cont {
			break // for loop
		}
	}

	if entry == nil {
		return nil, coreerr.Errorf("project store: select empty")
	}

	return entry, nil
}

// readFile reads each line in the store file, checks key and entry
// type validity, and deserialises the entries. It fails on the first
// error it encounters.
func (st *Store) readFile() error {
	st.entries = make(map[int]Entry, len(st.entries))

	if _, err := st.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	buffer, err := io.ReadAll(st.file)
	if err != nil {
		return coreerr.Errorf("project store: %v", err)
	}

	lines := strings.Split(string(buffer), entrySep)

	for i := 0; i < len(lines); i++ {
		lines[i] = strings.TrimSpace(lines[i])
		if len(lines[i]) == 0 {
			continue
		}

		fields := strings.SplitN(lines[i], fieldSep, numLeaderFields+1)
		if len(fields) < numLeaderFields {
			return coreerr.Categorized(coreerr.MalformedInput, "project store: malformed entry [line %d]", i+1)
		}

		key, err := strconv.Atoi(fields[leaderFieldKey])
		if err != nil {
			return coreerr.Categorized(coreerr.MalformedInput, "project store: invalid key (%s) [line %d]", fields[leaderFieldKey], i+1)
		}

		if _, ok := st.entries[key]; ok {
			return coreerr.Categorized(coreerr.MalformedInput, "project store: duplicate key (%d) [line %d]", key, i+1)
		}

		deserialise, ok := st.entryTypes[fields[leaderFieldID]]
		if !ok {
			return coreerr.Categorized(coreerr.MalformedInput, "project store: unrecognised entry type (%s) [line %d]", fields[leaderFieldID], i+1)
		}

		var rest SerialisedEntry
		if len(fields) > numLeaderFields {
			rest = strings.Split(fields[numLeaderFields], fieldSep)
		}

		ent, err := deserialise(rest)
		if err != nil {
			return coreerr.Errorf("project store: %v [line %d]", err, i+1)
		}

		st.entries[key] = ent
	}

	return nil
}
