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

package project

import (
	"fmt"

	"github.com/lsnes-go/core/coreerr"
)

// Deserialiser extracts/converts fields from a SerialisedEntry.
type Deserialiser func(fields SerialisedEntry) (Entry, error)

// SerialisedEntry is the Entry data represented as an array of strings.
type SerialisedEntry []string

// Entry is one record in a project store: a project, a recent-files
// line, an upload destination.
type Entry interface {
	// ID returns the string that identifies the entry type in the
	// store.
	ID() string

	// String returns information about the entry in a human readable
	// format; machine readable representation is returned by
	// Serialise.
	String() string

	// Serialise returns the Entry data as a SerialisedEntry.
	Serialise() (SerialisedEntry, error)

	// CleanUp is performed when the entry is deleted from the store.
	CleanUp() error
}

// RegisterEntryType tells the store what entries it may expect and how
// to deserialise them.
func (st *Store) RegisterEntryType(id string, des Deserialiser) error {
	if _, ok := st.entryTypes[id]; ok {
		msg := fmt.Sprintf("trying to register a duplicate entry ID [%s]", id)
		return coreerr.Errorf("project store: %v", msg)
	}
	st.entryTypes[id] = des
	return nil
}
