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
	"path/filepath"
	"strings"

	"github.com/lsnes-go/core/coreerr"
)

// projectEntryID is the store entry type tag for projects.
const projectEntryID = "project"

// Project names a persistent recording session: the movie's project
// ID, a human-readable name, and the game type it was created for.
// Files for a project live in a directory derived from the ID.
type Project struct {
	ProjectID string
	Name      string
	GameType  string

	// LastBranch remembers the branch that was current when the
	// project was last open.
	LastBranch string
}

// ID implements Entry.
func (p *Project) ID() string { return projectEntryID }

// String implements Entry.
func (p *Project) String() string {
	return p.Name + " (" + p.GameType + ")"
}

// Serialise implements Entry.
func (p *Project) Serialise() (SerialisedEntry, error) {
	for _, f := range []string{p.ProjectID, p.Name, p.GameType, p.LastBranch} {
		if strings.Contains(f, fieldSep) {
			return nil, coreerr.Errorf("project: field contains separator (%v)", f)
		}
	}
	return SerialisedEntry{p.ProjectID, p.Name, p.GameType, p.LastBranch}, nil
}

// CleanUp implements Entry. Deleting a project from the store leaves
// its files on disk.
func (p *Project) CleanUp() error { return nil }

// deserialiseProject is the Deserialiser for project entries.
func deserialiseProject(fields SerialisedEntry) (Entry, error) {
	if len(fields) < 3 {
		return nil, coreerr.Categorized(coreerr.MalformedInput, "project: too few fields")
	}
	p := &Project{
		ProjectID: fields[0],
		Name:      fields[1],
		GameType:  fields[2],
	}
	if len(fields) > 3 {
		p.LastBranch = fields[3]
	}
	return p, nil
}

// Dir returns the project's directory under base:
// base/prjfiles/<projectid>.
func (p *Project) Dir(base string) string {
	return filepath.Join(base, "prjfiles", p.ProjectID)
}

// MoviePath returns the path of the project's movie file.
func (p *Project) MoviePath(base string) string {
	return filepath.Join(p.Dir(base), "movie.lsmv")
}

// RegisterProjectEntries registers the project entry type with a
// store; pass it (or a wrapper that also registers other types) as
// Open's init argument.
func RegisterProjectEntries(st *Store) error {
	return st.RegisterEntryType(projectEntryID, deserialiseProject)
}

// FindProject selects the project with the given project ID.
func FindProject(st *Store, projectID string) (*Project, error) {
	var found *Project
	_, err := st.SelectAll(func(e Entry) (bool, error) {
		if p, ok := e.(*Project); ok && p.ProjectID == projectID {
			found = p
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, coreerr.Categorized(coreerr.OutOfRange, coreerr.ProjectNoSuchEntry, projectID)
	}
	return found, nil
}
