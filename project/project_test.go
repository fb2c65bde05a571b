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

package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lsnes-go/core/project"
	"github.com/lsnes-go/core/test"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.db")

	st, err := project.Open(path, project.ActivityCreating, project.RegisterProjectEntries)
	test.ExpectSuccess(t, err)

	p := &project.Project{
		ProjectID:  "00112233445566778899aabbccddeeff00112233",
		Name:       "my run",
		GameType:   "testsys",
		LastBranch: "speedrun",
	}
	test.ExpectSuccess(t, st.Add(p))
	test.ExpectSuccess(t, st.Close(true))

	st, err = project.Open(path, project.ActivityReading, project.RegisterProjectEntries)
	test.ExpectSuccess(t, err)
	defer st.Close(false)
	test.ExpectEquality(t, st.NumEntries(), 1)

	found, err := project.FindProject(st, p.ProjectID)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, found.Name, "my run")
	test.ExpectEquality(t, found.GameType, "testsys")
	test.ExpectEquality(t, found.LastBranch, "speedrun")

	_, err = project.FindProject(st, "unknown")
	test.ExpectFailure(t, err)
}

func TestStoreRejectsUnknownEntryType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.db")
	test.ExpectSuccess(t, os.WriteFile(path, []byte("000,mystery,a,b\n"), 0600))

	_, err := project.Open(path, project.ActivityReading, project.RegisterProjectEntries)
	test.ExpectFailure(t, err)
}

func TestProjectPaths(t *testing.T) {
	p := &project.Project{ProjectID: "cafe"}
	test.ExpectEquality(t, p.Dir("/base"), filepath.Join("/base", "prjfiles", "cafe"))
	test.ExpectEquality(t, p.MoviePath("/base"), filepath.Join("/base", "prjfiles", "cafe", "movie.lsmv"))
}

func TestRecentFilesMRU(t *testing.T) {
	r := &project.RecentFiles{Path: filepath.Join(t.TempDir(), "recent"), Max: 3}

	mutations := 0
	r.AddHook(func() { mutations++ })

	r.Add(project.RecentEntry{Path: "a.rom"})
	r.Add(project.RecentEntry{Path: "b.rom"})
	r.Add(project.RecentEntry{Path: "a.rom"}) // bubbles to front, no dup

	entries := r.Entries()
	test.ExpectEquality(t, len(entries), 2)
	test.ExpectEquality(t, entries[0].Path, "a.rom")
	test.ExpectEquality(t, entries[1].Path, "b.rom")
	test.ExpectEquality(t, mutations, 3)

	// the cap drops the oldest entry
	r.Add(project.RecentEntry{Path: "c.rom"})
	r.Add(project.RecentEntry{Path: "d.rom"})
	entries = r.Entries()
	test.ExpectEquality(t, len(entries), 3)
	test.ExpectEquality(t, entries[0].Path, "d.rom")
	test.ExpectEquality(t, entries[2].Path, "a.rom")
}

func TestRecentFilesPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent")
	r := &project.RecentFiles{Path: path}

	r.Add(project.RecentEntry{
		Files:  []string{"disk1.rom", "disk2.rom"},
		Core:   "testcore",
		System: "testsys",
		Region: "ntsc",
	})
	r.Add(project.RecentEntry{Path: "plain.rom"})
	test.ExpectSuccess(t, r.Save())

	loaded := &project.RecentFiles{Path: path}
	test.ExpectSuccess(t, loaded.Load())

	entries := loaded.Entries()
	test.ExpectEquality(t, len(entries), 2)
	test.ExpectEquality(t, entries[0].Path, "plain.rom")
	test.ExpectEquality(t, len(entries[1].Files), 2)
	test.ExpectEquality(t, entries[1].Core, "testcore")
	test.ExpectEquality(t, entries[1].Region, "ntsc")
}

func TestRecentFilesMissingFile(t *testing.T) {
	r := &project.RecentFiles{Path: filepath.Join(t.TempDir(), "does-not-exist")}
	test.ExpectSuccess(t, r.Load())
	test.ExpectEquality(t, len(r.Entries()), 0)
}

func TestOpenUserStore(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	st, err := project.OpenUser(project.ActivityCreating, project.RegisterProjectEntries)
	test.ExpectSuccess(t, err)
	p := &project.Project{ProjectID: "feedface", Name: "wired", GameType: "testsys"}
	test.ExpectSuccess(t, st.Add(p))
	test.ExpectSuccess(t, st.Close(true))

	st, err = project.OpenUser(project.ActivityReading, project.RegisterProjectEntries)
	test.ExpectSuccess(t, err)
	defer st.Close(false)
	test.ExpectEquality(t, st.NumEntries(), 1)
}

func TestOpenRecentFilesPerUser(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	r, err := project.OpenRecentFiles("movies", 5)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(r.Entries()), 0)

	r.Add(project.RecentEntry{Path: "run.lsmv"})
	test.ExpectSuccess(t, r.Save())

	again, err := project.OpenRecentFiles("movies", 5)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(again.Entries()), 1)
	test.ExpectEquality(t, again.Entries()[0].Path, "run.lsmv")
}

func TestOpenUploadDestinations(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	u, err := project.OpenUploadDestinations()
	test.ExpectSuccess(t, err)
	u.Add(project.RecentEntry{Path: "https://tasvideos.invalid/upload"})
	test.ExpectSuccess(t, u.Save())

	again, err := project.OpenUploadDestinations()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(again.Entries()), 1)
}

func TestRecentFilesRemove(t *testing.T) {
	r := &project.RecentFiles{Path: filepath.Join(t.TempDir(), "recent")}
	r.Add(project.RecentEntry{Path: "a.rom"})
	r.Add(project.RecentEntry{Path: "b.rom"})
	r.Remove(project.RecentEntry{Path: "a.rom"})

	entries := r.Entries()
	test.ExpectEquality(t, len(entries), 1)
	test.ExpectEquality(t, entries[0].Path, "b.rom")
}
