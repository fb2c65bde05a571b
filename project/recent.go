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
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/lsnes-go/core/config"
)

// RecentEntry is one remembered load. A plain single-file load has
// only Path set and serialises as the bare path; multi-file ROM loads
// carry the full description and serialise as a JSON object.
type RecentEntry struct {
	Path string `json:"-"`

	Pack   string   `json:"pack,omitempty"`
	File   string   `json:"file,omitempty"`
	Files  []string `json:"files,omitempty"`
	Core   string   `json:"core,omitempty"`
	System string   `json:"system,omitempty"`
	Region string   `json:"region,omitempty"`
}

// plain reports whether the entry is a bare path.
func (e RecentEntry) plain() bool {
	return e.Pack == "" && e.File == "" && len(e.Files) == 0 &&
		e.Core == "" && e.System == "" && e.Region == ""
}

// serialise renders the entry's one-line form.
func (e RecentEntry) serialise() string {
	if e.plain() {
		return e.Path
	}
	b, err := json.Marshal(e)
	if err != nil {
		return e.Path
	}
	return string(b)
}

// parseRecentEntry reads one line back. Lines that start with "{" are
// JSON descriptions; anything else is a bare path.
func parseRecentEntry(line string) (RecentEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return RecentEntry{}, false
	}
	if strings.HasPrefix(line, "{") {
		var e RecentEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return RecentEntry{}, false
		}
		return e, true
	}
	return RecentEntry{Path: line}, true
}

// equal is the deduplication identity: two entries referring to the
// same load.
func (e RecentEntry) equal(o RecentEntry) bool {
	return e.serialise() == o.serialise()
}

// RecentFiles is one most-recently-used list, one entry per line on
// disk. Adding an entry that is already present bubbles it to the
// front; the list is capped and hooks fire on every mutation.
type RecentFiles struct {
	Path    string
	Max     int
	entries []RecentEntry
	hooks   []func()
}

// defaultRecentMax caps a list whose Max was left zero.
const defaultRecentMax = 10

// AddHook registers a function called after every mutation.
func (r *RecentFiles) AddHook(fn func()) {
	r.hooks = append(r.hooks, fn)
}

func (r *RecentFiles) fireHooks() {
	for _, fn := range r.hooks {
		fn()
	}
}

func (r *RecentFiles) max() int {
	if r.Max <= 0 {
		return defaultRecentMax
	}
	return r.Max
}

// Entries returns the list, most recent first.
func (r *RecentFiles) Entries() []RecentEntry {
	return append([]RecentEntry(nil), r.entries...)
}

// Add inserts an entry at the front, deduplicating and trimming to the
// cap.
func (r *RecentFiles) Add(e RecentEntry) {
	kept := r.entries[:0]
	for _, old := range r.entries {
		if !old.equal(e) {
			kept = append(kept, old)
		}
	}
	r.entries = append([]RecentEntry{e}, kept...)
	if len(r.entries) > r.max() {
		r.entries = r.entries[:r.max()]
	}
	r.fireHooks()
}

// Remove deletes an entry if present.
func (r *RecentFiles) Remove(e RecentEntry) {
	kept := r.entries[:0]
	removed := false
	for _, old := range r.entries {
		if old.equal(e) {
			removed = true
			continue
		}
		kept = append(kept, old)
	}
	r.entries = kept
	if removed {
		r.fireHooks()
	}
}

// OpenRecentFiles loads the per-user recent-files list for a category
// ("movies", "roms", "scripts"), stored as recent-<category> in the
// configuration directory. A list that has never been saved is empty.
func OpenRecentFiles(category string, max int) (*RecentFiles, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	r := &RecentFiles{Path: filepath.Join(dir, "recent-"+category), Max: max}
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// OpenUploadDestinations loads the per-user upload destination list,
// one JSON object per line in the configuration directory. It shares
// the recent-files machinery: destinations deduplicate and bubble the
// way recently used files do.
func OpenUploadDestinations() (*RecentFiles, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	r := &RecentFiles{Path: filepath.Join(dir, "upload-destinations")}
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Load reads the list from its file. A missing file is an empty list.
func (r *RecentFiles) Load() error {
	f, err := os.Open(r.Path)
	if err != nil {
		if os.IsNotExist(err) {
			r.entries = nil
			return nil
		}
		return err
	}
	defer f.Close()

	r.entries = nil
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if e, ok := parseRecentEntry(sc.Text()); ok {
			r.entries = append(r.entries, e)
		}
	}
	if len(r.entries) > r.max() {
		r.entries = r.entries[:r.max()]
	}
	return sc.Err()
}

// Save writes the list back, one entry per line, creating the parent
// directory on first save.
func (r *RecentFiles) Save() error {
	if err := os.MkdirAll(filepath.Dir(r.Path), 0700); err != nil {
		return err
	}
	var b strings.Builder
	for _, e := range r.entries {
		b.WriteString(e.serialise())
		b.WriteString("\n")
	}
	return os.WriteFile(r.Path, []byte(b.String()), 0600)
}
