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
	"os"
	"path/filepath"
	"strings"

	"github.com/lsnes-go/core/coreerr"
)

// DotDir is the name of the per-user resource directory, relative to
// whatever base ResourcePath callers decide to join it under.
const DotDir = ".lsnes-go"

// ResourcePath builds a path of the form "DotDir/a/b", omitting either
// component when empty. It performs no filesystem access; a and b are
// joined with "/" regardless of host OS, matching the layout recorded
// inside the config directory itself.
func ResourcePath(a, b string) (string, error) {
	parts := []string{DotDir}
	if a != "" {
		parts = append(parts, a)
	}
	if b != "" {
		parts = append(parts, b)
	}
	return strings.Join(parts, "/"), nil
}

// Dir resolves the absolute, host-specific per-user configuration
// directory holding the dh25519.key file, the recent-files lists and
// the upload destinations: $XDG_CONFIG_HOME/lsnes-go if set, otherwise
// os.UserConfigDir()/lsnes-go. The directory is not created; callers
// that write into it do that.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lsnes-go"), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", coreerr.Categorized(coreerr.IoFailure, "config: cannot resolve user config directory (%v)", err)
	}
	return filepath.Join(base, "lsnes-go"), nil
}
