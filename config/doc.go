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

// Package config is the per-user configuration layer: a config directory
// holding the DH-25519 key pair, one recent-files list per category, and
// upload destinations, plus the typed preference values and command line
// parsing that feed them.
//
// A Disk groups a set of named Cells and knows how to Save/Load them all
// to/from a single flat "key :: value" text file, one cell per line, in
// alphabetical key order. Saving merges with whatever is already on disk,
// so two Disk instances backed by the same file (one per subsystem) can
// each save their own keys without clobbering the other's.
package config
