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

package coreerr

// message patterns, grouped by the subsystem that raises them, mirroring
// one subsystem per block.
const (
	// binary stream codec
	MalformedStream  = "malformed stream: %v"
	UnexpectedEOF    = "unexpected end of stream: %v"
	SubstreamOverrun = "substream overrun: requested %d bytes, %d left"

	// movie container
	MovieDecodeError   = "movie error: %v"
	MovieEncodeError   = "movie error: %v"
	MovieBadMagic      = "movie error: bad file magic"
	MovieBranchUnknown = "movie error: no such branch (%v)"
	MovieReadOnly      = "movie error: movie is read-only"

	// memory space
	NoSuchRegion        = "memory error: no such region (%v)"
	RegionOverlap       = "memory error: region overlaps existing region (%v)"
	AddressOutOfRange   = "memory error: address out of range (%#x)"
	ReadOnlyRegionWrite = "memory error: write to read-only region (%v)"

	// memory search
	SearchSizeMismatch = "search error: linear size mismatch (have %d, want %d)"
	SearchBadSnapshot  = "search error: malformed snapshot (%v)"

	// rerecord data
	RRDataDecodeError = "rerecord data error: %v"

	// scripting bridge
	ScriptCallbackError = "script error: %v"
	ScriptArgumentError = "script error: bad argument #%d to '%v' (%v)"

	// coroutine scheduler
	CoroutineInvalidState = "coroutine error: %v"
	CoroutineDead         = "coroutine error: coroutine is dead"

	// crypto primitives
	CryptoInvalidVariant = "crypto error: invalid skein variant"
	CryptoOutOfOrder     = "crypto error: data types written out of order"

	// project / branch store
	ProjectNoSuchEntry = "project error: no such entry (%v)"
	RecentFilesFull    = "project error: recent files list is full"
)
