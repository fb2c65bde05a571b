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

// Package movie implements the movie container: the authoritative record
// of a recording session, holding controller input for any number of
// named branches, savestate data, SRAM images, subtitles, authorship and
// the rerecord set. Two isomorphic wire encodings are provided, a binary
// flat file and a textual ZIP, plus lightweight partial readers and an
// unbuffered emergency saver for crash handlers, which streams records
// straight to the file but still allocates small values such as sorted
// key lists and the file name.
package movie

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/lsnes-go/core/controller"
	"github.com/lsnes-go/core/rrdata"
)

// ROMSlotCount is the maximum number of ROM slots a system may populate.
const ROMSlotCount = 8

// Magic is the 5 byte prefix of every binary movie file.
var Magic = []byte{'l', 's', 'm', 'v', 0x1a}

// Subtiming keys a subtitle: the frame it appears on and how many
// frames it stays up.
type Subtiming struct {
	Frame  uint64
	Length uint64
}

// DynamicState is the state a savestate-carrying movie embeds: where
// the emulation is, not what was recorded.
type DynamicState struct {
	SaveFrame    uint64
	LaggedFrames uint64
	RTCSecond    uint64
	RTCSubsecond uint64
	PollCounters []uint32
	PollFlag     bool
	Savestate    []byte
	HostMemory   []byte
	Screenshot   []byte
	SRAM         map[string][]byte
	ActiveMacros map[string]uint64
}

// Author is a movie author: full name and nickname, either possibly
// empty.
type Author struct {
	FullName string
	Nickname string
}

// LayoutResolver turns a game type tag and its settings into the
// controller layout that decodes the movie's input tracks. The caller
// supplies it because controller configuration is a property of the
// emulated system, not of the container.
type LayoutResolver func(gametype string, settings map[string]string) (*controller.Layout, error)

// Movie aggregates everything a recording session persists.
type Movie struct {
	GameType    string
	Settings    map[string]string
	CoreVersion string
	GameName    string
	ProjectID   string

	ROMImgSHA256 [ROMSlotCount]string
	ROMXMLSHA256 [ROMSlotCount]string
	NameHint     [ROMSlotCount]string

	Authors   []Author
	Subtitles map[Subtiming]string

	// MovieSRAM is the SRAM the movie starts from; RAMContent is
	// initial RAM the movie asserts before power-on.
	MovieSRAM  map[string][]byte
	RAMContent map[string][]byte

	AnchorSavestate []byte

	RRData *rrdata.Set

	// Branches maps branch name to its input track. CurrentBranch
	// names the entry serialized as the live timeline; it must key
	// into Branches.
	Branches      map[string]*controller.FrameVector
	CurrentBranch string

	MovieRTCSecond    uint64
	MovieRTCSubsecond uint64

	Dyn DynamicState

	layout *controller.Layout
}

// defaultRTCSecond is the epoch a fresh movie's wall clock starts at.
const defaultRTCSecond = 1000000000

// New creates an empty movie over layout with a freshly generated
// project ID and one empty current branch.
func New(gametype string, layout *controller.Layout) *Movie {
	m := &Movie{
		GameType:       gametype,
		Settings:       map[string]string{},
		ProjectID:      NewProjectID(),
		Subtitles:      map[Subtiming]string{},
		MovieSRAM:      map[string][]byte{},
		RAMContent:     map[string][]byte{},
		RRData:         rrdata.New(),
		Branches:       map[string]*controller.FrameVector{},
		MovieRTCSecond: defaultRTCSecond,
		layout:         layout,
	}
	m.Dyn.SRAM = map[string][]byte{}
	m.Dyn.ActiveMacros = map[string]uint64{}
	m.Branches[""] = controller.NewFrameVector(layout)
	m.CurrentBranch = ""
	return m
}

// NewProjectID mints a fresh 160 bit hex-encoded random identifier. A
// movie's project ID never changes after creation; saves of the same
// project share it.
func NewProjectID() string {
	var b [20]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("movie: system randomness unavailable")
	}
	return hex.EncodeToString(b[:])
}

// Layout returns the controller layout the movie's branches decode
// with.
func (m *Movie) Layout() *controller.Layout { return m.layout }

// Input returns the current branch's frame vector.
func (m *Movie) Input() *controller.FrameVector {
	return m.Branches[m.CurrentBranch]
}

// IsSavestate reports whether the movie carries dynamic state (a saved
// position) rather than being a plain recording.
func (m *Movie) IsSavestate() bool {
	return len(m.Dyn.Savestate) > 0
}
