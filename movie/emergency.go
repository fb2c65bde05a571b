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

package movie

import (
	"encoding/binary"
	"os"
	"sort"
	"strconv"
	"time"
)

// EmergencySave writes the movie to a crashsave-<unixtime>-<seq>.lsmv
// file in dir, for use from a crash handler when the rest of the
// process can no longer be trusted. It avoids the buffered encode path:
// records stream straight to the descriptor through fixed scratch
// buffers, errors are swallowed (a half-written crashsave beats none),
// and O_EXCL retries the sequence number rather than clobbering an
// earlier crashsave. Returns the path written, or "" when no file
// could be opened.
func (m *Movie) EmergencySave(dir string) string {
	var f *os.File
	var path string
	for seq := 1; ; seq++ {
		path = dir + "/crashsave-" + strconv.FormatInt(time.Now().Unix(), 10) +
			"-" + strconv.Itoa(seq) + ".lsmv"
		var err error
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return ""
		}
	}
	defer f.Close()

	e := emergWriter{f: f}
	e.bytes(Magic)
	e.string(m.GameType)
	for _, name := range sortedKeys(m.Settings) {
		e.byte(0x01)
		e.string(name)
		e.string(m.Settings[name])
	}
	e.byte(0x00)

	for _, name := range sortedKeys(m.Branches) {
		e.member(TagBranchName, uint64(len(name)))
		e.stringImplicit(name)
		tag := TagBranch
		if name == m.CurrentBranch {
			tag = TagMovie
		}
		e.frames(tag, m.Branches[name], m.layout.FrameSize())
	}

	e.member(TagMovieTime, numberSize(m.MovieRTCSecond)+numberSize(m.MovieRTCSubsecond))
	e.number(m.MovieRTCSecond)
	e.number(m.MovieRTCSubsecond)

	e.member(TagProjectID, uint64(len(m.ProjectID)))
	e.stringImplicit(m.ProjectID)

	for _, name := range sortedKeys(m.MovieSRAM) {
		e.member(TagMovieSRAM, stringSize(name)+uint64(len(m.MovieSRAM[name])))
		e.string(name)
		e.bytes(m.MovieSRAM[name])
	}

	e.member(TagAnchorSave, uint64(len(m.AnchorSavestate)))
	e.bytes(m.AnchorSavestate)

	st := m.RRData.NewEmergencyState()
	e.member(TagRRData, st.SizeEmergency())
	var rbuf [4096]byte
	for {
		n := st.WriteEmergency(rbuf[:])
		if n == 0 {
			break
		}
		e.bytes(rbuf[:n])
	}

	e.member(TagCoreVersion, uint64(len(m.CoreVersion)))
	e.stringImplicit(m.CoreVersion)

	for i := 0; i < ROMSlotCount; i++ {
		if m.ROMImgSHA256[i] != "" {
			e.member(TagROMHash, uint64(len(m.ROMImgSHA256[i]))+1)
			e.byte(byte(2 * i))
			e.stringImplicit(m.ROMImgSHA256[i])
		}
		if m.ROMXMLSHA256[i] != "" {
			e.member(TagROMHash, uint64(len(m.ROMXMLSHA256[i]))+1)
			e.byte(byte(2*i + 1))
			e.stringImplicit(m.ROMXMLSHA256[i])
		}
		if m.NameHint[i] != "" {
			e.member(TagROMHint, uint64(len(m.NameHint[i]))+1)
			e.byte(byte(i))
			e.stringImplicit(m.NameHint[i])
		}
	}

	e.member(TagGameName, uint64(len(m.GameName)))
	e.stringImplicit(m.GameName)

	subtimings := make([]Subtiming, 0, len(m.Subtitles))
	for k := range m.Subtitles {
		subtimings = append(subtimings, k)
	}
	sort.Slice(subtimings, func(i, j int) bool {
		if subtimings[i].Frame != subtimings[j].Frame {
			return subtimings[i].Frame < subtimings[j].Frame
		}
		return subtimings[i].Length < subtimings[j].Length
	})
	for _, k := range subtimings {
		text := m.Subtitles[k]
		e.member(TagSubtitle, numberSize(k.Frame)+numberSize(k.Length)+uint64(len(text)))
		e.number(k.Frame)
		e.number(k.Length)
		e.stringImplicit(text)
	}

	for _, a := range m.Authors {
		e.member(TagAuthor, stringSize(a.FullName)+uint64(len(a.Nickname)))
		e.string(a.FullName)
		e.stringImplicit(a.Nickname)
	}

	for _, name := range sortedKeys(m.RAMContent) {
		e.member(TagRAMContent, stringSize(name)+uint64(len(m.RAMContent[name])))
		e.string(name)
		e.bytes(m.RAMContent[name])
	}
	return path
}

// numberSize is the varint length of n.
func numberSize(n uint64) uint64 {
	var size uint64
	for {
		size++
		n >>= 7
		if n == 0 {
			return size
		}
	}
}

// stringSize is the encoded length of a length-prefixed string.
func stringSize(s string) uint64 {
	return numberSize(uint64(len(s))) + uint64(len(s))
}

// emergWriter writes wire primitives straight to an open file through
// small stack buffers. Write errors are ignored deliberately; crash
// saving has nothing useful to do with them.
type emergWriter struct {
	f *os.File
}

func (e emergWriter) bytes(b []byte) {
	for len(b) > 0 {
		n, err := e.f.Write(b)
		if err != nil {
			return
		}
		b = b[n:]
	}
}

func (e emergWriter) byte(b byte) {
	var buf [1]byte
	buf[0] = b
	e.bytes(buf[:])
}

func (e emergWriter) number(n uint64) {
	var buf [10]byte
	length := 0
	for {
		cont := n > 127
		b := byte(n & 0x7f)
		if cont {
			b |= 0x80
		}
		buf[length] = b
		length++
		n >>= 7
		if !cont {
			break
		}
	}
	e.bytes(buf[:length])
}

func (e emergWriter) number32(n uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], n)
	e.bytes(buf[:])
}

func (e emergWriter) string(s string) {
	e.number(uint64(len(s)))
	e.stringImplicit(s)
}

func (e emergWriter) stringImplicit(s string) {
	var buf [256]byte
	for len(s) > 0 {
		n := copy(buf[:], s)
		e.bytes(buf[:n])
		s = s[n:]
	}
}

func (e emergWriter) member(tag uint32, size uint64) {
	e.number32(0xaddb2d86)
	e.number32(tag)
	e.number(size)
}

// frames writes one branch's input track as a framed record, streaming
// page by page. The payload matches FrameVector.SaveBinary: an 8 byte
// big-endian frame count, then the packed frames.
func (e emergWriter) frames(tag uint32, fv frameSource, frameSize int) {
	count := fv.Size()
	e.member(tag, 8+count*uint64(frameSize))
	var cbuf [8]byte
	binary.BigEndian.PutUint64(cbuf[:], count)
	e.bytes(cbuf[:])

	perPage := uint64(fv.FramesPerPage())
	page := 0
	for count > 0 {
		n := count
		if n > perPage {
			n = perPage
		}
		buf := fv.GetPageBuffer(page)
		e.bytes(buf[:n*uint64(frameSize)])
		page++
		count -= n
	}
}

// frameSource is the page-level access the emergency saver needs from
// a frame vector.
type frameSource interface {
	Size() uint64
	FramesPerPage() int
	GetPageBuffer(i int) []byte
}
