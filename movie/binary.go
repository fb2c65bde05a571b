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
	"bytes"
	"io"
	"sort"

	"github.com/lsnes-go/core/codec"
	"github.com/lsnes-go/core/controller"
	"github.com/lsnes-go/core/coreerr"
	"github.com/lsnes-go/core/logger"
	"github.com/lsnes-go/core/rrdata"
)

// sortedKeys returns m's keys in ascending order. Map-valued movie
// fields are always emitted in this order so that re-encoding a decoded
// movie is byte-identical.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EncodeBinary writes the movie as a flat binary file: the magic, the
// game type and settings header, then one extension record per field.
// Dynamic state records are included only when asState is set.
func (m *Movie) EncodeBinary(w io.Writer, asState bool) error {
	if _, err := w.Write(Magic); err != nil {
		return coreerr.Categorized(coreerr.IoFailure, coreerr.MovieEncodeError, err)
	}
	out := codec.NewWriter(w)
	if err := m.encodeHeader(out); err != nil {
		return err
	}
	if err := m.encodeBody(out, asState); err != nil {
		return err
	}
	return nil
}

// encodeHeader writes the game type string and the settings list (a
// 0x01-prefixed name/value pair per setting, terminated by 0x00).
func (m *Movie) encodeHeader(out *codec.Writer) error {
	if err := out.String(m.GameType); err != nil {
		return err
	}
	for _, name := range sortedKeys(m.Settings) {
		if err := out.Byte(0x01); err != nil {
			return err
		}
		if err := out.String(name); err != nil {
			return err
		}
		if err := out.String(m.Settings[name]); err != nil {
			return err
		}
	}
	return out.Byte(0x00)
}

func (m *Movie) encodeBody(out *codec.Writer, asState bool) error {
	err := out.Extension(TagMovieTime, func(s *codec.Writer) error {
		if err := s.Number(m.MovieRTCSecond); err != nil {
			return err
		}
		return s.Number(m.MovieRTCSubsecond)
	}, true)
	if err != nil {
		return err
	}

	err = out.Extension(TagProjectID, func(s *codec.Writer) error {
		return s.StringImplicit(m.ProjectID)
	}, true)
	if err != nil {
		return err
	}

	err = out.Extension(TagCoreVersion, func(s *codec.Writer) error {
		return s.StringImplicit(m.CoreVersion)
	}, true)
	if err != nil {
		return err
	}

	for i := 0; i < ROMSlotCount; i++ {
		i := i
		err = out.Extension(TagROMHash, func(s *codec.Writer) error {
			if m.ROMImgSHA256[i] == "" {
				return nil
			}
			if err := s.Byte(byte(2 * i)); err != nil {
				return err
			}
			return s.StringImplicit(m.ROMImgSHA256[i])
		}, false)
		if err != nil {
			return err
		}
		err = out.Extension(TagROMHash, func(s *codec.Writer) error {
			if m.ROMXMLSHA256[i] == "" {
				return nil
			}
			if err := s.Byte(byte(2*i + 1)); err != nil {
				return err
			}
			return s.StringImplicit(m.ROMXMLSHA256[i])
		}, false)
		if err != nil {
			return err
		}
		err = out.Extension(TagROMHint, func(s *codec.Writer) error {
			if m.NameHint[i] == "" {
				return nil
			}
			if err := s.Byte(byte(i)); err != nil {
				return err
			}
			return s.StringImplicit(m.NameHint[i])
		}, false)
		if err != nil {
			return err
		}
	}

	err = out.Extension(TagRRData, func(s *codec.Writer) error {
		return s.BlobImplicit(m.RRData.Bytes())
	}, true)
	if err != nil {
		return err
	}

	for _, name := range sortedKeys(m.MovieSRAM) {
		name := name
		err = out.Extension(TagMovieSRAM, func(s *codec.Writer) error {
			if err := s.String(name); err != nil {
				return err
			}
			return s.BlobImplicit(m.MovieSRAM[name])
		}, true)
		if err != nil {
			return err
		}
	}

	err = out.Extension(TagAnchorSave, func(s *codec.Writer) error {
		return s.BlobImplicit(m.AnchorSavestate)
	}, false)
	if err != nil {
		return err
	}

	if asState {
		if err := m.encodeDynamic(out); err != nil {
			return err
		}
	}

	err = out.Extension(TagGameName, func(s *codec.Writer) error {
		return s.StringImplicit(m.GameName)
	}, false)
	if err != nil {
		return err
	}

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
		k := k
		err = out.Extension(TagSubtitle, func(s *codec.Writer) error {
			if err := s.Number(k.Frame); err != nil {
				return err
			}
			if err := s.Number(k.Length); err != nil {
				return err
			}
			return s.StringImplicit(m.Subtitles[k])
		}, true)
		if err != nil {
			return err
		}
	}

	for _, a := range m.Authors {
		a := a
		err = out.Extension(TagAuthor, func(s *codec.Writer) error {
			if err := s.String(a.FullName); err != nil {
				return err
			}
			return s.StringImplicit(a.Nickname)
		}, true)
		if err != nil {
			return err
		}
	}

	for _, name := range sortedKeys(m.RAMContent) {
		name := name
		err = out.Extension(TagRAMContent, func(s *codec.Writer) error {
			if err := s.String(name); err != nil {
				return err
			}
			return s.BlobImplicit(m.RAMContent[name])
		}, true)
		if err != nil {
			return err
		}
	}

	for _, name := range sortedKeys(m.Branches) {
		name := name
		err = out.Extension(TagBranchName, func(s *codec.Writer) error {
			return s.StringImplicit(name)
		}, true)
		if err != nil {
			return err
		}
		tag := TagBranch
		if name == m.CurrentBranch {
			tag = TagMovie
		}
		err = out.Extension(tag, func(s *codec.Writer) error {
			var buf bytes.Buffer
			if err := m.Branches[name].SaveBinary(&buf); err != nil {
				return err
			}
			return s.BlobImplicit(buf.Bytes())
		}, true)
		if err != nil {
			return err
		}
	}
	return nil
}

// encodeDynamic writes the dynamic state records of a savestate movie.
func (m *Movie) encodeDynamic(out *codec.Writer) error {
	err := out.Extension(TagSavestate, func(s *codec.Writer) error {
		if err := s.Number(m.Dyn.SaveFrame); err != nil {
			return err
		}
		if err := s.Number(m.Dyn.LaggedFrames); err != nil {
			return err
		}
		if err := s.Number(m.Dyn.RTCSecond); err != nil {
			return err
		}
		if err := s.Number(m.Dyn.RTCSubsecond); err != nil {
			return err
		}
		if err := s.Number(uint64(len(m.Dyn.PollCounters))); err != nil {
			return err
		}
		for _, c := range m.Dyn.PollCounters {
			if err := s.Number32(c); err != nil {
				return err
			}
		}
		flag := byte(0x00)
		if m.Dyn.PollFlag {
			flag = 0x01
		}
		if err := s.Byte(flag); err != nil {
			return err
		}
		return s.BlobImplicit(m.Dyn.Savestate)
	}, true)
	if err != nil {
		return err
	}

	err = out.Extension(TagHostMemory, func(s *codec.Writer) error {
		return s.BlobImplicit(m.Dyn.HostMemory)
	}, true)
	if err != nil {
		return err
	}

	err = out.Extension(TagScreenshot, func(s *codec.Writer) error {
		return s.BlobImplicit(m.Dyn.Screenshot)
	}, true)
	if err != nil {
		return err
	}

	for _, name := range sortedKeys(m.Dyn.SRAM) {
		name := name
		err = out.Extension(TagSaveSRAM, func(s *codec.Writer) error {
			if err := s.String(name); err != nil {
				return err
			}
			return s.BlobImplicit(m.Dyn.SRAM[name])
		}, true)
		if err != nil {
			return err
		}
	}

	for _, name := range sortedKeys(m.Dyn.ActiveMacros) {
		name := name
		err = out.Extension(TagMacro, func(s *codec.Writer) error {
			if err := s.Number(m.Dyn.ActiveMacros[name]); err != nil {
				return err
			}
			return s.StringImplicit(name)
		}, true)
		if err != nil {
			return err
		}
	}
	return nil
}

// readMagic consumes and checks the 5 byte file magic.
func readMagic(r io.Reader) error {
	var magic [5]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieBadMagic)
	}
	if !bytes.Equal(magic[:], Magic) {
		return coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieBadMagic)
	}
	return nil
}

// readHeader reads the game type and settings list that precede the
// extension records.
func readHeader(in *codec.Reader) (gametype string, settings map[string]string, err error) {
	gametype, err = in.String()
	if err != nil {
		return "", nil, err
	}
	settings = map[string]string{}
	for {
		b, err := in.Byte()
		if err != nil {
			return "", nil, err
		}
		if b == 0x00 {
			break
		}
		name, err := in.String()
		if err != nil {
			return "", nil, err
		}
		value, err := in.String()
		if err != nil {
			return "", nil, err
		}
		settings[name] = value
	}
	return gametype, settings, nil
}

// DecodeBinary reads a movie written by EncodeBinary. resolve supplies
// the controller layout for the file's game type; unknown extension
// tags are silently skipped.
func DecodeBinary(r io.Reader, resolve LayoutResolver) (*Movie, error) {
	if err := readMagic(r); err != nil {
		return nil, err
	}
	in := codec.NewReader(r)
	gametype, settings, err := readHeader(in)
	if err != nil {
		logger.Logf(logger.Allow, "movie", "binary header: %v", err)
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
	}
	layout, err := resolve(gametype, settings)
	if err != nil {
		logger.Logf(logger.Allow, "movie", "no controller layout for %q: %v", gametype, err)
		return nil, err
	}

	m := &Movie{
		GameType:   gametype,
		Settings:   settings,
		Subtitles:  map[Subtiming]string{},
		MovieSRAM:  map[string][]byte{},
		RAMContent: map[string][]byte{},
		Branches:   map[string]*controller.FrameVector{},
		layout:     layout,
	}
	m.Dyn.SRAM = map[string][]byte{}
	m.Dyn.ActiveMacros = map[string]uint64{}

	var nextBranch string
	haveInput := false

	err = in.Extension([]codec.TagHandler{
		{Tag: TagAnchorSave, Fn: func(s *codec.Reader) error {
			m.AnchorSavestate, err = s.BlobImplicit()
			return err
		}},
		{Tag: TagAuthor, Fn: func(s *codec.Reader) error {
			full, err := s.String()
			if err != nil {
				return err
			}
			nick, err := s.StringImplicit()
			if err != nil {
				return err
			}
			m.Authors = append(m.Authors, Author{FullName: full, Nickname: nick})
			return nil
		}},
		{Tag: TagCoreVersion, Fn: func(s *codec.Reader) error {
			m.CoreVersion, err = s.StringImplicit()
			return err
		}},
		{Tag: TagGameName, Fn: func(s *codec.Reader) error {
			m.GameName, err = s.StringImplicit()
			return err
		}},
		{Tag: TagHostMemory, Fn: func(s *codec.Reader) error {
			m.Dyn.HostMemory, err = s.BlobImplicit()
			return err
		}},
		{Tag: TagMacro, Fn: func(s *codec.Reader) error {
			n, err := s.Number()
			if err != nil {
				return err
			}
			name, err := s.StringImplicit()
			if err != nil {
				return err
			}
			m.Dyn.ActiveMacros[name] = n
			return nil
		}},
		{Tag: TagBranchName, Fn: func(s *codec.Reader) error {
			nextBranch, err = s.StringImplicit()
			return err
		}},
		{Tag: TagMovie, Fn: func(s *codec.Reader) error {
			if err := m.loadBranch(s, nextBranch); err != nil {
				return err
			}
			m.CurrentBranch = nextBranch
			haveInput = true
			return nil
		}},
		{Tag: TagBranch, Fn: func(s *codec.Reader) error {
			return m.loadBranch(s, nextBranch)
		}},
		{Tag: TagMovieSRAM, Fn: func(s *codec.Reader) error {
			return readNamedBlob(s, m.MovieSRAM)
		}},
		{Tag: TagRAMContent, Fn: func(s *codec.Reader) error {
			return readNamedBlob(s, m.RAMContent)
		}},
		{Tag: TagMovieTime, Fn: func(s *codec.Reader) error {
			if m.MovieRTCSecond, err = s.Number(); err != nil {
				return err
			}
			m.MovieRTCSubsecond, err = s.Number()
			return err
		}},
		{Tag: TagProjectID, Fn: func(s *codec.Reader) error {
			m.ProjectID, err = s.StringImplicit()
			return err
		}},
		{Tag: TagROMHash, Fn: func(s *codec.Reader) error {
			n, err := s.Byte()
			if err != nil {
				return err
			}
			h, err := s.StringImplicit()
			if err != nil {
				return err
			}
			if n >= 2*ROMSlotCount {
				return nil
			}
			if n&1 != 0 {
				m.ROMXMLSHA256[n>>1] = h
			} else {
				m.ROMImgSHA256[n>>1] = h
			}
			return nil
		}},
		{Tag: TagROMHint, Fn: func(s *codec.Reader) error {
			n, err := s.Byte()
			if err != nil {
				return err
			}
			h, err := s.StringImplicit()
			if err != nil {
				return err
			}
			if n >= ROMSlotCount {
				return nil
			}
			m.NameHint[n] = h
			return nil
		}},
		{Tag: TagRRData, Fn: func(s *codec.Reader) error {
			blob, err := s.BlobImplicit()
			if err != nil {
				return err
			}
			m.RRData, err = rrdata.Parse(blob)
			return err
		}},
		{Tag: TagSaveSRAM, Fn: func(s *codec.Reader) error {
			return readNamedBlob(s, m.Dyn.SRAM)
		}},
		{Tag: TagSavestate, Fn: func(s *codec.Reader) error {
			return m.loadDynamic(s)
		}},
		{Tag: TagScreenshot, Fn: func(s *codec.Reader) error {
			m.Dyn.Screenshot, err = s.BlobImplicit()
			return err
		}},
		{Tag: TagSubtitle, Fn: func(s *codec.Reader) error {
			f, err := s.Number()
			if err != nil {
				return err
			}
			l, err := s.Number()
			if err != nil {
				return err
			}
			x, err := s.StringImplicit()
			if err != nil {
				return err
			}
			m.Subtitles[Subtiming{Frame: f, Length: l}] = x
			return nil
		}},
	}, codec.NullDefault)
	if err != nil {
		logger.Logf(logger.Allow, "movie", "binary decode: %v", err)
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
	}

	if m.RRData == nil {
		m.RRData = rrdata.New()
	}
	if !haveInput {
		m.Branches[""] = controller.NewFrameVector(layout)
		m.CurrentBranch = ""
	}
	logger.Logf(logger.Allow, "movie", "loaded %q: %d branches, %d frames on %q",
		m.ProjectID, len(m.Branches), m.Input().Size(), m.CurrentBranch)
	return m, nil
}

// loadBranch reads one branch's frame data out of a bounded substream.
func (m *Movie) loadBranch(s *codec.Reader, name string) error {
	blob, err := s.BlobImplicit()
	if err != nil {
		return err
	}
	fv := controller.NewFrameVector(m.layout)
	if err := fv.LoadBinary(bytes.NewReader(blob)); err != nil {
		return err
	}
	m.Branches[name] = fv
	return nil
}

// loadDynamic reads the savestate record's fixed fields and trailing
// state blob.
func (m *Movie) loadDynamic(s *codec.Reader) error {
	var err error
	if m.Dyn.SaveFrame, err = s.Number(); err != nil {
		return err
	}
	if m.Dyn.LaggedFrames, err = s.Number(); err != nil {
		return err
	}
	if m.Dyn.RTCSecond, err = s.Number(); err != nil {
		return err
	}
	if m.Dyn.RTCSubsecond, err = s.Number(); err != nil {
		return err
	}
	n, err := s.Number()
	if err != nil {
		return err
	}
	m.Dyn.PollCounters = make([]uint32, n)
	for i := range m.Dyn.PollCounters {
		if m.Dyn.PollCounters[i], err = s.Number32(); err != nil {
			return err
		}
	}
	flag, err := s.Byte()
	if err != nil {
		return err
	}
	m.Dyn.PollFlag = flag != 0
	m.Dyn.Savestate, err = s.BlobImplicit()
	return err
}

// readNamedBlob reads a length-prefixed name followed by the rest of
// the substream as the named blob.
func readNamedBlob(s *codec.Reader, dst map[string][]byte) error {
	name, err := s.String()
	if err != nil {
		return err
	}
	blob, err := s.BlobImplicit()
	if err != nil {
		return err
	}
	dst[name] = blob
	return nil
}
