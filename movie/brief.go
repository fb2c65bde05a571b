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
	"io"
	"sort"

	"github.com/lsnes-go/core/codec"
	"github.com/lsnes-go/core/coreerr"
	"github.com/lsnes-go/core/rrdata"
)

// BriefInfo is the subset of a movie a file chooser needs: identity,
// position and hashes, without input tracks or state blobs.
type BriefInfo struct {
	SysRegion    string
	CoreName     string
	ProjectID    string
	CurrentFrame uint64
	Rerecords    uint64
	Hash         [ROMSlotCount]string
	HashXML      [ROMSlotCount]string
	Hint         [ROMSlotCount]string
}

// skipHeader consumes the game type and settings list, returning the
// game type string.
func skipHeader(in *codec.Reader) (string, error) {
	sysregion, err := in.String()
	if err != nil {
		return "", err
	}
	for {
		b, err := in.Byte()
		if err != nil {
			return "", err
		}
		if b == 0x00 {
			return sysregion, nil
		}
		if _, err := in.String(); err != nil {
			return "", err
		}
		if _, err := in.String(); err != nil {
			return "", err
		}
	}
}

// ReadBriefInfo scans a binary movie for listing data, skipping every
// record it doesn't need.
func ReadBriefInfo(r io.Reader) (*BriefInfo, error) {
	if err := readMagic(r); err != nil {
		return nil, err
	}
	in := codec.NewReader(r)
	info := &BriefInfo{}
	var err error
	info.SysRegion, err = skipHeader(in)
	if err != nil {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
	}

	err = in.Extension([]codec.TagHandler{
		{Tag: TagCoreVersion, Fn: func(s *codec.Reader) error {
			info.CoreName, err = s.StringImplicit()
			return err
		}},
		{Tag: TagProjectID, Fn: func(s *codec.Reader) error {
			info.ProjectID, err = s.StringImplicit()
			return err
		}},
		{Tag: TagSavestate, Fn: func(s *codec.Reader) error {
			// only the leading save_frame matters here; the rest of
			// the record is discarded by the substream.
			info.CurrentFrame, err = s.Number()
			return err
		}},
		{Tag: TagRRData, Fn: func(s *codec.Reader) error {
			blob, err := s.BlobImplicit()
			if err != nil {
				return err
			}
			info.Rerecords, err = rrdata.Count(blob)
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
				info.HashXML[n>>1] = h
			} else {
				info.Hash[n>>1] = h
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
			info.Hint[n] = h
			return nil
		}},
	}, codec.NullDefault)
	if err != nil {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
	}
	return info, nil
}

// EnumerateBranches lists a binary movie's branch names without
// loading any input data.
func EnumerateBranches(r io.Reader) ([]string, error) {
	if err := readMagic(r); err != nil {
		return nil, err
	}
	in := codec.NewReader(r)
	if _, err := skipHeader(in); err != nil {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
	}

	var name string
	seen := map[string]bool{}
	err := in.Extension([]codec.TagHandler{
		{Tag: TagBranchName, Fn: func(s *codec.Reader) error {
			var err error
			name, err = s.StringImplicit()
			return err
		}},
		{Tag: TagMovie, Fn: func(s *codec.Reader) error {
			seen[name] = true
			return nil
		}},
		{Tag: TagBranch, Fn: func(s *codec.Reader) error {
			seen[name] = true
			return nil
		}},
	}, codec.NullDefault)
	if err != nil {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// ExtractBranch loads just the named branch's packed input track. The
// returned blob is in FrameVector.LoadBinary form.
func ExtractBranch(r io.Reader, branch string) ([]byte, error) {
	if err := readMagic(r); err != nil {
		return nil, err
	}
	in := codec.NewReader(r)
	if _, err := skipHeader(in); err != nil {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
	}

	var name string
	var blob []byte
	found := false
	grab := func(s *codec.Reader) error {
		if name != branch || found {
			return nil
		}
		var err error
		blob, err = s.BlobImplicit()
		found = true
		return err
	}
	err := in.Extension([]codec.TagHandler{
		{Tag: TagBranchName, Fn: func(s *codec.Reader) error {
			var err error
			name, err = s.StringImplicit()
			return err
		}},
		{Tag: TagMovie, Fn: grab},
		{Tag: TagBranch, Fn: grab},
	}, codec.NullDefault)
	if err != nil {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
	}
	if !found {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieBranchUnknown, branch)
	}
	return blob, nil
}

// EnumerateSRAMs lists the names of the movie-start SRAM images in a
// binary movie.
func EnumerateSRAMs(r io.Reader) ([]string, error) {
	if err := readMagic(r); err != nil {
		return nil, err
	}
	in := codec.NewReader(r)
	if _, err := skipHeader(in); err != nil {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
	}

	var names []string
	err := in.Extension([]codec.TagHandler{
		{Tag: TagMovieSRAM, Fn: func(s *codec.Reader) error {
			n, err := s.String()
			if err != nil {
				return err
			}
			names = append(names, n)
			return nil
		}},
	}, codec.NullDefault)
	if err != nil {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
	}
	sort.Strings(names)
	return names, nil
}

// ExtractSRAM loads one movie-start SRAM image by name.
func ExtractSRAM(r io.Reader, sram string) ([]byte, error) {
	if err := readMagic(r); err != nil {
		return nil, err
	}
	in := codec.NewReader(r)
	if _, err := skipHeader(in); err != nil {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
	}

	var blob []byte
	found := false
	err := in.Extension([]codec.TagHandler{
		{Tag: TagMovieSRAM, Fn: func(s *codec.Reader) error {
			n, err := s.String()
			if err != nil {
				return err
			}
			if n != sram || found {
				return nil
			}
			blob, err = s.BlobImplicit()
			found = true
			return err
		}},
	}, codec.NullDefault)
	if err != nil {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
	}
	if !found {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.ProjectNoSuchEntry, sram)
	}
	return blob, nil
}
