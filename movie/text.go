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
	"archive/zip"
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/lsnes-go/core/controller"
	"github.com/lsnes-go/core/coreerr"
	"github.com/lsnes-go/core/logger"
	"github.com/lsnes-go/core/rrdata"
)

// systemID identifies the textual container revision.
const systemID = "lsnes-rr1"

// textWriter wraps a ZIP being built, with the one-line-member and
// raw-member helpers the textual encoding is made of.
type textWriter struct {
	z *zip.Writer
}

func (w textWriter) lineFile(name, value string, skipEmpty bool) error {
	if skipEmpty && value == "" {
		return nil
	}
	f, err := w.z.Create(name)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(f, "%s\n", value)
	return err
}

func (w textWriter) numericFile(name string, value uint64) error {
	return w.lineFile(name, strconv.FormatUint(value, 10), false)
}

func (w textWriter) rawFile(name string, value []byte) error {
	f, err := w.z.Create(name)
	if err != nil {
		return err
	}
	_, err = f.Write(value)
	return err
}

// escapeSubtitle flattens a subtitle to one line; the loader reverses
// it.
func escapeSubtitle(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "\n", "\\n")
}

func unescapeSubtitle(s string) string {
	var b strings.Builder
	esc := false
	for _, r := range s {
		if esc {
			if r == 'n' {
				b.WriteRune('\n')
			} else {
				b.WriteRune(r)
			}
			esc = false
			continue
		}
		if r == '\\' {
			esc = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EncodeText writes the movie as a ZIP of one-member-per-field text
// files, the editable sibling of the binary form.
func (m *Movie) EncodeText(out io.Writer, asState bool) error {
	z := zip.NewWriter(out)
	w := textWriter{z: z}
	if err := m.encodeText(w, asState); err != nil {
		z.Close()
		return coreerr.Categorized(coreerr.IoFailure, coreerr.MovieEncodeError, err)
	}
	if err := z.Close(); err != nil {
		return coreerr.Categorized(coreerr.IoFailure, coreerr.MovieEncodeError, err)
	}
	return nil
}

func (m *Movie) encodeText(w textWriter, asState bool) error {
	if err := w.lineFile("gametype", m.GameType, false); err != nil {
		return err
	}
	for _, name := range sortedKeys(m.Settings) {
		member := "setting." + name
		if strings.HasPrefix(name, "port") {
			member = name
		}
		if err := w.lineFile(member, m.Settings[name], false); err != nil {
			return err
		}
	}
	if err := w.lineFile("gamename", m.GameName, true); err != nil {
		return err
	}
	if err := w.lineFile("systemid", systemID, false); err != nil {
		return err
	}
	if err := w.lineFile("controlsversion", "0", false); err != nil {
		return err
	}
	if err := w.lineFile("coreversion", m.CoreVersion, false); err != nil {
		return err
	}
	if err := w.lineFile("projectid", m.ProjectID, false); err != nil {
		return err
	}
	if err := w.rawFile("rrdata", m.RRData.Bytes()); err != nil {
		return err
	}
	if err := w.numericFile("rerecords", uint64(m.RRData.Count())); err != nil {
		return err
	}
	if err := w.lineFile("rom.sha256", m.ROMImgSHA256[0], true); err != nil {
		return err
	}
	if err := w.lineFile("romxml.sha256", m.ROMXMLSHA256[0], true); err != nil {
		return err
	}
	if err := w.lineFile("rom.hint", m.NameHint[0], true); err != nil {
		return err
	}
	for i := 1; i < ROMSlotCount; i++ {
		slot := string(rune('a' + i - 1))
		if err := w.lineFile("slot"+slot+".sha256", m.ROMImgSHA256[i], true); err != nil {
			return err
		}
		if err := w.lineFile("slot"+slot+"xml.sha256", m.ROMXMLSHA256[i], true); err != nil {
			return err
		}
		if err := w.lineFile("slot"+slot+".hint", m.NameHint[i], true); err != nil {
			return err
		}
	}

	if err := m.encodeTextSubtitles(w); err != nil {
		return err
	}
	for _, name := range sortedKeys(m.MovieSRAM) {
		if err := w.rawFile("moviesram."+name, m.MovieSRAM[name]); err != nil {
			return err
		}
	}
	if err := w.numericFile("starttime.second", m.MovieRTCSecond); err != nil {
		return err
	}
	if err := w.numericFile("starttime.subsecond", m.MovieRTCSubsecond); err != nil {
		return err
	}
	if len(m.AnchorSavestate) > 0 {
		if err := w.rawFile("savestate.anchor", m.AnchorSavestate); err != nil {
			return err
		}
	}
	if asState {
		if err := m.encodeTextDynamic(w); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(m.RAMContent) {
		if err := w.rawFile("initram."+name, m.RAMContent[name]); err != nil {
			return err
		}
	}

	var authors strings.Builder
	for _, a := range m.Authors {
		if a.Nickname == "" {
			fmt.Fprintf(&authors, "%s\n", a.FullName)
		} else {
			fmt.Fprintf(&authors, "%s|%s\n", a.FullName, a.Nickname)
		}
	}
	if err := w.rawFile("authors", []byte(authors.String())); err != nil {
		return err
	}

	// branch 0 is the current branch, stored as plain "input"; the
	// rest get numbered input.N members.
	names := sortedKeys(m.Branches)
	next := 1
	for _, name := range names {
		id := 0
		if name != m.CurrentBranch {
			id = next
			next++
		}
		if err := w.lineFile(fmt.Sprintf("branchname.%d", id), name, false); err != nil {
			return err
		}
		member := "input"
		if id != 0 {
			member = fmt.Sprintf("input.%d", id)
		}
		if err := m.encodeTextInput(w, member, m.Branches[name]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Movie) encodeTextSubtitles(w textWriter) error {
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
	var b strings.Builder
	for _, k := range subtimings {
		fmt.Fprintf(&b, "%d %d %s\n", k.Frame, k.Length, escapeSubtitle(m.Subtitles[k]))
	}
	return w.rawFile("subtitles", []byte(b.String()))
}

func (m *Movie) encodeTextDynamic(w textWriter) error {
	if err := w.numericFile("saveframe", m.Dyn.SaveFrame); err != nil {
		return err
	}
	if err := w.numericFile("lagcounter", m.Dyn.LaggedFrames); err != nil {
		return err
	}
	var pcs strings.Builder
	for _, c := range m.Dyn.PollCounters {
		x := int64(c & 0x7fffffff)
		if c&0x80000000 == 0 {
			x = -x - 1
		}
		fmt.Fprintf(&pcs, "%d\n", x)
	}
	if err := w.rawFile("pollcounters", []byte(pcs.String())); err != nil {
		return err
	}
	if err := w.rawFile("hostmemory", m.Dyn.HostMemory); err != nil {
		return err
	}
	if err := w.rawFile("savestate", m.Dyn.Savestate); err != nil {
		return err
	}
	if err := w.rawFile("screenshot", m.Dyn.Screenshot); err != nil {
		return err
	}
	for _, name := range sortedKeys(m.Dyn.SRAM) {
		if err := w.rawFile("sram."+name, m.Dyn.SRAM[name]); err != nil {
			return err
		}
	}
	if err := w.numericFile("savetime.second", m.Dyn.RTCSecond); err != nil {
		return err
	}
	if err := w.numericFile("savetime.subsecond", m.Dyn.RTCSubsecond); err != nil {
		return err
	}
	flag := uint64(0)
	if m.Dyn.PollFlag {
		flag = 1
	}
	if err := w.numericFile("pollflag", flag); err != nil {
		return err
	}
	if len(m.Dyn.ActiveMacros) > 0 {
		var b strings.Builder
		for _, name := range sortedKeys(m.Dyn.ActiveMacros) {
			fmt.Fprintf(&b, "%d %s\n", m.Dyn.ActiveMacros[name], name)
		}
		if err := w.rawFile("macros", []byte(b.String())); err != nil {
			return err
		}
	}
	return nil
}

// encodeTextInput writes one frame per line, the packed frame bytes in
// hex.
func (m *Movie) encodeTextInput(w textWriter, member string, fv *controller.FrameVector) error {
	f, err := w.z.Create(member)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	for i := uint64(0); i < fv.Size(); i++ {
		frame, err := fv.Frame(i)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "%s\n", hex.EncodeToString(frame)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// textReader indexes a ZIP's members for random access during load.
type textReader struct {
	members map[string]*zip.File
}

func newTextReader(data []byte) (*textReader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
	}
	r := &textReader{members: map[string]*zip.File{}}
	for _, f := range zr.File {
		r.members[f.Name] = f
	}
	return r, nil
}

func (r *textReader) has(name string) bool {
	_, ok := r.members[name]
	return ok
}

func (r *textReader) raw(name string) ([]byte, error) {
	f, ok := r.members[name]
	if !ok {
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, "missing member "+name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// line reads the first line of a member. Missing members are an error
// unless optional is set, in which case the empty string is returned.
func (r *textReader) line(name string, optional bool) (string, error) {
	if optional && !r.has(name) {
		return "", nil
	}
	raw, err := r.raw(name)
	if err != nil {
		return "", err
	}
	s := string(raw)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "\r"), nil
}

func (r *textReader) numeric(name string, optional bool) (uint64, error) {
	s, err := r.line(name, optional)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
	}
	return v, nil
}

// lines splits a member into its non-empty lines; a missing member
// reads as no lines.
func (r *textReader) lines(name string) ([]string, error) {
	if !r.has(name) {
		return nil, nil
	}
	raw, err := r.raw(name)
	if err != nil {
		return nil, err
	}
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}

// DecodeText reads a textual ZIP movie.
func DecodeText(data []byte, resolve LayoutResolver) (*Movie, error) {
	r, err := newTextReader(data)
	if err != nil {
		return nil, err
	}

	sysid, err := r.line("systemid", false)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(sysid, "lsnes-rr") {
		logger.Logf(logger.Allow, "movie", "rejecting text movie with system id %q", sysid)
		return nil, coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, "unknown system id "+sysid)
	}

	gametype, err := r.line("gametype", false)
	if err != nil {
		return nil, err
	}
	settings := map[string]string{}
	for name := range r.members {
		switch {
		case strings.HasPrefix(name, "setting."):
			v, err := r.line(name, false)
			if err != nil {
				return nil, err
			}
			settings[strings.TrimPrefix(name, "setting.")] = v
		case strings.HasPrefix(name, "port") && !strings.Contains(name, "."):
			v, err := r.line(name, false)
			if err != nil {
				return nil, err
			}
			settings[name] = v
		}
	}
	layout, err := resolve(gametype, settings)
	if err != nil {
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

	if m.GameName, err = r.line("gamename", true); err != nil {
		return nil, err
	}
	if m.ProjectID, err = r.line("projectid", false); err != nil {
		return nil, err
	}
	if m.CoreVersion, err = r.line("coreversion", false); err != nil {
		return nil, err
	}
	rrblob, err := r.raw("rrdata")
	if err != nil {
		return nil, err
	}
	if m.RRData, err = rrdata.Parse(rrblob); err != nil {
		return nil, err
	}
	if m.ROMImgSHA256[0], err = r.line("rom.sha256", true); err != nil {
		return nil, err
	}
	if m.ROMXMLSHA256[0], err = r.line("romxml.sha256", true); err != nil {
		return nil, err
	}
	if m.NameHint[0], err = r.line("rom.hint", true); err != nil {
		return nil, err
	}
	for i := 1; i < ROMSlotCount; i++ {
		slot := string(rune('a' + i - 1))
		if m.ROMImgSHA256[i], err = r.line("slot"+slot+".sha256", true); err != nil {
			return nil, err
		}
		if m.ROMXMLSHA256[i], err = r.line("slot"+slot+"xml.sha256", true); err != nil {
			return nil, err
		}
		if m.NameHint[i], err = r.line("slot"+slot+".hint", true); err != nil {
			return nil, err
		}
	}

	if err := m.decodeTextSubtitles(r); err != nil {
		return nil, err
	}
	if m.MovieRTCSecond, err = r.numeric("starttime.second", true); err != nil {
		return nil, err
	}
	if m.MovieRTCSubsecond, err = r.numeric("starttime.subsecond", true); err != nil {
		return nil, err
	}
	if r.has("savestate.anchor") {
		if m.AnchorSavestate, err = r.raw("savestate.anchor"); err != nil {
			return nil, err
		}
	}
	if r.has("savestate") {
		if err := m.decodeTextDynamic(r); err != nil {
			return nil, err
		}
	}

	for name := range r.members {
		switch {
		case strings.HasPrefix(name, "moviesram."):
			blob, err := r.raw(name)
			if err != nil {
				return nil, err
			}
			m.MovieSRAM[strings.TrimPrefix(name, "moviesram.")] = blob
		case strings.HasPrefix(name, "initram."):
			blob, err := r.raw(name)
			if err != nil {
				return nil, err
			}
			m.RAMContent[strings.TrimPrefix(name, "initram.")] = blob
		}
	}

	authorLines, err := r.lines("authors")
	if err != nil {
		return nil, err
	}
	for _, line := range authorLines {
		a := Author{FullName: line}
		if i := strings.IndexByte(line, '|'); i >= 0 {
			a.FullName, a.Nickname = line[:i], line[i+1:]
		}
		m.Authors = append(m.Authors, a)
	}

	if err := m.decodeTextBranches(r); err != nil {
		logger.Logf(logger.Allow, "movie", "text decode: %v", err)
		return nil, err
	}
	return m, nil
}

func (m *Movie) decodeTextSubtitles(r *textReader) error {
	lines, err := r.lines("subtitles")
	if err != nil {
		return err
	}
	for _, line := range lines {
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 3 {
			continue
		}
		frame, err1 := strconv.ParseUint(parts[0], 10, 64)
		length, err2 := strconv.ParseUint(parts[1], 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		m.Subtitles[Subtiming{Frame: frame, Length: length}] = unescapeSubtitle(parts[2])
	}
	return nil
}

func (m *Movie) decodeTextDynamic(r *textReader) error {
	var err error
	if m.Dyn.SaveFrame, err = r.numeric("saveframe", true); err != nil {
		return err
	}
	if m.Dyn.LaggedFrames, err = r.numeric("lagcounter", true); err != nil {
		return err
	}
	pcLines, err := r.lines("pollcounters")
	if err != nil {
		return err
	}
	for _, line := range pcLines {
		x, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
		}
		var c uint32
		if x >= 0 {
			c = uint32(x) | 0x80000000
		} else {
			c = uint32(-x - 1)
		}
		m.Dyn.PollCounters = append(m.Dyn.PollCounters, c)
	}
	if r.has("hostmemory") {
		if m.Dyn.HostMemory, err = r.raw("hostmemory"); err != nil {
			return err
		}
	}
	if m.Dyn.Savestate, err = r.raw("savestate"); err != nil {
		return err
	}
	if r.has("screenshot") {
		if m.Dyn.Screenshot, err = r.raw("screenshot"); err != nil {
			return err
		}
	}
	for name := range r.members {
		if strings.HasPrefix(name, "sram.") {
			blob, err := r.raw(name)
			if err != nil {
				return err
			}
			m.Dyn.SRAM[strings.TrimPrefix(name, "sram.")] = blob
		}
	}
	if m.Dyn.RTCSecond, err = r.numeric("savetime.second", true); err != nil {
		return err
	}
	if m.Dyn.RTCSubsecond, err = r.numeric("savetime.subsecond", true); err != nil {
		return err
	}
	flag, err := r.numeric("pollflag", true)
	if err != nil {
		return err
	}
	m.Dyn.PollFlag = flag != 0
	macroLines, err := r.lines("macros")
	if err != nil {
		return err
	}
	for _, line := range macroLines {
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}
		n, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			continue
		}
		m.Dyn.ActiveMacros[parts[1]] = n
	}
	return nil
}

func (m *Movie) decodeTextBranches(r *textReader) error {
	// member "input" is branch 0, the current one; input.N are the
	// rest, named by their branchname.N members.
	for member := range r.members {
		var id int
		switch {
		case member == "input":
			id = 0
		case strings.HasPrefix(member, "input."):
			n, err := strconv.Atoi(strings.TrimPrefix(member, "input."))
			if err != nil || n < 1 {
				continue
			}
			id = n
		default:
			continue
		}
		name, err := r.line(fmt.Sprintf("branchname.%d", id), true)
		if err != nil {
			return err
		}
		fv := controller.NewFrameVector(m.layout)
		lines, err := r.lines(member)
		if err != nil {
			return err
		}
		for _, line := range lines {
			raw, err := hex.DecodeString(line)
			if err != nil {
				return coreerr.Categorized(coreerr.MalformedInput, coreerr.MovieDecodeError, err)
			}
			frame := fv.Append()
			copy(frame, raw)
		}
		m.Branches[name] = fv
		if id == 0 {
			m.CurrentBranch = name
		}
	}
	if len(m.Branches) == 0 {
		m.Branches[""] = controller.NewFrameVector(m.layout)
		m.CurrentBranch = ""
	}
	return nil
}
