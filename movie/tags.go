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

// Extension record tags used by the binary movie encoding. The values
// are part of the wire format and never change.
const (
	TagAnchorSave  uint32 = 0xf5e0fad7
	TagAuthor      uint32 = 0xafff97b4
	TagCoreVersion uint32 = 0xe4344c7e
	TagGameName    uint32 = 0xe80d6970
	TagHostMemory  uint32 = 0x3bf9d187
	TagMacro       uint32 = 0xd261338f
	TagMovie       uint32 = 0xf3dca44b
	TagMovieSRAM   uint32 = 0xbbc824b7
	TagMovieTime   uint32 = 0x18c3a975
	TagProjectID   uint32 = 0x359bfbab
	TagROMHash     uint32 = 0x0428acfc
	TagRRData      uint32 = 0xa3a07f71
	TagSaveSRAM    uint32 = 0xae9bfb2f
	TagSavestate   uint32 = 0x2e5bc2ac
	TagScreenshot  uint32 = 0xc6760d0e
	TagSubtitle    uint32 = 0x6a7054d3
	TagRAMContent  uint32 = 0xd3ec3770
	TagROMHint     uint32 = 0x6f715830
	TagBranch      uint32 = 0xf2e60707
	TagBranchName  uint32 = 0x6dcb2155
)
