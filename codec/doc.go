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

// Package codec is the binary stream codec shared by the movie container,
// rerecord count set and savestate payloads: a varint-tagged record format
// built around a Writer/Reader pair, where a Reader can be narrowed into a
// bounded substream that a handler can't read past.
//
// Numbers are written LEB128-style, seven bits per byte with the top bit as
// a continuation flag. Extension records are framed by a four byte magic,
// a four byte tag and a varint size, so that a reader that doesn't
// recognise a tag can skip its payload without understanding it.
package codec
