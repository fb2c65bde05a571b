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

package rrdata

// The emergency path exists for crash handlers, which cannot trust the
// heap. A crash-time saver prepares an EmergencyState while the process
// is still healthy, asks SizeEmergency for the exact encoded size, and
// later drains the encoding piecewise into whatever stack buffer it has.

// EmergencyState is a resumable cursor over the set's encoded form.
// Prepare it with NewEmergencyState before it is needed; WriteEmergency
// performs no allocation.
type EmergencyState struct {
	groups [][2]uint64
	// next group to emit and the byte position already emitted within
	// that group's encoding.
	group  int
	offset int
	// scratch holds one fully encoded group: two varints of at most
	// ten bytes each.
	scratch [20]byte
}

// NewEmergencyState snapshots the set's runs. The set must not be
// mutated between this call and the final WriteEmergency.
func (s *Set) NewEmergencyState() *EmergencyState {
	return &EmergencyState{groups: runs(s.sorted())}
}

// putNumber encodes v into buf and returns the byte count.
func putNumber(buf []byte, v uint64) int {
	n := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if v == 0 {
			return n
		}
	}
}

// encodeGroup encodes group i into st.scratch and returns its length.
func (st *EmergencyState) encodeGroup(i int) int {
	run := st.groups[i]
	gap := run[0]
	if i > 0 {
		gap = run[0] - st.groups[i-1][1] - 1
	}
	n := putNumber(st.scratch[:], gap)
	n += putNumber(st.scratch[n:], run[1]-run[0])
	return n
}

// SizeEmergency returns the total encoded size in bytes.
func (st *EmergencyState) SizeEmergency() uint64 {
	var total uint64
	for i := range st.groups {
		total += uint64(st.encodeGroup(i))
	}
	return total
}

// WriteEmergency copies the next chunk of the encoding into buf and
// returns the number of bytes written; zero means the set is fully
// drained. Call repeatedly with any buffer of at least one byte.
func (st *EmergencyState) WriteEmergency(buf []byte) int {
	written := 0
	for written < len(buf) && st.group < len(st.groups) {
		n := st.encodeGroup(st.group)
		c := copy(buf[written:], st.scratch[st.offset:n])
		written += c
		st.offset += c
		if st.offset == n {
			st.group++
			st.offset = 0
		}
	}
	return written
}
