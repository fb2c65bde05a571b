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

package emulation

import "sync"

// FeatureReq is used to request a change to the running emulation, eg.
// a pause request from the GUI. Requests are queued from any goroutine
// and drained by the emulation loop at its next yield, so the loop's
// data structures are never touched concurrently.
type FeatureReq string

// FeatureReqData is the information associated with a FeatureReq. The
// required underlying type is given in the commentary for each defined
// FeatureReq value; a mismatch is reported when the request is drained.
type FeatureReqData any

// List of valid feature requests.
const (
	// change the frame-advance mode. data is a Mode.
	ReqSetMode FeatureReq = "ReqSetMode" // Mode

	// toggle autohold on a button. data is a Buttonref.
	ReqToggleAutohold FeatureReq = "ReqToggleAutohold" // Buttonref

	// set an autofire pattern on a button; Duty 0 clears it. data is
	// an AutofireReq.
	ReqSetAutofire FeatureReq = "ReqSetAutofire" // AutofireReq

	// switch the movie's current branch. data is the branch name.
	ReqSelectBranch FeatureReq = "ReqSelectBranch" // string
)

// Buttonref names one button of one controller in one port.
type Buttonref struct {
	Port       int
	Controller int
	Button     int
}

// AutofireReq carries an autofire pattern request.
type AutofireReq struct {
	Ref   Buttonref
	Duty  uint32
	Cycle uint32
}

// request pairs a FeatureReq with its data.
type request struct {
	req  FeatureReq
	data FeatureReqData
}

// RequestQueue is the thread-safe mailbox between the UI and the
// emulation loop.
type RequestQueue struct {
	mu      sync.Mutex
	pending []request
}

// Submit queues one request. Safe from any goroutine.
func (q *RequestQueue) Submit(req FeatureReq, data FeatureReqData) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, request{req: req, data: data})
}

// drain empties the queue, returning what was pending.
func (q *RequestQueue) drain() []request {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}
