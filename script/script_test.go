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

package script_test

import (
	"testing"

	"github.com/lsnes-go/core/debugfacility"
	"github.com/lsnes-go/core/memspace"
	"github.com/lsnes-go/core/render"
	"github.com/lsnes-go/core/script"
	"github.com/lsnes-go/core/test"
)

// result registers a capture binding so scripts can hand a value back
// to the test.
func result(s *script.State, g *script.FunctionGroup) *[]script.Value {
	var captured []script.Value
	g.Register("capture", func(p *script.Parameters) int {
		for p.More() {
			if p.IsNumber() {
				captured = append(captured, p.Float())
			} else if p.IsBool() {
				captured = append(captured, p.Bool())
			} else {
				captured = append(captured, p.String())
			}
		}
		return 0
	})
	return &captured
}

func TestCallbackResolution(t *testing.T) {
	s := script.NewState()
	defer s.Deinit()

	// missing global is not an error and reports not-found
	found, err := s.Callback("no_such_callback")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, found, false)

	test.ExpectSuccess(t, s.DoString("ran = 0\nfunction on_paint(f) ran = f end"))
	found, err = s.Callback("on_paint", uint64(7))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, found, true)

	test.ExpectSuccess(t, s.DoString("assert(ran == 7)"))
}

func TestCallbackErrorReported(t *testing.T) {
	s := script.NewState()
	defer s.Deinit()

	test.ExpectSuccess(t, s.DoString("function bad() error('broken') end"))
	_, err := s.Callback("bad")
	test.ExpectFailure(t, err)
}

func TestFunctionGroupSurvivesReset(t *testing.T) {
	s := script.NewState()
	defer s.Deinit()

	g := script.NewFunctionGroup("testfns")
	captured := result(s, g)
	g.Attach(s)

	test.ExpectSuccess(t, s.DoString("capture(1)"))
	test.ExpectEquality(t, len(*captured), 1)

	s.Reset()
	// the binding re-registered into the fresh interpreter
	test.ExpectSuccess(t, s.DoString("capture(2)"))
	test.ExpectEquality(t, len(*captured), 2)
}

func TestDoOnce(t *testing.T) {
	s := script.NewState()
	defer s.Deinit()

	runs := 0
	s.DoOnce("init", func() { runs++ })
	s.DoOnce("init", func() { runs++ })
	test.ExpectEquality(t, runs, 1)

	s.Reset()
	s.DoOnce("init", func() { runs++ })
	test.ExpectEquality(t, runs, 2)
}

func TestBitOps(t *testing.T) {
	s := script.NewState()
	defer s.Deinit()

	g := script.NewFunctionGroup("bit")
	script.RegisterBitOps(g)
	g.Attach(s)

	test.ExpectSuccess(t, s.DoString(`
		assert(bit.band(0xff, 0x0f) == 0x0f)
		assert(bit.bor(0xf0, 0x0f) == 0xff)
		assert(bit.bxor(0xff, 0x0f) == 0xf0)
		assert(bit.bnot(0) == 2^48 - 1)
		assert(bit.lshift(1, 4) == 16)
		assert(bit.rshift(16, 4) == 1)
		assert(bit.popcount(0xff) == 8)
		assert(bit.compose(0x34, 0x12) == 0x1234)
		assert(bit.swap(0x1234, 2) == 0x3412)
		local lo, hi = bit.mul32(0x10000, 0x10000)
		assert(lo == 0 and hi == 1)
		assert(bit.extract(0x05, 0, 2) == 3)
		assert(bit64.bnot(0) == 2^64 - 1)
	`))
}

func TestBitLoadStore(t *testing.T) {
	s := script.NewState()
	defer s.Deinit()

	g := script.NewFunctionGroup("bit")
	script.RegisterBitOps(g)
	g.Attach(s)

	test.ExpectSuccess(t, s.DoString(`
		local buf = bit.stbe(0x1234, 2)
		assert(#buf == 2)
		assert(bit.ldbe(buf, 0, 2) == 0x1234)
		assert(bit.ldle(buf, 0, 2) == 0x3412)
		local f = bit.stfle(1.5, 8)
		assert(bit.ldfle(f, 0, 8) == 1.5)
	`))
}

func TestHostMemory(t *testing.T) {
	s := script.NewState()
	defer s.Deinit()

	h := script.NewHostMemory()
	g := script.NewFunctionGroup("hostmemory")
	script.RegisterHostMemory(g, h)
	g.Attach(s)

	test.ExpectSuccess(t, s.DoString(`
		hostmemory.writedword(0, 0xdeadbeef)
		assert(hostmemory.readdword(0) == 0xdeadbeef)
		assert(hostmemory.readbyte(0) == 0xef)
		hostmemory.writewordbe(8, 0x1234)
		assert(hostmemory.readwordbe(8) == 0x1234)
		assert(hostmemory.readword(8) == 0x3412)
		assert(hostmemory.size() >= 10)
	`))

	// reads past the end see zeros, writes grow the buffer
	test.ExpectSuccess(t, s.DoString("assert(hostmemory.readbyte(100000) == 0)"))
	test.ExpectEquality(t, h.Read(0, 4, false), uint64(0xdeadbeef))
}

func TestDrawingQueuesObjects(t *testing.T) {
	s := script.NewState()
	defer s.Deinit()

	ctx := &script.RenderContext{Tag: "test-script"}
	g := script.NewFunctionGroup("gui")
	script.RegisterDrawing(g, ctx)
	g.Attach(s)

	// outside a paint callback nothing is queued
	test.ExpectSuccess(t, s.DoString("gui.pixel(1, 1)"))

	q := &render.Queue{}
	ctx.Queue = q
	test.ExpectSuccess(t, s.DoString(`
		gui.pixel(1, 1)
		gui.rectangle(0, 0, 4, 4, 1)
		gui.solidrectangle(2, 2, 2, 2)
		gui.box(0, 0, 8, 8, 1)
		gui.circle(4, 4, 3)
		gui.crosshair(2, 2)
		gui.text(0, 0, "hi")
	`))
	test.ExpectEquality(t, q.Len(), 7)

	test.ExpectSuccess(t, s.DoString("gui.kill()"))
	test.ExpectEquality(t, q.Len(), 0)
	ctx.Queue = nil
}

func testSpace(t *testing.T) (*memspace.Space, []byte) {
	t.Helper()
	backing := make([]byte, 16)
	space := &memspace.Space{}
	err := space.AddRegion(&memspace.Region{
		Name:   "WRAM",
		Base:   0x1000,
		Size:   16,
		Order:  memspace.LittleEndian,
		Direct: backing,
	})
	test.ExpectSuccess(t, err)
	return space, backing
}

func TestMemoryVMA(t *testing.T) {
	s := script.NewState()
	defer s.Deinit()

	space, backing := testSpace(t)
	ctx := &script.MemoryContext{
		Space: space,
		Debug: debugfacility.New(),
		Host:  script.NewHostMemory(),
	}
	g := script.NewFunctionGroup("memory")
	cg := script.NewClassGroup("memoryclasses")
	script.RegisterMemory(g, cg, ctx)
	g.Attach(s)
	cg.Attach(s)

	test.ExpectSuccess(t, s.DoString(`
		local r = memory.regions()
		assert(#r == 1 and r[1] == "WRAM")
		local wram = memory.vma("WRAM")
		assert(wram:size() == 16)
		wram:writebyte(0, 0x12)
		wram:writebyte(1, 0x34)
		assert(wram:readbyte(0) == 0x12)
		assert(wram:readword(0) == 0x3412)
		assert(wram:readwordswap(0) == 0x1234)
		wram:writedword(4, 0xcafebabe)
		assert(wram:readdword(4) == 0xcafebabe)
		local region = wram:readregion(0, 2)
		assert(#region == 2)
	`))
	test.ExpectEquality(t, backing[0], byte(0x12))
	test.ExpectEquality(t, backing[1], byte(0x34))

	test.ExpectSuccess(t, s.DoString(`
		local wram = memory.vma("WRAM")
		wram:store(0, 0, 4)
		assert(wram:storecmp(0, 0, 4) == false)
		wram:writebyte(0, 0x99)
		assert(wram:storecmp(0, 0, 4) == true)
		local h = wram:sha256(0, 4)
		assert(#h == 64)
		local sk = wram:skein(0, 4)
		assert(#sk == 64)
	`))
}

func TestMemoryWatchpoints(t *testing.T) {
	s := script.NewState()
	defer s.Deinit()

	space, _ := testSpace(t)
	dbg := debugfacility.New()
	ctx := &script.MemoryContext{Space: space, Debug: dbg, Host: script.NewHostMemory()}
	g := script.NewFunctionGroup("memory")
	cg := script.NewClassGroup("memoryclasses")
	script.RegisterMemory(g, cg, ctx)
	g.Attach(s)
	cg.Attach(s)

	test.ExpectSuccess(t, s.DoString(`
		hits = 0
		local wram = memory.vma("WRAM")
		wram:registerwrite(2, function(addr, value) hits = hits + 1 end)
	`))

	dbg.OnWrite(0x1002, 0x55)
	test.ExpectSuccess(t, s.DoString("assert(hits == 1)"))

	test.ExpectSuccess(t, s.DoString(`memory.vma("WRAM"):unregisterwrite(2)`))
	dbg.OnWrite(0x1002, 0x56)
	test.ExpectSuccess(t, s.DoString("assert(hits == 1)"))
}

func TestCheats(t *testing.T) {
	s := script.NewState()
	defer s.Deinit()

	space, _ := testSpace(t)
	dbg := debugfacility.New()
	ctx := &script.MemoryContext{Space: space, Debug: dbg, Host: script.NewHostMemory()}
	g := script.NewFunctionGroup("memory")
	cg := script.NewClassGroup("memoryclasses")
	script.RegisterMemory(g, cg, ctx)
	g.Attach(s)
	cg.Attach(s)

	test.ExpectSuccess(t, s.DoString(`memory.vma("WRAM"):cheat(3, 0x42)`))
	v, ok := dbg.GetCheat(0x1003)
	test.ExpectEquality(t, ok, true)
	test.ExpectEquality(t, v, uint8(0x42))

	test.ExpectSuccess(t, s.DoString(`memory.vma("WRAM"):cheat(3)`))
	_, ok = dbg.GetCheat(0x1003)
	test.ExpectEquality(t, ok, false)
}

func TestColorArguments(t *testing.T) {
	s := script.NewState()
	defer s.Deinit()

	ctx := &script.RenderContext{}
	g := script.NewFunctionGroup("gui")
	script.RegisterDrawing(g, ctx)
	g.Attach(s)

	q := &render.Queue{}
	ctx.Queue = q
	// integer, #RRGGBB string and named colors all accepted
	test.ExpectSuccess(t, s.DoString(`
		gui.pixel(0, 0, 0xff0000)
		gui.pixel(1, 0, "#00ff00")
		gui.pixel(2, 0, "blue")
	`))
	test.ExpectEquality(t, q.Len(), 3)
	ctx.Queue = nil
}
