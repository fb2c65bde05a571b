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

package script

import (
	"github.com/lsnes-go/core/framebuffer"
	"github.com/lsnes-go/core/render"
	"github.com/lsnes-go/core/render/font"
)

// RenderContext is the drawing surface the gui bindings target. The
// emulation loop points Queue at a fresh queue before each paint
// callback; bindings called outside a paint callback see a nil queue
// and do nothing.
type RenderContext struct {
	Queue *render.Queue
	Font  *font.Store

	// Tag marks every queued object with the owning script's identity
	// so gui.kill can remove them selectively.
	Tag any
}

var transparent = framebuffer.NewColor(0, 0)
var opaqueWhite = framebuffer.NewColor(0xffffff, 255)
var opaqueBlack = framebuffer.NewColor(0x000000, 255)

// RegisterDrawing installs the gui drawing bindings into g, each
// queuing one retained render object.
func RegisterDrawing(g *FunctionGroup, ctx *RenderContext) {
	g.Register("gui.pixel", func(p *Parameters) int {
		if ctx.Queue == nil {
			return 0
		}
		obj := &render.Pixel{
			X:     int32(p.Int()),
			Y:     int32(p.Int()),
			Color: p.Color(opaqueWhite),
		}
		obj.Tag = ctx.Tag
		ctx.Queue.Add(obj)
		return 0
	})

	g.Register("gui.rectangle", func(p *Parameters) int {
		if ctx.Queue == nil {
			return 0
		}
		obj := &render.Rectangle{
			X:         int32(p.Int()),
			Y:         int32(p.Int()),
			W:         int32(p.Int()),
			H:         int32(p.Int()),
			Thickness: int32(p.OptInt(1)),
			Outline:   p.Color(opaqueWhite),
		}
		obj.Tag = ctx.Tag
		ctx.Queue.Add(obj)
		return 0
	})

	g.Register("gui.solidrectangle", func(p *Parameters) int {
		if ctx.Queue == nil {
			return 0
		}
		obj := &render.SolidRectangle{
			X:    int32(p.Int()),
			Y:    int32(p.Int()),
			W:    int32(p.Int()),
			H:    int32(p.Int()),
			Fill: p.Color(opaqueBlack),
		}
		obj.Tag = ctx.Tag
		ctx.Queue.Add(obj)
		return 0
	})

	g.Register("gui.box", func(p *Parameters) int {
		if ctx.Queue == nil {
			return 0
		}
		obj := &render.Box{
			X:         int32(p.Int()),
			Y:         int32(p.Int()),
			W:         int32(p.Int()),
			H:         int32(p.Int()),
			Thickness: int32(p.OptInt(1)),
			Outline:   p.Color(opaqueWhite),
			Fill:      p.Color(opaqueBlack),
		}
		obj.Tag = ctx.Tag
		ctx.Queue.Add(obj)
		return 0
	})

	g.Register("gui.circle", func(p *Parameters) int {
		if ctx.Queue == nil {
			return 0
		}
		obj := &render.Circle{
			X:         int32(p.Int()),
			Y:         int32(p.Int()),
			R:         int32(p.Int()),
			Thickness: int32(p.OptInt(1)),
			Outline:   p.Color(opaqueWhite),
		}
		if fill := p.Color(transparent); !fill.Transparent() {
			obj.Fill = &fill
		}
		obj.Tag = ctx.Tag
		ctx.Queue.Add(obj)
		return 0
	})

	g.Register("gui.crosshair", func(p *Parameters) int {
		if ctx.Queue == nil {
			return 0
		}
		obj := &render.Crosshair{
			X:     int32(p.Int()),
			Y:     int32(p.Int()),
			Color: p.Color(opaqueWhite),
		}
		obj.Tag = ctx.Tag
		ctx.Queue.Add(obj)
		return 0
	})

	g.Register("gui.text", func(p *Parameters) int {
		if ctx.Queue == nil {
			return 0
		}
		x := int32(p.Int())
		y := int32(p.Int())
		text := p.String()
		fg := p.Color(opaqueWhite)
		bg := p.Color(transparent)
		hl := p.Color(transparent)
		opts := font.DrawOptions{FG: fg, BG: bg}
		if !hl.Transparent() {
			opts.Halo = true
			opts.HaloColor = hl
		}
		obj := &render.Text{
			X:     x,
			Y:     y,
			Text:  text,
			Store: ctx.Font,
			Opts:  opts,
		}
		obj.Tag = ctx.Tag
		ctx.Queue.Add(obj)
		return 0
	})

	// gui.kill removes everything this script queued earlier in the
	// frame.
	g.Register("gui.kill", func(p *Parameters) int {
		if ctx.Queue == nil || ctx.Tag == nil {
			return 0
		}
		ctx.Queue.KillRequest(ctx.Tag)
		return 0
	})
}
