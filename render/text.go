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

package render

import (
	"github.com/lsnes-go/core/framebuffer"
	"github.com/lsnes-go/core/render/font"
)

// Text draws a UTF-8 string with the bitmap font renderer. The glyph
// store is captured at queue time so a font swap mid-frame doesn't
// change already-queued text.
type Text struct {
	tagged
	X, Y  int32
	Text  string
	Store *font.Store
	Opts  font.DrawOptions
}

func (t *Text) Apply(fb *framebuffer.Rendered) {
	if t.Store == nil {
		return
	}
	font.Draw(fb, t.Store, []byte(t.Text), int(t.X), int(t.Y), t.Opts)
}

func (t *Text) Clone() Object { c := *t; return &c }
