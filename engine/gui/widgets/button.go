package widgets

import (
	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gui"
	"github.com/hubastard/grove/engine/text"
)

// Button is a background quad with a centered caption. It lightens while
// hovered, darkens while pressed and fires its click handler on a click.
type Button struct {
	Common[*Button]
	text      string
	font      *text.Font
	textColor colors.Color
	layout    text.Layout
	hovered   bool
	pressed   bool
	onClick   func()
}

func NewButton(s string, font *text.Font) *Button {
	b := &Button{text: s, font: font, textColor: colors.Black}
	b.Common = NewCommon(b)
	b.relayout()
	return b
}

func (b *Button) BgColor(c colors.Color) *Button { return b.Color(c) }

func (b *Button) TextColor(c colors.Color) *Button {
	b.textColor = c
	b.MarkDirty()
	return b
}

func (b *Button) SetText(s string) *Button {
	b.text = s
	b.relayout()
	return b
}

func (b *Button) OnClick(fn func()) *Button {
	b.onClick = fn
	return b
}

func (b *Button) Text() string  { return b.text }
func (b *Button) Hovered() bool { return b.hovered }
func (b *Button) Pressed() bool { return b.pressed }

func (b *Button) relayout() {
	if b.font == nil {
		b.layout = text.Layout{}
	} else {
		b.layout = b.font.Layout(b.text, core.Vec2{})
	}
	b.MarkDirty()
}

// Render groups: background, caption.
func (b *Button) RenderGroupCount() int { return 2 }

func (b *Button) QuadCount(group int) int {
	if group == 0 {
		return 1
	}
	return len(b.layout.Quads)
}

func (b *Button) Material(group int) gui.Material {
	if group == 0 {
		return b.materials().Solid(b.background())
	}
	var tex core.Texture
	if b.font != nil {
		tex = b.font.Texture
	}
	return b.materials().Sprite(tex, b.textColor)
}

func (b *Button) background() colors.Color {
	switch {
	case b.pressed:
		return b.color.Scale(0.8)
	case b.hovered:
		return b.color.Scale(1.1)
	}
	return b.color
}

func (b *Button) FillBuffer(group int, verts, uvs []float32, indices []uint32, startQuad, maxQuads, vertexStride, indexStride int) int {
	bounds := b.Bounds()
	if group == 0 {
		if maxQuads < 1 {
			return 0
		}
		return fillRect(verts, uvs, indices, startQuad, vertexStride, indexStride, bounds)
	}
	origin := core.Vec2{
		X: bounds.X + (bounds.W-b.layout.Size.X)/2,
		Y: bounds.Y + (bounds.H-b.layout.Size.Y)/2,
	}
	return putGlyphs(verts, uvs, indices, startQuad, maxQuads, vertexStride, indexStride, b.layout.Quads, origin)
}

func (b *Button) MouseEvent(ev *gui.MouseEvent) bool {
	switch ev.Type {
	case gui.MouseIn:
		b.setState(true, b.pressed)
	case gui.MouseOut:
		b.setState(false, b.pressed)
	case gui.MousePress:
		b.setState(b.hovered, true)
	case gui.MouseRelease, gui.MouseDragEnd:
		b.setState(b.hovered, false)
	case gui.MouseClick:
		if b.onClick != nil {
			b.onClick()
		}
	default:
		return false
	}
	return true
}

func (b *Button) setState(hovered, pressed bool) {
	if b.hovered == hovered && b.pressed == pressed {
		return
	}
	b.hovered, b.pressed = hovered, pressed
	b.MarkDirty()
}
