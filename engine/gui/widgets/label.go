package widgets

import (
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gui"
	"github.com/hubastard/grove/engine/text"
)

// Label draws a string in one render group sampling the font atlas.
type Label struct {
	Common[*Label]
	text     string
	font     *text.Font
	layout   text.Layout
	autoSize bool
}

// NewLabel creates a label sized to its text.
func NewLabel(s string, font *text.Font) *Label {
	l := &Label{text: s, font: font, autoSize: true}
	l.Common = NewCommon(l)
	l.relayout()
	return l
}

func (l *Label) Text() string             { return l.text }
func (l *Label) TextLayout() *text.Layout { return &l.layout }

func (l *Label) SetText(s string) *Label {
	if l.text != s {
		l.text = s
		l.relayout()
	}
	return l
}

func (l *Label) Font(f *text.Font) *Label {
	l.font = f
	l.relayout()
	return l
}

// FixedSize stops the label from resizing to its text.
func (l *Label) FixedSize(w, h float32) *Label {
	l.autoSize = false
	return l.Size(w, h)
}

func (l *Label) relayout() {
	if l.font == nil {
		l.layout = text.Layout{}
	} else {
		l.layout = l.font.Layout(l.text, core.Vec2{})
	}
	if l.autoSize {
		b := l.Bounds()
		l.SetBounds(core.R(b.X, b.Y, l.layout.Size.X, l.layout.Size.Y))
	}
	l.MarkDirty()
}

func (l *Label) RenderGroupCount() int { return 1 }
func (l *Label) QuadCount(int) int     { return len(l.layout.Quads) }

func (l *Label) Material(int) gui.Material {
	var tex core.Texture
	if l.font != nil {
		tex = l.font.Texture
	}
	return l.materials().Sprite(tex, l.color)
}

func (l *Label) FillBuffer(group int, verts, uvs []float32, indices []uint32, startQuad, maxQuads, vertexStride, indexStride int) int {
	return putGlyphs(verts, uvs, indices, startQuad, maxQuads, vertexStride, indexStride, l.layout.Quads, l.Bounds().Pos())
}

// putGlyphs writes glyph quads offset by origin.
func putGlyphs(verts, uvs []float32, indices []uint32, startQuad, maxQuads, vertexStride, indexStride int, quads []text.Quad, origin core.Vec2) int {
	n := min(maxQuads, len(quads))
	for i := 0; i < n; i++ {
		pos := quads[i].Pos
		pos.X += origin.X
		pos.Y += origin.Y
		gui.PutQuad(verts, uvs, indices, startQuad, i, vertexStride, indexStride, pos, quads[i].UV)
	}
	return n
}
