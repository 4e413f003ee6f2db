package widgets

import "github.com/hubastard/grove/engine/gui"

// Panel is a flat colored rectangle.
type Panel struct {
	Common[*Panel]
}

func NewPanel() *Panel {
	p := &Panel{}
	p.Common = NewCommon(p)
	return p
}

func (p *Panel) RenderGroupCount() int { return 1 }
func (p *Panel) QuadCount(int) int     { return 1 }

func (p *Panel) Material(int) gui.Material { return p.materials().Solid(p.color) }

func (p *Panel) FillBuffer(group int, verts, uvs []float32, indices []uint32, startQuad, maxQuads, vertexStride, indexStride int) int {
	if maxQuads < 1 {
		return 0
	}
	return fillRect(verts, uvs, indices, startQuad, vertexStride, indexStride, p.Bounds())
}
