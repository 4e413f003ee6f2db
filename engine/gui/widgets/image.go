package widgets

import (
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gui"
)

// Image draws a texture, or a sub-rectangle of it, tinted by its color.
type Image struct {
	Common[*Image]
	tex core.Texture
	uv  core.Rect
}

func NewImage(tex core.Texture) *Image {
	i := &Image{tex: tex, uv: gui.FullUV}
	i.Common = NewCommon(i)
	return i
}

// Region selects the part of the texture to show, in normalized UVs.
func (i *Image) Region(uv core.Rect) *Image {
	if i.uv != uv {
		i.uv = uv
		i.MarkDirty()
	}
	return i
}

// Texture swaps the image. A render texture's sampled side goes here to
// show an off-screen GUI.
func (i *Image) Texture(tex core.Texture) *Image {
	if i.tex != tex {
		i.tex = tex
		i.MarkDirty()
	}
	return i
}

func (i *Image) RenderGroupCount() int { return 1 }

func (i *Image) QuadCount(int) int {
	if i.tex == nil {
		return 0
	}
	return 1
}

func (i *Image) Material(int) gui.Material { return i.materials().Sprite(i.tex, i.color) }

func (i *Image) FillBuffer(group int, verts, uvs []float32, indices []uint32, startQuad, maxQuads, vertexStride, indexStride int) int {
	if maxQuads < 1 || i.tex == nil {
		return 0
	}
	gui.PutQuad(verts, uvs, indices, startQuad, 0, vertexStride, indexStride, i.Bounds(), i.uv)
	return 1
}
