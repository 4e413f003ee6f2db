// Package widgets holds ready-made GUI elements. Each is built fluently:
//
//	btn := widgets.NewButton("Play", font).Position(20, 20).Size(120, 32).OnClick(start)
//	w.Add(btn)
package widgets

import (
	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gui"
)

// Common is embedded by every widget. It carries the element state and the
// fluent setters, which return the concrete widget so calls chain.
type Common[T any] struct {
	gui.ElementBase
	owner T
	color colors.Color
}

func NewCommon[T any](owner T) Common[T] {
	return Common[T]{owner: owner, color: colors.White}
}

func (c *Common[T]) Position(x, y float32) T {
	b := c.Bounds()
	c.SetBounds(core.R(x, y, b.W, b.H))
	return c.owner
}

func (c *Common[T]) Size(w, h float32) T {
	b := c.Bounds()
	c.SetBounds(core.R(b.X, b.Y, w, h))
	return c.owner
}

func (c *Common[T]) Rect(r core.Rect) T {
	c.SetBounds(r)
	return c.owner
}

// Layer sets the depth; smaller layers are drawn in front.
func (c *Common[T]) Layer(depth int) T {
	c.SetDepth(depth)
	return c.owner
}

func (c *Common[T]) Color(col colors.Color) T {
	if c.color != col {
		c.color = col
		c.MarkDirty()
	}
	return c.owner
}

func (c *Common[T]) CurrentColor() colors.Color { return c.color }

// materials returns the registry of the manager the widget is attached to.
func (c *Common[T]) materials() *gui.Materials {
	if m := c.Manager(); m != nil {
		return m.Materials()
	}
	return fallbackMaterials
}

// Detached elements are never drawn; this only keeps Material total.
var fallbackMaterials = gui.NewMaterials()

// fillRect writes a solid quad over r, for elements whose group 0 is a
// background.
func fillRect(verts, uvs []float32, indices []uint32, startQuad, vertexStride, indexStride int, r core.Rect) int {
	gui.PutQuad(verts, uvs, indices, startQuad, 0, vertexStride, indexStride, r, gui.FullUV)
	return 1
}
