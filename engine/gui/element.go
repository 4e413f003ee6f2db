package gui

import "github.com/hubastard/grove/engine/core"

// Element is a leaf GUI unit. It produces quads grouped into render groups,
// one material per group, and receives routed input events.
//
// Implementations embed ElementBase, which supplies Node, MarkClean and
// not-consumed defaults for every event handler.
type Element interface {
	Node() *ElementBase

	// RenderGroupCount, Material and QuadCount must stay stable between
	// MarkClean and the next mutation of the element.
	RenderGroupCount() int
	Material(group int) Material
	QuadCount(group int) int

	// FillBuffer writes the quads of group into strided buffers, starting
	// at quad slot startQuad. Vertex v lives at verts[v*vertexStride] (x, y)
	// and uvs[v*vertexStride] (u, v); index k at indices[k*indexStride].
	// Indices are quad-local: the i-th quad of the group uses i*4..i*4+3.
	// It must not write past maxQuads and returns the number of quads
	// written.
	FillBuffer(group int, verts, uvs []float32, indices []uint32, startQuad, maxQuads, vertexStride, indexStride int) int

	MarkClean()

	MouseEvent(ev *MouseEvent) bool
	TextInputEvent(ev *TextInputEvent) bool
	CommandEvent(ev *CommandEvent) bool
	VirtualButtonEvent(ev *VirtualButtonEvent) bool
}

// Focusable elements take keyboard focus when pressed.
type Focusable interface {
	AcceptsKeyFocus() bool
}

// Layouter elements are given their area when their layout updates.
type Layouter interface {
	Layout(area core.Rect)
}

// Destroyer elements are notified once, when the manager releases them.
type Destroyer interface {
	Destroy()
}

// ElementBase is the state every element shares. The widget and layout
// references are non-owning and read nil once the element is destroyed.
type ElementBase struct {
	widget    *Widget
	layout    *Layout
	bounds    core.Rect
	depth     int
	dirty     bool
	faulted   bool
	queued    bool
	destroyed bool
}

func (b *ElementBase) Node() *ElementBase    { return b }
func (b *ElementBase) Widget() *Widget       { return b.widget }
func (b *ElementBase) ParentLayout() *Layout { return b.layout }
func (b *ElementBase) Bounds() core.Rect     { return b.bounds }
func (b *ElementBase) Depth() int            { return b.depth }
func (b *ElementBase) IsDirty() bool         { return b.dirty }
func (b *ElementBase) Destroyed() bool       { return b.destroyed }

// Faulted reports whether the last rebuild rejected this element's geometry.
func (b *ElementBase) Faulted() bool { return b.faulted }

// Manager returns the manager of the element's widget, or nil.
func (b *ElementBase) Manager() *Manager {
	if b.widget == nil {
		return nil
	}
	return b.widget.mgr
}

func (b *ElementBase) SetBounds(r core.Rect) {
	if b.bounds == r {
		return
	}
	b.bounds = r
	b.MarkDirty()
}

// SetDepth changes the painter order; smaller is nearer.
func (b *ElementBase) SetDepth(d int) {
	if b.depth == d {
		return
	}
	b.depth = d
	b.MarkDirty()
}

// MarkDirty flags the element for a mesh rebuild. It also clears a previous
// fault, giving corrected geometry another chance.
func (b *ElementBase) MarkDirty() {
	b.dirty = true
	b.faulted = false
	if b.widget != nil {
		b.widget.markDirty()
	}
}

func (b *ElementBase) MarkClean() { b.dirty = false }

func (b *ElementBase) MouseEvent(*MouseEvent) bool                 { return false }
func (b *ElementBase) TextInputEvent(*TextInputEvent) bool         { return false }
func (b *ElementBase) CommandEvent(*CommandEvent) bool             { return false }
func (b *ElementBase) VirtualButtonEvent(*VirtualButtonEvent) bool { return false }

// ElementRef pairs an element with its widget in routing tables.
type ElementRef struct {
	Widget  *Widget
	Element Element
}

func refOf(e Element) ElementRef { return ElementRef{Widget: e.Node().widget, Element: e} }

// PutQuad writes the i-th quad of a render group at slot startQuad+i:
// corners top-left, top-right, bottom-left, bottom-right, then two
// triangles with quad-local indices.
func PutQuad(verts, uvs []float32, indices []uint32, startQuad, i, vertexStride, indexStride int, pos, uv core.Rect) {
	corners := [4][4]float32{
		{pos.X, pos.Y, uv.X, uv.Y},
		{pos.X + pos.W, pos.Y, uv.X + uv.W, uv.Y},
		{pos.X, pos.Y + pos.H, uv.X, uv.Y + uv.H},
		{pos.X + pos.W, pos.Y + pos.H, uv.X + uv.W, uv.Y + uv.H},
	}
	v0 := (startQuad + i) * 4
	for k, c := range corners {
		o := (v0 + k) * vertexStride
		verts[o], verts[o+1] = c[0], c[1]
		uvs[o], uvs[o+1] = c[2], c[3]
	}
	base := uint32(i * 4)
	i0 := (startQuad + i) * 6
	for k, idx := range [6]uint32{0, 2, 1, 1, 2, 3} {
		indices[(i0+k)*indexStride] = base + idx
	}
}

// FullUV maps a whole texture.
var FullUV = core.Rect{W: 1, H: 1}
