package gui

import "github.com/hubastard/grove/engine/core"

// Widget binds a set of elements to one viewport and a root transform.
// It is a passive container: the manager queries it for hit testing and
// geometry, and owns all event dispatch.
type Widget struct {
	mgr       *Manager
	viewport  *core.Viewport
	transform core.Transform // widget space to target space
	elements  []Element
	root      *Layout
	order     uint64

	registered  bool
	layoutDirty bool
}

// NewWidget creates a widget drawing into viewport and registers it with m.
func NewWidget(m *Manager, viewport *core.Viewport) *Widget {
	w := &Widget{
		mgr:       m,
		viewport:  viewport,
		transform: core.Identity,
	}
	w.root = &Layout{widget: w}
	m.Register(w)
	return w
}

// Add attaches e to the widget's root layout.
func (w *Widget) Add(e Element) error { return w.root.Add(e) }

// Elements returns the attached elements in insertion order. The slice must
// not be modified.
func (w *Widget) Elements() []Element { return w.elements }

func (w *Widget) Root() *Layout             { return w.root }
func (w *Widget) Viewport() *core.Viewport  { return w.viewport }
func (w *Widget) Target() core.RenderTarget { return w.viewport.Target }
func (w *Widget) Transform() core.Transform { return w.transform }
func (w *Widget) Manager() *Manager         { return w.mgr }
func (w *Widget) Registered() bool          { return w.registered }

func (w *Widget) SetTransform(t core.Transform) {
	if w.transform == t {
		return
	}
	w.transform = t
	w.markDirty()
}

// Destroy unregisters the widget. Its elements are released by the next
// manager update.
func (w *Widget) Destroy() {
	if w.mgr != nil {
		w.mgr.Unregister(w)
	}
}

func (w *Widget) markDirty() {
	if w.mgr != nil && w.registered {
		w.mgr.markViewportDirty(w.viewport)
	}
}

func (w *Widget) removeElement(e Element) {
	for i, el := range w.elements {
		if el == e {
			w.elements = append(w.elements[:i], w.elements[i+1:]...)
			w.markDirty()
			return
		}
	}
}
