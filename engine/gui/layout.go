package gui

import "github.com/hubastard/grove/engine/core"

// Layout groups elements of a widget under a shared area. The manager does
// not position anything itself: when a layout is invalidated, every element
// implementing Layouter is handed the area of its layout on the next update.
type Layout struct {
	widget   *Widget
	parent   *Layout
	area     core.Rect
	elements []Element
	children []*Layout
}

// Add attaches e to this layout and to the layout's widget.
func (l *Layout) Add(e Element) error {
	b := e.Node()
	if b.destroyed || b.queued {
		return ErrElementDestroyed
	}
	if b.widget != nil {
		return ErrElementAttached
	}
	b.widget = l.widget
	b.layout = l
	l.elements = append(l.elements, e)
	l.widget.elements = append(l.widget.elements, e)
	b.MarkDirty()
	l.invalidate()
	return nil
}

// AddLayout creates a nested layout covering area.
func (l *Layout) AddLayout(area core.Rect) *Layout {
	c := &Layout{widget: l.widget, parent: l, area: area}
	l.children = append(l.children, c)
	l.invalidate()
	return c
}

func (l *Layout) Widget() *Widget     { return l.widget }
func (l *Layout) Parent() *Layout     { return l.parent }
func (l *Layout) Area() core.Rect     { return l.area }
func (l *Layout) Elements() []Element { return l.elements }
func (l *Layout) Layouts() []*Layout  { return l.children }

func (l *Layout) SetArea(r core.Rect) {
	if l.area == r {
		return
	}
	l.area = r
	l.invalidate()
}

func (l *Layout) invalidate() {
	if l.widget != nil {
		l.widget.layoutDirty = true
	}
}

func (l *Layout) removeElement(e Element) {
	for i, el := range l.elements {
		if el == e {
			l.elements = append(l.elements[:i], l.elements[i+1:]...)
			l.invalidate()
			return
		}
	}
}

// apply runs the layout hooks of this layout and its children, depth first.
func (l *Layout) apply(m *Manager) {
	for _, e := range l.elements {
		lo, ok := e.(Layouter)
		if !ok || e.Node().destroyed {
			continue
		}
		area := l.area
		m.safeCall(e, "layout", func() { lo.Layout(area) })
	}
	for _, c := range l.children {
		c.apply(m)
	}
}
