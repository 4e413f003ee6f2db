package gui

import (
	"github.com/hubastard/grove/engine/core"
)

// DragState is the pointer button state machine.
type DragState int

const (
	DragNone DragState = iota
	DragHeldWithoutDrag
	Dragging
)

func (s DragState) String() string {
	switch s {
	case DragNone:
		return "none"
	case DragHeldWithoutDrag:
		return "held"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// Bridges can chain render textures; this bounds the walk so a cycle of
// bridges resolves to "no window" instead of recursing forever.
const maxBridgeDepth = 8

// widgetWindow resolves the window a widget is ultimately shown in,
// following input bridges out of render textures.
func (m *Manager) widgetWindow(w *Widget) core.RenderWindow {
	target := w.viewport.Target
	for i := 0; i <= maxBridgeDepth && target != nil; i++ {
		if target.IsWindow() {
			win, _ := target.(core.RenderWindow)
			return win
		}
		rt, ok := target.(*core.RenderTexture)
		if !ok {
			return nil
		}
		b := m.bridges[rt]
		if b == nil || b.Node().widget == nil {
			return nil
		}
		target = b.Node().widget.viewport.Target
	}
	return nil
}

// widgetLocalPos converts a screen position into the coordinate space of w.
// It fails when the position falls outside the bridge element of a render
// texture widget, or when the widget is not reachable from a window.
func (m *Manager) widgetLocalPos(w *Widget, screen core.Vec2) (core.Vec2, bool) {
	return m.widgetPos(w, screen, 0)
}

func (m *Manager) widgetPos(w *Widget, screen core.Vec2, depth int) (core.Vec2, bool) {
	p, ok := m.targetPos(w.viewport.Target, screen, depth)
	if !ok {
		return core.Vec2{}, false
	}
	p = p.Sub(w.viewport.Area.Pos())
	return w.transform.Inverse().Apply(p), true
}

func (m *Manager) targetPos(target core.RenderTarget, screen core.Vec2, depth int) (core.Vec2, bool) {
	if target == nil || depth > maxBridgeDepth {
		return core.Vec2{}, false
	}
	if target.IsWindow() {
		win, ok := target.(core.RenderWindow)
		if !ok {
			return core.Vec2{}, false
		}
		return win.ScreenToWindow(screen), true
	}
	rt, ok := target.(*core.RenderTexture)
	if !ok {
		return core.Vec2{}, false
	}
	bridge := m.bridges[rt]
	if bridge == nil {
		return core.Vec2{}, false
	}
	node := bridge.Node()
	if node.widget == nil {
		return core.Vec2{}, false
	}
	p, ok := m.widgetPos(node.widget, screen, depth+1)
	if !ok || !node.bounds.Contains(p) {
		return core.Vec2{}, false
	}
	tw, th := rt.Size()
	p = p.Sub(node.bounds.Pos())
	return core.Vec2{
		X: p.X * float32(tw) / node.bounds.W,
		Y: p.Y * float32(th) / node.bounds.H,
	}, true
}

// findElementsUnderPointer hit tests every widget shown in the focused
// window and stores the nearest hits as the pending hover set. All hits
// sharing the nearest depth are kept.
func (m *Manager) findElementsUnderPointer(screen core.Vec2) []ElementRef {
	if m.focusedWindow == nil {
		m.newHover = nil
		return nil
	}

	var hits []ElementRef
	nearest := 0
	for _, w := range m.widgets {
		if m.widgetWindow(w) != m.focusedWindow {
			continue
		}
		local, ok := m.widgetLocalPos(w, screen)
		if !ok {
			continue
		}
		for _, e := range w.elements {
			b := e.Node()
			if b.destroyed || !b.bounds.Contains(local) {
				continue
			}
			switch {
			case len(hits) == 0 || b.depth < nearest:
				hits = append(hits[:0], ElementRef{Widget: w, Element: e})
				nearest = b.depth
			case b.depth == nearest:
				hits = append(hits, ElementRef{Widget: w, Element: e})
			}
		}
	}

	m.newHover = hits
	return cloneRefs(hits)
}

// sendMouse delivers ev to every ref, in order, each with the pointer
// expressed in its own widget space. It reports whether any recipient
// consumed the event.
func (m *Manager) sendMouse(refs []ElementRef, ev MouseEvent, screen core.Vec2) bool {
	consumed := false
	for _, r := range refs {
		e := r.Element
		if e.Node().destroyed {
			continue
		}
		local, _ := m.widgetLocalPos(r.Widget, screen)
		evCopy := ev
		evCopy.Position = local
		m.safeCall(e, ev.Type.String(), func() {
			if e.MouseEvent(&evCopy) {
				consumed = true
			}
		})
	}
	return consumed
}

func mouseEvent(t MouseEventType, p core.PointerEvent) MouseEvent {
	return MouseEvent{Type: t, Button: p.Button, Buttons: p.Buttons, Mods: p.Mods}
}

func (m *Manager) dragEvent(t MouseEventType, p core.PointerEvent) MouseEvent {
	ev := mouseEvent(t, p)
	ev.Button = m.activeButton
	ev.DragStart = m.pressPos
	ev.DragAmount = p.Screen.Sub(m.pressPos)
	return ev
}

// ---- input subsystem callbacks ----

func (m *Manager) onPointerMoved(p core.PointerEvent) {
	if p.Screen != m.lastPointer.Screen {
		m.pointerMoved = true
	}
	m.lastPointer = p
	m.findElementsUnderPointer(p.Screen)

	if m.drag == DragHeldWithoutDrag {
		d := m.opts.DragDistance
		if p.Screen.DistSq(m.pressPos) > d*d {
			m.drag = Dragging
			m.sendMouse(cloneRefs(m.newActive), m.dragEvent(MouseDragStart, p), p.Screen)
		}
	}
	if m.drag == Dragging {
		m.sendMouse(cloneRefs(m.newActive), m.dragEvent(MouseDrag, p), p.Screen)
	}
}

func (m *Manager) onPointerPressed(p core.PointerEvent) {
	m.lastPointer = p
	hits := m.findElementsUnderPointer(p.Screen)

	// Only the first held button drives the active set and drag state.
	if m.drag != DragNone {
		m.sendMouse(hits, mouseEvent(MousePress, p), p.Screen)
		return
	}

	m.newActive = cloneRefs(hits)
	m.activeButton = p.Button
	m.pressPos = p.Screen
	m.drag = DragHeldWithoutDrag

	// Pressing moves keyboard focus to whatever accepts it under the
	// pointer, and away from everything else.
	var focus []ElementRef
	for _, r := range hits {
		if f, ok := r.Element.(Focusable); ok && f.AcceptsKeyFocus() {
			focus = append(focus, r)
		}
	}
	m.newFocus = focus

	m.sendMouse(hits, mouseEvent(MousePress, p), p.Screen)
}

func (m *Manager) onPointerReleased(p core.PointerEvent) {
	m.lastPointer = p
	hits := m.findElementsUnderPointer(p.Screen)

	if m.drag == DragNone || p.Button != m.activeButton {
		m.sendMouse(hits, mouseEvent(MouseRelease, p), p.Screen)
		return
	}

	active := cloneRefs(m.newActive)
	dragging := m.drag == Dragging
	m.newActive = nil
	m.drag = DragNone

	m.sendMouse(active, mouseEvent(MouseRelease, p), p.Screen)
	if dragging {
		m.sendMouse(active, m.dragEvent(MouseDragEnd, p), p.Screen)
		return
	}
	m.sendMouse(intersectRefs(active, hits), mouseEvent(MouseClick, p), p.Screen)
}

func (m *Manager) onPointerDoubleClicked(p core.PointerEvent) {
	m.lastPointer = p
	hits := m.findElementsUnderPointer(p.Screen)
	m.sendMouse(hits, mouseEvent(MouseDoubleClick, p), p.Screen)
}

func (m *Manager) onDragEnded(d core.PointerDrag) {
	m.lastPointer = d.Pointer
	hits := m.findElementsUnderPointer(d.Pointer.Screen)
	ev := mouseEvent(MouseDragAndDropDropped, d.Pointer)
	ev.DragInfo = d.Info
	if m.sendMouse(hits, ev, d.Pointer.Screen) && d.Info != nil {
		d.Info.Processed = true
	}
}

// Keyboard input goes to the focus set as it was at the start of the event,
// stopping at the first element that consumes it.

func (m *Manager) onTextInput(t core.TextInputEvent) {
	ev := TextInputEvent{Char: t.Char, Mods: t.Mods}
	m.broadcast("text input", func(e Element) bool {
		evCopy := ev
		return e.TextInputEvent(&evCopy)
	})
}

func (m *Manager) onInputCommand(c core.CommandType) {
	ev := CommandEvent{Type: CommandInput, Input: c}
	m.broadcast(c.String(), func(e Element) bool {
		evCopy := ev
		return e.CommandEvent(&evCopy)
	})
}

func (m *Manager) onVirtualButtonDown(v core.VirtualButtonPress) {
	ev := VirtualButtonEvent{Button: v.Button, Device: v.Device}
	m.broadcast("virtual button", func(e Element) bool {
		evCopy := ev
		return e.VirtualButtonEvent(&evCopy)
	})
}

func (m *Manager) broadcast(what string, send func(Element) bool) {
	for _, r := range cloneRefs(m.focus) {
		e := r.Element
		if e.Node().destroyed {
			continue
		}
		consumed := false
		m.safeCall(e, what, func() { consumed = send(e) })
		if consumed {
			return
		}
	}
}

func (m *Manager) onWindowFocusGained(w core.RenderWindow) {
	m.focusedWindow = w
}

// onWindowFocusLost drops hover and focus and ends any press in progress.
// A held button is released without a click: the release the window will
// never deliver is synthesized here.
func (m *Manager) onWindowFocusLost(w core.RenderWindow) {
	if m.focusedWindow != w {
		return
	}
	m.focusedWindow = nil
	m.newHover = nil
	m.newFocus = nil

	if m.drag != DragNone {
		active := cloneRefs(m.newActive)
		m.newActive = nil
		m.drag = DragNone
		p := m.lastPointer
		p.Button = m.activeButton
		p.Buttons = [core.PointerButtonCount]bool{}
		m.sendMouse(active, mouseEvent(MouseRelease, p), p.Screen)
	}
}

func (m *Manager) onMouseLeftWindow(w core.RenderWindow) {
	out := m.newHover[:0]
	for _, r := range m.newHover {
		if m.widgetWindow(r.Widget) != w {
			out = append(out, r)
		}
	}
	m.newHover = out
}
