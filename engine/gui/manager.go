// Package gui is the retained GUI runtime: it owns widgets and their
// elements, batches element geometry into per-viewport meshes and routes
// pointer, keyboard and virtual button input to elements.
//
// All Manager methods must be called from the main thread. State changes
// requested while events are being dispatched (focus, destruction) are
// buffered and applied by the next Update.
package gui

import (
	"fmt"
	"time"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/config"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gfx/meshheap"
	"github.com/hubastard/grove/engine/logger"
	"github.com/hubastard/grove/engine/profiler"
)

type Option func(*Manager)

// WithClock replaces the wall clock driving the caret blink.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithErrorHandler receives every error the manager reports, after it has
// been logged.
func WithErrorHandler(fn func(error)) Option {
	return func(m *Manager) { m.onError = fn }
}

// WithMeshHeap shares a mesh heap instead of creating one from the options.
func WithMeshHeap(h *meshheap.Heap) Option {
	return func(m *Manager) { m.heap = h }
}

type focusRequest struct {
	ref   ElementRef
	focus bool
}

type Manager struct {
	opts      config.GUI
	textures  core.TextureFactory
	clock     func() time.Time
	onError   func(error)
	heap      *meshheap.Heap
	materials *Materials

	widgets   []*Widget
	nextOrder uint64
	cache     map[*core.Viewport]*RenderCacheEntry
	retired   []*meshheap.TransientMesh

	destroyQueue []Element

	// Committed routing sets and their pending next-frame mirrors.
	hover, newHover   []ElementRef
	active, newActive []ElementRef
	focus, newFocus   []ElementRef
	focusRequests     []focusRequest
	activeButton      core.PointerButton

	bridges       map[*core.RenderTexture]Element
	focusedWindow core.RenderWindow

	lastPointer  core.PointerEvent
	pointerMoved bool
	drag         DragState
	pressPos     core.Vec2

	caretTex       core.Texture
	selectionTex   core.Texture
	caretColor     colors.Color
	selectionColor colors.Color
	isCaretOn      bool
	lastBlink      time.Time
	inputCaret     *InputCaret
	inputSelection *InputSelection

	conns    []*core.Conn
	updating bool
	started  bool
}

// New creates a manager. textures creates the caret and selection sprites;
// nil keeps them in memory.
func New(opts config.GUI, textures core.TextureFactory, options ...Option) *Manager {
	m := &Manager{
		opts:           opts,
		textures:       textures,
		clock:          time.Now,
		materials:      NewMaterials(),
		cache:          make(map[*core.Viewport]*RenderCacheEntry),
		bridges:        make(map[*core.RenderTexture]Element),
		inputCaret:     newInputCaret(),
		inputSelection: newInputSelection(),
	}
	if m.textures == nil {
		m.textures = core.ImageTextures
	}
	for _, o := range options {
		o(m)
	}
	if m.heap == nil {
		m.heap = meshheap.New(opts.MeshHeapVertices, opts.MeshHeapIndices)
	}
	m.lastBlink = m.clock()

	m.SetCaretColor(opts.CaretColor)
	m.SetTextSelectionColor(opts.TextSelectionColor)
	return m
}

// StartUp subscribes the manager to the input sources of in.
func (m *Manager) StartUp(in *core.Input) {
	if m.started {
		return
	}
	m.started = true
	m.lastBlink = m.clock()
	m.conns = append(m.conns,
		in.PointerMoved.Connect(m.onPointerMoved),
		in.PointerPressed.Connect(m.onPointerPressed),
		in.PointerReleased.Connect(m.onPointerReleased),
		in.PointerDoubleClicked.Connect(m.onPointerDoubleClicked),
		in.TextInput.Connect(m.onTextInput),
		in.InputCommand.Connect(m.onInputCommand),
		in.VirtualButtonDown.Connect(m.onVirtualButtonDown),
		in.DragEnded.Connect(m.onDragEnded),
		in.WindowFocusGained.Connect(m.onWindowFocusGained),
		in.WindowFocusLost.Connect(m.onWindowFocusLost),
		in.MouseLeftWindow.Connect(m.onMouseLeftWindow),
	)
	logger.Logf("gui", "manager started (%d input sources)", len(m.conns))
}

// ShutDown unregisters every widget, releases their elements and meshes and
// disconnects from the input sources.
func (m *Manager) ShutDown() {
	for _, w := range append([]*Widget(nil), m.widgets...) {
		m.Unregister(w)
	}
	m.destroyQueued()

	for _, c := range m.conns {
		c.Disconnect()
	}
	m.conns = nil

	for vp, e := range m.cache {
		m.retired = append(m.retired, e.Meshes...)
		delete(m.cache, vp)
	}
	m.freeRetired()
	m.started = false
	logger.Log("gui", "manager shut down")
}

func (m *Manager) Options() config.GUI      { return m.opts }
func (m *Manager) Materials() *Materials    { return m.materials }
func (m *Manager) MeshHeap() *meshheap.Heap { return m.heap }
func (m *Manager) Widgets() []*Widget       { return m.widgets }

// HoverSet, ActiveSet and FocusSet return copies of the committed routing
// sets.
func (m *Manager) HoverSet() []ElementRef  { return cloneRefs(m.hover) }
func (m *Manager) ActiveSet() []ElementRef { return cloneRefs(m.active) }
func (m *Manager) FocusSet() []ElementRef  { return cloneRefs(m.focus) }

func (m *Manager) DragState() DragState { return m.drag }

// Cache returns the render cache entry of vp, or nil if no widget draws
// into it.
func (m *Manager) Cache(vp *core.Viewport) *RenderCacheEntry { return m.cache[vp] }

func (m *Manager) blinkInterval() time.Duration {
	return time.Duration(m.opts.CaretBlinkInterval * float64(time.Second))
}

// Register adds w to the manager. Registering twice is a no-op.
func (m *Manager) Register(w *Widget) {
	if w.registered {
		return
	}
	w.mgr = m
	w.registered = true
	w.order = m.nextOrder
	m.nextOrder++
	m.widgets = append(m.widgets, w)

	entry := m.cache[w.viewport]
	if entry == nil {
		entry = &RenderCacheEntry{}
		m.cache[w.viewport] = entry
	}
	entry.Widgets = append(entry.Widgets, w)
	entry.Dirty = true
	w.layoutDirty = true
}

// Unregister removes w. Every routing reference to it is dropped at once;
// its elements are queued for destruction.
func (m *Manager) Unregister(w *Widget) {
	if !w.registered {
		return
	}
	for i, x := range m.widgets {
		if x == w {
			m.widgets = append(m.widgets[:i], m.widgets[i+1:]...)
			break
		}
	}

	if entry := m.cache[w.viewport]; entry != nil {
		for i, x := range entry.Widgets {
			if x == w {
				entry.Widgets = append(entry.Widgets[:i], entry.Widgets[i+1:]...)
				break
			}
		}
		if len(entry.Widgets) == 0 {
			m.retired = append(m.retired, entry.Meshes...)
			delete(m.cache, w.viewport)
		} else {
			entry.Dirty = true
		}
	}
	w.registered = false

	m.hover = removeWidgetRefs(m.hover, w)
	m.newHover = removeWidgetRefs(m.newHover, w)
	m.active = removeWidgetRefs(m.active, w)
	m.newActive = removeWidgetRefs(m.newActive, w)
	m.focus = removeWidgetRefs(m.focus, w)
	m.newFocus = removeWidgetRefs(m.newFocus, w)
	reqs := m.focusRequests[:0]
	for _, r := range m.focusRequests {
		if r.ref.Widget != w {
			reqs = append(reqs, r)
		}
	}
	m.focusRequests = reqs
	if len(m.newActive) == 0 {
		m.drag = DragNone
	}

	for tex, e := range m.bridges {
		if e.Node().widget == w {
			delete(m.bridges, tex)
		}
	}
	for _, e := range w.elements {
		m.QueueForDestroy(e)
	}
}

// QueueForDestroy schedules e for release by the next Update. Until then e
// stays attached and keeps receiving events. Queuing twice is a no-op.
func (m *Manager) QueueForDestroy(e Element) {
	b := e.Node()
	if b.queued || b.destroyed {
		return
	}
	b.queued = true
	m.destroyQueue = append(m.destroyQueue, e)
}

// SetFocus requests a focus change for e, applied by the next Update.
func (m *Manager) SetFocus(e Element, focus bool) {
	b := e.Node()
	if b.widget == nil || b.destroyed {
		return
	}
	m.focusRequests = append(m.focusRequests, focusRequest{ref: refOf(e), focus: focus})
}

// SetInputBridge routes pointer input for widgets drawing into tex through
// the bounds of e. A nil e removes the bridge.
func (m *Manager) SetInputBridge(tex *core.RenderTexture, e Element) {
	if e == nil || e.Node().destroyed {
		delete(m.bridges, tex)
		return
	}
	m.bridges[tex] = e
}

// InputBridge returns the element bridged to tex, if any.
func (m *Manager) InputBridge(tex *core.RenderTexture) Element { return m.bridges[tex] }

// Update advances the GUI by one frame.
func (m *Manager) Update() {
	if m.updating {
		logger.Log("gui", "nested Update ignored")
		return
	}
	m.updating = true
	defer func() { m.updating = false }()
	defer profiler.Start("gui.Update")()

	m.destroyQueued()
	m.applyFocusRequests()
	m.commit()
	m.advanceCaretBlink()

	// layout hooks may unregister widgets
	for _, w := range append([]*Widget(nil), m.widgets...) {
		if w.layoutDirty && w.registered {
			w.layoutDirty = false
			w.root.apply(m)
		}
	}

	m.freeRetired()
	for _, w := range m.widgets {
		// widgets share entries; each dirty entry is rebuilt once
		if entry := m.cache[w.viewport]; entry != nil && entry.Dirty {
			m.rebuild(entry)
		}
	}
}

// Render appends the meshes of vp to dl in draw order. Unknown viewports
// are ignored; a dirty entry is rebuilt first.
func (m *Manager) Render(vp *core.Viewport, dl *DrawList) {
	entry := m.cache[vp]
	if entry == nil {
		return
	}
	defer profiler.Start("gui.Render")()
	if entry.Dirty {
		m.rebuild(entry)
	}
	for i, mesh := range entry.Meshes {
		t := core.Identity
		if w := entry.MeshWidgets[i]; w != nil {
			t = w.transform
		}
		dl.Add(DrawItem{Mesh: mesh, Material: entry.Materials[i], Transform: t})
	}
}

// destroyQueued releases queued elements. Destroy hooks may queue more
// elements; those are released in the same pass.
func (m *Manager) destroyQueued() {
	for len(m.destroyQueue) > 0 {
		queue := m.destroyQueue
		m.destroyQueue = nil
		for _, e := range queue {
			m.release(e)
		}
	}
}

func (m *Manager) release(e Element) {
	m.hover = removeElementRefs(m.hover, e)
	m.newHover = removeElementRefs(m.newHover, e)
	m.active = removeElementRefs(m.active, e)
	m.newActive = removeElementRefs(m.newActive, e)
	m.focus = removeElementRefs(m.focus, e)
	m.newFocus = removeElementRefs(m.newFocus, e)
	reqs := m.focusRequests[:0]
	for _, r := range m.focusRequests {
		if r.ref.Element != e {
			reqs = append(reqs, r)
		}
	}
	m.focusRequests = reqs
	for tex, b := range m.bridges {
		if b == e {
			delete(m.bridges, tex)
		}
	}

	b := e.Node()
	if b.widget != nil {
		b.widget.removeElement(e)
	}
	if b.layout != nil {
		b.layout.removeElement(e)
	}
	if d, ok := e.(Destroyer); ok {
		m.safeCall(e, "destroy", d.Destroy)
	}
	b.widget = nil
	b.layout = nil
	b.queued = false
	b.destroyed = true
}

func (m *Manager) applyFocusRequests() {
	for _, r := range m.focusRequests {
		has := containsRef(m.newFocus, r.ref.Element)
		switch {
		case r.focus && !has:
			m.newFocus = append(m.newFocus, r.ref)
		case !r.focus && has:
			m.newFocus = removeElementRefs(m.newFocus, r.ref.Element)
		}
	}
	m.focusRequests = m.focusRequests[:0]
}

// commit swaps the pending mirrors in and notifies elements of what changed.
// Sets are assigned before any callback runs, so callbacks observe the new
// frame's state and their own requests land in the next frame.
func (m *Manager) commit() {
	oldHover, oldFocus := m.hover, m.focus
	m.hover = cloneRefs(m.newHover)
	m.active = cloneRefs(m.newActive)
	m.focus = cloneRefs(m.newFocus)

	left := subtractRefs(oldHover, m.hover)
	entered := subtractRefs(m.hover, oldHover)
	var moved []ElementRef
	if m.pointerMoved {
		moved = intersectRefs(m.hover, oldHover)
	}
	m.pointerMoved = false

	p := m.lastPointer
	m.sendMouse(left, mouseEvent(MouseOut, p), p.Screen)
	m.sendMouse(entered, mouseEvent(MouseIn, p), p.Screen)
	m.sendMouse(moved, mouseEvent(MouseMove, p), p.Screen)

	m.sendFocus(subtractRefs(oldFocus, m.focus), CommandFocusLost)
	m.sendFocus(subtractRefs(m.focus, oldFocus), CommandFocusGained)
}

func (m *Manager) sendFocus(refs []ElementRef, t CommandEventType) {
	for _, r := range refs {
		e := r.Element
		if e.Node().destroyed {
			continue
		}
		ev := CommandEvent{Type: t}
		m.safeCall(e, t.String(), func() { e.CommandEvent(&ev) })
		e.Node().MarkDirty()
	}
}

// String summarizes the manager state for debug overlays.
func (m *Manager) String() string {
	return fmt.Sprintf("gui: %d widgets, %d viewports, hover %d, active %d, focus %d, drag %v",
		len(m.widgets), len(m.cache), len(m.hover), len(m.active), len(m.focus), m.drag)
}
