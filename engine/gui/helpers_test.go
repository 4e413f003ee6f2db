package gui

import (
	"fmt"
	"testing"
	"time"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/config"
	"github.com/hubastard/grove/engine/core"
)

type fakeWindow struct {
	id     uint64
	w, h   int
	offset core.Vec2 // window origin on screen
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{id: core.NewTargetID(), w: 800, h: 600}
}

func (f *fakeWindow) TargetID() uint64                    { return f.id }
func (f *fakeWindow) Size() (int, int)                    { return f.w, f.h }
func (f *fakeWindow) IsWindow() bool                      { return true }
func (f *fakeWindow) ScreenToWindow(p core.Vec2) core.Vec2 { return p.Sub(f.offset) }

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// testElement draws solid quads covering its bounds and records the
// events it receives as "name:event".
type testElement struct {
	ElementBase
	name      string
	log       *[]string
	mat       Material
	quads     int
	overflow  bool
	focusable bool
	consume   bool

	cleaned      int
	destroyCalls int

	onMouse   func(*MouseEvent)
	onCommand func(*CommandEvent)
	onLayout  func(core.Rect)
}

func (e *testElement) record(what string) {
	if e.log != nil {
		*e.log = append(*e.log, e.name+":"+what)
	}
}

func (e *testElement) RenderGroupCount() int     { return 1 }
func (e *testElement) Material(int) Material     { return e.mat }
func (e *testElement) QuadCount(int) int         { return e.quads }
func (e *testElement) AcceptsKeyFocus() bool     { return e.focusable }
func (e *testElement) Destroy()                  { e.destroyCalls++ }
func (e *testElement) Layout(area core.Rect) {
	if e.onLayout != nil {
		e.onLayout(area)
	}
}

func (e *testElement) FillBuffer(group int, verts, uvs []float32, indices []uint32, startQuad, maxQuads, vertexStride, indexStride int) int {
	n := e.quads
	if e.overflow {
		n++
	}
	for i := 0; i < n; i++ {
		PutQuad(verts, uvs, indices, startQuad, i, vertexStride, indexStride, e.Bounds(), FullUV)
	}
	return n
}

func (e *testElement) MarkClean() {
	e.cleaned++
	e.ElementBase.MarkClean()
}

func (e *testElement) MouseEvent(ev *MouseEvent) bool {
	e.record(ev.Type.String())
	if e.onMouse != nil {
		e.onMouse(ev)
	}
	return e.consume
}

func (e *testElement) TextInputEvent(ev *TextInputEvent) bool {
	e.record(fmt.Sprintf("text %q", ev.Char))
	return e.consume
}

func (e *testElement) CommandEvent(ev *CommandEvent) bool {
	if ev.Type == CommandInput {
		e.record(ev.Input.String())
	} else {
		e.record(ev.Type.String())
	}
	if e.onCommand != nil {
		e.onCommand(ev)
	}
	return e.consume
}

func (e *testElement) VirtualButtonEvent(ev *VirtualButtonEvent) bool {
	e.record(fmt.Sprintf("vbutton %s/%d", ev.Button.Name, ev.Device))
	return e.consume
}

// env is a manager started on a focused fake window with a fake clock.
type env struct {
	t      *testing.T
	m      *Manager
	in     *core.Input
	win    *fakeWindow
	vp     *core.Viewport
	clock  *fakeClock
	log    []string
	errs   []error
	solid  Material
	accent Material
}

func newEnv(t *testing.T, opts config.GUI) *env {
	t.Helper()
	e := &env{t: t, in: core.NewInput(), win: newFakeWindow()}
	e.clock = &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	e.m = New(opts, nil,
		WithClock(e.clock.Now),
		WithErrorHandler(func(err error) { e.errs = append(e.errs, err) }))
	e.m.StartUp(e.in)
	e.in.WindowFocusGained.Emit(e.win)
	e.vp = core.NewViewport(e.win)
	e.solid = e.m.Materials().Solid(colors.Red)
	e.accent = e.m.Materials().Solid(colors.Blue)
	t.Cleanup(e.m.ShutDown)
	return e
}

func (e *env) element(w *Widget, name string, bounds core.Rect, depth int) *testElement {
	e.t.Helper()
	el := &testElement{name: name, log: &e.log, mat: e.solid, quads: 1}
	el.SetBounds(bounds)
	el.SetDepth(depth)
	if err := w.Add(el); err != nil {
		e.t.Fatalf("Add(%s): %v", name, err)
	}
	return el
}

func (e *env) pointer(x, y float32) core.PointerEvent {
	return core.PointerEvent{Screen: core.V2(x, y), Button: core.PointerLeft}
}

func (e *env) move(x, y float32) { e.in.Handle(core.EventPointerMove{Pointer: e.pointer(x, y)}) }

func (e *env) press(x, y float32) {
	p := e.pointer(x, y)
	p.Buttons[core.PointerLeft] = true
	e.in.Handle(core.EventPointerPress{Pointer: p})
}

func (e *env) release(x, y float32) { e.in.Handle(core.EventPointerRelease{Pointer: e.pointer(x, y)}) }

// takeLog returns and clears the recorded events.
func (e *env) takeLog() []string {
	l := e.log
	e.log = nil
	return l
}

func names(refs []ElementRef) []string {
	var out []string
	for _, r := range refs {
		out = append(out, r.Element.(*testElement).name)
	}
	return out
}
