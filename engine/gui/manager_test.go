package gui

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/config"
	"github.com/hubastard/grove/engine/core"
)

func TestFocusRequestsAreDeferred(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	w := NewWidget(e.m, e.vp)
	a := e.element(w, "a", core.R(0, 0, 50, 50), 0)
	b := e.element(w, "b", core.R(100, 0, 50, 50), 0)
	e.m.Update()

	var during []string
	a.onMouse = func(ev *MouseEvent) {
		if ev.Type == MousePress {
			e.m.SetFocus(b, true)
			during = names(e.m.FocusSet())
		}
	}
	e.press(10, 10)
	if len(during) != 0 {
		t.Errorf("focus set during the event = %v, want it unchanged", during)
	}
	if len(e.m.FocusSet()) != 0 {
		t.Error("focus set changed before Update")
	}

	e.m.Update()
	if diff := cmp.Diff([]string{"b"}, names(e.m.FocusSet())); diff != "" {
		t.Errorf("focus set (-want +got):\n%s", diff)
	}
	if !containsString(e.takeLog(), "b:focus-gained") {
		t.Error("b did not receive focus-gained")
	}

	e.m.SetFocus(b, false)
	e.m.Update()
	if diff := cmp.Diff([]string{"b:focus-lost"}, e.takeLog()); diff != "" {
		t.Errorf("unfocus (-want +got):\n%s", diff)
	}
}

func TestClickToFocus(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	w := NewWidget(e.m, e.vp)
	a := e.element(w, "a", core.R(0, 0, 50, 50), 0)
	a.focusable = true
	e.element(w, "b", core.R(100, 0, 50, 50), 0)

	e.press(10, 10)
	e.release(10, 10)
	e.m.Update()
	if diff := cmp.Diff([]string{"a"}, names(e.m.FocusSet())); diff != "" {
		t.Fatalf("after clicking a (-want +got):\n%s", diff)
	}

	e.press(110, 10)
	e.release(110, 10)
	e.m.Update()
	if len(e.m.FocusSet()) != 0 {
		t.Errorf("clicking a non-focusable element kept focus on %v", names(e.m.FocusSet()))
	}
}

func TestDestroyDuringDispatch(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	w := NewWidget(e.m, e.vp)
	x := e.element(w, "x", core.R(0, 0, 50, 50), 0)
	x.focusable = true
	e.move(10, 10)
	e.press(10, 10)
	e.m.Update()
	if len(e.m.HoverSet()) != 1 || len(e.m.ActiveSet()) != 1 {
		t.Fatalf("setup: hover %v active %v", names(e.m.HoverSet()), names(e.m.ActiveSet()))
	}
	e.takeLog()

	x.onMouse = func(ev *MouseEvent) {
		if ev.Type == MouseRelease {
			e.m.QueueForDestroy(x)
		}
	}
	e.release(10, 10)

	if diff := cmp.Diff([]string{"x:mouse-release", "x:mouse-click"}, e.takeLog()); diff != "" {
		t.Errorf("release dispatch (-want +got):\n%s", diff)
	}
	if x.Destroyed() || x.Widget() != w {
		t.Fatal("x released before the next Update")
	}

	e.m.Update()
	if !x.Destroyed() || x.destroyCalls != 1 {
		t.Errorf("destroyed=%v hook calls=%d", x.Destroyed(), x.destroyCalls)
	}
	if x.Widget() != nil || len(w.Elements()) != 0 || len(w.Root().Elements()) != 0 {
		t.Error("x still linked to its widget or layout")
	}
	if n := len(e.m.HoverSet()) + len(e.m.ActiveSet()) + len(e.m.FocusSet()); n != 0 {
		t.Errorf("%d routing refs survived destruction", n)
	}
	if got := e.takeLog(); len(got) != 0 {
		t.Errorf("destroyed element received %v", got)
	}
}

func TestQueueForDestroyIsIdempotent(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	w := NewWidget(e.m, e.vp)
	a := e.element(w, "a", core.R(0, 0, 50, 50), 0)
	e.element(w, "b", core.R(0, 0, 50, 50), 0)

	e.m.QueueForDestroy(a)
	e.m.QueueForDestroy(a)
	if len(e.m.destroyQueue) != 1 {
		t.Errorf("queue holds %d entries, want 1", len(e.m.destroyQueue))
	}
	e.m.Update()
	e.m.QueueForDestroy(a)
	e.m.Update()

	if a.destroyCalls != 1 {
		t.Errorf("destroy hook ran %d times, want 1", a.destroyCalls)
	}
	if diff := cmp.Diff([]string{"b"}, elementNames(w.Elements())); diff != "" {
		t.Errorf("remaining elements (-want +got):\n%s", diff)
	}
	if err := w.Add(a); !errors.Is(err, ErrElementDestroyed) {
		t.Errorf("re-adding a destroyed element: %v", err)
	}
}

func TestRegisterUnregisterRoundTrip(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	keep := NewWidget(e.m, e.vp)
	e.element(keep, "keep", core.R(200, 200, 10, 10), 0)
	e.m.Update()
	before := snapshot(e.m)

	w := NewWidget(e.m, core.NewViewport(e.win))
	a := e.element(w, "a", core.R(0, 0, 50, 50), 0)
	a.focusable = true
	tex := core.NewRenderTexture(10, 10)
	e.m.SetInputBridge(tex, a)
	e.move(10, 10)
	e.press(10, 10)
	e.m.Update()
	e.m.SetFocus(a, true)

	w.Destroy()
	e.m.Update()
	e.m.Update()

	if diff := cmp.Diff(before, snapshot(e.m)); diff != "" {
		t.Errorf("state after register/unregister (-before +after):\n%s", diff)
	}
	if !a.Destroyed() {
		t.Error("element of an unregistered widget not destroyed")
	}
}

type managerState struct {
	Widgets     int
	Viewports   int
	Hover       []string
	Active      []string
	Focus       []string
	Bridges     int
	Queued      int
	LiveMeshes  int
	HeapVerts   int
	HeapIndices int
}

func snapshot(m *Manager) managerState {
	st := m.heap.Stats()
	return managerState{
		Widgets:     len(m.widgets),
		Viewports:   len(m.cache),
		Hover:       names(m.HoverSet()),
		Active:      names(m.ActiveSet()),
		Focus:       names(m.FocusSet()),
		Bridges:     len(m.bridges),
		Queued:      len(m.destroyQueue),
		LiveMeshes:  st.LiveMeshes,
		HeapVerts:   st.Vertices,
		HeapIndices: st.Indices,
	}
}

func TestCaretBlink(t *testing.T) {
	opts := config.DefaultGUI()
	opts.CaretBlinkInterval = 0.5
	e := newEnv(t, opts)

	toggles := 0
	last := e.m.CaretBlinkState()
	for i := 0; i < 3; i++ {
		e.clock.Advance(420 * time.Millisecond)
		e.m.Update()
		if s := e.m.CaretBlinkState(); s != last {
			toggles++
			last = s
		}
	}
	if toggles != 2 {
		t.Errorf("caret toggled %d times over 1.26s, want 2", toggles)
	}
}

func TestCaretBlinkDoesNotBurst(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	e.clock.Advance(10 * time.Second)
	e.m.Update()
	first := e.m.CaretBlinkState()
	e.m.Update()
	if e.m.CaretBlinkState() != first {
		t.Error("caret toggled again without time passing")
	}
}

func TestCaretBlinkDirtiesFocused(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	w := NewWidget(e.m, e.vp)
	a := e.element(w, "a", core.R(0, 0, 50, 50), 0)
	e.m.SetFocus(a, true)
	e.m.Update()
	cleaned := a.cleaned

	e.clock.Advance(time.Second)
	e.m.Update()
	if a.cleaned != cleaned+1 {
		t.Errorf("focused element rebuilt %d times on blink, want 1", a.cleaned-cleaned)
	}
}

func TestSpriteColors(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	old := e.m.CaretTexture()
	if err := e.m.SetCaretColor(colors.Red); err != nil {
		t.Fatalf("SetCaretColor: %v", err)
	}
	tex, ok := e.m.CaretTexture().(*core.ImageTexture)
	if !ok || tex == old {
		t.Fatalf("caret texture %T not replaced", e.m.CaretTexture())
	}
	if diff := cmp.Diff([]byte{255, 0, 0, 255}, tex.Desc.Pixels); diff != "" {
		t.Errorf("caret pixel (-want +got):\n%s", diff)
	}
	if err := e.m.SetTextSelectionColor(colors.Blue); err != nil {
		t.Fatalf("SetTextSelectionColor: %v", err)
	}
	if e.m.TextSelectionColor() != colors.Blue {
		t.Errorf("selection color = %v", e.m.TextSelectionColor())
	}
	if e.m.CaretMaterial().ID == e.m.SelectionMaterial().ID {
		t.Error("caret and selection share a material")
	}
}

func TestLayoutHooks(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	w := NewWidget(e.m, e.vp)
	inner := w.Root().AddLayout(core.R(10, 20, 300, 40))
	a := &testElement{name: "a", mat: e.solid, quads: 1}
	var got []core.Rect
	a.onLayout = func(r core.Rect) {
		got = append(got, r)
		a.SetBounds(r)
	}
	if err := inner.Add(a); err != nil {
		t.Fatal(err)
	}

	e.m.Update()
	e.m.Update()
	inner.SetArea(core.R(0, 0, 100, 10))
	e.m.Update()

	want := []core.Rect{core.R(10, 20, 300, 40), core.R(0, 0, 100, 10)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("layout calls (-want +got):\n%s", diff)
	}
	if a.ParentLayout() != inner || a.Bounds() != core.R(0, 0, 100, 10) {
		t.Errorf("layout %p bounds %v", a.ParentLayout(), a.Bounds())
	}
}

func TestLayoutHookDestroyingWidget(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	var laidOut []string
	widgets := make([]*Widget, 3)
	for i, name := range []string{"a", "b", "c"} {
		name := name
		w := NewWidget(e.m, e.vp)
		widgets[i] = w
		el := &testElement{name: name, mat: e.solid, quads: 1}
		el.onLayout = func(core.Rect) {
			laidOut = append(laidOut, name)
			if name == "a" {
				w.Destroy()
			}
		}
		if err := w.Add(el); err != nil {
			t.Fatal(err)
		}
	}

	e.m.Update()
	if diff := cmp.Diff([]string{"a", "b", "c"}, laidOut); diff != "" {
		t.Errorf("layout hooks (-want +got):\n%s", diff)
	}
	if widgets[0].Registered() || len(e.m.Widgets()) != 2 {
		t.Errorf("destroyed widget still registered (%d widgets)", len(e.m.Widgets()))
	}
}

func TestAddTwice(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	w1 := NewWidget(e.m, e.vp)
	w2 := NewWidget(e.m, e.vp)
	a := e.element(w1, "a", core.R(0, 0, 1, 1), 0)
	if err := w2.Add(a); !errors.Is(err, ErrElementAttached) {
		t.Errorf("Add to a second widget: %v", err)
	}
}

func TestShutDownDisconnects(t *testing.T) {
	in := core.NewInput()
	m := New(config.DefaultGUI(), nil)
	m.StartUp(in)
	if in.PointerMoved.Len() != 1 || in.WindowFocusLost.Len() != 1 {
		t.Fatal("manager did not subscribe")
	}
	w := NewWidget(m, core.NewViewport(newFakeWindow()))
	a := &testElement{name: "a", quads: 1}
	w.Add(a)
	m.Update()

	m.ShutDown()
	if in.PointerMoved.Len() != 0 || in.InputCommand.Len() != 0 || in.MouseLeftWindow.Len() != 0 {
		t.Error("subscriptions left after ShutDown")
	}
	if !a.Destroyed() || len(m.Widgets()) != 0 {
		t.Error("widgets not released by ShutDown")
	}
	if st := m.MeshHeap().Stats(); st.LiveMeshes != 0 {
		t.Errorf("%d meshes live after ShutDown", st.LiveMeshes)
	}
}

func TestNestedUpdateIgnored(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	w := NewWidget(e.m, e.vp)
	a := e.element(w, "a", core.R(0, 0, 50, 50), 0)
	calls := 0
	a.onLayout = func(core.Rect) {
		calls++
		e.m.Update()
	}
	e.m.Update()
	if calls != 1 {
		t.Errorf("layout ran %d times, want 1", calls)
	}
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func elementNames(els []Element) []string {
	var out []string
	for _, el := range els {
		out = append(out, el.(*testElement).name)
	}
	return out
}
