package platform

import (
	"runtime"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/logger"
)

// GLFWWindow implements core.Window and pushes events to the app via a handler.
type GLFWWindow struct {
	w      *glfw.Window
	id     uint64
	onEv   func(core.Event)
	mods   core.Mod
	cursor core.Vec2
	clicks core.ClickTracker
}

// Must be called on main thread before any GL calls.
func NewGLFWWindow(cfg core.Config, onEvent func(core.Event)) (*GLFWWindow, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	// GL 3.3 core profile (Mac requires forward-compatible flag).
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 0)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		return nil, err
	}
	logger.Logf("platform", "GL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	gw := &GLFWWindow{w: win, id: core.NewTargetID(), onEv: onEvent, clicks: core.NewClickTracker()}

	// Callbacks -> translate to core.Event
	win.SetCloseCallback(func(*glfw.Window) { gw.emit(core.EventCloseRequested{}) })
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gw.emit(core.EventResize{W: w, H: h})
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		gw.cursor = gw.toScreen(x, y)
		gw.emit(core.EventPointerMove{Pointer: gw.pointer(core.PointerLeft)})
	})
	win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if !entered {
			gw.emit(core.EventMouseLeftWindow{Window: gw})
		}
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		btn, ok := translateButton(b)
		if !ok {
			return
		}
		gw.mods = translateMods(mods)
		p := gw.pointer(btn)
		switch action {
		case glfw.Press:
			gw.emit(core.EventPointerPress{Pointer: p})
			if gw.clicks.Press(btn, p.Screen, time.Now()) {
				gw.emit(core.EventPointerDoubleClick{Pointer: p})
			}
		case glfw.Release:
			gw.emit(core.EventPointerRelease{Pointer: p})
		}
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		gw.mods = translateMods(mods)
		k := translateKey(key)
		if k == core.KeyUnknown {
			return
		}
		gw.emit(core.EventKey{Key: k, Down: action != glfw.Release, Mods: gw.mods})
	})
	win.SetCharCallback(func(_ *glfw.Window, r rune) {
		gw.emit(core.EventTextInput{Text: core.TextInputEvent{Char: r, Mods: gw.mods}})
	})
	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		gw.emit(core.EventWindowFocus{Window: gw, Focused: focused})
	})
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		gw.emit(core.EventScroll{Xoff: xoff, Yoff: yoff})
	})
	// Files dropped from the OS arrive as a drag ending at the cursor.
	win.SetDropCallback(func(_ *glfw.Window, names []string) {
		info := &core.DragCallbackInfo{Payload: names}
		gw.emit(core.EventDragEnded{Drag: core.PointerDrag{Pointer: gw.pointer(core.PointerLeft), Info: info}})
		if !info.Processed {
			logger.Logf("platform", "dropped %d file(s), no receiver", len(names))
		}
	})

	return gw, nil
}

func (g *GLFWWindow) emit(ev core.Event) {
	if g.onEv != nil {
		g.onEv(ev)
	}
}

// toScreen converts window-relative cursor coordinates to screen space.
func (g *GLFWWindow) toScreen(x, y float64) core.Vec2 {
	wx, wy := g.w.GetPos()
	return core.V2(float32(x)+float32(wx), float32(y)+float32(wy))
}

func (g *GLFWWindow) pointer(changed core.PointerButton) core.PointerEvent {
	p := core.PointerEvent{Screen: g.cursor, Button: changed, Mods: g.mods}
	p.Buttons[core.PointerLeft] = g.w.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
	p.Buttons[core.PointerRight] = g.w.GetMouseButton(glfw.MouseButtonRight) == glfw.Press
	p.Buttons[core.PointerMiddle] = g.w.GetMouseButton(glfw.MouseButtonMiddle) == glfw.Press
	return p
}

// core.RenderWindow impl
func (g *GLFWWindow) TargetID() uint64 { return g.id }
func (g *GLFWWindow) Size() (int, int) { return g.w.GetFramebufferSize() }
func (g *GLFWWindow) IsWindow() bool   { return true }

func (g *GLFWWindow) ScreenToWindow(p core.Vec2) core.Vec2 {
	wx, wy := g.w.GetPos()
	return core.V2(p.X-float32(wx), p.Y-float32(wy))
}

// core.Window impl
func (g *GLFWWindow) PollEvents()                          { glfw.PollEvents() }
func (g *GLFWWindow) SwapBuffers()                         { g.w.SwapBuffers() }
func (g *GLFWWindow) ShouldClose() bool                    { return g.w.ShouldClose() }
func (g *GLFWWindow) RequestClose()                        { g.w.SetShouldClose(true) }
func (g *GLFWWindow) FramebufferSize() (int, int)          { return g.w.GetFramebufferSize() }
func (g *GLFWWindow) SetTitle(t string)                    { g.w.SetTitle(t) }
func (g *GLFWWindow) SetEventCallback(cb func(core.Event)) { g.onEv = cb }

// Focused reports whether the window has input focus. GLFW only reports
// changes, so hosts query this once after subscribing to input.
func (g *GLFWWindow) Focused() bool { return g.w.GetAttrib(glfw.Focused) == glfw.True }

// Clipboard access for text entry.
func (g *GLFWWindow) ClipboardString() string     { return g.w.GetClipboardString() }
func (g *GLFWWindow) SetClipboardString(s string) { g.w.SetClipboardString(s) }

// Destroy closes the window and terminates GLFW.
func (g *GLFWWindow) Destroy() {
	g.w.Destroy()
	glfw.Terminate()
}

func translateButton(b glfw.MouseButton) (core.PointerButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return core.PointerLeft, true
	case glfw.MouseButtonRight:
		return core.PointerRight, true
	case glfw.MouseButtonMiddle:
		return core.PointerMiddle, true
	}
	return 0, false
}

var keyMap = map[glfw.Key]core.Key{
	glfw.KeyEscape:    core.KeyEscape,
	glfw.KeySpace:     core.KeySpace,
	glfw.KeyW:         core.KeyW,
	glfw.KeyA:         core.KeyA,
	glfw.KeyS:         core.KeyS,
	glfw.KeyD:         core.KeyD,
	glfw.KeyP:         core.KeyP,
	glfw.KeyC:         core.KeyC,
	glfw.KeyV:         core.KeyV,
	glfw.KeyX:         core.KeyX,
	glfw.KeyZ:         core.KeyZ,
	glfw.KeyY:         core.KeyY,
	glfw.KeyEnter:     core.KeyEnter,
	glfw.KeyKPEnter:   core.KeyEnter,
	glfw.KeyTab:       core.KeyTab,
	glfw.KeyBackspace: core.KeyBackspace,
	glfw.KeyDelete:    core.KeyDelete,
	glfw.KeyLeft:      core.KeyLeft,
	glfw.KeyRight:     core.KeyRight,
	glfw.KeyUp:        core.KeyUp,
	glfw.KeyDown:      core.KeyDown,
}

func translateKey(k glfw.Key) core.Key {
	if ck, ok := keyMap[k]; ok {
		return ck
	}
	return core.KeyUnknown
}

func translateMods(m glfw.ModifierKey) core.Mod {
	var out core.Mod
	if m&glfw.ModShift != 0 {
		out |= core.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= core.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		out |= core.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		out |= core.ModSuper
	}
	return out
}
