package main

import (
	"fmt"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gui"
	"github.com/hubastard/grove/engine/gui/widgets"
	"github.com/hubastard/grove/engine/logger"
)

// ------- A small form: drag the title bar to move it -------
type LayerForm struct {
	app    *App
	widget *gui.Widget
	greet  *widgets.Label
}

// titleBar moves its widget while dragged.
type titleBar struct {
	*widgets.Panel
	origin core.Vec2
}

func (t *titleBar) MouseEvent(ev *gui.MouseEvent) bool {
	w := t.Widget()
	if w == nil {
		return false
	}
	switch ev.Type {
	case gui.MouseDragStart:
		tr := w.Transform()
		t.origin = core.V2(tr.TX, tr.TY)
		return true
	case gui.MouseDrag:
		w.SetTransform(core.Translate(t.origin.X+ev.DragAmount.X, t.origin.Y+ev.DragAmount.Y))
		return true
	}
	return false
}

func (l *LayerForm) OnAttach(e *core.Engine) {
	a := l.app
	l.widget = gui.NewWidget(a.gui, a.viewport)
	l.widget.SetTransform(core.Translate(40, 40))

	bar := &titleBar{Panel: widgets.NewPanel().Rect(core.R(0, 0, 320, 28)).Color(colors.Blue)}
	title := widgets.NewLabel("Greeter", a.font).Position(8, 4).Layer(-1)
	body := widgets.NewPanel().Rect(core.R(0, 28, 320, 132)).Color(colors.Black.WithAlpha(0.6)).Layer(1)
	l.greet = widgets.NewLabel("Type a name and press Enter", a.font).Position(12, 40).Layer(-1)

	name := widgets.NewInputBox(a.font).Rect(core.R(12, 72, 296, 28)).Layer(-1).OnConfirm(l.sayHello)
	if clip, ok := e.Window.(widgets.Clipboard); ok {
		name.Clipboard(clip)
	}
	btn := widgets.NewButton("Greet", a.font).Rect(core.R(12, 112, 100, 32)).Layer(-1).
		OnClick(func() { l.sayHello(name.Text()) })

	elems := []gui.Element{bar, title, body, l.greet, name, btn}
	if tex, err := a.loader.LoadTexture(e.Renderer, "logo.png"); err == nil {
		elems = append(elems, widgets.NewImage(tex).Rect(core.R(276, 112, 32, 32)).Layer(-1))
	} else {
		logger.Logf("sandbox", "no logo: %v", err)
	}
	for _, el := range elems {
		if err := l.widget.Add(el); err != nil {
			panic(err)
		}
	}
}

func (l *LayerForm) sayHello(name string) {
	if name == "" {
		name = "stranger"
	}
	l.greet.SetText(fmt.Sprintf("Hello, %s!", name))
}

func (l *LayerForm) OnDetach(e *core.Engine) { l.widget.Destroy() }

func (l *LayerForm) OnUpdate(e *core.Engine, dt float64)    {}
func (l *LayerForm) OnRender(e *core.Engine, alpha float64) {}

func (l *LayerForm) OnEvent(e *core.Engine, ev core.Event) bool { return false }
