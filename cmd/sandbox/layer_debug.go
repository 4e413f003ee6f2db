package main

import (
	"fmt"
	"time"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gui"
	"github.com/hubastard/grove/engine/gui/widgets"
	"github.com/hubastard/grove/engine/profiler"
)

const debugRefresh = 250 * time.Millisecond

// ------- Frame, GUI and runtime statistics -------
type LayerDebug struct {
	app       *App
	widget    *gui.Widget
	bg        *widgets.Panel
	lines     []*widgets.Label
	lastFrame time.Time
	frameMS   float32
	refreshed time.Time
}

func (l *LayerDebug) OnAttach(e *core.Engine) {
	a := l.app
	l.widget = gui.NewWidget(a.gui, a.viewport)
	l.bg = widgets.NewPanel().Color(colors.Black.WithAlpha(0.5)).Layer(1)
	if err := l.widget.Add(l.bg); err != nil {
		panic(err)
	}
	l.refresh(e)
}

func (l *LayerDebug) OnDetach(e *core.Engine) { l.widget.Destroy() }

func (l *LayerDebug) OnUpdate(e *core.Engine, dt float64) {
	if time.Since(l.refreshed) >= debugRefresh {
		l.refresh(e)
	}
}

func (l *LayerDebug) OnRender(e *core.Engine, alpha float64) {
	now := time.Now()
	if !l.lastFrame.IsZero() {
		l.frameMS = float32(now.Sub(l.lastFrame).Seconds() * 1000)
	}
	l.lastFrame = now
}

type debugLine struct {
	text   string
	header bool
}

func (l *LayerDebug) lineTexts(e *core.Engine) []debugLine {
	stats := l.app.draw.Stats()
	fps := float32(0)
	if l.frameMS > 0 {
		fps = 1000 / l.frameMS
	}
	lines := []debugLine{
		{fmt.Sprintf("Frame: %d", l.app.tick), true},
		{fmt.Sprintf("  %2.3f ms (%.2f FPS)", l.frameMS, fps), false},
		{"GUI", true},
		{fmt.Sprintf("  Draw Calls: %d", stats.DrawCalls), false},
		{fmt.Sprintf("  Quads: %d", stats.QuadCount), false},
		{fmt.Sprintf("  Vertices: %d", stats.TotalVertexCount()), false},
		{fmt.Sprintf("  Textures: %d", stats.TextureCount), false},
		{fmt.Sprintf("  Focus: %d  Hover: %d", len(l.app.gui.FocusSet()), len(l.app.gui.HoverSet())), false},
		{"Memory", true},
		{fmt.Sprintf("  Usage: %.3f MB", float32(profiler.MemoryUsage())/(1<<20)), false},
		{fmt.Sprintf("  Allocs: %d", profiler.MemoryAllocs()), false},
		{fmt.Sprintf("  Goroutines: %d", profiler.NumGoroutine()), false},
		{"CPU", true},
		{fmt.Sprintf("  Count: %d", profiler.NumCPU()), false},
		{"GPU", true},
		{fmt.Sprintf("  Vendor: %s", e.Renderer.GPUVendor()), false},
		{fmt.Sprintf("  Renderer: %s", e.Renderer.GPURenderer()), false},
		{fmt.Sprintf("  Version: %s", e.Renderer.GPUVersion()), false},
	}
	if profiler.Enabled {
		lines = append(lines, debugLine{"Scopes", true})
		for _, s := range profiler.Summary() {
			lines = append(lines, debugLine{"  " + s.String(), false})
		}
	}
	return lines
}

// refresh rewrites the labels in place, adding or removing rows as the
// line count changes.
func (l *LayerDebug) refresh(e *core.Engine) {
	l.refreshed = time.Now()
	font := l.app.font
	texts := l.lineTexts(e)

	for len(l.lines) > len(texts) {
		last := l.lines[len(l.lines)-1]
		l.app.gui.QueueForDestroy(last)
		l.lines = l.lines[:len(l.lines)-1]
	}
	for len(l.lines) < len(texts) {
		lbl := widgets.NewLabel("", font)
		if err := l.widget.Add(lbl); err != nil {
			panic(err)
		}
		l.lines = append(l.lines, lbl)
	}

	w, _ := e.Window.FramebufferSize()
	lineH := font.LineHeight()
	x := float32(w) - 360
	y := float32(16)
	for i, line := range texts {
		col := colors.White
		if line.header {
			col = colors.Yellow
		}
		l.lines[i].SetText(line.text).Position(x+12, y+12+float32(i)*lineH).Color(col)
	}
	l.bg.Rect(core.R(x, y, 344, float32(len(texts))*lineH+24))
}

func (l *LayerDebug) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventKey:
		if v.Down && v.Key == core.KeyP && (v.Mods&core.ModCtrl) != 0 {
			if path, err := profiler.OpenProfilerGraph(); err == nil {
				fmt.Println("speedscope dump:", path)
			} else {
				fmt.Println("profiler dump error:", err)
			}
			return true
		}
	case core.EventResize:
		l.refresh(e)
	}
	return false
}
