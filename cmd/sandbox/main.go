package main

import (
	"log"

	"github.com/hubastard/grove/engine/assets"
	"github.com/hubastard/grove/engine/config"
	"github.com/hubastard/grove/engine/core"
	glbackend "github.com/hubastard/grove/engine/gfx/gl"
	"github.com/hubastard/grove/engine/gfx/guirender"
	"github.com/hubastard/grove/engine/gui"
	"github.com/hubastard/grove/engine/logger"
	"github.com/hubastard/grove/engine/platform"
	"github.com/hubastard/grove/engine/profiler"
	"github.com/hubastard/grove/engine/text"
)

type App struct {
	cfg      config.Config
	loader   *assets.Loader
	gui      *gui.Manager
	viewport *core.Viewport
	draw     *guirender.Renderer
	font     *text.Font
	tick     int
}

func (a *App) OnStart(e *core.Engine) {
	profiler.Init(1 << 10) // ~1K scope samples

	a.gui = gui.New(a.cfg.GUI, e.Renderer)
	a.gui.StartUp(e.Input)
	a.viewport = core.NewViewport(e.Window)
	if f, ok := e.Window.(interface{ Focused() bool }); ok && f.Focused() {
		e.Input.Handle(core.EventWindowFocus{Window: e.Window, Focused: true})
	}

	// Shaders under assets/shaders replace the built-in ones.
	vs, err := a.loader.ShaderOverride("gui.vert")
	if err != nil {
		panic(err)
	}
	fs, err := a.loader.ShaderOverride("gui.frag")
	if err != nil {
		panic(err)
	}
	a.draw, err = guirender.New(e.Renderer, vs, fs)
	if err != nil {
		panic(err)
	}

	a.font, err = text.Default(e.Renderer, 18)
	if err != nil {
		panic(err)
	}

	e.PushLayer(&LayerForm{app: a})
	e.PushLayer(&LayerDebug{app: a})
}

func (a *App) OnUpdate(e *core.Engine, dt float64) {
	a.tick++
	a.gui.Update()
}

func (a *App) OnRender(e *core.Engine, alpha float64) {
	if err := a.draw.DrawViewport(a.gui, a.viewport); err != nil {
		logger.Logf("sandbox", "draw gui: %v", err)
	}
}

func (a *App) OnEvent(e *core.Engine, ev core.Event) {}

func (a *App) OnShutdown(e *core.Engine) {
	a.gui.ShutDown()
	a.font.Close()
}

func main() {
	cfg, err := config.Load(config.FileName)
	if err != nil {
		log.Fatal(err)
	}
	app := &App{cfg: cfg, loader: assets.NewLoader("assets")}

	newWindow := func(cfg core.Config) (core.Window, error) {
		return platform.NewGLFWWindow(cfg, nil)
	}
	newRenderer := func(win core.Window, cfg core.Config) (core.Renderer, error) {
		return glbackend.NewRendererGL(win, cfg)
	}

	if err := core.Run(app, cfg.Core(), newWindow, newRenderer); err != nil {
		log.Fatal(err)
	}
}
