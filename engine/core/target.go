package core

import "sync/atomic"

var nextTargetID atomic.Uint64

// NewTargetID hands out process-unique render target ids.
func NewTargetID() uint64 { return nextTargetID.Add(1) }

// RenderTarget is anything a viewport can draw into.
type RenderTarget interface {
	TargetID() uint64
	Size() (int, int)
	IsWindow() bool
}

// RenderWindow is the part of a platform window the GUI runtime needs:
// identity as a render target and a screen-to-window pointer mapping.
type RenderWindow interface {
	RenderTarget
	ScreenToWindow(p Vec2) Vec2
}

// RenderTexture is an off-screen render target.
type RenderTexture struct {
	id   uint64
	w, h int
	// Texture is the sampled side of the target once the backend created it.
	Texture Texture
}

func NewRenderTexture(w, h int) *RenderTexture {
	return &RenderTexture{id: NewTargetID(), w: w, h: h}
}

func (t *RenderTexture) TargetID() uint64 { return t.id }
func (t *RenderTexture) Size() (int, int) { return t.w, t.h }
func (t *RenderTexture) IsWindow() bool   { return false }

// Viewport is a region of a render target. GUI render data is cached per
// viewport, so viewports are compared by pointer.
type Viewport struct {
	Target RenderTarget
	Area   Rect // in target pixels; empty means the whole target
}

func NewViewport(target RenderTarget) *Viewport {
	return &Viewport{Target: target}
}

// Bounds resolves the viewport area against the target size.
func (v *Viewport) Bounds() Rect {
	if !v.Area.Empty() || v.Target == nil {
		return v.Area
	}
	w, h := v.Target.Size()
	return Rect{W: float32(w), H: float32(h)}
}
