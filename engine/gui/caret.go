package gui

import (
	"fmt"
	"sort"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/core"
)

// spriteTexture creates the 1x1 texture used to draw caret and selection
// quads in a flat color.
func spriteTexture(f core.TextureFactory, c colors.Color) (core.Texture, error) {
	px := c.RGBA8()
	return f.CreateTexture(core.TextureDesc{
		Width:     1,
		Height:    1,
		Format:    core.TextureRGBA8,
		Pixels:    px[:],
		MinFilter: "nearest",
		MagFilter: "nearest",
		WrapU:     "clamp",
		WrapV:     "clamp",
	})
}

// SetCaretColor replaces the caret sprite. On failure the old sprite stays.
func (m *Manager) SetCaretColor(c colors.Color) error {
	tex, err := spriteTexture(m.textures, c)
	if err != nil {
		err = fmt.Errorf("gui: caret sprite: %w", err)
		m.report(err)
		return err
	}
	m.caretTex, m.caretColor = tex, c
	m.markFocusedDirty()
	return nil
}

// SetTextSelectionColor replaces the selection sprite. On failure the old
// sprite stays.
func (m *Manager) SetTextSelectionColor(c colors.Color) error {
	tex, err := spriteTexture(m.textures, c)
	if err != nil {
		err = fmt.Errorf("gui: selection sprite: %w", err)
		m.report(err)
		return err
	}
	m.selectionTex, m.selectionColor = tex, c
	m.markFocusedDirty()
	return nil
}

func (m *Manager) CaretTexture() core.Texture         { return m.caretTex }
func (m *Manager) TextSelectionTexture() core.Texture { return m.selectionTex }
func (m *Manager) CaretColor() colors.Color           { return m.caretColor }
func (m *Manager) TextSelectionColor() colors.Color   { return m.selectionColor }

// CaretMaterial and SelectionMaterial draw the current sprites untinted.
func (m *Manager) CaretMaterial() Material {
	return m.materials.Sprite(m.caretTex, colors.White)
}

func (m *Manager) SelectionMaterial() Material {
	return m.materials.Sprite(m.selectionTex, colors.White)
}

// CaretBlinkState reports whether the caret is in its visible phase.
func (m *Manager) CaretBlinkState() bool { return m.isCaretOn }

// InputCaret and InputSelection are shared by text entry elements; only the
// focused one drives them at a time.
func (m *Manager) InputCaret() *InputCaret         { return m.inputCaret }
func (m *Manager) InputSelection() *InputSelection { return m.inputSelection }

// advanceCaretBlink toggles the caret once per elapsed interval. The toggle
// time advances by whole intervals so the blink rate does not drift with
// the frame rate, but never falls more than one interval behind.
func (m *Manager) advanceCaretBlink() {
	interval := m.blinkInterval()
	if interval <= 0 {
		return
	}
	now := m.clock()
	if now.Sub(m.lastBlink) < interval {
		return
	}
	m.isCaretOn = !m.isCaretOn
	m.lastBlink = m.lastBlink.Add(interval)
	if now.Sub(m.lastBlink) >= interval {
		m.lastBlink = now
	}
	m.markFocusedDirty()
}

func (m *Manager) markFocusedDirty() {
	for _, r := range m.focus {
		r.Element.Node().MarkDirty()
	}
}

// ---- text entry helpers ----

// InputCaret tracks a caret position over a run of laid out characters.
// Character boxes are in the owning element's widget space; position i sits
// before character i, and len(chars) is after the last one.
type InputCaret struct {
	chars      []core.Rect
	origin     core.Vec2
	lineHeight float32
	pos        int
	width      float32
}

func newInputCaret() *InputCaret { return &InputCaret{width: 1} }

// SetText replaces the character boxes. origin is where an empty text would
// put the caret.
func (c *InputCaret) SetText(chars []core.Rect, origin core.Vec2, lineHeight float32) {
	c.chars = chars
	c.origin = origin
	c.lineHeight = lineHeight
	c.clamp()
}

func (c *InputCaret) Pos() int           { return c.pos }
func (c *InputCaret) SetPos(i int)       { c.pos = i; c.clamp() }
func (c *InputCaret) SetWidth(w float32) { c.width = w }
func (c *InputCaret) MoveLeft()          { c.SetPos(c.pos - 1) }
func (c *InputCaret) MoveRight()         { c.SetPos(c.pos + 1) }
func (c *InputCaret) MoveHome()          { c.SetPos(0) }
func (c *InputCaret) MoveEnd()           { c.SetPos(len(c.chars)) }

func (c *InputCaret) clamp() {
	c.pos = max(0, min(c.pos, len(c.chars)))
}

// Rect is the caret sprite in widget space.
func (c *InputCaret) Rect() core.Rect {
	switch {
	case len(c.chars) == 0:
		return core.Rect{X: c.origin.X, Y: c.origin.Y, W: c.width, H: c.lineHeight}
	case c.pos < len(c.chars):
		ch := c.chars[c.pos]
		return core.Rect{X: ch.X, Y: ch.Y, W: c.width, H: c.lineHeight}
	default:
		ch := c.chars[len(c.chars)-1]
		return core.Rect{X: ch.X + ch.W, Y: ch.Y, W: c.width, H: c.lineHeight}
	}
}

// MoveToPoint puts the caret at the character boundary nearest to p.
func (c *InputCaret) MoveToPoint(p core.Vec2) {
	best, bestDist := 0, float32(-1)
	for i := 0; i <= len(c.chars); i++ {
		saved := c.pos
		c.pos = i
		r := c.Rect()
		c.pos = saved
		center := core.Vec2{X: r.X, Y: r.Y + r.H/2}
		if d := center.DistSq(p); bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	c.SetPos(best)
}

// FillBuffer writes the caret as a single quad.
func (c *InputCaret) FillBuffer(verts, uvs []float32, indices []uint32, startQuad, vertexStride, indexStride int) int {
	PutQuad(verts, uvs, indices, startQuad, 0, vertexStride, indexStride, c.Rect(), FullUV)
	return 1
}

// InputSelection tracks a selected character range and produces one quad
// per line it covers.
type InputSelection struct {
	chars      []core.Rect
	start, end int
}

func newInputSelection() *InputSelection { return &InputSelection{} }

func (s *InputSelection) SetText(chars []core.Rect) {
	s.chars = chars
	s.Select(s.start, s.end)
}

// Select sets the selection to the characters between a and b, in either
// order.
func (s *InputSelection) Select(a, b int) {
	if a > b {
		a, b = b, a
	}
	s.start = max(0, min(a, len(s.chars)))
	s.end = max(0, min(b, len(s.chars)))
}

func (s *InputSelection) Clear()                  { s.start, s.end = 0, 0 }
func (s *InputSelection) Empty() bool             { return s.start == s.end }
func (s *InputSelection) Range() (start, end int) { return s.start, s.end }

// Rects merges the selected character boxes line by line.
func (s *InputSelection) Rects() []core.Rect {
	if s.Empty() {
		return nil
	}
	lines := map[float32]core.Rect{}
	var ys []float32
	for _, ch := range s.chars[s.start:s.end] {
		r, ok := lines[ch.Y]
		if !ok {
			lines[ch.Y] = ch
			ys = append(ys, ch.Y)
			continue
		}
		x0 := min(r.X, ch.X)
		x1 := max(r.X+r.W, ch.X+ch.W)
		r.X, r.W = x0, x1-x0
		r.H = max(r.H, ch.H)
		lines[ch.Y] = r
	}
	sort.Slice(ys, func(i, j int) bool { return ys[i] < ys[j] })
	out := make([]core.Rect, len(ys))
	for i, y := range ys {
		out[i] = lines[y]
	}
	return out
}

func (s *InputSelection) QuadCount() int { return len(s.Rects()) }

// FillBuffer writes one quad per selected line, at most maxQuads.
func (s *InputSelection) FillBuffer(verts, uvs []float32, indices []uint32, startQuad, maxQuads, vertexStride, indexStride int) int {
	n := 0
	for _, r := range s.Rects() {
		if n >= maxQuads {
			break
		}
		PutQuad(verts, uvs, indices, startQuad, n, vertexStride, indexStride, r, FullUV)
		n++
	}
	return n
}
