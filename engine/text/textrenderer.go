package text

import "github.com/hubastard/grove/engine/core"

// Quad is one visible glyph: where to draw it and which part of the atlas
// to sample.
type Quad struct {
	Rune rune
	Pos  core.Rect
	UV   core.Rect
}

// Layout is a laid out string. Boxes holds one cell per rune of the input,
// newlines included, spanning the pen advance and the full line height;
// text entry uses them to place carets and selections.
type Layout struct {
	Quads []Quad
	Boxes []core.Rect
	Size  core.Vec2
}

// Layout places s with its top-left corner at origin. Positive Y goes
// downward. Runes missing from the atlas advance like a space.
func (f *Font) Layout(s string, origin core.Vec2) Layout {
	var out Layout
	lineH := f.LineHeight()
	penX := origin.X
	top := origin.Y
	prev := rune(-1)
	width := float32(0)

	for _, r := range s {
		if r == '\n' {
			out.Boxes = append(out.Boxes, core.Rect{X: penX, Y: top, W: 0, H: lineH})
			width = max(width, penX-origin.X)
			penX = origin.X
			top += lineH
			prev = -1
			continue
		}

		g, ok := f.Glyphs[r]
		if !ok {
			sp := f.Glyphs[' ']
			out.Boxes = append(out.Boxes, core.Rect{X: penX, Y: top, W: sp.Advance, H: lineH})
			penX += sp.Advance
			prev = r
			continue
		}

		penX += f.kern(prev, r)
		out.Boxes = append(out.Boxes, core.Rect{X: penX, Y: top, W: g.Advance, H: lineH})

		if g.W > 0 && g.H > 0 {
			baseY := top + f.Ascent
			out.Quads = append(out.Quads, Quad{
				Rune: r,
				Pos: core.Rect{
					X: penX + g.BearingX,
					Y: baseY - g.BearingY,
					W: float32(g.W),
					H: float32(g.H),
				},
				UV: core.Rect{X: g.U0, Y: g.V0, W: g.U1 - g.U0, H: g.V1 - g.V0},
			})
		}

		penX += g.Advance
		prev = r
	}

	width = max(width, penX-origin.X)
	out.Size = core.Vec2{X: width, Y: top + lineH - origin.Y}
	return out
}

// MeasureText returns the size of s laid out at the font's own size, scaled
// to size.
func MeasureText(font *Font, s string, size float32) (width, height float32) {
	l := font.Layout(s, core.Vec2{})
	scale := size / font.SizePx
	return l.Size.X * scale, l.Size.Y * scale
}

// Baseline-to-top distance (useful to position text by top-left).
func BaselineToTop(font *Font) float32    { return font.Ascent }
func BaselineToBottom(font *Font) float32 { return -font.Descent }
