package widgets

import (
	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gui"
	"github.com/hubastard/grove/engine/text"
)

// Clipboard is the system clipboard as seen by text entry.
type Clipboard interface {
	ClipboardString() string
	SetClipboardString(s string)
}

// MemClipboard keeps clipboard contents in memory.
type MemClipboard struct{ s string }

func (c *MemClipboard) ClipboardString() string     { return c.s }
func (c *MemClipboard) SetClipboardString(s string) { c.s = s }

const (
	inputGroupBackground = iota
	inputGroupText
	inputGroupSelection
	inputGroupCaret
	inputGroupCount
)

// InputBox is a single line text field. Every box keeps its own caret and
// selection; the manager's shared caret and selection helpers are loaded
// from that state whenever a focused box measures or draws them, so
// several boxes may hold focus at once.
type InputBox struct {
	Common[*InputBox]
	runes     []rune
	font      *text.Font
	textColor colors.Color
	padding   float32
	layout    text.Layout
	focused   bool
	caretPos  int
	anchor    int // other end of the selection; equal to caretPos when none
	pressAt   *core.Vec2
	clipboard Clipboard
	onChange  func(string)
	onConfirm func(string)
}

func NewInputBox(font *text.Font) *InputBox {
	b := &InputBox{font: font, textColor: colors.Black, padding: 4, clipboard: &MemClipboard{}}
	b.Common = NewCommon(b)
	b.relayout()
	return b
}

func (b *InputBox) Text() string  { return string(b.runes) }
func (b *InputBox) Focused() bool { return b.focused }
func (b *InputBox) CaretPos() int { return b.caretPos }

// Selection returns the selected rune range, start <= end.
func (b *InputBox) Selection() (start, end int) {
	return min(b.anchor, b.caretPos), max(b.anchor, b.caretPos)
}

func (b *InputBox) SetText(s string) *InputBox {
	b.runes = []rune(s)
	b.relayout()
	return b
}

func (b *InputBox) TextColor(c colors.Color) *InputBox {
	b.textColor = c
	b.MarkDirty()
	return b
}

func (b *InputBox) Padding(p float32) *InputBox {
	b.padding = p
	b.MarkDirty()
	return b
}

func (b *InputBox) Clipboard(c Clipboard) *InputBox     { b.clipboard = c; return b }
func (b *InputBox) OnChange(fn func(string)) *InputBox  { b.onChange = fn; return b }
func (b *InputBox) OnConfirm(fn func(string)) *InputBox { b.onConfirm = fn; return b }

func (b *InputBox) AcceptsKeyFocus() bool { return true }

func (b *InputBox) relayout() {
	if b.font == nil {
		b.layout = text.Layout{}
	} else {
		b.layout = b.font.Layout(string(b.runes), core.Vec2{})
	}
	b.caretPos = b.clampPos(b.caretPos)
	b.anchor = b.clampPos(b.anchor)
	b.MarkDirty()
}

func (b *InputBox) clampPos(i int) int { return max(0, min(i, len(b.runes))) }

func (b *InputBox) lineHeight() float32 {
	if b.font == nil {
		return 0
	}
	return b.font.LineHeight()
}

// textOrigin is the top-left of the text in widget space.
func (b *InputBox) textOrigin() core.Vec2 {
	bounds := b.Bounds()
	return core.Vec2{X: bounds.X + b.padding, Y: bounds.Y + (bounds.H-b.lineHeight())/2}
}

func (b *InputBox) boxes() []core.Rect {
	o := b.textOrigin()
	out := make([]core.Rect, len(b.layout.Boxes))
	for i, r := range b.layout.Boxes {
		out[i] = core.Rect{X: r.X + o.X, Y: r.Y + o.Y, W: r.W, H: r.H}
	}
	return out
}

// caret loads this box into the shared caret, using the current bounds.
// It is nil while the box is unfocused or detached.
func (b *InputBox) caret() *gui.InputCaret {
	m := b.Manager()
	if m == nil || !b.focused {
		return nil
	}
	c := m.InputCaret()
	c.SetText(b.boxes(), b.textOrigin(), b.lineHeight())
	c.SetPos(b.caretPos)
	return c
}

func (b *InputBox) selection() *gui.InputSelection {
	m := b.Manager()
	if m == nil || !b.focused {
		return nil
	}
	s := m.InputSelection()
	s.SetText(b.boxes())
	s.Select(b.anchor, b.caretPos)
	return s
}

// pointIndex is the caret position nearest to p, in widget space.
func (b *InputBox) pointIndex(p core.Vec2) int {
	c := b.caret()
	if c == nil {
		return b.caretPos
	}
	c.MoveToPoint(p)
	return c.Pos()
}

func (b *InputBox) RenderGroupCount() int { return inputGroupCount }

func (b *InputBox) QuadCount(group int) int {
	switch group {
	case inputGroupBackground:
		return 1
	case inputGroupText:
		return len(b.layout.Quads)
	case inputGroupSelection:
		if s := b.selection(); s != nil {
			return s.QuadCount()
		}
	case inputGroupCaret:
		if b.focused && b.Manager() != nil && b.Manager().CaretBlinkState() {
			return 1
		}
	}
	return 0
}

func (b *InputBox) Material(group int) gui.Material {
	mats := b.materials()
	switch group {
	case inputGroupBackground:
		return mats.Solid(b.color)
	case inputGroupText:
		var tex core.Texture
		if b.font != nil {
			tex = b.font.Texture
		}
		return mats.Sprite(tex, b.textColor)
	case inputGroupSelection:
		if m := b.Manager(); m != nil {
			return m.SelectionMaterial()
		}
	case inputGroupCaret:
		if m := b.Manager(); m != nil {
			return m.CaretMaterial()
		}
	}
	return mats.Solid(colors.Transparent)
}

func (b *InputBox) FillBuffer(group int, verts, uvs []float32, indices []uint32, startQuad, maxQuads, vertexStride, indexStride int) int {
	switch group {
	case inputGroupBackground:
		if maxQuads < 1 {
			return 0
		}
		return fillRect(verts, uvs, indices, startQuad, vertexStride, indexStride, b.Bounds())
	case inputGroupText:
		return putGlyphs(verts, uvs, indices, startQuad, maxQuads, vertexStride, indexStride, b.layout.Quads, b.textOrigin())
	case inputGroupSelection:
		if s := b.selection(); s != nil {
			return s.FillBuffer(verts, uvs, indices, startQuad, maxQuads, vertexStride, indexStride)
		}
	case inputGroupCaret:
		if c := b.caret(); c != nil && maxQuads >= 1 {
			return c.FillBuffer(verts, uvs, indices, startQuad, vertexStride, indexStride)
		}
	}
	return 0
}

// ---- editing ----

func (b *InputBox) MouseEvent(ev *gui.MouseEvent) bool {
	switch ev.Type {
	case gui.MousePress:
		if b.focused {
			b.caretPos = b.pointIndex(ev.Position)
			b.anchor = b.caretPos
			b.MarkDirty()
		} else {
			// focus arrives with the next update; place the caret then
			p := ev.Position
			b.pressAt = &p
		}
		return true
	case gui.MouseDrag:
		if b.focused {
			b.caretPos = b.pointIndex(ev.Position)
			b.MarkDirty()
		}
		return true
	}
	return false
}

func (b *InputBox) TextInputEvent(ev *gui.TextInputEvent) bool {
	if !b.focused || ev.Char < 0x20 || ev.Char == 0x7f {
		return false
	}
	b.deleteSelection()
	pos := b.caretPos
	b.runes = append(b.runes[:pos], append([]rune{ev.Char}, b.runes[pos:]...)...)
	b.edited(pos + 1)
	return true
}

func (b *InputBox) CommandEvent(ev *gui.CommandEvent) bool {
	switch ev.Type {
	case gui.CommandFocusGained:
		b.focusGained()
		return true
	case gui.CommandFocusLost:
		b.focused = false
		b.anchor = b.caretPos
		b.MarkDirty()
		return true
	}
	if !b.focused {
		return false
	}

	switch ev.Input {
	case core.CommandBackspace:
		if !b.deleteSelection() && b.caretPos > 0 {
			pos := b.caretPos - 1
			b.runes = append(b.runes[:pos], b.runes[pos+1:]...)
			b.edited(pos)
		}
	case core.CommandDelete:
		if !b.deleteSelection() && b.caretPos < len(b.runes) {
			pos := b.caretPos
			b.runes = append(b.runes[:pos], b.runes[pos+1:]...)
			b.edited(pos)
		}
	case core.CommandMoveLeft, core.CommandMoveUp:
		b.caretPos = b.clampPos(b.caretPos - 1)
		b.anchor = b.caretPos
	case core.CommandMoveRight, core.CommandMoveDown:
		b.caretPos = b.clampPos(b.caretPos + 1)
		b.anchor = b.caretPos
	case core.CommandSelectLeft, core.CommandSelectUp:
		b.caretPos = b.clampPos(b.caretPos - 1)
	case core.CommandSelectRight, core.CommandSelectDown:
		b.caretPos = b.clampPos(b.caretPos + 1)
	case core.CommandSelectAll:
		b.anchor, b.caretPos = 0, len(b.runes)
	case core.CommandCopy:
		if b.anchor != b.caretPos {
			b.clipboard.SetClipboardString(b.selectedText())
		}
	case core.CommandCut:
		if b.anchor != b.caretPos {
			b.clipboard.SetClipboardString(b.selectedText())
			b.deleteSelection()
		}
	case core.CommandPaste:
		b.deleteSelection()
		pos := b.caretPos
		var paste []rune
		for _, r := range b.clipboard.ClipboardString() {
			if r >= 0x20 && r != 0x7f {
				paste = append(paste, r)
			}
		}
		b.runes = append(b.runes[:pos], append(paste, b.runes[pos:]...)...)
		b.edited(pos + len(paste))
	case core.CommandConfirm, core.CommandReturn:
		if b.onConfirm != nil {
			b.onConfirm(b.Text())
		}
	default:
		return false
	}
	b.MarkDirty()
	return true
}

func (b *InputBox) focusGained() {
	b.focused = true
	b.caretPos = len(b.runes)
	if b.pressAt != nil {
		b.caretPos = b.pointIndex(*b.pressAt)
		b.pressAt = nil
	}
	b.anchor = b.caretPos
	b.MarkDirty()
}

func (b *InputBox) selectedText() string {
	start, end := b.Selection()
	return string(b.runes[start:end])
}

// deleteSelection removes the selected runes and reports whether there
// were any.
func (b *InputBox) deleteSelection() bool {
	start, end := b.Selection()
	if start == end {
		return false
	}
	b.runes = append(b.runes[:start], b.runes[end:]...)
	b.edited(start)
	return true
}

func (b *InputBox) edited(caretPos int) {
	b.relayout()
	b.caretPos = b.clampPos(caretPos)
	b.anchor = b.caretPos
	if b.onChange != nil {
		b.onChange(b.Text())
	}
}
