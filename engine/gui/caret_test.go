package gui

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hubastard/grove/engine/core"
)

// three 10px wide characters on one line, two on the next
var testChars = []core.Rect{
	core.R(0, 0, 10, 16), core.R(10, 0, 10, 16), core.R(20, 0, 10, 16),
	core.R(0, 16, 10, 16), core.R(10, 16, 10, 16),
}

func TestInputCaretRect(t *testing.T) {
	c := newInputCaret()
	c.SetText(testChars[:3], core.V2(0, 0), 16)

	tests := []struct {
		pos  int
		want core.Rect
	}{
		{0, core.R(0, 0, 1, 16)},
		{2, core.R(20, 0, 1, 16)},
		{3, core.R(30, 0, 1, 16)},
		{99, core.R(30, 0, 1, 16)},
		{-4, core.R(0, 0, 1, 16)},
	}
	for _, tt := range tests {
		c.SetPos(tt.pos)
		if got := c.Rect(); got != tt.want {
			t.Errorf("SetPos(%d): Rect() = %v, want %v", tt.pos, got, tt.want)
		}
	}

	c.SetText(nil, core.V2(4, 2), 12)
	if got := c.Rect(); got != core.R(4, 2, 1, 12) {
		t.Errorf("empty text caret = %v", got)
	}
}

func TestInputCaretMovement(t *testing.T) {
	c := newInputCaret()
	c.SetText(testChars[:3], core.V2(0, 0), 16)
	c.MoveEnd()
	c.MoveLeft()
	if c.Pos() != 2 {
		t.Errorf("after End, Left: pos %d", c.Pos())
	}
	c.MoveHome()
	c.MoveLeft()
	if c.Pos() != 0 {
		t.Errorf("Left at start moved to %d", c.Pos())
	}
	c.MoveToPoint(core.V2(18, 5))
	if c.Pos() != 2 {
		t.Errorf("MoveToPoint(18,5) = %d, want 2", c.Pos())
	}
}

func TestInputSelectionRects(t *testing.T) {
	s := newInputSelection()
	s.SetText(testChars)
	s.Select(4, 1)
	if start, end := s.Range(); start != 1 || end != 4 {
		t.Errorf("Range() = %d,%d", start, end)
	}
	want := []core.Rect{core.R(10, 0, 20, 16), core.R(0, 16, 10, 16)}
	if diff := cmp.Diff(want, s.Rects()); diff != "" {
		t.Errorf("Rects (-want +got):\n%s", diff)
	}

	verts := make([]float32, 4*4)
	inds := make([]uint32, 6)
	if n := s.FillBuffer(verts, verts[2:], inds, 0, 1, 4, 1); n != 1 {
		t.Errorf("FillBuffer wrote %d quads into room for 1", n)
	}

	s.Clear()
	if !s.Empty() || s.QuadCount() != 0 {
		t.Error("cleared selection not empty")
	}
}

func TestPutQuadStrides(t *testing.T) {
	verts := make([]float32, 8*4)
	inds := make([]uint32, 12*2)
	PutQuad(verts, verts[2:], inds, 1, 0, 4, 2, core.R(1, 2, 3, 4), FullUV)

	gotPos := []float32{verts[16], verts[17], verts[28], verts[29]}
	if diff := cmp.Diff([]float32{1, 2, 4, 6}, gotPos); diff != "" {
		t.Errorf("corner positions (-want +got):\n%s", diff)
	}
	var gotInds []uint32
	for k := 6; k < 12; k++ {
		gotInds = append(gotInds, inds[k*2])
	}
	if diff := cmp.Diff([]uint32{0, 2, 1, 1, 2, 3}, gotInds); diff != "" {
		t.Errorf("indices (-want +got):\n%s", diff)
	}
}
