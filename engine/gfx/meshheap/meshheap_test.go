package meshheap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAllocExactSize(t *testing.T) {
	h := New(64, 96)
	m, err := h.Alloc(8, 12)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if m.NumVertices() != 8 || m.NumIndices() != 12 {
		t.Errorf("got %d vertices, %d indices; want 8, 12", m.NumVertices(), m.NumIndices())
	}
	if len(m.Vertices) != 8*VertexStride {
		t.Errorf("vertex buffer len = %d, want %d", len(m.Vertices), 8*VertexStride)
	}
	if !m.Valid() {
		t.Error("fresh mesh is not valid")
	}
}

func TestAllocRespectsBudget(t *testing.T) {
	h := New(8, 12)
	if _, err := h.Alloc(4, 6); err != nil {
		t.Fatalf("first Alloc: %v", err)
	}
	if _, err := h.Alloc(8, 6); !errors.Is(err, ErrHeapExhausted) {
		t.Errorf("over-budget Alloc error = %v, want ErrHeapExhausted", err)
	}
	if _, err := h.Alloc(4, 6); err != nil {
		t.Errorf("Alloc filling the budget: %v", err)
	}
}

func TestFreeInvalidatesAndRecycles(t *testing.T) {
	h := New(16, 24)
	a, _ := h.Alloc(4, 6)
	a.Vertices[0] = 42

	if err := h.Free(a); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if a.Valid() {
		t.Error("freed mesh still valid")
	}
	if err := h.Free(a); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("double Free error = %v, want ErrStaleHandle", err)
	}

	b, err := h.Alloc(4, 6)
	if err != nil {
		t.Fatalf("Alloc after Free: %v", err)
	}
	if b.Handle.Index != a.Handle.Index || b.Handle.Gen == a.Handle.Gen {
		t.Errorf("handles a=%v b=%v: want same slot, new generation", a.Handle, b.Handle)
	}
	if b.Vertices[0] != 0 {
		t.Errorf("recycled mesh not zeroed: %v", b.Vertices[0])
	}
	if a.Valid() {
		t.Error("stale handle became valid after slot reuse")
	}
}

func TestStats(t *testing.T) {
	h := New(100, 150)
	a, _ := h.Alloc(4, 6)
	h.Alloc(8, 12)
	h.Free(a)

	want := Stats{LiveMeshes: 1, Vertices: 8, Indices: 12, MaxVertices: 100, MaxIndices: 150}
	if diff := cmp.Diff(want, h.Stats()); diff != "" {
		t.Errorf("unexpected stats:\n%s", diff)
	}
}

func TestAccessors(t *testing.T) {
	h := New(4, 6)
	m, _ := h.Alloc(1, 0)
	copy(m.Vertices, []float32{1, 2, 3, 4})
	if x, y := m.Position(0); x != 1 || y != 2 {
		t.Errorf("Position(0) = %v,%v", x, y)
	}
	if u, v := m.UV(0); u != 3 || v != 4 {
		t.Errorf("UV(0) = %v,%v", u, v)
	}
}
