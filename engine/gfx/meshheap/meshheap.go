// Package meshheap is a bounded pool of transient meshes.
//
// Meshes are handed out with generation-tagged handles. Freeing a mesh
// bumps its slot generation, so a renderer holding a stale *TransientMesh
// can detect it with Valid instead of reading recycled buffers.
package meshheap

import (
	"errors"
	"fmt"
	"sync"
)

// VertexStride is the number of floats per vertex: position xy, then uv.
const VertexStride = 4

// UVOffset is the float offset of the uv pair inside a vertex.
const UVOffset = 2

var (
	ErrHeapExhausted = errors.New("mesh heap exhausted")
	ErrStaleHandle   = errors.New("stale mesh handle")
)

// Handle identifies a mesh slot at a particular generation.
type Handle struct {
	Index uint32
	Gen   uint32
}

// TransientMesh is interleaved vertex data plus indices, valid until freed.
type TransientMesh struct {
	Handle   Handle
	Vertices []float32 // len = NumVertices * VertexStride
	Indices  []uint32
	heap     *Heap
}

func (m *TransientMesh) NumVertices() int { return len(m.Vertices) / VertexStride }
func (m *TransientMesh) NumIndices() int  { return len(m.Indices) }

// Valid reports whether the mesh has not been returned to its heap.
func (m *TransientMesh) Valid() bool {
	return m != nil && m.heap != nil && m.heap.Valid(m.Handle)
}

// Position returns the position of vertex i.
func (m *TransientMesh) Position(i int) (x, y float32) {
	o := i * VertexStride
	return m.Vertices[o], m.Vertices[o+1]
}

// UV returns the texture coordinate of vertex i.
func (m *TransientMesh) UV(i int) (u, v float32) {
	o := i*VertexStride + UVOffset
	return m.Vertices[o], m.Vertices[o+1]
}

type slot struct {
	gen   uint32
	live  bool
	verts []float32
	inds  []uint32
}

// Heap bounds the total number of live vertices and indices.
type Heap struct {
	mu          sync.Mutex
	maxVertices int
	maxIndices  int
	usedVerts   int
	usedIndices int
	slots       []slot
	free        []uint32
}

func New(maxVertices, maxIndices int) *Heap {
	return &Heap{maxVertices: maxVertices, maxIndices: maxIndices}
}

// Alloc returns a zeroed mesh with exactly numVertices vertices and
// numIndices indices.
func (h *Heap) Alloc(numVertices, numIndices int) (*TransientMesh, error) {
	if numVertices < 0 || numIndices < 0 {
		return nil, fmt.Errorf("alloc %d/%d: negative size", numVertices, numIndices)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.usedVerts+numVertices > h.maxVertices || h.usedIndices+numIndices > h.maxIndices {
		return nil, fmt.Errorf("alloc %d vertices, %d indices (%d/%d, %d/%d in use): %w",
			numVertices, numIndices, h.usedVerts, h.maxVertices, h.usedIndices, h.maxIndices, ErrHeapExhausted)
	}

	var idx uint32
	if n := len(h.free); n > 0 {
		idx = h.free[n-1]
		h.free = h.free[:n-1]
	} else {
		h.slots = append(h.slots, slot{})
		idx = uint32(len(h.slots) - 1)
	}
	s := &h.slots[idx]
	s.live = true
	s.verts = resizeFloats(s.verts, numVertices*VertexStride)
	s.inds = resizeUints(s.inds, numIndices)

	h.usedVerts += numVertices
	h.usedIndices += numIndices

	return &TransientMesh{
		Handle:   Handle{Index: idx, Gen: s.gen},
		Vertices: s.verts,
		Indices:  s.inds,
		heap:     h,
	}, nil
}

// Free returns m to the heap. Freeing twice reports ErrStaleHandle.
func (h *Heap) Free(m *TransientMesh) error {
	if m == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.validLocked(m.Handle) {
		return fmt.Errorf("free %v: %w", m.Handle, ErrStaleHandle)
	}
	s := &h.slots[m.Handle.Index]
	s.live = false
	s.gen++
	h.usedVerts -= len(m.Vertices) / VertexStride
	h.usedIndices -= len(m.Indices)
	h.free = append(h.free, m.Handle.Index)
	return nil
}

func (h *Heap) Valid(handle Handle) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.validLocked(handle)
}

func (h *Heap) validLocked(handle Handle) bool {
	if int(handle.Index) >= len(h.slots) {
		return false
	}
	s := h.slots[handle.Index]
	return s.live && s.gen == handle.Gen
}

// Stats describes current heap usage.
type Stats struct {
	LiveMeshes  int
	Vertices    int
	Indices     int
	MaxVertices int
	MaxIndices  int
}

func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		LiveMeshes:  len(h.slots) - len(h.free),
		Vertices:    h.usedVerts,
		Indices:     h.usedIndices,
		MaxVertices: h.maxVertices,
		MaxIndices:  h.maxIndices,
	}
}

// --- internals ---

func resizeFloats(b []float32, n int) []float32 {
	if cap(b) < n {
		return make([]float32, n)
	}
	b = b[:n]
	clear(b)
	return b
}

func resizeUints(b []uint32, n int) []uint32 {
	if cap(b) < n {
		return make([]uint32, n)
	}
	b = b[:n]
	clear(b)
	return b
}
