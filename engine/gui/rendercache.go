package gui

import (
	"fmt"
	"sort"

	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gfx/meshheap"
	"github.com/hubastard/grove/engine/logger"
)

// RenderCacheEntry is the batched geometry of one viewport. Meshes,
// Materials and MeshWidgets are parallel; MeshWidgets holds the source
// widget of each mesh when meshes are separated by widget and nil otherwise.
type RenderCacheEntry struct {
	Widgets     []*Widget
	Meshes      []*meshheap.TransientMesh
	Materials   []Material
	MeshWidgets []*Widget
	Dirty       bool
}

// DrawItem is one mesh to draw. Transform maps mesh positions into target
// pixels.
type DrawItem struct {
	Mesh      *meshheap.TransientMesh
	Material  Material
	Transform core.Transform
}

// DrawList collects draw items in the order they must be drawn.
type DrawList struct {
	Items []DrawItem
}

func (dl *DrawList) Add(it DrawItem) { dl.Items = append(dl.Items, it) }
func (dl *DrawList) Len() int        { return len(dl.Items) }
func (dl *DrawList) Reset()          { dl.Items = dl.Items[:0] }

// renderGroup is one element render group staged for batching.
type renderGroup struct {
	elem   Element
	widget *Widget
	group  int
	mat    Material
	quads  int
	depth  int
	verts  []float32
	inds   []uint32
}

func (m *Manager) markViewportDirty(vp *core.Viewport) {
	if e := m.cache[vp]; e != nil {
		e.Dirty = true
	}
}

// rebuild regenerates the meshes of a dirty entry. Meshes it replaces are
// retired and only returned to the heap by the next Update, so a renderer
// still reading them this frame is safe.
func (m *Manager) rebuild(entry *RenderCacheEntry) {
	separate := m.opts.SeparateMeshesByWidget

	var groups []*renderGroup
	var failed map[Element]bool
	for _, w := range entry.Widgets {
		for _, e := range w.elements {
			b := e.Node()
			if b.destroyed || b.faulted {
				continue
			}
			staged, err := m.stage(w, e, separate)
			if err != nil {
				b.faulted = true
				if failed == nil {
					failed = make(map[Element]bool)
				}
				failed[e] = true
				m.report(err)
				continue
			}
			groups = append(groups, staged...)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.depth != b.depth {
			return a.depth > b.depth
		}
		if a.mat.ID != b.mat.ID {
			return a.mat.ID < b.mat.ID
		}
		if separate {
			return a.widget.order < b.widget.order
		}
		return false
	})

	var (
		meshes    []*meshheap.TransientMesh
		materials []Material
		widgets   []*Widget
		consumed  = make(map[Element]bool)
		complete  = true
	)
	for start := 0; start < len(groups); {
		end := start + 1
		for end < len(groups) && sameBatch(groups[start], groups[end], separate) {
			end++
		}
		run := groups[start:end]
		start = end

		quads := 0
		for _, g := range run {
			quads += g.quads
		}
		mesh, err := m.heap.Alloc(quads*4, quads*6)
		if err != nil {
			m.report(fmt.Errorf("gui: viewport mesh of %d quads: %w", quads, err))
			complete = false
			for _, g := range run {
				consumed[g.elem] = false
			}
			continue
		}

		vo, io := 0, 0
		for _, g := range run {
			base := uint32(vo / meshheap.VertexStride)
			vo += copy(mesh.Vertices[vo:], g.verts)
			for _, idx := range g.inds {
				mesh.Indices[io] = idx + base
				io++
			}
			if _, seen := consumed[g.elem]; !seen {
				consumed[g.elem] = true
			}
		}

		meshes = append(meshes, mesh)
		materials = append(materials, run[0].mat)
		if separate {
			widgets = append(widgets, run[0].widget)
		} else {
			widgets = append(widgets, nil)
		}
	}

	m.retired = append(m.retired, entry.Meshes...)
	entry.Meshes = meshes
	entry.Materials = materials
	entry.MeshWidgets = widgets
	entry.Dirty = !complete

	// Elements are cleaned once, whether they had zero, one or many groups.
	for _, w := range entry.Widgets {
		for _, e := range w.elements {
			b := e.Node()
			if b.destroyed || failed[e] || b.faulted {
				continue
			}
			if ok, seen := consumed[e]; seen && !ok {
				continue
			}
			m.safeCall(e, "mark clean", e.MarkClean)
		}
	}

	if len(failed) > 0 {
		logger.Logf("gui", "rebuilt viewport without %d faulted element(s)", len(failed))
	}
}

func sameBatch(a, b *renderGroup, separate bool) bool {
	if a.mat.ID != b.mat.ID {
		return false
	}
	return !separate || a.widget == b.widget
}

// stage collects the geometry of every render group of e into buffers sized
// exactly to the declared quad counts. Writing past them panics inside
// FillBuffer, which is recovered here and turned into a ContractError.
func (m *Manager) stage(w *Widget, e Element, separate bool) (groups []*renderGroup, err error) {
	group := -1
	defer func() {
		if r := recover(); r != nil {
			groups = nil
			err = &ContractError{Element: e, Group: group, Reason: fmt.Sprint(r)}
		}
	}()

	depth := e.Node().depth
	n := e.RenderGroupCount()
	for group = 0; group < n; group++ {
		quads := e.QuadCount(group)
		if quads <= 0 {
			continue
		}
		g := &renderGroup{
			elem:   e,
			widget: w,
			group:  group,
			mat:    e.Material(group),
			quads:  quads,
			depth:  depth,
			verts:  make([]float32, quads*4*meshheap.VertexStride),
			inds:   make([]uint32, quads*6),
		}
		written := e.FillBuffer(group, g.verts, g.verts[meshheap.UVOffset:], g.inds, 0, quads, meshheap.VertexStride, 1)
		if written > quads {
			return nil, &ContractError{Element: e, Group: group,
				Reason: fmt.Sprintf("wrote %d quads, declared %d", written, quads)}
		}
		limit := uint32(quads * 4)
		for _, idx := range g.inds {
			if idx >= limit {
				return nil, &ContractError{Element: e, Group: group,
					Reason: fmt.Sprintf("index %d outside %d vertices", idx, limit)}
			}
		}
		if !separate && w.transform != core.Identity {
			for o := 0; o < len(g.verts); o += meshheap.VertexStride {
				p := w.transform.Apply(core.Vec2{X: g.verts[o], Y: g.verts[o+1]})
				g.verts[o], g.verts[o+1] = p.X, p.Y
			}
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// freeRetired returns meshes replaced by earlier rebuilds to the heap.
func (m *Manager) freeRetired() {
	for _, mesh := range m.retired {
		if err := m.heap.Free(mesh); err != nil {
			logger.Log("gui", err.Error())
		}
	}
	m.retired = m.retired[:0]
}
