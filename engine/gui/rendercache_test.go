package gui

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hubastard/grove/engine/config"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gfx/meshheap"
)

func TestBatchingAcrossWidgets(t *testing.T) {
	tests := []struct {
		name       string
		separate   bool
		wantMeshes int
	}{
		{"merged", false, 1},
		{"separated by widget", true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := config.DefaultGUI()
			opts.SeparateMeshesByWidget = tt.separate
			e := newEnv(t, opts)
			w1 := NewWidget(e.m, e.vp)
			w2 := NewWidget(e.m, e.vp)
			e.element(w1, "a", core.R(0, 0, 10, 10), 0)
			e.element(w2, "b", core.R(20, 0, 10, 10), 0)

			e.m.Update()

			entry := e.m.Cache(e.vp)
			if got := len(entry.Meshes); got != tt.wantMeshes {
				t.Fatalf("got %d meshes, want %d", got, tt.wantMeshes)
			}
			verts, inds := 0, 0
			for _, mesh := range entry.Meshes {
				verts += mesh.NumVertices()
				inds += mesh.NumIndices()
			}
			if verts != 8 || inds != 12 {
				t.Errorf("got %d vertices, %d indices; want 8, 12 (4 and 6 per quad)", verts, inds)
			}
			if tt.separate {
				samePtr := cmp.Comparer(func(a, b *Widget) bool { return a == b })
				if diff := cmp.Diff([]*Widget{w1, w2}, entry.MeshWidgets, samePtr); diff != "" {
					t.Errorf("mesh widgets (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestRebuildRebasesIndices(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	w := NewWidget(e.m, e.vp)
	e.element(w, "a", core.R(0, 0, 10, 10), 0)
	e.element(w, "b", core.R(20, 0, 10, 10), 0)
	e.m.Update()

	mesh := e.m.Cache(e.vp).Meshes[0]
	want := []uint32{0, 2, 1, 1, 2, 3, 4, 6, 5, 5, 6, 7}
	if diff := cmp.Diff(want, mesh.Indices); diff != "" {
		t.Errorf("indices (-want +got):\n%s", diff)
	}
	var corners []core.Vec2
	for i := 4; i < 8; i++ {
		x, y := mesh.Position(i)
		corners = append(corners, core.V2(x, y))
	}
	wantCorners := []core.Vec2{{X: 20, Y: 0}, {X: 30, Y: 0}, {X: 20, Y: 10}, {X: 30, Y: 10}}
	if diff := cmp.Diff(wantCorners, corners); diff != "" {
		t.Errorf("second quad corners (-want +got):\n%s", diff)
	}
	if u, v := mesh.UV(7); u != 1 || v != 1 {
		t.Errorf("bottom-right uv = %v,%v, want 1,1", u, v)
	}
}

func TestRebuildOrdersByDepth(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	w := NewWidget(e.m, e.vp)
	near := e.element(w, "near", core.R(0, 0, 10, 10), 0)
	far := e.element(w, "far", core.R(0, 0, 10, 10), 5)
	mid := e.element(w, "mid", core.R(0, 0, 10, 10), 2)
	far.mat = e.accent
	near.mat = e.accent
	mid.MarkDirty()
	e.m.Update()

	var got []MaterialID
	for _, mat := range e.m.Cache(e.vp).Materials {
		got = append(got, mat.ID)
	}
	want := []MaterialID{e.accent.ID, e.solid.ID, e.accent.ID}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mesh materials, far to near (-want +got):\n%s", diff)
	}
}

func TestWidgetTransformBakedWhenMerged(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	w := NewWidget(e.m, e.vp)
	w.SetTransform(core.Translate(100, 50))
	e.element(w, "a", core.R(0, 0, 10, 10), 0)
	e.m.Update()

	var dl DrawList
	e.m.Render(e.vp, &dl)
	if dl.Len() != 1 {
		t.Fatalf("got %d draw items, want 1", dl.Len())
	}
	if dl.Items[0].Transform != core.Identity {
		t.Errorf("merged mesh transform = %+v, want identity", dl.Items[0].Transform)
	}
	if x, y := dl.Items[0].Mesh.Position(0); x != 100 || y != 50 {
		t.Errorf("first vertex at %v,%v, want 100,50", x, y)
	}
}

func TestWidgetTransformKeptWhenSeparated(t *testing.T) {
	opts := config.DefaultGUI()
	opts.SeparateMeshesByWidget = true
	e := newEnv(t, opts)
	w := NewWidget(e.m, e.vp)
	w.SetTransform(core.Translate(100, 50))
	e.element(w, "a", core.R(0, 0, 10, 10), 0)
	e.m.Update()

	var dl DrawList
	e.m.Render(e.vp, &dl)
	if dl.Items[0].Transform != core.Translate(100, 50) {
		t.Errorf("transform = %+v, want the widget transform", dl.Items[0].Transform)
	}
	if x, y := dl.Items[0].Mesh.Position(0); x != 0 || y != 0 {
		t.Errorf("first vertex at %v,%v, want widget-local 0,0", x, y)
	}
}

func TestRenderUnknownViewport(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	var dl DrawList
	e.m.Render(core.NewViewport(newFakeWindow()), &dl)
	if dl.Len() != 0 {
		t.Errorf("unknown viewport produced %d items", dl.Len())
	}
}

func TestRenderRebuildsDirtyEntry(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	w := NewWidget(e.m, e.vp)
	e.element(w, "a", core.R(0, 0, 10, 10), 0)

	var dl DrawList
	e.m.Render(e.vp, &dl)
	if dl.Len() != 1 {
		t.Fatalf("got %d items before any Update, want 1", dl.Len())
	}
	if e.m.Cache(e.vp).Dirty {
		t.Error("entry still dirty after Render")
	}
}

func TestContractViolationDropsElement(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	w := NewWidget(e.m, e.vp)
	good := e.element(w, "good", core.R(0, 0, 10, 10), 0)
	bad := e.element(w, "bad", core.R(20, 0, 10, 10), 0)
	bad.overflow = true

	e.m.Update()

	if len(e.errs) != 1 || !errors.Is(e.errs[0], ErrContractViolation) {
		t.Fatalf("errors = %v, want one contract violation", e.errs)
	}
	var ce *ContractError
	if !errors.As(e.errs[0], &ce) || ce.Element != bad {
		t.Errorf("contract error names %v, want the bad element", ce)
	}
	entry := e.m.Cache(e.vp)
	if n := entry.Meshes[0].NumVertices(); n != 4 {
		t.Errorf("mesh has %d vertices, want only the good quad", n)
	}
	if good.cleaned != 1 || bad.cleaned != 0 {
		t.Errorf("cleaned good=%d bad=%d, want 1 and 0", good.cleaned, bad.cleaned)
	}
	if !bad.Faulted() || bad.Destroyed() {
		t.Errorf("bad element faulted=%v destroyed=%v, want faulted and alive", bad.Faulted(), bad.Destroyed())
	}

	bad.overflow = false
	bad.MarkDirty()
	e.m.Update()
	if n := e.m.Cache(e.vp).Meshes[0].NumVertices(); n != 8 {
		t.Errorf("after fix mesh has %d vertices, want 8", n)
	}
	if bad.cleaned != 1 {
		t.Errorf("fixed element cleaned %d times, want 1", bad.cleaned)
	}
}

func TestHeapExhaustionKeepsEntryDirty(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	e.m.heap = meshheap.New(4, 6)
	w := NewWidget(e.m, e.vp)
	e.element(w, "a", core.R(0, 0, 10, 10), 1)
	b := e.element(w, "b", core.R(0, 0, 10, 10), 0)
	b.mat = e.accent

	e.m.Update()

	entry := e.m.Cache(e.vp)
	if len(entry.Meshes) != 1 {
		t.Errorf("got %d meshes, want the one that fit", len(entry.Meshes))
	}
	if !entry.Dirty {
		t.Error("entry clean after a failed allocation")
	}
	if len(e.errs) == 0 || !errors.Is(e.errs[0], meshheap.ErrHeapExhausted) {
		t.Errorf("errors = %v, want heap exhaustion", e.errs)
	}
	if b.cleaned != 0 {
		t.Error("element of the dropped mesh was marked clean")
	}
}

func TestRetiredMeshesLiveUntilNextUpdate(t *testing.T) {
	e := newEnv(t, config.DefaultGUI())
	w := NewWidget(e.m, e.vp)
	a := e.element(w, "a", core.R(0, 0, 10, 10), 0)
	e.m.Update()
	old := e.m.Cache(e.vp).Meshes[0]

	a.SetBounds(core.R(5, 5, 10, 10))
	var dl DrawList
	e.m.Render(e.vp, &dl)
	if !old.Valid() {
		t.Fatal("replaced mesh freed before the next Update")
	}
	e.m.Update()
	if old.Valid() {
		t.Error("replaced mesh still live after the next Update")
	}
}

// Randomized scenes must always satisfy the batching invariants.
func TestRebuildInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		opts := config.DefaultGUI()
		opts.SeparateMeshesByWidget = round%2 == 1
		e := newEnv(t, opts)
		mats := []Material{e.solid, e.accent, e.m.Materials().Solid([4]float32{0, 1, 0, 1})}

		var all []*testElement
		total := 0
		for wi := 0; wi < 1+rng.Intn(4); wi++ {
			w := NewWidget(e.m, e.vp)
			for ei := 0; ei < rng.Intn(6); ei++ {
				el := e.element(w, "e", core.R(float32(ei*10), 0, 10, 10), rng.Intn(3))
				el.quads = rng.Intn(4)
				el.mat = mats[rng.Intn(len(mats))]
				el.MarkDirty()
				total += el.quads
				all = append(all, el)
			}
		}

		e.m.Update()

		entry := e.m.Cache(e.vp)
		if entry.Dirty {
			t.Fatalf("round %d: entry dirty after Update", round)
		}
		if len(entry.Meshes) != len(entry.Materials) || len(entry.Meshes) != len(entry.MeshWidgets) {
			t.Fatalf("round %d: parallel slices %d/%d/%d", round,
				len(entry.Meshes), len(entry.Materials), len(entry.MeshWidgets))
		}
		sum := 0
		for i, mesh := range entry.Meshes {
			quads := mesh.NumVertices() / 4
			sum += quads
			if mesh.NumVertices() != 4*quads || mesh.NumIndices() != 6*quads {
				t.Errorf("round %d mesh %d: %d vertices, %d indices", round, i, mesh.NumVertices(), mesh.NumIndices())
			}
			for _, idx := range mesh.Indices {
				if int(idx) >= 4*quads {
					t.Errorf("round %d mesh %d: index %d out of range", round, i, idx)
				}
			}
			if i == 0 {
				continue
			}
			sameMat := entry.Materials[i].ID == entry.Materials[i-1].ID
			sameWidget := entry.MeshWidgets[i] == entry.MeshWidgets[i-1]
			if sameMat && (!opts.SeparateMeshesByWidget || sameWidget) {
				t.Errorf("round %d: meshes %d and %d should have been merged", round, i-1, i)
			}
		}
		if sum != total {
			t.Errorf("round %d: meshes hold %d quads, elements declared %d", round, sum, total)
		}
		for _, el := range all {
			if el.cleaned != 1 {
				t.Errorf("round %d: element cleaned %d times, want 1", round, el.cleaned)
			}
		}
	}
}
