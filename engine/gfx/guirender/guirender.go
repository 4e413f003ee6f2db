// Package guirender draws the meshes a gui.Manager caches for a viewport
// through a core.Renderer.
package guirender

import (
	"fmt"

	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gfx/meshheap"
	"github.com/hubastard/grove/engine/gui"
	"github.com/hubastard/grove/engine/logger"
	"github.com/hubastard/grove/engine/profiler"
)

// Vertex: pos2 + uv2, straight from the mesh heap.
var vertexLayout = core.VertexLayout{
	Stride: meshheap.VertexStride * 4,
	Attributes: []core.VertexAttrib{
		{Location: 0, Size: 2, Type: core.AttribFloat32, Offset: 0},                     // pos
		{Location: 1, Size: 2, Type: core.AttribFloat32, Offset: meshheap.UVOffset * 4}, // uv
	},
}

const VertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec2 aUV;
uniform mat4 uMVP;
out vec2 vUV;
void main() {
    vUV = aUV;
    gl_Position = uMVP * vec4(aPos, 0.0, 1.0);
}
` + "\x00"

const FragmentSource = `
#version 330 core
in vec2 vUV;
uniform sampler2D uTex;
uniform vec4 uTint;
out vec4 FragColor;
void main() {
    FragColor = texture(uTex, vUV) * uTint;
}
` + "\x00"

// Statistics captures the counts generated during a frame.
type Statistics struct {
	DrawCalls    int
	QuadCount    int
	TextureCount int
	// Meshes freed by the manager before they were drawn.
	StaleMeshes int
}

func (s Statistics) TotalVertexCount() int { return s.QuadCount * 4 }
func (s Statistics) TotalIndexCount() int  { return s.QuadCount * 6 }

type Renderer struct {
	r     core.Renderer
	pipe  core.Pipeline
	white core.Texture

	// one backend mesh per draw slot, grown on demand
	meshes []core.Mesh

	dl       gui.DrawList
	textures map[core.Texture]struct{}
	uniforms map[string]any
	samplers map[string]core.Texture
	stats    Statistics
}

// New compiles the GUI pipeline. Empty sources select the built-in shaders.
func New(r core.Renderer, vertSrc, fragSrc string) (*Renderer, error) {
	if vertSrc == "" {
		vertSrc = VertexSource
	}
	if fragSrc == "" {
		fragSrc = FragmentSource
	}
	pipe, err := r.CreatePipeline(core.PipelineDesc{
		VertexSource:   vertSrc,
		FragmentSource: fragSrc,
		DepthTest:      false,
		Blend:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("gui pipeline: %w", err)
	}

	white, err := r.CreateTexture(core.TextureDesc{
		Width: 1, Height: 1,
		Format:    core.TextureRGBA8,
		Pixels:    []byte{255, 255, 255, 255},
		MinFilter: "nearest", MagFilter: "nearest",
		WrapU: "clamp", WrapV: "clamp",
	})
	if err != nil {
		return nil, fmt.Errorf("gui white texture: %w", err)
	}

	return &Renderer{
		r:        r,
		pipe:     pipe,
		white:    white,
		textures: make(map[core.Texture]struct{}),
		uniforms: make(map[string]any, 2),
		samplers: make(map[string]core.Texture, 1),
	}, nil
}

// Stats returns the statistics of the last DrawViewport.
func (g *Renderer) Stats() Statistics { return g.stats }

// DrawViewport draws everything m has cached for vp.
func (g *Renderer) DrawViewport(m *gui.Manager, vp *core.Viewport) error {
	defer profiler.Start("guirender.DrawViewport")()
	g.dl.Reset()
	m.Render(vp, &g.dl)
	return g.Draw(&g.dl, vp)
}

// Draw submits one draw call per item. Positions are in viewport space;
// the projection maps them into the viewport's area of its target.
func (g *Renderer) Draw(dl *gui.DrawList, vp *core.Viewport) error {
	g.stats = Statistics{}
	clear(g.textures)

	tw, th := vp.Target.Size()
	area := vp.Bounds()
	proj := core.MulMat4(core.Ortho(float32(tw), float32(th)), core.Translate(area.X, area.Y).Mat4())

	for i, it := range dl.Items {
		if !it.Mesh.Valid() {
			g.stats.StaleMeshes++
			logger.Log("guirender", "skipping freed mesh")
			continue
		}
		mesh, err := g.slot(i, it.Mesh)
		if err != nil {
			return err
		}

		tex := it.Material.Texture
		if tex == nil {
			tex = g.white
		}
		g.textures[tex] = struct{}{}
		g.samplers["uTex"] = tex
		g.uniforms["uMVP"] = core.MulMat4(proj, it.Transform.Mat4())
		g.uniforms["uTint"] = [4]float32(it.Material.Tint)

		g.r.Draw(core.DrawCmd{
			Pipe:       g.pipe,
			Mesh:       mesh,
			IndexCount: it.Mesh.NumIndices(),
			Uniforms:   g.uniforms,
			Samplers:   g.samplers,
		})
		g.stats.DrawCalls++
		g.stats.QuadCount += it.Mesh.NumIndices() / 6
	}
	g.stats.TextureCount = len(g.textures)
	return nil
}

// slot uploads src into the i-th backend mesh, creating it if needed.
func (g *Renderer) slot(i int, src *meshheap.TransientMesh) (core.Mesh, error) {
	if i < len(g.meshes) {
		if err := g.r.UpdateMesh(g.meshes[i], src.Vertices, src.Indices); err != nil {
			return nil, fmt.Errorf("update gui mesh %d: %w", i, err)
		}
		return g.meshes[i], nil
	}
	mesh, err := g.r.CreateMesh(core.MeshDesc{
		Vertices: src.Vertices,
		Indices:  src.Indices,
		Layout:   vertexLayout,
		Dynamic:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("create gui mesh %d: %w", i, err)
	}
	g.meshes = append(g.meshes, mesh)
	return mesh, nil
}
