package glbackend

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/logger"
)

var errForeignResource = errors.New("resource was not created by this renderer")

type texture struct {
	core.TextureHandle
	id   uint32
	w, h int
}

type mesh struct {
	core.MeshHandle
	vao, vbo, ebo uint32
	vertCap       int // floats
	indCap        int
	indexCount    int
	usage         uint32
}

type pipeline struct {
	core.PipelineHandle
	program   uint32
	depthTest bool
	blend     bool
	locations map[string]int32
}

type RendererGL struct {
	win       core.Window
	textures  []*texture
	meshes    []*mesh
	pipelines []*pipeline
}

func NewRendererGL(win core.Window, _ core.Config) (*RendererGL, error) {
	r := &RendererGL{win: win}
	if err := r.Init(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RendererGL) Init() error {
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	logger.Logf("gl", "%s / %s / %s", r.GPUVendor(), r.GPURenderer(), r.GPUVersion())
	return nil
}

func (r *RendererGL) Shutdown() {
	for _, m := range r.meshes {
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		gl.DeleteVertexArrays(1, &m.vao)
	}
	for _, t := range r.textures {
		gl.DeleteTextures(1, &t.id)
	}
	for _, p := range r.pipelines {
		gl.DeleteProgram(p.program)
	}
	r.meshes, r.textures, r.pipelines = nil, nil, nil
}

func (r *RendererGL) Resize(w, h int) {
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (r *RendererGL) Clear(rf, gf, bf, af float32) {
	gl.ClearColor(rf, gf, bf, af)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (r *RendererGL) GPUVendor() string   { return gl.GoStr(gl.GetString(gl.VENDOR)) }
func (r *RendererGL) GPURenderer() string { return gl.GoStr(gl.GetString(gl.RENDERER)) }
func (r *RendererGL) GPUVersion() string  { return gl.GoStr(gl.GetString(gl.VERSION)) }

// ---- textures ----

func filterMode(s string) int32 {
	if s == "nearest" {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func wrapMode(s string) int32 {
	if s == "repeat" {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

func (r *RendererGL) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	if desc.Format != core.TextureRGBA8 {
		return nil, fmt.Errorf("texture format %d not supported", desc.Format)
	}
	if want := desc.Width * desc.Height * 4; len(desc.Pixels) != want {
		return nil, fmt.Errorf("texture %dx%d needs %d bytes, got %d", desc.Width, desc.Height, want, len(desc.Pixels))
	}
	t := &texture{w: desc.Width, h: desc.Height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filterMode(desc.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filterMode(desc.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapMode(desc.WrapU))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapMode(desc.WrapV))
	var pix unsafe.Pointer
	if len(desc.Pixels) > 0 {
		pix = gl.Ptr(desc.Pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(desc.Width), int32(desc.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, pix)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	r.textures = append(r.textures, t)
	return t, nil
}

// ---- meshes ----

func (r *RendererGL) CreateMesh(desc core.MeshDesc) (core.Mesh, error) {
	m := &mesh{usage: gl.STATIC_DRAW}
	if desc.Dynamic {
		m.usage = gl.DYNAMIC_DRAW
	}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	m.upload(desc.Vertices, desc.Indices)

	for _, a := range desc.Layout.Attributes {
		if a.Type != core.AttribFloat32 {
			gl.BindVertexArray(0)
			return nil, fmt.Errorf("vertex attribute %d: unsupported type %d", a.Location, a.Type)
		}
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, desc.Layout.Stride, uintptr(a.Offset))
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	r.meshes = append(r.meshes, m)
	return m, nil
}

// upload expects the mesh's buffers to be bound.
func (m *mesh) upload(verts []float32, inds []uint32) {
	if len(verts) > m.vertCap {
		m.vertCap = len(verts)
		gl.BufferData(gl.ARRAY_BUFFER, m.vertCap*4, nil, m.usage)
	}
	if len(verts) > 0 {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(verts))
	}
	if len(inds) > m.indCap {
		m.indCap = len(inds)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, m.indCap*4, nil, m.usage)
	}
	if len(inds) > 0 {
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(inds)*4, gl.Ptr(inds))
	}
	m.indexCount = len(inds)
}

func (r *RendererGL) UpdateMesh(cm core.Mesh, verts []float32, inds []uint32) error {
	m, ok := cm.(*mesh)
	if !ok {
		return errForeignResource
	}
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	m.upload(verts, inds)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

// ---- pipelines ----

func (r *RendererGL) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	prog, err := makeProgram(desc.VertexSource, desc.FragmentSource)
	if err != nil {
		return nil, err
	}
	p := &pipeline{program: prog, depthTest: desc.DepthTest, blend: desc.Blend, locations: map[string]int32{}}
	r.pipelines = append(r.pipelines, p)
	return p, nil
}

func (p *pipeline) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.program, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

func (r *RendererGL) Draw(cmd core.DrawCmd) {
	p, ok := cmd.Pipe.(*pipeline)
	m, ok2 := cmd.Mesh.(*mesh)
	if !ok || !ok2 {
		logger.Log("gl", errForeignResource.Error())
		return
	}

	if p.depthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	if p.blend {
		gl.Enable(gl.BLEND)
	} else {
		gl.Disable(gl.BLEND)
	}

	gl.UseProgram(p.program)
	for name, v := range cmd.Uniforms {
		setUniform(p.location(name), name, v)
	}
	unit := int32(0)
	for name, ct := range cmd.Samplers {
		t, ok := ct.(*texture)
		if !ok {
			logger.Logf("gl", "sampler %s: %v", name, errForeignResource)
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, t.id)
		gl.Uniform1i(p.location(name), unit)
		unit++
	}

	n := cmd.IndexCount
	if n <= 0 || n > m.indexCount {
		n = m.indexCount
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(n), gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func setUniform(loc int32, name string, v any) {
	if loc < 0 {
		return
	}
	switch u := v.(type) {
	case float32:
		gl.Uniform1f(loc, u)
	case int32:
		gl.Uniform1i(loc, u)
	case int:
		gl.Uniform1i(loc, int32(u))
	case [2]float32:
		gl.Uniform2f(loc, u[0], u[1])
	case [4]float32:
		gl.Uniform4f(loc, u[0], u[1], u[2], u[3])
	case [16]float32:
		gl.UniformMatrix4fv(loc, 1, false, &u[0])
	default:
		logger.Logf("gl", "uniform %s: unsupported type %T", name, v)
	}
}

// --- Shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	if !strings.HasSuffix(src, "\x00") {
		src += "\x00"
	}
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return prog, nil
}
