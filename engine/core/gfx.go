package core

// Backend-neutral GPU resource descriptions. Handles are opaque; only the
// backend that created them knows what is behind them.

type Texture interface{ isTexture() }
type Mesh interface{ isMesh() }
type Pipeline interface{ isPipeline() }

// TextureHandle, MeshHandle and PipelineHandle are embedded by backend
// resources to satisfy the opaque handle interfaces.
type TextureHandle struct{}

func (TextureHandle) isTexture() {}

type MeshHandle struct{}

func (MeshHandle) isMesh() {}

type PipelineHandle struct{}

func (PipelineHandle) isPipeline() {}

type TextureFormat int

const (
	TextureRGBA8 TextureFormat = iota
)

type TextureDesc struct {
	Width, Height        int
	Format               TextureFormat
	Pixels               []byte
	MinFilter, MagFilter string // "nearest" | "linear"
	WrapU, WrapV         string // "clamp" | "repeat"
}

type AttribType int

const (
	AttribFloat32 AttribType = iota
)

type VertexAttrib struct {
	Location uint32
	Size     int32 // component count
	Type     AttribType
	Offset   int // bytes
}

type VertexLayout struct {
	Stride     int32 // bytes
	Attributes []VertexAttrib
}

type MeshDesc struct {
	Vertices []float32
	Indices  []uint32
	Layout   VertexLayout
	Dynamic  bool
}

type PipelineDesc struct {
	VertexSource   string
	FragmentSource string
	DepthTest      bool
	Blend          bool
}

// DrawCmd is one indexed draw of a mesh with a pipeline.
type DrawCmd struct {
	Pipe       Pipeline
	Mesh       Mesh
	IndexCount int // 0 draws every index of the mesh
	Uniforms   map[string]any
	Samplers   map[string]Texture
}

// TextureFactory creates textures. The GUI runtime only needs this much of a
// renderer to build its caret and selection sprites.
type TextureFactory interface {
	CreateTexture(desc TextureDesc) (Texture, error)
}

// Renderer abstraction.
type Renderer interface {
	TextureFactory
	Init() error
	Resize(w, h int)
	Clear(r, g, b, a float32)
	CreatePipeline(desc PipelineDesc) (Pipeline, error)
	CreateMesh(desc MeshDesc) (Mesh, error)
	UpdateMesh(m Mesh, vertices []float32, indices []uint32) error
	Draw(cmd DrawCmd)
	GPUVendor() string
	GPURenderer() string
	GPUVersion() string
	Shutdown()
}

// ImageTexture is a CPU-side texture, used when no GPU factory is present
// and by tests.
type ImageTexture struct {
	TextureHandle
	Desc TextureDesc
}

type imageTextures struct{}

func (imageTextures) CreateTexture(desc TextureDesc) (Texture, error) {
	px := make([]byte, len(desc.Pixels))
	copy(px, desc.Pixels)
	desc.Pixels = px
	return &ImageTexture{Desc: desc}, nil
}

// ImageTextures is a TextureFactory that keeps pixels in memory.
var ImageTextures TextureFactory = imageTextures{}
