package model

import (
	"sync"

	"github.com/Carmen-Shannon/orbit-go/common"
)

// Disposable is implemented by every GPU-backed resource variant owned by a
// model: geometry buffers, textures, and materials. Release frees the device
// memory behind the resource. Implementations are idempotent — releasing an
// already-released resource is a no-op.
type Disposable interface {
	// Release frees the GPU resources held by this object.
	Release()
}

// Geometry holds a mesh's vertex and index data along with the GPU buffer
// handles created at upload time. The releaser is installed by the renderer
// when the buffers are created; before upload (or in tests) it is nil and
// Release only marks the geometry as released.
type Geometry struct {
	mu sync.Mutex

	// Vertices are the interleaved CPU-side vertices staged for upload.
	Vertices []Vertex

	// Indices are the CPU-side triangle indices staged for upload.
	Indices []uint32

	// VAO, VBO and EBO are the GPU object handles (0 until uploaded).
	VAO, VBO, EBO uint32

	// IndexCount is the number of indices to draw.
	IndexCount int32

	releaser func(vao, vbo, ebo uint32)
	uploaded bool
	released bool
}

var _ Disposable = &Geometry{}

// SetGPUHandles records the GPU buffer handles and the release hook after a
// successful upload.
//
// Parameters:
//   - vao, vbo, ebo: the created GPU object handles
//   - releaser: function that deletes the handles on the render thread
func (g *Geometry) SetGPUHandles(vao, vbo, ebo uint32, releaser func(vao, vbo, ebo uint32)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.VAO, g.VBO, g.EBO = vao, vbo, ebo
	g.releaser = releaser
	g.uploaded = true
}

// Uploaded reports whether GPU buffers have been created for this geometry.
//
// Returns:
//   - bool: true once SetGPUHandles has been called
func (g *Geometry) Uploaded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.uploaded
}

// Release frees the geometry's GPU buffers. Safe to call on a nil receiver
// and safe to call more than once.
func (g *Geometry) Release() {
	if g == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return
	}
	g.released = true
	if g.releaser != nil {
		g.releaser(g.VAO, g.VBO, g.EBO)
	}
	g.VAO, g.VBO, g.EBO = 0, 0, 0
	g.uploaded = false
}

// Texture holds a GPU texture handle plus the imported pixel source.
type Texture struct {
	mu sync.Mutex

	// Source is the imported texture data this GPU texture was created from.
	Source *common.ImportedTexture

	// Handle is the GPU texture object (0 until uploaded).
	Handle uint32

	releaser func(handle uint32)
	released bool
}

var _ Disposable = &Texture{}

// SetGPUHandle records the GPU texture handle and the release hook after a
// successful upload.
//
// Parameters:
//   - handle: the created GPU texture object
//   - releaser: function that deletes the handle on the render thread
func (t *Texture) SetGPUHandle(handle uint32, releaser func(handle uint32)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Handle = handle
	t.releaser = releaser
}

// Release frees the texture's GPU memory. Safe to call on a nil receiver and
// safe to call more than once.
func (t *Texture) Release() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	t.released = true
	if t.releaser != nil {
		t.releaser(t.Handle)
	}
	t.Handle = 0
}

// Material holds the shading parameters for a mesh along with any textures it
// references. Releasing a material releases every disposable resource it
// owns, then the material itself.
type Material struct {
	mu sync.Mutex

	// Name is the material identifier.
	Name string

	// BaseColor is the albedo color (RGBA).
	BaseColor [4]float32

	// Metallic factor (0.0 = dielectric, 1.0 = metal).
	Metallic float32

	// Roughness factor (0.0 = smooth, 1.0 = rough).
	Roughness float32

	// Opaque forces an alpha of 1.0 during rendering.
	Opaque bool

	// Wireframe renders meshes using this material as line geometry.
	Wireframe bool

	// DoubleSided disables back-face culling.
	DoubleSided bool

	// BaseColorTexture is the albedo texture, or nil for untextured materials.
	BaseColorTexture *Texture

	released bool
}

var _ Disposable = &Material{}

// Release frees every texture referenced by the material, then marks the
// material itself released. Safe to call on a nil receiver and safe to call
// more than once.
func (m *Material) Release() {
	if m == nil {
		return
	}
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return
	}
	m.released = true
	tex := m.BaseColorTexture
	m.mu.Unlock()

	tex.Release()
}
