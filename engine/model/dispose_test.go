package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackedMesh builds a mesh whose geometry and texture releases are counted.
func trackedMesh(name string, geoReleases, texReleases *int) *Mesh {
	geo := &Geometry{IndexCount: 3}
	geo.SetGPUHandles(1, 2, 3, func(vao, vbo, ebo uint32) {
		*geoReleases++
	})

	tex := &Texture{}
	tex.SetGPUHandle(7, func(handle uint32) {
		*texReleases++
	})

	return &Mesh{
		Name:     name,
		Geometry: geo,
		Material: &Material{Name: name + "_mat", BaseColorTexture: tex},
	}
}

func TestDisposeNilRoot(t *testing.T) {
	assert.NotPanics(t, func() {
		Dispose(nil)
	})
}

func TestDisposeReleasesEveryResourceOnce(t *testing.T) {
	var geoReleases, texReleases int

	root := &Node{
		Name:      "root",
		Transform: IdentityTransform(),
		Children: []*Node{
			{Name: "body", Mesh: trackedMesh("body", &geoReleases, &texReleases)},
			{
				Name: "group",
				Children: []*Node{
					{Name: "wheel", Mesh: trackedMesh("wheel", &geoReleases, &texReleases)},
				},
			},
		},
	}

	Dispose(root)
	assert.Equal(t, 2, geoReleases)
	assert.Equal(t, 2, texReleases)
}

func TestDisposeIdempotent(t *testing.T) {
	var geoReleases, texReleases int
	root := &Node{Mesh: trackedMesh("solo", &geoReleases, &texReleases)}

	Dispose(root)
	Dispose(root)
	Dispose(root)

	assert.Equal(t, 1, geoReleases)
	assert.Equal(t, 1, texReleases)
}

func TestDisposeMeshWithoutGPUUpload(t *testing.T) {
	// Geometry that never reached the GPU has no releaser; disposal must
	// still be a clean no-op.
	root := &Node{Mesh: &Mesh{
		Geometry: &Geometry{Vertices: []Vertex{{}}, Indices: []uint32{0}},
		Material: &Material{Name: "cpu_only"},
	}}

	assert.NotPanics(t, func() {
		Dispose(root)
	})
}

func TestGeometryReleaseClearsHandles(t *testing.T) {
	geo := &Geometry{}
	geo.SetGPUHandles(10, 11, 12, func(vao, vbo, ebo uint32) {})
	require.True(t, geo.Uploaded())

	geo.Release()
	assert.False(t, geo.Uploaded())
	assert.Zero(t, geo.VAO)
	assert.Zero(t, geo.VBO)
	assert.Zero(t, geo.EBO)
}

func TestNilResourceReleases(t *testing.T) {
	var geo *Geometry
	var tex *Texture
	var mat *Material

	assert.NotPanics(t, func() {
		geo.Release()
		tex.Release()
		mat.Release()
	})
}

func TestModelReleaseDisposesGraph(t *testing.T) {
	var geoReleases, texReleases int
	root := &Node{
		Transform: IdentityTransform(),
		Children: []*Node{
			{Mesh: trackedMesh("a", &geoReleases, &texReleases)},
		},
	}

	m := NewModel(WithName("car"), WithRoot(root), WithBoundingRadius(4))
	require.Equal(t, "car", m.Name())
	require.Len(t, m.Meshes(), 1)

	m.Release()
	m.Release()
	assert.Equal(t, 1, geoReleases)
	assert.Equal(t, 1, texReleases)
}

func TestModelSetPosition(t *testing.T) {
	m := NewModel(WithName("thing"))
	m.SetPosition(1, 2, 3)

	root := m.Root()
	assert.Equal(t, float32(1), root.Transform[12])
	assert.Equal(t, float32(2), root.Transform[13])
	assert.Equal(t, float32(3), root.Transform[14])
}
