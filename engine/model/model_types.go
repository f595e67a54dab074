package model

import (
	"github.com/Carmen-Shannon/orbit-go/common"
)

// --- Import Types ---

// ImportedModel represents a 3D model loaded from an external format.
// This is the universal CPU-side format that importers (glTF, GLB, etc.) produce.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Roots are the top-level nodes of the imported scene graph.
	Roots []*ImportedNode

	// Materials are referenced materials (indices into a material library).
	Materials []common.ImportedMaterial
}

// ImportedNode represents a single node in an imported scene graph.
// Group nodes carry no meshes; renderable nodes carry one or more.
type ImportedNode struct {
	// Name is the node identifier.
	Name string

	// Transform is the node's local transform relative to its parent,
	// stored column-major.
	Transform [16]float32

	// Meshes contains the mesh primitives attached to this node.
	Meshes []ImportedMesh

	// Children are the node's child nodes.
	Children []*ImportedNode
}

// ImportedMesh represents a single mesh primitive within an imported model.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices are the mesh vertices.
	Vertices []Vertex

	// Indices are the triangle indices.
	Indices []uint32

	// MaterialIndex references ImportedModel.Materials (-1 when the
	// primitive has no material).
	MaterialIndex int

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin [3]float32

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax [3]float32
}

// Vertex is a single interleaved mesh vertex.
type Vertex struct {
	// Position is the vertex position in model space.
	Position [3]float32

	// Normal is the vertex normal.
	Normal [3]float32

	// TexCoord is the UV coordinate for the base color texture.
	TexCoord [2]float32
}

// IdentityTransform returns a column-major identity matrix suitable for
// ImportedNode.Transform and Node.Transform.
//
// Returns:
//   - [16]float32: the identity matrix
func IdentityTransform() [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}
