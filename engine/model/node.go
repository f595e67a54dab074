package model

// Node is a single node in a displayed model's scene graph. Group nodes carry
// no mesh; renderable leaves carry exactly one.
type Node struct {
	// Name is the node identifier.
	Name string

	// Transform is the node's local transform relative to its parent,
	// stored column-major.
	Transform [16]float32

	// Mesh is the renderable mesh at this node, or nil for group nodes.
	Mesh *Mesh

	// Children are the node's child nodes.
	Children []*Node
}

// Mesh pairs uploaded geometry with the material used to shade it.
type Mesh struct {
	// Name is the mesh identifier.
	Name string

	// Geometry holds the vertex/index data and GPU buffers.
	Geometry *Geometry

	// Material holds the shading parameters and textures.
	Material *Material
}

// Dispose recursively releases every disposable resource in the scene graph
// rooted at n: each renderable leaf's geometry, every resource referenced by
// its material, then the material itself. Children are released before their
// parents. Safe to call with a nil root (no-op) and safe to call more than
// once — every resource variant's Release is idempotent.
//
// Parameters:
//   - n: the root of the scene graph to release (may be nil)
func Dispose(n *Node) {
	if n == nil {
		return
	}
	for _, child := range n.Children {
		Dispose(child)
	}
	if n.Mesh != nil {
		n.Mesh.Geometry.Release()
		n.Mesh.Material.Release()
	}
}

// Walk visits n and every descendant in depth-first order, calling visit for
// each node. A nil root is a no-op.
//
// Parameters:
//   - n: the root of the scene graph to walk (may be nil)
//   - visit: function called for each visited node
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, child := range n.Children {
		Walk(child, visit)
	}
}
