package model

import (
	"sync"
)

// model is the implementation of the Model interface.
type model struct {
	mu sync.RWMutex

	name           string
	root           *Node
	boundingRadius float32
}

// Model defines the interface for a displayed 3D model. A Model owns a scene
// graph of nodes whose renderable leaves carry GPU-backed geometry and
// materials. It is produced by the viewer after a successful load and is the
// unit of ownership for disposal: releasing a Model releases every GPU
// resource in its graph.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Root retrieves the root node of the model's scene graph.
	//
	// Returns:
	//   - *Node: the root node
	Root() *Node

	// Meshes returns every renderable mesh in the graph in depth-first order.
	//
	// Returns:
	//   - []*Mesh: the flattened mesh list
	Meshes() []*Mesh

	// BoundingRadius returns the bounding sphere radius for this model,
	// measured as the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// SetPosition places the model's root at the given world position.
	//
	// Parameters:
	//   - x, y, z: the world-space position
	SetPosition(x, y, z float32)

	// Release disposes the model's entire scene graph. Idempotent.
	Release()
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	if m.root == nil {
		m.root = &Node{Transform: IdentityTransform()}
	}
	return m
}

func (m *model) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.name
}

func (m *model) Root() *Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root
}

func (m *model) Meshes() []*Mesh {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var meshes []*Mesh
	Walk(m.root, func(n *Node) {
		if n.Mesh != nil {
			meshes = append(meshes, n.Mesh)
		}
	})
	return meshes
}

func (m *model) BoundingRadius() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.boundingRadius
}

func (m *model) SetPosition(x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		return
	}
	// Column-major: translation lives in elements 12..14.
	m.root.Transform[12] = x
	m.root.Transform[13] = y
	m.root.Transform[14] = z
}

func (m *model) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	Dispose(m.root)
}
