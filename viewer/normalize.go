package viewer

import (
	"math"

	"github.com/Carmen-Shannon/orbit-go/common"
	"github.com/Carmen-Shannon/orbit-go/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

// buildModel converts an imported model into a displayable one: materials are
// instantiated (with a neutral default for primitives that have none), the
// force-opaque and wireframe overrides are applied uniformly, and the
// bounding radius is measured across the transformed scene graph.
func buildModel(imported *model.ImportedModel, forceOpaque, forceWireframe bool) model.Model {
	materials := buildMaterials(imported.Materials, forceOpaque, forceWireframe)

	// Primitives without a material all share one neutral default. It gets
	// the same overrides as authored materials.
	defaultMaterial := &model.Material{
		Name:      "default",
		BaseColor: [4]float32{0.8, 0.8, 0.8, 1.0},
		Roughness: 0.8,
		Opaque:    true,
		Wireframe: forceWireframe,
	}

	root := &model.Node{Name: imported.Name, Transform: model.IdentityTransform()}
	for _, importedRoot := range imported.Roots {
		root.Children = append(root.Children, buildNode(importedRoot, materials, defaultMaterial))
	}

	radius := boundingRadius(root)

	return model.NewModel(
		model.WithName(imported.Name),
		model.WithRoot(root),
		model.WithBoundingRadius(radius),
	)
}

// buildMaterials instantiates one Material per imported material, wrapping
// textures for upload and applying the viewer's uniform overrides.
func buildMaterials(imported []common.ImportedMaterial, forceOpaque, forceWireframe bool) []*model.Material {
	materials := make([]*model.Material, len(imported))
	for i := range imported {
		im := &imported[i]
		mat := &model.Material{
			Name:        im.Name,
			BaseColor:   im.BaseColor,
			Metallic:    im.Metallic,
			Roughness:   im.Roughness,
			Opaque:      im.Opaque || forceOpaque,
			Wireframe:   forceWireframe,
			DoubleSided: im.DoubleSided,
		}
		if im.BaseColorTexture != nil {
			mat.BaseColorTexture = &model.Texture{Source: im.BaseColorTexture}
		}
		materials[i] = mat
	}
	return materials
}

// buildNode converts one imported node. Since a display node carries at most
// one mesh, multi-primitive nodes become a group with one child per
// primitive.
func buildNode(in *model.ImportedNode, materials []*model.Material, defaultMaterial *model.Material) *model.Node {
	n := &model.Node{
		Name:      in.Name,
		Transform: in.Transform,
	}

	for i := range in.Meshes {
		im := &in.Meshes[i]

		mat := defaultMaterial
		if im.MaterialIndex >= 0 && im.MaterialIndex < len(materials) {
			mat = materials[im.MaterialIndex]
		}

		mesh := &model.Mesh{
			Name: im.Name,
			Geometry: &model.Geometry{
				Vertices: im.Vertices,
				Indices:  im.Indices,
			},
			Material: mat,
		}

		if len(in.Meshes) == 1 && len(in.Children) == 0 {
			n.Mesh = mesh
		} else {
			n.Children = append(n.Children, &model.Node{
				Name:      im.Name,
				Transform: model.IdentityTransform(),
				Mesh:      mesh,
			})
		}
	}

	for _, child := range in.Children {
		n.Children = append(n.Children, buildNode(child, materials, defaultMaterial))
	}
	return n
}

// boundingRadius measures the maximum vertex distance from the origin across
// the whole graph, with node transforms applied.
func boundingRadius(root *model.Node) float32 {
	var maxSq float32
	accumulate(root, mgl32.Ident4(), &maxSq)
	return float32(math.Sqrt(float64(maxSq)))
}

func accumulate(n *model.Node, parent mgl32.Mat4, maxSq *float32) {
	if n == nil {
		return
	}
	world := parent.Mul4(mgl32.Mat4(n.Transform))

	if n.Mesh != nil && n.Mesh.Geometry != nil {
		for _, v := range n.Mesh.Geometry.Vertices {
			p := world.Mul4x1(mgl32.Vec4{v.Position[0], v.Position[1], v.Position[2], 1})
			sq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
			if sq > *maxSq {
				*maxSq = sq
			}
		}
	}
	for _, child := range n.Children {
		accumulate(child, world, maxSq)
	}
}
