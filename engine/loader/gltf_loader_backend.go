package loader

import (
	"bytes"
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/Carmen-Shannon/orbit-go/common"
	"github.com/Carmen-Shannon/orbit-go/engine/model"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB payloads.
// It builds the node hierarchy, mesh primitives, and materials via the
// qmuntal/gltf decoder and accessor readers.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB payloads
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) LoadBytes(name string, data []byte) (*model.ImportedModel, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, &ParseError{Name: name, Err: err}
	}

	materials, err := b.extractMaterials(doc)
	if err != nil {
		return nil, &ParseError{Name: name, Err: err}
	}

	roots, err := b.extractNodes(doc)
	if err != nil {
		return nil, &ParseError{Name: name, Err: err}
	}

	return &model.ImportedModel{
		Name:      gltfModelName(doc, name),
		Roots:     roots,
		Materials: materials,
	}, nil
}

// extractMaterials converts every glTF material into the engine's imported
// material form, resolving embedded base color textures.
func (b *gltfLoaderBackendImpl) extractMaterials(doc *gltf.Document) ([]common.ImportedMaterial, error) {
	materials := make([]common.ImportedMaterial, len(doc.Materials))
	for i, mat := range doc.Materials {
		out := common.ImportedMaterial{
			Name:        mat.Name,
			BaseColor:   [4]float32{1, 1, 1, 1},
			Metallic:    1,
			Roughness:   1,
			Opaque:      mat.AlphaMode == gltf.AlphaOpaque,
			DoubleSided: mat.DoubleSided,
		}
		if out.Name == "" {
			out.Name = fmt.Sprintf("material_%d", i)
		}

		if pbr := mat.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				for c := 0; c < 4; c++ {
					out.BaseColor[c] = float32(pbr.BaseColorFactor[c])
				}
			}
			if pbr.MetallicFactor != nil {
				out.Metallic = float32(*pbr.MetallicFactor)
			}
			if pbr.RoughnessFactor != nil {
				out.Roughness = float32(*pbr.RoughnessFactor)
			}
			if pbr.BaseColorTexture != nil {
				tex, err := b.extractTexture(doc, pbr.BaseColorTexture.Index)
				if err != nil {
					return nil, err
				}
				out.BaseColorTexture = tex
			}
		}

		materials[i] = out
	}
	return materials, nil
}

// extractTexture resolves a glTF texture index to its embedded image bytes.
// External and data-URI images are skipped (nil texture, renderer falls back
// to the material base color), since remote assets arrive as a single binary
// payload.
func (b *gltfLoaderBackendImpl) extractTexture(doc *gltf.Document, texIndex int) (*common.ImportedTexture, error) {
	if texIndex < 0 || texIndex >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", texIndex)
	}
	tex := doc.Textures[texIndex]
	if tex.Source == nil || int(*tex.Source) >= len(doc.Images) {
		return nil, nil
	}

	img := doc.Images[*tex.Source]
	if img.BufferView == nil {
		return nil, nil
	}
	if int(*img.BufferView) >= len(doc.BufferViews) {
		return nil, fmt.Errorf("image buffer view %d out of range", *img.BufferView)
	}

	raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
	if err != nil {
		return nil, fmt.Errorf("failed to read image buffer view: %w", err)
	}

	// ReadBufferView aliases the document's buffer; copy so the texture
	// outlives the decode.
	data := make([]byte, len(raw))
	copy(data, raw)

	name := img.Name
	if name == "" {
		name = fmt.Sprintf("texture_%d", texIndex)
	}

	return &common.ImportedTexture{
		Name:     name,
		Data:     data,
		MimeType: img.MimeType,
	}, nil
}

// extractNodes builds the imported node tree for the document's default
// scene. Documents without scenes expose every non-child node as a root.
func (b *gltfLoaderBackendImpl) extractNodes(doc *gltf.Document) ([]*model.ImportedNode, error) {
	rootIndices := gltfRootIndices(doc)

	roots := make([]*model.ImportedNode, 0, len(rootIndices))
	for _, idx := range rootIndices {
		node, err := b.extractNode(doc, idx)
		if err != nil {
			return nil, err
		}
		roots = append(roots, node)
	}
	return roots, nil
}

func (b *gltfLoaderBackendImpl) extractNode(doc *gltf.Document, nodeIndex int) (*model.ImportedNode, error) {
	if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", nodeIndex)
	}
	src := doc.Nodes[nodeIndex]

	out := &model.ImportedNode{
		Name:      src.Name,
		Transform: gltfNodeTransform(src),
	}
	if out.Name == "" {
		out.Name = fmt.Sprintf("node_%d", nodeIndex)
	}

	if src.Mesh != nil {
		meshes, err := b.extractMesh(doc, int(*src.Mesh))
		if err != nil {
			return nil, err
		}
		out.Meshes = meshes
	}

	for _, childIdx := range src.Children {
		child, err := b.extractNode(doc, int(childIdx))
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, child)
	}

	return out, nil
}

// extractMesh converts every primitive of a glTF mesh into an ImportedMesh.
func (b *gltfLoaderBackendImpl) extractMesh(doc *gltf.Document, meshIndex int) ([]model.ImportedMesh, error) {
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}
	src := doc.Meshes[meshIndex]

	meshes := make([]model.ImportedMesh, 0, len(src.Primitives))
	for pi, prim := range src.Primitives {
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("failed to read normals: %w", err)
			}
		}

		var texCoords [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			texCoords, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("failed to read texture coords: %w", err)
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("failed to read indices: %w", err)
			}
		} else {
			// Non-indexed primitive: synthesize sequential indices.
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		if normals == nil {
			normals = computeSmoothNormals(positions, indices)
		}

		vertices := make([]model.Vertex, len(positions))
		boundsMin := [3]float32{float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))}
		boundsMax := [3]float32{float32(math.Inf(-1)), float32(math.Inf(-1)), float32(math.Inf(-1))}
		for i, pos := range positions {
			vertices[i].Position = pos
			if i < len(normals) {
				vertices[i].Normal = normals[i]
			}
			if i < len(texCoords) {
				vertices[i].TexCoord = texCoords[i]
			}
			for c := 0; c < 3; c++ {
				if pos[c] < boundsMin[c] {
					boundsMin[c] = pos[c]
				}
				if pos[c] > boundsMax[c] {
					boundsMax[c] = pos[c]
				}
			}
		}

		materialIndex := -1
		if prim.Material != nil {
			materialIndex = int(*prim.Material)
		}

		name := src.Name
		if name == "" {
			name = fmt.Sprintf("mesh_%d", meshIndex)
		}
		if len(src.Primitives) > 1 {
			name = fmt.Sprintf("%s_%d", name, pi)
		}

		meshes = append(meshes, model.ImportedMesh{
			Name:          name,
			Vertices:      vertices,
			Indices:       indices,
			MaterialIndex: materialIndex,
			BoundingMin:   boundsMin,
			BoundingMax:   boundsMax,
		})
	}

	return meshes, nil
}

// gltfRootIndices returns the node indices of the default scene, or every
// node that is not referenced as a child when the document has no scenes.
func gltfRootIndices(doc *gltf.Document) []int {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		return intIndices(doc.Scenes[*doc.Scene].Nodes)
	}
	if len(doc.Scenes) > 0 {
		return intIndices(doc.Scenes[0].Nodes)
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[int(c)] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// intIndices widens a glTF index slice to plain ints.
func intIndices[T ~int | ~uint32](in []T) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}

// gltfNodeTransform composes a node's local transform. A non-identity Matrix
// wins; otherwise translation/rotation/scale are composed, with glTF defaults
// applied for zero values.
func gltfNodeTransform(n *gltf.Node) [16]float32 {
	identity := [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	if n.Matrix != identity && n.Matrix != ([16]float64{}) {
		var out [16]float32
		for i, v := range n.Matrix {
			out[i] = float32(v)
		}
		return out
	}

	translation := mgl32.Translate3D(
		float32(n.Translation[0]),
		float32(n.Translation[1]),
		float32(n.Translation[2]),
	)

	rotation := mgl32.Ident4()
	if n.Rotation != ([4]float64{}) {
		q := mgl32.Quat{
			W: float32(n.Rotation[3]),
			V: mgl32.Vec3{float32(n.Rotation[0]), float32(n.Rotation[1]), float32(n.Rotation[2])},
		}
		rotation = q.Normalize().Mat4()
	}

	scale := mgl32.Ident4()
	if n.Scale != ([3]float64{}) {
		scale = mgl32.Scale3D(float32(n.Scale[0]), float32(n.Scale[1]), float32(n.Scale[2]))
	}

	composed := translation.Mul4(rotation).Mul4(scale)

	var out [16]float32
	copy(out[:], composed[:])
	return out
}

// computeSmoothNormals derives per-vertex normals by accumulating face
// normals, for primitives that ship without a NORMAL attribute.
func computeSmoothNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	normals := make([][3]float32, len(positions))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= len(positions) || int(i1) >= len(positions) || int(i2) >= len(positions) {
			continue
		}
		a := mgl32.Vec3{positions[i0][0], positions[i0][1], positions[i0][2]}
		bb := mgl32.Vec3{positions[i1][0], positions[i1][1], positions[i1][2]}
		c := mgl32.Vec3{positions[i2][0], positions[i2][1], positions[i2][2]}

		face := bb.Sub(a).Cross(c.Sub(a))
		for _, idx := range []uint32{i0, i1, i2} {
			normals[idx][0] += face.X()
			normals[idx][1] += face.Y()
			normals[idx][2] += face.Z()
		}
	}

	for i, n := range normals {
		v := mgl32.Vec3{n[0], n[1], n[2]}
		if v.Len() > 1e-8 {
			v = v.Normalize()
			normals[i] = [3]float32{v.X(), v.Y(), v.Z()}
		} else {
			normals[i] = [3]float32{0, 1, 0}
		}
	}
	return normals
}

// gltfModelName derives a model name from the document's default scene name
// or the asset's URL/path base name.
func gltfModelName(doc *gltf.Document, fallback string) string {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		if name := doc.Scenes[*doc.Scene].Name; name != "" {
			return name
		}
	}

	base := path.Base(fallback)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" || base == "." || base == "/" {
		return "model"
	}
	return base
}
