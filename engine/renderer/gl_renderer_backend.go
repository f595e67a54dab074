package renderer

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/orbit-go/common"
	"github.com/Carmen-Shannon/orbit-go/engine/camera"
	"github.com/Carmen-Shannon/orbit-go/engine/model"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// vertexStride is the byte size of one interleaved model.Vertex
// (position vec3 + normal vec3 + texcoord vec2).
const vertexStride = int32(8 * 4)

// glTF sampler enums, mapped to GL constants at upload time.
const (
	samplerNearest = 9728
	samplerLinear  = 9729
	wrapClamp      = 33071
	wrapMirror     = 33648
	wrapRepeat     = 10497
)

// glRendererBackend is the OpenGL 4.1 core implementation of RendererBackend.
// All methods run on the render thread.
type glRendererBackend struct {
	program uint32

	// Cached uniform locations for the model pipeline.
	uModel            int32
	uView             int32
	uProjection       int32
	uBaseColor        int32
	uMetallic         int32
	uRoughness        int32
	uHasTexture       int32
	uBaseColorTexture int32
	uCameraPos        int32
	uLightDir         int32
}

var _ RendererBackend = &glRendererBackend{}

// newGLRendererBackend creates the GL backend. GL state is not touched until
// init runs on the render thread.
//
// Returns:
//   - RendererBackend: the backend
func newGLRendererBackend() RendererBackend {
	return &glRendererBackend{}
}

func (b *glRendererBackend) init(width, height int) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL bindings: %w", err)
	}

	program, err := buildProgram(modelVertexShader, modelFragmentShader)
	if err != nil {
		return err
	}
	b.program = program

	b.uModel = gl.GetUniformLocation(program, gl.Str("uModel\x00"))
	b.uView = gl.GetUniformLocation(program, gl.Str("uView\x00"))
	b.uProjection = gl.GetUniformLocation(program, gl.Str("uProjection\x00"))
	b.uBaseColor = gl.GetUniformLocation(program, gl.Str("uBaseColor\x00"))
	b.uMetallic = gl.GetUniformLocation(program, gl.Str("uMetallic\x00"))
	b.uRoughness = gl.GetUniformLocation(program, gl.Str("uRoughness\x00"))
	b.uHasTexture = gl.GetUniformLocation(program, gl.Str("uHasTexture\x00"))
	b.uBaseColorTexture = gl.GetUniformLocation(program, gl.Str("uBaseColorTexture\x00"))
	b.uCameraPos = gl.GetUniformLocation(program, gl.Str("uCameraPos\x00"))
	b.uLightDir = gl.GetUniformLocation(program, gl.Str("uLightDir\x00"))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Viewport(0, 0, int32(width), int32(height))

	return nil
}

func (b *glRendererBackend) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (b *glRendererBackend) beginFrame(clearColor [4]float32) {
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *glRendererBackend) uploadModel(m model.Model, deleteGeometry func(vao, vbo, ebo uint32), deleteTexture func(handle uint32)) error {
	// Texture objects can be shared between materials; upload each once.
	uploadedTextures := make(map[*model.Texture]bool)

	for _, mesh := range m.Meshes() {
		if mesh.Geometry != nil && !mesh.Geometry.Uploaded() {
			if err := b.uploadGeometry(mesh.Geometry, deleteGeometry); err != nil {
				return fmt.Errorf("failed to upload geometry for mesh %s: %w", mesh.Name, err)
			}
		}
		if mesh.Material == nil {
			continue
		}
		tex := mesh.Material.BaseColorTexture
		if tex == nil || tex.Handle != 0 || uploadedTextures[tex] {
			continue
		}
		if err := b.uploadTexture(tex, deleteTexture); err != nil {
			return fmt.Errorf("failed to upload texture for mesh %s: %w", mesh.Name, err)
		}
		uploadedTextures[tex] = true
	}
	return nil
}

// uploadGeometry creates the VAO/VBO/EBO trio for one geometry and installs
// the release hook.
func (b *glRendererBackend) uploadGeometry(g *model.Geometry, deleteGeometry func(vao, vbo, ebo uint32)) error {
	if len(g.Vertices) == 0 || len(g.Indices) == 0 {
		return fmt.Errorf("geometry has no vertex or index data")
	}

	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(g.Vertices)*int(vertexStride), gl.Ptr(g.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)

	// Layout matches model.Vertex: position, normal, texcoord.
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexStride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, vertexStride, 6*4)

	gl.BindVertexArray(0)

	g.IndexCount = int32(len(g.Indices))
	g.SetGPUHandles(vao, vbo, ebo, deleteGeometry)
	return nil
}

// uploadTexture creates a GL texture object from decoded RGBA pixels and
// installs the release hook. Sampler parameters from the model file are
// honored when present, otherwise linear filtering with repeat wrapping.
func (b *glRendererBackend) uploadTexture(t *model.Texture, deleteTexture func(handle uint32)) error {
	if t.Source == nil {
		return fmt.Errorf("texture has no source data")
	}
	pixels, width, height, err := t.Source.Decode()
	if err != nil {
		return fmt.Errorf("failed to decode texture %s: %w", t.Source.Name, err)
	}

	var handle uint32
	gl.GenTextures(1, &handle)
	gl.BindTexture(gl.TEXTURE_2D, handle)

	minFilter, magFilter, wrapS, wrapT := samplerToGL(t.Source.Sampler)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapS)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapT)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	t.SetGPUHandle(handle, deleteTexture)
	return nil
}

// samplerToGL maps glTF sampler enums onto GL constants. A nil or zero-valued
// sampler yields trilinear filtering with repeat wrapping.
func samplerToGL(s *common.SamplerParams) (minFilter, magFilter, wrapS, wrapT int32) {
	minFilter = gl.LINEAR_MIPMAP_LINEAR
	magFilter = gl.LINEAR
	wrapS = gl.REPEAT
	wrapT = gl.REPEAT
	if s == nil {
		return
	}
	if s.MagFilter == samplerNearest {
		magFilter = gl.NEAREST
	}
	if s.MinFilter == samplerNearest {
		minFilter = gl.NEAREST_MIPMAP_NEAREST
	}
	wrapS = wrapToGL(s.WrapS)
	wrapT = wrapToGL(s.WrapT)
	return
}

func wrapToGL(mode int) int32 {
	switch mode {
	case wrapClamp:
		return gl.CLAMP_TO_EDGE
	case wrapMirror:
		return gl.MIRRORED_REPEAT
	default:
		return gl.REPEAT
	}
}

func (b *glRendererBackend) drawModel(m model.Model, cam camera.Camera) {
	gl.UseProgram(b.program)

	view := cam.ViewMatrix()
	projection := cam.ProjectionMatrix()
	gl.UniformMatrix4fv(b.uView, 1, false, &view[0])
	gl.UniformMatrix4fv(b.uProjection, 1, false, &projection[0])

	if ctrl := cam.Controller(); ctrl != nil {
		px, py, pz := ctrl.Position()
		gl.Uniform3f(b.uCameraPos, px, py, pz)
	}
	gl.Uniform3f(b.uLightDir, -0.4, -1.0, -0.3)

	b.drawNode(m.Root(), mgl32.Ident4())
}

// drawNode renders one node and its children, accumulating transforms down
// the graph.
func (b *glRendererBackend) drawNode(n *model.Node, parent mgl32.Mat4) {
	if n == nil {
		return
	}
	world := parent.Mul4(mgl32.Mat4(n.Transform))

	if n.Mesh != nil && n.Mesh.Geometry != nil && n.Mesh.Geometry.Uploaded() {
		b.drawMesh(n.Mesh, world)
	}
	for _, child := range n.Children {
		b.drawNode(child, world)
	}
}

func (b *glRendererBackend) drawMesh(mesh *model.Mesh, world mgl32.Mat4) {
	mat := mesh.Material

	baseColor := [4]float32{1, 1, 1, 1}
	var metallic, roughness float32 = 0, 0.8
	wireframe := false
	doubleSided := false
	opaque := true
	var texture *model.Texture

	if mat != nil {
		baseColor = mat.BaseColor
		metallic = mat.Metallic
		roughness = mat.Roughness
		wireframe = mat.Wireframe
		doubleSided = mat.DoubleSided
		opaque = mat.Opaque
		texture = mat.BaseColorTexture
	}
	if opaque {
		baseColor[3] = 1
	}

	gl.UniformMatrix4fv(b.uModel, 1, false, &world[0])
	gl.Uniform4f(b.uBaseColor, baseColor[0], baseColor[1], baseColor[2], baseColor[3])
	gl.Uniform1f(b.uMetallic, metallic)
	gl.Uniform1f(b.uRoughness, roughness)

	if texture != nil && texture.Handle != 0 {
		gl.Uniform1i(b.uHasTexture, 1)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, texture.Handle)
		gl.Uniform1i(b.uBaseColorTexture, 0)
	} else {
		gl.Uniform1i(b.uHasTexture, 0)
	}

	if doubleSided {
		gl.Disable(gl.CULL_FACE)
	}
	if !opaque {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
	}
	if wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}

	gl.BindVertexArray(mesh.Geometry.VAO)
	gl.DrawElementsWithOffset(gl.TRIANGLES, mesh.Geometry.IndexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)

	if wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	if !opaque {
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
	if doubleSided {
		gl.Enable(gl.CULL_FACE)
	}
}

func (b *glRendererBackend) deleteGeometry(vao, vbo, ebo uint32) {
	if vbo != 0 {
		gl.DeleteBuffers(1, &vbo)
	}
	if ebo != 0 {
		gl.DeleteBuffers(1, &ebo)
	}
	if vao != 0 {
		gl.DeleteVertexArrays(1, &vao)
	}
}

func (b *glRendererBackend) deleteTexture(handle uint32) {
	if handle != 0 {
		gl.DeleteTextures(1, &handle)
	}
}

// buildProgram compiles and links the vertex/fragment pair into a program,
// surfacing the driver's info log on failure.
func buildProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertex, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("failed to compile vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertex)

	fragment, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("failed to compile fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragment)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(infoLog))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", infoLog)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(infoLog))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%v", infoLog)
	}
	return shader, nil
}
