package renderer

import (
	"github.com/Carmen-Shannon/orbit-go/engine/camera"
	"github.com/Carmen-Shannon/orbit-go/engine/model"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeGL selects the OpenGL 4.1 core rendering backend.
	BackendTypeGL RendererBackendType = iota
)

// RendererBackend is the backend interface for the Renderer. All methods must
// be called on the render thread (the thread that owns the GL context); the
// Renderer wrapper is responsible for marshalling cross-thread work onto it.
type RendererBackend interface {
	// init compiles shaders and sets initial pipeline state.
	init(width, height int) error

	// resize updates the viewport for a new framebuffer size.
	resize(width, height int)

	// beginFrame clears the framebuffer for a new frame.
	beginFrame(clearColor [4]float32)

	// uploadModel creates GPU buffers and textures for every mesh in the
	// model graph and attaches release hooks that feed the deferred delete
	// queue.
	uploadModel(m model.Model, deleteGeometry func(vao, vbo, ebo uint32), deleteTexture func(handle uint32)) error

	// drawModel renders the model graph with the camera's current matrices.
	drawModel(m model.Model, cam camera.Camera)

	// deleteGeometry destroys GPU buffers previously created by uploadModel.
	deleteGeometry(vao, vbo, ebo uint32)

	// deleteTexture destroys a GPU texture previously created by uploadModel.
	deleteTexture(handle uint32)
}
