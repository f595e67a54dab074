package renderer

import (
	"context"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/orbit-go/engine/camera"
	"github.com/Carmen-Shannon/orbit-go/engine/model"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	clearColor [4]float32

	// tasks holds deferred work (uploads, GPU deletes) submitted from other
	// goroutines, drained on the render thread at the start of each frame.
	tasks chan func()

	initialized bool
}

// Renderer defines the interface for the rendering system.
//
// The renderer owns the GPU side of the model pipeline: it uploads imported
// geometry and textures into buffers, draws the model graph each frame, and
// destroys GPU resources when models are disposed. GL requires all of that to
// happen on the thread that owns the context, so every cross-thread entry
// point (UploadModel, the release hooks attached to uploaded resources) is
// marshalled onto the render thread through a deferred task queue drained in
// BeginFrame.
type Renderer interface {
	// Init compiles shaders and sets initial pipeline state. Must be called
	// once on the render thread before any other method.
	//
	// Parameters:
	//   - width: initial framebuffer width in pixels
	//   - height: initial framebuffer height in pixels
	//
	// Returns:
	//   - error: an error if shader compilation or state setup fails
	Init(width, height int) error

	// Resize configures the backend for a new framebuffer size. Safe to call
	// from any goroutine; the viewport update is deferred to the next frame.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// BeginFrame drains deferred tasks (uploads, GPU deletes) and clears the
	// framebuffer. Must be called on the render thread once per frame before
	// RenderModel.
	BeginFrame()

	// RenderModel draws the model graph using the camera's current matrices.
	// Must be called on the render thread. A nil model is a no-op, which is
	// how the empty viewer state renders.
	//
	// Parameters:
	//   - m: the model to draw, or nil
	//   - cam: the camera supplying view/projection matrices
	RenderModel(m model.Model, cam camera.Camera)

	// UploadModel creates GPU buffers and textures for every mesh in the
	// model graph. Safe to call from any goroutine: the upload runs on the
	// render thread during the next BeginFrame and this call blocks until it
	// completes or the context is cancelled.
	//
	// Parameters:
	//   - ctx: context bounding the wait for the render thread
	//   - m: the model whose resources should be uploaded
	//
	// Returns:
	//   - error: an upload error, or the context error if cancelled first
	UploadModel(ctx context.Context, m model.Model) error
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type
// and options applied. Call Init on the render thread before use.
//
// Parameters:
//   - backendType: the type of renderer backend to use (e.g., BackendTypeGL)
//   - options: a variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the provided backend and options
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		clearColor:  [4]float32{0.08, 0.08, 0.10, 1.0},
		tasks:       make(chan func(), 256),
	}

	switch backendType {
	case BackendTypeGL:
		r.backend = newGLRendererBackend()
	}

	for _, option := range options {
		option(r)
	}

	return r
}

func (r *renderer) Init(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initialized {
		return nil
	}
	if r.backend == nil {
		return fmt.Errorf("no renderer backend configured")
	}
	if err := r.backend.init(width, height); err != nil {
		return fmt.Errorf("failed to initialize renderer backend: %w", err)
	}
	r.initialized = true
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.submit(func() {
		r.backend.resize(width, height)
	})
}

func (r *renderer) BeginFrame() {
	// Drain everything queued since the last frame before clearing, so
	// uploads and deletes from the load goroutine land in frame order.
	for {
		select {
		case task := <-r.tasks:
			task()
		default:
			r.backend.beginFrame(r.clearColor)
			return
		}
	}
}

func (r *renderer) RenderModel(m model.Model, cam camera.Camera) {
	if m == nil || cam == nil {
		return
	}
	r.backend.drawModel(m, cam)
}

func (r *renderer) UploadModel(ctx context.Context, m model.Model) error {
	if m == nil {
		return fmt.Errorf("cannot upload nil model")
	}

	done := make(chan error, 1)
	r.submit(func() {
		done <- r.backend.uploadModel(m, r.queueGeometryDelete, r.queueTextureDelete)
	})

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// submit enqueues work for the render thread, dropping nothing: if the queue
// is full the call blocks until the render thread catches up.
func (r *renderer) submit(task func()) {
	r.tasks <- task
}

// queueGeometryDelete defers buffer destruction to the render thread. Wired
// into Geometry release hooks so Model.Release is safe off-thread.
func (r *renderer) queueGeometryDelete(vao, vbo, ebo uint32) {
	r.submit(func() {
		r.backend.deleteGeometry(vao, vbo, ebo)
	})
}

// queueTextureDelete defers texture destruction to the render thread.
func (r *renderer) queueTextureDelete(handle uint32) {
	r.submit(func() {
		r.backend.deleteTexture(handle)
	})
}
