package scene

import (
	"sync"

	"github.com/Carmen-Shannon/orbit-go/engine/camera"
	"github.com/Carmen-Shannon/orbit-go/engine/model"
	"github.com/Carmen-Shannon/orbit-go/engine/renderer"
)

// sceneImpl is the implementation of the Scene interface.
type sceneImpl struct {
	mu *sync.RWMutex

	active bool

	camera   camera.Camera
	renderer renderer.Renderer

	// displayed is the single model slot. The viewer guarantees the previous
	// occupant is disposed before a new one is installed.
	displayed model.Model
}

// Scene holds everything needed to draw one frame of the viewer: the camera,
// the renderer, and a single model slot. Unlike a general scene graph there is
// never more than one displayed model; installing a new one displaces the old.
type Scene interface {
	// Active reports whether the scene should be drawn.
	//
	// Returns:
	//   - bool: true if the scene is active
	Active() bool

	// SetActive marks the scene as drawable or not.
	//
	// Parameters:
	//   - active: whether the scene should be drawn
	SetActive(active bool)

	// Camera returns the scene's camera.
	//
	// Returns:
	//   - camera.Camera: the camera, or nil if not set
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the camera to use
	SetCamera(cam camera.Camera)

	// Renderer returns the scene's renderer.
	//
	// Returns:
	//   - renderer.Renderer: the renderer, or nil if not set
	Renderer() renderer.Renderer

	// Model returns the currently displayed model, or nil when the slot is
	// empty.
	//
	// Returns:
	//   - model.Model: the displayed model or nil
	Model() model.Model

	// SetModel installs a model into the display slot and returns whatever
	// was displaced. Callers own disposal of the returned model; the scene
	// never frees resources itself.
	//
	// Parameters:
	//   - m: the model to display (nil clears the slot)
	//
	// Returns:
	//   - model.Model: the previously displayed model, or nil
	SetModel(m model.Model) model.Model

	// RemoveModel clears the display slot and returns the removed model.
	// Equivalent to SetModel(nil).
	//
	// Returns:
	//   - model.Model: the removed model, or nil if the slot was empty
	RemoveModel() model.Model

	// RenderFrame updates the camera and draws the displayed model. Must be
	// called on the render thread. An empty slot still clears the frame, so
	// the window keeps presenting while a load is in flight.
	RenderFrame()
}

var _ Scene = &sceneImpl{}

// NewScene creates a new Scene with the provided options applied.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &sceneImpl{
		mu:     &sync.RWMutex{},
		active: true,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *sceneImpl) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *sceneImpl) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *sceneImpl) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.camera
}

func (s *sceneImpl) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = cam
}

func (s *sceneImpl) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderer
}

func (s *sceneImpl) Model() model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayed
}

func (s *sceneImpl) SetModel(m model.Model) model.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.displayed
	s.displayed = m
	return previous
}

func (s *sceneImpl) RemoveModel() model.Model {
	return s.SetModel(nil)
}

func (s *sceneImpl) RenderFrame() {
	s.mu.RLock()
	cam := s.camera
	rend := s.renderer
	displayed := s.displayed
	active := s.active
	s.mu.RUnlock()

	if !active || rend == nil {
		return
	}

	if cam != nil {
		cam.Update()
	}

	rend.BeginFrame()
	if displayed != nil && cam != nil {
		rend.RenderModel(displayed, cam)
	}
}
