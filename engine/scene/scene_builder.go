package scene

import (
	"github.com/Carmen-Shannon/orbit-go/engine/camera"
	"github.com/Carmen-Shannon/orbit-go/engine/renderer"
)

// SceneBuilderOption is a functional option for configuring a Scene via NewScene.
type SceneBuilderOption func(*sceneImpl)

// WithCamera is an option builder that sets the scene's camera.
//
// Parameters:
//   - cam: the camera to use
//
// Returns:
//   - SceneBuilderOption: a function that applies the camera to a scene
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.camera = cam
	}
}

// WithRenderer is an option builder that sets the scene's renderer.
//
// Parameters:
//   - r: the renderer to use
//
// Returns:
//   - SceneBuilderOption: a function that applies the renderer to a scene
func WithRenderer(r renderer.Renderer) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.renderer = r
	}
}

// WithInactive is an option builder that creates the scene in the inactive
// state.
//
// Returns:
//   - SceneBuilderOption: a function that marks a scene inactive
func WithInactive() SceneBuilderOption {
	return func(s *sceneImpl) {
		s.active = false
	}
}
