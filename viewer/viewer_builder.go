package viewer

import (
	"github.com/Carmen-Shannon/orbit-go/engine/loader"
	"github.com/Carmen-Shannon/orbit-go/engine/scene"
	"github.com/Carmen-Shannon/orbit-go/ui"
)

// ViewerBuilderOption is a functional option for configuring a Viewer via NewViewer.
type ViewerBuilderOption func(*viewerImpl)

// WithLoader is an option builder that sets the model loader.
//
// Parameters:
//   - l: the loader to use
//
// Returns:
//   - ViewerBuilderOption: a function that applies the loader to a viewer
func WithLoader(l loader.Loader) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.loader = l
	}
}

// WithScene is an option builder that sets the scene the viewer installs
// models into.
//
// Parameters:
//   - s: the scene to use
//
// Returns:
//   - ViewerBuilderOption: a function that applies the scene to a viewer
func WithScene(s scene.Scene) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.scene = s
	}
}

// WithNotifier is an option builder that sets the notification surface.
//
// Parameters:
//   - n: the notifier to use
//
// Returns:
//   - ViewerBuilderOption: a function that applies the notifier to a viewer
func WithNotifier(n ui.Notifier) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.notifier = n
	}
}

// WithFallbackURL is an option builder that replaces the bundled placeholder
// asset path. Empty input is ignored.
//
// Parameters:
//   - url: the fallback asset URL or local path
//
// Returns:
//   - ViewerBuilderOption: a function that applies the fallback to a viewer
func WithFallbackURL(url string) ViewerBuilderOption {
	return func(v *viewerImpl) {
		if url != "" {
			v.fallbackURL = url
		}
	}
}

// WithForceOpaque is an option builder that forces every material, including
// the default, to render fully opaque.
//
// Parameters:
//   - enabled: whether to force opacity
//
// Returns:
//   - ViewerBuilderOption: a function that applies the override to a viewer
func WithForceOpaque(enabled bool) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.forceOpaque = enabled
	}
}

// WithForceWireframe is an option builder that renders every mesh as
// wireframe.
//
// Parameters:
//   - enabled: whether to force wireframe rendering
//
// Returns:
//   - ViewerBuilderOption: a function that applies the override to a viewer
func WithForceWireframe(enabled bool) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.forceWireframe = enabled
	}
}
