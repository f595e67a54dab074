package renderer

// RendererBuilderOption is a functional option for configuring a Renderer via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithClearColor is an option builder that sets the background clear color.
//
// Parameters:
//   - r, g, b, a: color components in the 0..1 range
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color to a renderer
func WithClearColor(r, g, b, a float32) RendererBuilderOption {
	return func(rd *renderer) {
		rd.clearColor = [4]float32{r, g, b, a}
	}
}

// WithBackend is an option builder that replaces the backend implementation.
// Used by tests to substitute a backend that does not require a GL context.
//
// Parameters:
//   - backend: the backend to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend to a renderer
func WithBackend(backend RendererBackend) RendererBuilderOption {
	return func(rd *renderer) {
		rd.backend = backend
	}
}
