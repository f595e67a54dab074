package common

// Virtual key codes for the viewer's input handling.
// Values match GLFW key codes, which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyR = 82 // R key (ASCII), reload the requested model
	KeyD = 68 // D key (ASCII), dismiss the failure notice
	KeyW = 87 // W key (ASCII), toggle wireframe
	KeyP = 80 // P key (ASCII), toggle profiling output

	KeyRight = 262 // Right arrow (GLFW)
	KeyLeft  = 263 // Left arrow (GLFW)
	KeyDown  = 264 // Down arrow (GLFW)
	KeyUp    = 265 // Up arrow (GLFW)
)
