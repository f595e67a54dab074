package viewer

// State describes where the viewer is in the model lifecycle. Transitions are
// driven entirely by LoadAndDisplay: loading states while a load is in
// flight, then either StateDisplayed or StateFailed.
type State int

const (
	// StateIdle is the initial state before any load has been requested.
	StateIdle State = iota

	// StateLoadingPrimary means the requested model is being loaded.
	StateLoadingPrimary

	// StateLoadingFallback means the primary load failed and the fallback
	// asset is being loaded.
	StateLoadingFallback

	// StateDisplayed means a model is installed in the scene.
	StateDisplayed

	// StateFailed means both the primary and fallback loads failed; nothing
	// is displayed.
	StateFailed
)

// String returns a readable name for the state.
//
// Returns:
//   - string: the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingPrimary:
		return "loading"
	case StateLoadingFallback:
		return "loading-fallback"
	case StateDisplayed:
		return "displayed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
