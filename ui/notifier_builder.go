package ui

import "io"

// NotifierBuilderOption is a functional option for configuring a Notifier via NewNotifier.
type NotifierBuilderOption func(*notifierImpl)

// WithWriter is an option builder that redirects notifier output. Defaults to
// stderr so notifications don't interleave with piped stdout.
//
// Parameters:
//   - w: the destination writer
//
// Returns:
//   - NotifierBuilderOption: a function that applies the writer to a notifier
func WithWriter(w io.Writer) NotifierBuilderOption {
	return func(n *notifierImpl) {
		n.out = w
	}
}

// WithSpinnerFrames is an option builder that replaces the spinner animation
// frames. Empty input is ignored.
//
// Parameters:
//   - frames: the animation frames, rendered in order
//
// Returns:
//   - NotifierBuilderOption: a function that applies the frames to a notifier
func WithSpinnerFrames(frames []string) NotifierBuilderOption {
	return func(n *notifierImpl) {
		if len(frames) > 0 {
			n.frames = frames
		}
	}
}
