package loader

import (
	"fmt"
)

// FetchError reports a network or filesystem failure while retrieving an
// asset. StatusCode is non-zero for HTTP responses outside the 2xx range.
type FetchError struct {
	// URL is the asset location that failed to fetch.
	URL string

	// StatusCode is the HTTP status code, or 0 for transport/file errors.
	StatusCode int

	// Err is the underlying cause (nil for pure status-code failures).
	Err error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a malformed or unsupported asset payload.
type ParseError struct {
	// Name identifies the asset that failed to parse.
	Name string

	// Err is the underlying decoder error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Name, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadFailure is the terminal error produced when the retry budget is
// exhausted. It carries the last underlying cause (a FetchError or
// ParseError) and the number of attempts made.
type LoadFailure struct {
	// URL is the asset location that failed to load.
	URL string

	// Attempts is the number of load attempts made before giving up.
	Attempts int

	// Err is the last underlying cause.
	Err error
}

func (e *LoadFailure) Error() string {
	return fmt.Sprintf("failed to load %s after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *LoadFailure) Unwrap() error {
	return e.Err
}
