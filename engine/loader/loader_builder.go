package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMaxRetries is an option builder that sets the retry budget per load.
// Values below 1 are treated as 1.
//
// Parameters:
//   - n: the maximum number of load attempts
//
// Returns:
//   - LoaderBuilderOption: a function that applies the retry option to a loader
func WithMaxRetries(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n < 1 {
			n = 1
		}
		l.maxRetries = n
	}
}

// WithFetcher is an option builder that sets the Fetcher used to retrieve
// asset payloads.
//
// Parameters:
//   - f: the fetcher instance
//
// Returns:
//   - LoaderBuilderOption: a function that applies the fetcher option to a loader
func WithFetcher(f Fetcher) LoaderBuilderOption {
	return func(l *loader) {
		l.fetcher = f
	}
}

// WithDecodeWorkers is an option builder that sets the number of workers used
// for parallel texture decoding.
//
// Parameters:
//   - n: the worker count (values below 1 are treated as 1)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithDecodeWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n < 1 {
			n = 1
		}
		l.decodeWorkers = n
	}
}
