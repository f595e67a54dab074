package loader

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Carmen-Shannon/orbit-go/assets"
)

// Fetcher retrieves the raw bytes of an asset. Implementations must treat
// every attempt as independent: no partial state is carried between calls.
type Fetcher interface {
	// Fetch retrieves the full asset payload at the given URL or local path.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - rawURL: an http(s) URL or a local filesystem path
	//
	// Returns:
	//   - []byte: the complete asset payload
	//   - error: a *FetchError if retrieval fails
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// httpFetcher is the default Fetcher. It fetches http(s) URLs over the wire,
// serves embedded:// URLs from the binary's bundled assets (how the default
// fallback model is addressed), and treats everything else as a local
// filesystem path.
type httpFetcher struct {
	client *http.Client
}

var _ Fetcher = &httpFetcher{}

// newHTTPFetcher creates the default fetcher with a bounded request timeout.
//
// Returns:
//   - Fetcher: the fetcher
func newHTTPFetcher() Fetcher {
	return &httpFetcher{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, assets.Scheme) {
		data, err := assets.Open(rawURL)
		if err != nil {
			return nil, &FetchError{URL: rawURL, Err: err}
		}
		return data, nil
	}

	u, err := url.Parse(rawURL)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return f.fetchHTTP(ctx, rawURL)
	}

	data, err := os.ReadFile(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	return data, nil
}

func (f *httpFetcher) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	return data, nil
}
