package loader

import (
	"context"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/orbit-go/common"
	"github.com/Carmen-Shannon/orbit-go/engine/model"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// DefaultMaxRetries is the retry budget applied when none is configured.
const DefaultMaxRetries = 3

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loaderBackend defines the generic interface for parsing model payloads.
// Concrete implementations (e.g., gltfLoaderBackendImpl) handle
// format-specific details.
type loaderBackend interface {
	// LoadBytes parses a complete asset payload into an ImportedModel.
	//
	// Parameters:
	//   - name: identifier for the asset (used for naming and errors)
	//   - data: the complete asset payload
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: a *ParseError if the payload is malformed
	LoadBytes(name string, data []byte) (*model.ImportedModel, error)
}

// loader is the implementation of the Loader interface.
type loader struct {
	fetcher    Fetcher
	backend    loaderBackend
	maxRetries int

	decodePool    worker.DynamicWorkerPool
	decodeWorkers int
}

// Loader defines the public-facing interface for loading 3D models from a
// URL or local path with a bounded retry budget. Each attempt re-fetches and
// re-parses the full asset; no partial state is shared between attempts. On
// exhaustion of the budget the loader fails with a *LoadFailure carrying the
// last underlying error.
type Loader interface {
	// Load fetches and parses the asset at the given URL, retrying
	// immediately on failure up to the configured budget.
	//
	// Parameters:
	//   - ctx: context for cancellation; a cancelled context stops the retry loop
	//   - url: an http(s) URL or local filesystem path to a glTF/GLB asset
	//
	// Returns:
	//   - *model.ImportedModel: the parsed model, ready for normalization and upload
	//   - error: a *LoadFailure once the retry budget is exhausted
	Load(ctx context.Context, url string) (*model.ImportedModel, error)

	// MaxRetries returns the configured retry budget.
	//
	// Returns:
	//   - int: the maximum number of load attempts per call
	MaxRetries() int
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and
// options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		fetcher:       newHTTPFetcher(),
		maxRetries:    DefaultMaxRetries,
		decodeWorkers: max(runtime.NumCPU()-1, 1),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}

	// Initialize the decode pool after options so WithDecodeWorkers can
	// override the default. Queue size of 64 covers typical texture counts.
	l.decodePool = worker.NewDynamicWorkerPool(l.decodeWorkers, 64, 1*time.Second)

	return l
}

func (l *loader) MaxRetries() int {
	return l.maxRetries
}

func (l *loader) Load(ctx context.Context, url string) (*model.ImportedModel, error) {
	budget := l.maxRetries
	if budget < 1 {
		budget = 1
	}

	var lastErr error
	for attempt := 1; attempt <= budget; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			return nil, &LoadFailure{URL: url, Attempts: attempt - 1, Err: lastErr}
		}

		imported, err := l.loadOnce(ctx, url)
		if err == nil {
			return imported, nil
		}

		lastErr = err
		log.Printf("load attempt %d/%d for %s failed: %v", attempt, budget, url, err)
	}

	return nil, &LoadFailure{URL: url, Attempts: budget, Err: lastErr}
}

// loadOnce performs a single independent fetch + parse + texture decode pass.
func (l *loader) loadOnce(ctx context.Context, url string) (*model.ImportedModel, error) {
	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	imported, err := l.backend.LoadBytes(url, data)
	if err != nil {
		return nil, err
	}

	if err := l.decodeTextures(imported); err != nil {
		return nil, err
	}
	return imported, nil
}

// decodeTextures decodes every embedded texture to RGBA on the worker pool so
// large multi-texture assets don't pay for serial image decoding. A decode
// failure fails the whole attempt, keeping "load failed" uniform across fetch
// and parse errors.
func (l *loader) decodeTextures(imported *model.ImportedModel) error {
	var textures []*common.ImportedTexture
	for i := range imported.Materials {
		if tex := imported.Materials[i].BaseColorTexture; tex != nil {
			textures = append(textures, tex)
		}
	}
	if len(textures) == 0 {
		return nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for i, tex := range textures {
		wg.Add(1)
		texCap := tex
		l.decodePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				if _, _, _, err := texCap.Decode(); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	if firstErr != nil {
		return &ParseError{Name: imported.Name, Err: firstErr}
	}
	return nil
}
