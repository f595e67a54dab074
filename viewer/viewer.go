package viewer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/orbit-go/assets"
	"github.com/Carmen-Shannon/orbit-go/engine/loader"
	"github.com/Carmen-Shannon/orbit-go/engine/model"
	"github.com/Carmen-Shannon/orbit-go/engine/scene"
	"github.com/Carmen-Shannon/orbit-go/ui"
)

// DefaultFallbackURL is the bundled placeholder asset shown when the
// requested model cannot be loaded. It resolves inside the binary's embedded
// assets, so it works from any working directory.
const DefaultFallbackURL = assets.PlaceholderURL

// ErrLoadInProgress is returned when LoadAndDisplay is called while another
// load is still in flight. Loads are single-flight; callers retry after the
// current one settles.
var ErrLoadInProgress = errors.New("a model load is already in progress")

// viewerImpl is the implementation of the Viewer interface.
type viewerImpl struct {
	mu *sync.Mutex

	state    State
	inFlight bool

	loader   loader.Loader
	scene    scene.Scene
	notifier ui.Notifier

	fallbackURL    string
	forceOpaque    bool
	forceWireframe bool

	// failureNoticeID is the persistent notice from the last terminal
	// failure, dismissed when a later load succeeds or a new one starts.
	failureNoticeID string

	// lastPrimaryURL is what Reload retries.
	lastPrimaryURL string
}

// Viewer is the model lifecycle controller. It owns the one displayed model:
// every load first disposes whatever is on screen, then fetches and parses
// the asset (with the loader's retry budget), uploads it, and installs it in
// the scene. A failed primary load falls back to the bundled placeholder
// exactly once; a failed fallback leaves the viewer empty with a persistent
// error notice. Load failures never terminate the process.
type Viewer interface {
	// LoadAndDisplay loads the asset at the given URL and installs it as the
	// displayed model. Blocks until the load settles, so callers run it on
	// its own goroutine; the render loop keeps presenting throughout.
	//
	// Parameters:
	//   - ctx: context bounding the whole load cycle
	//   - url: the asset to load
	//   - fallbackAttempt: true when this load IS the fallback hop; a failure
	//     then is terminal instead of triggering another fallback
	//
	// Returns:
	//   - error: the terminal load error, or nil once a model is displayed
	LoadAndDisplay(ctx context.Context, url string, fallbackAttempt bool) error

	// LoadInitial performs the startup load. An empty URL means no model was
	// requested, so the fallback asset is loaded directly as a fallback
	// attempt: no primary attempt and no second hop.
	//
	// Parameters:
	//   - ctx: context bounding the load cycle
	//   - url: the requested model, or "" when none was requested
	//
	// Returns:
	//   - error: the terminal load error, or nil once a model is displayed
	LoadInitial(ctx context.Context, url string) error

	// Reload retries the most recently requested primary URL with full
	// fallback semantics. A no-op error when nothing was ever requested.
	//
	// Parameters:
	//   - ctx: context bounding the load cycle
	//
	// Returns:
	//   - error: the terminal load error, or nil once a model is displayed
	Reload(ctx context.Context) error

	// DismissNotice removes the standing failure notice, if any. The viewer
	// stays in its current state; only the notice goes away.
	DismissNotice()

	// State returns the current lifecycle state.
	//
	// Returns:
	//   - State: the current state
	State() State
}

var _ Viewer = &viewerImpl{}

// NewViewer creates a new Viewer with the provided options applied. A loader,
// scene, and notifier must be supplied via options before use.
//
// Parameters:
//   - options: functional options to configure the viewer
//
// Returns:
//   - Viewer: the newly created viewer
func NewViewer(options ...ViewerBuilderOption) Viewer {
	v := &viewerImpl{
		mu:          &sync.Mutex{},
		state:       StateIdle,
		fallbackURL: DefaultFallbackURL,
	}
	for _, option := range options {
		option(v)
	}
	return v
}

func (v *viewerImpl) DismissNotice() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.failureNoticeID != "" {
		v.notifier.Dismiss(v.failureNoticeID)
		v.failureNoticeID = ""
	}
}

func (v *viewerImpl) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *viewerImpl) LoadInitial(ctx context.Context, url string) error {
	if url == "" {
		v.mu.Lock()
		fallbackURL := v.fallbackURL
		v.mu.Unlock()
		return v.LoadAndDisplay(ctx, fallbackURL, true)
	}
	return v.LoadAndDisplay(ctx, url, false)
}

func (v *viewerImpl) Reload(ctx context.Context) error {
	v.mu.Lock()
	url := v.lastPrimaryURL
	v.mu.Unlock()

	if url == "" {
		return fmt.Errorf("no model has been requested yet")
	}
	return v.LoadAndDisplay(ctx, url, false)
}

func (v *viewerImpl) LoadAndDisplay(ctx context.Context, url string, fallbackAttempt bool) error {
	v.mu.Lock()
	if v.inFlight {
		v.mu.Unlock()
		return ErrLoadInProgress
	}
	v.inFlight = true

	if fallbackAttempt {
		v.state = StateLoadingFallback
	} else {
		v.state = StateLoadingPrimary
		v.lastPrimaryURL = url
	}

	// A fresh attempt supersedes any standing failure notice.
	if v.failureNoticeID != "" {
		v.notifier.Dismiss(v.failureNoticeID)
		v.failureNoticeID = ""
	}
	v.mu.Unlock()

	err := v.loadCycle(ctx, url, fallbackAttempt)

	v.mu.Lock()
	v.inFlight = false
	v.mu.Unlock()
	return err
}

// loadCycle runs one load attempt and, for primary loads, the single fallback
// hop. The displayed model is disposed up front: its GPU memory must be gone
// before the replacement is uploaded, and the empty scene keeps rendering
// while the load runs.
func (v *viewerImpl) loadCycle(ctx context.Context, url string, fallbackAttempt bool) error {
	v.disposeDisplayed()

	// The spinner belongs to the requested model only; the fallback hop
	// is already announced by its warning.
	if !fallbackAttempt {
		v.notifier.ShowSpinner(fmt.Sprintf("loading %s", url))
		defer v.notifier.HideSpinner()
	}

	m, err := v.loadAndUpload(ctx, url)
	if err == nil {
		v.install(m)
		v.notifier.Notify(ui.LevelSuccess, fmt.Sprintf("displaying %s", m.Name()))
		return nil
	}

	log.Printf("load cycle for %s failed: %v", url, err)

	if fallbackAttempt {
		v.fail(url, err)
		return err
	}

	// The spinner covers the primary load only; stop it before the hop.
	v.notifier.HideSpinner()
	v.notifier.Notify(ui.LevelWarn, fmt.Sprintf("failed to load %s, showing placeholder", url))

	v.mu.Lock()
	v.state = StateLoadingFallback
	fallbackURL := v.fallbackURL
	v.mu.Unlock()

	fm, fallbackErr := v.loadAndUpload(ctx, fallbackURL)
	if fallbackErr != nil {
		log.Printf("fallback load for %s failed: %v", fallbackURL, fallbackErr)
		v.fail(fallbackURL, fallbackErr)
		return fallbackErr
	}

	v.install(fm)
	return nil
}

// loadAndUpload performs one complete fetch-parse-build-upload pass and
// returns the GPU-ready model.
func (v *viewerImpl) loadAndUpload(ctx context.Context, url string) (model.Model, error) {
	imported, err := v.loader.Load(ctx, url)
	if err != nil {
		return nil, err
	}

	m := buildModel(imported, v.forceOpaque, v.forceWireframe)

	if err := v.scene.Renderer().UploadModel(ctx, m); err != nil {
		// The partial upload is rolled back through the same release path
		// a displayed model uses.
		m.Release()
		return nil, fmt.Errorf("failed to upload %s: %w", m.Name(), err)
	}
	return m, nil
}

// disposeDisplayed removes the current model from the scene and releases it.
func (v *viewerImpl) disposeDisplayed() {
	if displaced := v.scene.RemoveModel(); displaced != nil {
		displaced.Release()
	}
}

// install puts the model at the origin, frames the camera around it, and
// makes it the displayed model.
func (v *viewerImpl) install(m model.Model) {
	m.SetPosition(0, 0, 0)

	if cam := v.scene.Camera(); cam != nil {
		if ctrl := cam.Controller(); ctrl != nil {
			ctrl.SetTarget(0, 0, 0)
			ctrl.Frame(m.BoundingRadius())
		}
	}

	if displaced := v.scene.SetModel(m); displaced != nil {
		displaced.Release()
	}

	v.mu.Lock()
	v.state = StateDisplayed
	v.mu.Unlock()
}

// fail records a terminal failure: the viewer stays empty and a persistent
// notice tells the user what happened.
func (v *viewerImpl) fail(url string, err error) {
	id := v.notifier.NotifyPersistent(ui.LevelError,
		fmt.Sprintf("failed to load %s: %v", url, err))

	v.mu.Lock()
	v.state = StateFailed
	v.failureNoticeID = id
	v.mu.Unlock()
}
