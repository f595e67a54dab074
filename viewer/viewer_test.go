package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/orbit-go/engine/camera"
	"github.com/Carmen-Shannon/orbit-go/engine/loader"
	"github.com/Carmen-Shannon/orbit-go/engine/model"
	"github.com/Carmen-Shannon/orbit-go/engine/renderer"
	"github.com/Carmen-Shannon/orbit-go/engine/scene"
	"github.com/Carmen-Shannon/orbit-go/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoader scripts per-URL results and records call order.
type fakeLoader struct {
	mu      sync.Mutex
	results map[string]error
	calls   []string
	onLoad  func(url string)
	block   chan struct{}
}

var _ loader.Loader = &fakeLoader{}

func (f *fakeLoader) Load(ctx context.Context, url string) (*model.ImportedModel, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	hook := f.onLoad
	block := f.block
	err := f.results[url]
	f.mu.Unlock()

	if hook != nil {
		hook(url)
	}
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return importedCube(url), nil
}

func (f *fakeLoader) MaxRetries() int { return 3 }

func (f *fakeLoader) urls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// fakeUploader implements renderer.Renderer without a GL context. Uploads
// install countable release hooks so disposal ordering can be asserted.
type fakeUploader struct {
	mu           sync.Mutex
	uploads      int
	releases     int
	failUploads  int // fail the first N uploads
	lastUploaded model.Model
}

var _ renderer.Renderer = &fakeUploader{}

func (f *fakeUploader) Init(width, height int) error                 { return nil }
func (f *fakeUploader) Resize(width, height int)                     {}
func (f *fakeUploader) BeginFrame()                                  {}
func (f *fakeUploader) RenderModel(m model.Model, cam camera.Camera) {}

func (f *fakeUploader) UploadModel(ctx context.Context, m model.Model) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUploads > 0 {
		f.failUploads--
		return errors.New("device lost")
	}
	f.uploads++
	f.lastUploaded = m
	for _, mesh := range m.Meshes() {
		mesh.Geometry.SetGPUHandles(1, 2, 3, func(vao, vbo, ebo uint32) {
			f.mu.Lock()
			f.releases++
			f.mu.Unlock()
		})
	}
	return nil
}

func (f *fakeUploader) releaseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.releases
}

// fakeNotifier records every notification interaction.
type fakeNotifier struct {
	mu         sync.Mutex
	spinners   []string
	hides      int
	notified   []string
	persistent map[string]string
	dismissed  []string
	nextID     int
}

var _ ui.Notifier = &fakeNotifier{}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{persistent: make(map[string]string)}
}

func (f *fakeNotifier) ShowSpinner(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spinners = append(f.spinners, message)
}

func (f *fakeNotifier) HideSpinner() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hides++
}

func (f *fakeNotifier) Notify(level ui.Level, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, level.String()+" "+message)
}

func (f *fakeNotifier) NotifyPersistent(level ui.Level, message string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("notice-%d", f.nextID)
	f.persistent[id] = level.String() + " " + message
	return id
}

func (f *fakeNotifier) Dismiss(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.persistent, id)
	f.dismissed = append(f.dismissed, id)
}

func (f *fakeNotifier) ActiveNotices() []ui.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	var notices []ui.Notice
	for id, msg := range f.persistent {
		notices = append(notices, ui.Notice{ID: id, Message: msg})
	}
	return notices
}

func (f *fakeNotifier) Close() {}

// importedCube builds a one-mesh imported model whose farthest vertex sits at
// distance 1 from the origin.
func importedCube(name string) *model.ImportedModel {
	return &model.ImportedModel{
		Name: name,
		Roots: []*model.ImportedNode{{
			Name:      "root",
			Transform: model.IdentityTransform(),
			Meshes: []model.ImportedMesh{{
				Name: "cube",
				Vertices: []model.Vertex{
					{Position: [3]float32{1, 0, 0}},
					{Position: [3]float32{0, 1, 0}},
					{Position: [3]float32{0, 0, 1}},
				},
				Indices:       []uint32{0, 1, 2},
				MaterialIndex: -1,
			}},
		}},
	}
}

type harness struct {
	viewer   Viewer
	loader   *fakeLoader
	uploader *fakeUploader
	notifier *fakeNotifier
	scene    scene.Scene
	camera   camera.CameraController
}

func newHarness(t *testing.T, results map[string]error, options ...ViewerBuilderOption) *harness {
	t.Helper()

	fl := &fakeLoader{results: results}
	fu := &fakeUploader{}
	fn := newFakeNotifier()

	ctrl := camera.NewOrbitController(camera.WithRadiusBounds(0.1, 1000))
	cam := camera.NewCamera(camera.WithController(ctrl))
	scn := scene.NewScene(scene.WithCamera(cam), scene.WithRenderer(fu))

	options = append([]ViewerBuilderOption{
		WithLoader(fl),
		WithScene(scn),
		WithNotifier(fn),
		WithFallbackURL("fallback.glb"),
	}, options...)

	return &harness{
		viewer:   NewViewer(options...),
		loader:   fl,
		uploader: fu,
		notifier: fn,
		scene:    scn,
		camera:   ctrl,
	}
}

func TestPrimaryLoadSuccess(t *testing.T) {
	h := newHarness(t, map[string]error{})

	err := h.viewer.LoadAndDisplay(context.Background(), "duck.glb", false)
	require.NoError(t, err)

	assert.Equal(t, StateDisplayed, h.viewer.State())
	require.NotNil(t, h.scene.Model())
	assert.Equal(t, "duck.glb", h.scene.Model().Name())
	assert.Equal(t, []string{"duck.glb"}, h.loader.urls())

	// Spinner shown for the primary load and hidden afterwards.
	assert.Len(t, h.notifier.spinners, 1)
	assert.GreaterOrEqual(t, h.notifier.hides, 1)

	// Camera framed around the unit bounding radius.
	assert.InDelta(t, 2.5, h.camera.Radius(), 1e-4)
}

func TestDisposeBeforeNextLoad(t *testing.T) {
	h := newHarness(t, map[string]error{})
	ctx := context.Background()

	require.NoError(t, h.viewer.LoadAndDisplay(ctx, "first.glb", false))
	first := h.scene.Model()
	require.NotNil(t, first)
	firstGeometry := first.Meshes()[0].Geometry
	require.True(t, firstGeometry.Uploaded())

	// The displayed model must already be released when the next load hits
	// the loader.
	h.loader.onLoad = func(url string) {
		if url == "second.glb" {
			assert.False(t, firstGeometry.Uploaded(), "previous model still held GPU buffers during load")
			assert.Equal(t, 1, h.uploader.releaseCount())
		}
	}

	require.NoError(t, h.viewer.LoadAndDisplay(ctx, "second.glb", false))
	assert.Equal(t, "second.glb", h.scene.Model().Name())
}

func TestPrimaryFailureFallsBackOnce(t *testing.T) {
	h := newHarness(t, map[string]error{"missing.glb": errors.New("404")})

	err := h.viewer.LoadAndDisplay(context.Background(), "missing.glb", false)
	require.NoError(t, err)

	assert.Equal(t, StateDisplayed, h.viewer.State())
	assert.Equal(t, "fallback.glb", h.scene.Model().Name())
	assert.Equal(t, []string{"missing.glb", "fallback.glb"}, h.loader.urls())

	// One warning for the hop, spinner only for the primary.
	require.Len(t, h.notifier.notified, 1)
	assert.Contains(t, h.notifier.notified[0], "WARN")
	assert.Len(t, h.notifier.spinners, 1)
}

func TestFallbackFailureIsTerminal(t *testing.T) {
	h := newHarness(t, map[string]error{
		"missing.glb":  errors.New("404"),
		"fallback.glb": errors.New("corrupt"),
	})

	err := h.viewer.LoadAndDisplay(context.Background(), "missing.glb", false)
	require.Error(t, err)

	assert.Equal(t, StateFailed, h.viewer.State())
	assert.Nil(t, h.scene.Model())
	// Exactly one hop: primary then fallback, never a third attempt.
	assert.Equal(t, []string{"missing.glb", "fallback.glb"}, h.loader.urls())
	assert.Len(t, h.notifier.ActiveNotices(), 1)
}

func TestDismissNoticeClearsTerminalFailure(t *testing.T) {
	h := newHarness(t, map[string]error{
		"missing.glb":  errors.New("404"),
		"fallback.glb": errors.New("corrupt"),
	})

	require.Error(t, h.viewer.LoadAndDisplay(context.Background(), "missing.glb", false))
	require.Len(t, h.notifier.ActiveNotices(), 1)

	h.viewer.DismissNotice()
	assert.Empty(t, h.notifier.ActiveNotices())
	// The viewer stays failed; only the notice is gone.
	assert.Equal(t, StateFailed, h.viewer.State())

	// A second dismiss is a no-op.
	h.viewer.DismissNotice()
	assert.Len(t, h.notifier.dismissed, 1)
}

func TestDirectFallbackAttemptFailureIsTerminal(t *testing.T) {
	h := newHarness(t, map[string]error{"fallback.glb": errors.New("corrupt")})

	// The missing-URL path loads the fallback directly as a fallback attempt.
	err := h.viewer.LoadAndDisplay(context.Background(), "fallback.glb", true)
	require.Error(t, err)

	assert.Equal(t, StateFailed, h.viewer.State())
	assert.Equal(t, []string{"fallback.glb"}, h.loader.urls())
	// No spinner and no fallback warning for a fallback attempt.
	assert.Empty(t, h.notifier.spinners)
	assert.Empty(t, h.notifier.notified)
	assert.Len(t, h.notifier.ActiveNotices(), 1)
}

func TestLoadInitialWithoutURLLoadsFallbackDirectly(t *testing.T) {
	h := newHarness(t, map[string]error{})

	require.NoError(t, h.viewer.LoadInitial(context.Background(), ""))

	assert.Equal(t, StateDisplayed, h.viewer.State())
	assert.Equal(t, []string{"fallback.glb"}, h.loader.urls())
	// Straight to the placeholder: no primary attempt, no spinner.
	assert.Empty(t, h.notifier.spinners)
	assert.Empty(t, h.notifier.notified)
}

func TestLoadInitialWithoutURLFailureIsTerminal(t *testing.T) {
	h := newHarness(t, map[string]error{"fallback.glb": errors.New("corrupt")})

	require.Error(t, h.viewer.LoadInitial(context.Background(), ""))

	assert.Equal(t, StateFailed, h.viewer.State())
	// No second hop when the direct fallback load fails.
	assert.Equal(t, []string{"fallback.glb"}, h.loader.urls())
	assert.Len(t, h.notifier.ActiveNotices(), 1)
}

func TestLoadInitialWithURLGoesPrimary(t *testing.T) {
	h := newHarness(t, map[string]error{})

	require.NoError(t, h.viewer.LoadInitial(context.Background(), "duck.glb"))

	assert.Equal(t, []string{"duck.glb"}, h.loader.urls())
	assert.Len(t, h.notifier.spinners, 1)
}

func TestUploadFailureTriggersFallback(t *testing.T) {
	h := newHarness(t, map[string]error{})
	h.uploader.failUploads = 1

	err := h.viewer.LoadAndDisplay(context.Background(), "duck.glb", false)
	require.NoError(t, err)

	assert.Equal(t, StateDisplayed, h.viewer.State())
	assert.Equal(t, "fallback.glb", h.scene.Model().Name())
	assert.Equal(t, []string{"duck.glb", "fallback.glb"}, h.loader.urls())
}

func TestDisplayFlagsApplyToFallbackLoad(t *testing.T) {
	h := newHarness(t, map[string]error{"missing.glb": errors.New("404")},
		WithForceOpaque(true), WithForceWireframe(true))

	require.NoError(t, h.viewer.LoadAndDisplay(context.Background(), "missing.glb", false))
	require.Equal(t, "fallback.glb", h.scene.Model().Name())

	for _, mesh := range h.scene.Model().Meshes() {
		require.NotNil(t, mesh.Material)
		assert.True(t, mesh.Material.Opaque)
		assert.True(t, mesh.Material.Wireframe)
	}
}

func TestReloadRetriesLastPrimary(t *testing.T) {
	h := newHarness(t, map[string]error{
		"flaky.glb":    errors.New("timeout"),
		"fallback.glb": errors.New("corrupt"),
	})
	ctx := context.Background()

	require.Error(t, h.viewer.LoadAndDisplay(ctx, "flaky.glb", false))
	require.Equal(t, StateFailed, h.viewer.State())
	require.Len(t, h.notifier.ActiveNotices(), 1)

	// The asset comes back; Reload retries the primary URL and the standing
	// failure notice is dismissed.
	h.loader.mu.Lock()
	h.loader.results = map[string]error{}
	h.loader.mu.Unlock()

	require.NoError(t, h.viewer.Reload(ctx))
	assert.Equal(t, StateDisplayed, h.viewer.State())
	assert.Equal(t, "flaky.glb", h.scene.Model().Name())
	assert.Empty(t, h.notifier.ActiveNotices())
}

func TestReloadWithoutHistoryFails(t *testing.T) {
	h := newHarness(t, map[string]error{})
	assert.Error(t, h.viewer.Reload(context.Background()))
}

func TestConcurrentLoadIsRejected(t *testing.T) {
	h := newHarness(t, map[string]error{})
	h.loader.block = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- h.viewer.LoadAndDisplay(context.Background(), "slow.glb", false)
	}()

	// Wait for the first load to reach the loader.
	require.Eventually(t, func() bool {
		return len(h.loader.urls()) == 1
	}, time.Second, time.Millisecond)

	err := h.viewer.LoadAndDisplay(context.Background(), "other.glb", false)
	assert.ErrorIs(t, err, ErrLoadInProgress)

	close(h.loader.block)
	require.NoError(t, <-done)
	assert.Equal(t, "slow.glb", h.scene.Model().Name())
}

func TestFailedUploadReleasesPartialModel(t *testing.T) {
	h := newHarness(t, map[string]error{"fallback.glb": errors.New("corrupt")})
	h.uploader.failUploads = 1

	err := h.viewer.LoadAndDisplay(context.Background(), "duck.glb", false)
	require.Error(t, err)
	assert.Equal(t, StateFailed, h.viewer.State())
	assert.Nil(t, h.scene.Model())
}
