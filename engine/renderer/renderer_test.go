package renderer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/orbit-go/engine/camera"
	"github.com/Carmen-Shannon/orbit-go/engine/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records calls without touching GL, standing in for the real
// backend on the test goroutine.
type fakeBackend struct {
	initCalls    int
	resizeCalls  [][2]int
	frames       int
	uploads      []model.Model
	draws        int
	geomDeletes  [][3]uint32
	texDeletes   []uint32
	uploadErr    error
	installHooks bool
}

var _ RendererBackend = &fakeBackend{}

func (f *fakeBackend) init(width, height int) error { f.initCalls++; return nil }

func (f *fakeBackend) resize(width, height int) {
	f.resizeCalls = append(f.resizeCalls, [2]int{width, height})
}

func (f *fakeBackend) beginFrame(clearColor [4]float32) { f.frames++ }

func (f *fakeBackend) uploadModel(m model.Model, deleteGeometry func(vao, vbo, ebo uint32), deleteTexture func(handle uint32)) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, m)
	if f.installHooks {
		for _, mesh := range m.Meshes() {
			mesh.Geometry.SetGPUHandles(1, 2, 3, deleteGeometry)
			if mesh.Material != nil && mesh.Material.BaseColorTexture != nil {
				mesh.Material.BaseColorTexture.SetGPUHandle(7, deleteTexture)
			}
		}
	}
	return nil
}

func (f *fakeBackend) drawModel(m model.Model, cam camera.Camera) { f.draws++ }

func (f *fakeBackend) deleteGeometry(vao, vbo, ebo uint32) {
	f.geomDeletes = append(f.geomDeletes, [3]uint32{vao, vbo, ebo})
}

func (f *fakeBackend) deleteTexture(handle uint32) {
	f.texDeletes = append(f.texDeletes, handle)
}

func testModel() model.Model {
	root := &model.Node{
		Name:      "root",
		Transform: model.IdentityTransform(),
		Mesh: &model.Mesh{
			Name:     "mesh",
			Geometry: &model.Geometry{Vertices: make([]model.Vertex, 3), Indices: []uint32{0, 1, 2}},
			Material: &model.Material{Name: "mat", BaseColorTexture: &model.Texture{}},
		},
	}
	return model.NewModel(model.WithName("test"), model.WithRoot(root))
}

func TestUploadModelRunsOnRenderThread(t *testing.T) {
	backend := &fakeBackend{}
	r := NewRenderer(BackendTypeGL, WithBackend(backend)).(*renderer)
	require.NoError(t, r.Init(640, 480))

	m := testModel()
	uploadDone := make(chan error, 1)
	go func() {
		uploadDone <- r.UploadModel(context.Background(), m)
	}()

	// The upload must not complete until a frame drains the task queue.
	select {
	case <-uploadDone:
		t.Fatal("upload completed before the render thread ran a frame")
	case <-time.After(20 * time.Millisecond):
	}

	r.BeginFrame()
	require.NoError(t, <-uploadDone)
	assert.Len(t, backend.uploads, 1)
	assert.Equal(t, 1, backend.frames)
}

func TestUploadModelPropagatesBackendError(t *testing.T) {
	wantErr := errors.New("out of memory")
	backend := &fakeBackend{uploadErr: wantErr}
	r := NewRenderer(BackendTypeGL, WithBackend(backend)).(*renderer)
	require.NoError(t, r.Init(640, 480))

	done := make(chan error, 1)
	go func() { done <- r.UploadModel(context.Background(), testModel()) }()

	r.waitForQueuedTask(t)
	r.BeginFrame()
	assert.ErrorIs(t, <-done, wantErr)
}

func TestUploadModelRespectsContext(t *testing.T) {
	backend := &fakeBackend{}
	r := NewRenderer(BackendTypeGL, WithBackend(backend)).(*renderer)
	require.NoError(t, r.Init(640, 480))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// No frame ever runs; the cancelled context unblocks the caller.
	err := r.UploadModel(ctx, testModel())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUploadNilModelFails(t *testing.T) {
	r := NewRenderer(BackendTypeGL, WithBackend(&fakeBackend{}))
	assert.Error(t, r.UploadModel(context.Background(), nil))
}

func TestReleaseHooksDeferDeletesToFrame(t *testing.T) {
	backend := &fakeBackend{installHooks: true}
	r := NewRenderer(BackendTypeGL, WithBackend(backend)).(*renderer)
	require.NoError(t, r.Init(640, 480))

	m := testModel()
	done := make(chan error, 1)
	go func() { done <- r.UploadModel(context.Background(), m) }()
	r.waitForQueuedTask(t)
	r.BeginFrame()
	require.NoError(t, <-done)

	// Releasing from an arbitrary goroutine queues the deletes; they only
	// reach the backend on the next frame.
	m.Release()
	assert.Empty(t, backend.geomDeletes)
	assert.Empty(t, backend.texDeletes)

	r.BeginFrame()
	require.Len(t, backend.geomDeletes, 1)
	assert.Equal(t, [3]uint32{1, 2, 3}, backend.geomDeletes[0])
	assert.Equal(t, []uint32{7}, backend.texDeletes)
}

func TestResizeIsDeferred(t *testing.T) {
	backend := &fakeBackend{}
	r := NewRenderer(BackendTypeGL, WithBackend(backend)).(*renderer)
	require.NoError(t, r.Init(640, 480))

	r.Resize(800, 600)
	assert.Empty(t, backend.resizeCalls)

	r.BeginFrame()
	require.Len(t, backend.resizeCalls, 1)
	assert.Equal(t, [2]int{800, 600}, backend.resizeCalls[0])
}

func TestRenderModelSkipsNil(t *testing.T) {
	backend := &fakeBackend{}
	r := NewRenderer(BackendTypeGL, WithBackend(backend)).(*renderer)
	require.NoError(t, r.Init(640, 480))

	r.RenderModel(nil, nil)
	assert.Zero(t, backend.draws)

	cc := camera.NewOrbitController()
	cam := camera.NewCamera(camera.WithController(cc))
	r.RenderModel(testModel(), cam)
	assert.Equal(t, 1, backend.draws)
}

// waitForQueuedTask blocks until at least one task is sitting in the queue,
// so tests can assert ordering without racing the submitting goroutine.
func (r *renderer) waitForQueuedTask(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for len(r.tasks) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for a task to be queued")
		}
		time.Sleep(time.Millisecond)
	}
}
