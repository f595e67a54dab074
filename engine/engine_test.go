package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/orbit-go/engine/camera"
	"github.com/Carmen-Shannon/orbit-go/engine/model"
	"github.com/Carmen-Shannon/orbit-go/engine/renderer"
	"github.com/Carmen-Shannon/orbit-go/engine/scene"
	"github.com/Carmen-Shannon/orbit-go/engine/window"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow drives the engine loop without a real GLFW window. Its message
// loop keeps invoking the update callback until Close is called.
type fakeWindow struct {
	mu       sync.Mutex
	running  atomic.Bool
	onUpdate func()
	swaps    atomic.Int64
}

var _ window.Window = &fakeWindow{}

func newFakeWindow() *fakeWindow {
	w := &fakeWindow{}
	w.running.Store(true)
	return w
}

func (w *fakeWindow) SetUpdateCallback(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onUpdate = callback
}

func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) {}
func (w *fakeWindow) SetScrollCallback(callback func(delta float32))     {}
func (w *fakeWindow) SetKeyDownCallback(callback func(keyCode uint32))   {}
func (w *fakeWindow) SetKeyUpCallback(callback func(keyCode uint32))     {}
func (w *fakeWindow) SetMouseDownCallback(callback func(x, y int32))     {}
func (w *fakeWindow) SetMouseUpCallback(callback func(x, y int32))       {}
func (w *fakeWindow) SetMouseMoveCallback(callback func(x, y int32))     {}

func (w *fakeWindow) SwapBuffers()    { w.swaps.Add(1) }
func (w *fakeWindow) IsRunning() bool { return w.running.Load() }
func (w *fakeWindow) Close() error    { w.running.Store(false); return nil }
func (w *fakeWindow) Width() int      { return 640 }
func (w *fakeWindow) Height() int     { return 480 }

func (w *fakeWindow) ProcessMessages() {
	for w.IsRunning() {
		w.mu.Lock()
		update := w.onUpdate
		w.mu.Unlock()
		if update != nil {
			update()
		}
		time.Sleep(time.Millisecond)
	}
}

// fakeScene counts rendered frames and can panic once mid-render.
type fakeScene struct {
	frames    atomic.Int64
	panicOnce atomic.Bool
	active    atomic.Bool
}

var _ scene.Scene = &fakeScene{}

func newFakeScene() *fakeScene {
	s := &fakeScene{}
	s.active.Store(true)
	return s
}

func (s *fakeScene) Active() bool                       { return s.active.Load() }
func (s *fakeScene) SetActive(active bool)              { s.active.Store(active) }
func (s *fakeScene) Camera() camera.Camera              { return nil }
func (s *fakeScene) SetCamera(cam camera.Camera)        {}
func (s *fakeScene) Renderer() renderer.Renderer        { return nil }
func (s *fakeScene) Model() model.Model                 { return nil }
func (s *fakeScene) SetModel(m model.Model) model.Model { return nil }
func (s *fakeScene) RemoveModel() model.Model           { return nil }

func (s *fakeScene) RenderFrame() {
	if s.panicOnce.CompareAndSwap(true, false) {
		panic("render fault")
	}
	s.frames.Add(1)
}

func TestRunTicksAndRenders(t *testing.T) {
	win := newFakeWindow()
	scn := newFakeScene()
	e := NewEngine(WithWindow(win), WithScene(0, scn), WithTickRate(200))

	var ticks atomic.Int64
	e.SetTickCallback(func(dt float32) {
		if dt > 0 {
			ticks.Add(1)
		}
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	// Both loops make progress: the tick goroutine fires the callback while
	// the window loop renders frames and presents them.
	require.Eventually(t, func() bool {
		return ticks.Load() >= 3 && scn.frames.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)

	// A rate change while running keeps the loop ticking.
	e.SetTickRate(500)
	before := ticks.Load()
	require.Eventually(t, func() bool {
		return ticks.Load() > before
	}, time.Second, time.Millisecond)

	require.NoError(t, win.Close())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the window closed")
	}
	assert.Greater(t, win.swaps.Load(), int64(0))
}

func TestRenderPanicShutsDownCleanly(t *testing.T) {
	win := newFakeWindow()
	scn := newFakeScene()
	scn.panicOnce.Store(true)

	e := NewEngine(WithWindow(win), WithScene(0, scn))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	// The recovered panic closes the window instead of crashing the process.
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not shut down after a render panic")
	}
	assert.False(t, win.IsRunning())
}

func TestInactiveSceneIsSkipped(t *testing.T) {
	win := newFakeWindow()
	scn := newFakeScene()
	scn.SetActive(false)

	e := NewEngine(WithWindow(win), WithScene(0, scn))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	// Frames keep presenting but the inactive scene is never drawn.
	require.Eventually(t, func() bool {
		return win.swaps.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
	assert.Zero(t, scn.frames.Load())

	require.NoError(t, win.Close())
	<-done
}

func TestSceneRegistration(t *testing.T) {
	scn := newFakeScene()
	e := NewEngine(WithScene(3, scn))

	require.Equal(t, scene.Scene(scn), e.Scene(3))
	assert.Nil(t, e.Scene(0))

	other := newFakeScene()
	e.AddScene(0, other)
	assert.Equal(t, scene.Scene(other), e.Scene(0))

	e.RemoveScene(3)
	assert.Nil(t, e.Scene(3))
}

func TestProfilerToggle(t *testing.T) {
	e := NewEngine(WithProfiling(true))
	impl := e.(*engine)
	require.True(t, impl.profilingEnabled)

	e.DisableProfiler()
	assert.False(t, impl.profilingEnabled)

	e.EnableProfiler()
	assert.True(t, impl.profilingEnabled)
}

func TestQuitIsIdempotent(t *testing.T) {
	e := NewEngine(WithWindow(newFakeWindow()))
	e.Quit()
	e.Quit()
}
