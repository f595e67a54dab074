package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/Carmen-Shannon/orbit-go/common"
	"github.com/Carmen-Shannon/orbit-go/config"
	"github.com/Carmen-Shannon/orbit-go/engine"
	"github.com/Carmen-Shannon/orbit-go/engine/camera"
	"github.com/Carmen-Shannon/orbit-go/engine/loader"
	"github.com/Carmen-Shannon/orbit-go/engine/renderer"
	"github.com/Carmen-Shannon/orbit-go/engine/scene"
	"github.com/Carmen-Shannon/orbit-go/engine/window"
	"github.com/Carmen-Shannon/orbit-go/ui"
	"github.com/Carmen-Shannon/orbit-go/viewer"

	"github.com/spf13/cobra"
)

// keyOrbitRate is the orbit input fed to the controller per second while an
// arrow key is held, in the same units as mouse drag pixels.
const keyOrbitRate = 240.0

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orbit-go",
		Short: "Desktop glTF model viewer",
		Long: `orbit-go displays a glTF/GLB model from a URL or local path.

Failed loads retry immediately up to the configured budget, then fall back
to a bundled placeholder. Drag to orbit, scroll to zoom, R to retry a
failed load, Esc to quit.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

// run wires the viewer together and blocks until the window closes. It must
// be called on the main goroutine: window creation locks the OS thread and
// the GL context belongs to it afterwards.
func run(cfg *config.Config) error {
	logLevel := slog.LevelInfo
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
	slog.Info("starting viewer",
		"model", cfg.Model,
		"fallback", cfg.Fallback,
		"retries", cfg.Retries,
	)

	win, err := window.NewWindow(
		window.WithTitle("orbit-go"),
		window.WithSize(cfg.Width, cfg.Height),
	)
	if err != nil {
		return fmt.Errorf("failed to open window: %w", err)
	}

	rend := renderer.NewRenderer(renderer.BackendTypeGL)
	if err := rend.Init(win.Width(), win.Height()); err != nil {
		_ = win.Close()
		return fmt.Errorf("renderer init failed: %w", err)
	}

	ctrl := camera.NewOrbitController(
		camera.WithRadiusBounds(float32(cfg.MinRadius), float32(cfg.MaxRadius)),
		camera.WithZoomSpeed(float32(cfg.ZoomSpeed)),
	)
	cam := camera.NewCamera(
		camera.WithController(ctrl),
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
	)

	scn := scene.NewScene(
		scene.WithCamera(cam),
		scene.WithRenderer(rend),
	)

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithScene(0, scn),
		engine.WithProfiling(cfg.Profile),
	)

	notifier := ui.NewNotifier()
	defer notifier.Close()

	v := viewer.NewViewer(
		viewer.WithLoader(loader.NewLoader(loader.BackendTypeGLTF,
			loader.WithMaxRetries(cfg.Retries),
		)),
		viewer.WithScene(scn),
		viewer.WithNotifier(notifier),
		viewer.WithFallbackURL(cfg.Fallback),
		viewer.WithForceOpaque(cfg.ForceOpaque),
		viewer.WithForceWireframe(cfg.Wireframe),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	keys := wireInput(win, ctrl, eng, v, ctx, cfg.Profile)

	// Held arrow keys orbit smoothly at a fixed rate, scaled by the tick
	// delta so the speed is independent of the tick rate.
	eng.SetTickCallback(func(dt float32) {
		keys.stepOrbit(ctrl, dt)
	})

	// Kick off the initial load; the render loop keeps presenting while it
	// runs.
	go func() {
		if err := v.LoadInitial(ctx, cfg.Model); err != nil {
			slog.Error("initial load failed", "error", err)
		}
	}()

	eng.Run()
	return nil
}

// keyState tracks held keys between the window thread's key events and the
// engine tick goroutine that consumes them.
type keyState struct {
	mu   sync.Mutex
	held map[uint32]bool
}

func newKeyState() *keyState {
	return &keyState{held: make(map[uint32]bool)}
}

func (k *keyState) set(code uint32, down bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.held[code] = down
}

// stepOrbit applies one tick of orbit motion for the held arrow keys.
func (k *keyState) stepOrbit(ctrl camera.CameraController, dt float32) {
	k.mu.Lock()
	left, right := k.held[common.KeyLeft], k.held[common.KeyRight]
	up, down := k.held[common.KeyUp], k.held[common.KeyDown]
	k.mu.Unlock()

	step := float32(keyOrbitRate) * dt
	var dx, dy float32
	if left {
		dx += step
	}
	if right {
		dx -= step
	}
	if up {
		dy += step
	}
	if down {
		dy -= step
	}
	if dx != 0 || dy != 0 {
		ctrl.Orbit(dx, dy)
	}
}

// wireInput connects window events to the camera, engine, and viewer.
// Callbacks run on the window thread; arrow keys only record held state,
// which the engine tick turns into motion.
func wireInput(win window.Window, ctrl camera.CameraController, eng engine.Engine, v viewer.Viewer, ctx context.Context, profiling bool) *keyState {
	keys := newKeyState()

	var (
		dragging     bool
		lastX, lastY int32
	)

	win.SetMouseDownCallback(func(x, y int32) {
		dragging = true
		lastX, lastY = x, y
	})
	win.SetMouseUpCallback(func(x, y int32) {
		dragging = false
	})
	win.SetMouseMoveCallback(func(x, y int32) {
		if !dragging {
			return
		}
		ctrl.Orbit(float32(x-lastX), float32(y-lastY))
		lastX, lastY = x, y
	})
	win.SetScrollCallback(func(delta float32) {
		ctrl.Zoom(delta)
	})

	win.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyLeft, common.KeyRight, common.KeyUp, common.KeyDown:
			keys.set(keyCode, true)
		case common.KeyW:
			toggleWireframe(eng.Scene(0))
		case common.KeyP:
			profiling = !profiling
			if profiling {
				eng.EnableProfiler()
			} else {
				eng.DisableProfiler()
			}
		case common.KeyD:
			v.DismissNotice()
		case common.KeyR:
			go func() {
				if err := v.Reload(ctx); err != nil {
					slog.Warn("reload failed", "error", err)
				}
			}()
		}
	})

	win.SetKeyUpCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyLeft, common.KeyRight, common.KeyUp, common.KeyDown:
			keys.set(keyCode, false)
		}
	})

	return keys
}

// toggleWireframe flips wireframe rendering on the displayed model's
// materials. A no-op while nothing is displayed.
func toggleWireframe(scn scene.Scene) {
	if scn == nil {
		return
	}
	m := scn.Model()
	if m == nil {
		return
	}
	for _, mesh := range m.Meshes() {
		if mesh.Material != nil {
			mesh.Material.Wireframe = !mesh.Material.Wireframe
		}
	}
}
