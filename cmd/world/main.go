// Command world flies a camera through a generated voxel terrain.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"orrery/compose"
	"orrery/config"
	"orrery/control"
	"orrery/core"
	"orrery/input"
	"orrery/internal/app"
	"orrery/internal/logging"
	"orrery/internal/shaderwatch"
	"orrery/math"
	"orrery/renderer"
	"orrery/scene"
	"orrery/voxel"
)

const controls = `Controls:
  W / S        move forward / back
  A / D        strafe left / right
  arrows       turn and look up / down
  Esc          quit`

var clearColor = scene.Color{R: 0.2, G: 0.3, B: 0.3, A: 1}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "world:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env, err := app.Setup(ctx, "world", os.Args[1:], os.Stderr)
	if err != nil {
		return err
	}
	cfg := env.Config
	if cfg.Window.Title == config.Default().Window.Title {
		cfg.Window.Title = "World Viewer"
	}

	voxels, err := voxel.Generate(cfg.World.Seed, cfg.World.Size, cfg.World.MaxHeight)
	if err != nil {
		return err
	}
	world, err := voxel.NewWorldMap(voxels)
	if err != nil {
		return err
	}
	env.Log.Info(ctx, "world generated", logging.Int("cubes", len(world.Cubes)), logging.Any("seed", cfg.World.Seed))

	window, err := core.NewWindow(core.WindowConfig{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Title:      cfg.Window.Title,
		Resizable:  true,
		VSync:      cfg.Window.VSync,
		Fullscreen: cfg.Window.Fullscreen,
	})
	if err != nil {
		env.Log.Error(ctx, "window", logging.Err(err))
		return err
	}
	defer window.Destroy()

	watcher, err := env.WatchShaders(ctx)
	if err != nil {
		env.Log.Warn(ctx, "shader hot reload disabled", logging.Err(err))
	}
	if watcher != nil {
		defer watcher.Close()
	}

	camera := voxel.NewFlyCamera(world.StartPosition())
	h := &host{
		ctx:     ctx,
		env:     env,
		cfg:     cfg,
		window:  window,
		watcher: watcher,
		world:   world,
		camera:  camera,
		controls: &control.World{
			Camera:   camera,
			MoveStep: cfg.World.MoveStep,
			TurnStep: cfg.World.TurnStep,
			Log:      env.Log,
		},
	}
	defer h.destroy()

	fmt.Println(controls)
	if err := window.Run(ctx, h, cfg.Simulation.TickInterval()); err != nil {
		env.Log.Error(ctx, "startup", logging.Err(err))
		return err
	}
	return nil
}

type host struct {
	ctx     context.Context
	env     *app.Env
	cfg     config.Config
	window  *core.Window
	watcher *shaderwatch.Watcher
	engine  *renderer.RenderEngine

	world    *voxel.WorldMap
	camera   *voxel.FlyCamera
	controls *control.World
}

func (h *host) Initialize() error {
	engine, err := renderer.NewRenderEngine(h.env.Log, h.env.Metrics)
	if err != nil {
		return err
	}
	h.engine = engine
	engine.ClearColor = clearColor

	if err := engine.LoadPrograms(h.cfg.Assets.ShaderDir, compose.TechniqueCube); err != nil {
		return err
	}
	engine.AddMeshes(map[string]*scene.Mesh{compose.MeshCube: scene.CreateCube(1)})
	return nil
}

func (h *host) Resize(width, height int) {
	if h.engine != nil {
		h.engine.Resize(width, height)
	}
	h.env.Log.Debug(h.ctx, "resize", logging.Int("width", width), logging.Int("height", height))
}

// The world is static.
func (h *host) Timer() {}

func (h *host) Paint() {
	if h.watcher != nil {
		if changed := h.watcher.Drain(); len(changed) > 0 {
			h.engine.ReloadShaders(h.ctx, changed)
		}
	}

	start := time.Now()
	proj := math.Mat4Perspective(math.DegToRad(h.cfg.Camera.FovY), h.engine.Aspect(), h.cfg.Camera.Near, h.cfg.Camera.Far)
	h.engine.Render(h.ctx, voxel.DrawFrame(h.world, h.camera.View(), proj))
	if d := time.Since(start); d > 100*time.Millisecond {
		h.env.Log.Warn(h.ctx, "slow frame", logging.Any("duration", d), logging.Int("draws", h.engine.LastDrawCount()))
	}
}

func (h *host) Keyboard(key input.Key, action input.Action) {
	if h.controls.Handle(h.ctx, key, action) == control.CommandExit {
		h.window.Close()
	}
}

func (h *host) destroy() {
	if h.engine != nil {
		h.engine.Destroy()
	}
}
