package main

import (
	"context"
	"fmt"
	"math/rand"
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
	"orrery/sim"
	"orrery/view"
)

// host implements core.Host for the solar viewer. Every field is touched
// only from the window thread.
type host struct {
	ctx     context.Context
	env     *app.Env
	cfg     config.Config
	log     logging.Logger
	window  *core.Window
	watcher *shaderwatch.Watcher

	engine   *renderer.RenderEngine
	composer *compose.Composer
	rig      view.Rig

	system   *sim.System
	clock    sim.Clock
	state    view.State
	camera   view.Camera
	controls *control.Solar

	lastTitle time.Time
}

func newHost(ctx context.Context, env *app.Env, window *core.Window, watcher *shaderwatch.Watcher) (*host, error) {
	cfg := env.Config
	system, err := sim.NewSystem(sim.Options{
		VehicleRadius:   cfg.Vehicle.Radius,
		VehicleDistance: cfg.Vehicle.Distance,
		PathSpeed:       cfg.Path.Speed,
		ControlPolygon:  cfg.Path.Points(),
	})
	if err != nil {
		return nil, err
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	h := &host{
		ctx:      ctx,
		env:      env,
		cfg:      cfg,
		log:      env.Log,
		window:   window,
		watcher:  watcher,
		composer: compose.NewComposer(),
		rig:      view.Rig{VehicleOffset: cfg.Vehicle.ViewOffset, VehiclePitch: cfg.Vehicle.ViewPitch},
		system:   system,
		clock:    sim.NewClock(),
		state:    view.DefaultState(),
	}
	h.clock.Step = cfg.Simulation.TimeStep
	h.clock.Active = !cfg.Simulation.Paused
	h.controls = &control.Solar{
		State:  &h.state,
		Clock:  &h.clock,
		System: system,
		Steps: control.Steps{
			Distance:     cfg.Camera.DistanceStep,
			Angle:        cfg.Camera.AngleStep,
			Acceleration: cfg.Vehicle.Acceleration,
			Turn:         cfg.Vehicle.TurnStep,
		},
		Rand: rand.New(rand.NewSource(seed)),
		Log:  env.Log,
	}
	return h, nil
}

// Initialize loads every GPU resource. Any failure is fatal.
func (h *host) Initialize() error {
	engine, err := renderer.NewRenderEngine(h.log, h.env.Metrics)
	if err != nil {
		return err
	}
	h.engine = engine

	assets := h.cfg.Assets
	if err := engine.LoadPrograms(assets.ShaderDir, compose.Techniques()...); err != nil {
		return err
	}
	if err := engine.LoadTextures(assets.TextureDir, compose.Textures()...); err != nil {
		return err
	}
	glow := scene.NewGlowTexture(h.cfg.Camera.GlowTextureSz, 1.0/3.0)
	if err := engine.AddTexture(compose.TextureGlow, glow); err != nil {
		return err
	}

	built, err := compose.BuildAssets(h.system, compose.MeshOptions{
		SphereDetail:     h.cfg.Camera.SphereDetail,
		PathSamples:      h.cfg.Path.Samples,
		VehicleModel:     assets.ModelPath(),
		NormalizeVehicle: h.cfg.Vehicle.Normalize,
	})
	if err != nil {
		return err
	}
	engine.AddMeshes(built.Meshes)
	if built.VehicleTexture != nil {
		if err := engine.AddTexture(compose.TextureShip, built.VehicleTexture); err != nil {
			return err
		}
	}

	if cam, err := h.rig.ComputeView(h.state, h.system); err == nil {
		h.camera = cam
	}
	return nil
}

func (h *host) Resize(width, height int) {
	if h.engine != nil {
		h.engine.Resize(width, height)
	}
	h.log.Debug(h.ctx, "resize", logging.Int("width", width), logging.Int("height", height))
}

func (h *host) Timer() {
	advanced, err := h.system.Tick(&h.clock)
	if err != nil {
		h.log.Warn(h.ctx, "path frame kept", logging.Err(err))
	}
	if advanced {
		h.env.Metrics.ObserveTick(h.clock.Days)
	}
}

func (h *host) Paint() {
	if h.watcher != nil {
		if changed := h.watcher.Drain(); len(changed) > 0 {
			h.engine.ReloadShaders(h.ctx, changed)
		}
	}

	cam, err := h.rig.ComputeView(h.state, h.system)
	if err != nil {
		h.log.Warn(h.ctx, "camera kept", logging.Err(err))
	} else {
		h.camera = cam
	}
	h.controls.LastBillboard = h.camera.Billboard

	proj := math.Mat4Perspective(math.DegToRad(h.cfg.Camera.FovY), h.engine.Aspect(), h.cfg.Camera.Near, h.cfg.Camera.Far)
	calls := h.composer.DrawFrame(compose.FrameInput{
		View:       h.camera.View(),
		Projection: proj,
		Camera:     h.camera,
		State:      h.state,
		System:     h.system,
		Clock:      h.clock,
	})
	h.engine.Render(h.ctx, calls)
	h.updateTitle()
}

func (h *host) Keyboard(key input.Key, action input.Action) {
	if h.controls.Handle(h.ctx, key, action) == control.CommandExit {
		h.window.Close()
	}
}

// updateTitle shows the target and simulated date, twice a second.
func (h *host) updateTitle() {
	now := time.Now()
	if now.Sub(h.lastTitle) < 500*time.Millisecond {
		return
	}
	h.lastTitle = now

	status := "running"
	if !h.clock.Active {
		status = "paused"
	}
	target := h.state.Target.String()
	if !h.state.Target.IsVehicle() {
		target = h.system.Bodies[h.state.Target.Body].Name
	}
	h.window.SetTitle(fmt.Sprintf("%s | %s | day %.1f | %.3g d/tick | %s",
		h.cfg.Window.Title, target, h.clock.Days, h.clock.Step, status))
}

func (h *host) destroy() {
	if h.engine != nil {
		h.engine.Destroy()
	}
}
