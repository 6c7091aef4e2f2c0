// Package config loads viewer settings from TOML or YAML. Every field has a default,
// so a missing file or a partial one is valid.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"orrery/math"
)

type Config struct {
	Window     Window     `toml:"window" yaml:"window"`
	Assets     Assets     `toml:"assets" yaml:"assets"`
	Camera     Camera     `toml:"camera" yaml:"camera"`
	Simulation Simulation `toml:"simulation" yaml:"simulation"`
	Vehicle    Vehicle    `toml:"vehicle" yaml:"vehicle"`
	Path       Path       `toml:"path" yaml:"path"`
	Log        Log        `toml:"log" yaml:"log"`
	Metrics    Metrics    `toml:"metrics" yaml:"metrics"`
	World      World      `toml:"world" yaml:"world"`
}

type Window struct {
	Width      int    `toml:"width" yaml:"width"`
	Height     int    `toml:"height" yaml:"height"`
	Title      string `toml:"title" yaml:"title"`
	VSync      bool   `toml:"vsync" yaml:"vsync"`
	Fullscreen bool   `toml:"fullscreen" yaml:"fullscreen"`
}

type Assets struct {
	TextureDir   string `toml:"texture_dir" yaml:"texture_dir"`
	ShaderDir    string `toml:"shader_dir" yaml:"shader_dir"`
	VehicleModel string `toml:"vehicle_model" yaml:"vehicle_model"`
	// WatchShaders recompiles programs when their sources change.
	WatchShaders bool `toml:"watch_shaders" yaml:"watch_shaders"`
}

type Camera struct {
	FovY          float32 `toml:"fov_y" yaml:"fov_y"` // degrees
	Near          float32 `toml:"near" yaml:"near"`
	Far           float32 `toml:"far" yaml:"far"`
	DistanceStep  float32 `toml:"distance_step" yaml:"distance_step"`
	AngleStep     float32 `toml:"angle_step" yaml:"angle_step"`
	SphereDetail  int     `toml:"sphere_detail" yaml:"sphere_detail"`
	GlowTextureSz int     `toml:"glow_texture_size" yaml:"glow_texture_size"`
}

type Simulation struct {
	TickIntervalMS int     `toml:"tick_interval_ms" yaml:"tick_interval_ms"`
	TimeStep       float32 `toml:"time_step" yaml:"time_step"` // days per tick
	Paused         bool    `toml:"paused" yaml:"paused"`
	// Seed drives the R key; 0 seeds from the clock.
	Seed int64 `toml:"seed" yaml:"seed"`
}

type Vehicle struct {
	Radius       float32 `toml:"radius" yaml:"radius"`
	Distance     float32 `toml:"distance" yaml:"distance"` // earth radii behind earth
	Acceleration float32 `toml:"acceleration" yaml:"acceleration"`
	TurnStep     float32 `toml:"turn_step" yaml:"turn_step"` // degrees
	ViewOffset   float32 `toml:"view_offset" yaml:"view_offset"`
	ViewPitch    float32 `toml:"view_pitch" yaml:"view_pitch"` // degrees
	Normalize    bool    `toml:"normalize" yaml:"normalize"`
}

type Path struct {
	Speed         float32      `toml:"speed" yaml:"speed"`
	Samples       int          `toml:"samples" yaml:"samples"`
	ControlPoints [][3]float32 `toml:"control_points" yaml:"control_points"`
}

type Log struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

type Metrics struct {
	// Addr enables the /metrics endpoint, e.g. "127.0.0.1:9090".
	Addr string `toml:"addr" yaml:"addr"`
}

type World struct {
	Seed      int64   `toml:"seed" yaml:"seed"`
	Size      int     `toml:"size" yaml:"size"`
	MaxHeight int     `toml:"max_height" yaml:"max_height"`
	MoveStep  float32 `toml:"move_step" yaml:"move_step"`
	TurnStep  float32 `toml:"turn_step" yaml:"turn_step"` // degrees
}

func Default() Config {
	return Config{
		Window: Window{Width: 1024, Height: 768, Title: "Solar Viewer", VSync: true},
		Assets: Assets{
			TextureDir:   "textures",
			ShaderDir:    "shaders",
			VehicleModel: "spaceship.off",
		},
		Camera: Camera{
			FovY: 45, Near: 0.01, Far: 50,
			DistanceStep: 0.1, AngleStep: 10,
			SphereDetail: 50, GlowTextureSz: 900,
		},
		Simulation: Simulation{TickIntervalMS: 16, TimeStep: 1.0 / 24.0},
		Vehicle: Vehicle{
			Radius: 0.03, Distance: 4.5,
			Acceleration: 0.001, TurnStep: 2,
			ViewOffset: 4, ViewPitch: -20,
		},
		Path:  Path{Speed: 0.01, Samples: 200},
		Log:   Log{Level: "info", Format: "text"},
		World: World{Size: 32, MaxHeight: 8, MoveStep: 1, TurnStep: 10},
	}
}

// Load overlays the file at path onto Default and validates the result.
// Files ending in .yaml or .yml are read as YAML, anything else as TOML.
// An empty path returns the defaults. Relative asset directories are
// resolved against the file's directory.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(f, &cfg)
	default:
		err = decodeTOML(f, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	cfg.Assets.TextureDir = resolve(dir, cfg.Assets.TextureDir)
	cfg.Assets.ShaderDir = resolve(dir, cfg.Assets.ShaderDir)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeTOML(r io.Reader, cfg *Config) error {
	err := toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg)
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return errors.New(strict.String())
	}
	return err
}

func decodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Validate reports every out-of-range setting at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window: size %dx%d must be positive", c.Window.Width, c.Window.Height)
	check(c.Assets.VehicleModel != "", "assets: vehicle_model is required")
	check(c.Camera.FovY > 0 && c.Camera.FovY < 180, "camera: fov_y %v must be in (0, 180)", c.Camera.FovY)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera: need 0 < near < far, got %v, %v", c.Camera.Near, c.Camera.Far)
	check(c.Camera.SphereDetail >= 3, "camera: sphere_detail %d must be at least 3", c.Camera.SphereDetail)
	check(c.Camera.GlowTextureSz >= 2, "camera: glow_texture_size %d must be at least 2", c.Camera.GlowTextureSz)
	check(c.Simulation.TickIntervalMS > 0, "simulation: tick_interval_ms %d must be positive", c.Simulation.TickIntervalMS)
	check(c.Simulation.TimeStep > 0, "simulation: time_step %v must be positive", c.Simulation.TimeStep)
	check(c.Vehicle.Radius > 0, "vehicle: radius %v must be positive", c.Vehicle.Radius)
	check(c.Vehicle.ViewOffset > 0, "vehicle: view_offset %v must be positive", c.Vehicle.ViewOffset)
	check(c.Path.Speed > 0, "path: speed %v must be positive", c.Path.Speed)
	check(c.Path.Samples >= 4, "path: samples %d must be at least 4", c.Path.Samples)
	check(len(c.Path.ControlPoints) == 0 || len(c.Path.ControlPoints) >= 4,
		"path: control_points needs at least 4 points, got %d", len(c.Path.ControlPoints))
	check(c.World.Size > 0 && c.World.MaxHeight > 0, "world: size and max_height must be positive")
	check(c.World.MoveStep > 0, "world: move_step %v must be positive", c.World.MoveStep)

	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// ModelPath is the vehicle model file. A relative name is looked up in
// the texture directory.
func (a Assets) ModelPath() string {
	if filepath.IsAbs(a.VehicleModel) {
		return a.VehicleModel
	}
	return filepath.Join(a.TextureDir, a.VehicleModel)
}

func (s Simulation) TickInterval() time.Duration {
	return time.Duration(s.TickIntervalMS) * time.Millisecond
}

// Points converts the configured control polygon; nil means the built-in one.
func (p Path) Points() []math.Vec3 {
	if len(p.ControlPoints) == 0 {
		return nil
	}
	pts := make([]math.Vec3, len(p.ControlPoints))
	for i, c := range p.ControlPoints {
		pts[i] = math.Vec3{X: c[0], Y: c[1], Z: c[2]}
	}
	return pts
}
