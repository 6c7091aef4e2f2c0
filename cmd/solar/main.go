// Command solar is the interactive solar system viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"orrery/core"
	"orrery/internal/app"
	"orrery/internal/logging"
)

const controls = `Controls:
  1-6          focus sun, mercury, venus, earth, moon, mars
  7            follow the vehicle (W/S accelerate, A/D turn)
  8 / 9        move closer / farther
  arrows       orbit the target
  space        pause / resume
  P / M        double / halve the time step
  R            randomize planet positions
  G            greyscale
  C            cycle curve overlay
  T            toggle parallel transport
  Esc          quit`

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "solar:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env, err := app.Setup(ctx, "solar", os.Args[1:], os.Stderr)
	if err != nil {
		return err
	}
	cfg := env.Config

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

	h, err := newHost(ctx, env, window, watcher)
	if err != nil {
		env.Log.Error(ctx, "startup", logging.Err(err))
		return err
	}
	defer h.destroy()

	fmt.Println(controls)
	if err := window.Run(ctx, h, cfg.Simulation.TickInterval()); err != nil {
		env.Log.Error(ctx, "startup", logging.Err(err))
		return err
	}
	return nil
}
