// Package app is the startup shared by the viewer binaries: flags, config,
// logging and the optional metrics endpoint.
package app

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"orrery/config"
	"orrery/internal/logging"
	"orrery/internal/shaderwatch"
	"orrery/internal/telemetry"
)

// Env is what a viewer needs before it opens its window.
type Env struct {
	Config  config.Config
	Log     logging.Logger
	Metrics *telemetry.Metrics
}

type flags struct {
	config      string
	logLevel    string
	metricsAddr string
}

func parseFlags(name string, args []string, output io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&f.config, "config", "", "path to a TOML config file")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides the config)")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (overrides the config)")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	if fs.NArg() > 0 {
		return flags{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return f, nil
}

// Setup parses args, loads the config and builds the logger and metrics.
// The metrics server, when enabled, stops with ctx.
func Setup(ctx context.Context, name string, args []string, output io.Writer) (*Env, error) {
	f, err := parseFlags(name, args, output)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.metricsAddr != "" {
		cfg.Metrics.Addr = f.metricsAddr
	}

	log := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: output,
	}).With(logging.String("app", name))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := telemetry.New(reg)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if cfg.Metrics.Addr != "" {
		if _, err := metrics.Serve(ctx, cfg.Metrics.Addr, log); err != nil {
			return nil, err
		}
	}

	return &Env{Config: cfg, Log: log, Metrics: metrics}, nil
}

// WatchShaders starts the shader watcher if the config asks for it. It
// returns nil, nil when watching is off.
func (e *Env) WatchShaders(ctx context.Context) (*shaderwatch.Watcher, error) {
	if !e.Config.Assets.WatchShaders {
		return nil, nil
	}
	w, err := shaderwatch.Watch(ctx, e.Config.Assets.ShaderDir, e.Log)
	if err != nil {
		return nil, err
	}
	e.Log.Info(ctx, "watching shaders", logging.String("dir", e.Config.Assets.ShaderDir))
	return w, nil
}
