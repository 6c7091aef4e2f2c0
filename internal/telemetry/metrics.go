// Package telemetry exposes the viewer's Prometheus metrics.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orrery/internal/logging"
)

// Metrics bundles the render loop counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	Frames        prometheus.Counter
	Ticks         prometheus.Counter
	GLErrors      prometheus.Counter
	FrameDuration prometheus.Histogram
	SimDays       prometheus.Gauge
	ShaderReloads *prometheus.CounterVec
}

// New registers the metrics against reg, defaulting to the global
// Prometheus registry when nil. Registering twice returns the existing
// collectors.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_frames_total",
		Help: "Frames painted.",
	}))
	if err != nil {
		return nil, err
	}
	ticks, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_ticks_total",
		Help: "Timer ticks that advanced the simulation.",
	}))
	if err != nil {
		return nil, err
	}
	glErrors, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_gl_errors_total",
		Help: "OpenGL errors drained after each frame.",
	}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orrery_frame_duration_seconds",
		Help:    "Time spent building and submitting one frame.",
		Buckets: []float64{0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1, 0.25},
	}))
	if err != nil {
		return nil, err
	}
	days, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_sim_days",
		Help: "Simulated days elapsed.",
	}))
	if err != nil {
		return nil, err
	}
	reloads, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_shader_reloads_total",
		Help: "Shader hot reloads, labeled by result.",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:      gatherer,
		Frames:        frames,
		Ticks:         ticks,
		GLErrors:      glErrors,
		FrameDuration: duration,
		SimDays:       days,
		ShaderReloads: reloads,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			var zero C
			return zero, fmt.Errorf("collector already registered with incompatible type: %w", err)
		}
		var zero C
		return zero, err
	}
	return c, nil
}

func (m *Metrics) ObserveFrame(d time.Duration) {
	if m == nil {
		return
	}
	m.Frames.Inc()
	m.FrameDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveTick(days float64) {
	if m == nil {
		return
	}
	m.Ticks.Inc()
	m.SimDays.Set(days)
}

func (m *Metrics) AddGLErrors(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.GLErrors.Add(float64(n))
}

func (m *Metrics) ObserveShaderReload(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ShaderReloads.WithLabelValues(result).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (m *Metrics) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if m != nil && m.gatherer != nil {
		gatherer = m.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Serve listens on addr and serves /metrics until ctx is cancelled. The
// listener is bound before Serve returns so address errors surface to the
// caller; serving continues in the background.
func (m *Metrics) Serve(ctx context.Context, addr string, log logging.Logger) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server stopped", logging.Err(err))
		}
	}()

	log.Info(ctx, "metrics endpoint listening", logging.String("addr", ln.Addr().String()))
	return ln.Addr(), nil
}
