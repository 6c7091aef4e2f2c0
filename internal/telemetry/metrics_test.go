package telemetry

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orrery/internal/logging"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveFrame(4 * time.Millisecond)
	m.ObserveFrame(6 * time.Millisecond)
	m.ObserveTick(1.5)
	m.AddGLErrors(3)
	m.AddGLErrors(0)
	m.ObserveShaderReload(nil)
	m.ObserveShaderReload(errors.New("compile failed"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Frames))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Ticks))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.SimDays))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.GLErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ShaderReloads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ShaderReloads.WithLabelValues("error")))

	count, err := testutil.GatherAndCount(reg, "orrery_frame_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	first.ObserveTick(2)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.Ticks))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFrame(time.Millisecond)
		m.ObserveTick(1)
		m.AddGLErrors(2)
		m.ObserveShaderReload(nil)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	m.ObserveTick(10)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "orrery_sim_days 10")
	assert.Contains(t, rr.Body.String(), "orrery_ticks_total 1")
}

func TestServe(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, err := m.Serve(ctx, "127.0.0.1:0", logging.Noop())
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "orrery_frames_total")
}
