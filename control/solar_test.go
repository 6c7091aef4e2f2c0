package control

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orrery/input"
	"orrery/sim"
	"orrery/view"
)

type fixture struct {
	state  view.State
	clock  sim.Clock
	system *sim.System
	ctl    *Solar
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sys, err := sim.NewSystem(sim.DefaultOptions())
	require.NoError(t, err)
	f := &fixture{state: view.DefaultState(), clock: sim.NewClock(), system: sys}
	f.ctl = &Solar{
		State:  &f.state,
		Clock:  &f.clock,
		System: sys,
		Steps:  DefaultSteps(),
		Rand:   rand.New(rand.NewSource(1)),
	}
	return f
}

func (f *fixture) press(keys ...input.Key) Command {
	var cmd Command
	for _, k := range keys {
		cmd = f.ctl.Handle(context.Background(), k, input.Press)
	}
	return cmd
}

func TestSelectEarthTargetsEarth(t *testing.T) {
	f := newFixture(t)
	f.press(input.Key7)
	require.True(t, f.state.Target.IsVehicle())

	f.press(input.Key4)
	assert.Equal(t, view.BodyTarget(sim.Earth), f.state.Target)
	assert.False(t, f.state.Target.IsVehicle())

	_, err := f.system.Tick(&f.clock)
	require.NoError(t, err)
	cam, err := view.DefaultRig().ComputeView(f.state, f.system)
	require.NoError(t, err)
	assert.Equal(t, f.system.Bodies[sim.Earth].Position, cam.Center)
}

func TestDigitsSelectBodiesInOrder(t *testing.T) {
	f := newFixture(t)
	for d := 1; d <= 6; d++ {
		f.press(input.Digit(d))
		assert.Equal(t, view.BodyTarget(d-1), f.state.Target)
	}
}

func TestDistanceKeysClamp(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 100; i++ {
		f.press(input.Key8)
		assert.GreaterOrEqual(t, f.state.Distance, view.MinDistance)
	}
	assert.Equal(t, view.MinDistance, f.state.Distance)

	for i := 0; i < 400; i++ {
		f.ctl.Handle(context.Background(), input.Key9, input.Repeat)
		assert.LessOrEqual(t, f.state.Distance, view.MaxDistance)
	}
	assert.Equal(t, view.MaxDistance, f.state.Distance)
}

func TestTimeStepDoublingTwice(t *testing.T) {
	f := newFixture(t)
	require.InDelta(t, 1.0/24, f.clock.Step, 1e-7)

	f.press(input.KeyP, input.KeyEqual)
	assert.InDelta(t, 4.0/24, f.clock.Step, 1e-7)

	f.press(input.KeyMinus)
	assert.InDelta(t, 2.0/24, f.clock.Step, 1e-7)
}

func TestToggles(t *testing.T) {
	f := newFixture(t)

	f.press(input.KeyG)
	assert.True(t, f.state.Greyscale)

	f.press(input.KeySpace)
	assert.False(t, f.clock.Active)

	f.press(input.KeyT)
	assert.True(t, f.system.Frame.ParallelTransport)

	f.press(input.KeyC, input.KeyC)
	assert.Equal(t, view.OverlayControlPolygon, f.state.Overlay)
}

func TestArrowKeysOrbitCamera(t *testing.T) {
	f := newFixture(t)
	f.press(input.KeyRight, input.KeyRight, input.KeyUp)
	assert.Equal(t, float32(20), f.state.AngleY)
	assert.Equal(t, float32(-10), f.state.AngleX)

	f.press(input.KeyLeft, input.KeyDown)
	assert.Equal(t, float32(10), f.state.AngleY)
	assert.Equal(t, float32(0), f.state.AngleX)
}

func TestSteeringOnlyInVehicleMode(t *testing.T) {
	f := newFixture(t)
	f.press(input.KeyW, input.KeyA)
	assert.Zero(t, f.system.Vehicle.Speed)
	assert.Zero(t, f.system.Vehicle.Heading)

	f.press(input.Key7, input.KeyW, input.KeyW, input.KeyS, input.KeyD)
	assert.InDelta(t, 0.001, f.system.Vehicle.Speed, 1e-7)
	assert.Equal(t, -f.ctl.Steps.Turn, f.system.Vehicle.Heading)
}

func TestRandomizeKey(t *testing.T) {
	f := newFixture(t)
	before := f.system.Bodies[sim.Mars].OrbitAngle
	f.press(input.KeyR)
	assert.NotEqual(t, before, f.system.Bodies[sim.Mars].OrbitAngle)
	assert.Positive(t, f.clock.Days, "elapsed days follow the jump")
}

func TestReleaseIsIgnoredAndEscapeExits(t *testing.T) {
	f := newFixture(t)
	f.ctl.Handle(context.Background(), input.KeyG, input.Release)
	assert.False(t, f.state.Greyscale)

	assert.Equal(t, CommandExit, f.press(input.KeyEscape))
	assert.Equal(t, CommandNone, f.press(input.KeyG))
}
