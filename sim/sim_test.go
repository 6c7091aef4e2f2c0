package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orrery/math"
)

func newSystem(t *testing.T) *System {
	t.Helper()
	s, err := NewSystem(DefaultOptions())
	require.NoError(t, err)
	return s
}

func TestStarStaysAtOrigin(t *testing.T) {
	s := newSystem(t)
	clock := NewClock()
	clock.Step = 3.7

	for i := 0; i < 500; i++ {
		_, err := s.Tick(&clock)
		require.NoError(t, err)
		assert.Equal(t, math.Vec3Zero, s.Star().Position)
	}
}

func TestOrbitPeriodicity(t *testing.T) {
	cases := []struct {
		name   string
		index  int
		period float32 // days
	}{
		{"mercury", Mercury, 116},
		{"venus", Venus, 225},
		{"earth", Earth, 365},
		{"moon", Moon, 27},
		{"mars", Mars, 687},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newSystem(t).Bodies[tc.index]
			start := b.Position

			b.Advance(tc.period)
			b.UpdatePosition(math.Vec3Zero)

			assert.InDelta(t, 2*math.Pi, b.OrbitAngle, 1e-4)
			assert.True(t, b.Position.ApproxEqual(start, 1e-4), "%v != %v", b.Position, start)
		})
	}
}

func TestMoonFollowsCurrentEarth(t *testing.T) {
	s := newSystem(t)
	clock := NewClock()
	clock.Step = 1.3

	for i := 0; i < 200; i++ {
		_, err := s.Tick(&clock)
		require.NoError(t, err)

		earth := s.Bodies[Earth].Position
		moon := s.Bodies[Moon]
		assert.InDelta(t, moon.Distance, moon.Position.Distance(earth), 1e-4)
		assert.Equal(t, earth.Y, moon.Position.Y)
	}
}

func TestOneDayOfStarSpin(t *testing.T) {
	s := newSystem(t)
	clock := NewClock()
	start := s.Star().SpinAngle

	for i := 0; i < 24; i++ {
		_, err := s.Tick(&clock)
		require.NoError(t, err)
	}

	assert.InDelta(t, 2*math.Pi/26, s.Star().SpinAngle-start, 1e-5)
	assert.InDelta(t, 1.0, clock.Days, 1e-5)
}

func TestInactiveClockIsNoop(t *testing.T) {
	s := newSystem(t)
	clock := NewClock()
	clock.Toggle()
	before := s.Bodies

	advanced, err := s.Tick(&clock)
	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Equal(t, before, s.Bodies)
	assert.Zero(t, clock.Days)
}

func TestClockStepScaling(t *testing.T) {
	clock := NewClock()
	clock.Faster()
	assert.InDelta(t, 4.0/24, clock.Faster(), 1e-7)
	assert.InDelta(t, 2.0/24, clock.Slower(), 1e-7)
}

func TestVehicleStartsBehindEarth(t *testing.T) {
	s := newSystem(t)
	earth := s.Bodies[Earth]

	want := earth.Position.Sub(math.Vec3{Z: 4.5 * earth.Radius})
	assert.True(t, s.Vehicle.Position.ApproxEqual(want, 1e-6))
	assert.Equal(t, math.Vec3Front, s.Vehicle.Direction)
}

func TestVehicleKinematics(t *testing.T) {
	v := NewVehicle(math.Vec3Zero, 0.03)
	v.Accelerate(0.5)
	v.Accelerate(0.5)
	assert.Equal(t, float32(1), v.Speed)

	v.AccelerateAngular(90)
	assert.InDelta(t, 1, v.Direction.Length(), 1e-6)
	assert.True(t, v.Direction.ApproxEqual(math.Vec3Right, 1e-6), "%v", v.Direction)

	v.Advance()
	assert.True(t, v.Position.ApproxEqual(math.Vec3Right, 1e-6))

	// Speed is unbounded in both directions
	v.Accelerate(-5)
	assert.Equal(t, float32(-4), v.Speed)
}

func TestPathParamAdvancesAndFrameFollows(t *testing.T) {
	s := newSystem(t)
	clock := NewClock()
	last := s.PathParam

	for i := 0; i < 10; i++ {
		_, err := s.Tick(&clock)
		require.NoError(t, err)
		assert.Greater(t, s.PathParam, last)
		last = s.PathParam

		tan, err := s.Path.Tangent(s.PathParam)
		require.NoError(t, err)
		assert.True(t, s.Frame.Tangent.ApproxEqual(tan, 1e-4))
	}
}

func TestRandomizeMovesBodiesButNotVehicle(t *testing.T) {
	s := newSystem(t)
	vehicle := s.Vehicle
	earthBefore := s.Bodies[Earth].OrbitAngle

	clock := NewClock()
	clock.Days = 3
	days := s.Randomize(rand.New(rand.NewSource(7)), &clock)
	assert.InDelta(t, 3+float64(days), clock.Days, 1e-9)

	assert.InDelta(t, earthBefore+s.Bodies[Earth].OrbitSpeed*days, s.Bodies[Earth].OrbitAngle, 1e-2)
	assert.Equal(t, vehicle, s.Vehicle)
	assert.Equal(t, math.Vec3Zero, s.Star().Position)
}

func TestBodyIndexBounds(t *testing.T) {
	s := newSystem(t)
	_, err := s.Body(NumBodies)
	assert.Error(t, err)

	b, err := s.Body(Earth)
	require.NoError(t, err)
	assert.Equal(t, "earth", b.Name)
}
