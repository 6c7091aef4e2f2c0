package sim

import (
	"fmt"
	"math/rand"

	"orrery/math"
	"orrery/path"
)

// Indices into System.Bodies. The order matches the 1..6 target keys.
const (
	Sun = iota
	Mercury
	Venus
	Earth
	Moon
	Mars
	NumBodies
)

// randomizeMaxDays bounds the jump taken by Randomize.
const randomizeMaxDays = 20000

// Options configures a System. Zero fields take the defaults from
// DefaultOptions.
type Options struct {
	VehicleRadius float32
	// VehicleDistance places the vehicle this many earth radii behind earth.
	VehicleDistance float32
	// PathSpeed is the arc length the path marker covers per tick.
	PathSpeed float32
	// ControlPolygon defines the path; nil uses path.DefaultControlPolygon.
	ControlPolygon []math.Vec3
}

func DefaultOptions() Options {
	return Options{
		VehicleRadius:   0.03,
		VehicleDistance: 4.5,
		PathSpeed:       0.01,
	}
}

// System owns every body, the vehicle and the path marker.
type System struct {
	Bodies  [NumBodies]Body
	Stars   Body
	Vehicle Vehicle

	Path      *path.Curve
	PathParam float32
	Frame     path.Frame
	pathSpeed float32
}

func NewSystem(opts Options) (*System, error) {
	def := DefaultOptions()
	if opts.VehicleRadius <= 0 {
		opts.VehicleRadius = def.VehicleRadius
	}
	if opts.VehicleDistance <= 0 {
		opts.VehicleDistance = def.VehicleDistance
	}
	if opts.PathSpeed <= 0 {
		opts.PathSpeed = def.PathSpeed
	}
	if opts.ControlPolygon == nil {
		opts.ControlPolygon = path.DefaultControlPolygon()
	}

	curve, err := path.NewCurve(opts.ControlPolygon)
	if err != nil {
		return nil, fmt.Errorf("build vehicle path: %w", err)
	}

	const tau = 2 * math.Pi
	s := &System{
		Bodies: [NumBodies]Body{
			Sun:     NewBody("sun", 0, tau/26, 1.0, 0),
			Mercury: NewBody("mercury", tau/116, tau/58.5, 0.075, 1.4),
			Venus:   NewBody("venus", tau/225, tau/243, 0.2, 2.2),
			Earth:   NewBody("earth", tau/365, tau, 0.25, 3.3),
			Moon:    NewBody("moon", tau/27, 0, 0.04, 0.4),
			Mars:    NewBody("mars", tau/687, tau*24/25, 0.15, 5.0),
		},
		Stars:     NewBody("stars", 0, 0, 21, 0),
		Path:      curve,
		Frame:     path.NewFrame(),
		pathSpeed: opts.PathSpeed,
	}
	s.UpdatePositions()

	earth := s.Bodies[Earth]
	s.Vehicle = NewVehicle(
		earth.Position.Sub(math.Vec3{Z: opts.VehicleDistance * earth.Radius}),
		opts.VehicleRadius,
	)

	tangent, err := curve.Tangent(0)
	if err != nil {
		return nil, fmt.Errorf("initial path frame: %w", err)
	}
	if err := s.Frame.AlignTo(tangent); err != nil {
		return nil, fmt.Errorf("initial path frame: %w", err)
	}
	return s, nil
}

// Body returns the body at index i.
func (s *System) Body(i int) (*Body, error) {
	if i < 0 || i >= NumBodies {
		return nil, fmt.Errorf("sim: no body with index %d", i)
	}
	return &s.Bodies[i], nil
}

// Star is the body every planet except the moon orbits.
func (s *System) Star() *Body { return &s.Bodies[Sun] }

// UpdatePositions derives every position from the current angles. Earth is
// placed before the moon so the moon orbits earth's current position.
func (s *System) UpdatePositions() {
	for _, i := range []int{Sun, Mercury, Venus, Earth, Mars} {
		s.Bodies[i].UpdatePosition(math.Vec3Zero)
	}
	s.Bodies[Moon].UpdatePosition(s.Bodies[Earth].Position)
	s.Stars.UpdatePosition(math.Vec3Zero)
}

func (s *System) advanceBodies(dt float32) {
	for i := range s.Bodies {
		s.Bodies[i].Advance(dt)
	}
	s.UpdatePositions()
}

// Tick runs one timer step. It reports whether time advanced. An error means
// the path frame could not follow the curve; it keeps its previous value and
// the rest of the tick still applies.
func (s *System) Tick(clock *Clock) (bool, error) {
	if !clock.Active {
		return false, nil
	}
	s.advanceBodies(clock.advance())
	s.Vehicle.Advance()

	s.PathParam = s.Path.Advance(s.PathParam, s.pathSpeed)
	tangent, err := s.Path.Tangent(s.PathParam)
	if err != nil {
		return true, err
	}
	if err := s.Frame.AlignTo(tangent); err != nil {
		return true, err
	}
	return true, nil
}

// Randomize jumps every body forward by an arbitrary number of days and
// adds them to the clock's elapsed time. The vehicle is left alone.
func (s *System) Randomize(rng *rand.Rand, clock *Clock) float32 {
	days := float32(rng.Intn(randomizeMaxDays))
	s.advanceBodies(days)
	clock.Days += float64(days)
	return days
}

// PathPosition is where the frame marker sits on the path.
func (s *System) PathPosition() math.Vec3 {
	return s.Path.Position(s.PathParam)
}
