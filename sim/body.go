// Package sim advances the simulated solar system: orbiting bodies, the
// free-flying vehicle, and the clock that gates both.
package sim

import (
	"github.com/chewxy/math32"

	"orrery/math"
)

// Body is one celestial body on a circular orbit in the y = parent.y plane.
// Speeds are in radians per simulated day.
type Body struct {
	Name       string
	OrbitSpeed float32
	SpinSpeed  float32
	Distance   float32
	Radius     float32

	OrbitAngle float32
	SpinAngle  float32
	Position   math.Vec3
}

func NewBody(name string, orbitSpeed, spinSpeed, radius, distance float32) Body {
	b := Body{
		Name:       name,
		OrbitSpeed: orbitSpeed,
		SpinSpeed:  spinSpeed,
		Distance:   distance,
		Radius:     radius,
	}
	b.UpdatePosition(math.Vec3Zero)
	return b
}

// Advance accumulates dt days of orbital and self rotation. Angles are not
// wrapped.
func (b *Body) Advance(dt float32) {
	b.OrbitAngle += b.OrbitSpeed * dt
	b.SpinAngle += b.SpinSpeed * dt
}

// UpdatePosition places the body on its orbit around parent.
func (b *Body) UpdatePosition(parent math.Vec3) {
	b.Position = math.Vec3{
		X: parent.X + b.Distance*math32.Cos(b.OrbitAngle),
		Y: parent.Y,
		Z: parent.Z + b.Distance*math32.Sin(b.OrbitAngle),
	}
}

// Model scales a unit sphere to the body's radius, spins it and moves it
// into place.
func (b *Body) Model() math.Mat4 {
	return math.Mat4UniformScale(b.Radius).
		Mul(math.Mat4RotationY(b.SpinAngle)).
		Mul(math.Mat4Translation(b.Position))
}
