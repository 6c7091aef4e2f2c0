package sim

import "orrery/math"

// Vehicle flies freely at constant speed along Direction. Heading is in
// degrees about the world vertical; Direction is always RotY(Heading) * +z.
type Vehicle struct {
	Position  math.Vec3
	Direction math.Vec3
	Heading   float32
	Speed     float32
	Radius    float32
}

func NewVehicle(position math.Vec3, radius float32) Vehicle {
	return Vehicle{
		Position:  position,
		Direction: math.Vec3Front,
		Radius:    radius,
	}
}

// Accelerate changes speed by dv. Speed is not clamped and may turn
// negative, which flies the vehicle backwards.
func (v *Vehicle) Accelerate(dv float32) {
	v.Speed += dv
}

// AccelerateAngular turns the heading by da degrees.
func (v *Vehicle) AccelerateAngular(da float32) {
	v.Heading += da
	v.Direction = math.Mat4RotationYDeg(v.Heading).MulDir(math.Vec3Front).Normalize()
}

// Advance moves the vehicle one tick along its direction.
func (v *Vehicle) Advance() {
	v.Position = v.Position.Add(v.Direction.Mul(v.Speed))
}

func (v *Vehicle) Model() math.Mat4 {
	return math.Mat4UniformScale(v.Radius).
		Mul(math.Mat4RotationYDeg(v.Heading)).
		Mul(math.Mat4Translation(v.Position))
}
