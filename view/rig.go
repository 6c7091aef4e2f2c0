package view

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"orrery/math"
	"orrery/sim"
)

// ErrDegenerateView is returned when the eye coincides with the star and no
// billboard orientation exists.
var ErrDegenerateView = errors.New("view: eye at star center")

// Billboard angles in degrees. Pitch is the eye's elevation seen from the
// star and Yaw its bearing from +z around the vertical.
type Billboard struct {
	Pitch float32
	Yaw   float32
}

// Model orients a +z facing quad toward the eye and scales it.
func (b Billboard) Model(center math.Vec3, scale float32) math.Mat4 {
	return math.Mat4UniformScale(scale).
		Mul(math.Mat4RotationXDeg(-b.Pitch)).
		Mul(math.Mat4RotationYDeg(b.Yaw)).
		Mul(math.Mat4Translation(center))
}

// Camera is recomputed every paint.
type Camera struct {
	Eye       math.Vec3
	Center    math.Vec3
	Up        math.Vec3
	Billboard Billboard
}

func (c Camera) View() math.Mat4 {
	return math.Mat4LookAt(c.Eye, c.Center, c.Up)
}

// Rig frames a target body or the vehicle.
type Rig struct {
	// VehicleOffset scales the vehicle radius into a viewing radius.
	VehicleOffset float32
	// VehiclePitch replaces AngleX while following the vehicle.
	VehiclePitch float32
}

func DefaultRig() Rig {
	return Rig{VehicleOffset: 4, VehiclePitch: -20}
}

func (r Rig) ComputeView(st State, sys *sim.System) (Camera, error) {
	var (
		center math.Vec3
		radius float32
		pitch  float32
	)
	if st.Target.IsVehicle() {
		center = sys.Vehicle.Position
		radius = sys.Vehicle.Radius * r.VehicleOffset
		pitch = r.VehiclePitch
	} else {
		body, err := sys.Body(st.Target.Body)
		if err != nil {
			return Camera{}, fmt.Errorf("compute view: %w", err)
		}
		center = body.Position
		radius = body.Radius
		pitch = st.AngleX
	}

	orbit := math.Mat4RotationXDeg(pitch).Mul(math.Mat4RotationYDeg(st.AngleY))
	eye := orbit.MulPoint(math.Vec3{Z: st.Distance * radius}).Add(center)
	up := orbit.MulDir(math.Vec3Up)

	bb, err := FaceBillboard(eye, sys.Star().Position)
	if err != nil {
		return Camera{}, err
	}
	return Camera{Eye: eye, Center: center, Up: up, Billboard: bb}, nil
}

// FaceBillboard returns the orientation that turns a billboard at center
// toward eye.
func FaceBillboard(eye, center math.Vec3) (Billboard, error) {
	n, ok := eye.Sub(center).TryNormalize()
	if !ok {
		return Billboard{}, ErrDegenerateView
	}
	return Billboard{
		Pitch: math.RadToDeg(math32.Asin(math.Clamp(n.Y, -1, 1))),
		Yaw:   math.RadToDeg(math32.Atan2(n.X, n.Z)),
	}, nil
}
