package voxel

import "orrery/math"

// MaxPitch bounds the camera tilt in degrees so the view never flips over
// the vertical.
const MaxPitch = 89

// FlyCamera looks at Position from one unit away. Yaw turns about world
// up and Pitch tilts about the camera's horizontal axis, both in degrees.
type FlyCamera struct {
	Position math.Vec3
	Yaw      float32
	Pitch    float32
}

func NewFlyCamera(position math.Vec3) *FlyCamera {
	return &FlyCamera{Position: position}
}

func (c *FlyCamera) orientation() math.Mat4 {
	return math.Mat4RotationXDeg(c.Pitch).Mul(math.Mat4RotationYDeg(c.Yaw))
}

// Eye is the camera position, behind Position along the view direction.
func (c *FlyCamera) Eye() math.Vec3 {
	return c.Position.Add(c.orientation().MulDir(math.Vec3Front))
}

func (c *FlyCamera) Up() math.Vec3 {
	return c.orientation().MulDir(math.Vec3Up)
}

// Forward is the unit view direction.
func (c *FlyCamera) Forward() math.Vec3 {
	return c.orientation().MulDir(math.Vec3Front).Negate()
}

// Right is the unit strafe direction. It stays horizontal at any pitch.
func (c *FlyCamera) Right() math.Vec3 {
	return c.orientation().MulDir(math.Vec3Right)
}

func (c *FlyCamera) View() math.Mat4 {
	return math.Mat4LookAt(c.Eye(), c.Position, c.Up())
}

// Move steps along the view direction; negative moves back.
func (c *FlyCamera) Move(step float32) {
	c.Position = c.Position.Add(c.Forward().Mul(step))
}

// Strafe steps sideways; positive is to the right.
func (c *FlyCamera) Strafe(step float32) {
	c.Position = c.Position.Add(c.Right().Mul(step))
}

// Turn adds deg to the yaw; positive turns left.
func (c *FlyCamera) Turn(deg float32) {
	c.Yaw += deg
}

// Tilt adds deg to the pitch, clamped to ±MaxPitch; positive looks up.
func (c *FlyCamera) Tilt(deg float32) {
	c.Pitch = math.Clamp(c.Pitch+deg, -MaxPitch, MaxPitch)
}
