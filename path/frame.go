package path

import (
	"github.com/chewxy/math32"

	"orrery/math"
)

// Frame is an orthonormal right-handed basis carried along a curve:
// Binormal = Tangent x Normal.
type Frame struct {
	Tangent  math.Vec3
	Normal   math.Vec3
	Binormal math.Vec3

	// ParallelTransport rotates the previous frame onto each new tangent
	// instead of rebuilding it from the world up axis, so the frame does not
	// flip where the tangent passes close to vertical.
	ParallelTransport bool
}

// NewFrame returns the frame for tangent +z with normal +y.
func NewFrame() Frame {
	return Frame{
		Tangent:  math.Vec3Front,
		Normal:   math.Vec3Up,
		Binormal: math.Vec3Front.Cross(math.Vec3Up),
	}
}

// ToggleParallelTransport flips the alignment mode and returns the new one.
func (f *Frame) ToggleParallelTransport() bool {
	f.ParallelTransport = !f.ParallelTransport
	return f.ParallelTransport
}

// AlignTo turns the frame so its tangent axis matches tangent. The frame is
// left untouched on error.
func (f *Frame) AlignTo(tangent math.Vec3) error {
	t, ok := tangent.TryNormalize()
	if !ok {
		return &DegenerateCurveError{Op: "AlignTo"}
	}

	var n math.Vec3
	if f.ParallelTransport {
		q := math.QuaternionFromTo(f.Tangent, t)
		n = q.RotateVector(f.Normal)
	} else {
		ref := math.Vec3Up
		if math32.Abs(t.Dot(ref)) > 1-1e-3 {
			ref = math.Vec3Right
		}
		n = ref
	}

	// Gram-Schmidt against the new tangent keeps the basis from drifting.
	n, ok = n.Sub(t.Mul(n.Dot(t))).TryNormalize()
	if !ok {
		return &DegenerateCurveError{Op: "AlignTo"}
	}
	f.Tangent = t
	f.Normal = n
	f.Binormal = t.Cross(n)
	return nil
}
