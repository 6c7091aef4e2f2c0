package math

import "github.com/chewxy/math32"

const (
	Pi = float32(3.14159265358979323846264338327950288419716939937510582097494459)

	// Epsilon is the length below which a vector is treated as zero.
	Epsilon = float32(1e-6)
)

func DegToRad(deg float32) float32 { return deg * Pi / 180 }
func RadToDeg(rad float32) float32 { return rad * 180 / Pi }

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
