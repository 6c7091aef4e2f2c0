// Package path holds the closed control path flown past the planets and
// the moving frame carried along it.
package path

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"orrery/math"
)

// DegenerateCurveError is returned when a tangent or frame direction would
// require normalizing a zero-length vector.
type DegenerateCurveError struct {
	Op    string
	Param float32
}

func (e *DegenerateCurveError) Error() string {
	return fmt.Sprintf("path: degenerate curve in %s at t=%.4f", e.Op, e.Param)
}

// segment is one cubic Bezier piece.
type segment [4]mgl32.Vec3

// Curve is a closed C2 cubic spline built from a control polygon. Each
// polygon vertex acts as a uniform B-spline de Boor point. The spline is
// stored as Bezier segments so it can be drawn and evaluated with the
// standard Bezier forms.
type Curve struct {
	polygon  []math.Vec3
	segments []segment
}

// DefaultControlPolygon is a wobbling ring around the star crossing the
// inner orbits.
func DefaultControlPolygon() []math.Vec3 {
	const n = 8
	pts := make([]math.Vec3, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float32(i) / n
		r := float32(4.0)
		if i%2 == 1 {
			r = 2.6
		}
		pts[i] = math.Vec3{
			X: r * math32.Cos(a),
			Y: 0.6 * math32.Sin(2*a),
			Z: r * math32.Sin(a),
		}
	}
	return pts
}

// samplesPerSegment is how densely validation probes each segment's
// derivative.
const samplesPerSegment = 16

func NewCurve(points []math.Vec3) (*Curve, error) {
	if len(points) < 4 {
		return nil, fmt.Errorf("path: need at least 4 control points, got %d", len(points))
	}
	n := len(points)
	c := &Curve{
		polygon:  append([]math.Vec3(nil), points...),
		segments: make([]segment, n),
	}
	for i := 0; i < n; i++ {
		p0 := toMgl(points[i])
		p1 := toMgl(points[(i+1)%n])
		p2 := toMgl(points[(i+2)%n])
		p3 := toMgl(points[(i+3)%n])
		c.segments[i] = segment{
			p0.Add(p1.Mul(4)).Add(p2).Mul(1.0 / 6),
			p1.Mul(2).Add(p2).Mul(1.0 / 3),
			p1.Add(p2.Mul(2)).Mul(1.0 / 3),
			p1.Add(p2.Mul(4)).Add(p3).Mul(1.0 / 6),
		}
	}
	for i := range c.segments {
		for s := 0; s <= samplesPerSegment; s++ {
			u := float32(s) / samplesPerSegment
			if c.derivative(i, u).Len() <= math.Epsilon {
				return nil, &DegenerateCurveError{
					Op:    "NewCurve",
					Param: (float32(i) + u) / float32(n),
				}
			}
		}
	}
	return c, nil
}

// Segments is the number of Bezier pieces.
func (c *Curve) Segments() int { return len(c.segments) }

// ControlPolygon returns a copy of the input polygon.
func (c *Curve) ControlPolygon() []math.Vec3 {
	return append([]math.Vec3(nil), c.polygon...)
}

// BezierControlPoints lists every segment's four control points in order.
func (c *Curve) BezierControlPoints() []math.Vec3 {
	out := make([]math.Vec3, 0, 4*len(c.segments))
	for _, s := range c.segments {
		for _, p := range s {
			out = append(out, fromMgl(p))
		}
	}
	return out
}

// locate maps a global parameter to a segment index and local parameter.
func (c *Curve) locate(t float32) (int, float32) {
	t = Wrap(t)
	x := t * float32(len(c.segments))
	i := int(x)
	if i >= len(c.segments) {
		i = len(c.segments) - 1
	}
	return i, x - float32(i)
}

func (c *Curve) Position(t float32) math.Vec3 {
	i, u := c.locate(t)
	s := c.segments[i]
	return fromMgl(mgl32.CubicBezierCurve3D(u, s[0], s[1], s[2], s[3]))
}

// derivative is dC/du within segment i.
func (c *Curve) derivative(i int, u float32) mgl32.Vec3 {
	s := c.segments[i]
	return mgl32.QuadraticBezierCurve3D(u,
		s[1].Sub(s[0]).Mul(3),
		s[2].Sub(s[1]).Mul(3),
		s[3].Sub(s[2]).Mul(3),
	)
}

// Tangent returns the unit tangent at t.
func (c *Curve) Tangent(t float32) (math.Vec3, error) {
	i, u := c.locate(t)
	d, ok := fromMgl(c.derivative(i, u)).TryNormalize()
	if !ok {
		return math.Vec3{}, &DegenerateCurveError{Op: "Tangent", Param: t}
	}
	return d, nil
}

// Advance moves parameter t forward by roughly step units of arc length and
// wraps the result into [0,1).
func (c *Curve) Advance(t, step float32) float32 {
	const substeps = 4
	n := float32(len(c.segments))
	for k := 0; k < substeps; k++ {
		i, u := c.locate(t)
		speed := c.derivative(i, u).Len() * n
		if speed <= math.Epsilon {
			break
		}
		t += step / substeps / speed
	}
	return Wrap(t)
}

// Sample returns n+1 points from t=0 to t=1 inclusive, closing the loop.
func (c *Curve) Sample(n int) []math.Vec3 {
	if n < 1 {
		n = 1
	}
	pts := make([]math.Vec3, 0, n+1)
	for k := 0; k < n; k++ {
		pts = append(pts, c.Position(float32(k)/float32(n)))
	}
	return append(pts, pts[0])
}

// Wrap maps t into [0,1).
func Wrap(t float32) float32 {
	t -= math32.Floor(t)
	if t >= 1 {
		t = 0
	}
	return t
}

func toMgl(v math.Vec3) mgl32.Vec3   { return mgl32.Vec3{v.X, v.Y, v.Z} }
func fromMgl(v mgl32.Vec3) math.Vec3 { return math.Vec3{X: v[0], Y: v[1], Z: v[2]} }
