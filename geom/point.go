// Package geom provides the 2D primitives shared by the path
// engine: points used as vectors, distance and angle helpers,
// Bezier evaluation and subdivision, and bounding rectangles.
package geom

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the length under which a vector is considered degenerate.
const Epsilon = 1e-9

// ErrDegenerateGeometry is returned by helpers asked to normalize
// a zero-length vector or to measure against a zero-length chord.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Point is a position (or a vector) in user space.
type Point struct {
	X, Y float64
}

// Pt is a shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{x, y} }

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Mul(f float64) Point { return Point{p.X * f, p.Y * f} }

func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of the 3D cross product.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

func (p Point) Len2() float64 { return p.X*p.X + p.Y*p.Y }

func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return q.Sub(p).Len() }

// Normalize returns the unit vector with the direction of p.
// The boolean is false when p is shorter than Epsilon.
func (p Point) Normalize() (Point, bool) {
	l := p.Len()
	if l < Epsilon {
		return Point{}, false
	}
	return Point{p.X / l, p.Y / l}, true
}

// Lerp interpolates linearly between p (t = 0) and q (t = 1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Near reports whether p and q are closer than eps on both axes.
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// PointLineDistance returns the distance from p to the infinite line
// through a and b, or the distance to a when the chord is degenerate.
func PointLineDistance(p, a, b Point) float64 {
	d := b.Sub(a)
	l := d.Len()
	if l < Epsilon {
		return p.Dist(a)
	}
	return math.Abs(d.Cross(p.Sub(a))) / l
}

// TurnAngle returns the angle, in degrees, between the incoming
// direction b-a and the outgoing direction c-b: 0 for a straight
// continuation, 180 for a full reversal.
func TurnAngle(a, b, c Point) (float64, error) {
	u1, ok1 := b.Sub(a).Normalize()
	u2, ok2 := c.Sub(b).Normalize()
	if !ok1 || !ok2 {
		return 0, ErrDegenerateGeometry
	}
	dot := math.Max(-1, math.Min(1, u1.Dot(u2)))
	return math.Acos(dot) * 180 / math.Pi, nil
}

// TriangleArea returns the unsigned area of the triangle abc.
func TriangleArea(a, b, c Point) float64 {
	return 0.5 * math.Abs(b.Sub(a).Cross(c.Sub(a)))
}
