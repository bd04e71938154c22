package svgpath

import (
	"errors"
	"fmt"
	"math"

	"github.com/benoitkugler/pathedit/geom"
)

// ErrSingularMatrix is returned when inverting a matrix with a
// zero determinant.
var ErrSingularMatrix = errors.New("singular transform")

// Matrix2D is an affine transformation, using the SVG convention
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the transformation which does nothing.
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Mult returns the matrix applying b, then a.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Apply maps the point p.
func (m Matrix2D) Apply(p geom.Point) geom.Point {
	return geom.Point{
		X: p.X*m.A + p.Y*m.C + m.E,
		Y: p.X*m.B + p.Y*m.D + m.F,
	}
}

// Translate returns a.Mult(translation).
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// Rotate uses an angle in radians.
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	sin, cos := math.Sincos(theta)
	return a.Mult(Matrix2D{cos, sin, -sin, cos, 0, 0})
}

func (a Matrix2D) SkewX(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, math.Tan(theta), 1, 0, 0})
}

func (a Matrix2D) SkewY(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, math.Tan(theta), 0, 1, 0, 0})
}

func (m Matrix2D) Determinant() float64 { return m.A*m.D - m.B*m.C }

func (m Matrix2D) IsIdentity() bool { return m == Identity }

// Invert returns the inverse transformation, or ErrSingularMatrix.
func (m Matrix2D) Invert() (Matrix2D, error) {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Matrix2D{}, ErrSingularMatrix
	}
	return Matrix2D{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
		E: (m.C*m.F - m.D*m.E) / det,
		F: (m.B*m.E - m.A*m.F) / det,
	}, nil
}

// ApplyInverse maps p by the inverse of m.
func (m Matrix2D) ApplyInverse(p geom.Point) (geom.Point, error) {
	inv, err := m.Invert()
	if err != nil {
		return geom.Point{}, err
	}
	return inv.Apply(p), nil
}

// String returns the SVG matrix() notation.
func (m Matrix2D) String() string {
	return fmt.Sprintf("matrix(%s %s %s %s %s %s)",
		formatNumber(m.A, 6), formatNumber(m.B, 6), formatNumber(m.C, 6),
		formatNumber(m.D, 6), formatNumber(m.E, 6), formatNumber(m.F, 6))
}
