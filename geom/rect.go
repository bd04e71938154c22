package geom

import "math"

// Rect is an axis aligned rectangle. The zero value is not empty
// (it contains the origin): use EmptyRect to start an accumulation.
type Rect struct {
	Min, Max Point
}

// EmptyRect returns a rectangle containing nothing, suitable as the
// starting value of Extend and Union.
func EmptyRect() Rect {
	return Rect{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
}

func (r Rect) Empty() bool { return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y }

// Extend returns the smallest rectangle containing r and p.
func (r Rect) Extend(p Point) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)},
		Max: Point{math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)},
	}
}

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	if s.Empty() {
		return r
	}
	if r.Empty() {
		return s
	}
	return r.Extend(s.Min).Extend(s.Max)
}

func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Diagonal returns the length of the diagonal, 0 for an empty rectangle.
func (r Rect) Diagonal() float64 {
	if r.Empty() {
		return 0
	}
	return math.Hypot(r.Width(), r.Height())
}

func (r Rect) Center() Point {
	return Point{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Inset grows (d < 0) or shrinks (d > 0) the rectangle on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{Min: Point{r.Min.X + d, r.Min.Y + d}, Max: Point{r.Max.X - d, r.Max.Y - d}}
}

// compute the tight bounding box of a curve by evaluating it at the
// parameters where the derivative of one coordinate vanishes

// CubicBounds returns the tight bounding box of a cubic Bezier curve.
func CubicBounds(p0, p1, p2, p3 Point) Rect {
	r := EmptyRect().Extend(p0).Extend(p3)
	aX, bX, cX := cubicDerivativeCoeffs(p0.X, p1.X, p2.X, p3.X)
	aY, bY, cY := cubicDerivativeCoeffs(p0.Y, p1.Y, p2.Y, p3.Y)
	for _, t := range append(quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)...) {
		if 0 < t && t < 1 {
			r = r.Extend(CubicAt(p0, p1, p2, p3, t))
		}
	}
	return r
}

// QuadBounds returns the tight bounding box of a quadratic Bezier curve.
func QuadBounds(p0, p1, p2 Point) Rect {
	r := EmptyRect().Extend(p0).Extend(p2)
	for _, t := range [2]float64{quadCritical(p0.X, p1.X, p2.X), quadCritical(p0.Y, p1.Y, p2.Y)} {
		if 0 < t && t < 1 {
			r = r.Extend(QuadAt(p0, p1, p2, t))
		}
	}
	return r
}

// derivative of a quadratic coordinate is at + b; returns -1 when a = 0
func quadCritical(p0, p1, p2 float64) float64 {
	a, b := 2*(p2-p1-(p1-p0)), 2*(p1-p0)
	if a == 0 {
		return -1
	}
	return -b / a
}

// X' = (3*p3-9*p2+9*p1-3*p0)t^2 + (6*p2-12*p1+6*p0)t + (3*p1-3*p0)
func cubicDerivativeCoeffs(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if math.Abs(a) < 1e-12 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	sq := math.Sqrt(d)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}
