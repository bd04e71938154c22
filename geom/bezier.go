package geom

// Bezier evaluation and subdivision.

// QuadAt evaluates the quadratic Bezier curve p0, p1, p2 at t.
func QuadAt(p0, p1, p2 Point, t float64) Point {
	mt := 1 - t
	return Point{
		mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X,
		mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y,
	}
}

// CubicAt evaluates the cubic Bezier curve p0, p1, p2, p3 at t.
func CubicAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
	return Point{
		a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// CubicDerivative evaluates the first derivative of the cubic at t.
func CubicDerivative(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	a := p1.Sub(p0).Mul(3 * mt * mt)
	b := p2.Sub(p1).Mul(6 * mt * t)
	c := p3.Sub(p2).Mul(3 * t * t)
	return a.Add(b).Add(c)
}

// CubicSecondDerivative evaluates the second derivative of the cubic at t.
func CubicSecondDerivative(p0, p1, p2, p3 Point, t float64) Point {
	a := p2.Sub(p1.Mul(2)).Add(p0).Mul(6 * (1 - t))
	b := p3.Sub(p2.Mul(2)).Add(p1).Mul(6 * t)
	return a.Add(b)
}

// SplitCubic subdivides the cubic at t with de Casteljau's algorithm.
// The two returned curves reproduce the original exactly.
func SplitCubic(p0, p1, p2, p3 Point, t float64) (left, right [4]Point) {
	p01 := p0.Lerp(p1, t)
	p12 := p1.Lerp(p2, t)
	p23 := p2.Lerp(p3, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	m := p012.Lerp(p123, t)
	return [4]Point{p0, p01, p012, m}, [4]Point{m, p123, p23, p3}
}

// SplitQuad subdivides the quadratic curve at t.
func SplitQuad(p0, p1, p2 Point, t float64) (left, right [3]Point) {
	p01 := p0.Lerp(p1, t)
	p12 := p1.Lerp(p2, t)
	m := p01.Lerp(p12, t)
	return [3]Point{p0, p01, m}, [3]Point{m, p12, p2}
}

// QuadToCubic elevates a quadratic curve to the equivalent cubic
// control points.
func QuadToCubic(p0, p1, p2 Point) (c1, c2 Point) {
	c1 = p0.Add(p1.Sub(p0).Mul(2.0 / 3))
	c2 = p2.Add(p1.Sub(p2).Mul(2.0 / 3))
	return c1, c2
}
