package svgpath

import (
	"math"

	"github.com/benoitkugler/pathedit/geom"
)

// ellipse describes an elliptical arc in center parameterization.
type ellipse struct {
	center             geom.Point
	rx, ry             float64
	sinPhi, cosPhi     float64
	theta1, deltaTheta float64 // start angle and sweep, in radians
}

// prime gives the tangent vector of the parameterized ellipse at eta.
func (e ellipse) prime(eta float64) geom.Point {
	bCosEta := e.ry * math.Cos(eta)
	aSinEta := e.rx * math.Sin(eta)
	return geom.Point{
		X: -aSinEta*e.cosPhi - bCosEta*e.sinPhi,
		Y: -aSinEta*e.sinPhi + bCosEta*e.cosPhi,
	}
}

// pointAt gives the point of the parameterized ellipse at eta.
func (e ellipse) pointAt(eta float64) geom.Point {
	aCosEta := e.rx * math.Cos(eta)
	bSinEta := e.ry * math.Sin(eta)
	return geom.Point{
		X: e.center.X + aCosEta*e.cosPhi - bSinEta*e.sinPhi,
		Y: e.center.Y + aCosEta*e.sinPhi + bSinEta*e.cosPhi,
	}
}

// vectorAngle returns the signed angle from u to v.
func vectorAngle(u, v geom.Point) float64 {
	return math.Atan2(u.Cross(v), u.Dot(v))
}

// findEllipse converts the endpoint parameterization of an arc to its
// center parameterization. Radii too small to join the end points
// are scaled up uniformly. rx and ry must be positive.
func findEllipse(from, to geom.Point, rx, ry, rotation float64, largeArc, sweep bool) ellipse {
	sin, cos := math.Sincos(rotation * math.Pi / 180)

	// move the origin to the middle of the chord, aligned with the ellipse axis
	mid := from.Sub(to).Mul(0.5)
	x1 := cos*mid.X + sin*mid.Y
	y1 := -sin*mid.X + cos*mid.Y

	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	var coef float64
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if largeArc == sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx

	center := geom.Point{
		X: cos*cx1 - sin*cy1 + (from.X+to.X)/2,
		Y: sin*cx1 + cos*cy1 + (from.Y+to.Y)/2,
	}
	u := geom.Point{X: (x1 - cx1) / rx, Y: (y1 - cy1) / ry}
	v := geom.Point{X: (-x1 - cx1) / rx, Y: (-y1 - cy1) / ry}
	theta1 := vectorAngle(geom.Point{X: 1}, u)
	delta := vectorAngle(u, v)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}
	return ellipse{center: center, rx: rx, ry: ry, sinPhi: sin, cosPhi: cos, theta1: theta1, deltaTheta: delta}
}

// appendArc adds the SVG arc from -> to, approximated by at most four
// cubic curves each spanning at most 90 degrees.
// A zero radius degrades to a line, and an arc to the current point
// is omitted.
func appendArc(p Path, from geom.Point, rx, ry, rotation float64, largeArc, sweep bool, to geom.Point) Path {
	if from == to {
		return p
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return append(p, LineTo{From: from, To: to})
	}
	e := findEllipse(from, to, rx, ry, rotation, largeArc, sweep)

	segs := int(math.Ceil(math.Abs(e.deltaTheta)/(math.Pi/2) - 1e-9))
	segs = max(1, min(segs, 4))
	dEta := e.deltaTheta / float64(segs)
	// L. Maisonobe, "Drawing an elliptical arc using polylines, quadratic
	// or cubic Bezier curves", 2003
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3

	last, lastPrime := from, e.prime(e.theta1)
	for i := 1; i <= segs; i++ {
		eta := e.theta1 + dEta*float64(i)
		pt := to // exact end point, no roundoff error
		if i < segs {
			pt = e.pointAt(eta)
		}
		d := e.prime(eta)
		p = append(p, CubicTo{
			From: last,
			C1:   last.Add(lastPrime.Mul(alpha)),
			C2:   pt.Sub(d.Mul(alpha)),
			To:   pt,
			Arc: &Arc{
				Rx: rx, Ry: ry, Rotation: rotation,
				LargeArc: largeArc, Sweep: sweep,
				Piece: i - 1, Pieces: segs,
			},
		})
		last, lastPrime = pt, d
	}
	return p
}
