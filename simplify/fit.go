package simplify

import (
	"errors"
	"fmt"
	"math"

	"github.com/benoitkugler/pathedit/geom"
)

// ErrCurveFitFailure is returned when a run of points can't be
// approximated by cubic curves. The pipeline then uses a straight line
// for the run.
var ErrCurveFitFailure = errors.New("curve fitting failed")

const (
	maxFitDepth      = 24
	maxReparametrize = 4
	// maxSweep is the largest angle, in degrees, between the end
	// tangents of a single fitted curve.
	maxSweep = 120
)

var minSweepCos = math.Cos(maxSweep * math.Pi / 180)

// cubic holds the points of a cubic Bezier curve.
type cubic [4]geom.Point

func (c cubic) at(t float64) geom.Point { return geom.CubicAt(c[0], c[1], c[2], c[3], t) }

func (c cubic) isFinite() bool {
	return c[0].IsFinite() && c[1].IsFinite() && c[2].IsFinite() && c[3].IsFinite()
}

// fitCubics approximates pts by a sequence of cubic curves deviating at
// most by tol from the points, following the method of Philip J.
// Schneider (Graphics Gems, 1990): least squares fit with fixed end
// tangents, Newton-Raphson reparametrization, and recursive split at
// the point of maximum error.
func fitCubics(pts []geom.Point, tol float64) ([]cubic, error) {
	n := len(pts)
	if n < 2 {
		return nil, fmt.Errorf("%w: %d points", ErrCurveFitFailure, n)
	}
	tHat1, ok1 := pts[1].Sub(pts[0]).Normalize()
	tHat2, ok2 := pts[n-2].Sub(pts[n-1]).Normalize()
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("%w: %w", ErrCurveFitFailure, geom.ErrDegenerateGeometry)
	}
	var out []cubic
	if err := fitRecursive(pts, tHat1, tHat2, tol, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func fitRecursive(pts []geom.Point, tHat1, tHat2 geom.Point, tol float64, depth int, out *[]cubic) error {
	if depth > maxFitDepth {
		return fmt.Errorf("%w: recursion limit reached", ErrCurveFitFailure)
	}
	first, last := pts[0], pts[len(pts)-1]
	if len(pts) == 2 {
		dist := first.Dist(last) / 3
		*out = append(*out, cubic{first, first.Add(tHat1.Mul(dist)), last.Add(tHat2.Mul(dist)), last})
		return nil
	}

	u := chordLengthParametrize(pts)
	bez := generateBezier(pts, u, tHat1, tHat2)
	maxErr, split := maxError(pts, bez, u)
	if tHat1.Dot(tHat2.Mul(-1)) < minSweepCos {
		// wide arcs are badly approximated by a single curve
		maxErr = math.Inf(1)
	}
	if maxErr < tol && bez.isFinite() {
		*out = append(*out, bez)
		return nil
	}
	// close enough to converge with a better parametrization
	if maxErr < 4*tol {
		for range maxReparametrize {
			u = reparametrize(pts, u, bez)
			bez = generateBezier(pts, u, tHat1, tHat2)
			maxErr, split = maxError(pts, bez, u)
			if maxErr < tol && bez.isFinite() {
				*out = append(*out, bez)
				return nil
			}
		}
	}

	tHatCenter, ok := pts[split-1].Sub(pts[split+1]).Normalize()
	if !ok { // spike: use the incoming direction only
		tHatCenter, ok = pts[split-1].Sub(pts[split]).Normalize()
	}
	if !ok {
		return fmt.Errorf("%w: %w", ErrCurveFitFailure, geom.ErrDegenerateGeometry)
	}
	if err := fitRecursive(pts[:split+1], tHat1, tHatCenter, tol, depth+1, out); err != nil {
		return err
	}
	return fitRecursive(pts[split:], tHatCenter.Mul(-1), tHat2, tol, depth+1, out)
}

// chordLengthParametrize assigns to each point its normalized
// distance along the polyline.
func chordLengthParametrize(pts []geom.Point) []float64 {
	u := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		u[i] = u[i-1] + pts[i].Dist(pts[i-1])
	}
	total := u[len(u)-1]
	for i := range u {
		u[i] /= total
	}
	return u
}

// generateBezier solves the least squares problem for the lengths of
// the tangents at both ends.
func generateBezier(pts []geom.Point, u []float64, tHat1, tHat2 geom.Point) cubic {
	first, last := pts[0], pts[len(pts)-1]
	var c [2][2]float64
	var x [2]float64
	for i, p := range pts {
		t := u[i]
		mt := 1 - t
		b0, b1, b2, b3 := mt*mt*mt, 3*t*mt*mt, 3*t*t*mt, t*t*t
		a0, a1 := tHat1.Mul(b1), tHat2.Mul(b2)
		c[0][0] += a0.Dot(a0)
		c[0][1] += a0.Dot(a1)
		c[1][1] += a1.Dot(a1)
		tmp := p.Sub(first.Mul(b0 + b1).Add(last.Mul(b2 + b3)))
		x[0] += a0.Dot(tmp)
		x[1] += a1.Dot(tmp)
	}
	c[1][0] = c[0][1]

	detC0C1 := c[0][0]*c[1][1] - c[1][0]*c[0][1]
	detC0X := c[0][0]*x[1] - c[1][0]*x[0]
	detXC1 := x[0]*c[1][1] - x[1]*c[0][1]
	var alphaL, alphaR float64
	if detC0C1 != 0 {
		alphaL, alphaR = detXC1/detC0C1, detC0X/detC0C1
	}

	// fall back on the Wu/Barsky heuristic when the solution is
	// degenerate or points the wrong way
	segLength := first.Dist(last)
	epsilon := 1e-6 * segLength
	if alphaL < epsilon || alphaR < epsilon {
		alphaL, alphaR = segLength/3, segLength/3
	}
	return cubic{first, first.Add(tHat1.Mul(alphaL)), last.Add(tHat2.Mul(alphaR)), last}
}

// maxError returns the largest distance between a point and its
// parametrized position on bez, and the index of that point.
func maxError(pts []geom.Point, bez cubic, u []float64) (float64, int) {
	split := len(pts) / 2
	maxDist := 0.
	for i := 1; i < len(pts)-1; i++ {
		d := bez.at(u[i]).Dist(pts[i])
		if math.IsNaN(d) {
			return math.Inf(1), i
		}
		if d > maxDist {
			maxDist, split = d, i
		}
	}
	return maxDist, split
}

// reparametrize improves each parameter with a Newton-Raphson step
// toward the closest point of bez.
func reparametrize(pts []geom.Point, u []float64, bez cubic) []float64 {
	out := make([]float64, len(u))
	for i, t := range u {
		q := bez.at(t)
		d1 := geom.CubicDerivative(bez[0], bez[1], bez[2], bez[3], t)
		d2 := geom.CubicSecondDerivative(bez[0], bez[1], bez[2], bez[3], t)
		diff := q.Sub(pts[i])
		den := d1.Dot(d1) + diff.Dot(d2)
		if den == 0 {
			out[i] = t
			continue
		}
		out[i] = math.Max(0, math.Min(1, t-diff.Dot(d1)/den))
	}
	return out
}
