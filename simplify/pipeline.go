package simplify

import (
	"math"

	"github.com/benoitkugler/pathedit/geom"
	"github.com/benoitkugler/pathedit/svgpath"
)

const (
	// noiseFactor scales the tolerance of the point reduction step.
	noiseFactor = 0.1
	// lineFactor scales the tolerance of the collinearity test.
	lineFactor = 2.5
	// handleEpsilon is the minimal handle length adjusted by the
	// continuity repair.
	handleEpsilon = 1e-9
)

// piece is a fitted segment: a line from p[0] to p[3], or a cubic.
type piece struct {
	p      cubic
	line   bool
	corner bool // the join after this piece is a hard corner
}

func (pc piece) segment() svgpath.Segment {
	if pc.line {
		return svgpath.LineTo{From: pc.p[0], To: pc.p[3]}
	}
	return svgpath.CubicTo{From: pc.p[0], C1: pc.p[1], C2: pc.p[2], To: pc.p[3]}
}

func linePiece(a, b geom.Point) piece { return piece{p: cubic{a, a, b, b}, line: true} }

// boundaries returns the indices of seq where the fit must split: both
// ends and the hard corners, whose turn angle exceeds cornerAngle.
// For a closed ring (seq ending with its first point), seamCorner
// reports whether the join at the first point is a corner.
func boundaries(seq []geom.Point, closed bool, cornerAngle float64) (bounds []int, seamCorner bool) {
	isCorner := func(a, b, c geom.Point) bool {
		angle, err := geom.TurnAngle(a, b, c)
		return err == nil && angle > cornerAngle
	}
	n := len(seq)
	bounds = append(bounds, 0)
	for i := 1; i < n-1; i++ {
		if isCorner(seq[i-1], seq[i], seq[i+1]) {
			bounds = append(bounds, i)
		}
	}
	bounds = append(bounds, n-1)
	if closed && n >= 3 {
		seamCorner = isCorner(seq[n-2], seq[0], seq[1])
	}
	return bounds, seamCorner
}

// isStraight reports whether every point of run lies within tol of the
// chord joining its ends.
func isStraight(run []geom.Point, tol float64) bool {
	a, b := run[0], run[len(run)-1]
	if a.Dist(b) < geom.Epsilon {
		return false
	}
	for _, p := range run[1 : len(run)-1] {
		if geom.PointLineDistance(p, a, b) > tol {
			return false
		}
	}
	return true
}

// fitRun replaces a run of points by a line or cubic curves.
func fitRun(run []geom.Point, tol float64) ([]piece, error) {
	if len(run) == 2 || isStraight(run, lineFactor*tol) {
		return []piece{linePiece(run[0], run[len(run)-1])}, nil
	}
	curves, err := fitCubics(run, tol)
	if err != nil {
		return []piece{linePiece(run[0], run[len(run)-1])}, err
	}
	out := make([]piece, len(curves))
	for i, c := range curves {
		out[i] = piece{p: c}
	}
	return out, nil
}

// smoothJoin rotates the handles around the anchor shared by a and b
// so that they are collinear, using the average of both tangent
// directions and keeping their lengths. Short handles and non-finite
// results leave the join untouched.
func smoothJoin(a, b *piece) {
	if a.line || b.line {
		return
	}
	anchor := a.p[3]
	in, out := anchor.Sub(a.p[2]), b.p[1].Sub(anchor)
	l1, l2 := in.Len(), out.Len()
	if l1 < handleEpsilon || l2 < handleEpsilon {
		return
	}
	dir, ok := in.Mul(1 / l1).Add(out.Mul(1 / l2)).Normalize()
	if !ok {
		return
	}
	c2, c1 := anchor.Sub(dir.Mul(l1)), anchor.Add(dir.Mul(l2))
	if !c2.IsFinite() || !c1.IsFinite() {
		return
	}
	a.p[2], b.p[1] = c2, c1
}

// subpathResult is the outcome of the pipeline for one subpath.
type subpathResult struct {
	segments svgpath.Path
	fitErrs  int // runs degraded to lines
}

// simplifySubpath runs the pipeline on segments, which must start with
// a MoveTo and contain no other. Subpaths too small to be simplified
// are returned as is.
func simplifySubpath(segments svgpath.Path, tol, cornerAngle float64) subpathResult {
	_, explicitClose := segments[len(segments)-1].(svgpath.Close)
	pts := sample(segments)
	closed := explicitClose || len(pts) > 2 && pts[0].Dist(pts[len(pts)-1]) <= closeEnough
	if closed {
		pts = toRing(pts)
	}
	if closed && len(pts) < 3 || len(pts) < 2 {
		return subpathResult{segments: segments}
	}

	pts = visvalingam(pts, closed, (noiseFactor*tol)*(noiseFactor*tol))

	seq := pts
	if closed {
		seq = append(pts[:len(pts):len(pts)], pts[0])
	}
	bounds, seamCorner := boundaries(seq, closed, cornerAngle)

	var (
		pieces  []piece
		fitErrs int
	)
	for i := 0; i+1 < len(bounds); i++ {
		fitted, err := fitRun(seq[bounds[i]:bounds[i+1]+1], tol)
		if err != nil {
			fitErrs++
		}
		fitted[len(fitted)-1].corner = true
		pieces = append(pieces, fitted...)
	}
	start := seq[0]

	if closed {
		last := &pieces[len(pieces)-1]
		last.corner = seamCorner
		last.p[3] = start // exact closure
		if last.line {
			last.p[2] = start
		}
		// merge the lines on both sides of a straight seam
		if first := pieces[0]; !seamCorner && len(pieces) >= 3 && first.line && last.line &&
			geom.PointLineDistance(start, last.p[0], first.p[3]) <= lineFactor*tol {
			start = last.p[0]
			pieces[0] = linePiece(start, first.p[3])
			pieces = pieces[:len(pieces)-1]
			pieces[len(pieces)-1].corner = true
		}
	}

	// continuity repair, on pieces allocated above
	for i := 0; i+1 < len(pieces); i++ {
		if !pieces[i].corner {
			smoothJoin(&pieces[i], &pieces[i+1])
		}
	}
	if closed && len(pieces) >= 2 && !pieces[len(pieces)-1].corner {
		smoothJoin(&pieces[len(pieces)-1], &pieces[0])
	}

	out := svgpath.Path{svgpath.MoveTo{To: start}}
	for _, pc := range pieces {
		out = append(out, pc.segment())
	}
	if explicitClose {
		if last, ok := out[len(out)-1].(svgpath.LineTo); ok && len(out) > 2 {
			out[len(out)-1] = svgpath.Close{From: last.From, To: start}
		} else {
			out = append(out, svgpath.Close{From: start, To: start})
		}
	}
	return subpathResult{segments: out, fitErrs: fitErrs}
}

// Fallback reasons reported when the original path is kept.
const (
	ReasonInvalidTolerance = "invalid tolerance"
	ReasonCollapsed        = "result has less than 2 segments"
	ReasonNoReduction      = "result is not smaller than the input"
	ReasonNonFinite        = "result has non-finite coordinates"
)

// run applies the pipeline to every subpath of path, with an absolute
// tolerance, then the safety nets. When a safety net fires, path is
// returned with the reason.
func run(path svgpath.Path, tol, cornerAngle float64) (out svgpath.Path, fitErrs int, reason string) {
	if !(tol > 0) || math.IsInf(tol, 0) {
		return path, 0, ReasonInvalidTolerance
	}
	for _, sp := range path.Subpaths() {
		res := simplifySubpath(path[sp.Begin:sp.End], tol, cornerAngle)
		out = append(out, res.segments...)
		fitErrs += res.fitErrs
	}

	before, after := len(path), len(out)
	switch {
	case after < 2 && before >= 2:
		return path, fitErrs, ReasonCollapsed
	case after >= before:
		return path, fitErrs, ReasonNoReduction
	}
	for pt := range out.Points {
		if !pt.IsFinite() {
			return path, fitErrs, ReasonNonFinite
		}
	}
	return out, fitErrs, ""
}
