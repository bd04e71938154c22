// Package editor exposes the anchor and control points of a path for
// interactive editing.
//
// Every operation bakes the path transform first, so that points are
// expressed in document coordinates, and returns a new path: the
// input is never modified.
package editor

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/benoitkugler/pathedit/geom"
	"github.com/benoitkugler/pathedit/svgicon"
	"github.com/benoitkugler/pathedit/svgpath"
)

var (
	ErrSegmentIndex    = errors.New("segment index out of range")
	ErrPointIndex      = errors.New("point index out of range")
	ErrTooFewSegments  = errors.New("path would have less than 2 segments")
	ErrSubpathMismatch = errors.New("points belong to different subpaths")
	ErrSplitParameter  = errors.New("split parameter outside of (0, 1)")
)

// Kind distinguishes on-curve and off-curve points.
type Kind uint8

const (
	Anchor Kind = iota
	Control
)

func (k Kind) String() string {
	switch k {
	case Anchor:
		return "anchor"
	case Control:
		return "control"
	default:
		return "<unknown Kind>"
	}
}

// ControlPoint is a view over one point of a path segment.
// PointIndex is 0 for the start anchor of a segment, -1 for its end
// anchor and 1..n for its control handles.
type ControlPoint struct {
	PathID       string
	SegmentIndex int
	PointIndex   int
	Point        geom.Point
	Kind         Kind
}

// All iterates over the points of p. A MoveTo yields its anchor with
// PointIndex 0; drawing segments yield their controls, then their end
// anchor. A Close yields nothing, since its end is the anchor of the
// subpath MoveTo.
func All(p svgicon.SvgPath) iter.Seq[ControlPoint] {
	p = p.Baked()
	segments := p.Segments()
	return func(yield func(ControlPoint) bool) {
		for i, seg := range segments {
			switch seg := seg.(type) {
			case svgpath.MoveTo:
				if !yield(ControlPoint{p.ID, i, 0, seg.To, Anchor}) {
					return
				}
			case svgpath.Close:
			default:
				for j, c := range seg.Controls() {
					if !yield(ControlPoint{p.ID, i, j + 1, c, Control}) {
						return
					}
				}
				if !yield(ControlPoint{p.ID, i, -1, seg.End(), Anchor}) {
					return
				}
			}
		}
	}
}

// ExtractControlPoints returns the points of All as a slice.
func ExtractControlPoints(p svgicon.SvgPath) []ControlPoint {
	return slices.Collect(All(p))
}

// FindNearest returns the point of p closest to pt, within radius.
// Anchors win ties.
func FindNearest(p svgicon.SvgPath, pt geom.Point, radius float64) (ControlPoint, bool) {
	var (
		best  ControlPoint
		bestD = radius
		found bool
	)
	for cp := range All(p) {
		d := cp.Point.Dist(pt)
		if d > radius {
			continue
		}
		if !found || d < bestD || d == bestD && cp.Kind == Anchor && best.Kind == Control {
			best, bestD, found = cp, d, true
		}
	}
	return best, found
}

// baked returns the baked path and a copy of its segments.
func baked(p svgicon.SvgPath) (svgicon.SvgPath, svgpath.Path) {
	p = p.Baked()
	return p, p.Segments()
}

func checkSegment(segments svgpath.Path, i int) error {
	if i < 0 || i >= len(segments) {
		return fmt.Errorf("%w: %d (path has %d segments)", ErrSegmentIndex, i, len(segments))
	}
	return nil
}

// anchorOwner returns the index of the segment whose end is the anchor
// designated by (segmentIndex, pointIndex), resolving Close segments
// to the MoveTo of their subpath.
func anchorOwner(segments svgpath.Path, segmentIndex, pointIndex int) int {
	k := segmentIndex
	if pointIndex == 0 {
		if _, isMove := segments[k].(svgpath.MoveTo); !isMove {
			k--
		}
	}
	if _, isClose := segments[k].(svgpath.Close); isClose {
		k = segments.SubpathOf(k).Begin
	}
	return k
}

// moveAnchor moves the end of segments[k], and every segment sharing
// this anchor, to pt. segments is modified in place.
func moveAnchor(segments svgpath.Path, k int, pt geom.Point) {
	old := segments[k].End()
	segments[k] = segments[k].WithEnd(pt)
	if k+1 < len(segments) {
		if _, isMove := segments[k+1].(svgpath.MoveTo); !isMove {
			segments[k+1] = segments[k+1].WithStart(pt)
		}
	}
	if _, isMove := segments[k].(svgpath.MoveTo); !isMove {
		return
	}
	sp := segments.SubpathOf(k)
	if !segments.IsClosed(sp) {
		return
	}
	last := sp.End - 1
	segments[last] = segments[last].WithEnd(pt)
	// a subpath explicitly returning to its start before closing
	// shares the anchor too
	if before := last - 1; before > k && segments[before].End() == old {
		segments[before] = segments[before].WithEnd(pt)
		segments[last] = segments[last].WithStart(pt)
	}
}

// UpdateControlPoint returns a copy of p where the given point is moved
// to pt. Moving an anchor also updates the segments sharing it.
func UpdateControlPoint(p svgicon.SvgPath, segmentIndex, pointIndex int, pt geom.Point) (svgicon.SvgPath, error) {
	p, segments := baked(p)
	if err := checkSegment(segments, segmentIndex); err != nil {
		return p, err
	}
	seg := segments[segmentIndex]
	switch {
	case pointIndex == 0 || pointIndex == -1:
		moveAnchor(segments, anchorOwner(segments, segmentIndex, pointIndex), pt)
	case pointIndex >= 1 && pointIndex <= len(seg.Controls()):
		segments[segmentIndex] = seg.WithControl(pointIndex-1, pt)
	default:
		return p, fmt.Errorf("%w: %d (segment has %d control points)", ErrPointIndex, pointIndex, len(seg.Controls()))
	}
	return p.WithSegments(segments), nil
}

// AddPointToSegment splits the segment at parameter t, inserting a new
// anchor. Curves are split with the de Casteljau algorithm, so that
// the outline is unchanged.
func AddPointToSegment(p svgicon.SvgPath, segmentIndex int, t float64) (svgicon.SvgPath, error) {
	p, segments := baked(p)
	if err := checkSegment(segments, segmentIndex); err != nil {
		return p, err
	}
	if !(t > 0 && t < 1) {
		return p, fmt.Errorf("%w: %g", ErrSplitParameter, t)
	}
	var first, second svgpath.Segment
	switch seg := segments[segmentIndex].(type) {
	case svgpath.MoveTo:
		return p, fmt.Errorf("%w: can't split a MoveTo", ErrSegmentIndex)
	case svgpath.LineTo:
		mid := seg.From.Lerp(seg.To, t)
		first, second = svgpath.LineTo{From: seg.From, To: mid}, svgpath.LineTo{From: mid, To: seg.To}
	case svgpath.Close:
		mid := seg.From.Lerp(seg.To, t)
		first, second = svgpath.LineTo{From: seg.From, To: mid}, svgpath.Close{From: mid, To: seg.To}
	case svgpath.QuadTo:
		l, r := geom.SplitQuad(seg.From, seg.Ctrl, seg.To, t)
		first, second = svgpath.QuadTo{From: l[0], Ctrl: l[1], To: l[2]}, svgpath.QuadTo{From: r[0], Ctrl: r[1], To: r[2]}
	case svgpath.CubicTo:
		l, r := geom.SplitCubic(seg.From, seg.C1, seg.C2, seg.To, t)
		first = svgpath.CubicTo{From: l[0], C1: l[1], C2: l[2], To: l[3]}
		second = svgpath.CubicTo{From: r[0], C1: r[1], C2: r[2], To: r[3]}
	}
	segments = slices.Replace(segments, segmentIndex, segmentIndex+1, first, second)
	return p.WithSegments(segments), nil
}

// RemovePoint removes the end anchor of the given segment: the segment
// is dropped and the next one reconnected to its start. Removing a
// MoveTo moves the subpath start to the end of the following segment.
// The operation is refused when less than 2 segments would remain.
//
// Removing a point added by AddPointToSegment restores the anchors,
// but not the exact shape of a split curve.
func RemovePoint(p svgicon.SvgPath, segmentIndex int) (svgicon.SvgPath, error) {
	p, segments := baked(p)
	if err := checkSegment(segments, segmentIndex); err != nil {
		return p, err
	}
	if len(segments)-1 < 2 {
		return p, ErrTooFewSegments
	}
	seg := segments[segmentIndex]
	next := segmentIndex + 1
	hasNext := next < len(segments)
	if hasNext {
		_, isMove := segments[next].(svgpath.MoveTo)
		hasNext = !isMove
	}

	if _, isMove := seg.(svgpath.MoveTo); isMove {
		if !hasNext { // isolated point
			return p.WithSegments(slices.Delete(segments, segmentIndex, next)), nil
		}
		if _, isClose := segments[next].(svgpath.Close); isClose {
			// only the Close remains: drop the whole subpath
			if len(segments)-2 < 2 {
				return p, ErrTooFewSegments
			}
			return p.WithSegments(slices.Delete(segments, segmentIndex, next+1)), nil
		}
		start := segments[next].End()
		segments[next] = svgpath.MoveTo{To: start}
		segments = slices.Delete(segments, segmentIndex, next)
		sp := segments.SubpathOf(segmentIndex)
		if segments.IsClosed(sp) {
			segments[sp.End-1] = segments[sp.End-1].WithEnd(start)
		}
		return p.WithSegments(segments), nil
	}

	if hasNext {
		segments[next] = segments[next].WithStart(seg.Start())
	}
	return p.WithSegments(slices.Delete(segments, segmentIndex, next)), nil
}

// JoinPoints replaces the run of segments between the end anchors of
// segments from and to by a single line. Both anchors must belong to
// the same subpath. When to is a Close, the run is replaced by a
// Close from the first anchor.
func JoinPoints(p svgicon.SvgPath, from, to int) (svgicon.SvgPath, error) {
	p, segments := baked(p)
	if err := checkSegment(segments, from); err != nil {
		return p, err
	}
	if err := checkSegment(segments, to); err != nil {
		return p, err
	}
	if from > to {
		from, to = to, from
	}
	if from == to {
		return p, fmt.Errorf("%w: can't join a point with itself", ErrPointIndex)
	}
	if segments.SubpathOf(from) != segments.SubpathOf(to) {
		return p, ErrSubpathMismatch
	}
	start := segments[from].End()
	var edge svgpath.Segment = svgpath.LineTo{From: start, To: segments[to].End()}
	if cl, isClose := segments[to].(svgpath.Close); isClose {
		edge = svgpath.Close{From: start, To: cl.To}
	}
	segments = slices.Replace(segments, from+1, to+1, edge)
	return p.WithSegments(segments), nil
}
