// Implements an abstract representation of
// svg paths, as a list of segments, which can then be
// edited, simplified or consumed by a painting driver.
package svgpath

import (
	"github.com/benoitkugler/pathedit/geom"
)

// Segment groups the different SVG drawing commands.
// The set of implementations is closed: MoveTo, LineTo, QuadTo,
// CubicTo and Close.
//
// Every segment knows its start and end anchors, so that a segment
// can be inspected without walking the path. Anchors are shared by
// consecutive segments: the end of one segment is the start of the next.
type Segment interface {
	Start() geom.Point
	End() geom.Point
	// Controls returns the intermediate control points, if any.
	Controls() []geom.Point

	// WithStart, WithEnd and WithControl return a modified copy.
	// WithControl panics if i is not in [0, len(Controls())).
	WithStart(p geom.Point) Segment
	WithEnd(p geom.Point) Segment
	WithControl(i int, p geom.Point) Segment

	command() byte
	transform(m Matrix2D) Segment
}

// MoveTo starts a new subpath. Its start and end coincide.
type MoveTo struct {
	To geom.Point
}

// LineTo draws a straight line.
type LineTo struct {
	From, To geom.Point
}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	From, Ctrl, To geom.Point
}

// CubicTo draws a cubic Bezier curve.
// Curves produced from an elliptical arc command keep the arc
// parameters in Arc; any edit drops them.
type CubicTo struct {
	From, C1, C2, To geom.Point
	Arc              *Arc
}

// Close draws a line back to the start of the subpath and ends it.
// To is always the point of the subpath's MoveTo.
type Close struct {
	From, To geom.Point
}

// Arc stores the parameters of the SVG arc command a cubic piece
// was generated from.
type Arc struct {
	Rx, Ry, Rotation float64
	LargeArc, Sweep  bool
	Piece, Pieces    int // index of the piece and total pieces
}

func (s MoveTo) Start() geom.Point  { return s.To }
func (s LineTo) Start() geom.Point  { return s.From }
func (s QuadTo) Start() geom.Point  { return s.From }
func (s CubicTo) Start() geom.Point { return s.From }
func (s Close) Start() geom.Point   { return s.From }

func (s MoveTo) End() geom.Point  { return s.To }
func (s LineTo) End() geom.Point  { return s.To }
func (s QuadTo) End() geom.Point  { return s.To }
func (s CubicTo) End() geom.Point { return s.To }
func (s Close) End() geom.Point   { return s.To }

func (MoveTo) Controls() []geom.Point    { return nil }
func (LineTo) Controls() []geom.Point    { return nil }
func (s QuadTo) Controls() []geom.Point  { return []geom.Point{s.Ctrl} }
func (s CubicTo) Controls() []geom.Point { return []geom.Point{s.C1, s.C2} }
func (Close) Controls() []geom.Point     { return nil }

func (s MoveTo) WithStart(p geom.Point) Segment { return MoveTo{To: p} }
func (s LineTo) WithStart(p geom.Point) Segment { s.From = p; return s }
func (s QuadTo) WithStart(p geom.Point) Segment { s.From = p; return s }
func (s CubicTo) WithStart(p geom.Point) Segment {
	s.From, s.Arc = p, nil
	return s
}
func (s Close) WithStart(p geom.Point) Segment { s.From = p; return s }

func (s MoveTo) WithEnd(p geom.Point) Segment { return MoveTo{To: p} }
func (s LineTo) WithEnd(p geom.Point) Segment { s.To = p; return s }
func (s QuadTo) WithEnd(p geom.Point) Segment { s.To = p; return s }
func (s CubicTo) WithEnd(p geom.Point) Segment {
	s.To, s.Arc = p, nil
	return s
}
func (s Close) WithEnd(p geom.Point) Segment { s.To = p; return s }

func (s MoveTo) WithControl(i int, p geom.Point) Segment { panic("svgpath: MoveTo has no control point") }
func (s LineTo) WithControl(i int, p geom.Point) Segment { panic("svgpath: LineTo has no control point") }
func (s QuadTo) WithControl(i int, p geom.Point) Segment {
	if i != 0 {
		panic("svgpath: invalid control index for QuadTo")
	}
	s.Ctrl = p
	return s
}
func (s CubicTo) WithControl(i int, p geom.Point) Segment {
	switch i {
	case 0:
		s.C1 = p
	case 1:
		s.C2 = p
	default:
		panic("svgpath: invalid control index for CubicTo")
	}
	s.Arc = nil
	return s
}
func (s Close) WithControl(i int, p geom.Point) Segment { panic("svgpath: Close has no control point") }

func (MoveTo) command() byte  { return 'M' }
func (LineTo) command() byte  { return 'L' }
func (QuadTo) command() byte  { return 'Q' }
func (CubicTo) command() byte { return 'C' }
func (Close) command() byte   { return 'Z' }

// Path describes a sequence of segments. A non empty path always
// starts with a MoveTo. Higher-level shapes are reduced to a path.
type Path []Segment

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// Clone returns a copy of the path which does not share its
// storage with p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return append(Path(nil), p...)
}

// current returns the current point, that is the end of the last segment.
func (p Path) current() geom.Point {
	if len(p) == 0 {
		return geom.Point{}
	}
	return p[len(p)-1].End()
}

// subpathStart scans backward to the MoveTo owning the last segment.
func (p Path) subpathStart() geom.Point {
	for i := len(p) - 1; i >= 0; i-- {
		if m, ok := p[i].(MoveTo); ok {
			return m.To
		}
	}
	return geom.Point{}
}

// Start starts a new subpath at the given point.
func (p *Path) Start(a geom.Point) {
	*p = append(*p, MoveTo{To: a})
}

// Line adds a linear segment to the current subpath.
func (p *Path) Line(b geom.Point) {
	*p = append(*p, LineTo{From: p.current(), To: b})
}

// QuadBezier adds a quadratic segment to the current subpath.
func (p *Path) QuadBezier(b, c geom.Point) {
	*p = append(*p, QuadTo{From: p.current(), Ctrl: b, To: c})
}

// CubeBezier adds a cubic segment to the current subpath.
func (p *Path) CubeBezier(b, c, d geom.Point) {
	*p = append(*p, CubicTo{From: p.current(), C1: b, C2: c, To: d})
}

// Stop joins the ends of the current subpath if closeLoop is true.
func (p *Path) Stop(closeLoop bool) {
	if closeLoop && len(*p) > 0 {
		*p = append(*p, Close{From: p.current(), To: p.subpathStart()})
	}
}

// Subpath is the half-open range [Begin, End) of segment indices of a
// subpath. The segment at Begin is a MoveTo.
type Subpath struct {
	Begin, End int
}

// Subpaths splits the path at each MoveTo.
func (p Path) Subpaths() []Subpath {
	var out []Subpath
	begin := -1
	for i, seg := range p {
		if _, ok := seg.(MoveTo); ok {
			if begin != -1 {
				out = append(out, Subpath{begin, i})
			}
			begin = i
		}
	}
	if begin != -1 {
		out = append(out, Subpath{begin, len(p)})
	}
	return out
}

// SubpathOf returns the subpath containing the segment at index i.
func (p Path) SubpathOf(i int) Subpath {
	for _, sp := range p.Subpaths() {
		if sp.Begin <= i && i < sp.End {
			return sp
		}
	}
	return Subpath{-1, -1}
}

// IsClosed reports whether the subpath ends with a Close segment.
func (p Path) IsClosed(sp Subpath) bool {
	if sp.End <= sp.Begin {
		return false
	}
	_, ok := p[sp.End-1].(Close)
	return ok
}

// Points calls yield with every anchor and control point of the path,
// in order.
func (p Path) Points(yield func(geom.Point) bool) {
	for _, seg := range p {
		if _, ok := seg.(MoveTo); ok {
			if !yield(seg.Start()) {
				return
			}
			continue
		}
		for _, c := range seg.Controls() {
			if !yield(c) {
				return
			}
		}
		if !yield(seg.End()) {
			return
		}
	}
}

// Bounds returns the bounding box of every anchor and control point,
// which contains the drawn outline.
func (p Path) Bounds() geom.Rect {
	r := geom.EmptyRect()
	p.Points(func(pt geom.Point) bool {
		r = r.Extend(pt)
		return true
	})
	return r
}

// TightBounds returns the exact bounding box of the drawn outline.
func (p Path) TightBounds() geom.Rect {
	r := geom.EmptyRect()
	for _, seg := range p {
		switch seg := seg.(type) {
		case MoveTo:
			r = r.Extend(seg.To)
		case LineTo:
			r = r.Extend(seg.From).Extend(seg.To)
		case Close:
			r = r.Extend(seg.From).Extend(seg.To)
		case QuadTo:
			r = r.Union(geom.QuadBounds(seg.From, seg.Ctrl, seg.To))
		case CubicTo:
			r = r.Union(geom.CubicBounds(seg.From, seg.C1, seg.C2, seg.To))
		}
	}
	return r
}

// Transform returns a new path with every point mapped by m.
// Arc parameters are kept only when m is a pure translation.
func (p Path) Transform(m Matrix2D) Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	for i, seg := range p {
		out[i] = seg.transform(m)
	}
	return out
}

func (s MoveTo) transform(m Matrix2D) Segment { return MoveTo{m.Apply(s.To)} }
func (s LineTo) transform(m Matrix2D) Segment { return LineTo{m.Apply(s.From), m.Apply(s.To)} }
func (s QuadTo) transform(m Matrix2D) Segment {
	return QuadTo{m.Apply(s.From), m.Apply(s.Ctrl), m.Apply(s.To)}
}
func (s CubicTo) transform(m Matrix2D) Segment {
	out := CubicTo{From: m.Apply(s.From), C1: m.Apply(s.C1), C2: m.Apply(s.C2), To: m.Apply(s.To)}
	if m.A == 1 && m.B == 0 && m.C == 0 && m.D == 1 {
		out.Arc = s.Arc
	}
	return out
}
func (s Close) transform(m Matrix2D) Segment { return Close{m.Apply(s.From), m.Apply(s.To)} }

// Sample evaluates a drawing segment at t in [0, 1].
// A MoveTo evaluates to its point.
func Sample(seg Segment, t float64) geom.Point {
	switch seg := seg.(type) {
	case QuadTo:
		return geom.QuadAt(seg.From, seg.Ctrl, seg.To, t)
	case CubicTo:
		return geom.CubicAt(seg.From, seg.C1, seg.C2, seg.To, t)
	default:
		return seg.Start().Lerp(seg.End(), t)
	}
}
