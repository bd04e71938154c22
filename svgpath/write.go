package svgpath

import (
	"github.com/benoitkugler/pathedit/geom"
)

// Format controls the serialization of path data.
type Format struct {
	// Decimals is the number of decimals kept for coordinates.
	// A negative value keeps full precision.
	Decimals int
	// Compact drops the optional separators and shortens numbers.
	Compact bool
	// KeepArcs writes back the arc commands of unedited arc pieces
	// instead of their cubic approximation.
	KeepArcs bool
}

// DefaultFormat is used by ToSVGPath.
var DefaultFormat = Format{Decimals: 3}

// ToSVGPath returns the SVG path data of p, with absolute commands and
// coordinates rounded to 3 decimals.
func (p Path) ToSVGPath() string {
	return p.Format(DefaultFormat)
}

type pathWriter struct {
	f   Format
	buf []byte

	lastCmd                 byte
	prevDigit, prevDigitInt bool
}

func (w *pathWriter) command(c byte) {
	if w.f.Compact && c == w.lastCmd && c != 'M' && c != 'Z' {
		return
	}
	if !w.f.Compact && len(w.buf) > 0 {
		w.buf = append(w.buf, ' ')
	}
	w.buf = append(w.buf, c)
	w.lastCmd = c
	w.prevDigit, w.prevDigitInt = false, false
}

func (w *pathWriter) number(f float64) {
	start := len(w.buf)
	if !w.f.Compact {
		if n := len(w.buf); n > 0 && !isLetter(w.buf[n-1]) {
			w.buf = append(w.buf, ' ')
		}
		w.buf = appendNumber(w.buf, f, w.f.Decimals, false)
		return
	}
	num := appendNumber(nil, f, w.f.Decimals, true)
	if w.prevDigit && (num[0] >= '0' && num[0] <= '9' || num[0] == '.' && w.prevDigitInt) {
		w.buf = append(w.buf, ' ')
	}
	w.buf = append(w.buf, num...)
	w.prevDigit, w.prevDigitInt = true, true
	for _, c := range w.buf[start:] {
		if c == '.' || c == 'e' || c == 'E' {
			w.prevDigitInt = false
		}
	}
}

func (w *pathWriter) points(pts ...geom.Point) {
	for _, pt := range pts {
		w.number(pt.X)
		if !w.f.Compact {
			w.buf = append(w.buf, ',')
			w.buf = appendNumber(w.buf, pt.Y, w.f.Decimals, false)
		} else {
			w.number(pt.Y)
		}
	}
}

func (w *pathWriter) flag(b bool) {
	v := 0.
	if b {
		v = 1
	}
	w.number(v)
}

// Format returns the SVG path data of p.
// MoveTo segments which do not change the drawing are dropped: a
// move followed by another move or ending the path, and a move to
// the start of the subpath just closed.
func (p Path) Format(f Format) string {
	w := pathWriter{f: f}
	for i := 0; i < len(p); i++ {
		switch seg := p[i].(type) {
		case MoveTo:
			if p.redundantMove(i) {
				continue
			}
			w.command('M')
			w.points(seg.To)
			if f.Compact {
				w.lastCmd = 'L' // subsequent pairs are lines
			}
		case LineTo:
			w.command('L')
			w.points(seg.To)
		case QuadTo:
			w.command('Q')
			w.points(seg.Ctrl, seg.To)
		case CubicTo:
			if f.KeepArcs {
				if n := p.arcRun(i); n > 0 {
					w.arc(seg.Arc, p[i+n-1].End())
					i += n - 1
					continue
				}
			}
			w.command('C')
			w.points(seg.C1, seg.C2, seg.To)
		case Close:
			w.command('Z')
		}
	}
	return string(w.buf)
}

func (w *pathWriter) arc(a *Arc, to geom.Point) {
	w.command('A')
	w.number(a.Rx)
	w.number(a.Ry)
	w.number(a.Rotation)
	w.flag(a.LargeArc)
	w.flag(a.Sweep)
	w.points(to)
}

func (p Path) redundantMove(i int) bool {
	if len(p) == 1 {
		return false
	}
	if i == len(p)-1 {
		return true
	}
	if _, ok := p[i+1].(MoveTo); ok {
		return true
	}
	if i > 0 {
		if cl, ok := p[i-1].(Close); ok && cl.To == p[i].End() {
			// the implicit move after a close reaches the same point
			_, nextIsClose := p[i+1].(Close)
			return !nextIsClose
		}
	}
	return false
}

// arcRun returns the number of segments starting at i forming a
// complete, unedited arc, or 0.
func (p Path) arcRun(i int) int {
	first, ok := p[i].(CubicTo)
	if !ok || first.Arc == nil || first.Arc.Piece != 0 {
		return 0
	}
	n := first.Arc.Pieces
	if i+n > len(p) {
		return 0
	}
	for k := 1; k < n; k++ {
		c, ok := p[i+k].(CubicTo)
		if !ok || c.Arc == nil || c.Arc.Piece != k || c.Arc.Pieces != n ||
			c.Arc.Rx != first.Arc.Rx || c.Arc.Ry != first.Arc.Ry || c.Arc.Rotation != first.Arc.Rotation ||
			c.Arc.LargeArc != first.Arc.LargeArc || c.Arc.Sweep != first.Arc.Sweep ||
			c.From != p[i+k-1].End() {
			return 0
		}
	}
	return n
}
