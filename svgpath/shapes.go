package svgpath

import (
	"math"

	"github.com/benoitkugler/pathedit/geom"
)

// This file implements the transformation from
// high level shapes to their path equivalent

// AddRect adds a closed rectangle with the given corner and size.
// Rounded corners are used when rx or ry is positive; a missing
// radius takes the value of the other, and radii are clamped to half
// the size of the rectangle.
func (p *Path) AddRect(x, y, w, h, rx, ry float64) {
	if w <= 0 || h <= 0 {
		return
	}
	switch {
	case rx <= 0 && ry > 0:
		rx = ry
	case ry <= 0 && rx > 0:
		ry = rx
	}
	rx, ry = math.Min(rx, w/2), math.Min(ry, h/2)
	if rx <= 0 || ry <= 0 {
		p.Start(geom.Pt(x, y))
		p.Line(geom.Pt(x+w, y))
		p.Line(geom.Pt(x+w, y+h))
		p.Line(geom.Pt(x, y+h))
		p.Stop(true)
		return
	}

	corner := func(to geom.Point) {
		*p = appendArc(*p, p.current(), rx, ry, 0, false, true, to)
	}
	p.Start(geom.Pt(x+rx, y))
	p.Line(geom.Pt(x+w-rx, y))
	corner(geom.Pt(x+w, y+ry))
	p.Line(geom.Pt(x+w, y+h-ry))
	corner(geom.Pt(x+w-rx, y+h))
	p.Line(geom.Pt(x+rx, y+h))
	corner(geom.Pt(x, y+h-ry))
	p.Line(geom.Pt(x, y+ry))
	corner(geom.Pt(x+rx, y))
	p.Stop(true)
}

// AddEllipse adds a closed ellipse made of four cubic curves,
// starting at the rightmost point.
func (p *Path) AddEllipse(cx, cy, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		return
	}
	start := geom.Pt(cx+rx, cy)
	opposite := geom.Pt(cx-rx, cy)
	p.Start(start)
	*p = appendArc(*p, start, rx, ry, 0, false, true, opposite)
	*p = appendArc(*p, opposite, rx, ry, 0, false, true, start)
	p.Stop(true)
}

// AddPolyline adds the points given as a flat list of coordinates.
// An odd trailing coordinate is ignored, and less than two points add
// nothing.
func (p *Path) AddPolyline(coords []float64, closed bool) {
	if len(coords) < 4 {
		return
	}
	p.Start(geom.Pt(coords[0], coords[1]))
	for i := 2; i+1 < len(coords); i += 2 {
		p.Line(geom.Pt(coords[i], coords[i+1]))
	}
	p.Stop(closed)
}

// AddLine adds a single line.
func (p *Path) AddLine(x1, y1, x2, y2 float64) {
	p.Start(geom.Pt(x1, y1))
	p.Line(geom.Pt(x2, y2))
}

// ParseNumbers reads a list of numbers separated by commas or
// spaces, as found in the points or viewBox attributes.
func ParseNumbers(s string) ([]float64, error) {
	sc := scanner{b: []byte(s)}
	var out []float64
	for {
		f, ok := sc.number()
		if !ok {
			break
		}
		out = append(out, f)
	}
	sc.skipSeparators()
	if !sc.eof() {
		return out, ErrInvalidNumber
	}
	return out, nil
}
