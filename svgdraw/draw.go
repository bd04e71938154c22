// Given a parsed SVG document, implements how to
// draw it on screen.
// This requires a driver implementing the actual draw operations,
// such as a rasterizer to output .png images.
package svgdraw

import (
	"image/color"
	"math"

	"github.com/benoitkugler/pathedit/geom"
	"github.com/benoitkugler/pathedit/svgicon"
	"github.com/benoitkugler/pathedit/svgpath"
	"golang.org/x/image/math/fixed"
)

// Driver knows how to do the actual draw operations
// but doesn't need any SVG knowledge.
// In particular, transformation matrices are already applied to the
// points before sending them to the Driver.
type Driver interface {
	// Clear must reset the internal state (used before starting a new path painting)
	Clear()

	// Start starts a new subpath at the given point.
	Start(a fixed.Point26_6)
	// Line adds a line from the current point to b.
	Line(b fixed.Point26_6)
	// QuadBezier adds a quadratic bezier curve to the path
	QuadBezier(b, c fixed.Point26_6)
	// CubeBezier adds a cubic bezier curve to the path
	CubeBezier(b, c, d fixed.Point26_6)
	// Stop ends the current subpath, closing it to its start point
	// if closeLoop is true.
	Stop(closeLoop bool)

	// SetFill sets the color used by Fill.
	SetFill(c color.Color, opacity float64)
	// SetStroke sets the color and the line width used by Stroke.
	// It is called before the path is sent.
	SetStroke(c color.Color, opacity float64, width fixed.Int26_6)

	// Fill paints the accumulated path with the non-zero winding rule.
	Fill()
	// Stroke outlines the accumulated path.
	Stroke()
}

func toFixed(p geom.Point) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(p.X * 64), Y: fixed.Int26_6(p.Y * 64)}
}

// ViewportMatrix maps the view box of doc onto the rectangle
// (x, y, w, h), stretching it if needed. A document without view box
// uses its width and height instead.
func ViewportMatrix(doc *svgicon.Document, x, y, w, h float64) svgpath.Matrix2D {
	vb := svgicon.Bounds{W: doc.Width, H: doc.Height}
	if doc.ViewBox != nil {
		vb = *doc.ViewBox
	}
	if vb.W == 0 || vb.H == 0 {
		return svgpath.Identity.Translate(x, y)
	}
	return svgpath.Identity.Translate(x, y).Scale(w/vb.W, h/vb.H).Translate(-vb.X, -vb.Y)
}

// Draw draws the document into the driver, at its natural size.
func Draw(doc *svgicon.Document, d Driver, opacity float64) {
	DrawTransformed(doc, d, ViewportMatrix(doc, 0, 0, doc.Width, doc.Height), opacity)
}

// DrawTransformed draws the document into the driver, applying m to
// every path after its own transform.
func DrawTransformed(doc *svgicon.Document, d Driver, m svgpath.Matrix2D, opacity float64) {
	for _, p := range doc.Paths {
		drawPath(p, d, m, opacity)
	}
}

// paint resolves a paint value: an empty value falls back to def,
// and unsupported values disable the painting.
func paint(value, def string) (color.Color, bool) {
	if value == "" {
		value = def
	}
	c, ok := svgicon.ParseColor(value)
	return c, ok
}

func drawPath(p svgicon.SvgPath, d Driver, m svgpath.Matrix2D, opacity float64) {
	m = m.Mult(p.Transform.Matrix())
	segments := p.Segments().Transform(m)
	opacity *= p.Style.Opacity

	if c, ok := paint(p.Style.Fill, "black"); ok {
		d.Clear()
		d.SetFill(c, p.Style.FillOpacity*opacity)
		feed(segments, d)
		d.Fill()
	}
	if c, ok := paint(p.Style.Stroke, "none"); ok && p.Style.StrokeWidth > 0 {
		d.Clear()
		// strokes scale with the mean factor of the transform
		width := p.Style.StrokeWidth * math.Sqrt(math.Abs(m.Determinant()))
		d.SetStroke(c, p.Style.StrokeOpacity*opacity, fixed.Int26_6(width*64))
		feed(segments, d)
		d.Stroke()
	}
}

// feed sends the segments to the driver, one subpath at a time.
func feed(segments svgpath.Path, d Driver) {
	open := false
	for _, seg := range segments {
		switch seg := seg.(type) {
		case svgpath.MoveTo:
			if open {
				d.Stop(false)
			}
			d.Start(toFixed(seg.To))
			open = true
		case svgpath.LineTo:
			d.Line(toFixed(seg.To))
		case svgpath.QuadTo:
			d.QuadBezier(toFixed(seg.Ctrl), toFixed(seg.To))
		case svgpath.CubicTo:
			d.CubeBezier(toFixed(seg.C1), toFixed(seg.C2), toFixed(seg.To))
		case svgpath.Close:
			d.Stop(true)
			open = false
		}
	}
	if open {
		d.Stop(false)
	}
}
