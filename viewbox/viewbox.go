// Package viewbox computes the extent of documents and adjusts their
// view box to their content.
package viewbox

import (
	"errors"
	"fmt"
	"math"

	"github.com/benoitkugler/pathedit/geom"
	"github.com/benoitkugler/pathedit/svgicon"
	"github.com/benoitkugler/pathedit/svgpath"
)

var ErrInvalidSize = errors.New("invalid normalization size")

// PathBounds returns the bounding box of the anchor and control points
// of p, once its transform is applied.
func PathBounds(p svgicon.SvgPath) geom.Rect {
	return p.Baked().Segments().Bounds()
}

// TightBounds returns the bounding box of the outline of p, once its
// transform is applied.
func TightBounds(p svgicon.SvgPath) geom.Rect {
	return p.Baked().Segments().TightBounds()
}

// BoundingBox returns the union of the bounding boxes of the paths of
// doc, as computed by PathBounds. It is empty for a document without
// segments.
func BoundingBox(doc *svgicon.Document) geom.Rect {
	r := geom.EmptyRect()
	for _, p := range doc.Paths {
		r = r.Union(PathBounds(p))
	}
	return r
}

func toBounds(r geom.Rect) *svgicon.Bounds {
	return &svgicon.Bounds{X: r.Min.X, Y: r.Min.Y, W: r.Width(), H: r.Height()}
}

// FitToContent returns a copy of doc whose view box is the bounding
// box of its content, enlarged by padding on every side. The width and
// height are set to the view box size when they are not specified.
// An empty document is returned unchanged.
func FitToContent(doc *svgicon.Document, padding float64) *svgicon.Document {
	out := doc.Clone()
	r := BoundingBox(doc)
	if r.Empty() {
		return out
	}
	out.ViewBox = toBounds(r.Inset(-padding))
	if out.Width == 0 {
		out.Width = out.ViewBox.W
	}
	if out.Height == 0 {
		out.Height = out.ViewBox.H
	}
	return out
}

// SquareNormalize returns a copy of doc whose content is uniformly
// scaled and centered in a size x size square, leaving padding on the
// limiting sides. The offsets shift the content after centering.
// Transforms are applied to the segments, and the view box of the
// result is exactly [0, 0, size, size].
func SquareNormalize(doc *svgicon.Document, size, padding, offsetX, offsetY float64) (*svgicon.Document, error) {
	if !(size > 0) || math.IsInf(size, 0) || !(padding >= 0) || 2*padding >= size {
		return nil, fmt.Errorf("%w: size %g with padding %g", ErrInvalidSize, size, padding)
	}
	if !isFinite(offsetX) || !isFinite(offsetY) {
		return nil, fmt.Errorf("%w: offset (%g, %g)", ErrInvalidSize, offsetX, offsetY)
	}
	out := doc.Clone()
	out.Width, out.Height = size, size
	out.ViewBox = &svgicon.Bounds{W: size, H: size}

	r := BoundingBox(doc)
	if r.Empty() {
		return out, nil
	}
	scale := 1.
	if extent := math.Max(r.Width(), r.Height()); extent > 0 {
		scale = (size - 2*padding) / extent
	}
	center := r.Center()
	m := svgpath.Identity.
		Translate(size/2+offsetX, size/2+offsetY).
		Scale(scale, scale).
		Translate(-center.X, -center.Y)

	for i, p := range out.Paths {
		baked := p.Baked()
		out.Paths[i] = baked.WithSegments(baked.Segments().Transform(m))
	}
	return out, nil
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
