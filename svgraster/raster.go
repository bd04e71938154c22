// Implements a raster backend to render SVG documents,
// by wrapping rasterx.
package svgraster

import (
	"image"
	"image/color"
	"io"

	"github.com/benoitkugler/pathedit/svgdraw"
	"github.com/benoitkugler/pathedit/svgicon"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

var _ svgdraw.Driver = (*Renderer)(nil) // assert interface conformance

// miterLimit is the SVG default stroke-miterlimit.
const miterLimit = 4 * 64

// Renderer paints the commands of svgdraw.Draw on a rasterx.Scanner.
type Renderer struct {
	filler *rasterx.Filler
	dasher *rasterx.Dasher
}

// NewRenderer returns a renderer drawing with scanner, which both
// fills and strokes the outlines it receives.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	return &Renderer{
		filler: rasterx.NewFiller(width, height, scanner),
		dasher: rasterx.NewDasher(width, height, scanner),
	}
}

// Rasterize renders the document into a new image of the given size,
// stretching its view box to fill the image.
func Rasterize(doc *svgicon.Document, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	renderer := NewRenderer(w, h, scanner)
	svgdraw.DrawTransformed(doc, renderer, svgdraw.ViewportMatrix(doc, 0, 0, float64(w), float64(h)), 1)
	return img
}

// RasterSVGToImage reads an SVG document and renders it at its natural
// size.
func RasterSVGToImage(r io.Reader) (*image.RGBA, error) {
	doc, err := svgicon.Read(r, svgicon.ParseOptions{ErrorMode: svgicon.IgnoreErrorMode})
	if err != nil {
		return nil, err
	}
	return Rasterize(doc, int(doc.Width), int(doc.Height)), nil
}

func (rd *Renderer) Clear() {
	rd.dasher.Clear()
	rd.filler.Clear()
}

func (rd *Renderer) SetFill(c color.Color, opacity float64) {
	rd.filler.SetWinding(true)
	rd.filler.SetColor(rasterx.ApplyOpacity(c, opacity))
}

func (rd *Renderer) SetStroke(c color.Color, opacity float64, width fixed.Int26_6) {
	rd.dasher.SetStroke(width, miterLimit, rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Bevel, nil, 0)
	rd.dasher.SetColor(rasterx.ApplyOpacity(c, opacity))
}

// outlines returns the receivers of the path commands: the filler
// and the dasher share the same outline.
func (rd *Renderer) outlines() [2]rasterx.Adder { return [2]rasterx.Adder{rd.filler, rd.dasher} }

func (rd *Renderer) Start(a fixed.Point26_6) {
	for _, o := range rd.outlines() {
		o.Start(a)
	}
}

func (rd *Renderer) Line(b fixed.Point26_6) {
	for _, o := range rd.outlines() {
		o.Line(b)
	}
}

func (rd *Renderer) QuadBezier(b, c fixed.Point26_6) {
	for _, o := range rd.outlines() {
		o.QuadBezier(b, c)
	}
}

func (rd *Renderer) CubeBezier(b, c, d fixed.Point26_6) {
	for _, o := range rd.outlines() {
		o.CubeBezier(b, c, d)
	}
}

func (rd *Renderer) Stop(closeLoop bool) {
	for _, o := range rd.outlines() {
		o.Stop(closeLoop)
	}
}

func (rd *Renderer) Fill() {
	rd.filler.Draw()
}

func (rd *Renderer) Stroke() {
	rd.dasher.Draw()
}
