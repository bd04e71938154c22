package viewbox

import (
	"errors"
	"math"
	"testing"

	"github.com/benoitkugler/pathedit/geom"
	"github.com/benoitkugler/pathedit/svgicon"
	"github.com/benoitkugler/pathedit/svgpath"
	"github.com/google/go-cmp/cmp"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func newDoc(ds ...string) *svgicon.Document {
	doc := &svgicon.Document{}
	for _, d := range ds {
		doc.Paths = append(doc.Paths, svgicon.NewSvgPath(svgpath.MustParsePath(d)))
	}
	return doc
}

func TestBounds(t *testing.T) {
	p := svgicon.NewSvgPath(svgpath.MustParsePath("M0 0 C0 10 10 10 10 0"))
	diff(t, geom.Rect{Min: geom.Pt(0, 0), Max: geom.Pt(10, 10)}, PathBounds(p))
	diff(t, geom.Rect{Min: geom.Pt(0, 0), Max: geom.Pt(10, 7.5)}, TightBounds(p))

	p.Transform = svgpath.Transform{{Kind: svgpath.TranslateKind, Args: []float64{5, 5}}}
	diff(t, geom.Rect{Min: geom.Pt(5, 5), Max: geom.Pt(15, 15)}, PathBounds(p))

	doc := newDoc("M0 0 L10 10", "M-5 20 L0 0")
	diff(t, geom.Rect{Min: geom.Pt(-5, 0), Max: geom.Pt(10, 20)}, BoundingBox(doc))
	if !BoundingBox(newDoc()).Empty() {
		t.Error("expected an empty box")
	}
}

func TestFitToContent(t *testing.T) {
	doc := newDoc("M10 20 L30 60")
	out := FitToContent(doc, 5)
	diff(t, &svgicon.Bounds{X: 5, Y: 15, W: 30, H: 50}, out.ViewBox)
	diff(t, 30., out.Width)
	diff(t, 50., out.Height)
	if doc.ViewBox != nil {
		t.Error("input modified")
	}

	doc.Width, doc.Height = 100, 200
	out = FitToContent(doc, 0)
	diff(t, &svgicon.Bounds{X: 10, Y: 20, W: 20, H: 40}, out.ViewBox)
	diff(t, 100., out.Width)

	diff(t, (*svgicon.Bounds)(nil), FitToContent(newDoc(), 1).ViewBox)
}

func TestSquareNormalize(t *testing.T) {
	doc := newDoc("M10 20 L30 60")
	doc.Paths[0].Transform = svgpath.Transform{{Kind: svgpath.ScaleKind, Args: []float64{1}}}

	out, err := SquareNormalize(doc, 100, 10, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, &svgicon.Bounds{W: 100, H: 100}, out.ViewBox)
	diff(t, 100., out.Width)
	diff(t, 100., out.Height)
	// height 40 is scaled to 80, and the content is centered
	diff(t, "M30,10 L70,90", out.Paths[0].Data())
	diff(t, 0, len(out.Paths[0].Transform))
	diff(t, geom.Rect{Min: geom.Pt(30, 10), Max: geom.Pt(70, 90)}, BoundingBox(out))

	out, err = SquareNormalize(doc, 100, 10, 5, -5)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, "M35,5 L75,85", out.Paths[0].Data())
	// the input is untouched
	diff(t, "M10,20 L30,60", doc.Paths[0].Data())
}

func TestSquareNormalizeInvalid(t *testing.T) {
	doc := newDoc("M0 0 L1 1")
	for _, c := range []struct{ size, padding, dx, dy float64 }{
		{0, 0, 0, 0},
		{-10, 0, 0, 0},
		{10, 5, 0, 0},
		{10, -1, 0, 0},
		{math.NaN(), 0, 0, 0},
		{math.Inf(1), 0, 0, 0},
		{10, math.NaN(), 0, 0},
		{10, math.Inf(1), 0, 0},
		{10, 1, math.NaN(), 0},
		{10, 1, 0, math.Inf(-1)},
	} {
		if _, err := SquareNormalize(doc, c.size, c.padding, c.dx, c.dy); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("size %g, padding %g, offset (%g, %g): expected ErrInvalidSize, got %v", c.size, c.padding, c.dx, c.dy, err)
		}
	}

	// a single point is only translated
	out, err := SquareNormalize(newDoc("M3 3"), 10, 1, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, "M5,5", out.Paths[0].Data())
}
