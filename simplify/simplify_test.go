package simplify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/benoitkugler/pathedit/geom"
	"github.com/benoitkugler/pathedit/svgicon"
	"github.com/benoitkugler/pathedit/svgpath"
	"github.com/benoitkugler/pathedit/svgraster"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// sampledCircle returns a closed polygon of n vertices on a circle.
func sampledCircle(center geom.Point, r float64, n int) svgpath.Path {
	var p svgpath.Path
	for i := range n {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pt := center.Add(geom.Pt(r*math.Cos(theta), r*math.Sin(theta)))
		if i == 0 {
			p.Start(pt)
		} else {
			p.Line(pt)
		}
	}
	p.Stop(true)
	return p
}

// subdividedSquare returns a closed square whose edges are split in n
// collinear lines.
func subdividedSquare(size float64, n int) svgpath.Path {
	corners := []geom.Point{geom.Pt(0, 0), geom.Pt(size, 0), geom.Pt(size, size), geom.Pt(0, size)}
	var p svgpath.Path
	p.Start(corners[0])
	for i, a := range corners {
		b := corners[(i+1)%4]
		for j := 1; j <= n; j++ {
			if i == 3 && j == n {
				break // closed by Z
			}
			p.Line(a.Lerp(b, float64(j)/float64(n)))
		}
	}
	p.Stop(true)
	return p
}

func countKind[T svgpath.Segment](p svgpath.Path) int {
	n := 0
	for _, seg := range p {
		if _, ok := seg.(T); ok {
			n++
		}
	}
	return n
}

func TestCollinearPoints(t *testing.T) {
	var b strings.Builder
	b.WriteString("M0 0")
	for i := 1; i < 50; i++ {
		fmt.Fprintf(&b, " L%d %d", i, 2*i)
	}
	p := svgicon.NewSvgPath(svgpath.MustParsePath(b.String()))

	got, report := Path(p, Options{TolerancePercent: 0.1})
	diff(t, "M0,0 L49,98", got.Data())
	diff(t, Report{PathID: p.ID, Before: 50, After: 2}, report)
}

func TestSampledCircle(t *testing.T) {
	center, r := geom.Pt(150, 150), 100.
	for _, percent := range []float64{0.1, 0.25, 0.5} {
		p := svgicon.NewSvgPath(sampledCircle(center, r, 200))
		got, report := Path(p, Options{TolerancePercent: percent})
		if report.Fallback {
			t.Fatalf("%g%%: unexpected fallback: %s", percent, report.Reason)
		}
		segs := got.Segments()
		if n := countKind[svgpath.CubicTo](segs); n < 4 || n > 8 {
			t.Errorf("%g%%: expected 4 to 8 cubics, got %d (%s)", percent, n, got.Data())
		}
		if _, ok := segs[len(segs)-1].(svgpath.Close); !ok {
			t.Errorf("%g%%: expected a closed path", percent)
		}
		// the last drawn segment lands exactly on the start
		if last := segs[len(segs)-2].End(); last != segs[0].End() {
			t.Errorf("%g%%: open seam %v != %v", percent, last, segs[0].End())
		}

		tol := percent / 100 * math.Hypot(2*r, 2*r)
		for _, seg := range segs {
			for _, u := range []float64{0, 0.25, 0.5, 0.75, 1} {
				pt := svgpath.Sample(seg, u)
				if d := math.Abs(pt.Dist(center) - r); d > tol {
					t.Errorf("%g%%: point %v is %g away from the circle", percent, pt, d)
				}
			}
		}
	}
}

func TestTrueCurvePreserved(t *testing.T) {
	p := svgicon.NewSvgPath(svgpath.MustParsePath("M0 0 C20 40 60 40 100 0"))
	for _, percent := range []float64{0.1, 0.5, 1} {
		got, report := Path(p, Options{TolerancePercent: percent})
		diff(t, p.Data(), got.Data())
		diff(t, 2, report.After)
		if !report.Fallback {
			t.Errorf("%g%%: expected the input to be kept", percent)
		}
	}
}

func TestCornersKept(t *testing.T) {
	square := subdividedSquare(100, 10)
	// the same square, starting in the middle of its bottom edge
	var ring []geom.Point
	for _, seg := range square[:len(square)-1] {
		ring = append(ring, seg.End())
	}
	var midEdge svgpath.Path
	midEdge.Start(ring[5])
	for _, pt := range slices.Concat(ring[6:], ring[:5]) {
		midEdge.Line(pt)
	}
	midEdge.Stop(true)

	for _, segments := range []svgpath.Path{square, midEdge} {
		p := svgicon.NewSvgPath(segments)
		for _, percent := range []float64{0.1, DefaultOptions.TolerancePercent, 1, 5} {
			got, report := Path(p, Options{TolerancePercent: percent})
			if got.Data() != "M0,0 L100,0 L100,100 L0,100 Z" {
				t.Errorf("%s at %g%%: got %s", p.Data()[:8], percent, got.Data())
			}
			diff(t, 41, report.Before)
			diff(t, 5, report.After)
		}
	}

	// nothing to gain on a plain square
	plain := svgicon.NewSvgPath(svgpath.MustParsePath("M0 0 L100 0 L100 100 L0 100 Z"))
	got, report := Path(plain, DefaultOptions)
	diff(t, plain.Data(), got.Data())
	diff(t, ReasonNoReduction, report.Reason)
}

func TestNonRegression(t *testing.T) {
	for _, d := range []string{
		"M0 0 L10 0",
		"M0 0 L10 0 L10 10 Z",
		"M0 0 C0 10 10 10 10 0 S20 -10 20 0",
		"M0 0 Q5 10 10 0 T20 0 T30 0 T40 0",
		"M0 0 L1 0.01 L2 0 L3 0.01 L4 0 M10 10 L20 20 L10 30 Z",
		"M10 10 A5 5 0 1 1 20 10 A5 5 0 1 1 10 10 Z",
	} {
		p := svgicon.NewSvgPath(svgpath.MustParsePath(d))
		for _, percent := range []float64{0, 0.1, 1, 10} {
			got, report := Path(p, Options{TolerancePercent: percent})
			if got.SegmentCount() > p.SegmentCount() {
				t.Errorf("%s at %g%%: %d segments, more than %d", d, percent, got.SegmentCount(), p.SegmentCount())
			}
			diff(t, got.SegmentCount(), report.After)
		}
	}
}

func TestClosurePreserved(t *testing.T) {
	for _, d := range []string{
		"M0 0 L5 0.001 L10 0 L10 10 L0 10 Z",
		"M0 0 L5 0.001 L10 0 L10 10 L0 10 L0 0",
	} {
		p := svgicon.NewSvgPath(svgpath.MustParsePath(d))
		got := Segments(p.Segments(), 0.1, 30)
		start, end := got[0].End(), got[len(got)-1].End()
		if start != end {
			t.Errorf("%s: open result %s", d, got)
		}
	}
	// an explicit close is kept
	got := Segments(svgpath.MustParsePath("M0 0 L5 0.001 L10 0 L10 10 L0 10 Z"), 0.1, 30)
	diff(t, "M0,0 L10,0 L10,10 L0,10 Z", got.ToSVGPath())
}

func TestInvalidTolerance(t *testing.T) {
	p := svgicon.NewSvgPath(subdividedSquare(100, 4))
	for _, percent := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		got, report := Path(p, Options{TolerancePercent: percent})
		diff(t, p.Data(), got.Data())
		diff(t, ReasonInvalidTolerance, report.Reason)
	}
}

func TestTransformBaked(t *testing.T) {
	p := svgicon.NewSvgPath(subdividedSquare(10, 5))
	p.Transform = svgpath.Transform{{Kind: svgpath.ScaleKind, Args: []float64{10}}}
	got, _ := Path(p, DefaultOptions)
	diff(t, "M0,0 L100,0 L100,100 L0,100 Z", got.Data())
	diff(t, 0, len(got.Transform))
}

func TestPathLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	opts := DefaultOptions
	opts.Logger = zap.New(core)

	Path(svgicon.NewSvgPath(subdividedSquare(100, 10)), opts)
	diff(t, 1, logs.FilterMessage("path simplified").Len())
	diff(t, 0, logs.FilterMessage("simplification discarded").Len())

	Path(svgicon.NewSvgPath(svgpath.MustParsePath("M0 0 L10 0")), opts)
	discarded := logs.FilterMessage("simplification discarded").All()
	if len(discarded) != 1 {
		t.Fatalf("expected one fallback entry, got %d", len(discarded))
	}
	diff(t, ReasonNoReduction, discarded[0].ContextMap()["reason"])
}

func circleDocument() *svgicon.Document {
	circle := svgicon.NewSvgPath(sampledCircle(geom.Pt(100, 100), 80, 200))
	square := svgicon.NewSvgPath(subdividedSquare(50, 10))
	square.Style.Fill = "red"
	return &svgicon.Document{
		Width: 200, Height: 200,
		ViewBox: &svgicon.Bounds{W: 200, H: 200},
		Paths:   []svgicon.SvgPath{circle, square},
	}
}

func TestDocument(t *testing.T) {
	doc := circleDocument()
	before := doc.SegmentCount()

	out, reports, err := Document(context.Background(), doc, Options{TolerancePercent: 0.5, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 2, len(reports))
	for i, r := range reports {
		diff(t, doc.Paths[i].ID, r.PathID)
		diff(t, out.Paths[i].ID, r.PathID)
		diff(t, out.Paths[i].SegmentCount(), r.After)
	}
	diff(t, "red", out.Paths[1].Style.Fill)
	if out.SegmentCount() >= before {
		t.Errorf("expected fewer segments than %d, got %d", before, out.SegmentCount())
	}
	// the input is untouched
	diff(t, before, doc.SegmentCount())
}

func TestDocumentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, reports, err := Document(ctx, circleDocument(), DefaultOptions)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if out != nil || reports != nil {
		t.Error("expected no partial result")
	}
}

func TestVisualEquivalence(t *testing.T) {
	doc := circleDocument()
	out, _, err := Document(context.Background(), doc, Options{TolerancePercent: 0.25})
	if err != nil {
		t.Fatal(err)
	}
	const size = 200
	want, got := svgraster.Rasterize(doc, size, size), svgraster.Rasterize(out, size, size)
	different := 0
	for i := 3; i < len(want.Pix); i += 4 {
		d := int(want.Pix[i]) - int(got.Pix[i])
		if d > 128 || d < -128 {
			different++
		}
	}
	if ratio := float64(different) / (size * size); ratio > 0.02 {
		t.Errorf("%.2f%% of the pixels differ", 100*ratio)
	}
}

func TestSegmentsDoesNotAlias(t *testing.T) {
	in := svgpath.MustParsePath("M0 0 L10 0")
	out := Segments(in, 1, 0)
	out[1] = svgpath.LineTo{From: geom.Pt(0, 0), To: geom.Pt(5, 5)}
	diff(t, "M0,0 L10,0", in.ToSVGPath())
}
