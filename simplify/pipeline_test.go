package simplify

import (
	"errors"
	"math"
	"testing"

	"github.com/benoitkugler/pathedit/geom"
	"github.com/benoitkugler/pathedit/svgpath"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestVisvalingam(t *testing.T) {
	open := []geom.Point{{0, 0}, {1, 0.001}, {2, 0}, {3, 5}, {4, 0}}
	diff(t, []geom.Point{{0, 0}, {2, 0}, {3, 5}, {4, 0}}, visvalingam(open, false, 0.01))
	// the threshold is exclusive
	diff(t, open, visvalingam(open, false, 0.001))

	ring := []geom.Point{{0, 0}, {5, 0}, {10, 0}, {10, 5}, {10, 10}, {5, 10}, {0, 10}, {0, 5}}
	diff(t, []geom.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, visvalingam(ring, true, 1))
	// a ring never drops below a triangle
	if got := visvalingam(ring, true, math.Inf(1)); len(got) != 3 || got[0] != ring[0] {
		t.Errorf("unexpected ring %v", got)
	}
	// open ends are fixed
	line := []geom.Point{{0, 0}, {1, 1}, {2, 0}}
	diff(t, []geom.Point{{0, 0}, {2, 0}}, visvalingam(line, false, math.Inf(1)))
}

func TestSample(t *testing.T) {
	segs := svgpath.MustParsePath("M0 0 L0 0 L10 0 C10 4 10 8 10 12 Z")
	got := sample(segs)
	diff(t, 7, len(got)) // start, line end, 4 curve samples, close end
	diff(t, geom.Pt(0, 0), got[len(got)-1])
	diff(t, 6, len(toRing(got)))
}

func TestFitCubics(t *testing.T) {
	var pts []geom.Point
	for i := range 41 {
		x := float64(i) / 4
		pts = append(pts, geom.Pt(x, 3*math.Sin(x/2)))
	}
	const tol = 0.05
	curves, err := fitCubics(pts, tol)
	if err != nil {
		t.Fatal(err)
	}
	if len(curves) == 0 {
		t.Fatal("no curve")
	}
	diff(t, pts[0], curves[0][0])
	diff(t, pts[len(pts)-1], curves[len(curves)-1][3])
	for i := 1; i < len(curves); i++ {
		diff(t, curves[i-1][3], curves[i][0])
	}

	for _, p := range pts {
		best := math.Inf(1)
		for _, c := range curves {
			for k := range 201 {
				best = math.Min(best, c.at(float64(k)/200).Dist(p))
			}
		}
		if best > tol {
			t.Errorf("point %v is %g away from the fit", p, best)
		}
	}
}

func TestFitCubicsDegenerate(t *testing.T) {
	_, err := fitCubics([]geom.Point{{1, 1}, {1, 1}, {2, 2}}, 0.1)
	if !errors.Is(err, ErrCurveFitFailure) || !errors.Is(err, geom.ErrDegenerateGeometry) {
		t.Errorf("unexpected error %v", err)
	}
	if _, err = fitCubics([]geom.Point{{1, 1}}, 0.1); !errors.Is(err, ErrCurveFitFailure) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestSmoothJoin(t *testing.T) {
	a := piece{p: cubic{{0, 0}, {0, 5}, {8, 8}, {10, 10}}}
	b := piece{p: cubic{{10, 10}, {12, 10}, {20, 5}, {20, 0}}}
	inLen, outLen := a.p[3].Dist(a.p[2]), b.p[1].Dist(b.p[0])
	smoothJoin(&a, &b)

	in, out := a.p[3].Sub(a.p[2]), b.p[1].Sub(b.p[0])
	approx := cmpopts.EquateApprox(0, 1e-9)
	diff(t, 0., in.Cross(out), approx)
	if in.Dot(out) <= 0 {
		t.Error("handles point backward")
	}
	diff(t, inLen, in.Len(), approx)
	diff(t, outLen, out.Len(), approx)
	// averaged direction: (1,1)/sqrt2 and (1,0) give 22.5 degrees
	diff(t, math.Tan(math.Pi/8), out.Y/out.X, approx)

	// lines and zero handles are left alone
	l := linePiece(geom.Pt(10, 10), geom.Pt(20, 10))
	before := a
	smoothJoin(&a, &l)
	if a != before {
		t.Errorf("line join modified: %v", a.p)
	}
	z := piece{p: cubic{{10, 10}, {10, 10}, {15, 5}, {20, 0}}}
	smoothJoin(&a, &z)
	if a != before {
		t.Errorf("zero handle join modified: %v", a.p)
	}
}

func TestBoundaries(t *testing.T) {
	seq := []geom.Point{{0, 0}, {10, 0}, {20, 1}, {20, 10}, {0, 0}}
	bounds, seam := boundaries(seq, true, 30)
	diff(t, []int{0, 2, 3, 4}, bounds)
	diff(t, true, seam)

	bounds, _ = boundaries(seq[:3], false, 30)
	diff(t, []int{0, 2}, bounds)
}

func TestIsStraight(t *testing.T) {
	diff(t, true, isStraight([]geom.Point{{0, 0}, {5, 0.1}, {10, 0}}, 0.2))
	diff(t, false, isStraight([]geom.Point{{0, 0}, {5, 1}, {10, 0}}, 0.2))
	// a closed loop has no chord
	diff(t, false, isStraight([]geom.Point{{0, 0}, {5, 0}, {0, 0}}, 0.2))
}

func TestMultipleSubpaths(t *testing.T) {
	var in svgpath.Path
	in = append(in, subdividedSquare(10, 4)...)
	in = append(in, subdividedSquare(10, 4).Transform(svgpath.Identity.Translate(20, 0))...)
	got, _, reason := run(in, 0.05, 30)
	diff(t, "", reason)
	diff(t, "M0,0 L10,0 L10,10 L0,10 Z M20,0 L30,0 L30,10 L20,10 Z", got.ToSVGPath())
}
