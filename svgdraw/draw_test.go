package svgdraw

import (
	"fmt"
	"image/color"
	"strings"
	"testing"

	"github.com/benoitkugler/pathedit/geom"
	"github.com/benoitkugler/pathedit/svgicon"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/math/fixed"
)

// recorder logs the driver calls, with coordinates in pixels.
type recorder struct{ calls []string }

func px(p fixed.Point26_6) string { return fmt.Sprintf("%g,%g", float64(p.X)/64, float64(p.Y)/64) }

func (r *recorder) log(format string, args ...any) { r.calls = append(r.calls, fmt.Sprintf(format, args...)) }

func (r *recorder) Clear() { r.log("clear") }
func (r *recorder) Start(a fixed.Point26_6) { r.log("start %s", px(a)) }
func (r *recorder) Line(b fixed.Point26_6) { r.log("line %s", px(b)) }
func (r *recorder) QuadBezier(b, c fixed.Point26_6) { r.log("quad %s %s", px(b), px(c)) }
func (r *recorder) CubeBezier(b, c, d fixed.Point26_6) { r.log("cube %s %s %s", px(b), px(c), px(d)) }
func (r *recorder) Stop(closeLoop bool) { r.log("stop %v", closeLoop) }
func (r *recorder) Fill() { r.log("fill") }
func (r *recorder) Stroke() { r.log("stroke") }

func (r *recorder) SetFill(c color.Color, opacity float64) {
	cr, cg, cb, _ := c.RGBA()
	r.log("fill color %d %d %d %g", cr>>8, cg>>8, cb>>8, opacity)
}

func (r *recorder) SetStroke(c color.Color, opacity float64, width fixed.Int26_6) {
	cr, cg, cb, _ := c.RGBA()
	r.log("stroke color %d %d %d %g width %g", cr>>8, cg>>8, cb>>8, opacity, float64(width)/64)
}

func read(t *testing.T, s string) *svgicon.Document {
	t.Helper()
	doc, err := svgicon.Read(strings.NewReader(s), svgicon.ParseOptions{ErrorMode: svgicon.StrictErrorMode})
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestDraw(t *testing.T) {
	doc := read(t, `<svg width="20" height="20" viewBox="0 0 10 10">
		<path d="M1 1 L4 1 Q5 5 1 4 Z M6 6 L8 8" stroke="#0000ff" stroke-width="0.5" opacity="0.5"/>
		<path d="M0 0 L1 1" fill="none" transform="translate(1 0)"/>
	</svg>`)
	var r recorder
	Draw(doc, &r, 1)
	want := []string{
		"clear",
		"fill color 0 0 0 0.5",
		"start 2,2", "line 8,2", "quad 10,10 2,8", "stop true",
		"start 12,12", "line 16,16", "stop false",
		"fill",
		"clear",
		"stroke color 0 0 255 0.5 width 1",
		"start 2,2", "line 8,2", "quad 10,10 2,8", "stop true",
		"start 12,12", "line 16,16", "stop false",
		"stroke",
		// the second path has neither fill nor stroke
	}
	if d := cmp.Diff(want, r.calls); d != "" {
		t.Error(d)
	}
}

func TestDrawTransform(t *testing.T) {
	doc := read(t, `<svg width="10" height="10">
		<path d="M0 0 C1 0 2 0 2 2" transform="translate(1 1)"/>
	</svg>`)
	var r recorder
	Draw(doc, &r, 1)
	want := []string{
		"clear",
		"fill color 0 0 0 1",
		"start 1,1", "cube 2,1 3,1 3,3", "stop false",
		"fill",
	}
	if d := cmp.Diff(want, r.calls); d != "" {
		t.Error(d)
	}
}

func TestViewportMatrix(t *testing.T) {
	doc := &svgicon.Document{Width: 100, Height: 50, ViewBox: &svgicon.Bounds{X: 10, Y: 10, W: 20, H: 10}}
	m := ViewportMatrix(doc, 0, 0, 100, 50)
	p := m.Apply(geom.Pt(10, 10))
	if p.X != 0 || p.Y != 0 {
		t.Errorf("unexpected origin %v", p)
	}
	p = m.Apply(geom.Pt(30, 20))
	if p.X != 100 || p.Y != 50 {
		t.Errorf("unexpected corner %v", p)
	}
}
