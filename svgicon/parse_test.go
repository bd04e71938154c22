package svgicon

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/benoitkugler/pathedit/svgpath"
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

const testDocument = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50px" viewBox="0 0 200 100">
	<title>Test</title>
	<g transform="translate(10 20)" fill="red" opacity="0.5">
		<rect id="r" x="0" y="0" width="10" height="10" transform="scale(2)"/>
		<circle cx="5" cy="5" r="5" style="fill: #00ff00; opacity: 0.5"/>
	</g>
	<defs><path id="hidden" d="M0 0 L1 1"/></defs>
	<path id="p" d="M0 0 L10 10 X 3" stroke="blue" stroke-width="2"/>
	<rect id="own" width="4" height="4" transform="translate(1)"/>
	<text>ignored</text>
</svg>`

func TestRead(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	doc, err := Read(strings.NewReader(testDocument), ParseOptions{ErrorMode: WarnErrorMode, Logger: zap.New(core)})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 100., doc.Width)
	diff(t, 50., doc.Height)
	diff(t, &Bounds{0, 0, 200, 100}, doc.ViewBox)
	diff(t, []string{"Test"}, doc.Titles)
	if len(doc.Paths) != 4 {
		t.Fatalf("expected 4 paths, got %d", len(doc.Paths))
	}

	rect := doc.Paths[0]
	diff(t, "r", rect.ID)
	diff(t, "red", rect.Style.Fill)
	diff(t, 0.5, rect.Style.Opacity)
	// ancestors are transformed: the whole chain is baked
	diff(t, svgpath.Transform(nil), rect.Transform)
	diff(t, "M10,20 L30,20 L30,40 L10,40 Z", rect.Data())

	circle := doc.Paths[1]
	if !strings.HasPrefix(circle.ID, "path_") {
		t.Errorf("unexpected generated id %s", circle.ID)
	}
	diff(t, "#00ff00", circle.Style.Fill)
	diff(t, 0.25, circle.Style.Opacity)
	diff(t, 6, circle.SegmentCount())
	diff(t, "M20,25", circle.Data()[:len("M20,25")])

	path := doc.Paths[2]
	diff(t, "M0,0 L10,10", path.Data())
	diff(t, "blue", path.Style.Stroke)
	diff(t, "", path.Style.Fill)
	diff(t, 2., path.Style.StrokeWidth)
	diff(t, 1., path.Style.Opacity)

	own := doc.Paths[3]
	diff(t, "translate(1)", own.Transform.String())
	diff(t, "M0,0 L4,0 L4,4 L0,4 Z", own.Data())
	diff(t, "M1,0 L5,0 L5,4 L1,4 Z", own.Baked().Data())

	// the invalid path command and the text element
	if logs.Len() != 2 {
		t.Errorf("expected 2 warnings, got %v", logs.All())
	}
}

func TestReadStrict(t *testing.T) {
	_, err := Read(strings.NewReader(testDocument), ParseOptions{ErrorMode: StrictErrorMode})
	if !errors.Is(err, svgpath.ErrInvalidCommand) {
		t.Fatalf("expected invalid command, got %v", err)
	}

	doc, err := Read(strings.NewReader(testDocument), ParseOptions{ErrorMode: IgnoreErrorMode})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 4, len(doc.Paths))
}

func TestReadOpacity(t *testing.T) {
	doc, err := Read(strings.NewReader(`<svg width="10" height="10">
	<g opacity="0.5">
		<path d="M0 0 L1 1" opacity="0.5" style="opacity: 0.75"/>
		<path d="M0 0 L1 1" opacity="0.5"/>
		<path d="M0 0 L1 1" opacity="inherit"/>
	</g>
	<path d="M0 0 L1 1" opacity="0.5" style="opacity: 0.5"/>
</svg>`), DefaultParseOptions)
	if err != nil {
		t.Fatal(err)
	}
	var got []float64
	for _, p := range doc.Paths {
		got = append(got, p.Style.Opacity)
	}
	// the style declaration replaces the attribute, ancestors multiply
	diff(t, []float64{0.375, 0.25, 0.5, 0.5}, got)
}

func TestReadMalformed(t *testing.T) {
	for _, input := range []string{
		"",
		"<html><body/></html>",
		"<svg><g></svg>",
		"not xml at all",
	} {
		if _, err := Read(strings.NewReader(input), DefaultParseOptions); !errors.Is(err, ErrMalformedDocument) {
			t.Errorf("%q: expected ErrMalformedDocument, got %v", input, err)
		}
	}
}

func TestReadCharset(t *testing.T) {
	input := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><svg><title>caf\xe9</title></svg>")
	doc, err := Read(bytes.NewReader(input), DefaultParseOptions)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []string{"café"}, doc.Titles)
}

func TestShapes(t *testing.T) {
	doc, err := Read(strings.NewReader(`<svg>
		<line x1="0" y1="0" x2="5" y2="5"/>
		<polyline points="0,0 10,0 10,10"/>
		<polygon points="0 0 10 0 10 10"/>
		<ellipse cx="0" cy="0" rx="10" ry="5"/>
		<rect width="10" height="10" rx="2"/>
		<circle r="0"/>
	</svg>`), DefaultParseOptions)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, p := range doc.Paths[:3] {
		got = append(got, p.Data())
	}
	diff(t, []string{"M0,0 L5,5", "M0,0 L10,0 L10,10", "M0,0 L10,0 L10,10 Z"}, got)
	diff(t, 6, doc.Paths[3].SegmentCount())
	diff(t, 10, doc.Paths[4].SegmentCount())
	diff(t, 5, len(doc.Paths)) // the empty circle is not drawn
}

func TestEncodeRoundTrip(t *testing.T) {
	doc, err := Read(strings.NewReader(testDocument), ParseOptions{ErrorMode: IgnoreErrorMode})
	if err != nil {
		t.Fatal(err)
	}
	for _, opts := range []WriteOptions{{}, {Indent: "  "}, {Compact: true}} {
		var buf bytes.Buffer
		if err := doc.Encode(&buf, opts); err != nil {
			t.Fatal(err)
		}
		back, err := Read(&buf, ParseOptions{ErrorMode: StrictErrorMode})
		if err != nil {
			t.Fatal(err)
		}
		diff(t, doc.Width, back.Width)
		diff(t, doc.ViewBox, back.ViewBox)
		diff(t, doc.Titles, back.Titles)
		if len(back.Paths) != len(doc.Paths) {
			t.Fatalf("expected %d paths, got %d", len(doc.Paths), len(back.Paths))
		}
		for i, p := range doc.Paths {
			q := back.Paths[i]
			diff(t, p.ID, q.ID)
			diff(t, p.Style, q.Style)
			diff(t, p.Transform.String(), q.Transform.String())
			diff(t, p.Data(), q.Data())
		}
	}
}

func TestImmutablePath(t *testing.T) {
	p := NewSvgPath(svgpath.MustParsePath("M0 0 L10 0"))
	segs := p.Segments()
	segs[1] = segs[1].WithEnd(svgpath.MustParsePath("M5 5")[0].End())
	diff(t, "M0,0 L10,0", p.Data())

	q := p.WithSegments(segs)
	diff(t, "M0,0 L5,5", q.Data())
	diff(t, "M0,0 L10,0", p.Data())
	diff(t, p.ID, q.ID)

	doc := &Document{Paths: []SvgPath{p}}
	doc2 := doc.ReplacePath(0, q)
	diff(t, "M0,0 L10,0", doc.Paths[0].Data())
	diff(t, 0, doc2.PathByID(p.ID))
	diff(t, -1, doc2.PathByID("missing"))
}

func TestParseColor(t *testing.T) {
	for _, test := range []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#f00", color.RGBA{255, 0, 0, 255}, true},
		{"#00ff80", color.RGBA{0, 255, 128, 255}, true},
		{"rgb(255, 0, 10)", color.RGBA{255, 0, 10, 255}, true},
		{"rgb(100%,0%,50%)", color.RGBA{255, 0, 128, 255}, true},
		{"Red", color.RGBA{255, 0, 0, 255}, true},
		{"none", color.RGBA{}, false},
		{"url(#grad)", color.RGBA{}, false},
		{"#12", color.RGBA{}, false},
		{"#ggg", color.RGBA{}, false},
	} {
		got, ok := ParseColor(test.in)
		if ok != test.ok {
			t.Errorf("%q: expected ok=%v", test.in, test.ok)
		}
		diff(t, test.want, got)
	}
}
