// Provides parsing and writing of SVG documents.
// SVG files are parsed into a flat list of styled paths, with the
// group transforms baked into the coordinates, which can then be
// edited, simplified, or consumed by painting drivers.
// See for example svgdraw and svgraster.
package svgicon

import (
	"errors"
	"slices"

	"github.com/benoitkugler/pathedit/svgpath"
	"go.jetify.com/typeid/v2"
)

// ErrMalformedDocument is returned when the input has no <svg> element.
var ErrMalformedDocument = errors.New("malformed svg document")

// ErrorMode determines how the parser handles unsupported elements
// and invalid attribute values.
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unsupported content silently.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode skips unsupported content, logging a warning.
	WarnErrorMode
	// StrictErrorMode aborts the parsing on unsupported content.
	StrictErrorMode
)

func (m ErrorMode) String() string {
	switch m {
	case IgnoreErrorMode:
		return "ignore"
	case WarnErrorMode:
		return "warn"
	case StrictErrorMode:
		return "strict"
	default:
		return "<unknown ErrorMode>"
	}
}

// ParseErrorMode is the inverse of ErrorMode.String.
func ParseErrorMode(s string) (ErrorMode, bool) {
	switch s {
	case "ignore":
		return IgnoreErrorMode, true
	case "warn":
		return WarnErrorMode, true
	case "strict":
		return StrictErrorMode, true
	}
	return 0, false
}

// Bounds defines a bounding box, such as a viewport.
type Bounds struct{ X, Y, W, H float64 }

// Style holds the presentation attributes of a path.
// Colors are kept as written, empty meaning unspecified.
type Style struct {
	Fill, Stroke  string
	StrokeWidth   float64
	Opacity       float64
	FillOpacity   float64
	StrokeOpacity float64
}

// DefaultStyle is the style of an element without presentation
// attributes: black fill, no stroke, full opacity.
var DefaultStyle = Style{
	StrokeWidth:   1,
	Opacity:       1,
	FillOpacity:   1,
	StrokeOpacity: 1,
}

// SvgPath binds a style and a transform to a list of segments.
//
// A SvgPath is immutable: the segment list and its serialized form
// are computed together, and every modification returns a new value.
type SvgPath struct {
	ID    string
	Style Style
	// Transform is not yet applied to the segments. Parsing keeps the
	// transform attribute of a shape without transformed ancestors;
	// inherited transforms are always baked.
	Transform svgpath.Transform

	segments svgpath.Path
	data     string
}

// NewSvgPath returns a path with a generated ID and the default style.
func NewSvgPath(segments svgpath.Path) SvgPath {
	return SvgPath{ID: NewPathID(), Style: DefaultStyle}.WithSegments(segments)
}

// NewPathID returns a new unique path identifier, such as
// path_01h455vb4pex5vsknk084sn02q.
func NewPathID() string {
	return typeid.MustGenerate("path").String()
}

// Segments returns a copy of the segments.
func (p SvgPath) Segments() svgpath.Path { return p.segments.Clone() }

// SegmentCount returns the number of segments, without copy.
func (p SvgPath) SegmentCount() int { return len(p.segments) }

// Data returns the serialized path data, consistent with Segments.
func (p SvgPath) Data() string { return p.data }

// WithSegments returns a copy of p using the given segments,
// which are cloned.
func (p SvgPath) WithSegments(segments svgpath.Path) SvgPath {
	p.segments = segments.Clone()
	p.data = p.segments.ToSVGPath()
	return p
}

func (p SvgPath) WithStyle(s Style) SvgPath {
	p.Style = s
	return p
}

// Baked returns a copy of p with its transform applied to the
// segments, and no transform.
func (p SvgPath) Baked() SvgPath {
	if len(p.Transform) == 0 {
		return p
	}
	m := p.Transform.Matrix()
	p.Transform = nil
	return p.WithSegments(p.segments.Transform(m))
}

// Document holds data from parsed SVGs.
type Document struct {
	Width, Height float64
	ViewBox       *Bounds // nil if not specified
	Titles        []string
	Paths         []SvgPath // in paint order
}

// Clone returns a deep copy of the document. Paths are immutable,
// so only the containers are copied.
func (d *Document) Clone() *Document {
	out := *d
	if d.ViewBox != nil {
		vb := *d.ViewBox
		out.ViewBox = &vb
	}
	out.Titles = slices.Clone(d.Titles)
	out.Paths = slices.Clone(d.Paths)
	return &out
}

// PathByID returns the index of the path with the given ID, or -1.
func (d *Document) PathByID(id string) int {
	return slices.IndexFunc(d.Paths, func(p SvgPath) bool { return p.ID == id })
}

// ReplacePath returns a copy of d where the path at index i is p.
func (d *Document) ReplacePath(i int, p SvgPath) *Document {
	out := d.Clone()
	out.Paths[i] = p
	return out
}

// SegmentCount returns the total number of segments of the document.
func (d *Document) SegmentCount() int {
	n := 0
	for _, p := range d.Paths {
		n += p.SegmentCount()
	}
	return n
}
