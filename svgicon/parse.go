package svgicon

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/benoitkugler/pathedit/svgpath"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// ParseOptions controls the reading of SVG documents.
type ParseOptions struct {
	ErrorMode ErrorMode
	// Logger receives the warnings of WarnErrorMode.
	// A nil Logger discards them.
	Logger *zap.Logger
}

// DefaultParseOptions warns about unsupported content, to a no-op logger.
var DefaultParseOptions = ParseOptions{ErrorMode: WarnErrorMode}

type (
	// nodeState is the inherited state of an element
	nodeState struct {
		style     Style
		transform svgpath.Transform // accumulated ancestor and own transforms
	}

	// iconCursor is used while parsing SVG files
	iconCursor struct {
		doc     *Document
		opts    ParseOptions
		log     *zap.Logger
		decoder *xml.Decoder

		stack   []nodeState
		seenSVG bool
		inTitle bool
	}
)

// skipped are the element whose content is never painted directly.
var skipped = map[string]bool{
	"defs":           true,
	"symbol":         true,
	"clipPath":       true,
	"mask":           true,
	"marker":         true,
	"pattern":        true,
	"linearGradient": true,
	"radialGradient": true,
	"style":          true,
	"script":         true,
	"metadata":       true,
}

// Read reads a Document from the given io.Reader.
// This only supports a sub-set of SVG: shapes and paths, possibly
// nested in groups. opts.ErrorMode determines if the parser ignores,
// errors out, or logs a warning when it does not handle an element.
// ErrMalformedDocument is returned if the input has no <svg> element.
func Read(stream io.Reader, opts ParseOptions) (*Document, error) {
	c := &iconCursor{
		doc:   &Document{},
		opts:  opts,
		log:   opts.Logger,
		stack: []nodeState{{style: DefaultStyle}},
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.decoder = xml.NewDecoder(stream)
	c.decoder.CharsetReader = charset.NewReaderLabel
	for {
		t, err := c.decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.StartElement:
			if err := c.readStartElement(se); err != nil {
				return nil, err
			}
		case xml.EndElement:
			c.stack = c.stack[:len(c.stack)-1]
			if se.Name.Local == "title" {
				c.inTitle = false
			}
		case xml.CharData:
			if c.inTitle {
				c.doc.Titles[len(c.doc.Titles)-1] += string(se)
			}
		}
	}
	if !c.seenSVG {
		return nil, ErrMalformedDocument
	}
	return c.doc, nil
}

// ReadFile reads the Document from the named file.
func ReadFile(name string, opts ParseOptions) (*Document, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, opts)
}

// unsupported handles content the parser can't process, according
// to the error mode.
func (c *iconCursor) unsupported(err error, fields ...zap.Field) error {
	switch c.opts.ErrorMode {
	case StrictErrorMode:
		return err
	case WarnErrorMode:
		c.log.Warn(err.Error(), fields...)
	}
	return nil
}

func (c *iconCursor) top() nodeState { return c.stack[len(c.stack)-1] }

func (c *iconCursor) readStartElement(se xml.StartElement) error {
	name := se.Name.Local
	if skipped[name] {
		return c.decoder.Skip()
	}

	parent := c.top()
	state, err := c.readNodeState(parent, se.Attr)
	if err != nil {
		if err = c.unsupported(err, zap.String("element", name)); err != nil {
			return err
		}
		state = parent
	}
	c.stack = append(c.stack, state)

	if name == "svg" && !c.seenSVG {
		c.seenSVG = true
		return c.readRoot(se.Attr)
	}
	df, ok := drawFuncs[name]
	if !ok {
		return c.unsupported(fmt.Errorf("cannot process svg element %s", name))
	}
	path, err := df(c, se.Attr)
	if err != nil {
		// path data errors are not fatal: the valid part is kept
		if err = c.unsupported(fmt.Errorf("invalid %s element: %w", name, err), zap.String("element", name)); err != nil {
			return err
		}
	}
	if len(path) == 0 {
		return nil
	}
	c.addPath(se.Attr, parent, state, path)
	return nil
}

// addPath bakes the ancestor transforms and stores the shape.
// The element own transform is kept apart when it is the only one;
// otherwise the whole chain is baked.
func (c *iconCursor) addPath(attrs []xml.Attr, parent, own nodeState, path svgpath.Path) {
	svgp := SvgPath{ID: attrValue(attrs, "id"), Style: own.style}
	if svgp.ID == "" {
		svgp.ID = NewPathID()
	}
	if len(parent.transform) == 0 {
		svgp.Transform = own.transform
	} else {
		path = path.Transform(own.transform.Matrix())
	}
	c.doc.Paths = append(c.doc.Paths, svgp.WithSegments(path))
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, attr := range attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// readNodeState parses the presentation attributes and the style
// attribute (which takes precedence), on top of the parent state.
func (c *iconCursor) readNodeState(parent nodeState, attrs []xml.Attr) (nodeState, error) {
	out := parent
	out.style.Opacity = 1 // own opacity, combined with the parent one below
	var declarations []string
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "style":
			declarations = append(declarations, strings.Split(attr.Value, ";")...)
		case "transform":
			ops, err := svgpath.ParseTransformList(attr.Value)
			if err != nil {
				return parent, err
			}
			out.transform = slices.Concat(parent.transform, ops)
		default:
			if err := readStyleAttr(&out.style, attr.Name.Local, strings.TrimSpace(attr.Value)); err != nil {
				return parent, err
			}
		}
	}
	for _, decl := range declarations {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if err := readStyleAttr(&out.style, strings.ToLower(strings.TrimSpace(k)), strings.TrimSpace(v)); err != nil {
			return parent, err
		}
	}
	out.style.Opacity *= parent.style.Opacity
	return out, nil
}

func readStyleAttr(style *Style, k, v string) error {
	if v == "inherit" {
		return nil
	}
	switch k {
	case "fill":
		style.Fill = v
	case "stroke":
		style.Stroke = v
	case "stroke-width":
		w, err := parseLength(v)
		if err != nil {
			return fmt.Errorf("stroke-width: %w", err)
		}
		style.StrokeWidth = w
	case "opacity", "fill-opacity", "stroke-opacity":
		op, err := readFraction(v)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		switch k {
		case "opacity":
			style.Opacity = op
		case "fill-opacity":
			style.FillOpacity = op
		case "stroke-opacity":
			style.StrokeOpacity = op
		}
	}
	return nil
}

func readFraction(v string) (float64, error) {
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err := svgpath.ParseNumber(v)
	f /= d
	return max(0, min(1, f)), err
}

var errUnsupportedUnit = errors.New("unsupported length unit")

// parseLength accepts user units, with an optional px suffix.
func parseLength(v string) (float64, error) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	if strings.HasSuffix(v, "%") {
		return 0, errUnsupportedUnit
	}
	return svgpath.ParseNumber(v)
}

func (c *iconCursor) readRoot(attrs []xml.Attr) error {
	for _, attr := range attrs {
		var err error
		switch attr.Name.Local {
		case "viewBox":
			var nums []float64
			nums, err = svgpath.ParseNumbers(attr.Value)
			if err == nil && len(nums) != 4 {
				err = svgpath.ErrParamMismatch
			}
			if err == nil {
				c.doc.ViewBox = &Bounds{nums[0], nums[1], nums[2], nums[3]}
			}
		case "width":
			c.doc.Width, err = parseLength(attr.Value)
		case "height":
			c.doc.Height, err = parseLength(attr.Value)
		}
		if err != nil {
			if err = c.unsupported(fmt.Errorf("invalid svg %s: %w", attr.Name.Local, err)); err != nil {
				return err
			}
		}
	}
	if c.doc.ViewBox != nil {
		if c.doc.Width == 0 {
			c.doc.Width = c.doc.ViewBox.W
		}
		if c.doc.Height == 0 {
			c.doc.Height = c.doc.ViewBox.H
		}
	}
	return nil
}
