package svgicon

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/benoitkugler/pathedit/svgpath"
)

// svgFunc returns the outline of a drawing element, or nil for
// containers and metadata.
type svgFunc func(c *iconCursor, attrs []xml.Attr) (svgpath.Path, error)

var drawFuncs = map[string]svgFunc{
	"svg":      gF, // nested viewports are flattened like groups
	"g":        gF,
	"a":        gF,
	"switch":   gF,
	"title":    titleF,
	"desc":     gF,
	"line":     lineF,
	"rect":     rectF,
	"circle":   circleF,
	"ellipse":  circleF, // circleF handles ellipse also
	"polyline": polylineF,
	"polygon":  polygonF,
	"path":     pathF,
}

// readNumbers parses the listed attributes, leaving absent ones at 0.
func readNumbers(attrs []xml.Attr, names ...string) (map[string]float64, error) {
	out := make(map[string]float64, len(names))
	for _, attr := range attrs {
		for _, name := range names {
			if attr.Name.Local != name {
				continue
			}
			v, err := parseLength(attr.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			out[name] = v
		}
	}
	return out, nil
}

func gF(*iconCursor, []xml.Attr) (svgpath.Path, error) { return nil, nil } // g does nothing but push the style

func titleF(c *iconCursor, _ []xml.Attr) (svgpath.Path, error) {
	c.inTitle = true
	c.doc.Titles = append(c.doc.Titles, "")
	return nil, nil
}

func rectF(_ *iconCursor, attrs []xml.Attr) (svgpath.Path, error) {
	v, err := readNumbers(attrs, "x", "y", "width", "height", "rx", "ry")
	if err != nil {
		return nil, err
	}
	var p svgpath.Path
	p.AddRect(v["x"], v["y"], v["width"], v["height"], v["rx"], v["ry"])
	return p, nil
}

func circleF(_ *iconCursor, attrs []xml.Attr) (svgpath.Path, error) {
	v, err := readNumbers(attrs, "cx", "cy", "r", "rx", "ry")
	if err != nil {
		return nil, err
	}
	rx, ry := v["rx"], v["ry"]
	if r, ok := v["r"]; ok {
		rx, ry = r, r
	}
	switch { // "auto" radius of ellipses
	case rx == 0:
		rx = ry
	case ry == 0:
		ry = rx
	}
	var p svgpath.Path
	p.AddEllipse(v["cx"], v["cy"], rx, ry) // a zero radius is not drawn, but not an error
	return p, nil
}

func lineF(_ *iconCursor, attrs []xml.Attr) (svgpath.Path, error) {
	v, err := readNumbers(attrs, "x1", "y1", "x2", "y2")
	if err != nil {
		return nil, err
	}
	var p svgpath.Path
	p.AddLine(v["x1"], v["y1"], v["x2"], v["y2"])
	return p, nil
}

var errOddPoints = errors.New("polygon has odd number of coordinates")

func readPoints(attrs []xml.Attr) ([]float64, error) {
	coords, err := svgpath.ParseNumbers(attrValue(attrs, "points"))
	if err == nil && len(coords)%2 != 0 {
		err = errOddPoints
	}
	return coords, err
}

func polylineF(_ *iconCursor, attrs []xml.Attr) (svgpath.Path, error) {
	coords, err := readPoints(attrs)
	var p svgpath.Path
	p.AddPolyline(coords, false)
	return p, err
}

func polygonF(_ *iconCursor, attrs []xml.Attr) (svgpath.Path, error) {
	coords, err := readPoints(attrs)
	var p svgpath.Path
	p.AddPolyline(coords, true)
	return p, err
}

func pathF(_ *iconCursor, attrs []xml.Attr) (svgpath.Path, error) {
	return svgpath.ParsePath(attrValue(attrs, "d"))
}
