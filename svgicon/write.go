package svgicon

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/benoitkugler/pathedit/svgpath"
)

// WriteOptions controls the output of Encode.
type WriteOptions struct {
	// Compact writes minified path data.
	Compact bool
	// Indent is used for each nesting level, if not empty.
	Indent string
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (p SvgPath) attrs(opts WriteOptions) []xml.Attr {
	data := p.data
	if opts.Compact {
		data = p.segments.Format(svgpath.Format{Decimals: 3, Compact: true})
	}
	attrs := []xml.Attr{
		{Name: xml.Name{Local: "id"}, Value: p.ID},
		{Name: xml.Name{Local: "d"}, Value: data},
	}
	add := func(name, value string) {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	}
	if p.Style.Fill != "" {
		add("fill", p.Style.Fill)
	}
	if p.Style.Stroke != "" {
		add("stroke", p.Style.Stroke)
	}
	if p.Style.StrokeWidth != DefaultStyle.StrokeWidth {
		add("stroke-width", formatFloat(p.Style.StrokeWidth))
	}
	if p.Style.Opacity != 1 {
		add("opacity", formatFloat(p.Style.Opacity))
	}
	if p.Style.FillOpacity != 1 {
		add("fill-opacity", formatFloat(p.Style.FillOpacity))
	}
	if p.Style.StrokeOpacity != 1 {
		add("stroke-opacity", formatFloat(p.Style.StrokeOpacity))
	}
	if len(p.Transform) != 0 {
		add("transform", p.Transform.String())
	}
	return attrs
}

// Encode writes the document as SVG. Every shape is written as a
// <path> element.
func (d *Document) Encode(w io.Writer, opts WriteOptions) error {
	enc := xml.NewEncoder(w)
	if opts.Indent != "" {
		enc.Indent("", opts.Indent)
	}
	root := xml.StartElement{
		Name: xml.Name{Local: "svg"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: "http://www.w3.org/2000/svg"}},
	}
	if d.Width != 0 {
		root.Attr = append(root.Attr, xml.Attr{Name: xml.Name{Local: "width"}, Value: formatFloat(d.Width)})
	}
	if d.Height != 0 {
		root.Attr = append(root.Attr, xml.Attr{Name: xml.Name{Local: "height"}, Value: formatFloat(d.Height)})
	}
	if vb := d.ViewBox; vb != nil {
		root.Attr = append(root.Attr, xml.Attr{
			Name:  xml.Name{Local: "viewBox"},
			Value: formatFloat(vb.X) + " " + formatFloat(vb.Y) + " " + formatFloat(vb.W) + " " + formatFloat(vb.H),
		})
	}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for _, title := range d.Titles {
		if err := enc.EncodeElement(title, xml.StartElement{Name: xml.Name{Local: "title"}}); err != nil {
			return err
		}
	}
	for _, p := range d.Paths {
		el := xml.StartElement{Name: xml.Name{Local: "path"}, Attr: p.attrs(opts)}
		if err := enc.EncodeToken(el); err != nil {
			return err
		}
		if err := enc.EncodeToken(el.End()); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	return enc.Flush()
}
