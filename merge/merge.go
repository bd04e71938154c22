// Package merge combines several paths into one, and groups paths
// which could be merged together.
package merge

import (
	"errors"
	"fmt"
	"slices"

	"github.com/benoitkugler/pathedit/simplify"
	"github.com/benoitkugler/pathedit/svgicon"
	"github.com/benoitkugler/pathedit/svgpath"
	"go.uber.org/zap"
)

var (
	// ErrInsufficientInput is returned when there is nothing to merge.
	ErrInsufficientInput = errors.New("no path to merge")
	ErrPathIndex         = errors.New("path index out of range")
)

// Options configures MergePaths.
type Options struct {
	// Fill overrides the fill of the merged path, if not nil.
	Fill *string
	// CloseOpenPaths appends a Close to every open subpath.
	CloseOpenPaths bool
	// SimplifyTolerance, in percent of the bounding box diagonal,
	// enables the simplification of the merged path when positive.
	SimplifyTolerance float64
	// ID of the merged path. When empty, a new one is generated.
	ID string

	Logger *zap.Logger
}

// closeSubpaths appends a Close to the subpaths of p which are open
// and have something to close.
func closeSubpaths(p svgpath.Path) svgpath.Path {
	var out svgpath.Path
	for _, sp := range p.Subpaths() {
		out = append(out, p[sp.Begin:sp.End]...)
		if sp.End-sp.Begin < 2 || p.IsClosed(sp) {
			continue
		}
		out = append(out, svgpath.Close{From: p[sp.End-1].End(), To: p[sp.Begin].End()})
	}
	return out
}

func prepare(p svgicon.SvgPath, opts Options) svgpath.Path {
	segments := p.Baked().Segments()
	if opts.CloseOpenPaths {
		segments = closeSubpaths(segments)
	}
	return segments
}

// MergePaths concatenates the segments of paths, after applying their
// transform, into a single path using the style of the first one.
//
// A single path is returned with its transform applied (and its
// subpaths closed if requested), keeping its ID and without
// simplification.
func MergePaths(paths []svgicon.SvgPath, opts Options) (svgicon.SvgPath, error) {
	if len(paths) == 0 {
		return svgicon.SvgPath{}, ErrInsufficientInput
	}
	first := paths[0]
	style := first.Style
	if opts.Fill != nil {
		style.Fill = *opts.Fill
	}

	if len(paths) == 1 {
		out := first.Baked().WithSegments(prepare(first, opts)).WithStyle(style)
		return out, nil
	}

	var segments svgpath.Path
	for _, p := range paths {
		segments = append(segments, prepare(p, opts)...)
	}
	merged := svgicon.NewSvgPath(segments).WithStyle(style)
	if opts.ID != "" {
		merged.ID = opts.ID
	}

	if opts.SimplifyTolerance > 0 {
		merged, _ = simplify.Path(merged, simplify.Options{
			TolerancePercent: opts.SimplifyTolerance,
			Logger:           opts.Logger,
		})
	}
	return merged, nil
}

// MergeDocument replaces the paths of doc at the given indices by
// their merge, placed at the first of them. Paths are merged in
// document order. doc is not modified.
func MergeDocument(doc *svgicon.Document, indices []int, opts Options) (*svgicon.Document, error) {
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	if len(sorted) == 0 {
		return nil, ErrInsufficientInput
	}
	if sorted[0] < 0 || sorted[len(sorted)-1] >= len(doc.Paths) {
		return nil, fmt.Errorf("%w: %v for %d paths", ErrPathIndex, indices, len(doc.Paths))
	}

	selected := make([]svgicon.SvgPath, len(sorted))
	for i, index := range sorted {
		selected[i] = doc.Paths[index]
	}
	merged, err := MergePaths(selected, opts)
	if err != nil {
		return nil, err
	}

	out := doc.Clone()
	out.Paths = out.Paths[:0]
	for i, p := range doc.Paths {
		switch {
		case i == sorted[0]:
			out.Paths = append(out.Paths, merged)
		case slices.Contains(sorted, i):
		default:
			out.Paths = append(out.Paths, p)
		}
	}
	return out, nil
}
