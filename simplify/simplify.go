// Package simplify reduces the number of segments of a path while
// keeping its shape within a tolerance.
//
// Each subpath is sampled into a polyline, cleaned from noise with the
// Visvalingam-Whyatt algorithm, split at hard corners, and refitted
// with lines and cubic curves (Schneider's algorithm). Closure and
// tangent continuity are then restored. When the result is degenerate
// or not smaller than the input, the input is returned unchanged.
package simplify

import (
	"context"
	"runtime"

	"github.com/benoitkugler/pathedit/svgicon"
	"github.com/benoitkugler/pathedit/svgpath"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options tunes the simplification.
type Options struct {
	// TolerancePercent is the maximal deviation, expressed in percent
	// of the diagonal of the path bounding box.
	TolerancePercent float64
	// CornerAngle is the turn angle, in degrees, above which a vertex
	// is kept as a hard corner. Zero or negative means 30.
	CornerAngle float64
	// Workers bounds the number of paths simplified concurrently by
	// Document. Zero means GOMAXPROCS.
	Workers int
	// Logger is optional.
	Logger *zap.Logger
}

// DefaultOptions are the options used by the command line tool and
// the HTTP server when nothing is specified.
var DefaultOptions = Options{TolerancePercent: 0.5, CornerAngle: 30}

const defaultCornerAngle = 30

func (opts Options) cornerAngle() float64 {
	if opts.CornerAngle <= 0 {
		return defaultCornerAngle
	}
	return opts.CornerAngle
}

func (opts Options) logger() *zap.Logger {
	if opts.Logger == nil {
		return zap.NewNop()
	}
	return opts.Logger
}

// Report describes the outcome for one path.
type Report struct {
	PathID        string
	Before, After int // segment counts
	// Fallback is true when a safety net fired and the input was kept.
	Fallback bool
	Reason   string
	// FitFailures is the number of runs approximated by a straight
	// line because curve fitting failed.
	FitFailures int
}

// Segments simplifies path with an absolute tolerance, expressed in
// the path coordinates. The input is never modified: the returned
// path is always a new slice.
func Segments(path svgpath.Path, tol, cornerAngle float64) svgpath.Path {
	if cornerAngle <= 0 {
		cornerAngle = defaultCornerAngle
	}
	out, _, _ := run(path, tol, cornerAngle)
	return out.Clone()
}

// Path simplifies p, after applying its transform. The tolerance is
// relative to the diagonal of the tight bounding box of the baked
// path. When a safety net fires, p is returned as is.
func Path(p svgicon.SvgPath, opts Options) (svgicon.SvgPath, Report) {
	baked := p.Baked()
	segments := baked.Segments()
	tol := opts.TolerancePercent / 100 * segments.TightBounds().Diagonal()

	out, fitErrs, reason := run(segments, tol, opts.cornerAngle())
	report := Report{
		PathID:      p.ID,
		Before:      len(segments),
		After:       len(out),
		Fallback:    reason != "",
		Reason:      reason,
		FitFailures: fitErrs,
	}

	logger := opts.logger()
	logger.Debug("path simplified",
		zap.String("id", p.ID),
		zap.Int("before", report.Before),
		zap.Int("after", report.After),
		zap.Float64("tolerance", tol))
	if fitErrs > 0 {
		logger.Info("curve fitting degraded to lines",
			zap.String("id", p.ID), zap.Int("runs", fitErrs))
	}
	if report.Fallback {
		logger.Info("simplification discarded",
			zap.String("id", p.ID), zap.String("reason", reason))
		report.After = report.Before
		return p, report
	}
	return baked.WithSegments(out), report
}

// Document simplifies every path of doc, concurrently. The context is
// checked before each path: on cancellation, no document is returned.
// doc is not modified.
func Document(ctx context.Context, doc *svgicon.Document, opts Options) (*svgicon.Document, []Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	paths := make([]svgicon.SvgPath, len(doc.Paths))
	reports := make([]Report, len(doc.Paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range doc.Paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			paths[i], reports[i] = Path(p, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	out := doc.Clone()
	out.Paths = paths
	opts.logger().Debug("document simplified",
		zap.Int("paths", len(paths)),
		zap.Int("before", doc.SegmentCount()),
		zap.Int("after", out.SegmentCount()))
	return out, reports, nil
}
