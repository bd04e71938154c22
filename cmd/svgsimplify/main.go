// Command svgsimplify reduces the number of segments of the paths of an
// SVG file.
//
// Usage:
//
//	svgsimplify [flags] input.svg
//
// The defaults of the flags are read from the environment, as for the
// server (DEFAULT_TOLERANCE, DEFAULT_CORNER_ANGLE, WORKERS, ERROR_MODE).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"

	"github.com/benoitkugler/pathedit/internal/config"
	"github.com/benoitkugler/pathedit/simplify"
	"github.com/benoitkugler/pathedit/svgicon"
	"github.com/benoitkugler/pathedit/svgraster"
	"github.com/benoitkugler/pathedit/viewbox"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(2)
	}

	var (
		output    = flag.String("o", "", "output file (default stdout)")
		tolerance = flag.Float64("tolerance", cfg.DefaultTolerance, "tolerance, in percent of each path bounding box diagonal")
		corner    = flag.Float64("corner", cfg.DefaultCornerAngle, "turn angle in degrees above which a vertex is a corner")
		workers   = flag.Int("workers", cfg.Workers, "number of paths simplified concurrently (0 for GOMAXPROCS)")
		compact   = flag.Bool("compact", false, "write minified path data")
		fit       = flag.Float64("fit", -1, "fit the view box to the content, with the given padding (negative to disable)")
		normalize = flag.Float64("normalize", 0, "scale the content into a square of this size (0 to disable)")
		padding   = flag.Float64("padding", 0, "padding used by -normalize")
		preview   = flag.String("preview", "", "also render the result to this PNG file")
		verbose   = flag.Bool("v", false, "log the outcome of each path")
	)
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: svgsimplify [flags] input.svg")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	logConfig := zap.NewDevelopmentConfig()
	if !*verbose {
		logConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := logConfig.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "create logger:", err)
		os.Exit(2)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, flag.Arg(0), options{
		output: *output,
		simplify: simplify.Options{
			TolerancePercent: *tolerance,
			CornerAngle:      *corner,
			Workers:          *workers,
			Logger:           logger,
		},
		errorMode: svgicon.ErrorMode(cfg.ErrorMode),
		compact:   *compact,
		fit:       *fit,
		normalize: *normalize,
		padding:   *padding,
		preview:   *preview,
	}, logger)
	if err != nil {
		logger.Error("svgsimplify failed", zap.Error(err))
		os.Exit(1)
	}
}

type options struct {
	output    string
	simplify  simplify.Options
	errorMode svgicon.ErrorMode
	compact   bool
	fit       float64
	normalize float64
	padding   float64
	preview   string
}

func run(ctx context.Context, input string, opts options, logger *zap.Logger) error {
	doc, err := svgicon.ReadFile(input, svgicon.ParseOptions{ErrorMode: opts.errorMode, Logger: logger})
	if err != nil {
		return err
	}

	out, reports, err := simplify.Document(ctx, doc, opts.simplify)
	if err != nil {
		return err
	}
	kept := 0
	for _, r := range reports {
		if r.Fallback {
			kept++
		}
	}
	logger.Info("document simplified",
		zap.Int("paths", len(reports)),
		zap.Int("unchanged", kept),
		zap.Int("segmentsBefore", doc.SegmentCount()),
		zap.Int("segmentsAfter", out.SegmentCount()))

	if opts.normalize > 0 {
		out, err = viewbox.SquareNormalize(out, opts.normalize, opts.padding, 0, 0)
		if err != nil {
			return err
		}
	} else if opts.fit >= 0 {
		out = viewbox.FitToContent(out, opts.fit)
	}

	if err := writeDocument(out, opts.output, opts.compact); err != nil {
		return err
	}
	if opts.preview != "" {
		return writePreview(out, opts.preview)
	}
	return nil
}

func writeDocument(doc *svgicon.Document, name string, compact bool) error {
	var w io.Writer = os.Stdout
	if name != "" {
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	if err := doc.Encode(bw, svgicon.WriteOptions{Compact: compact, Indent: " "}); err != nil {
		return err
	}
	return bw.Flush()
}

func writePreview(doc *svgicon.Document, name string) error {
	w, h := int(doc.Width), int(doc.Height)
	if w <= 0 || h <= 0 {
		w, h = 256, 256
	}
	img := svgraster.Rasterize(doc, w, h)
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
