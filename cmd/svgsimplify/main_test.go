package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/benoitkugler/pathedit/simplify"
	"github.com/benoitkugler/pathedit/svgicon"
	"go.uber.org/zap"
)

const input = `<svg width="64" height="64">
	<path id="p" d="M0 0 L8 0 L16 0 L24 0 L32 0 L32 32 L0 32 Z"/>
</svg>`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.svg")
	if err := os.WriteFile(in, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}
	out, preview := filepath.Join(dir, "out.svg"), filepath.Join(dir, "out.png")

	err := run(context.Background(), in, options{
		output:    out,
		simplify:  simplify.DefaultOptions,
		errorMode: svgicon.StrictErrorMode,
		fit:       -1,
		normalize: 16,
		preview:   preview,
	}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	doc, err := svgicon.ReadFile(out, svgicon.DefaultParseOptions)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Paths[0].Data(); got != "M0,0 L16,0 L16,16 L0,16 Z" {
		t.Errorf("unexpected path %s", got)
	}
	if _, err := os.Stat(preview); err != nil {
		t.Error(err)
	}
}

func TestRunCancelled(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.svg")
	if err := os.WriteFile(in, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, in, options{simplify: simplify.DefaultOptions, fit: -1}, zap.NewNop()); err == nil {
		t.Error("expected an error")
	}
}
