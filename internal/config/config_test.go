package config

import (
	"os"
	"testing"

	"github.com/benoitkugler/pathedit/svgicon"
	"github.com/google/go-cmp/cmp"
)

var keys = []string{
	"PORT", "LOG_DEVELOPMENT", "DEFAULT_TOLERANCE", "DEFAULT_CORNER_ANGLE",
	"WORKERS", "MAX_UPLOAD_BYTES", "ERROR_MODE",
}

// clearEnv unsets the configuration variables for the duration of t.
func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "") // restored on cleanup
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Port:               8080,
		DefaultTolerance:   0.5,
		DefaultCornerAngle: 30,
		MaxUploadBytes:     10 << 20,
		ErrorMode:          ErrorMode(svgicon.WarnErrorMode),
	}
	if d := cmp.Diff(want, cfg); d != "" {
		t.Error(d)
	}
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DEFAULT_TOLERANCE", "1.5")
	t.Setenv("ERROR_MODE", "strict")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9000 || cfg.DefaultTolerance != 1.5 || svgicon.ErrorMode(cfg.ErrorMode) != svgicon.StrictErrorMode {
		t.Errorf("unexpected config %+v", cfg)
	}

	t.Setenv("ERROR_MODE", "loud")
	if _, err = Load(); err == nil {
		t.Error("expected an error for an invalid error mode")
	}
}
