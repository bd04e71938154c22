package config

import (
	"fmt"

	"github.com/benoitkugler/pathedit/svgicon"
	"github.com/kelseyhightower/envconfig"
)

// ErrorMode decodes an svgicon.ErrorMode from its name.
type ErrorMode svgicon.ErrorMode

// Decode implements envconfig.Decoder.
func (m *ErrorMode) Decode(value string) error {
	mode, ok := svgicon.ParseErrorMode(value)
	if !ok {
		return fmt.Errorf("invalid error mode %q (expected ignore, warn or strict)", value)
	}
	*m = ErrorMode(mode)
	return nil
}

type Config struct {
	Port               int       `envconfig:"PORT" default:"8080"`
	LogDevelopment     bool      `envconfig:"LOG_DEVELOPMENT" default:"false"`
	DefaultTolerance   float64   `envconfig:"DEFAULT_TOLERANCE" default:"0.5"`
	DefaultCornerAngle float64   `envconfig:"DEFAULT_CORNER_ANGLE" default:"30"`
	Workers            int       `envconfig:"WORKERS" default:"0"`
	MaxUploadBytes     int64     `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	ErrorMode          ErrorMode `envconfig:"ERROR_MODE" default:"warn"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
