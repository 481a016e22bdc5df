package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/pathfinder"
)

// configValidate checks Config struct tags.
var configValidate = validator.New()

// Config mirrors the library options; it is read from the --config file.
type Config struct {
	NumOscs            float64 `yaml:"num_oscs" validate:"gt=0"`
	NumRays            int     `yaml:"num_rays" validate:"gte=1,lte=4096"`
	BallMergeThresh    float64 `yaml:"ball_merge_thresh" validate:"gte=0"`
	InteriorBalls      bool    `yaml:"interior_balls"`
	ImagThresh         float64 `yaml:"imag_thresh" validate:"gt=0"`
	Accelerated        bool    `yaml:"accelerated"`
	ContourStartThresh float64 `yaml:"contour_start_thresh" validate:"gte=0,lt=1"`
	DisableFastPaths   bool    `yaml:"disable_fast_paths"`
	StrictStationary   bool    `yaml:"strict_stationary"`
	Geometry           bool    `yaml:"geometry"`
	Format             string  `yaml:"format" validate:"oneof=yaml json"`
}

// defaultConfig returns the library defaults with YAML output.
func defaultConfig() Config {
	return Config{
		NumOscs:            pathfinder.DefaultNumOscs,
		NumRays:            pathfinder.DefaultNumRays,
		BallMergeThresh:    pathfinder.DefaultBallMergeThresh,
		ImagThresh:         pathfinder.DefaultImagThresh,
		ContourStartThresh: pathfinder.DefaultContourStartThresh,
		Format:             "yaml",
	}
}

// loadConfig overlays the YAML file at path on the defaults. Unknown keys
// are rejected. An empty path returns the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the struct tags.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// Options converts the config into library options.
func (c Config) Options() []pathfinder.Option {
	opts := []pathfinder.Option{
		pathfinder.WithNumOscs(c.NumOscs),
		pathfinder.WithNumRays(c.NumRays),
		pathfinder.WithBallMergeThresh(c.BallMergeThresh),
		pathfinder.WithImagThresh(c.ImagThresh),
		pathfinder.WithContourStartThresh(c.ContourStartThresh),
		pathfinder.WithAccelerated(c.Accelerated),
	}
	if c.InteriorBalls {
		opts = append(opts, pathfinder.WithInteriorBalls())
	}
	if c.DisableFastPaths {
		opts = append(opts, pathfinder.WithoutFastPaths())
	}
	if c.StrictStationary {
		opts = append(opts, pathfinder.WithStrictStationary())
	}
	if c.Geometry {
		opts = append(opts, pathfinder.WithGeometry())
	}

	return opts
}
