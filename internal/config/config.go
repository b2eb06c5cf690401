package config

import (
	"fmt"
	"math"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/mapkit"
)

// Server configures the overlay server.
type Server struct {
	Port       int    `envconfig:"PORT" default:"8080"`
	PublicPath string `envconfig:"PUBLIC_PATH" default:"./public"`
	// AllowedOrigin is sent as Access-Control-Allow-Origin on writes.
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"*"`
}

// LoadServer reads the server configuration from the environment.
func LoadServer() (*Server, error) {
	var cfg Server
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Viewer configures the map viewer. It is read from YAML.
type Viewer struct {
	Admin              bool              `yaml:"admin"`
	Title              string            `yaml:"title"`
	WindowWidth        int               `yaml:"window_width"`
	WindowHeight       int               `yaml:"window_height"`
	MapWidth           float64           `yaml:"map_width"`
	MapHeight          float64           `yaml:"map_height"`
	MapImage           string            `yaml:"map_image"`
	InitialScale       float64           `yaml:"initial_scale"`
	EnableEdgeClamping bool              `yaml:"enable_edge_clamping"`
	ZoomMin            float64           `yaml:"zoom_min"`
	ZoomMax            float64           `yaml:"zoom_max"`
	ZoomDelta          float64           `yaml:"zoom_delta"`
	ZoomCurve          *mapkit.ZoomCurve `yaml:"zoom_curve"`
	RulerSize          float64           `yaml:"ruler_size"`
	ShowStatus         bool              `yaml:"show_status"`

	// ZoomStep is an expression over scale giving the zoom step, for
	// example "0.02 + scale * 0.25".
	ZoomStep string `yaml:"zoom_step"`
}

// DefaultViewer returns the viewer defaults used for any field a YAML file
// leaves out.
func DefaultViewer() Viewer {
	curve := mapkit.DefaultZoomCurve()
	return Viewer{
		Title:        "Map",
		WindowWidth:  1280,
		WindowHeight: 720,
		MapWidth:     4096,
		MapHeight:    4096,
		InitialScale: 0.1,
		ZoomMin:      0.05,
		ZoomMax:      4,
		ZoomCurve:    &curve,
		RulerSize:    64,
	}
}

// LoadViewer reads a YAML viewer config from path on top of the defaults.
// An empty path returns the defaults.
func LoadViewer(path string) (*Viewer, error) {
	cfg := DefaultViewer()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read viewer config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse viewer config %s: %w", path, err)
	}
	// A fixed zoom_delta replaces the default curve unless a curve is given
	// alongside it.
	var set struct {
		ZoomDelta *float64   `yaml:"zoom_delta"`
		ZoomCurve *yaml.Node `yaml:"zoom_curve"`
	}
	if err := yaml.Unmarshal(data, &set); err == nil && set.ZoomDelta != nil && set.ZoomCurve == nil {
		cfg.ZoomCurve = nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("viewer config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate reports settings the viewer cannot run with.
func (v *Viewer) Validate() error {
	if v.MapWidth <= 0 || v.MapHeight <= 0 {
		return fmt.Errorf("map size %gx%g must be positive", v.MapWidth, v.MapHeight)
	}
	if v.WindowWidth <= 0 || v.WindowHeight <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", v.WindowWidth, v.WindowHeight)
	}
	if v.ZoomMin < 0 || v.ZoomMax < 0 {
		return fmt.Errorf("zoom bounds must not be negative")
	}
	if v.ZoomMin > 0 && v.ZoomMax > 0 && v.ZoomMax < v.ZoomMin {
		return fmt.Errorf("zoom_max %g is below zoom_min %g", v.ZoomMax, v.ZoomMin)
	}
	if v.ZoomStep != "" {
		if _, err := compileZoomStep(v.ZoomStep); err != nil {
			return err
		}
	}
	return nil
}

// ZoomOptions converts the zoom fields to controller options. A zoom_step
// expression takes precedence over a zoom_curve, which takes precedence over
// a fixed zoom_delta.
func (v *Viewer) ZoomOptions() (mapkit.ZoomOptions, error) {
	opts := mapkit.ZoomOptions{
		EnableEdgeClamping: v.EnableEdgeClamping,
		ZoomMin:            v.ZoomMin,
		ZoomMax:            v.ZoomMax,
		ZoomDelta:          v.ZoomDelta,
	}
	switch {
	case v.ZoomStep != "":
		program, err := compileZoomStep(v.ZoomStep)
		if err != nil {
			return opts, err
		}
		fallback := v.ZoomDelta
		if fallback == 0 {
			fallback = mapkit.DefaultZoomDelta
		}
		opts.ZoomDeltaFunc = zoomStepFunc(program, fallback)
	case v.ZoomCurve != nil:
		opts.ZoomDeltaFunc = mapkit.ExponentialZoomCurve(*v.ZoomCurve)
	}
	return opts, nil
}

func compileZoomStep(src string) (*vm.Program, error) {
	program, err := expr.Compile(src, expr.Env(map[string]any{"scale": 0.0}), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("zoom_step: %w", err)
	}
	return program, nil
}

// zoomStepFunc evaluates program for each step. A failed or non-finite
// result falls back to fallback.
func zoomStepFunc(program *vm.Program, fallback float64) func(float64) float64 {
	return func(scale float64) float64 {
		out, err := expr.Run(program, map[string]any{"scale": scale})
		if err != nil {
			return fallback
		}
		f, ok := out.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return fallback
		}
		return f
	}
}
