// Package config loads the campfire configuration from YAML.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/gekko3d/campfire/camera"
	"github.com/gekko3d/campfire/fire"
	"github.com/gekko3d/campfire/geometry"
	"github.com/gekko3d/campfire/lighting"
	"github.com/gekko3d/campfire/particles"
	"github.com/gekko3d/campfire/sky"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Time      TimeConfig      `yaml:"time"`
	Log       LogConfig       `yaml:"log"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Scene     SceneConfig     `yaml:"scene"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

type TimeConfig struct {
	MaxDelta float64 `yaml:"max_delta"` // Per-frame clamp, seconds
}

type LogConfig struct {
	Prefix string `yaml:"prefix"`
	Debug  bool   `yaml:"debug"`
}

type RenderConfig struct {
	ClearColor [3]float64 `yaml:"clear_color"`
	HUD        bool       `yaml:"hud"`
	HUDScale   float64    `yaml:"hud_scale"`
	Post       PostConfig `yaml:"post"`
}

type PostConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Exposure       float64 `yaml:"exposure"`
	BloomThreshold float64 `yaml:"bloom_threshold"`
	BloomStrength  float64 `yaml:"bloom_strength"`
	BloomRadius    float64 `yaml:"bloom_radius"`
	Vignette       float64 `yaml:"vignette"`
	Grain          float64 `yaml:"grain"`
}

type TelemetryConfig struct {
	Path     string  `yaml:"path"`     // Empty disables CSV output
	Interval float64 `yaml:"interval"` // Seconds per row
}

type TerminalConfig struct {
	FPS int `yaml:"fps"`
}

// SceneConfig collects the per-component configs. Its defaults come from
// the component packages; defaults.yaml only overrides presentation.
type SceneConfig struct {
	Campfire  geometry.CampfireOptions  `yaml:"campfire"`
	Embers    particles.EmberConfig     `yaml:"embers"`
	Smoke     particles.SmokeConfig     `yaml:"smoke"`
	Fire      fire.Config               `yaml:"fire"`
	FireLight lighting.FireLightConfig  `yaml:"fire_light"`
	Moonlight lighting.MoonlightConfig  `yaml:"moonlight"`
	Ambient   lighting.AmbientConfig    `yaml:"ambient"`
	Sky       sky.Config                `yaml:"sky"`
	Camera    camera.Config             `yaml:"camera"`
}

// Default returns the built-in configuration without reading the embedded
// YAML.
func Default() *Config {
	return &Config{
		Window:    WindowConfig{Title: "Campfire", Width: 1280, Height: 720, VSync: true},
		Time:      TimeConfig{MaxDelta: particles.DefaultMaxDelta},
		Log:       LogConfig{Prefix: "campfire"},
		Telemetry: TelemetryConfig{Interval: 1},
		Terminal:  TerminalConfig{FPS: 30},
		Render: RenderConfig{
			HUD:      true,
			HUDScale: 1,
			Post: PostConfig{
				Enabled:        true,
				Exposure:       1,
				BloomThreshold: 0.8,
				BloomStrength:  0.6,
				BloomRadius:    1,
				Vignette:       0.35,
				Grain:          0.03,
			},
		},
		Scene: SceneConfig{
			Campfire:  geometry.DefaultCampfireOptions(),
			Embers:    particles.DefaultEmberConfig(),
			Smoke:     particles.DefaultSmokeConfig(),
			Fire:      fire.DefaultConfig(),
			FireLight: lighting.DefaultFireLightConfig(),
			Moonlight: lighting.DefaultMoonlightConfig(),
			Ambient:   lighting.DefaultAmbientConfig(),
			Sky:       sky.DefaultConfig(),
			Camera:    camera.DefaultConfig(),
		},
	}
}

// Load starts from the defaults, applies the embedded defaults.yaml, then
// overlays the file at path if one is given. Only keys present in a file
// replace earlier values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section and reports all failures at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Time.MaxDelta <= 0 {
		errs = append(errs, fmt.Errorf("time.max_delta must be > 0, got %v", c.Time.MaxDelta))
	}
	if c.Telemetry.Interval <= 0 {
		errs = append(errs, fmt.Errorf("telemetry.interval must be > 0, got %v", c.Telemetry.Interval))
	}
	if c.Terminal.FPS <= 0 {
		errs = append(errs, fmt.Errorf("terminal.fps must be > 0, got %d", c.Terminal.FPS))
	}
	if c.Render.Post.Exposure <= 0 {
		errs = append(errs, fmt.Errorf("render.post.exposure must be > 0, got %v", c.Render.Post.Exposure))
	}

	s := c.Scene
	errs = append(errs,
		s.Campfire.Validate(),
		s.Embers.Validate(),
		s.Smoke.Validate(),
		s.Fire.Validate(),
		s.FireLight.Validate(),
		s.Sky.Validate(),
	)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// WithSeed returns a copy whose random sources are all derived from seed.
// Each component keeps a distinct offset so fields stay decorrelated.
func (c *Config) WithSeed(seed int64) *Config {
	out := *c
	s := &out.Scene
	s.Campfire.Rocks.Seed = seed
	s.Campfire.Rocks.Rock.Seed = seed
	s.Campfire.Logs.Seed = seed + 1
	s.Campfire.Logs.Log.Seed = seed + 1
	s.Campfire.Ground.Seed = seed + 2
	s.Embers.Seed = seed + 3
	s.Smoke.Seed = seed + 4
	s.Fire.Seed = seed + 5
	s.Sky.Seed = seed + 6
	s.Fire.Layers = append([]fire.Layer(nil), c.Scene.Fire.Layers...)
	return &out
}

// WriteYAML dumps the effective configuration.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
