// Package fire holds the animated state of the flame layers and a CPU
// evaluation of the flame shader that the WGSL version mirrors.
package fire

import (
	"errors"
	"fmt"

	"github.com/gekko3d/campfire/geometry"
)

var ErrInvalidConfig = errors.New("fire: invalid config")

type Layer struct {
	PhaseOffset float64    `yaml:"phase_offset"`
	Speed       float64    `yaml:"speed"`
	Brightness  float64    `yaml:"brightness"`
	Scale       [3]float32 `yaml:"scale"`
}

type Config struct {
	Seed           int64   `yaml:"seed"`
	Height         float64 `yaml:"height"`
	Radius         float64 `yaml:"radius"`
	RadialSegments int     `yaml:"radial_segments"`
	HeightSegments int     `yaml:"height_segments"`
	Intensity      float64 `yaml:"intensity"`
	NoiseScale     float64 `yaml:"noise_scale"`
	ScrollSpeed    float64 `yaml:"scroll_speed"`
	Displacement   float64 `yaml:"displacement"`
	Sway           float64 `yaml:"sway"`
	TopFade        float64 `yaml:"top_fade"`
	BottomFade     float64 `yaml:"bottom_fade"`
	MinAlpha       float64 `yaml:"min_alpha"`
	Layers         []Layer `yaml:"layers"`
}

func DefaultConfig() Config {
	return Config{
		Seed:           11,
		Height:         1.6,
		Radius:         0.5,
		RadialSegments: 32,
		HeightSegments: 24,
		Intensity:      1.0,
		NoiseScale:     2.2,
		ScrollSpeed:    1.1,
		Displacement:   0.12,
		Sway:           0.06,
		TopFade:        0.85,
		BottomFade:     0.06,
		MinAlpha:       0.01,
		Layers: []Layer{
			{PhaseOffset: 0, Speed: 1.0, Brightness: 1.0, Scale: [3]float32{1, 1, 1}},
			{PhaseOffset: 1.7, Speed: 1.25, Brightness: 0.8, Scale: [3]float32{0.65, 0.8, 0.65}},
		},
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Height <= 0 || c.Radius <= 0 {
		errs = append(errs, fmt.Errorf("%w: height and radius must be > 0, got %v, %v", ErrInvalidConfig, c.Height, c.Radius))
	}
	if c.RadialSegments < 3 || c.HeightSegments < 1 {
		errs = append(errs, fmt.Errorf("%w: cone segments too low: %d radial, %d height", ErrInvalidConfig, c.RadialSegments, c.HeightSegments))
	}
	if c.TopFade <= 0 || c.TopFade >= 1 {
		errs = append(errs, fmt.Errorf("%w: top fade must be in (0, 1), got %v", ErrInvalidConfig, c.TopFade))
	}
	if c.BottomFade < 0 || c.BottomFade >= c.TopFade {
		errs = append(errs, fmt.Errorf("%w: bottom fade must be in [0, top fade), got %v", ErrInvalidConfig, c.BottomFade))
	}
	if c.MinAlpha < 0 || c.MinAlpha >= 1 {
		errs = append(errs, fmt.Errorf("%w: min alpha must be in [0, 1), got %v", ErrInvalidConfig, c.MinAlpha))
	}
	if len(c.Layers) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one flame layer is required", ErrInvalidConfig))
	}
	for i, l := range c.Layers {
		if l.Speed <= 0 || l.Brightness < 0 {
			errs = append(errs, fmt.Errorf("%w: layer %d needs speed > 0 and brightness >= 0", ErrInvalidConfig, i))
		}
	}
	return errors.Join(errs...)
}

// LayerUniforms is the per-layer uniform block of the flame shader. Field
// order and padding match the WGSL struct (64 bytes).
type LayerUniforms struct {
	Time         float32
	Intensity    float32
	NoiseScale   float32
	ScrollSpeed  float32
	Displacement float32
	Sway         float32
	TopFade      float32
	BottomFade   float32
	MinAlpha     float32
	Brightness   float32
	Height       float32
	Radius       float32
	Scale        [3]float32
	Phase        float32
}

// State drives the flame layers. Each layer runs its own clock, offset by
// its phase, over one shared open cone.
type State struct {
	cfg       Config
	cone      *geometry.Mesh
	time      float64
	intensity float64
	disposed  bool
}

func NewState(cfg Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Layers = append([]Layer(nil), cfg.Layers...)
	s := &State{
		cfg:  cfg,
		cone: geometry.Cone(float32(cfg.Radius), float32(cfg.Height), cfg.RadialSegments, cfg.HeightSegments),
	}
	s.SetIntensity(cfg.Intensity)
	return s, nil
}

func (s *State) Config() Config { return s.cfg }

func (s *State) Update(dt float64) {
	if s.disposed || dt <= 0 {
		return
	}
	s.time += dt
}

// SetIntensity sets the overall flame strength, clamped to [0, 1].
func (s *State) SetIntensity(x float64) {
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	s.intensity = x
}

func (s *State) Intensity() float64 { return s.intensity }

func (s *State) Time() float64 { return s.time }

// Cone is the mesh every layer is drawn with.
func (s *State) Cone() *geometry.Mesh { return s.cone }

func (s *State) LayerCount() int { return len(s.cfg.Layers) }

// Uniforms packs the shader inputs for layer i.
func (s *State) Uniforms(i int) LayerUniforms {
	l := s.cfg.Layers[i]
	c := s.cfg
	return LayerUniforms{
		Time:         float32(s.time*l.Speed + l.PhaseOffset),
		Intensity:    float32(s.intensity),
		NoiseScale:   float32(c.NoiseScale),
		ScrollSpeed:  float32(c.ScrollSpeed),
		Displacement: float32(c.Displacement),
		Sway:         float32(c.Sway),
		TopFade:      float32(c.TopFade),
		BottomFade:   float32(c.BottomFade),
		MinAlpha:     float32(c.MinAlpha),
		Brightness:   float32(l.Brightness),
		Height:       float32(c.Height),
		Radius:       float32(c.Radius),
		Scale:        l.Scale,
		Phase:        float32(l.PhaseOffset),
	}
}

func (s *State) Disposed() bool { return s.disposed }

// Dispose stops the layer clocks and releases the cone mesh.
func (s *State) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.cone.Dispose()
}
