// Package sky holds the night gradient and a deterministic twinkling starfield.
package sky

import (
	"errors"
	"fmt"
	"math"

	"github.com/gekko3d/campfire/noise"
)

var ErrInvalidConfig = errors.New("sky: invalid config")

type Config struct {
	Seed          int64      `yaml:"seed"`
	StarCount     int        `yaml:"star_count"`
	Radius        float32    `yaml:"radius"`
	MinElevation  float64    `yaml:"min_elevation"`
	SizeMin       float32    `yaml:"size_min"`
	SizeMax       float32    `yaml:"size_max"`
	TwinkleSpeed  float64    `yaml:"twinkle_speed"`
	TwinkleAmount float64    `yaml:"twinkle_amount"`
	Zenith        [3]float32 `yaml:"zenith"`
	Horizon       [3]float32 `yaml:"horizon"`
	Ground        [3]float32 `yaml:"ground"`
}

func DefaultConfig() Config {
	return Config{
		Seed:          99,
		StarCount:     1200,
		Radius:        60,
		MinElevation:  0.05,
		SizeMin:       0.04,
		SizeMax:       0.16,
		TwinkleSpeed:  1.6,
		TwinkleAmount: 0.45,
		Zenith:        [3]float32{0.005, 0.008, 0.03},
		Horizon:       [3]float32{0.04, 0.05, 0.11},
		Ground:        [3]float32{0.01, 0.01, 0.015},
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.StarCount < 0 {
		errs = append(errs, fmt.Errorf("%w: star count must be >= 0, got %d", ErrInvalidConfig, c.StarCount))
	}
	if c.Radius <= 0 {
		errs = append(errs, fmt.Errorf("%w: radius must be > 0, got %v", ErrInvalidConfig, c.Radius))
	}
	if c.MinElevation < 0 || c.MinElevation >= 1 {
		errs = append(errs, fmt.Errorf("%w: min elevation must be in [0, 1), got %v", ErrInvalidConfig, c.MinElevation))
	}
	if c.SizeMin <= 0 || c.SizeMax < c.SizeMin {
		errs = append(errs, fmt.Errorf("%w: star size range invalid: %v..%v", ErrInvalidConfig, c.SizeMin, c.SizeMax))
	}
	if c.TwinkleAmount < 0 || c.TwinkleAmount > 1 {
		errs = append(errs, fmt.Errorf("%w: twinkle amount must be in [0, 1], got %v", ErrInvalidConfig, c.TwinkleAmount))
	}
	return errors.Join(errs...)
}

// GradientUniforms matches the WGSL sky uniform block.
type GradientUniforms struct {
	Zenith  [4]float32
	Horizon [4]float32
	Ground  [4]float32
}

// Starfield keeps static star placement plus a brightness buffer that is
// rewritten on every update. Positions are xyz+size, 4 floats per star.
type Starfield struct {
	cfg        Config
	positions  []float32
	baseBright []float32
	phases     []float32
	speeds     []float32
	brightness []float32
	time       float64
	disposed   bool
}

func NewStarfield(cfg Config) (*Starfield, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := cfg.StarCount
	s := &Starfield{
		cfg:        cfg,
		positions:  make([]float32, n*4),
		baseBright: make([]float32, n),
		phases:     make([]float32, n),
		speeds:     make([]float32, n),
		brightness: make([]float32, n),
	}

	rng := noise.NewLCG(cfg.Seed)
	for i := 0; i < n; i++ {
		// Uniform on the spherical cap above MinElevation.
		y := rng.Range(cfg.MinElevation, 1)
		theta := rng.Range(0, 2*math.Pi)
		r := math.Sqrt(1 - y*y)
		s.positions[i*4+0] = float32(r*math.Cos(theta)) * cfg.Radius
		s.positions[i*4+1] = float32(y) * cfg.Radius
		s.positions[i*4+2] = float32(r*math.Sin(theta)) * cfg.Radius

		// Most stars are faint and small.
		k := rng.Float64()
		k *= k
		s.positions[i*4+3] = cfg.SizeMin + float32(k)*(cfg.SizeMax-cfg.SizeMin)
		s.baseBright[i] = float32(0.35 + 0.65*k)
		s.phases[i] = float32(rng.Range(0, 2*math.Pi))
		s.speeds[i] = float32(rng.Range(0.5, 1.5))
	}
	s.twinkle()
	return s, nil
}

func (s *Starfield) Update(dt float64) {
	if s.disposed || dt <= 0 {
		return
	}
	s.time += dt
	s.twinkle()
}

func (s *Starfield) twinkle() {
	amt := s.cfg.TwinkleAmount
	for i := range s.brightness {
		w := math.Sin(s.time*s.cfg.TwinkleSpeed*float64(s.speeds[i]) + float64(s.phases[i]))
		s.brightness[i] = s.baseBright[i] * float32(1-amt*0.5*(1-w))
	}
}

func (s *Starfield) Count() int { return s.cfg.StarCount }

func (s *Starfield) Positions() []float32 { return s.positions }

func (s *Starfield) Brightness() []float32 { return s.brightness }

func (s *Starfield) Gradient() GradientUniforms {
	c := s.cfg
	return GradientUniforms{
		Zenith:  [4]float32{c.Zenith[0], c.Zenith[1], c.Zenith[2], 1},
		Horizon: [4]float32{c.Horizon[0], c.Horizon[1], c.Horizon[2], 1},
		Ground:  [4]float32{c.Ground[0], c.Ground[1], c.Ground[2], 1},
	}
}

// GradientAt evaluates the sky color along a unit view direction's Y.
func (s *Starfield) GradientAt(y float32) [3]float32 {
	c := s.cfg
	var out [3]float32
	if y < 0 {
		t := float32(math.Min(1, float64(-y)*4))
		for k := range out {
			out[k] = c.Horizon[k] + (c.Ground[k]-c.Horizon[k])*t
		}
		return out
	}
	t := float32(math.Pow(float64(y), 0.6))
	for k := range out {
		out[k] = c.Horizon[k] + (c.Zenith[k]-c.Horizon[k])*t
	}
	return out
}

func (s *Starfield) Disposed() bool { return s.disposed }

func (s *Starfield) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.positions, s.brightness, s.baseBright, s.phases, s.speeds = nil, nil, nil, nil, nil
}
