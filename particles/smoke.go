package particles

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type SmokeConfig struct {
	Seed           int64      `yaml:"seed"`
	Count          int        `yaml:"count"`
	SpawnRate      float64    `yaml:"spawn_rate"`
	MinLife        float64    `yaml:"min_life"`
	MaxLife        float64    `yaml:"max_life"`
	Origin         [3]float32 `yaml:"origin"`
	SpawnRadius    float64    `yaml:"spawn_radius"`
	MinUpSpeed     float64    `yaml:"min_up_speed"`
	MaxUpSpeed     float64    `yaml:"max_up_speed"`
	RadialSpread   float64    `yaml:"radial_spread"`
	MinSize        float64    `yaml:"min_size"`
	MaxSize        float64    `yaml:"max_size"`
	Growth         float64    `yaml:"growth"`
	Wind           [3]float32 `yaml:"wind"`
	VerticalDrag   float64    `yaml:"vertical_drag"`
	Damping        float64    `yaml:"damping"`
	Turbulence     float64    `yaml:"turbulence"`
	TurbulenceFreq float64    `yaml:"turbulence_freq"`
	MaxDelta       float64    `yaml:"max_delta"`
}

func DefaultSmokeConfig() SmokeConfig {
	return SmokeConfig{
		Seed:           2,
		Count:          200,
		SpawnRate:      15,
		MinLife:        4,
		MaxLife:        7,
		Origin:         [3]float32{0, 1.1, 0},
		SpawnRadius:    0.3,
		MinUpSpeed:     0.35,
		MaxUpSpeed:     0.7,
		RadialSpread:   0.12,
		MinSize:        0.35,
		MaxSize:        0.7,
		Growth:         2.2,
		Wind:           [3]float32{0.12, 0, 0.04},
		VerticalDrag:   0.2,
		Damping:        0.995,
		Turbulence:     0.3,
		TurbulenceFreq: 0.9,
		MaxDelta:       DefaultMaxDelta,
	}
}

func (c SmokeConfig) Validate() error {
	var errs []error
	errs = append(errs, validateCommon("smoke", c.Count, c.SpawnRate, c.MinLife, c.MaxLife, c.MinSize, c.MaxSize, c.MaxDelta))
	if c.MaxUpSpeed < c.MinUpSpeed {
		errs = append(errs, fmt.Errorf("%w: smoke up speed range inverted: [%v, %v]", ErrInvalidConfig, c.MinUpSpeed, c.MaxUpSpeed))
	}
	if c.Damping <= 0 || c.Damping > 1 {
		errs = append(errs, fmt.Errorf("%w: smoke damping must be in (0, 1], got %v", ErrInvalidConfig, c.Damping))
	}
	if c.Growth < 0 || c.VerticalDrag < 0 {
		errs = append(errs, fmt.Errorf("%w: smoke growth and vertical drag must be >= 0", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// Smoke puffs rise, drift with the wind and grow. Exported life grows
// linearly from 0 (fresh) to 1 (dead); the renderer fades puffs out as life
// approaches 1.
type Smoke struct {
	*system
	cfg SmokeConfig
}

func NewSmoke(cfg SmokeConfig) (*Smoke, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	progress := func(t float32) float32 { return t }
	return &Smoke{
		system: newSystem(cfg.Count, cfg.SpawnRate, cfg.Seed, cfg.MaxDelta, progress, 1),
		cfg:    cfg,
	}, nil
}

func (s *Smoke) Config() SmokeConfig { return s.cfg }

func (s *Smoke) Spawn() bool {
	if s.disposed {
		return false
	}
	i, ok := s.pool.Acquire()
	if !ok {
		return false
	}
	c := &s.cfg
	dx, dz := s.discPoint(c.SpawnRadius)
	s.pos[i] = mgl32.Vec3{c.Origin[0] + dx, c.Origin[1], c.Origin[2] + dz}
	s.vel[i] = mgl32.Vec3{
		s.uniform(-c.RadialSpread, c.RadialSpread),
		s.uniform(c.MinUpSpeed, c.MaxUpSpeed),
		s.uniform(-c.RadialSpread, c.RadialSpread),
	}
	s.age[i] = 0
	s.lifetime[i] = s.uniform(c.MinLife, c.MaxLife)
	s.baseSize[i] = s.uniform(c.MinSize, c.MaxSize)
	s.size[i] = s.baseSize[i]
	s.phase[i] = s.uniform(0, 1)
	s.spin[i] = s.uniform(0, 2*math.Pi)
	return true
}

func (s *Smoke) Update(dt float64) {
	if s.disposed {
		return
	}
	dt = s.clampDelta(dt)
	if dt == 0 {
		return
	}
	s.elapsed += dt

	c := &s.cfg
	fdt := float32(dt)
	damp := float32(math.Pow(c.Damping, dt*60))
	rise := float32(math.Exp(-c.VerticalDrag * dt))
	wind := mgl32.Vec3(c.Wind).Mul(fdt)
	turb := float32(c.Turbulence) * fdt
	now := s.elapsed

	for i := range s.age {
		if !s.pool.Active(i) {
			continue
		}
		s.age[i] += fdt
		if s.age[i] >= s.lifetime[i] {
			s.kill(i)
			continue
		}
		t := s.normalizedAge(i)
		ph := float64(s.phase[i]) * 2 * math.Pi

		v := s.vel[i].Add(wind)
		v[1] *= rise
		v[0] += turb * float32(math.Sin(now*c.TurbulenceFreq+ph))
		v[2] += turb * float32(math.Sin(now*c.TurbulenceFreq*0.77+ph+1.3))
		v = v.Mul(damp)

		s.vel[i] = v
		s.pos[i] = s.pos[i].Add(v.Mul(fdt))
		s.size[i] = s.baseSize[i] * (1 + float32(c.Growth)*t)
	}

	for n := s.spawner.Advance(dt); n > 0; n-- {
		s.Spawn()
	}
	s.flush()
}
