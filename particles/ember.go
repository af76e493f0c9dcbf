package particles

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type EmberConfig struct {
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
	Gravity        float64    `yaml:"gravity"`
	Damping        float64    `yaml:"damping"`
	Turbulence     float64    `yaml:"turbulence"`
	TurbulenceFreq float64    `yaml:"turbulence_freq"`
	SpiralRadius   float64    `yaml:"spiral_radius"`
	SpiralSpeed    float64    `yaml:"spiral_speed"`
	MaxDelta       float64    `yaml:"max_delta"`
}

func DefaultEmberConfig() EmberConfig {
	return EmberConfig{
		Seed:           1,
		Count:          800,
		SpawnRate:      60,
		MinLife:        2.5,
		MaxLife:        4.5,
		Origin:         [3]float32{0, 0.35, 0},
		SpawnRadius:    0.45,
		MinUpSpeed:     0.9,
		MaxUpSpeed:     2.2,
		RadialSpread:   0.35,
		MinSize:        0.025,
		MaxSize:        0.07,
		Gravity:        0.35,
		Damping:        0.985,
		Turbulence:     0.9,
		TurbulenceFreq: 2.4,
		SpiralRadius:   0.18,
		SpiralSpeed:    3.5,
		MaxDelta:       DefaultMaxDelta,
	}
}

func (c EmberConfig) Validate() error {
	var errs []error
	errs = append(errs, validateCommon("ember", c.Count, c.SpawnRate, c.MinLife, c.MaxLife, c.MinSize, c.MaxSize, c.MaxDelta))
	if c.MaxUpSpeed < c.MinUpSpeed {
		errs = append(errs, fmt.Errorf("%w: ember up speed range inverted: [%v, %v]", ErrInvalidConfig, c.MinUpSpeed, c.MaxUpSpeed))
	}
	if c.Damping <= 0 || c.Damping > 1 {
		errs = append(errs, fmt.Errorf("%w: ember damping must be in (0, 1], got %v", ErrInvalidConfig, c.Damping))
	}
	if c.SpawnRadius < 0 || c.RadialSpread < 0 {
		errs = append(errs, fmt.Errorf("%w: ember spawn radius and spread must be >= 0", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// Embers are light glowing sparks. Exported life decays linearly from 1
// (fresh) to 0 (dead); the renderer fades them out as life approaches 0.
type Embers struct {
	*system
	cfg EmberConfig
}

func NewEmbers(cfg EmberConfig) (*Embers, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	remaining := func(t float32) float32 { return 1 - t }
	return &Embers{
		system: newSystem(cfg.Count, cfg.SpawnRate, cfg.Seed, cfg.MaxDelta, remaining, 0),
		cfg:    cfg,
	}, nil
}

func (e *Embers) Config() EmberConfig { return e.cfg }

// Spawn activates one ember at the base of the fire. It returns false when
// the pool is saturated.
func (e *Embers) Spawn() bool {
	if e.disposed {
		return false
	}
	i, ok := e.pool.Acquire()
	if !ok {
		return false
	}
	c := &e.cfg
	dx, dz := e.discPoint(c.SpawnRadius)
	e.pos[i] = mgl32.Vec3{c.Origin[0] + dx, c.Origin[1], c.Origin[2] + dz}
	e.vel[i] = mgl32.Vec3{
		e.uniform(-c.RadialSpread, c.RadialSpread),
		e.uniform(c.MinUpSpeed, c.MaxUpSpeed),
		e.uniform(-c.RadialSpread, c.RadialSpread),
	}
	e.age[i] = 0
	e.lifetime[i] = e.uniform(c.MinLife, c.MaxLife)
	e.size[i] = e.uniform(c.MinSize, c.MaxSize)
	e.baseSize[i] = e.size[i]
	e.phase[i] = e.uniform(0, 1)
	e.spin[i] = e.uniform(0, 2*math.Pi)
	return true
}

// Update advances every ember by dt seconds (clamped to MaxDelta), then
// spawns the embers that came due and rewrites the buffers.
func (e *Embers) Update(dt float64) {
	if e.disposed {
		return
	}
	dt = e.clampDelta(dt)
	if dt == 0 {
		return
	}
	e.elapsed += dt

	c := &e.cfg
	fdt := float32(dt)
	damp := float32(math.Pow(c.Damping, dt*60))
	gravity := float32(c.Gravity) * fdt
	turb := float32(c.Turbulence) * fdt
	freq := c.TurbulenceFreq
	now := e.elapsed

	for i := range e.age {
		if !e.pool.Active(i) {
			continue
		}
		e.age[i] += fdt
		if e.age[i] >= e.lifetime[i] {
			e.kill(i)
			continue
		}
		life := 1 - e.normalizedAge(i)
		ph := float64(e.phase[i]) * 2 * math.Pi

		v := e.vel[i]
		v[1] -= gravity
		v[0] += turb * float32(math.Sin(now*freq+ph))
		v[2] += turb * float32(math.Cos(now*freq*1.31+ph*1.7))
		v = v.Mul(damp)

		p := e.pos[i].Add(v.Mul(fdt))
		angle := float64(e.spin[i]) + now*c.SpiralSpeed
		spiral := float32(c.SpiralRadius) * life * fdt
		p[0] += spiral * float32(math.Cos(angle))
		p[2] += spiral * float32(math.Sin(angle))

		e.vel[i] = v
		e.pos[i] = p
		// Embers cool and shrink as they die.
		e.size[i] = e.baseSize[i] * (0.4 + 0.6*life)
	}

	for n := e.spawner.Advance(dt); n > 0; n-- {
		e.Spawn()
	}
	e.flush()
}
