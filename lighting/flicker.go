// Package lighting provides the flickering fire light and the static
// moonlight and ambient fill.
package lighting

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

var ErrInvalidConfig = errors.New("lighting: invalid config")

type FireLightConfig struct {
	Color         [3]float64 `yaml:"color"`
	BaseIntensity float64    `yaml:"base_intensity"`
	Variation     float64    `yaml:"variation"`
	Floor         float64    `yaml:"floor"`
	Position      [3]float32 `yaml:"position"`
	MaxOffset     float64    `yaml:"max_offset"`
	Range         float64    `yaml:"range"`
	Decay         float64    `yaml:"decay"`
	HueShift      float64    `yaml:"hue_shift"`
	LightShift    float64    `yaml:"lightness_shift"`
}

func DefaultFireLightConfig() FireLightConfig {
	return FireLightConfig{
		Color:         [3]float64{1.0, 0.55, 0.2},
		BaseIntensity: 2.6,
		Variation:     0.7,
		Floor:         1.2,
		Position:      [3]float32{0, 0.8, 0},
		MaxOffset:     0.08,
		Range:         14,
		Decay:         2,
		HueShift:      6,
		LightShift:    0.05,
	}
}

func (c FireLightConfig) Validate() error {
	var errs []error
	if c.BaseIntensity <= 0 {
		errs = append(errs, fmt.Errorf("%w: base intensity must be > 0, got %v", ErrInvalidConfig, c.BaseIntensity))
	}
	if c.Variation < 0 || c.Floor < 0 {
		errs = append(errs, fmt.Errorf("%w: variation and floor must be >= 0", ErrInvalidConfig))
	}
	if c.MaxOffset < 0 || c.Range <= 0 {
		errs = append(errs, fmt.Errorf("%w: max offset must be >= 0 and range > 0", ErrInvalidConfig))
	}
	for _, v := range c.Color {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%w: color components must be in [0, 1], got %v", ErrInvalidConfig, c.Color))
			break
		}
	}
	return errors.Join(errs...)
}

type wave struct {
	freq, amp, phase float64
}

// flickerWaves approximate 1D gradient noise; the amplitudes sum to 1.
var flickerWaves = [5]wave{
	{freq: 10.0, amp: 0.25, phase: 0},
	{freq: 17.3, amp: 0.20, phase: 1.3},
	{freq: 4.7, amp: 0.25, phase: 2.1},
	{freq: 23.1, amp: 0.15, phase: 0.7},
	{freq: 2.3, amp: 0.15, phase: 4.2},
}

// Flicker is a deterministic function of elapsed time in [-1, 1].
func Flicker(t float64) float64 {
	var sum float64
	for _, w := range flickerWaves {
		sum += w.amp * math.Sin(t*w.freq+w.phase)
	}
	return sum
}

var jitterWaves = [3][2]wave{
	{{freq: 3.1, amp: 0.6, phase: 0.3}, {freq: 7.9, amp: 0.4, phase: 1.1}},
	{{freq: 2.3, amp: 0.6, phase: 2.0}, {freq: 6.1, amp: 0.4, phase: 0.4}},
	{{freq: 3.7, amp: 0.6, phase: 4.4}, {freq: 8.3, amp: 0.4, phase: 2.7}},
}

// FireLight is the warm point light over the fire. All of its perturbed
// state is recomputed from elapsed time on every update.
type FireLight struct {
	cfg  FireLightConfig
	base colorful.Color
	t    float64

	intensity float64
	color     [3]float32
	position  mgl32.Vec3
	disposed  bool
}

func NewFireLight(cfg FireLightConfig) (*FireLight, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &FireLight{
		cfg:  cfg,
		base: colorful.Color{R: cfg.Color[0], G: cfg.Color[1], B: cfg.Color[2]},
	}
	l.apply()
	return l, nil
}

func (l *FireLight) Update(dt float64) {
	if l.disposed || dt <= 0 {
		return
	}
	l.t += dt
	l.apply()
}

func (l *FireLight) apply() {
	n := Flicker(l.t)
	l.intensity = math.Max(l.cfg.Floor, l.cfg.BaseIntensity+n*l.cfg.Variation)

	// Brighter moments drift toward yellow, dimmer ones toward red.
	h, s, lum := l.base.Hsl()
	h = math.Mod(h+n*l.cfg.HueShift+360, 360)
	lum = math.Min(1, math.Max(0, lum+n*l.cfg.LightShift))
	c := colorful.Hsl(h, s, lum).Clamped()
	l.color = [3]float32{float32(c.R), float32(c.G), float32(c.B)}

	var off mgl32.Vec3
	for axis, waves := range jitterWaves {
		var v float64
		for _, w := range waves {
			v += w.amp * math.Sin(l.t*w.freq+w.phase)
		}
		off[axis] = float32(v * l.cfg.MaxOffset)
	}
	if max := float32(l.cfg.MaxOffset); off.Len() > max {
		off = off.Normalize().Mul(max)
	}
	l.position = mgl32.Vec3(l.cfg.Position).Add(off)
}

// Intensity never drops below the configured floor.
func (l *FireLight) Intensity() float64 { return l.intensity }

func (l *FireLight) Color() [3]float32 { return l.color }

func (l *FireLight) Position() mgl32.Vec3 { return l.position }

func (l *FireLight) RestPosition() mgl32.Vec3 { return mgl32.Vec3(l.cfg.Position) }

func (l *FireLight) Range() float64 { return l.cfg.Range }

func (l *FireLight) Decay() float64 { return l.cfg.Decay }

// Energy maps the current intensity to [0, 1] relative to the flicker
// range, which the fire shader uses to stay in step with the light.
func (l *FireLight) Energy() float64 {
	lo := math.Max(l.cfg.Floor, l.cfg.BaseIntensity-l.cfg.Variation)
	hi := l.cfg.BaseIntensity + l.cfg.Variation
	if hi <= lo {
		return 1
	}
	return math.Min(1, math.Max(0, (l.intensity-lo)/(hi-lo)))
}

func (l *FireLight) Disposed() bool { return l.disposed }

func (l *FireLight) Dispose() { l.disposed = true }
