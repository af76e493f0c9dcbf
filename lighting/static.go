package lighting

import (
	"github.com/go-gl/mathgl/mgl32"
)

type MoonlightConfig struct {
	Direction [3]float32 `yaml:"direction"`
	Color     [3]float32 `yaml:"color"`
	Intensity float64    `yaml:"intensity"`
}

type AmbientConfig struct {
	Color     [3]float32 `yaml:"color"`
	Intensity float64    `yaml:"intensity"`
}

func DefaultMoonlightConfig() MoonlightConfig {
	return MoonlightConfig{
		Direction: [3]float32{-0.4, -1.0, -0.35},
		Color:     [3]float32{0.45, 0.55, 0.85},
		Intensity: 0.18,
	}
}

func DefaultAmbientConfig() AmbientConfig {
	return AmbientConfig{
		Color:     [3]float32{0.1, 0.12, 0.22},
		Intensity: 0.25,
	}
}

// Moonlight is a cool directional fill. It does not change per frame.
type Moonlight struct {
	direction mgl32.Vec3
	color     [3]float32
	intensity float64
	scale     float64
	disposed  bool
}

func NewMoonlight(cfg MoonlightConfig) *Moonlight {
	dir := mgl32.Vec3(cfg.Direction)
	if dir.Len() < 1e-6 {
		dir = mgl32.Vec3{0, -1, 0}
	}
	return &Moonlight{
		direction: dir.Normalize(),
		color:     cfg.Color,
		intensity: cfg.Intensity,
		scale:     1,
	}
}

func (m *Moonlight) Direction() mgl32.Vec3 { return m.direction }

func (m *Moonlight) Color() [3]float32 { return m.color }

func (m *Moonlight) Intensity() float64 { return m.intensity * m.scale }

// SetScale dims or restores the light scene-wide.
func (m *Moonlight) SetScale(x float64) { m.scale = clampScale(x) }

func (m *Moonlight) Dispose() { m.disposed = true }

type Ambient struct {
	color     [3]float32
	intensity float64
	scale     float64
	disposed  bool
}

func NewAmbient(cfg AmbientConfig) *Ambient {
	return &Ambient{color: cfg.Color, intensity: cfg.Intensity, scale: 1}
}

func (a *Ambient) Color() [3]float32 { return a.color }

func (a *Ambient) Intensity() float64 { return a.intensity * a.scale }

func (a *Ambient) SetScale(x float64) { a.scale = clampScale(x) }

func (a *Ambient) Dispose() { a.disposed = true }

func clampScale(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}
