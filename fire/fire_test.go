package fire

import (
	"math"
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	s, err := NewState(DefaultConfig())
	require.NoError(t, err)
	return s
}

func TestFragment_TransparentAboveTop(t *testing.T) {
	s := newTestState(t)
	m := NewModel(s.Config().Seed)
	for _, dt := range []float64{0, 0.37, 2.5} {
		s.Update(dt)
		u := s.Uniforms(0)
		for _, angle := range []float64{0, 1, 2.5} {
			local := mgl32.Vec3{
				float32(0.01 * math.Cos(angle)),
				1.05 * u.Height,
				float32(0.01 * math.Sin(angle)),
			}
			f := m.Fragment(local, u)
			assert.Equal(t, float32(0), f.Alpha)
			assert.True(t, f.Discard)
		}
		assert.True(t, m.Sample(1.05, 0, 0, u).Discard)
		assert.True(t, m.Sample(1.0, 0, 0, u).Discard)
	}
}

func TestFragment_TopFadeAttenuates(t *testing.T) {
	s := newTestState(t)
	m := NewModel(1)
	u := s.Uniforms(0)

	mid := m.Sample(0.3, 0, 0, u)
	require.False(t, mid.Discard)
	assert.Greater(t, mid.Alpha, float32(0.1))

	nearTop := m.Sample(0.995, 0, 0, u)
	if !nearTop.Discard {
		assert.Less(t, nearTop.Alpha, mid.Alpha)
	}
}

func TestFragment_ContinuousAcrossAngleWrap(t *testing.T) {
	s := newTestState(t)
	m := NewModel(s.Config().Seed)
	const eps = 1e-4
	for _, dt := range []float64{0, 0.8, 3.1} {
		s.Update(dt)
		u := s.Uniforms(0)
		for h := 0.1; h < 0.8; h += 0.05 {
			r := 0.8 * math.Pow(1-h, 0.8)
			a := m.Sample(h, r, math.Pi-eps, u)
			b := m.Sample(h, r, -math.Pi+eps, u)
			assert.InDelta(t, float64(a.Alpha), float64(b.Alpha), 0.005, "h=%.2f", h)
		}
	}
}

func TestFragment_OutsideFlameDiscarded(t *testing.T) {
	s := newTestState(t)
	m := NewModel(1)
	u := s.Uniforms(0)
	for _, h := range []float64{0.1, 0.5, 0.8} {
		assert.True(t, m.Sample(h, 1.2, 0.4, u).Discard, "h=%v", h)
	}
}

func TestFragment_ZeroIntensityIsInvisible(t *testing.T) {
	s := newTestState(t)
	s.SetIntensity(0)
	m := NewModel(1)
	u := s.Uniforms(0)
	for _, h := range []float64{0.1, 0.4, 0.7} {
		assert.True(t, m.Sample(h, 0, 0, u).Discard)
	}
}

func TestFragment_GuardsDegenerateInput(t *testing.T) {
	m := NewModel(1)
	u := newTestState(t).Uniforms(0)

	f := m.Fragment(mgl32.Vec3{0, 0.5, 0}, u)
	assert.False(t, math.IsNaN(float64(f.Alpha)))

	u.Radius = 0
	assert.True(t, m.Fragment(mgl32.Vec3{0, 0.5, 0}, u).Discard)
	assert.True(t, m.Sample(math.NaN(), 0, 0, u).Discard)
}

func TestRamp_Stops(t *testing.T) {
	assert.Equal(t, [3]float32{0, 0, 0}, DefaultRamp.Color(-1))
	assert.Equal(t, [3]float32{1.0, 0.97, 0.85}, DefaultRamp.Color(2))
	atStop := DefaultRamp.Color(0.55)
	for k := 0; k < 3; k++ {
		assert.InDelta(t, DefaultRamp[3].Color[k], atStop[k], 1e-6)
	}

	c := DefaultRamp.Color(0.45)
	assert.InDelta(t, (0.85+1.0)/2, c[0], 1e-5)
	assert.InDelta(t, (0.12+0.45)/2, c[1], 1e-5)

	prev := float32(-1)
	for i := 0; i <= 20; i++ {
		c := DefaultRamp.Color(float32(i) / 20)
		assert.GreaterOrEqual(t, c[0]+c[1]+c[2], prev)
		prev = c[0] + c[1] + c[2]
	}
}

func TestState_Intensity(t *testing.T) {
	s := newTestState(t)
	s.SetIntensity(3)
	assert.Equal(t, 1.0, s.Intensity())
	s.SetIntensity(-1)
	assert.Equal(t, 0.0, s.Intensity())
	s.SetIntensity(0.4)
	assert.InDelta(t, 0.4, float64(s.Uniforms(1).Intensity), 1e-6)
}

func TestState_LayersRunOffsetClocks(t *testing.T) {
	s := newTestState(t)
	require.Equal(t, 2, s.LayerCount())
	s.Update(1.0)

	a, b := s.Uniforms(0), s.Uniforms(1)
	assert.InDelta(t, 1.0, float64(a.Time), 1e-6)
	assert.InDelta(t, 1.25+1.7, float64(b.Time), 1e-6)
	assert.NotEqual(t, a.Scale, b.Scale)

	s.Dispose()
	s.Update(1.0)
	assert.Equal(t, 1.0, s.Time())
}

func TestLayerUniforms_Layout(t *testing.T) {
	assert.Equal(t, uintptr(64), unsafe.Sizeof(LayerUniforms{}))
	assert.Equal(t, uintptr(48), unsafe.Offsetof(LayerUniforms{}.Scale))
}

func TestVertexDisplace(t *testing.T) {
	s := newTestState(t)
	s.Update(0.8)
	u := s.Uniforms(0)
	m := NewModel(3)

	base := mgl32.Vec3{0.5, 0, 0}
	assert.Equal(t, base, m.VertexDisplace(base, mgl32.Vec3{1, 0, 0}, u), "the base ring is anchored")

	limit := float64(u.Displacement + u.Sway*math.Sqrt2)
	for _, y := range []float32{0.4, 0.8, 1.2, 1.6} {
		p := mgl32.Vec3{0.2, y, 0.1}
		n := mgl32.Vec3{0.9, 0.3, 0.3}.Normalize()
		moved := m.VertexDisplace(p, n, u).Sub(p).Len()
		assert.LessOrEqual(t, float64(moved), limit+1e-5)
	}
}

func TestModel_Deterministic(t *testing.T) {
	u := newTestState(t).Uniforms(0)
	a, b := NewModel(5), NewModel(5)
	for i := 0; i < 20; i++ {
		h := float64(i) / 20
		assert.Equal(t, a.Sample(h, 0.2, 0.3, u), b.Sample(h, 0.2, 0.3, u))
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layers = nil
	cfg.TopFade = 1.2
	_, err := NewState(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
