package sky

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStarfield_UpperHemisphere(t *testing.T) {
	cfg := DefaultConfig()
	s, err := NewStarfield(cfg)
	require.NoError(t, err)
	require.Len(t, s.Positions(), cfg.StarCount*4)

	for i := 0; i < s.Count(); i++ {
		p := s.Positions()[i*4 : i*4+4]
		r := math.Sqrt(float64(p[0]*p[0] + p[1]*p[1] + p[2]*p[2]))
		assert.InDelta(t, float64(cfg.Radius), r, 1e-3)
		assert.GreaterOrEqual(t, float64(p[1]), cfg.MinElevation*float64(cfg.Radius)-1e-4)
		assert.GreaterOrEqual(t, p[3], cfg.SizeMin)
		assert.LessOrEqual(t, p[3], cfg.SizeMax)
	}
}

func TestStarfield_Deterministic(t *testing.T) {
	a, _ := NewStarfield(DefaultConfig())
	b, _ := NewStarfield(DefaultConfig())
	assert.Equal(t, a.Positions(), b.Positions())

	cfg := DefaultConfig()
	cfg.Seed++
	c, _ := NewStarfield(cfg)
	assert.NotEqual(t, a.Positions(), c.Positions())
}

func TestStarfield_TwinkleBounded(t *testing.T) {
	s, err := NewStarfield(DefaultConfig())
	require.NoError(t, err)
	before := append([]float32(nil), s.Brightness()...)

	s.Update(0.7)
	changed := false
	for i, b := range s.Brightness() {
		assert.GreaterOrEqual(t, b, float32(0))
		assert.LessOrEqual(t, b, float32(1))
		if b != before[i] {
			changed = true
		}
	}
	assert.True(t, changed)
}

func TestStarfield_Gradient(t *testing.T) {
	s, _ := NewStarfield(DefaultConfig())
	cfg := DefaultConfig()
	assert.Equal(t, cfg.Horizon, s.GradientAt(0))
	assert.InDeltaSlice(t, cfg.Zenith[:], sliceOf(s.GradientAt(1)), 1e-6)
	assert.InDeltaSlice(t, cfg.Ground[:], sliceOf(s.GradientAt(-1)), 1e-6)
	assert.Equal(t, float32(1), s.Gradient().Zenith[3])
}

func TestStarfield_ValidateAndDispose(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Radius = 0
	cfg.SizeMax = 0
	_, err := NewStarfield(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	s, _ := NewStarfield(DefaultConfig())
	s.Dispose()
	s.Dispose()
	assert.True(t, s.Disposed())
	s.Update(1)
	assert.Nil(t, s.Brightness())
}

func sliceOf(v [3]float32) []float32 { return v[:] }
