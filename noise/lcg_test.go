package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLCG_Sequence(t *testing.T) {
	g := NewLCG(0)
	assert.Equal(t, uint32(1013904223), g.Uint32())
	assert.Equal(t, uint32(1196435762), g.Uint32())
}

func TestLCG_RangeBounds(t *testing.T) {
	g := NewLCG(42)
	for i := 0; i < 10000; i++ {
		v := g.Range(1.4, 1.8)
		if v < 1.4 || v >= 1.8 {
			t.Fatalf("Range out of bounds: %v", v)
		}
		n := g.Intn(7)
		if n < 0 || n >= 7 {
			t.Fatalf("Intn out of bounds: %v", n)
		}
	}
	assert.Equal(t, 0, g.Intn(0))
}

func TestLCG_Reproducible(t *testing.T) {
	a, b := NewLCG(9), NewLCG(9)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}
