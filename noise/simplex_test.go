package noise

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goldenTolerance = 1e-9

func TestSimplex_GoldenValues(t *testing.T) {
	n := New(42)

	cases := []struct {
		x, y, z float64
		want    float64
	}{
		{0.1, 0.2, 0.3, 0.9219708266666663},
		{1.5, -2.25, 3.75, -0.08201250000000013},
		{-7.3, 4.1, 0.6, -0.16088685353086496},
		{12.34, 56.78, -9.1, -0.4064843975607567},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, n.Noise3D(c.x, c.y, c.z), goldenTolerance, "Noise3D(%v, %v, %v)", c.x, c.y, c.z)
	}

	assert.InDelta(t, 0.27874194436638805, n.Noise2D(0.7, -1.3), goldenTolerance)
	assert.InDelta(t, -0.5719078235264617, n.Noise2D(3.3, 2.2), goldenTolerance)
	assert.InDelta(t, -0.2752520370561402, n.FBM3D(0.37, 1.13, 2.71, 5, 2.0, 0.5), goldenTolerance)

	assert.InDelta(t, 0.037439935999999896, New(7).Noise3D(0.1, 0.2, 0.3), goldenTolerance)
}

func TestSimplex_PermutationTable(t *testing.T) {
	n := New(42)
	perm := n.Permutation()
	require.Len(t, perm, 512)
	assert.Equal(t, []uint32{124, 34, 26, 200, 24, 220, 22, 52}, perm[:8])

	seen := make(map[uint32]bool)
	for i := 0; i < 256; i++ {
		assert.Equal(t, perm[i], perm[i+256], "table must be mirrored at %d", i)
		seen[perm[i]] = true
	}
	assert.Len(t, seen, 256, "first half must be a permutation of 0..255")
}

func TestSimplex_LatticePointsAreZero(t *testing.T) {
	n := New(1234)
	for _, p := range [][3]float64{{0, 0, 0}, {1, 2, 3}, {-4, 7, -9}} {
		assert.Equal(t, 0.0, n.Noise3D(p[0], p[1], p[2]))
	}
	assert.Equal(t, 0.0, n.Noise2D(0, 0))
}

func TestSimplex_Determinism(t *testing.T) {
	a := New(99)
	b := New(99)
	for i := 0; i < 100; i++ {
		x, y, z := float64(i)*0.173, float64(i)*-0.391, float64(i)*0.057
		require.Equal(t, a.Noise3D(x, y, z), b.Noise3D(x, y, z))
		require.Equal(t, a.Noise3D(x, y, z), a.Noise3D(x, y, z))
	}
}

func TestSimplex_ReseedRestoresField(t *testing.T) {
	n := New(5)
	before := n.Noise3D(0.3, 0.6, 0.9)

	n.Seed(6)
	other := n.Noise3D(0.3, 0.6, 0.9)
	assert.NotEqual(t, before, other)

	n.Seed(5)
	assert.Equal(t, before, n.Noise3D(0.3, 0.6, 0.9))
	assert.Equal(t, int64(5), n.CurrentSeed())
}

func TestSimplex_InstancesAreIndependent(t *testing.T) {
	a := New(11)
	want := a.Noise3D(1.1, 2.2, 3.3)

	b := New(11)
	b.Seed(12)

	assert.Equal(t, want, a.Noise3D(1.1, 2.2, 3.3))
}

func TestSimplex_Range(t *testing.T) {
	n := New(2024)
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20000; i++ {
		x := (r.Float64() - 0.5) * 200
		y := (r.Float64() - 0.5) * 200
		z := (r.Float64() - 0.5) * 200

		v3 := n.Noise3D(x, y, z)
		if v3 < -1 || v3 > 1 || math.IsNaN(v3) {
			t.Fatalf("Noise3D(%v, %v, %v) = %v out of range", x, y, z, v3)
		}
		v2 := n.Noise2D(x, y)
		if v2 < -1 || v2 > 1 || math.IsNaN(v2) {
			t.Fatalf("Noise2D(%v, %v) = %v out of range", x, y, v2)
		}
	}
}

func TestSimplex_FBMBounded(t *testing.T) {
	n := New(77)
	r := rand.New(rand.NewSource(2))
	for _, octaves := range []int{1, 2, 4, 8} {
		for i := 0; i < 2000; i++ {
			x, y, z := r.Float64()*50, r.Float64()*50, r.Float64()*50
			v := n.FBM3D(x, y, z, octaves, 2.0, 0.5)
			if v < -1 || v > 1 {
				t.Fatalf("FBM3D octaves=%d out of range: %v", octaves, v)
			}
		}
	}
}

func TestSimplex_RidgedBounded(t *testing.T) {
	n := New(3)
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		x, y, z := r.Float64()*20, r.Float64()*20, r.Float64()*20
		v := n.Ridged3D(x, y, z, 4, 2.1, 0.5)
		if v < 0 || v > 1 {
			t.Fatalf("Ridged3D out of range: %v", v)
		}
	}
}

func TestSimplex_ZeroOctaves(t *testing.T) {
	n := New(1)
	assert.Equal(t, 0.0, n.FBM3D(1, 2, 3, 0, 2, 0.5))
	assert.Equal(t, 0.0, n.Ridged3D(1, 2, 3, -1, 2, 0.5))
}
