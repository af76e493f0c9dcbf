// Package noise provides seedable simplex noise and the fractal
// compositions used by the procedural generators and the fire shader.
package noise

import "math"

// grad3 are the 12 gradient directions of 3D simplex noise (cube edge midpoints).
var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

const (
	f2 = 0.36602540378443864676 // (sqrt(3) - 1) / 2
	g2 = 0.21132486540518711775 // (3 - sqrt(3)) / 6
	f3 = 1.0 / 3.0
	g3 = 1.0 / 6.0
)

// Simplex is a seeded simplex noise field. Each generation pass owns its
// own instance; reseeding one instance never affects another.
type Simplex struct {
	seed      int64
	perm      [512]uint8
	permMod12 [512]uint8
}

// New returns a noise field seeded with seed.
func New(seed int64) *Simplex {
	s := &Simplex{}
	s.Seed(seed)
	return s
}

// Seed reinitializes the permutation table from seed. An identity table of
// 256 entries is shuffled with a linear-congruential Fisher-Yates pass and
// mirrored to 512 entries.
func (s *Simplex) Seed(seed int64) {
	s.seed = seed

	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}

	state := uint32(seed)
	for i := 255; i > 0; i-- {
		state = lcgStep(state)
		j := int(state % uint32(i+1))
		p[i], p[j] = p[j], p[i]
	}

	for i := 0; i < 512; i++ {
		s.perm[i] = p[i&255]
		s.permMod12[i] = s.perm[i] % 12
	}
}

// CurrentSeed returns the seed the table was last built from.
func (s *Simplex) CurrentSeed() int64 { return s.seed }

// Permutation returns the mirrored 512-entry permutation table widened to
// uint32, the layout the GPU shaders read from a storage buffer.
func (s *Simplex) Permutation() []uint32 {
	out := make([]uint32, len(s.perm))
	for i, v := range s.perm {
		out[i] = uint32(v)
	}
	return out
}

// Noise2D returns 2D simplex noise in [-1, 1].
func (s *Simplex) Noise2D(x, y float64) float64 {
	sk := (x + y) * f2
	i := fastFloor(x + sk)
	j := fastFloor(y + sk)

	t := float64(i+j) * g2
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)

	var i1, j1 int
	if x0 > y0 {
		i1 = 1
	} else {
		j1 = 1
	}

	x1 := x0 - float64(i1) + g2
	y1 := y0 - float64(j1) + g2
	x2 := x0 - 1.0 + 2.0*g2
	y2 := y0 - 1.0 + 2.0*g2

	ii := i & 255
	jj := j & 255
	gi0 := s.permMod12[ii+int(s.perm[jj])]
	gi1 := s.permMod12[ii+i1+int(s.perm[jj+j1])]
	gi2 := s.permMod12[ii+1+int(s.perm[jj+1])]

	n := corner2(gi0, x0, y0) + corner2(gi1, x1, y1) + corner2(gi2, x2, y2)
	return clampUnit(70.0 * n)
}

// Noise3D returns 3D simplex noise in [-1, 1].
func (s *Simplex) Noise3D(x, y, z float64) float64 {
	sk := (x + y + z) * f3
	i := fastFloor(x + sk)
	j := fastFloor(y + sk)
	k := fastFloor(z + sk)

	t := float64(i+j+k) * g3
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)
	z0 := z - (float64(k) - t)

	// Rank the skewed offsets to find which of the six tetrahedra holds the point.
	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		if y0 >= z0 {
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 1, 0
		} else if x0 >= z0 {
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 0, 1
		} else {
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 1, 0, 1
		}
	} else {
		if y0 < z0 {
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 0, 1, 1
		} else if x0 < z0 {
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 0, 1, 1
		} else {
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 1, 1, 0
		}
	}

	x1 := x0 - float64(i1) + g3
	y1 := y0 - float64(j1) + g3
	z1 := z0 - float64(k1) + g3
	x2 := x0 - float64(i2) + 2.0*g3
	y2 := y0 - float64(j2) + 2.0*g3
	z2 := z0 - float64(k2) + 2.0*g3
	x3 := x0 - 1.0 + 3.0*g3
	y3 := y0 - 1.0 + 3.0*g3
	z3 := z0 - 1.0 + 3.0*g3

	ii := i & 255
	jj := j & 255
	kk := k & 255
	gi0 := s.permMod12[ii+int(s.perm[jj+int(s.perm[kk])])]
	gi1 := s.permMod12[ii+i1+int(s.perm[jj+j1+int(s.perm[kk+k1])])]
	gi2 := s.permMod12[ii+i2+int(s.perm[jj+j2+int(s.perm[kk+k2])])]
	gi3 := s.permMod12[ii+1+int(s.perm[jj+1+int(s.perm[kk+1])])]

	n := corner3(gi0, x0, y0, z0) +
		corner3(gi1, x1, y1, z1) +
		corner3(gi2, x2, y2, z2) +
		corner3(gi3, x3, y3, z3)
	return clampUnit(32.0 * n)
}

// FBM3D sums octaves of Noise3D, multiplying frequency by lacunarity and
// amplitude by persistence each octave, normalized by the amplitude sum.
func (s *Simplex) FBM3D(x, y, z float64, octaves int, lacunarity, persistence float64) float64 {
	if octaves <= 0 {
		return 0
	}
	var total, norm float64
	amp, freq := 1.0, 1.0
	for o := 0; o < octaves; o++ {
		total += amp * s.Noise3D(x*freq, y*freq, z*freq)
		norm += amp
		freq *= lacunarity
		amp *= persistence
	}
	if norm == 0 {
		return 0
	}
	return total / norm
}

// Ridged3D folds each octave with 1-|n|, squares it and weights it by the
// previous octave's signal, which sharpens creases into ridges. The result
// lies in [0, 1].
func (s *Simplex) Ridged3D(x, y, z float64, octaves int, lacunarity, persistence float64) float64 {
	if octaves <= 0 {
		return 0
	}
	var total, norm float64
	amp, freq, weight := 1.0, 1.0, 1.0
	for o := 0; o < octaves; o++ {
		signal := 1.0 - math.Abs(s.Noise3D(x*freq, y*freq, z*freq))
		signal *= signal
		signal *= weight
		weight = clamp01(signal * 2.0)

		total += signal * amp
		norm += amp
		freq *= lacunarity
		amp *= persistence
	}
	if norm == 0 {
		return 0
	}
	return total / norm
}

func corner2(gi uint8, x, y float64) float64 {
	t := 0.5 - x*x - y*y
	if t < 0 {
		return 0
	}
	t *= t
	g := grad3[gi]
	return t * t * (g[0]*x + g[1]*y)
}

func corner3(gi uint8, x, y, z float64) float64 {
	t := 0.6 - x*x - y*y - z*z
	if t < 0 {
		return 0
	}
	t *= t
	g := grad3[gi]
	return t * t * (g[0]*x + g[1]*y + g[2]*z)
}

func fastFloor(x float64) int {
	xi := int(x)
	if x < float64(xi) {
		return xi - 1
	}
	return xi
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
