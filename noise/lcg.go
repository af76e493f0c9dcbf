package noise

const (
	lcgMul = 1664525
	lcgInc = 1013904223
)

func lcgStep(s uint32) uint32 {
	return s*lcgMul + lcgInc
}

// LCG is the arrangement random source of the procedural generators. It is
// seeded in sync with the noise table but advances independently of it, so
// placement draws never disturb the field.
type LCG struct {
	state uint32
}

func NewLCG(seed int64) *LCG {
	return &LCG{state: uint32(seed)}
}

// Uint32 advances the generator and returns the new state.
func (g *LCG) Uint32() uint32 {
	g.state = lcgStep(g.state)
	return g.state
}

// Float64 returns a value in [0, 1).
func (g *LCG) Float64() float64 {
	return float64(g.Uint32()) / 4294967296.0
}

// Range returns a value in [min, max).
func (g *LCG) Range(min, max float64) float64 {
	return min + (max-min)*g.Float64()
}

// Intn returns a value in [0, n). n <= 0 yields 0.
func (g *LCG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(g.Float64() * float64(n))
}
