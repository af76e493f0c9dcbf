package fire

import (
	"math"

	"github.com/gekko3d/campfire/noise"
	"github.com/go-gl/mathgl/mgl32"
)

// Fragment is the shaded result of one flame sample.
type Fragment struct {
	Color   [3]float32
	Alpha   float32
	Discard bool
}

// octaveWeights of the hand-rolled turbulence; they sum to 0.9375.
var octaveWeights = [4]float64{0.5, 0.25, 0.125, 0.0625}

const octaveNorm = 0.9375

// Model evaluates the flame shader on the CPU. It samples the same noise
// permutation that is uploaded to the GPU, so the terminal preview and the
// tests see the flame the WGSL draws.
type Model struct {
	field *noise.Simplex
	ramp  Ramp
}

func NewModel(seed int64) *Model {
	return &Model{field: noise.New(seed), ramp: DefaultRamp}
}

// Noise exposes the field whose permutation table feeds the GPU shader.
func (m *Model) Noise() *noise.Simplex { return m.field }

// VertexDisplace moves a cone vertex along its normal by scrolling FBM,
// stronger toward the tip, and adds a slow horizontal sway.
func (m *Model) VertexDisplace(pos, normal mgl32.Vec3, u LayerUniforms) mgl32.Vec3 {
	if u.Height <= 0 {
		return pos
	}
	t := float64(u.Time)
	ns := float64(u.NoiseScale)
	x, y, z := float64(pos[0]), float64(pos[1]), float64(pos[2])
	h := clamp01(y / float64(u.Height))

	n := m.field.FBM3D(x*ns, y*ns-t*float64(u.ScrollSpeed), z*ns, 3, 2.0, 0.5)
	disp := float32(n * float64(u.Displacement) * math.Pow(h, 1.5))
	out := pos.Add(normal.Mul(disp))

	sway := float64(u.Sway) * h
	out[0] += float32(math.Sin(t*1.7+y*2.0) * sway)
	out[2] += float32(math.Cos(t*1.3+y*1.6) * sway)
	return out
}

// Fragment shades a point given in cone-local space (y from 0 at the base
// to Height at the tip).
func (m *Model) Fragment(local mgl32.Vec3, u LayerUniforms) Fragment {
	if u.Height <= 0 || u.Radius <= 0 {
		return Fragment{Discard: true}
	}
	h := float64(local[1]) / float64(u.Height)
	r := math.Hypot(float64(local[0]), float64(local[2])) / float64(u.Radius)
	angle := 0.0
	if r > 1e-6 {
		angle = math.Atan2(float64(local[2]), float64(local[0]))
	}
	return m.Sample(h, r, angle, u)
}

// Sample shades a point by normalized height h, normalized radial distance
// r and angle around the flame axis. Points at or above the top, or at or
// below the base, are fully transparent.
func (m *Model) Sample(h, r, angle float64, u LayerUniforms) Fragment {
	if h >= 1 || h <= 0 || math.IsNaN(h) || math.IsNaN(r) {
		return Fragment{Discard: true}
	}
	t := float64(u.Time)
	ns := float64(u.NoiseScale)
	scroll := t * float64(u.ScrollSpeed)

	px := r * math.Cos(angle)
	pz := r * math.Sin(angle)

	// Width narrows with height; noise keeps the silhouette from being a cone.
	// Sampling on a circle keeps it continuous across atan2's ±π cut.
	edge := m.field.Noise3D(math.Cos(angle)*edgeRing, h*ns*1.5-scroll, math.Sin(angle)*edgeRing+t*0.3)
	width := math.Pow(1-h, 0.8) * (0.85 + 0.15*edge)
	mask := 1 - smoothstep(width*0.55, width, r)

	var turb float64
	freq := 1.0
	for o, w := range octaveWeights {
		rise := scroll * (1 + float64(o)*0.5)
		turb += w * m.field.Noise3D(px*ns*freq, h*ns*freq-rise, pz*ns*freq)
		freq *= 2
	}
	turb = 0.5 + 0.5*turb/octaveNorm

	core := (1 - math.Min(r, 1))
	core = core * core * (1 - h)

	temp := mask * (0.35 + 0.65*core) * (0.6 + 0.6*turb) * float64(u.Brightness) * (0.5 + 0.5*float64(u.Intensity))
	temp = clamp01(temp)

	topFade := 1 - smoothstep(float64(u.TopFade), 1, h)
	bottomFade := smoothstep(0, float64(u.BottomFade), h)
	flicker := 0.85 + 0.15*(0.5*math.Sin(t*11+float64(u.Phase))+0.3*math.Sin(t*23+h*4)+0.2*math.Sin(t*5.3))

	alpha := mask * topFade * bottomFade * flicker * float64(u.Intensity) * (0.4 + 0.6*turb)
	if alpha < float64(u.MinAlpha) || alpha <= 0 {
		return Fragment{Discard: true}
	}
	return Fragment{
		Color: m.ramp.Color(float32(temp)),
		Alpha: float32(math.Min(alpha, 1)),
	}
}

// edgeRing is the radius of the circle the silhouette noise is sampled on.
const edgeRing = 0.8

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func smoothstep(edge0, edge1, x float64) float64 {
	if edge1 <= edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
