package geometry

import (
	"fmt"
	"math"

	"github.com/gekko3d/campfire/noise"
	"github.com/go-gl/mathgl/mgl32"
)

// CreateRock builds a single rock mesh from a fresh noise field seeded with
// opts.Seed.
func CreateRock(opts RockOptions) (*Mesh, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return buildRock(opts, noise.New(opts.Seed)), nil
}

// buildRock displaces an icosahedron along each vertex's outward direction
// by a blend of FBM and ridged noise, then squashes the underside so the
// rock sits on the ground. field must already be seeded.
func buildRock(opts RockOptions, field *noise.Simplex) *Mesh {
	m := Icosahedron(float32(opts.Radius), opts.Detail)
	floor := -opts.FlattenBottom * opts.Radius

	for i := 0; i < m.VertexCount(); i++ {
		dir := m.Vertex(i).Normalize()
		nx := float64(dir[0]) * opts.NoiseScale
		ny := float64(dir[1]) * opts.NoiseScale
		nz := float64(dir[2]) * opts.NoiseScale

		fbm := field.FBM3D(nx, ny, nz, opts.Octaves, 2.0, 0.5)
		ridge := field.Ridged3D(nx*1.7, ny*1.7, nz*1.7, opts.Octaves, 2.1, 0.5)
		d := (1-opts.RidgeWeight)*fbm + opts.RidgeWeight*(ridge*2-1)

		r := opts.Radius * (1 + d*opts.Roughness)
		p := dir.Mul(float32(r))
		if opts.FlattenBottom > 0 && float64(p[1]) < floor {
			p[1] = float32(floor + (float64(p[1])-floor)*0.25)
		}
		m.SetVertex(i, p)
	}

	m.ComputeNormals()
	return m
}

// CreateRockRing places Count rocks in evenly spaced angular slots around
// the origin. Each slot gets bounded angular jitter, a radius inside
// [InnerRadius, OuterRadius], a per-axis scale and a yaw. Rock i uses noise
// seed Seed+i; placement draws come from an LCG seeded with Seed.
func CreateRockRing(opts RockRingOptions) (*Group, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("rock ring: %w", err)
	}

	rng := noise.NewLCG(opts.Seed)
	field := noise.New(opts.Seed)
	material := RockMaterial()
	group := NewGroup("rocks")

	slot := 2 * math.Pi / float64(opts.Count)
	for i := 0; i < opts.Count; i++ {
		angle := float64(i)*slot + (rng.Float64()*2-1)*opts.AngleJitter*slot
		radius := rng.Range(opts.InnerRadius, opts.OuterRadius)
		scale := mgl32.Vec3{
			float32(rng.Range(opts.ScaleMin, opts.ScaleMax)),
			float32(rng.Range(opts.ScaleMin, opts.ScaleMax) * opts.HeightScale),
			float32(rng.Range(opts.ScaleMin, opts.ScaleMax)),
		}
		yaw := float32(rng.Float64() * 2 * math.Pi)

		rock := opts.Rock
		rock.Seed = opts.Seed + int64(i)
		field.Seed(rock.Seed)
		mesh := buildRock(rock, field)

		tr := NewTransform()
		lift := rock.Radius * rock.FlattenBottom * float64(scale[1])
		tr.Position = mgl32.Vec3{
			float32(radius * math.Cos(angle)),
			float32(lift),
			float32(radius * math.Sin(angle)),
		}
		tr.Rotation = mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})
		tr.Scale = scale

		group.Add(&Node{
			Name:      fmt.Sprintf("rock-%d", i),
			Mesh:      mesh,
			Material:  material,
			Transform: tr,
		})
	}
	return group, nil
}
