package geometry

import (
	"fmt"
	"math"

	"github.com/gekko3d/campfire/noise"
)

// CreateGround builds the terrain disc. Vertices within FlatRadius of the
// fire pit stay at y=0; beyond it FBM height is blended in over Blend.
func CreateGround(opts GroundOptions) (*Group, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("ground: %w", err)
	}

	field := noise.New(opts.Seed)
	m := Disc(float32(opts.Radius), opts.Segments, opts.Rings)

	for i := 0; i < m.VertexCount(); i++ {
		p := m.Vertex(i)
		dist := math.Hypot(float64(p[0]), float64(p[2]))
		mask := smoothstep(opts.FlatRadius, opts.FlatRadius+opts.Blend, dist)
		if mask == 0 {
			continue
		}
		h := field.FBM3D(float64(p[0])*opts.NoiseScale, 0, float64(p[2])*opts.NoiseScale, opts.Octaves, 2.0, 0.5)
		p[1] = float32(h * opts.Height * mask)
		m.SetVertex(i, p)
	}
	m.ComputeNormals()

	g := NewGroup("ground")
	g.Add(&Node{
		Name:      "ground",
		Mesh:      m,
		Material:  GroundMaterial(),
		Transform: NewTransform(),
	})
	return g, nil
}

// CreateCampfire generates the full static composition. On failure nothing
// generated so far is left alive.
func CreateCampfire(opts CampfireOptions) (*Group, error) {
	root := NewGroup("campfire")

	ground, err := CreateGround(opts.Ground)
	if err != nil {
		return nil, err
	}
	root.AddGroup(ground)

	rocks, err := CreateRockRing(opts.Rocks)
	if err != nil {
		DisposeGroup(root)
		return nil, err
	}
	root.AddGroup(rocks)

	logs, err := CreateLogTeepee(opts.Logs)
	if err != nil {
		DisposeGroup(root)
		return nil, err
	}
	root.AddGroup(logs)

	return root, nil
}
