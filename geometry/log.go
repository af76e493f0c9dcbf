package geometry

import (
	"fmt"
	"math"

	"github.com/gekko3d/campfire/noise"
	"github.com/go-gl/mathgl/mgl32"
)

// CreateLog builds one bark-covered log along the local Y axis.
func CreateLog(opts LogOptions) (*Mesh, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return buildLog(opts, noise.New(opts.Seed)), nil
}

// buildLog displaces the side of a tapered cylinder radially. Noise is
// sampled on (cos θ, y, sin θ) so the seam column matches exactly, and the
// bark fades out toward both ends so the untouched caps stay sealed.
func buildLog(opts LogOptions, field *noise.Simplex) *Mesh {
	length := float32(opts.Length)
	radius := float32(opts.Radius)
	m, kinds := cylinder(radius*float32(opts.Taper), radius, length, opts.RadialSegments, opts.HeightSegments, true)

	half := float64(length) / 2
	for i, kind := range kinds {
		if kind == kindCap {
			continue
		}
		p := m.Vertex(i)
		theta := math.Atan2(float64(p[2]), float64(p[0]))
		y := float64(p[1])

		s := opts.BarkScale
		cx, cz := math.Cos(theta)*s, math.Sin(theta)*s
		grain := field.FBM3D(cx, y*s*0.5, cz, opts.Octaves, 2.0, 0.5)
		grooves := field.Ridged3D(cx*2, y*s*0.15, cz*2, 2, 2.0, 0.5)
		bark := 0.6*grain + 0.8*(grooves-0.5)

		edge := half - math.Abs(y)
		fade := smoothstep(0, 0.08*float64(length), edge)
		k := float32(1 + bark*opts.BarkDepth*fade)
		m.SetVertex(i, mgl32.Vec3{p[0] * k, p[1], p[2] * k})
	}

	m.ComputeNormals()
	return m
}

// TeepeePlacement returns the ground contact point, the tip and the
// contact-to-tip length of a log leaning at tilt radians from vertical
// toward azimuth, with its tip at (0, meetHeight, 0).
func TeepeePlacement(tilt, azimuth, meetHeight float64) (contact, tip mgl32.Vec3, length float64) {
	r := meetHeight * math.Tan(tilt)
	contact = mgl32.Vec3{float32(r * math.Cos(azimuth)), 0, float32(r * math.Sin(azimuth))}
	tip = mgl32.Vec3{0, float32(meetHeight), 0}
	length = meetHeight / math.Cos(tilt)
	return
}

// CreateLogTeepee leans Count logs so their tips converge near MeetHeight
// above the fire. Log i uses noise seed Seed+i.
func CreateLogTeepee(opts TeepeeOptions) (*Group, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("log teepee: %w", err)
	}

	rng := noise.NewLCG(opts.Seed)
	field := noise.New(opts.Seed)
	material := LogMaterial()
	group := NewGroup("logs")

	step := 2 * math.Pi / float64(opts.Count)
	for i := 0; i < opts.Count; i++ {
		azimuth := float64(i)*step + (rng.Float64()*2-1)*opts.AzimuthJitter*step
		tilt := rng.Range(opts.TiltMin, opts.TiltMax)
		contact, tip, reach := TeepeePlacement(tilt, azimuth, opts.MeetHeight)

		log := opts.Log
		log.Seed = opts.Seed + int64(i)
		log.Length = reach * (1 + opts.Overshoot)
		field.Seed(log.Seed)
		mesh := buildLog(log, field)

		dir := tip.Sub(contact).Normalize()
		tr := NewTransform()
		tr.Rotation = mgl32.QuatBetweenVectors(mgl32.Vec3{0, 1, 0}, dir)
		// The mesh is centred, so shift it half its length from the contact
		// point and lift it by its radius to rest on the ground.
		tr.Position = contact.Add(dir.Mul(float32(log.Length / 2))).Add(mgl32.Vec3{0, float32(log.Radius), 0})

		group.Add(&Node{
			Name:      fmt.Sprintf("log-%d", i),
			Mesh:      mesh,
			Material:  material,
			Transform: tr,
		})
	}
	return group, nil
}

func smoothstep(edge0, edge1, x float64) float64 {
	if edge1 <= edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}
