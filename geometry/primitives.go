package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type vertexKind uint8

const (
	kindSide vertexKind = iota
	kindCap
)

// Icosahedron returns a geodesic sphere of the given radius. Each detail
// level splits every face into four; vertices are shared between faces so
// displacement along the normal never opens cracks.
func Icosahedron(radius float32, detail int) *Mesh {
	t := float32((1.0 + math.Sqrt(5.0)) / 2.0)
	base := []mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	faces := []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	verts := make([]mgl32.Vec3, len(base))
	for i, v := range base {
		verts[i] = v.Normalize()
	}

	type edge struct{ a, b uint32 }
	for d := 0; d < detail; d++ {
		cache := make(map[edge]uint32)
		midpoint := func(a, b uint32) uint32 {
			key := edge{a, b}
			if a > b {
				key = edge{b, a}
			}
			if idx, ok := cache[key]; ok {
				return idx
			}
			mid := verts[a].Add(verts[b]).Mul(0.5).Normalize()
			verts = append(verts, mid)
			idx := uint32(len(verts) - 1)
			cache[key] = idx
			return idx
		}

		next := make([]uint32, 0, len(faces)*4)
		for f := 0; f < len(faces); f += 3 {
			a, b, c := faces[f], faces[f+1], faces[f+2]
			ab := midpoint(a, b)
			bc := midpoint(b, c)
			ca := midpoint(c, a)
			next = append(next,
				a, ab, ca,
				b, bc, ab,
				c, ca, bc,
				ab, bc, ca,
			)
		}
		faces = next
	}

	m := newMesh(len(verts), len(faces))
	for _, v := range verts {
		m.addVertex(v.Mul(radius), v)
	}
	m.Indices = append(m.Indices, faces...)
	return m
}

// Cylinder returns a Y-aligned cylinder centred on the origin, tapering
// from radiusBottom to radiusTop. The seam column is duplicated so every
// side vertex has a unique (angle, height) parameterization.
func Cylinder(radiusTop, radiusBottom, height float32, radialSegments, heightSegments int, capped bool) *Mesh {
	m, _ := cylinder(radiusTop, radiusBottom, height, radialSegments, heightSegments, capped)
	return m
}

func cylinder(radiusTop, radiusBottom, height float32, radialSegments, heightSegments int, capped bool) (*Mesh, []vertexKind) {
	if radialSegments < 3 {
		radialSegments = 3
	}
	if heightSegments < 1 {
		heightSegments = 1
	}

	cols := radialSegments + 1
	rows := heightSegments + 1
	m := newMesh(cols*rows+2*(radialSegments+2), radialSegments*heightSegments*6+radialSegments*6)
	kinds := make([]vertexKind, 0, cols*rows+2*(radialSegments+2))

	half := height / 2
	slope := (radiusBottom - radiusTop) / height
	for r := 0; r < rows; r++ {
		v := float32(r) / float32(heightSegments)
		y := -half + v*height
		radius := radiusBottom + (radiusTop-radiusBottom)*v
		for c := 0; c < cols; c++ {
			theta := float64(c) / float64(radialSegments) * 2 * math.Pi
			cos, sin := float32(math.Cos(theta)), float32(math.Sin(theta))
			p := mgl32.Vec3{radius * cos, y, radius * sin}
			n := mgl32.Vec3{cos, slope, sin}.Normalize()
			m.addVertex(p, n)
			kinds = append(kinds, kindSide)
		}
	}
	for r := 0; r < heightSegments; r++ {
		for c := 0; c < radialSegments; c++ {
			a := uint32(r*cols + c)
			b := a + 1
			up := a + uint32(cols)
			upRight := up + 1
			m.addTriangle(a, up, b)
			m.addTriangle(b, up, upRight)
		}
	}

	if capped {
		for _, top := range []bool{false, true} {
			y, radius, ny := -half, radiusBottom, float32(-1)
			if top {
				y, radius, ny = half, radiusTop, 1
			}
			normal := mgl32.Vec3{0, ny, 0}
			center := m.addVertex(mgl32.Vec3{0, y, 0}, normal)
			kinds = append(kinds, kindCap)
			first := uint32(m.VertexCount())
			for c := 0; c < cols; c++ {
				theta := float64(c) / float64(radialSegments) * 2 * math.Pi
				p := mgl32.Vec3{radius * float32(math.Cos(theta)), y, radius * float32(math.Sin(theta))}
				m.addVertex(p, normal)
				kinds = append(kinds, kindCap)
			}
			for c := 0; c < radialSegments; c++ {
				p0 := first + uint32(c)
				p1 := p0 + 1
				if top {
					m.addTriangle(center, p1, p0)
				} else {
					m.addTriangle(center, p0, p1)
				}
			}
		}
	}
	return m, kinds
}

// Disc returns a flat disc in the XZ plane facing +Y, built from a centre
// vertex and concentric rings so it can be displaced smoothly.
func Disc(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 1 {
		rings = 1
	}
	up := mgl32.Vec3{0, 1, 0}
	m := newMesh(1+segments*rings, segments*3+(rings-1)*segments*6)

	center := m.addVertex(mgl32.Vec3{}, up)
	for r := 1; r <= rings; r++ {
		rr := radius * float32(r) / float32(rings)
		for s := 0; s < segments; s++ {
			theta := float64(s) / float64(segments) * 2 * math.Pi
			m.addVertex(mgl32.Vec3{rr * float32(math.Cos(theta)), 0, rr * float32(math.Sin(theta))}, up)
		}
	}

	ring := func(r, s int) uint32 {
		return uint32(1 + (r-1)*segments + s%segments)
	}
	for s := 0; s < segments; s++ {
		m.addTriangle(center, ring(1, s+1), ring(1, s))
	}
	for r := 1; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a, b := ring(r, s), ring(r, s+1)
			c, d := ring(r+1, s), ring(r+1, s+1)
			m.addTriangle(a, b, c)
			m.addTriangle(b, d, c)
		}
	}
	return m
}

// Cone returns an open-ended cone with its base ring at y=0 and its apex
// at y=height. The apex is a degenerate ring so each column keeps its own
// normal for shader displacement.
func Cone(radius, height float32, radialSegments, heightSegments int) *Mesh {
	if radialSegments < 3 {
		radialSegments = 3
	}
	if heightSegments < 1 {
		heightSegments = 1
	}
	cols := radialSegments + 1
	rows := heightSegments + 1
	m := newMesh(cols*rows, radialSegments*heightSegments*6)

	slope := radius / height
	for r := 0; r < rows; r++ {
		v := float32(r) / float32(heightSegments)
		rr := radius * (1 - v)
		for c := 0; c < cols; c++ {
			theta := float64(c) / float64(radialSegments) * 2 * math.Pi
			cos, sin := float32(math.Cos(theta)), float32(math.Sin(theta))
			m.addVertex(mgl32.Vec3{rr * cos, v * height, rr * sin}, mgl32.Vec3{cos, slope, sin}.Normalize())
		}
	}
	for r := 0; r < heightSegments; r++ {
		for c := 0; c < radialSegments; c++ {
			a := uint32(r*cols + c)
			b := a + 1
			up := a + uint32(cols)
			m.addTriangle(a, up, b)
			m.addTriangle(b, up, up+1)
		}
	}
	return m
}
