// Package geometry builds the static procedural meshes of the campfire:
// base primitives, noise-displaced rocks, logs and ground, and the ring and
// teepee arrangements that place them.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type MeshId = string

// Releaser is a GPU-side handle owned by a mesh or material.
type Releaser interface {
	Release()
}

// Mesh is an indexed triangle mesh with flat attribute arrays. Positions
// and Normals hold xyz triples; Indices are counter-clockwise front faces.
type Mesh struct {
	Id        MeshId
	Positions []float32
	Normals   []float32
	Indices   []uint32

	gpu      Releaser
	disposed bool

	// Cached local bounds, cleared whenever a vertex changes.
	bmin, bmax mgl32.Vec3
	boundsOK   bool
}

func newMesh(vertexCap, indexCap int) *Mesh {
	return &Mesh{
		Id:        makeMeshId(),
		Positions: make([]float32, 0, vertexCap*3),
		Normals:   make([]float32, 0, vertexCap*3),
		Indices:   make([]uint32, 0, indexCap),
	}
}

func makeMeshId() MeshId {
	return uuid.NewString()
}

func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *Mesh) Vertex(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2]}
}

func (m *Mesh) SetVertex(i int, v mgl32.Vec3) {
	m.boundsOK = false
	m.Positions[i*3] = v[0]
	m.Positions[i*3+1] = v[1]
	m.Positions[i*3+2] = v[2]
}

func (m *Mesh) Normal(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]}
}

func (m *Mesh) addVertex(p, n mgl32.Vec3) uint32 {
	m.boundsOK = false
	idx := uint32(m.VertexCount())
	m.Positions = append(m.Positions, p[0], p[1], p[2])
	m.Normals = append(m.Normals, n[0], n[1], n[2])
	return idx
}

func (m *Mesh) addTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// ComputeNormals rebuilds per-vertex normals as the area-weighted sum of the
// adjacent face normals. Vertices without a usable face keep a +Y normal.
func (m *Mesh) ComputeNormals() {
	n := m.VertexCount()
	acc := make([]mgl32.Vec3, n)

	for t := 0; t+2 < len(m.Indices); t += 3 {
		ia, ib, ic := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		a, b, c := m.Vertex(int(ia)), m.Vertex(int(ib)), m.Vertex(int(ic))
		face := b.Sub(a).Cross(c.Sub(a))
		acc[ia] = acc[ia].Add(face)
		acc[ib] = acc[ib].Add(face)
		acc[ic] = acc[ic].Add(face)
	}

	if len(m.Normals) != len(m.Positions) {
		m.Normals = make([]float32, len(m.Positions))
	}
	for i, v := range acc {
		l := v.Len()
		if l < 1e-12 || math.IsNaN(float64(l)) {
			v = mgl32.Vec3{0, 1, 0}
		} else {
			v = v.Mul(1 / l)
		}
		m.Normals[i*3] = v[0]
		m.Normals[i*3+1] = v[1]
		m.Normals[i*3+2] = v[2]
	}
}

// Bounds returns the axis-aligned extent of the mesh in local space.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if m.boundsOK {
		return m.bmin, m.bmax
	}
	if m.VertexCount() == 0 {
		return
	}
	min = m.Vertex(0)
	max = min
	for i := 1; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		for k := 0; k < 3; k++ {
			min[k] = float32(math.Min(float64(min[k]), float64(v[k])))
			max[k] = float32(math.Max(float64(max[k]), float64(v[k])))
		}
	}
	m.bmin, m.bmax, m.boundsOK = min, max, true
	return
}

// AttachGPU hands the mesh the GPU resource created for it. A previously
// attached handle is released.
func (m *Mesh) AttachGPU(r Releaser) {
	if m.gpu != nil && m.gpu != r {
		m.gpu.Release()
	}
	m.gpu = r
}

func (m *Mesh) GPU() Releaser { return m.gpu }

func (m *Mesh) Disposed() bool { return m.disposed }

// Dispose releases the GPU handle. Safe to call more than once.
func (m *Mesh) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	if m.gpu != nil {
		m.gpu.Release()
		m.gpu = nil
	}
}
