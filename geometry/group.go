package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is one placed mesh of a generated group.
type Node struct {
	Name      string
	Mesh      *Mesh
	Material  *Material
	Transform Transform
}

// Group is the owner of everything a generator produced. Releasing it is the
// caller's job; see DisposeGroup.
type Group struct {
	Name     string
	Nodes    []*Node
	Children []*Group

	disposed bool
}

func NewGroup(name string) *Group {
	return &Group{Name: name}
}

func (g *Group) Add(nodes ...*Node) {
	g.Nodes = append(g.Nodes, nodes...)
}

func (g *Group) AddGroup(children ...*Group) {
	g.Children = append(g.Children, children...)
}

// Walk visits every node of the group and its children depth-first.
func (g *Group) Walk(fn func(*Node)) {
	if g == nil {
		return
	}
	for _, n := range g.Nodes {
		fn(n)
	}
	for _, c := range g.Children {
		c.Walk(fn)
	}
}

// NodeCount counts nodes recursively.
func (g *Group) NodeCount() int {
	count := 0
	g.Walk(func(*Node) { count++ })
	return count
}

func (g *Group) Disposed() bool { return g != nil && g.disposed }

// Dispose implements the scene disposer contract.
func (g *Group) Dispose() {
	DisposeGroup(g)
}

// DisposeGroup releases the mesh and material resources of every node.
// Shared materials are released once; repeated calls are no-ops.
func DisposeGroup(g *Group) {
	if g == nil || g.disposed {
		return
	}
	g.Walk(func(n *Node) {
		if n.Mesh != nil {
			n.Mesh.Dispose()
		}
		if n.Material != nil {
			n.Material.Dispose()
		}
	})
	markDisposed(g)
}

func markDisposed(g *Group) {
	g.disposed = true
	for _, c := range g.Children {
		markDisposed(c)
	}
}

// BoundingSphere returns a world-space sphere enclosing the node's mesh.
func (n *Node) BoundingSphere() (center mgl32.Vec3, radius float32) {
	if n.Mesh == nil || n.Mesh.VertexCount() == 0 {
		return n.Transform.Position, 0
	}
	lo, hi := n.Mesh.Bounds()
	center = n.Transform.Apply(lo.Add(hi).Mul(0.5))
	s := n.Transform.Scale
	scale := max(abs32(s.X()), abs32(s.Y()), abs32(s.Z()))
	return center, hi.Sub(lo).Len() * 0.5 * scale
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
