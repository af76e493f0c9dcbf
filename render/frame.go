package render

import (
	"github.com/gekko3d/campfire/camera"
	"github.com/gekko3d/campfire/fire"
	"github.com/gekko3d/campfire/geometry"
	"github.com/gekko3d/campfire/lighting"
	"github.com/gekko3d/campfire/particles"
	"github.com/gekko3d/campfire/sky"
)

// Frame is everything one Render call draws. It only reads from the
// components; the renderer never advances simulation state.
type Frame struct {
	Time      float64
	Camera    *camera.Orbit
	FireLight *lighting.FireLight
	Moonlight *lighting.Moonlight
	Ambient   *lighting.Ambient
	Sky       *sky.Starfield
	Fire      *fire.State
	Campfire  *geometry.Group
	Embers    particles.Buffers
	Smoke     particles.Buffers

	// Permutation is the noise table of the flame model; the flame shader
	// samples it so the GPU matches fire.Model.
	Permutation []uint32

	// HUD lines, drawn top-left when the overlay is enabled.
	HUD []string
}

// Globals derives the group 0 uniform block for a viewport of the given size.
func (f *Frame) Globals(width, height int) Globals {
	g := Globals{
		Time:     float32(f.Time),
		Viewport: [2]float32{float32(width), float32(height)},
	}
	if c := f.Camera; c != nil {
		vp := c.ViewProjection()
		g.ViewProj = vp
		g.InvViewProj = vp.Inv()
		g.CameraPos = c.Position()
		g.CameraRight = c.Right()
		g.CameraUp = g.CameraRight.Cross(c.Forward()).Normalize()
	}
	if l := f.FireLight; l != nil {
		g.FirePos = l.Position()
		g.FireRange = float32(l.Range())
		g.FireColor = l.Color()
		g.LightIntensity = float32(l.Intensity())
		g.Decay = float32(l.Decay())
		g.LightEnergy = float32(l.Energy())
	}
	if m := f.Moonlight; m != nil {
		g.MoonDir = m.Direction()
		g.MoonColor = m.Color()
		g.MoonIntensity = float32(m.Intensity())
	}
	if a := f.Ambient; a != nil {
		g.Ambient = a.Color()
		g.AmbientLevel = float32(a.Intensity())
	}
	if f.Sky != nil {
		g.Sky = f.Sky.Gradient()
	}
	if f.Fire != nil {
		g.FlameIntensity = float32(f.Fire.Intensity())
	}
	return g
}

// Layers returns the uniforms of every flame layer.
func (f *Frame) Layers() []fire.LayerUniforms {
	if f.Fire == nil || f.Fire.Disposed() {
		return nil
	}
	out := make([]fire.LayerUniforms, f.Fire.LayerCount())
	for i := range out {
		out[i] = f.Fire.Uniforms(i)
	}
	return out
}

// VisibleNodes is Nodes without the ones whose bounding sphere lies
// outside the camera frustum. Without a camera nothing is culled.
func (f *Frame) VisibleNodes() []*geometry.Node {
	nodes := f.Nodes()
	if f.Camera == nil {
		return nodes
	}
	planes := camera.Frustum(f.Camera.ViewProjection())
	visible := nodes[:0]
	for _, n := range nodes {
		center, radius := n.BoundingSphere()
		if camera.SphereVisible(planes, center, radius) {
			visible = append(visible, n)
		}
	}
	return visible
}

// Nodes flattens the campfire group in draw order.
func (f *Frame) Nodes() []*geometry.Node {
	var nodes []*geometry.Node
	f.Campfire.Walk(func(n *geometry.Node) {
		if n.Mesh != nil && !n.Mesh.Disposed() {
			nodes = append(nodes, n)
		}
	})
	return nodes
}
