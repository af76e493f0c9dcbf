package render

import (
	"encoding/binary"
	"math"

	"github.com/gekko3d/campfire/fire"
	"github.com/gekko3d/campfire/geometry"
	"github.com/gekko3d/campfire/sky"
	"github.com/go-gl/mathgl/mgl32"
)

// Sizes of the uniform blocks as laid out in the WGSL.
const (
	GlobalsSize      = 320
	NodeUniformsSize = 176
	LayerSize        = 64
	PostSize         = 48
	RampStops        = 8
	RampSize         = RampStops * 16
)

// Globals is the per-frame block bound at group 0 of every scene pass.
type Globals struct {
	ViewProj    mgl32.Mat4
	InvViewProj mgl32.Mat4
	CameraPos   mgl32.Vec3
	Time        float32
	CameraRight mgl32.Vec3
	CameraUp    mgl32.Vec3

	FirePos        mgl32.Vec3
	FireRange      float32
	FireColor      [3]float32
	LightIntensity float32
	MoonDir        mgl32.Vec3
	MoonIntensity  float32
	MoonColor      [3]float32
	Decay          float32
	Ambient        [3]float32
	AmbientLevel   float32
	Sky            sky.GradientUniforms

	FlameIntensity float32
	LightEnergy    float32
	Viewport       [2]float32
}

type packer struct {
	buf []byte
}

func newPacker(size int) *packer {
	return &packer{buf: make([]byte, 0, size)}
}

func (p *packer) f32(vs ...float32) {
	for _, v := range vs {
		p.buf = binary.LittleEndian.AppendUint32(p.buf, math.Float32bits(v))
	}
}

func (p *packer) vec4(v [3]float32, w float32) {
	p.f32(v[0], v[1], v[2], w)
}

// mat4 writes column-major, the order mgl32 stores and WGSL expects.
func (p *packer) mat4(m mgl32.Mat4) {
	p.f32(m[:]...)
}

func (p *packer) pad(size int) []byte {
	for len(p.buf) < size {
		p.buf = append(p.buf, 0)
	}
	return p.buf
}

func (g *Globals) Bytes() []byte {
	p := newPacker(GlobalsSize)
	p.mat4(g.ViewProj)
	p.mat4(g.InvViewProj)
	p.vec4(g.CameraPos, g.Time)
	p.vec4(g.CameraRight, 0)
	p.vec4(g.CameraUp, 0)
	p.vec4(g.FirePos, g.FireRange)
	p.vec4(g.FireColor, g.LightIntensity)
	p.vec4(g.MoonDir, g.MoonIntensity)
	p.vec4(g.MoonColor, g.Decay)
	p.vec4(g.Ambient, g.AmbientLevel)
	p.f32(g.Sky.Zenith[:]...)
	p.f32(g.Sky.Horizon[:]...)
	p.f32(g.Sky.Ground[:]...)
	p.f32(g.FlameIntensity, g.LightEnergy, g.Viewport[0], g.Viewport[1])
	return p.pad(GlobalsSize)
}

// NodeUniforms is the group 1 block of the mesh pass.
type NodeUniforms struct {
	Model            mgl32.Mat4
	Normal           mgl32.Mat4
	Albedo           [3]float32
	Roughness        float32
	Emissive         [3]float32
	EmissiveStrength float32
	Flat             bool
}

func NodeUniformsFor(n *geometry.Node) NodeUniforms {
	u := NodeUniforms{
		Model:  n.Transform.Matrix(),
		Normal: n.Transform.NormalMatrix(),
	}
	if m := n.Material; m != nil {
		u.Albedo = m.Albedo
		u.Roughness = m.Roughness
		u.Emissive = m.Emissive
		u.EmissiveStrength = m.EmissiveStrength
		u.Flat = m.Shading == geometry.ShadingFlat
	}
	return u
}

func (u NodeUniforms) Bytes() []byte {
	p := newPacker(NodeUniformsSize)
	p.mat4(u.Model)
	p.mat4(u.Normal)
	p.vec4(u.Albedo, u.Roughness)
	p.vec4(u.Emissive, u.EmissiveStrength)
	flat := float32(0)
	if u.Flat {
		flat = 1
	}
	p.f32(flat, 0, 0, 0)
	return p.pad(NodeUniformsSize)
}

// LayerBytes packs one flame layer. Scale is a vec3 and starts on the
// 16-byte boundary after the twelve scalars.
func LayerBytes(u fire.LayerUniforms) []byte {
	p := newPacker(LayerSize)
	p.f32(u.Time, u.Intensity, u.NoiseScale, u.ScrollSpeed,
		u.Displacement, u.Sway, u.TopFade, u.BottomFade,
		u.MinAlpha, u.Brightness, u.Height, u.Radius)
	p.vec4(u.Scale, u.Phase)
	return p.pad(LayerSize)
}

// RampBytes packs a color ramp into RampStops vec4s (rgb, position).
// Shorter ramps repeat their last stop; longer ones are truncated.
func RampBytes(r fire.Ramp) []byte {
	p := newPacker(RampSize)
	for i := 0; i < RampStops && len(r) > 0; i++ {
		s := r[min(i, len(r)-1)]
		at := s.At
		if i >= len(r) {
			at = max(at, 1)
		}
		p.vec4(s.Color, at)
	}
	return p.pad(RampSize)
}

// PermutationBytes widens the noise permutation for the storage buffer.
func PermutationBytes(perm []uint32) []byte {
	out := make([]byte, 0, len(perm)*4)
	for _, v := range perm {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}

// PostUniforms drives the composite pass.
type PostUniforms struct {
	Exposure  float32
	Threshold float32
	Strength  float32
	Radius    float32
	Vignette  float32
	Grain     float32
	Time      float32
	Texel     [2]float32
}

func (u PostUniforms) Bytes() []byte {
	p := newPacker(PostSize)
	p.f32(u.Exposure, u.Threshold, u.Strength, u.Radius)
	p.f32(u.Vignette, u.Grain, u.Time, 0)
	p.f32(u.Texel[0], u.Texel[1], 0, 0)
	return p.pad(PostSize)
}
