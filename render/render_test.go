package render

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/campfire/camera"
	"github.com/gekko3d/campfire/fire"
	"github.com/gekko3d/campfire/geometry"
	"github.com/gekko3d/campfire/lighting"
	"github.com/gekko3d/campfire/render/shaders"
	"github.com/gekko3d/campfire/sky"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32At(b []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[offset:]))
}

func TestGlobalsLayout(t *testing.T) {
	g := Globals{
		ViewProj:       mgl32.Ident4(),
		CameraPos:      mgl32.Vec3{1, 2, 3},
		Time:           4.5,
		FireRange:      14,
		LightIntensity: 2.6,
		MoonIntensity:  0.18,
		Decay:          2,
		AmbientLevel:   0.25,
		Sky:            sky.GradientUniforms{Zenith: [4]float32{0.1, 0.2, 0.3, 1}},
		FlameIntensity: 0.9,
		LightEnergy:    0.5,
		Viewport:       [2]float32{1280, 720},
	}
	b := g.Bytes()
	require.Len(t, b, GlobalsSize)

	assert.Equal(t, float32(1), f32At(b, 0))
	assert.Equal(t, float32(1), f32At(b, 20))
	assert.Equal(t, float32(3), f32At(b, 136))
	assert.Equal(t, float32(4.5), f32At(b, 140))
	assert.Equal(t, float32(14), f32At(b, 188))
	assert.Equal(t, float32(2.6), f32At(b, 204))
	assert.Equal(t, float32(0.18), f32At(b, 220))
	assert.Equal(t, float32(2), f32At(b, 236))
	assert.Equal(t, float32(0.25), f32At(b, 252))
	assert.Equal(t, float32(0.3), f32At(b, 264))
	assert.Equal(t, float32(0.9), f32At(b, 304))
	assert.Equal(t, float32(0.5), f32At(b, 308))
	assert.Equal(t, float32(1280), f32At(b, 312))
	assert.Equal(t, float32(720), f32At(b, 316))
}

func TestNodeUniformsFromMaterial(t *testing.T) {
	tr := geometry.NewTransform()
	tr.Position = mgl32.Vec3{2, 0, -1}
	n := &geometry.Node{Name: "rock", Transform: tr, Material: geometry.RockMaterial()}

	u := NodeUniformsFor(n)
	assert.True(t, u.Flat)
	b := u.Bytes()
	require.Len(t, b, NodeUniformsSize)

	// Translation lives in the fourth column of the model matrix.
	assert.Equal(t, float32(2), f32At(b, 48))
	assert.Equal(t, float32(-1), f32At(b, 56))
	assert.Equal(t, n.Material.Albedo[0], f32At(b, 128))
	assert.Equal(t, n.Material.Roughness, f32At(b, 140))
	assert.Equal(t, float32(1), f32At(b, 160))

	logNode := &geometry.Node{Transform: geometry.NewTransform(), Material: geometry.LogMaterial()}
	lb := NodeUniformsFor(logNode).Bytes()
	assert.Equal(t, logNode.Material.EmissiveStrength, f32At(lb, 156))
	assert.Equal(t, float32(0), f32At(lb, 160))
}

func TestLayerBytes(t *testing.T) {
	u := fire.LayerUniforms{
		Time:      1.5,
		Intensity: 0.8,
		MinAlpha:  0.02,
		Height:    1.6,
		Radius:    0.5,
		Scale:     [3]float32{1, 1.2, 1},
		Phase:     0.7,
	}
	b := LayerBytes(u)
	require.Len(t, b, LayerSize)
	assert.Equal(t, float32(1.5), f32At(b, 0))
	assert.Equal(t, float32(0.8), f32At(b, 4))
	assert.Equal(t, float32(0.02), f32At(b, 32))
	assert.Equal(t, float32(1.6), f32At(b, 40))
	assert.Equal(t, float32(0.5), f32At(b, 44))
	assert.Equal(t, float32(1.2), f32At(b, 52))
	assert.Equal(t, float32(0.7), f32At(b, 60))
}

func TestRampBytesPadsWithLastStop(t *testing.T) {
	b := RampBytes(fire.DefaultRamp)
	require.Len(t, b, RampSize)

	last := fire.DefaultRamp[len(fire.DefaultRamp)-1]
	for i := len(fire.DefaultRamp); i < RampStops; i++ {
		off := i * 16
		assert.Equal(t, last.Color[0], f32At(b, off))
		assert.GreaterOrEqual(t, f32At(b, off+12), float32(1))
	}
	assert.Equal(t, fire.DefaultRamp[2].At, f32At(b, 2*16+12))

	assert.Len(t, RampBytes(nil), RampSize)
}

func TestPermutationBytesMatchesModel(t *testing.T) {
	perm := fire.NewModel(11).Noise().Permutation()
	b := PermutationBytes(perm)
	require.Len(t, b, 512*4)
	for i := 0; i < 512; i += 37 {
		assert.Equal(t, perm[i], binary.LittleEndian.Uint32(b[i*4:]))
	}
}

func TestPostUniforms(t *testing.T) {
	b := PostUniforms{Exposure: 1.1, Grain: 0.03, Texel: [2]float32{0.5, 0.25}}.Bytes()
	require.Len(t, b, PostSize)
	assert.Equal(t, float32(1.1), f32At(b, 0))
	assert.Equal(t, float32(0.03), f32At(b, 20))
	assert.Equal(t, float32(0.25), f32At(b, 36))
}

func TestFrameGlobals(t *testing.T) {
	light, err := lighting.NewFireLight(lighting.DefaultFireLightConfig())
	require.NoError(t, err)
	state, err := fire.NewState(fire.DefaultConfig())
	require.NoError(t, err)
	stars, err := sky.NewStarfield(sky.DefaultConfig())
	require.NoError(t, err)
	cam := camera.NewOrbit(camera.DefaultConfig(), 1280, 720)

	f := &Frame{
		Time:      2,
		Camera:    cam,
		FireLight: light,
		Moonlight: lighting.NewMoonlight(lighting.DefaultMoonlightConfig()),
		Ambient:   lighting.NewAmbient(lighting.DefaultAmbientConfig()),
		Sky:       stars,
		Fire:      state,
	}
	g := f.Globals(1280, 720)

	assert.Equal(t, cam.Position(), g.CameraPos)
	assert.InDelta(t, 0, g.CameraUp.Dot(g.CameraRight), 1e-5)
	assert.InDelta(t, 0, g.CameraUp.Dot(cam.Forward()), 1e-5)
	assert.Greater(t, g.CameraUp[1], float32(0))
	assert.Equal(t, float32(light.Intensity()), g.LightIntensity)
	assert.Equal(t, float32(state.Intensity()), g.FlameIntensity)
	assert.Equal(t, stars.Gradient(), g.Sky)

	// The inverse maps the far plane back in front of the camera.
	far := g.InvViewProj.Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	dir := far.Vec3().Mul(1 / far[3]).Sub(g.CameraPos).Normalize()
	assert.InDelta(t, 1, dir.Dot(cam.Forward()), 1e-3)

	assert.Len(t, f.Layers(), state.LayerCount())
	state.Dispose()
	assert.Empty(t, f.Layers())
}

func TestFrameNodesSkipDisposedMeshes(t *testing.T) {
	group, err := geometry.CreateCampfire(geometry.DefaultCampfireOptions())
	require.NoError(t, err)
	f := &Frame{Campfire: group}
	nodes := f.Nodes()
	require.Len(t, nodes, group.NodeCount())

	nodes[0].Mesh.Dispose()
	assert.Len(t, f.Nodes(), group.NodeCount()-1)

	assert.Empty(t, (&Frame{}).Nodes())
}

func TestFrameVisibleNodesCullsBehindCamera(t *testing.T) {
	group, err := geometry.CreateCampfire(geometry.DefaultCampfireOptions())
	require.NoError(t, err)
	cam := camera.NewOrbit(camera.DefaultConfig(), 1280, 720)

	// The last node walked is a log; the ground disc is too large to fall
	// fully behind the camera.
	var log *geometry.Node
	group.Walk(func(n *geometry.Node) { log = n })
	require.NotNil(t, log)
	behind := &geometry.Node{Name: "behind", Mesh: log.Mesh, Material: log.Material, Transform: geometry.NewTransform()}
	behind.Transform.Position = cam.Position().Add(cam.Forward().Mul(-20))
	group.Add(behind)

	f := &Frame{Campfire: group, Camera: cam}
	visible := f.VisibleNodes()
	assert.Len(t, visible, group.NodeCount()-1)
	assert.NotContains(t, visible, behind)

	f.Camera = nil
	assert.Len(t, f.VisibleNodes(), group.NodeCount())
}

func TestHUDAtlas(t *testing.T) {
	hud, err := NewHUD(16)
	require.NoError(t, err)

	for _, r := range "fps 60.0 embers 123/800" {
		_, ok := hud.Glyphs[r]
		assert.True(t, ok, "missing glyph %q", r)
	}
	g := hud.Glyphs['A']
	assert.Greater(t, g.UVMax[0], g.UVMin[0])
	assert.Greater(t, g.Adv, float32(0))

	// Space has no quad; two visible glyphs give twelve vertices.
	items := hud.Layout([]string{"a b"}, 1, [4]float32{1, 1, 1, 1})
	verts := hud.BuildVertices(items, 800, 600)
	assert.Len(t, verts, 12)
	for _, v := range verts {
		assert.GreaterOrEqual(t, v.Pos[0], float32(-1))
		assert.LessOrEqual(t, v.Pos[1], float32(1))
	}
	assert.Len(t, textVertexBytes(verts), len(verts)*textVertexSize)

	assert.Nil(t, hud.BuildVertices(items, 0, 600))
}

func TestHUDLayoutStacksLines(t *testing.T) {
	hud, err := NewHUD(16)
	require.NoError(t, err)

	items := hud.Layout([]string{"one", "two", "three"}, 1, [4]float32{})
	require.Len(t, items, 3)
	assert.Equal(t, items[0].Position[1]+hud.LineHeight(1), items[1].Position[1])

	w1, h1 := hud.MeasureText("ab", 1)
	w2, h2 := hud.MeasureText("ab\nabcd", 1)
	assert.Greater(t, w2, w1)
	assert.InDelta(t, 2*h1, h2, 1e-4)

	var nilHUD *HUD
	w, h := nilHUD.MeasureText("x", 1)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestMeshCacheKeyedById(t *testing.T) {
	uploads := 0
	cache := newMeshCache(func(m *geometry.Mesh) (*gpuMesh, error) {
		uploads++
		return &gpuMesh{indexCount: uint32(len(m.Indices))}, nil
	})

	a := geometry.Cone(0.5, 1.6, 12, 4)
	b := geometry.Cone(0.5, 1.6, 12, 4)

	ga, err := cache.get(a)
	require.NoError(t, err)
	again, err := cache.get(a)
	require.NoError(t, err)
	assert.Same(t, ga, again)
	assert.Equal(t, uint32(len(a.Indices)), ga.indexCount)
	assert.Same(t, ga, a.GPU())

	_, err = cache.get(b)
	require.NoError(t, err)
	assert.Equal(t, 2, uploads)
	assert.Equal(t, 2, cache.len())

	// Disposing the mesh releases its buffers and evicts the entry.
	a.Dispose()
	assert.True(t, ga.released)
	assert.Equal(t, 1, cache.len())

	cache.release()
	assert.Zero(t, cache.len())
	b.Dispose()
}

func TestMeshCacheUploadError(t *testing.T) {
	boom := errors.New("boom")
	cache := newMeshCache(func(*geometry.Mesh) (*gpuMesh, error) { return nil, boom })
	m := geometry.Cone(0.5, 1, 8, 2)
	_, err := cache.get(m)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, cache.len())
	assert.Nil(t, m.GPU())
}

func TestChoosePresentMode(t *testing.T) {
	all := []wgpu.PresentMode{wgpu.PresentModeFifo, wgpu.PresentModeImmediate, wgpu.PresentModeMailbox}
	assert.Equal(t, wgpu.PresentModeFifo, choosePresentMode(all, true))
	assert.Equal(t, wgpu.PresentModeMailbox, choosePresentMode(all, false))
	assert.Equal(t, wgpu.PresentModeImmediate, choosePresentMode([]wgpu.PresentMode{wgpu.PresentModeImmediate}, false))
	assert.Equal(t, wgpu.PresentModeFifo, choosePresentMode(nil, false))
}

func TestShaderSources(t *testing.T) {
	for name, src := range map[string]string{
		"common": shaders.CommonWGSL, "noise": shaders.NoiseWGSL, "sky": shaders.SkyWGSL,
		"stars": shaders.StarsWGSL, "mesh": shaders.MeshWGSL, "fire": shaders.FireWGSL,
		"particles": shaders.ParticlesWGSL, "post": shaders.PostWGSL, "text": shaders.TextWGSL,
	} {
		assert.NotEmpty(t, strings.TrimSpace(src), name)
	}

	fireSrc := shaders.Compose(shaders.CommonWGSL, shaders.NoiseWGSL, shaders.FireWGSL)
	assert.Contains(t, fireSrc, "var<storage, read> perm: array<u32, 512>")
	assert.Contains(t, fireSrc, "fn vs_main")
	assert.Contains(t, fireSrc, "fn fs_main")
	assert.Contains(t, shaders.ParticlesWGSL, "fn fs_ember")
	assert.Contains(t, shaders.ParticlesWGSL, "fn fs_smoke")
}
