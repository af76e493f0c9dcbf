// Package render draws the campfire scene with WebGPU: sky, lit meshes,
// flame layers, smoke and ember billboards, an optional HDR composite with
// bloom, and a text overlay.
package render

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/campfire/config"
	"github.com/gekko3d/campfire/fire"
	"github.com/gekko3d/campfire/geometry"
	"github.com/gekko3d/campfire/particles"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	ErrNoAdapter = errors.New("render: no suitable GPU adapter")
	ErrNoDevice  = errors.New("render: could not create GPU device")
	ErrDisposed  = errors.New("render: renderer disposed")
)

const hdrFormat = wgpu.TextureFormatRGBA16Float

var hudColor = [4]float32{1, 0.92, 0.75, 0.9}

type uniformSlot struct {
	buf *wgpu.Buffer
	bg  *wgpu.BindGroup
}

func (s uniformSlot) release() {
	release(s.bg)
	release(s.buf)
}

type particleGPU struct {
	positions, life, sizes, phases *wgpu.Buffer
}

func (p *particleGPU) release() {
	release(p.positions, p.life, p.sizes, p.phases)
}

type Renderer struct {
	cfg   config.RenderConfig
	vsync bool

	instance   *wgpu.Instance
	surface    *wgpu.Surface
	adapter    *wgpu.Adapter
	device     *wgpu.Device
	queue      *wgpu.Queue
	surfaceCfg *wgpu.SurfaceConfiguration

	pipes   *pipelines
	sampler *wgpu.Sampler

	depthTex  *wgpu.Texture
	depthView *wgpu.TextureView
	hdrTex    *wgpu.Texture
	hdrView   *wgpu.TextureView
	postBuf   *wgpu.Buffer
	postBG    *wgpu.BindGroup

	globalsBuf *wgpu.Buffer
	globalsBG  *wgpu.BindGroup

	meshes *meshCache
	nodes  []uniformSlot
	layers []uniformSlot
	perm   *wgpu.Buffer
	ramp   *wgpu.Buffer
	permOf []uint32

	starPositions *wgpu.Buffer
	starBright    *wgpu.Buffer
	starCount     uint32
	embers        particleGPU
	smoke         particleGPU

	hud         *HUD
	atlasTex    *wgpu.Texture
	atlasView   *wgpu.TextureView
	textBG      *wgpu.BindGroup
	textVB      *wgpu.Buffer
	textVertexN uint32

	minimized bool
	disposed  bool
}

// New sets up the device and every pass for window. On error everything
// created so far is released.
func New(window *glfw.Window, cfg config.RenderConfig, vsync bool) (_ *Renderer, err error) {
	r := &Renderer{cfg: cfg, vsync: vsync}
	defer func() {
		if err != nil {
			r.Dispose()
		}
	}()

	r.instance = wgpu.CreateInstance(nil)
	r.surface = r.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	r.adapter, err = r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: r.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoAdapter, err)
	}
	if r.adapter == nil {
		return nil, ErrNoAdapter
	}

	r.device, err = r.adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "Campfire Device"})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
	}
	r.queue = r.device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := r.surface.GetCapabilities(r.adapter)
	if len(caps.Formats) == 0 {
		return nil, fmt.Errorf("%w: surface reports no formats", ErrNoAdapter)
	}
	r.surfaceCfg = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: choosePresentMode(caps.PresentModes, vsync),
		AlphaMode:   caps.AlphaModes[0],
	}
	r.surface.Configure(r.adapter, r.device, r.surfaceCfg)
	r.minimized = width == 0 || height == 0

	sceneFormat := r.surfaceCfg.Format
	if cfg.Post.Enabled {
		sceneFormat = hdrFormat
	}
	if r.pipes, err = createPipelines(r.device, sceneFormat, r.surfaceCfg.Format, cfg.Post.Enabled); err != nil {
		return nil, err
	}

	r.sampler, err = r.device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0.,
		LodMaxClamp:   1.,
		Compare:       wgpu.CompareFunctionUndefined,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("creating sampler: %w", err)
	}

	if err = r.setupGlobals(); err != nil {
		return nil, err
	}
	r.meshes = newMeshCache(func(m *geometry.Mesh) (*gpuMesh, error) {
		return uploadMesh(r.device, m)
	})
	if err = r.setupTargets(); err != nil {
		return nil, err
	}
	if cfg.HUD {
		if err = r.setupHUD(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func choosePresentMode(modes []wgpu.PresentMode, vsync bool) wgpu.PresentMode {
	if vsync {
		return wgpu.PresentModeFifo
	}
	for _, m := range []wgpu.PresentMode{wgpu.PresentModeMailbox, wgpu.PresentModeImmediate} {
		if slices.Contains(modes, m) {
			return m
		}
	}
	return wgpu.PresentModeFifo
}

func (r *Renderer) setupGlobals() error {
	var err error
	r.globalsBuf, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Globals",
		Size:  GlobalsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("creating globals buffer: %w", err)
	}
	r.globalsBG, err = r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Globals",
		Layout:  r.pipes.globalsLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: r.globalsBuf, Size: GlobalsSize}},
	})
	if err != nil {
		return fmt.Errorf("creating globals bind group: %w", err)
	}
	r.ramp, err = r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Fire Ramp",
		Contents: RampBytes(fire.DefaultRamp),
		Usage:    wgpu.BufferUsageUniform,
	})
	if err != nil {
		return fmt.Errorf("creating ramp buffer: %w", err)
	}
	return nil
}

// setupTargets (re)creates the size-dependent depth and HDR textures.
func (r *Renderer) setupTargets() error {
	release(r.postBG)
	release(r.depthView, r.hdrView)
	release(r.depthTex, r.hdrTex)
	r.postBG, r.depthView, r.hdrView, r.depthTex, r.hdrTex = nil, nil, nil, nil, nil

	size := wgpu.Extent3D{Width: r.surfaceCfg.Width, Height: r.surfaceCfg.Height, DepthOrArrayLayers: 1}
	var err error
	r.depthTex, err = r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("creating depth texture: %w", err)
	}
	if r.depthView, err = r.depthTex.CreateView(nil); err != nil {
		return fmt.Errorf("creating depth view: %w", err)
	}

	if !r.cfg.Post.Enabled {
		return nil
	}
	r.hdrTex, err = r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "HDR",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        hdrFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("creating HDR target: %w", err)
	}
	if r.hdrView, err = r.hdrTex.CreateView(nil); err != nil {
		return fmt.Errorf("creating HDR view: %w", err)
	}
	if r.postBuf == nil {
		r.postBuf, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Post",
			Size:  PostSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("creating post buffer: %w", err)
		}
	}
	layout := r.pipes.post.GetBindGroupLayout(0)
	defer layout.Release()
	r.postBG, err = r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Post",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: r.hdrView},
			{Binding: 1, Sampler: r.sampler},
			{Binding: 2, Buffer: r.postBuf, Size: PostSize},
		},
	})
	if err != nil {
		return fmt.Errorf("creating post bind group: %w", err)
	}
	return nil
}

func (r *Renderer) setupHUD() error {
	size := 16 * r.cfg.HUDScale
	if size <= 0 {
		size = 16
	}
	hud, err := NewHUD(size)
	if err != nil {
		return fmt.Errorf("building HUD atlas: %w", err)
	}
	r.hud = hud

	w, h := hud.Atlas.Bounds().Dx(), hud.Atlas.Bounds().Dy()
	r.atlasTex, err = r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Text Atlas",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("creating text atlas: %w", err)
	}
	r.queue.WriteTexture(r.atlasTex.AsImageCopy(), hud.Atlas.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(w),
		RowsPerImage: uint32(h),
	}, &wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})

	if r.atlasView, err = r.atlasTex.CreateView(nil); err != nil {
		return fmt.Errorf("creating text atlas view: %w", err)
	}
	layout := r.pipes.text.GetBindGroupLayout(0)
	defer layout.Release()
	r.textBG, err = r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: r.atlasView},
			{Binding: 1, Sampler: r.sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("creating text bind group: %w", err)
	}
	return nil
}

// Resize reconfigures the surface and rebuilds the depth and HDR targets.
// A zero-sized framebuffer (minimized window) pauses drawing.
func (r *Renderer) Resize(width, height int) error {
	if r.disposed {
		return ErrDisposed
	}
	if width <= 0 || height <= 0 {
		r.minimized = true
		return nil
	}
	r.minimized = false
	if r.surfaceCfg.Width == uint32(width) && r.surfaceCfg.Height == uint32(height) && r.depthTex != nil {
		return nil
	}
	r.surfaceCfg.Width = uint32(width)
	r.surfaceCfg.Height = uint32(height)
	r.surface.Configure(r.adapter, r.device, r.surfaceCfg)
	return r.setupTargets()
}

func (r *Renderer) Size() (int, int) {
	return int(r.surfaceCfg.Width), int(r.surfaceCfg.Height)
}

// ensureBuffer grows buf to hold data and uploads it. It reports whether
// the buffer was recreated, in which case bind groups pointing at it are
// stale.
func (r *Renderer) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage) (bool, error) {
	needed := uint64(max(len(data), 4))
	if needed%4 != 0 {
		needed += 4 - needed%4
	}
	grown := false
	if *buf == nil || (*buf).GetSize() < needed {
		release(*buf)
		b, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name,
			Size:  needed,
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			*buf = nil
			return false, fmt.Errorf("creating %s buffer: %w", name, err)
		}
		*buf = b
		grown = true
	}
	if len(data) > 0 {
		r.queue.WriteBuffer(*buf, 0, data)
	}
	return grown, nil
}

func (r *Renderer) nodeSlot(i int) (uniformSlot, error) {
	for len(r.nodes) <= i {
		buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Node",
			Size:  NodeUniformsSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return uniformSlot{}, fmt.Errorf("creating node buffer: %w", err)
		}
		bg, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   "Node",
			Layout:  r.pipes.nodeLayout,
			Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: buf, Size: NodeUniformsSize}},
		})
		if err != nil {
			buf.Release()
			return uniformSlot{}, fmt.Errorf("creating node bind group: %w", err)
		}
		r.nodes = append(r.nodes, uniformSlot{buf: buf, bg: bg})
	}
	return r.nodes[i], nil
}

// syncPermutation uploads the noise table the flame layers sample. Layer
// bind groups reference it and are rebuilt when the table changes.
func (r *Renderer) syncPermutation(perm []uint32) error {
	if r.perm != nil && slices.Equal(r.permOf, perm) {
		return nil
	}
	for _, s := range r.layers {
		s.release()
	}
	r.layers = nil
	release(r.perm)
	var err error
	r.perm, err = r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Noise Permutation",
		Contents: PermutationBytes(perm),
		Usage:    wgpu.BufferUsageStorage,
	})
	if err != nil {
		return fmt.Errorf("creating permutation buffer: %w", err)
	}
	r.permOf = slices.Clone(perm)
	return nil
}

func (r *Renderer) layerSlot(i int) (uniformSlot, error) {
	for len(r.layers) <= i {
		buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Flame Layer",
			Size:  LayerSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return uniformSlot{}, fmt.Errorf("creating layer buffer: %w", err)
		}
		bg, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Flame Layer",
			Layout: r.pipes.flameLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: buf, Size: LayerSize},
				{Binding: 1, Buffer: r.perm, Size: wgpu.WholeSize},
				{Binding: 2, Buffer: r.ramp, Size: RampSize},
			},
		})
		if err != nil {
			buf.Release()
			return uniformSlot{}, fmt.Errorf("creating layer bind group: %w", err)
		}
		r.layers = append(r.layers, uniformSlot{buf: buf, bg: bg})
	}
	return r.layers[i], nil
}

func (r *Renderer) uploadParticles(name string, dst *particleGPU, b particles.Buffers) (uint32, error) {
	n := uint32(len(b.Life))
	if n == 0 {
		return 0, nil
	}
	for _, up := range []struct {
		suffix string
		buf    **wgpu.Buffer
		data   []float32
	}{
		{"Positions", &dst.positions, b.Positions},
		{"Life", &dst.life, b.Life},
		{"Sizes", &dst.sizes, b.Sizes},
		{"Phases", &dst.phases, b.Phases},
	} {
		if _, err := r.ensureBuffer(name+" "+up.suffix, up.buf, wgpu.ToBytes(up.data), wgpu.BufferUsageVertex); err != nil {
			return 0, err
		}
	}
	return n, nil
}

func (r *Renderer) prepareHUD(lines []string) error {
	r.textVertexN = 0
	if r.hud == nil || len(lines) == 0 {
		return nil
	}
	w, h := r.Size()
	verts := r.hud.BuildVertices(r.hud.Layout(lines, 1, hudColor), w, h)
	if len(verts) == 0 {
		return nil
	}
	if _, err := r.ensureBuffer("Text VB", &r.textVB, textVertexBytes(verts), wgpu.BufferUsageVertex); err != nil {
		return err
	}
	r.textVertexN = uint32(len(verts))
	return nil
}

// Render draws one frame and presents it.
func (r *Renderer) Render(f *Frame) error {
	if r.disposed {
		return ErrDisposed
	}
	if r.minimized {
		return nil
	}
	w, h := r.Size()

	globals := f.Globals(w, h)
	r.queue.WriteBuffer(r.globalsBuf, 0, globals.Bytes())

	if f.Sky != nil && !f.Sky.Disposed() {
		if r.starPositions == nil {
			if _, err := r.ensureBuffer("Star Positions", &r.starPositions, wgpu.ToBytes(f.Sky.Positions()), wgpu.BufferUsageVertex); err != nil {
				return err
			}
		}
		if _, err := r.ensureBuffer("Star Brightness", &r.starBright, wgpu.ToBytes(f.Sky.Brightness()), wgpu.BufferUsageVertex); err != nil {
			return err
		}
		r.starCount = uint32(f.Sky.Count())
	}
	emberN, err := r.uploadParticles("Embers", &r.embers, f.Embers)
	if err != nil {
		return err
	}
	smokeN, err := r.uploadParticles("Smoke", &r.smoke, f.Smoke)
	if err != nil {
		return err
	}

	type meshDraw struct {
		slot uniformSlot
		mesh *gpuMesh
	}
	var meshDraws []meshDraw
	for i, n := range f.VisibleNodes() {
		slot, err := r.nodeSlot(i)
		if err != nil {
			return err
		}
		gm, err := r.meshes.get(n.Mesh)
		if err != nil {
			return fmt.Errorf("uploading mesh %s: %w", n.Name, err)
		}
		r.queue.WriteBuffer(slot.buf, 0, NodeUniformsFor(n).Bytes())
		meshDraws = append(meshDraws, meshDraw{slot, gm})
	}

	var fireDraws []uniformSlot
	var cone *gpuMesh
	if layers := f.Layers(); len(layers) > 0 {
		if err := r.syncPermutation(f.Permutation); err != nil {
			return err
		}
		if cone, err = r.meshes.get(f.Fire.Cone()); err != nil {
			return fmt.Errorf("uploading flame cone: %w", err)
		}
		for i, u := range layers {
			slot, err := r.layerSlot(i)
			if err != nil {
				return err
			}
			r.queue.WriteBuffer(slot.buf, 0, LayerBytes(u))
			fireDraws = append(fireDraws, slot)
		}
	}

	if err := r.prepareHUD(f.HUD); err != nil {
		return err
	}

	nextTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquiring surface texture: %w", err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("creating surface view: %w", err)
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("creating command encoder: %w", err)
	}
	defer encoder.Release()

	target := view
	if r.cfg.Post.Enabled {
		target = r.hdrView
	}
	cc := r.cfg.ClearColor
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: 1},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})

	pass.SetPipeline(r.pipes.sky)
	pass.SetBindGroup(0, r.globalsBG, nil)
	pass.Draw(3, 1, 0, 0)

	if r.starCount > 0 {
		pass.SetPipeline(r.pipes.stars)
		pass.SetBindGroup(0, r.globalsBG, nil)
		pass.SetVertexBuffer(0, r.starPositions, 0, wgpu.WholeSize)
		pass.SetVertexBuffer(1, r.starBright, 0, wgpu.WholeSize)
		pass.Draw(6, r.starCount, 0, 0)
	}

	if len(meshDraws) > 0 {
		pass.SetPipeline(r.pipes.mesh)
		pass.SetBindGroup(0, r.globalsBG, nil)
		for _, d := range meshDraws {
			pass.SetBindGroup(1, d.slot.bg, nil)
			pass.SetVertexBuffer(0, d.mesh.positions, 0, wgpu.WholeSize)
			pass.SetVertexBuffer(1, d.mesh.normals, 0, wgpu.WholeSize)
			pass.SetIndexBuffer(d.mesh.indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
			pass.DrawIndexed(d.mesh.indexCount, 1, 0, 0, 0)
		}
	}

	if cone != nil {
		pass.SetPipeline(r.pipes.fire)
		pass.SetBindGroup(0, r.globalsBG, nil)
		pass.SetVertexBuffer(0, cone.positions, 0, wgpu.WholeSize)
		pass.SetVertexBuffer(1, cone.normals, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(cone.indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		for _, slot := range fireDraws {
			pass.SetBindGroup(1, slot.bg, nil)
			pass.DrawIndexed(cone.indexCount, 1, 0, 0, 0)
		}
	}

	drawParticles := func(p *wgpu.RenderPipeline, g *particleGPU, n uint32) {
		if n == 0 {
			return
		}
		pass.SetPipeline(p)
		pass.SetBindGroup(0, r.globalsBG, nil)
		pass.SetVertexBuffer(0, g.positions, 0, wgpu.WholeSize)
		pass.SetVertexBuffer(1, g.life, 0, wgpu.WholeSize)
		pass.SetVertexBuffer(2, g.sizes, 0, wgpu.WholeSize)
		pass.SetVertexBuffer(3, g.phases, 0, wgpu.WholeSize)
		pass.Draw(6, n, 0, 0)
	}
	drawParticles(r.pipes.smoke, &r.smoke, smokeN)
	drawParticles(r.pipes.embers, &r.embers, emberN)

	if err := pass.End(); err != nil {
		return fmt.Errorf("scene pass: %w", err)
	}

	if r.cfg.Post.Enabled {
		post := r.cfg.Post
		r.queue.WriteBuffer(r.postBuf, 0, PostUniforms{
			Exposure:  float32(post.Exposure),
			Threshold: float32(post.BloomThreshold),
			Strength:  float32(post.BloomStrength),
			Radius:    float32(post.BloomRadius),
			Vignette:  float32(post.Vignette),
			Grain:     float32(post.Grain),
			Time:      float32(f.Time),
			Texel:     [2]float32{1 / float32(w), 1 / float32(h)},
		}.Bytes())

		postPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			}},
		})
		postPass.SetPipeline(r.pipes.post)
		postPass.SetBindGroup(0, r.postBG, nil)
		postPass.Draw(3, 1, 0, 0)
		if err := postPass.End(); err != nil {
			return fmt.Errorf("post pass: %w", err)
		}
	}

	if r.textVertexN > 0 {
		textPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:    view,
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			}},
		})
		textPass.SetPipeline(r.pipes.text)
		textPass.SetBindGroup(0, r.textBG, nil)
		textPass.SetVertexBuffer(0, r.textVB, 0, wgpu.WholeSize)
		textPass.Draw(r.textVertexN, 1, 0, 0)
		if err := textPass.End(); err != nil {
			return fmt.Errorf("text pass: %w", err)
		}
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finishing frame: %w", err)
	}
	defer cmd.Release()
	r.queue.Submit(cmd)
	r.surface.Present()
	return nil
}

// Disposed reports whether Dispose has run.
func (r *Renderer) Disposed() bool { return r.disposed }

// Dispose releases every GPU resource. Meshes that were uploaded see their
// handles released. Safe to call more than once.
func (r *Renderer) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true

	if r.meshes != nil {
		r.meshes.release()
	}
	for _, s := range r.nodes {
		s.release()
	}
	for _, s := range r.layers {
		s.release()
	}
	r.nodes, r.layers = nil, nil
	r.embers.release()
	r.smoke.release()

	release(r.textBG, r.postBG, r.globalsBG)
	release(r.textVB, r.starPositions, r.starBright, r.perm, r.ramp, r.postBuf, r.globalsBuf)
	release(r.atlasView, r.depthView, r.hdrView)
	release(r.atlasTex, r.depthTex, r.hdrTex)
	release(r.sampler)
	if r.pipes != nil {
		r.pipes.release()
	}
	release(r.queue)
	release(r.device)
	release(r.adapter)
	release(r.surface)
	release(r.instance)
}
