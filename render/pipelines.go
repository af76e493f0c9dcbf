package render

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/campfire/render/shaders"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

var (
	blendAlpha = &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
	// blendAdditive weights the source by its alpha (flame layers).
	blendAdditive = &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
	}
	// blendPremultipliedAdd expects color already multiplied by alpha
	// (stars, embers).
	blendPremultipliedAdd = &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
	}
)

type pipelineSpec struct {
	label    string
	code     string
	fragment string
	buffers  []wgpu.VertexBufferLayout
	layouts  []*wgpu.BindGroupLayout // nil selects the automatic layout
	format   wgpu.TextureFormat
	blend    *wgpu.BlendState
	cull     wgpu.CullMode

	// depth is nil for passes without a depth attachment.
	depth *wgpu.DepthStencilState
}

func depthState(write bool, compare wgpu.CompareFunction) *wgpu.DepthStencilState {
	return &wgpu.DepthStencilState{
		Format:            depthFormat,
		DepthWriteEnabled: write,
		DepthCompare:      compare,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}
}

func createPipeline(device *wgpu.Device, desc pipelineSpec) (*wgpu.RenderPipeline, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.code},
	})
	if err != nil {
		return nil, fmt.Errorf("compiling %s shader: %w", desc.label, err)
	}
	defer module.Release()

	var layout *wgpu.PipelineLayout
	if desc.layouts != nil {
		layout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
			Label:            desc.label,
			BindGroupLayouts: desc.layouts,
		})
		if err != nil {
			return nil, fmt.Errorf("creating %s layout: %w", desc.label, err)
		}
		defer layout.Release()
	}

	fragment := desc.fragment
	if fragment == "" {
		fragment = "fs_main"
	}
	cull := desc.cull
	if cull == 0 {
		cull = wgpu.CullModeNone
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    desc.buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: fragment,
			Targets: []wgpu.ColorTargetState{{
				Format:    desc.format,
				Blend:     desc.blend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  cull,
		},
		DepthStencil: desc.depth,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s pipeline: %w", desc.label, err)
	}
	return pipeline, nil
}

func uniformEntry(binding uint32, size uint64, stages wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: stages,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: size,
		},
	}
}

// meshBuffers is the non-interleaved position/normal layout shared by the
// mesh and flame passes.
func meshBuffers() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: 12,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes:  []wgpu.VertexAttribute{{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}},
		},
		{
			ArrayStride: 12,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes:  []wgpu.VertexAttribute{{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1}},
		},
	}
}

func instanceBuffer(stride uint64, format wgpu.VertexFormat, location uint32) wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: stride,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes:  []wgpu.VertexAttribute{{Format: format, Offset: 0, ShaderLocation: location}},
	}
}

// particleBuffers mirrors particles.Buffers: position, life, size, phase.
func particleBuffers() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		instanceBuffer(12, wgpu.VertexFormatFloat32x3, 0),
		instanceBuffer(4, wgpu.VertexFormatFloat32, 1),
		instanceBuffer(4, wgpu.VertexFormatFloat32, 2),
		instanceBuffer(4, wgpu.VertexFormatFloat32, 3),
	}
}

type pipelineTarget struct {
	dst  **wgpu.RenderPipeline
	desc pipelineSpec
}

type pipelines struct {
	globalsLayout *wgpu.BindGroupLayout
	nodeLayout    *wgpu.BindGroupLayout
	flameLayout   *wgpu.BindGroupLayout

	sky    *wgpu.RenderPipeline
	stars  *wgpu.RenderPipeline
	mesh   *wgpu.RenderPipeline
	fire   *wgpu.RenderPipeline
	smoke  *wgpu.RenderPipeline
	embers *wgpu.RenderPipeline
	post   *wgpu.RenderPipeline
	text   *wgpu.RenderPipeline
}

// createPipelines builds every pass. Scene passes target sceneFormat (the
// HDR target when post-processing is on); post and text target the surface.
func createPipelines(device *wgpu.Device, sceneFormat, surfaceFormat wgpu.TextureFormat, withPost bool) (*pipelines, error) {
	p := &pipelines{}
	var err error

	both := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	if p.globalsLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Globals BGL",
		Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, GlobalsSize, both)},
	}); err != nil {
		return p, err
	}
	if p.nodeLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Node BGL",
		Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, NodeUniformsSize, both)},
	}); err != nil {
		return p, err
	}
	if p.flameLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Flame BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, LayerSize, both),
			{
				Binding:    1,
				Visibility: both,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeReadOnlyStorage,
					MinBindingSize: 512 * 4,
				},
			},
			uniformEntry(2, RampSize, wgpu.ShaderStageFragment),
		},
	}); err != nil {
		return p, err
	}

	globalsOnly := []*wgpu.BindGroupLayout{p.globalsLayout}
	targets := []pipelineTarget{
		{&p.sky, pipelineSpec{
			label: "Sky", code: shaders.Compose(shaders.CommonWGSL, shaders.SkyWGSL),
			layouts: globalsOnly, format: sceneFormat,
			depth: depthState(false, wgpu.CompareFunctionAlways),
		}},
		{&p.stars, pipelineSpec{
			label: "Stars", code: shaders.Compose(shaders.CommonWGSL, shaders.StarsWGSL),
			buffers: []wgpu.VertexBufferLayout{
				instanceBuffer(16, wgpu.VertexFormatFloat32x4, 0),
				instanceBuffer(4, wgpu.VertexFormatFloat32, 1),
			},
			layouts: globalsOnly, format: sceneFormat, blend: blendPremultipliedAdd,
			depth: depthState(false, wgpu.CompareFunctionAlways),
		}},
		{&p.mesh, pipelineSpec{
			label: "Mesh", code: shaders.Compose(shaders.CommonWGSL, shaders.MeshWGSL),
			buffers: meshBuffers(),
			layouts: []*wgpu.BindGroupLayout{p.globalsLayout, p.nodeLayout},
			format:  sceneFormat, cull: wgpu.CullModeBack,
			depth: depthState(true, wgpu.CompareFunctionLess),
		}},
		{&p.fire, pipelineSpec{
			label: "Fire", code: shaders.Compose(shaders.CommonWGSL, shaders.NoiseWGSL, shaders.FireWGSL),
			buffers: meshBuffers(),
			layouts: []*wgpu.BindGroupLayout{p.globalsLayout, p.flameLayout},
			format:  sceneFormat, blend: blendAdditive,
			depth: depthState(false, wgpu.CompareFunctionLess),
		}},
		{&p.smoke, pipelineSpec{
			label: "Smoke", code: shaders.Compose(shaders.CommonWGSL, shaders.ParticlesWGSL),
			fragment: "fs_smoke", buffers: particleBuffers(),
			layouts: globalsOnly, format: sceneFormat, blend: blendAlpha,
			depth: depthState(false, wgpu.CompareFunctionLess),
		}},
		{&p.embers, pipelineSpec{
			label: "Embers", code: shaders.Compose(shaders.CommonWGSL, shaders.ParticlesWGSL),
			fragment: "fs_ember", buffers: particleBuffers(),
			layouts: globalsOnly, format: sceneFormat, blend: blendPremultipliedAdd,
			depth: depthState(false, wgpu.CompareFunctionLess),
		}},
		{&p.text, pipelineSpec{
			label: "Text", code: shaders.TextWGSL,
			buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: textVertexSize,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
			format: surfaceFormat, blend: blendAlpha,
		}},
	}
	if withPost {
		targets = append(targets, pipelineTarget{&p.post, pipelineSpec{label: "Post", code: shaders.PostWGSL, format: surfaceFormat}})
	}

	for _, s := range targets {
		if *s.dst, err = createPipeline(device, s.desc); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (p *pipelines) release() {
	release(p.sky, p.stars, p.mesh, p.fire, p.smoke, p.embers, p.post, p.text)
	release(p.globalsLayout, p.nodeLayout, p.flameLayout)
}

// release frees every non-nil handle.
func release[T interface {
	comparable
	Release()
}](handles ...T) {
	var zero T
	for _, h := range handles {
		if h != zero {
			h.Release()
		}
	}
}
