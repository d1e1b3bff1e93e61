// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/compositor"
)

// Uniform buffer sizes per pass.
const (
	quadUniformSize   = 64 // mat4x4<f32>
	spriteUniformSize = 16 // scale vec2 + atlas_scale vec2
	imageUniformSize  = 8  // scale vec2
)

// vertexFormat maps an attribute format to the wgpu vertex format.
func vertexFormat(f compositor.AttributeFormat) (gputypes.VertexFormat, error) {
	switch f {
	case compositor.FormatFloat32:
		return gputypes.VertexFormatFloat32, nil
	case compositor.FormatFloat32x2:
		return gputypes.VertexFormatFloat32x2, nil
	case compositor.FormatFloat32x4:
		return gputypes.VertexFormatFloat32x4, nil
	case compositor.FormatUint32:
		return gputypes.VertexFormatUint32, nil
	default:
		return 0, fmt.Errorf("unsupported attribute format %d", f)
	}
}

// convertAttributes maps a compositor attribute layout into wgpu vertex
// attributes.
func convertAttributes(attrs []compositor.VertexAttribute) ([]gputypes.VertexAttribute, error) {
	out := make([]gputypes.VertexAttribute, len(attrs))
	for i, a := range attrs {
		format, err := vertexFormat(a.Format)
		if err != nil {
			return nil, err
		}
		out[i] = gputypes.VertexAttribute{
			Format:         format,
			Offset:         uint64(a.Offset),
			ShaderLocation: a.ShaderLocation,
		}
	}
	return out, nil
}

// cornerBufferLayout is the shared unit quad corner buffer at location 0,
// used by the instanced passes.
func cornerBufferLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: 8, // vec2<f32>
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		},
	}
}

// instancedLayout builds the two-slot vertex layout of an instanced pass:
// the shared corners plus the per-instance records.
func instancedLayout(stride uint32, attrs []compositor.VertexAttribute) ([]gputypes.VertexBufferLayout, error) {
	converted, err := convertAttributes(attrs)
	if err != nil {
		return nil, err
	}
	return []gputypes.VertexBufferLayout{
		cornerBufferLayout(),
		{
			ArrayStride: uint64(stride),
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes:  converted,
		},
	}, nil
}

// flatLayout builds the single-slot vertex layout of the flat pass.
func flatLayout() ([]gputypes.VertexBufferLayout, error) {
	converted, err := convertAttributes(compositor.FlatVertexLayout())
	if err != nil {
		return nil, err
	}
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: compositor.FlatVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  converted,
		},
	}, nil
}

// passPipeline bundles the GPU state of one draw pass.
type passPipeline struct {
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

func (pp *passPipeline) destroy(device hal.Device) {
	if pp.pipeline != nil {
		device.DestroyRenderPipeline(pp.pipeline)
		pp.pipeline = nil
	}
	if pp.pipeLayout != nil {
		device.DestroyPipelineLayout(pp.pipeLayout)
		pp.pipeLayout = nil
	}
	if pp.bindLayout != nil {
		device.DestroyBindGroupLayout(pp.bindLayout)
		pp.bindLayout = nil
	}
}

// pipelineSet holds the render pipelines of the four draw passes and the
// samplers they bind. All passes render premultiplied source-over into
// the same color format.
type pipelineSet struct {
	device hal.Device

	flat   passPipeline
	quad   passPipeline
	sprite passPipeline
	image  passPipeline

	// atlasSampler samples the sprite atlas with nearest filtering so
	// hi-DPI sprite pixels stay exact.
	atlasSampler hal.Sampler

	// imageSampler samples image blits with linear filtering.
	imageSampler hal.Sampler

	format gputypes.TextureFormat
}

// newPipelineSet compiles the pass pipelines targeting the given color
// format.
func newPipelineSet(device hal.Device, shaders *shaderModules, format gputypes.TextureFormat) (*pipelineSet, error) {
	if device == nil || shaders == nil {
		return nil, ErrNotInitialized
	}

	ps := &pipelineSet{device: device, format: format}

	if err := ps.createSamplers(); err != nil {
		ps.destroy()
		return nil, err
	}
	if err := ps.createFlat(shaders.flat); err != nil {
		ps.destroy()
		return nil, err
	}
	if err := ps.createQuad(shaders.quad); err != nil {
		ps.destroy()
		return nil, err
	}
	if err := ps.createSprite(shaders.sprite); err != nil {
		ps.destroy()
		return nil, err
	}
	if err := ps.createImage(shaders.image); err != nil {
		ps.destroy()
		return nil, err
	}
	return ps, nil
}

func (ps *pipelineSet) createSamplers() error {
	atlasSampler, err := ps.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "compositor_atlas_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create atlas sampler: %w", err)
	}
	ps.atlasSampler = atlasSampler

	imageSampler, err := ps.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "compositor_image_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create image sampler: %w", err)
	}
	ps.imageSampler = imageSampler
	return nil
}

// createRenderPipeline builds one pass pipeline with the shared primitive
// and blend state.
func (ps *pipelineSet) createRenderPipeline(label string, module hal.ShaderModule, layout hal.PipelineLayout, buffers []gputypes.VertexBufferLayout) (hal.RenderPipeline, error) {
	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := ps.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    ps.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return pipeline, nil
}

// createUniformPass builds the bind group layout and pipeline layout of a
// pass that binds a single uniform buffer.
func (ps *pipelineSet) createUniformPass(pp *passPipeline, label string, uniformSize uint64) error {
	bindLayout, err := ps.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: uniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create %s bind group layout: %w", label, err)
	}
	pp.bindLayout = bindLayout

	pipeLayout, err := ps.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create %s pipeline layout: %w", label, err)
	}
	pp.pipeLayout = pipeLayout
	return nil
}

// createTexturePass builds the bind group layout and pipeline layout of a
// pass that binds a uniform buffer, a texture, and a sampler.
func (ps *pipelineSet) createTexturePass(pp *passPipeline, label string, uniformSize uint64, viewDimension gputypes.TextureViewDimension) error {
	bindLayout, err := ps.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: uniformSize,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: viewDimension,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create %s bind group layout: %w", label, err)
	}
	pp.bindLayout = bindLayout

	pipeLayout, err := ps.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create %s pipeline layout: %w", label, err)
	}
	pp.pipeLayout = pipeLayout
	return nil
}

func (ps *pipelineSet) createFlat(module hal.ShaderModule) error {
	if err := ps.createUniformPass(&ps.flat, "compositor_flat", quadUniformSize); err != nil {
		return err
	}
	buffers, err := flatLayout()
	if err != nil {
		return err
	}
	pipeline, err := ps.createRenderPipeline("compositor_flat_pipeline", module, ps.flat.pipeLayout, buffers)
	if err != nil {
		return err
	}
	ps.flat.pipeline = pipeline
	return nil
}

func (ps *pipelineSet) createQuad(module hal.ShaderModule) error {
	if err := ps.createUniformPass(&ps.quad, "compositor_quad", quadUniformSize); err != nil {
		return err
	}
	buffers, err := instancedLayout(compositor.QuadInstanceStride, compositor.QuadInstanceLayout())
	if err != nil {
		return err
	}
	pipeline, err := ps.createRenderPipeline("compositor_quad_pipeline", module, ps.quad.pipeLayout, buffers)
	if err != nil {
		return err
	}
	ps.quad.pipeline = pipeline
	return nil
}

func (ps *pipelineSet) createSprite(module hal.ShaderModule) error {
	if err := ps.createTexturePass(&ps.sprite, "compositor_sprite", spriteUniformSize, gputypes.TextureViewDimension2DArray); err != nil {
		return err
	}
	buffers, err := instancedLayout(compositor.SpriteInstanceStride, compositor.SpriteInstanceLayout())
	if err != nil {
		return err
	}
	pipeline, err := ps.createRenderPipeline("compositor_sprite_pipeline", module, ps.sprite.pipeLayout, buffers)
	if err != nil {
		return err
	}
	ps.sprite.pipeline = pipeline
	return nil
}

func (ps *pipelineSet) createImage(module hal.ShaderModule) error {
	if err := ps.createTexturePass(&ps.image, "compositor_image", imageUniformSize, gputypes.TextureViewDimension2D); err != nil {
		return err
	}
	buffers, err := instancedLayout(compositor.ImageInstanceStride, compositor.ImageInstanceLayout())
	if err != nil {
		return err
	}
	pipeline, err := ps.createRenderPipeline("compositor_image_pipeline", module, ps.image.pipeLayout, buffers)
	if err != nil {
		return err
	}
	ps.image.pipeline = pipeline
	return nil
}

// destroy releases all pipelines, layouts, and samplers in reverse
// creation order. Safe to call with partial initialization.
func (ps *pipelineSet) destroy() {
	if ps.device == nil {
		return
	}
	for _, pp := range []*passPipeline{&ps.image, &ps.sprite, &ps.quad, &ps.flat} {
		pp.destroy(ps.device)
	}
	if ps.imageSampler != nil {
		ps.device.DestroySampler(ps.imageSampler)
		ps.imageSampler = nil
	}
	if ps.atlasSampler != nil {
		ps.device.DestroySampler(ps.atlasSampler)
		ps.atlasSampler = nil
	}
}
