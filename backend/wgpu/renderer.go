// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/atlas"
	"github.com/gogpu/compositor/render"
)

// gpuWaitTimeout bounds the per-frame fence wait.
const gpuWaitTimeout = 5 * time.Second

// Config configures a GPU renderer.
type Config struct {
	// Atlas is the sprite atlas mirrored into a GPU texture array.
	// Optional; without it the sprite pass is skipped.
	Atlas *atlas.Atlas

	// Format is the color format of the render targets this renderer
	// draws to. The zero value selects RGBA8Unorm.
	Format gputypes.TextureFormat
}

// TargetView adapts a HAL texture view to the render target interface, so
// hosts can wrap swapchain or offscreen views as compositor targets.
type TargetView struct {
	view hal.TextureView
}

// WrapView wraps a HAL texture view. The view stays owned by the caller;
// Destroy only detaches it.
func WrapView(view hal.TextureView) *TargetView {
	return &TargetView{view: view}
}

// HALView returns the wrapped view.
func (v *TargetView) HALView() hal.TextureView { return v.view }

// Destroy detaches the wrapped view.
func (v *TargetView) Destroy() { v.view = nil }

var _ render.TextureView = (*TargetView)(nil)

// halViewer is how the renderer recovers the HAL view from a render
// target's texture view.
type halViewer interface {
	HALView() hal.TextureView
}

// Renderer executes the compositing passes on a wgpu device.
//
// Each frame builds transient instance buffers and bind groups, encodes a
// single render pass running the flat, styled quad, image, and sprite
// passes in order, submits, and waits on a fence. Existing target content
// is loaded, not cleared.
type Renderer struct {
	device hal.Device
	queue  hal.Queue

	// owned is non-nil when the renderer opened its own device and must
	// tear it down on Close.
	owned *standaloneDevice

	atlas *atlas.Atlas

	shaders   *shaderModules
	pipelines *pipelineSet
	buffers   *staticBuffers
	atlasTex  *atlasTexture
	imageTex  *imageTexture

	closed bool
}

// NewRenderer creates a renderer on a device and queue owned by the host.
func NewRenderer(device hal.Device, queue hal.Queue, cfg Config) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNotInitialized
	}
	return newRenderer(device, queue, nil, cfg)
}

// NewRendererFromProvider creates a renderer from a host device provider.
// A nil provider opens a standalone device, which the renderer then owns
// and tears down on Close.
func NewRendererFromProvider(provider any, cfg Config) (*Renderer, error) {
	if provider == nil {
		sd, err := openStandaloneDevice()
		if err != nil {
			return nil, err
		}
		r, err := newRenderer(sd.device, sd.queue, sd, cfg)
		if err != nil {
			sd.destroy()
			return nil, err
		}
		return r, nil
	}

	device, queue, err := deviceFromProvider(provider)
	if err != nil {
		return nil, err
	}
	return newRenderer(device, queue, nil, cfg)
}

func newRenderer(device hal.Device, queue hal.Queue, owned *standaloneDevice, cfg Config) (*Renderer, error) {
	format := cfg.Format
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}

	r := &Renderer{
		device: device,
		queue:  queue,
		owned:  owned,
		atlas:  cfg.Atlas,
	}

	var err error
	if r.shaders, err = newShaderModules(device); err != nil {
		return nil, err
	}
	if r.pipelines, err = newPipelineSet(device, r.shaders, format); err != nil {
		r.teardown()
		return nil, err
	}
	if r.buffers, err = newStaticBuffers(device, queue); err != nil {
		r.teardown()
		return nil, err
	}
	if cfg.Atlas != nil {
		if r.atlasTex, err = newAtlasTexture(device, queue, cfg.Atlas); err != nil {
			r.teardown()
			return nil, err
		}
	}
	r.imageTex = newImageTexture(device, queue)
	return r, nil
}

// Atlas returns the attached sprite atlas, or nil.
func (r *Renderer) Atlas() *atlas.Atlas { return r.atlas }

// SetImageSource uploads the source texture sampled by the image pass.
// A nil or empty image releases the current texture; image records then
// drop with a warning until a new source is set.
func (r *Renderer) SetImageSource(img *image.RGBA) error {
	if r.closed {
		return ErrRendererClosed
	}
	return r.imageTex.SetSource(img)
}

// AtlasLayerCount returns the attached atlas depth, or zero.
func (r *Renderer) AtlasLayerCount() uint32 {
	if r.atlas == nil {
		return 0
	}
	return r.atlas.LayerCount()
}

// AtlasExtent returns the attached atlas dimension in pixels, or zero.
func (r *Renderer) AtlasExtent() uint32 {
	if r.atlas == nil {
		return 0
	}
	return uint32(r.atlas.Extent()) //nolint:gosec // G115: extents are small powers of two
}

// GPUInfo describes the adapter of a standalone renderer. It returns nil
// when the host supplied the device.
func (r *Renderer) GPUInfo() *GPUInfo {
	if r.owned == nil {
		return nil
	}
	return &r.owned.info
}

// Capabilities reports the GPU backend's feature set.
func (r *Renderer) Capabilities() render.RendererCapabilities {
	return render.RendererCapabilities{
		IsGPU:            true,
		SupportsScissor:  true,
		SupportsRotation: true,
		MaxTextureSize:   maxTextureExtent,
	}
}

// Flush is a no-op: Composite waits on a per-frame fence, so no GPU work
// is pending between frames.
func (r *Renderer) Flush() error {
	if r.closed {
		return ErrRendererClosed
	}
	return nil
}

// Close releases all GPU resources. The renderer is unusable afterwards.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.teardown()
	if r.owned != nil {
		r.owned.destroy()
		r.owned = nil
	}
	return nil
}

func (r *Renderer) teardown() {
	if r.imageTex != nil {
		r.imageTex.destroy()
		r.imageTex = nil
	}
	if r.atlasTex != nil {
		r.atlasTex.destroy()
		r.atlasTex = nil
	}
	if r.buffers != nil {
		r.buffers.destroy()
		r.buffers = nil
	}
	if r.pipelines != nil {
		r.pipelines.destroy()
		r.pipelines = nil
	}
	if r.shaders != nil {
		r.shaders.destroy(r.device)
		r.shaders = nil
	}
}

// Composite draws the frame's batch to the target.
func (r *Renderer) Composite(target render.RenderTarget, frame *compositor.Frame) error {
	if r.closed {
		return ErrRendererClosed
	}
	if target == nil {
		return compositor.ErrNilTarget
	}
	view, err := resolveTargetView(target)
	if err != nil {
		return err
	}
	batch := frame.Batch
	if batch == nil || batch.IsEmpty() {
		return nil
	}

	if r.atlas != nil && r.atlasTex != nil && len(batch.Sprites()) > 0 {
		if err := r.atlasTex.Sync(r.atlas); err != nil {
			return fmt.Errorf("sync atlas: %w", err)
		}
	}

	r.writeUniforms(frame)

	fr, err := r.buildFrameResources(batch)
	if err != nil {
		return err
	}
	defer fr.destroy(r.device)

	return r.encodeAndSubmit(view, frame, fr)
}

// resolveTargetView extracts the HAL texture view from a render target.
func resolveTargetView(target render.RenderTarget) (hal.TextureView, error) {
	tv := target.TextureView()
	if tv == nil {
		return nil, ErrNoTextureTarget
	}
	hv, ok := tv.(halViewer)
	if !ok || hv.HALView() == nil {
		return nil, ErrNoTextureTarget
	}
	return hv.HALView(), nil
}

// writeUniforms uploads the per-frame projection uniforms.
func (r *Renderer) writeUniforms(frame *compositor.Frame) {
	r.buffers.writeQuadUniform(quadMatrix(frame.QuadProjection))
	scale := blitScale(frame.BlitProjection)
	r.buffers.writeSpriteUniform(scale, frame.AtlasScale)
	r.buffers.writeImageUniform(scale)
}

// quadMatrix lowers a projection to the mat4 uniform of the quad passes.
// The scale-flip form maps onto the same matrix shape as Ortho: scale on
// the diagonal, translation (-1, +1).
func quadMatrix(p compositor.Projection) compositor.Mat4 {
	if p.Mode == compositor.ProjectionScaleFlip {
		m := compositor.Mat4Identity()
		m[0] = p.Scale.X
		m[5] = p.Scale.Y
		m[12] = -1
		m[13] = 1
		return m
	}
	return p.Matrix
}

// blitScale lowers a projection to the vec2 scale uniform of the blit
// passes. A matrix projection contributes its diagonal; the blit shaders
// apply the fixed (-1, +1) translation themselves.
func blitScale(p compositor.Projection) compositor.Point {
	if p.Mode == compositor.ProjectionScaleFlip {
		return p.Scale
	}
	return compositor.Point{X: p.Matrix[0], Y: p.Matrix[5]}
}

// frameResources holds the transient buffers and bind groups of one frame.
// Instance data lives in per-frame buffers so chunked draws never alias a
// region a later queue write would overwrite before submission.
type frameResources struct {
	flatVerts  hal.Buffer
	quadInst   hal.Buffer
	spriteInst hal.Buffer
	imageInst  hal.Buffer

	flatBind   hal.BindGroup
	quadBind   hal.BindGroup
	spriteBind hal.BindGroup
	imageBind  hal.BindGroup
}

func (fr *frameResources) destroy(device hal.Device) {
	for _, bg := range []*hal.BindGroup{&fr.imageBind, &fr.spriteBind, &fr.quadBind, &fr.flatBind} {
		if *bg != nil {
			device.DestroyBindGroup(*bg)
			*bg = nil
		}
	}
	for _, b := range []*hal.Buffer{&fr.imageInst, &fr.spriteInst, &fr.quadInst, &fr.flatVerts} {
		if *b != nil {
			device.DestroyBuffer(*b)
			*b = nil
		}
	}
}

// buildFrameResources uploads the batch's instance data and creates the
// per-pass bind groups.
func (r *Renderer) buildFrameResources(batch *compositor.Batch) (*frameResources, error) {
	fr := &frameResources{}
	vertexUsage := gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst

	uploads := []struct {
		label string
		data  []byte
		dst   *hal.Buffer
	}{
		{"compositor_flat_verts", encodeFlatVertices(batch.FlatVertices()), &fr.flatVerts},
		{"compositor_quad_inst", encodeQuadInstances(batch.Quads()), &fr.quadInst},
		{"compositor_sprite_inst", encodeSpriteInstances(batch.Sprites()), &fr.spriteInst},
		{"compositor_image_inst", encodeImageInstances(batch.Images()), &fr.imageInst},
	}
	for _, u := range uploads {
		if len(u.data) == 0 {
			continue
		}
		buf, err := createAndUploadBuffer(r.device, r.queue, u.label, u.data, vertexUsage)
		if err != nil {
			fr.destroy(r.device)
			return nil, err
		}
		*u.dst = buf
	}

	if err := r.createBindGroups(batch, fr); err != nil {
		fr.destroy(r.device)
		return nil, err
	}
	return fr, nil
}

func (r *Renderer) createBindGroups(batch *compositor.Batch, fr *frameResources) error {
	var err error
	if len(batch.FlatVertices()) > 0 {
		fr.flatBind, err = r.createUniformBindGroup("compositor_flat_bind",
			r.pipelines.flat.bindLayout, r.buffers.quadUniform, quadUniformSize)
		if err != nil {
			return err
		}
	}
	if len(batch.Quads()) > 0 {
		fr.quadBind, err = r.createUniformBindGroup("compositor_quad_bind",
			r.pipelines.quad.bindLayout, r.buffers.quadUniform, quadUniformSize)
		if err != nil {
			return err
		}
	}
	if len(batch.Sprites()) > 0 && r.atlasTex != nil {
		fr.spriteBind, err = r.createTextureBindGroup("compositor_sprite_bind",
			r.pipelines.sprite.bindLayout, r.buffers.spriteUniform, spriteUniformSize,
			r.atlasTex.View(), r.pipelines.atlasSampler)
		if err != nil {
			return err
		}
	}
	if len(batch.Images()) > 0 && r.imageTex.View() != nil {
		fr.imageBind, err = r.createTextureBindGroup("compositor_image_bind",
			r.pipelines.image.bindLayout, r.buffers.imageUniform, imageUniformSize,
			r.imageTex.View(), r.pipelines.imageSampler)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) createUniformBindGroup(label string, layout hal.BindGroupLayout, uniform hal.Buffer, size uint64) (hal.BindGroup, error) {
	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label,
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniform.NativeHandle(), Offset: 0, Size: size,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return bg, nil
}

func (r *Renderer) createTextureBindGroup(label string, layout hal.BindGroupLayout, uniform hal.Buffer, size uint64, view hal.TextureView, sampler hal.Sampler) (hal.BindGroup, error) {
	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label,
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniform.NativeHandle(), Offset: 0, Size: size,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return bg, nil
}

// encodeAndSubmit records the four passes into a single render pass over
// the target view, submits, and waits for completion.
func (r *Renderer) encodeAndSubmit(view hal.TextureView, frame *compositor.Frame, fr *frameResources) error {
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "compositor_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("compositor_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "compositor_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}},
	})

	if b := frame.Bounds; b.Size.W > 0 && b.Size.H > 0 {
		rp.SetScissorRect(
			uint32(b.Pos.X), uint32(b.Pos.Y),
			uint32(b.Size.W), uint32(b.Size.H))
	}

	batch := frame.Batch
	r.recordFlat(rp, batch.FlatVertices(), fr)
	r.recordQuads(rp, batch.Quads(), fr)
	r.recordImages(rp, batch.Images(), fr)
	r.recordSprites(rp, batch.Sprites(), fr)

	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	idx, err := r.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	deadline := time.Now().Add(gpuWaitTimeout)
	for r.queue.PollCompleted() < idx {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: fence wait timed out", compositor.ErrDeviceLost)
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

// recordFlat draws the flat pass. Vertices chunk in runs that stay within
// the repeated index pattern, four per quad.
func (r *Renderer) recordFlat(rp hal.RenderPassEncoder, verts []compositor.FlatVertex, fr *frameResources) {
	if len(verts) == 0 || fr.flatBind == nil {
		return
	}
	rp.SetPipeline(r.pipelines.flat.pipeline)
	rp.SetBindGroup(0, fr.flatBind, nil)
	rp.SetIndexBuffer(r.buffers.flatIndices, gputypes.IndexFormatUint16, 0)

	offset := uint64(0)
	for _, chunk := range compositor.Chunk(verts) {
		rp.SetVertexBuffer(0, fr.flatVerts, offset)
		indexCount := uint32(len(chunk) / 4 * 6) //nolint:gosec // G115: bounded by chunk size
		rp.DrawIndexed(indexCount, 1, 0, 0, 0)
		offset += uint64(len(chunk)) * compositor.FlatVertexStride
	}
}

// recordQuads draws the styled quad pass, instanced over the unit quad.
func (r *Renderer) recordQuads(rp hal.RenderPassEncoder, quads []compositor.QuadInstance, fr *frameResources) {
	if len(quads) == 0 || fr.quadBind == nil {
		return
	}
	rp.SetPipeline(r.pipelines.quad.pipeline)
	rp.SetBindGroup(0, fr.quadBind, nil)
	recordInstanced(rp, r.buffers, fr.quadInst, quads, compositor.QuadInstanceStride)
}

// recordImages draws the image pass. Records drop with a warning when no
// source texture is bound.
func (r *Renderer) recordImages(rp hal.RenderPassEncoder, images []compositor.ImageInstance, fr *frameResources) {
	if len(images) == 0 {
		return
	}
	if fr.imageBind == nil {
		compositor.Logger().Warn("image records dropped: no source texture bound",
			"records", len(images))
		return
	}
	rp.SetPipeline(r.pipelines.image.pipeline)
	rp.SetBindGroup(0, fr.imageBind, nil)
	recordInstanced(rp, r.buffers, fr.imageInst, images, compositor.ImageInstanceStride)
}

// recordSprites draws the sprite pass. Records drop with a warning when no
// atlas is attached.
func (r *Renderer) recordSprites(rp hal.RenderPassEncoder, sprites []compositor.SpriteInstance, fr *frameResources) {
	if len(sprites) == 0 {
		return
	}
	if fr.spriteBind == nil {
		compositor.Logger().Warn("sprite records dropped: no atlas attached",
			"records", len(sprites))
		return
	}
	rp.SetPipeline(r.pipelines.sprite.pipeline)
	rp.SetBindGroup(0, fr.spriteBind, nil)
	recordInstanced(rp, r.buffers, fr.spriteInst, sprites, compositor.SpriteInstanceStride)
}

// recordInstanced issues the chunked instanced draws of one pass: the
// shared unit quad at slot 0, the instance records at slot 1.
func recordInstanced[T any](rp hal.RenderPassEncoder, sb *staticBuffers, instBuf hal.Buffer, records []T, stride int) {
	rp.SetVertexBuffer(0, sb.corners, 0)
	rp.SetIndexBuffer(sb.quadIndices, gputypes.IndexFormatUint16, 0)

	offset := uint64(0)
	for _, chunk := range compositor.Chunk(records) {
		rp.SetVertexBuffer(1, instBuf, offset)
		rp.DrawIndexed(6, uint32(len(chunk)), 0, 0, 0) //nolint:gosec // G115: bounded by chunk size
		offset += uint64(len(chunk)) * uint64(stride)
	}
}

var (
	_ render.Renderer        = (*Renderer)(nil)
	_ render.CapableRenderer = (*Renderer)(nil)
)
