// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"image"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/atlas"
	"github.com/gogpu/compositor/render"
)

// ErrNoPixelAccess is returned when the target does not expose CPU
// pixels. The software backend cannot composite into GPU-only targets.
var ErrNoPixelAccess = errors.New("software: target has no CPU pixel access")

// Renderer is the CPU compositing backend.
//
// The sprite pass samples the attached Atlas; the image pass samples the
// texture bound with SetImageSource. Both may be nil, in which case the
// corresponding pass draws nothing.
type Renderer struct {
	atlas *atlas.Atlas
	img   *image.RGBA
}

// NewRenderer creates a software renderer. The atlas may be nil for
// hosts that only composite quads.
func NewRenderer(a *atlas.Atlas) *Renderer {
	return &Renderer{atlas: a}
}

// Atlas returns the attached sprite atlas.
func (r *Renderer) Atlas() *atlas.Atlas {
	return r.atlas
}

// SetImageSource binds the texture sampled by the image-blit pass.
func (r *Renderer) SetImageSource(img *image.RGBA) {
	r.img = img
}

// AtlasLayerCount reports the attached atlas depth.
func (r *Renderer) AtlasLayerCount() uint32 {
	if r.atlas == nil {
		return 0
	}
	return r.atlas.LayerCount()
}

// AtlasExtent reports the attached atlas dimension.
func (r *Renderer) AtlasExtent() uint32 {
	if r.atlas == nil {
		return 0
	}
	return uint32(r.atlas.Extent())
}

// Composite draws the frame's batch into the target pixels. Passes run
// in fixed order: flat quads, styled quads, image blits, atlas sprites.
func (r *Renderer) Composite(target render.RenderTarget, frame *compositor.Frame) error {
	if target == nil {
		return compositor.ErrNilTarget
	}
	pix := target.Pixels()
	if pix == nil {
		return ErrNoPixelAccess
	}

	surf := &surface{
		pix:    pix,
		stride: target.Stride(),
		width:  target.Width(),
		height: target.Height(),
	}
	surf.setScissor(frame.Bounds)

	batch := frame.Batch
	r.flatPass(surf, batch.FlatVertices())
	r.quadPass(surf, batch.Quads())
	r.imagePass(surf, batch.Images())
	r.spritePass(surf, batch.Sprites())
	return nil
}

// Flush is a no-op; CPU compositing is synchronous.
func (r *Renderer) Flush() error {
	return nil
}

// Capabilities reports what the software backend supports.
func (r *Renderer) Capabilities() render.RendererCapabilities {
	return render.RendererCapabilities{
		IsGPU:            false,
		SupportsScissor:  true,
		SupportsRotation: true,
	}
}

var (
	_ render.Renderer        = (*Renderer)(nil)
	_ render.CapableRenderer = (*Renderer)(nil)
)
