// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/compositor"
)

// Config configures a Compositor.
type Config struct {
	// Renderer is the backend that executes the passes. Required.
	Renderer Renderer

	// QuadProjection selects the projection mode for the flat and styled
	// quad passes. The zero value is ProjectionMatrix.
	QuadProjection compositor.ProjectionMode

	// BlitProjection selects the projection mode for the sprite and image
	// passes. The zero value is ProjectionMatrix; DefaultConfig picks
	// ProjectionScaleFlip, the conventional blit mapping.
	BlitProjection compositor.ProjectionMode

	// MaxInstances caps the total records accepted per frame.
	// Zero means no cap beyond per-draw chunking.
	MaxInstances int
}

// DefaultConfig returns the conventional configuration for a renderer:
// matrix projection for the quad passes, scale-flip for the blit passes.
func DefaultConfig(r Renderer) Config {
	return Config{
		Renderer:       r,
		QuadProjection: compositor.ProjectionMatrix,
		BlitProjection: compositor.ProjectionScaleFlip,
	}
}

// Compositor orchestrates per-frame compositing: it validates batches at
// the submission boundary, derives pass projections from the target size,
// and dispatches complete frames to the configured renderer.
//
// A Compositor is safe for concurrent Composite calls; an internal mutex
// serializes dispatch since renderers are single-threaded.
type Compositor struct {
	mu  sync.Mutex
	cfg Config
}

// NewCompositor creates a compositor with the given configuration.
func NewCompositor(cfg Config) *Compositor {
	return &Compositor{cfg: cfg}
}

// Renderer returns the configured backend.
func (c *Compositor) Renderer() Renderer {
	return c.cfg.Renderer
}

// Composite validates the batch and draws it to the target using
// projections derived from the target's dimensions. The whole frame is
// rejected and the target left untouched if any check fails.
func (c *Compositor) Composite(target RenderTarget, batch *compositor.Batch) error {
	if target == nil {
		return compositor.ErrNilTarget
	}
	frame, err := c.buildFrame(target, batch)
	if err != nil {
		return err
	}
	return c.CompositeFrame(target, frame)
}

// CompositeFrame draws a fully specified frame, giving the host control
// over projections and the scissor bounds. The frame is validated before
// dispatch.
func (c *Compositor) CompositeFrame(target RenderTarget, frame *compositor.Frame) error {
	if target == nil {
		return compositor.ErrNilTarget
	}
	if c.cfg.Renderer == nil {
		return compositor.ErrNilRenderer
	}
	if frame == nil || frame.Batch == nil || frame.Batch.IsEmpty() {
		return nil
	}
	if c.cfg.MaxInstances > 0 && frame.Batch.InstanceCount() > c.cfg.MaxInstances {
		return fmt.Errorf("%w: %d records, limit %d",
			compositor.ErrBatchTooLarge, frame.Batch.InstanceCount(), c.cfg.MaxInstances)
	}
	if err := frame.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	log := compositor.Logger()
	log.Debug("compositing frame",
		"records", frame.Batch.InstanceCount(),
		"target", fmt.Sprintf("%dx%d", target.Width(), target.Height()))

	if err := c.cfg.Renderer.Composite(target, frame); err != nil {
		log.Error("frame dropped", "error", err)
		return fmt.Errorf("composite: %w", err)
	}
	return nil
}

// Flush delegates to the renderer.
func (c *Compositor) Flush() error {
	if c.cfg.Renderer == nil {
		return compositor.ErrNilRenderer
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Renderer.Flush()
}

// buildFrame assembles the per-frame uniforms from the target and the
// renderer's atlas state.
func (c *Compositor) buildFrame(target RenderTarget, batch *compositor.Batch) (*compositor.Frame, error) {
	if c.cfg.Renderer == nil {
		return nil, compositor.ErrNilRenderer
	}

	w := float32(target.Width())
	h := float32(target.Height())
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: target is %gx%g", compositor.ErrNilTarget, w, h)
	}

	frame := &compositor.Frame{
		Batch:           batch,
		QuadProjection:  newProjection(c.cfg.QuadProjection, w, h),
		BlitProjection:  newProjection(c.cfg.BlitProjection, w, h),
		AtlasLayerCount: c.cfg.Renderer.AtlasLayerCount(),
	}
	if extent := c.cfg.Renderer.AtlasExtent(); extent > 0 {
		inv := 1 / float32(extent)
		frame.AtlasScale = compositor.Pt(inv, inv)
	}
	return frame, nil
}

func newProjection(mode compositor.ProjectionMode, w, h float32) compositor.Projection {
	if mode == compositor.ProjectionScaleFlip {
		return compositor.NewScaleFlipProjection(w, h)
	}
	return compositor.NewMatrixProjection(w, h)
}
