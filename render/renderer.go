// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/compositor"

// Renderer executes the compositing passes for one frame.
//
// Implementations run the four passes over the frame's batch in fixed
// order: flat quads, styled quads, image blits, atlas sprites. Within a
// pass, records composite in submission order. Existing target content is
// loaded, not cleared; the compositor draws over whatever the host put
// there.
//
// Thread safety: renderers are NOT safe for concurrent use. The host's
// frame pacing must serialize Composite calls per renderer.
type Renderer interface {
	// Composite draws the frame's batch to the target.
	//
	// The frame has already passed submission-boundary validation; a
	// renderer may assume every record is well formed. The frame is not
	// modified and may be replayed against other targets.
	Composite(target RenderTarget, frame *compositor.Frame) error

	// Flush ensures all pending work is complete. CPU backends are
	// synchronous and treat this as a no-op; GPU backends submit and
	// wait on command buffers.
	Flush() error

	// AtlasLayerCount returns the current depth of the backend's sprite
	// atlas, for layer validation at the submission boundary. Zero means
	// no atlas is configured.
	AtlasLayerCount() uint32

	// AtlasExtent returns the atlas texture dimension in pixels, used to
	// derive the sprite-pass texcoord scale. Zero means no atlas.
	AtlasExtent() uint32
}

// RendererCapabilities describes the features supported by a renderer.
type RendererCapabilities struct {
	// IsGPU indicates if this is a GPU-accelerated renderer.
	IsGPU bool

	// SupportsScissor indicates if the backend can restrict passes to a
	// sub-rectangle of the target.
	SupportsScissor bool

	// SupportsRotation indicates if the sprite pass supports arbitrary
	// rotation angles.
	SupportsRotation bool

	// MaxTextureSize is the maximum texture dimension (0 = unlimited).
	MaxTextureSize int
}

// CapableRenderer is an optional interface for renderers that can report
// their capabilities.
type CapableRenderer interface {
	Renderer

	// Capabilities returns the renderer's capabilities.
	Capabilities() RendererCapabilities
}
