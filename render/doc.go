// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the compositing front end: render targets,
// the renderer abstraction, and the Compositor that turns per-frame
// batches into backend passes.
//
// The package sits between the instance data model in the root package
// and the rasterizing backends:
//
//   - RenderTarget abstracts the destination (CPU pixmap, GPU texture,
//     window surface).
//   - Renderer is implemented by backends (software, wgpu) and executes
//     the four compositing passes over a frame.
//   - Compositor owns per-frame orchestration: it validates the batch at
//     the submission boundary, derives the pass projections from the
//     target size, and dispatches to the renderer.
//
// A typical frame:
//
//	c := render.NewCompositor(render.DefaultConfig(backend))
//	batch := compositor.NewBatch()
//	_ = batch.AddFlatQuad(compositor.RectXYWH(0, 0, 100, 100), compositor.RGB(1, 0, 0))
//	if err := c.Composite(target, batch); err != nil {
//	    // frame dropped, target untouched
//	}
package render
