// Package compositor provides a layered 2D quad and sprite compositor for Go.
//
// # Overview
//
// compositor is a low-level, do-it-yourself rendering substrate designed for
// building custom widgets on top of the GoGPU ecosystem. It draws exactly four
// kinds of primitives, all as instanced unit quads:
//
//   - Flat quads: per-vertex colored geometry
//   - Styled quads: rounded corners and borders via signed-distance shading
//   - Atlas sprites: rotatable blits from a layered texture atlas
//   - Images: axis-aligned blits from an atlas sub-rectangle
//
// Callers assemble per-frame instance batches, and the compositor rasterizes
// them in submission order (painter's algorithm) using either the CPU
// reference backend (backend/software) or the WebGPU backend (backend/wgpu).
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/compositor"
//	    "github.com/gogpu/compositor/atlas"
//	    "github.com/gogpu/compositor/backend/software"
//	    "github.com/gogpu/compositor/render"
//	)
//
//	batch := compositor.NewBatch()
//	batch.AddQuad(compositor.QuadInstance{
//	    Position:     compositor.Pt(10, 10),
//	    Size:         compositor.Sz(100, 50),
//	    Color:        compositor.RGB(0.2, 0.4, 0.8),
//	    BorderColor:  compositor.RGB(1, 1, 1),
//	    BorderRadius: 8,
//	    BorderWidth:  2,
//	})
//
//	target := render.NewPixmapTarget(800, 600)
//	c := render.NewCompositor(render.DefaultConfig(
//	    software.NewRenderer(atlas.New(atlas.Config{}))))
//	if err := c.Composite(target, batch); err != nil {
//	    // the whole frame was rejected; the target is untouched
//	}
//
// # Coordinate System
//
// Logical pixel space has its origin (0,0) at the top-left with Y increasing
// downward. Projection to clip space flips Y (clip-space Y grows upward):
// logical (0,0) maps to clip (-1, +1). Two projection modes exist and are
// deliberately kept separate; see [Projection].
//
// # Scope
//
// The compositor owns neither the host window nor the event loop, performs no
// text shaping or layout resolution, and ships no widget set. Texture atlas
// packing lives in the atlas sub-package; layer and dirty-region bookkeeping
// in render. Everything else is the caller's business.
package compositor

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
