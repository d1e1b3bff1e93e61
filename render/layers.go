// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"slices"

	"github.com/gogpu/gputypes"
)

// LayeredTarget supports z-ordered overlay layers for popups, dropdowns,
// and tooltips.
//
// Each layer is an independent render target; a host composites a frame's
// base content and overlays separately, then flattens them in ascending
// z-order. This avoids managing separate window surfaces for transient UI.
type LayeredTarget interface {
	RenderTarget

	// CreateLayer creates a new layer at the specified z-order.
	// Higher z values flatten on top of lower values.
	// Returns an error if a layer with the same z-order already exists.
	CreateLayer(z int) (RenderTarget, error)

	// RemoveLayer removes a layer by z-order.
	// Returns an error if the layer does not exist.
	RemoveLayer(z int) error

	// SetLayerVisible controls layer visibility without removing it.
	// Invisible layers are skipped while flattening but retain content.
	SetLayerVisible(z int, visible bool)

	// Layers returns all layer z-orders in flatten order (ascending).
	Layers() []int

	// Flatten blends all visible layers onto the base target.
	// Call after all per-layer compositing for the frame is complete.
	Flatten()
}

// overlay is a single compositing layer.
type overlay struct {
	img     *image.RGBA
	visible bool
}

// LayeredPixmapTarget is a CPU-backed implementation of LayeredTarget.
// It holds an *image.RGBA per layer and flattens them in z-order with
// source-over blending.
type LayeredPixmapTarget struct {
	base   *image.RGBA
	layers map[int]*overlay
	zOrder []int // cached sorted z-order list
	width  int
	height int
}

// NewLayeredPixmapTarget creates a new layered CPU render target.
func NewLayeredPixmapTarget(width, height int) *LayeredPixmapTarget {
	return &LayeredPixmapTarget{
		base:   image.NewRGBA(image.Rect(0, 0, width, height)),
		layers: make(map[int]*overlay),
		width:  width,
		height: height,
	}
}

// Width returns the target width in pixels.
func (t *LayeredPixmapTarget) Width() int {
	return t.width
}

// Height returns the target height in pixels.
func (t *LayeredPixmapTarget) Height() int {
	return t.height
}

// Format returns the pixel format (RGBA8).
func (t *LayeredPixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// TextureView returns nil as this is a CPU-only target.
func (t *LayeredPixmapTarget) TextureView() TextureView {
	return nil
}

// Pixels returns the base layer pixel data. Call Flatten first to fold
// the overlays in.
func (t *LayeredPixmapTarget) Pixels() []byte {
	return t.base.Pix
}

// Stride returns the number of bytes per row.
func (t *LayeredPixmapTarget) Stride() int {
	return t.base.Stride
}

// Image returns the base layer image. Call Flatten first to fold the
// overlays in.
func (t *LayeredPixmapTarget) Image() *image.RGBA {
	return t.base
}

// CreateLayer creates a new layer at the specified z-order and returns a
// target for compositing into it.
func (t *LayeredPixmapTarget) CreateLayer(z int) (RenderTarget, error) {
	if _, exists := t.layers[z]; exists {
		return nil, fmt.Errorf("layer with z=%d already exists", z)
	}

	l := &overlay{
		img:     image.NewRGBA(image.Rect(0, 0, t.width, t.height)),
		visible: true,
	}
	t.layers[z] = l
	t.zOrder = nil

	return NewPixmapTargetFromImage(l.img), nil
}

// RemoveLayer removes a layer by z-order.
func (t *LayeredPixmapTarget) RemoveLayer(z int) error {
	if _, exists := t.layers[z]; !exists {
		return fmt.Errorf("layer with z=%d does not exist", z)
	}
	delete(t.layers, z)
	t.zOrder = nil
	return nil
}

// SetLayerVisible controls layer visibility.
func (t *LayeredPixmapTarget) SetLayerVisible(z int, visible bool) {
	if l, exists := t.layers[z]; exists {
		l.visible = visible
	}
}

// Layers returns all layer z-orders in flatten order (ascending).
func (t *LayeredPixmapTarget) Layers() []int {
	if t.zOrder == nil {
		t.zOrder = make([]int, 0, len(t.layers))
		for z := range t.layers {
			t.zOrder = append(t.zOrder, z)
		}
		slices.Sort(t.zOrder)
	}
	result := make([]int, len(t.zOrder))
	copy(result, t.zOrder)
	return result
}

// Flatten blends all visible layers onto the base target in z-order
// using source-over alpha compositing.
func (t *LayeredPixmapTarget) Flatten() {
	for _, z := range t.Layers() {
		l := t.layers[z]
		if l.visible {
			draw.Draw(t.base, t.base.Bounds(), l.img, image.Point{}, draw.Over)
		}
	}
}

// Clear fills the base layer with the given color. Overlays keep their
// content.
func (t *LayeredPixmapTarget) Clear(c color.Color) {
	NewPixmapTargetFromImage(t.base).Clear(c)
}

// ClearLayer fills a specific layer with a color.
// Returns an error if the layer does not exist.
func (t *LayeredPixmapTarget) ClearLayer(z int, c color.Color) error {
	l, exists := t.layers[z]
	if !exists {
		return fmt.Errorf("layer with z=%d does not exist", z)
	}
	NewPixmapTargetFromImage(l.img).Clear(c)
	return nil
}

// GetLayer returns the RenderTarget for a specific layer, or nil if the
// layer does not exist.
func (t *LayeredPixmapTarget) GetLayer(z int) RenderTarget {
	l, exists := t.layers[z]
	if !exists {
		return nil
	}
	return NewPixmapTargetFromImage(l.img)
}

// Ensure LayeredPixmapTarget implements both interfaces.
var (
	_ RenderTarget  = (*LayeredPixmapTarget)(nil)
	_ LayeredTarget = (*LayeredPixmapTarget)(nil)
)
