// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/atlas"
	"github.com/gogpu/compositor/render"
)

func composite(t *testing.T, r *Renderer, target *render.PixmapTarget, batch *compositor.Batch) {
	t.Helper()
	c := render.NewCompositor(render.DefaultConfig(r))
	if err := c.Composite(target, batch); err != nil {
		t.Fatalf("Composite: %v", err)
	}
}

func pixAt(target *render.PixmapTarget, x, y int) [4]byte {
	pix := target.Pixels()
	off := y*target.Stride() + x*4
	return [4]byte{pix[off], pix[off+1], pix[off+2], pix[off+3]}
}

func TestFlatQuadFill(t *testing.T) {
	target := render.NewPixmapTarget(64, 64)
	r := NewRenderer(nil)

	b := compositor.NewBatch()
	if err := b.AddFlatQuad(compositor.RectXYWH(8, 8, 32, 32), compositor.RGB(1, 0, 0)); err != nil {
		t.Fatal(err)
	}
	composite(t, r, target, b)

	if got := pixAt(target, 16, 16); got != [4]byte{255, 0, 0, 255} {
		t.Errorf("interior pixel = %v", got)
	}
	if got := pixAt(target, 50, 50); got != [4]byte{0, 0, 0, 0} {
		t.Errorf("exterior pixel = %v", got)
	}
}

func TestFlatQuadGradient(t *testing.T) {
	target := render.NewPixmapTarget(64, 16)
	r := NewRenderer(nil)

	// Left edge red, right edge green.
	red := compositor.RGB(1, 0, 0)
	green := compositor.RGB(0, 1, 0)
	b := compositor.NewBatch()
	err := b.AddFlatVertices(
		compositor.FlatVertex{Position: compositor.Pt(0, 0), Color: red},
		compositor.FlatVertex{Position: compositor.Pt(64, 0), Color: green},
		compositor.FlatVertex{Position: compositor.Pt(64, 16), Color: green},
		compositor.FlatVertex{Position: compositor.Pt(0, 16), Color: red},
	)
	if err != nil {
		t.Fatal(err)
	}
	composite(t, r, target, b)

	left := pixAt(target, 1, 8)
	right := pixAt(target, 62, 8)
	if left[0] < 200 || left[1] > 60 {
		t.Errorf("left pixel = %v, want mostly red", left)
	}
	if right[1] < 200 || right[0] > 60 {
		t.Errorf("right pixel = %v, want mostly green", right)
	}
}

func TestPainterOrder(t *testing.T) {
	target := render.NewPixmapTarget(32, 32)
	r := NewRenderer(nil)

	b := compositor.NewBatch()
	if err := b.AddFlatQuad(compositor.RectXYWH(0, 0, 32, 32), compositor.RGB(1, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := b.AddFlatQuad(compositor.RectXYWH(0, 0, 32, 32), compositor.RGB(0, 0, 1)); err != nil {
		t.Fatal(err)
	}
	composite(t, r, target, b)

	// Later record wins.
	if got := pixAt(target, 16, 16); got != [4]byte{0, 0, 255, 255} {
		t.Errorf("pixel = %v, want blue", got)
	}
}

func TestPremultipliedBlend(t *testing.T) {
	target := render.NewPixmapTarget(8, 8)
	target.Clear(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	r := NewRenderer(nil)

	b := compositor.NewBatch()
	if err := b.AddFlatQuad(compositor.RectXYWH(0, 0, 8, 8), compositor.RGBAf(1, 0, 0, 0.5)); err != nil {
		t.Fatal(err)
	}
	composite(t, r, target, b)

	// 50% red over white: red stays saturated, green/blue halve.
	got := pixAt(target, 4, 4)
	if got[0] != 255 {
		t.Errorf("red = %d, want 255", got[0])
	}
	if got[1] < 120 || got[1] > 135 {
		t.Errorf("green = %d, want ~127", got[1])
	}
	if got[3] != 255 {
		t.Errorf("alpha = %d, want 255", got[3])
	}
}

func TestQuadRoundedCorners(t *testing.T) {
	target := render.NewPixmapTarget(64, 64)
	r := NewRenderer(nil)

	b := compositor.NewBatch()
	err := b.AddQuad(compositor.QuadInstance{
		Position:     compositor.Pt(8, 8),
		Size:         compositor.Sz(40, 40),
		Color:        compositor.RGB(0, 1, 0),
		BorderRadius: 12,
	})
	if err != nil {
		t.Fatal(err)
	}
	composite(t, r, target, b)

	// Center is filled; the square corner pixel is carved away.
	if got := pixAt(target, 28, 28); got[1] != 255 {
		t.Errorf("center = %v, want green", got)
	}
	if got := pixAt(target, 9, 9); got[3] != 0 {
		t.Errorf("rounded-away corner = %v, want untouched", got)
	}
}

func TestQuadRadiusClamp(t *testing.T) {
	target := render.NewPixmapTarget(128, 64)
	r := NewRenderer(nil)

	// Radius 40 on a 100x50 quad clamps to 25: the quad becomes a
	// capsule whose left cap center column stays filled.
	b := compositor.NewBatch()
	err := b.AddQuad(compositor.QuadInstance{
		Position:     compositor.Pt(10, 5),
		Size:         compositor.Sz(100, 50),
		Color:        compositor.RGB(1, 1, 1),
		BorderRadius: 40,
	})
	if err != nil {
		t.Fatal(err)
	}
	composite(t, r, target, b)

	// Vertical midline of the left cap.
	if got := pixAt(target, 11, 30); got[3] != 255 {
		t.Errorf("cap midline = %v, want opaque", got)
	}
	// Top-left corner region is outside the capsule.
	if got := pixAt(target, 12, 8); got[3] != 0 {
		t.Errorf("corner = %v, want untouched", got)
	}
}

func TestQuadBorder(t *testing.T) {
	target := render.NewPixmapTarget(64, 64)
	r := NewRenderer(nil)

	b := compositor.NewBatch()
	err := b.AddQuad(compositor.QuadInstance{
		Position:    compositor.Pt(8, 8),
		Size:        compositor.Sz(40, 40),
		Color:       compositor.RGB(0, 1, 0),
		BorderColor: compositor.RGB(1, 0, 0),
		BorderWidth: 4,
	})
	if err != nil {
		t.Fatal(err)
	}
	composite(t, r, target, b)

	// Just inside the outer edge: border color.
	if got := pixAt(target, 10, 28); got[0] != 255 || got[1] != 0 {
		t.Errorf("border pixel = %v, want red", got)
	}
	// Deep interior: fill color.
	if got := pixAt(target, 28, 28); got[1] != 255 || got[0] != 0 {
		t.Errorf("fill pixel = %v, want green", got)
	}
}

func TestScissorBounds(t *testing.T) {
	target := render.NewPixmapTarget(64, 64)
	r := NewRenderer(nil)
	c := render.NewCompositor(render.DefaultConfig(r))

	b := compositor.NewBatch()
	if err := b.AddFlatQuad(compositor.RectXYWH(0, 0, 64, 64), compositor.RGB(1, 0, 0)); err != nil {
		t.Fatal(err)
	}
	frame := &compositor.Frame{
		Batch:          b,
		QuadProjection: compositor.NewMatrixProjection(64, 64),
		BlitProjection: compositor.NewScaleFlipProjection(64, 64),
		Bounds:         compositor.RectXYWH(16, 16, 16, 16),
	}
	if err := c.CompositeFrame(target, frame); err != nil {
		t.Fatalf("CompositeFrame: %v", err)
	}

	if got := pixAt(target, 20, 20); got[0] != 255 {
		t.Errorf("inside scissor = %v, want red", got)
	}
	if got := pixAt(target, 8, 8); got != [4]byte{0, 0, 0, 0} {
		t.Errorf("outside scissor = %v, want untouched", got)
	}
	if got := pixAt(target, 40, 40); got != [4]byte{0, 0, 0, 0} {
		t.Errorf("past scissor max = %v, want untouched", got)
	}
}

func newSpriteAtlas(t *testing.T, c color.RGBA) (*atlas.Atlas, *atlas.Entry) {
	t.Helper()
	a := atlas.New(atlas.Config{Extent: 256})
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	entry, err := a.Upload(1, img, false)
	if err != nil {
		t.Fatal(err)
	}
	return a, entry
}

func TestSpriteBlit(t *testing.T) {
	a, entry := newSpriteAtlas(t, color.RGBA{B: 255, A: 255})
	target := render.NewPixmapTarget(64, 64)
	r := NewRenderer(a)

	b := compositor.NewBatch()
	for _, s := range entry.Instances(compositor.Pt(10, 10)) {
		if err := b.AddSprite(s); err != nil {
			t.Fatal(err)
		}
	}
	composite(t, r, target, b)

	if got := pixAt(target, 12, 12); got[2] != 255 {
		t.Errorf("sprite pixel = %v, want blue", got)
	}
	if got := pixAt(target, 30, 30); got[3] != 0 {
		t.Errorf("outside sprite = %v, want untouched", got)
	}
}

func TestSpriteAtlasLayerSelection(t *testing.T) {
	a := atlas.New(atlas.Config{Extent: 256, MaxLayers: 2})

	// Two full-layer uploads: red claims layer 0, green layer 1.
	solid := func(c color.RGBA) *image.RGBA {
		img := image.NewRGBA(image.Rect(0, 0, 256, 256))
		for y := 0; y < 256; y++ {
			for x := 0; x < 256; x++ {
				img.SetRGBA(x, y, c)
			}
		}
		return img
	}
	red, err := a.Upload(1, solid(color.RGBA{R: 255, A: 255}), false)
	if err != nil {
		t.Fatal(err)
	}
	green, err := a.Upload(2, solid(color.RGBA{G: 255, A: 255}), false)
	if err != nil {
		t.Fatal(err)
	}
	if red.Fragments()[0].Layer == green.Fragments()[0].Layer {
		t.Fatal("uploads share a layer")
	}

	target := render.NewPixmapTarget(64, 64)
	r := NewRenderer(a)

	// Identical atlas region on both sprites; only the layer differs.
	b := compositor.NewBatch()
	for i, e := range []*atlas.Entry{red, green} {
		s := compositor.SpriteInstance{
			Position:      compositor.Pt(float32(i*32), 0),
			AtlasPosition: compositor.Pt(0, 0),
			AtlasSize:     compositor.Sz(16, 16),
			AtlasLayer:    e.Fragments()[0].Layer,
		}
		if err := b.AddSprite(s); err != nil {
			t.Fatal(err)
		}
	}
	composite(t, r, target, b)

	if got := pixAt(target, 8, 8); got[0] != 255 || got[1] != 0 {
		t.Errorf("layer-0 sprite pixel = %v, want red", got)
	}
	if got := pixAt(target, 40, 8); got[1] != 255 || got[0] != 0 {
		t.Errorf("layer-1 sprite pixel = %v, want green", got)
	}
}

func TestSpriteRotationQuarterTurn(t *testing.T) {
	a := atlas.New(atlas.Config{Extent: 256})
	// 16x8 texture: wider than tall. After a quarter turn about the
	// top-left corner the footprint is 8 wide, 16 tall, extending +Y.
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	entry, err := a.Upload(1, img, false)
	if err != nil {
		t.Fatal(err)
	}

	target := render.NewPixmapTarget(64, 64)
	r := NewRenderer(a)

	s := entry.Instances(compositor.Pt(30, 20))[0]
	s.Rotation = 3.14159265 / 2

	b := compositor.NewBatch()
	if err := b.AddSprite(s); err != nil {
		t.Fatal(err)
	}
	composite(t, r, target, b)

	// Down the rotated long axis.
	if got := pixAt(target, 27, 32); got[0] != 255 {
		t.Errorf("rotated pixel = %v, want red", got)
	}
	// Where the unrotated sprite would have been.
	if got := pixAt(target, 42, 22); got[3] != 0 {
		t.Errorf("unrotated area = %v, want untouched", got)
	}
}

func TestSpriteHiDPIFootprint(t *testing.T) {
	a := atlas.New(atlas.Config{Extent: 256})
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	entry, err := a.Upload(1, img, true)
	if err != nil {
		t.Fatal(err)
	}

	target := render.NewPixmapTarget(64, 64)
	r := NewRenderer(a)

	b := compositor.NewBatch()
	for _, s := range entry.Instances(compositor.Pt(0, 0)) {
		if err := b.AddSprite(s); err != nil {
			t.Fatal(err)
		}
	}
	composite(t, r, target, b)

	// Stored 32x32, composites 16x16.
	if got := pixAt(target, 8, 8); got[1] != 255 {
		t.Errorf("inside hi-dpi sprite = %v, want green", got)
	}
	if got := pixAt(target, 24, 8); got[3] != 0 {
		t.Errorf("outside logical footprint = %v, want untouched", got)
	}
}

func TestImageBlitSubRect(t *testing.T) {
	// Source: left half red, right half blue.
	src := image.NewRGBA(image.Rect(0, 0, 32, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= 16 {
				c = color.RGBA{B: 255, A: 255}
			}
			src.SetRGBA(x, y, c)
		}
	}

	target := render.NewPixmapTarget(64, 64)
	r := NewRenderer(nil)
	r.SetImageSource(src)

	// Blit only the right (blue) half.
	b := compositor.NewBatch()
	err := b.AddImage(compositor.ImageInstance{
		Position:      compositor.Pt(10, 10),
		Size:          compositor.Sz(16, 16),
		AtlasPosition: compositor.Pt(16, 0),
		AtlasSize:     compositor.Sz(16, 16),
	})
	if err != nil {
		t.Fatal(err)
	}
	composite(t, r, target, b)

	if got := pixAt(target, 18, 18); got[2] != 255 || got[0] != 0 {
		t.Errorf("blitted pixel = %v, want blue", got)
	}
	if got := pixAt(target, 30, 18); got[3] != 0 {
		t.Errorf("outside blit = %v, want untouched", got)
	}
}

func TestCompositeRequiresPixelAccess(t *testing.T) {
	r := NewRenderer(nil)
	target := render.NewSurfaceTarget(64, 64, 0, nil)

	b := compositor.NewBatch()
	if err := b.AddFlatQuad(compositor.RectXYWH(0, 0, 8, 8), compositor.RGB(1, 1, 1)); err != nil {
		t.Fatal(err)
	}
	frame := &compositor.Frame{Batch: b}
	if err := r.Composite(target, frame); err != ErrNoPixelAccess {
		t.Errorf("error = %v, want ErrNoPixelAccess", err)
	}
}
