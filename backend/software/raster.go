// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/compositor"
)

// surface wraps a target's pixel buffer with scissor-aware blending.
type surface struct {
	pix    []byte
	stride int
	width  int
	height int

	// Scissor bounds in pixels, half-open.
	x0, y0, x1, y1 int
}

func (s *surface) setScissor(bounds compositor.Rect) {
	s.x0, s.y0 = 0, 0
	s.x1, s.y1 = s.width, s.height
	if bounds.Size.IsPositive() {
		s.x0 = max(int(bounds.Pos.X), 0)
		s.y0 = max(int(bounds.Pos.Y), 0)
		s.x1 = min(int(bounds.MaxX()), s.width)
		s.y1 = min(int(bounds.MaxY()), s.height)
	}
}

// blend composites a straight-alpha color over the pixel with the given
// coverage, using premultiplied source-over arithmetic.
func (s *surface) blend(x, y int, c compositor.RGBA, coverage float32) {
	if x < s.x0 || x >= s.x1 || y < s.y0 || y >= s.y1 {
		return
	}
	alpha := c.A * coverage
	if alpha <= 0 {
		return
	}

	off := y*s.stride + x*4
	inv := 1 - alpha
	s.pix[off] = toByte(c.R*alpha + float32(s.pix[off])/255*inv)
	s.pix[off+1] = toByte(c.G*alpha + float32(s.pix[off+1])/255*inv)
	s.pix[off+2] = toByte(c.B*alpha + float32(s.pix[off+2])/255*inv)
	s.pix[off+3] = toByte(alpha + float32(s.pix[off+3])/255*inv)
}

func toByte(v float32) byte {
	v = v * 255
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v + 0.5)
}

// spanCoverage returns how much of the unit pixel [p, p+1) lies inside
// the interval [lo, hi).
func spanCoverage(p, lo, hi float32) float32 {
	c := math32.Min(p+1, hi) - math32.Max(p, lo)
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 1
	}
	return c
}

// flatPass fills axis-aligned quads with bilinear vertex colors.
// Vertices arrive four per quad in clockwise order starting top-left.
func (r *Renderer) flatPass(s *surface, verts []compositor.FlatVertex) {
	for i := 0; i+3 < len(verts); i += 4 {
		tl, tr, br, bl := verts[i], verts[i+1], verts[i+2], verts[i+3]

		minX := math32.Min(tl.Position.X, bl.Position.X)
		maxX := math32.Max(tr.Position.X, br.Position.X)
		minY := math32.Min(tl.Position.Y, tr.Position.Y)
		maxY := math32.Max(bl.Position.Y, br.Position.Y)
		w := maxX - minX
		h := maxY - minY
		if w <= 0 || h <= 0 {
			continue
		}

		for y := int(math32.Floor(minY)); float32(y) < maxY; y++ {
			cy := spanCoverage(float32(y), minY, maxY)
			if cy == 0 {
				continue
			}
			fy := (float32(y) + 0.5 - minY) / h
			for x := int(math32.Floor(minX)); float32(x) < maxX; x++ {
				cx := spanCoverage(float32(x), minX, maxX)
				if cx == 0 {
					continue
				}
				fx := (float32(x) + 0.5 - minX) / w
				top := tl.Color.Lerp(tr.Color, clamp01(fx))
				bot := bl.Color.Lerp(br.Color, clamp01(fx))
				s.blend(x, y, top.Lerp(bot, clamp01(fy)), cx*cy)
			}
		}
	}
}

// quadPass draws rounded, optionally bordered quads with SDF coverage.
func (r *Renderer) quadPass(s *surface, quads []compositor.QuadInstance) {
	for i := range quads {
		r.drawQuad(s, &quads[i])
	}
}

func (r *Renderer) drawQuad(s *surface, q *compositor.QuadInstance) {
	halfW := q.Size.W / 2
	halfH := q.Size.H / 2
	cx := q.Position.X + halfW
	cy := q.Position.Y + halfH
	radius := q.EffectiveBorderRadius()

	// The fragment footprint extends one pixel past the quad on each
	// side so the anti-aliased edge is never clipped.
	x0 := int(math32.Floor(q.Position.X - compositor.QuadMargin))
	y0 := int(math32.Floor(q.Position.Y - compositor.QuadMargin))
	x1 := int(math32.Ceil(q.Position.X + q.Size.W + compositor.QuadMargin))
	y1 := int(math32.Ceil(q.Position.Y + q.Size.H + compositor.QuadMargin))

	bw := q.BorderWidth
	innerRadius := math32.Max(radius-bw, 0)

	for y := y0; y < y1; y++ {
		py := float32(y) + 0.5
		for x := x0; x < x1; x++ {
			px := float32(x) + 0.5

			dist := sdfRoundedRect(px, py, cx, cy, halfW, halfH, radius)
			coverage := sdfCoverage(dist)
			if coverage == 0 {
				continue
			}

			c := q.Color
			if bw > 0 {
				// Inside the inner rect the fill shows; the band
				// between inner and outer edges is border.
				inner := sdfRoundedRect(px, py, cx, cy, halfW-bw, halfH-bw, innerRadius)
				c = q.BorderColor.Lerp(q.Color, sdfCoverage(inner))
			}
			s.blend(x, y, c, coverage)
		}
	}
}

// imagePass blits rectangles from the bound image source. Texcoords
// normalize against the instance's own sub-rect, so sampling addresses
// AtlasPosition + v*AtlasSize in source pixels.
func (r *Renderer) imagePass(s *surface, images []compositor.ImageInstance) {
	if r.img == nil || len(images) == 0 {
		return
	}
	bounds := r.img.Bounds()

	for i := range images {
		im := &images[i]
		x0 := int(math32.Floor(im.Position.X))
		y0 := int(math32.Floor(im.Position.Y))
		x1 := int(math32.Ceil(im.Position.X + im.Size.W))
		y1 := int(math32.Ceil(im.Position.Y + im.Size.H))

		for y := y0; y < y1; y++ {
			v := (float32(y) + 0.5 - im.Position.Y) / im.Size.H
			if v < 0 || v >= 1 {
				continue
			}
			for x := x0; x < x1; x++ {
				u := (float32(x) + 0.5 - im.Position.X) / im.Size.W
				if u < 0 || u >= 1 {
					continue
				}
				sx := bounds.Min.X + int(im.AtlasPosition.X+u*im.AtlasSize.W)
				sy := bounds.Min.Y + int(im.AtlasPosition.Y+v*im.AtlasSize.H)
				if !(image.Point{X: sx, Y: sy}).In(bounds) {
					continue
				}
				s.blend(x, y, sampleRGBA(r.img, sx, sy), 1)
			}
		}
	}
}

// spritePass samples the atlas texture array, honoring rotation and the
// hi-dpi footprint.
func (r *Renderer) spritePass(s *surface, sprites []compositor.SpriteInstance) {
	if r.atlas == nil || len(sprites) == 0 {
		return
	}
	for i := range sprites {
		r.drawSprite(s, &sprites[i])
	}
}

func (r *Renderer) drawSprite(s *surface, sp *compositor.SpriteInstance) {
	// Screen-space bounding box over the four (possibly rotated) corners.
	minX, minY := math32.Inf(1), math32.Inf(1)
	maxX, maxY := math32.Inf(-1), math32.Inf(-1)
	for _, v := range compositor.QuadVertices {
		p := sp.ScreenPosition(v)
		minX = math32.Min(minX, p.X)
		minY = math32.Min(minY, p.Y)
		maxX = math32.Max(maxX, p.X)
		maxY = math32.Max(maxY, p.Y)
	}

	scale := float32(1)
	if sp.HiDPI {
		scale = 0.5
	}
	w := sp.AtlasSize.W * scale
	h := sp.AtlasSize.H * scale
	if w <= 0 || h <= 0 {
		return
	}

	sin, cos := math32.Sincos(-sp.Rotation)

	for y := int(math32.Floor(minY)); float32(y) < maxY; y++ {
		for x := int(math32.Floor(minX)); float32(x) < maxX; x++ {
			// Map the pixel back into unrotated local space.
			lx := float32(x) + 0.5 - sp.Position.X
			ly := float32(y) + 0.5 - sp.Position.Y
			if sp.Rotation != 0 {
				dx := lx - sp.RotateOrigin.X
				dy := ly - sp.RotateOrigin.Y
				lx = cos*dx - sin*dy + sp.RotateOrigin.X
				ly = sin*dx + cos*dy + sp.RotateOrigin.Y
			}

			u := lx / w
			v := ly / h
			if u < 0 || u >= 1 || v < 0 || v >= 1 {
				continue
			}

			tx := int(sp.AtlasPosition.X + u*sp.AtlasSize.W)
			ty := int(sp.AtlasPosition.Y + v*sp.AtlasSize.H)
			s.blend(x, y, r.atlas.Sample(sp.AtlasLayer, tx, ty), 1)
		}
	}
}

func sampleRGBA(img *image.RGBA, x, y int) compositor.RGBA {
	off := img.PixOffset(x, y)
	return compositor.RGBAf(
		float32(img.Pix[off])/255,
		float32(img.Pix[off+1])/255,
		float32(img.Pix[off+2])/255,
		float32(img.Pix[off+3])/255,
	)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
