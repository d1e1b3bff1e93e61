// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/compositor/atlas"
)

// copyPitchAlignment is the BytesPerRow alignment WebGPU requires for
// texture transfers.
const copyPitchAlignment = 256

// maxTextureExtent is the guaranteed texture dimension limit negotiated
// with DefaultLimits.
const maxTextureExtent = 8192

// alignBytesPerRow rounds a row pitch up to the transfer alignment.
func alignBytesPerRow(bytesPerRow uint32) uint32 {
	return (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// atlasTexture mirrors the sprite atlas into a GPU texture array. The
// atlas keeps the authoritative pixels on the CPU; this type uploads
// dirty layers before each frame and grows the array when the atlas
// allocates new layers.
type atlasTexture struct {
	device hal.Device
	queue  hal.Queue

	texture hal.Texture
	view    hal.TextureView

	extent uint32
	layers uint32

	// pad is the row-padding staging buffer, reused across uploads.
	pad []byte
}

// newAtlasTexture creates the texture array sized for the atlas's current
// layer count. At least one layer is allocated so the sprite pass always
// has a valid binding.
func newAtlasTexture(device hal.Device, queue hal.Queue, a *atlas.Atlas) (*atlasTexture, error) {
	if device == nil || queue == nil || a == nil {
		return nil, ErrNotInitialized
	}
	if a.Extent() > maxTextureExtent {
		return nil, fmt.Errorf("%w: extent %d, limit %d", ErrAtlasTooLarge, a.Extent(), maxTextureExtent)
	}

	at := &atlasTexture{
		device: device,
		queue:  queue,
		extent: uint32(a.Extent()),
	}

	layers := a.LayerCount()
	if layers == 0 {
		layers = 1
	}
	if err := at.create(layers); err != nil {
		return nil, err
	}
	return at, nil
}

// create allocates the texture array and its view.
func (at *atlasTexture) create(layers uint32) error {
	texture, err := at.device.CreateTexture(&hal.TextureDescriptor{
		Label: "compositor_atlas",
		Size: hal.Extent3D{
			Width:              at.extent,
			Height:             at.extent,
			DepthOrArrayLayers: layers,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create atlas texture: %w", err)
	}

	view, err := at.device.CreateTextureView(texture, &hal.TextureViewDescriptor{
		Label: "compositor_atlas_view",
	})
	if err != nil {
		at.device.DestroyTexture(texture)
		return fmt.Errorf("create atlas view: %w", err)
	}

	at.texture = texture
	at.view = view
	at.layers = layers
	return nil
}

// Sync brings the GPU array up to date with the atlas: grows the array if
// the atlas gained layers, then uploads dirty layers and marks them clean.
// Growing re-uploads every layer from the atlas's CPU store.
func (at *atlasTexture) Sync(a *atlas.Atlas) error {
	count := a.LayerCount()
	if count > at.layers {
		at.destroyTexture()
		if err := at.create(count); err != nil {
			return err
		}
		for layer := uint32(0); layer < count; layer++ {
			at.uploadLayer(a, layer)
		}
		a.MarkClean()
		return nil
	}

	for _, layer := range a.DirtyLayers() {
		at.uploadLayer(a, layer)
	}
	a.MarkClean()
	return nil
}

// uploadLayer writes one atlas layer's pixels into the array slice.
func (at *atlasTexture) uploadLayer(a *atlas.Atlas, layer uint32) {
	pixels := a.LayerPixels(layer)
	if pixels == nil {
		return
	}

	bytesPerRow := at.extent * 4
	aligned := alignBytesPerRow(bytesPerRow)
	if aligned != bytesPerRow {
		// Re-pitch rows into the staging buffer.
		need := int(aligned) * int(at.extent)
		if cap(at.pad) < need {
			at.pad = make([]byte, need)
		}
		at.pad = at.pad[:need]
		for row := uint32(0); row < at.extent; row++ {
			src := pixels[row*bytesPerRow : (row+1)*bytesPerRow]
			copy(at.pad[row*aligned:], src)
		}
		pixels = at.pad
	}

	at.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  at.texture,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: 0, Y: 0, Z: layer},
			Aspect:   gputypes.TextureAspectAll,
		},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  aligned,
			RowsPerImage: at.extent,
		},
		&hal.Extent3D{
			Width:              at.extent,
			Height:             at.extent,
			DepthOrArrayLayers: 1,
		},
	)
}

// View returns the texture array view for the sprite pass bind group.
func (at *atlasTexture) View() hal.TextureView {
	return at.view
}

// LayerCount returns the array depth currently allocated on the GPU.
func (at *atlasTexture) LayerCount() uint32 {
	return at.layers
}

func (at *atlasTexture) destroyTexture() {
	if at.view != nil {
		at.device.DestroyTextureView(at.view)
		at.view = nil
	}
	if at.texture != nil {
		at.device.DestroyTexture(at.texture)
		at.texture = nil
	}
}

// destroy releases the texture array.
func (at *atlasTexture) destroy() {
	if at.device == nil {
		return
	}
	at.destroyTexture()
}

// imageTexture holds the source texture of the image blit pass. The image
// pass samples one source per frame; SetSource replaces the texture when
// the host binds a new image.
type imageTexture struct {
	device hal.Device
	queue  hal.Queue

	texture hal.Texture
	view    hal.TextureView

	width  uint32
	height uint32

	pad []byte
}

func newImageTexture(device hal.Device, queue hal.Queue) *imageTexture {
	return &imageTexture{device: device, queue: queue}
}

// SetSource uploads src as the image pass source, recreating the texture
// if the dimensions changed. Pixels are expected premultiplied, matching
// the blend state of the pass.
func (it *imageTexture) SetSource(src *image.RGBA) error {
	if src == nil {
		it.destroyTexture()
		return nil
	}

	w := uint32(src.Rect.Dx())
	h := uint32(src.Rect.Dy())
	if w == 0 || h == 0 {
		it.destroyTexture()
		return nil
	}

	if it.texture == nil || it.width != w || it.height != h {
		it.destroyTexture()

		texture, err := it.device.CreateTexture(&hal.TextureDescriptor{
			Label: "compositor_image_source",
			Size: hal.Extent3D{
				Width:              w,
				Height:             h,
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        gputypes.TextureFormatRGBA8Unorm,
			Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create image source texture: %w", err)
		}
		view, err := it.device.CreateTextureView(texture, &hal.TextureViewDescriptor{
			Label: "compositor_image_source_view",
		})
		if err != nil {
			it.device.DestroyTexture(texture)
			return fmt.Errorf("create image source view: %w", err)
		}
		it.texture = texture
		it.view = view
		it.width = w
		it.height = h
	}

	bytesPerRow := w * 4
	aligned := alignBytesPerRow(bytesPerRow)
	pixels := src.Pix
	if aligned != bytesPerRow || src.Stride != int(bytesPerRow) {
		need := int(aligned) * int(h)
		if cap(it.pad) < need {
			it.pad = make([]byte, need)
		}
		it.pad = it.pad[:need]
		for row := uint32(0); row < h; row++ {
			srcRow := src.Pix[int(row)*src.Stride:]
			copy(it.pad[row*aligned:int(row*aligned)+int(bytesPerRow)], srcRow[:bytesPerRow])
		}
		pixels = it.pad
	}

	it.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  it.texture,
			MipLevel: 0,
			Origin:   hal.Origin3D{},
			Aspect:   gputypes.TextureAspectAll,
		},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  aligned,
			RowsPerImage: h,
		},
		&hal.Extent3D{
			Width:              w,
			Height:             h,
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

// View returns the source view, or nil when no source is bound.
func (it *imageTexture) View() hal.TextureView {
	return it.view
}

func (it *imageTexture) destroyTexture() {
	if it.view != nil {
		it.device.DestroyTextureView(it.view)
		it.view = nil
	}
	if it.texture != nil {
		it.device.DestroyTexture(it.texture)
		it.texture = nil
	}
	it.width, it.height = 0, 0
}

// destroy releases the source texture.
func (it *imageTexture) destroy() {
	if it.device == nil {
		return
	}
	it.destroyTexture()
}
