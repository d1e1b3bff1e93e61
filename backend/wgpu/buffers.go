// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/compositor"
)

func floatBits(v float32) uint32 { return math.Float32bits(v) }

// staticBuffers owns the GPU buffers that survive across frames: the unit
// quad geometry, the index patterns, and the per-pass uniform buffers.
// Per-frame instance data goes through transient buffers instead, so
// chunked draws within one submission never alias.
type staticBuffers struct {
	device hal.Device
	queue  hal.Queue

	// Unit quad corners, bound at slot 0 of the instanced passes.
	corners hal.Buffer

	// Two triangles over the unit quad.
	quadIndices hal.Buffer

	// The flat pass indexes four explicit vertices per quad; this buffer
	// repeats the two-triangle pattern with a stride of four, covering a
	// full chunk.
	flatIndices hal.Buffer

	quadUniform   hal.Buffer
	spriteUniform hal.Buffer
	imageUniform  hal.Buffer
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func createAndUploadBuffer(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// newStaticBuffers allocates the shared geometry and uniform buffers and
// uploads the geometry that never changes.
func newStaticBuffers(device hal.Device, queue hal.Queue) (*staticBuffers, error) {
	if device == nil || queue == nil {
		return nil, ErrNotInitialized
	}

	sb := &staticBuffers{device: device, queue: queue}

	vertexUsage := gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst
	indexUsage := gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst
	uniformUsage := gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst

	var err error
	if sb.corners, err = createAndUploadBuffer(device, queue, "compositor_corners", encodeCorners(), vertexUsage); err != nil {
		return nil, err
	}
	if sb.quadIndices, err = createAndUploadBuffer(device, queue, "compositor_quad_indices", encodeQuadIndices(), indexUsage); err != nil {
		sb.destroy()
		return nil, err
	}
	if sb.flatIndices, err = createAndUploadBuffer(device, queue, "compositor_flat_indices", encodeFlatIndices(), indexUsage); err != nil {
		sb.destroy()
		return nil, err
	}

	uniforms := []struct {
		label string
		size  uint64
		dst   *hal.Buffer
	}{
		{"compositor_quad_uniform", quadUniformSize, &sb.quadUniform},
		{"compositor_sprite_uniform", spriteUniformSize, &sb.spriteUniform},
		{"compositor_image_uniform", imageUniformSize, &sb.imageUniform},
	}
	for _, u := range uniforms {
		buf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: u.label,
			Size:  u.size,
			Usage: uniformUsage,
		})
		if err != nil {
			sb.destroy()
			return nil, fmt.Errorf("create %s: %w", u.label, err)
		}
		*u.dst = buf
	}

	return sb, nil
}

// encodeCorners serializes the unit quad corner positions.
func encodeCorners() []byte {
	buf := make([]byte, 0, len(compositor.QuadVertices)*8)
	for _, v := range compositor.QuadVertices {
		var rec [8]byte
		binary.LittleEndian.PutUint32(rec[0:], floatBits(v.X))
		binary.LittleEndian.PutUint32(rec[4:], floatBits(v.Y))
		buf = append(buf, rec[:]...)
	}
	return buf
}

// encodeQuadIndices serializes the unit quad triangle indices.
func encodeQuadIndices() []byte {
	buf := make([]byte, 0, len(compositor.QuadIndices)*2)
	for _, idx := range compositor.QuadIndices {
		var rec [2]byte
		binary.LittleEndian.PutUint16(rec[:], idx)
		buf = append(buf, rec[:]...)
	}
	return buf
}

// encodeFlatIndices serializes the repeated two-triangle pattern for a
// full chunk of flat quads.
func encodeFlatIndices() []byte {
	quads := compositor.MaxInstancesPerDraw / 4
	buf := make([]byte, 0, quads*6*2)
	for quad := 0; quad < quads; quad++ {
		base := uint16(quad * 4) //nolint:gosec // G115: bounded by chunk size
		for _, idx := range compositor.QuadIndices {
			var rec [2]byte
			binary.LittleEndian.PutUint16(rec[:], base+idx)
			buf = append(buf, rec[:]...)
		}
	}
	return buf
}

// encodeFlatVertices serializes a batch of flat vertices.
func encodeFlatVertices(verts []compositor.FlatVertex) []byte {
	buf := make([]byte, 0, len(verts)*compositor.FlatVertexStride)
	for _, v := range verts {
		buf = compositor.AppendFlatVertex(buf, v)
	}
	return buf
}

// encodeQuadInstances serializes a batch of styled quad instances.
func encodeQuadInstances(quads []compositor.QuadInstance) []byte {
	buf := make([]byte, 0, len(quads)*compositor.QuadInstanceStride)
	for _, q := range quads {
		buf = compositor.AppendQuadInstance(buf, q)
	}
	return buf
}

// encodeSpriteInstances serializes a batch of sprite instances.
func encodeSpriteInstances(sprites []compositor.SpriteInstance) []byte {
	buf := make([]byte, 0, len(sprites)*compositor.SpriteInstanceStride)
	for _, s := range sprites {
		buf = compositor.AppendSpriteInstance(buf, s)
	}
	return buf
}

// encodeImageInstances serializes a batch of image instances.
func encodeImageInstances(images []compositor.ImageInstance) []byte {
	buf := make([]byte, 0, len(images)*compositor.ImageInstanceStride)
	for _, im := range images {
		buf = compositor.AppendImageInstance(buf, im)
	}
	return buf
}

// writeQuadUniform uploads the quad pass transform matrix.
func (sb *staticBuffers) writeQuadUniform(m compositor.Mat4) {
	buf := compositor.AppendMat4(make([]byte, 0, quadUniformSize), m)
	sb.queue.WriteBuffer(sb.quadUniform, 0, buf)
}

// writeSpriteUniform uploads the sprite pass scale and atlas scale.
func (sb *staticBuffers) writeSpriteUniform(scale, atlasScale compositor.Point) {
	var buf [spriteUniformSize]byte
	binary.LittleEndian.PutUint32(buf[0:], floatBits(scale.X))
	binary.LittleEndian.PutUint32(buf[4:], floatBits(scale.Y))
	binary.LittleEndian.PutUint32(buf[8:], floatBits(atlasScale.X))
	binary.LittleEndian.PutUint32(buf[12:], floatBits(atlasScale.Y))
	sb.queue.WriteBuffer(sb.spriteUniform, 0, buf[:])
}

// writeImageUniform uploads the image pass scale.
func (sb *staticBuffers) writeImageUniform(scale compositor.Point) {
	var buf [imageUniformSize]byte
	binary.LittleEndian.PutUint32(buf[0:], floatBits(scale.X))
	binary.LittleEndian.PutUint32(buf[4:], floatBits(scale.Y))
	sb.queue.WriteBuffer(sb.imageUniform, 0, buf[:])
}

// destroy releases all buffers. Safe to call with partial initialization.
func (sb *staticBuffers) destroy() {
	buffers := []*hal.Buffer{
		&sb.corners, &sb.quadIndices, &sb.flatIndices,
		&sb.quadUniform, &sb.spriteUniform, &sb.imageUniform,
	}
	for _, b := range buffers {
		if *b != nil {
			sb.device.DestroyBuffer(*b)
			*b = nil
		}
	}
}
