// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/compositor"
)

func TestEncodeCorners(t *testing.T) {
	buf := encodeCorners()
	if len(buf) != len(compositor.QuadVertices)*8 {
		t.Fatalf("corner buffer is %d bytes", len(buf))
	}
	for i, v := range compositor.QuadVertices {
		x := binary.LittleEndian.Uint32(buf[i*8:])
		y := binary.LittleEndian.Uint32(buf[i*8+4:])
		if x != floatBits(v.X) || y != floatBits(v.Y) {
			t.Errorf("corner %d mismatch", i)
		}
	}
}

func TestEncodeQuadIndices(t *testing.T) {
	buf := encodeQuadIndices()
	if len(buf) != 12 {
		t.Fatalf("index buffer is %d bytes", len(buf))
	}
	for i, want := range compositor.QuadIndices {
		got := binary.LittleEndian.Uint16(buf[i*2:])
		if got != want {
			t.Errorf("index %d = %d, want %d", i, got, want)
		}
	}
}

// TestEncodeFlatIndices verifies the repeated two-triangle pattern strides
// by four vertices per quad across the whole chunk.
func TestEncodeFlatIndices(t *testing.T) {
	buf := encodeFlatIndices()
	quads := compositor.MaxInstancesPerDraw / 4
	if len(buf) != quads*12 {
		t.Fatalf("flat index buffer is %d bytes, want %d", len(buf), quads*12)
	}
	for quad := 0; quad < quads; quad++ {
		base := uint16(quad * 4)
		for i, idx := range compositor.QuadIndices {
			got := binary.LittleEndian.Uint16(buf[(quad*6+i)*2:])
			if got != base+idx {
				t.Fatalf("quad %d index %d = %d, want %d", quad, i, got, base+idx)
			}
		}
	}
}

func TestEncodeInstanceData(t *testing.T) {
	flats := encodeFlatVertices([]compositor.FlatVertex{
		{Position: compositor.Pt(1, 2), Color: compositor.RGB(1, 0, 0)},
		{Position: compositor.Pt(3, 4), Color: compositor.RGB(0, 1, 0)},
	})
	if len(flats) != 2*compositor.FlatVertexStride {
		t.Errorf("flat data is %d bytes", len(flats))
	}

	quads := encodeQuadInstances([]compositor.QuadInstance{
		{Position: compositor.Pt(0, 0), Size: compositor.Sz(10, 10)},
	})
	if len(quads) != compositor.QuadInstanceStride {
		t.Errorf("quad data is %d bytes", len(quads))
	}

	sprites := encodeSpriteInstances([]compositor.SpriteInstance{
		{Position: compositor.Pt(0, 0), AtlasSize: compositor.Sz(16, 16)},
	})
	if len(sprites) != compositor.SpriteInstanceStride {
		t.Errorf("sprite data is %d bytes", len(sprites))
	}

	images := encodeImageInstances([]compositor.ImageInstance{
		{Position: compositor.Pt(0, 0), Size: compositor.Sz(8, 8), AtlasSize: compositor.Sz(8, 8)},
	})
	if len(images) != compositor.ImageInstanceStride {
		t.Errorf("image data is %d bytes", len(images))
	}
}
