// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import "testing"

// TestAlignBytesPerRow verifies the 256-byte transfer pitch required by
// WebGPU and DX12.
func TestAlignBytesPerRow(t *testing.T) {
	tests := []struct {
		in   uint32
		want uint32
	}{
		{1, 256},
		{255, 256},
		{256, 256},
		{257, 512},
		{1024, 1024},
		{4096 * 4, 4096 * 4},
	}
	for _, tt := range tests {
		if got := alignBytesPerRow(tt.in); got != tt.want {
			t.Errorf("alignBytesPerRow(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
