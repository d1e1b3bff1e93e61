// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"strings"
	"testing"
)

// TestShaderSourcesEmbedded tests that all pass shaders are embedded and
// carry the expected entry points and inputs.
func TestShaderSourcesEmbedded(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		symbols []string
	}{
		{"flat", flatShaderWGSL, []string{"vs_main", "fs_main"}},
		{"quad", quadShaderWGSL, []string{"vs_main", "fs_main", "border_radius", "border_width"}},
		{"sprite", spriteShaderWGSL, []string{"vs_main", "fs_main", "texture_2d_array", "rotation"}},
		{"image", imageShaderWGSL, []string{"vs_main", "fs_main", "atlas_size"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.source == "" {
				t.Fatal("shader source is empty")
			}
			if !strings.Contains(tt.source, "@vertex") {
				t.Error("shader missing @vertex entry point")
			}
			if !strings.Contains(tt.source, "@fragment") {
				t.Error("shader missing @fragment entry point")
			}
			for _, sym := range tt.symbols {
				if !strings.Contains(tt.source, sym) {
					t.Errorf("shader source missing expected string: %q", sym)
				}
			}
		})
	}
}

// TestShaderCompilation tests that the WGSL shaders compile to SPIR-V.
func TestShaderCompilation(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"flat", flatShaderWGSL},
		{"quad", quadShaderWGSL},
		{"sprite", spriteShaderWGSL},
		{"image", imageShaderWGSL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := compileShaderToSPIRV(tt.source)
			if err != nil {
				if strings.Contains(err.Error(), "not yet implemented") ||
					strings.Contains(err.Error(), "not supported") {
					t.Skipf("naga limitation: %v", err)
				}
				t.Fatalf("compile failed: %v", err)
			}
			if len(code) == 0 {
				t.Fatal("SPIR-V output is empty")
			}
			// SPIR-V magic number.
			if code[0] != 0x07230203 {
				t.Errorf("bad SPIR-V magic: got %#x", code[0])
			}
		})
	}
}
