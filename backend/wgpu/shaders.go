// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/flat.wgsl
var flatShaderWGSL string

//go:embed shaders/quad.wgsl
var quadShaderWGSL string

//go:embed shaders/sprite.wgsl
var spriteShaderWGSL string

//go:embed shaders/image.wgsl
var imageShaderWGSL string

// compileShaderToSPIRV compiles WGSL source to a SPIR-V uint32 slice.
func compileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	return spirvCode, nil
}

// createShaderModule compiles WGSL and creates a HAL shader module.
func createShaderModule(device hal.Device, label, wgslSource string) (hal.ShaderModule, error) {
	spirvCode, err := compileShaderToSPIRV(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: spirvCode,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create shader module: %w", label, err)
	}
	return module, nil
}

// shaderModules holds one compiled shader module per draw pass.
type shaderModules struct {
	flat   hal.ShaderModule
	quad   hal.ShaderModule
	sprite hal.ShaderModule
	image  hal.ShaderModule
}

// newShaderModules compiles all four pass shaders.
func newShaderModules(device hal.Device) (*shaderModules, error) {
	m := &shaderModules{}

	var err error
	if m.flat, err = createShaderModule(device, "compositor_flat", flatShaderWGSL); err != nil {
		return nil, err
	}
	if m.quad, err = createShaderModule(device, "compositor_quad", quadShaderWGSL); err != nil {
		m.destroy(device)
		return nil, err
	}
	if m.sprite, err = createShaderModule(device, "compositor_sprite", spriteShaderWGSL); err != nil {
		m.destroy(device)
		return nil, err
	}
	if m.image, err = createShaderModule(device, "compositor_image", imageShaderWGSL); err != nil {
		m.destroy(device)
		return nil, err
	}
	return m, nil
}

// destroy releases the shader modules. Safe to call with partial initialization.
func (m *shaderModules) destroy(device hal.Device) {
	if device == nil {
		return
	}
	for _, module := range []hal.ShaderModule{m.flat, m.quad, m.sprite, m.image} {
		if module != nil {
			device.DestroyShaderModule(module)
		}
	}
	m.flat, m.quad, m.sprite, m.image = nil, nil, nil, nil
}
