// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements the GPU compositing backend on the wgpu HAL.
//
// The backend compiles the WGSL pass shaders to SPIR-V with naga at
// startup and builds one render pipeline per pass: flat quads, styled
// quads, atlas sprites, and image blits. All passes blend premultiplied
// source-over into the same color target.
//
// Geometry is instanced over a shared unit-quad vertex buffer; the flat
// pass carries explicit per-vertex colors instead. Instance buffers
// hold at most MaxInstancesPerDraw records, so larger batches split
// into multiple draws in submission order.
//
// The sprite atlas lives in a texture array that mirrors the CPU-side
// atlas: dirty layers upload before each frame, and the array is
// recreated when the atlas grows.
package wgpu
