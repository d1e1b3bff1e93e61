// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import "errors"

// Package errors for the wgpu backend.
var (
	// ErrNotInitialized is returned when operations are called before the
	// device resources exist.
	ErrNotInitialized = errors.New("wgpu: backend not initialized")

	// ErrRendererClosed is returned when operating on a closed renderer.
	ErrRendererClosed = errors.New("wgpu: renderer closed")

	// ErrNoTextureTarget is returned when compositing to a target without
	// a GPU texture view.
	ErrNoTextureTarget = errors.New("wgpu: target has no texture view")

	// ErrAtlasTooLarge is returned when the atlas extent exceeds the
	// device texture size limit.
	ErrAtlasTooLarge = errors.New("wgpu: atlas exceeds device texture limit")
)
