// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software implements the CPU reference backend.
//
// It executes the same per-fragment math as the GPU shaders: signed
// distance fields for rounded corners and borders, premultiplied
// source-over blending, and both texcoord normalization conventions.
// Output lands in a render.PixmapTarget, which makes the backend the
// oracle the test suite checks compositing semantics against.
package software
