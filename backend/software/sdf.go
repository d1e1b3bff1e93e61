// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import "github.com/chewxy/math32"

// antialiasWidth controls the smoothstep transition width in pixels.
// 0.7 produces smooth edges at standard DPI.
const antialiasWidth = 0.7

// sdfRoundedRect computes the signed distance from a point to a rounded
// rectangle centered at (cx, cy). Negative values are inside.
func sdfRoundedRect(px, py, cx, cy, halfW, halfH, cornerRadius float32) float32 {
	// Translate to center and use symmetry (work in first quadrant).
	dx := math32.Abs(px-cx) - halfW + cornerRadius
	dy := math32.Abs(py-cy) - halfH + cornerRadius

	// Outside the corner region: max(dx, dy) gives the distance to the
	// edge. Inside it: the Euclidean distance to the corner circle.
	outside := math32.Sqrt(math32.Max(dx, 0)*math32.Max(dx, 0) + math32.Max(dy, 0)*math32.Max(dy, 0))
	inside := math32.Min(math32.Max(dx, dy), 0)

	return outside + inside - cornerRadius
}

// sdfCoverage converts a signed distance to anti-aliased coverage in
// [0, 1] using a Hermite smoothstep:
//
//	sdf <= -afwidth => 1 (fully inside)
//	sdf >= +afwidth => 0 (fully outside)
func sdfCoverage(sdf float32) float32 {
	if sdf >= antialiasWidth {
		return 0
	}
	if sdf <= -antialiasWidth {
		return 1
	}
	t := (sdf + antialiasWidth) / (2 * antialiasWidth)
	return 1 - (t * t * (3 - 2*t))
}
