package compositor

// ProjectionMode selects how logical pixel coordinates reach clip space.
//
// Two derivations exist and are deliberately kept as separate, selectable
// modes rather than unified: the general matrix form supports arbitrary
// transforms (pan, zoom, rotation of a whole layer), while the scale-flip
// form is the minimal fixed device mapping used by the sprite and image
// passes.
type ProjectionMode int

const (
	// ProjectionMatrix projects through a full 4x4 matrix.
	ProjectionMatrix ProjectionMode = iota

	// ProjectionScaleFlip projects through a 2-component scale with a fixed
	// Y flip: clip = (x*scale.X - 1, y*scale.Y + 1). The Y scale carries a
	// negative sign so logical Y-down maps onto clip-space Y-up.
	ProjectionScaleFlip
)

// String returns the name of the projection mode.
func (m ProjectionMode) String() string {
	switch m {
	case ProjectionMatrix:
		return "Matrix"
	case ProjectionScaleFlip:
		return "ScaleFlip"
	default:
		return "Unknown"
	}
}

// Projection carries the per-frame transform uniforms for one pass.
type Projection struct {
	// Mode selects which of the two derivations applies.
	Mode ProjectionMode

	// Matrix is the full transform, used when Mode == ProjectionMatrix.
	Matrix Mat4

	// Scale is the clip-space scale, used when Mode == ProjectionScaleFlip.
	// Scale.Y is negative for the standard top-left-origin convention.
	Scale Point
}

// NewMatrixProjection returns a matrix-mode projection for a viewport of the
// given logical size.
func NewMatrixProjection(width, height float32) Projection {
	return Projection{
		Mode:   ProjectionMatrix,
		Matrix: Ortho(width, height),
	}
}

// NewScaleFlipProjection returns a scale-flip projection for a viewport of
// the given logical size: scale = (2/width, -2/height).
func NewScaleFlipProjection(width, height float32) Projection {
	return Projection{
		Mode:  ProjectionScaleFlip,
		Scale: Point{X: 2 / width, Y: -2 / height},
	}
}

// Apply projects a logical-pixel position to clip space.
func (pr Projection) Apply(p Point) Point {
	switch pr.Mode {
	case ProjectionScaleFlip:
		return Point{
			X: p.X*pr.Scale.X - 1,
			Y: p.Y*pr.Scale.Y + 1,
		}
	default:
		return pr.Matrix.Transform(p)
	}
}
