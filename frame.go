package compositor

// Frame bundles everything a renderer needs for one compositing pass: the
// instance batch, the per-pass projections, and the atlas addressing
// uniforms. A Frame is read-only while a pass referencing it is in flight;
// the host's frame pacing enforces the single-writer/multiple-reader
// discipline.
type Frame struct {
	// Batch holds the frame's draw records.
	Batch *Batch

	// QuadProjection transforms the flat and styled quad passes.
	// Conventionally matrix mode.
	QuadProjection Projection

	// BlitProjection transforms the sprite and image passes.
	// Conventionally scale-flip mode.
	BlitProjection Projection

	// AtlasScale normalizes atlas pixel coordinates to [0,1] texture space
	// for the sprite pass: 1/atlasExtent per axis.
	AtlasScale Point

	// AtlasLayerCount is the texture-array depth, for layer validation.
	AtlasLayerCount uint32

	// Bounds is the scissor rectangle in physical pixels. A zero rect
	// means the full target.
	Bounds Rect
}

// Validate performs the submission-boundary checks that need frame context:
// sprite atlas layers against the atlas depth.
func (f *Frame) Validate() error {
	if f.Batch == nil {
		return nil
	}
	if f.AtlasLayerCount > 0 {
		return f.Batch.ValidateLayers(f.AtlasLayerCount)
	}
	return nil
}
