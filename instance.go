package compositor

import "fmt"

// Unit-square quad geometry shared by every draw kind. Each instance is
// expanded from these four corners by the per-kind vertex math.
var (
	// QuadVertices are the unit-square corners in clockwise winding.
	QuadVertices = [4]Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	// QuadIndices index QuadVertices as two triangles.
	QuadIndices = [6]uint16{0, 1, 2, 0, 2, 3}
)

// QuadMargin is the anti-aliasing/border margin reserved around a styled
// quad: the instance geometry is expanded by one unit per axis and shifted
// by (-0.5, -0.5). Fixed design constant, not configurable.
const QuadMargin float32 = 1

// FlatVertex is one vertex of the flat-colored pass: raw position and color,
// transformed only by the global matrix.
type FlatVertex struct {
	Position Point
	Color    RGBA
}

// Validate checks the vertex at the submission boundary.
func (v FlatVertex) Validate() error {
	if !v.Position.IsFinite() {
		return fmt.Errorf("%w: flat vertex position is not finite", ErrInvalidInstance)
	}
	if !v.Color.IsFinite() {
		return fmt.Errorf("%w: flat vertex color is not finite", ErrInvalidInstance)
	}
	return nil
}

// QuadInstance is one styled (rounded/bordered) quad.
type QuadInstance struct {
	// Position is the top-left corner of the nominal box.
	Position Point

	// Size is the nominal box extent.
	Size Size

	// Color fills the quad interior.
	Color RGBA

	// BorderColor fills the border band when BorderWidth > 0.
	BorderColor RGBA

	// BorderRadius is the requested corner radius. The effective radius is
	// clamped to half the smaller box dimension; see EffectiveBorderRadius.
	BorderRadius float32

	// BorderWidth is the border band thickness. Zero disables the border.
	BorderWidth float32
}

// EffectiveBorderRadius returns the corner radius actually rendered:
// min(BorderRadius, min(Size.W, Size.H)/2). The clamp keeps the corner arcs
// from exceeding the quad's own half-extent, which would produce
// self-intersecting corner shapes.
func (q QuadInstance) EffectiveBorderRadius() float32 {
	half := q.Size.Min() / 2
	if q.BorderRadius > half {
		return half
	}
	return q.BorderRadius
}

// VertexPosition expands a unit-square corner into the instance's local
// geometry: the nominal box grown by QuadMargin per axis and shifted by
// (-QuadMargin/2, -QuadMargin/2) to reserve the anti-aliasing margin.
func (q QuadInstance) VertexPosition(v Point) Point {
	return Point{
		X: q.Position.X - QuadMargin/2 + v.X*(q.Size.W+QuadMargin),
		Y: q.Position.Y - QuadMargin/2 + v.Y*(q.Size.H+QuadMargin),
	}
}

// Validate checks the instance at the submission boundary.
func (q QuadInstance) Validate() error {
	if !q.Position.IsFinite() || !q.Size.IsFinite() {
		return fmt.Errorf("%w: quad geometry is not finite", ErrInvalidInstance)
	}
	if q.Size.W < 0 || q.Size.H < 0 {
		return fmt.Errorf("%w: quad size %gx%g is negative", ErrInvalidInstance, q.Size.W, q.Size.H)
	}
	if !isFinite(q.BorderRadius) || q.BorderRadius < 0 {
		return fmt.Errorf("%w: border radius %g", ErrInvalidInstance, q.BorderRadius)
	}
	if !isFinite(q.BorderWidth) || q.BorderWidth < 0 {
		return fmt.Errorf("%w: border width %g", ErrInvalidInstance, q.BorderWidth)
	}
	if !q.Color.IsFinite() || !q.BorderColor.IsFinite() {
		return fmt.Errorf("%w: quad color is not finite", ErrInvalidInstance)
	}
	return nil
}

// SpriteInstance is one rotatable sprite sampled from a layered texture atlas.
type SpriteInstance struct {
	// Position is the screen-space top-left corner (before rotation).
	Position Point

	// AtlasPosition is the top-left corner of the sprite's atlas region,
	// in atlas pixels.
	AtlasPosition Point

	// AtlasSize is the extent of the sprite's atlas region, in atlas pixels.
	AtlasSize Size

	// RotateOrigin is the rotation pivot, relative to the sprite's own
	// top-left corner, in logical pixels.
	RotateOrigin Point

	// Rotation is the rotation angle in radians. Zero takes an exact
	// unrotated fast path with no trigonometry applied.
	Rotation float32

	// AtlasLayer selects the texture-array slice to sample.
	AtlasLayer uint32

	// HiDPI marks the atlas region as a 2x raster: the sprite occupies half
	// its atlas extent in logical pixels.
	HiDPI bool
}

// logicalScale is the atlas-pixels-to-logical-pixels factor.
func (s SpriteInstance) logicalScale() float32 {
	if s.HiDPI {
		return 0.5
	}
	return 1
}

// VertexOffset returns the logical-pixel offset of a unit-square corner from
// the sprite's top-left, after rotation. Rotation zero is bit-exact:
// offset = v * AtlasSize with no trig applied.
func (s SpriteInstance) VertexOffset(v Point) Point {
	offset := Point{
		X: v.X * s.AtlasSize.W * s.logicalScale(),
		Y: v.Y * s.AtlasSize.H * s.logicalScale(),
	}
	if s.Rotation == 0 {
		return offset
	}
	return offset.RotateAround(s.RotateOrigin, s.Rotation)
}

// ScreenPosition returns the logical screen position of a unit-square
// corner: Position + VertexOffset, before projection.
func (s SpriteInstance) ScreenPosition(v Point) Point {
	return s.Position.Add(s.VertexOffset(v))
}

// TexCoord returns the normalized texture coordinate for a unit-square
// corner: (AtlasPosition + v*AtlasSize) * atlasScale, where atlasScale is
// the global whole-atlas normalization factor (1/atlasExtent per axis).
func (s SpriteInstance) TexCoord(v Point, atlasScale Point) Point {
	return Point{
		X: (s.AtlasPosition.X + v.X*s.AtlasSize.W) * atlasScale.X,
		Y: (s.AtlasPosition.Y + v.Y*s.AtlasSize.H) * atlasScale.Y,
	}
}

// Validate checks the instance at the submission boundary. Atlas layer range
// is checked separately where the atlas depth is known.
func (s SpriteInstance) Validate() error {
	if !s.Position.IsFinite() || !s.AtlasPosition.IsFinite() || !s.RotateOrigin.IsFinite() {
		return fmt.Errorf("%w: sprite geometry is not finite", ErrInvalidInstance)
	}
	if !s.AtlasSize.IsFinite() || s.AtlasSize.W < 0 || s.AtlasSize.H < 0 {
		return fmt.Errorf("%w: sprite atlas size %gx%g", ErrInvalidInstance, s.AtlasSize.W, s.AtlasSize.H)
	}
	if !isFinite(s.Rotation) {
		return fmt.Errorf("%w: sprite rotation is not finite", ErrInvalidInstance)
	}
	return nil
}

// ImageInstance is one axis-aligned rectangle blit from an atlas region.
// Unlike the sprite pass, texture coordinates are normalized against the
// sub-rectangle itself, not the whole atlas. The two conventions correspond
// to different atlas addressing strategies and are deliberately not unified.
type ImageInstance struct {
	// Position is the screen-space top-left corner.
	Position Point

	// Size is the on-screen extent in logical pixels.
	Size Size

	// AtlasPosition is the top-left corner of the source region.
	AtlasPosition Point

	// AtlasSize is the extent of the source region.
	AtlasSize Size
}

// ScreenPosition returns the logical screen position of a unit-square
// corner: Position + v*Size, before projection.
func (im ImageInstance) ScreenPosition(v Point) Point {
	return Point{
		X: im.Position.X + v.X*im.Size.W,
		Y: im.Position.Y + v.Y*im.Size.H,
	}
}

// TexCoord returns the texture coordinate for a unit-square corner,
// normalized within the sub-rectangle: (AtlasPosition + v*AtlasSize) / AtlasSize.
func (im ImageInstance) TexCoord(v Point) Point {
	return Point{
		X: (im.AtlasPosition.X + v.X*im.AtlasSize.W) / im.AtlasSize.W,
		Y: (im.AtlasPosition.Y + v.Y*im.AtlasSize.H) / im.AtlasSize.H,
	}
}

// Validate checks the instance at the submission boundary.
func (im ImageInstance) Validate() error {
	if !im.Position.IsFinite() || !im.AtlasPosition.IsFinite() {
		return fmt.Errorf("%w: image geometry is not finite", ErrInvalidInstance)
	}
	if !im.Size.IsFinite() || im.Size.W < 0 || im.Size.H < 0 {
		return fmt.Errorf("%w: image size %gx%g", ErrInvalidInstance, im.Size.W, im.Size.H)
	}
	if !im.AtlasSize.IsFinite() || im.AtlasSize.W <= 0 || im.AtlasSize.H <= 0 {
		return fmt.Errorf("%w: image atlas size %gx%g", ErrInvalidInstance, im.AtlasSize.W, im.AtlasSize.H)
	}
	return nil
}
