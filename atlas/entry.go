package atlas

import "github.com/gogpu/compositor"

// Fragment is one allocated piece of an entry: a region inside a layer
// plus the piece's offset within the source image.
type Fragment struct {
	// OffsetX, OffsetY locate the fragment within the source image.
	OffsetX int
	OffsetY int

	// Layer is the atlas layer holding the fragment.
	Layer uint32

	// Region is the fragment's area within the layer.
	Region Region
}

// Entry records where a source image lives in the atlas.
//
// A source that fits inside one layer occupies a single fragment
// (contiguous). Oversized sources are split into a grid of fragments
// that may land on different layers.
type Entry struct {
	// Width, Height are the source dimensions in atlas pixels.
	Width  int
	Height int

	// HiDPI marks sources stored at twice their logical resolution.
	// Sprites built from the entry render at half the pixel footprint.
	HiDPI bool

	fragments []Fragment
}

// Contiguous reports whether the entry occupies a single region.
func (e *Entry) Contiguous() bool {
	return len(e.fragments) == 1
}

// Fragments returns the entry's allocated pieces.
func (e *Entry) Fragments() []Fragment {
	return e.fragments
}

// Instances builds the sprite records that composite the entry at the
// given screen position. Contiguous entries yield one sprite; fragmented
// entries yield one per fragment, offset so the pieces tile seamlessly.
func (e *Entry) Instances(position compositor.Point) []compositor.SpriteInstance {
	scale := float32(1)
	if e.HiDPI {
		scale = 0.5
	}

	out := make([]compositor.SpriteInstance, 0, len(e.fragments))
	for _, f := range e.fragments {
		out = append(out, compositor.SpriteInstance{
			Position: compositor.Pt(
				position.X+float32(f.OffsetX)*scale,
				position.Y+float32(f.OffsetY)*scale,
			),
			AtlasPosition: compositor.Pt(float32(f.Region.X), float32(f.Region.Y)),
			AtlasSize:     compositor.Sz(float32(f.Region.Width), float32(f.Region.Height)),
			AtlasLayer:    f.Layer,
			HiDPI:         e.HiDPI,
		})
	}
	return out
}
