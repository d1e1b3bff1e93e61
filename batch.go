package compositor

import "fmt"

// MaxInstancesPerDraw is the instance-buffer capacity of one draw call.
// Backends split larger batches into chunks of at most this many instances,
// preserving submission order.
const MaxInstancesPerDraw = 1000

// Batch accumulates validated draw records for one frame.
//
// All records are transient: the caller rebuilds the batch every frame and
// the compositor retains nothing across frames. Within a pass, instances
// composite in submission order (painter's algorithm): later records draw
// over earlier ones.
//
// Batch is not safe for concurrent mutation; the host's frame pacing must
// guarantee the batch is fully populated before a pass consumes it.
type Batch struct {
	flats   []FlatVertex
	quads   []QuadInstance
	sprites []SpriteInstance
	images  []ImageInstance
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// AddFlatQuad appends an axis-aligned flat-colored quad as four vertices.
func (b *Batch) AddFlatQuad(r Rect, c RGBA) error {
	return b.AddFlatVertices(
		FlatVertex{Position: r.Pos, Color: c},
		FlatVertex{Position: Point{X: r.MaxX(), Y: r.Pos.Y}, Color: c},
		FlatVertex{Position: Point{X: r.MaxX(), Y: r.MaxY()}, Color: c},
		FlatVertex{Position: Point{X: r.Pos.X, Y: r.MaxY()}, Color: c},
	)
}

// AddFlatVertices appends one flat quad as four explicit corner vertices in
// clockwise order, allowing per-vertex color (gradients).
func (b *Batch) AddFlatVertices(v0, v1, v2, v3 FlatVertex) error {
	for i, v := range [4]FlatVertex{v0, v1, v2, v3} {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("flat quad corner %d: %w", i, err)
		}
	}
	b.flats = append(b.flats, v0, v1, v2, v3)
	return nil
}

// AddQuad appends one styled (rounded/bordered) quad instance.
func (b *Batch) AddQuad(q QuadInstance) error {
	if err := q.Validate(); err != nil {
		return err
	}
	b.quads = append(b.quads, q)
	return nil
}

// AddSprite appends one atlas sprite instance.
func (b *Batch) AddSprite(s SpriteInstance) error {
	if err := s.Validate(); err != nil {
		return err
	}
	b.sprites = append(b.sprites, s)
	return nil
}

// AddImage appends one image blit instance.
func (b *Batch) AddImage(im ImageInstance) error {
	if err := im.Validate(); err != nil {
		return err
	}
	b.images = append(b.images, im)
	return nil
}

// FlatVertices returns the accumulated flat-pass vertices, four per quad.
func (b *Batch) FlatVertices() []FlatVertex { return b.flats }

// Quads returns the accumulated styled quad instances.
func (b *Batch) Quads() []QuadInstance { return b.quads }

// Sprites returns the accumulated sprite instances.
func (b *Batch) Sprites() []SpriteInstance { return b.sprites }

// Images returns the accumulated image instances.
func (b *Batch) Images() []ImageInstance { return b.images }

// IsEmpty reports whether the batch holds no records of any kind.
func (b *Batch) IsEmpty() bool {
	return len(b.flats) == 0 && len(b.quads) == 0 &&
		len(b.sprites) == 0 && len(b.images) == 0
}

// InstanceCount returns the total number of records across all kinds.
func (b *Batch) InstanceCount() int {
	return len(b.flats)/4 + len(b.quads) + len(b.sprites) + len(b.images)
}

// ValidateLayers checks every sprite's atlas layer against the atlas depth.
// Called by the compositing front end once the atlas is known; sprites with
// an out-of-range layer are rejected before dispatch, never in the raster
// stage.
func (b *Batch) ValidateLayers(layerCount uint32) error {
	for i, s := range b.sprites {
		if s.AtlasLayer >= layerCount {
			return fmt.Errorf("%w: sprite %d atlas layer %d out of range (depth %d)",
				ErrInvalidInstance, i, s.AtlasLayer, layerCount)
		}
	}
	return nil
}

// Reset clears the batch for reuse, keeping backing storage.
func (b *Batch) Reset() {
	b.flats = b.flats[:0]
	b.quads = b.quads[:0]
	b.sprites = b.sprites[:0]
	b.images = b.images[:0]
}

// Chunk splits records into runs of at most MaxInstancesPerDraw, preserving
// order. The returned slices alias the input.
func Chunk[T any](records []T) [][]T {
	if len(records) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(records)+MaxInstancesPerDraw-1)/MaxInstancesPerDraw)
	for start := 0; start < len(records); start += MaxInstancesPerDraw {
		end := min(start+MaxInstancesPerDraw, len(records))
		chunks = append(chunks, records[start:end])
	}
	return chunks
}
