package atlas

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/gogpu/compositor"
)

// Atlas errors.
var (
	// ErrAtlasFull is returned when no layer can fit the source and the
	// layer cap prevents growth.
	ErrAtlasFull = errors.New("atlas: texture atlas is full")

	// ErrDuplicateID is returned when uploading under an ID that is
	// already registered.
	ErrDuplicateID = errors.New("atlas: texture ID already registered")

	// ErrUnknownID is returned when operating on an unregistered ID.
	ErrUnknownID = errors.New("atlas: unknown texture ID")

	// ErrEmptySource is returned when uploading an image with no pixels.
	ErrEmptySource = errors.New("atlas: empty source image")
)

// Default atlas settings.
const (
	// DefaultExtent is the default layer dimension (2048x2048).
	DefaultExtent = 2048

	// MinExtent is the minimum layer dimension (256x256).
	MinExtent = 256

	// DefaultPadding is the spacing between packed regions. Padding
	// separates neighboring regions only; it is never charged against
	// the layer edge, so a full-extent source still fits one layer.
	DefaultPadding = 1

	// DefaultMaxLayers caps atlas growth. Hosts lower this to the
	// device's 2D-array layer limit when it is smaller.
	DefaultMaxLayers = 64
)

// ID identifies an uploaded texture. Hosts assign IDs; the atlas only
// requires uniqueness.
type ID uint64

// Config holds atlas creation parameters.
type Config struct {
	// Extent is the layer dimension in pixels. Defaults to DefaultExtent,
	// clamped up to MinExtent.
	Extent int

	// Padding is the spacing between packed regions. Zero means
	// DefaultPadding; negative values disable padding entirely.
	Padding int

	// MaxLayers caps the layer count. Zero means DefaultMaxLayers.
	MaxLayers int
}

// layer couples a packer with its CPU pixel store.
type layer struct {
	alloc *shelfAllocator
	pix   []byte // RGBA, extent*extent*4
	live  int    // entries with fragments on this layer
	dirty bool
}

// Atlas packs source images into fixed-size square layers and tracks
// where each one landed.
//
// Atlas is safe for concurrent use.
type Atlas struct {
	mu sync.RWMutex

	extent    int
	padding   int
	maxLayers int

	layers  []*layer
	entries map[ID]*Entry
}

// New creates an empty atlas with one layer.
func New(config Config) *Atlas {
	extent := config.Extent
	if extent <= 0 {
		extent = DefaultExtent
	} else if extent < MinExtent {
		extent = MinExtent
	}

	padding := config.Padding
	if padding == 0 {
		padding = DefaultPadding
	} else if padding < 0 {
		padding = 0
	}

	maxLayers := config.MaxLayers
	if maxLayers <= 0 {
		maxLayers = DefaultMaxLayers
	}

	a := &Atlas{
		extent:    extent,
		padding:   padding,
		maxLayers: maxLayers,
		entries:   make(map[ID]*Entry),
	}
	a.layers = append(a.layers, a.newLayer())
	return a
}

func (a *Atlas) newLayer() *layer {
	return &layer{
		alloc: newShelfAllocator(a.extent, a.padding),
		pix:   make([]byte, a.extent*a.extent*4),
	}
}

// Extent returns the layer dimension in pixels.
func (a *Atlas) Extent() int {
	return a.extent
}

// LayerCount returns the current number of layers.
func (a *Atlas) LayerCount() uint32 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return uint32(len(a.layers))
}

// Scale returns the texcoord normalization factor, 1/extent per axis.
func (a *Atlas) Scale() compositor.Point {
	inv := 1 / float32(a.extent)
	return compositor.Pt(inv, inv)
}

// Upload registers a source image under a unique ID and packs its pixels
// into the atlas. hiDPI marks sources stored at twice their logical
// resolution.
func (a *Atlas) Upload(id ID, src image.Image, hiDPI bool) (*Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.entries[id]; exists {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	return a.upload(id, src, hiDPI)
}

// Replace swaps the pixels stored under an existing ID. The old
// allocation is released first, so a same-size source usually lands
// back in a freshly reset layer or new shelf space. When the new
// upload fails the ID is left unregistered; the atlas keeps no source
// pixels, so hosts re-upload from their own cache.
func (a *Atlas) Replace(id ID, src image.Image, hiDPI bool) (*Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.entries[id]; !exists {
		return nil, fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	a.remove(id)
	return a.upload(id, src, hiDPI)
}

// Remove releases an entry. A layer's space becomes reusable once its
// last entry is removed; individual regions are not reclaimed.
func (a *Atlas) Remove(id ID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.entries[id]; !exists {
		return fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	a.remove(id)
	return nil
}

// Entry returns the placement of an uploaded texture.
func (a *Atlas) Entry(id ID) (*Entry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.entries[id]
	return e, ok
}

// LayerPixels returns the RGBA pixel store of one layer. The slice is
// live; callers must not retain it across Upload calls.
func (a *Atlas) LayerPixels(index uint32) []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if int(index) >= len(a.layers) {
		return nil
	}
	return a.layers[index].pix
}

// Sample reads one texel as straight-alpha color. Out-of-bounds reads
// return transparent, matching a clamped sampler over empty border.
func (a *Atlas) Sample(index uint32, x, y int) compositor.RGBA {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if int(index) >= len(a.layers) || x < 0 || y < 0 || x >= a.extent || y >= a.extent {
		return compositor.Transparent
	}
	pix := a.layers[index].pix
	off := (y*a.extent + x) * 4
	return compositor.RGBAf(
		float32(pix[off])/255,
		float32(pix[off+1])/255,
		float32(pix[off+2])/255,
		float32(pix[off+3])/255,
	)
}

// DirtyLayers returns the indices of layers modified since the last
// MarkClean, in ascending order. GPU backends upload exactly these.
func (a *Atlas) DirtyLayers() []uint32 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []uint32
	for i, l := range a.layers {
		if l.dirty {
			out = append(out, uint32(i))
		}
	}
	return out
}

// MarkClean clears all dirty flags after a backend upload.
func (a *Atlas) MarkClean() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, l := range a.layers {
		l.dirty = false
	}
}

// Utilization returns the packed-area fraction of one layer.
func (a *Atlas) Utilization(index uint32) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if int(index) >= len(a.layers) {
		return 0
	}
	return a.layers[index].alloc.utilization()
}

// upload packs the source, fragmenting when it exceeds the layer extent.
// Caller holds the write lock.
func (a *Atlas) upload(id ID, src image.Image, hiDPI bool) (*Entry, error) {
	rgba := toRGBA(src)
	bounds := rgba.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptySource
	}

	entry := &Entry{Width: w, Height: h, HiDPI: hiDPI}

	// Grid of at most extent-sized tiles. A source that fits whole
	// produces a single contiguous fragment.
	for oy := 0; oy < h; oy += a.extent {
		th := min(a.extent, h-oy)
		for ox := 0; ox < w; ox += a.extent {
			tw := min(a.extent, w-ox)

			layerIdx, region, err := a.allocate(tw, th)
			if err != nil {
				a.release(entry.fragments)
				return nil, err
			}
			a.blit(layerIdx, region, rgba, ox, oy)
			entry.fragments = append(entry.fragments, Fragment{
				OffsetX: ox,
				OffsetY: oy,
				Layer:   layerIdx,
				Region:  region,
			})
			a.layers[layerIdx].live++
		}
	}

	a.entries[id] = entry
	compositor.Logger().Debug("atlas upload",
		"id", uint64(id), "size", fmt.Sprintf("%dx%d", w, h),
		"fragments", len(entry.fragments), "layers", len(a.layers))
	return entry, nil
}

// allocate finds room on an existing layer or grows the atlas.
// Caller holds the write lock.
func (a *Atlas) allocate(w, h int) (uint32, Region, error) {
	for i, l := range a.layers {
		if region := l.alloc.allocate(w, h); region.IsValid() {
			return uint32(i), region, nil
		}
	}

	if len(a.layers) >= a.maxLayers {
		return 0, Region{}, fmt.Errorf("%w: %d layers of %dx%d",
			ErrAtlasFull, len(a.layers), a.extent, a.extent)
	}

	a.layers = append(a.layers, a.newLayer())
	l := a.layers[len(a.layers)-1]
	region := l.alloc.allocate(w, h)
	if !region.IsValid() {
		return 0, Region{}, fmt.Errorf("%w: %dx%d exceeds layer extent",
			ErrAtlasFull, w, h)
	}
	return uint32(len(a.layers) - 1), region, nil
}

// blit copies a source tile into a layer region and marks it dirty.
func (a *Atlas) blit(layerIdx uint32, region Region, src *image.RGBA, srcX, srcY int) {
	l := a.layers[layerIdx]
	min := src.Bounds().Min
	for row := 0; row < region.Height; row++ {
		srcOff := src.PixOffset(min.X+srcX, min.Y+srcY+row)
		dstOff := ((region.Y+row)*a.extent + region.X) * 4
		copy(l.pix[dstOff:dstOff+region.Width*4], src.Pix[srcOff:srcOff+region.Width*4])
	}
	l.dirty = true
}

// remove drops an entry and resets any layer it leaves empty.
// Caller holds the write lock.
func (a *Atlas) remove(id ID) {
	entry := a.entries[id]
	delete(a.entries, id)
	a.release(entry.fragments)
}

// release gives back fragment space, resetting any layer whose last
// entry is gone. Also unwinds partial uploads when a later tile fails
// to allocate. Caller holds the write lock.
func (a *Atlas) release(fragments []Fragment) {
	for _, f := range fragments {
		l := a.layers[f.Layer]
		l.live--
		if l.live == 0 {
			l.alloc.reset()
		}
	}
}

// toRGBA converts any image to *image.RGBA without scaling.
func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	bounds := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	return rgba
}
