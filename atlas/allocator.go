package atlas

import "fmt"

// Region is a rectangular area inside one atlas layer.
type Region struct {
	// X is the left edge of the region.
	X int
	// Y is the top edge of the region.
	Y int
	// Width is the region width.
	Width int
	// Height is the region height.
	Height int
}

// IsValid reports whether the region has positive dimensions.
func (r Region) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// Contains reports whether the point (x, y) is inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// String returns a string representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("Region(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// shelf is one horizontal band of the shelf-packing allocator.
type shelf struct {
	y      int // top Y coordinate
	height int // tallest item so far
	nextX  int // next available X position
}

// shelfAllocator packs rectangles into a fixed square area by dividing
// it into horizontal shelves. Each rectangle lands on the first shelf
// with room, or opens a new shelf below.
//
// Not safe for concurrent use; the owning Atlas serializes access.
type shelfAllocator struct {
	extent  int
	padding int
	shelves []*shelf

	allocCount int
	usedArea   int
}

func newShelfAllocator(extent, padding int) *shelfAllocator {
	if padding < 0 {
		padding = 0
	}
	return &shelfAllocator{
		extent:  extent,
		padding: padding,
		shelves: make([]*shelf, 0, 16),
	}
}

// allocate finds space for a width x height rectangle.
// Returns an invalid region when nothing fits.
//
// Padding spaces packed regions apart but is never charged against the
// layer edge, so a rectangle of exactly the extent still fits an empty
// layer.
func (a *shelfAllocator) allocate(width, height int) Region {
	if width <= 0 || height <= 0 {
		return Region{}
	}
	if width > a.extent || height > a.extent {
		return Region{}
	}

	for _, s := range a.shelves {
		if a.fits(s, width, height) {
			return a.placeOnShelf(s, width, height)
		}
	}
	return a.openShelf(width, height)
}

// fits checks horizontal room and height compatibility. A shelf can only
// grow taller while it is still empty.
func (a *shelfAllocator) fits(s *shelf, width, height int) bool {
	if s.nextX+width > a.extent {
		return false
	}
	if height+a.padding > s.height && s.nextX > 0 {
		return false
	}
	return true
}

func (a *shelfAllocator) placeOnShelf(s *shelf, width, height int) Region {
	region := Region{X: s.nextX, Y: s.y, Width: width, Height: height}

	s.nextX += width + a.padding
	if height+a.padding > s.height {
		s.height = height + a.padding
	}

	a.allocCount++
	a.usedArea += width * height
	return region
}

func (a *shelfAllocator) openShelf(width, height int) Region {
	newY := 0
	if len(a.shelves) > 0 {
		last := a.shelves[len(a.shelves)-1]
		newY = last.y + last.height
	}
	if newY+height > a.extent {
		return Region{}
	}

	a.shelves = append(a.shelves, &shelf{
		y:      newY,
		height: height + a.padding,
		nextX:  width + a.padding,
	})

	a.allocCount++
	a.usedArea += width * height
	return Region{X: 0, Y: newY, Width: width, Height: height}
}

// reset clears all allocations.
func (a *shelfAllocator) reset() {
	a.shelves = a.shelves[:0]
	a.allocCount = 0
	a.usedArea = 0
}

// utilization returns the fraction of area used (0.0 to 1.0).
func (a *shelfAllocator) utilization() float64 {
	total := a.extent * a.extent
	if total == 0 {
		return 0
	}
	return float64(a.usedArea) / float64(total)
}
