// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math/bits"
	"sync/atomic"
)

// Tile dimensions for dirty-region tracking, in pixels.
const (
	TileWidth  = 64
	TileHeight = 64
)

// DirtyRegion tracks which tiles of a target changed since the last
// flush, using an atomic bitmap. All methods are safe for concurrent use
// without external synchronization, so batch producers on multiple
// goroutines can mark regions while a presenter drains them.
//
// One bit per tile, packed into uint64 words. Bit index = ty*tilesX + tx.
type DirtyRegion struct {
	words  []atomic.Uint64
	tilesX int
	tilesY int
}

// NewDirtyRegion creates a tracker covering a target of the given pixel
// dimensions. All tiles start clean. Returns nil for empty targets.
func NewDirtyRegion(width, height int) *DirtyRegion {
	if width <= 0 || height <= 0 {
		return nil
	}
	tilesX := (width + TileWidth - 1) / TileWidth
	tilesY := (height + TileHeight - 1) / TileHeight
	numWords := (tilesX*tilesY + 63) / 64
	return &DirtyRegion{
		words:  make([]atomic.Uint64, numWords),
		tilesX: tilesX,
		tilesY: tilesY,
	}
}

// Mark marks a single tile dirty. Lock-free, O(1), out-of-bounds
// coordinates are ignored.
func (d *DirtyRegion) Mark(tx, ty int) {
	if tx < 0 || tx >= d.tilesX || ty < 0 || ty >= d.tilesY {
		return
	}
	idx := ty*d.tilesX + tx
	d.words[idx/64].Or(1 << (idx & 63))
}

// MarkRect marks every tile intersecting the pixel rectangle.
func (d *DirtyRegion) MarkRect(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}

	tx1 := x / TileWidth
	ty1 := y / TileHeight
	tx2 := (x + w - 1) / TileWidth
	ty2 := (y + h - 1) / TileHeight

	tx1 = max(tx1, 0)
	ty1 = max(ty1, 0)
	tx2 = min(tx2, d.tilesX-1)
	ty2 = min(ty2, d.tilesY-1)
	if tx1 > tx2 || ty1 > ty2 {
		return
	}

	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			d.Mark(tx, ty)
		}
	}
}

// MarkAll marks every tile dirty, forcing a full repaint.
func (d *DirtyRegion) MarkAll() {
	totalTiles := d.tilesX * d.tilesY
	fullWords := totalTiles / 64
	for i := 0; i < fullWords; i++ {
		d.words[i].Store(^uint64(0))
	}
	if remainder := totalTiles % 64; remainder > 0 {
		d.words[fullWords].Store((uint64(1) << remainder) - 1)
	}
}

// Clear marks all tiles clean.
func (d *DirtyRegion) Clear() {
	for i := range d.words {
		d.words[i].Store(0)
	}
}

// IsDirty reports whether the tile at (tx, ty) is dirty.
// Out-of-bounds coordinates report false.
func (d *DirtyRegion) IsDirty(tx, ty int) bool {
	if tx < 0 || tx >= d.tilesX || ty < 0 || ty >= d.tilesY {
		return false
	}
	idx := ty*d.tilesX + tx
	return d.words[idx/64].Load()&(1<<(idx&63)) != 0
}

// IsEmpty reports whether no tiles are dirty.
func (d *DirtyRegion) IsEmpty() bool {
	for i := range d.words {
		if d.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of dirty tiles.
func (d *DirtyRegion) Count() int {
	count := 0
	totalTiles := d.tilesX * d.tilesY
	fullWords := totalTiles / 64
	for i := 0; i < fullWords; i++ {
		count += bits.OnesCount64(d.words[i].Load())
	}
	if fullWords < len(d.words) {
		mask := (uint64(1) << (totalTiles % 64)) - 1
		count += bits.OnesCount64(d.words[fullWords].Load() & mask)
	}
	return count
}

// Drain atomically retrieves all dirty tile coordinates and clears them.
// Returns [2]int{tx, ty} per dirty tile. A presenter calls this once per
// frame to find the regions worth uploading or copying out.
func (d *DirtyRegion) Drain() [][2]int {
	var dirty [][2]int
	totalTiles := d.tilesX * d.tilesY

	for wordIdx := range d.words {
		word := d.words[wordIdx].Swap(0)
		for word != 0 {
			bitIdx := bits.TrailingZeros64(word)
			tileIdx := wordIdx*64 + bitIdx
			if tileIdx >= totalTiles {
				break
			}
			dirty = append(dirty, [2]int{tileIdx % d.tilesX, tileIdx / d.tilesX})
			word &^= 1 << bitIdx
		}
	}
	return dirty
}
