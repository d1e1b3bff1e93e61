package atlas

import (
	"image"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// lruNode is a node in a doubly-linked LRU list.
// The node stores its key for O(1) deletion from the parent map.
type lruNode struct {
	key  ID
	prev *lruNode
	next *lruNode
}

// lruList is a doubly-linked list for LRU eviction.
// Head is the most recently used, tail the least. Not thread-safe.
type lruList struct {
	head *lruNode
	tail *lruNode
	len  int
}

func (l *lruList) pushFront(key ID) *lruNode {
	node := &lruNode{key: key}
	if l.head == nil {
		l.head = node
		l.tail = node
	} else {
		node.next = l.head
		l.head.prev = node
		l.head = node
	}
	l.len++
	return node
}

func (l *lruList) moveToFront(node *lruNode) {
	if node == nil || node == l.head {
		return
	}
	l.unlink(node)
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

func (l *lruList) remove(node *lruNode) {
	if node != nil {
		l.unlink(node)
	}
}

func (l *lruList) removeOldest() (ID, bool) {
	if l.tail == nil {
		return 0, false
	}
	node := l.tail
	l.unlink(node)
	return node.key, true
}

func (l *lruList) unlink(node *lruNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.len--
}

// cacheItem couples a decoded source with its LRU position.
type cacheItem struct {
	img  *image.RGBA
	node *lruNode
	size int // bytes
}

// SourceCache keeps decoded source images around so hosts can re-upload
// after an atlas rebuild (window resize, device loss) without re-decoding.
// Eviction is byte-budgeted, least recently used first.
//
// SourceCache is safe for concurrent use.
type SourceCache struct {
	mu sync.Mutex

	capacity int // bytes, <= 0 means unbounded
	used     int
	items    map[ID]*cacheItem
	order    lruList
}

// NewSourceCache creates a cache with the given byte budget.
func NewSourceCache(capacity int) *SourceCache {
	return &SourceCache{
		capacity: capacity,
		items:    make(map[ID]*cacheItem),
	}
}

// Put stores a decoded source, evicting old entries over budget.
func (c *SourceCache) Put(id ID, img *image.RGBA) {
	if img == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[id]; ok {
		c.used -= item.size
		c.order.remove(item.node)
		delete(c.items, id)
	}

	size := len(img.Pix)
	c.items[id] = &cacheItem{img: img, node: c.order.pushFront(id), size: size}
	c.used += size
	c.evict()
}

// Get returns a cached source and marks it recently used.
func (c *SourceCache) Get(id ID) (*image.RGBA, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	if !ok {
		return nil, false
	}
	c.order.moveToFront(item.node)
	return item.img, true
}

// Drop removes one entry.
func (c *SourceCache) Drop(id ID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[id]; ok {
		c.used -= item.size
		c.order.remove(item.node)
		delete(c.items, id)
	}
}

// Len returns the number of cached sources.
func (c *SourceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// UsedBytes returns the current cache footprint.
func (c *SourceCache) UsedBytes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// evict trims to budget. Caller holds the lock.
func (c *SourceCache) evict() {
	if c.capacity <= 0 {
		return
	}
	for c.used > c.capacity {
		id, ok := c.order.removeOldest()
		if !ok {
			return
		}
		if item, ok := c.items[id]; ok {
			c.used -= item.size
			delete(c.items, id)
		}
	}
}

// ScaleTo resamples a source to the given dimensions with bilinear
// filtering. Used to derive the logical-resolution variant of a hi-dpi
// source and to fit oversized images under the layer extent.
func ScaleTo(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
