package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// ImagePool recycles *image.RGBA frame buffers per size so parallel
// rasterization does not churn the GC.
type ImagePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex

	gets   atomic.Int64
	puts   atomic.Int64
	allocs atomic.Int64
}

// NewImagePool creates an empty pool
func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

// Get returns a buffer of size rect. Reused buffers keep their old pixels;
// callers paint every pixel or clear first.
func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	p.gets.Add(1)
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					p.allocs.Add(1)
					return image.NewRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

// Put hands img back for reuse. Buffers of unknown size are dropped.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		p.puts.Add(1)
		pool.Put(img)
	}
}

// Stats reports how many buffers were requested and how many had to be allocated
func (p *ImagePool) Stats() (gets, allocs int64) {
	return p.gets.Load(), p.allocs.Load()
}

// Outstanding is the number of buffers handed out and not yet put back
func (p *ImagePool) Outstanding() int64 {
	return p.gets.Load() - p.puts.Load()
}
