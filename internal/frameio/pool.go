package frameio

import (
	"image"
	"image/color"
	"sync"
)

// Pool reuses RGBA frame buffers of identical size.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[image.Point][]*image.RGBA
	maxSize int // max buffers per bucket, 0 = unlimited
}

// NewPool creates a pool that retains at most maxPerBucket buffers per size.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[image.Point][]*image.RGBA),
		maxSize: maxPerBucket,
	}
}

// Get returns a width x height buffer filled with bg.
func (p *Pool) Get(width, height int, bg color.RGBA) *image.RGBA {
	key := image.Pt(width, height)

	p.mu.Lock()
	var img *image.RGBA
	if bucket := p.buckets[key]; len(bucket) > 0 {
		img = bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
	}
	p.mu.Unlock()

	if img == nil {
		img = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	Fill(img, bg)
	return img
}

// Put returns img to the pool. nil is ignored; a full bucket drops img.
func (p *Pool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.Size()

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, img)
}

// Len returns the number of pooled buffers of the given size.
func (p *Pool) Len(width, height int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[image.Pt(width, height)])
}

// Fill sets every pixel of img to c.
func Fill(img *image.RGBA, c color.RGBA) {
	pix := img.Pix
	if len(pix) < 4 {
		return
	}
	pix[0], pix[1], pix[2], pix[3] = c.R, c.G, c.B, c.A
	// Double the filled prefix until the buffer is covered.
	for filled := 4; filled < len(pix); filled *= 2 {
		copy(pix[filled:], pix[:filled])
	}
}
