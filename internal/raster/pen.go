package raster

import (
	"image"
	"image/color"
)

// Pen is a Blitter that adds coverage-weighted colour to an RGBA image.
// Accumulation saturates per channel, so butt-ended segments sharing an
// endpoint add up to full coverage at the joint.
type Pen struct {
	img   *image.RGBA
	color color.RGBA
}

// NewPen returns a white pen drawing into img.
func NewPen(img *image.RGBA) *Pen {
	return &Pen{img: img, color: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}
}

// SetColor sets the colour of subsequent writes.
func (p *Pen) SetColor(c color.RGBA) { p.color = c }

// Line strokes a segment of the given width with the current colour.
func (p *Pen) Line(x0, y0, x1, y1, width float64) {
	Stroke(p, x0, y0, x1, y1, width)
}

// BlitH implements Blitter.
func (p *Pen) BlitH(x, y, n int, alpha uint8) {
	for i := range n {
		p.add(x+i, y, alpha)
	}
}

// BlitV implements Blitter.
func (p *Pen) BlitV(x, y, n int, alpha uint8) {
	for i := range n {
		p.add(x, y+i, alpha)
	}
}

// BlitAntiH2 implements Blitter.
func (p *Pen) BlitAntiH2(x, y int, a0, a1 uint8) {
	p.add(x, y, a0)
	p.add(x+1, y, a1)
}

// BlitAntiV2 implements Blitter.
func (p *Pen) BlitAntiV2(x, y int, a0, a1 uint8) {
	p.add(x, y, a0)
	p.add(x, y+1, a1)
}

func (p *Pen) add(x, y int, alpha uint8) {
	if alpha == 0 || !(image.Point{X: x, Y: y}).In(p.img.Rect) {
		return
	}
	i := p.img.PixOffset(x, y)
	pix := p.img.Pix[i : i+4 : i+4]
	a := uint32(alpha)
	pix[0] = addChannel(pix[0], p.color.R, a)
	pix[1] = addChannel(pix[1], p.color.G, a)
	pix[2] = addChannel(pix[2], p.color.B, a)
	pix[3] = addChannel(pix[3], p.color.A, a)
}

//nolint:gosec // clamped to 255
func addChannel(dst, src uint8, a uint32) uint8 {
	return uint8(min(uint32(dst)+(uint32(src)*a+127)/255, 255))
}
