// Package raster draws anti-aliased line segments into RGBA frames.
//
// Segments are rasterized as hairlines in fixed point: each column (or row,
// for steep segments) splits its coverage between the two pixels straddling
// the exact line position. Wider strokes are built from parallel hairlines
// spaced at most one pixel apart.
package raster

import "math"

// maxCoord bounds coordinates so that 26.6 values still convert to 16.16
// without overflowing int32.
const maxCoord = 32766.0

// maxSpan is the longest axis extent handled in one pass; longer segments
// are split in half so slopes stay precise.
const maxSpan = fdot6(511 << dot6Shift)

// Blitter receives coverage-weighted pixel writes. Implementations clip to
// their own bounds.
type Blitter interface {
	// BlitH covers [x, x+n) of row y with alpha.
	BlitH(x, y, n int, alpha uint8)

	// BlitV covers [y, y+n) of column x with alpha.
	BlitV(x, y, n int, alpha uint8)

	// BlitAntiH2 covers (x, y) and (x+1, y) with two coverages.
	BlitAntiH2(x, y int, a0, a1 uint8)

	// BlitAntiV2 covers (x, y) and (x, y+1) with two coverages.
	BlitAntiV2(x, y int, a0, a1 uint8)
}

// Stroke draws the segment from (x0, y0) to (x1, y1) in pixel space, where
// pixel (i, j) spans [i, i+1) x [j, j+1). Widths up to one pixel draw a single
// hairline with coverage scaled by width. Zero-length segments draw nothing.
func Stroke(b Blitter, x0, y0, x1, y1, width float64) {
	if !(width > 0) {
		return
	}
	if width <= 1 {
		hairlineF(b, x0, y0, x1, y1, uint8(width*255))
		return
	}

	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 || math.IsInf(length, 0) || math.IsNaN(length) {
		return
	}
	nx, ny := -dy/length, dx/length

	n := int(math.Ceil(width))
	spacing := (width - 1) / float64(n-1)
	for k := range n {
		off := -(width-1)/2 + float64(k)*spacing
		ox, oy := nx*off, ny*off
		hairlineF(b, x0+ox, y0+oy, x1+ox, y1+oy, 255)
	}
}

func hairlineF(b Blitter, x0, y0, x1, y1 float64, alpha uint8) {
	if alpha == 0 || !clampSegment(&x0, &y0, &x1, &y1) {
		return
	}
	hairline(b, toDot6(x0), toDot6(y0), toDot6(x1), toDot6(y1), alpha)
}

// clampSegment rejects segments entirely beyond the safe coordinate range
// and clamps the rest into it.
func clampSegment(x0, y0, x1, y1 *float64) bool {
	for _, v := range []float64{*x0, *y0, *x1, *y1} {
		if math.IsNaN(v) {
			return false
		}
	}
	if (*x0 < -maxCoord && *x1 < -maxCoord) || (*x0 > maxCoord && *x1 > maxCoord) {
		return false
	}
	if (*y0 < -maxCoord && *y1 < -maxCoord) || (*y0 > maxCoord && *y1 > maxCoord) {
		return false
	}
	for _, v := range []*float64{x0, y0, x1, y1} {
		*v = min(max(*v, -maxCoord), maxCoord)
	}
	return true
}

func hairline(b Blitter, x0, y0, x1, y1 fdot6, alpha uint8) {
	dx, dy := abs6(x1-x0), abs6(y1-y0)
	if dx > maxSpan || dy > maxSpan {
		hx, hy := (x0>>1)+(x1>>1), (y0>>1)+(y1>>1)
		hairline(b, x0, y0, hx, hy, alpha)
		hairline(b, hx, hy, x1, y1, alpha)
		return
	}
	switch {
	case dx > dy:
		horizontal(b, x0, y0, x1, y1, alpha)
	case dy > 0:
		vertical(b, x0, y0, x1, y1, alpha)
	}
}

// endCoverage returns the partial coverage of the first and last pixel
// along the major axis.
func endCoverage(start, stop int, a0, a1 fdot6) (first, last fdot6) {
	if stop-start == 1 {
		return a1 - a0, 0
	}
	return dot6One - (a0 & dot6Mask), a1 & dot6Mask
}

// horizontal walks a shallow segment column by column.
func horizontal(b Blitter, x0, y0, x1, y1 fdot6, alpha uint8) {
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}
	start, stop := x0.floor(), x1.ceil()
	fy := y0.to16()
	if y0 == y1 {
		hspan(b, start, stop, fy, x0, x1, alpha)
		return
	}

	slope := div16(y1-y0, x1-x0)
	fy += fdot16((int32(32-(x0&dot6Mask))*int32(slope))>>dot6Shift) + dot16Half

	first, last := endCoverage(start, stop, x0, x1)
	if first < dot6One && start < stop {
		rowPair(b, start, fy, scale6(alpha, first))
		fy += slope
		start++
	}
	full := stop - start
	if last > 0 {
		full--
	}
	for x := start; x < start+full; x++ {
		rowPair(b, x, fy, alpha)
		fy += slope
	}
	if last > 0 && start+full < stop {
		rowPair(b, stop-1, fy, scale6(alpha, last))
	}
}

// vertical walks a steep segment row by row.
func vertical(b Blitter, x0, y0, x1, y1 fdot6, alpha uint8) {
	if y0 > y1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}
	start, stop := y0.floor(), y1.ceil()
	fx := x0.to16()
	if x0 == x1 {
		vspan(b, start, stop, fx, y0, y1, alpha)
		return
	}

	slope := div16(x1-x0, y1-y0)
	fx += fdot16((int32(32-(y0&dot6Mask))*int32(slope))>>dot6Shift) + dot16Half

	first, last := endCoverage(start, stop, y0, y1)
	if first < dot6One && start < stop {
		columnPair(b, fx, start, scale6(alpha, first))
		fx += slope
		start++
	}
	full := stop - start
	if last > 0 {
		full--
	}
	for y := start; y < start+full; y++ {
		columnPair(b, fx, y, alpha)
		fx += slope
	}
	if last > 0 && start+full < stop {
		columnPair(b, fx, stop-1, scale6(alpha, last))
	}
}

// hspan draws an exactly horizontal segment as runs on two rows.
func hspan(b Blitter, start, stop int, fy fdot16, x0, x1 fdot6, alpha uint8) {
	fy = max(fy+dot16Half, 0)
	y := fy.floor()
	lower := fy.frac8()
	upper := 255 - lower

	pair := func(x, n int, a uint8) {
		if la := mulAlpha(scaleOr(lower, a), alpha); la > 0 {
			b.BlitH(x, y, n, la)
		}
		if ua := mulAlpha(scaleOr(upper, a), alpha); ua > 0 && y > 0 {
			b.BlitH(x, y-1, n, ua)
		}
	}
	spans(start, stop, x0, x1, pair)
}

// vspan draws an exactly vertical segment as runs on two columns.
func vspan(b Blitter, start, stop int, fx fdot16, y0, y1 fdot6, alpha uint8) {
	fx = max(fx+dot16Half, 0)
	x := fx.floor()
	right := fx.frac8()
	left := 255 - right

	pair := func(y, n int, a uint8) {
		if ra := mulAlpha(scaleOr(right, a), alpha); ra > 0 {
			b.BlitV(x, y, n, ra)
		}
		if la := mulAlpha(scaleOr(left, a), alpha); la > 0 && x > 0 {
			b.BlitV(x-1, y, n, la)
		}
	}
	spans(start, stop, y0, y1, pair)
}

// fullCoverage marks a run that is not an end pixel.
const fullCoverage = 255

// scaleOr applies end-pixel coverage a (in 26.6 units scaled to 0..64, or
// fullCoverage) to the 8-bit split v.
func scaleOr(v, a uint8) uint8 {
	if a == fullCoverage {
		return v
	}
	return scale6(v, fdot6(a))
}

// spans emits the first partial pixel, the full run and the last partial
// pixel along one axis.
func spans(start, stop int, a0, a1 fdot6, emit func(at, n int, coverage uint8)) {
	first, last := endCoverage(start, stop, a0, a1)
	if first > 0 && start < stop {
		emit(start, 1, uint8(first))
		start++
	}
	n := stop - start
	if last > 0 {
		n--
	}
	if n > 0 {
		emit(start, n, fullCoverage)
	}
	if last > 0 && start+n < stop {
		emit(stop-1, 1, uint8(last))
	}
}

// rowPair splits alpha between the two rows around fy.
func rowPair(b Blitter, x int, fy fdot16, alpha uint8) {
	if alpha == 0 {
		return
	}
	fy = max(fy, 0)
	f := fy.frac8()
	b.BlitAntiV2(x, fy.floor()-1, mulAlpha(alpha, 255-f), mulAlpha(alpha, f))
}

// columnPair splits alpha between the two columns around fx.
func columnPair(b Blitter, fx fdot16, y int, alpha uint8) {
	if alpha == 0 {
		return
	}
	fx = max(fx, 0)
	f := fx.frac8()
	b.BlitAntiH2(fx.floor()-1, y, mulAlpha(alpha, 255-f), mulAlpha(alpha, f))
}
