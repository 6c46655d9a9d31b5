package trochoid

import "fmt"

// BandCount is the number of bands in a colour cycle.
const BandCount = 5

// Colors holds the evolving gradient colours of one frame.
type Colors struct {
	Inner, Outer RGB
}

// Effective returns both colours clamped to [0, 255].
func (c Colors) Effective() Colors {
	return Colors{Inner: c.Inner.Clamp(), Outer: c.Outer.Clamp()}
}

// Historical per-band deltas, one step per frame.
var (
	innerDeltas = [BandCount]RGB{
		{G: -1},
		{R: 1},
		{R: -1, G: 1, B: -1},
		{R: 1, G: -1},
		{R: -1, G: 1, B: 1},
	}
	outerDeltas = [BandCount]RGB{
		{R: -1, G: 1, B: 1},
		{G: -1},
		{R: 1},
		{R: -1, G: 1, B: -1},
		{R: 1, G: -1},
	}
)

// ColorCycle is the five-band colour state machine. Each frame falls into one
// band of width BandWidth and that band adds a fixed delta to each colour.
//
// The stored colours are the unclamped running sums so that the state after
// any frame has a closed form (see At); clamp with [Colors.Effective] before
// rendering. With the historical deltas every channel's net change over one
// period is zero, so colours return to their start every 5*BandWidth frames.
type ColorCycle struct {
	BandWidth int
	Step      int
}

// NewColorCycle creates a colour cycle. step scales every delta.
func NewColorCycle(bandWidth, step int) (ColorCycle, error) {
	if bandWidth <= 0 {
		return ColorCycle{}, &ConfigError{Field: "band_width", Reason: fmt.Sprintf("%d must be positive", bandWidth)}
	}
	if step < 0 {
		return ColorCycle{}, &ConfigError{Field: "colour_step", Reason: fmt.Sprintf("%d must not be negative", step)}
	}
	return ColorCycle{BandWidth: bandWidth, Step: step}, nil
}

// Period returns the number of frames after which the band sequence repeats.
func (c ColorCycle) Period() int { return BandCount * c.BandWidth }

// Band returns the band selected for frame.
//
// Bands are tested from the highest to the lowest; the historical ranges are
// inclusive at both ends, so a boundary frame belongs to the higher band:
//
//	band 4: 4w <= i <= 5w
//	band 3: 3w <= i <= 4w
//	band 2: 2w <= i <= 3w
//	band 1:  w <= i <= 2w
//	band 0:  0 <= i <= w+1
//
// with i = frame mod 5w. Every band therefore owns exactly w frames.
func (c ColorCycle) Band(frame int) int {
	w := c.BandWidth
	i := frame % c.Period()
	if i < 0 {
		i += c.Period()
	}
	switch {
	case 4*w <= i && i <= 5*w:
		return 4
	case 3*w <= i && i <= 4*w:
		return 3
	case 2*w <= i && i <= 3*w:
		return 2
	case w <= i && i <= 2*w:
		return 1
	default:
		return 0
	}
}

// Delta returns the inner and outer deltas applied at frame.
func (c ColorCycle) Delta(frame int) Colors {
	b := c.Band(frame)
	return Colors{Inner: innerDeltas[b].Scale(c.Step), Outer: outerDeltas[b].Scale(c.Step)}
}

// Cycle applies the delta of frame's band to cs.
func (c ColorCycle) Cycle(cs Colors, frame int) Colors {
	d := c.Delta(frame)
	return Colors{Inner: cs.Inner.Add(d.Inner), Outer: cs.Outer.Add(d.Outer)}
}

// At returns the colours after cycling frames 0 through frame inclusive,
// starting from initial. It equals applying Cycle for each of those frames
// in order. A negative frame returns initial.
func (c ColorCycle) At(initial Colors, frame int) Colors {
	if frame < 0 {
		return initial
	}
	n := frame + 1
	w := c.BandWidth
	full, rem := n/c.Period(), n%c.Period()

	out := initial
	for b := range BandCount {
		count := full*w + min(max(rem-b*w, 0), w)
		out.Inner = out.Inner.Add(innerDeltas[b].Scale(count * c.Step))
		out.Outer = out.Outer.Add(outerDeltas[b].Scale(count * c.Step))
	}
	return out
}
