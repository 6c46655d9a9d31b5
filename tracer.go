package trochoid

import (
	"fmt"
	"math"
	"strings"
)

// Tracer accumulates arm endpoints in sweep order.
//
// The buffer is unbounded within one pass and must be cleared with Reset
// between passes. Nothing is deduplicated.
type Tracer struct {
	points []Point
}

// NewTracer creates a tracer with room for capacity points.
func NewTracer(capacity int) *Tracer {
	if capacity < 0 {
		capacity = 0
	}
	return &Tracer{points: make([]Point, 0, capacity)}
}

// Record appends p to the trace.
func (t *Tracer) Record(p Point) {
	t.points = append(t.points, p)
}

// Len returns the number of recorded points.
func (t *Tracer) Len() int { return len(t.points) }

// Points returns the recorded points. The slice is only valid until the
// next Reset.
func (t *Tracer) Points() []Point { return t.points }

// Reset clears the trace but keeps its capacity.
func (t *Tracer) Reset() { t.points = t.points[:0] }

// Grow ensures room for n more points without reallocating.
func (t *Tracer) Grow(n int) {
	if cap(t.points)-len(t.points) >= n {
		return
	}
	grown := make([]Point, len(t.points), len(t.points)+n)
	copy(grown, t.points)
	t.points = grown
}

// BoundsPolicy decides what happens to a mapped point outside the raster.
type BoundsPolicy uint8

const (
	// BoundsSkip drops the point and counts it.
	BoundsSkip BoundsPolicy = iota

	// BoundsClamp pins the point to the nearest edge pixel.
	BoundsClamp

	// BoundsReject fails the whole mapping with an *OutOfBoundsError.
	BoundsReject
)

var boundsNames = [...]string{"skip", "clamp", "reject"}

func (b BoundsPolicy) String() string {
	if int(b) < len(boundsNames) {
		return boundsNames[b]
	}
	return fmt.Sprintf("BoundsPolicy(%d)", b)
}

// MarshalText implements encoding.TextMarshaler.
func (b BoundsPolicy) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BoundsPolicy) UnmarshalText(text []byte) error {
	for i, name := range boundsNames {
		if strings.EqualFold(string(text), name) {
			*b = BoundsPolicy(i)
			return nil
		}
	}
	return &ConfigError{Field: "bounds", Reason: fmt.Sprintf("unknown policy %q", text)}
}

// Pixel is a trace point mapped to output space. Index refers back to the
// world point in the tracer.
type Pixel struct {
	X, Y  int
	Index int
}

// OutputMapping describes the world-to-pixel transform.
//
// A world point p maps to
//
//	round((p - Center) * Scale + Size/2)
//
// per axis, where Size/2 uses integer division and round is math.Round
// (halves away from zero).
type OutputMapping struct {
	Width, Height int
	Center        Point
	Scale         float64 // zero means 1
	Policy        BoundsPolicy
}

// Map returns the pixel coordinates of p without any bounds handling.
func (m OutputMapping) Map(p Point) (x, y int) {
	s := m.Scale
	if s == 0 {
		s = 1
	}
	x = int(math.Round((p.X-m.Center.X)*s + float64(m.Width/2)))
	y = int(math.Round((p.Y-m.Center.Y)*s + float64(m.Height/2)))
	return x, y
}

// ToOutputSpace maps every recorded point into dst (reusing its storage) and
// returns the mapped pixels and the number of points dropped by BoundsSkip.
// Under BoundsReject the first out-of-range point stops the mapping.
func (t *Tracer) ToOutputSpace(dst []Pixel, m OutputMapping) ([]Pixel, int, error) {
	dst = dst[:0]
	skipped := 0
	for idx, p := range t.points {
		x, y := m.Map(p)
		if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
			switch m.Policy {
			case BoundsClamp:
				x = min(max(x, 0), m.Width-1)
				y = min(max(y, 0), m.Height-1)
			case BoundsReject:
				return dst, skipped, &OutOfBoundsError{Index: idx, X: x, Y: y, Width: m.Width, Height: m.Height}
			default:
				skipped++
				continue
			}
		}
		dst = append(dst, Pixel{X: x, Y: y, Index: idx})
	}
	return dst, skipped, nil
}

// SampleCount returns the number of sweep samples for one frame.
func SampleCount(rotations, density int) int {
	return rotations * 360 * density
}

// Sweep resets tr and records the arm end for every sample of
// rotations full turns at density samples per degree.
func Sweep(chain *Chain, arm *Arm, tr *Tracer, rotations, density int) error {
	if density <= 0 {
		return &ConfigError{Field: "sample_density", Reason: "must be positive"}
	}
	steps := SampleCount(rotations, density)
	tr.Reset()
	tr.Grow(steps)
	d := float64(density)
	for step := 0; step < steps; step++ {
		i := float64(step) / d
		if err := chain.Resolve(i); err != nil {
			return err
		}
		if err := arm.Resolve(); err != nil {
			return err
		}
		tr.Record(arm.End)
	}
	return nil
}
