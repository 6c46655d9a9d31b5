package trochoid

import (
	"fmt"
	"math"
	"strings"
)

// Normalization selects the length that maps to gradient position 1.
type Normalization uint8

const (
	// NormalizeExtent uses the figure extent (outer diameter plus arm reach).
	NormalizeExtent Normalization = iota

	// NormalizeResolution uses the output width converted to world units.
	NormalizeResolution
)

var normalizeNames = [...]string{"extent", "resolution"}

func (n Normalization) String() string {
	if int(n) < len(normalizeNames) {
		return normalizeNames[n]
	}
	return fmt.Sprintf("Normalization(%d)", n)
}

// MarshalText implements encoding.TextMarshaler.
func (n Normalization) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Normalization) UnmarshalText(text []byte) error {
	for i, name := range normalizeNames {
		if strings.EqualFold(string(text), name) {
			*n = Normalization(i)
			return nil
		}
	}
	return &ConfigError{Field: "normalize", Reason: fmt.Sprintf("unknown normalization %q", text)}
}

// Gradient is a radial two-colour gradient centred on the chain origin.
//
// A point at distance d from Center sits at
//
//	t = d / (sqrt(2) * Width/2) - Bias
//
// so the corner of a square of side Width is at t = 1 when Bias is zero.
type Gradient struct {
	Inner, Outer RGB
	Center       Point
	Width        float64
	Bias         float64
	Space        ColorSpace
}

// T returns the gradient position of p.
func (g Gradient) T(p Point) float64 {
	if g.Width <= 0 {
		return 0
	}
	return p.Distance(g.Center)/(math.Sqrt2*g.Width/2) - g.Bias
}

// At returns the colour for world point p. Equal inner and outer colours are
// returned unchanged without evaluating the distance.
func (g Gradient) At(p Point) RGB {
	if g.Inner == g.Outer {
		return g.Inner
	}
	return Mix(g.Inner, g.Outer, g.T(p), g.Space)
}
