package trochoid

import (
	"math"
	"testing"
)

func TestGradient_EqualColors(t *testing.T) {
	for _, c := range []RGB{{0, 0, 0}, {12, 200, 7}, {-40, 300, 128}} {
		g := Gradient{Inner: c, Outer: c, Width: 100}
		for _, p := range []Point{{}, {50, 50}, {1e6, -1e6}} {
			if got := g.At(p); got != c {
				t.Errorf("At(%v) with inner = outer = %v: got %v", p, c, got)
			}
		}
	}
}

func TestGradient_Endpoints(t *testing.T) {
	g := Gradient{
		Inner:  RGB{0, 255, 255},
		Outer:  RGB{255, 0, 0},
		Center: Pt(10, 20),
		Width:  200,
	}
	if got := g.At(g.Center); got != g.Inner {
		t.Errorf("At(center) = %v, want %v", got, g.Inner)
	}
	corner := g.Center.Add(Pt(100, 100))
	if tt := g.T(corner); math.Abs(tt-1) > 1e-12 {
		t.Errorf("T(corner) = %v, want 1", tt)
	}
	if got := g.At(corner); got != g.Outer {
		t.Errorf("At(corner) = %v, want %v", got, g.Outer)
	}
	if got := g.At(g.Center.Add(Pt(1e4, 0))); got != g.Outer {
		t.Errorf("At(far) = %v, want clamped %v", got, g.Outer)
	}
}

func TestGradient_Bias(t *testing.T) {
	g := Gradient{Inner: RGB{0, 0, 0}, Outer: RGB{200, 200, 200}, Width: 100, Bias: 0.1}
	if tt := g.T(Point{}); tt != -0.1 {
		t.Errorf("T(center) = %v, want -0.1", tt)
	}
	if got := g.At(Point{}); got != g.Inner {
		t.Errorf("At(center) = %v, want inner clamped to %v", got, g.Inner)
	}
}

func TestGradient_Idempotent(t *testing.T) {
	g := Gradient{Inner: RGB{3, 90, 250}, Outer: RGB{250, 4, 30}, Width: 640, Space: SpaceLab}
	p := Pt(123.4, -56.7)
	if a, b := g.At(p), g.At(p); a != b {
		t.Errorf("At not idempotent: %v then %v", a, b)
	}
}

func TestGradient_ZeroWidth(t *testing.T) {
	g := Gradient{Inner: RGB{1, 2, 3}, Outer: RGB{4, 5, 6}}
	if got := g.At(Pt(10, 10)); got != g.Inner {
		t.Errorf("At with zero width = %v, want inner", got)
	}
}

func TestNormalization_UnmarshalText(t *testing.T) {
	var n Normalization
	if err := n.UnmarshalText([]byte("resolution")); err != nil || n != NormalizeResolution {
		t.Errorf("UnmarshalText(resolution) = %v, %v", n, err)
	}
	if err := n.UnmarshalText([]byte("diagonal")); err == nil {
		t.Error("UnmarshalText(diagonal) succeeded")
	}
}
