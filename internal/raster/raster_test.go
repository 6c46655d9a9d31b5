package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newCanvas(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func red(img *image.RGBA, x, y int) uint8 {
	return img.RGBAAt(x, y).R
}

func TestStroke_Horizontal(t *testing.T) {
	img := newCanvas(16, 16)
	NewPen(img).Line(2.5, 5.5, 12.5, 5.5, 1)

	for x := 3; x <= 11; x++ {
		if got := red(img, x, 5); got < 250 {
			t.Errorf("(%d, 5) = %d, want full coverage", x, got)
		}
		for _, y := range []int{4, 6} {
			if got := red(img, x, y); got != 0 {
				t.Errorf("(%d, %d) = %d, want 0", x, y, got)
			}
		}
	}
	for _, x := range []int{2, 12} {
		if got := red(img, x, 5); got < 100 || got > 160 {
			t.Errorf("end pixel (%d, 5) = %d, want about half coverage", x, got)
		}
	}
	for _, x := range []int{1, 13} {
		if got := red(img, x, 5); got != 0 {
			t.Errorf("(%d, 5) = %d, want 0 beyond the segment", x, got)
		}
	}
}

func TestStroke_Vertical(t *testing.T) {
	img := newCanvas(16, 16)
	NewPen(img).Line(5.5, 2.5, 5.5, 12.5, 1)

	for y := 3; y <= 11; y++ {
		if got := red(img, 5, y); got < 250 {
			t.Errorf("(5, %d) = %d, want full coverage", y, got)
		}
		for _, x := range []int{4, 6} {
			if got := red(img, x, y); got != 0 {
				t.Errorf("(%d, %d) = %d, want 0", x, y, got)
			}
		}
	}
}

func TestStroke_Diagonal(t *testing.T) {
	img := newCanvas(16, 16)
	NewPen(img).Line(2.5, 2.5, 12.5, 12.5, 1)

	for i := 3; i <= 11; i++ {
		if red(img, i, i) == 0 {
			t.Errorf("(%d, %d) not covered", i, i)
		}
	}
	for _, p := range []image.Point{{7, 12}, {12, 7}, {2, 12}} {
		if got := red(img, p.X, p.Y); got != 0 {
			t.Errorf("%v = %d, want 0 off the diagonal", p, got)
		}
	}
}

func TestStroke_Width(t *testing.T) {
	img := newCanvas(16, 16)
	NewPen(img).Line(2.5, 5.5, 12.5, 5.5, 2)

	for x := 4; x <= 10; x++ {
		if got := red(img, x, 5); got < 250 {
			t.Errorf("centre (%d, 5) = %d, want full coverage", x, got)
		}
		for _, y := range []int{4, 6} {
			if got := red(img, x, y); got < 100 || got > 160 {
				t.Errorf("edge (%d, %d) = %d, want about half coverage", x, y, got)
			}
		}
		for _, y := range []int{3, 7} {
			if got := red(img, x, y); got != 0 {
				t.Errorf("(%d, %d) = %d, want 0 outside the stroke", x, y, got)
			}
		}
	}
}

func TestStroke_Degenerate(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		width          float64
	}{
		{"zero length", 3.5, 3.5, 3.5, 3.5, 1},
		{"zero length wide", 3.5, 3.5, 3.5, 3.5, 3},
		{"zero width", 1.5, 1.5, 9.5, 9.5, 0},
		{"off raster", -50, -50, -20, -40, 1},
		{"beyond safe range", 1e9, 1e9, 2e9, 2e9, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newCanvas(8, 8)
			NewPen(img).Line(tt.x0, tt.y0, tt.x1, tt.y1, tt.width)
			if diff := cmp.Diff(newCanvas(8, 8).Pix, img.Pix); diff != "" {
				t.Errorf("raster changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStroke_ClipsToRaster(t *testing.T) {
	img := newCanvas(16, 16)
	NewPen(img).Line(-100.5, -100.5, 300.5, 300.5, 2)
	if red(img, 8, 8) == 0 {
		t.Error("segment crossing the raster left (8, 8) uncovered")
	}
}

func TestPen_Accumulates(t *testing.T) {
	img := newCanvas(4, 4)
	p := NewPen(img)
	p.SetColor(color.RGBA{R: 0xff, B: 0x40, A: 0xff})
	p.BlitAntiH2(1, 1, 128, 128)
	p.BlitH(1, 1, 1, 128)

	got := img.RGBAAt(1, 1)
	want := color.RGBA{R: 0xff, B: 0x40, A: 0xff}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("saturated pixel (-want +got):\n%s", diff)
	}
	if got := img.RGBAAt(2, 1); got.R != 128 || got.B != 32 {
		t.Errorf("half coverage = %+v, want R 128 B 32", got)
	}
}
