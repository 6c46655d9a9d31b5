package trochoid

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// lineState is a frame whose gradient is white everywhere.
func lineState() FrameState {
	white := RGB{R: 255, G: 255, B: 255}
	return FrameState{
		Params: Params{Radii: []float64{8, 4}, ThetaMods: []float64{1, 1}, ArmLengthMod: 1},
		Colors: Colors{Inner: white, Outer: white},
	}
}

func lit(img *image.RGBA, x, y int) bool {
	c := img.RGBAAt(x, y)
	return c.R != 0 || c.G != 0 || c.B != 0
}

func renderRow(t *testing.T, mode RenderMode, xs ...float64) (*image.RGBA, int) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 16, 16
	cfg.Mode, cfg.LineWidth = mode, 1

	r, err := NewRasterizer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	tr := NewTracer(len(xs))
	for _, x := range xs {
		tr.Record(Pt(x, 0))
	}
	res, err := r.Render(lineState(), Point{}, tr, nil)
	if err != nil {
		t.Fatalf("Render() = %v", err)
	}
	return res.Image, res.Skipped
}

func TestRasterizer_LineMode(t *testing.T) {
	points, _ := renderRow(t, RenderPoints, -6, -2, 2, 6)
	line, _ := renderRow(t, RenderLine, -6, -2, 2, 6)

	for _, x := range []int{2, 6, 10, 14} {
		if !lit(points, x, 8) || !lit(line, x, 8) {
			t.Errorf("sample pixel (%d, 8) not painted in both modes", x)
		}
	}
	for x := 3; x <= 13; x++ {
		if !lit(line, x, 8) {
			t.Errorf("line mode left (%d, 8) between samples empty", x)
		}
	}
	if lit(points, 4, 8) {
		t.Error("points mode painted (4, 8) between samples")
	}
	for x := range 16 {
		if lit(line, x, 6) || lit(line, x, 10) {
			t.Fatalf("line mode painted column %d two rows off the trace", x)
		}
	}
}

func TestRasterizer_LineModeSkipBreaksTrace(t *testing.T) {
	img, skipped := renderRow(t, RenderLine, -6, -2, 100, 2, 6)
	if skipped != 1 {
		t.Errorf("Skipped = %d, want 1", skipped)
	}
	if lit(img, 8, 8) {
		t.Error("segment drawn across a skipped sample")
	}
	if !lit(img, 4, 8) || !lit(img, 12, 8) {
		t.Error("segments next to the gap are missing")
	}
}

func TestRasterizer_Size(t *testing.T) {
	// The figure spans 2*30 + 1.5*3 = 64.5 world units.
	p := Params{Radii: []float64{30, 18, 3}, ArmLengthMod: 1.5}
	tests := []struct {
		name   string
		canvas Canvas
		scale  float64
		wantW  int
		wantH  int
	}{
		{"fixed", CanvasFixed, 1, 64, 48},
		{"fit", CanvasFit, 1, 75, 75},
		{"fit scaled", CanvasFit, 2, 139, 139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Width, cfg.Height = 64, 48
			cfg.Canvas, cfg.Scale = tt.canvas, tt.scale
			r, err := NewRasterizer(cfg)
			if err != nil {
				t.Fatal(err)
			}
			w, h := r.Size(p)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Size() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderModeCanvas_Text(t *testing.T) {
	for _, m := range []RenderMode{RenderPoints, RenderLine} {
		text, _ := m.MarshalText()
		var got RenderMode
		if err := got.UnmarshalText(text); err != nil || got != m {
			t.Errorf("roundtrip %v: got %v, %v", m, got, err)
		}
	}
	for _, c := range []Canvas{CanvasFixed, CanvasFit} {
		text, _ := c.MarshalText()
		var got Canvas
		if err := got.UnmarshalText(text); err != nil || got != c {
			t.Errorf("roundtrip %v: got %v, %v", c, got, err)
		}
	}
	var m RenderMode
	if err := m.UnmarshalText([]byte("spline")); err == nil {
		t.Error(`UnmarshalText("spline") succeeded`)
	}
	if diff := cmp.Diff("fit", CanvasFit.String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
}
