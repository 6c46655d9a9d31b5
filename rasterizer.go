package trochoid

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/draw"

	"github.com/gogpu/trochoid/internal/frameio"
	"github.com/gogpu/trochoid/internal/overlay"
	"github.com/gogpu/trochoid/internal/raster"
)

// background is the colour of pixels the trace never touches.
var background = color.RGBA{A: 255}

// RenderMode selects how a trace is painted.
type RenderMode uint8

const (
	// RenderPoints writes every mapped sample as one pixel.
	RenderPoints RenderMode = iota

	// RenderLine strokes the trace as an anti-aliased polyline, each
	// segment coloured by the gradient at its midpoint.
	RenderLine
)

var renderModeNames = [...]string{"points", "line"}

func (m RenderMode) String() string {
	if int(m) < len(renderModeNames) {
		return renderModeNames[m]
	}
	return fmt.Sprintf("RenderMode(%d)", m)
}

// MarshalText implements encoding.TextMarshaler.
func (m RenderMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *RenderMode) UnmarshalText(text []byte) error {
	for i, name := range renderModeNames {
		if strings.EqualFold(string(text), name) {
			*m = RenderMode(i)
			return nil
		}
	}
	return &ConfigError{Field: "render_mode", Reason: fmt.Sprintf("unknown mode %q", text)}
}

// maxLineWidth caps line_width in output pixels.
const maxLineWidth = 64

// Canvas selects how the output size is chosen.
type Canvas uint8

const (
	// CanvasFixed renders every frame at the configured width and height.
	CanvasFixed Canvas = iota

	// CanvasFit sizes each frame to a square holding the figure: the scaled
	// extent plus FitMargin pixels.
	CanvasFit
)

// FitMargin is the padding in pixels that CanvasFit adds to the extent.
const FitMargin = 10

var canvasNames = [...]string{"fixed", "fit"}

func (c Canvas) String() string {
	if int(c) < len(canvasNames) {
		return canvasNames[c]
	}
	return fmt.Sprintf("Canvas(%d)", c)
}

// MarshalText implements encoding.TextMarshaler.
func (c Canvas) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Canvas) UnmarshalText(text []byte) error {
	for i, name := range canvasNames {
		if strings.EqualFold(string(text), name) {
			*c = Canvas(i)
			return nil
		}
	}
	return &ConfigError{Field: "canvas", Reason: fmt.Sprintf("unknown canvas %q", text)}
}

// Rasterizer turns a frame's trace into an opaque RGB image.
type Rasterizer struct {
	width, height int
	canvas        Canvas
	scale         float64
	supersample   int
	bias          float64
	normalize     Normalization
	space         ColorSpace
	bounds        BoundsPolicy
	rotations     int
	mode          RenderMode
	lineWidth     float64

	pool    *frameio.Pool
	overlay *overlay.Overlay // nil when disabled
}

// NewRasterizer creates a rasterizer for the output settings of cfg.
func NewRasterizer(cfg Config) (*Rasterizer, error) {
	r := &Rasterizer{
		width:       cfg.Width,
		height:      cfg.Height,
		canvas:      cfg.Canvas,
		scale:       cfg.Scale,
		supersample: max(cfg.Supersample, 1),
		bias:        cfg.Bias,
		normalize:   cfg.Normalize,
		space:       cfg.Space,
		bounds:      cfg.Bounds,
		rotations:   cfg.Rotations,
		mode:        cfg.Mode,
		lineWidth:   cfg.LineWidth,
		pool:        frameio.NewPool(max(cfg.Workers, 1) * 2),
	}
	if r.scale == 0 {
		r.scale = 1
	}
	if r.lineWidth == 0 {
		r.lineWidth = 1
	}
	if cfg.Overlay {
		ov, err := overlay.New(cfg.OverlaySize)
		if err != nil {
			return nil, err
		}
		r.overlay = ov
	}
	return r, nil
}

// Size returns the output size for a frame with parameters p.
func (r *Rasterizer) Size(p Params) (width, height int) {
	if r.canvas != CanvasFit {
		return r.width, r.height
	}
	side := math.Round(p.span()*r.scale) + FitMargin
	if !(side >= 1) {
		side = 1
	}
	return int(min(side, maxFitSide)), int(min(side, maxFitSide))
}

// maxFitSide keeps fitted frames within what the hairline stroker and the
// image encoders handle once supersampled.
const maxFitSide = 4000

// Mapping returns the world-to-pixel transform of the working raster, which
// is supersample times the output size of a frame with parameters p.
func (r *Rasterizer) Mapping(p Params, origin Point) OutputMapping {
	k := r.supersample
	w, h := r.Size(p)
	return OutputMapping{
		Width:  w * k,
		Height: h * k,
		Center: origin,
		Scale:  r.scale * float64(k),
		Policy: r.bounds,
	}
}

// Gradient returns the gradient for st centred on origin.
func (r *Rasterizer) Gradient(st FrameState, origin Point) Gradient {
	colors := st.Colors.Effective()
	width := st.Params.Extent()
	if r.normalize == NormalizeResolution {
		w, _ := r.Size(st.Params)
		width = float64(w) / r.scale
	}
	return Gradient{
		Inner:  colors.Inner,
		Outer:  colors.Outer,
		Center: origin,
		Width:  width,
		Bias:   r.bias,
		Space:  r.space,
	}
}

// Result describes one rasterized frame.
type Result struct {
	Image   *image.RGBA
	Pixels  []Pixel // mapped trace in working-raster space
	Skipped int
}

// Render maps the trace in tr and paints it into a freshly cleared buffer.
// pixels is scratch storage for the mapping and is returned in Result for
// reuse. The image must be handed back with Release once persisted.
func (r *Rasterizer) Render(st FrameState, origin Point, tr *Tracer, pixels []Pixel) (Result, error) {
	m := r.Mapping(st.Params, origin)
	pixels, skipped, err := tr.ToOutputSpace(pixels, m)
	if err != nil {
		return Result{Pixels: pixels}, err
	}

	g := r.Gradient(st, origin)
	img := r.pool.Get(m.Width, m.Height, background)
	if r.mode == RenderLine {
		r.stroke(img, g, tr.Points(), pixels)
	} else {
		plot(img, g, tr.Points(), pixels)
	}

	if k := r.supersample; k > 1 {
		dst := r.pool.Get(m.Width/k, m.Height/k, background)
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		r.pool.Put(img)
		img = dst
	}

	if r.overlay != nil {
		r.overlay.Draw(img, r.overlay.Lines(r.info(st, tr.Len())))
	}
	return Result{Image: img, Pixels: pixels, Skipped: skipped}, nil
}

func plot(img *image.RGBA, g Gradient, pts []Point, pixels []Pixel) {
	for _, px := range pixels {
		c := g.At(pts[px.Index]).RGBA()
		i := img.PixOffset(px.X, px.Y)
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
}

// stroke joins consecutive samples with segments. Samples dropped by
// BoundsSkip break the polyline; the segments on either side of the gap
// end at the last sample inside the raster.
func (r *Rasterizer) stroke(img *image.RGBA, g Gradient, pts []Point, pixels []Pixel) {
	pen := raster.NewPen(img)
	width := r.lineWidth * float64(r.supersample)
	for i := 1; i < len(pixels); i++ {
		a, b := pixels[i-1], pixels[i]
		if b.Index != a.Index+1 {
			continue
		}
		mid := pts[a.Index].Add(pts[b.Index]).Mul(0.5)
		pen.SetColor(g.At(mid).RGBA())
		pen.Line(float64(a.X)+0.5, float64(a.Y)+0.5, float64(b.X)+0.5, float64(b.Y)+0.5, width)
	}
}

func (r *Rasterizer) info(st FrameState, points int) overlay.Info {
	info := overlay.Info{
		Frame:        st.Frame,
		Rotations:    r.rotations,
		Points:       points,
		ArmLengthMod: st.Params.ArmLengthMod,
		ArmThetaMod:  st.Params.ArmThetaMod,
		Circles:      make([]overlay.Circle, len(st.Params.Radii)),
	}
	for k, radius := range st.Params.Radii {
		info.Circles[k] = overlay.Circle{Radius: radius, ThetaMod: st.Params.ThetaMods[k]}
	}
	return info
}

// Release returns a rendered image to the buffer pool.
func (r *Rasterizer) Release(img *image.RGBA) {
	r.pool.Put(img)
}
