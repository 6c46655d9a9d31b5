// Package overlay draws the optional parameter readout onto rendered frames.
//
// The readout is purely informational. Text is rendered with the embedded Go
// Regular font through golang.org/x/image/font; line widths for the backing
// panel come from HarfBuzz shaping so kerning is accounted for.
package overlay

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	gtlang "github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Circle is the readout of one chain circle.
type Circle struct {
	Radius   float64
	ThetaMod float64
}

// Info is everything the readout reports for one frame.
type Info struct {
	Frame        int
	Rotations    int
	Points       int
	ArmLengthMod float64
	ArmThetaMod  float64
	Circles      []Circle
}

// panelColor is the translucent backing behind the text.
var panelColor = color.RGBA{A: 160}

// Overlay renders readouts. It is safe for concurrent use; drawing is
// serialized because font faces keep internal caches.
type Overlay struct {
	mu sync.Mutex

	size    float64
	face    font.Face
	shape   *gtfont.Face
	shaper  shaping.HarfbuzzShaper
	printer *message.Printer

	ascent     int
	lineHeight int
}

// New creates an overlay with text of the given pixel size.
func New(size float64) (*Overlay, error) {
	if size <= 0 {
		return nil, fmt.Errorf("overlay: text size %g must be positive", size)
	}
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("overlay: parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72, // one point per pixel
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("overlay: create face: %w", err)
	}
	shape, err := gtfont.ParseTTF(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("overlay: parse shaping font: %w", err)
	}

	m := face.Metrics()
	return &Overlay{
		size:       size,
		face:       face,
		shape:      shape,
		printer:    message.NewPrinter(language.English),
		ascent:     m.Ascent.Ceil(),
		lineHeight: m.Height.Ceil(),
	}, nil
}

// Lines formats info, one parameter group per line.
func (o *Overlay) Lines(info Info) []string {
	p := o.printer
	lines := make([]string, 0, 3+len(info.Circles))
	lines = append(lines,
		p.Sprintf("frame %d", info.Frame),
		p.Sprintf("rotations %d  points %d", info.Rotations, info.Points),
		p.Sprintf("arm length %.3f  theta %.3f", info.ArmLengthMod, info.ArmThetaMod),
	)
	for k, c := range info.Circles {
		lines = append(lines, p.Sprintf("circle %d  radius %.2f  theta %.3f", k, c.Radius, c.ThetaMod))
	}
	return lines
}

// Measure returns the shaped advance width of line in pixels.
func (o *Overlay) Measure(line string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.measure(line)
}

func (o *Overlay) measure(line string) int {
	runes := []rune(line)
	if len(runes) == 0 {
		return 0
	}
	out := o.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      o.shape,
		Size:      fixed.Int26_6(o.size * 64),
		Script:    gtlang.Latin,
		Language:  gtlang.NewLanguage("en"),
	})
	return out.Advance.Ceil()
}

// Draw paints lines in a panel at the top-left corner of dst and returns the
// panel bounds. Nothing is drawn for an empty slice.
func (o *Overlay) Draw(dst draw.Image, lines []string) image.Rectangle {
	if len(lines) == 0 {
		return image.Rectangle{}
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	margin := max(o.lineHeight/2, 1)
	width := 0
	for _, l := range lines {
		width = max(width, o.measure(l))
	}
	panel := image.Rect(0, 0, width+2*margin, len(lines)*o.lineHeight+2*margin).
		Add(image.Pt(margin, margin)).
		Intersect(dst.Bounds())
	draw.Draw(dst, panel, image.NewUniform(panelColor), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: o.face,
	}
	for k, l := range lines {
		d.Dot = fixed.P(panel.Min.X+margin, panel.Min.Y+margin+o.ascent+k*o.lineHeight)
		d.DrawString(l)
	}
	return panel
}
