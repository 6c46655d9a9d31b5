package trochoid

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an integer colour triple. Channels are nominally in [0, 255] but
// may drift outside while colours cycle; use Clamp before display.
type RGB struct {
	R, G, B int
}

// Add returns the channel-wise sum of c and d.
func (c RGB) Add(d RGB) RGB {
	return RGB{R: c.R + d.R, G: c.G + d.G, B: c.B + d.B}
}

// Scale returns every channel multiplied by n.
func (c RGB) Scale(n int) RGB {
	return RGB{R: c.R * n, G: c.G * n, B: c.B * n}
}

// Clamp restricts every channel to [0, 255].
func (c RGB) Clamp() RGB {
	return RGB{R: clamp255(c.R), G: clamp255(c.G), B: clamp255(c.B)}
}

// InRange reports whether every channel is within [0, 255].
func (c RGB) InRange() bool {
	return c == c.Clamp()
}

// RGBA returns the clamped colour as an opaque color.RGBA.
func (c RGB) RGBA() color.RGBA {
	k := c.Clamp()
	return color.RGBA{R: uint8(k.R), G: uint8(k.G), B: uint8(k.B), A: 255}
}

func (c RGB) String() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x int) int {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// ParseRGB parses "r,g,b" or a hex string ("#rrggbb", "#rgb").
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHexRGB(s[1:])
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("trochoid: colour %q: want r,g,b or #rrggbb", s)
	}
	var ch [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return RGB{}, fmt.Errorf("trochoid: colour %q: %w", s, err)
		}
		ch[i] = v
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

func parseHexRGB(hex string) (RGB, error) {
	var v uint64
	var err error
	switch len(hex) {
	case 3:
		v, err = strconv.ParseUint(hex, 16, 16)
		if err == nil {
			r, g, b := int(v>>8&0xf), int(v>>4&0xf), int(v&0xf)
			return RGB{R: r * 17, G: g * 17, B: b * 17}, nil
		}
	case 6:
		v, err = strconv.ParseUint(hex, 16, 32)
		if err == nil {
			return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
		}
	default:
		err = errors.New("want 3 or 6 hex digits")
	}
	return RGB{}, fmt.Errorf("trochoid: colour #%s: %w", hex, err)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RGB) UnmarshalText(text []byte) error {
	v, err := ParseRGB(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c RGB) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c RGB) colorful() colorful.Color {
	k := c.Clamp()
	return colorful.Color{R: float64(k.R) / 255, G: float64(k.G) / 255, B: float64(k.B) / 255}
}

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: int(r), G: int(g), B: int(b)}
}

// ColorSpace selects how the gradient interpolates between its colours.
type ColorSpace uint8

const (
	// SpaceRGB interpolates each sRGB channel linearly.
	SpaceRGB ColorSpace = iota

	// SpaceLab interpolates in CIE L*a*b*.
	SpaceLab

	// SpaceLuv interpolates in CIE L*u*v*.
	SpaceLuv

	// SpaceHCL interpolates hue, chroma and luminance.
	SpaceHCL
)

var spaceNames = [...]string{"rgb", "lab", "luv", "hcl"}

func (s ColorSpace) String() string {
	if int(s) < len(spaceNames) {
		return spaceNames[s]
	}
	return fmt.Sprintf("ColorSpace(%d)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s ColorSpace) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ColorSpace) UnmarshalText(text []byte) error {
	for i, name := range spaceNames {
		if strings.EqualFold(string(text), name) {
			*s = ColorSpace(i)
			return nil
		}
	}
	return &ConfigError{Field: "colour_space", Reason: fmt.Sprintf("unknown colour space %q", text)}
}

// Mix interpolates from inner (t=0) to outer (t=1).
//
// In SpaceRGB each channel is round(outer*t + inner*(1-t)) and the result is
// clamped to [0, 255]; t outside [0, 1] extrapolates before clamping. The
// perceptual spaces clamp t to [0, 1].
func Mix(inner, outer RGB, t float64, space ColorSpace) RGB {
	if space == SpaceRGB {
		return RGB{
			R: lerpChannel(inner.R, outer.R, t),
			G: lerpChannel(inner.G, outer.G, t),
			B: lerpChannel(inner.B, outer.B, t),
		}.Clamp()
	}

	t = math.Min(math.Max(t, 0), 1)
	a, b := inner.colorful(), outer.colorful()
	switch space {
	case SpaceLab:
		return fromColorful(a.BlendLab(b, t))
	case SpaceLuv:
		return fromColorful(a.BlendLuv(b, t))
	default:
		return fromColorful(a.BlendHcl(b, t))
	}
}

func lerpChannel(inner, outer int, t float64) int {
	return int(math.Round(float64(outer)*t + float64(inner)*(1-t)))
}
