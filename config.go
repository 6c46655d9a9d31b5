package trochoid

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/trochoid/internal/frameio"
)

// IOPolicy decides what a failed image write does to the run.
type IOPolicy uint8

const (
	// IOContinue logs the failure with its frame index and moves on.
	IOContinue IOPolicy = iota

	// IOAbort stops the run with a *FrameError.
	IOAbort
)

var ioPolicyNames = [...]string{"continue", "abort"}

func (p IOPolicy) String() string {
	if int(p) < len(ioPolicyNames) {
		return ioPolicyNames[p]
	}
	return fmt.Sprintf("IOPolicy(%d)", p)
}

// MarshalText implements encoding.TextMarshaler.
func (p IOPolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *IOPolicy) UnmarshalText(text []byte) error {
	for i, name := range ioPolicyNames {
		if strings.EqualFold(string(text), name) {
			*p = IOPolicy(i)
			return nil
		}
	}
	return &ConfigError{Field: "io_policy", Reason: fmt.Sprintf("unknown policy %q", text)}
}

// OscillatorConfig is one [[oscillator]] entry of a preset. The oscillation
// starts from the configured value of its target, so a preset sets the
// initial value in exactly one place.
type OscillatorConfig struct {
	Target Target  `toml:"target"`
	Index  int     `toml:"index"` // circle index for per-circle targets
	Lo     float64 `toml:"lo"`
	Hi     float64 `toml:"hi"`
	Step   float64 `toml:"step"`
	Rising bool    `toml:"rising"`
}

func (oc OscillatorConfig) oscillator(start float64) Oscillator {
	return Oscillator{
		Target: oc.Target,
		Index:  oc.Index,
		Lo:     oc.Lo,
		Hi:     oc.Hi,
		Step:   oc.Step,
		Start:  start,
		Rising: oc.Rising,
	}
}

func (oc OscillatorConfig) name() string { return oc.oscillator(0).name() }

// Config is the frozen configuration of one run.
type Config struct {
	Width  int    `toml:"width"` // ignored with CanvasFit
	Height int    `toml:"height"`
	Canvas Canvas `toml:"canvas"`
	Frames int    `toml:"frames"`

	Radii        []float64 `toml:"radii"` // outermost first
	ThetaMods    []float64 `toml:"theta_mods"`
	ArmLengthMod float64   `toml:"arm_length_mod"`
	ArmThetaMod  float64   `toml:"arm_theta_mod"`

	Density   int     `toml:"sample_density"` // samples per degree
	Rotations int     `toml:"rotations_per_frame"`
	Scale     float64 `toml:"scale"` // pixels per world unit

	Inner     RGB `toml:"inner_colour"`
	Outer     RGB `toml:"outer_colour"`
	BandWidth int `toml:"band_width"`
	ColorStep int `toml:"colour_step"`

	Oscillators []OscillatorConfig `toml:"oscillator"`

	Mode      RenderMode `toml:"render_mode"`
	LineWidth float64    `toml:"line_width"` // output pixels, line mode only

	Bias      float64       `toml:"gradient_bias"`
	Normalize Normalization `toml:"normalize"`
	Space     ColorSpace    `toml:"colour_space"`
	Bounds    BoundsPolicy  `toml:"bounds"`

	Supersample int     `toml:"supersample"`
	Overlay     bool    `toml:"overlay"`
	OverlaySize float64 `toml:"overlay_size"`

	OutDir   string   `toml:"out_dir"`
	Prefix   string   `toml:"prefix"`
	Format   string   `toml:"format"`
	Quality  int      `toml:"jpeg_quality"`
	IOPolicy IOPolicy `toml:"io_policy"`

	Workers int `toml:"workers"` // 0 means GOMAXPROCS
}

// DefaultConfig returns the classic three-circle setup: a 4K sequence of one
// minute at 24 fps with the arm theta multiplier sweeping between -1.5 and 1.5.
func DefaultConfig() Config {
	return Config{
		Width:        3840,
		Height:       2160,
		Frames:       1440,
		Radii:        []float64{1050, 630, 300},
		ThetaMods:    []float64{1, -2.3, 1.4},
		ArmLengthMod: 1,
		ArmThetaMod:  -1.4,
		Density:      10,
		Rotations:    50,
		Scale:        1,
		Inner:        RGB{R: 0, G: 255, B: 255},
		Outer:        RGB{R: 255, G: 0, B: 0},
		BandWidth:    255,
		ColorStep:    1,
		Oscillators: []OscillatorConfig{{
			Target: TargetArmThetaMod,
			Lo:     -1.5,
			Hi:     1.5,
			Step:   1.0 / 300,
			Rising: true,
		}},
		Mode:        RenderPoints,
		LineWidth:   2,
		Normalize:   NormalizeExtent,
		Space:       SpaceRGB,
		Bounds:      BoundsSkip,
		Supersample: 1,
		OverlaySize: 24,
		OutDir:      "frames",
		Format:      "png",
		Quality:     90,
		IOPolicy:    IOContinue,
		Workers:     1,
	}
}

// LoadConfig reads a TOML preset on top of DefaultConfig. Keys that do not
// belong to Config are rejected. A preset that lists any [[oscillator]]
// replaces the default oscillators; keys an entry leaves out are zero.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	cfg.Oscillators = nil
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("trochoid: load config %s: %w", path, err)
	}
	if !md.IsDefined("oscillator") {
		cfg.Oscillators = DefaultConfig().Oscillators
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, &ConfigError{Field: undecoded[0].String(), Reason: "unknown key in " + path}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting as a *ConfigError.
func (c Config) Validate() error {
	type setting struct {
		field string
		v     int
	}
	var positive []setting
	if c.Canvas == CanvasFixed {
		positive = append(positive, setting{"width", c.Width}, setting{"height", c.Height})
	}
	positive = append(positive,
		setting{"frames", c.Frames},
		setting{"sample_density", c.Density},
		setting{"rotations_per_frame", c.Rotations},
		setting{"band_width", c.BandWidth},
	)
	for _, p := range positive {
		if p.v <= 0 {
			return &ConfigError{Field: p.field, Reason: fmt.Sprintf("%d must be positive", p.v)}
		}
	}

	if _, _, err := c.baseParams().Build(Point{}); err != nil {
		return err
	}
	if err := c.validateColors(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateOscillators()
}

func (c Config) baseParams() Params {
	return Params{
		Radii:        c.Radii,
		ThetaMods:    c.ThetaMods,
		ArmLengthMod: c.ArmLengthMod,
		ArmThetaMod:  c.ArmThetaMod,
	}
}

func (c Config) validateColors() error {
	if !c.Inner.InRange() {
		return &ConfigError{Field: "inner_colour", Reason: c.Inner.String() + " outside [0, 255]"}
	}
	if !c.Outer.InRange() {
		return &ConfigError{Field: "outer_colour", Reason: c.Outer.String() + " outside [0, 255]"}
	}
	if c.ColorStep < 0 {
		return &ConfigError{Field: "colour_step", Reason: fmt.Sprintf("%d must not be negative", c.ColorStep)}
	}
	if !isFinite(c.Bias) {
		return &ConfigError{Field: "gradient_bias", Reason: "must be finite"}
	}
	if int(c.Space) >= len(spaceNames) {
		return &ConfigError{Field: "colour_space", Reason: c.Space.String()}
	}
	if int(c.Normalize) >= len(normalizeNames) {
		return &ConfigError{Field: "normalize", Reason: c.Normalize.String()}
	}
	return nil
}

func (c Config) validateOutput() error {
	switch {
	case !isFinite(c.Scale) || c.Scale < 0:
		return &ConfigError{Field: "scale", Reason: fmt.Sprintf("%g must not be negative", c.Scale)}
	case c.Supersample < 0 || c.Supersample > 8:
		return &ConfigError{Field: "supersample", Reason: fmt.Sprintf("%d outside [0, 8]", c.Supersample)}
	case c.Workers < 0:
		return &ConfigError{Field: "workers", Reason: fmt.Sprintf("%d must not be negative", c.Workers)}
	case c.Quality < 0 || c.Quality > 100:
		return &ConfigError{Field: "jpeg_quality", Reason: fmt.Sprintf("%d outside [0, 100]", c.Quality)}
	case int(c.Bounds) >= len(boundsNames):
		return &ConfigError{Field: "bounds", Reason: c.Bounds.String()}
	case int(c.IOPolicy) >= len(ioPolicyNames):
		return &ConfigError{Field: "io_policy", Reason: c.IOPolicy.String()}
	case c.Overlay && (!isFinite(c.OverlaySize) || c.OverlaySize <= 0):
		return &ConfigError{Field: "overlay_size", Reason: fmt.Sprintf("%g must be positive", c.OverlaySize)}
	case int(c.Canvas) >= len(canvasNames):
		return &ConfigError{Field: "canvas", Reason: c.Canvas.String()}
	case int(c.Mode) >= len(renderModeNames):
		return &ConfigError{Field: "render_mode", Reason: c.Mode.String()}
	case c.Mode == RenderLine && (!isFinite(c.LineWidth) || c.LineWidth <= 0 || c.LineWidth > maxLineWidth):
		return &ConfigError{Field: "line_width", Reason: fmt.Sprintf("%g outside (0, %d]", c.LineWidth, maxLineWidth)}
	}
	if _, err := frameio.ParseFormat(c.Format); err != nil {
		return &ConfigError{Field: "format", Reason: err.Error(), Err: err}
	}
	return nil
}

// validateOscillators runs after the chain has been validated, so the theta
// multipliers expand without error.
func (c Config) validateOscillators() error {
	base := c.baseParams()
	mods, err := expandThetaMods(len(c.Radii), c.ThetaMods)
	if err != nil {
		return err
	}
	base.ThetaMods = mods

	seen := make(map[string]bool, len(c.Oscillators))
	for _, oc := range c.Oscillators {
		if int(oc.Target) >= len(targetNames) {
			return &ConfigError{Field: "oscillator " + oc.name(), Reason: "unknown target"}
		}
		name := oc.name()
		field := "oscillator " + name
		if oc.Target.perCircle() && (oc.Index < 0 || oc.Index >= len(c.Radii)) {
			return &ConfigError{Field: field, Reason: fmt.Sprintf("no circle %d in a chain of %d", oc.Index, len(c.Radii))}
		}
		if seen[name] {
			return &ConfigError{Field: field, Reason: "target oscillated twice"}
		}
		seen[name] = true

		start := base.get(oc.Target, oc.Index)
		if start < oc.Lo || start > oc.Hi {
			return &ConfigError{Field: field, Reason: fmt.Sprintf("configured value %g outside [%g, %g]", start, oc.Lo, oc.Hi)}
		}
		if err := oc.oscillator(start).Validate(); err != nil {
			return err
		}
		if oc.Target == TargetCircleRadius {
			if err := c.checkRadiusRange(oc); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkRadiusRange makes sure an oscillating radius can never reach its
// parent's or child's radius, taking their own oscillation into account.
func (c Config) checkRadiusRange(o OscillatorConfig) error {
	field := "oscillator " + o.name()
	if o.Lo <= 0 {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("lo %g must be positive", o.Lo), Err: ErrNumericDegeneracy}
	}
	k := o.Index
	if k > 0 {
		parentMin, _ := c.radiusRange(k - 1)
		if o.Hi >= parentMin {
			return &ConfigError{Field: field, Reason: fmt.Sprintf("hi %g reaches parent radius %g", o.Hi, parentMin)}
		}
	}
	if k+1 < len(c.Radii) {
		_, childMax := c.radiusRange(k + 1)
		if o.Lo <= childMax {
			return &ConfigError{Field: field, Reason: fmt.Sprintf("lo %g reaches child radius %g", o.Lo, childMax)}
		}
	}
	return nil
}

func (c Config) radiusRange(k int) (lo, hi float64) {
	for _, o := range c.Oscillators {
		if o.Target == TargetCircleRadius && o.Index == k {
			return o.Lo, o.Hi
		}
	}
	return c.Radii[k], c.Radii[k]
}
