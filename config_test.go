package trochoid

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "width"},
		{"negative frames", func(c *Config) { c.Frames = -1 }, "frames"},
		{"zero density", func(c *Config) { c.Density = 0 }, "sample_density"},
		{"zero band", func(c *Config) { c.BandWidth = 0 }, "band_width"},
		{"inner out of range", func(c *Config) { c.Inner = RGB{0, 256, 0} }, "inner_colour"},
		{"outer out of range", func(c *Config) { c.Outer = RGB{-1, 0, 0} }, "outer_colour"},
		{"negative step", func(c *Config) { c.ColorStep = -1 }, "colour_step"},
		{"supersample", func(c *Config) { c.Supersample = 9 }, "supersample"},
		{"quality", func(c *Config) { c.Quality = 101 }, "jpeg_quality"},
		{"format", func(c *Config) { c.Format = "gif" }, "format"},
		{"workers", func(c *Config) { c.Workers = -2 }, "workers"},
		{"overlay size", func(c *Config) { c.Overlay, c.OverlaySize = true, 0 }, "overlay_size"},
		{"duplicate oscillator", func(c *Config) {
			c.Oscillators = append(c.Oscillators, c.Oscillators[0])
		}, "oscillator arm_theta_mod"},
		{"oscillator index", func(c *Config) {
			c.Oscillators = []OscillatorConfig{{Target: TargetCircleThetaMod, Index: 3, Lo: 0, Hi: 1, Step: 0.1}}
		}, "oscillator circle_theta_mod[3]"},
		{"radius reaches parent", func(c *Config) {
			c.Oscillators = []OscillatorConfig{{Target: TargetCircleRadius, Index: 1, Lo: 400, Hi: 1050, Step: 1}}
		}, "oscillator circle_radius[1]"},
		{"radius reaches child", func(c *Config) {
			c.Oscillators = []OscillatorConfig{{Target: TargetCircleRadius, Index: 1, Lo: 300, Hi: 700, Step: 1}}
		}, "oscillator circle_radius[1]"},
		{"configured value outside range", func(c *Config) { c.ArmThetaMod = 1.6 }, "oscillator arm_theta_mod"},
		{"radius outside range", func(c *Config) {
			c.Oscillators = []OscillatorConfig{{Target: TargetCircleRadius, Index: 2, Lo: 100, Hi: 200, Step: 1}}
		}, "oscillator circle_radius[2]"},
		{"line width", func(c *Config) { c.Mode, c.LineWidth = RenderLine, 0 }, "line_width"},
		{"render mode", func(c *Config) { c.Mode = RenderMode(7) }, "render_mode"},
		{"canvas", func(c *Config) { c.Canvas = Canvas(3) }, "canvas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if ce.Field != tt.wantField {
				t.Errorf("Field = %q, want %q (%v)", ce.Field, tt.wantField, err)
			}
		})
	}
}

func TestConfig_ValidateFitCanvas(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Canvas = CanvasFit
	cfg.Width, cfg.Height = 0, 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("fit canvas without a size: Validate() = %v", err)
	}

	cfg = DefaultConfig()
	cfg.LineWidth = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("line width is ignored in points mode: Validate() = %v", err)
	}
}

func TestConfig_ValidateChain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Radii = []float64{300}
	cfg.ThetaMods = nil
	if err := cfg.Validate(); !errors.Is(err, ErrSingleCircleArm) {
		t.Errorf("single circle: Validate() = %v, want ErrSingleCircleArm", err)
	}

	cfg = DefaultConfig()
	cfg.Radii = []float64{300, 300, 30}
	var ce *ConfigError
	if err := cfg.Validate(); !errors.As(err, &ce) {
		t.Errorf("equal radii: Validate() = %v, want *ConfigError", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.toml")
	preset := `
width = 1920
height = 1080
frames = 240
radii = [300, 180, 30]
theta_mods = [1, 1]
inner_colour = "#ffffff"
outer_colour = "10,20,30"
colour_space = "lab"
bounds = "clamp"
io_policy = "abort"
format = "jpeg"
render_mode = "line"
line_width = 1.5
canvas = "fit"

[[oscillator]]
target = "circle_radius"
index = 2
lo = 20
hi = 40
step = 0.5
rising = false
`
	if err := os.WriteFile(path, []byte(preset), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}

	want := DefaultConfig()
	want.Width, want.Height, want.Frames = 1920, 1080, 240
	want.Radii = []float64{300, 180, 30}
	want.ThetaMods = []float64{1, 1}
	want.Inner = RGB{255, 255, 255}
	want.Outer = RGB{10, 20, 30}
	want.Space = SpaceLab
	want.Bounds = BoundsClamp
	want.IOPolicy = IOAbort
	want.Format = "jpeg"
	want.Oscillators = []OscillatorConfig{{Target: TargetCircleRadius, Index: 2, Lo: 20, Hi: 40, Step: 0.5}}
	want.Mode = RenderLine
	want.LineWidth = 1.5
	want.Canvas = CanvasFit
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "widht = 10\n"},
		{"bad colour", "inner_colour = \"red\"\n"},
		{"bad target", "[[oscillator]]\ntarget = \"zoom\"\n"},
		{"invalid value", "frames = 0\n"},
		{"syntax", "width = \n"},
		{"oscillator start", "[[oscillator]]\ntarget = \"arm_theta_mod\"\nlo = -1\nhi = 1\nstep = 0.1\nstart = 0.5\n"},
		{"bad render mode", "render_mode = \"spline\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("LoadConfig() succeeded, want error")
			}
		})
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("LoadConfig(missing) succeeded")
	}
}

func loadPreset(t *testing.T, preset string) Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.toml")
	if err := os.WriteFile(path, []byte(preset), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	return cfg
}

func TestLoadConfig_OscillatorStartsFromSetting(t *testing.T) {
	cfg := loadPreset(t, "arm_theta_mod = 0.5\n")
	tl, err := NewTimeline(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := tl.StateAt(0).Params.ArmThetaMod, 0.5+1.0/300; math.Abs(got-want) > 1e-12 {
		t.Errorf("frame 0 arm theta mod = %v, want one step above the configured 0.5 (%v)", got, want)
	}
}

func TestLoadConfig_OscillatorsReplaceDefaults(t *testing.T) {
	tests := []struct {
		name   string
		preset string
		want   []OscillatorConfig
	}{
		{
			name:   "none listed",
			preset: "frames = 10\n",
			want:   DefaultConfig().Oscillators,
		},
		{
			name:   "missing keys are zero",
			preset: "[[oscillator]]\ntarget = \"arm_length_mod\"\nlo = 0.5\nhi = 2\nstep = 0.1\n",
			want:   []OscillatorConfig{{Target: TargetArmLengthMod, Lo: 0.5, Hi: 2, Step: 0.1}},
		},
		{
			name:   "empty list",
			preset: "oscillator = []\n",
			want:   []OscillatorConfig{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadPreset(t, tt.preset)
			if diff := cmp.Diff(tt.want, cfg.Oscillators); diff != "" {
				t.Errorf("oscillators mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIOPolicy_Text(t *testing.T) {
	for _, p := range []IOPolicy{IOContinue, IOAbort} {
		text, _ := p.MarshalText()
		var got IOPolicy
		if err := got.UnmarshalText(text); err != nil || got != p {
			t.Errorf("roundtrip %v: got %v, %v", p, got, err)
		}
	}
}

func TestLoadConfig_Presets(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("presets", "*.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no presets")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			if _, err := LoadConfig(path); err != nil {
				t.Errorf("LoadConfig(%s) = %v", path, err)
			}
		})
	}
}
