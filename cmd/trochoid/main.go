// Command trochoid renders an animated hypotrochoid sequence to image files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/trochoid"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("trochoid", flag.ContinueOnError)
	var (
		configPath  = fs.String("config", "", "TOML preset applied on top of the defaults")
		out         = fs.String("out", "", "output directory")
		prefix      = fs.String("prefix", "", "file name prefix")
		format      = fs.String("format", "", "image format: png, jpeg, bmp, tiff")
		frames      = fs.Int("frames", 0, "number of frames")
		width       = fs.Int("width", 0, "image width")
		height      = fs.Int("height", 0, "image height")
		rotations   = fs.Int("rotations", 0, "rotations per frame")
		density     = fs.Int("density", 0, "samples per degree")
		workers     = fs.Int("workers", -1, "frames rendered concurrently (0 = all CPUs)")
		supersample = fs.Int("supersample", 0, "render at N times the resolution and downscale")
		overlay     = fs.Bool("overlay", false, "draw the parameter readout on every frame")
		lineWidth   = fs.Float64("line-width", 0, "stroke width in pixels for -mode line")
		fit         = fs.Bool("fit", false, "size every frame to the figure instead of -width and -height")
		verbose     = fs.Bool("v", false, "debug logging")
	)
	var mode trochoid.RenderMode
	fs.TextVar(&mode, "mode", trochoid.RenderPoints, "render mode: points or line")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg := trochoid.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = trochoid.LoadConfig(*configPath); err != nil {
			return err
		}
	}

	// Only flags given on the command line override the preset.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.OutDir = *out
		case "prefix":
			cfg.Prefix = *prefix
		case "format":
			cfg.Format = *format
		case "frames":
			cfg.Frames = *frames
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "rotations":
			cfg.Rotations = *rotations
		case "density":
			cfg.Density = *density
		case "workers":
			cfg.Workers = *workers
		case "supersample":
			cfg.Supersample = *supersample
		case "overlay":
			cfg.Overlay = *overlay
		case "mode":
			cfg.Mode = mode
		case "line-width":
			cfg.LineWidth = *lineWidth
		case "fit":
			cfg.Canvas = trochoid.CanvasFixed
			if *fit {
				cfg.Canvas = trochoid.CanvasFit
			}
		}
	})

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	trochoid.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	seq, err := trochoid.NewSequencer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := seq.Run(ctx)
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("trochoid: %d of %d frames could not be written", report.Failed, report.Rendered)
	}
	return nil
}
