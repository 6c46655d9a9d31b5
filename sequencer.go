package trochoid

import (
	"context"
	"image"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/trochoid/internal/frameio"
	"github.com/gogpu/trochoid/internal/parallel"
)

// Frame is one rendered output frame.
type Frame struct {
	State   FrameState
	Image   *image.RGBA
	Points  int // traced samples
	Skipped int // samples dropped by BoundsSkip
	Elapsed time.Duration
}

// Report summarizes a run.
type Report struct {
	Rendered int
	Written  int
	Failed   int // writes that failed under IOContinue
	Skipped  int // out-of-bounds samples across all frames
	Elapsed  time.Duration
}

// scratch is the per-render working memory.
type scratch struct {
	tracer *Tracer
	pixels []Pixel
}

// Sequencer drives a whole run: for every frame it derives the frame state,
// sweeps the chain, rasterizes the trace and hands the image to the sink.
type Sequencer struct {
	cfg      Config
	timeline *Timeline
	raster   *Rasterizer
	sink     FrameSink
	workers  int
	logger   *slog.Logger

	scratch sync.Pool
}

// NewSequencer validates cfg and prepares a run. Configuration errors are
// reported here, before any frame is rendered.
func NewSequencer(cfg Config, opts ...Option) (*Sequencer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tl, err := newTimeline(cfg)
	if err != nil {
		return nil, err
	}
	raster, err := NewRasterizer(cfg)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if o.workers >= 0 {
		workers = o.workers
	}
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	sink := o.sink
	if sink == nil {
		// Validate has already accepted the format name.
		format, _ := frameio.ParseFormat(cfg.Format)
		w, err := frameio.NewWriter(cfg.OutDir, cfg.Prefix, format, cfg.Quality, cfg.Frames)
		if err != nil {
			return nil, err
		}
		sink = w
	}

	s := &Sequencer{
		cfg:      cfg,
		timeline: tl,
		raster:   raster,
		sink:     sink,
		workers:  workers,
		logger:   o.logger,
	}
	samples := SampleCount(cfg.Rotations, cfg.Density)
	s.scratch.New = func() any {
		return &scratch{tracer: NewTracer(samples)}
	}
	return s, nil
}

func (s *Sequencer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return Logger()
}

// Timeline returns the sequencer's frame-state timeline.
func (s *Sequencer) Timeline() *Timeline { return s.timeline }

// Workers returns the number of frames rendered concurrently.
func (s *Sequencer) Workers() int { return s.workers }

// RenderFrame renders a single frame without writing it. The caller owns
// the returned image and should pass the frame to Release when done.
func (s *Sequencer) RenderFrame(frame int) (*Frame, error) {
	start := time.Now()
	st := s.timeline.StateAt(frame)

	chain, arm, err := st.Params.Build(Point{})
	if err != nil {
		return nil, &FrameError{Frame: frame, Op: "render", Err: err}
	}

	sc := s.scratch.Get().(*scratch)
	defer s.scratch.Put(sc)

	if err := Sweep(chain, arm, sc.tracer, s.cfg.Rotations, s.cfg.Density); err != nil {
		return nil, &FrameError{Frame: frame, Op: "render", Err: err}
	}
	res, err := s.raster.Render(st, chain.Origin(), sc.tracer, sc.pixels)
	sc.pixels = res.Pixels[:0]
	points := sc.tracer.Len()
	sc.tracer.Reset()
	if err != nil {
		return nil, &FrameError{Frame: frame, Op: "render", Err: err}
	}

	f := &Frame{
		State:   st,
		Image:   res.Image,
		Points:  points,
		Skipped: res.Skipped,
		Elapsed: time.Since(start),
	}
	s.log().Debug("trochoid: frame rendered",
		"frame", frame,
		"points", points,
		"skipped", res.Skipped,
		"arm_theta_mod", st.Params.ArmThetaMod,
		"elapsed", f.Elapsed)
	if res.Skipped > 0 {
		s.log().Warn("trochoid: points outside raster skipped", "frame", frame, "skipped", res.Skipped)
	}
	return f, nil
}

// Release returns a frame's image buffer for reuse.
func (s *Sequencer) Release(f *Frame) {
	if f == nil || f.Image == nil {
		return
	}
	s.raster.Release(f.Image)
	f.Image = nil
}

// Run renders and writes every frame in order.
//
// With more than one worker, frames are rendered in batches on a worker pool;
// each frame derives its own state from the frame index, so no frame waits on
// another. A single writer persists frames in index order.
//
// Cancelling ctx stops the run between batches: frames that were already
// rendered are still written, then Run returns ctx.Err(). A render failure
// stops the run with a *FrameError; write failures follow Config.IOPolicy.
func (s *Sequencer) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	log := s.log()
	log.Info("trochoid: run started",
		"frames", s.cfg.Frames,
		"workers", s.workers,
		"samples_per_frame", SampleCount(s.cfg.Rotations, s.cfg.Density),
		"canvas", s.cfg.Canvas,
		"resolution", image.Pt(s.cfg.Width, s.cfg.Height),
		"render_mode", s.cfg.Mode)

	var pool *parallel.Pool
	if s.workers > 1 {
		pool = parallel.NewPool(s.workers)
		defer pool.Close()
	}

	// The writer must be able to finish after ctx is cancelled, so only its
	// own failure cancels the group.
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	frames := make(chan *Frame, s.workers)

	var rendered, written Report
	g.Go(func() error {
		defer close(frames)
		return s.produce(ctx, gctx, pool, frames, &rendered)
	})
	g.Go(func() error {
		return s.consume(frames, &written)
	})
	err := g.Wait()

	rep := Report{
		Rendered: rendered.Rendered,
		Skipped:  rendered.Skipped,
		Written:  written.Written,
		Failed:   written.Failed,
		Elapsed:  time.Since(start),
	}
	if err != nil {
		log.Error("trochoid: run stopped", "err", err, "written", rep.Written)
		return rep, err
	}
	log.Info("trochoid: run finished",
		"written", rep.Written,
		"failed", rep.Failed,
		"skipped", rep.Skipped,
		"elapsed", rep.Elapsed)
	return rep, nil
}

func (s *Sequencer) produce(ctx, gctx context.Context, pool *parallel.Pool, out chan<- *Frame, rep *Report) error {
	batch := max(s.workers, 1)
	results := make([]*Frame, batch)
	errs := make([]error, batch)

	for first := 0; first < s.cfg.Frames; first += batch {
		if err := ctx.Err(); err != nil {
			s.log().Info("trochoid: run cancelled", "next_frame", first)
			return err
		}

		count := min(batch, s.cfg.Frames-first)
		render := func(k int) {
			results[k], errs[k] = s.RenderFrame(first + k)
		}
		if pool == nil {
			for k := range count {
				render(k)
			}
		} else {
			pool.Run(count, render)
		}

		for k := range count {
			if errs[k] != nil {
				s.releaseAll(results[k:count])
				return errs[k]
			}
			rep.Rendered++
			rep.Skipped += results[k].Skipped
			select {
			case out <- results[k]:
				results[k] = nil
			case <-gctx.Done():
				s.releaseAll(results[k:count])
				return gctx.Err()
			}
		}
	}
	return nil
}

func (s *Sequencer) releaseAll(frames []*Frame) {
	for k, f := range frames {
		s.Release(f)
		frames[k] = nil
	}
}

func (s *Sequencer) consume(frames <-chan *Frame, rep *Report) error {
	log := s.log()
	for f := range frames {
		idx := f.State.Frame
		err := s.sink.WriteFrame(idx, f.Image)
		s.Release(f)
		if err != nil {
			if s.cfg.IOPolicy == IOAbort {
				return &FrameError{Frame: idx, Op: "write", Err: err}
			}
			rep.Failed++
			log.Warn("trochoid: frame write failed", "frame", idx, "err", err)
			continue
		}
		rep.Written++
		log.Info("trochoid: frame written", "frame", idx)
	}
	return nil
}
