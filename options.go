package trochoid

import (
	"image"
	"log/slog"
)

// FrameSink persists finished frames. The image is only valid for the
// duration of the call; sinks that keep it must copy it.
type FrameSink interface {
	WriteFrame(frame int, img image.Image) error
}

// Option configures a Sequencer during creation.
//
// Example:
//
//	seq, err := trochoid.NewSequencer(cfg,
//	    trochoid.WithWorkers(8),
//	    trochoid.WithLogger(slog.Default()),
//	)
type Option func(*options)

// options holds optional configuration for Sequencer creation.
type options struct {
	logger  *slog.Logger
	sink    FrameSink
	workers int // -1 = take Config.Workers
}

// defaultOptions returns the default sequencer options.
func defaultOptions() options {
	return options{
		logger:  nil, // resolved through Logger() on every use
		sink:    nil, // a file writer for Config.OutDir is created if nil
		workers: -1,
	}
}

// WithLogger sets a logger for this sequencer instead of the package-wide one.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSink replaces the file writer, e.g. to stream frames to an encoder
// or keep them in memory.
func WithSink(s FrameSink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithWorkers overrides Config.Workers. 0 uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.workers = n
		}
	}
}
