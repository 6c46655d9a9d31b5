package trochoid

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNumericDegeneracy is returned when resolving a chain would divide by
	// a non-positive radius or produce a non-finite coordinate.
	ErrNumericDegeneracy = errors.New("trochoid: numeric degeneracy")

	// ErrSingleCircleArm is returned when an arm is attached to a chain that
	// has no grandparent circle.
	ErrSingleCircleArm = errors.New("trochoid: arm requires at least two circles")
)

// ConfigError reports an invalid configuration value detected at setup.
// No frame is rendered once a ConfigError has been returned.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	return "trochoid: invalid " + e.Field + ": " + e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }

// OutOfBoundsError is returned by [Tracer.ToOutputSpace] under [BoundsReject]
// when a mapped point falls outside the raster.
type OutOfBoundsError struct {
	Index         int // position of the point in sweep order
	X, Y          int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("trochoid: point %d maps to (%d, %d) outside %dx%d raster",
		e.Index, e.X, e.Y, e.Width, e.Height)
}

// FrameError wraps a failure that happened while producing or persisting a
// single frame.
type FrameError struct {
	Frame int
	Op    string // "render" or "write"
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("trochoid: frame %d: %s: %v", e.Frame, e.Op, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }
