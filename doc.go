// Package trochoid generates hypotrochoid-family roulette curves and renders
// them as coloured raster frames.
//
// # Overview
//
// A roulette is described by a chain of circles rolling inside one another
// without slipping. A rigid arm is fixed to the innermost circle and its
// endpoint traces the curve. Sweeping the shared sample parameter across many
// revolutions produces the trace, which is mapped to pixel space and coloured
// with a radial two-colour gradient.
//
// # Quick Start
//
//	cfg := trochoid.DefaultConfig()
//	cfg.Frames = 24
//	cfg.OutDir = "frames"
//
//	seq, err := trochoid.NewSequencer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := seq.Run(ctx)
//
// # Animation
//
// Free parameters (arm multipliers, circle radii and theta multipliers)
// ping-pong between two bounds across the frame sequence and the gradient
// colours cycle through a five-band state machine. Both are pure functions of
// the frame index (see [Timeline.StateAt]), so frames can be rendered in any
// order and on any number of workers.
//
// # Coordinate System
//
// World coordinates are centred on the chain origin. Angles are in degrees,
// 0 points along +X. Output pixels follow image conventions: origin top-left,
// X right, Y down.
package trochoid

// Version is the current version of the library.
const Version = "0.1.0"
