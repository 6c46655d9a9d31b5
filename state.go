package trochoid

import (
	"math"
	"slices"
)

// Params are the geometric parameters of one frame.
type Params struct {
	Radii        []float64
	ThetaMods    []float64 // one per circle, root included
	ArmLengthMod float64
	ArmThetaMod  float64
}

func (p Params) clone() Params {
	p.Radii = slices.Clone(p.Radii)
	p.ThetaMods = slices.Clone(p.ThetaMods)
	return p
}

func (p *Params) set(t Target, idx int, v float64) {
	switch t {
	case TargetArmThetaMod:
		p.ArmThetaMod = v
	case TargetArmLengthMod:
		p.ArmLengthMod = v
	case TargetCircleRadius:
		p.Radii[idx] = v
	case TargetCircleThetaMod:
		p.ThetaMods[idx] = v
	}
}

// get returns the parameter set would overwrite.
func (p Params) get(t Target, idx int) float64 {
	switch t {
	case TargetArmThetaMod:
		return p.ArmThetaMod
	case TargetArmLengthMod:
		return p.ArmLengthMod
	case TargetCircleRadius:
		return p.Radii[idx]
	case TargetCircleThetaMod:
		return p.ThetaMods[idx]
	}
	return 0
}

// Extent returns the side length of the square that holds the figure: the
// outer diameter plus the arm reach of the innermost circle.
func (p Params) Extent() float64 {
	return math.Round(p.span())
}

func (p Params) span() float64 {
	if len(p.Radii) == 0 {
		return 0
	}
	return 2*p.Radii[0] + p.ArmLengthMod*p.Radii[len(p.Radii)-1]
}

// Build constructs the chain and arm described by p.
func (p Params) Build(origin Point) (*Chain, *Arm, error) {
	chain, err := NewChain(origin, p.Radii, p.ThetaMods)
	if err != nil {
		return nil, nil, err
	}
	arm, err := NewArm(chain, p.ArmLengthMod, p.ArmThetaMod)
	if err != nil {
		return nil, nil, err
	}
	return chain, arm, nil
}

// FrameState is the complete animation state of one frame. Frame doubles as
// the state's version: states are never mutated, the state of frame n is
// derived from the configuration and n alone.
type FrameState struct {
	Frame  int
	Params Params
	Colors Colors // unclamped running colours
}

// Timeline derives frame states from a frozen configuration.
type Timeline struct {
	base        Params
	oscillators []Oscillator
	initial     Colors
	cycle       ColorCycle
}

// NewTimeline validates cfg and returns its timeline.
func NewTimeline(cfg Config) (*Timeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newTimeline(cfg)
}

func newTimeline(cfg Config) (*Timeline, error) {
	mods, err := expandThetaMods(len(cfg.Radii), cfg.ThetaMods)
	if err != nil {
		return nil, err
	}
	cycle, err := NewColorCycle(cfg.BandWidth, cfg.ColorStep)
	if err != nil {
		return nil, err
	}
	base := Params{
		Radii:        slices.Clone(cfg.Radii),
		ThetaMods:    mods,
		ArmLengthMod: cfg.ArmLengthMod,
		ArmThetaMod:  cfg.ArmThetaMod,
	}
	oscillators := make([]Oscillator, len(cfg.Oscillators))
	for i, oc := range cfg.Oscillators {
		oscillators[i] = oc.oscillator(base.get(oc.Target, oc.Index))
	}
	return &Timeline{
		base:        base,
		oscillators: oscillators,
		initial:     Colors{Inner: cfg.Inner, Outer: cfg.Outer},
		cycle:       cycle,
	}, nil
}

// Cycle returns the timeline's colour cycle.
func (tl *Timeline) Cycle() ColorCycle { return tl.cycle }

// StateAt returns the state used to render frame. Oscillators start from
// the configured parameter values and have taken frame+1 steps (every frame
// advances its parameters before sweeping). Colours have been cycled for
// frames 0 through frame.
func (tl *Timeline) StateAt(frame int) FrameState {
	p := tl.base.clone()
	for _, o := range tl.oscillators {
		p.set(o.Target, o.Index, o.At(frame+1))
	}
	return FrameState{
		Frame:  frame,
		Params: p,
		Colors: tl.cycle.At(tl.initial, frame),
	}
}

// Next returns the state of the frame following st.
func (tl *Timeline) Next(st FrameState) FrameState {
	return tl.StateAt(st.Frame + 1)
}
