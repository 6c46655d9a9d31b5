package trochoid

import (
	"fmt"
	"math"
	"strings"
)

// Target names a parameter that can oscillate across the frame sequence.
type Target uint8

const (
	// TargetArmThetaMod oscillates the arm theta multiplier.
	TargetArmThetaMod Target = iota

	// TargetArmLengthMod oscillates the arm length multiplier.
	TargetArmLengthMod

	// TargetCircleRadius oscillates the radius of circle Index.
	TargetCircleRadius

	// TargetCircleThetaMod oscillates the theta multiplier of circle Index.
	TargetCircleThetaMod
)

var targetNames = [...]string{"arm_theta_mod", "arm_length_mod", "circle_radius", "circle_theta_mod"}

func (t Target) String() string {
	if int(t) < len(targetNames) {
		return targetNames[t]
	}
	return fmt.Sprintf("Target(%d)", t)
}

// MarshalText implements encoding.TextMarshaler.
func (t Target) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Target) UnmarshalText(text []byte) error {
	for i, name := range targetNames {
		if strings.EqualFold(string(text), name) {
			*t = Target(i)
			return nil
		}
	}
	return &ConfigError{Field: "oscillator.target", Reason: fmt.Sprintf("unknown target %q", text)}
}

func (t Target) perCircle() bool {
	return t == TargetCircleRadius || t == TargetCircleThetaMod
}

// Oscillator ping-pongs one parameter between Lo and Hi by Step per frame.
// Reaching a bound reverses direction; a step that would pass a bound is
// reflected back from it, so the value never leaves [Lo, Hi].
type Oscillator struct {
	Target Target
	Index  int // circle index for per-circle targets
	Lo     float64
	Hi     float64
	Step   float64
	Start  float64
	Rising bool
}

func (o Oscillator) name() string {
	if o.Target.perCircle() {
		return fmt.Sprintf("%s[%d]", o.Target, o.Index)
	}
	return o.Target.String()
}

// Validate checks the bounds, step and start value.
func (o Oscillator) Validate() error {
	field := "oscillator " + o.name()
	switch {
	case int(o.Target) >= len(targetNames):
		return &ConfigError{Field: field, Reason: "unknown target"}
	case !isFinite(o.Lo) || !isFinite(o.Hi) || !isFinite(o.Step) || !isFinite(o.Start):
		return &ConfigError{Field: field, Reason: "values must be finite"}
	case o.Lo >= o.Hi:
		return &ConfigError{Field: field, Reason: fmt.Sprintf("lo %g must be below hi %g", o.Lo, o.Hi)}
	case o.Step <= 0:
		return &ConfigError{Field: field, Reason: fmt.Sprintf("step %g must be positive", o.Step)}
	case o.Start < o.Lo || o.Start > o.Hi:
		return &ConfigError{Field: field, Reason: fmt.Sprintf("start %g outside [%g, %g]", o.Start, o.Lo, o.Hi)}
	}
	return nil
}

// Advance moves v one step in the given direction and returns the new value
// and direction.
func (o Oscillator) Advance(v float64, rising bool) (float64, bool) {
	if rising {
		v += o.Step
		if v >= o.Hi {
			v = o.Hi - (v - o.Hi)
			rising = false
		}
	} else {
		v -= o.Step
		if v <= o.Lo {
			v = o.Lo + (o.Lo - v)
			rising = true
		}
	}
	return math.Min(math.Max(v, o.Lo), o.Hi), rising
}

// At returns the value after n steps from Start. It is the closed form of
// calling Advance n times and does not accumulate rounding error.
func (o Oscillator) At(n int) float64 {
	v, _ := o.state(n)
	return v
}

// RisingAt reports the direction of travel after n steps.
func (o Oscillator) RisingAt(n int) bool {
	_, r := o.state(n)
	return r
}

// state unfolds the bounce onto a loop of length 2*(Hi-Lo): positions in
// [0, span] travel up from Lo, positions in (span, 2*span) travel down from Hi.
func (o Oscillator) state(n int) (float64, bool) {
	span := o.Hi - o.Lo
	if n <= 0 || span <= 0 || o.Step <= 0 {
		return o.Start, o.Rising
	}
	var u float64
	if o.Rising {
		u = o.Start - o.Lo
	} else {
		u = span + (o.Hi - o.Start)
	}
	u = math.Mod(u+float64(n)*o.Step, 2*span)

	var v float64
	rising := u < span
	if u <= span {
		v = o.Lo + u
	} else {
		v = o.Hi - (u - span)
	}
	return math.Min(math.Max(v, o.Lo), o.Hi), rising
}
