package trochoid

import "fmt"

// Arm is a rigid segment anchored to the center of the innermost circle.
// Its End traces the roulette.
type Arm struct {
	LengthMod float64 // arm length as a multiple of the innermost radius
	ThetaMod  float64

	Theta      float64
	Start, End Point

	chain *Chain
}

// NewArm attaches an arm to the innermost circle of chain. The chain must
// have at least two circles: the arm angle is derived from the rolling ratio
// between the innermost circle and its parent.
func NewArm(chain *Chain, lengthMod, thetaMod float64) (*Arm, error) {
	if chain == nil || chain.Len() < 2 {
		return nil, &ConfigError{Field: "radii", Reason: "an arm needs a parent and a grandparent circle", Err: ErrSingleCircleArm}
	}
	if !isFinite(lengthMod) {
		return nil, &ConfigError{Field: "arm_length_mod", Reason: "must be finite"}
	}
	if !isFinite(thetaMod) {
		return nil, &ConfigError{Field: "arm_theta_mod", Reason: "must be finite"}
	}
	return &Arm{LengthMod: lengthMod, ThetaMod: thetaMod, chain: chain}, nil
}

// Resolve updates the arm from the chain's current state. Call it after
// [Chain.Resolve] for the same sample.
//
// The arm counter-rotates against its carrying circle:
//
//	Theta = -parent.Theta * (grandparent.Radius / parent.Radius)
func (a *Arm) Resolve() error {
	parent := &a.chain.circles[len(a.chain.circles)-1]
	grand := &a.chain.circles[parent.Parent]
	if parent.Radius <= 0 {
		return fmt.Errorf("%w: arm parent radius %g", ErrNumericDegeneracy, parent.Radius)
	}
	a.Theta = -parent.Theta * (grand.Radius / parent.Radius)
	a.Start = parent.Center
	a.End = parent.Center.Add(Polar(parent.Radius*a.LengthMod, a.Theta*a.ThetaMod))
	if !a.End.IsFinite() {
		return fmt.Errorf("%w: arm end not finite", ErrNumericDegeneracy)
	}
	return nil
}
