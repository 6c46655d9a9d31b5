package trochoid

import "fmt"

// NoParent is the parent index of the root circle.
const NoParent = -1

// Circle is one node of a rolling-circle chain.
//
// Radius and ThetaMod are configuration; Theta and Center are derived by
// [Chain.Resolve] and must not be set directly.
type Circle struct {
	Radius   float64
	ThetaMod float64
	Parent   int // index into the chain, NoParent for the root

	Theta  float64
	Center Point
}

// Chain is an ordered sequence of nested circles, outermost first.
// Circles are stored in an index-addressed arena; each circle refers to its
// enclosing circle by index and the root carries the NoParent sentinel.
type Chain struct {
	origin  Point
	circles []Circle
}

// NewChain builds a chain from radii (outermost first) and per-circle theta
// multipliers. thetaMods may list every circle or only the non-root ones;
// the root theta multiplier has no effect because the root never moves.
func NewChain(origin Point, radii, thetaMods []float64) (*Chain, error) {
	if len(radii) == 0 {
		return nil, &ConfigError{Field: "radii", Reason: "chain needs at least one circle"}
	}
	if !origin.IsFinite() {
		return nil, &ConfigError{Field: "origin", Reason: "must be finite"}
	}
	mods, err := expandThetaMods(len(radii), thetaMods)
	if err != nil {
		return nil, err
	}

	c := &Chain{
		origin:  origin,
		circles: make([]Circle, len(radii)),
	}
	for k, r := range radii {
		parent := k - 1
		if k == 0 {
			parent = NoParent
		}
		c.circles[k] = Circle{
			Radius:   r,
			ThetaMod: mods[k],
			Parent:   parent,
			Center:   origin,
		}
	}
	for k := range c.circles {
		if err := c.checkRadius(k, c.circles[k].Radius); err != nil {
			return nil, err
		}
		if !isFinite(c.circles[k].ThetaMod) {
			return nil, &ConfigError{Field: fmt.Sprintf("theta_mods[%d]", k), Reason: "must be finite"}
		}
	}
	return c, nil
}

func expandThetaMods(n int, mods []float64) ([]float64, error) {
	switch len(mods) {
	case n:
		return append([]float64(nil), mods...), nil
	case n - 1:
		return append([]float64{1}, mods...), nil
	}
	return nil, &ConfigError{
		Field:  "theta_mods",
		Reason: fmt.Sprintf("have %d values for %d circles, want %d or %d", len(mods), n, n, n-1),
	}
}

// checkRadius validates r as the radius of circle k against its neighbours.
func (c *Chain) checkRadius(k int, r float64) error {
	field := fmt.Sprintf("radii[%d]", k)
	if !isFinite(r) || r <= 0 {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("radius %g must be positive", r), Err: ErrNumericDegeneracy}
	}
	if p := c.circles[k].Parent; p != NoParent && r >= c.circles[p].Radius {
		return &ConfigError{
			Field:  field,
			Reason: fmt.Sprintf("radius %g must be smaller than parent radius %g", r, c.circles[p].Radius),
		}
	}
	if k+1 < len(c.circles) && c.circles[k+1].Radius >= r {
		return &ConfigError{
			Field:  field,
			Reason: fmt.Sprintf("radius %g must be larger than child radius %g", r, c.circles[k+1].Radius),
		}
	}
	return nil
}

// Len returns the number of circles in the chain.
func (c *Chain) Len() int { return len(c.circles) }

// Origin returns the fixed center of the root circle.
func (c *Chain) Origin() Point { return c.origin }

// Circle returns a copy of circle k.
func (c *Chain) Circle(k int) Circle { return c.circles[k] }

// Innermost returns a copy of the last circle of the chain.
func (c *Chain) Innermost() Circle { return c.circles[len(c.circles)-1] }

// Resolve updates every circle for sweep sample i (degrees of the shared
// sweep parameter, not time), parents before children.
//
// A child c inside parent p turns p.Radius/c.Radius times as fast as the
// sweep, which is the no-slip rolling constraint:
//
//	c.Theta  = (p.Radius / c.Radius) * i
//	c.Center = p.Center + Polar(p.Radius - c.Radius, c.Theta * c.ThetaMod)
//
// Resolve depends only on the chain configuration and i.
func (c *Chain) Resolve(i float64) error {
	for k := range c.circles {
		cc := &c.circles[k]
		if cc.Parent == NoParent {
			cc.Theta = 0
			cc.Center = c.origin
			continue
		}
		p := &c.circles[cc.Parent]
		if cc.Radius <= 0 || p.Radius <= 0 {
			return fmt.Errorf("%w: circle %d has radius %g inside %g", ErrNumericDegeneracy, k, cc.Radius, p.Radius)
		}
		cc.Theta = p.Radius / cc.Radius * i
		cc.Center = p.Center.Add(Polar(p.Radius-cc.Radius, cc.Theta*cc.ThetaMod))
		if !cc.Center.IsFinite() {
			return fmt.Errorf("%w: circle %d center not finite at sample %g", ErrNumericDegeneracy, k, i)
		}
	}
	return nil
}
