package raster

// fdot6 is a 26.6 fixed-point pixel coordinate: 64 subpixel positions.
type fdot6 int32

// fdot16 is a 16.16 fixed-point value for slopes and interpolation.
type fdot16 int32

const (
	dot6Shift        = 6
	dot6One   fdot6  = 1 << dot6Shift
	dot6Mask         = dot6One - 1
	dot16Shift       = 16
	dot16One  fdot16 = 1 << dot16Shift
	dot16Half        = dot16One / 2
)

func toDot6(f float64) fdot6 { return fdot6(f * float64(dot6One)) }

func (f fdot6) floor() int { return int(f >> dot6Shift) }

func (f fdot6) ceil() int { return int((f + dot6Mask) >> dot6Shift) }

func (f fdot6) to16() fdot16 { return fdot16(f) << (dot16Shift - dot6Shift) }

func (f fdot16) floor() int { return int(f >> dot16Shift) }

// frac8 returns the top eight fractional bits of f.
//
//nolint:gosec // masked to 8 bits
func (f fdot16) frac8() uint8 { return uint8((f >> 8) & 0xff) }

func abs6(f fdot6) fdot6 {
	if f < 0 {
		return -f
	}
	return f
}

// div16 returns a/b in 16.16. A zero divisor yields 0.
func div16(a, b fdot6) fdot16 {
	if b == 0 {
		return 0
	}
	return fdot16((int64(a) << dot16Shift) / int64(b))
}

// scale6 scales v by a coverage fraction f in [0, 64].
//
//nolint:gosec // (255 * 64) >> 6 = 255
func scale6(v uint8, f fdot6) uint8 {
	return uint8((int32(v) * int32(f)) >> dot6Shift)
}

// mulAlpha multiplies two 8-bit coverages.
//
//nolint:gosec // product of two uint8 shifted by 8 fits in uint8
func mulAlpha(a, b uint8) uint8 {
	return uint8((int(a) * int(b)) >> 8)
}
