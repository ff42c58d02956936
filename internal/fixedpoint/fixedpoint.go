// Package fixedpoint implements signed 17.14 fixed-point arithmetic, the
// numeric representation the MLFQS scheduling policy uses for recent_cpu
// and load_avg so that it can run without a floating-point unit.
package fixedpoint

// T is a signed 17.14 fixed-point value: 17 bits of integer part (plus
// sign), 14 bits of fraction, held in an int64. f = 1<<14.
type T int64

const fbits = 14
const f = T(1) << fbits

// FromInt converts an integer to fixed point.
func FromInt(n int) T {
	return T(n) * f
}

// ToIntTrunc converts a fixed-point value to an integer, rounding toward zero.
func ToIntTrunc(x T) int {
	return int(x / f)
}

// ToIntRound converts a fixed-point value to an integer, rounding to nearest;
// ties round away from zero (add/subtract f/2 before truncating).
func ToIntRound(x T) int {
	if x >= 0 {
		return int((x + f/2) / f)
	}
	return int((x - f/2) / f)
}

// Add returns x+y for two fixed-point values.
func Add(x, y T) T { return x + y }

// Sub returns x-y for two fixed-point values.
func Sub(x, y T) T { return x - y }

// AddInt returns x+n, n an integer.
func AddInt(x T, n int) T { return x + FromInt(n) }

// SubInt returns x-n, n an integer.
func SubInt(x T, n int) T { return x - FromInt(n) }

// Mul returns x*y for two fixed-point values.
func Mul(x, y T) T { return T((int64(x) * int64(y)) / int64(f)) }

// Div returns x/y for two fixed-point values.
func Div(x, y T) T { return T((int64(x) * int64(f)) / int64(y)) }

// MulInt returns x*n, n an integer.
func MulInt(x T, n int) T { return x * T(n) }

// DivInt returns x/n, n an integer.
func DivInt(x T, n int) T { return x / T(n) }
