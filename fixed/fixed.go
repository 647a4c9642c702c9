// SPDX-License-Identifier: GPL-2.0-or-later

// Package fixed implements 16.16 fixed point arithmetic and binary angles.
// All simulation state is expressed with these types so that results are
// bit identical on every platform.
package fixed

import (
	gmath "math"
	"strconv"
)

const (
	FracBits = 16
	FracUnit = Fixed(1 << FracBits)

	MaxFixed = Fixed(gmath.MaxInt32)
	MinFixed = Fixed(gmath.MinInt32)
)

type Fixed int32

// FromInt converts a map unit integer to fixed point.
func FromInt(i int) Fixed {
	return Fixed(int32(i) << FracBits)
}

// FromFloat is only meant for configuration values and tests.
func FromFloat(f float64) Fixed {
	return Fixed(int32(gmath.Round(f * float64(FracUnit))))
}

func (f Fixed) Int() int {
	return int(int32(f) >> FracBits)
}

func (f Fixed) Float() float64 {
	return float64(f) / float64(FracUnit)
}

func (f Fixed) String() string {
	return strconv.FormatFloat(f.Float(), 'f', -1, 64)
}

func Mul(a, b Fixed) Fixed {
	return Fixed((int64(a) * int64(b)) >> FracBits)
}

// Div saturates instead of overflowing.
func Div(a, b Fixed) Fixed {
	if (Abs(a) >> 14) >= Abs(b) {
		if (a ^ b) < 0 {
			return MinFixed
		}
		return MaxFixed
	}
	return Fixed((int64(a) << FracBits) / int64(b))
}

func Abs(a Fixed) Fixed {
	if a < 0 {
		return -a
	}
	return a
}

// AproxDistance is the octagonal distance approximation used for all
// gameplay range checks.
func AproxDistance(dx, dy Fixed) Fixed {
	dx = Abs(dx)
	dy = Abs(dy)
	if dx < dy {
		return dx + dy - (dx >> 1)
	}
	return dx + dy - (dy >> 1)
}

// Lerp returns a + (b-a)*t.
func Lerp(t, a, b Fixed) Fixed {
	return a + Mul(b-a, t)
}
