// SPDX-License-Identifier: GPL-2.0-or-later

package fixed

import (
	"math/bits"
)

// Angle is a binary angle, a full turn wraps at 1<<32.
type Angle uint32

const (
	Ang1   Angle = 0x00B60B61
	Ang45  Angle = 0x20000000
	Ang90  Angle = 0x40000000
	Ang180 Angle = 0x80000000
	Ang270 Angle = 0xC0000000
	AngMax Angle = 0xFFFFFFFF

	AngleToFineShift = 19
	FineAngles       = 8192
	FineMask         = FineAngles - 1

	slopeRange = 2048
	slopeBits  = 11
)

var (
	fineSine   [5 * FineAngles / 4]Fixed
	tanToAngle [slopeRange + 1]Angle
)

// The tables are built with integer arithmetic only, floating point
// results may differ between platforms. Intermediate values carry tabBits
// fraction bits.
const tabBits = 60

// mulShift multiplies two non-negative tabBits numbers.
func mulShift(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return hi<<(64-tabBits) | lo>>tabBits
}

// arctanInv returns atan(1/n).
func arctanInv(n uint64) uint64 {
	p := uint64(1<<tabBits) / n
	sum := p
	for k := uint64(1); ; k++ {
		p /= n * n
		d := p / (2*k + 1)
		if d == 0 {
			return sum
		}
		if k%2 == 1 {
			sum -= d
		} else {
			sum += d
		}
	}
}

// sinSeries returns sin(x) for 0 <= x <= pi/2.
func sinSeries(x uint64) uint64 {
	x2 := mulShift(x, x)
	sum, p := x, x
	for k := uint64(1); ; k++ {
		p = mulShift(p, x2) / (2 * k * (2*k + 1))
		if p == 0 {
			return sum
		}
		if k%2 == 1 {
			sum -= p
		} else {
			sum += p
		}
	}
}

// atanSeries returns atan(t) for 0 <= t <= 1/2.
func atanSeries(t uint64) uint64 {
	t2 := mulShift(t, t)
	sum, p := t, t
	for k := uint64(1); ; k++ {
		p = mulShift(p, t2)
		d := p / (2*k + 1)
		if d == 0 {
			return sum
		}
		if k%2 == 1 {
			sum -= d
		} else {
			sum += d
		}
	}
}

func init() {
	// Machin
	pi := 16*arctanInv(5) - 4*arctanInv(239)

	const q = FineAngles / 4
	var quarter [q + 1]Fixed
	for i := range quarter {
		x := (pi>>12)*uint64(i) + ((pi&0xFFF)*uint64(i))>>12
		s := sinSeries(x)
		quarter[i] = Fixed((s + 1<<(tabBits-FracBits-1)) >> (tabBits - FracBits))
	}
	quarter[q] = FracUnit
	for i := range fineSine {
		j := i % q
		switch (i / q) % 4 {
		case 0:
			fineSine[i] = quarter[j]
		case 1:
			fineSine[i] = quarter[q-j]
		case 2:
			fineSine[i] = -quarter[j]
		case 3:
			fineSine[i] = -quarter[q-j]
		}
	}

	for i := range tanToAngle {
		var at uint64
		if 2*i <= slopeRange {
			at = atanSeries(uint64(i) << (tabBits - slopeBits))
		} else {
			// atan(t) = pi/4 - atan((1-t)/(1+t))
			hi, lo := bits.Mul64(uint64(slopeRange-i), 1<<tabBits)
			u, _ := bits.Div64(hi, lo, uint64(slopeRange+i))
			at = pi/4 - atanSeries(u)
		}
		hi, lo := bits.Mul64(at, uint64(Ang180))
		a, _ := bits.Div64(hi, lo, pi)
		tanToAngle[i] = Angle(a)
	}
	tanToAngle[slopeRange] = Ang45
}

// Fine returns the index into the fine tables.
func (a Angle) Fine() int {
	return int(a >> AngleToFineShift)
}

func (a Angle) Sin() Fixed {
	return fineSine[a.Fine()]
}

func (a Angle) Cos() Fixed {
	return fineSine[a.Fine()+FineAngles/4]
}

func slopeDiv(num, den uint64) uint64 {
	if den < 512 {
		return slopeRange
	}
	ans := (num << 3) / (den >> 8)
	if ans > slopeRange {
		return slopeRange
	}
	return ans
}

// PointToAngle returns the angle of the vector (x2-x1, y2-y1).
func PointToAngle(x1, y1, x2, y2 Fixed) Angle {
	x := int64(x2) - int64(x1)
	y := int64(y2) - int64(y1)
	if x == 0 && y == 0 {
		return 0
	}
	ax, ay := uint64(abs64(x)), uint64(abs64(y))
	switch {
	case x >= 0 && y >= 0:
		if ax > ay {
			return tanToAngle[slopeDiv(ay, ax)]
		}
		return Ang90 - 1 - tanToAngle[slopeDiv(ax, ay)]
	case x < 0 && y >= 0:
		if ax > ay {
			return Ang180 - 1 - tanToAngle[slopeDiv(ay, ax)]
		}
		return Ang90 + tanToAngle[slopeDiv(ax, ay)]
	case x < 0:
		if ax > ay {
			return Ang180 + tanToAngle[slopeDiv(ay, ax)]
		}
		return Ang270 - 1 - tanToAngle[slopeDiv(ax, ay)]
	default:
		if ax > ay {
			return -tanToAngle[slopeDiv(ay, ax)]
		}
		return Ang270 + tanToAngle[slopeDiv(ax, ay)]
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
